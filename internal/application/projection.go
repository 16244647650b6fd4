package application

import (
	"time"

	"github.com/eshop-micro/services/internal/domain"
)

type OrderView struct {
	ID        int64           `json:"id"`
	BuyerID   string          `json:"buyer_id"`
	OrderDate time.Time       `json:"order_date"`
	Shipping  domain.Address  `json:"shipping"`
	Status    string          `json:"status"`
	Items     []OrderItemView `json:"items"`
	Total     float64         `json:"total"`
}

type OrderItemView struct {
	ID            int64   `json:"id"`
	CatalogItemID *int64  `json:"catalog_item_id,omitempty"`
	ProductName   *string `json:"product_name,omitempty"`
	PictureURI    *string `json:"picture_uri,omitempty"`
	UnitPrice     float64 `json:"unit_price"`
	Units         int     `json:"units"`
}

// NewOrderView projects a persisted order into its response shape. The total
// is recomputed from the items on every call; prices come out as floats only
// for display.
func NewOrderView(o *domain.Order) OrderView {
	items := make([]OrderItemView, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemView{
			ID:            it.ID,
			CatalogItemID: it.CatalogItemID,
			ProductName:   it.ProductName,
			PictureURI:    it.PictureURI,
			UnitPrice:     it.UnitPrice.InexactFloat64(),
			Units:         it.Units,
		})
	}
	return OrderView{
		ID:        o.ID,
		BuyerID:   o.BuyerID,
		OrderDate: o.OrderDate.UTC(),
		Shipping:  o.ShipTo,
		Status:    o.Status,
		Items:     items,
		Total:     o.Total().InexactFloat64(),
	}
}
