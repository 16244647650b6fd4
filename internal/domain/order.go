package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const StatusPending = "PENDING"

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Zip     string `json:"zip"`
}

// Order owns its Items: they are inserted with it in one transaction and
// never edited in place afterwards.
type Order struct {
	ID        int64
	BuyerID   string
	OrderDate time.Time
	ShipTo    Address
	Status    string
	Items     []OrderItem
}

type OrderItem struct {
	ID            int64
	OrderID       int64
	CatalogItemID *int64
	ProductName   *string
	PictureURI    *string
	UnitPrice     decimal.Decimal
	Units         int
}

// Total is Σ(unit_price × units) over the current items. Derived, never
// stored.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Units))))
	}
	return total
}
