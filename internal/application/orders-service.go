package application

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eshop-micro/services/internal/domain"
	"github.com/eshop-micro/services/internal/logger"
	"github.com/eshop-micro/services/internal/repository"
)

// StockConfirmKey routes stock-confirmation events on the topic exchange.
const StockConfirmKey = "catalog_item_stock.confirm"

type StockPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type Dispatcher interface {
	Dispatch(task string, fn func(ctx context.Context) error)
}

type CreateOrderRequest struct {
	BuyerID  string          `json:"buyer_id"`
	BasketID int64           `json:"basket_id"`
	Shipping domain.Address  `json:"shipping"`
	Items    []OrderItemSpec `json:"items"`
}

type OrderItemSpec struct {
	CatalogItemID *int64          `json:"catalog_item_id,omitempty"`
	ProductName   *string         `json:"product_name,omitempty"`
	PictureURI    *string         `json:"picture_uri,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Units         int             `json:"units"`
}

// EventItem is the outbound stock-confirmation record. Transient: built for
// the broker payload, never persisted.
type EventItem struct {
	ItemID   int64 `json:"itemId"`
	Amount   int   `json:"amount"`
	BasketID int64 `json:"basketId"`
}

type OrdersService struct {
	repo      repository.OrderRepo
	publisher StockPublisher
	tasks     Dispatcher
}

func NewOrdersService(repo repository.OrderRepo, pub StockPublisher, tasks Dispatcher) *OrdersService {
	return &OrdersService{repo: repo, publisher: pub, tasks: tasks}
}

// CreateOrder assembles the aggregate, persists it atomically, and schedules
// the stock-confirmation publish. The publish is fire-and-forget: its outcome
// never reaches the caller, and a broker failure never rolls back the
// committed order. Prices and counts are accepted as submitted; there is no
// business validation here.
func (s *OrdersService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderView, error) {
	order := &domain.Order{
		BuyerID:   req.BuyerID,
		OrderDate: time.Now().UTC(), // server-authoritative, client dates ignored
		ShipTo:    req.Shipping,
		Status:    domain.StatusPending,
	}
	for _, it := range req.Items {
		order.Items = append(order.Items, domain.OrderItem{
			CatalogItemID: it.CatalogItemID,
			ProductName:   it.ProductName,
			PictureURI:    it.PictureURI,
			UnitPrice:     it.UnitPrice,
			Units:         it.Units,
		})
	}

	if err := s.repo.Insert(ctx, order); err != nil {
		logger.Warn("order insert failed", "buyer", req.BuyerID, "err", err)
		return nil, err
	}

	s.dispatchStockConfirm(order, req.BasketID)

	view := NewOrderView(order)
	return &view, nil
}

func (s *OrdersService) dispatchStockConfirm(order *domain.Order, basketID int64) {
	confirm := make([]EventItem, 0, len(order.Items))
	for _, it := range order.Items {
		if it.CatalogItemID == nil {
			continue
		}
		confirm = append(confirm, EventItem{
			ItemID:   *it.CatalogItemID,
			Amount:   it.Units,
			BasketID: basketID,
		})
	}

	orderID := order.ID
	s.tasks.Dispatch("stock-confirm", func(ctx context.Context) error {
		if err := s.publisher.Publish(ctx, StockConfirmKey, confirm); err != nil {
			return fmt.Errorf("stock confirm for order %d: %w", orderID, err)
		}
		return nil
	})
}

// GetOrder returns the read projection for one order, or
// repository.ErrOrderNotFound.
func (s *OrdersService) GetOrder(ctx context.Context, id int64) (*OrderView, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewOrderView(order)
	return &view, nil
}

// ListOrdersForBuyer returns every order for the buyer, newest first. A
// buyer with no orders gets an empty slice, not an error.
func (s *OrdersService) ListOrdersForBuyer(ctx context.Context, buyerID string) ([]OrderView, error) {
	orders, err := s.repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, NewOrderView(&orders[i]))
	}
	return views, nil
}
