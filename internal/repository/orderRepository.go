package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eshop-micro/services/internal/domain"
	"github.com/eshop-micro/services/internal/logger"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepo interface {
	Insert(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error)
}

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(p *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: p}
}

// Insert writes the order header and all item rows in one transaction and
// fills in the generated ids. Either every row lands or none do.
func (r *OrderRepository) Insert(ctx context.Context, o *domain.Order) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	defer func() {
		if tx != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var orderID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO orders
			(buyer_id, order_date, ship_street, ship_city, ship_state, ship_country, ship_zip, status)
		 VALUES
			($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		o.BuyerID,
		o.OrderDate,
		o.ShipTo.Street,
		o.ShipTo.City,
		o.ShipTo.State,
		o.ShipTo.Country,
		o.ShipTo.Zip,
		o.Status,
	).Scan(&orderID)
	if err != nil {
		logger.Warn("order header insert failed", "err", err)
		return err
	}

	if len(o.Items) > 0 {
		batch := &pgx.Batch{}
		for _, it := range o.Items {
			batch.Queue(
				`INSERT INTO order_items
					(order_id, catalog_item_id, product_name, picture_uri, unit_price, units)
				 VALUES ($1, $2, $3, $4, $5, $6)
				 RETURNING id`,
				orderID,
				it.CatalogItemID,
				it.ProductName,
				it.PictureURI,
				it.UnitPrice,
				it.Units,
			)
		}
		br := tx.SendBatch(ctx, batch)
		for i := range o.Items {
			if err := br.QueryRow().Scan(&o.Items[i].ID); err != nil {
				_ = br.Close()
				return err
			}
			o.Items[i].OrderID = orderID
		}
		if err := br.Close(); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Warn("order insert commit failed", "err", err)
		return err
	}
	tx = nil
	o.ID = orderID
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx,
		`SELECT id, buyer_id, order_date, ship_street, ship_city, ship_state, ship_country, ship_zip, status
		 FROM orders WHERE id = $1`,
		id,
	).Scan(
		&o.ID,
		&o.BuyerID,
		&o.OrderDate,
		&o.ShipTo.Street,
		&o.ShipTo.City,
		&o.ShipTo.State,
		&o.ShipTo.Country,
		&o.ShipTo.Zip,
		&o.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	items, err := r.loadItems(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	if o.Items == nil {
		o.Items = []domain.OrderItem{}
	}
	return &o, nil
}

func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, buyer_id, order_date, ship_street, ship_city, ship_state, ship_country, ship_zip, status
		 FROM orders WHERE buyer_id = $1
		 ORDER BY order_date DESC`,
		buyerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	ids := []int64{}
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID,
			&o.BuyerID,
			&o.OrderDate,
			&o.ShipTo.Street,
			&o.ShipTo.City,
			&o.ShipTo.State,
			&o.ShipTo.Country,
			&o.ShipTo.Zip,
			&o.Status,
		); err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []domain.OrderItem{}
		}
	}
	return orders, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, catalog_item_id, product_name, picture_uri, unit_price, units
		 FROM order_items WHERE order_id = ANY($1)
		 ORDER BY id`,
		orderIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(
			&it.ID,
			&it.OrderID,
			&it.CatalogItemID,
			&it.ProductName,
			&it.PictureURI,
			&it.UnitPrice,
			&it.Units,
		); err != nil {
			return nil, err
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}
