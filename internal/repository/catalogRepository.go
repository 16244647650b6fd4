package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eshop-micro/services/internal/domain"
)

var ErrCatalogItemNotFound = errors.New("catalog item not found")

type ItemFilter struct {
	BrandID *int64
	TypeID  *int64
}

type CatalogRepo interface {
	GetItem(ctx context.Context, id int64) (*domain.CatalogItem, error)
	ListItems(ctx context.Context, filter ItemFilter) ([]domain.CatalogItem, error)
	AddItem(ctx context.Context, item *domain.CatalogItem) error
	UpdateItem(ctx context.Context, item *domain.CatalogItem) error
	DeleteItem(ctx context.Context, id int64) error
	ListBrands(ctx context.Context) ([]domain.CatalogBrand, error)
	ListTypes(ctx context.Context) ([]domain.CatalogType, error)
}

type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(p *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: p}
}

const catalogItemColumns = `id, name, description, price, picture_uri, catalog_type_id, catalog_brand_id`

func (r *CatalogRepository) GetItem(ctx context.Context, id int64) (*domain.CatalogItem, error) {
	var it domain.CatalogItem
	err := r.pool.QueryRow(ctx,
		`SELECT `+catalogItemColumns+` FROM catalog_items WHERE id = $1`,
		id,
	).Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.PictureURI, &it.CatalogTypeID, &it.CatalogBrandID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCatalogItemNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *CatalogRepository) ListItems(ctx context.Context, filter ItemFilter) ([]domain.CatalogItem, error) {
	query := `SELECT ` + catalogItemColumns + ` FROM catalog_items WHERE ($1::bigint IS NULL OR catalog_brand_id = $1)
		 AND ($2::bigint IS NULL OR catalog_type_id = $2) ORDER BY id`

	rows, err := r.pool.Query(ctx, query, filter.BrandID, filter.TypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.CatalogItem{}
	for rows.Next() {
		var it domain.CatalogItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.PictureURI, &it.CatalogTypeID, &it.CatalogBrandID); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *CatalogRepository) AddItem(ctx context.Context, item *domain.CatalogItem) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO catalog_items (name, description, price, picture_uri, catalog_type_id, catalog_brand_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		item.Name, item.Description, item.Price, item.PictureURI, item.CatalogTypeID, item.CatalogBrandID,
	).Scan(&item.ID)
}

func (r *CatalogRepository) UpdateItem(ctx context.Context, item *domain.CatalogItem) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE catalog_items
		 SET name = $2, description = $3, price = $4, picture_uri = $5, catalog_type_id = $6, catalog_brand_id = $7
		 WHERE id = $1`,
		item.ID, item.Name, item.Description, item.Price, item.PictureURI, item.CatalogTypeID, item.CatalogBrandID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCatalogItemNotFound
	}
	return nil
}

func (r *CatalogRepository) DeleteItem(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM catalog_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCatalogItemNotFound
	}
	return nil
}

func (r *CatalogRepository) ListBrands(ctx context.Context) ([]domain.CatalogBrand, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, brand FROM catalog_brands ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	brands := []domain.CatalogBrand{}
	for rows.Next() {
		var b domain.CatalogBrand
		if err := rows.Scan(&b.ID, &b.Brand); err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

func (r *CatalogRepository) ListTypes(ctx context.Context) ([]domain.CatalogType, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, type FROM catalog_types ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := []domain.CatalogType{}
	for rows.Next() {
		var t domain.CatalogType
		if err := rows.Scan(&t.ID, &t.Type); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}
