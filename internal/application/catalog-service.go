package application

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/eshop-micro/services/internal/domain"
	"github.com/eshop-micro/services/internal/repository"
)

type CatalogItemInput struct {
	ID             int64           `json:"id,omitempty"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	PictureURI     string          `json:"picture_uri,omitempty"`
	CatalogTypeID  int64           `json:"catalog_type_id"`
	CatalogBrandID int64           `json:"catalog_brand_id"`
}

type CatalogItemView struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	PictureURI     string  `json:"picture_uri,omitempty"`
	CatalogTypeID  int64   `json:"catalog_type_id"`
	CatalogBrandID int64   `json:"catalog_brand_id"`
}

type CatalogBrandView struct {
	ID    int64  `json:"id"`
	Brand string `json:"brand"`
}

type CatalogTypeView struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

type CatalogService struct {
	repo repository.CatalogRepo
}

func NewCatalogService(repo repository.CatalogRepo) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) GetItem(ctx context.Context, id int64) (*CatalogItemView, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	view := newCatalogItemView(item)
	return &view, nil
}

func (s *CatalogService) ListItems(ctx context.Context, filter repository.ItemFilter) ([]CatalogItemView, error) {
	items, err := s.repo.ListItems(ctx, filter)
	if err != nil {
		return nil, err
	}
	views := make([]CatalogItemView, 0, len(items))
	for i := range items {
		views = append(views, newCatalogItemView(&items[i]))
	}
	return views, nil
}

func (s *CatalogService) CreateItem(ctx context.Context, in CatalogItemInput) (*CatalogItemView, error) {
	item := &domain.CatalogItem{PictureURI: in.PictureURI}
	if err := item.UpdateDetails(in.Name, in.Description, in.Price); err != nil {
		return nil, err
	}
	if err := item.UpdateBrand(in.CatalogBrandID); err != nil {
		return nil, err
	}
	if err := item.UpdateType(in.CatalogTypeID); err != nil {
		return nil, err
	}
	if err := s.repo.AddItem(ctx, item); err != nil {
		return nil, err
	}
	view := newCatalogItemView(item)
	return &view, nil
}

func (s *CatalogService) UpdateItem(ctx context.Context, in CatalogItemInput) (*CatalogItemView, error) {
	item, err := s.repo.GetItem(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if err := item.UpdateDetails(in.Name, in.Description, in.Price); err != nil {
		return nil, err
	}
	if err := item.UpdateBrand(in.CatalogBrandID); err != nil {
		return nil, err
	}
	if err := item.UpdateType(in.CatalogTypeID); err != nil {
		return nil, err
	}
	item.PictureURI = in.PictureURI
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	view := newCatalogItemView(item)
	return &view, nil
}

func (s *CatalogService) DeleteItem(ctx context.Context, id int64) error {
	return s.repo.DeleteItem(ctx, id)
}

func (s *CatalogService) ListBrands(ctx context.Context) ([]CatalogBrandView, error) {
	brands, err := s.repo.ListBrands(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]CatalogBrandView, 0, len(brands))
	for _, b := range brands {
		views = append(views, CatalogBrandView{ID: b.ID, Brand: b.Brand})
	}
	return views, nil
}

func (s *CatalogService) ListTypes(ctx context.Context) ([]CatalogTypeView, error) {
	types, err := s.repo.ListTypes(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]CatalogTypeView, 0, len(types))
	for _, t := range types {
		views = append(views, CatalogTypeView{ID: t.ID, Type: t.Type})
	}
	return views, nil
}

func newCatalogItemView(it *domain.CatalogItem) CatalogItemView {
	return CatalogItemView{
		ID:             it.ID,
		Name:           it.Name,
		Description:    it.Description,
		Price:          it.Price.InexactFloat64(),
		PictureURI:     it.PictureURI,
		CatalogTypeID:  it.CatalogTypeID,
		CatalogBrandID: it.CatalogBrandID,
	}
}
