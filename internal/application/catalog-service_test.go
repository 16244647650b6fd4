package application

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshop-micro/services/internal/domain"
	"github.com/eshop-micro/services/internal/repository"
)

type fakeCatalogRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*domain.CatalogItem
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{items: make(map[int64]*domain.CatalogItem)}
}

func (f *fakeCatalogRepo) GetItem(_ context.Context, id int64) (*domain.CatalogItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return nil, repository.ErrCatalogItemNotFound
	}
	cp := *it
	return &cp, nil
}

func (f *fakeCatalogRepo) ListItems(_ context.Context, filter repository.ItemFilter) ([]domain.CatalogItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.CatalogItem{}
	for _, it := range f.items {
		if filter.BrandID != nil && it.CatalogBrandID != *filter.BrandID {
			continue
		}
		if filter.TypeID != nil && it.CatalogTypeID != *filter.TypeID {
			continue
		}
		out = append(out, *it)
	}
	return out, nil
}

func (f *fakeCatalogRepo) AddItem(_ context.Context, item *domain.CatalogItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	item.ID = f.nextID
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeCatalogRepo) UpdateItem(_ context.Context, item *domain.CatalogItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[item.ID]; !ok {
		return repository.ErrCatalogItemNotFound
	}
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeCatalogRepo) DeleteItem(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return repository.ErrCatalogItemNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeCatalogRepo) ListBrands(context.Context) ([]domain.CatalogBrand, error) {
	return []domain.CatalogBrand{{ID: 1, Brand: "Acme"}}, nil
}

func (f *fakeCatalogRepo) ListTypes(context.Context) ([]domain.CatalogType, error) {
	return []domain.CatalogType{{ID: 1, Type: "Mug"}}, nil
}

func catalogInput() CatalogItemInput {
	return CatalogItemInput{
		Name:           "Coffee Mug",
		Description:    "A mug",
		Price:          decimal.RequireFromString("12.50"),
		CatalogTypeID:  1,
		CatalogBrandID: 1,
	}
}

func TestCreateItemAssignsID(t *testing.T) {
	svc := NewCatalogService(newFakeCatalogRepo())

	view, err := svc.CreateItem(context.Background(), catalogInput())
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.ID)
	assert.Equal(t, 12.50, view.Price)
}

func TestCreateItemRejectsInvalidDetails(t *testing.T) {
	svc := NewCatalogService(newFakeCatalogRepo())

	in := catalogInput()
	in.Name = ""
	_, err := svc.CreateItem(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidItemDetails)

	in = catalogInput()
	in.Price = decimal.Zero
	_, err = svc.CreateItem(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidItemDetails)

	in = catalogInput()
	in.CatalogBrandID = 0
	_, err = svc.CreateItem(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidBrandID)
}

func TestUpdateItemMissing(t *testing.T) {
	svc := NewCatalogService(newFakeCatalogRepo())

	in := catalogInput()
	in.ID = 42
	_, err := svc.UpdateItem(context.Background(), in)
	assert.ErrorIs(t, err, repository.ErrCatalogItemNotFound)
}

func TestUpdateItemChangesDetails(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := NewCatalogService(repo)

	created, err := svc.CreateItem(context.Background(), catalogInput())
	require.NoError(t, err)

	in := catalogInput()
	in.ID = created.ID
	in.Name = "Travel Mug"
	in.Price = decimal.RequireFromString("15.00")
	view, err := svc.UpdateItem(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Travel Mug", view.Name)
	assert.Equal(t, 15.00, view.Price)

	got, err := svc.GetItem(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Travel Mug", got.Name)
}

func TestDeleteItemMissing(t *testing.T) {
	svc := NewCatalogService(newFakeCatalogRepo())
	err := svc.DeleteItem(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrCatalogItemNotFound)
}

func TestListItemsFiltersByBrand(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := NewCatalogService(repo)

	first := catalogInput()
	_, err := svc.CreateItem(context.Background(), first)
	require.NoError(t, err)

	second := catalogInput()
	second.CatalogBrandID = 2
	_, err = svc.CreateItem(context.Background(), second)
	require.NoError(t, err)

	brandID := int64(2)
	views, err := svc.ListItems(context.Background(), repository.ItemFilter{BrandID: &brandID})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, int64(2), views[0].CatalogBrandID)
}
