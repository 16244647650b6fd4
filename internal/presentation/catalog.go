package presentation

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eshop-micro/services/internal/application"
	"github.com/eshop-micro/services/internal/domain"
	"github.com/eshop-micro/services/internal/presentation/helpers"
	"github.com/eshop-micro/services/internal/repository"
)

type CatalogService interface {
	GetItem(ctx context.Context, id int64) (*application.CatalogItemView, error)
	ListItems(ctx context.Context, filter repository.ItemFilter) ([]application.CatalogItemView, error)
	CreateItem(ctx context.Context, in application.CatalogItemInput) (*application.CatalogItemView, error)
	UpdateItem(ctx context.Context, in application.CatalogItemInput) (*application.CatalogItemView, error)
	DeleteItem(ctx context.Context, id int64) error
	ListBrands(ctx context.Context) ([]application.CatalogBrandView, error)
	ListTypes(ctx context.Context) ([]application.CatalogTypeView, error)
}

type CatalogHandler struct {
	svc CatalogService
}

func NewCatalogHandler(svc CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) Register(r chi.Router) {
	r.Get("/items/{id}", h.GetItem)
	r.Get("/items", h.ListItems)
	r.Post("/items", h.CreateItem)
	r.Put("/items", h.UpdateItem)
	r.Delete("/items/{id}", h.DeleteItem)
	r.Get("/brands", h.ListBrands)
	r.Get("/types", h.ListTypes)
}

func (h *CatalogHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	view, err := h.svc.GetItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCatalogItemNotFound) {
			helpers.HttpError(w, http.StatusNotFound, "catalog item not found")
			return
		}
		helpers.HttpError(w, http.StatusInternalServerError, "failed to get catalog item")
		return
	}

	helpers.WriteJSON(w, http.StatusOK, view)
}

func (h *CatalogHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	var filter repository.ItemFilter
	if v := r.URL.Query().Get("catalog_brand_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			helpers.HttpError(w, http.StatusBadRequest, "invalid catalog_brand_id")
			return
		}
		filter.BrandID = &id
	}
	if v := r.URL.Query().Get("catalog_type_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			helpers.HttpError(w, http.StatusBadRequest, "invalid catalog_type_id")
			return
		}
		filter.TypeID = &id
	}

	views, err := h.svc.ListItems(r.Context(), filter)
	if err != nil {
		helpers.HttpError(w, http.StatusInternalServerError, "failed to list catalog items")
		return
	}

	helpers.WriteJSON(w, http.StatusOK, views)
}

func (h *CatalogHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var in application.CatalogItemInput
	if err := helpers.DecodeJSON(r.Body, &in); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	view, err := h.svc.CreateItem(r.Context(), in)
	if err != nil {
		if isCatalogInputError(err) {
			helpers.HttpError(w, http.StatusBadRequest, err.Error())
			return
		}
		helpers.HttpError(w, http.StatusInternalServerError, "failed to create catalog item")
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, view)
}

func (h *CatalogHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var in application.CatalogItemInput
	if err := helpers.DecodeJSON(r.Body, &in); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	view, err := h.svc.UpdateItem(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCatalogItemNotFound):
			helpers.HttpError(w, http.StatusNotFound, "catalog item not found")
		case isCatalogInputError(err):
			helpers.HttpError(w, http.StatusBadRequest, err.Error())
		default:
			helpers.HttpError(w, http.StatusInternalServerError, "failed to update catalog item")
		}
		return
	}

	helpers.WriteJSON(w, http.StatusOK, view)
}

func (h *CatalogHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.svc.DeleteItem(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrCatalogItemNotFound) {
			helpers.HttpError(w, http.StatusNotFound, "catalog item not found")
			return
		}
		helpers.HttpError(w, http.StatusInternalServerError, "failed to delete catalog item")
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.ListBrands(r.Context())
	if err != nil {
		helpers.HttpError(w, http.StatusInternalServerError, "failed to list brands")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, views)
}

func (h *CatalogHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.ListTypes(r.Context())
	if err != nil {
		helpers.HttpError(w, http.StatusInternalServerError, "failed to list types")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, views)
}

func isCatalogInputError(err error) bool {
	return errors.Is(err, domain.ErrInvalidItemDetails) ||
		errors.Is(err, domain.ErrInvalidBrandID) ||
		errors.Is(err, domain.ErrInvalidTypeID)
}
