package presentation

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/eshop-micro/services/internal/application"
	"github.com/eshop-micro/services/internal/presentation/helpers"
	"github.com/eshop-micro/services/internal/repository"
)

type OrdersService interface {
	CreateOrder(ctx context.Context, req application.CreateOrderRequest) (*application.OrderView, error)
	GetOrder(ctx context.Context, id int64) (*application.OrderView, error)
	ListOrdersForBuyer(ctx context.Context, buyerID string) ([]application.OrderView, error)
}

type OrdersHandler struct {
	svc OrdersService
}

func NewOrdersHandler(svc OrdersService) *OrdersHandler {
	return &OrdersHandler{svc: svc}
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Post("/orders", h.CreateOrder)
	r.Get("/orders/{id}", h.GetOrder)
	r.Get("/orders", h.ListOrders)
}

func (h *OrdersHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req application.CreateOrderRequest
	if err := helpers.DecodeJSON(r.Body, &req); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if strings.TrimSpace(req.BuyerID) == "" {
		helpers.HttpError(w, http.StatusBadRequest, "buyer_id is required")
		return
	}

	view, err := h.svc.CreateOrder(r.Context(), req)
	if err != nil {
		helpers.HttpError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, view)
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	view, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			helpers.HttpError(w, http.StatusNotFound, "order not found")
			return
		}
		helpers.HttpError(w, http.StatusInternalServerError, "failed to get order")
		return
	}

	helpers.WriteJSON(w, http.StatusOK, view)
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	buyerID := r.URL.Query().Get("buyer_id")
	if strings.TrimSpace(buyerID) == "" {
		helpers.HttpError(w, http.StatusBadRequest, "buyer_id is required")
		return
	}

	views, err := h.svc.ListOrdersForBuyer(r.Context(), buyerID)
	if err != nil {
		helpers.HttpError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	helpers.WriteJSON(w, http.StatusOK, views)
}
