package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sameer7300/Oraagh/internal/domain"
	"github.com/sameer7300/Oraagh/internal/repository"
	"github.com/sameer7300/Oraagh/internal/service"
)

type OrdersHandler struct {
	orders   *service.OrderService
	validate *validator.Validate
}

func NewOrdersHandler(orders *service.OrderService) *OrdersHandler {
	return &OrdersHandler{
		orders:   orders,
		validate: validator.New(),
	}
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status" validate:"required"`
}

type UpdateTrackingRequestDTO struct {
	TrackingNumber string `json:"tracking_number" validate:"required,max=100"`
	CourierName    string `json:"courier_name" validate:"required,max=100"`
	CourierContact string `json:"courier_contact" validate:"max=100"`
	TrackingURL    string `json:"tracking_url" validate:"omitempty,url"`
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orders, err := h.orders.ListByUser(r.Context(), userID)
	if err != nil {
		log.Printf("[%s] list orders for user %d: %v", getRequestID(r.Context()), userID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "could not list orders")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "order not found")
			return
		}
		log.Printf("[%s] get order %s: %v", getRequestID(r.Context()), id, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "could not load order")
		return
	}
	if order.UserID != userID {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// UpdateStatus is an admin operation; the session proxy only routes
// staff users here.
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return
	}

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	order, err := h.orders.ChangeStatus(r.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
		case errors.Is(err, repository.ErrOrderNotFound):
			respondError(w, http.StatusNotFound, "not_found", "order not found")
		default:
			log.Printf("[%s] update status for order %s: %v", getRequestID(r.Context()), id, err)
			respondError(w, http.StatusInternalServerError, "internal_error", "could not update status")
		}
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrdersHandler) UpdateTracking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return
	}

	var req UpdateTrackingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	order, err := h.orders.SetTracking(r.Context(), id, req.TrackingNumber, req.CourierName, req.CourierContact, req.TrackingURL)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "order not found")
			return
		}
		log.Printf("[%s] update tracking for order %s: %v", getRequestID(r.Context()), id, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "could not update tracking")
		return
	}
	respondJSON(w, http.StatusOK, order)
}
