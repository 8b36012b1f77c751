package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/sameer7300/Oraagh/internal/service"
)

type CheckoutHandler struct {
	checkout *service.CheckoutService
	validate *validator.Validate
}

func NewCheckoutHandler(checkout *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		validate: validator.New(),
	}
}

// StartCheckout serves the checkout page data and moves the
// abandonment record to the checkout stage.
func (h *CheckoutHandler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	cart, err := h.checkout.StartCheckout(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			respondError(w, http.StatusBadRequest, "empty_cart", "your cart is empty")
			return
		}
		log.Printf("[%s] start checkout for user %d: %v", getRequestID(r.Context()), userID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "could not start checkout")
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var input service.PlaceOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(&input); err != nil {
		respondError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	order, err := h.checkout.PlaceOrder(r.Context(), userID, input)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			respondError(w, http.StatusBadRequest, "empty_cart", "your cart is empty")
			return
		}
		log.Printf("[%s] place order for user %d: %v", getRequestID(r.Context()), userID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "could not place order")
		return
	}
	respondJSON(w, http.StatusCreated, order)
}
