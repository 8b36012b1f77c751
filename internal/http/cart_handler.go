package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sameer7300/Oraagh/internal/repository"
	"github.com/sameer7300/Oraagh/internal/service"
)

type CartHandler struct {
	carts     *service.CartService
	marketing repository.MarketingStore
}

func NewCartHandler(carts *service.CartService, marketing repository.MarketingStore) *CartHandler {
	return &CartHandler{carts: carts, marketing: marketing}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	cart, err := h.carts.GetCart(r.Context(), userID)
	if err != nil {
		log.Printf("[%s] get cart for user %d: %v", getRequestID(r.Context()), userID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "could not load cart")
		return
	}

	charges, err := h.marketing.ListDeliveryCharges(r.Context())
	if err != nil {
		log.Printf("[%s] list delivery charges: %v", getRequestID(r.Context()), err)
		// cart page still renders without shipping options
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"cart":             cart,
		"delivery_charges": charges,
	})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	if err := h.carts.AddItem(r.Context(), userID, req.ProductID, req.Quantity); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		log.Printf("[%s] add item for user %d: %v", getRequestID(r.Context()), userID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "could not add item")
		return
	}

	cart, err := h.carts.GetCart(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not load cart")
		return
	}
	respondJSON(w, http.StatusCreated, cart)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	itemID, err := strconv.ParseInt(chi.URLParam(r, "item_id"), 10, 64)
	if err != nil || itemID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id must be a positive integer")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	// zero removes the line
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 99")
		return
	}

	if err := h.carts.UpdateQuantity(r.Context(), userID, itemID, req.Quantity); err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "cart item not found")
			return
		}
		log.Printf("[%s] update quantity for user %d: %v", getRequestID(r.Context()), userID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "could not update quantity")
		return
	}

	cart, err := h.carts.GetCart(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not load cart")
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	itemID, err := strconv.ParseInt(chi.URLParam(r, "item_id"), 10, 64)
	if err != nil || itemID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id must be a positive integer")
		return
	}

	if err := h.carts.RemoveItem(r.Context(), userID, itemID); err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "cart item not found")
			return
		}
		log.Printf("[%s] remove item for user %d: %v", getRequestID(r.Context()), userID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "could not remove item")
		return
	}

	cart, err := h.carts.GetCart(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not load cart")
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	if err := h.carts.ClearCart(r.Context(), userID); err != nil {
		log.Printf("[%s] clear cart for user %d: %v", getRequestID(r.Context()), userID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "could not clear cart")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
