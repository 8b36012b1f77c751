package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sameer7300/Oraagh/internal/domain"
	"github.com/sameer7300/Oraagh/internal/service"
)

func newCartHandler(carts *stubCartStore) *CartHandler {
	tracker := service.NewTracker(stubAbandonedStore{})
	svc := service.NewCartService(carts, stubCache{}, tracker)
	return NewCartHandler(svc, &stubMarketingStore{})
}

func authedRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	}
	ctx := context.WithValue(req.Context(), "user_id", int64(7))
	return req.WithContext(ctx)
}

func TestCartHandler_GetCart(t *testing.T) {
	carts := &stubCartStore{carts: map[int64]*domain.Cart{
		7: {
			ID:     1,
			UserID: 7,
			Items: []domain.CartItem{{
				ID: 10, ProductID: 100, Quantity: 2,
				Product: &domain.Product{ID: 100, Name: "Walnut Chess Board", Price: decimal.NewFromInt(900)},
			}},
		},
	}}
	handler := newCartHandler(carts)

	recorder := httptest.NewRecorder()
	handler.GetCart(recorder, authedRequest("GET", "/", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp struct {
		Cart domain.Cart `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.Cart.UserID)
	assert.Len(t, resp.Cart.Items, 1)
}

func TestCartHandler_GetCart_Unauthenticated(t *testing.T) {
	handler := newCartHandler(&stubCartStore{carts: map[int64]*domain.Cart{}})

	recorder := httptest.NewRecorder()
	handler.GetCart(recorder, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestCartHandler_AddItem_Validation(t *testing.T) {
	handler := newCartHandler(&stubCartStore{carts: map[int64]*domain.Cart{}})

	tests := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"missing product", `{"quantity": 1}`},
		{"zero quantity", `{"product_id": 100, "quantity": 0}`},
		{"excessive quantity", `{"product_id": 100, "quantity": 500}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			handler.AddItem(recorder, authedRequest("POST", "/items", []byte(tt.body)))
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

func TestCartHandler_AddItem_Success(t *testing.T) {
	carts := &stubCartStore{carts: map[int64]*domain.Cart{
		7: {ID: 1, UserID: 7},
	}}
	handler := newCartHandler(carts)

	recorder := httptest.NewRecorder()
	body := []byte(`{"product_id": 100, "quantity": 2}`)
	handler.AddItem(recorder, authedRequest("POST", "/items", body))

	assert.Equal(t, http.StatusCreated, recorder.Code)
}

func TestCartHandler_RemoveItem_NotFound(t *testing.T) {
	carts := &stubCartStore{carts: map[int64]*domain.Cart{7: {ID: 1, UserID: 7}}}
	handler := newCartHandler(carts)

	req := authedRequest("DELETE", "/items/404", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("item_id", "404")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	recorder := httptest.NewRecorder()
	handler.RemoveItem(recorder, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCartHandler_ClearCart(t *testing.T) {
	carts := &stubCartStore{carts: map[int64]*domain.Cart{7: {ID: 1, UserID: 7}}}
	handler := newCartHandler(carts)

	recorder := httptest.NewRecorder()
	handler.ClearCart(recorder, authedRequest("DELETE", "/", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.NotContains(t, carts.carts, int64(7))
}
