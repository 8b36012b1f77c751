package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sameer7300/Oraagh/internal/domain"
	"github.com/sameer7300/Oraagh/internal/mailer"
	"github.com/sameer7300/Oraagh/internal/service"
)

func newCheckoutHandler(t *testing.T, carts *stubCartStore) (*CheckoutHandler, *stubOrderStore) {
	t.Helper()
	templates, err := mailer.NewTemplateSet()
	require.NoError(t, err)

	orders := &stubOrderStore{}
	svc := service.NewCheckoutService(
		carts, orders, stubUserStore{},
		service.NewTracker(stubAbandonedStore{}),
		stubCache{},
		noopMailer{}, templates,
		mailer.Site{Scheme: "https", Domain: "oraagh.com"},
		"admin@oraagh.com",
	)
	return NewCheckoutHandler(svc), orders
}

func filledCart() *domain.Cart {
	return &domain.Cart{
		ID:     1,
		UserID: 7,
		Items: []domain.CartItem{{
			ID: 10, ProductID: 100, Quantity: 2,
			Product: &domain.Product{ID: 100, Name: "Walnut Chess Board", Price: decimal.NewFromInt(900)},
		}},
	}
}

const validCheckoutBody = `{
	"billing_name": "Ayesha Khan",
	"billing_email": "ayesha@example.com",
	"billing_phone": "+92 300 0000000",
	"billing_address": "14 Mall Road",
	"billing_city": "Lahore",
	"billing_state": "Punjab",
	"billing_zip": "54000",
	"billing_country": "Pakistan"
}`

func TestCheckoutHandler_PlaceOrder(t *testing.T) {
	carts := &stubCartStore{carts: map[int64]*domain.Cart{7: filledCart()}}
	handler, orders := newCheckoutHandler(t, carts)

	recorder := httptest.NewRecorder()
	handler.PlaceOrder(recorder, authedRequest("POST", "/checkout", []byte(validCheckoutBody)))

	require.Equal(t, http.StatusCreated, recorder.Code)

	var order domain.Order
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &order))
	assert.Regexp(t, `^ORD\d{8}$`, order.OrderNumber)
	assert.Len(t, orders.orders, 1)
}

func TestCheckoutHandler_PlaceOrder_EmptyCart(t *testing.T) {
	handler, _ := newCheckoutHandler(t, &stubCartStore{carts: map[int64]*domain.Cart{}})

	recorder := httptest.NewRecorder()
	handler.PlaceOrder(recorder, authedRequest("POST", "/checkout", []byte(validCheckoutBody)))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCheckoutHandler_PlaceOrder_MissingFields(t *testing.T) {
	carts := &stubCartStore{carts: map[int64]*domain.Cart{7: filledCart()}}
	handler, _ := newCheckoutHandler(t, carts)

	recorder := httptest.NewRecorder()
	handler.PlaceOrder(recorder, authedRequest("POST", "/checkout", []byte(`{"billing_name": "Ayesha"}`)))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCheckoutHandler_StartCheckout(t *testing.T) {
	carts := &stubCartStore{carts: map[int64]*domain.Cart{7: filledCart()}}
	handler, _ := newCheckoutHandler(t, carts)

	recorder := httptest.NewRecorder()
	handler.StartCheckout(recorder, authedRequest("GET", "/checkout", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
}
