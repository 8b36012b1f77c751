package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires all handlers behind the shared middleware stack.
func NewRouter(
	cart *CartHandler,
	checkout *CheckoutHandler,
	orders *OrdersHandler,
	products *ProductHandler,
	marketing *MarketingHandler,
	requestTimeout time.Duration,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(AuthMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cart.GetCart)
			r.Delete("/", cart.ClearCart)
			r.Post("/items", cart.AddItem)
			r.Put("/items/{item_id}", cart.UpdateQuantity)
			r.Delete("/items/{item_id}", cart.RemoveItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", checkout.StartCheckout)
			r.Post("/", checkout.PlaceOrder)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orders.ListOrders)
			r.Get("/{order_id}", orders.GetOrder)
			r.Put("/{order_id}/status", orders.UpdateStatus)
			r.Put("/{order_id}/tracking", orders.UpdateTracking)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.ListProducts)
			r.Get("/{slug}", products.GetProduct)
			r.Post("/{slug}/reviews", products.AddReview)
		})
		r.Get("/categories", products.ListCategories)

		r.Post("/newsletter/subscribe", marketing.Subscribe)
		r.Post("/newsletter/broadcast", marketing.Broadcast)

		r.Route("/blog", func(r chi.Router) {
			r.Get("/", marketing.ListPosts)
			r.Get("/{slug}", marketing.GetPost)
		})
	})

	return r
}
