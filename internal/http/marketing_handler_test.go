package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sameer7300/Oraagh/internal/domain"
	"github.com/sameer7300/Oraagh/internal/mailer"
	"github.com/sameer7300/Oraagh/internal/service"
)

type noopMailer struct{}

func (noopMailer) Send(context.Context, *mailer.Message) error { return nil }

func newMarketingHandler(t *testing.T, store *stubMarketingStore) *MarketingHandler {
	t.Helper()
	templates, err := mailer.NewTemplateSet()
	require.NoError(t, err)
	site := mailer.Site{Scheme: "https", Domain: "oraagh.com"}
	return NewMarketingHandler(
		service.NewNewsletterService(store, noopMailer{}, templates, site),
		service.NewBlogService(store),
	)
}

func TestMarketingHandler_Subscribe(t *testing.T) {
	handler := newMarketingHandler(t, &stubMarketingStore{})

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/newsletter/subscribe", jsonBody(`{"email": "ayesha@example.com"}`))
	handler.Subscribe(recorder, req)

	assert.Equal(t, http.StatusCreated, recorder.Code)
}

func TestMarketingHandler_Subscribe_Duplicate(t *testing.T) {
	store := &stubMarketingStore{subscribed: map[string]bool{"ayesha@example.com": true}}
	handler := newMarketingHandler(t, store)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/newsletter/subscribe", jsonBody(`{"email": "ayesha@example.com"}`))
	handler.Subscribe(recorder, req)

	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestMarketingHandler_Subscribe_InvalidEmail(t *testing.T) {
	handler := newMarketingHandler(t, &stubMarketingStore{})

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/newsletter/subscribe", jsonBody(`{"email": "not-an-email"}`))
	handler.Subscribe(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestMarketingHandler_GetPost(t *testing.T) {
	store := &stubMarketingStore{posts: map[string]*domain.Post{
		"care-guide": {ID: 1, Title: "Caring for Walnut Wood", Slug: "care-guide", Status: domain.PostStatusPublished},
	}}
	handler := newMarketingHandler(t, store)

	req := httptest.NewRequest("GET", "/blog/care-guide", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("slug", "care-guide")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	recorder := httptest.NewRecorder()
	handler.GetPost(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestMarketingHandler_GetPost_NotFound(t *testing.T) {
	handler := newMarketingHandler(t, &stubMarketingStore{})

	req := httptest.NewRequest("GET", "/blog/nope", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("slug", "nope")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	recorder := httptest.NewRecorder()
	handler.GetPost(recorder, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
