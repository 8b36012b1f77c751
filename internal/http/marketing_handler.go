package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sameer7300/Oraagh/internal/repository"
	"github.com/sameer7300/Oraagh/internal/service"
)

type MarketingHandler struct {
	newsletter *service.NewsletterService
	blog       *service.BlogService
	validate   *validator.Validate
}

func NewMarketingHandler(newsletter *service.NewsletterService, blog *service.BlogService) *MarketingHandler {
	return &MarketingHandler{
		newsletter: newsletter,
		blog:       blog,
		validate:   validator.New(),
	}
}

type SubscribeRequestDTO struct {
	Email string `json:"email" validate:"required,email"`
}

type BroadcastRequestDTO struct {
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required"`
}

func (h *MarketingHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	sub, err := h.newsletter.Subscribe(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadySubscribed) {
			respondError(w, http.StatusConflict, "already_subscribed", "this email is already subscribed")
			return
		}
		log.Printf("[%s] subscribe %s: %v", getRequestID(r.Context()), req.Email, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "could not subscribe")
		return
	}
	respondJSON(w, http.StatusCreated, sub)
}

// Broadcast is an admin operation.
func (h *MarketingHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req BroadcastRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	sent, err := h.newsletter.SendBroadcast(r.Context(), req.Subject, req.Message)
	if err != nil {
		log.Printf("[%s] newsletter broadcast: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusInternalServerError, "internal_error", "could not send newsletter")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"recipients": sent})
}

func (h *MarketingHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	posts, total, err := h.blog.ListPosts(r.Context(), page, perPage)
	if err != nil {
		log.Printf("[%s] list posts: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusInternalServerError, "internal_error", "could not list posts")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"posts": posts,
		"total": total,
	})
}

func (h *MarketingHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.blog.GetPost(r.Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "post not found")
			return
		}
		log.Printf("[%s] get post %s: %v", getRequestID(r.Context()), slug, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "could not load post")
		return
	}
	respondJSON(w, http.StatusOK, post)
}
