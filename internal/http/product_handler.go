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

type ProductHandler struct {
	catalog  *service.CatalogService
	validate *validator.Validate
}

func NewProductHandler(catalog *service.CatalogService) *ProductHandler {
	return &ProductHandler{
		catalog:  catalog,
		validate: validator.New(),
	}
}

type AddReviewRequestDTO struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ProductFilter{
		Query:        q.Get("q"),
		CategorySlug: q.Get("category"),
		ProductType:  q.Get("type"),
		Sort:         q.Get("sort"),
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.PerPage, _ = strconv.Atoi(q.Get("per_page"))

	products, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		log.Printf("[%s] list products: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusInternalServerError, "internal_error", "could not list products")
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		log.Printf("[%s] list categories: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusInternalServerError, "internal_error", "could not list categories")
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	detail, err := h.catalog.GetProduct(r.Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		log.Printf("[%s] get product %s: %v", getRequestID(r.Context()), slug, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "could not load product")
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

func (h *ProductHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	slug := chi.URLParam(r, "slug")

	var req AddReviewRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	review, err := h.catalog.AddReview(r.Context(), userID, slug, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRating):
			respondError(w, http.StatusBadRequest, "invalid_rating", "rating must be between 1 and 5")
		case errors.Is(err, repository.ErrProductNotFound):
			respondError(w, http.StatusNotFound, "not_found", "product not found")
		default:
			log.Printf("[%s] add review for product %s: %v", getRequestID(r.Context()), slug, err)
			respondError(w, http.StatusInternalServerError, "internal_error", "could not add review")
		}
		return
	}
	respondJSON(w, http.StatusCreated, review)
}
