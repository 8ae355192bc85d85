package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storefront-backend/application/services"
	pkgerrors "storefront-backend/pkg/errors"
)

// ReviewHandler handles review HTTP requests.
type ReviewHandler struct {
	reviews *services.ReviewService
	errors  *pkgerrors.ErrorHandler
	logger  *zap.Logger
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviews *services.ReviewService, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, errors: errors, logger: logger}
}

// CreateReview handles POST /products/{productID}/reviews.
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req services.CreateReviewInput
	if err := decodeBody(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	req.ProductID = chi.URLParam(r, "productID")

	review, err := h.reviews.CreateReview(r.Context(), req)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusCreated, review)
}

// UpdateReview handles PUT /products/{productID}/reviews/{reviewID}.
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateReviewInput
	if err := decodeBody(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	review, err := h.reviews.UpdateReview(r.Context(), chi.URLParam(r, "productID"), chi.URLParam(r, "reviewID"), req)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, review)
}

// SetApproval handles PUT /products/{productID}/reviews/{reviewID}/approval.
func (h *ReviewHandler) SetApproval(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsApproved bool `json:"isApproved"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	review, err := h.reviews.SetReviewApproval(r.Context(), chi.URLParam(r, "productID"), chi.URLParam(r, "reviewID"), req.IsApproved)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, review)
}

// DeleteReview handles DELETE /products/{productID}/reviews/{reviewID}.
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.reviews.DeleteReview(r.Context(), chi.URLParam(r, "productID"), chi.URLParam(r, "reviewID")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetReview handles GET /products/{productID}/reviews/{reviewID}.
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.reviews.GetReview(r.Context(), chi.URLParam(r, "productID"), chi.URLParam(r, "reviewID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, review)
}

// ListProductReviews handles GET /products/{productID}/reviews.
func (h *ReviewHandler) ListProductReviews(w http.ResponseWriter, r *http.Request) {
	limit, cursor := pageParams(r)
	page, err := h.reviews.ListProductReviews(r.Context(), chi.URLParam(r, "productID"), boolParam(r, "includePending"), limit, cursor)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, page)
}

// ListRecentReviews handles GET /reviews (moderation queue).
func (h *ReviewHandler) ListRecentReviews(w http.ResponseWriter, r *http.Request) {
	limit, cursor := pageParams(r)
	page, err := h.reviews.ListRecentReviews(r.Context(), limit, cursor)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, page)
}
