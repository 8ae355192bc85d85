package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storefront-backend/application/services"
	pkgerrors "storefront-backend/pkg/errors"
)

// ContentHandler handles subscription content HTTP requests.
type ContentHandler struct {
	content *services.ContentService
	errors  *pkgerrors.ErrorHandler
	logger  *zap.Logger
}

// NewContentHandler creates a new content handler.
func NewContentHandler(content *services.ContentService, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{content: content, errors: errors, logger: logger}
}

// CreateContentItem handles POST /content.
func (h *ContentHandler) CreateContentItem(w http.ResponseWriter, r *http.Request) {
	var req services.CreateContentInput
	if err := decodeBody(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	item, err := h.content.CreateContentItem(r.Context(), req)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusCreated, item)
}

// GetContentItem handles GET /content/{contentID}.
func (h *ContentHandler) GetContentItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.content.GetContentItem(r.Context(), chi.URLParam(r, "contentID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, item)
}

// GetContentItemBySlug handles GET /content/slug/{slug}.
func (h *ContentHandler) GetContentItemBySlug(w http.ResponseWriter, r *http.Request) {
	item, err := h.content.GetContentItemBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, item)
}

// ListContentItems handles GET /content.
func (h *ContentHandler) ListContentItems(w http.ResponseWriter, r *http.Request) {
	limit, cursor := pageParams(r)
	filter := services.ContentFilter{
		PremiumOnly: boolParam(r, "premiumOnly"),
		FreeOnly:    boolParam(r, "freeOnly"),
	}
	page, err := h.content.ListContentItems(r.Context(), filter, limit, cursor)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, page)
}

// DeleteContentItem handles DELETE /content/{contentID}.
func (h *ContentHandler) DeleteContentItem(w http.ResponseWriter, r *http.Request) {
	if err := h.content.DeleteContentItem(r.Context(), chi.URLParam(r, "contentID")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
