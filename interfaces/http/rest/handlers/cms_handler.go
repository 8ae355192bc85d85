package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storefront-backend/application/services"
	pkgerrors "storefront-backend/pkg/errors"
)

// CMSHandler handles page and component HTTP requests.
type CMSHandler struct {
	cms    *services.CMSService
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewCMSHandler creates a new CMS handler.
func NewCMSHandler(cms *services.CMSService, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *CMSHandler {
	return &CMSHandler{cms: cms, errors: errors, logger: logger}
}

// CreatePage handles POST /pages.
func (h *CMSHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req services.CreatePageInput
	if err := decodeBody(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	page, err := h.cms.CreatePage(r.Context(), req)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusCreated, page)
}

// UpdatePage handles PUT /pages/{pageID}.
func (h *CMSHandler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	var req services.UpdatePageInput
	if err := decodeBody(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	page, err := h.cms.UpdatePage(r.Context(), chi.URLParam(r, "pageID"), req)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, page)
}

// DeletePage handles DELETE /pages/{pageID}.
func (h *CMSHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	if err := h.cms.DeletePage(r.Context(), chi.URLParam(r, "pageID")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPage handles GET /pages/{pageID}.
func (h *CMSHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.cms.GetPage(r.Context(), chi.URLParam(r, "pageID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, page)
}

// GetPageBySlug handles GET /pages/slug/{slug}.
func (h *CMSHandler) GetPageBySlug(w http.ResponseWriter, r *http.Request) {
	page, err := h.cms.GetPageBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, page)
}

// ListPages handles GET /pages.
func (h *CMSHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	limit, cursor := pageParams(r)
	page, err := h.cms.ListPages(r.Context(), limit, cursor)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, page)
}

// CreateComponent handles POST /components.
func (h *CMSHandler) CreateComponent(w http.ResponseWriter, r *http.Request) {
	var req services.CreateComponentInput
	if err := decodeBody(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	component, err := h.cms.CreateComponent(r.Context(), req)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusCreated, component)
}

// UpdateComponent handles PUT /components/{componentID}.
func (h *CMSHandler) UpdateComponent(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateComponentInput
	if err := decodeBody(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	component, err := h.cms.UpdateComponent(r.Context(), chi.URLParam(r, "componentID"), req)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, component)
}

// DeleteComponent handles DELETE /components/{componentID}.
func (h *CMSHandler) DeleteComponent(w http.ResponseWriter, r *http.Request) {
	if err := h.cms.DeleteComponent(r.Context(), chi.URLParam(r, "componentID")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetComponent handles GET /components/{componentID}.
func (h *CMSHandler) GetComponent(w http.ResponseWriter, r *http.Request) {
	component, err := h.cms.GetComponent(r.Context(), chi.URLParam(r, "componentID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, component)
}

// ListPageComponents handles GET /pages/{pageID}/components.
func (h *CMSHandler) ListPageComponents(w http.ResponseWriter, r *http.Request) {
	components, err := h.cms.ListPageComponents(r.Context(), chi.URLParam(r, "pageID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, components)
}

// ListGlobalComponents handles GET /components/global.
func (h *CMSHandler) ListGlobalComponents(w http.ResponseWriter, r *http.Request) {
	components, err := h.cms.ListGlobalComponents(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, components)
}
