package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storefront-backend/application/services"
	pkgerrors "storefront-backend/pkg/errors"
)

// CatalogHandler handles category and product HTTP requests.
type CatalogHandler struct {
	catalog *services.CatalogService
	errors  *pkgerrors.ErrorHandler
	logger  *zap.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalog *services.CatalogService, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, errors: errors, logger: logger}
}

// CreateCategory handles POST /categories.
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req services.CreateCategoryInput
	if err := decodeBody(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), req)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusCreated, category)
}

// UpdateCategory handles PUT /categories/{categoryID}.
func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateCategoryInput
	if err := decodeBody(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	category, err := h.catalog.UpdateCategory(r.Context(), chi.URLParam(r, "categoryID"), req)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, category)
}

// DeleteCategory handles DELETE /categories/{categoryID}.
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteCategory(r.Context(), chi.URLParam(r, "categoryID")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCategory handles GET /categories/{categoryID}.
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.catalog.GetCategory(r.Context(), chi.URLParam(r, "categoryID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, category)
}

// GetCategoryBySlug handles GET /categories/slug/{slug}.
func (h *CatalogHandler) GetCategoryBySlug(w http.ResponseWriter, r *http.Request) {
	category, err := h.catalog.GetCategoryBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, category)
}

// ListCategories handles GET /categories.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	limit, cursor := pageParams(r)
	page, err := h.catalog.ListCategories(r.Context(), limit, cursor)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, page)
}

// CreateProduct handles POST /products.
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req services.CreateProductInput
	if err := decodeBody(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), req)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /products/{productID}.
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateProductInput
	if err := decodeBody(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), chi.URLParam(r, "productID"), req)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/{productID}.
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProduct(r.Context(), chi.URLParam(r, "productID")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetProduct handles GET /products/{productID}.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, product)
}

// GetProductBySlug handles GET /products/slug/{slug}.
func (h *CatalogHandler) GetProductBySlug(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, product)
}

// ListProducts handles GET /products.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, cursor := pageParams(r)
	page, err := h.catalog.ListProducts(r.Context(), productFilter(r), limit, cursor)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, page)
}

// ListProductsByCategory handles GET /categories/{categoryID}/products.
func (h *CatalogHandler) ListProductsByCategory(w http.ResponseWriter, r *http.Request) {
	limit, cursor := pageParams(r)
	page, err := h.catalog.ListProductsByCategory(r.Context(), chi.URLParam(r, "categoryID"), productFilter(r), limit, cursor)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, page)
}

func productFilter(r *http.Request) services.ProductFilter {
	return services.ProductFilter{
		Search:     r.URL.Query().Get("search"),
		Tag:        r.URL.Query().Get("tag"),
		ActiveOnly: boolParam(r, "activeOnly"),
	}
}
