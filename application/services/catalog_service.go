package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"storefront-backend/application/ports"
	"storefront-backend/domain/entity"
	pkgerrors "storefront-backend/pkg/errors"
	"storefront-backend/pkg/utils"
)

// CatalogService owns the category and product use cases.
type CatalogService struct {
	categories ports.CategoryRepository
	products   ports.ProductRepository
	slugs      *SlugResolver
	aggregates *AggregateMaintainer
	logger     *zap.Logger
}

// NewCatalogService creates the catalog service.
func NewCatalogService(
	categories ports.CategoryRepository,
	products ports.ProductRepository,
	slugs *SlugResolver,
	aggregates *AggregateMaintainer,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		categories: categories,
		products:   products,
		slugs:      slugs,
		aggregates: aggregates,
		logger:     logger,
	}
}

// CreateCategoryInput carries the fields accepted on category creation.
type CreateCategoryInput struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
	DisplayRank int    `json:"displayRank" validate:"gte=0"`
}

// UpdateCategoryInput carries a partial category update. Nil fields are left
// untouched.
type UpdateCategoryInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
	IsActive    *bool   `json:"isActive"`
	DisplayRank *int    `json:"displayRank" validate:"omitempty,gte=0"`
}

// CreateCategory creates a category with a unique slug derived from its name.
func (s *CatalogService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*entity.Category, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	category, err := entity.NewCategory(in.Name, in.Description)
	if err != nil {
		return nil, err
	}
	category.ImageURL = in.ImageURL
	category.DisplayRank = in.DisplayRank

	category.Slug, err = s.slugs.Resolve(ctx, category.Name, category.ID, s.categorySlugOwner())
	if err != nil {
		return nil, err
	}

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	s.logger.Info("category created", zap.String("categoryID", category.ID), zap.String("slug", category.Slug))
	return category, nil
}

// UpdateCategory applies a partial update. A name change re-derives the slug,
// excluding the category itself from the collision check.
func (s *CatalogService) UpdateCategory(ctx context.Context, id string, in UpdateCategoryInput) (*entity.Category, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && *in.Name != category.Name {
		category.Name = *in.Name
		category.Slug, err = s.slugs.Resolve(ctx, category.Name, category.ID, s.categorySlugOwner())
		if err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	if in.ImageURL != nil {
		category.ImageURL = *in.ImageURL
	}
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}
	if in.DisplayRank != nil {
		category.DisplayRank = *in.DisplayRank
	}
	category.Touch()

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes an empty category. A category still holding products
// is refused with a Conflict.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !category.CanDelete() {
		return pkgerrors.NewConflictError("category still has products").
			WithDetails(map[string]interface{}{"productCount": category.ProductCount})
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("category deleted", zap.String("categoryID", id))
	return nil
}

// GetCategory returns a category by id.
func (s *CatalogService) GetCategory(ctx context.Context, id string) (*entity.Category, error) {
	return s.categories.FindByID(ctx, id)
}

// GetCategoryBySlug returns a category by slug.
func (s *CatalogService) GetCategoryBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	return s.categories.FindBySlug(ctx, slug)
}

// ListCategories returns categories in display rank order.
func (s *CatalogService) ListCategories(ctx context.Context, limit int, cursor string) (ports.Page[*entity.Category], error) {
	return s.categories.ListRanked(ctx, limit, cursor)
}

// CreateProductInput carries the fields accepted on product creation.
type CreateProductInput struct {
	Title         string   `json:"title" validate:"required,min=1,max=300"`
	Description   string   `json:"description" validate:"max=5000"`
	CategoryID    string   `json:"categoryId" validate:"required"`
	Price         float64  `json:"price" validate:"gte=0"`
	OriginalPrice float64  `json:"originalPrice" validate:"gte=0"`
	Currency      string   `json:"currency" validate:"omitempty,len=3"`
	ImageURLs     []string `json:"imageUrls" validate:"dive,url"`
	Tags          []string `json:"tags" validate:"dive,min=1"`
	DisplayRank   int      `json:"displayRank" validate:"gte=0"`
}

// UpdateProductInput carries a partial product update. Nil fields are left
// untouched.
type UpdateProductInput struct {
	Title         *string   `json:"title" validate:"omitempty,min=1,max=300"`
	Description   *string   `json:"description" validate:"omitempty,max=5000"`
	CategoryID    *string   `json:"categoryId" validate:"omitempty,min=1"`
	Price         *float64  `json:"price" validate:"omitempty,gte=0"`
	OriginalPrice *float64  `json:"originalPrice" validate:"omitempty,gte=0"`
	Currency      *string   `json:"currency" validate:"omitempty,len=3"`
	ImageURLs     *[]string `json:"imageUrls" validate:"omitempty,dive,url"`
	Tags          *[]string `json:"tags" validate:"omitempty,dive,min=1"`
	IsActive      *bool     `json:"isActive"`
	DisplayRank   *int      `json:"displayRank" validate:"omitempty,gte=0"`
}

// ProductFilter narrows a fetched product page in memory. Filtering never
// widens the read; a filtered page may come back short with more pages behind
// the cursor.
type ProductFilter struct {
	Search     string
	Tag        string
	ActiveOnly bool
}

// CreateProduct creates a product under an existing category and bumps that
// category's product counter.
func (s *CatalogService) CreateProduct(ctx context.Context, in CreateProductInput) (*entity.Product, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	product, err := entity.NewProduct(in.Title, in.CategoryID, in.Price, in.OriginalPrice)
	if err != nil {
		return nil, err
	}
	product.Description = in.Description
	product.ImageURLs = in.ImageURLs
	product.Tags = in.Tags
	product.DisplayRank = in.DisplayRank
	if in.Currency != "" {
		product.Currency = strings.ToUpper(in.Currency)
	}

	product.Slug, err = s.slugs.Resolve(ctx, product.Title, product.ID, s.productSlugOwner())
	if err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.aggregates.ProductAdded(ctx, product.CategoryID)

	s.logger.Info("product created",
		zap.String("productID", product.ID),
		zap.String("slug", product.Slug),
		zap.String("categoryID", product.CategoryID),
	)
	return product, nil
}

// UpdateProduct applies a partial update. A price change recomputes the
// discount; a category change moves the product counters and lands with the
// rewritten parent key in the same save; a title change re-derives the slug.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in UpdateProductInput) (*entity.Product, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousCategory := product.CategoryID

	if in.CategoryID != nil && *in.CategoryID != product.CategoryID {
		if err := s.requireCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *in.CategoryID
	}
	if in.Title != nil && *in.Title != product.Title {
		product.Title = *in.Title
		product.Slug, err = s.slugs.Resolve(ctx, product.Title, product.ID, s.productSlugOwner())
		if err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil || in.OriginalPrice != nil {
		price, original := product.Price, product.OriginalPrice
		if in.Price != nil {
			price = *in.Price
		}
		if in.OriginalPrice != nil {
			original = *in.OriginalPrice
		}
		if err := product.SetPricing(price, original); err != nil {
			return nil, err
		}
	}
	if in.Currency != nil {
		product.Currency = strings.ToUpper(*in.Currency)
	}
	if in.ImageURLs != nil {
		product.ImageURLs = *in.ImageURLs
	}
	if in.Tags != nil {
		product.Tags = *in.Tags
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	if in.DisplayRank != nil {
		product.DisplayRank = *in.DisplayRank
	}
	product.Touch()

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	if product.CategoryID != previousCategory {
		s.aggregates.ProductMoved(ctx, previousCategory, product.CategoryID)
	}
	return product, nil
}

// DeleteProduct removes a product and decrements its category's counter.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.aggregates.ProductRemoved(ctx, product.CategoryID)
	s.logger.Info("product deleted", zap.String("productID", id))
	return nil
}

// GetProduct returns a product by id.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return s.products.FindByID(ctx, id)
}

// GetProductBySlug returns a product by slug.
func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	return s.products.FindBySlug(ctx, slug)
}

// ListProducts returns products newest first, post-filtered in memory.
func (s *CatalogService) ListProducts(ctx context.Context, filter ProductFilter, limit int, cursor string) (ports.Page[*entity.Product], error) {
	page, err := s.products.ListNewest(ctx, limit, cursor)
	if err != nil {
		return ports.Page[*entity.Product]{}, err
	}
	return filterProducts(page, filter), nil
}

// ListProductsByCategory returns a category's products in display rank order,
// post-filtered in memory.
func (s *CatalogService) ListProductsByCategory(ctx context.Context, categoryID string, filter ProductFilter, limit int, cursor string) (ports.Page[*entity.Product], error) {
	page, err := s.products.ListByCategory(ctx, categoryID, limit, cursor)
	if err != nil {
		return ports.Page[*entity.Product]{}, err
	}
	return filterProducts(page, filter), nil
}

func (s *CatalogService) requireCategory(ctx context.Context, categoryID string) error {
	_, err := s.categories.FindByID(ctx, categoryID)
	if pkgerrors.IsNotFound(err) {
		return pkgerrors.NewValidationError("category does not exist").
			WithDetails(map[string]interface{}{"categoryId": categoryID})
	}
	return err
}

func (s *CatalogService) categorySlugOwner() SlugOwner {
	return ownerOf(s.categories.FindBySlug, func(c *entity.Category) string { return c.ID })
}

func (s *CatalogService) productSlugOwner() SlugOwner {
	return ownerOf(s.products.FindBySlug, func(p *entity.Product) string { return p.ID })
}

func filterProducts(page ports.Page[*entity.Product], filter ProductFilter) ports.Page[*entity.Product] {
	if filter.Search == "" && filter.Tag == "" && !filter.ActiveOnly {
		return page
	}

	kept := make([]*entity.Product, 0, len(page.Items))
	for _, p := range page.Items {
		if matchesProduct(p, filter) {
			kept = append(kept, p)
		}
	}
	page.Items = kept
	return page
}

func matchesProduct(p *entity.Product, filter ProductFilter) bool {
	if filter.ActiveOnly && !p.IsActive {
		return false
	}
	if filter.Tag != "" {
		found := false
		for _, tag := range p.Tags {
			if strings.EqualFold(tag, filter.Tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	return true
}
