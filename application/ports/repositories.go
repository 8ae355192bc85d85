// Package ports declares the repository contracts the application layer
// depends on. Implementations live under infrastructure/persistence.
package ports

import (
	"context"

	"storefront-backend/domain/entity"
)

// Page is one page of a cursor-paginated listing. NextCursor is opaque to
// callers and valid indefinitely; filters applied over a fetched page may
// legitimately return fewer than the requested number of items while
// HasMore remains true.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// CategoryRepository persists catalog categories.
type CategoryRepository interface {
	Save(ctx context.Context, category *entity.Category) error
	FindByID(ctx context.Context, id string) (*entity.Category, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Category, error)
	// ListRanked returns categories in display rank order.
	ListRanked(ctx context.Context, limit int, cursor string) (Page[*entity.Category], error)
	Delete(ctx context.Context, id string) error
	// AdjustProductCount applies an additive delta to the denormalized
	// product count without reading the category first.
	AdjustProductCount(ctx context.Context, id string, delta int) error
}

// ProductRepository persists catalog products.
type ProductRepository interface {
	Save(ctx context.Context, product *entity.Product) error
	FindByID(ctx context.Context, id string) (*entity.Product, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Product, error)
	ListNewest(ctx context.Context, limit int, cursor string) (Page[*entity.Product], error)
	ListByCategory(ctx context.Context, categoryID string, limit int, cursor string) (Page[*entity.Product], error)
	Delete(ctx context.Context, id string) error
	// UpdateRatingRollup overwrites the denormalized rating fields, guarded
	// by the product's rating version. Returns storage.ErrConditionFailed
	// when another recompute won the race.
	UpdateRatingRollup(ctx context.Context, productID string, avg float64, total int, expectedVersion int) error
}

// ReviewRepository persists product reviews. The parent product participates
// in every key.
type ReviewRepository interface {
	Save(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, productID, reviewID string) (*entity.Review, error)
	ListByProduct(ctx context.Context, productID string, limit int, cursor string) (Page[*entity.Review], error)
	// ListAllByProduct drains every page; used by the rollup recompute.
	ListAllByProduct(ctx context.Context, productID string) ([]*entity.Review, error)
	// ListRecent returns reviews of every product, newest first (moderation queue).
	ListRecent(ctx context.Context, limit int, cursor string) (Page[*entity.Review], error)
	Delete(ctx context.Context, productID, reviewID string) error
}

// PageRepository persists CMS pages.
type PageRepository interface {
	Save(ctx context.Context, page *entity.Page) error
	FindByID(ctx context.Context, id string) (*entity.Page, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Page, error)
	ListNewest(ctx context.Context, limit int, cursor string) (Page[*entity.Page], error)
	Delete(ctx context.Context, id string) error
}

// ComponentRepository persists CMS components.
type ComponentRepository interface {
	Save(ctx context.Context, component *entity.Component) error
	FindByID(ctx context.Context, id string) (*entity.Component, error)
	// ListByPage returns a page's components in display order.
	ListByPage(ctx context.Context, pageID string) ([]*entity.Component, error)
	// ListGlobal returns site-wide components in display order.
	ListGlobal(ctx context.Context) ([]*entity.Component, error)
	Delete(ctx context.Context, id string) error
}

// ContentRepository persists subscription content items.
type ContentRepository interface {
	Save(ctx context.Context, item *entity.ContentItem) error
	FindByID(ctx context.Context, id string) (*entity.ContentItem, error)
	FindBySlug(ctx context.Context, slug string) (*entity.ContentItem, error)
	ListNewest(ctx context.Context, limit int, cursor string) (Page[*entity.ContentItem], error)
	Delete(ctx context.Context, id string) error
}
