package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"storefront-backend/application/ports"
	"storefront-backend/domain/entity"
	"storefront-backend/infrastructure/persistence/storage"
	"storefront-backend/pkg/observability"
)

// rollupRetries bounds the optimistic-lock retry loop for the rating rollup.
const rollupRetries = 3

// AggregateMaintainer keeps the denormalized fields in step with their source
// records: the per-category product counter and the per-product rating rollup.
// Both updates are best effort. The primary write has already succeeded when
// a maintainer method runs, so failures here are logged, counted, and
// swallowed; the next trigger converges the value.
type AggregateMaintainer struct {
	categories ports.CategoryRepository
	products   ports.ProductRepository
	reviews    ports.ReviewRepository
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAggregateMaintainer creates the maintainer.
func NewAggregateMaintainer(
	categories ports.CategoryRepository,
	products ports.ProductRepository,
	reviews ports.ReviewRepository,
	logger *zap.Logger,
	metrics *observability.Metrics,
) *AggregateMaintainer {
	return &AggregateMaintainer{
		categories: categories,
		products:   products,
		reviews:    reviews,
		logger:     logger,
		metrics:    metrics,
	}
}

// ProductAdded bumps the category's product counter.
func (m *AggregateMaintainer) ProductAdded(ctx context.Context, categoryID string) {
	m.adjustCounter(ctx, categoryID, 1)
}

// ProductRemoved decrements the category's product counter.
func (m *AggregateMaintainer) ProductRemoved(ctx context.Context, categoryID string) {
	m.adjustCounter(ctx, categoryID, -1)
}

// ProductMoved moves one unit of the counter between categories.
func (m *AggregateMaintainer) ProductMoved(ctx context.Context, fromCategoryID, toCategoryID string) {
	if fromCategoryID == toCategoryID {
		return
	}
	m.adjustCounter(ctx, fromCategoryID, -1)
	m.adjustCounter(ctx, toCategoryID, 1)
}

func (m *AggregateMaintainer) adjustCounter(ctx context.Context, categoryID string, delta int) {
	if err := m.categories.AdjustProductCount(ctx, categoryID, delta); err != nil {
		m.metrics.AggregateUpdateDropped("counter")
		m.logger.Warn("product counter update dropped",
			zap.String("categoryID", categoryID),
			zap.Int("delta", delta),
			zap.Error(err),
		)
	}
}

// RecomputeRating rebuilds a product's rating rollup from its full review set.
// Only approved reviews contribute. The write is guarded by the product's
// rating version; a lost race re-reads and retries a bounded number of times.
func (m *AggregateMaintainer) RecomputeRating(ctx context.Context, productID string) {
	for attempt := 0; attempt < rollupRetries; attempt++ {
		product, err := m.products.FindByID(ctx, productID)
		if err != nil {
			// Product already gone (review deleted after product delete) or
			// storage down; either way there is nothing to converge now.
			m.dropRollup(productID, err)
			return
		}

		all, err := m.reviews.ListAllByProduct(ctx, productID)
		if err != nil {
			m.dropRollup(productID, err)
			return
		}

		sum, count := 0.0, 0
		for _, review := range all {
			if !review.IsApproved {
				continue
			}
			sum += float64(review.Rating)
			count++
		}
		avg := entity.RoundRating(sum, count)

		err = m.products.UpdateRatingRollup(ctx, productID, avg, count, product.RatingVersion)
		if err == nil {
			m.logger.Debug("rating rollup updated",
				zap.String("productID", productID),
				zap.Float64("avgRating", avg),
				zap.Int("totalReviews", count),
			)
			return
		}
		if !errors.Is(err, storage.ErrConditionFailed) {
			m.dropRollup(productID, err)
			return
		}
		// Lost the version race; loop re-reads the fresh review set.
	}

	m.dropRollup(productID, errors.New("rating version contention exhausted retries"))
}

func (m *AggregateMaintainer) dropRollup(productID string, err error) {
	m.metrics.AggregateUpdateDropped("rollup")
	m.logger.Warn("rating rollup update dropped",
		zap.String("productID", productID),
		zap.Error(err),
	)
}
