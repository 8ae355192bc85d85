package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"go.uber.org/zap"

	"storefront-backend/application/ports"
	"storefront-backend/domain/entity"
	"storefront-backend/infrastructure/persistence/cursor"
	"storefront-backend/infrastructure/persistence/keys"
	"storefront-backend/infrastructure/persistence/plan"
	"storefront-backend/infrastructure/persistence/storage"
	pkgerrors "storefront-backend/pkg/errors"
)

// ReviewRepository implements ports.ReviewRepository. Reviews partition under
// their product in the primary key, so per-product listings run without any
// secondary index.
type ReviewRepository struct {
	store  storage.Gateway
	logger *zap.Logger
}

// NewReviewRepository creates a review repository over the gateway.
func NewReviewRepository(store storage.Gateway, logger *zap.Logger) *ReviewRepository {
	return &ReviewRepository{store: store, logger: logger}
}

// reviewItem is the stored shape of a review.
type reviewItem struct {
	EntityType string `dynamodbav:"entityType"`
	ID         string `dynamodbav:"id"`
	ProductID  string `dynamodbav:"productId"`
	Author     string `dynamodbav:"author"`
	Rating     int    `dynamodbav:"rating"`
	Title      string `dynamodbav:"title,omitempty"`
	Body       string `dynamodbav:"body,omitempty"`
	IsApproved bool   `dynamodbav:"isApproved"`
	CreatedAt  string `dynamodbav:"createdAt"`
	UpdatedAt  string `dynamodbav:"updatedAt"`
}

// Save persists a review.
func (r *ReviewRepository) Save(ctx context.Context, review *entity.Review) error {
	item, err := marshalWithKeys(reviewItem{
		EntityType: entity.TypeReview.String(),
		ID:         review.ID,
		ProductID:  review.ProductID,
		Author:     review.Author,
		Rating:     review.Rating,
		Title:      review.Title,
		Body:       review.Body,
		IsApproved: review.IsApproved,
		CreatedAt:  formatTime(review.CreatedAt),
		UpdatedAt:  formatTime(review.UpdatedAt),
	}, keys.ForReview(review))
	if err != nil {
		return err
	}

	if err := r.store.Put(ctx, item); err != nil {
		return err
	}

	r.logger.Debug("review saved",
		zap.String("reviewID", review.ID),
		zap.String("productID", review.ProductID),
		zap.Bool("isApproved", review.IsApproved),
	)
	return nil
}

// FindByID returns the review or a NotFound error.
func (r *ReviewRepository) FindByID(ctx context.Context, productID, reviewID string) (*entity.Review, error) {
	item, err := r.store.Get(ctx,
		keys.TypeKey(entity.TypeProduct, productID),
		keys.TypeKey(entity.TypeReview, reviewID),
	)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, pkgerrors.NewNotFoundError("review")
	}
	return unmarshalReview(item)
}

// ListByProduct returns one page of a product's reviews.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string, limit int, cur string) (ports.Page[*entity.Review], error) {
	q := plan.ReviewsOf(productID).WithLimit(limit).WithStartKey(cursor.Decode(cur))
	res, err := r.store.Query(ctx, q)
	if err != nil {
		return ports.Page[*entity.Review]{}, err
	}
	return pageOf(res, unmarshalReview)
}

// ListAllByProduct drains every page of a product's reviews. The rollup
// recompute needs the complete set, not one page.
func (r *ReviewRepository) ListAllByProduct(ctx context.Context, productID string) ([]*entity.Review, error) {
	var all []*entity.Review
	q := plan.ReviewsOf(productID).WithLimit(plan.MaxPageSize)

	for {
		res, err := r.store.Query(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, raw := range res.Items {
			review, err := unmarshalReview(raw)
			if err != nil {
				return nil, err
			}
			all = append(all, review)
		}
		if len(res.LastEvaluatedKey) == 0 {
			return all, nil
		}
		q = q.WithStartKey(res.LastEvaluatedKey)
	}
}

// ListRecent returns reviews across all products, newest first.
func (r *ReviewRepository) ListRecent(ctx context.Context, limit int, cur string) (ports.Page[*entity.Review], error) {
	q := plan.ListByType(entity.TypeReview).WithLimit(limit).WithStartKey(cursor.Decode(cur))
	res, err := r.store.Query(ctx, q)
	if err != nil {
		return ports.Page[*entity.Review]{}, err
	}
	return pageOf(res, unmarshalReview)
}

// Delete removes the review item.
func (r *ReviewRepository) Delete(ctx context.Context, productID, reviewID string) error {
	return r.store.Delete(ctx,
		keys.TypeKey(entity.TypeProduct, productID),
		keys.TypeKey(entity.TypeReview, reviewID),
	)
}

func unmarshalReview(item storage.Item) (*entity.Review, error) {
	var rec reviewItem
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal review").WithCause(err)
	}

	return &entity.Review{
		ID:         rec.ID,
		ProductID:  rec.ProductID,
		Author:     rec.Author,
		Rating:     rec.Rating,
		Title:      rec.Title,
		Body:       rec.Body,
		IsApproved: rec.IsApproved,
		CreatedAt:  parseTime(rec.CreatedAt),
		UpdatedAt:  parseTime(rec.UpdatedAt),
	}, nil
}
