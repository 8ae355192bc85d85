package services

import (
	"context"

	"go.uber.org/zap"

	"storefront-backend/application/ports"
	"storefront-backend/domain/entity"
	pkgerrors "storefront-backend/pkg/errors"
	"storefront-backend/pkg/utils"
)

// ReviewService owns the review use cases. Every mutation that can change the
// approved review set schedules a rating rollup recompute; the recompute is
// best effort and never fails the review operation itself.
type ReviewService struct {
	reviews    ports.ReviewRepository
	products   ports.ProductRepository
	aggregates *AggregateMaintainer
	logger     *zap.Logger
}

// NewReviewService creates the review service.
func NewReviewService(
	reviews ports.ReviewRepository,
	products ports.ProductRepository,
	aggregates *AggregateMaintainer,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:    reviews,
		products:   products,
		aggregates: aggregates,
		logger:     logger,
	}
}

// CreateReviewInput carries the fields accepted on review creation.
type CreateReviewInput struct {
	ProductID string `json:"productId" validate:"required"`
	Author    string `json:"author" validate:"required,min=1,max=200"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title     string `json:"title" validate:"max=300"`
	Body      string `json:"body" validate:"max=5000"`
}

// UpdateReviewInput carries a partial review update. Nil fields are left
// untouched. Approval has its own operation.
type UpdateReviewInput struct {
	Rating *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Title  *string `json:"title" validate:"omitempty,max=300"`
	Body   *string `json:"body" validate:"omitempty,max=5000"`
}

// CreateReview creates a review in the pending state under an existing
// product. Pending reviews do not contribute to the product's rating.
func (s *ReviewService) CreateReview(ctx context.Context, in CreateReviewInput) (*entity.Review, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	if _, err := s.products.FindByID(ctx, in.ProductID); err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, pkgerrors.NewValidationError("product does not exist").
				WithDetails(map[string]interface{}{"productId": in.ProductID})
		}
		return nil, err
	}

	review, err := entity.NewReview(in.ProductID, in.Author, in.Title, in.Body, in.Rating)
	if err != nil {
		return nil, err
	}
	if err := s.reviews.Save(ctx, review); err != nil {
		return nil, err
	}
	s.aggregates.RecomputeRating(ctx, review.ProductID)

	s.logger.Info("review created",
		zap.String("reviewID", review.ID),
		zap.String("productID", review.ProductID),
	)
	return review, nil
}

// UpdateReview applies a partial update and recomputes the rollup when the
// rating changed on an approved review.
func (s *ReviewService) UpdateReview(ctx context.Context, productID, reviewID string, in UpdateReviewInput) (*entity.Review, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	review, err := s.reviews.FindByID(ctx, productID, reviewID)
	if err != nil {
		return nil, err
	}

	ratingChanged := false
	if in.Rating != nil && *in.Rating != review.Rating {
		if err := review.SetRating(*in.Rating); err != nil {
			return nil, err
		}
		ratingChanged = true
	}
	if in.Title != nil {
		review.Title = *in.Title
	}
	if in.Body != nil {
		review.Body = *in.Body
	}
	review.Touch()

	if err := s.reviews.Save(ctx, review); err != nil {
		return nil, err
	}
	if ratingChanged && review.IsApproved {
		s.aggregates.RecomputeRating(ctx, review.ProductID)
	}
	return review, nil
}

// SetReviewApproval moves a review between pending and approved and
// recomputes the rollup on any transition.
func (s *ReviewService) SetReviewApproval(ctx context.Context, productID, reviewID string, approved bool) (*entity.Review, error) {
	review, err := s.reviews.FindByID(ctx, productID, reviewID)
	if err != nil {
		return nil, err
	}
	if review.IsApproved == approved {
		return review, nil
	}

	review.SetApproval(approved)
	if err := s.reviews.Save(ctx, review); err != nil {
		return nil, err
	}
	s.aggregates.RecomputeRating(ctx, review.ProductID)

	s.logger.Info("review approval changed",
		zap.String("reviewID", review.ID),
		zap.String("productID", review.ProductID),
		zap.Bool("isApproved", approved),
	)
	return review, nil
}

// DeleteReview removes a review and recomputes the rollup when the review
// had been contributing.
func (s *ReviewService) DeleteReview(ctx context.Context, productID, reviewID string) error {
	review, err := s.reviews.FindByID(ctx, productID, reviewID)
	if err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, productID, reviewID); err != nil {
		return err
	}
	if review.IsApproved {
		s.aggregates.RecomputeRating(ctx, productID)
	}
	s.logger.Info("review deleted", zap.String("reviewID", reviewID), zap.String("productID", productID))
	return nil
}

// GetReview returns one review.
func (s *ReviewService) GetReview(ctx context.Context, productID, reviewID string) (*entity.Review, error) {
	return s.reviews.FindByID(ctx, productID, reviewID)
}

// ListProductReviews returns one page of a product's reviews. The public
// surface sees approved reviews only; moderation passes includePending. The
// approval filter applies over the fetched page, so a page may come back
// short while more remain behind the cursor.
func (s *ReviewService) ListProductReviews(ctx context.Context, productID string, includePending bool, limit int, cursor string) (ports.Page[*entity.Review], error) {
	page, err := s.reviews.ListByProduct(ctx, productID, limit, cursor)
	if err != nil {
		return ports.Page[*entity.Review]{}, err
	}
	if includePending {
		return page, nil
	}

	kept := make([]*entity.Review, 0, len(page.Items))
	for _, review := range page.Items {
		if review.IsApproved {
			kept = append(kept, review)
		}
	}
	page.Items = kept
	return page, nil
}

// ListRecentReviews returns reviews of every product, newest first. This is
// the moderation queue, so pending reviews are included.
func (s *ReviewService) ListRecentReviews(ctx context.Context, limit int, cursor string) (ports.Page[*entity.Review], error) {
	return s.reviews.ListRecent(ctx, limit, cursor)
}
