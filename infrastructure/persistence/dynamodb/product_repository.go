package dynamodb

import (
	"context"
	"time"

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

// ProductRepository implements ports.ProductRepository.
type ProductRepository struct {
	store  storage.Gateway
	logger *zap.Logger
}

// NewProductRepository creates a product repository over the gateway.
func NewProductRepository(store storage.Gateway, logger *zap.Logger) *ProductRepository {
	return &ProductRepository{store: store, logger: logger}
}

// productItem is the stored shape of a product.
type productItem struct {
	EntityType      string   `dynamodbav:"entityType"`
	ID              string   `dynamodbav:"id"`
	Title           string   `dynamodbav:"title"`
	Slug            string   `dynamodbav:"slug"`
	Description     string   `dynamodbav:"description,omitempty"`
	CategoryID      string   `dynamodbav:"categoryId"`
	Price           float64  `dynamodbav:"price"`
	OriginalPrice   float64  `dynamodbav:"originalPrice"`
	DiscountPercent int      `dynamodbav:"discountPercent"`
	Currency        string   `dynamodbav:"currency"`
	ImageURLs       []string `dynamodbav:"imageUrls,omitempty"`
	Tags            []string `dynamodbav:"tags,omitempty"`
	IsActive        bool     `dynamodbav:"isActive"`
	DisplayRank     int      `dynamodbav:"displayRank"`
	AvgRating       float64  `dynamodbav:"avgRating"`
	TotalReviews    int      `dynamodbav:"totalReviews"`
	RatingVersion   int      `dynamodbav:"ratingVersion"`
	CreatedAt       string   `dynamodbav:"createdAt"`
	UpdatedAt       string   `dynamodbav:"updatedAt"`
}

// Save persists a product together with all of its derived keys. A category
// or rank change lands with its rewritten parent-index key in this one write.
func (r *ProductRepository) Save(ctx context.Context, product *entity.Product) error {
	item, err := marshalWithKeys(productItem{
		EntityType:      entity.TypeProduct.String(),
		ID:              product.ID,
		Title:           product.Title,
		Slug:            product.Slug,
		Description:     product.Description,
		CategoryID:      product.CategoryID,
		Price:           product.Price,
		OriginalPrice:   product.OriginalPrice,
		DiscountPercent: product.DiscountPercent,
		Currency:        product.Currency,
		ImageURLs:       product.ImageURLs,
		Tags:            product.Tags,
		IsActive:        product.IsActive,
		DisplayRank:     product.DisplayRank,
		AvgRating:       product.AvgRating,
		TotalReviews:    product.TotalReviews,
		RatingVersion:   product.RatingVersion,
		CreatedAt:       formatTime(product.CreatedAt),
		UpdatedAt:       formatTime(product.UpdatedAt),
	}, keys.ForProduct(product))
	if err != nil {
		return err
	}

	if err := r.store.Put(ctx, item); err != nil {
		return err
	}

	r.logger.Debug("product saved",
		zap.String("productID", product.ID),
		zap.String("slug", product.Slug),
		zap.String("categoryID", product.CategoryID),
	)
	return nil
}

// FindByID returns the product or a NotFound error.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	k := keys.TypeKey(entity.TypeProduct, id)
	item, err := r.store.Get(ctx, k, k)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, pkgerrors.NewNotFoundError("product")
	}
	return unmarshalProduct(item)
}

// FindBySlug resolves a product through the slug index.
func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	res, err := r.store.Query(ctx, plan.BySlug(entity.TypeProduct, slug))
	if err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("product")
	}
	return unmarshalProduct(res.Items[0])
}

// ListNewest returns products of every category, newest first.
func (r *ProductRepository) ListNewest(ctx context.Context, limit int, cur string) (ports.Page[*entity.Product], error) {
	q := plan.ListByType(entity.TypeProduct).WithLimit(limit).WithStartKey(cursor.Decode(cur))
	res, err := r.store.Query(ctx, q)
	if err != nil {
		return ports.Page[*entity.Product]{}, err
	}
	return pageOf(res, unmarshalProduct)
}

// ListByCategory returns a category's products in display rank order.
func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID string, limit int, cur string) (ports.Page[*entity.Product], error) {
	q := plan.ListByParent(entity.TypeCategory, categoryID).WithLimit(limit).WithStartKey(cursor.Decode(cur))
	res, err := r.store.Query(ctx, q)
	if err != nil {
		return ports.Page[*entity.Product]{}, err
	}
	return pageOf(res, unmarshalProduct)
}

// Delete removes the product item.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	k := keys.TypeKey(entity.TypeProduct, id)
	return r.store.Delete(ctx, k, k)
}

// UpdateRatingRollup overwrites the denormalized rating fields guarded by the
// rating version. storage.ErrConditionFailed reports a lost race.
func (r *ProductRepository) UpdateRatingRollup(ctx context.Context, productID string, avg float64, total int, expectedVersion int) error {
	avgAttr, err := attrFloat(avg)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal rating").WithCause(err)
	}
	totalAttr, err := attrInt(total)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal review count").WithCause(err)
	}
	nextVersion, err := attrInt(expectedVersion + 1)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal rating version").WithCause(err)
	}
	seenVersion, err := attrInt(expectedVersion)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal rating version").WithCause(err)
	}

	k := keys.TypeKey(entity.TypeProduct, productID)
	_, err = r.store.Update(ctx, storage.UpdateInput{
		Key: keys.Primary{PK: k, SK: k},
		Set: storage.Item{
			"avgRating":     avgAttr,
			"totalReviews":  totalAttr,
			"ratingVersion": nextVersion,
			"updatedAt":     attrString(formatTime(time.Now())),
		},
		Condition: &storage.Condition{Name: "ratingVersion", Value: seenVersion},
	})
	return err
}

func unmarshalProduct(item storage.Item) (*entity.Product, error) {
	var rec productItem
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal product").WithCause(err)
	}

	return &entity.Product{
		ID:              rec.ID,
		Title:           rec.Title,
		Slug:            rec.Slug,
		Description:     rec.Description,
		CategoryID:      rec.CategoryID,
		Price:           rec.Price,
		OriginalPrice:   rec.OriginalPrice,
		DiscountPercent: rec.DiscountPercent,
		Currency:        rec.Currency,
		ImageURLs:       rec.ImageURLs,
		Tags:            rec.Tags,
		IsActive:        rec.IsActive,
		DisplayRank:     rec.DisplayRank,
		AvgRating:       rec.AvgRating,
		TotalReviews:    rec.TotalReviews,
		RatingVersion:   rec.RatingVersion,
		CreatedAt:       parseTime(rec.CreatedAt),
		UpdatedAt:       parseTime(rec.UpdatedAt),
	}, nil
}
