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

// CategoryRepository implements ports.CategoryRepository.
type CategoryRepository struct {
	store  storage.Gateway
	logger *zap.Logger
}

// NewCategoryRepository creates a category repository over the gateway.
func NewCategoryRepository(store storage.Gateway, logger *zap.Logger) *CategoryRepository {
	return &CategoryRepository{store: store, logger: logger}
}

// categoryItem is the stored shape of a category.
type categoryItem struct {
	EntityType   string `dynamodbav:"entityType"`
	ID           string `dynamodbav:"id"`
	Name         string `dynamodbav:"name"`
	Slug         string `dynamodbav:"slug"`
	Description  string `dynamodbav:"description,omitempty"`
	ImageURL     string `dynamodbav:"imageUrl,omitempty"`
	IsActive     bool   `dynamodbav:"isActive"`
	DisplayRank  int    `dynamodbav:"displayRank"`
	ProductCount int    `dynamodbav:"productCount"`
	CreatedAt    string `dynamodbav:"createdAt"`
	UpdatedAt    string `dynamodbav:"updatedAt"`
}

// Save persists a category together with all of its derived keys.
func (r *CategoryRepository) Save(ctx context.Context, category *entity.Category) error {
	item, err := marshalWithKeys(categoryItem{
		EntityType:   entity.TypeCategory.String(),
		ID:           category.ID,
		Name:         category.Name,
		Slug:         category.Slug,
		Description:  category.Description,
		ImageURL:     category.ImageURL,
		IsActive:     category.IsActive,
		DisplayRank:  category.DisplayRank,
		ProductCount: category.ProductCount,
		CreatedAt:    formatTime(category.CreatedAt),
		UpdatedAt:    formatTime(category.UpdatedAt),
	}, keys.ForCategory(category))
	if err != nil {
		return err
	}

	if err := r.store.Put(ctx, item); err != nil {
		return err
	}

	r.logger.Debug("category saved",
		zap.String("categoryID", category.ID),
		zap.String("slug", category.Slug),
	)
	return nil
}

// FindByID returns the category or a NotFound error.
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*entity.Category, error) {
	k := keys.TypeKey(entity.TypeCategory, id)
	item, err := r.store.Get(ctx, k, k)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, pkgerrors.NewNotFoundError("category")
	}
	return unmarshalCategory(item)
}

// FindBySlug resolves a category through the slug index.
func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	res, err := r.store.Query(ctx, plan.BySlug(entity.TypeCategory, slug))
	if err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("category")
	}
	return unmarshalCategory(res.Items[0])
}

// ListRanked returns categories in display rank order.
func (r *CategoryRepository) ListRanked(ctx context.Context, limit int, cur string) (ports.Page[*entity.Category], error) {
	q := plan.ListRankedCategories().WithLimit(limit).WithStartKey(cursor.Decode(cur))
	res, err := r.store.Query(ctx, q)
	if err != nil {
		return ports.Page[*entity.Category]{}, err
	}
	return pageOf(res, unmarshalCategory)
}

// Delete removes the category item. The referential guard lives in the
// service layer, which checks the product count first.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	k := keys.TypeKey(entity.TypeCategory, id)
	return r.store.Delete(ctx, k, k)
}

// AdjustProductCount applies an additive delta server-side so concurrent
// increments never lose an update.
func (r *CategoryRepository) AdjustProductCount(ctx context.Context, id string, delta int) error {
	k := keys.TypeKey(entity.TypeCategory, id)
	_, err := r.store.Update(ctx, storage.UpdateInput{
		Key: keys.Primary{PK: k, SK: k},
		Add: map[string]int{"productCount": delta},
	})
	return err
}

func unmarshalCategory(item storage.Item) (*entity.Category, error) {
	var rec categoryItem
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal category").WithCause(err)
	}

	// The counter is eventually consistent; a transiently negative value is
	// presented as zero.
	count := rec.ProductCount
	if count < 0 {
		count = 0
	}

	return &entity.Category{
		ID:           rec.ID,
		Name:         rec.Name,
		Slug:         rec.Slug,
		Description:  rec.Description,
		ImageURL:     rec.ImageURL,
		IsActive:     rec.IsActive,
		DisplayRank:  rec.DisplayRank,
		ProductCount: count,
		CreatedAt:    parseTime(rec.CreatedAt),
		UpdatedAt:    parseTime(rec.UpdatedAt),
	}, nil
}
