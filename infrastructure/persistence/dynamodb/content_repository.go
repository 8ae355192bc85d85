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

// ContentRepository implements ports.ContentRepository.
type ContentRepository struct {
	store  storage.Gateway
	logger *zap.Logger
}

// NewContentRepository creates a content repository over the gateway.
func NewContentRepository(store storage.Gateway, logger *zap.Logger) *ContentRepository {
	return &ContentRepository{store: store, logger: logger}
}

// contentItem is the stored shape of a subscription content item.
type contentItem struct {
	EntityType  string `dynamodbav:"entityType"`
	ID          string `dynamodbav:"id"`
	Title       string `dynamodbav:"title"`
	Slug        string `dynamodbav:"slug"`
	ContentType string `dynamodbav:"contentType"`
	MediaURL    string `dynamodbav:"mediaUrl,omitempty"`
	IsPremium   bool   `dynamodbav:"isPremium"`
	PublishedAt string `dynamodbav:"publishedAt"`
	CreatedAt   string `dynamodbav:"createdAt"`
	UpdatedAt   string `dynamodbav:"updatedAt"`
}

// Save persists a content item.
func (r *ContentRepository) Save(ctx context.Context, content *entity.ContentItem) error {
	item, err := marshalWithKeys(contentItem{
		EntityType:  entity.TypeContent.String(),
		ID:          content.ID,
		Title:       content.Title,
		Slug:        content.Slug,
		ContentType: string(content.ContentType),
		MediaURL:    content.MediaURL,
		IsPremium:   content.IsPremium,
		PublishedAt: formatTime(content.PublishedAt),
		CreatedAt:   formatTime(content.CreatedAt),
		UpdatedAt:   formatTime(content.UpdatedAt),
	}, keys.ForContent(content))
	if err != nil {
		return err
	}

	if err := r.store.Put(ctx, item); err != nil {
		return err
	}

	r.logger.Debug("content item saved",
		zap.String("contentID", content.ID),
		zap.String("slug", content.Slug),
		zap.String("contentType", string(content.ContentType)),
	)
	return nil
}

// FindByID returns the content item or a NotFound error.
func (r *ContentRepository) FindByID(ctx context.Context, id string) (*entity.ContentItem, error) {
	k := keys.TypeKey(entity.TypeContent, id)
	item, err := r.store.Get(ctx, k, k)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, pkgerrors.NewNotFoundError("content item")
	}
	return unmarshalContent(item)
}

// FindBySlug resolves a content item through the slug index.
func (r *ContentRepository) FindBySlug(ctx context.Context, slug string) (*entity.ContentItem, error) {
	res, err := r.store.Query(ctx, plan.BySlug(entity.TypeContent, slug))
	if err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("content item")
	}
	return unmarshalContent(res.Items[0])
}

// ListNewest returns content items, most recently published first.
func (r *ContentRepository) ListNewest(ctx context.Context, limit int, cur string) (ports.Page[*entity.ContentItem], error) {
	q := plan.ListByType(entity.TypeContent).WithLimit(limit).WithStartKey(cursor.Decode(cur))
	res, err := r.store.Query(ctx, q)
	if err != nil {
		return ports.Page[*entity.ContentItem]{}, err
	}
	return pageOf(res, unmarshalContent)
}

// Delete removes the content item.
func (r *ContentRepository) Delete(ctx context.Context, id string) error {
	k := keys.TypeKey(entity.TypeContent, id)
	return r.store.Delete(ctx, k, k)
}

func unmarshalContent(item storage.Item) (*entity.ContentItem, error) {
	var rec contentItem
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal content item").WithCause(err)
	}

	return &entity.ContentItem{
		ID:          rec.ID,
		Title:       rec.Title,
		Slug:        rec.Slug,
		ContentType: entity.ContentType(rec.ContentType),
		MediaURL:    rec.MediaURL,
		IsPremium:   rec.IsPremium,
		PublishedAt: parseTime(rec.PublishedAt),
		CreatedAt:   parseTime(rec.CreatedAt),
		UpdatedAt:   parseTime(rec.UpdatedAt),
	}, nil
}
