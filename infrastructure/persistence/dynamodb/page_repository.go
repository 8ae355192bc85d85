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

// PageRepository implements ports.PageRepository.
type PageRepository struct {
	store  storage.Gateway
	logger *zap.Logger
}

// NewPageRepository creates a CMS page repository over the gateway.
func NewPageRepository(store storage.Gateway, logger *zap.Logger) *PageRepository {
	return &PageRepository{store: store, logger: logger}
}

// pageItem is the stored shape of a CMS page. Component order is explicit in
// the stored list, never inferred.
type pageItem struct {
	EntityType   string   `dynamodbav:"entityType"`
	ID           string   `dynamodbav:"id"`
	Title        string   `dynamodbav:"title"`
	Slug         string   `dynamodbav:"slug"`
	ComponentIDs []string `dynamodbav:"componentIds"`
	IsPublished  bool     `dynamodbav:"isPublished"`
	CreatedAt    string   `dynamodbav:"createdAt"`
	UpdatedAt    string   `dynamodbav:"updatedAt"`
}

// Save persists a page.
func (r *PageRepository) Save(ctx context.Context, page *entity.Page) error {
	item, err := marshalWithKeys(pageItem{
		EntityType:   entity.TypePage.String(),
		ID:           page.ID,
		Title:        page.Title,
		Slug:         page.Slug,
		ComponentIDs: page.ComponentIDs,
		IsPublished:  page.IsPublished,
		CreatedAt:    formatTime(page.CreatedAt),
		UpdatedAt:    formatTime(page.UpdatedAt),
	}, keys.ForPage(page))
	if err != nil {
		return err
	}

	if err := r.store.Put(ctx, item); err != nil {
		return err
	}

	r.logger.Debug("cms page saved", zap.String("pageID", page.ID), zap.String("slug", page.Slug))
	return nil
}

// FindByID returns the page or a NotFound error.
func (r *PageRepository) FindByID(ctx context.Context, id string) (*entity.Page, error) {
	k := keys.TypeKey(entity.TypePage, id)
	item, err := r.store.Get(ctx, k, k)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, pkgerrors.NewNotFoundError("page")
	}
	return unmarshalPage(item)
}

// FindBySlug resolves a page through the slug index.
func (r *PageRepository) FindBySlug(ctx context.Context, slug string) (*entity.Page, error) {
	res, err := r.store.Query(ctx, plan.BySlug(entity.TypePage, slug))
	if err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("page")
	}
	return unmarshalPage(res.Items[0])
}

// ListNewest returns pages, newest first.
func (r *PageRepository) ListNewest(ctx context.Context, limit int, cur string) (ports.Page[*entity.Page], error) {
	q := plan.ListByType(entity.TypePage).WithLimit(limit).WithStartKey(cursor.Decode(cur))
	res, err := r.store.Query(ctx, q)
	if err != nil {
		return ports.Page[*entity.Page]{}, err
	}
	return pageOf(res, unmarshalPage)
}

// Delete removes the page item.
func (r *PageRepository) Delete(ctx context.Context, id string) error {
	k := keys.TypeKey(entity.TypePage, id)
	return r.store.Delete(ctx, k, k)
}

func unmarshalPage(item storage.Item) (*entity.Page, error) {
	var rec pageItem
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal page").WithCause(err)
	}

	return &entity.Page{
		ID:           rec.ID,
		Title:        rec.Title,
		Slug:         rec.Slug,
		ComponentIDs: rec.ComponentIDs,
		IsPublished:  rec.IsPublished,
		CreatedAt:    parseTime(rec.CreatedAt),
		UpdatedAt:    parseTime(rec.UpdatedAt),
	}, nil
}
