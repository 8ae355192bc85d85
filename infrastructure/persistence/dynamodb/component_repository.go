package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"go.uber.org/zap"

	"storefront-backend/domain/entity"
	"storefront-backend/infrastructure/persistence/keys"
	"storefront-backend/infrastructure/persistence/plan"
	"storefront-backend/infrastructure/persistence/storage"
	pkgerrors "storefront-backend/pkg/errors"
)

// ComponentRepository implements ports.ComponentRepository.
type ComponentRepository struct {
	store  storage.Gateway
	logger *zap.Logger
}

// NewComponentRepository creates a CMS component repository over the gateway.
func NewComponentRepository(store storage.Gateway, logger *zap.Logger) *ComponentRepository {
	return &ComponentRepository{store: store, logger: logger}
}

// componentItem is the stored shape of a component. Field values nest as
// native document attributes; localized values stay maps keyed by language.
type componentItem struct {
	EntityType    string               `dynamodbav:"entityType"`
	ID            string               `dynamodbav:"id"`
	Scope         string               `dynamodbav:"scope"`
	PageID        string               `dynamodbav:"pageId,omitempty"`
	ComponentType string               `dynamodbav:"componentType"`
	DisplayOrder  int                  `dynamodbav:"displayOrder"`
	Fields        []componentFieldItem `dynamodbav:"fields"`
	CreatedAt     string               `dynamodbav:"createdAt"`
	UpdatedAt     string               `dynamodbav:"updatedAt"`
}

type componentFieldItem struct {
	Key   string      `dynamodbav:"key"`
	Value interface{} `dynamodbav:"value"`
}

// Save persists a component. A scope or order change rewrites the parent
// index key in the same write.
func (r *ComponentRepository) Save(ctx context.Context, component *entity.Component) error {
	fields := make([]componentFieldItem, 0, len(component.Fields))
	for _, f := range component.Fields {
		fields = append(fields, componentFieldItem{Key: f.Key, Value: f.Value})
	}

	item, err := marshalWithKeys(componentItem{
		EntityType:    entity.TypeComponent.String(),
		ID:            component.ID,
		Scope:         string(component.Scope),
		PageID:        component.PageID,
		ComponentType: component.ComponentType,
		DisplayOrder:  component.DisplayOrder,
		Fields:        fields,
		CreatedAt:     formatTime(component.CreatedAt),
		UpdatedAt:     formatTime(component.UpdatedAt),
	}, keys.ForComponent(component))
	if err != nil {
		return err
	}

	if err := r.store.Put(ctx, item); err != nil {
		return err
	}

	r.logger.Debug("cms component saved",
		zap.String("componentID", component.ID),
		zap.String("scope", string(component.Scope)),
		zap.String("componentType", component.ComponentType),
	)
	return nil
}

// FindByID returns the component or a NotFound error.
func (r *ComponentRepository) FindByID(ctx context.Context, id string) (*entity.Component, error) {
	k := keys.TypeKey(entity.TypeComponent, id)
	item, err := r.store.Get(ctx, k, k)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, pkgerrors.NewNotFoundError("component")
	}
	return unmarshalComponent(item)
}

// ListByPage drains a page's components in display order. A page holds at
// most a few dozen components, so no cursor is exposed.
func (r *ComponentRepository) ListByPage(ctx context.Context, pageID string) ([]*entity.Component, error) {
	return r.drain(ctx, plan.ListByParent(entity.TypePage, pageID))
}

// ListGlobal drains site-wide components in display order.
func (r *ComponentRepository) ListGlobal(ctx context.Context) ([]*entity.Component, error) {
	return r.drain(ctx, plan.ListGlobalComponents())
}

func (r *ComponentRepository) drain(ctx context.Context, q plan.Query) ([]*entity.Component, error) {
	components := []*entity.Component{}
	q = q.WithLimit(plan.MaxPageSize)

	for {
		res, err := r.store.Query(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, raw := range res.Items {
			c, err := unmarshalComponent(raw)
			if err != nil {
				return nil, err
			}
			components = append(components, c)
		}
		if len(res.LastEvaluatedKey) == 0 {
			return components, nil
		}
		q = q.WithStartKey(res.LastEvaluatedKey)
	}
}

// Delete removes the component item.
func (r *ComponentRepository) Delete(ctx context.Context, id string) error {
	k := keys.TypeKey(entity.TypeComponent, id)
	return r.store.Delete(ctx, k, k)
}

func unmarshalComponent(item storage.Item) (*entity.Component, error) {
	var rec componentItem
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal component").WithCause(err)
	}

	fields := make([]entity.Field, 0, len(rec.Fields))
	for _, f := range rec.Fields {
		fields = append(fields, entity.Field{Key: f.Key, Value: f.Value})
	}

	return &entity.Component{
		ID:            rec.ID,
		Scope:         entity.ComponentScope(rec.Scope),
		PageID:        rec.PageID,
		ComponentType: rec.ComponentType,
		DisplayOrder:  rec.DisplayOrder,
		Fields:        fields,
		CreatedAt:     parseTime(rec.CreatedAt),
		UpdatedAt:     parseTime(rec.UpdatedAt),
	}, nil
}
