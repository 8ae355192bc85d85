package services

import (
	"context"

	"go.uber.org/zap"

	"storefront-backend/application/ports"
	"storefront-backend/domain/entity"
	pkgerrors "storefront-backend/pkg/errors"
	"storefront-backend/pkg/utils"
)

// ContentService owns the subscription content use cases.
type ContentService struct {
	content ports.ContentRepository
	slugs   *SlugResolver
	logger  *zap.Logger
}

// NewContentService creates the content service.
func NewContentService(content ports.ContentRepository, slugs *SlugResolver, logger *zap.Logger) *ContentService {
	return &ContentService{content: content, slugs: slugs, logger: logger}
}

// CreateContentInput carries the fields accepted on content creation.
type CreateContentInput struct {
	Title       string `json:"title" validate:"required,min=1,max=300"`
	ContentType string `json:"contentType" validate:"required,oneof=audio video article"`
	MediaURL    string `json:"mediaUrl" validate:"omitempty,url"`
	IsPremium   bool   `json:"isPremium"`
}

// ContentFilter narrows a fetched content page in memory.
type ContentFilter struct {
	// PremiumOnly / FreeOnly are mutually exclusive; both false means no
	// premium filtering.
	PremiumOnly bool
	FreeOnly    bool
}

// CreateContentItem creates a content item published now, with a unique slug.
func (s *ContentService) CreateContentItem(ctx context.Context, in CreateContentInput) (*entity.ContentItem, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	item, err := entity.NewContentItem(in.Title, entity.ContentType(in.ContentType), in.MediaURL, in.IsPremium)
	if err != nil {
		return nil, err
	}
	item.Slug, err = s.slugs.Resolve(ctx, item.Title, item.ID, s.contentSlugOwner())
	if err != nil {
		return nil, err
	}

	if err := s.content.Save(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("content item created",
		zap.String("contentID", item.ID),
		zap.String("slug", item.Slug),
		zap.String("contentType", string(item.ContentType)),
	)
	return item, nil
}

// GetContentItem returns a content item by id.
func (s *ContentService) GetContentItem(ctx context.Context, id string) (*entity.ContentItem, error) {
	return s.content.FindByID(ctx, id)
}

// GetContentItemBySlug returns a content item by slug.
func (s *ContentService) GetContentItemBySlug(ctx context.Context, slug string) (*entity.ContentItem, error) {
	return s.content.FindBySlug(ctx, slug)
}

// ListContentItems returns content items most recently published first. The
// premium filter applies over the fetched page only.
func (s *ContentService) ListContentItems(ctx context.Context, filter ContentFilter, limit int, cursor string) (ports.Page[*entity.ContentItem], error) {
	page, err := s.content.ListNewest(ctx, limit, cursor)
	if err != nil {
		return ports.Page[*entity.ContentItem]{}, err
	}
	if !filter.PremiumOnly && !filter.FreeOnly {
		return page, nil
	}

	kept := make([]*entity.ContentItem, 0, len(page.Items))
	for _, item := range page.Items {
		if filter.PremiumOnly && !item.IsPremium {
			continue
		}
		if filter.FreeOnly && item.IsPremium {
			continue
		}
		kept = append(kept, item)
	}
	page.Items = kept
	return page, nil
}

// DeleteContentItem removes a content item.
func (s *ContentService) DeleteContentItem(ctx context.Context, id string) error {
	if _, err := s.content.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.content.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("content item deleted", zap.String("contentID", id))
	return nil
}

func (s *ContentService) contentSlugOwner() SlugOwner {
	return ownerOf(s.content.FindBySlug, func(c *entity.ContentItem) string { return c.ID })
}
