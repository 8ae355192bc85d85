package services

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"storefront-backend/application/ports"
	"storefront-backend/domain/entity"
	pkgerrors "storefront-backend/pkg/errors"
	"storefront-backend/pkg/utils"
)

// CMSService owns the page and component use cases.
type CMSService struct {
	pages      ports.PageRepository
	components ports.ComponentRepository
	slugs      *SlugResolver
	logger     *zap.Logger
}

// NewCMSService creates the CMS service.
func NewCMSService(
	pages ports.PageRepository,
	components ports.ComponentRepository,
	slugs *SlugResolver,
	logger *zap.Logger,
) *CMSService {
	return &CMSService{
		pages:      pages,
		components: components,
		slugs:      slugs,
		logger:     logger,
	}
}

// CreatePageInput carries the fields accepted on page creation.
type CreatePageInput struct {
	Title string `json:"title" validate:"required,min=1,max=300"`
}

// UpdatePageInput carries a partial page update. ComponentIDs replaces the
// page's component order wholesale when present.
type UpdatePageInput struct {
	Title        *string   `json:"title" validate:"omitempty,min=1,max=300"`
	ComponentIDs *[]string `json:"componentIds"`
	IsPublished  *bool     `json:"isPublished"`
}

// CreatePage creates an unpublished page with a unique slug.
func (s *CMSService) CreatePage(ctx context.Context, in CreatePageInput) (*entity.Page, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	page, err := entity.NewPage(in.Title)
	if err != nil {
		return nil, err
	}
	page.Slug, err = s.slugs.Resolve(ctx, page.Title, page.ID, s.pageSlugOwner())
	if err != nil {
		return nil, err
	}

	if err := s.pages.Save(ctx, page); err != nil {
		return nil, err
	}
	s.logger.Info("cms page created", zap.String("pageID", page.ID), zap.String("slug", page.Slug))
	return page, nil
}

// UpdatePage applies a partial update. A title change re-derives the slug; a
// component order update only accepts ids of components actually owned by
// the page.
func (s *CMSService) UpdatePage(ctx context.Context, id string, in UpdatePageInput) (*entity.Page, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	page, err := s.pages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil && *in.Title != page.Title {
		page.Title = *in.Title
		page.Slug, err = s.slugs.Resolve(ctx, page.Title, page.ID, s.pageSlugOwner())
		if err != nil {
			return nil, err
		}
	}
	if in.ComponentIDs != nil {
		owned, err := s.components.ListByPage(ctx, page.ID)
		if err != nil {
			return nil, err
		}
		if unknown := unknownComponentIDs(*in.ComponentIDs, owned); len(unknown) > 0 {
			return nil, pkgerrors.NewValidationError("component order references components not on this page").
				WithDetails(map[string]interface{}{"componentIds": unknown})
		}
		page.SetComponentOrder(*in.ComponentIDs)
	}
	if in.IsPublished != nil {
		page.IsPublished = *in.IsPublished
	}
	page.Touch()

	if err := s.pages.Save(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

// DeletePage removes a page and cascades over its components. Component
// deletes are individual; a failure mid-cascade leaves the page intact so
// the delete can be retried.
func (s *CMSService) DeletePage(ctx context.Context, id string) error {
	if _, err := s.pages.FindByID(ctx, id); err != nil {
		return err
	}

	owned, err := s.components.ListByPage(ctx, id)
	if err != nil {
		return err
	}
	for _, component := range owned {
		if err := s.components.Delete(ctx, component.ID); err != nil {
			return err
		}
	}

	if err := s.pages.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("cms page deleted", zap.String("pageID", id), zap.Int("componentsDeleted", len(owned)))
	return nil
}

// GetPage returns a page by id.
func (s *CMSService) GetPage(ctx context.Context, id string) (*entity.Page, error) {
	return s.pages.FindByID(ctx, id)
}

// GetPageBySlug returns a page by slug.
func (s *CMSService) GetPageBySlug(ctx context.Context, slug string) (*entity.Page, error) {
	return s.pages.FindBySlug(ctx, slug)
}

// ListPages returns pages, newest first.
func (s *CMSService) ListPages(ctx context.Context, limit int, cursor string) (ports.Page[*entity.Page], error) {
	return s.pages.ListNewest(ctx, limit, cursor)
}

// CreateComponentInput carries the fields accepted on component creation.
// Scope is explicit; page-scoped components must name their page.
type CreateComponentInput struct {
	Scope         string         `json:"scope" validate:"required,oneof=page global"`
	PageID        string         `json:"pageId" validate:"required_if=Scope page"`
	ComponentType string         `json:"componentType" validate:"required,min=1,max=100"`
	DisplayOrder  int            `json:"displayOrder" validate:"gte=0"`
	Fields        []entity.Field `json:"fields"`
}

// UpdateComponentInput carries a partial component update. Fields replaces
// the component's field list wholesale when present.
type UpdateComponentInput struct {
	ComponentType *string         `json:"componentType" validate:"omitempty,min=1,max=100"`
	DisplayOrder  *int            `json:"displayOrder" validate:"omitempty,gte=0"`
	Fields        *[]entity.Field `json:"fields"`
}

// CreateComponent creates a component. Page-scoped components attach to the
// end of their page's explicit order.
func (s *CMSService) CreateComponent(ctx context.Context, in CreateComponentInput) (*entity.Component, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	var component *entity.Component
	var err error
	switch entity.ComponentScope(in.Scope) {
	case entity.ScopePage:
		if _, err := s.pages.FindByID(ctx, in.PageID); err != nil {
			if pkgerrors.IsNotFound(err) {
				return nil, pkgerrors.NewValidationError("page does not exist").
					WithDetails(map[string]interface{}{"pageId": in.PageID})
			}
			return nil, err
		}
		component, err = entity.NewPageComponent(in.PageID, in.ComponentType, in.DisplayOrder)
	case entity.ScopeGlobal:
		component, err = entity.NewGlobalComponent(in.ComponentType, in.DisplayOrder)
	default:
		return nil, pkgerrors.NewValidationError("unknown component scope")
	}
	if err != nil {
		return nil, err
	}
	if len(in.Fields) > 0 {
		component.SetFields(in.Fields)
	}

	if err := s.components.Save(ctx, component); err != nil {
		return nil, err
	}

	if component.Scope == entity.ScopePage {
		if err := s.attachToPage(ctx, component); err != nil {
			return nil, err
		}
	}

	s.logger.Info("cms component created",
		zap.String("componentID", component.ID),
		zap.String("scope", string(component.Scope)),
	)
	return component, nil
}

// UpdateComponent applies a partial update. Scope and page ownership are
// fixed at creation.
func (s *CMSService) UpdateComponent(ctx context.Context, id string, in UpdateComponentInput) (*entity.Component, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	component, err := s.components.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.ComponentType != nil {
		component.ComponentType = *in.ComponentType
	}
	if in.DisplayOrder != nil {
		component.DisplayOrder = *in.DisplayOrder
	}
	if in.Fields != nil {
		component.SetFields(*in.Fields)
	}
	component.Touch()

	if err := s.components.Save(ctx, component); err != nil {
		return nil, err
	}
	return component, nil
}

// DeleteComponent removes a component and detaches it from its page's order.
func (s *CMSService) DeleteComponent(ctx context.Context, id string) error {
	component, err := s.components.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.components.Delete(ctx, id); err != nil {
		return err
	}

	if component.Scope == entity.ScopePage {
		page, err := s.pages.FindByID(ctx, component.PageID)
		if err == nil {
			page.DetachComponent(component.ID)
			if err := s.pages.Save(ctx, page); err != nil {
				return err
			}
		} else if !pkgerrors.IsNotFound(err) {
			return err
		}
	}

	s.logger.Info("cms component deleted", zap.String("componentID", id))
	return nil
}

// GetComponent returns a component by id.
func (s *CMSService) GetComponent(ctx context.Context, id string) (*entity.Component, error) {
	return s.components.FindByID(ctx, id)
}

// ListPageComponents returns a page's components in its explicit order.
// Components missing from the order list (attached concurrently) sort after
// the ordered ones by display order.
func (s *CMSService) ListPageComponents(ctx context.Context, pageID string) ([]*entity.Component, error) {
	page, err := s.pages.FindByID(ctx, pageID)
	if err != nil {
		return nil, err
	}
	components, err := s.components.ListByPage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	position := make(map[string]int, len(page.ComponentIDs))
	for i, id := range page.ComponentIDs {
		position[id] = i
	}
	sort.SliceStable(components, func(i, j int) bool {
		pi, iOK := position[components[i].ID]
		pj, jOK := position[components[j].ID]
		switch {
		case iOK && jOK:
			return pi < pj
		case iOK:
			return true
		case jOK:
			return false
		default:
			return components[i].DisplayOrder < components[j].DisplayOrder
		}
	})
	return components, nil
}

// ListGlobalComponents returns site-wide components in display order.
func (s *CMSService) ListGlobalComponents(ctx context.Context) ([]*entity.Component, error) {
	return s.components.ListGlobal(ctx)
}

func (s *CMSService) attachToPage(ctx context.Context, component *entity.Component) error {
	page, err := s.pages.FindByID(ctx, component.PageID)
	if err != nil {
		return err
	}
	page.AttachComponent(component.ID)
	return s.pages.Save(ctx, page)
}

func (s *CMSService) pageSlugOwner() SlugOwner {
	return ownerOf(s.pages.FindBySlug, func(p *entity.Page) string { return p.ID })
}

func unknownComponentIDs(requested []string, owned []*entity.Component) []string {
	known := make(map[string]bool, len(owned))
	for _, c := range owned {
		known[c.ID] = true
	}
	var unknown []string
	for _, id := range requested {
		if !known[id] {
			unknown = append(unknown, id)
		}
	}
	return unknown
}
