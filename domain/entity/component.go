package entity

import (
	"time"

	"github.com/google/uuid"

	pkgerrors "storefront-backend/pkg/errors"
)

// ComponentScope says whether a component is owned by a page or shared
// site-wide. The scope is an explicit tag on every component; there is no
// optional flag with a fallback heuristic.
type ComponentScope string

const (
	ScopePage   ComponentScope = "page"
	ScopeGlobal ComponentScope = "global"
)

// Valid reports whether the scope is one of the known values.
func (s ComponentScope) Valid() bool {
	return s == ScopePage || s == ScopeGlobal
}

// Field is one typed entry in a component's field list. Value is either a
// plain JSON value or a map keyed by language tag for localized content.
type Field struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// Localized returns the per-language map when the field value is localized.
func (f Field) Localized() (map[string]interface{}, bool) {
	m, ok := f.Value.(map[string]interface{})
	return m, ok
}

// In resolves the field value for a language tag. Plain values are returned
// as-is; localized values fall back to the first available language when the
// requested tag is missing.
func (f Field) In(lang string) interface{} {
	m, ok := f.Localized()
	if !ok {
		return f.Value
	}
	if v, ok := m[lang]; ok {
		return v
	}
	for _, v := range m {
		return v
	}
	return nil
}

// Component is a renderable CMS block. Page-scoped components carry their
// owning page's ID; global components belong to no page. DisplayOrder
// determines rendering order among siblings.
type Component struct {
	ID            string         `json:"id"`
	Scope         ComponentScope `json:"scope"`
	PageID        string         `json:"pageId,omitempty"`
	ComponentType string         `json:"componentType"`
	DisplayOrder  int            `json:"displayOrder"`
	Fields        []Field        `json:"fields"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// NewPageComponent creates a component owned by a page.
func NewPageComponent(pageID, componentType string, displayOrder int) (*Component, error) {
	if pageID == "" {
		return nil, pkgerrors.NewValidationError("component pageId cannot be empty for page scope")
	}
	return newComponent(ScopePage, pageID, componentType, displayOrder)
}

// NewGlobalComponent creates a site-wide component not owned by any page.
func NewGlobalComponent(componentType string, displayOrder int) (*Component, error) {
	return newComponent(ScopeGlobal, "", componentType, displayOrder)
}

func newComponent(scope ComponentScope, pageID, componentType string, displayOrder int) (*Component, error) {
	if componentType == "" {
		return nil, pkgerrors.NewValidationError("componentType cannot be empty")
	}
	if displayOrder < 0 {
		return nil, pkgerrors.NewValidationError("displayOrder cannot be negative")
	}

	now := time.Now().UTC()
	return &Component{
		ID:            uuid.New().String(),
		Scope:         scope,
		PageID:        pageID,
		ComponentType: componentType,
		DisplayOrder:  displayOrder,
		Fields:        []Field{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// SetFields replaces the component's field list.
func (c *Component) SetFields(fields []Field) {
	c.Fields = append([]Field(nil), fields...)
	c.Touch()
}

// Field returns the field with the given key, if present.
func (c *Component) Field(key string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Touch refreshes the update timestamp. Called on every mutation.
func (c *Component) Touch() {
	c.UpdatedAt = time.Now().UTC()
}
