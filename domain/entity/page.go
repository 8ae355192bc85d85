package entity

import (
	"time"

	"github.com/google/uuid"

	pkgerrors "storefront-backend/pkg/errors"
)

// Page is a CMS page owning an ordered list of component references.
// Order is explicit and significant; it is never inferred from insertion.
type Page struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	ComponentIDs []string  `json:"componentIds"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewPage creates an unpublished page with no components.
func NewPage(title string) (*Page, error) {
	if title == "" {
		return nil, pkgerrors.NewValidationError("page title cannot be empty")
	}

	now := time.Now().UTC()
	return &Page{
		ID:           uuid.New().String(),
		Title:        title,
		ComponentIDs: []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// SetComponentOrder replaces the ordered component reference list.
func (p *Page) SetComponentOrder(componentIDs []string) {
	p.ComponentIDs = append([]string(nil), componentIDs...)
	p.Touch()
}

// AttachComponent appends a component reference at the end of the order.
func (p *Page) AttachComponent(componentID string) {
	p.ComponentIDs = append(p.ComponentIDs, componentID)
	p.Touch()
}

// DetachComponent removes a component reference, preserving relative order.
func (p *Page) DetachComponent(componentID string) {
	kept := p.ComponentIDs[:0]
	for _, id := range p.ComponentIDs {
		if id != componentID {
			kept = append(kept, id)
		}
	}
	p.ComponentIDs = kept
	p.Touch()
}

// Touch refreshes the update timestamp. Called on every mutation.
func (p *Page) Touch() {
	p.UpdatedAt = time.Now().UTC()
}
