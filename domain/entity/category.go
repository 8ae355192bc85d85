package entity

import (
	"time"

	"github.com/google/uuid"

	pkgerrors "storefront-backend/pkg/errors"
)

// Category groups products in the catalog. ProductCount is a denormalized,
// eventually-consistent count of active products referencing the category;
// it is maintained by the aggregate maintainer, never written by callers.
type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	IsActive     bool      `json:"isActive"`
	DisplayRank  int       `json:"displayRank"`
	ProductCount int       `json:"productCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewCategory creates a category with a fresh identity. The slug is assigned
// later by the slug resolver, once uniqueness has been established.
func NewCategory(name, description string) (*Category, error) {
	if name == "" {
		return nil, pkgerrors.NewValidationError("category name cannot be empty")
	}

	now := time.Now().UTC()
	return &Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Touch refreshes the update timestamp. Called on every mutation.
func (c *Category) Touch() {
	c.UpdatedAt = time.Now().UTC()
}

// CanDelete reports whether the category may be deleted. Deletion is refused
// while any active product still references it.
func (c *Category) CanDelete() bool {
	return c.ProductCount <= 0
}
