package entity

import (
	"time"

	"github.com/google/uuid"

	pkgerrors "storefront-backend/pkg/errors"
)

// Review belongs to exactly one product; the parent reference lives in the
// primary key. A review starts unapproved and only contributes to the
// product's rating rollup while approved.
type Review struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"productId"`
	Author     string    `json:"author"`
	Rating     int       `json:"rating"`
	Title      string    `json:"title,omitempty"`
	Body       string    `json:"body,omitempty"`
	IsApproved bool      `json:"isApproved"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewReview creates a pending review for a product.
func NewReview(productID, author, title, body string, rating int) (*Review, error) {
	if productID == "" {
		return nil, pkgerrors.NewValidationError("review productId cannot be empty")
	}
	if author == "" {
		return nil, pkgerrors.NewValidationError("review author cannot be empty")
	}
	if rating < 1 || rating > 5 {
		return nil, pkgerrors.NewValidationError("review rating must be between 1 and 5")
	}

	now := time.Now().UTC()
	return &Review{
		ID:        uuid.New().String(),
		ProductID: productID,
		Author:    author,
		Rating:    rating,
		Title:     title,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetRating changes the star rating.
func (r *Review) SetRating(rating int) error {
	if rating < 1 || rating > 5 {
		return pkgerrors.NewValidationError("review rating must be between 1 and 5")
	}
	r.Rating = rating
	r.Touch()
	return nil
}

// SetApproval moves the review between pending and approved. The transition
// may toggle in either direction.
func (r *Review) SetApproval(approved bool) {
	r.IsApproved = approved
	r.Touch()
}

// Touch refreshes the update timestamp. Called on every mutation.
func (r *Review) Touch() {
	r.UpdatedAt = time.Now().UTC()
}
