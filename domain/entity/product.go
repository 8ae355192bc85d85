package entity

import (
	"math"
	"time"

	"github.com/google/uuid"

	pkgerrors "storefront-backend/pkg/errors"
)

// Product is a catalog item. AvgRating and TotalReviews are a denormalized
// rollup recomputed from approved reviews only; RatingVersion guards the
// read-then-overwrite rollup update against concurrent recomputes.
type Product struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description,omitempty"`
	CategoryID    string    `json:"categoryId"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"originalPrice"`
	// DiscountPercent is derived; recomputed whenever either price changes.
	DiscountPercent int      `json:"discountPercent"`
	Currency        string   `json:"currency"`
	ImageURLs       []string `json:"imageUrls,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	IsActive        bool     `json:"isActive"`
	DisplayRank     int      `json:"displayRank"`
	AvgRating       float64  `json:"avgRating"`
	TotalReviews    int      `json:"totalReviews"`
	RatingVersion   int      `json:"ratingVersion"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewProduct creates a product with a fresh identity. The category reference
// must be resolved by the caller before the product is persisted.
func NewProduct(title, categoryID string, price, originalPrice float64) (*Product, error) {
	if title == "" {
		return nil, pkgerrors.NewValidationError("product title cannot be empty")
	}
	if categoryID == "" {
		return nil, pkgerrors.NewValidationError("product categoryId cannot be empty")
	}
	if price < 0 || originalPrice < 0 {
		return nil, pkgerrors.NewValidationError("product prices cannot be negative")
	}

	now := time.Now().UTC()
	p := &Product{
		ID:            uuid.New().String(),
		Title:         title,
		CategoryID:    categoryID,
		Price:         price,
		OriginalPrice: originalPrice,
		Currency:      "INR",
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	p.DiscountPercent = DiscountPercent(p.Price, p.OriginalPrice)
	return p, nil
}

// SetPricing updates both prices and recomputes the derived discount.
func (p *Product) SetPricing(price, originalPrice float64) error {
	if price < 0 || originalPrice < 0 {
		return pkgerrors.NewValidationError("product prices cannot be negative")
	}
	p.Price = price
	p.OriginalPrice = originalPrice
	p.DiscountPercent = DiscountPercent(price, originalPrice)
	p.Touch()
	return nil
}

// ApplyRating overwrites the denormalized rating rollup.
func (p *Product) ApplyRating(avg float64, total int) {
	p.AvgRating = avg
	p.TotalReviews = total
	p.RatingVersion++
	p.Touch()
}

// Touch refreshes the update timestamp. Called on every mutation.
func (p *Product) Touch() {
	p.UpdatedAt = time.Now().UTC()
}

// DiscountPercent derives the rounded discount percentage. It is zero unless
// the original price strictly exceeds the current price.
func DiscountPercent(price, originalPrice float64) int {
	if originalPrice <= price || originalPrice <= 0 {
		return 0
	}
	return int(math.Round((originalPrice - price) / originalPrice * 100))
}

// RoundRating rounds an average rating to one decimal place.
func RoundRating(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return math.Round(sum/float64(count)*10) / 10
}
