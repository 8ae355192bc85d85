package entity

import (
	"time"

	"github.com/google/uuid"

	pkgerrors "storefront-backend/pkg/errors"
)

// ContentType classifies a subscription content item.
type ContentType string

const (
	ContentAudio   ContentType = "audio"
	ContentVideo   ContentType = "video"
	ContentArticle ContentType = "article"
)

// Valid reports whether the content type is one of the known values.
func (t ContentType) Valid() bool {
	return t == ContentAudio || t == ContentVideo || t == ContentArticle
}

// ContentItem is a piece of subscription content (discourses, bhajans,
// articles). Items are listed newest-first by publish time.
type ContentItem struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	ContentType ContentType `json:"contentType"`
	MediaURL    string      `json:"mediaUrl,omitempty"`
	IsPremium   bool        `json:"isPremium"`
	PublishedAt time.Time   `json:"publishedAt"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// NewContentItem creates a content item published now.
func NewContentItem(title string, contentType ContentType, mediaURL string, isPremium bool) (*ContentItem, error) {
	if title == "" {
		return nil, pkgerrors.NewValidationError("content title cannot be empty")
	}
	if !contentType.Valid() {
		return nil, pkgerrors.NewValidationError("unknown content type")
	}

	now := time.Now().UTC()
	return &ContentItem{
		ID:          uuid.New().String(),
		Title:       title,
		ContentType: contentType,
		MediaURL:    mediaURL,
		IsPremium:   isPremium,
		PublishedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Touch refreshes the update timestamp. Called on every mutation.
func (c *ContentItem) Touch() {
	c.UpdatedAt = time.Now().UTC()
}
