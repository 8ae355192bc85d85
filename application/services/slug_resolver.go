// Package services implements the application's use cases over the repository
// ports: catalog, reviews, CMS, subscription content, plus the slug resolver
// and the denormalized aggregate maintainer they share.
package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"storefront-backend/domain/slug"
	pkgerrors "storefront-backend/pkg/errors"
)

// slugProbeLimit is how many numeric suffixes are tried before falling back
// to a random one.
const slugProbeLimit = 10

// SlugOwner resolves a slug to the owning entity's id within one entity type.
// Implementations return empty id (not an error) when the slug is free.
type SlugOwner func(ctx context.Context, slug string) (id string, err error)

// SlugResolver assigns unique slugs per entity type. Candidates are probed in
// order: the normalized base, then -1 through -10, then one random hex suffix
// accepted without a lookup.
type SlugResolver struct {
	logger *zap.Logger
}

// NewSlugResolver creates a slug resolver.
func NewSlugResolver(logger *zap.Logger) *SlugResolver {
	return &SlugResolver{logger: logger}
}

// Resolve derives a unique slug for title. ownID excludes the entity itself
// from the collision check, so renaming back to an unchanged title keeps the
// slug stable.
func (r *SlugResolver) Resolve(ctx context.Context, title, ownID string, owner SlugOwner) (string, error) {
	base := slug.Normalize(title)
	if base == "" {
		return "", pkgerrors.NewValidationError("title produces an empty slug")
	}

	candidate := base
	for i := 0; i <= slugProbeLimit; i++ {
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		holder, err := owner(ctx, candidate)
		if err != nil {
			return "", err
		}
		if holder == "" || holder == ownID {
			return candidate, nil
		}
	}

	candidate = fmt.Sprintf("%s-%s", base, randomSuffix())
	r.logger.Warn("slug probe space exhausted, using random suffix",
		zap.String("base", base),
		zap.String("slug", candidate),
	)
	return candidate, nil
}

func randomSuffix() string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is not survivable in any useful way; fall back
		// to a fixed marker rather than panic in a slug path.
		return "ffffff"
	}
	return hex.EncodeToString(buf)
}

// ownerOf adapts a repository FindBySlug into a SlugOwner. NotFound means the
// slug is free; every other error propagates.
func ownerOf[T any](find func(ctx context.Context, slug string) (T, error), idOf func(T) string) SlugOwner {
	return func(ctx context.Context, s string) (string, error) {
		v, err := find(ctx, s)
		if err != nil {
			if pkgerrors.IsNotFound(err) {
				return "", nil
			}
			return "", err
		}
		return idOf(v), nil
	}
}
