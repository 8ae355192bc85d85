// Package storage defines the thin gateway contract over the physical store:
// single-item atomic operations and query-by-key, nothing more. No multi-item
// transactions are assumed anywhere above this layer.
package storage

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"storefront-backend/infrastructure/persistence/keys"
	"storefront-backend/infrastructure/persistence/plan"
)

// Item is one stored record's attribute map.
type Item = map[string]types.AttributeValue

// ErrConditionFailed reports that an Update's condition did not hold. Callers
// that use optimistic concurrency re-read and retry on this error.
var ErrConditionFailed = errors.New("storage: condition failed")

// QueryResult is one page of a query.
type QueryResult struct {
	Items            []Item
	LastEvaluatedKey map[string]types.AttributeValue
}

// Condition is an equality precondition on a single attribute.
type Condition struct {
	Name  string
	Value types.AttributeValue
}

// UpdateInput describes a single-item update. Set overwrites attributes; Add
// applies additive increments atomically on the server, so concurrent
// increments never lose an update even without reading first.
type UpdateInput struct {
	Key       keys.Primary
	Set       Item
	Add       map[string]int
	Condition *Condition
}

// Gateway is the storage contract consumed by every repository.
type Gateway interface {
	// Get returns the item at the key, or nil when absent.
	Get(ctx context.Context, pk, sk string) (Item, error)
	// Put fully overwrites the item, no precondition.
	Put(ctx context.Context, item Item) error
	// Update applies a partial update and returns the updated item.
	Update(ctx context.Context, in UpdateInput) (Item, error)
	// Delete removes the item at the key. Deleting an absent item is not an error.
	Delete(ctx context.Context, pk, sk string) error
	// Query executes one planned index query and returns a single page.
	Query(ctx context.Context, q plan.Query) (QueryResult, error)
}
