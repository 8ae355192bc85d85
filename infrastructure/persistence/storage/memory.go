package storage

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"storefront-backend/infrastructure/persistence/keys"
	"storefront-backend/infrastructure/persistence/plan"
)

// MemoryGateway is an in-process Gateway with the same observable semantics
// as the DynamoDB one: single-item atomicity, query-by-key, additive updates,
// paged results with a last evaluated key. It backs the repository and
// service tests.
type MemoryGateway struct {
	mu    sync.RWMutex
	items map[string]Item
}

// NewMemoryGateway creates an empty in-memory gateway.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{items: make(map[string]Item)}
}

// Len returns the number of stored items.
func (g *MemoryGateway) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.items)
}

// Get implements Gateway.
func (g *MemoryGateway) Get(_ context.Context, pk, sk string) (Item, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	item, ok := g.items[itemKey(pk, sk)]
	if !ok {
		return nil, nil
	}
	return copyItem(item), nil
}

// Put implements Gateway.
func (g *MemoryGateway) Put(_ context.Context, item Item) error {
	pk, sk := stringAttr(item, keys.AttrPK), stringAttr(item, keys.AttrSK)
	if pk == "" || sk == "" {
		return fmt.Errorf("item missing primary key attributes")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.items[itemKey(pk, sk)] = copyItem(item)
	return nil
}

// Update implements Gateway. Matching DynamoDB, updating an absent item
// creates it from its key plus the applied update.
func (g *MemoryGateway) Update(_ context.Context, in UpdateInput) (Item, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := itemKey(in.Key.PK, in.Key.SK)
	item, ok := g.items[key]
	if !ok {
		item = Item{
			keys.AttrPK: &types.AttributeValueMemberS{Value: in.Key.PK},
			keys.AttrSK: &types.AttributeValueMemberS{Value: in.Key.SK},
		}
	}

	if in.Condition != nil {
		if !attrEqual(item[in.Condition.Name], in.Condition.Value) {
			return nil, fmt.Errorf("%w: update on %s", ErrConditionFailed, in.Key.PK)
		}
	}

	updated := copyItem(item)
	for name, value := range in.Set {
		updated[name] = value
	}
	for name, delta := range in.Add {
		current := 0
		if n, ok := updated[name].(*types.AttributeValueMemberN); ok {
			current, _ = strconv.Atoi(n.Value)
		}
		updated[name] = &types.AttributeValueMemberN{Value: strconv.Itoa(current + delta)}
	}

	g.items[key] = updated
	return copyItem(updated), nil
}

// Delete implements Gateway.
func (g *MemoryGateway) Delete(_ context.Context, pk, sk string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.items, itemKey(pk, sk))
	return nil
}

// Query implements Gateway.
func (g *MemoryGateway) Query(_ context.Context, q plan.Query) (QueryResult, error) {
	pkName, skName := plan.IndexKeyAttrs(q.Index)

	g.mu.RLock()
	var matches []Item
	for _, item := range g.items {
		if stringAttr(item, pkName) != q.Partition {
			continue
		}
		sk := stringAttr(item, skName)
		if q.SortEquals != "" && sk != q.SortEquals {
			continue
		}
		if q.SortPrefix != "" && !hasPrefix(sk, q.SortPrefix) {
			continue
		}
		matches = append(matches, copyItem(item))
	}
	g.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		a, b := stringAttr(matches[i], skName), stringAttr(matches[j], skName)
		if q.Descending {
			return a > b
		}
		return a < b
	})

	// Resume strictly past the start key's sort position. A deleted start
	// item resumes from its nearest successor.
	if startSK := stringAttr(q.StartKey, skName); startSK != "" {
		kept := matches[:0]
		for _, item := range matches {
			sk := stringAttr(item, skName)
			if (q.Descending && sk < startSK) || (!q.Descending && sk > startSK) {
				kept = append(kept, item)
			}
		}
		matches = kept
	}

	limit := int(q.Limit)
	if limit <= 0 || limit > len(matches) {
		limit = len(matches)
	}
	page := matches[:limit]

	var lastKey map[string]types.AttributeValue
	if limit < len(matches) && limit > 0 {
		last := page[limit-1]
		lastKey = map[string]types.AttributeValue{
			keys.AttrPK: last[keys.AttrPK],
			keys.AttrSK: last[keys.AttrSK],
		}
		if q.Index != "" {
			lastKey[pkName] = last[pkName]
			lastKey[skName] = last[skName]
		}
	}

	return QueryResult{Items: page, LastEvaluatedKey: lastKey}, nil
}

func itemKey(pk, sk string) string {
	return pk + "\x00" + sk
}

func stringAttr(item Item, name string) string {
	if v, ok := item[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func attrEqual(a, b types.AttributeValue) bool {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && av.Value == bv.Value
	case nil:
		return b == nil
	default:
		return false
	}
}

func copyItem(item Item) Item {
	dup := make(Item, len(item))
	for k, v := range item {
		dup[k] = v
	}
	return dup
}
