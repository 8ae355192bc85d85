// Package plan maps logical queries onto the index that answers them. Every
// supported listing runs against exactly one index; ad hoc predicates (search
// text, tags, active flags) are applied over the fetched page only, never by
// widening the read.
package plan

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"storefront-backend/domain/entity"
	"storefront-backend/infrastructure/persistence/keys"
)

// Pagination bounds shared by every list operation.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ClampLimit normalizes a caller-supplied page size into the allowed range.
func ClampLimit(limit int) int32 {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return int32(limit)
}

// Query is one executable index query. Index "" targets the table's primary
// key. Exactly one of SortPrefix / SortEquals may be set; with neither the
// whole partition is read in key order.
type Query struct {
	Index      string
	Partition  string
	SortPrefix string
	SortEquals string
	Descending bool
	Limit      int32
	StartKey   map[string]types.AttributeValue
}

// WithLimit sets the page size, clamped to the allowed range.
func (q Query) WithLimit(limit int) Query {
	q.Limit = ClampLimit(limit)
	return q
}

// WithStartKey resumes the query after a previously returned key.
func (q Query) WithStartKey(startKey map[string]types.AttributeValue) Query {
	q.StartKey = startKey
	return q
}

// ListByType lists every item of one type, newest first.
func ListByType(t entity.Type) Query {
	return Query{
		Index:      keys.EntityTypeIndex,
		Partition:  keys.TypePartition(t),
		Descending: true,
		Limit:      DefaultPageSize,
	}
}

// ListByParent lists items under one parent in explicit rank order.
func ListByParent(parentType entity.Type, parentID string) Query {
	return Query{
		Index:     keys.ParentIndex,
		Partition: keys.ParentPartition(parentType, parentID),
		Limit:     DefaultPageSize,
	}
}

// ListRankedCategories lists all categories in display rank order.
func ListRankedCategories() Query {
	return Query{
		Index:     keys.ParentIndex,
		Partition: keys.TypePartition(entity.TypeCategory) + "#ROOT",
		Limit:     DefaultPageSize,
	}
}

// ListGlobalComponents lists site-wide components in display order.
func ListGlobalComponents() Query {
	return Query{
		Index:     keys.ParentIndex,
		Partition: keys.GlobalComponentPartition,
		Limit:     DefaultPageSize,
	}
}

// BySlug resolves one entity of a type by its slug. A direct key condition on
// the slug index, not a filtered scan.
func BySlug(t entity.Type, slug string) Query {
	return Query{
		Index:      keys.SlugIndex,
		Partition:  keys.SlugPartition(t),
		SortEquals: slug,
		Limit:      1,
	}
}

// ReviewsOf lists every review under a product straight off the primary key.
func ReviewsOf(productID string) Query {
	return Query{
		Partition:  keys.TypeKey(entity.TypeProduct, productID),
		SortPrefix: string(entity.TypeReview) + "#",
		Limit:      DefaultPageSize,
	}
}

// IndexKeyAttrs names the partition and sort key attributes a query's index
// reads from.
func IndexKeyAttrs(index string) (pkName, skName string) {
	switch index {
	case keys.EntityTypeIndex:
		return keys.AttrGSI1PK, keys.AttrGSI1SK
	case keys.ParentIndex:
		return keys.AttrGSI2PK, keys.AttrGSI2SK
	case keys.SlugIndex:
		return keys.AttrGSI3PK, keys.AttrGSI3SK
	default:
		return keys.AttrPK, keys.AttrSK
	}
}
