package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront-backend/domain/entity"
	"storefront-backend/infrastructure/persistence/keys"
)

func TestClampLimit(t *testing.T) {
	assert.Equal(t, int32(DefaultPageSize), ClampLimit(0))
	assert.Equal(t, int32(DefaultPageSize), ClampLimit(-5))
	assert.Equal(t, int32(1), ClampLimit(1))
	assert.Equal(t, int32(MaxPageSize), ClampLimit(MaxPageSize))
	assert.Equal(t, int32(MaxPageSize), ClampLimit(MaxPageSize+1))
}

func TestListByType_UsesEntityTypeIndexDescending(t *testing.T) {
	q := ListByType(entity.TypeProduct)

	assert.Equal(t, keys.EntityTypeIndex, q.Index)
	assert.Equal(t, "PRODUCT", q.Partition)
	assert.True(t, q.Descending, "newest first")
}

func TestListByParent_UsesParentIndexAscending(t *testing.T) {
	q := ListByParent(entity.TypeCategory, "c1")

	assert.Equal(t, keys.ParentIndex, q.Index)
	assert.Equal(t, "CATEGORY#c1", q.Partition)
	assert.False(t, q.Descending, "rank order is ascending")
}

func TestBySlug_DirectKeyCondition(t *testing.T) {
	q := BySlug(entity.TypeProduct, "sandalwood-incense")

	assert.Equal(t, keys.SlugIndex, q.Index)
	assert.Equal(t, "SLUG#PRODUCT", q.Partition)
	assert.Equal(t, "sandalwood-incense", q.SortEquals)
	assert.Equal(t, int32(1), q.Limit)
}

func TestReviewsOf_PrimaryKeyQuery(t *testing.T) {
	q := ReviewsOf("p1")

	assert.Empty(t, q.Index, "reviews list off the primary key")
	assert.Equal(t, "PRODUCT#p1", q.Partition)
	assert.Equal(t, "REVIEW#", q.SortPrefix)
}

func TestIndexKeyAttrs(t *testing.T) {
	pk, sk := IndexKeyAttrs("")
	assert.Equal(t, keys.AttrPK, pk)
	assert.Equal(t, keys.AttrSK, sk)

	pk, sk = IndexKeyAttrs(keys.SlugIndex)
	assert.Equal(t, keys.AttrGSI3PK, pk)
	assert.Equal(t, keys.AttrGSI3SK, sk)
}
