package keys

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-backend/domain/entity"
)

func TestRankSortKey_LexicographicEqualsNumeric(t *testing.T) {
	ranks := []int{0, 1, 2, 9, 10, 11, 99, 100, 1000, 999999999}

	encoded := make([]string, len(ranks))
	for i, r := range ranks {
		encoded[i] = RankSortKey(r, "x")
	}

	assert.True(t, sort.StringsAreSorted(encoded),
		"zero-padded ranks must sort lexicographically in numeric order: %v", encoded)
}

func TestCreatedSortKey_LexicographicEqualsTemporal(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	times := []time.Time{
		base,
		base.Add(time.Second),
		base.Add(time.Minute),
		base.Add(24 * time.Hour),
		base.AddDate(0, 3, 0),
		base.AddDate(1, 0, 0),
	}

	encoded := make([]string, len(times))
	for i, at := range times {
		encoded[i] = CreatedSortKey(at, "x")
	}

	assert.True(t, sort.StringsAreSorted(encoded),
		"timestamp sort keys must sort lexicographically in temporal order: %v", encoded)
}

func TestCreatedSortKey_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	at := time.Date(2025, 6, 1, 15, 30, 0, 0, loc)

	assert.Equal(t, CreatedSortKey(at.UTC(), "x"), CreatedSortKey(at, "x"))
}

func TestForProduct(t *testing.T) {
	p := &entity.Product{
		ID:          "p1",
		Slug:        "sandalwood-incense",
		CategoryID:  "c1",
		DisplayRank: 3,
		CreatedAt:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	set := ForProduct(p)

	assert.Equal(t, "PRODUCT#p1", set.Primary.PK)
	assert.Equal(t, "PRODUCT#p1", set.Primary.SK)

	require.NotNil(t, set.ByType)
	assert.Equal(t, "PRODUCT", set.ByType.PK)
	assert.Equal(t, "2025-06-01T00:00:00Z#p1", set.ByType.SK)

	require.NotNil(t, set.ByParent)
	assert.Equal(t, "CATEGORY#c1", set.ByParent.PK)
	assert.Equal(t, "0000000003#p1", set.ByParent.SK)

	require.NotNil(t, set.BySlug)
	assert.Equal(t, "SLUG#PRODUCT", set.BySlug.PK)
	assert.Equal(t, "sandalwood-incense", set.BySlug.SK)
}

func TestForReview_ParentInPrimaryKey(t *testing.T) {
	r := &entity.Review{ID: "r1", ProductID: "p1", CreatedAt: time.Now()}

	set := ForReview(r)

	assert.Equal(t, "PRODUCT#p1", set.Primary.PK)
	assert.Equal(t, "REVIEW#r1", set.Primary.SK)
	assert.Nil(t, set.ByParent)
	assert.Nil(t, set.BySlug)
	require.NotNil(t, set.ByType)
}

func TestForComponent_ScopePartitions(t *testing.T) {
	paged, err := entity.NewPageComponent("pg1", "hero_section", 2)
	require.NoError(t, err)
	global, err := entity.NewGlobalComponent("footer", 0)
	require.NoError(t, err)

	pagedKeys := ForComponent(paged)
	require.NotNil(t, pagedKeys.ByParent)
	assert.Equal(t, "CMS_PAGE#pg1", pagedKeys.ByParent.PK)

	globalKeys := ForComponent(global)
	require.NotNil(t, globalKeys.ByParent)
	assert.Equal(t, GlobalComponentPartition, globalKeys.ByParent.PK)
}

func TestSlugPartition_PerType(t *testing.T) {
	assert.NotEqual(t, SlugPartition(entity.TypeProduct), SlugPartition(entity.TypeCategory),
		"slug uniqueness is per type, partitions must differ")
}
