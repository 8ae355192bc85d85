package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront-backend/application/ports"
	"storefront-backend/infrastructure/persistence/dynamodb"
	"storefront-backend/infrastructure/persistence/storage"
	pkgerrors "storefront-backend/pkg/errors"
	"storefront-backend/pkg/observability"
)

type fixture struct {
	catalog *CatalogService
	reviews *ReviewService
	cms     *CMSService
	content *ContentService

	categoryRepo ports.CategoryRepository
	productRepo  ports.ProductRepository
	reviewRepo   ports.ReviewRepository
}

func newFixture() *fixture {
	logger := zap.NewNop()
	store := storage.NewMemoryGateway()

	categories := dynamodb.NewCategoryRepository(store, logger)
	products := dynamodb.NewProductRepository(store, logger)
	reviews := dynamodb.NewReviewRepository(store, logger)
	pages := dynamodb.NewPageRepository(store, logger)
	components := dynamodb.NewComponentRepository(store, logger)
	content := dynamodb.NewContentRepository(store, logger)

	slugs := NewSlugResolver(logger)
	aggregates := NewAggregateMaintainer(categories, products, reviews, logger, observability.NewMetrics())

	return &fixture{
		catalog:      NewCatalogService(categories, products, slugs, aggregates, logger),
		reviews:      NewReviewService(reviews, products, aggregates, logger),
		cms:          NewCMSService(pages, components, slugs, logger),
		content:      NewContentService(content, slugs, logger),
		categoryRepo: categories,
		productRepo:  products,
		reviewRepo:   reviews,
	}
}

func TestIncenseScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	category, err := f.catalog.CreateCategory(ctx, CreateCategoryInput{Name: "Incense"})
	require.NoError(t, err)
	assert.Equal(t, "incense", category.Slug)

	first, err := f.catalog.CreateProduct(ctx, CreateProductInput{
		Title:      "Sandalwood Incense",
		CategoryID: category.ID,
		Price:      120,
	})
	require.NoError(t, err)
	assert.Equal(t, "sandalwood-incense", first.Slug)

	second, err := f.catalog.CreateProduct(ctx, CreateProductInput{
		Title:      "Sandalwood Incense",
		CategoryID: category.ID,
		Price:      150,
	})
	require.NoError(t, err)
	assert.Equal(t, "sandalwood-incense-1", second.Slug)

	category, err = f.catalog.GetCategory(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, category.ProductCount)

	five, err := f.reviews.CreateReview(ctx, CreateReviewInput{
		ProductID: first.ID, Author: "Asha", Rating: 5, Body: "Wonderful fragrance",
	})
	require.NoError(t, err)
	three, err := f.reviews.CreateReview(ctx, CreateReviewInput{
		ProductID: first.ID, Author: "Ravi", Rating: 3, Body: "Decent",
	})
	require.NoError(t, err)

	// Pending reviews do not contribute.
	got, err := f.catalog.GetProduct(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.AvgRating)
	assert.Equal(t, 0, got.TotalReviews)

	_, err = f.reviews.SetReviewApproval(ctx, first.ID, five.ID, true)
	require.NoError(t, err)
	_, err = f.reviews.SetReviewApproval(ctx, first.ID, three.ID, true)
	require.NoError(t, err)

	got, err = f.catalog.GetProduct(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.AvgRating)
	assert.Equal(t, 2, got.TotalReviews)

	// A review that is never approved leaves the rollup unchanged.
	_, err = f.reviews.CreateReview(ctx, CreateReviewInput{
		ProductID: first.ID, Author: "Meera", Rating: 1, Body: "Not for me",
	})
	require.NoError(t, err)

	got, err = f.catalog.GetProduct(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.AvgRating)
	assert.Equal(t, 2, got.TotalReviews)

	require.NoError(t, f.catalog.DeleteProduct(ctx, second.ID))

	category, err = f.catalog.GetCategory(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, category.ProductCount)
}

func TestCreateCategory_SlugCollisionVariants(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	want := []string{"puja-items", "puja-items-1", "puja-items-2"}
	for _, expected := range want {
		cat, err := f.catalog.CreateCategory(ctx, CreateCategoryInput{Name: "Puja Items!"})
		require.NoError(t, err)
		assert.Equal(t, expected, cat.Slug)
	}
}

func TestUpdateCategory_RenameKeepsSlugStable(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	cat, err := f.catalog.CreateCategory(ctx, CreateCategoryInput{Name: "Books"})
	require.NoError(t, err)

	// Renaming away and back must not pick up a -1 suffix from the entity's
	// own slug.
	name := "Sacred Books"
	cat, err = f.catalog.UpdateCategory(ctx, cat.ID, UpdateCategoryInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "sacred-books", cat.Slug)

	name = "Books"
	cat, err = f.catalog.UpdateCategory(ctx, cat.ID, UpdateCategoryInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "books", cat.Slug)
}

func TestDeleteCategory_RefusedWhileProductsRemain(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	cat, err := f.catalog.CreateCategory(ctx, CreateCategoryInput{Name: "Incense"})
	require.NoError(t, err)
	prod, err := f.catalog.CreateProduct(ctx, CreateProductInput{
		Title: "Rose Incense", CategoryID: cat.ID, Price: 80,
	})
	require.NoError(t, err)

	err = f.catalog.DeleteCategory(ctx, cat.ID)
	assert.True(t, pkgerrors.IsConflict(err))

	require.NoError(t, f.catalog.DeleteProduct(ctx, prod.ID))
	require.NoError(t, f.catalog.DeleteCategory(ctx, cat.ID))
}

func TestCreateProduct_UnknownCategoryRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.catalog.CreateProduct(ctx, CreateProductInput{
		Title: "Orphan", CategoryID: "no-such-category", Price: 10,
	})
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestUpdateProduct_CategoryMoveAdjustsBothCounters(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	from, err := f.catalog.CreateCategory(ctx, CreateCategoryInput{Name: "Incense"})
	require.NoError(t, err)
	to, err := f.catalog.CreateCategory(ctx, CreateCategoryInput{Name: "Oils"})
	require.NoError(t, err)
	prod, err := f.catalog.CreateProduct(ctx, CreateProductInput{
		Title: "Sandalwood", CategoryID: from.ID, Price: 100,
	})
	require.NoError(t, err)

	_, err = f.catalog.UpdateProduct(ctx, prod.ID, UpdateProductInput{CategoryID: &to.ID})
	require.NoError(t, err)

	from, err = f.catalog.GetCategory(ctx, from.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, from.ProductCount)

	to, err = f.catalog.GetCategory(ctx, to.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, to.ProductCount)

	moved, err := f.catalog.ListProductsByCategory(ctx, to.ID, ProductFilter{}, 10, "")
	require.NoError(t, err)
	require.Len(t, moved.Items, 1)
	assert.Equal(t, prod.ID, moved.Items[0].ID)
}

func TestUpdateProduct_PriceChangeRecomputesDiscount(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	cat, err := f.catalog.CreateCategory(ctx, CreateCategoryInput{Name: "Incense"})
	require.NoError(t, err)
	prod, err := f.catalog.CreateProduct(ctx, CreateProductInput{
		Title: "Sandalwood", CategoryID: cat.ID, Price: 100, OriginalPrice: 200,
	})
	require.NoError(t, err)
	assert.Equal(t, 50, prod.DiscountPercent)

	price := 150.0
	prod, err = f.catalog.UpdateProduct(ctx, prod.ID, UpdateProductInput{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 25, prod.DiscountPercent)
}

func TestListProducts_PostFilterShortPage(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	cat, err := f.catalog.CreateCategory(ctx, CreateCategoryInput{Name: "Incense"})
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		in := CreateProductInput{
			Title:      fmt.Sprintf("Product %d", i),
			CategoryID: cat.ID,
			Price:      10,
		}
		if i%2 == 0 {
			in.Tags = []string{"premium"}
		}
		_, err := f.catalog.CreateProduct(ctx, in)
		require.NoError(t, err)
	}

	// The filter narrows the fetched page without refetching; the page comes
	// back short but the cursor still advances through the full set.
	page, err := f.catalog.ListProducts(ctx, ProductFilter{Tag: "premium"}, 4, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	for _, p := range page.Items {
		assert.Contains(t, p.Tags, "premium")
	}
}

func TestRollupIdempotence(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	cat, err := f.catalog.CreateCategory(ctx, CreateCategoryInput{Name: "Incense"})
	require.NoError(t, err)
	prod, err := f.catalog.CreateProduct(ctx, CreateProductInput{
		Title: "Sandalwood", CategoryID: cat.ID, Price: 100,
	})
	require.NoError(t, err)

	rev, err := f.reviews.CreateReview(ctx, CreateReviewInput{
		ProductID: prod.ID, Author: "Asha", Rating: 4,
	})
	require.NoError(t, err)
	_, err = f.reviews.SetReviewApproval(ctx, prod.ID, rev.ID, true)
	require.NoError(t, err)

	// Re-approving an already-approved review is a no-op; the rollup and its
	// version are untouched.
	before, err := f.catalog.GetProduct(ctx, prod.ID)
	require.NoError(t, err)
	_, err = f.reviews.SetReviewApproval(ctx, prod.ID, rev.ID, true)
	require.NoError(t, err)
	after, err := f.catalog.GetProduct(ctx, prod.ID)
	require.NoError(t, err)

	assert.Equal(t, before.AvgRating, after.AvgRating)
	assert.Equal(t, before.TotalReviews, after.TotalReviews)
	assert.Equal(t, before.RatingVersion, after.RatingVersion)
}

func TestDeleteReview_RecomputesRollup(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	cat, err := f.catalog.CreateCategory(ctx, CreateCategoryInput{Name: "Incense"})
	require.NoError(t, err)
	prod, err := f.catalog.CreateProduct(ctx, CreateProductInput{
		Title: "Sandalwood", CategoryID: cat.ID, Price: 100,
	})
	require.NoError(t, err)

	keep, err := f.reviews.CreateReview(ctx, CreateReviewInput{ProductID: prod.ID, Author: "A", Rating: 5})
	require.NoError(t, err)
	drop, err := f.reviews.CreateReview(ctx, CreateReviewInput{ProductID: prod.ID, Author: "B", Rating: 1})
	require.NoError(t, err)
	_, err = f.reviews.SetReviewApproval(ctx, prod.ID, keep.ID, true)
	require.NoError(t, err)
	_, err = f.reviews.SetReviewApproval(ctx, prod.ID, drop.ID, true)
	require.NoError(t, err)

	got, err := f.catalog.GetProduct(ctx, prod.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.AvgRating)

	require.NoError(t, f.reviews.DeleteReview(ctx, prod.ID, drop.ID))

	got, err = f.catalog.GetProduct(ctx, prod.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.AvgRating)
	assert.Equal(t, 1, got.TotalReviews)
}

func TestListProductReviews_PublicSeesApprovedOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	cat, err := f.catalog.CreateCategory(ctx, CreateCategoryInput{Name: "Incense"})
	require.NoError(t, err)
	prod, err := f.catalog.CreateProduct(ctx, CreateProductInput{
		Title: "Sandalwood", CategoryID: cat.ID, Price: 100,
	})
	require.NoError(t, err)

	approved, err := f.reviews.CreateReview(ctx, CreateReviewInput{ProductID: prod.ID, Author: "A", Rating: 5})
	require.NoError(t, err)
	_, err = f.reviews.CreateReview(ctx, CreateReviewInput{ProductID: prod.ID, Author: "B", Rating: 2})
	require.NoError(t, err)
	_, err = f.reviews.SetReviewApproval(ctx, prod.ID, approved.ID, true)
	require.NoError(t, err)

	public, err := f.reviews.ListProductReviews(ctx, prod.ID, false, 10, "")
	require.NoError(t, err)
	require.Len(t, public.Items, 1)
	assert.Equal(t, approved.ID, public.Items[0].ID)

	moderation, err := f.reviews.ListProductReviews(ctx, prod.ID, true, 10, "")
	require.NoError(t, err)
	assert.Len(t, moderation.Items, 2)
}

func TestDeletePage_CascadesComponents(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	page, err := f.cms.CreatePage(ctx, CreatePageInput{Title: "About Us"})
	require.NoError(t, err)

	var componentID string
	for i := 0; i < 3; i++ {
		c, err := f.cms.CreateComponent(ctx, CreateComponentInput{
			Scope: "page", PageID: page.ID, ComponentType: "text_block", DisplayOrder: i,
		})
		require.NoError(t, err)
		componentID = c.ID
	}
	global, err := f.cms.CreateComponent(ctx, CreateComponentInput{
		Scope: "global", ComponentType: "footer",
	})
	require.NoError(t, err)

	require.NoError(t, f.cms.DeletePage(ctx, page.ID))

	_, err = f.cms.GetPageBySlug(ctx, "about-us")
	assert.True(t, pkgerrors.IsNotFound(err))
	_, err = f.cms.GetComponent(ctx, componentID)
	assert.True(t, pkgerrors.IsNotFound(err))

	// Global components survive page deletion.
	remaining, err := f.cms.ListGlobalComponents(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, global.ID, remaining[0].ID)
}

func TestUpdatePage_ComponentOrderValidatedAndApplied(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	page, err := f.cms.CreatePage(ctx, CreatePageInput{Title: "Home"})
	require.NoError(t, err)

	a, err := f.cms.CreateComponent(ctx, CreateComponentInput{
		Scope: "page", PageID: page.ID, ComponentType: "hero", DisplayOrder: 0,
	})
	require.NoError(t, err)
	b, err := f.cms.CreateComponent(ctx, CreateComponentInput{
		Scope: "page", PageID: page.ID, ComponentType: "text_block", DisplayOrder: 1,
	})
	require.NoError(t, err)

	bogus := []string{a.ID, "not-a-component"}
	_, err = f.cms.UpdatePage(ctx, page.ID, UpdatePageInput{ComponentIDs: &bogus})
	assert.True(t, pkgerrors.IsValidation(err))

	reversed := []string{b.ID, a.ID}
	_, err = f.cms.UpdatePage(ctx, page.ID, UpdatePageInput{ComponentIDs: &reversed})
	require.NoError(t, err)

	ordered, err := f.cms.ListPageComponents(ctx, page.ID)
	require.NoError(t, err)
	require.Len(t, ordered, 2)
	assert.Equal(t, b.ID, ordered[0].ID)
	assert.Equal(t, a.ID, ordered[1].ID)
}

func TestCreateComponent_PageScopeRequiresExistingPage(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.cms.CreateComponent(ctx, CreateComponentInput{
		Scope: "page", PageID: "missing", ComponentType: "hero",
	})
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = f.cms.CreateComponent(ctx, CreateComponentInput{
		Scope: "sitewide", ComponentType: "hero",
	})
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestDeleteComponent_DetachesFromPageOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	page, err := f.cms.CreatePage(ctx, CreatePageInput{Title: "Home"})
	require.NoError(t, err)
	c, err := f.cms.CreateComponent(ctx, CreateComponentInput{
		Scope: "page", PageID: page.ID, ComponentType: "hero",
	})
	require.NoError(t, err)

	require.NoError(t, f.cms.DeleteComponent(ctx, c.ID))

	page, err = f.cms.GetPage(ctx, page.ID)
	require.NoError(t, err)
	assert.NotContains(t, page.ComponentIDs, c.ID)
}

func TestContentService_PremiumFilter(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.content.CreateContentItem(ctx, CreateContentInput{
		Title: "Morning Discourse", ContentType: "audio", IsPremium: true,
	})
	require.NoError(t, err)
	free, err := f.content.CreateContentItem(ctx, CreateContentInput{
		Title: "Evening Bhajan", ContentType: "video",
	})
	require.NoError(t, err)

	freeOnly, err := f.content.ListContentItems(ctx, ContentFilter{FreeOnly: true}, 10, "")
	require.NoError(t, err)
	require.Len(t, freeOnly.Items, 1)
	assert.Equal(t, free.ID, freeOnly.Items[0].ID)

	premiumOnly, err := f.content.ListContentItems(ctx, ContentFilter{PremiumOnly: true}, 10, "")
	require.NoError(t, err)
	require.Len(t, premiumOnly.Items, 1)
	assert.True(t, premiumOnly.Items[0].IsPremium)
}

func TestContentService_SlugLookup(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	item, err := f.content.CreateContentItem(ctx, CreateContentInput{
		Title: "Guru Purnima Talk", ContentType: "article",
	})
	require.NoError(t, err)
	assert.Equal(t, "guru-purnima-talk", item.Slug)

	got, err := f.content.GetContentItemBySlug(ctx, "guru-purnima-talk")
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)
}
