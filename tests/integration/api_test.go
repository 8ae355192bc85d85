package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-backend/infrastructure/config"
	"storefront-backend/infrastructure/di"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Environment:    "development",
		DynamoDBTable:  "storefront-test",
		LogLevel:       "error",
		EnableCORS:     false,
		EnableMetrics:  true,
		AllowedOrigins: []string{"*"},
	}
	container, err := di.BuildInMemory(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(container.Handler)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body interface{}, out interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestCatalogEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	var category struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/categories",
		map[string]interface{}{"name": "Incense"}, &category)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "incense", category.Slug)

	var product struct {
		ID              string  `json:"id"`
		Slug            string  `json:"slug"`
		DiscountPercent int     `json:"discountPercent"`
		AvgRating       float64 `json:"avgRating"`
	}
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/products", map[string]interface{}{
		"title":         "Sandalwood Incense",
		"categoryId":    category.ID,
		"price":         120.0,
		"originalPrice": 160.0,
	}, &product)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "sandalwood-incense", product.Slug)
	assert.Equal(t, 25, product.DiscountPercent)

	// Slug resolution is a dedicated route, not a list filter.
	var bySlug struct {
		ID string `json:"id"`
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/products/slug/sandalwood-incense", nil, &bySlug)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, product.ID, bySlug.ID)

	// Counter reflects the create.
	var gotCategory struct {
		ProductCount int `json:"productCount"`
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/categories/"+category.ID, nil, &gotCategory)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, gotCategory.ProductCount)

	// Deleting a non-empty category is a conflict.
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/categories/"+category.ID, nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestReviewApprovalDrivesRollup(t *testing.T) {
	srv := newTestServer(t)

	var category struct {
		ID string `json:"id"`
	}
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/categories",
		map[string]interface{}{"name": "Incense"}, &category)

	var product struct {
		ID string `json:"id"`
	}
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/products", map[string]interface{}{
		"title": "Rose Incense", "categoryId": category.ID, "price": 80.0,
	}, &product)

	reviewsURL := fmt.Sprintf("%s/api/v1/products/%s/reviews", srv.URL, product.ID)

	var review struct {
		ID string `json:"id"`
	}
	resp := doJSON(t, http.MethodPost, reviewsURL, map[string]interface{}{
		"author": "Asha", "rating": 4, "body": "Lovely",
	}, &review)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Pending review is invisible to the public listing and the rollup.
	var page struct {
		Items []json.RawMessage `json:"items"`
	}
	doJSON(t, http.MethodGet, reviewsURL, nil, &page)
	assert.Empty(t, page.Items)

	resp = doJSON(t, http.MethodPut, reviewsURL+"/"+review.ID+"/approval",
		map[string]interface{}{"isApproved": true}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var gotProduct struct {
		AvgRating    float64 `json:"avgRating"`
		TotalReviews int     `json:"totalReviews"`
	}
	doJSON(t, http.MethodGet, srv.URL+"/api/v1/products/"+product.ID, nil, &gotProduct)
	assert.Equal(t, 4.0, gotProduct.AvgRating)
	assert.Equal(t, 1, gotProduct.TotalReviews)

	doJSON(t, http.MethodGet, reviewsURL, nil, &page)
	assert.Len(t, page.Items, 1)
}

func TestCMSPageLifecycle(t *testing.T) {
	srv := newTestServer(t)

	var page struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/pages",
		map[string]interface{}{"title": "About Us"}, &page)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "about-us", page.Slug)

	var component struct {
		ID string `json:"id"`
	}
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/components", map[string]interface{}{
		"scope": "page", "pageId": page.ID, "componentType": "hero",
		"fields": []map[string]interface{}{
			{"key": "heading", "value": map[string]string{"en": "Welcome", "hi": "स्वागत"}},
		},
	}, &component)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var components []struct {
		ID string `json:"id"`
	}
	doJSON(t, http.MethodGet, srv.URL+"/api/v1/pages/"+page.ID+"/components", nil, &components)
	require.Len(t, components, 1)
	assert.Equal(t, component.ID, components[0].ID)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/pages/"+page.ID, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/components/"+component.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMalformedBodyRejected(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/categories",
		bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
