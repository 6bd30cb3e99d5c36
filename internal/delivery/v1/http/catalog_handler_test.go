package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DRSN-tech/storefront/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))

	return v
}

func TestListProducts(t *testing.T) {
	fc := &fakeCatalog{products: sampleProducts()}
	router := newTestRouter(&testDeps{catalog: fc})

	rec := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?q=RON&seq=17", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	page := decodeBody[productPageResponse](t, rec)
	assert.Equal(t, "17", page.Seq)
	assert.Equal(t, 2, page.TotalCount)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Ron Cartavio", page.Items[0].Name)
	assert.Equal(t, "Cartavio", page.Items[0].Brand)
	assert.Equal(t, []int{1}, page.Pages)

	assert.Equal(t, "RON", fc.lastRequest().SearchTerm)
}

func TestListProducts_BadQuery(t *testing.T) {
	router := newTestRouter(&testDeps{})

	rec := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?priceMin=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, http.StatusBadRequest, body.Code)
}

func TestGetProduct(t *testing.T) {
	router := newTestRouter(&testDeps{catalog: &fakeCatalog{products: sampleProducts()}})

	rec := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/3", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[productResponse](t, rec).IsPack)

	rec = doRequest(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/4", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/zero", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListCategories(t *testing.T) {
	router := newTestRouter(&testDeps{})

	rec := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/categories", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	categories := decodeBody[[]categoryResponse](t, rec)
	require.Len(t, categories, 2)
	assert.True(t, categories[0].Virtual)
	assert.Equal(t, "packs", categories[0].Key)
}

func TestListBrands(t *testing.T) {
	fc := &fakeCatalog{products: sampleProducts()}
	router := newTestRouter(&testDeps{catalog: fc})

	rec := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/brands?categories=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, catalog.CategorySet{IDs: []int64{1}}, fc.lastRequest().Categories)

	body := decodeBody[map[string][]string](t, rec)
	assert.Contains(t, body["brands"], "Cartavio")
}

func TestSecurityHeaders(t *testing.T) {
	router := newTestRouter(&testDeps{})

	rec := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/categories", nil))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}
