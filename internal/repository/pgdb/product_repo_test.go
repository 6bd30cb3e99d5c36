package pgdb

import (
	"strings"
	"testing"

	"github.com/DRSN-tech/storefront/internal/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBuildCandidateQuery_Active(t *testing.T) {
	query, args := buildCandidateQuery(catalog.CandidateFilter{Visibility: catalog.VisibilityActive})

	assert.Contains(t, query, "LEFT JOIN categories c ON c.id = p.category_id")
	assert.Contains(t, query, "WHERE p.is_active")
	assert.True(t, strings.HasSuffix(query, "ORDER BY p.id"))
	assert.Empty(t, args)
}

func TestBuildCandidateQuery_AllFacets(t *testing.T) {
	maxPrice := decimal.NewFromInt(100)
	query, args := buildCandidateQuery(catalog.CandidateFilter{
		Visibility:  catalog.VisibilityInactive,
		PriceMin:    decimal.NewFromInt(10),
		PriceMax:    &maxPrice,
		CategoryIDs: []int64{3, 5},
		OrPacks:     true,
	})

	assert.Contains(t, query, "WHERE NOT p.is_active AND p.price >= $1 AND p.price <= $2 AND (p.category_id = ANY($3) OR p.is_pack)")
	assert.Equal(t, []any{decimal.NewFromInt(10), maxPrice, []int64{3, 5}}, args)
}

func TestBuildCandidateQuery_AllVisibilityOnlyPacks(t *testing.T) {
	query, args := buildCandidateQuery(catalog.CandidateFilter{Visibility: catalog.VisibilityAll, OnlyPacks: true})

	assert.Contains(t, query, "WHERE p.is_pack")
	assert.NotContains(t, query, "WHERE p.is_active")
	assert.Empty(t, args)
}

func TestBuildCandidateQuery_NoConditions(t *testing.T) {
	query, _ := buildCandidateQuery(catalog.CandidateFilter{Visibility: catalog.VisibilityAll})

	assert.NotContains(t, query, "WHERE")
}
