package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/3dcreationshub/creationshub/internal/domain"
)

func testViews() []CategoryView {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []CategoryView{
		{
			Category: domain.ProductCategory{ID: 1, Name: "Corporate Gifts"},
			Products: []domain.Product{
				{ID: 11, CategoryID: 1, Name: "Brass Trophy", CreatedAt: t0.Add(48 * time.Hour)},
				{ID: 12, CategoryID: 1, Name: "acrylic badge", CreatedAt: t0},
				{ID: 13, CategoryID: 1, Name: "Desk Organizer", Featured: true, CreatedAt: t0.Add(24 * time.Hour)},
			},
		},
		{
			Category: domain.ProductCategory{ID: 2, Name: "Signage"},
			Products: []domain.Product{
				{ID: 21, CategoryID: 2, Name: "LED Board", Featured: true, CreatedAt: t0.Add(72 * time.Hour)},
				{ID: 22, CategoryID: 2, Name: "Vinyl Banner"},
				{ID: 23, CategoryID: 2, Name: ""},
			},
		},
		{
			Category: domain.ProductCategory{ID: 3, Name: "Empty Shelf"},
		},
	}
}

func flatten(r Result) []domain.Product {
	if r.Searching {
		return r.Results
	}
	var out []domain.Product
	for _, g := range r.Groups {
		out = append(out, g.Products...)
	}
	return out
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortNewest, ParseSort(" Newest "))
	assert.Equal(t, SortAZ, ParseSort("az"))
	assert.Equal(t, SortZA, ParseSort("ZA"))
	assert.Equal(t, SortDefault, ParseSort(""))
	assert.Equal(t, SortDefault, ParseSort("price"))
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	r := Query(testViews(), Options{Search: "bOARD"})
	assert.True(t, r.Searching)
	assert.Len(t, r.Results, 1)
	assert.Equal(t, int64(21), r.Results[0].ID)
}

func TestSearchNeverMatchesEmptyNames(t *testing.T) {
	// every product name contains the empty string, but the nameless
	// product must still be excluded
	r := Query(testViews(), Options{Search: "a"})
	for _, p := range r.Results {
		assert.NotEqual(t, int64(23), p.ID)
	}
}

func TestSearchResultsAreFlatAndSubset(t *testing.T) {
	all := map[int64]bool{}
	for _, p := range flatten(Query(testViews(), Options{})) {
		all[p.ID] = true
	}
	r := Query(testViews(), Options{Search: "e"})
	assert.True(t, r.Searching)
	assert.Empty(t, r.Groups)
	for _, p := range r.Results {
		assert.True(t, all[p.ID])
	}
}

func TestSearchHonorsCategoryFilter(t *testing.T) {
	r := Query(testViews(), Options{Search: "b", CategoryID: 1})
	for _, p := range r.Results {
		assert.Equal(t, int64(1), p.CategoryID)
	}
}

func TestDefaultSortIsNameAscending(t *testing.T) {
	def := Query(testViews(), Options{CategoryID: 1, Sort: SortDefault})
	az := Query(testViews(), Options{CategoryID: 1, Sort: SortAZ})
	assert.Equal(t, az, def)
	names := []string{}
	for _, p := range def.Groups[0].Products {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"acrylic badge", "Brass Trophy", "Desk Organizer"}, names)
}

func TestZaReversesAzWhenNamesAreDistinct(t *testing.T) {
	az := Query(testViews(), Options{CategoryID: 1, Sort: SortAZ}).Groups[0].Products
	za := Query(testViews(), Options{CategoryID: 1, Sort: SortZA}).Groups[0].Products
	assert.Equal(t, len(az), len(za))
	for i := range az {
		assert.Equal(t, az[i].ID, za[len(za)-1-i].ID)
	}
}

func TestNewestPutsUndatedLast(t *testing.T) {
	r := Query(testViews(), Options{CategoryID: 2, Sort: SortNewest})
	products := r.Groups[0].Products
	assert.Equal(t, int64(21), products[0].ID)
	for i, p := range products {
		if p.CreatedAt.IsZero() {
			for _, rest := range products[i:] {
				assert.True(t, rest.CreatedAt.IsZero())
			}
			break
		}
	}
}

func TestFeaturedCarveOutOnUnfilteredView(t *testing.T) {
	r := Query(testViews(), Options{})
	assert.True(t, r.Groups[0].Featured)
	ids := map[int64]bool{}
	for _, p := range r.Groups[0].Products {
		assert.True(t, p.Featured)
		ids[p.ID] = true
	}
	assert.Equal(t, map[int64]bool{13: true, 21: true}, ids)
	// featured products appear exactly once, carved out of their groups
	for _, g := range r.Groups[1:] {
		assert.False(t, g.Featured)
		for _, p := range g.Products {
			assert.False(t, ids[p.ID])
		}
	}
}

func TestNoFeaturedCarveOutWhenFiltered(t *testing.T) {
	r := Query(testViews(), Options{CategoryID: 2})
	assert.Len(t, r.Groups, 1)
	assert.False(t, r.Groups[0].Featured)
	assert.Len(t, r.Groups[0].Products, 3)
}

func TestNoFeaturedCarveOutWhenSearching(t *testing.T) {
	r := Query(testViews(), Options{Search: "led"})
	assert.True(t, r.Searching)
	assert.Len(t, r.Results, 1)
}

func TestEmptyCategoriesAreDropped(t *testing.T) {
	for _, g := range Query(testViews(), Options{}).Groups {
		assert.NotEmpty(t, g.Products)
		assert.NotEqual(t, int64(3), g.Category.ID)
	}
}

func TestQueryDoesNotMutateInput(t *testing.T) {
	views := testViews()
	before := []int64{}
	for _, p := range views[0].Products {
		before = append(before, p.ID)
	}
	Query(views, Options{Sort: SortZA})
	Query(views, Options{Search: "a", Sort: SortNewest})
	after := []int64{}
	for _, p := range views[0].Products {
		after = append(after, p.ID)
	}
	assert.Equal(t, before, after)
}

func TestQueryIsIdempotent(t *testing.T) {
	views := testViews()
	opts := Options{Sort: SortNewest}
	assert.Equal(t, Query(views, opts), Query(views, opts))
}
