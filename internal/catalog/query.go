// Package catalog implements the in-memory query pipeline behind the public
// products page: search, sort, category filtering and featured grouping.
// Everything here is pure; handlers call Query on every request with whatever
// snapshot of the catalog they loaded.
package catalog

import (
	"sort"
	"strings"

	"github.com/3dcreationshub/creationshub/internal/domain"
)

type Sort string

const (
	// SortDefault is an explicit alias for name-ascending. The storefront
	// historically treated "default" and "az" the same; that alias is now
	// the documented behavior rather than an accident.
	SortDefault Sort = "default"
	SortNewest  Sort = "newest"
	SortAZ      Sort = "az"
	SortZA      Sort = "za"
)

// ParseSort maps a query-string value onto a Sort, falling back to
// SortDefault for anything unknown.
func ParseSort(s string) Sort {
	switch Sort(strings.ToLower(strings.TrimSpace(s))) {
	case SortNewest:
		return SortNewest
	case SortAZ:
		return SortAZ
	case SortZA:
		return SortZA
	default:
		return SortDefault
	}
}

// Options configures one catalog query. CategoryID == 0 means "all".
type Options struct {
	Search     string
	Sort       Sort
	CategoryID int64
}

// Group is one rendered catalog section: category metadata plus its sorted,
// filtered products. The featured carve-out is represented as a leading
// group with Featured set and zero-value category metadata.
type Group struct {
	Category domain.ProductCategory `json:"category"`
	Products []domain.Product       `json:"products"`
	Featured bool                   `json:"featured"`
}

// Result is either a flat search result (Searching true) or an ordered list
// of category groups.
type Result struct {
	Searching bool             `json:"searching"`
	Results   []domain.Product `json:"results,omitempty"`
	Groups    []Group          `json:"groups,omitempty"`
}

// CategoryView is the denormalized input: one category and its products.
type CategoryView struct {
	Category domain.ProductCategory
	Products []domain.Product
}

// Query runs the catalog pipeline over a snapshot of the catalog. It never
// mutates its inputs and is safe to call repeatedly with the same arguments.
func Query(views []CategoryView, opts Options) Result {
	if opts.Search != "" {
		var all []domain.Product
		for _, v := range views {
			if opts.CategoryID != 0 && v.Category.ID != opts.CategoryID {
				continue
			}
			for _, p := range v.Products {
				if matchName(p.Name, opts.Search) {
					all = append(all, p)
				}
			}
		}
		return Result{Searching: true, Results: sortProducts(all, opts.Sort)}
	}

	res := Result{}

	// Featured carve-out applies only to the unfiltered, unsearched view.
	carveFeatured := opts.CategoryID == 0
	featuredSeen := make(map[int64]bool)
	var featured []domain.Product

	for _, v := range views {
		if opts.CategoryID != 0 && v.Category.ID != opts.CategoryID {
			continue
		}
		var products []domain.Product
		for _, p := range v.Products {
			if carveFeatured && p.Featured {
				if !featuredSeen[p.ID] {
					featuredSeen[p.ID] = true
					featured = append(featured, p)
				}
				continue
			}
			products = append(products, p)
		}
		if len(products) == 0 {
			continue
		}
		res.Groups = append(res.Groups, Group{
			Category: v.Category,
			Products: sortProducts(products, opts.Sort),
		})
	}

	if len(featured) > 0 {
		res.Groups = append([]Group{{
			Products: sortProducts(featured, opts.Sort),
			Featured: true,
		}}, res.Groups...)
	}
	return res
}

// matchName is the search predicate: case-insensitive substring on the
// product name. Products with empty names never match a search, but are
// still listed in unsearched views.
func matchName(name, search string) bool {
	if name == "" {
		return false
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(search))
}

// sortProducts returns a sorted copy; the input slice is left untouched.
func sortProducts(products []domain.Product, mode Sort) []domain.Product {
	out := make([]domain.Product, len(products))
	copy(out, products)
	switch mode {
	case SortZA:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) > strings.ToLower(out[j].Name)
		})
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool {
			// undated products sort after every dated one
			if out[i].CreatedAt.IsZero() != out[j].CreatedAt.IsZero() {
				return !out[i].CreatedAt.IsZero()
			}
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	default: // SortDefault, SortAZ
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	}
	return out
}
