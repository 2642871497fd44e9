package product

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CategoryAll selects every product. It always heads the category list.
const CategoryAll = "ALL"

// FilterByCategory returns the products whose category matches exactly.
// CategoryAll and the empty string disable filtering.
func FilterByCategory(products []Product, category string) []Product {
	if category == CategoryAll || category == "" {
		return products
	}

	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Categories collects the distinct categories of products, sorted with a
// locale aware collator, with CategoryAll prepended.
func Categories(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	distinct := make([]string, 0, len(products))
	for _, p := range products {
		if p.Category == CategoryAll {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		distinct = append(distinct, p.Category)
	}

	cl := collate.New(language.English)
	sort.SliceStable(distinct, func(i, j int) bool {
		return cl.CompareString(distinct[i], distinct[j]) < 0
	})

	return append([]string{CategoryAll}, distinct...)
}

// NewListing builds the listing for products narrowed to category. The
// category list is always derived from the unfiltered products.
func NewListing(products []Product, category string) Listing {
	if category == "" {
		category = CategoryAll
	}
	if products == nil {
		products = []Product{}
	}

	return Listing{
		Products:   FilterByCategory(products, category),
		Categories: Categories(products),
		Category:   category,
		NotFound:   len(products) == 0,
	}
}
