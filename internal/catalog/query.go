package catalog

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// AllCategories is the category value that disables category filtering.
const AllCategories = "All"

type StockFilter string

const (
	StockAny StockFilter = ""
	StockOut StockFilter = "out"
	StockLow StockFilter = "low"
)

func ParseStockFilter(s string) (StockFilter, bool) {
	switch f := StockFilter(s); f {
	case StockAny, StockOut, StockLow:
		return f, true
	}
	return StockAny, false
}

// Filter predicates are AND-combined; zero fields match everything.
type Filter struct {
	Category     string
	Search       string
	DiscountOnly bool
	TopSelling   bool
	Featured     bool
	Stock        StockFilter
}

func (f Filter) Match(p Product) bool {
	if f.Category != "" && f.Category != AllCategories && p.Category != f.Category {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	if f.DiscountOnly && !p.HasOffer() {
		return false
	}
	if f.TopSelling && !p.IsTopSelling {
		return false
	}
	if f.Featured && !p.IsFeatured {
		return false
	}
	switch f.Stock {
	case StockOut:
		return isOutOfStock(p)
	case StockLow:
		return isLowStock(p)
	}
	return true
}

// Query returns the matching products in input order.
func Query(products []Product, f Filter) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Categories lists the distinct categories in collation order, led by
// AllCategories.
func Categories(products []Product, tag language.Tag) []string {
	seen := make(map[string]struct{})
	var cats []string
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		cats = append(cats, p.Category)
	}

	c := collate.New(tag)
	slices.SortFunc(cats, c.CompareString)
	return append([]string{AllCategories}, cats...)
}

type SortKey string

const (
	SortByName       SortKey = "name"
	SortByCategory   SortKey = "category"
	SortByPrice      SortKey = "price"
	SortByStoreStock SortKey = "storeStock"
	SortByTotalStock SortKey = "totalStock"
	SortByDiscount   SortKey = "discount"
)

func ParseSortKey(s string) (SortKey, bool) {
	switch k := SortKey(s); k {
	case SortByName, SortByCategory, SortByPrice, SortByStoreStock, SortByTotalStock, SortByDiscount:
		return k, true
	}
	return "", false
}

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

func ParseSortDirection(s string) (SortDirection, bool) {
	switch d := SortDirection(strings.ToLower(s)); d {
	case Ascending, Descending:
		return d, true
	case "":
		return Ascending, true
	}
	return "", false
}

// Sorter orders products for the admin view. Text keys use the collation of
// its language tag, which is case-sensitive at the default strength.
type Sorter struct {
	tag language.Tag
}

func NewSorter(tag language.Tag) *Sorter {
	return &Sorter{tag: tag}
}

// Sort orders products in place. Equal keys keep their relative order.
func (s *Sorter) Sort(products []Product, key SortKey, dir SortDirection) {
	cmpFn := s.compare(key)
	if dir == Descending {
		asc := cmpFn
		cmpFn = func(a, b Product) int { return asc(b, a) }
	}
	slices.SortStableFunc(products, cmpFn)
}

func (s *Sorter) compare(key SortKey) func(a, b Product) int {
	switch key {
	case SortByName, SortByCategory:
		// Collators keep scratch buffers, so each sort gets its own.
		c := collate.New(s.tag)
		if key == SortByName {
			return func(a, b Product) int { return c.CompareString(a.Name, b.Name) }
		}
		return func(a, b Product) int { return c.CompareString(a.Category, b.Category) }
	case SortByPrice:
		return func(a, b Product) int { return a.Price.Cmp(b.Price) }
	case SortByStoreStock:
		return func(a, b Product) int { return cmp.Compare(a.Inventory.Store, b.Inventory.Store) }
	case SortByTotalStock:
		return func(a, b Product) int { return cmp.Compare(a.Inventory.Total(), b.Inventory.Total()) }
	case SortByDiscount:
		return func(a, b Product) int { return cmp.Compare(a.DiscountOrZero(), b.DiscountOrZero()) }
	}
	return func(a, b Product) int { return 0 }
}
