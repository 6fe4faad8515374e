package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func ids(products []Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestQuery_Filters(t *testing.T) {
	seed, err := DefaultSeed()
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter", Filter{}, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}},
		{"category", Filter{Category: "Produce"}, []string{"1", "2", "3"}},
		{"all categories", Filter{Category: AllCategories}, ids(seed)},
		{"unknown category", Filter{Category: "Hardware"}, []string{}},
		{"search name", Filter{Search: "appl"}, []string{"1"}},
		{"search is case insensitive", Filter{Search: "BANANA"}, []string{"2"}},
		{"search description", Filter{Search: "cardamom"}, []string{"11"}},
		{"discount only", Filter{DiscountOnly: true}, []string{"1", "5", "7", "11"}},
		{"top selling", Filter{TopSelling: true}, []string{"1", "2", "4", "6", "8", "11"}},
		{"featured in dairy", Filter{Category: "Dairy", Featured: true}, []string{"4", "5"}},
		{"out of stock", Filter{Stock: StockOut}, []string{"3", "12"}},
		{"low stock", Filter{Stock: StockLow}, []string{"2", "5", "7", "9", "10"}},
		{"low stock and offer", Filter{Stock: StockLow, DiscountOnly: true}, []string{"5", "7"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Query(seed, tt.filter)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestComputeStats_DefaultSeed(t *testing.T) {
	seed, err := DefaultSeed()
	require.NoError(t, err)

	assert.Equal(t, Stats{Total: 12, OutOfStock: 2, LowStock: 5, WithOffers: 4}, ComputeStats(seed))
}

func TestComputeStats_Thresholds(t *testing.T) {
	products := []Product{
		{ID: "a", Inventory: Inventory{}},
		{ID: "b", Inventory: Inventory{Store: 1}},
		{ID: "c", Inventory: Inventory{Store: 49}},
		{ID: "d", Inventory: Inventory{Store: 25, Warehouse: 25}},
		{ID: "e", Inventory: Inventory{Warehouse: 1000}, Discount: ptr(50.0)},
	}

	assert.Equal(t, Stats{Total: 5, OutOfStock: 1, LowStock: 2, WithOffers: 1}, ComputeStats(products))
	assert.Equal(t, Stats{}, ComputeStats(nil))
}

func TestCategories(t *testing.T) {
	seed, err := DefaultSeed()
	require.NoError(t, err)

	assert.Equal(t,
		[]string{AllCategories, "Bakery", "Beverages", "Dairy", "Pantry", "Produce", "Snacks"},
		Categories(seed, language.English),
	)
	assert.Equal(t, []string{AllCategories}, Categories(nil, language.English))
}

func TestSorter_Sort(t *testing.T) {
	seed, err := DefaultSeed()
	require.NoError(t, err)
	sorter := NewSorter(language.English)

	tests := []struct {
		key  SortKey
		dir  SortDirection
		want []string
	}{
		{SortByPrice, Ascending, []string{"6", "10", "2", "4", "3", "1", "5", "7", "12", "11", "9", "8"}},
		{SortByName, Ascending, []string{"6", "3", "2", "8", "7", "9", "1", "4", "10", "5", "12", "11"}},
		{SortByStoreStock, Descending, []string{"1", "4", "6", "8", "2", "10", "11", "5", "7", "3", "9", "12"}},
		{SortByTotalStock, Ascending, []string{"3", "12", "7", "9", "5", "2", "10", "6", "11", "4", "8", "1"}},
		{SortByDiscount, Descending, []string{"7", "5", "1", "11", "2", "3", "4", "6", "8", "9", "10", "12"}},
		{SortByCategory, Ascending, []string{"6", "7", "10", "11", "4", "5", "8", "9", "1", "2", "3", "12"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key)+"_"+string(tt.dir), func(t *testing.T) {
			products := Query(seed, Filter{})
			sorter.Sort(products, tt.key, tt.dir)
			assert.Equal(t, tt.want, ids(products))
		})
	}
}

func TestParseSortParams(t *testing.T) {
	k, ok := ParseSortKey("totalStock")
	assert.True(t, ok)
	assert.Equal(t, SortByTotalStock, k)

	_, ok = ParseSortKey("id")
	assert.False(t, ok)

	d, ok := ParseSortDirection("")
	assert.True(t, ok)
	assert.Equal(t, Ascending, d)

	d, ok = ParseSortDirection("DESC")
	assert.True(t, ok)
	assert.Equal(t, Descending, d)

	_, ok = ParseSortDirection("down")
	assert.False(t, ok)

	_, ok = ParseStockFilter("none")
	assert.False(t, ok)
}
