package catalog

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	s := seededStore(t)
	_, err := s.Update("1", Patch{Discount: ClearDiscount()})
	require.NoError(t, err)

	want := `
# HELP catalog_low_stock Products with total stock below the low stock threshold.
# TYPE catalog_low_stock gauge
catalog_low_stock 5
# HELP catalog_out_of_stock Products with no store or warehouse stock.
# TYPE catalog_out_of_stock gauge
catalog_out_of_stock 2
# HELP catalog_products Products currently in the catalog.
# TYPE catalog_products gauge
catalog_products 12
# HELP catalog_with_offers Products with an active discount.
# TYPE catalog_with_offers gauge
catalog_with_offers 3
`
	require.NoError(t, testutil.CollectAndCompare(NewCollector(s), strings.NewReader(want)))
}
