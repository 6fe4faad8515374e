package catalog

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_MarshalJSONPriceIsNumber(t *testing.T) {
	p := Product{
		ID:       "1",
		Name:     "Fresh Apples",
		Price:    decimal.RequireFromString("0.850"),
		Category: "Produce",
		Discount: ptr(10.0),
	}

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"price":0.85`)
	assert.Contains(t, string(raw), `"discount":10`)
	assert.Contains(t, string(raw), `"inventory":{"store":0,"warehouse":0}`)

	var back Product
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, p.Price.Equal(back.Price))

	// Other decimals in the process keep the library default.
	assert.False(t, decimal.MarshalJSONWithoutQuotes)
	raw, err = json.Marshal(decimal.RequireFromString("1.5"))
	require.NoError(t, err)
	assert.Equal(t, `"1.5"`, string(raw))
}

func TestProduct_MarshalJSONZeroPriceAndNoDiscount(t *testing.T) {
	raw, err := json.Marshal([]Product{{ID: "2"}})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"price":0`)
	assert.NotContains(t, string(raw), `"discount"`)
}
