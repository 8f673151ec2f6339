package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceRange_EncodesNumbers(t *testing.T) {
	pr := PriceRange{
		Min:        NewAmount(decimal.RequireFromString("749.5")),
		Max:        NewAmount(decimal.NewFromInt(2100)),
		Difference: NewAmount(decimal.RequireFromString("1350.5")),
	}

	data, err := json.Marshal(pr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"min": 749.5, "max": 2100, "difference": 1350.5}`, string(data))
}

func TestAmount_DecodesNumbersAndStrings(t *testing.T) {
	var pr PriceRange
	require.NoError(t, json.Unmarshal([]byte(`{"min": 10.25, "max": "20", "difference": 9.75}`), &pr))

	assert.Equal(t, "10.25", pr.Min.String())
	assert.Equal(t, "20", pr.Max.String())
	assert.True(t, pr.Difference.Equal(decimal.RequireFromString("9.75")))
}
