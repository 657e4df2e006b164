package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "12.50", want: "12.5"},
		{raw: "$12.50", want: "12.5"},
		{raw: " $ 7 ", want: "7"},
		{raw: "1,250.00", want: "1250"},
		{raw: "$$$", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "cheap", wantErr: true},
		{raw: "-3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParsePrice(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestPriceFromValue(t *testing.T) {
	d, err := PriceFromValue(10)
	require.NoError(t, err)
	assert.Equal(t, "10", d.String())

	d, err = PriceFromValue(4.25)
	require.NoError(t, err)
	assert.Equal(t, "4.25", d.String())

	_, err = PriceFromValue(nil)
	assert.Error(t, err)

	_, err = PriceFromValue([]int{1})
	assert.Error(t, err)
}

func TestFormatPriceAndSubtotal(t *testing.T) {
	line := CartLine{Item: CatalogItem{ID: 1, Price: decimal.NewFromInt(5)}, Qty: 3}
	assert.Equal(t, "$15.00", FormatPrice(line.Subtotal()))
}

func TestIdentityLabel(t *testing.T) {
	var nobody *Identity
	assert.Equal(t, "Guest", nobody.Label())
	assert.Equal(t, "Guest", (&Identity{}).Label())
	assert.Equal(t, "a@b.c", (&Identity{Email: "a@b.c"}).Label())
	assert.Equal(t, "Rana", (&Identity{Email: "a@b.c", Name: "Rana"}).Label())
}
