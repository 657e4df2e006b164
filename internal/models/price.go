package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const CurrencySymbol = "$"

// ParsePrice converts a catalog price such as "12.50" or "$12.50" to its numeric value.
// Price tiers ("$$$") carry no amount and are rejected.
func ParsePrice(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, CurrencySymbol)
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || strings.Trim(s, CurrencySymbol) == "" {
		return decimal.Zero, fmt.Errorf("price %q has no amount", raw)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", raw, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("price %q is negative", raw)
	}
	return d, nil
}

// PriceFromValue accepts the loosely typed values produced by JSON and YAML decoders.
func PriceFromValue(v interface{}) (decimal.Decimal, error) {
	switch p := v.(type) {
	case nil:
		return decimal.Zero, fmt.Errorf("price is missing")
	case string:
		return ParsePrice(p)
	case json.Number:
		return ParsePrice(p.String())
	case int:
		return decimal.NewFromInt(int64(p)), nil
	case int64:
		return decimal.NewFromInt(p), nil
	case uint64:
		return decimal.NewFromInt(int64(p)), nil
	case float64:
		return decimal.NewFromFloat(p), nil
	case decimal.Decimal:
		return p, nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported price type %T", v)
	}
}

// FormatPrice renders an amount for display, e.g. "$13.00".
func FormatPrice(d decimal.Decimal) string {
	return CurrencySymbol + d.StringFixed(2)
}
