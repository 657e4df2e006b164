package models

import "github.com/shopspring/decimal"

type CartLine struct {
	Item CatalogItem `json:"item"`
	Qty  int         `json:"qty"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}
