package models

import "github.com/shopspring/decimal"

// CatalogItem is an orderable dish. Items are immutable once the catalog is loaded.
type CatalogItem struct {
	ID          int64           `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description"`
	Price       decimal.Decimal `json:"price" yaml:"-"`
	Category    string          `json:"category" yaml:"category"`
	Popular     bool            `json:"popular,omitempty" yaml:"popular"`
	New         bool            `json:"new,omitempty" yaml:"new"`
	Image       string          `json:"image,omitempty" yaml:"image"`
}

func (i CatalogItem) Flags() []string {
	var flags []string
	if i.Popular {
		flags = append(flags, "popular")
	}
	if i.New {
		flags = append(flags, "new")
	}
	return flags
}
