package models

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/openpos/tillpoint/internal/errs"
)

// Product is a sellable catalog entry. Identity is the case-insensitive
// name; the catalog holds at most one product per name.
type Product struct {
	// Name is the display name of the product. Never empty.
	Name string `json:"name"`

	// Price is the unit price. Always positive.
	Price decimal.Decimal `json:"price"`
}

// Validate checks that the product is well formed.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errs.Validation("product name", "must not be empty")
	}
	if !p.Price.IsPositive() {
		return errs.Validation("product price", "must be a positive amount")
	}
	return nil
}

// SameName reports whether the product's identity matches name,
// case-insensitively.
func (p Product) SameName(name string) bool {
	return strings.EqualFold(p.Name, strings.TrimSpace(name))
}
