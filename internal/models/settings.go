package models

import (
	"github.com/shopspring/decimal"

	"github.com/openpos/tillpoint/internal/errs"
)

// Settings holds store identity and receipt formatting configuration.
// There is exactly one Settings record; it is mutated only through the
// license gate's authorized path.
type Settings struct {
	StoreName    string `json:"storeName"`
	StoreAddress string `json:"storeAddress"`
	StoreContact string `json:"storeContact"`

	// ReceiptFooter is printed at the bottom of every receipt.
	ReceiptFooter string `json:"receiptFooter"`

	// ReceiptWidthIn is the receipt paper width in inches. Affects layout
	// only, never content. Always positive.
	ReceiptWidthIn decimal.Decimal `json:"receiptWidth"`
}

// DefaultSettings returns the settings used before the operator has saved
// any, matching a fresh install.
func DefaultSettings() Settings {
	return Settings{
		StoreName:      "My Supermarket",
		StoreAddress:   "123 Market St, City",
		StoreContact:   "Ph: 123-456-7890",
		ReceiptFooter:  "Thank you for your visit!",
		ReceiptWidthIn: decimal.NewFromInt(3),
	}
}

// Validate checks that the settings are well formed.
func (s Settings) Validate() error {
	if !s.ReceiptWidthIn.IsPositive() {
		return errs.Validation("receipt width", "must be a positive number of inches")
	}
	return nil
}

// Repair returns s with any malformed field replaced by its default.
// It reports whether anything was changed.
func (s Settings) Repair() (Settings, bool) {
	repaired := false
	def := DefaultSettings()
	if !s.ReceiptWidthIn.IsPositive() {
		s.ReceiptWidthIn = def.ReceiptWidthIn
		repaired = true
	}
	if s.StoreName == "" {
		s.StoreName = def.StoreName
		repaired = true
	}
	return s, repaired
}
