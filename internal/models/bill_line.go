package models

import "github.com/shopspring/decimal"

// BillLine is one line of the in-progress bill. The price is a snapshot of
// the product price at the moment the line was added; later catalog edits
// do not affect it.
type BillLine struct {
	// Name identifies the product; unique within one bill.
	Name string `json:"name"`

	// Price is the unit price snapshotted at add time.
	Price decimal.Decimal `json:"price"`

	// Quantity is always >= 1. Removal deletes the whole line.
	Quantity int64 `json:"quantity"`
}

// LineTotal returns Price * Quantity.
func (l BillLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(l.Quantity))
}

// SumLines returns the total of the given lines, zero when empty.
func SumLines(lines []BillLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// CopyLines returns an independent copy of lines.
func CopyLines(lines []BillLine) []BillLine {
	out := make([]BillLine, len(lines))
	copy(out, lines)
	return out
}
