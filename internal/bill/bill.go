// Package bill owns the in-progress sale: a mutable line-item list built
// against the catalog. The composer's state is in-memory only; it is
// cleared on commit or explicit cancel and never persisted.
package bill

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/openpos/tillpoint/internal/errs"
	"github.com/openpos/tillpoint/internal/models"
)

// Composer assembles the current bill. Not safe for concurrent use; the
// service serializes all access.
type Composer struct {
	lines []models.BillLine
}

// NewComposer returns an empty composer.
func NewComposer() *Composer {
	return &Composer{}
}

// Add appends a line for the given product, snapshotting its price now.
// Adding a product already on the bill increments that line's quantity
// instead of creating a second line.
func (b *Composer) Add(p models.Product, quantity int64) error {
	if quantity < 1 {
		return errs.Validation("quantity", fmt.Sprintf("must be a positive integer, got %d", quantity))
	}
	if err := p.Validate(); err != nil {
		return err
	}
	for i := range b.lines {
		if b.lines[i].Name == p.Name {
			b.lines[i].Quantity += quantity
			return nil
		}
	}
	b.lines = append(b.lines, models.BillLine{Name: p.Name, Price: p.Price, Quantity: quantity})
	return nil
}

// RemoveLine deletes the line at index entirely; quantities never drop to
// zero in place.
func (b *Composer) RemoveLine(index int) error {
	if index < 0 || index >= len(b.lines) {
		return errs.Index("bill", index, len(b.lines))
	}
	b.lines = append(b.lines[:index], b.lines[index+1:]...)
	return nil
}

// Lines returns an independent copy of the current lines.
func (b *Composer) Lines() []models.BillLine {
	return models.CopyLines(b.lines)
}

// Total returns the running total, zero for an empty bill.
func (b *Composer) Total() decimal.Decimal {
	return models.SumLines(b.lines)
}

// Empty reports whether the bill has no lines.
func (b *Composer) Empty() bool {
	return len(b.lines) == 0
}

// Clear discards every line.
func (b *Composer) Clear() {
	b.lines = nil
}
