package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an immutable, finalized sale. Once committed to the ledger
// nothing mutates it; deletion removes the whole record.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string `json:"id"`

	// Timestamp is the commit instant.
	Timestamp time.Time `json:"date"`

	// Items is the snapshot of the bill lines at commit time.
	Items []BillLine `json:"items"`

	// Total is sum(price*quantity) over Items. Stored redundantly; verified
	// against a recomputation on load.
	Total decimal.Decimal `json:"total"`
}

// RepairTotal recomputes Total from Items and overwrites it on drift.
// It reports whether a repair was needed.
func (t *Transaction) RepairTotal() bool {
	want := SumLines(t.Items)
	if t.Total.Equal(want) {
		return false
	}
	t.Total = want
	return true
}

// Clone returns a deep copy so callers can hand out history without
// exposing the ledger's backing slices.
func (t Transaction) Clone() Transaction {
	out := t
	out.Items = CopyLines(t.Items)
	return out
}

// NewTransaction snapshots the given lines into a transaction committed at
// the given instant. The total is always derived from the lines themselves,
// never accepted from the caller.
func NewTransaction(id string, at time.Time, lines []BillLine) Transaction {
	items := CopyLines(lines)
	return Transaction{
		ID:        id,
		Timestamp: at,
		Items:     items,
		Total:     SumLines(items),
	}
}
