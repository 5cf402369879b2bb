// Package ledger owns the append-mostly history of finalized transactions.
//
// Entries are ordered most-recent-first. Once committed a transaction is
// immutable; delete removes a record permanently and nothing else ever
// mutates history.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openpos/tillpoint/internal/errs"
	"github.com/openpos/tillpoint/internal/models"
)

// Ledger holds the transaction history. Not safe for concurrent use; the
// service serializes all access.
type Ledger struct {
	entries []models.Transaction
}

// New builds a ledger from previously stored transactions,
// most-recent-first as stored.
func New(entries []models.Transaction) *Ledger {
	l := &Ledger{entries: make([]models.Transaction, len(entries))}
	copy(l.entries, entries)
	return l
}

// RepairTotals recomputes every stored total from its items and overwrites
// drifted values. The stored total is redundant and never trusted. Returns
// the number of repaired entries.
func (l *Ledger) RepairTotals() int {
	repaired := 0
	for i := range l.entries {
		if l.entries[i].RepairTotal() {
			repaired++
		}
	}
	return repaired
}

// Commit snapshots the given bill lines into a new transaction stamped at
// the given instant and prepends it to the ledger. The lines are
// deep-copied so later composer mutations cannot reach history, and the
// total is always derived from the lines.
func (l *Ledger) Commit(lines []models.BillLine, at time.Time) (models.Transaction, error) {
	if len(lines) == 0 {
		return models.Transaction{}, errs.State("commit", "current bill is empty")
	}
	tx := models.NewTransaction(uuid.New().String(), at, lines)
	l.entries = append([]models.Transaction{tx}, l.entries...)
	return tx.Clone(), nil
}

// Delete removes the transaction at index permanently. There is no undo.
func (l *Ledger) Delete(index int) error {
	if index < 0 || index >= len(l.entries) {
		return errs.Index("ledger", index, len(l.entries))
	}
	l.entries = append(l.entries[:index], l.entries[index+1:]...)
	return nil
}

// Get returns a copy of the transaction at index.
func (l *Ledger) Get(index int) (models.Transaction, error) {
	if index < 0 || index >= len(l.entries) {
		return models.Transaction{}, errs.Index("ledger", index, len(l.entries))
	}
	return l.entries[index].Clone(), nil
}

// Recent returns copies of the first limit transactions, most-recent-first.
// A limit at or beyond the ledger length returns everything.
func (l *Ledger) Recent(limit int) []models.Transaction {
	if limit > len(l.entries) {
		limit = len(l.entries)
	}
	if limit < 0 {
		limit = 0
	}
	out := make([]models.Transaction, 0, limit)
	for _, tx := range l.entries[:limit] {
		out = append(out, tx.Clone())
	}
	return out
}

// All returns copies of every transaction, most-recent-first. Used for
// persistence; display paths go through Recent.
func (l *Ledger) All() []models.Transaction {
	return l.Recent(len(l.entries))
}

// Len returns the number of transactions.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Total returns the sum of all transaction totals.
func (l *Ledger) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range l.entries {
		sum = sum.Add(tx.Total)
	}
	return sum
}

// Reset clears the entire history. Callers gate this behind the license
// check and the reset challenge.
func (l *Ledger) Reset() {
	l.entries = nil
}
