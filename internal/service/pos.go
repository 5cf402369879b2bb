// Package service wires the POS components together and applies
// presentation intents.
//
// The service owns the single instances of the catalog, bill composer,
// ledger, settings, and license gate, hydrates them from the persistent
// store at startup, and writes state through synchronously after every
// mutation. A store write failure is reported to the caller but in-memory
// state is not reverted.
//
// Destructive intents use a two-step confirmation protocol: called without
// confirmation they validate, mutate nothing, and return a Prompt the
// presentation layer shows to the user; the layer then re-invokes with the
// confirmation flag set. The domain never blocks waiting for UI input.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openpos/tillpoint/internal/bill"
	"github.com/openpos/tillpoint/internal/catalog"
	"github.com/openpos/tillpoint/internal/errs"
	"github.com/openpos/tillpoint/internal/ledger"
	"github.com/openpos/tillpoint/internal/license"
	"github.com/openpos/tillpoint/internal/models"
	"github.com/openpos/tillpoint/internal/receipt"
	"github.com/openpos/tillpoint/internal/storage"
)

// DisplayLimit caps how many ledger entries the recent-transactions view
// shows. Full history stays in the store.
const DisplayLimit = 20

// Prompt asks the presentation layer to confirm a destructive intent.
// A non-nil Prompt means nothing was mutated.
type Prompt struct {
	Message string
}

// POS orchestrates the billing and ledger state machine for one station.
// All operations run to completion on the calling goroutine; there is one
// logical actor and no internal locking.
type POS struct {
	store    storage.Store
	printer  Printer
	catalog  *catalog.Catalog
	bill     *bill.Composer
	ledger   *ledger.Ledger
	settings models.Settings
	gate     *license.Gate
	now      func() time.Time
}

// Option configures a POS.
type Option func(*POS)

// WithPrinter sets the receipt printing collaborator.
func WithPrinter(p Printer) Option {
	return func(s *POS) { s.printer = p }
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *POS) { s.now = now }
}

// New hydrates a POS from the store. Absent keys fall back to documented
// defaults without being written; the one exception is the trial info,
// which is written immediately on the first-ever run to fix the trial
// start instant.
func New(ctx context.Context, store storage.Store, licenseSecret string, opts ...Option) (*POS, error) {
	s := &POS{
		store:   store,
		printer: NopPrinter{},
		bill:    bill.NewComposer(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	var products []models.Product
	if err := s.load(ctx, storage.KeyProducts, &products); err != nil {
		return nil, err
	}
	var dropped int
	s.catalog, dropped = catalog.New(products)
	if dropped > 0 {
		slog.Warn("Dropped malformed stored products", "count", dropped)
	}

	var transactions []models.Transaction
	if err := s.load(ctx, storage.KeyTransactions, &transactions); err != nil {
		return nil, err
	}
	s.ledger = ledger.New(transactions)
	if repaired := s.ledger.RepairTotals(); repaired > 0 {
		slog.Warn("Repaired drifted transaction totals", "count", repaired)
	}

	s.settings = models.DefaultSettings()
	var stored models.Settings
	if err := s.load(ctx, storage.KeySettings, &stored); err != nil {
		return nil, err
	} else if !stored.ReceiptWidthIn.IsZero() || stored.StoreName != "" {
		repairedSettings, repaired := stored.Repair()
		if repaired {
			slog.Warn("Repaired malformed stored settings")
		}
		s.settings = repairedSettings
	}

	info, firstRun, err := s.loadTrialInfo(ctx)
	if err != nil {
		return nil, err
	}
	s.gate = license.NewGate(info, licenseSecret, license.WithClock(s.now))
	if firstRun {
		if err := s.saveTrialInfo(ctx); err != nil {
			return nil, err
		}
		slog.Info("Trial started", "started_at", info.StartedAt)
	}

	slog.Info("POS ready",
		"products", s.catalog.Len(),
		"transactions", s.ledger.Len(),
		"license_state", s.gate.State().String(),
	)
	return s, nil
}

// load unmarshals the value at key into dst; an absent key leaves dst
// untouched.
func (s *POS) load(ctx context.Context, key string, dst any) error {
	raw, err := s.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load %q: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// Malformed stored data is repaired to the default rather than
		// taking the station down.
		slog.Warn("Discarding malformed stored record", "key", key, "error", err)
	}
	return nil
}

func (s *POS) loadTrialInfo(ctx context.Context) (models.TrialInfo, bool, error) {
	raw, err := s.store.Get(ctx, storage.KeyTrialInfo)
	if errors.Is(err, storage.ErrNotFound) {
		return models.NewTrialInfo(s.now()), true, nil
	}
	if err != nil {
		return models.TrialInfo{}, false, fmt.Errorf("failed to load trial info: %w", err)
	}
	var info models.TrialInfo
	if err := json.Unmarshal(raw, &info); err != nil || info.StartedAt.IsZero() {
		slog.Warn("Discarding malformed trial info", "error", err)
		return models.NewTrialInfo(s.now()), true, nil
	}
	return info, false, nil
}

func (s *POS) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	if err := s.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to persist %q: %w", key, err)
	}
	return nil
}

func (s *POS) saveProducts(ctx context.Context) error {
	return s.save(ctx, storage.KeyProducts, s.catalog.Products())
}

func (s *POS) saveTransactions(ctx context.Context) error {
	return s.save(ctx, storage.KeyTransactions, s.ledger.All())
}

func (s *POS) saveSettings(ctx context.Context) error {
	return s.save(ctx, storage.KeySettings, s.settings)
}

func (s *POS) saveTrialInfo(ctx context.Context) error {
	return s.save(ctx, storage.KeyTrialInfo, s.gate.Info())
}

// --- Catalog intents ---

// AddProduct adds a product or updates the price of an existing one.
// A case-insensitive name collision without confirmOverwrite returns
// catalog.ConfirmOverwrite and mutates nothing.
func (s *POS) AddProduct(ctx context.Context, name string, price decimal.Decimal, confirmOverwrite bool) (catalog.Outcome, error) {
	outcome, err := s.catalog.AddOrUpdate(name, price, confirmOverwrite)
	if err != nil {
		slog.Warn("AddProduct rejected", "name", name, "error", err)
		return 0, err
	}
	if outcome == catalog.ConfirmOverwrite {
		return outcome, nil
	}
	slog.Info("Product saved", "name", name, "price", price, "updated", outcome == catalog.Updated)
	return outcome, s.saveProducts(ctx)
}

// RemoveProduct deletes the product at index after confirmation.
func (s *POS) RemoveProduct(ctx context.Context, index int, confirmed bool) (*Prompt, error) {
	p, err := s.catalog.Get(index)
	if err != nil {
		return nil, err
	}
	if !confirmed {
		return &Prompt{Message: fmt.Sprintf("Remove product %q?", p.Name)}, nil
	}
	if err := s.catalog.Remove(index); err != nil {
		return nil, err
	}
	slog.Info("Product removed", "name", p.Name)
	return nil, s.saveProducts(ctx)
}

// Products returns the catalog in display order.
func (s *POS) Products() []models.Product {
	return s.catalog.Products()
}

// SearchCatalog yields (index, product) pairs matching term.
func (s *POS) SearchCatalog(term string) iter.Seq2[int, models.Product] {
	return s.catalog.Search(term)
}

// --- Bill intents ---

// AddToBill adds quantity units of the product at productIndex to the
// current bill, snapshotting its price now.
func (s *POS) AddToBill(productIndex int, quantity int64) error {
	p, err := s.catalog.Get(productIndex)
	if err != nil {
		// A stale index from a filtered product list is user input, not a
		// programming error against the bill.
		return errs.Validation("product", "selected product does not exist")
	}
	if err := s.bill.Add(p, quantity); err != nil {
		return err
	}
	slog.Debug("Line added to bill", "name", p.Name, "quantity", quantity, "total", s.bill.Total())
	return nil
}

// RemoveBillLine deletes the line at index from the current bill.
func (s *POS) RemoveBillLine(index int) error {
	return s.bill.RemoveLine(index)
}

// BillLines returns the current bill lines.
func (s *POS) BillLines() []models.BillLine {
	return s.bill.Lines()
}

// BillTotal returns the running total of the current bill.
func (s *POS) BillTotal() decimal.Decimal {
	return s.bill.Total()
}

// ClearBill discards the in-progress bill without committing it.
func (s *POS) ClearBill() {
	s.bill.Clear()
}

// --- Ledger intents ---

// SaveBill commits the current bill to the ledger, persists it, prints the
// receipt, and clears the composer. The committed transaction is returned.
func (s *POS) SaveBill(ctx context.Context) (models.Transaction, error) {
	tx, err := s.ledger.Commit(s.bill.Lines(), s.now())
	if err != nil {
		return models.Transaction{}, err
	}
	if err := s.saveTransactions(ctx); err != nil {
		return models.Transaction{}, err
	}
	s.bill.Clear()
	slog.Info("Bill committed", "transaction_id", tx.ID, "total", tx.Total, "items", len(tx.Items))

	doc, err := receipt.Format(tx, s.settings)
	if err == nil {
		if perr := s.printer.Print(doc); perr != nil {
			// The sale is already committed; a jammed printer must not
			// roll it back.
			slog.Warn("Receipt printing failed", "transaction_id", tx.ID, "error", perr)
		}
	}
	return tx, nil
}

// PrintTransaction re-prints the receipt for the ledger entry at index.
func (s *POS) PrintTransaction(index int) (receipt.Document, error) {
	tx, err := s.ledger.Get(index)
	if err != nil {
		return receipt.Document{}, err
	}
	doc, err := receipt.Format(tx, s.settings)
	if err != nil {
		return receipt.Document{}, err
	}
	if err := s.printer.Print(doc); err != nil {
		return receipt.Document{}, fmt.Errorf("failed to print receipt: %w", err)
	}
	slog.Info("Receipt printed", "transaction_id", tx.ID)
	return doc, nil
}

// DeleteTransaction permanently removes the ledger entry at index after
// confirmation.
func (s *POS) DeleteTransaction(ctx context.Context, index int, confirmed bool) (*Prompt, error) {
	tx, err := s.ledger.Get(index)
	if err != nil {
		return nil, err
	}
	if !confirmed {
		return &Prompt{Message: "Delete this bill? This action cannot be undone."}, nil
	}
	if err := s.ledger.Delete(index); err != nil {
		return nil, err
	}
	slog.Info("Transaction deleted", "transaction_id", tx.ID, "total", tx.Total)
	return nil, s.saveTransactions(ctx)
}

// RecentTransactions returns up to limit ledger entries, most-recent-first.
// A non-positive limit applies the display cap.
func (s *POS) RecentTransactions(limit int) []models.Transaction {
	if limit <= 0 {
		limit = DisplayLimit
	}
	return s.ledger.Recent(limit)
}

// LedgerSize returns the full history length, which can exceed the
// display cap.
func (s *POS) LedgerSize() int {
	return s.ledger.Len()
}

// --- Settings intents (gated) ---

// ViewSettings returns the settings. Gated: even opening the settings page
// requires a premium license.
func (s *POS) ViewSettings() (models.Settings, error) {
	if err := s.gate.Authorize(license.ActionViewSettings); err != nil {
		return models.Settings{}, err
	}
	return s.settings, nil
}

// UpdateSettings replaces the settings. Gated.
func (s *POS) UpdateSettings(ctx context.Context, settings models.Settings) error {
	if err := s.gate.Authorize(license.ActionMutateSettings); err != nil {
		slog.Warn("Settings update blocked", "error", err)
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	s.settings = settings
	slog.Info("Settings updated", "store_name", settings.StoreName)
	return s.saveSettings(ctx)
}

// --- License intents ---

// LicenseState returns the gate's current state, recomputed now.
func (s *POS) LicenseState() license.State {
	return s.gate.State()
}

// TrialRemaining returns how much of the trial window is left.
func (s *POS) TrialRemaining() time.Duration {
	return s.gate.Remaining()
}

// Activate verifies a license key and upgrades the station to premium.
func (s *POS) Activate(ctx context.Context, key string) error {
	if err := s.gate.Activate(key); err != nil {
		slog.Warn("License activation rejected", "error", err)
		return err
	}
	slog.Info("License activated")
	return s.saveTrialInfo(ctx)
}

// ResetChallenge returns the token the operator must echo back to
// ResetSystem.
func (s *POS) ResetChallenge() string {
	return license.ResetChallenge
}

// ResetSystem wipes the station: catalog, bill, ledger, settings back to
// defaults, and a fresh trial window. Gated, and additionally protected by
// the echoed challenge token plus a confirmation step.
func (s *POS) ResetSystem(ctx context.Context, challenge string, confirmed bool) (*Prompt, error) {
	if err := s.gate.Authorize(license.ActionResetSystem); err != nil {
		slog.Warn("System reset blocked", "error", err)
		return nil, err
	}
	if challenge != license.ResetChallenge {
		return nil, errs.Validation("confirmation number", "does not match the reset challenge")
	}
	if !confirmed {
		return &Prompt{Message: "Are you absolutely sure you want to reset the entire system? This action cannot be undone."}, nil
	}

	if err := s.store.Reset(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear store: %w", err)
	}
	s.catalog.Reset()
	s.bill.Clear()
	s.ledger.Reset()
	s.settings = models.DefaultSettings()
	s.gate.Restart(s.now())

	// A reset is a first-ever run again: fix the new trial start right away.
	if err := s.saveTrialInfo(ctx); err != nil {
		return nil, err
	}
	slog.Info("System reset", "trial_restarted_at", s.gate.Info().StartedAt)
	return nil, nil
}
