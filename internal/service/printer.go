package service

import (
	"log/slog"

	"github.com/openpos/tillpoint/internal/receipt"
)

// Printer is the printing/export collaborator. The POS hands it a formatted
// receipt document; how it reaches paper (or a print dialog) is not the
// domain's concern.
type Printer interface {
	Print(doc receipt.Document) error
}

// NopPrinter discards receipts. Default when no printer is wired.
type NopPrinter struct{}

func (NopPrinter) Print(receipt.Document) error { return nil }

// LogPrinter writes rendered receipts to the log. Useful for stations
// without a printer attached.
type LogPrinter struct{}

func (LogPrinter) Print(doc receipt.Document) error {
	slog.Info("Receipt", "rendered", "\n"+doc.Render())
	return nil
}
