// Package receipt turns a finalized transaction plus store settings into a
// printable document. Formatting is pure: the same transaction and settings
// always produce identical output, and nothing here mutates or persists.
package receipt

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/openpos/tillpoint/internal/errs"
	"github.com/openpos/tillpoint/internal/models"
)

// Monospace receipt layout. Thermal printers fit roughly ten characters per
// inch at the font sizes the original receipts used.
const (
	charsPerInch = 10
	minWidth     = 24
	totalColumn  = 10
	qtyColumn    = 4
)

// Row is one item line on the receipt.
type Row struct {
	Name      string
	Quantity  int64
	LineTotal string
}

// Document is a renderable receipt. Width affects layout only; every field
// is content derived from the transaction and settings.
type Document struct {
	StoreName    string
	StoreAddress string
	StoreContact string
	Date         string
	Rows         []Row
	Total        string
	Footer       string
	Width        int
}

// Format builds the receipt document for a finalized transaction.
func Format(tx models.Transaction, s models.Settings) (Document, error) {
	if len(tx.Items) == 0 {
		return Document{}, errs.Validation("transaction", "has no items to print")
	}

	rows := make([]Row, len(tx.Items))
	for i, item := range tx.Items {
		rows[i] = Row{
			Name:      item.Name,
			Quantity:  item.Quantity,
			LineTotal: money(item.LineTotal()),
		}
	}

	width := int(s.ReceiptWidthIn.Mul(decimal.NewFromInt(charsPerInch)).IntPart())
	if width < minWidth {
		width = minWidth
	}

	return Document{
		StoreName:    s.StoreName,
		StoreAddress: s.StoreAddress,
		StoreContact: s.StoreContact,
		Date:         tx.Timestamp.Format("02 Jan 2006 15:04:05"),
		Rows:         rows,
		Total:        money(tx.Total),
		Footer:       s.ReceiptFooter,
		Width:        width,
	}, nil
}

// Render lays the document out as monospace text at the document width.
func (d Document) Render() string {
	var b strings.Builder
	rule := strings.Repeat("-", d.Width)

	writeln := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	writeln(center(d.StoreName, d.Width))
	if d.StoreAddress != "" {
		writeln(center(d.StoreAddress, d.Width))
	}
	if d.StoreContact != "" {
		writeln(center(d.StoreContact, d.Width))
	}
	writeln(rule)
	writeln("Date: " + d.Date)
	writeln(rule)

	nameWidth := d.Width - qtyColumn - totalColumn
	writeln(row("Item", "Qty", "Total", nameWidth))
	for _, r := range d.Rows {
		writeln(row(r.Name, fmt.Sprintf("%d", r.Quantity), r.LineTotal, nameWidth))
	}
	writeln(rule)
	writeln(rightAlign("Total: "+d.Total, d.Width))
	writeln(rule)
	writeln(center(d.Footer, d.Width))

	return b.String()
}

func money(d decimal.Decimal) string {
	return "Rs" + d.StringFixed(2)
}

func row(name, qty, total string, nameWidth int) string {
	if len(name) > nameWidth {
		name = name[:nameWidth]
	}
	return fmt.Sprintf("%-*s%*s%*s", nameWidth, name, qtyColumn, qty, totalColumn, total)
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func rightAlign(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
