package receipt

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openpos/tillpoint/internal/errs"
	"github.com/openpos/tillpoint/internal/models"
)

func sampleTransaction() models.Transaction {
	return models.NewTransaction(
		"tx-1",
		time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		[]models.BillLine{
			{Name: "Milk", Price: decimal.NewFromInt(50), Quantity: 3},
			{Name: "Bread", Price: decimal.RequireFromString("30.5"), Quantity: 2},
		},
	)
}

func TestFormat(t *testing.T) {
	doc, err := Format(sampleTransaction(), models.DefaultSettings())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	if doc.StoreName != "My Supermarket" {
		t.Errorf("store name = %q", doc.StoreName)
	}
	if len(doc.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(doc.Rows))
	}
	if doc.Rows[0].LineTotal != "Rs150.00" {
		t.Errorf("row 0 line total = %q, want Rs150.00", doc.Rows[0].LineTotal)
	}
	if doc.Rows[1].LineTotal != "Rs61.00" {
		t.Errorf("row 1 line total = %q, want Rs61.00", doc.Rows[1].LineTotal)
	}
	if doc.Total != "Rs211.00" {
		t.Errorf("total = %q, want Rs211.00", doc.Total)
	}
	if doc.Date != "01 Mar 2026 10:30:00" {
		t.Errorf("date = %q", doc.Date)
	}
	if doc.Width != 30 {
		t.Errorf("width = %d, want 30 for 3in paper", doc.Width)
	}
}

func TestFormatEmptyTransaction(t *testing.T) {
	_, err := Format(models.Transaction{ID: "tx"}, models.DefaultSettings())
	var verr *errs.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error %v, want ValidationError", err)
	}
}

func TestFormatIsPure(t *testing.T) {
	tx := sampleTransaction()
	s := models.DefaultSettings()

	first, err := Format(tx, s)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	second, _ := Format(tx, s)
	if first.Render() != second.Render() {
		t.Error("two renders of the same transaction differ")
	}
}

func TestRender(t *testing.T) {
	doc, _ := Format(sampleTransaction(), models.DefaultSettings())
	out := doc.Render()

	for _, want := range []string{
		"My Supermarket",
		"Date: 01 Mar 2026 10:30:00",
		"Milk",
		"Bread",
		"Total: Rs211.00",
		"Thank you for your visit!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered receipt missing %q:\n%s", want, out)
		}
	}

	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if len(line) > doc.Width {
			t.Errorf("line exceeds width %d: %q", doc.Width, line)
		}
	}
}

func TestWidthAffectsLayoutNotContent(t *testing.T) {
	tx := sampleTransaction()
	narrow := models.DefaultSettings()
	wide := models.DefaultSettings()
	wide.ReceiptWidthIn = decimal.NewFromInt(8)

	nDoc, _ := Format(tx, narrow)
	wDoc, _ := Format(tx, wide)

	if nDoc.Total != wDoc.Total || len(nDoc.Rows) != len(wDoc.Rows) {
		t.Error("width changed receipt content")
	}
	if nDoc.Width == wDoc.Width {
		t.Error("width setting had no layout effect")
	}
}
