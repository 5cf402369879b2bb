package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openpos/tillpoint/internal/errs"
	"github.com/openpos/tillpoint/internal/models"
)

func lines(t *testing.T) []models.BillLine {
	t.Helper()
	return []models.BillLine{
		{Name: "Milk", Price: decimal.NewFromInt(50), Quantity: 3},
		{Name: "Bread", Price: decimal.NewFromInt(30), Quantity: 2},
	}
}

func TestCommit(t *testing.T) {
	t.Run("empty bill rejected", func(t *testing.T) {
		l := New(nil)
		_, err := l.Commit(nil, time.Now())
		var serr *errs.StateError
		if !errors.As(err, &serr) {
			t.Fatalf("error %v, want StateError", err)
		}
		if l.Len() != 0 {
			t.Error("failed commit must not append")
		}
	})

	t.Run("total derived from lines", func(t *testing.T) {
		l := New(nil)
		at := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
		tx, err := l.Commit(lines(t), at)
		if err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
		if !tx.Total.Equal(decimal.NewFromInt(210)) {
			t.Errorf("total = %s, want 210", tx.Total)
		}
		if tx.ID == "" {
			t.Error("expected generated transaction ID")
		}
		if !tx.Timestamp.Equal(at) {
			t.Errorf("timestamp = %v, want %v", tx.Timestamp, at)
		}
	})

	t.Run("snapshot isolation from later line mutations", func(t *testing.T) {
		l := New(nil)
		src := lines(t)
		tx, err := l.Commit(src, time.Now())
		if err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
		src[0].Quantity = 99
		src[0].Price = decimal.NewFromInt(1)
		got, _ := l.Get(0)
		if got.Items[0].Quantity != 3 || !got.Items[0].Price.Equal(decimal.NewFromInt(50)) {
			t.Errorf("committed snapshot changed: %+v", got.Items[0])
		}
		if !got.Total.Equal(tx.Total) {
			t.Errorf("total drifted: %s vs %s", got.Total, tx.Total)
		}
	})

	t.Run("most-recent-first ordering", func(t *testing.T) {
		l := New(nil)
		first, _ := l.Commit(lines(t), time.Now())
		second, _ := l.Commit(lines(t)[:1], time.Now())
		recent := l.Recent(10)
		if len(recent) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(recent))
		}
		if recent[0].ID != second.ID || recent[1].ID != first.ID {
			t.Error("Recent is not ordered most-recent-first")
		}
	})
}

func TestDelete(t *testing.T) {
	l := New(nil)
	l.Commit(lines(t), time.Now())
	l.Commit(lines(t)[:1], time.Now())

	t.Run("out of range leaves ledger unchanged", func(t *testing.T) {
		err := l.Delete(2)
		var ierr *errs.IndexError
		if !errors.As(err, &ierr) {
			t.Fatalf("error %v, want IndexError", err)
		}
		if l.Len() != 2 {
			t.Errorf("ledger length = %d, want 2", l.Len())
		}
	})

	t.Run("delete removes exactly one entry", func(t *testing.T) {
		keep, _ := l.Get(1)
		if err := l.Delete(0); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if l.Len() != 1 {
			t.Fatalf("ledger length = %d, want 1", l.Len())
		}
		got, _ := l.Get(0)
		if got.ID != keep.ID {
			t.Error("wrong entry deleted")
		}
	})
}

func TestRecentLimits(t *testing.T) {
	l := New(nil)
	for i := 0; i < 5; i++ {
		l.Commit(lines(t), time.Now())
	}
	if got := len(l.Recent(3)); got != 3 {
		t.Errorf("Recent(3) returned %d", got)
	}
	if got := len(l.Recent(50)); got != 5 {
		t.Errorf("Recent(50) returned %d", got)
	}
	if got := len(l.Recent(0)); got != 0 {
		t.Errorf("Recent(0) returned %d", got)
	}
}

func TestRepairTotals(t *testing.T) {
	drifted := models.Transaction{
		ID:        "t1",
		Timestamp: time.Now(),
		Items:     lines(t),
		Total:     decimal.NewFromInt(9999),
	}
	ok := models.NewTransaction("t2", time.Now(), lines(t))

	l := New([]models.Transaction{drifted, ok})
	if repaired := l.RepairTotals(); repaired != 1 {
		t.Errorf("repaired = %d, want 1", repaired)
	}
	got, _ := l.Get(0)
	if !got.Total.Equal(decimal.NewFromInt(210)) {
		t.Errorf("repaired total = %s, want 210", got.Total)
	}
}

func TestReset(t *testing.T) {
	l := New(nil)
	l.Commit(lines(t), time.Now())
	l.Reset()
	if l.Len() != 0 {
		t.Error("Reset did not clear the ledger")
	}
}

func TestTotal(t *testing.T) {
	l := New(nil)
	l.Commit(lines(t), time.Now())                             // 210
	l.Commit(lines(t)[:1], time.Now())                         // 150
	if want := decimal.NewFromInt(360); !l.Total().Equal(want) {
		t.Errorf("Total() = %s, want %s", l.Total(), want)
	}
}
