package catalog

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/openpos/tillpoint/internal/errs"
	"github.com/openpos/tillpoint/internal/models"
)

func mustAdd(t *testing.T, c *Catalog, name string, price float64) {
	t.Helper()
	outcome, err := c.AddOrUpdate(name, decimal.NewFromFloat(price), false)
	if err != nil {
		t.Fatalf("AddOrUpdate(%q) failed: %v", name, err)
	}
	if outcome != Added {
		t.Fatalf("AddOrUpdate(%q) outcome = %v, want Added", name, outcome)
	}
}

func TestAddOrUpdate(t *testing.T) {
	tests := []struct {
		name        string
		addName     string
		price       float64
		confirm     bool
		wantOutcome Outcome
		wantErr     bool
	}{
		{name: "new product", addName: "Milk", price: 50, wantOutcome: Added},
		{name: "empty name rejected", addName: "  ", price: 50, wantErr: true},
		{name: "zero price rejected", addName: "Milk", price: 0, wantErr: true},
		{name: "negative price rejected", addName: "Milk", price: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := New(nil)
			outcome, err := c.AddOrUpdate(tt.addName, decimal.NewFromFloat(tt.price), tt.confirm)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AddOrUpdate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var verr *errs.ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("error %v is not a ValidationError", err)
				}
				return
			}
			if outcome != tt.wantOutcome {
				t.Errorf("outcome = %v, want %v", outcome, tt.wantOutcome)
			}
		})
	}
}

func TestCaseInsensitiveIdentity(t *testing.T) {
	c, _ := New(nil)
	mustAdd(t, c, "Milk", 50)

	t.Run("collision without confirmation leaves price unchanged", func(t *testing.T) {
		outcome, err := c.AddOrUpdate("milk", decimal.NewFromInt(60), false)
		if err != nil {
			t.Fatalf("AddOrUpdate failed: %v", err)
		}
		if outcome != ConfirmOverwrite {
			t.Fatalf("outcome = %v, want ConfirmOverwrite", outcome)
		}
		if got := c.Products(); len(got) != 1 || !got[0].Price.Equal(decimal.NewFromInt(50)) {
			t.Errorf("catalog = %v, want single Milk at 50", got)
		}
	})

	t.Run("confirmed overwrite updates price in place", func(t *testing.T) {
		outcome, err := c.AddOrUpdate("milk", decimal.NewFromInt(60), true)
		if err != nil {
			t.Fatalf("AddOrUpdate failed: %v", err)
		}
		if outcome != Updated {
			t.Fatalf("outcome = %v, want Updated", outcome)
		}
		got := c.Products()
		if len(got) != 1 {
			t.Fatalf("expected single product, got %d", len(got))
		}
		if got[0].Name != "Milk" {
			t.Errorf("name = %q, want original casing Milk", got[0].Name)
		}
		if !got[0].Price.Equal(decimal.NewFromInt(60)) {
			t.Errorf("price = %s, want 60", got[0].Price)
		}
	})
}

func TestNoDuplicateNamesEver(t *testing.T) {
	c, _ := New(nil)
	names := []string{"Milk", "MILK", "milk", "Bread", "bread", "Milk "}
	for _, n := range names {
		c.AddOrUpdate(n, decimal.NewFromInt(10), false)
	}
	seen := map[string]bool{}
	for _, p := range c.Products() {
		key := p.Name
		for _, q := range c.Products() {
			if q.Name != p.Name && q.SameName(p.Name) {
				t.Errorf("duplicate case-insensitive names: %q and %q", p.Name, q.Name)
			}
		}
		seen[key] = true
	}
	if len(seen) != 2 {
		t.Errorf("expected 2 retained products, got %d", len(seen))
	}
}

func TestRemove(t *testing.T) {
	c, _ := New(nil)
	mustAdd(t, c, "Milk", 50)
	mustAdd(t, c, "Bread", 30)

	if err := c.Remove(5); err == nil {
		t.Error("expected IndexError for out-of-range remove")
	} else {
		var ierr *errs.IndexError
		if !errors.As(err, &ierr) {
			t.Errorf("error %v is not an IndexError", err)
		}
	}

	if err := c.Remove(0); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	got := c.Products()
	if len(got) != 1 || got[0].Name != "Bread" {
		t.Errorf("catalog after remove = %v, want [Bread]", got)
	}
}

func TestSearch(t *testing.T) {
	c, _ := New(nil)
	mustAdd(t, c, "Whole Milk", 50)
	mustAdd(t, c, "Bread", 30)
	mustAdd(t, c, "Milkshake", 80)

	collect := func(term string) []string {
		var names []string
		for _, p := range c.Search(term) {
			names = append(names, p.Name)
		}
		return names
	}

	t.Run("case-insensitive substring", func(t *testing.T) {
		got := collect("milk")
		want := []string{"Whole Milk", "Milkshake"}
		if len(got) != len(want) {
			t.Fatalf("Search(milk) = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Search(milk)[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("empty term yields all in catalog order", func(t *testing.T) {
		got := collect("")
		if len(got) != 3 || got[0] != "Whole Milk" || got[2] != "Milkshake" {
			t.Errorf("Search(\"\") = %v, want all three in order", got)
		}
	})

	t.Run("restartable", func(t *testing.T) {
		seq := c.Search("milk")
		first, second := 0, 0
		for range seq {
			first++
		}
		for range seq {
			second++
		}
		if first != second {
			t.Errorf("second pass yielded %d, first %d", second, first)
		}
	})

	t.Run("indices refer to catalog positions", func(t *testing.T) {
		for i, p := range c.Search("bread") {
			if i != 1 || p.Name != "Bread" {
				t.Errorf("Search(bread) = (%d, %s), want (1, Bread)", i, p.Name)
			}
		}
	})
}

func TestNewDropsMalformedStoredProducts(t *testing.T) {
	stored := []models.Product{
		{Name: "Milk", Price: decimal.NewFromInt(50)},
		{Name: "", Price: decimal.NewFromInt(10)},
		{Name: "milk", Price: decimal.NewFromInt(60)}, // duplicate identity
		{Name: "Bread", Price: decimal.Zero},          // non-positive price
	}
	c, dropped := New(stored)
	if dropped != 3 {
		t.Errorf("dropped = %d, want 3", dropped)
	}
	if got := c.Products(); len(got) != 1 || got[0].Name != "Milk" {
		t.Errorf("catalog = %v, want [Milk]", got)
	}
}
