// Package catalog owns the set of sellable products.
//
// Product identity is the case-insensitive name: the catalog never holds
// two products whose names differ only in case. Insertion order is display
// order.
package catalog

import (
	"iter"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/openpos/tillpoint/internal/errs"
	"github.com/openpos/tillpoint/internal/models"
)

// Outcome is the result of an AddOrUpdate call.
type Outcome int

const (
	// Added means a new product was appended.
	Added Outcome = iota
	// Updated means an existing product's price was overwritten.
	Updated
	// ConfirmOverwrite means a product with the same name already exists
	// and the caller must re-invoke with confirmation before anything is
	// mutated.
	ConfirmOverwrite
)

// Catalog holds the products in insertion order. Not safe for concurrent
// use; the service serializes all access.
type Catalog struct {
	products []models.Product
}

// New builds a catalog from previously stored products. Malformed entries
// are dropped; the count of dropped entries is returned so the caller can
// log the repair.
func New(products []models.Product) (*Catalog, int) {
	c := &Catalog{}
	dropped := 0
	for _, p := range products {
		p.Name = strings.TrimSpace(p.Name)
		if p.Validate() != nil || c.indexOf(p.Name) >= 0 {
			dropped++
			continue
		}
		c.products = append(c.products, p)
	}
	return c, dropped
}

// AddOrUpdate adds a product or, when a case-insensitive name collision
// exists and confirmOverwrite is set, updates the existing product's price
// in place. A collision without confirmation mutates nothing and returns
// ConfirmOverwrite.
func (c *Catalog) AddOrUpdate(name string, price decimal.Decimal, confirmOverwrite bool) (Outcome, error) {
	p := models.Product{Name: strings.TrimSpace(name), Price: price}
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if i := c.indexOf(p.Name); i >= 0 {
		if !confirmOverwrite {
			return ConfirmOverwrite, nil
		}
		c.products[i].Price = price
		return Updated, nil
	}
	c.products = append(c.products, p)
	return Added, nil
}

// Remove deletes the product at index.
func (c *Catalog) Remove(index int) error {
	if index < 0 || index >= len(c.products) {
		return errs.Index("catalog", index, len(c.products))
	}
	c.products = append(c.products[:index], c.products[index+1:]...)
	return nil
}

// Get returns the product at index.
func (c *Catalog) Get(index int) (models.Product, error) {
	if index < 0 || index >= len(c.products) {
		return models.Product{}, errs.Index("catalog", index, len(c.products))
	}
	return c.products[index], nil
}

// Products returns a copy of the catalog in display order.
func (c *Catalog) Products() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Reset empties the catalog.
func (c *Catalog) Reset() {
	c.products = nil
}

// Search yields (index, product) pairs whose name contains term,
// case-insensitively, in catalog order. An empty term yields every product.
// The sequence is restartable: ranging over it again re-runs the match.
func (c *Catalog) Search(term string) iter.Seq2[int, models.Product] {
	needle := strings.ToLower(strings.TrimSpace(term))
	return func(yield func(int, models.Product) bool) {
		for i, p := range c.products {
			if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
				continue
			}
			if !yield(i, p) {
				return
			}
		}
	}
}

func (c *Catalog) indexOf(name string) int {
	for i, p := range c.products {
		if p.SameName(name) {
			return i
		}
	}
	return -1
}
