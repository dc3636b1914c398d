package memstore

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/CameronXie/cake-shop-explorer/cakeshop/cake"
	"github.com/CameronXie/cake-shop-explorer/cakeshop/catalog"
)

// memCatalog implements the Catalog interface in process memory.
// mu guards both the price table and the per-kind counters.
type memCatalog struct {
	mu       sync.Mutex
	prices   catalog.PriceTable
	counters map[cake.Kind]int
}

// Option defines configuration options for the in-memory catalog.
type Option func(*memCatalog)

// WithPrices starts the catalog from the given table instead of the compiled-in defaults.
func WithPrices(prices catalog.PriceTable) Option {
	return func(c *memCatalog) {
		c.prices = prices.Clone()
	}
}

// New creates an in-memory Catalog.
func New(options ...Option) catalog.Catalog {
	c := &memCatalog{
		prices:   catalog.DefaultPrices(),
		counters: make(map[cake.Kind]int),
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// PriceOf returns the current base price for kind and size.
func (c *memCatalog) PriceOf(kind cake.Kind, size cake.Size) (decimal.Decimal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.priceOf(kind, size)
}

func (c *memCatalog) priceOf(kind cake.Kind, size cake.Size) (decimal.Decimal, error) {
	price, ok := c.prices.Lookup(kind, size)
	if !ok {
		return decimal.Zero, &catalog.UnknownCombinationError{Kind: kind, Size: size}
	}

	return price, nil
}

// SetPrice updates one row of the live table.
func (c *memCatalog) SetPrice(kind cake.Kind, size cake.Size, price decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.prices.Set(kind, size, price)
}

// ResetToDefaults restores the compiled-in price table.
func (c *memCatalog) ResetToDefaults() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prices = catalog.DefaultPrices()
}

// MintCake consumes the next counter value for kind and returns a bare cake.
// The price is resolved first so a missing row does not burn a counter value.
func (c *memCatalog) MintCake(kind cake.Kind, size cake.Size) (cake.Cake, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	price, err := c.priceOf(kind, size)
	if err != nil {
		return cake.Cake{}, err
	}

	c.counters[kind]++
	return cake.New(catalog.FormatID(kind, size, c.counters[kind]), kind, size, price), nil
}

// CountForKind returns the number of identifiers issued for kind.
func (c *memCatalog) CountForKind(kind cake.Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.counters[kind]
}

// ResetCounters clears every per-kind counter.
func (c *memCatalog) ResetCounters() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counters = make(map[cake.Kind]int)
}

// Prices returns a snapshot of the live table.
func (c *memCatalog) Prices() catalog.PriceTable {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.prices.Clone()
}
