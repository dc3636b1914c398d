package catalog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/CameronXie/cake-shop-explorer/cakeshop/cake"
)

var (
	// ErrNegativePrice is returned when a price below zero is written to the table.
	ErrNegativePrice = errors.New("price cannot be negative")
	// ErrInvalidEntry is returned when a price row names an unsupported kind or size.
	ErrInvalidEntry = errors.New("invalid price table entry")
)

// UnknownCombinationError is returned when the price table has no row for a kind and size.
type UnknownCombinationError struct {
	Kind cake.Kind
	Size cake.Size
}

// Error implements the error interface.
func (e *UnknownCombinationError) Error() string {
	return fmt.Sprintf("no price for %s cake of size %s", e.Kind, e.Size)
}

// PriceTable maps kind and size to a base price.
type PriceTable map[cake.Kind]map[cake.Size]decimal.Decimal

// DefaultPrices returns a fresh copy of the compiled-in price table.
func DefaultPrices() PriceTable {
	return PriceTable{
		cake.Apple: {
			cake.Small:  decimal.RequireFromString("8.00"),
			cake.Medium: decimal.RequireFromString("10.00"),
			cake.Large:  decimal.RequireFromString("12.00"),
		},
		cake.Cheese: {
			cake.Small:  decimal.RequireFromString("11.00"),
			cake.Medium: decimal.RequireFromString("13.00"),
			cake.Large:  decimal.RequireFromString("15.00"),
		},
		cake.Chocolate: {
			cake.Small:  decimal.RequireFromString("10.00"),
			cake.Medium: decimal.RequireFromString("12.00"),
			cake.Large:  decimal.RequireFromString("14.00"),
		},
	}
}

// Lookup returns the price of a kind and size.
func (t PriceTable) Lookup(kind cake.Kind, size cake.Size) (decimal.Decimal, bool) {
	sizes, ok := t[kind]
	if !ok {
		return decimal.Zero, false
	}

	price, ok := sizes[size]
	return price, ok
}

// Set writes a price row after validating it.
func (t PriceTable) Set(kind cake.Kind, size cake.Size, price decimal.Decimal) error {
	if !kind.Valid() || !size.Valid() {
		return fmt.Errorf("%w: %s/%s", ErrInvalidEntry, kind, size)
	}

	if price.IsNegative() {
		return fmt.Errorf("%w: %s/%s set to %s", ErrNegativePrice, kind, size, price)
	}

	if t[kind] == nil {
		t[kind] = make(map[cake.Size]decimal.Decimal)
	}

	t[kind][size] = price
	return nil
}

// Clone returns a deep copy of the table.
func (t PriceTable) Clone() PriceTable {
	out := make(PriceTable, len(t))
	for kind, sizes := range t {
		out[kind] = make(map[cake.Size]decimal.Decimal, len(sizes))
		for size, price := range sizes {
			out[kind][size] = price
		}
	}

	return out
}

// Catalog is the authoritative source of base prices and order identifiers.
type Catalog interface {
	// PriceOf returns the current base price, or an *UnknownCombinationError if the row is missing.
	PriceOf(kind cake.Kind, size cake.Size) (decimal.Decimal, error)

	// SetPrice updates one row. Cakes minted earlier keep the price they were minted with.
	SetPrice(kind cake.Kind, size cake.Size, price decimal.Decimal) error

	// ResetToDefaults restores the compiled-in price table.
	ResetToDefaults()

	// MintCake issues the next identifier for the kind and returns a bare cake priced from the table.
	MintCake(kind cake.Kind, size cake.Size) (cake.Cake, error)

	// CountForKind returns how many identifiers have been issued for the kind.
	CountForKind(kind cake.Kind) int

	// ResetCounters sets every per-kind counter back to zero. Identifiers minted afterwards
	// repeat ones issued before the reset.
	ResetCounters()

	// Prices returns a copy of the current price table.
	Prices() PriceTable
}

// FormatID renders an order identifier such as APP-L-001.
func FormatID(kind cake.Kind, size cake.Size, counter int) string {
	return fmt.Sprintf("%s-%s-%03d", kind.Code(), size.Code(), counter)
}
