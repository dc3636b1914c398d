// Package cake holds the order record and the decoration pipeline.
//
// A Cake is a value: decorating it returns a new Cake and leaves the
// original untouched. Price and description are derived from the base data
// and the ordered list of applied decorations on every call.
package cake

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Cake is one order: a base cake plus zero or more decorations.
type Cake struct {
	id          string
	kind        Kind
	size        Size
	basePrice   decimal.Decimal
	decorations []AppliedDecoration
}

// New creates a bare cake. Identifiers and prices are normally minted by the catalog.
func New(id string, kind Kind, size Size, basePrice decimal.Decimal) Cake {
	return Cake{
		id:        id,
		kind:      kind,
		size:      size,
		basePrice: basePrice,
	}
}

func (c Cake) ID() string                 { return c.id }
func (c Cake) Kind() Kind                 { return c.kind }
func (c Cake) Size() Size                 { return c.size }
func (c Cake) BasePrice() decimal.Decimal { return c.basePrice }

// IsDecorated reports whether at least one decoration was applied.
func (c Cake) IsDecorated() bool {
	return len(c.decorations) > 0
}

// Decorations returns the applied decorations in application order.
func (c Cake) Decorations() []AppliedDecoration {
	out := make([]AppliedDecoration, len(c.decorations))
	copy(out, c.decorations)
	return out
}

// DecorationNames returns the display names of the applied decorations in application order.
func (c Cake) DecorationNames() []string {
	names := make([]string, 0, len(c.decorations))
	for _, d := range c.decorations {
		names = append(names, d.Name)
	}

	return names
}

// TotalPrice is the base price plus every captured surcharge.
func (c Cake) TotalPrice() decimal.Decimal {
	total := c.basePrice
	for _, d := range c.decorations {
		total = total.Add(d.Surcharge)
	}

	return total
}

// Describe renders the order line, e.g.
// "Order #CHO-L-001: Chocolate Cake (Large) with Cream, Chocolate Chips, and Skittles".
func (c Cake) Describe() string {
	base := fmt.Sprintf("Order #%s: %s (%s)", c.id, c.kind.DisplayName(), c.size.DisplayName())
	if len(c.decorations) == 0 {
		return base
	}

	return base + " with " + joinEnglish(c.DecorationNames())
}

// TotalPrice returns c.TotalPrice().
func TotalPrice(c Cake) decimal.Decimal {
	return c.TotalPrice()
}

// Describe returns c.Describe().
func Describe(c Cake) string {
	return c.Describe()
}

// joinEnglish joins names as "A", "A and B" or "A, B, and C".
func joinEnglish(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}
