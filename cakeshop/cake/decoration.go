package cake

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Decoration identifies a topping that can be layered onto a cake.
type Decoration string

const (
	ChocolateChips Decoration = "chocolate_chips"
	Cream          Decoration = "cream"
	Skittles       Decoration = "skittles"
)

var (
	chocolateChipsSurcharge = decimal.RequireFromString("2.50")
	creamSurcharge          = decimal.RequireFromString("2.00")
	skittlesSurcharge       = decimal.RequireFromString("1.50")
)

// Decorations lists every supported decoration.
func Decorations() []Decoration {
	return []Decoration{ChocolateChips, Cream, Skittles}
}

// Valid reports whether d is one of the supported decorations.
func (d Decoration) Valid() bool {
	switch d {
	case ChocolateChips, Cream, Skittles:
		return true
	default:
		return false
	}
}

// DisplayName returns the name used in order descriptions.
func (d Decoration) DisplayName() string {
	switch d {
	case ChocolateChips:
		return "Chocolate Chips"
	case Cream:
		return "Cream"
	case Skittles:
		return "Skittles"
	default:
		return string(d)
	}
}

// UnmarshalText parses the text form and validates it as one of the defined Decoration values.
func (d *Decoration) UnmarshalText(text []byte) error {
	v := Decoration(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid decoration: %q, must be one of: %s", text, joinValues(Decorations()))
	}

	*d = v
	return nil
}

// UnknownDecorationError is returned when a decoration outside the supported set is applied.
type UnknownDecorationError struct {
	Decoration Decoration
}

// Error implements the error interface.
func (e *UnknownDecorationError) Error() string {
	return fmt.Sprintf("unknown decoration %q", string(e.Decoration))
}

// AppliedDecoration is a decoration as captured on a cake at the moment it was applied.
type AppliedDecoration struct {
	Decoration Decoration
	Name       string
	Surcharge  decimal.Decimal
}

// SurchargeTable maps decorations to their surcharge.
// Entries missing from the table fall back to the default surcharge.
type SurchargeTable map[Decoration]decimal.Decimal

// DefaultSurcharges returns a fresh copy of the default surcharge table.
func DefaultSurcharges() SurchargeTable {
	return SurchargeTable{
		ChocolateChips: chocolateChipsSurcharge,
		Cream:          creamSurcharge,
		Skittles:       skittlesSurcharge,
	}
}

// SurchargeOf returns the surcharge for d.
func (t SurchargeTable) SurchargeOf(d Decoration) (decimal.Decimal, error) {
	if !d.Valid() {
		return decimal.Zero, &UnknownDecorationError{Decoration: d}
	}

	if v, ok := t[d]; ok {
		return v, nil
	}

	return DefaultSurcharges()[d], nil
}

// Apply returns a new cake wrapping c with decoration d on top.
// The surcharge is copied into the new cake, so later table changes never reach it.
func (t SurchargeTable) Apply(c Cake, d Decoration) (Cake, error) {
	surcharge, err := t.SurchargeOf(d)
	if err != nil {
		return Cake{}, err
	}

	decorations := make([]AppliedDecoration, len(c.decorations), len(c.decorations)+1)
	copy(decorations, c.decorations)
	decorations = append(decorations, AppliedDecoration{
		Decoration: d,
		Name:       d.DisplayName(),
		Surcharge:  surcharge,
	})

	next := c
	next.decorations = decorations
	return next, nil
}

// ApplyDecoration applies d to c using the default surcharges.
func ApplyDecoration(c Cake, d Decoration) (Cake, error) {
	return DefaultSurcharges().Apply(c, d)
}
