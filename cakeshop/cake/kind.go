package cake

import (
	"fmt"
	"strings"
)

// Kind identifies the base cake recipe.
type Kind string

const (
	Apple     Kind = "apple"
	Cheese    Kind = "cheese"
	Chocolate Kind = "chocolate"
)

// Kinds lists every supported kind in menu order.
func Kinds() []Kind {
	return []Kind{Apple, Cheese, Chocolate}
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case Apple, Cheese, Chocolate:
		return true
	default:
		return false
	}
}

// DisplayName returns the customer facing name, e.g. "Apple Cake".
func (k Kind) DisplayName() string {
	switch k {
	case Apple:
		return "Apple Cake"
	case Cheese:
		return "Cheese Cake"
	case Chocolate:
		return "Chocolate Cake"
	default:
		return string(k)
	}
}

// Code returns the three letter code used in order identifiers.
func (k Kind) Code() string {
	switch k {
	case Apple:
		return "APP"
	case Cheese:
		return "CHE"
	case Chocolate:
		return "CHO"
	default:
		return strings.ToUpper(string(k))
	}
}

// UnmarshalText parses the text form and validates it as one of the defined Kind values.
func (k *Kind) UnmarshalText(text []byte) error {
	v := Kind(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid cake kind: %q, must be one of: %s", text, joinValues(Kinds()))
	}

	*k = v
	return nil
}

// Size is the ordered cake size.
type Size string

const (
	Small  Size = "small"
	Medium Size = "medium"
	Large  Size = "large"
)

// Sizes lists every supported size from smallest to largest.
func Sizes() []Size {
	return []Size{Small, Medium, Large}
}

// Valid reports whether s is one of the supported sizes.
func (s Size) Valid() bool {
	switch s {
	case Small, Medium, Large:
		return true
	default:
		return false
	}
}

// DisplayName returns the customer facing size name, e.g. "Large".
func (s Size) DisplayName() string {
	switch s {
	case Small:
		return "Small"
	case Medium:
		return "Medium"
	case Large:
		return "Large"
	default:
		return string(s)
	}
}

// Code returns the single letter code used in order identifiers.
func (s Size) Code() string {
	switch s {
	case Small:
		return "S"
	case Medium:
		return "M"
	case Large:
		return "L"
	default:
		return strings.ToUpper(string(s))
	}
}

// UnmarshalText parses the text form and validates it as one of the defined Size values.
func (s *Size) UnmarshalText(text []byte) error {
	v := Size(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid cake size: %q, must be one of: %s", text, joinValues(Sizes()))
	}

	*s = v
	return nil
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, string(v))
	}

	return strings.Join(parts, ", ")
}
