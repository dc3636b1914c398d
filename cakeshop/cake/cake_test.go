package cake

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCake() Cake {
	return New("CHO-L-001", Chocolate, Large, decimal.RequireFromString("14.00"))
}

func decorate(t *testing.T, c Cake, decorations ...Decoration) Cake {
	t.Helper()

	for _, d := range decorations {
		var err error
		c, err = ApplyDecoration(c, d)
		require.NoError(t, err)
	}

	return c
}

func TestCake_Describe(t *testing.T) {
	testCases := map[string]struct {
		decorations []Decoration
		expected    string
	}{
		"should describe bare cake without a with clause": {
			expected: "Order #CHO-L-001: Chocolate Cake (Large)",
		},
		"should append single decoration with with": {
			decorations: []Decoration{Cream},
			expected:    "Order #CHO-L-001: Chocolate Cake (Large) with Cream",
		},
		"should join two decorations with and": {
			decorations: []Decoration{Cream, ChocolateChips},
			expected:    "Order #CHO-L-001: Chocolate Cake (Large) with Cream and Chocolate Chips",
		},
		"should use oxford comma for three decorations": {
			decorations: []Decoration{Cream, ChocolateChips, Skittles},
			expected:    "Order #CHO-L-001: Chocolate Cake (Large) with Cream, Chocolate Chips, and Skittles",
		},
		"should keep oxford comma form beyond three decorations": {
			decorations: []Decoration{Cream, ChocolateChips, Skittles, Cream},
			expected:    "Order #CHO-L-001: Chocolate Cake (Large) with Cream, Chocolate Chips, Skittles, and Cream",
		},
		"should allow repeated decorations": {
			decorations: []Decoration{Skittles, Skittles},
			expected:    "Order #CHO-L-001: Chocolate Cake (Large) with Skittles and Skittles",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			c := decorate(t, newTestCake(), tc.decorations...)

			assert.Equal(t, tc.expected, c.Describe())
			assert.Equal(t, tc.expected, Describe(c))
			assert.Equal(t, c.Describe(), c.Describe())
		})
	}
}

func TestCake_TotalPrice(t *testing.T) {
	testCases := map[string]struct {
		decorations []Decoration
		expected    string
	}{
		"should return base price for bare cake": {
			expected: "14.00",
		},
		"should add chocolate chips surcharge": {
			decorations: []Decoration{ChocolateChips},
			expected:    "16.50",
		},
		"should add cream surcharge": {
			decorations: []Decoration{Cream},
			expected:    "16.00",
		},
		"should add skittles surcharge": {
			decorations: []Decoration{Skittles},
			expected:    "15.50",
		},
		"should add every surcharge": {
			decorations: []Decoration{Cream, ChocolateChips, Skittles},
			expected:    "20.00",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			c := decorate(t, newTestCake(), tc.decorations...)

			assert.Equal(t, tc.expected, c.TotalPrice().StringFixed(2))
			assert.Equal(t, tc.expected, TotalPrice(c).StringFixed(2))
		})
	}
}

func TestCake_TotalPriceIsOrderIndependent(t *testing.T) {
	orders := [][]Decoration{
		{Cream, ChocolateChips, Skittles},
		{Skittles, Cream, ChocolateChips},
		{ChocolateChips, Skittles, Cream},
	}

	for _, order := range orders {
		c := decorate(t, newTestCake(), order...)
		assert.Equal(t, "20.00", c.TotalPrice().StringFixed(2))
	}
}

func TestApplyDecoration(t *testing.T) {
	t.Run("should reject unknown decoration", func(t *testing.T) {
		_, err := ApplyDecoration(newTestCake(), Decoration("sprinkles"))

		var target *UnknownDecorationError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, Decoration("sprinkles"), target.Decoration)
		assert.EqualError(t, err, `unknown decoration "sprinkles"`)
	})

	t.Run("should leave the wrapped cake untouched", func(t *testing.T) {
		base := newTestCake()
		first := decorate(t, base, Cream)
		second := decorate(t, first, Skittles)
		sibling := decorate(t, first, ChocolateChips)

		assert.False(t, base.IsDecorated())
		assert.Equal(t, []string{"Cream"}, first.DecorationNames())
		assert.Equal(t, []string{"Cream", "Skittles"}, second.DecorationNames())
		assert.Equal(t, []string{"Cream", "Chocolate Chips"}, sibling.DecorationNames())
	})

	t.Run("should keep identity fields of the base cake", func(t *testing.T) {
		c := decorate(t, newTestCake(), Cream, Skittles)

		assert.Equal(t, "CHO-L-001", c.ID())
		assert.Equal(t, Chocolate, c.Kind())
		assert.Equal(t, Large, c.Size())
		assert.Equal(t, "14.00", c.BasePrice().StringFixed(2))
	})

	t.Run("should not expose internal decoration slice", func(t *testing.T) {
		c := decorate(t, newTestCake(), Cream)
		applied := c.Decorations()
		applied[0].Surcharge = decimal.NewFromInt(100)

		assert.Equal(t, "16.00", c.TotalPrice().StringFixed(2))
	})
}

func TestSurchargeTable_Apply(t *testing.T) {
	t.Run("should snapshot surcharge at application time", func(t *testing.T) {
		table := DefaultSurcharges()
		c, err := table.Apply(newTestCake(), Cream)
		require.NoError(t, err)

		table[Cream] = decimal.RequireFromString("9.00")
		later, err := table.Apply(newTestCake(), Cream)
		require.NoError(t, err)

		assert.Equal(t, "16.00", c.TotalPrice().StringFixed(2))
		assert.Equal(t, "23.00", later.TotalPrice().StringFixed(2))
	})

	t.Run("should fall back to default surcharge for missing entries", func(t *testing.T) {
		table := SurchargeTable{Cream: decimal.RequireFromString("3.00")}

		surcharge, err := table.SurchargeOf(Skittles)
		require.NoError(t, err)
		assert.Equal(t, "1.50", surcharge.StringFixed(2))
	})

	t.Run("should reject unknown decoration in a custom table", func(t *testing.T) {
		table := SurchargeTable{Decoration("glitter"): decimal.NewFromInt(1)}

		_, err := table.Apply(newTestCake(), Decoration("glitter"))
		assert.ErrorContains(t, err, "unknown decoration")
	})
}
