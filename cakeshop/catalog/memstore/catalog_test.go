package memstore

import (
	"regexp"
	"strconv"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/CameronXie/cake-shop-explorer/cakeshop/cake"
	"github.com/CameronXie/cake-shop-explorer/cakeshop/catalog"
)

var idPattern = regexp.MustCompile(`^[A-Z]{3}-[A-Z]-\d{3}$`)

func TestCatalog_PriceOf(t *testing.T) {
	testCases := map[string]struct {
		kind          cake.Kind
		size          cake.Size
		expected      string
		expectedError string
	}{
		"should return apple small price":      {kind: cake.Apple, size: cake.Small, expected: "8.00"},
		"should return apple medium price":     {kind: cake.Apple, size: cake.Medium, expected: "10.00"},
		"should return apple large price":      {kind: cake.Apple, size: cake.Large, expected: "12.00"},
		"should return cheese small price":     {kind: cake.Cheese, size: cake.Small, expected: "11.00"},
		"should return cheese medium price":    {kind: cake.Cheese, size: cake.Medium, expected: "13.00"},
		"should return cheese large price":     {kind: cake.Cheese, size: cake.Large, expected: "15.00"},
		"should return chocolate small price":  {kind: cake.Chocolate, size: cake.Small, expected: "10.00"},
		"should return chocolate medium price": {kind: cake.Chocolate, size: cake.Medium, expected: "12.00"},
		"should return chocolate large price":  {kind: cake.Chocolate, size: cake.Large, expected: "14.00"},
		"should return error for unknown combination": {
			kind:          cake.Kind("carrot"),
			size:          cake.Small,
			expectedError: "no price for carrot cake of size small",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			c := New()

			price, err := c.PriceOf(tc.kind, tc.size)
			if tc.expectedError != "" {
				var target *catalog.UnknownCombinationError
				assert.ErrorAs(t, err, &target)
				assert.EqualError(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, price.StringFixed(2))

			again, err := c.PriceOf(tc.kind, tc.size)
			require.NoError(t, err)
			assert.True(t, price.Equal(again))
		})
	}
}

func TestCatalog_SetPrice(t *testing.T) {
	t.Run("should update live table without touching minted cakes", func(t *testing.T) {
		c := New()
		minted, err := c.MintCake(cake.Apple, cake.Small)
		require.NoError(t, err)

		require.NoError(t, c.SetPrice(cake.Apple, cake.Small, decimal.RequireFromString("9.25")))

		price, err := c.PriceOf(cake.Apple, cake.Small)
		require.NoError(t, err)
		assert.Equal(t, "9.25", price.StringFixed(2))
		assert.Equal(t, "8.00", minted.BasePrice().StringFixed(2))

		next, err := c.MintCake(cake.Apple, cake.Small)
		require.NoError(t, err)
		assert.Equal(t, "9.25", next.BasePrice().StringFixed(2))
	})

	t.Run("should reject negative price", func(t *testing.T) {
		err := New().SetPrice(cake.Apple, cake.Small, decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, catalog.ErrNegativePrice)
	})

	t.Run("should reject unknown kind", func(t *testing.T) {
		err := New().SetPrice(cake.Kind("carrot"), cake.Small, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, catalog.ErrInvalidEntry)
	})
}

func TestCatalog_ResetToDefaults(t *testing.T) {
	c := New(WithPrices(catalog.PriceTable{
		cake.Apple: {cake.Small: decimal.RequireFromString("1.00")},
	}))

	price, err := c.PriceOf(cake.Apple, cake.Small)
	require.NoError(t, err)
	assert.Equal(t, "1.00", price.StringFixed(2))

	_, err = c.PriceOf(cake.Cheese, cake.Large)
	assert.Error(t, err)

	c.ResetToDefaults()
	assert.Equal(t, catalog.DefaultPrices(), c.Prices())
}

func TestCatalog_MintCake(t *testing.T) {
	t.Run("should format identifiers and count per kind", func(t *testing.T) {
		c := New()

		first, err := c.MintCake(cake.Apple, cake.Large)
		require.NoError(t, err)
		second, err := c.MintCake(cake.Apple, cake.Small)
		require.NoError(t, err)
		other, err := c.MintCake(cake.Cheese, cake.Medium)
		require.NoError(t, err)

		assert.Equal(t, "APP-L-001", first.ID())
		assert.Equal(t, "APP-S-002", second.ID())
		assert.Equal(t, "CHE-M-001", other.ID())
		assert.Equal(t, "Order #APP-L-001: Apple Cake (Large)", first.Describe())
		assert.Equal(t, 2, c.CountForKind(cake.Apple))
		assert.Equal(t, 1, c.CountForKind(cake.Cheese))
		assert.Equal(t, 0, c.CountForKind(cake.Chocolate))
	})

	t.Run("should not consume a counter value when price is missing", func(t *testing.T) {
		c := New(WithPrices(catalog.PriceTable{}))

		_, err := c.MintCake(cake.Apple, cake.Large)
		assert.Error(t, err)
		assert.Equal(t, 0, c.CountForKind(cake.Apple))
	})

	t.Run("should restart numbering after counter reset", func(t *testing.T) {
		c := New()
		_, err := c.MintCake(cake.Chocolate, cake.Large)
		require.NoError(t, err)

		c.ResetCounters()
		minted, err := c.MintCake(cake.Chocolate, cake.Large)
		require.NoError(t, err)
		assert.Equal(t, "CHO-L-001", minted.ID())
	})

	t.Run("should hand out unique strictly increasing identifiers under concurrency", func(t *testing.T) {
		const callers = 200
		c := New()

		var mu sync.Mutex
		seen := make(map[string]struct{}, callers)

		var g errgroup.Group
		for i := 0; i < callers; i++ {
			g.Go(func() error {
				minted, err := c.MintCake(cake.Cheese, cake.Small)
				if err != nil {
					return err
				}

				mu.Lock()
				seen[minted.ID()] = struct{}{}
				mu.Unlock()
				return nil
			})
		}

		require.NoError(t, g.Wait())
		assert.Len(t, seen, callers)
		assert.Equal(t, callers, c.CountForKind(cake.Cheese))

		for id := range seen {
			assert.Regexp(t, idPattern, id)
			n, err := strconv.Atoi(id[len(id)-3:])
			require.NoError(t, err)
			assert.True(t, n >= 1 && n <= callers)
		}
	})

	t.Run("should keep numeric suffix strictly increasing across calls", func(t *testing.T) {
		c := New()
		previous := 0
		for i := 0; i < 5; i++ {
			minted, err := c.MintCake(cake.Apple, cake.Medium)
			require.NoError(t, err)

			n, err := strconv.Atoi(minted.ID()[len(minted.ID())-3:])
			require.NoError(t, err)
			assert.Greater(t, n, previous)
			previous = n
		}
	})
}

func TestCatalog_Prices(t *testing.T) {
	c := New()
	snapshot := c.Prices()
	snapshot[cake.Apple][cake.Small] = decimal.NewFromInt(99)

	price, err := c.PriceOf(cake.Apple, cake.Small)
	require.NoError(t, err)
	assert.Equal(t, "8.00", price.StringFixed(2))
}
