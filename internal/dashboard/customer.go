package dashboard

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/CameronXie/cake-shop-explorer/cakeshop/cake"
)

// CustomerBoard shows every finished order to customers and keeps them for the day's summary.
type CustomerBoard struct {
	mu        sync.Mutex
	out       io.Writer
	completed []cake.Cake
}

// NewCustomerBoard creates a customer board writing one line per order to out.
func NewCustomerBoard(out io.Writer) *CustomerBoard {
	return &CustomerBoard{
		out:       out,
		completed: make([]cake.Cake, 0),
	}
}

// Notify records the order and prints its description.
func (b *CustomerBoard) Notify(_ context.Context, c cake.Cake) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.completed = append(b.completed, c)
	_, _ = fmt.Fprintln(b.out, c.Describe())
}

// CompletedOrders returns the orders shown so far, oldest first.
func (b *CustomerBoard) CompletedOrders() []cake.Cake {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]cake.Cake(nil), b.completed...)
}

// OrderCount returns the number of orders shown so far.
func (b *CustomerBoard) OrderCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.completed)
}

// Clear forgets every shown order.
func (b *CustomerBoard) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.completed = b.completed[:0]
}
