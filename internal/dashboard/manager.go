package dashboard

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/CameronXie/cake-shop-explorer/cakeshop/cake"
)

// KindCounter reports how many orders of a kind were issued.
type KindCounter interface {
	CountForKind(kind cake.Kind) int
}

// ManagerBoard shows the running sales count for the kind of each finished order.
type ManagerBoard struct {
	mu      sync.Mutex
	out     io.Writer
	counter KindCounter
}

// NewManagerBoard creates a manager board reading running totals from counter.
func NewManagerBoard(out io.Writer, counter KindCounter) *ManagerBoard {
	return &ManagerBoard{
		out:     out,
		counter: counter,
	}
}

// Notify prints "<kind> – <count>" for the order's kind.
func (b *ManagerBoard) Notify(_ context.Context, c cake.Cake) {
	if !c.Kind().Valid() {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	_, _ = fmt.Fprintf(b.out, "%s – %d\n", c.Kind().DisplayName(), b.counter.CountForKind(c.Kind()))
}
