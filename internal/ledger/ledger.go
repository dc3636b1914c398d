package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/CameronXie/cake-shop-explorer/cakeshop/cake"
)

const (
	EntryResource = "ledger entry"
)

// Entry is the stored form of one finished order.
type Entry struct {
	ID          uuid.UUID
	CakeID      string
	Kind        cake.Kind
	Size        cake.Size
	Decorations []string
	BasePrice   decimal.Decimal
	Total       decimal.Decimal
	Description string
	RecordedAt  time.Time
}

// NewEntry captures a finished cake as a ledger entry.
func NewEntry(c cake.Cake) *Entry {
	return &Entry{
		ID:          uuid.New(),
		CakeID:      c.ID(),
		Kind:        c.Kind(),
		Size:        c.Size(),
		Decorations: c.DecorationNames(),
		BasePrice:   c.BasePrice(),
		Total:       c.TotalPrice(),
		Description: c.Describe(),
		RecordedAt:  time.Now().UTC(),
	}
}

// Repository persists ledger entries.
type Repository interface {
	Record(ctx context.Context, entry *Entry) error
	GetByCakeID(ctx context.Context, cakeID string) (*Entry, error)
	List(ctx context.Context) ([]Entry, error)
}

// NotFoundError represents an error when an entry is not found.
type NotFoundError struct {
	Resource string
	Key      string
	Value    string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with %s %s not found", e.Resource, e.Key, e.Value)
}

// Sink records every finished order in a Repository.
// Notify cannot return an error, so failures are logged and dropped.
type Sink struct {
	repo   Repository
	logger *slog.Logger
}

// NewSink creates a ledger sink over repo.
func NewSink(repo Repository, logger *slog.Logger) *Sink {
	return &Sink{repo: repo, logger: logger}
}

// Notify stores the finished order.
func (s *Sink) Notify(ctx context.Context, c cake.Cake) {
	entry := NewEntry(c)
	if err := s.repo.Record(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "ledger_record_failed",
			slog.String("cake_id", c.ID()),
			slog.String("error", err.Error()),
		)
		return
	}

	s.logger.DebugContext(ctx, "ledger_recorded",
		slog.String("cake_id", c.ID()),
		slog.String("entry_id", entry.ID.String()),
	)
}
