package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/CameronXie/cake-shop-explorer/cakeshop/cake"
	"github.com/CameronXie/cake-shop-explorer/internal/ledger"
)

const schema = `CREATE TABLE IF NOT EXISTS ledger_entries (
	id          UUID PRIMARY KEY,
	cake_id     TEXT NOT NULL,
	kind        TEXT NOT NULL,
	size        TEXT NOT NULL,
	decorations TEXT[] NOT NULL DEFAULT '{}',
	base_price  NUMERIC(10, 2) NOT NULL,
	total       NUMERIC(10, 2) NOT NULL,
	description TEXT NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL
)`

// Cake IDs repeat after the order counters are reset, so they are indexed but not unique.
const cakeIDIndex = "CREATE INDEX IF NOT EXISTS ledger_entries_cake_id ON ledger_entries (cake_id, recorded_at)"

const selectColumns = "id, cake_id, kind, size, decorations, base_price::text, total::text, description, recorded_at"

// Repository stores ledger entries in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository instance.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{
		pool: pool,
	}
}

// EnsureSchema creates the ledger table if it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range []string{schema, cakeIDIndex} {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create ledger schema: %w", err)
		}
	}

	return nil
}

// Record inserts a ledger entry.
func (r *Repository) Record(ctx context.Context, entry *ledger.Entry) error {
	query := `INSERT INTO ledger_entries
		(id, cake_id, kind, size, decorations, base_price, total, description, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8, $9)`

	decorations := entry.Decorations
	if decorations == nil {
		decorations = []string{}
	}

	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.CakeID,
		string(entry.Kind),
		string(entry.Size),
		decorations,
		entry.BasePrice.StringFixed(2),
		entry.Total.StringFixed(2),
		entry.Description,
		entry.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record ledger entry for %s: %w", entry.CakeID, err)
	}

	return nil
}

// GetByCakeID retrieves the most recent entry recorded under cakeID.
func (r *Repository) GetByCakeID(ctx context.Context, cakeID string) (*ledger.Entry, error) {
	query := "SELECT " + selectColumns + " FROM ledger_entries WHERE cake_id = $1 ORDER BY recorded_at DESC, id DESC LIMIT 1"

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, cakeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ledger.NotFoundError{
				Resource: ledger.EntryResource,
				Key:      "cake_id",
				Value:    cakeID,
			}
		}
		return nil, fmt.Errorf("failed to retrieve ledger entry for %s: %w", cakeID, err)
	}

	return entry, nil
}

// List returns all entries ordered by recording time.
func (r *Repository) List(ctx context.Context) ([]ledger.Entry, error) {
	query := "SELECT " + selectColumns + " FROM ledger_entries ORDER BY recorded_at, id"

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	entries := make([]ledger.Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	return entries, nil
}

func scanEntry(row pgx.Row) (*ledger.Entry, error) {
	var (
		entry            ledger.Entry
		kind, size       string
		basePrice, total string
	)

	if err := row.Scan(
		&entry.ID,
		&entry.CakeID,
		&kind,
		&size,
		&entry.Decorations,
		&basePrice,
		&total,
		&entry.Description,
		&entry.RecordedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if entry.BasePrice, err = decimal.NewFromString(basePrice); err != nil {
		return nil, fmt.Errorf("decode base price %q: %w", basePrice, err)
	}
	if entry.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("decode total %q: %w", total, err)
	}

	entry.Kind = cake.Kind(kind)
	entry.Size = cake.Size(size)
	entry.RecordedAt = entry.RecordedAt.UTC()

	return &entry, nil
}
