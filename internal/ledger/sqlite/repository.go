package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/CameronXie/cake-shop-explorer/cakeshop/cake"
	"github.com/CameronXie/cake-shop-explorer/internal/ledger"
)

const schema = `CREATE TABLE IF NOT EXISTS ledger_entries (
	id          TEXT PRIMARY KEY,
	cake_id     TEXT NOT NULL,
	kind        TEXT NOT NULL,
	size        TEXT NOT NULL,
	decorations TEXT NOT NULL DEFAULT '[]',
	base_price  TEXT NOT NULL,
	total       TEXT NOT NULL,
	description TEXT NOT NULL,
	recorded_at TEXT NOT NULL
)`

// Cake IDs repeat after the order counters are reset, so they are indexed but not unique.
const cakeIDIndex = "CREATE INDEX IF NOT EXISTS ledger_entries_cake_id ON ledger_entries (cake_id, recorded_at)"

// fixed width so recorded_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const selectColumns = "id, cake_id, kind, size, decorations, base_price, total, description, recorded_at"

// Repository stores ledger entries in a SQLite file.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the ledger schema.
func Open(ctx context.Context, path string) (*Repository, error) {
	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create ledger schema: %w", err)
	}

	if _, err := db.ExecContext(ctx, cakeIDIndex); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create ledger schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Record inserts a ledger entry.
func (r *Repository) Record(ctx context.Context, entry *ledger.Entry) error {
	decorations := entry.Decorations
	if decorations == nil {
		decorations = []string{}
	}

	encoded, err := json.Marshal(decorations)
	if err != nil {
		return fmt.Errorf("encode decorations for %s: %w", entry.CakeID, err)
	}

	query := `INSERT INTO ledger_entries
		(id, cake_id, kind, size, decorations, base_price, total, description, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		entry.ID.String(),
		entry.CakeID,
		string(entry.Kind),
		string(entry.Size),
		string(encoded),
		entry.BasePrice.StringFixed(2),
		entry.Total.StringFixed(2),
		entry.Description,
		entry.RecordedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to record ledger entry for %s: %w", entry.CakeID, err)
	}

	return nil
}

// GetByCakeID retrieves the most recent entry recorded under cakeID.
func (r *Repository) GetByCakeID(ctx context.Context, cakeID string) (*ledger.Entry, error) {
	query := "SELECT " + selectColumns + " FROM ledger_entries WHERE cake_id = ? ORDER BY recorded_at DESC, id DESC LIMIT 1"

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, cakeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

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

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*ledger.Entry, error) {
	var (
		entry                        ledger.Entry
		id, kind, size, decorations  string
		basePrice, total, recordedAt string
	)

	if err := row.Scan(&id, &entry.CakeID, &kind, &size, &decorations, &basePrice, &total, &entry.Description, &recordedAt); err != nil {
		return nil, err
	}

	var err error
	if entry.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("decode id %q: %w", id, err)
	}
	if err = json.Unmarshal([]byte(decorations), &entry.Decorations); err != nil {
		return nil, fmt.Errorf("decode decorations for %s: %w", entry.CakeID, err)
	}
	if entry.BasePrice, err = decimal.NewFromString(basePrice); err != nil {
		return nil, fmt.Errorf("decode base price %q: %w", basePrice, err)
	}
	if entry.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("decode total %q: %w", total, err)
	}
	if entry.RecordedAt, err = time.Parse(timeLayout, recordedAt); err != nil {
		return nil, fmt.Errorf("decode recorded_at %q: %w", recordedAt, err)
	}

	entry.Kind = cake.Kind(kind)
	entry.Size = cake.Size(size)

	return &entry, nil
}
