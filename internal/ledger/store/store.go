package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/shopledger/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

var _ ledger.Repository = (*Store)(nil)

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanEntry expects the column order of selectEntryColumns.
func scanEntry(s scanner) (*ledger.Entry, error) {
	var e ledger.Entry

	var kind string

	if err := s.Scan(
		&e.ID, &e.Date, &kind, &e.Category, &e.Description, &e.Amount, &e.CreatedBy, &e.CreatedAt,
	); err != nil {
		return nil, err
	}

	e.Kind = ledger.Kind(kind)
	e.Date = ledger.DateOnly(e.Date)
	e.CreatedAt = e.CreatedAt.UTC()

	return &e, nil
}

const selectEntryColumns = `id, date, type, category, description, amount, created_by, created_at`

const insertEntry = `
	INSERT INTO entries (date, type, category, description, amount, created_by, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id
`

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insert(ctx context.Context, db execer, e *ledger.Entry) error {
	err := db.QueryRowContext(ctx, insertEntry,
		e.Date,
		e.Kind,
		e.Category,
		e.Description,
		e.Amount,
		e.CreatedBy,
		e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("creating entry: %w", err)
	}

	return nil
}

func (s *Store) CreateEntry(ctx context.Context, e *ledger.Entry) error {
	return insert(ctx, s.db, e)
}

func (s *Store) GetEntry(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	query := `SELECT ` + selectEntryColumns + ` FROM entries WHERE id = $1`

	e, err := scanEntry(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting entry: %w", err)
	}

	return e, nil
}

// where renders the filter as a WHERE clause with positional arguments.
func where(filter ledger.ListFilter) (string, []any) {
	clause := " WHERE TRUE"

	var args []any

	add := func(cond string, v any) {
		args = append(args, v)
		clause += fmt.Sprintf(" AND "+cond, len(args))
	}

	if filter.Kind != nil {
		add("type = $%d", *filter.Kind)
	}

	if filter.Category != nil {
		add("category = $%d", *filter.Category)
	}

	if filter.CreatedBy != nil {
		add("created_by = $%d", *filter.CreatedBy)
	}

	if filter.StartDate != nil {
		add("date >= $%d", ledger.DateOnly(*filter.StartDate))
	}

	if filter.EndDate != nil {
		add("date <= $%d", ledger.DateOnly(*filter.EndDate))
	}

	return clause, args
}

var orderColumns = map[ledger.OrderField]string{
	ledger.OrderDate:      "date",
	ledger.OrderAmount:    "amount",
	ledger.OrderCreatedAt: "created_at",
}

func orderBy(o ledger.Order) string {
	col, ok := orderColumns[o.Field]
	if !ok {
		col = "date"
	}

	dir := "ASC"
	if o.Desc {
		dir = "DESC"
	}

	return fmt.Sprintf(" ORDER BY %s %s, created_at %s, id %s", col, dir, dir, dir)
}

func (s *Store) ListEntries(ctx context.Context, filter ledger.ListFilter, order ledger.Order) ([]*ledger.Entry, error) {
	clause, args := where(filter)
	query := `SELECT ` + selectEntryColumns + ` FROM entries` + clause + orderBy(order)

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	entries := []*ledger.Entry{}

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}

	return entries, nil
}

func (s *Store) CountEntries(ctx context.Context, filter ledger.ListFilter) (int, error) {
	clause, args := where(filter)

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`+clause, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}

	return n, nil
}

func (s *Store) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}

	if n == 0 {
		return ledger.ErrNotFound
	}

	return nil
}

func (s *Store) DistinctCategories(ctx context.Context, kind *ledger.Kind) ([]string, error) {
	query := `SELECT DISTINCT category FROM entries`

	var args []any

	if kind != nil {
		query += ` WHERE type = $1`

		args = append(args, *kind)
	}

	query += ` ORDER BY category`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}

	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	return categories, nil
}

func (s *Store) DistinctMonths(ctx context.Context) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT date_trunc('month', date)::date AS month FROM entries ORDER BY month DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing months: %w", err)
	}
	defer rows.Close()

	months := []time.Time{}

	for rows.Next() {
		var m time.Time
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("scanning month: %w", err)
		}

		months = append(months, time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, time.UTC))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating months: %w", err)
	}

	return months, nil
}

// batchLockKey serializes concurrent imports so their rows never interleave.
var batchLockKey = func() int64 {
	h := fnv.New64a()
	h.Write([]byte("entries.batch"))

	return int64(h.Sum64())
}()

type batchTx struct {
	tx *sql.Tx
}

func (s *Store) BeginBatch(ctx context.Context) (ledger.BatchTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning batch tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", batchLockKey); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring batch lock: %w", err)
	}

	return &batchTx{tx: dbTx}, nil
}

func (b *batchTx) Commit() error { return b.tx.Commit() }

// Rollback after a successful Commit reports sql.ErrTxDone, which callers ignore.
func (b *batchTx) Rollback() error { return b.tx.Rollback() }

func (b *batchTx) CreateEntries(ctx context.Context, entries []*ledger.Entry) error {
	for _, e := range entries {
		if err := insert(ctx, b.tx, e); err != nil {
			return err
		}
	}

	return nil
}
