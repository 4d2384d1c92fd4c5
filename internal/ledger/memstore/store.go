// Package memstore keeps entries in process memory. It backs the CLI, the
// TUI demo mode and tests; nothing survives a restart.
package memstore

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/shopledger/internal/ledger"
)

var errTxDone = errors.New("batch already committed or rolled back")

type Store struct {
	mu      sync.RWMutex
	entries []ledger.Entry
}

func New() *Store {
	return &Store{}
}

var _ ledger.Repository = (*Store)(nil)

func (s *Store) CreateEntry(ctx context.Context, e *ledger.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = uuid.New()
	s.entries = append(s.entries, *e)

	return nil
}

func (s *Store) GetEntry(_ context.Context, id uuid.UUID) (*ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.entries {
		if s.entries[i].ID == id {
			e := s.entries[i]
			return &e, nil
		}
	}

	return nil, ledger.ErrNotFound
}

func (s *Store) ListEntries(ctx context.Context, filter ledger.ListFilter, order ledger.Order) ([]*ledger.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	matched := make([]*ledger.Entry, 0, len(s.entries))

	for i := range s.entries {
		if filter.Match(&s.entries[i]) {
			e := s.entries[i]
			matched = append(matched, &e)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return order.Less(matched[i], matched[j])
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []*ledger.Entry{}, nil
		}

		matched = matched[filter.Offset:]
	}

	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	return matched, nil
}

func (s *Store) CountEntries(_ context.Context, filter ledger.ListFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0

	for i := range s.entries {
		if filter.Match(&s.entries[i]) {
			n++
		}
	}

	return n, nil
}

func (s *Store) DeleteEntry(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.entries, func(e ledger.Entry) bool { return e.ID == id })
	if i < 0 {
		return ledger.ErrNotFound
	}

	s.entries = slices.Delete(s.entries, i, i+1)

	return nil
}

func (s *Store) DistinctCategories(_ context.Context, kind *ledger.Kind) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	out := []string{}

	for _, e := range s.entries {
		if kind != nil && e.Kind != *kind {
			continue
		}

		if _, ok := seen[e.Category]; ok {
			continue
		}

		seen[e.Category] = struct{}{}
		out = append(out, e.Category)
	}

	slices.Sort(out)

	return out, nil
}

func (s *Store) DistinctMonths(_ context.Context) ([]time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[time.Time]struct{})
	out := []time.Time{}

	for _, e := range s.entries {
		m := time.Date(e.Date.Year(), e.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		if _, ok := seen[m]; ok {
			continue
		}

		seen[m] = struct{}{}
		out = append(out, m)
	}

	slices.SortFunc(out, func(a, b time.Time) int { return b.Compare(a) })

	return out, nil
}

// BeginBatch returns a transaction whose entries stay invisible until Commit.
func (s *Store) BeginBatch(ctx context.Context) (ledger.BatchTx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &batchTx{store: s}, nil
}

type batchTx struct {
	store  *Store
	staged []ledger.Entry
	done   bool
}

func (tx *batchTx) CreateEntries(ctx context.Context, entries []*ledger.Entry) error {
	if tx.done {
		return errTxDone
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		e.ID = uuid.New()
		tx.staged = append(tx.staged, *e)
	}

	return nil
}

func (tx *batchTx) Commit() error {
	if tx.done {
		return errTxDone
	}

	tx.done = true

	tx.store.mu.Lock()
	tx.store.entries = append(tx.store.entries, tx.staged...)
	tx.store.mu.Unlock()

	tx.staged = nil

	return nil
}

// Rollback discards staged entries. It is a no-op after Commit.
func (tx *batchTx) Rollback() error {
	tx.done = true
	tx.staged = nil

	return nil
}
