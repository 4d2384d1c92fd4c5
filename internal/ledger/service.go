package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	CreateEntry(ctx context.Context, e *Entry) error
	GetEntry(ctx context.Context, id uuid.UUID) (*Entry, error)
	ListEntries(ctx context.Context, filter ListFilter, order Order) ([]*Entry, error)
	CountEntries(ctx context.Context, filter ListFilter) (int, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) error
	DistinctCategories(ctx context.Context, kind *Kind) ([]string, error)
	// DistinctMonths returns the first day of every month holding an entry, newest first.
	DistinctMonths(ctx context.Context) ([]time.Time, error)

	BeginBatch(ctx context.Context) (BatchTx, error)
}

// BatchTx stages entries so that a whole import becomes visible at once, or not at all.
type BatchTx interface {
	CreateEntries(ctx context.Context, entries []*Entry) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

type Option func(*Service)

// WithClock overrides the clock used to stamp CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	Date        time.Time
	Kind        Kind
	Category    string
	Description string
	Amount      decimal.Decimal
	CreatedBy   string
}

func (p CreateParams) validate() error {
	switch {
	case p.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrInvalidEntry)
	case !p.Kind.Valid():
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEntry, p.Kind)
	case p.Amount.IsNegative():
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidEntry)
	case !AmountFits(p.Amount):
		return fmt.Errorf("%w: amount %s needs at most %d decimals and must be below %s",
			ErrInvalidEntry, p.Amount, AmountScale, MaxAmount)
	case strings.TrimSpace(p.Category) == "":
		return fmt.Errorf("%w: category is required", ErrInvalidEntry)
	case p.CreatedBy == "":
		return fmt.Errorf("%w: created_by is required", ErrInvalidEntry)
	}

	return nil
}

func (s *Service) newEntry(p CreateParams) *Entry {
	return &Entry{
		Date:        DateOnly(p.Date),
		Kind:        p.Kind,
		Category:    strings.TrimSpace(p.Category),
		Description: p.Description,
		Amount:      p.Amount,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   s.now().UTC(),
	}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Entry, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	e := s.newEntry(params)
	if err := s.repo.CreateEntry(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return s.repo.GetEntry(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter, order Order) ([]*Entry, error) {
	return s.repo.ListEntries(ctx, filter, order)
}

func (s *Service) Count(ctx context.Context, filter ListFilter) (int, error) {
	return s.repo.CountEntries(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteEntry(ctx, id)
}

func (s *Service) DistinctCategories(ctx context.Context, kind *Kind) ([]string, error) {
	return s.repo.DistinctCategories(ctx, kind)
}

func (s *Service) DistinctMonths(ctx context.Context) ([]time.Time, error) {
	return s.repo.DistinctMonths(ctx)
}

// CreateBatch writes all params in one store transaction. Any failure after
// validation rolls the whole batch back and is reported as ErrStoreWriteFailed.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Entry, error) {
	if len(params) == 0 {
		return nil, nil
	}

	entries := make([]*Entry, len(params))

	for i, p := range params {
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}

		entries[i] = s.newEntry(p)
	}

	btx, err := s.repo.BeginBatch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: begin batch: %w", ErrStoreWriteFailed, err)
	}
	defer btx.Rollback()

	if err := btx.CreateEntries(ctx, entries); err != nil {
		return nil, fmt.Errorf("%w: create entries: %w", ErrStoreWriteFailed, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreWriteFailed, err)
	}

	if err := btx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit batch: %w", ErrStoreWriteFailed, err)
	}

	return entries, nil
}
