// Package importer turns an uploaded CSV file into ledger entries. Bad rows are
// skipped and reported; good rows are stored as one all-or-nothing batch.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/shopledger/internal/category"
	"github.com/MrJamesThe3rd/shopledger/internal/csvtext"
	"github.com/MrJamesThe3rd/shopledger/internal/encoding"
	"github.com/MrJamesThe3rd/shopledger/internal/ledger"
	"github.com/MrJamesThe3rd/shopledger/internal/logging"
)

// DefaultMaxBytes caps an upload at 10 MiB.
const DefaultMaxBytes int64 = 10 << 20

// BatchCreator stores validated rows. *ledger.Service satisfies it.
type BatchCreator interface {
	CreateBatch(ctx context.Context, params []ledger.CreateParams) ([]*ledger.Entry, error)
}

// Outcome summarises one import call. It is never persisted.
type Outcome struct {
	SuccessCount int
	ErrorCount   int
	Errors       []RowError
}

type Service struct {
	entries          BatchCreator
	decoder          *encoding.Decoder
	fallbackCategory string
	maxBytes         int64
}

type Option func(*Service)

// WithFallbackCategory sets the label used for rows without a category.
func WithFallbackCategory(label string) Option {
	return func(s *Service) {
		s.fallbackCategory = label
	}
}

func WithDecoder(d *encoding.Decoder) Option {
	return func(s *Service) {
		s.decoder = d
	}
}

// WithMaxBytes limits the payload size. Zero or less disables the limit.
func WithMaxBytes(n int64) Option {
	return func(s *Service) {
		s.maxBytes = n
	}
}

func NewService(entries BatchCreator, opts ...Option) *Service {
	s := &Service{
		entries:          entries,
		decoder:          encoding.NewDecoder(),
		fallbackCategory: category.OtherEnglish,
		maxBytes:         DefaultMaxBytes,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Import reads the whole payload, validates every data row and stores the
// valid ones as a single batch stamped with actor.
//
// File-level problems return a nil Outcome. A store failure returns an
// Outcome with SuccessCount 0 alongside an error wrapping
// ledger.ErrStoreWriteFailed.
func (s *Service) Import(ctx context.Context, r io.Reader, actor string) (*Outcome, error) {
	if actor == "" {
		return nil, ErrMissingActor
	}

	data, err := s.read(r)
	if err != nil {
		return nil, err
	}

	decoded, err := s.decoder.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}

	lines := csvtext.SplitLines(decoded.Text)
	if len(lines) < 2 {
		return nil, ErrEmptyFile
	}

	h, err := resolveHeader(csvtext.SplitFields(lines[0]))
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)

	outcome := &Outcome{Errors: []RowError{}}
	params := make([]ledger.CreateParams, 0, len(lines)-1)

	for i, line := range lines[1:] {
		p, err := parseRow(h, csvtext.SplitFields(line), s.fallbackCategory)
		if err != nil {
			// Header is row 1.
			outcome.Errors = append(outcome.Errors, RowError{Row: i + 2, Err: err})
			continue
		}

		p.CreatedBy = actor
		params = append(params, p)
	}

	outcome.ErrorCount = len(outcome.Errors)

	if _, err := s.entries.CreateBatch(ctx, params); err != nil {
		log.Error("import batch failed",
			"error", err, "valid_rows", len(params), "charset", decoded.Charset)

		if !errors.Is(err, ledger.ErrStoreWriteFailed) {
			err = fmt.Errorf("%w: %w", ledger.ErrStoreWriteFailed, err)
		}

		return outcome, err
	}

	outcome.SuccessCount = len(params)

	log.Info("import finished",
		"actor", actor,
		"charset", decoded.Charset,
		"success_count", outcome.SuccessCount,
		"error_count", outcome.ErrorCount,
	)

	return outcome, nil
}

func (s *Service) read(r io.Reader) ([]byte, error) {
	if s.maxBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
		}

		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}

	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, s.maxBytes)
	}

	return data, nil
}
