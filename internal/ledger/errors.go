package ledger

import "errors"

var (
	ErrNotFound         = errors.New("entry not found")
	ErrInvalidEntry     = errors.New("invalid entry")
	ErrStoreWriteFailed = errors.New("store write failed")
)
