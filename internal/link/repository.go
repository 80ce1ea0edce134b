package link

import "context"

// Repository persists link records. Lookups are exact-match only.
type Repository interface {
	// Exists reports whether any record has the given hashed link code
	// or the given puzzle code.
	Exists(ctx context.Context, hashed HashedCode, puzzle Code) (bool, error)
	Insert(ctx context.Context, record *Record) error
	// FindByHashedLinkCode returns ErrNotFound when no record matches.
	FindByHashedLinkCode(ctx context.Context, hashed HashedCode) (*Record, error)
	// FindByPuzzleCode returns ErrNotFound when no record matches.
	FindByPuzzleCode(ctx context.Context, puzzle Code) (*Record, error)
}
