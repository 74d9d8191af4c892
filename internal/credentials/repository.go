package credentials

import (
	"context"
)

// Repository persists records keyed by Identifier.
//
// Create and Replace must be atomic with respect to other calls on the same
// identifier: Create fails with common.ErrDuplicateIdentifier when the
// identifier is taken, Replace and Get fail with common.ErrIdentifierNotFound
// when it is absent. Delete is idempotent.
//
// Implementations must not retain rec or its slices after Create or Replace
// returns: callers wipe rec.DerivedKey afterwards. Get must return a record
// the caller may modify freely.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	Get(ctx context.Context, identifier string) (*Record, error)
	Replace(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, identifier string) error
}
