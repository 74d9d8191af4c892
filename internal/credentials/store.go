package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/cryptox"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/google/uuid"
)

// Store registers and verifies credentials.
//
// Keys are derived before any repository call, so expensive derivations for
// different identifiers run in parallel. Same-identifier races are settled by
// the repository's atomic Create and Replace.
type Store struct {
	repo   Repository
	params cryptox.Params
	logger logging.Logger
}

// NewStore returns a Store creating new records with params. It fails with
// common.ErrConfiguration when params are invalid.
func NewStore(repo Repository, params cryptox.Params, logger logging.Logger) (*Store, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Store{repo: repo, params: params, logger: logger.With("component", "credentials")}, nil
}

// nowFn is a test seam for record timestamps.
var nowFn = time.Now

func (s *Store) newRecord(identifier string, password []byte) (*Record, error) {
	salt, err := cryptox.NewSalt(s.params.SaltLength)
	if err != nil {
		return nil, fmt.Errorf("error generating salt: %w", err)
	}

	key, err := cryptox.DeriveKey(s.params, password, salt)
	if err != nil {
		return nil, fmt.Errorf("error deriving key: %w", err)
	}

	return &Record{
		ID:         uuid.NewString(),
		Identifier: identifier,
		Algorithm:  s.params.Algorithm,
		Salt:       salt,
		DerivedKey: key,
		Iterations: s.params.Iterations,
		CreatedAt:  nowFn().UTC(),
	}, nil
}

func validate(identifier string, password []byte) error {
	if identifier == "" {
		return common.ErrInvalidIdentifier
	}
	if len(password) == 0 {
		return common.ErrInvalidPassword
	}
	return nil
}

// Register stores a new credential for identifier.
func (s *Store) Register(ctx context.Context, identifier string, password []byte) error {
	if err := validate(identifier, password); err != nil {
		return err
	}

	// fail fast before paying for a derivation; Create still decides races
	if _, err := s.repo.Get(ctx, identifier); err == nil {
		return common.ErrDuplicateIdentifier
	} else if !errors.Is(err, common.ErrIdentifierNotFound) {
		return fmt.Errorf("error looking up identifier: %w", err)
	}

	rec, err := s.newRecord(identifier, password)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(rec.DerivedKey)

	if err := s.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, common.ErrDuplicateIdentifier) {
			return err
		}
		return fmt.Errorf("error creating credential: %w", err)
	}

	s.logger.Debug(ctx, "credential registered", "identifier", identifier, "algorithm", rec.Algorithm)
	return nil
}

// Verify reports whether password matches the credential stored for
// identifier. An unknown identifier yields common.ErrIdentifierNotFound;
// callers authenticating users should not reveal that distinction.
func (s *Store) Verify(ctx context.Context, identifier string, password []byte) (bool, error) {
	rec, err := s.repo.Get(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrIdentifierNotFound) {
			return false, err
		}
		return false, fmt.Errorf("error looking up identifier: %w", err)
	}

	candidate, err := cryptox.DeriveKey(rec.params(), password, rec.Salt)
	if err != nil {
		return false, fmt.Errorf("error deriving key: %w", err)
	}
	defer common.WipeByteArray(candidate)

	ok := cryptox.Equal(rec.DerivedKey, candidate)
	s.logger.Debug(ctx, "credential verified", "identifier", identifier, "match", ok)
	if ok && s.outdated(rec) {
		s.logger.Warn(ctx, "credential uses outdated derivation parameters",
			"identifier", identifier, "algorithm", rec.Algorithm, "iterations", rec.Iterations)
	}
	return ok, nil
}

// outdated reports whether rec was derived with weaker settings than the
// store currently uses. Such records still verify; an Update re-derives them.
func (s *Store) outdated(rec *Record) bool {
	return rec.Algorithm != s.params.Algorithm || rec.Iterations < s.params.Iterations
}

// Update replaces the credential of an existing identifier with a fresh salt
// and derivation of newPassword.
func (s *Store) Update(ctx context.Context, identifier string, newPassword []byte) error {
	if err := validate(identifier, newPassword); err != nil {
		return err
	}

	if _, err := s.repo.Get(ctx, identifier); err != nil {
		if errors.Is(err, common.ErrIdentifierNotFound) {
			return err
		}
		return fmt.Errorf("error looking up identifier: %w", err)
	}

	rec, err := s.newRecord(identifier, newPassword)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(rec.DerivedKey)

	if err := s.repo.Replace(ctx, rec); err != nil {
		if errors.Is(err, common.ErrIdentifierNotFound) {
			return err
		}
		return fmt.Errorf("error replacing credential: %w", err)
	}

	s.logger.Debug(ctx, "credential updated", "identifier", identifier)
	return nil
}

// Remove deletes the credential of identifier. Removing an absent identifier
// is not an error.
func (s *Store) Remove(ctx context.Context, identifier string) error {
	if err := s.repo.Delete(ctx, identifier); err != nil {
		return fmt.Errorf("error removing credential: %w", err)
	}
	s.logger.Debug(ctx, "credential removed", "identifier", identifier)
	return nil
}

// Exists reports whether identifier has a stored credential.
func (s *Store) Exists(ctx context.Context, identifier string) (bool, error) {
	_, err := s.repo.Get(ctx, identifier)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, common.ErrIdentifierNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("error looking up identifier: %w", err)
	}
}
