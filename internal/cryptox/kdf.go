// Package cryptox wraps the password key derivation functions used by the
// credential store: PBKDF2 (HMAC-SHA-256 or HMAC-SHA-512) and Argon2id.
//
// Every function here is pure with respect to its explicit inputs, except for
// salt generation which reads crypto/rand. All of them are safe for concurrent
// use.
package cryptox

import (
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"fmt"
	"math"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// Algorithm names a supported key derivation construction.
type Algorithm string

const (
	PBKDF2SHA256 Algorithm = "pbkdf2-sha256"
	PBKDF2SHA512 Algorithm = "pbkdf2-sha512"
	Argon2ID     Algorithm = "argon2id"
)

const (
	// MinPBKDF2Iterations is the hard floor for both PBKDF2 variants.
	MinPBKDF2Iterations = 100_000
	// MinArgon2Iterations is the hard floor of Argon2id passes.
	MinArgon2Iterations = 1

	DefaultArgon2Iterations = 3

	MinSaltLength     = 16
	DefaultSaltLength = 16

	MinKeyLength     = 16
	DefaultKeyLength = 32
	MaxKeyLength     = 1024

	// Argon2id cost parameters that are not stored per record.
	argon2Memory  = 64 * 1024 // KiB
	argon2Threads = 4
)

// Params describes how a derived key is produced.
type Params struct {
	Algorithm  Algorithm
	Iterations int
	SaltLength int
	KeyLength  int
}

// DefaultParams returns PBKDF2-HMAC-SHA-256 at the iteration floor with a
// 16-byte salt and a 32-byte key.
func DefaultParams() Params {
	return Params{
		Algorithm:  PBKDF2SHA256,
		Iterations: MinPBKDF2Iterations,
		SaltLength: DefaultSaltLength,
		KeyLength:  DefaultKeyLength,
	}
}

// MinIterations returns the iteration floor of alg.
func MinIterations(alg Algorithm) (int, error) {
	switch alg {
	case PBKDF2SHA256, PBKDF2SHA512:
		return MinPBKDF2Iterations, nil
	case Argon2ID:
		return MinArgon2Iterations, nil
	default:
		return 0, fmt.Errorf("%w: unsupported algorithm %q", common.ErrConfiguration, alg)
	}
}

// Validate reports a wrapped common.ErrConfiguration when p cannot be used
// to derive keys.
func (p Params) Validate() error {
	floor, err := MinIterations(p.Algorithm)
	if err != nil {
		return err
	}
	if p.Iterations < floor {
		return fmt.Errorf("%w: %s needs at least %d iterations, got %d",
			common.ErrConfiguration, p.Algorithm, floor, p.Iterations)
	}
	// argon2 takes passes as uint32
	if p.Algorithm == Argon2ID && uint64(p.Iterations) > math.MaxUint32 {
		return fmt.Errorf("%w: %s allows at most %d iterations, got %d",
			common.ErrConfiguration, p.Algorithm, uint64(math.MaxUint32), p.Iterations)
	}
	if p.SaltLength < MinSaltLength {
		return fmt.Errorf("%w: salt length %d is below %d", common.ErrConfiguration, p.SaltLength, MinSaltLength)
	}
	if p.KeyLength < MinKeyLength || p.KeyLength > MaxKeyLength {
		return fmt.Errorf("%w: key length %d is outside %d..%d",
			common.ErrConfiguration, p.KeyLength, MinKeyLength, MaxKeyLength)
	}
	return nil
}

// DeriveKey derives p.KeyLength bytes from password and salt.
//
// The salt passed in is used as is; p.SaltLength only governs NewSalt, so
// records created with a shorter historical salt can still be verified.
func DeriveKey(p Params, password, salt []byte) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return derive(p.Algorithm, password, salt, p.Iterations, p.KeyLength), nil
}

// Derive is PBKDF2-HMAC-SHA-256 with a 32-byte output. It fails with
// common.ErrConfiguration when iterations is below MinPBKDF2Iterations.
//
// Example:
//
//	salt, err := GenerateSalt()
//	if err != nil {
//	    return err
//	}
//	key, err := Derive([]byte("976729"), salt, 100_000)
func Derive(password, salt []byte, iterations int) ([]byte, error) {
	p := DefaultParams()
	p.Iterations = iterations
	return DeriveKey(p, password, salt)
}

// GenerateSalt returns DefaultSaltLength bytes from crypto/rand.
func GenerateSalt() ([]byte, error) {
	return NewSalt(DefaultSaltLength)
}

// NewSalt returns n bytes from crypto/rand. n must be at least MinSaltLength.
func NewSalt(n int) ([]byte, error) {
	if n < MinSaltLength {
		return nil, fmt.Errorf("%w: salt length %d is below %d", common.ErrConfiguration, n, MinSaltLength)
	}
	return common.GenerateRandByteArray(n)
}

// Equal compares two derived keys in constant time.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// derive does no validation; callers go through Params.Validate.
func derive(alg Algorithm, password, salt []byte, iterations, keyLen int) []byte {
	switch alg {
	case Argon2ID:
		return argon2.IDKey(password, salt, uint32(iterations), argon2Memory, argon2Threads, uint32(keyLen))
	case PBKDF2SHA512:
		return pbkdf2.Key(password, salt, iterations, keyLen, sha512.New)
	default:
		return pbkdf2.Key(password, salt, iterations, keyLen, sha256.New)
	}
}

