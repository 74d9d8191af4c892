// Package credentials implements the credential store: it maps identifiers to
// salted password derivations and exposes register, verify, update and remove
// on top of package cryptox.
package credentials

import (
	"bytes"
	"time"

	"github.com/dmitrijs2005/credkeeper/internal/cryptox"
)

// Record is one stored credential. Records are immutable once created;
// repositories store and return copies.
type Record struct {
	ID         string
	Identifier string
	Algorithm  cryptox.Algorithm
	Salt       []byte
	DerivedKey []byte
	Iterations int
	CreatedAt  time.Time
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	c := *r
	c.Salt = bytes.Clone(r.Salt)
	c.DerivedKey = bytes.Clone(r.DerivedKey)
	return &c
}

// params returns the derivation parameters r was created with.
func (r *Record) params() cryptox.Params {
	return cryptox.Params{
		Algorithm:  r.Algorithm,
		Iterations: r.Iterations,
		SaltLength: len(r.Salt),
		KeyLength:  len(r.DerivedKey),
	}
}
