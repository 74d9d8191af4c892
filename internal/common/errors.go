// Package common defines sentinel errors and small byte helpers shared by the
// credential core, its repositories and the CLI. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// KDF / configuration errors.
	ErrConfiguration = errors.New("configuration error")

	// Input validation errors.
	ErrInvalidPassword   = errors.New("invalid password")
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// Store / repository errors.
	ErrDuplicateIdentifier = errors.New("identifier already exists")
	ErrIdentifierNotFound  = errors.New("identifier not found")
)
