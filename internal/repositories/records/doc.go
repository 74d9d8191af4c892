// Package records contains SQL implementations of credentials.Repository.
//
// Both dialects rely on the identifier primary key for atomicity: inserts use
// ON CONFLICT DO NOTHING and report a duplicate when no row was written,
// replacements are a single UPDATE that reports a missing identifier when no
// row matched.
package records

import "github.com/dmitrijs2005/credkeeper/internal/credentials"

var (
	_ credentials.Repository = (*SQLiteRepository)(nil)
	_ credentials.Repository = (*PostgresRepository)(nil)
)
