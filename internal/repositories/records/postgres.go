package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/credentials"
	"github.com/dmitrijs2005/credkeeper/internal/cryptox"
	"github.com/dmitrijs2005/credkeeper/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rec *credentials.Record) error {

	query :=
		`INSERT INTO credentials (id, identifier, algorithm, salt, derived_key, iterations, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (identifier) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Identifier, string(rec.Algorithm), rec.Salt, rec.DerivedKey, rec.Iterations, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOneRow(res, common.ErrDuplicateIdentifier)
}

func (r *PostgresRepository) Get(ctx context.Context, identifier string) (*credentials.Record, error) {
	query :=
		`SELECT id, identifier, algorithm, salt, derived_key, iterations, created_at FROM credentials
		 WHERE identifier = $1
		 `

	rec := &credentials.Record{}
	var algorithm string
	err := r.db.QueryRowContext(ctx, query, identifier).
		Scan(&rec.ID, &rec.Identifier, &algorithm, &rec.Salt, &rec.DerivedKey, &rec.Iterations, &rec.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrIdentifierNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	rec.Algorithm = cryptox.Algorithm(algorithm)
	return rec, nil
}

func (r *PostgresRepository) Replace(ctx context.Context, rec *credentials.Record) error {
	query :=
		`UPDATE credentials
		 SET id = $1, algorithm = $2, salt = $3, derived_key = $4, iterations = $5, created_at = $6
		 WHERE identifier = $7
		 `

	res, err := r.db.ExecContext(ctx, query,
		rec.ID, string(rec.Algorithm), rec.Salt, rec.DerivedKey, rec.Iterations, rec.CreatedAt, rec.Identifier)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOneRow(res, common.ErrIdentifierNotFound)
}

func (r *PostgresRepository) Delete(ctx context.Context, identifier string) error {
	query := `DELETE FROM credentials WHERE identifier = $1`

	if _, err := r.db.ExecContext(ctx, query, identifier); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
