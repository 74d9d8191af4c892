package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/credentials"
	"github.com/dmitrijs2005/credkeeper/internal/cryptox"
	"github.com/dmitrijs2005/credkeeper/internal/dbx"
)

// SQLiteRepository stores created_at as unix nanoseconds.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, rec *credentials.Record) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO credentials (id, identifier, algorithm, salt, derived_key, iterations, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(identifier) DO NOTHING
	`, rec.ID, rec.Identifier, string(rec.Algorithm), rec.Salt, rec.DerivedKey, rec.Iterations, rec.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res, common.ErrDuplicateIdentifier)
}

func (r *SQLiteRepository) Get(ctx context.Context, identifier string) (*credentials.Record, error) {
	var (
		rec       credentials.Record
		algorithm string
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, identifier, algorithm, salt, derived_key, iterations, created_at
		FROM credentials WHERE identifier = ?
	`, identifier).Scan(&rec.ID, &rec.Identifier, &algorithm, &rec.Salt, &rec.DerivedKey, &rec.Iterations, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrIdentifierNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	rec.Algorithm = cryptox.Algorithm(algorithm)
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	return &rec, nil
}

func (r *SQLiteRepository) Replace(ctx context.Context, rec *credentials.Record) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE credentials
		SET id = ?, algorithm = ?, salt = ?, derived_key = ?, iterations = ?, created_at = ?
		WHERE identifier = ?
	`, rec.ID, string(rec.Algorithm), rec.Salt, rec.DerivedKey, rec.Iterations, rec.CreatedAt.UnixNano(), rec.Identifier)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res, common.ErrIdentifierNotFound)
}

func (r *SQLiteRepository) Delete(ctx context.Context, identifier string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE identifier = ?`, identifier)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// expectOneRow returns noRows when res reports zero affected rows.
func expectOneRow(res sql.Result, noRows error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return noRows
	}
	return nil
}
