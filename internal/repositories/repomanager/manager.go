// Package repomanager opens the configured credential storage backend and
// runs its schema migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/credentials"
	"github.com/dmitrijs2005/credkeeper/internal/filex"
	"github.com/dmitrijs2005/credkeeper/internal/repositories/records"
	"github.com/dmitrijs2005/credkeeper/internal/repositories/repomanager/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Supported storage backends.
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// RepositoryManager vends the credential repository of one backend.
type RepositoryManager interface {
	Credentials() credentials.Repository
	Close() error
}

type memoryManager struct {
	repo *credentials.MemoryRepository
}

func (m *memoryManager) Credentials() credentials.Repository { return m.repo }
func (m *memoryManager) Close() error                        { return nil }

type sqlManager struct {
	db   *sql.DB
	repo credentials.Repository
}

func (m *sqlManager) Credentials() credentials.Repository { return m.repo }
func (m *sqlManager) Close() error                        { return m.db.Close() }

// sqlOpen is a seam for testing sql.Open.
var sqlOpen = sql.Open

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

// RunMigrations applies the embedded migrations of dialect (StorageSQLite or
// StoragePostgres) to db.
func RunMigrations(ctx context.Context, db *sql.DB, dialect string) error {
	var gooseDialect string
	switch dialect {
	case StorageSQLite:
		gooseDialect = "sqlite3"
	case StoragePostgres:
		gooseDialect = "postgres"
	default:
		return fmt.Errorf("%w: no migrations for %q", common.ErrConfiguration, dialect)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, dialect)
}

// NewRepositoryManager opens storage. dsn is ignored for StorageMemory; for
// StorageSQLite it is a file path (or ":memory:"), for StoragePostgres a pgx
// connection string.
func NewRepositoryManager(ctx context.Context, storage, dsn string) (RepositoryManager, error) {
	switch storage {
	case StorageMemory, "":
		return &memoryManager{repo: credentials.NewMemoryRepository()}, nil
	case StorageSQLite:
		if _, err := filex.EnsureParentDir(dsn); err != nil {
			return nil, fmt.Errorf("db dir error: %w", err)
		}
		return openSQL(ctx, "sqlite", storage, dsn, func(db *sql.DB) credentials.Repository {
			// single writer; also keeps ":memory:" on one database
			db.SetMaxOpenConns(1)
			return records.NewSQLiteRepository(db)
		})
	case StoragePostgres:
		return openSQL(ctx, "pgx", storage, dsn, func(db *sql.DB) credentials.Repository {
			return records.NewPostgresRepository(db)
		})
	default:
		return nil, fmt.Errorf("%w: unsupported storage %q", common.ErrConfiguration, storage)
	}
}

func openSQL(ctx context.Context, driver, dialect, dsn string, repo func(*sql.DB) credentials.Repository) (RepositoryManager, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: %s storage needs a DSN", common.ErrConfiguration, dialect)
	}

	db, err := sqlOpen(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &sqlManager{db: db, repo: repo(db)}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := RunMigrations(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
