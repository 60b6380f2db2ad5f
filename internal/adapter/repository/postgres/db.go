package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // PostgreSQL driver
	"github.com/simaogato/wealthflow-ledger/internal/domain"
)

//go:embed schema.sql
var schema string

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// PoolOptions tunes the connection pool
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=wealthflow sslmode=disable"
func NewDB(connectionString string, opts PoolOptions) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Migrate creates the schema and the default asset types. It is idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewRepositories binds every repository to the connection pool
func NewRepositories(db *DB, assetTypes domain.AssetTypeRegistry) domain.Repositories {
	return repositoriesFor(db, assetTypes)
}

func repositoriesFor(q querier, assetTypes domain.AssetTypeRegistry) domain.Repositories {
	return domain.Repositories{
		Assets:                 &assetRepository{q: q},
		AssetTypes:             assetTypes,
		Operations:             &operationRepository{q: q},
		InvestmentTransactions: &investmentTransactionRepository{q: q},
		Valuations:             &valuationRepository{q: q},
		Categories:             &categoryRepository{q: q},
		Hashtags:               &hashtagRepository{q: q},
	}
}

// unitOfWork implements domain.UnitOfWork on database transactions
type unitOfWork struct {
	db         *DB
	assetTypes domain.AssetTypeRegistry
}

// NewUnitOfWork creates a UnitOfWork backed by db
func NewUnitOfWork(db *DB, assetTypes domain.AssetTypeRegistry) domain.UnitOfWork {
	return &unitOfWork{db: db, assetTypes: assetTypes}
}

// Do runs fn in a read-committed transaction. Balance-affecting paths lock
// the asset rows they touch with SELECT ... FOR UPDATE.
func (u *unitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	tx, err := u.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return domain.NewStoreFailure(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if err := fn(ctx, repositoriesFor(tx, u.assetTypes)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storeError(err, "failed to commit transaction")
	}

	return nil
}

// PostgreSQL error codes the ledger reacts to
const (
	codeForeignKeyViolation  = "23503"
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeNumericOutOfRange    = "22003"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// storeError translates a driver error into a ledger error
func storeError(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFound(format, args...)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		msg := fmt.Sprintf(format, args...)
		switch pqErr.Code {
		case codeForeignKeyViolation:
			return &domain.Error{Kind: domain.KindNotFound, Message: msg + ": referenced row does not exist", Err: err}
		case codeUniqueViolation, codeSerializationFailure, codeDeadlockDetected:
			return &domain.Error{Kind: domain.KindConflict, Message: msg, Err: err}
		case codeCheckViolation, codeNumericOutOfRange:
			return &domain.Error{Kind: domain.KindInvalidArgument, Message: msg, Err: err}
		}
	}

	return domain.NewStoreFailure(err, format, args...)
}

// notFound reports missing rows for statements that do not return any
func notFound(res sql.Result, format string, args ...any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return domain.NewStoreFailure(err, "failed to read affected rows")
	}
	if n == 0 {
		return domain.NewNotFound(format, args...)
	}
	return nil
}

// nullableID converts an optional id to a driver value
func nullableID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}

// scanNullableID parses an optional uuid column
func scanNullableID(s sql.NullString) (*uuid.UUID, error) {
	if !s.Valid {
		return nil, nil
	}
	id, err := uuid.Parse(s.String)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
