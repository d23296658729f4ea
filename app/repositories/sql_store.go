package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// sqliteDriverName is go-sqlite3 with lower() replaced by strings.ToLower,
// so sqlite folds non-ASCII titles the way the badger repository does.
const sqliteDriverName = "sqlite3_unicode"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", strings.ToLower, true)
		},
	})
}

// SQLStore implements Store on database/sql through sqlx. Queries are
// written with '?' placeholders and rebound for the driver.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// OpenSQL connects to a sqlite3 file or postgres DSN and applies the schema.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	if driver == DriverSQLite && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	driverName := driver
	if driver == DriverSQLite {
		driverName = sqliteDriverName
	}
	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	// sqlx picks the bind style from the public driver name
	db := sqlx.NewDb(sqlDB, driver)
	if driver == DriverSQLite {
		// one connection: writers serialize and :memory: stays a single database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if err := Migrate(db.DB, driver); err != nil {
		db.Close()
		return nil, err
	}
	return NewSQLStore(db), nil
}

// DB exposes the underlying handle for maintenance commands.
func (s *SQLStore) DB() *sqlx.DB {
	return s.db
}

func (s *SQLStore) View(ctx context.Context, fn func(tx Tx) error) error {
	return s.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

// Update runs fn in a read-write transaction, rerunning it when postgres
// aborts it with a serialization failure.
func (s *SQLStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	var err error
	for attempt := 0; attempt < maxTxnAttempts; attempt++ {
		err = s.run(ctx, nil, fn)
		if !errors.Is(err, ErrTxConflict) {
			return err
		}
	}
	return err
}

func (s *SQLStore) run(ctx context.Context, opts *sql.TxOptions, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&sqlTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return translateError(fmt.Errorf("commit: %w", err))
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

type sqlTx struct {
	tx *sqlx.Tx
}

func (t *sqlTx) Users() UserRepository {
	return &SQLUserRepository{tx: t.tx}
}

func (t *sqlTx) Posts() PostRepository {
	return &SQLPostRepository{tx: t.tx}
}

// translateError maps driver errors onto the repository sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %v", ErrConflict, err)
		case "40001": // serialization_failure
			return fmt.Errorf("%w: %v", ErrTxConflict, err)
		}
	}
	return err
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
