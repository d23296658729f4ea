package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore implements Store on an embedded Badger database. Badger's
// optimistic transactions give serializable isolation: a transaction that
// read a key another one committed meanwhile is retried by Update.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore wraps an open database. The caller keeps ownership of db
// unless Close is called.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// OpenBadger opens (or creates) a database at path. An empty path opens an
// in-memory database.
func OpenBadger(path string, logger badger.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(logger)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return NewBadgerStore(db), nil
}

// DB exposes the underlying handle for backup and restore.
func (s *BadgerStore) DB() *badger.DB {
	return s.db
}

func (s *BadgerStore) View(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		return fn(badgerTx{txn: txn})
	})
}

// Update runs fn in a read-write transaction. badger discards the
// transaction when fn errors or panics. A commit that fails with
// badger.ErrConflict reruns fn on a fresh transaction, so fn must not keep
// state across attempts other than what it rebuilds.
func (s *BadgerStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	var err error
	for attempt := 0; attempt < maxTxnAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err = s.db.Update(func(txn *badger.Txn) error {
			return fn(badgerTx{txn: txn})
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrTxConflict, err)
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

type badgerTx struct {
	txn *badger.Txn
}

func (t badgerTx) Users() UserRepository {
	return &BadgerUserRepository{txn: t.txn}
}

func (t badgerTx) Posts() PostRepository {
	return &BadgerPostRepository{txn: t.txn}
}
