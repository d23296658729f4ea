package repositories

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverBadger   = "badger"
)

// Options selects and locates a Store back end.
type Options struct {
	Driver string
	// DSN is a sqlite path or postgres URL for the SQL drivers.
	DSN string
	// BadgerPath is the badger directory; empty means in-memory.
	BadgerPath string
	Logger     *logrus.Logger
}

// Open builds the Store named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverSQLite, DriverPostgres:
		return OpenSQL(ctx, opts.Driver, opts.DSN)
	case DriverBadger:
		var logger badger.Logger
		if opts.Logger != nil {
			logger = opts.Logger
		}
		return OpenBadger(opts.BadgerPath, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
