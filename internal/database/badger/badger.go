package badger

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

const sequenceBandwidth = 100

// Backend wraps an embedded badger database used when no server store is
// configured.
type Backend struct {
	db *badger.DB
}

type loggerAdapter struct {
	logger *log.Logger
}

var _ badger.Logger = (*loggerAdapter)(nil)

func (a *loggerAdapter) Errorf(msg string, items ...any) {
	a.logger.Printf("[Badger] ERROR "+msg, items...)
}

func (a *loggerAdapter) Warningf(msg string, items ...any) {
	a.logger.Printf("[Badger] WARN "+msg, items...)
}

func (*loggerAdapter) Infof(string, ...any)  {}
func (*loggerAdapter) Debugf(string, ...any) {}

// Open opens the database at path, or an in-memory one when path is empty.
func Open(path string, logger *log.Logger) (*Backend, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(path)
		switch {
		case os.IsNotExist(err):
			if err := os.MkdirAll(path, 0o755); err != nil {
				return nil, err
			}
		case err != nil:
			return nil, err
		case !info.IsDir():
			return nil, fmt.Errorf("%s is not a directory", path)
		}
		opts = badger.DefaultOptions(path)
	}

	if logger != nil {
		opts.Logger = &loggerAdapter{logger: logger}
	} else {
		opts.Logger = nil
	}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Backend{db: db}, nil
}

// View runs fn in a read-only transaction.
func (b *Backend) View(fn func(tx *badger.Txn) error) error {
	return b.db.View(fn)
}

// Update runs fn in a read-write transaction and commits it when fn succeeds.
// Conflicting concurrent writers get badger.ErrConflict.
func (b *Backend) Update(fn func(tx *badger.Txn) error) error {
	return b.db.Update(fn)
}

func (b *Backend) Sequence(name string) (*badger.Sequence, error) {
	return b.db.GetSequence([]byte(name), sequenceBandwidth)
}

func (b *Backend) Ping(_ context.Context) error {
	if b == nil || b.db == nil || b.db.IsClosed() {
		return fmt.Errorf("badger closed")
	}
	return nil
}

func (b *Backend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}
