// Package storage is the persistence boundary of the cash book. It exposes a
// key/value document gateway: each logical key holds one JSON-encoded
// collection, and the ledger treats absence or corruption as an empty
// collection. Two backends exist, a plain-file store and SQLite.
package storage

import (
	"context"
	"fmt"

	"cashbook/internal/config"
)

// Fixed logical keys for the three persisted collections.
const (
	KeyTransactions = "transactions"
	KeyLiabilities  = "liabilities"
	KeyReceivables  = "receivables"
)

// Gateway loads and saves raw documents by key. Load reports absence via the
// second return value rather than an error; Save replaces the document
// atomically with respect to concurrent loads.
type Gateway interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, raw []byte) error
	Close() error
}

// NewGateway builds the backend selected by cfg.DataBackend.
func NewGateway(cfg *config.Config) (Gateway, error) {
	switch cfg.DataBackend {
	case config.BackendFile:
		return NewFileStore(cfg.DataDir)
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.SQLiteDBPath)
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}
