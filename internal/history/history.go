// Package history provides an optional persistence layer recording every
// detected component transition.
package history

import (
	"context"
	"errors"
	"strings"
	"time"

	"statuswatch/internal/config"
	logx "statuswatch/pkg/logx"
)

var ErrDisabled = errors.New("history disabled")

// Entry records one detected transition.
// Keep it compact and schema-stable.
type Entry struct {
	At          time.Time
	ComponentID string
	Name        string
	Kind        string // new_degradation | degradation | recovery
	PrevStatus  string
	Status      string
	Notified    bool
}

// Store is the minimal history API used by the engine.
type Store interface {
	Append(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

// Open initializes the configured store.
// It returns (nil, nil) if history is disabled.
func Open(cfg config.HistoryConfig, log logx.Logger) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" || driver == "none" {
		return nil, nil
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	switch driver {
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown history driver: " + driver)
	}
}
