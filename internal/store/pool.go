package store

import (
	"context"
	"log/slog"

	"github.com/angeloszaimis/cdo-trips/internal/trip"
)

// Pool hands out connections for exclusive use by one request. Acquire
// blocks while every connection is in use.
type Pool interface {
	Acquire(ctx context.Context) (Conn, error)
	Ping(ctx context.Context) error
	Close() error
}

// Conn is a pooled connection. Release returns it to the pool and must be
// called exactly once.
type Conn interface {
	// Each runs query and calls fn for every result row. Iteration stops at
	// the first error returned by fn.
	Each(ctx context.Context, query string, fn func(row trip.Row) error) error
	Release()
}

// Open builds the pool described by dbString and checks that it can reach the
// database.
func Open(ctx context.Context, dbString string, maxConns int, logger *slog.Logger) (Pool, error) {
	target, err := ParseDBString(dbString)
	if err != nil {
		return nil, err
	}

	var pool Pool
	switch target.Driver {
	case DriverPostgres:
		pool, err = openPgx(ctx, target.DSN, maxConns)
	default:
		pool, err = openSQL(ctx, string(target.Driver), target.DSN, maxConns)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Connection pool ready",
		slog.String("driver", string(target.Driver)),
		slog.Int("max_conns", maxConns))

	return pool, nil
}
