package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/angeloszaimis/cdo-trips/internal/trip"
)

type pgxPool struct {
	pool *pgxpool.Pool
}

type pgxConn struct {
	conn *pgxpool.Conn
}

func openPgx(ctx context.Context, dsn string, maxConns int) (*pgxPool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	cfg.MaxConns = int32(maxConns)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &pgxPool{pool: pool}, nil
}

func (p *pgxPool) Acquire(ctx context.Context) (Conn, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return &pgxConn{conn: conn}, nil
}

func (p *pgxPool) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *pgxPool) Close() error {
	p.pool.Close()
	return nil
}

func (c *pgxConn) Each(ctx context.Context, query string, fn func(row trip.Row) error) error {
	rows, err := c.conn.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("run query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
		if err := fn(newValuesRow(columns, values)); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rows: %w", err)
	}
	return nil
}

func (c *pgxConn) Release() {
	c.conn.Release()
}
