package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/angeloszaimis/cdo-trips/internal/trip"
)

// sqlPool serves MySQL and SQLite through database/sql.
type sqlPool struct {
	db *sql.DB
}

type sqlConn struct {
	conn *sql.Conn
}

func openSQL(ctx context.Context, driver, dsn string, maxConns int) (*sqlPool, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s pool: %w", driver, err)
	}

	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return &sqlPool{db: db}, nil
}

func (p *sqlPool) Acquire(ctx context.Context) (Conn, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return &sqlConn{conn: conn}, nil
}

func (p *sqlPool) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *sqlPool) Close() error {
	return p.db.Close()
}

func (c *sqlConn) Each(ctx context.Context, query string, fn func(row trip.Row) error) error {
	rows, err := c.conn.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("run query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("read columns: %w", err)
	}

	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}

		if err := rows.Scan(dest...); err != nil {
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

func (c *sqlConn) Release() {
	c.conn.Close()
}
