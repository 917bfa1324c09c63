// Package tripdb creates SQLite trips databases for tests and local runs.
package tripdb

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Schema mirrors the columns the sort page reads. Constraints are left off so
// tests can store rows the decoder must reject.
const Schema = `
CREATE TABLE IF NOT EXISTS trips (
	id INTEGER PRIMARY KEY,
	name TEXT,
	county TEXT,
	waterway TEXT,
	start TEXT,
	finish TEXT,
	date DATE,
	active INTEGER NOT NULL DEFAULT 1
);`

// Row is one trips record. Nil pointers are stored as NULL.
type Row struct {
	ID       int64
	Name     *string
	County   *string
	Waterway *string
	Start    *string
	Finish   *string
	Date     string
	Active   bool
}

// Str returns a pointer to s for optional columns.
func Str(s string) *string {
	return &s
}

// Create writes a SQLite database at path holding rows and returns the
// db_string that opens it.
func Create(ctx context.Context, path string, rows []Row) (string, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return "", fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return "", fmt.Errorf("create trips table: %w", err)
	}

	if err := Insert(ctx, db, rows); err != nil {
		return "", err
	}

	return "sqlite://" + path, nil
}

// Insert adds rows to an existing trips table in one transaction.
func Insert(ctx context.Context, db *sql.DB, rows []Row) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trips(id, name, county, waterway, start, finish, date, active)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		active := 0
		if r.Active {
			active = 1
		}
		if _, err := stmt.ExecContext(ctx, r.ID, r.Name, r.County, r.Waterway, r.Start, r.Finish, r.Date, active); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert trip %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit trips: %w", err)
	}
	return nil
}
