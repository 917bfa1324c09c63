//go:build ignore

// Seed creates a SQLite trips database with sample rows for local runs.
//
// Usage:
//
//	go run scripts/seed.go -db ./trips.db
//
// Point db_string at the printed value to serve it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/angeloszaimis/cdo-trips/internal/testsupport/tripdb"
)

func main() {
	path := flag.String("db", "trips.db", "SQLite database file to create")
	flag.Parse()

	str := tripdb.Str
	rows := []tripdb.Row{
		{ID: 1, Name: str("Dana"), County: str("Boulder"), Waterway: str("St. Vrain Creek"), Start: str("Lyons"), Finish: str("Longmont"), Date: "2024-05-18", Active: true},
		{ID: 2, Name: str(" Lee "), County: str("Chaffee"), Waterway: str("Arkansas River"), Start: str("Buena Vista"), Finish: str("Salida"), Date: "2024-06-02", Active: true},
		{ID: 3, County: str("Grand"), Waterway: str("Colorado River"), Start: str("Pumphouse"), Finish: str("Radium"), Date: "2024-06-15", Active: true},
		{ID: 4, Name: str("Sam"), County: str("Eagle"), Waterway: str("Eagle River"), Start: str("Edwards"), Date: "2024-07-04", Active: true},
		{ID: 5, Name: str("Alex"), County: str("Larimer"), Waterway: str("Cache la Poudre"), Start: str("Filter Plant"), Finish: str("Bellvue"), Date: "2023-08-11", Active: false},
	}

	dbString, err := tripdb.Create(context.Background(), *path, rows)
	if err != nil {
		log.Fatalf("seed %s: %v", *path, err)
	}

	fmt.Printf("seeded %d trips\ndb_string = %q\n", len(rows), dbString)
}
