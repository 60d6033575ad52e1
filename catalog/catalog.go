// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package catalog holds types to register decoded COMTRADE records
// into a MySQL database, and to query them back.
package catalog // import "github.com/go-lpc/comtrade/catalog"

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-lpc/comtrade"
	_ "github.com/go-sql-driver/mysql"
	"github.com/segmentio/ksuid"
)

var newID = func() string { return ksuid.New().String() }

// Schema creates the table of the catalog.
const Schema = `
CREATE TABLE IF NOT EXISTS records (
	id        CHAR(27) PRIMARY KEY,
	station   VARCHAR(255) NOT NULL,
	device    VARCHAR(255) NOT NULL,
	revision  CHAR(4) NOT NULL,
	start     DATETIME(6) NOT NULL,
	trig      DATETIME(6) NOT NULL,
	samples   INT UNSIGNED NOT NULL,
	analogs   INT UNSIGNED NOT NULL,
	statuses  INT UNSIGNED NOT NULL,
	checksum  SMALLINT UNSIGNED NOT NULL,
	source    VARCHAR(1024) NOT NULL
)`

const entryColumns = "id, station, device, revision, start, trig, samples, analogs, statuses, checksum, source"

// Entry describes a record registered in the catalog.
type Entry struct {
	ID       string // KSUID of the entry
	Station  string
	Device   string
	Revision string
	Start    time.Time
	Trigger  time.Time
	Samples  int
	Analogs  int
	Statuses int
	Checksum uint16 // CRC-16 of the record files
	Source   string // name of the record files
}

// NewEntry creates a new catalog entry for rec.
func NewEntry(rec *comtrade.Record, src string, sum uint16) Entry {
	return Entry{
		ID:       newID(),
		Station:  rec.Station,
		Device:   rec.Device,
		Revision: rec.Revision.String(),
		Start:    rec.Start,
		Trigger:  rec.Trigger,
		Samples:  rec.NumSamples(),
		Analogs:  len(rec.Analogs),
		Statuses: len(rec.Statuses),
		Checksum: sum,
		Source:   src,
	}
}

// Time returns the creation time encoded in the entry identifier.
func (e Entry) Time() (time.Time, error) {
	id, err := ksuid.Parse(e.ID)
	if err != nil {
		return time.Time{}, fmt.Errorf("catalog: invalid entry id %q: %w", e.ID, err)
	}
	return id.Time(), nil
}

// DB exposes convenience methods to register and retrieve records
// from the catalog database.
type DB struct {
	db      *sql.DB
	name    string // name of the catalog database
	timeout time.Duration
}

// Open opens a connection to the catalog database described by cfg.
func Open(cfg Config) (*DB, error) {
	drv := cfg.Driver
	if drv == "" {
		drv = DefaultConfig().Driver
	}
	db, err := sql.Open(drv, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("catalog: could not open %q db: %w", cfg.Name, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}

	err = ping(db, cfg.Name, timeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{db: db, name: cfg.Name, timeout: timeout}, nil
}

func ping(db *sql.DB, dbname string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("catalog: could not ping %q db: %w", dbname, err)
	}

	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// Init creates the catalog table if it does not exist yet.
func (db *DB) Init(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, db.timeout)
	defer cancel()

	_, err := db.db.ExecContext(ctx, Schema)
	if err != nil {
		return fmt.Errorf("catalog: could not create records table: %w", err)
	}
	return nil
}

// Register adds rec, read from the files named src with checksum sum,
// to the catalog.
func (db *DB) Register(ctx context.Context, rec *comtrade.Record, src string, sum uint16) (Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, db.timeout)
	defer cancel()

	e := NewEntry(rec, src, sum)
	_, err := db.db.ExecContext(
		ctx,
		"INSERT INTO records ("+entryColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.Station, e.Device, e.Revision,
		e.Start, e.Trigger,
		e.Samples, e.Analogs, e.Statuses,
		int64(e.Checksum), e.Source,
	)
	if err != nil {
		return e, fmt.Errorf("catalog: could not register record %s/%s: %w", e.Station, e.Device, err)
	}

	return e, nil
}

// Entries returns all the entries of the catalog, ordered by start time.
func (db *DB) Entries(ctx context.Context) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, db.timeout)
	defer cancel()

	rows, err := db.db.QueryContext(
		ctx,
		"SELECT "+entryColumns+" FROM records ORDER BY start",
	)
	if err != nil {
		return nil, fmt.Errorf("catalog: could not run entries query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return entries, fmt.Errorf("catalog: could not scan row %d for entries: %w", len(entries), err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return entries, fmt.Errorf("catalog: could not scan db for entries: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return entries, fmt.Errorf("catalog: context error while retrieving entries: %w", err)
	}

	return entries, nil
}

// LastEntry returns the most recent entry recorded by station.
func (db *DB) LastEntry(ctx context.Context, station string) (Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, db.timeout)
	defer cancel()

	var e Entry
	rows, err := db.db.QueryContext(
		ctx,
		"SELECT "+entryColumns+" FROM records WHERE station=? ORDER BY start DESC LIMIT 1",
		station,
	)
	if err != nil {
		return e, fmt.Errorf("catalog: could not query last entry: %w", err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		e, err = scanEntry(rows)
		if err != nil {
			return e, fmt.Errorf("catalog: could not get last entry value: %w", err)
		}
		n++
	}

	if err := rows.Err(); err != nil {
		return e, fmt.Errorf("catalog: could not scan db for last entry: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return e, fmt.Errorf("catalog: context error while retrieving last entry: %w", err)
	}

	if n == 0 {
		return e, fmt.Errorf("catalog: no entry for station %q: %w", station, sql.ErrNoRows)
	}

	return e, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var e Entry
	err := rows.Scan(
		&e.ID, &e.Station, &e.Device, &e.Revision,
		&e.Start, &e.Trigger,
		&e.Samples, &e.Analogs, &e.Statuses,
		&e.Checksum, &e.Source,
	)
	return e, err
}
