// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command comtrade-sql registers COMTRADE records into the records catalog,
// and lists the records already registered.
//
// Usage: comtrade-sql [OPTIONS] [RECORD1 [RECORD2 ...]]
//
// Example:
//
//	$> comtrade-sql -cfg catalog.yaml -init ./fault-001.cfg ./fault-002.cff
//	$> comtrade-sql -cfg catalog.yaml -list
//	$> comtrade-sql -cfg catalog.yaml -station SUB-7
package main // import "github.com/go-lpc/comtrade/cmd/comtrade-sql"

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-lpc/comtrade/catalog"
	"github.com/go-lpc/comtrade/internal/rfile"
)

func main() {
	xmain(os.Stdout, os.Args[1:])
}

type options struct {
	init    bool   // create the catalog table
	list    bool   // list all entries
	station string // display the last entry of that station
}

func xmain(w io.Writer, args []string) {
	log.SetPrefix("comtrade-sql: ")
	log.SetFlags(0)

	var (
		fset = flag.NewFlagSet("comtrade-sql", flag.ExitOnError)

		cfgName = fset.String("cfg", "", "path to the YAML configuration of the catalog")
		opts    options
	)
	fset.BoolVar(&opts.init, "init", false, "create the catalog table")
	fset.BoolVar(&opts.list, "list", false, "list all the registered records")
	fset.StringVar(&opts.station, "station", "", "display the last record of a station")

	err := fset.Parse(args)
	if err != nil {
		log.Fatalf("could not parse input arguments: %+v", err)
	}

	cfg := catalog.DefaultConfig()
	if *cfgName != "" {
		cfg, err = catalog.LoadConfig(*cfgName)
		if err != nil {
			log.Fatalf("could not load catalog configuration: %+v", err)
		}
	}

	db, err := catalog.Open(cfg)
	if err != nil {
		log.Fatalf("could not open records catalog: %+v", err)
	}
	defer db.Close()

	err = run(context.Background(), w, db, opts, fset.Args())
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(ctx context.Context, w io.Writer, db *catalog.DB, opts options, fnames []string) error {
	if opts.init {
		err := db.Init(ctx)
		if err != nil {
			return fmt.Errorf("could not initialize catalog: %w", err)
		}
	}

	for _, fname := range fnames {
		rec, sum, err := rfile.Load(fname)
		if err != nil {
			return fmt.Errorf("could not load record %q: %w", fname, err)
		}
		e, err := db.Register(ctx, rec, fname, sum)
		if err != nil {
			return fmt.Errorf("could not register record %q: %w", fname, err)
		}
		log.Printf("registered %q as %s", fname, e.ID)
	}

	if opts.list {
		entries, err := db.Entries(ctx)
		if err != nil {
			return fmt.Errorf("could not list records: %w", err)
		}
		for _, e := range entries {
			display(w, e)
		}
	}

	if opts.station != "" {
		e, err := db.LastEntry(ctx, opts.station)
		if err != nil {
			return fmt.Errorf("could not get last record of station %q: %w", opts.station, err)
		}
		display(w, e)
	}

	return nil
}

func display(w io.Writer, e catalog.Entry) {
	fmt.Fprintf(w, "%s %s/%s rev=%s start=%s samples=%d analogs=%d statuses=%d crc=0x%04x src=%q\n",
		e.ID, e.Station, e.Device, e.Revision,
		e.Start.Format("2006-01-02T15:04:05.000000"),
		e.Samples, e.Analogs, e.Statuses, e.Checksum, e.Source,
	)
}
