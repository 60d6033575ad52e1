// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command comtrade2lcio converts a COMTRADE record to an LCIO file.
package main // import "github.com/go-lpc/comtrade/cmd/comtrade2lcio"

import (
	"compress/flate"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-lpc/comtrade/internal/rfile"
	"github.com/go-lpc/comtrade/internal/xcnv"
	"go-hep.org/x/hep/lcio"
)

var (
	msg = log.New(os.Stdout, "comtrade2lcio: ", 0)
)

func main() {
	xmain(os.Args[1:])
}

func xmain(args []string) {
	var (
		fset = flag.NewFlagSet("comtrade2lcio", flag.ExitOnError)

		oname = fset.String("o", "out.slcio", "path to output LCIO file")
		compr = fset.Int("lvl", flate.DefaultCompression, "compression level for output LCIO file")
		run   = fset.Int("run", 0, "run number of the output LCIO file")
	)

	fset.Usage = func() {
		fmt.Printf(`Usage: comtrade2lcio [OPTIONS] record.cfg

ex:
 $> comtrade2lcio -o out.slcio -lvl=9 -run=42 ./fault.cfg

options:
`)
		fset.PrintDefaults()
	}

	err := fset.Parse(args)
	if err != nil {
		msg.Fatalf("could not parse input arguments: %+v", err)
	}

	if fset.NArg() != 1 {
		fset.Usage()
		msg.Fatalf("missing input COMTRADE record")
	}

	if *oname == "" {
		fset.Usage()
		msg.Fatalf("invalid output LCIO file name")
	}

	err = process(*oname, *compr, int32(*run), fset.Arg(0))
	if err != nil {
		msg.Fatalf("could not convert record: %+v", err)
	}
}

func process(oname string, lvl int, run int32, fname string) error {
	rec, sum, err := rfile.Load(fname)
	if err != nil {
		return fmt.Errorf("could not load record: %w", err)
	}
	msg.Printf("record %q: checksum=0x%04x", fname, sum)

	w, err := lcio.Create(oname)
	if err != nil {
		return fmt.Errorf("could not create output LCIO file: %w", err)
	}
	defer w.Close()

	w.SetCompressionLevel(lvl)

	err = xcnv.Record2LCIO(w, rec, run, msg)
	if err != nil {
		return fmt.Errorf("could not convert record to LCIO: %w", err)
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("could not close output LCIO file: %w", err)
	}

	return nil
}
