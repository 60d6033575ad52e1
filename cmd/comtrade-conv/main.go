// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command comtrade-conv re-encodes a COMTRADE record, either as a set of
// .cfg/.dat/.hdr/.inf files with the requested data encoding or as a
// single .cff container.
package main // import "github.com/go-lpc/comtrade/cmd/comtrade-conv"

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-lpc/comtrade"
	"github.com/go-lpc/comtrade/internal/rfile"
)

var (
	msg = log.New(os.Stdout, "comtrade-conv: ", 0)
)

func main() {
	xmain(os.Args[1:])
}

func xmain(args []string) {
	var (
		fset = flag.NewFlagSet("comtrade-conv", flag.ExitOnError)

		oname = fset.String("o", "out", "base name of the output files")
		enc   = fset.String("enc", "binary", "data encoding (ascii, binary, binary32, float32)")
		cff   = fset.Bool("cff", false, "write a single .cff container file")
	)

	fset.Usage = func() {
		fmt.Printf(`Usage: comtrade-conv [OPTIONS] record.cfg

ex:
 $> comtrade-conv -o out -enc=float32 ./input.cfg
 $> comtrade-conv -o out -cff ./input.cfg

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
		msg.Fatalf("invalid output file name")
	}

	encoding, err := comtrade.ParseEncoding(*enc)
	if err != nil {
		fset.Usage()
		msg.Fatalf("invalid data encoding: %+v", err)
	}

	err = process(*oname, encoding, *cff, fset.Arg(0))
	if err != nil {
		msg.Fatalf("could not convert record %q: %+v", fset.Arg(0), err)
	}
}

func process(oname string, enc comtrade.Encoding, cff bool, fname string) error {
	rec, _, err := rfile.Load(fname)
	if err != nil {
		return fmt.Errorf("could not load record: %w", err)
	}

	if cff {
		return create(oname+".cff", func(f *os.File) error {
			return comtrade.WriteContainer(f, rec)
		})
	}

	rec.Encoding = enc
	err = create(oname+".cfg", func(f *os.File) error {
		return comtrade.WriteConfig(f, rec)
	})
	if err != nil {
		return err
	}

	err = create(oname+".dat", func(f *os.File) error {
		return comtrade.NewEncoder(f, enc).Encode(rec)
	})
	if err != nil {
		return err
	}

	for _, v := range []struct {
		ext string
		txt string
	}{
		{".hdr", rec.Header},
		{".inf", rec.Info},
	} {
		if v.txt == "" {
			continue
		}
		err = create(oname+v.ext, func(f *os.File) error {
			_, err := f.WriteString(v.txt)
			return err
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func create(fname string, write func(f *os.File) error) error {
	msg.Printf("creating output file %q...", fname)
	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("could not create output file: %w", err)
	}
	defer f.Close()

	err = write(f)
	if err != nil {
		return fmt.Errorf("could not write %s file: %w", strings.TrimPrefix(filepath.Ext(fname), "."), err)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("could not close output file %q: %w", fname, err)
	}
	return nil
}

