// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// comtrade-dump decodes and displays COMTRADE records.
//
// Usage: comtrade-dump [OPTIONS] RECORD1 [RECORD2 [RECORD3 ...]]
//
// Records are named after any of their files (.cfg, .dat, .cff) or
// after the base name shared by their files.
//
// Example:
//
//	$> comtrade-dump -n 2 ./testdata/sample_1999_bin
//	=== ./testdata/sample_1999_bin ===
//	Station:    station
//	Device:     equipment
//	[...]
package main // import "github.com/go-lpc/comtrade/cmd/comtrade-dump"

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-lpc/comtrade"
	"github.com/go-lpc/comtrade/internal/rfile"
	"golang.org/x/sync/errgroup"
)

const usage = `comtrade-dump decodes and displays COMTRADE records.

Usage: comtrade-dump [OPTIONS] RECORD1 [RECORD2 [RECORD3 ...]]

Example:

 $> comtrade-dump -n 2 ./testdata/sample_1999_bin
 === ./testdata/sample_1999_bin ===
 Station:    station
 Device:     equipment
 Revision:   1999
 [...]

options:
`

func main() {
	xmain(os.Stdout, os.Args[1:])
}

func xmain(w io.Writer, args []string) {
	log.SetPrefix("comtrade-dump: ")
	log.SetFlags(0)

	var (
		fset = flag.NewFlagSet("comtrade-dump", flag.ExitOnError)

		nsamples = fset.Int("n", 0, "number of samples to display")
		njobs    = fset.Int("j", 4, "number of records decoded concurrently")
	)

	fset.Usage = func() {
		fmt.Print(usage)
		fset.PrintDefaults()
	}

	err := fset.Parse(args)
	if err != nil {
		log.Fatalf("could not parse input arguments: %+v", err)
	}

	if fset.NArg() == 0 {
		fset.Usage()
		log.Fatalf("missing path to input record")
	}

	err = process(w, fset.Args(), *nsamples, *njobs)
	if err != nil {
		log.Fatalf("could not dump records: %+v", err)
	}
}

type item struct {
	rec *comtrade.Record
	sum uint16
}

func process(w io.Writer, fnames []string, nsamples, njobs int) error {
	var (
		grp   errgroup.Group
		items = make([]item, len(fnames))
	)
	if njobs > 0 {
		grp.SetLimit(njobs)
	}

	for i := range fnames {
		i := i
		grp.Go(func() error {
			rec, sum, err := rfile.Load(fnames[i])
			if err != nil {
				return fmt.Errorf("could not load record %q: %w", fnames[i], err)
			}
			items[i] = item{rec: rec, sum: sum}
			return nil
		})
	}

	err := grp.Wait()
	if err != nil {
		return err
	}

	wbuf := bufio.NewWriter(w)
	defer wbuf.Flush()

	for i, it := range items {
		dump(wbuf, fnames[i], it.rec, it.sum, nsamples)
	}

	return wbuf.Flush()
}

const stampLayout = "2006-01-02 15:04:05.000000000"

func dump(w io.Writer, name string, rec *comtrade.Record, sum uint16, nsamples int) {
	fmt.Fprintf(w, "=== %s ===\n", name)
	fmt.Fprintf(w, "Station:    %s\n", rec.Station)
	fmt.Fprintf(w, "Device:     %s\n", rec.Device)
	fmt.Fprintf(w, "Revision:   %v\n", rec.Revision)
	fmt.Fprintf(w, "Encoding:   %v\n", rec.Encoding)
	fmt.Fprintf(w, "Frequency:  %g Hz\n", rec.LineFreq)
	if rec.TimestampCritical() {
		fmt.Fprintf(w, "Rate:       time stamps (x%g %v)\n", rec.TimeMult, rec.Precision)
	}
	beg := uint32(1)
	for _, r := range rec.Rates {
		fmt.Fprintf(w, "Rate:       %g Hz (samples %d-%d)\n", r.Rate, beg, r.End)
		beg = r.End + 1
	}
	fmt.Fprintf(w, "Start:      %s\n", rec.Start.Format(stampLayout))
	fmt.Fprintf(w, "Trigger:    %s\n", rec.Trigger.Format(stampLayout))
	if rec.Revision == comtrade.Rev2013 {
		fmt.Fprintf(w, "Offsets:    utc=%s local=%s\n", offset(rec.UTCOffset), offset(rec.LocalOffset))
		if rec.Quality != nil {
			fmt.Fprintf(w, "Quality:    %v\n", *rec.Quality)
		}
		if rec.LeapSecond != nil {
			fmt.Fprintf(w, "Leap:       %v\n", *rec.LeapSecond)
		}
	}
	fmt.Fprintf(w, "Samples:    %d\n", rec.NumSamples())
	fmt.Fprintf(w, "Checksum:   0x%04x\n", sum)

	fmt.Fprintf(w, "Analogs:    %d\n", len(rec.Analogs))
	for _, ch := range rec.Analogs {
		lo, hi := minmax(ch.Data)
		fmt.Fprintf(w, "  A%02d %-8s [%s] min=%g max=%g\n", ch.Index, ch.Name, ch.Unit, lo, hi)
	}
	fmt.Fprintf(w, "Statuses:   %d\n", len(rec.Statuses))
	for _, ch := range rec.Statuses {
		fmt.Fprintf(w, "  D%02d %-8s normal=%d changes=%d\n", ch.Index, ch.Name, ch.Normal, changes(ch.Data))
	}

	n := nsamples
	if n > rec.NumSamples() {
		n = rec.NumSamples()
	}
	for i := 0; i < n; i++ {
		fmt.Fprintf(w, "  %6d %12.6f", rec.Samples[i], rec.Times[i])
		for _, ch := range rec.Analogs {
			fmt.Fprintf(w, " %g", ch.Data[i])
		}
		if len(rec.Statuses) > 0 {
			fmt.Fprint(w, " ")
		}
		for _, ch := range rec.Statuses {
			fmt.Fprintf(w, "%d", ch.Data[i])
		}
		fmt.Fprintln(w)
	}
}

func offset(o *comtrade.Offset) string {
	if o == nil {
		return "x"
	}
	return o.String()
}

func minmax(vs []float64) (lo, hi float64) {
	if len(vs) == 0 {
		return 0, 0
	}
	lo, hi = vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// changes returns the number of state changes of a status channel.
func changes(vs []uint8) int {
	n := 0
	for i := 1; i < len(vs); i++ {
		if vs[i] != vs[i-1] {
			n++
		}
	}
	return n
}
