// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comtrade

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteConfig writes the configuration (.cfg) file describing rec.
// Fields that do not exist in the revision of rec are not written.
func WriteConfig(w io.Writer, rec *Record) error {
	o := bufio.NewWriter(w)
	ff := func(v float64) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	fmt.Fprintf(o, "%s,%s,%s\n", rec.Station, rec.Device, rec.Revision)
	fmt.Fprintf(o, "%d,%dA,%dD\n", len(rec.Analogs)+len(rec.Statuses), len(rec.Analogs), len(rec.Statuses))
	for _, ch := range rec.Analogs {
		fmt.Fprintln(o, strings.Join([]string{
			strconv.Itoa(ch.Index), ch.Name, ch.Phase, ch.Component, ch.Unit,
			ff(ch.Multiplier), ff(ch.Offset), ff(ch.Skew),
			ff(ch.Min), ff(ch.Max),
			ff(ch.Primary), ff(ch.Secondary),
			ch.Scaling.String(),
		}, separator))
	}
	for _, ch := range rec.Statuses {
		fmt.Fprintf(o, "%d,%s,%s,%s,%d\n", ch.Index, ch.Name, ch.Phase, ch.Component, ch.Normal)
	}

	fmt.Fprintf(o, "%s\n", ff(rec.LineFreq))
	fmt.Fprintf(o, "%d\n", len(rec.Rates))
	if len(rec.Rates) == 0 {
		fmt.Fprintf(o, "0,%d\n", len(rec.Samples))
	}
	for _, r := range rec.Rates {
		fmt.Fprintf(o, "%s,%d\n", ff(r.Rate), r.End)
	}
	fmt.Fprintln(o, formatStamp(rec.Start, rec.Revision, rec.Precision))
	fmt.Fprintln(o, formatStamp(rec.Trigger, rec.Revision, rec.Precision))
	fmt.Fprintln(o, strings.ToUpper(rec.Encoding.String()))

	if rec.Revision >= Rev1999 {
		mult := rec.TimeMult
		if mult == 0 {
			mult = 1
		}
		fmt.Fprintln(o, ff(mult))
	}

	if rec.Revision >= Rev2013 {
		fmt.Fprintf(o, "%s,%s\n", formatOffset(rec.UTCOffset), formatOffset(rec.LocalOffset))
		var (
			quality = "0"
			leap    = LeapNoCapability
		)
		if rec.Quality != nil {
			quality = rec.Quality.code()
		}
		if rec.LeapSecond != nil {
			leap = *rec.LeapSecond
		}
		fmt.Fprintf(o, "%s,%d\n", quality, leap)
	}

	err := o.Flush()
	if err != nil {
		return fmt.Errorf("comtrade: could not write configuration: %w", err)
	}
	return nil
}

// WriteContainer writes rec as a combined (.cff) file, with ASCII data.
func WriteContainer(w io.Writer, rec *Record) error {
	cp := *rec
	cp.Encoding = ASCII

	var cfg, dat bytes.Buffer
	err := WriteConfig(&cfg, &cp)
	if err != nil {
		return err
	}
	err = NewEncoder(&dat, ASCII).Encode(&cp)
	if err != nil {
		return err
	}

	o := bufio.NewWriter(w)
	section := func(hdr string, body []byte) {
		fmt.Fprintf(o, "--- file type: %s ---\n", hdr)
		o.Write(body)
		if n := len(body); n > 0 && body[n-1] != '\n' {
			o.WriteByte('\n')
		}
	}
	section("CFG", cfg.Bytes())
	section(fmt.Sprintf("DAT ASCII: %d", dat.Len()), dat.Bytes())
	section(fmt.Sprintf("HDR: %d", len(rec.Header)), []byte(rec.Header))
	section(fmt.Sprintf("INF: %d", len(rec.Info)), []byte(rec.Info))

	err = o.Flush()
	if err != nil {
		return fmt.Errorf("comtrade: could not write container: %w", err)
	}
	return nil
}
