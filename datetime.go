// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comtrade

import (
	"strings"
	"time"
)

const (
	dateLayout1991 = "1/2/2006" // mm/dd/yyyy
	dateLayout     = "2/1/2006" // dd/mm/yyyy
	timeLayout     = "15:04:05"
)

func dateLayoutOf(rev Revision) string {
	if rev == Rev1991 {
		return dateLayout1991
	}
	return dateLayout
}

// readStamp reads a "date,time" line.
// The precision of the time stamp is inferred from the number of
// fractional-second digits: up to 6 is µs, 7 and more is ns.
func readStamp(c *cursor, rev Revision) (time.Time, TimePrecision, error) {
	date, err := read(c, "date", "date", func(s string) (time.Time, error) {
		return time.Parse(dateLayoutOf(rev), s)
	})
	if err != nil {
		return time.Time{}, 0, err
	}

	tok, err := c.next("time")
	if err != nil {
		return time.Time{}, 0, err
	}
	clock, err := time.Parse(timeLayout, tok)
	if err != nil {
		return time.Time{}, 0, &Error{Kind: InvalidValue, Field: "time", Value: tok, Type: "time"}
	}
	prec, err := precisionOf(tok)
	if err != nil {
		return time.Time{}, 0, err
	}

	err = c.done()
	if err != nil {
		return time.Time{}, 0, err
	}

	ts := time.Date(
		date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(),
		time.UTC,
	)
	return ts, prec, nil
}

func precisionOf(tok string) (TimePrecision, error) {
	i := strings.LastIndexByte(tok, '.')
	if i < 0 || i == len(tok)-1 {
		return 0, &Error{Kind: UnknownPrecision, Field: "time", Value: tok}
	}
	if len(tok)-i-1 <= 6 {
		return Microseconds, nil
	}
	// digits past the nanosecond are truncated by time.Parse.
	return Nanoseconds, nil
}

// finer returns the finer of two precisions.
func finer(a, b TimePrecision) TimePrecision {
	if a == Nanoseconds || b == Nanoseconds {
		return Nanoseconds
	}
	return Microseconds
}

func formatStamp(ts time.Time, rev Revision, prec TimePrecision) string {
	date := "02/01/2006"
	if rev == Rev1991 {
		date = "01/02/2006"
	}
	clock := "15:04:05.000000"
	if prec == Nanoseconds {
		clock = "15:04:05.000000000"
	}
	return ts.Format(date) + separator + ts.Format(clock)
}
