// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comtrade

import (
	"testing"
	"time"
)

func TestReadStamp(t *testing.T) {
	for _, tc := range []struct {
		name string
		line string
		rev  Revision
		want time.Time
		prec TimePrecision
	}{
		{
			name: "rev-1991",
			line: "12/31/1999,12:31:59.123456",
			rev:  Rev1991,
			want: time.Date(1999, 12, 31, 12, 31, 59, 123456000, time.UTC),
			prec: Microseconds,
		},
		{
			name: "rev-1999",
			line: "31/12/1999,12:31:59.123456",
			rev:  Rev1999,
			want: time.Date(1999, 12, 31, 12, 31, 59, 123456000, time.UTC),
			prec: Microseconds,
		},
		{
			name: "rev-2013",
			line: "31/12/1999,12:31:59.123456",
			rev:  Rev2013,
			want: time.Date(1999, 12, 31, 12, 31, 59, 123456000, time.UTC),
			prec: Microseconds,
		},
		{
			name: "single-digits",
			line: "1/2/2011,5:55:30.75",
			rev:  Rev2013,
			want: time.Date(2011, 2, 1, 5, 55, 30, 750000000, time.UTC),
			prec: Microseconds,
		},
		{
			name: "5-digits",
			line: "31/12/1999,12:31:59.12345",
			rev:  Rev2013,
			want: time.Date(1999, 12, 31, 12, 31, 59, 123450000, time.UTC),
			prec: Microseconds,
		},
		{
			name: "3-digits",
			line: "31/12/1999,12:31:59.123",
			rev:  Rev2013,
			want: time.Date(1999, 12, 31, 12, 31, 59, 123000000, time.UTC),
			prec: Microseconds,
		},
		{
			name: "7-digits",
			line: "31/12/1999,12:31:59.1234567",
			rev:  Rev2013,
			want: time.Date(1999, 12, 31, 12, 31, 59, 123456700, time.UTC),
			prec: Nanoseconds,
		},
		{
			name: "9-digits",
			line: "31/12/1999,12:31:59.123456789",
			rev:  Rev2013,
			want: time.Date(1999, 12, 31, 12, 31, 59, 123456789, time.UTC),
			prec: Nanoseconds,
		},
		{
			name: "12-digits",
			line: "31/12/1999,12:31:59.123456789012",
			rev:  Rev2013,
			want: time.Date(1999, 12, 31, 12, 31, 59, 123456789, time.UTC),
			prec: Nanoseconds,
		},
		{
			name: "10-zeros",
			line: "01/01/2020,00:00:00.0000000000",
			rev:  Rev2013,
			want: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			prec: Nanoseconds,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, prec, err := readStamp(newCursor(tc.line), tc.rev)
			if err != nil {
				t.Fatalf("could not read time stamp: %+v", err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("invalid time stamp:\ngot= %v\nwant=%v\n", got, tc.want)
			}
			if prec != tc.prec {
				t.Fatalf("invalid precision: got=%v, want=%v", prec, tc.prec)
			}
		})
	}
}

func TestReadStampErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		line string
		rev  Revision
		want string
	}{
		{
			name: "no-fraction",
			line: "31/12/1999,12:31:59",
			rev:  Rev2013,
			want: `comtrade: time: could not determine time stamp precision "12:31:59"`,
		},
		{
			name: "month-day-swapped",
			line: "12/31/1999,12:31:59.000",
			rev:  Rev1999,
			want: `comtrade: date: invalid value "12/31/1999" (want date)`,
		},
		{
			name: "missing-time",
			line: "31/12/1999",
			rev:  Rev2013,
			want: "comtrade: time: missing line elements",
		},
		{
			name: "invalid-time",
			line: "31/12/1999,25:00:00.000",
			rev:  Rev2013,
			want: `comtrade: time: invalid value "25:00:00.000" (want time)`,
		},
		{
			name: "extra",
			line: "31/12/1999,12:00:00.000,x",
			rev:  Rev2013,
			want: `comtrade: too many line elements "x"`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := readStamp(newCursor(tc.line), tc.rev)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if got, want := err.Error(), tc.want; got != want {
				t.Fatalf("invalid error message:\ngot= %s\nwant=%s\n", got, want)
			}
		})
	}
}

func TestPrecision(t *testing.T) {
	for _, tc := range []struct {
		a, b TimePrecision
		want TimePrecision
	}{
		{Microseconds, Microseconds, Microseconds},
		{Microseconds, Nanoseconds, Nanoseconds},
		{Nanoseconds, Microseconds, Nanoseconds},
		{Nanoseconds, Nanoseconds, Nanoseconds},
	} {
		if got := finer(tc.a, tc.b); got != tc.want {
			t.Fatalf("finer(%v, %v): got=%v, want=%v", tc.a, tc.b, got, tc.want)
		}
	}

	if got, want := Microseconds.BaseUnit(), 1e-6; got != want {
		t.Fatalf("invalid base unit: got=%v, want=%v", got, want)
	}
	if got, want := Nanoseconds.BaseUnit(), 1e-9; got != want {
		t.Fatalf("invalid base unit: got=%v, want=%v", got, want)
	}
}

func TestFormatStamp(t *testing.T) {
	ts := time.Date(2011, 1, 12, 5, 55, 30, 750110000, time.UTC)
	for _, tc := range []struct {
		rev  Revision
		prec TimePrecision
		want string
	}{
		{Rev1991, Microseconds, "01/12/2011,05:55:30.750110"},
		{Rev1999, Microseconds, "12/01/2011,05:55:30.750110"},
		{Rev2013, Nanoseconds, "12/01/2011,05:55:30.750110000"},
	} {
		got := formatStamp(ts, tc.rev, tc.prec)
		if got != tc.want {
			t.Fatalf("invalid stamp:\ngot= %q\nwant=%q\n", got, tc.want)
		}
		back, prec, err := readStamp(newCursor(got), tc.rev)
		if err != nil {
			t.Fatalf("could not read back %q: %+v", got, err)
		}
		if !back.Equal(ts) || prec != tc.prec {
			t.Fatalf("invalid round trip: got=(%v, %v), want=(%v, %v)", back, prec, ts, tc.prec)
		}
	}
}
