// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comtrade

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestCursor(t *testing.T) {
	c := newCursor(" 20 , 4A,16d ")
	if got, want := c.len(), 3; got != want {
		t.Fatalf("invalid number of tokens: got=%d, want=%d", got, want)
	}

	total, err := c.int("total")
	if err != nil {
		t.Fatalf("could not read total: %+v", err)
	}
	analog, err := c.trailing("analog", "Aa")
	if err != nil {
		t.Fatalf("could not read analog: %+v", err)
	}
	status, err := c.trailing("status", "Dd")
	if err != nil {
		t.Fatalf("could not read status: %+v", err)
	}
	if total != 20 || analog != 4 || status != 16 {
		t.Fatalf("invalid sizes: got=(%d, %d, %d), want=(20, 4, 16)", total, analog, status)
	}
	if err := c.done(); err != nil {
		t.Fatalf("unexpected trailing tokens: %+v", err)
	}

	_, err = c.next("extra")
	if !errors.Is(err, ErrMissingElements) {
		t.Fatalf("invalid error: got=%+v, want=%+v", err, ErrMissingElements)
	}
	if got, want := err.Error(), "comtrade: extra: missing line elements"; got != want {
		t.Fatalf("invalid error message:\ngot= %s\nwant=%s\n", got, want)
	}
}

func TestCursorIndex(t *testing.T) {
	for _, tc := range []struct {
		line string
		want int
	}{
		{"0", 0},
		{"1", 1},
		{" 42 ", 42},
		{"65536", 65536},
	} {
		t.Run(tc.line, func(t *testing.T) {
			got, err := newCursor(tc.line).index("index")
			if err != nil {
				t.Fatalf("could not read index: %+v", err)
			}
			if got != tc.want {
				t.Fatalf("invalid index: got=%d, want=%d", got, tc.want)
			}
		})
	}
}

func TestCursorErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		line string
		read func(c *cursor) error
		want string
	}{
		{
			name: "int",
			line: "x",
			read: func(c *cursor) error { _, err := c.int("total"); return err },
			want: `comtrade: total: invalid value "x" (want integer)`,
		},
		{
			name: "trailing",
			line: "4B",
			read: func(c *cursor) error { _, err := c.trailing("analog", "Aa"); return err },
			want: `comtrade: analog: invalid value "4B" (want integer)`,
		},
		{
			name: "index",
			line: "-1",
			read: func(c *cursor) error { _, err := c.index("index"); return err },
			want: `comtrade: index: invalid value "-1" (want unsigned integer)`,
		},
		{
			name: "uint32",
			line: "-1",
			read: func(c *cursor) error { _, err := c.uint32("end sample"); return err },
			want: `comtrade: end sample: invalid value "-1" (want unsigned integer)`,
		},
		{
			name: "float",
			line: "1.2.3",
			read: func(c *cursor) error { _, err := c.float("rate"); return err },
			want: `comtrade: rate: invalid value "1.2.3" (want float)`,
		},
		{
			name: "too-many",
			line: "1,2, 3",
			read: func(c *cursor) error {
				_, err := c.int("count")
				if err != nil {
					return err
				}
				return c.done()
			},
			want: `comtrade: too many line elements "2,3"`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.read(newCursor(tc.line))
			if err == nil {
				t.Fatalf("expected an error")
			}
			if got, want := err.Error(), tc.want; got != want {
				t.Fatalf("invalid error message:\ngot= %s\nwant=%s\n", got, want)
			}
		})
	}
}

func TestLineReader(t *testing.T) {
	lr := newLineReader(strings.NewReader("\ufeffst, dev\r\n1999\n"))

	c, err := lr.next()
	if err != nil {
		t.Fatalf("could not read line 1: %+v", err)
	}
	if got, want := c.toks, []string{"st", "dev"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid line 1:\ngot= %q\nwant=%q\n", got, want)
	}

	c, err = lr.next()
	if err != nil {
		t.Fatalf("could not read line 2: %+v", err)
	}
	if got, want := c.toks, []string{"1999"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid line 2:\ngot= %q\nwant=%q\n", got, want)
	}

	_, err = lr.next()
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("invalid error: got=%+v, want=%+v", err, ErrUnexpectedEOF)
	}
}
