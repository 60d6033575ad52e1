// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comtrade

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

const (
	separator = ","
	bom       = "\ufeff"
	maxLine   = 16 << 20
)

// lineReader yields the lines of a text stream, one cursor per line.
type lineReader struct {
	sc *bufio.Scanner
	n  int // number of lines read so far
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLine)
	return &lineReader{sc: sc}
}

func (lr *lineReader) next() (*cursor, error) {
	if !lr.sc.Scan() {
		if err := lr.sc.Err(); err != nil {
			return nil, &Error{
				Kind:  Decode,
				Index: lr.n + 1,
				Err:   xerrors.Errorf("could not read line %d: %w", lr.n+1, err),
			}
		}
		return nil, &Error{Kind: UnexpectedEOF}
	}
	line := lr.sc.Text()
	if lr.n == 0 {
		line = strings.TrimPrefix(line, bom)
	}
	lr.n++
	return newCursor(line), nil
}

// cursor walks the comma-separated tokens of a single line.
// Tokens are trimmed of surrounding white space.
type cursor struct {
	toks []string
	pos  int
}

func newCursor(line string) *cursor {
	toks := strings.Split(strings.TrimSpace(line), separator)
	for i, tok := range toks {
		toks[i] = strings.TrimSpace(tok)
	}
	return &cursor{toks: toks}
}

// len returns the total number of tokens of the line.
func (c *cursor) len() int { return len(c.toks) }

// more reports whether tokens remain to be read.
func (c *cursor) more() bool { return c.pos < len(c.toks) }

// next returns the next raw token.
func (c *cursor) next(field string) (string, error) {
	if c.pos >= len(c.toks) {
		return "", &Error{Kind: MissingElements, Field: field}
	}
	tok := c.toks[c.pos]
	c.pos++
	return tok, nil
}

// done checks that every token of the line has been consumed.
func (c *cursor) done() error {
	if c.pos < len(c.toks) {
		return &Error{
			Kind:  TooManyElements,
			Value: strings.Join(c.toks[c.pos:], separator),
		}
	}
	return nil
}

// read converts the next token with conv.
// A conversion failure is reported as an InvalidValue error holding the
// raw token and the expected type.
func read[T any](c *cursor, field, typ string, conv func(string) (T, error)) (T, error) {
	var v T
	tok, err := c.next(field)
	if err != nil {
		return v, err
	}
	v, err = conv(tok)
	if err != nil {
		return v, &Error{Kind: InvalidValue, Field: field, Value: tok, Type: typ}
	}
	return v, nil
}

// trailing reads the next token as an integer, after stripping one
// trailing character from the set chars, if present.
func (c *cursor) trailing(field, chars string) (int, error) {
	return read(c, field, "integer", func(s string) (int, error) {
		if n := len(s); n > 0 && strings.IndexByte(chars, s[n-1]) >= 0 {
			s = s[:n-1]
		}
		return strconv.Atoi(strings.TrimSpace(s))
	})
}

func (c *cursor) str(field string) (string, error) {
	return c.next(field)
}

func (c *cursor) int(field string) (int, error) {
	return read(c, field, "integer", strconv.Atoi)
}

func (c *cursor) index(field string) (int, error) {
	return read(c, field, "unsigned integer", func(s string) (int, error) {
		v, err := parseU32(s)
		return int(v), err
	})
}

func (c *cursor) uint32(field string) (uint32, error) {
	return read(c, field, "unsigned integer", parseU32)
}

func (c *cursor) float(field string) (float64, error) {
	return read(c, field, "float", parseF64)
}

func parseU32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	return uint32(v), err
}

func parseF64(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
