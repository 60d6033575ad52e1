// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comtrade

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// section identifies the companion files held in a container.
type section uint8

const (
	noSection section = iota
	cfgSection
	datSection
	hdrSection
	infSection
)

func (s section) String() string {
	switch s {
	case cfgSection:
		return "cfg"
	case datSection:
		return "dat"
	case hdrSection:
		return "hdr"
	case infSection:
		return "inf"
	}
	return "none"
}

// sectionHeader is a parsed container section header:
//
//	--- file type: TYPE [ENCODING] [: SIZE] ---
type sectionHeader struct {
	typ  section
	enc  *Encoding
	size int64 // -1 when not declared
}

const headerMark = "---"

// parseSectionHeader parses a container section header.
// ok is false when line does not have the shape of a header.
func parseSectionHeader(line string) (hdr sectionHeader, ok bool, err error) {
	hdr.size = -1
	if len(line) < 2*len(headerMark) ||
		!strings.HasPrefix(line, headerMark) ||
		!strings.HasSuffix(line, headerMark) {
		return hdr, false, nil
	}
	inner := line[len(headerMark) : len(line)-len(headerMark)]
	toks := strings.Fields(strings.ReplaceAll(inner, ":", " : "))
	if len(toks) < 4 ||
		!strings.EqualFold(toks[0], "file") ||
		!strings.EqualFold(toks[1], "type") ||
		toks[2] != ":" {
		return hdr, false, nil
	}

	switch strings.ToLower(toks[3]) {
	case "cfg":
		hdr.typ = cfgSection
	case "dat":
		hdr.typ = datSection
	case "hdr":
		hdr.typ = hdrSection
	case "inf":
		hdr.typ = infSection
	default:
		return hdr, true, &Error{Kind: InvalidValue, Field: "file type", Value: toks[3], Type: "cfg, dat, hdr or inf"}
	}

	rest := toks[4:]
	if len(rest) > 0 && rest[0] != ":" {
		enc, err := ParseEncoding(rest[0])
		if err != nil {
			return hdr, true, &Error{Kind: InvalidValue, Field: "encoding", Value: rest[0], Type: "data encoding"}
		}
		hdr.enc = &enc
		rest = rest[1:]
	}

	switch len(rest) {
	case 0:
	case 2:
		if rest[0] != ":" {
			return hdr, true, &Error{Kind: TooManyElements, Value: strings.Join(rest, " ")}
		}
		hdr.size, err = strconv.ParseInt(rest[1], 10, 64)
		if err != nil || hdr.size < 0 {
			return hdr, true, &Error{Kind: InvalidValue, Field: "size", Value: rest[1], Type: "byte count"}
		}
	case 1:
		return hdr, true, &Error{Kind: MissingElements, Field: "size"}
	default:
		return hdr, true, &Error{Kind: TooManyElements, Value: strings.Join(rest, " ")}
	}
	return hdr, true, nil
}

// sections holds the content of the companion files of a container.
type sections struct {
	cfg, dat, hdr, inf strings.Builder

	enc  *Encoding // data encoding declared by the dat section header
	size int64     // data size declared by the dat section header, -1 if absent
}

func (sec *sections) buffer(s section) *strings.Builder {
	switch s {
	case cfgSection:
		return &sec.cfg
	case datSection:
		return &sec.dat
	case hdrSection:
		return &sec.hdr
	case infSection:
		return &sec.inf
	}
	panic(fmt.Errorf("comtrade: invalid container section %d", s))
}

// splitContainer splits a container stream into its sections.
// Only ASCII data sections are supported.
func splitContainer(r io.Reader) (*sections, error) {
	var (
		sc  = bufio.NewScanner(r)
		sec = &sections{size: -1}
		cur = noSection
		n   = 0
	)
	sc.Buffer(make([]byte, 0, 4096), maxLine)

	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if n == 1 {
			line = strings.TrimPrefix(line, bom)
		}

		hdr, ok, err := parseSectionHeader(line)
		if err != nil {
			return nil, withField(err, fmt.Sprintf("container line %d", n))
		}
		if ok {
			cur = hdr.typ
			if cur == datSection {
				sec.size = hdr.size
				if hdr.enc != nil {
					sec.enc = hdr.enc
					if *hdr.enc != ASCII {
						return nil, &Error{
							Kind:  Unsupported,
							Field: fmt.Sprintf("container line %d", n),
							Value: fmt.Sprintf("%v data inside a container", *hdr.enc),
						}
					}
				}
			}
			continue
		}

		if cur == noSection {
			if line == "" {
				continue
			}
			return nil, &Error{Kind: ContentBeforeHeader, Index: n, Value: line}
		}

		buf := sec.buffer(cur)
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(line)
	}

	if err := sc.Err(); err != nil {
		return nil, &Error{
			Kind: Decode,
			Err:  xerrors.Errorf("could not read container line %d: %w", n+1, err),
		}
	}
	return sec, nil
}
