// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comtrade

import (
	"errors"
	"strings"
	"testing"
)

func TestParseSectionHeader(t *testing.T) {
	enc := func(v Encoding) *Encoding { return &v }

	for _, tc := range []struct {
		line string
		ok   bool
		typ  section
		enc  *Encoding
		size int64
		err  string
	}{
		{line: "--- file type: CFG ---", ok: true, typ: cfgSection, size: -1},
		{line: "--- File Type: dat ascii : 1234 ---", ok: true, typ: datSection, enc: enc(ASCII), size: 1234},
		{line: "--- file type: DAT BINARY: 10 ---", ok: true, typ: datSection, enc: enc(Binary16), size: 10},
		{line: "--- file type: DAT float32 ---", ok: true, typ: datSection, enc: enc(Float32), size: -1},
		{line: "--- file type: HDR: 12 ---", ok: true, typ: hdrSection, size: 12},
		{line: "---file type:inf---", ok: true, typ: infSection, size: -1},
		{line: "hello"},
		{line: "---"},
		{line: "--- comment ---"},
		{line: "--- file kind: cfg ---"},
		{line: "1,0,2,1"},
		{
			line: "--- file type: xyz ---",
			ok:   true,
			err:  `comtrade: file type: invalid value "xyz" (want cfg, dat, hdr or inf)`,
		},
		{
			line: "--- file type: dat hex ---",
			ok:   true,
			err:  `comtrade: encoding: invalid value "hex" (want data encoding)`,
		},
		{
			line: "--- file type: dat ascii: abc ---",
			ok:   true,
			err:  `comtrade: size: invalid value "abc" (want byte count)`,
		},
		{
			line: "--- file type: dat ascii: ---",
			ok:   true,
			err:  "comtrade: size: missing line elements",
		},
		{
			line: "--- file type: dat ascii: 12 13 ---",
			ok:   true,
			err:  `comtrade: too many line elements ": 12 13"`,
		},
	} {
		t.Run(tc.line, func(t *testing.T) {
			hdr, ok, err := parseSectionHeader(tc.line)
			if ok != tc.ok {
				t.Fatalf("invalid header detection: got=%v, want=%v", ok, tc.ok)
			}
			switch {
			case err != nil && tc.err == "":
				t.Fatalf("could not parse header: %+v", err)
			case err == nil && tc.err != "":
				t.Fatalf("expected an error")
			case err != nil:
				if got, want := err.Error(), tc.err; got != want {
					t.Fatalf("invalid error message:\ngot= %s\nwant=%s\n", got, want)
				}
				return
			}
			if !ok {
				return
			}

			if hdr.typ != tc.typ {
				t.Fatalf("invalid section: got=%v, want=%v", hdr.typ, tc.typ)
			}
			switch {
			case hdr.enc == nil && tc.enc != nil,
				hdr.enc != nil && tc.enc == nil,
				hdr.enc != nil && *hdr.enc != *tc.enc:
				t.Fatalf("invalid encoding: got=%v, want=%v", hdr.enc, tc.enc)
			}
			if hdr.size != tc.size {
				t.Fatalf("invalid size: got=%d, want=%d", hdr.size, tc.size)
			}
		})
	}
}

func TestSplitContainer(t *testing.T) {
	const raw = "\ufeff\r\n" +
		"--- file type: CFG ---\r\n" +
		"st,dev,2013\r\n" +
		"  3,1A,2D  \r\n" +
		"--- file type: HDR ---\r\n" +
		"some header\r\n" +
		"--- file type: DAT ASCII: 16 ---\r\n" +
		"1,0,1,0,1\r\n" +
		"--- file type: INF: 4 ---\r\n" +
		"info\r\n" +
		"--- file type: cfg ---\r\n" +
		"more cfg\r\n"

	sec, err := splitContainer(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("could not split container: %+v", err)
	}

	for _, tc := range []struct {
		name string
		got  string
		want string
	}{
		{"cfg", sec.cfg.String(), "st,dev,2013\n3,1A,2D\nmore cfg"},
		{"dat", sec.dat.String(), "1,0,1,0,1"},
		{"hdr", sec.hdr.String(), "some header"},
		{"inf", sec.inf.String(), "info"},
	} {
		if tc.got != tc.want {
			t.Fatalf("invalid %s section:\ngot= %q\nwant=%q\n", tc.name, tc.got, tc.want)
		}
	}
	if sec.enc == nil || *sec.enc != ASCII {
		t.Fatalf("invalid data encoding: %v", sec.enc)
	}
	if sec.size != 16 {
		t.Fatalf("invalid data size: got=%d, want=16", sec.size)
	}
}

func TestSplitContainerLeadingBlankLines(t *testing.T) {
	const raw = "\n  \r\n\t\n--- file type: CFG ---\nst,dev,2013\n"

	sec, err := splitContainer(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("could not split container: %+v", err)
	}
	if got, want := sec.cfg.String(), "st,dev,2013"; got != want {
		t.Fatalf("invalid cfg section:\ngot= %q\nwant=%q\n", got, want)
	}
}

func TestSplitContainerErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		raw  string
		err  *Error
		want string
	}{
		{
			name: "content-before-header",
			raw:  "st,dev,2013\n--- file type: CFG ---\n",
			err:  ErrContentBeforeHeader,
			want: "comtrade: content before first section header",
		},
		{
			name: "binary-data",
			raw:  "--- file type: CFG ---\nst,dev,2013\n--- file type: DAT BINARY: 90 ---\n",
			err:  ErrUnsupported,
			want: "comtrade: container line 3: unsupported: binary data inside a container",
		},
		{
			name: "invalid-type",
			raw:  "--- file type: CFG ---\n--- file type: EXE ---\n",
			err:  ErrInvalidValue,
			want: `comtrade: container line 2: file type: invalid value "EXE" (want cfg, dat, hdr or inf)`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := splitContainer(strings.NewReader(tc.raw))
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !errors.Is(err, tc.err) {
				t.Fatalf("invalid error kind: got=%+v, want=%v", err, tc.err.Kind)
			}
			if got, want := err.Error(), tc.want; got != want {
				t.Fatalf("invalid error message:\ngot= %s\nwant=%s\n", got, want)
			}
		})
	}
}
