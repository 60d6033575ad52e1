// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comtrade

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// noTimestamp marks an absent time stamp in binary data files.
const noTimestamp = 0xffffffff

// maxPrealloc bounds the number of samples allocated ahead of decoding.
const maxPrealloc = 1 << 16

// decoder decodes the samples of a data file.
type decoder struct {
	enc     Encoding
	analogs []AnalogConfig
	nstatus int
	tb      timebase
	total   int // expected number of samples, -1 when set by the data

	samples []uint32
	times   []float64
	adata   [][]float64
	sdata   [][]uint8

	raw   []float64 // scratch space for the raw analog values of a sample
	words []uint16  // scratch space for the status words of a sample
}

func newDecoder(enc Encoding, analogs []AnalogConfig, nstatus int, tb timebase) *decoder {
	total := -1
	if !tb.critical {
		total = tb.total()
	}
	dec := &decoder{
		enc:     enc,
		analogs: analogs,
		nstatus: nstatus,
		tb:      tb,
		total:   total,
		adata:   make([][]float64, len(analogs)),
		sdata:   make([][]uint8, nstatus),
		raw:     make([]float64, len(analogs)),
		words:   make([]uint16, ngroups(nstatus)),
	}
	if total > 0 {
		// the declared total is not trusted until the data is read.
		n := min(total, maxPrealloc)
		dec.samples = make([]uint32, 0, n)
		dec.times = make([]float64, 0, n)
		for i := range dec.adata {
			dec.adata[i] = make([]float64, 0, n)
		}
		for i := range dec.sdata {
			dec.sdata[i] = make([]uint8, 0, n)
		}
	}
	return dec
}

// ngroups returns the number of 16-bit status words needed to hold n
// status values.
func ngroups(n int) int {
	return (n + 15) / 16
}

func (dec *decoder) decode(r io.Reader) error {
	if dec.enc == ASCII {
		return dec.decodeASCII(r)
	}
	return dec.decodeBinary(r)
}

// push appends one sample, scaling the raw analog values.
func (dec *decoder) push(n, ts uint32, ok bool) error {
	t, err := dec.tb.realTime(n, ts, ok)
	if err != nil {
		return err
	}
	dec.samples = append(dec.samples, n)
	dec.times = append(dec.times, t)
	for i, ch := range dec.analogs {
		dec.adata[i] = append(dec.adata[i], dec.raw[i]*ch.Multiplier+ch.Offset)
	}
	return nil
}

func (dec *decoder) decodeASCII(r io.Reader) error {
	var (
		sc   = bufio.NewScanner(r)
		ncol = 2 + len(dec.analogs) + dec.nstatus
		row  = 0
	)
	sc.Buffer(make([]byte, 0, 4096), maxLine)

	for sc.Scan() {
		txt := strings.TrimSpace(sc.Text())
		if txt == "" {
			continue
		}
		row++
		err := dec.readRow(newCursor(txt), ncol)
		if err != nil {
			err = withField(err, fmt.Sprintf("data row %d", row))
			if e, ok := err.(*Error); ok && e.Index == 0 {
				e.Index = row
			}
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return &Error{
			Kind:  Decode,
			Index: row + 1,
			Err:   xerrors.Errorf("could not read data row %d: %w", row+1, err),
		}
	}

	if dec.total >= 0 && row != dec.total {
		return &Error{
			Kind: Decode,
			Err:  xerrors.Errorf("invalid number of samples (got=%d, want=%d)", row, dec.total),
		}
	}
	return nil
}

func (dec *decoder) readRow(c *cursor, ncol int) error {
	switch n := c.len(); {
	case n < ncol:
		return &Error{Kind: MissingElements, Value: strconv.Itoa(n), Type: fmt.Sprintf("%d columns", ncol)}
	case n > ncol:
		return &Error{Kind: TooManyElements, Value: strconv.Itoa(n), Type: fmt.Sprintf("%d columns", ncol)}
	}

	n, err := c.uint32("sample")
	if err != nil {
		return err
	}
	tok, _ := c.next("timestamp")
	var (
		ts uint32
		ok = tok != ""
	)
	if ok {
		ts, err = parseU32(tok)
		if err != nil {
			return &Error{Kind: InvalidValue, Field: "timestamp", Value: tok, Type: "unsigned integer"}
		}
	}

	for i := range dec.analogs {
		dec.raw[i], err = c.float(fmt.Sprintf("analog %d", i+1))
		if err != nil {
			return err
		}
	}

	for i := 0; i < dec.nstatus; i++ {
		field := fmt.Sprintf("status %d", i+1)
		v, err := read(c, field, "0 or 1", parseBit)
		if err != nil {
			return err
		}
		dec.sdata[i] = append(dec.sdata[i], v)
	}

	return dec.push(n, ts, ok)
}

func parseBit(s string) (uint8, error) {
	switch s {
	case "0":
		return 0, nil
	case "1":
		return 1, nil
	}
	return 0, fmt.Errorf("invalid status value %q", s)
}

func (dec *decoder) decodeBinary(r io.Reader) error {
	var (
		width = dec.enc.width()
		size  = 8 + width*len(dec.analogs) + 2*len(dec.words)
		buf   = make([]byte, size)
	)
	if width == 0 {
		return &Error{Kind: Unsupported, Value: fmt.Sprintf("binary data with %v encoding", dec.enc)}
	}

	for i := 0; dec.total < 0 || i < dec.total; i++ {
		_, err := io.ReadFull(r, buf)
		if err != nil {
			if xerrors.Is(err, io.EOF) {
				if dec.total < 0 {
					break
				}
				err = io.ErrUnexpectedEOF
			}
			return &Error{
				Kind:  Decode,
				Index: i + 1,
				Err:   xerrors.Errorf("could not read record %d: %w", i+1, err),
			}
		}

		var (
			n  = binary.LittleEndian.Uint32(buf[0:4])
			ts = binary.LittleEndian.Uint32(buf[4:8])
			p  = buf[8:]
		)
		for j := range dec.raw {
			dec.raw[j] = dec.analog(p[j*width:])
		}
		p = p[width*len(dec.raw):]
		for j := range dec.words {
			dec.words[j] = binary.LittleEndian.Uint16(p[2*j:])
		}
		dec.unpack()

		err = dec.push(n, ts, ts != noTimestamp)
		if err != nil {
			return withField(err, fmt.Sprintf("record %d", i+1))
		}
	}
	return nil
}

func (dec *decoder) analog(p []byte) float64 {
	switch dec.enc {
	case Binary16:
		return float64(int16(binary.LittleEndian.Uint16(p)))
	case Binary32:
		return float64(int32(binary.LittleEndian.Uint32(p)))
	case Float32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(p)))
	}
	panic("comtrade: invalid binary encoding " + dec.enc.String())
}

// unpack appends the status values held in the current status words.
func (dec *decoder) unpack() {
	for i := range dec.sdata {
		dec.sdata[i] = append(dec.sdata[i], bit(dec.words, i))
	}
}

// bit returns the i-th status value of a group of status words.
// Status values are packed least significant bit first.
func bit(words []uint16, i int) uint8 {
	return uint8(words[i/16]>>(i%16)) & 1
}

// pack packs status values into 16-bit words, least significant bit first.
func pack(dst []uint16, vs []uint8) []uint16 {
	dst = append(dst[:0], make([]uint16, ngroups(len(vs)))...)
	for i, v := range vs {
		if v != 0 {
			dst[i/16] |= 1 << (i % 16)
		}
	}
	return dst
}
