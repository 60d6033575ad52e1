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
)

// Encoder writes the samples of a record as a data (.dat) file.
type Encoder struct {
	w     *bufio.Writer
	enc   Encoding
	buf   []byte
	words []uint16
	bits  []uint8
	err   error
}

// NewEncoder returns a new Encoder that writes samples to w, with
// the given encoding.
func NewEncoder(w io.Writer, enc Encoding) *Encoder {
	return &Encoder{
		w:   bufio.NewWriter(w),
		enc: enc,
		buf: make([]byte, 64),
	}
}

// Encode writes all the samples of rec.
// Analog values are converted back to raw values with the multiplier
// and offset of their channel.
func (enc *Encoder) Encode(rec *Record) error {
	if rec == nil {
		return nil
	}
	if err := checkRecord(rec); err != nil {
		return err
	}

	switch enc.enc {
	case ASCII:
		for i := range rec.Samples {
			enc.writeRow(rec, i)
		}
	case Binary16, Binary32, Float32:
		for i := range rec.Samples {
			enc.writeRecord(rec, i)
		}
	default:
		return fmt.Errorf("comtrade: invalid data encoding %v", enc.enc)
	}
	if enc.err != nil {
		return fmt.Errorf("comtrade: could not write samples: %w", enc.err)
	}

	err := enc.w.Flush()
	if err != nil {
		return fmt.Errorf("comtrade: could not flush samples: %w", err)
	}
	return nil
}

func checkRecord(rec *Record) error {
	n := len(rec.Samples)
	if len(rec.Times) != n {
		return fmt.Errorf("comtrade: inconsistent number of sample times (got=%d, want=%d)", len(rec.Times), n)
	}
	for _, ch := range rec.Analogs {
		if len(ch.Data) != n {
			return fmt.Errorf("comtrade: analog channel %d: inconsistent number of samples (got=%d, want=%d)", ch.Index, len(ch.Data), n)
		}
	}
	for _, ch := range rec.Statuses {
		if len(ch.Data) != n {
			return fmt.Errorf("comtrade: status channel %d: inconsistent number of samples (got=%d, want=%d)", ch.Index, len(ch.Data), n)
		}
	}
	return nil
}

// stamp returns the raw time stamp of the i-th sample.
func stamp(rec *Record, i int) (uint32, bool) {
	mult := rec.TimeMult
	if mult == 0 {
		mult = 1
	}
	v := math.Round(rec.Times[i] / (rec.Precision.BaseUnit() * mult))
	if math.IsNaN(v) || v < 0 || v >= noTimestamp {
		return 0, false
	}
	return uint32(v), true
}

func unscale(ch *AnalogChannel, i int) float64 {
	if ch.Multiplier == 0 {
		return 0
	}
	return (ch.Data[i] - ch.Offset) / ch.Multiplier
}

func (enc *Encoder) writeRow(rec *Record, i int) {
	p := enc.buf[:0]
	p = strconv.AppendUint(p, uint64(rec.Samples[i]), 10)
	p = append(p, ',')
	if ts, ok := stamp(rec, i); ok {
		p = strconv.AppendUint(p, uint64(ts), 10)
	}
	for j := range rec.Analogs {
		p = append(p, ',')
		p = strconv.AppendFloat(p, unscale(&rec.Analogs[j], i), 'g', -1, 64)
	}
	for _, ch := range rec.Statuses {
		p = append(p, ',', '0'+ch.Data[i]&1)
	}
	p = append(p, '\n')
	enc.buf = p[:0]
	enc.write(p)
}

func (enc *Encoder) writeRecord(rec *Record, i int) {
	enc.writeU32(rec.Samples[i])
	ts, ok := stamp(rec, i)
	if !ok {
		ts = noTimestamp
	}
	enc.writeU32(ts)

	for j := range rec.Analogs {
		raw := unscale(&rec.Analogs[j], i)
		switch enc.enc {
		case Binary16:
			enc.writeU16(uint16(int16(clamp(raw, math.MinInt16, math.MaxInt16))))
		case Binary32:
			enc.writeU32(uint32(int32(clamp(raw, math.MinInt32, math.MaxInt32))))
		case Float32:
			enc.writeU32(math.Float32bits(float32(raw)))
		}
	}

	enc.bits = enc.bits[:0]
	for _, ch := range rec.Statuses {
		enc.bits = append(enc.bits, ch.Data[i])
	}
	enc.words = pack(enc.words, enc.bits)
	for _, w := range enc.words {
		enc.writeU16(w)
	}
}

func clamp(v, lo, hi float64) float64 {
	v = math.Round(v)
	switch {
	case math.IsNaN(v):
		return 0
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

func (enc *Encoder) write(p []byte) {
	if enc.err != nil {
		return
	}
	_, enc.err = enc.w.Write(p)
}

func (enc *Encoder) writeU16(v uint16) {
	const n = 2
	binary.LittleEndian.PutUint16(enc.buf[:n], v)
	enc.write(enc.buf[:n])
}

func (enc *Encoder) writeU32(v uint32) {
	const n = 4
	binary.LittleEndian.PutUint32(enc.buf[:n], v)
	enc.write(enc.buf[:n])
}
