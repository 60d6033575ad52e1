// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comtrade

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"
)

// stripData returns a copy of rec without its analog samples.
func stripData(rec *Record) *Record {
	o := *rec
	o.Analogs = make([]AnalogChannel, len(rec.Analogs))
	for i, ch := range rec.Analogs {
		o.Analogs[i] = AnalogChannel{AnalogConfig: ch.AnalogConfig}
	}
	return &o
}

func cmpRecords(t *testing.T, got, want *Record, tol float64) {
	t.Helper()

	if len(got.Analogs) != len(want.Analogs) {
		t.Fatalf("invalid number of analog channels: got=%d, want=%d", len(got.Analogs), len(want.Analogs))
	}
	for i := range want.Analogs {
		var (
			g = got.Analogs[i].Data
			w = want.Analogs[i].Data
		)
		if len(g) != len(w) {
			t.Fatalf("invalid analog channel %d length: got=%d, want=%d", i, len(g), len(w))
		}
		for j := range w {
			if diff := math.Abs(g[j] - w[j]); diff > tol {
				t.Fatalf("invalid analog channel %d sample %d: got=%v, want=%v", i, j, g[j], w[j])
			}
		}
	}

	if g, w := stripData(got), stripData(want); !reflect.DeepEqual(g, w) {
		t.Fatalf("invalid record:\ngot= %+v\nwant=%+v\n", g, w)
	}
}

func roundTrip(t *testing.T, rec *Record, enc Encoding) *Record {
	t.Helper()

	cp := *rec
	cp.Encoding = enc

	var cfg, dat bytes.Buffer
	err := WriteConfig(&cfg, &cp)
	if err != nil {
		t.Fatalf("could not write configuration: %+v", err)
	}
	err = NewEncoder(&dat, enc).Encode(&cp)
	if err != nil {
		t.Fatalf("could not encode samples: %+v", err)
	}

	got, err := NewParser(WithConfig(&cfg), WithData(&dat)).Parse()
	if err != nil {
		t.Fatalf("could not parse record: %+v\ncfg:\n%s", err, cfg.String())
	}
	return got
}

func TestEncoderRoundTrip(t *testing.T) {
	for _, name := range []string{
		"testdata/sample_2013_ascii",
		"testdata/sample_1999_bin",
	} {
		ref := parseFiles(t, name+".cfg", name+".dat")
		for _, enc := range []Encoding{ASCII, Binary16, Binary32, Float32} {
			t.Run(name+"-"+enc.String(), func(t *testing.T) {
				got := roundTrip(t, ref, enc)

				want := *ref
				want.Encoding = enc
				cmpRecords(t, got, &want, 1e-9)
			})
		}
	}
}

func TestEncoderCritical(t *testing.T) {
	const (
		unit = 1e-9
		mult = 2.0
	)
	stamps := []uint32{0, 1000, 2500, 2600}
	rec := &Record{
		Station:  "sub-station",
		Device:   "relay-7",
		Revision: Rev1999,
		Samples:  []uint32{1, 2, 3, 4},
		Times:    make([]float64, len(stamps)),
		Analogs: []AnalogChannel{
			{
				AnalogConfig: AnalogConfig{
					Index: 1, Name: "VA", Phase: "A", Unit: "V",
					Min: -1000, Max: 1000, Multiplier: 0.5, Offset: -1,
					Primary: 1, Secondary: 1, Scaling: Secondary,
				},
				Data: []float64{-1, 0, 49, -101},
			},
		},
		Statuses: []StatusChannel{
			{StatusConfig: StatusConfig{Index: 1, Name: "TRIP"}, Data: []uint8{0, 1, 1, 0}},
			{StatusConfig: StatusConfig{Index: 2, Name: "CLOSE", Normal: 1}, Data: []uint8{1, 1, 0, 0}},
			{StatusConfig: StatusConfig{Index: 3, Name: "ALARM"}, Data: []uint8{0, 0, 0, 1}},
		},
		LineFreq:  50,
		Rates:     []SamplingRate{},
		Start:     time.Date(2020, 2, 29, 23, 59, 59, 999999999, time.UTC),
		Trigger:   time.Date(2020, 3, 1, 0, 0, 0, 1500, time.UTC),
		Precision: Nanoseconds,
		TimeMult:  mult,
	}
	for i, ts := range stamps {
		rec.Times[i] = float64(ts) * unit * mult
	}

	for _, enc := range []Encoding{ASCII, Binary16, Binary32, Float32} {
		t.Run(enc.String(), func(t *testing.T) {
			got := roundTrip(t, rec, enc)
			if !got.TimestampCritical() {
				t.Fatalf("record is not time stamp critical: rates=%v", got.Rates)
			}

			want := *rec
			want.Encoding = enc
			cmpRecords(t, got, &want, 1e-12)
		})
	}
}

func TestEncoderClamp(t *testing.T) {
	rec := &Record{
		Revision: Rev1999,
		Samples:  []uint32{1},
		Times:    []float64{0},
		Analogs: []AnalogChannel{
			{AnalogConfig: AnalogConfig{Index: 1, Multiplier: 1}, Data: []float64{1e6}},
			{AnalogConfig: AnalogConfig{Index: 2, Multiplier: 1}, Data: []float64{-1e6}},
			{AnalogConfig: AnalogConfig{Index: 3, Multiplier: 1}, Data: []float64{1.6}},
		},
		Rates:     []SamplingRate{{Rate: 1000, End: 1}},
		Precision: Microseconds,
	}

	var buf bytes.Buffer
	err := NewEncoder(&buf, Binary16).Encode(rec)
	if err != nil {
		t.Fatalf("could not encode samples: %+v", err)
	}

	want := encodeRecords(
		binRecord{n: 1, ts: 0, analog: []any{int16(math.MaxInt16), int16(math.MinInt16), int16(2)}},
	)
	if got := buf.Bytes(); !bytes.Equal(got, want) {
		t.Fatalf("invalid encoded record:\ngot= %v\nwant=%v\n", got, want)
	}
}

func TestEncoderErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		rec  *Record
		enc  Encoding
		want string
	}{
		{
			name: "times",
			rec:  &Record{Samples: []uint32{1, 2}, Times: []float64{0}},
			want: "comtrade: inconsistent number of sample times (got=1, want=2)",
		},
		{
			name: "analog",
			rec: &Record{
				Samples: []uint32{1}, Times: []float64{0},
				Analogs: []AnalogChannel{{AnalogConfig: AnalogConfig{Index: 3}}},
			},
			want: "comtrade: analog channel 3: inconsistent number of samples (got=0, want=1)",
		},
		{
			name: "status",
			rec: &Record{
				Samples: []uint32{1}, Times: []float64{0},
				Statuses: []StatusChannel{{StatusConfig: StatusConfig{Index: 2}, Data: []uint8{0, 1}}},
			},
			want: "comtrade: status channel 2: inconsistent number of samples (got=2, want=1)",
		},
		{
			name: "encoding",
			rec:  &Record{Samples: []uint32{1}, Times: []float64{0}},
			enc:  Encoding(42),
			want: "comtrade: invalid data encoding " + Encoding(42).String(),
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := NewEncoder(new(bytes.Buffer), tc.enc).Encode(tc.rec)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if got, want := err.Error(), tc.want; got != want {
				t.Fatalf("invalid error:\ngot= %s\nwant=%s\n", got, want)
			}
		})
	}
}

func TestWriteContainer(t *testing.T) {
	ref := parseFiles(t,
		"testdata/sample_2013_ascii.cfg",
		"testdata/sample_2013_ascii.dat",
		"testdata/sample_2013_ascii.hdr",
	)
	ref.Info = "event=42"

	var buf bytes.Buffer
	err := WriteContainer(&buf, ref)
	if err != nil {
		t.Fatalf("could not write container: %+v", err)
	}
	if !strings.HasPrefix(buf.String(), "--- file type: CFG ---\n") {
		t.Fatalf("invalid container prefix:\n%s", buf.String()[:32])
	}

	got, err := NewParser(WithContainer(&buf)).Parse()
	if err != nil {
		t.Fatalf("could not parse container: %+v", err)
	}
	if g, w := got.Header, strings.TrimSpace(ref.Header); g != w {
		t.Fatalf("invalid header:\ngot= %q\nwant=%q\n", g, w)
	}
	got.Header = ref.Header
	cmpRecords(t, got, ref, 1e-9)
}

func TestWriteConfig(t *testing.T) {
	rec, err := parseCfg(cfgLines(Rev2013), cfgData)
	if err != nil {
		t.Fatalf("could not parse record: %+v", err)
	}

	var buf bytes.Buffer
	err = WriteConfig(&buf, rec)
	if err != nil {
		t.Fatalf("could not write configuration: %+v", err)
	}

	want := strings.Join([]string{
		"station,device,2013",
		"2,1A,1D",
		"1,IA,A,bus,A,0.5,1,0,-10,10,100,1,P",
		"7,TRIP,,bus,1",
		"50",
		"1",
		"1000,3",
		"31/12/1999,23:59:59.000001",
		"31/12/1999,23:59:59.000500",
		"ASCII",
		"2.5",
		"-5h30,x",
		"A,0",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("invalid configuration:\ngot:\n%s\nwant:\n%s\n", got, want)
	}
}
