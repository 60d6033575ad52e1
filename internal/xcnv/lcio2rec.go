// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcnv

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/go-lpc/comtrade"
	"go-hep.org/x/hep/lcio"
)

// LCIO2Record reads back the records stored in an LCIO file by Record2LCIO.
// Only the identity, the channel names and the samples are restored.
func LCIO2Record(r *lcio.Reader, msg *log.Logger) ([]*comtrade.Record, error) {
	var recs []*comtrade.Record

	for r.Next() {
		var (
			rhdr = r.RunHeader()
			evt  = r.Event()
		)
		if evt.Detector != detector {
			return nil, fmt.Errorf("could not convert event %d: detector %q is not a record", evt.EventNumber, evt.Detector)
		}

		rec, err := recordFrom(&rhdr, &evt)
		if err != nil {
			return nil, fmt.Errorf("could not convert event %d of run %d: %w", evt.EventNumber, evt.RunNumber, err)
		}
		msg.Printf("read record %s/%s (%d samples)", rec.Station, rec.Device, rec.NumSamples())
		recs = append(recs, rec)
	}

	err := r.Err()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("could not read LCIO file: %w", err)
	}

	return recs, nil
}

func recordFrom(rhdr *lcio.RunHeader, evt *lcio.Event) (*comtrade.Record, error) {
	str := func(k string) string {
		if vs := rhdr.Params.Strings[k]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}

	rec := &comtrade.Record{
		Station: str("Station"),
		Device:  str("Device"),
		Start:   time.Unix(0, evt.TimeStamp).UTC(),
	}
	if vs := rhdr.Params.Floats["LineFreq"]; len(vs) > 0 {
		rec.LineFreq = float64(vs[0])
	}

	var err error
	switch str("Revision") {
	case "1991":
		rec.Revision = comtrade.Rev1991
	case "1999":
		rec.Revision = comtrade.Rev1999
	case "2013":
		rec.Revision = comtrade.Rev2013
	default:
		return nil, fmt.Errorf("invalid revision %q", str("Revision"))
	}
	rec.Encoding, err = comtrade.ParseEncoding(str("Encoding"))
	if err != nil {
		return nil, fmt.Errorf("invalid encoding: %w", err)
	}
	rec.Trigger, err = time.Parse(time.RFC3339Nano, str("Trigger"))
	if err != nil {
		return nil, fmt.Errorf("invalid trigger time: %w", err)
	}

	coll := func(name string) (*lcio.GenericObject, error) {
		v, ok := evt.Get(name).(*lcio.GenericObject)
		if !ok || v == nil {
			return nil, fmt.Errorf("missing collection %q", name)
		}
		return v, nil
	}

	times, err := coll(timesColl)
	if err != nil {
		return nil, err
	}
	if len(times.Data) != 1 || len(times.Data[0].I32s) != len(times.Data[0].F64s) {
		return nil, fmt.Errorf("invalid %s collection", timesColl)
	}
	n := len(times.Data[0].I32s)
	rec.Samples = make([]uint32, n)
	for i, v := range times.Data[0].I32s {
		rec.Samples[i] = uint32(v)
	}
	rec.Times = append([]float64(nil), times.Data[0].F64s...)

	var (
		anames = evt.Params.Strings["AnalogNames"]
		aunits = evt.Params.Strings["AnalogUnits"]
		snames = evt.Params.Strings["StatusNames"]
	)

	analogs, err := coll(analogColl)
	if err != nil {
		return nil, err
	}
	if len(anames) != len(analogs.Data) || len(aunits) != len(analogs.Data) {
		return nil, fmt.Errorf("invalid number of analog channel names")
	}
	rec.Analogs = make([]comtrade.AnalogChannel, len(analogs.Data))
	for i, d := range analogs.Data {
		if len(d.I32s) != 1 || len(d.F64s) != n {
			return nil, fmt.Errorf("invalid analog channel %d", i+1)
		}
		ch := &rec.Analogs[i]
		ch.Index = int(d.I32s[0])
		ch.Name = anames[i]
		ch.Unit = aunits[i]
		ch.Data = append([]float64(nil), d.F64s...)
	}

	statuses, err := coll(statusColl)
	if err != nil {
		return nil, err
	}
	if len(snames) != len(statuses.Data) {
		return nil, fmt.Errorf("invalid number of status channel names")
	}
	rec.Statuses = make([]comtrade.StatusChannel, len(statuses.Data))
	for i, d := range statuses.Data {
		if len(d.I32s) != 1+n {
			return nil, fmt.Errorf("invalid status channel %d", i+1)
		}
		ch := &rec.Statuses[i]
		ch.Index = int(d.I32s[0])
		ch.Name = snames[i]
		ch.Data = make([]uint8, n)
		for j, v := range d.I32s[1:] {
			ch.Data[j] = uint8(v)
		}
	}

	return rec, nil
}
