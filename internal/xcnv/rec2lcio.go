// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcnv

import (
	"fmt"
	"log"
	"time"

	"github.com/go-lpc/comtrade"
	"go-hep.org/x/hep/lcio"
)

// Record2LCIO writes rec as one LCIO run and event.
func Record2LCIO(w *lcio.Writer, rec *comtrade.Record, run int32, msg *log.Logger) error {
	msg.Printf("processing record %s/%s (%d samples)...", rec.Station, rec.Device, rec.NumSamples())

	err := w.WriteRunHeader(&lcio.RunHeader{
		RunNumber: run,
		Detector:  detector,
		Descr:     rec.Device,
		Params: lcio.Params{
			Floats: map[string][]float32{
				"LineFreq": {float32(rec.LineFreq)},
			},
			Strings: map[string][]string{
				"Station":  {rec.Station},
				"Device":   {rec.Device},
				"Revision": {rec.Revision.String()},
				"Encoding": {rec.Encoding.String()},
				"Trigger":  {rec.Trigger.Format(time.RFC3339Nano)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("could not write run header: %w", err)
	}

	var (
		n     = rec.NumSamples()
		times = &lcio.GenericObject{
			Data: []lcio.GenericObjectData{
				{I32s: make([]int32, n), F64s: rec.Times},
			},
		}
		analogs  = &lcio.GenericObject{Data: make([]lcio.GenericObjectData, len(rec.Analogs))}
		statuses = &lcio.GenericObject{Data: make([]lcio.GenericObjectData, len(rec.Statuses))}
		anames   = make([]string, len(rec.Analogs))
		aunits   = make([]string, len(rec.Analogs))
		snames   = make([]string, len(rec.Statuses))
	)
	for i, v := range rec.Samples {
		times.Data[0].I32s[i] = int32(v)
	}
	for i, ch := range rec.Analogs {
		analogs.Data[i] = lcio.GenericObjectData{
			I32s: []int32{int32(ch.Index)},
			F64s: ch.Data,
		}
		anames[i] = ch.Name
		aunits[i] = ch.Unit
	}
	for i, ch := range rec.Statuses {
		vs := make([]int32, 1+len(ch.Data))
		vs[0] = int32(ch.Index)
		for j, v := range ch.Data {
			vs[1+j] = int32(v)
		}
		statuses.Data[i] = lcio.GenericObjectData{I32s: vs}
		snames[i] = ch.Name
	}

	evt := lcio.Event{
		RunNumber:   run,
		EventNumber: 0,
		TimeStamp:   rec.Start.UnixNano(),
		Detector:    detector,
		Params: lcio.Params{
			Strings: map[string][]string{
				"AnalogNames": anames,
				"AnalogUnits": aunits,
				"StatusNames": snames,
			},
		},
	}
	evt.Add(timesColl, times)
	evt.Add(analogColl, analogs)
	evt.Add(statusColl, statuses)

	err = w.WriteEvent(&evt)
	if err != nil {
		return fmt.Errorf("could not write record event: %w", err)
	}

	return nil
}
