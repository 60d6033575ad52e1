// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comtrade

// timebase turns sample indices and stored time stamps into elapsed
// times, in seconds.
type timebase struct {
	rates    []SamplingRate
	critical bool    // sample times come from the stored time stamps
	unit     float64 // duration of a time stamp tick, in seconds
	mult     float64 // time stamp multiplication factor
}

// realTime returns the time of the n-th sample.
// ok reports whether a time stamp ts was stored along with the sample.
func (tb *timebase) realTime(n, ts uint32, ok bool) (float64, error) {
	switch {
	case len(tb.rates) > 0 && (!tb.critical || !ok):
		return (float64(n) - 1) / tb.rateFor(n), nil
	case tb.critical && ok:
		return float64(ts) * tb.unit * tb.mult, nil
	default:
		return 0, &Error{Kind: MissingTimestamp, Index: int(n)}
	}
}

// rateFor returns the sampling rate of the n-th sample.
// Samples past the last segment are assigned a rate of 1 Hz.
func (tb *timebase) rateFor(n uint32) float64 {
	for _, r := range tb.rates {
		if r.End >= n {
			return r.Rate
		}
	}
	return 1
}

// total returns the number of samples declared by the rate table.
func (tb *timebase) total() int {
	var n uint32
	for _, r := range tb.rates {
		if r.End > n {
			n = r.End
		}
	}
	return int(n)
}
