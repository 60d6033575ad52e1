// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comtrade

import (
	"fmt"
	"strings"
	"time"
)

// Revision is a COMTRADE format revision.
type Revision uint8

const (
	Rev1991 Revision = iota
	Rev1999
	Rev2013
)

func (rev Revision) String() string {
	switch rev {
	case Rev1991:
		return "1991"
	case Rev1999:
		return "1999"
	case Rev2013:
		return "2013"
	}
	return fmt.Sprintf("Revision(%d)", uint8(rev))
}

func parseRevision(s string) (Revision, bool) {
	switch s {
	case "1991":
		return Rev1991, true
	case "1999":
		return Rev1999, true
	case "2013":
		return Rev2013, true
	}
	return 0, false
}

// Encoding describes how samples are laid out in a data file.
type Encoding uint8

const (
	ASCII    Encoding = iota // comma-separated text rows
	Binary16                 // little-endian records, int16 analog values
	Binary32                 // little-endian records, int32 analog values
	Float32                  // little-endian records, float32 analog values
)

func (enc Encoding) String() string {
	switch enc {
	case ASCII:
		return "ascii"
	case Binary16:
		return "binary"
	case Binary32:
		return "binary32"
	case Float32:
		return "float32"
	}
	return fmt.Sprintf("Encoding(%d)", uint8(enc))
}

// width returns the size in bytes of one analog value.
func (enc Encoding) width() int {
	switch enc {
	case Binary16:
		return 2
	case Binary32, Float32:
		return 4
	}
	return 0
}

// ParseEncoding parses a data-encoding token (ascii, binary, binary32
// or float32), case-insensitively.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ascii":
		return ASCII, nil
	case "binary":
		return Binary16, nil
	case "binary32":
		return Binary32, nil
	case "float32":
		return Float32, nil
	}
	return 0, fmt.Errorf("comtrade: unknown data encoding %q", s)
}

// ScalingMode tells whether the analog values of a channel are expressed
// in primary or secondary quantities.
type ScalingMode uint8

const (
	Primary ScalingMode = iota
	Secondary
)

func (mode ScalingMode) String() string {
	switch mode {
	case Primary:
		return "P"
	case Secondary:
		return "S"
	}
	return fmt.Sprintf("ScalingMode(%d)", uint8(mode))
}

func parseScalingMode(s string) (ScalingMode, error) {
	switch s {
	case "p", "P":
		return Primary, nil
	case "s", "S":
		return Secondary, nil
	}
	return 0, fmt.Errorf("invalid scaling mode %q", s)
}

// TimePrecision is the resolution of the start and trigger time stamps.
// It fixes the unit of the time stamps stored in the data file.
type TimePrecision uint8

const (
	Microseconds TimePrecision = iota
	Nanoseconds
)

// BaseUnit returns the duration, in seconds, of one time stamp tick.
func (p TimePrecision) BaseUnit() float64 {
	if p == Nanoseconds {
		return 1e-9
	}
	return 1e-6
}

func (p TimePrecision) String() string {
	switch p {
	case Microseconds:
		return "µs"
	case Nanoseconds:
		return "ns"
	}
	return fmt.Sprintf("TimePrecision(%d)", uint8(p))
}

// ClockState is the synchronization state of the recorder clock.
type ClockState uint8

const (
	Locked ClockState = iota
	Unlocked
	Failure
)

// ClockQuality is the clock-quality indicator of a 2013 record.
// Exponent is only meaningful for an Unlocked clock: the clock was
// accurate within 10^Exponent seconds.
type ClockQuality struct {
	State    ClockState
	Exponent int
}

func (q ClockQuality) String() string {
	switch q.State {
	case Locked:
		return "locked"
	case Failure:
		return "failure"
	case Unlocked:
		return fmt.Sprintf("unlocked(1e%d s)", q.Exponent)
	}
	return fmt.Sprintf("ClockQuality(%d)", uint8(q.State))
}

func parseClockQuality(s string) (ClockQuality, error) {
	switch s {
	case "F", "f":
		return ClockQuality{State: Failure}, nil
	case "B", "b":
		return ClockQuality{State: Unlocked, Exponent: 1}, nil
	case "A", "a":
		return ClockQuality{State: Unlocked, Exponent: 0}, nil
	case "0":
		return ClockQuality{State: Locked}, nil
	}
	if len(s) == 1 && '1' <= s[0] && s[0] <= '9' {
		return ClockQuality{State: Unlocked, Exponent: int(s[0]-'0') - 10}, nil
	}
	return ClockQuality{}, fmt.Errorf("invalid clock quality code %q", s)
}

// code returns the single-character code of q.
func (q ClockQuality) code() string {
	switch q.State {
	case Locked:
		return "0"
	case Failure:
		return "F"
	}
	switch {
	case q.Exponent >= 1:
		return "B"
	case q.Exponent == 0:
		return "A"
	case q.Exponent <= -9:
		return "1"
	}
	return string(rune('0' + q.Exponent + 10))
}

// LeapSecond is the leap-second indicator of a 2013 record.
type LeapSecond uint8

const (
	LeapNotPresent   LeapSecond = 0
	LeapAdded        LeapSecond = 1
	LeapSubtracted   LeapSecond = 2
	LeapNoCapability LeapSecond = 3
)

func (ls LeapSecond) String() string {
	switch ls {
	case LeapNotPresent:
		return "not-present"
	case LeapAdded:
		return "added"
	case LeapSubtracted:
		return "subtracted"
	case LeapNoCapability:
		return "no-capability"
	}
	return fmt.Sprintf("LeapSecond(%d)", uint8(ls))
}

func parseLeapSecond(s string) (LeapSecond, error) {
	switch s {
	case "0":
		return LeapNotPresent, nil
	case "1":
		return LeapAdded, nil
	case "2":
		return LeapSubtracted, nil
	case "3":
		return LeapNoCapability, nil
	}
	return 0, fmt.Errorf("invalid leap second code %q", s)
}

// Offset is a time offset from UTC, in seconds (negative west of UTC).
type Offset int

// Duration returns o as a time.Duration.
func (o Offset) Duration() time.Duration {
	return time.Duration(o) * time.Second
}

func (o Offset) String() string {
	return o.Duration().String()
}

// SamplingRate is one segment of the sampling-rate table.
// Samples up to and including End are taken at Rate (in Hz).
type SamplingRate struct {
	Rate float64
	End  uint32
}

// AnalogConfig describes an analog channel.
type AnalogConfig struct {
	Index      int // 1-based
	Name       string
	Phase      string
	Component  string // monitored circuit component
	Unit       string
	Min        float64
	Max        float64
	Multiplier float64
	Offset     float64
	Skew       float64 // in µs, not applied to the time axis
	Primary    float64
	Secondary  float64
	Scaling    ScalingMode
}

// AnalogChannel holds the scaled values of an analog channel.
type AnalogChannel struct {
	AnalogConfig
	Data []float64
}

// StatusConfig describes a digital status channel.
type StatusConfig struct {
	Index     int // 1-based
	Name      string
	Phase     string
	Component string // monitored circuit component
	Normal    uint8  // normal state, 0 or 1
}

// StatusChannel holds the values of a status channel.
type StatusChannel struct {
	StatusConfig
	Data []uint8
}

// Record is a fully decoded COMTRADE record.
type Record struct {
	Station  string
	Device   string
	Revision Revision

	Samples []uint32  // sample indices, as stored in the data file
	Times   []float64 // reconstructed sample times, in seconds

	Analogs  []AnalogChannel
	Statuses []StatusChannel

	LineFreq float64        // line frequency, in Hz
	Rates    []SamplingRate // empty when every sample carries its own time stamp

	Start     time.Time
	Trigger   time.Time
	Precision TimePrecision

	Encoding Encoding
	TimeMult float64 // time stamp multiplication factor

	UTCOffset   *Offset // nil when not applicable
	LocalOffset *Offset // nil when not applicable
	Quality     *ClockQuality
	LeapSecond  *LeapSecond

	Header string // content of the .hdr file
	Info   string // content of the .inf file
}

// NumSamples returns the number of samples held by rec.
func (rec *Record) NumSamples() int {
	return len(rec.Samples)
}

// TimestampCritical reports whether the sample times of rec are taken
// from the time stamps stored with each sample.
func (rec *Record) TimestampCritical() bool {
	return len(rec.Rates) == 0
}
