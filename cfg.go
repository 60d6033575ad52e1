// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comtrade

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// readConfig parses the content of a configuration file into d.
func (d *draft) readConfig(r io.Reader) error {
	lr := newLineReader(r)

	for _, stanza := range []struct {
		label string
		read  func(lr *lineReader) error
		since Revision
	}{
		{"identity", d.readIdentity, Rev1991},
		{"channel sizes", d.readSizes, Rev1991},
		{"", d.readChannels, Rev1991},
		{"line frequency", d.readLineFreq, Rev1991},
		{"sampling rates", d.readRates, Rev1991},
		{"start time", d.readStart, Rev1991},
		{"trigger time", d.readTrigger, Rev1991},
		{"data encoding", d.readEncoding, Rev1991},
		{"time multiplier", d.readTimeMult, Rev1999},
		{"time offsets", d.readOffsets, Rev2013},
		{"time quality", d.readQuality, Rev2013},
	} {
		if d.rev < stanza.since {
			break
		}
		err := stanza.read(lr)
		if err != nil {
			return withField(err, stanza.label)
		}
	}
	return nil
}

// line reads the next line of the configuration and applies fct to it.
// fct must consume every token of the line.
func line(lr *lineReader, fct func(c *cursor) error) error {
	c, err := lr.next()
	if err != nil {
		return err
	}
	err = fct(c)
	if err != nil {
		return err
	}
	return c.done()
}

func (d *draft) readIdentity(lr *lineReader) error {
	return line(lr, func(c *cursor) error {
		var err error
		d.station, err = c.str("station")
		if err != nil {
			return err
		}
		d.device, err = c.str("device")
		if err != nil {
			return err
		}

		d.rev = Rev1991
		if c.more() {
			tok, _ := c.next("revision")
			rev, ok := parseRevision(tok)
			if !ok {
				return &Error{Kind: BadRevision, Field: "revision", Value: tok, Type: "1991, 1999 or 2013"}
			}
			d.rev = rev
		}
		d.set |= fIdentity
		return nil
	})
}

func (d *draft) readSizes(lr *lineReader) error {
	return line(lr, func(c *cursor) error {
		var err error
		d.nchans, err = c.int("total")
		if err != nil {
			return err
		}
		d.nanalogs, err = c.trailing("analog", "Aa")
		if err != nil {
			return err
		}
		d.nstatuses, err = c.trailing("status", "Dd")
		if err != nil {
			return err
		}
		switch {
		case d.nanalogs < 0:
			return &Error{Kind: InvalidValue, Field: "analog", Value: strconv.Itoa(d.nanalogs), Type: "channel count"}
		case d.nstatuses < 0:
			return &Error{Kind: InvalidValue, Field: "status", Value: strconv.Itoa(d.nstatuses), Type: "channel count"}
		}
		return nil
	})
}

func (d *draft) readChannels(lr *lineReader) error {
	d.analogs = make([]AnalogConfig, d.nanalogs)
	for i := range d.analogs {
		err := line(lr, func(c *cursor) error {
			return readAnalog(c, &d.analogs[i])
		})
		if err != nil {
			return withField(err, fmt.Sprintf("analog channel %d", i+1))
		}
	}

	d.statuses = make([]StatusConfig, d.nstatuses)
	for i := range d.statuses {
		err := line(lr, func(c *cursor) error {
			return readStatus(c, &d.statuses[i])
		})
		if err != nil {
			return withField(err, fmt.Sprintf("status channel %d", i+1))
		}
	}
	d.set |= fChannels
	return nil
}

func readAnalog(c *cursor, ch *AnalogConfig) error {
	var err error
	str := func(dst *string, field string) {
		if err == nil {
			*dst, err = c.str(field)
		}
	}
	num := func(dst *float64, field string) {
		if err == nil {
			*dst, err = c.float(field)
		}
	}

	ch.Index, err = c.index("index")
	str(&ch.Name, "name")
	str(&ch.Phase, "phase")
	str(&ch.Component, "component")
	str(&ch.Unit, "unit")
	num(&ch.Multiplier, "multiplier")
	num(&ch.Offset, "offset")
	num(&ch.Skew, "skew")
	num(&ch.Min, "min")
	num(&ch.Max, "max")
	num(&ch.Primary, "primary")
	num(&ch.Secondary, "secondary")
	if err != nil {
		return err
	}

	ch.Scaling, err = read(c, "scaling", "P or S", parseScalingMode)
	return err
}

func readStatus(c *cursor, ch *StatusConfig) error {
	var err error
	ch.Index, err = c.index("index")
	if err != nil {
		return err
	}
	ch.Name, err = c.str("name")
	if err != nil {
		return err
	}
	ch.Phase, err = c.str("phase")
	if err != nil {
		return err
	}
	ch.Component, err = c.str("component")
	if err != nil {
		return err
	}
	tok, err := c.next("normal")
	if err != nil {
		return err
	}
	switch tok {
	case "0":
		ch.Normal = 0
	case "1":
		ch.Normal = 1
	default:
		return &Error{Kind: InvalidNormalStatus, Field: "normal", Value: tok, Index: ch.Index}
	}
	return nil
}

func (d *draft) readLineFreq(lr *lineReader) error {
	return line(lr, func(c *cursor) error {
		var err error
		d.lineFreq, err = c.float("frequency")
		if err == nil {
			d.set |= fLineFreq
		}
		return err
	})
}

func (d *draft) readRates(lr *lineReader) error {
	var n int
	err := line(lr, func(c *cursor) error {
		var err error
		n, err = c.int("count")
		if err == nil && n < 0 {
			err = &Error{Kind: InvalidValue, Field: "count", Value: strconv.Itoa(n), Type: "rate count"}
		}
		return err
	})
	if err != nil {
		return err
	}

	if n == 0 {
		// no fixed rate: the next line holds the number of samples,
		// which is determined by the data file instead.
		if _, err := lr.next(); err != nil {
			return withField(err, "sample count")
		}
		d.rates = []SamplingRate{}
		d.critical = true
		d.set |= fRates
		return nil
	}

	d.rates = make([]SamplingRate, n)
	for i := range d.rates {
		rate := &d.rates[i]
		err := line(lr, func(c *cursor) error {
			var err error
			rate.Rate, err = c.float("rate")
			if err != nil {
				return err
			}
			rate.End, err = c.uint32("end sample")
			return err
		})
		if err != nil {
			return withField(err, fmt.Sprintf("rate %d", i+1))
		}
	}
	d.set |= fRates
	return nil
}

func (d *draft) readStart(lr *lineReader) error {
	return line(lr, func(c *cursor) error {
		var err error
		d.start, d.startPrec, err = readStamp(c, d.rev)
		if err == nil {
			d.set |= fStart
		}
		return err
	})
}

func (d *draft) readTrigger(lr *lineReader) error {
	return line(lr, func(c *cursor) error {
		var err error
		d.trigger, d.triggerPrec, err = readStamp(c, d.rev)
		if err == nil {
			d.set |= fTrigger
		}
		return err
	})
}

func (d *draft) readEncoding(lr *lineReader) error {
	return line(lr, func(c *cursor) error {
		var err error
		d.enc, err = read(c, "encoding", "ascii, binary, binary32 or float32", ParseEncoding)
		if err == nil {
			d.set |= fEncoding
		}
		return err
	})
}

func (d *draft) readTimeMult(lr *lineReader) error {
	return line(lr, func(c *cursor) error {
		var err error
		d.mult, err = c.float("factor")
		if err == nil {
			d.set |= fTimeMult
		}
		return err
	})
}

func (d *draft) readOffsets(lr *lineReader) error {
	return line(lr, func(c *cursor) error {
		var err error
		d.utc, err = read(c, "utc", "time offset", parseOffset)
		if err != nil {
			return err
		}
		d.local, err = read(c, "local", "time offset", parseOffset)
		if err != nil {
			return err
		}
		d.set |= fOffsets
		return nil
	})
}

func (d *draft) readQuality(lr *lineReader) error {
	return line(lr, func(c *cursor) error {
		q, err := read(c, "quality", "clock quality code", parseClockQuality)
		if err != nil {
			return err
		}
		ls, err := read(c, "leap second", "leap second code", parseLeapSecond)
		if err != nil {
			return err
		}
		d.quality = &q
		d.leap = &ls
		d.set |= fQuality
		return nil
	})
}

// parseOffset parses a time offset: "x" (not applicable), a signed
// number of hours ("-4", "+10") or hours and minutes ("-5h30", "+9h45").
func parseOffset(s string) (*Offset, error) {
	if s == "x" || s == "X" {
		return nil, nil
	}
	if h, err := strconv.Atoi(s); err == nil {
		o := Offset(h * 3600)
		return &o, nil
	}

	hs, ms, ok := strings.Cut(strings.ToLower(s), "h")
	if !ok {
		return nil, fmt.Errorf("invalid time offset %q", s)
	}
	hs = strings.TrimSpace(hs)
	h, err := strconv.Atoi(hs)
	if err != nil {
		return nil, fmt.Errorf("invalid hours in time offset %q: %w", s, err)
	}
	m, err := strconv.ParseUint(strings.TrimSpace(ms), 10, 8)
	if err != nil || m > 59 {
		return nil, fmt.Errorf("invalid minutes in time offset %q", s)
	}

	// the sign is carried by the hours, including "-0h30".
	o := Offset(h*3600 + int(m)*60)
	if strings.HasPrefix(hs, "-") {
		o = Offset(h*3600 - int(m)*60)
	}
	return &o, nil
}

func formatOffset(o *Offset) string {
	if o == nil {
		return "x"
	}
	v := int(*o)
	if v%3600 == 0 {
		return strconv.Itoa(v / 3600)
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%dh%02d", sign, v/3600, (v%3600)/60)
}
