// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comtrade

import (
	"io"
	"strings"
	"time"

	"golang.org/x/xerrors"
)

// Option configures a Parser.
type Option func(p *Parser)

// WithContainer sets the combined (.cff) input stream.
// It can not be used together with the separate streams.
func WithContainer(r io.Reader) Option {
	return func(p *Parser) { p.cff = r }
}

// WithConfig sets the configuration (.cfg) input stream.
func WithConfig(r io.Reader) Option {
	return func(p *Parser) { p.cfg = r }
}

// WithData sets the data (.dat) input stream.
func WithData(r io.Reader) Option {
	return func(p *Parser) { p.dat = r }
}

// WithHeader sets the optional header (.hdr) input stream.
func WithHeader(r io.Reader) Option {
	return func(p *Parser) { p.hdr = r }
}

// WithInfo sets the optional information (.inf) input stream.
func WithInfo(r io.Reader) Option {
	return func(p *Parser) { p.inf = r }
}

// Parser decodes a COMTRADE record from its input streams.
// A Parser consumes its inputs: Parse should be called only once.
type Parser struct {
	cff io.Reader
	cfg io.Reader
	dat io.Reader
	hdr io.Reader
	inf io.Reader
}

// NewParser creates a parser reading from the streams given as options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse decodes the whole record.
// Parse returns either a complete record or an error, never both.
func (p *Parser) Parse() (*Record, error) {
	var (
		d   draft
		sec *sections
	)

	cfg, dat, hdr, inf := p.cfg, p.dat, p.hdr, p.inf
	if p.cff != nil {
		if cfg != nil || dat != nil || hdr != nil || inf != nil {
			return nil, &Error{Kind: Unsupported, Value: "container combined with separate input streams"}
		}
		var err error
		sec, err = splitContainer(p.cff)
		if err != nil {
			return nil, err
		}
		cfg = strings.NewReader(sec.cfg.String())
		dat = strings.NewReader(sec.dat.String())
		hdr = strings.NewReader(sec.hdr.String())
		inf = strings.NewReader(sec.inf.String())
	}

	switch {
	case cfg == nil:
		return nil, &Error{Kind: MissingInput, Value: "configuration"}
	case dat == nil:
		return nil, &Error{Kind: MissingInput, Value: "data"}
	}

	err := d.readConfig(cfg)
	if err != nil {
		return nil, err
	}

	if sec != nil {
		if sec.enc != nil {
			d.enc = *sec.enc
		}
		if d.enc != ASCII {
			return nil, &Error{Kind: Unsupported, Value: d.enc.String() + " data inside a container"}
		}
	}

	err = d.readData(dat)
	if err != nil {
		return nil, err
	}

	d.hdr, err = readText(hdr, "header")
	if err != nil {
		return nil, err
	}
	d.inf, err = readText(inf, "info")
	if err != nil {
		return nil, err
	}

	return d.finalize()
}

func readText(r io.Reader, name string) (string, error) {
	if r == nil {
		return "", nil
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", &Error{Kind: Decode, Err: xerrors.Errorf("could not read %s: %w", name, err)}
	}
	return string(raw), nil
}

// fields is the set of record fields collected by a draft.
type fields uint16

const (
	fIdentity fields = 1 << iota
	fChannels
	fLineFreq
	fRates
	fStart
	fTrigger
	fEncoding
	fTimeMult
	fOffsets
	fQuality
	fData
)

// requiredFields lists the fields of a record, by revision of appearance.
var requiredFields = []struct {
	f    fields
	name string
}{
	{fIdentity, "identity"},
	{fChannels, "channels"},
	{fLineFreq, "line frequency"},
	{fRates, "sampling rates"},
	{fStart, "start time"},
	{fTrigger, "trigger time"},
	{fEncoding, "data encoding"},
	{fData, "data"},
	{fTimeMult, "time multiplier"}, // 1999
	{fOffsets, "time offsets"},     // 2013
	{fQuality, "time quality"},     // 2013
}

// draft accumulates the state of a record while it is being parsed.
type draft struct {
	set fields

	station string
	device  string
	rev     Revision

	nchans    int // declared total number of channels
	nanalogs  int
	nstatuses int
	analogs   []AnalogConfig
	statuses  []StatusConfig

	lineFreq float64
	rates    []SamplingRate
	critical bool

	start       time.Time
	startPrec   TimePrecision
	trigger     time.Time
	triggerPrec TimePrecision

	enc     Encoding
	mult    float64
	utc     *Offset
	local   *Offset
	quality *ClockQuality
	leap    *LeapSecond

	samples []uint32
	times   []float64
	adata   [][]float64
	sdata   [][]uint8

	hdr string
	inf string
}

func (d *draft) timeMult() float64 {
	if d.set&fTimeMult == 0 {
		return 1
	}
	return d.mult
}

func (d *draft) readData(r io.Reader) error {
	tb := timebase{
		rates:    d.rates,
		critical: d.critical,
		unit:     finer(d.startPrec, d.triggerPrec).BaseUnit(),
		mult:     d.timeMult(),
	}
	dec := newDecoder(d.enc, d.analogs, len(d.statuses), tb)
	err := dec.decode(r)
	if err != nil {
		return err
	}
	d.samples = dec.samples
	d.times = dec.times
	d.adata = dec.adata
	d.sdata = dec.sdata
	d.set |= fData
	return nil
}

// finalize checks the draft is complete and builds the record.
func (d *draft) finalize() (*Record, error) {
	reqs := requiredFields
	switch d.rev {
	case Rev1991:
		reqs = reqs[:8]
	case Rev1999:
		reqs = reqs[:9]
	}
	for _, req := range reqs {
		if d.set&req.f == 0 {
			return nil, &Error{Kind: MissingField, Field: req.name}
		}
	}

	n := len(d.samples)
	switch {
	case len(d.analogs) != d.nanalogs, len(d.adata) != d.nanalogs:
		return nil, &Error{Kind: MissingField, Field: "analog channels"}
	case len(d.statuses) != d.nstatuses, len(d.sdata) != d.nstatuses:
		return nil, &Error{Kind: MissingField, Field: "status channels"}
	case len(d.times) != n:
		return nil, &Error{Kind: MissingField, Field: "sample times"}
	}

	rec := &Record{
		Station:   d.station,
		Device:    d.device,
		Revision:  d.rev,
		Samples:   d.samples,
		Times:     d.times,
		Analogs:   make([]AnalogChannel, d.nanalogs),
		Statuses:  make([]StatusChannel, d.nstatuses),
		LineFreq:  d.lineFreq,
		Rates:     d.rates,
		Start:     d.start,
		Trigger:   d.trigger,
		Precision: finer(d.startPrec, d.triggerPrec),
		Encoding:  d.enc,
		TimeMult:  d.timeMult(),
		Header:    d.hdr,
		Info:      d.inf,
	}
	for i, cfg := range d.analogs {
		if len(d.adata[i]) != n {
			return nil, &Error{Kind: MissingField, Field: "analog channel data", Index: cfg.Index}
		}
		rec.Analogs[i] = AnalogChannel{AnalogConfig: cfg, Data: d.adata[i]}
	}
	for i, cfg := range d.statuses {
		if len(d.sdata[i]) != n {
			return nil, &Error{Kind: MissingField, Field: "status channel data", Index: cfg.Index}
		}
		rec.Statuses[i] = StatusChannel{StatusConfig: cfg, Data: d.sdata[i]}
	}

	if d.rev == Rev2013 {
		rec.UTCOffset = d.utc
		rec.LocalOffset = d.local
		rec.Quality = d.quality
		rec.LeapSecond = d.leap
	}

	return rec, nil
}
