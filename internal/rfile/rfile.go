// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rfile locates and loads the files that make up a COMTRADE record.
package rfile // import "github.com/go-lpc/comtrade/internal/rfile"

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-lpc/comtrade"
	"github.com/go-lpc/comtrade/internal/crc16"
	"github.com/go-lpc/comtrade/internal/mmap"
)

// Kind identifies a file of a record.
type Kind uint8

const (
	CFG Kind = iota
	DAT
	HDR
	INF
	CFF
	nkinds
)

var exts = [nkinds]string{"cfg", "dat", "hdr", "inf", "cff"}

// Ext returns the file extension of k, without the leading dot.
func (k Kind) Ext() string { return exts[k] }

// Set is the set of files of one record, memory-mapped for reading.
type Set struct {
	Name  string         // base name of the record, without extension
	Files [nkinds]string // paths of the files, empty when absent

	maps [nkinds]*mmap.Handle
	crc  uint16
}

// Resolve finds the files of the record named name.
// name may be the path of any of the files of the record, or their
// common base name. Extensions are matched case-insensitively.
func Resolve(name string) (*Set, error) {
	base := name
	if ext := filepath.Ext(name); ext != "" && kindOf(ext[1:]) < nkinds {
		base = strings.TrimSuffix(name, ext)
	}

	dir := filepath.Dir(base)
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("rfile: could not read directory %q: %w", dir, err)
	}

	set := &Set{Name: base}
	stem := filepath.Base(base)
	for _, ent := range ents {
		if ent.IsDir() {
			continue
		}
		fname := ent.Name()
		ext := filepath.Ext(fname)
		if ext == "" || !strings.EqualFold(strings.TrimSuffix(fname, ext), stem) {
			continue
		}
		k := kindOf(ext[1:])
		if k == nkinds || set.Files[k] != "" {
			continue
		}
		set.Files[k] = filepath.Join(dir, fname)
	}

	container := strings.EqualFold(filepath.Ext(name), "."+CFF.Ext())
	switch {
	case !container && set.Files[CFG] != "" && set.Files[DAT] != "":
		set.Files[CFF] = ""
	case set.Files[CFF] != "":
		set.Files = [nkinds]string{CFF: set.Files[CFF]}
	case container:
		return nil, fmt.Errorf("rfile: no container file for record %q", name)
	case set.Files[CFG] == "":
		return nil, fmt.Errorf("rfile: no configuration file for record %q", name)
	default:
		return nil, fmt.Errorf("rfile: no data file for record %q", name)
	}
	return set, nil
}

func kindOf(ext string) Kind {
	for k, v := range exts {
		if strings.EqualFold(v, ext) {
			return Kind(k)
		}
	}
	return nkinds
}

// Open resolves and memory-maps the files of the record named name.
func Open(name string) (*Set, error) {
	set, err := Resolve(name)
	if err != nil {
		return nil, err
	}

	crc := crc16.New(nil)
	for k, fname := range set.Files {
		if fname == "" {
			continue
		}
		h, err := mmap.Open(fname)
		if err != nil {
			_ = set.Close()
			return nil, fmt.Errorf("rfile: could not open %s file: %w", Kind(k).Ext(), err)
		}
		set.maps[k] = h

		_, err = io.Copy(crc, h.Reader())
		if err != nil {
			_ = set.Close()
			return nil, fmt.Errorf("rfile: could not checksum %q: %w", fname, err)
		}
	}
	set.crc = crc.Sum16()

	return set, nil
}

// Container reports whether the record is held in a single .cff file.
func (set *Set) Container() bool {
	return set.Files[CFF] != ""
}

// Sum16 returns the CRC-16 checksum of the content of all the files
// of the record, in CFG, DAT, HDR, INF, CFF order.
func (set *Set) Sum16() uint16 {
	return set.crc
}

// Parse decodes the record.
func (set *Set) Parse() (*comtrade.Record, error) {
	var opts []comtrade.Option
	for k, h := range set.maps {
		if h == nil {
			continue
		}
		r := h.Reader()
		switch Kind(k) {
		case CFG:
			opts = append(opts, comtrade.WithConfig(r))
		case DAT:
			opts = append(opts, comtrade.WithData(r))
		case HDR:
			opts = append(opts, comtrade.WithHeader(r))
		case INF:
			opts = append(opts, comtrade.WithInfo(r))
		case CFF:
			opts = append(opts, comtrade.WithContainer(r))
		}
	}
	if len(opts) == 0 {
		return nil, fmt.Errorf("rfile: record %q is not open", set.Name)
	}

	rec, err := comtrade.NewParser(opts...).Parse()
	if err != nil {
		return nil, fmt.Errorf("rfile: could not parse record %q: %w", set.Name, err)
	}
	return rec, nil
}

// Close releases the memory mappings of the record files.
func (set *Set) Close() error {
	var err error
	for k, h := range set.maps {
		if h == nil {
			continue
		}
		if e := h.Close(); e != nil && err == nil {
			err = fmt.Errorf("rfile: could not close %s file: %w", Kind(k).Ext(), e)
		}
		set.maps[k] = nil
	}
	return err
}

// Load opens, checksums and decodes the record named name.
func Load(name string) (*comtrade.Record, uint16, error) {
	set, err := Open(name)
	if err != nil {
		return nil, 0, err
	}
	defer set.Close()

	rec, err := set.Parse()
	if err != nil {
		return nil, 0, err
	}
	return rec, set.Sum16(), set.Close()
}
