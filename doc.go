// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package comtrade decodes COMTRADE transient records (IEEE C37.111,
// revisions 1991, 1999 and 2013).
//
// A record is made of a configuration file (.cfg) describing the channels,
// a data file (.dat) holding the samples in ASCII or binary form and two
// optional free-text annotation files (.hdr, .inf).
// The 2013 revision also allows all of them to be packed into a single
// container file (.cff).
//
// A Parser consumes these streams and produces an immutable Record with
// scaled analog values, unpacked status values and reconstructed sample
// times.
package comtrade // import "github.com/go-lpc/comtrade"

import (
	"fmt"
	"runtime/debug"
)

// Version returns the version of comtrade and its checksum.
// The returned values are only valid in binaries built with module support.
func Version() (version, sum string) {
	b, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	return versionOf(b)
}

func versionOf(b *debug.BuildInfo) (version, sum string) {
	if b == nil {
		return "", ""
	}

	const root = "github.com/go-lpc/comtrade"
	for _, m := range b.Deps {
		if m.Path != root {
			continue
		}
		if m.Replace != nil {
			switch {
			case m.Replace.Version != "" && m.Replace.Path != "":
				return fmt.Sprintf("%s %s", m.Replace.Path, m.Replace.Version), m.Replace.Sum
			case m.Replace.Version != "":
				return m.Replace.Version, m.Replace.Sum
			case m.Replace.Path != "":
				return m.Replace.Path, m.Replace.Sum
			default:
				return m.Version + "*", ""
			}
		}
		return m.Version, m.Sum
	}
	return "", ""
}
