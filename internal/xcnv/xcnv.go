// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xcnv provides tools to convert COMTRADE records to/from LCIO.
//
// A record is stored as one LCIO run header, describing the recording
// device, followed by one LCIO event holding the samples.
package xcnv // import "github.com/go-lpc/comtrade/internal/xcnv"

const (
	detector = "COMTRADE"

	timesColl  = "COMTRADE_TIMES"
	analogColl = "COMTRADE_ANALOG"
	statusColl = "COMTRADE_STATUS"
)
