// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comtrade

import (
	"fmt"
	"strings"
)

// Kind classifies the errors reported while parsing a record.
type Kind uint8

const (
	_ Kind = iota
	MissingElements
	TooManyElements
	InvalidValue
	UnexpectedEOF
	BadRevision
	InvalidNormalStatus
	UnknownPrecision
	MissingTimestamp
	ContentBeforeHeader
	Unsupported
	MissingInput
	MissingField
	Decode
)

func (k Kind) String() string {
	switch k {
	case MissingElements:
		return "missing line elements"
	case TooManyElements:
		return "too many line elements"
	case InvalidValue:
		return "invalid value"
	case UnexpectedEOF:
		return "unexpected end of input"
	case BadRevision:
		return "invalid format revision"
	case InvalidNormalStatus:
		return "invalid normal status value"
	case UnknownPrecision:
		return "could not determine time stamp precision"
	case MissingTimestamp:
		return "missing time stamp"
	case ContentBeforeHeader:
		return "content before first section header"
	case Unsupported:
		return "unsupported"
	case MissingInput:
		return "missing input"
	case MissingField:
		return "missing required field"
	case Decode:
		return "could not decode data"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Error describes a parse failure.
//
// Field is the path of labels of the stanza and field being read when
// the failure happened (e.g. "channel sizes: analog").
// Value is the offending raw token, Type the expected type of that token.
// Index is the channel index, data row or sample number the failure
// relates to, or zero.
type Error struct {
	Kind  Kind
	Field string
	Value string
	Type  string
	Index int
	Err   error
}

// Errors that can be matched with errors.Is. Matching is done on Kind.
var (
	ErrMissingElements     = &Error{Kind: MissingElements}
	ErrTooManyElements     = &Error{Kind: TooManyElements}
	ErrInvalidValue        = &Error{Kind: InvalidValue}
	ErrUnexpectedEOF       = &Error{Kind: UnexpectedEOF}
	ErrBadRevision         = &Error{Kind: BadRevision}
	ErrInvalidNormalStatus = &Error{Kind: InvalidNormalStatus}
	ErrUnknownPrecision    = &Error{Kind: UnknownPrecision}
	ErrMissingTimestamp    = &Error{Kind: MissingTimestamp}
	ErrContentBeforeHeader = &Error{Kind: ContentBeforeHeader}
	ErrUnsupported         = &Error{Kind: Unsupported}
	ErrMissingInput        = &Error{Kind: MissingInput}
	ErrMissingField        = &Error{Kind: MissingField}
	ErrDecode              = &Error{Kind: Decode}
)

func (e *Error) Error() string {
	var o strings.Builder
	o.WriteString("comtrade: ")
	if e.Field != "" {
		o.WriteString(e.Field)
		o.WriteString(": ")
	}
	o.WriteString(e.Kind.String())

	switch e.Kind {
	case InvalidValue, BadRevision, UnknownPrecision:
		fmt.Fprintf(&o, " %q", e.Value)
		if e.Type != "" {
			fmt.Fprintf(&o, " (want %s)", e.Type)
		}
	case MissingElements, TooManyElements:
		switch {
		case e.Type != "":
			fmt.Fprintf(&o, " (got=%s, want=%s)", e.Value, e.Type)
		case e.Value != "":
			fmt.Fprintf(&o, " %q", e.Value)
		}
	case InvalidNormalStatus:
		fmt.Fprintf(&o, " %q for status channel %d", e.Value, e.Index)
	case MissingTimestamp:
		fmt.Fprintf(&o, " for sample %d", e.Index)
	case Unsupported, MissingInput:
		if e.Value != "" {
			fmt.Fprintf(&o, ": %s", e.Value)
		}
	}

	if e.Err != nil {
		o.WriteString(": ")
		o.WriteString(e.Err.Error())
	}
	return o.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// withField prefixes the field path of err with label.
// Errors that are not an *Error are returned unchanged.
func withField(err error, label string) error {
	e, ok := err.(*Error)
	if !ok || label == "" {
		return err
	}
	o := *e
	if o.Field == "" {
		o.Field = label
	} else {
		o.Field = label + ": " + o.Field
	}
	return &o
}
