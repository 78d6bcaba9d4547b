// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package structopt

import (
	"errors"
	"fmt"
	"strings"
)

// ErrHelp is returned by ParseInto when a help token is present on the
// command line.
var ErrHelp = errors.New("help requested")

// CompileError is returned when the field descriptors are malformed or
// contradict each other.
type CompileError struct {
	Field string
	Msg   string
}

func (e *CompileError) Error() string {
	if e.Field == "" {
		return "invalid option spec: " + e.Msg
	}
	return fmt.Sprintf("invalid option spec for field %s: %s", e.Field, e.Msg)
}

// ScanError is returned when argv contains an unknown option or an option is
// missing its value.
type ScanError struct {
	Option string // As written on the command line, e.g. "--out" or "-o".
	Field  string // Empty for unknown options.
	Msg    string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s: %s", e.Msg, e.Option)
}

// AssignError is returned when positional tokens cannot be assigned to
// positional fields.
type AssignError struct {
	Field  string // The last positional field, if any.
	Tokens []string
	Msg    string
}

func (e *AssignError) Error() string {
	return fmt.Sprintf("%s: %s", e.Msg, strings.Join(e.Tokens, " "))
}

// CoerceError is returned when a raw value does not convert to the declared
// type of its field.
type CoerceError struct {
	Field string
	Type  Type
	Value string
	// Index is the position of the failing element for list fields, -1
	// otherwise.
	Index int
	Err   error
}

func (e *CoerceError) Error() string {
	var b strings.Builder
	if e.Field != "" {
		fmt.Fprintf(&b, "field %s: ", e.Field)
	}
	if e.Index >= 0 {
		fmt.Fprintf(&b, "element %d: ", e.Index)
	}
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *CoerceError) Unwrap() error {
	return e.Err
}

// BatchError wraps the first failure of ParseAll with the index of the
// argv that caused it.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("argv %d: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

var (
	errNoAlternative = errors.New("no alternative matched")
	errTakesNoValue  = errors.New("option takes no value")
)

// conversionError reports a string that could not be converted to a type.
type conversionError struct {
	Type  Type
	Value string
	Err   error
}

func (e *conversionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cannot convert %q to %s", e.Value, e.Type)
	}
	return fmt.Sprintf("cannot convert %q to %s: %v", e.Value, e.Type, e.Err)
}

func (e *conversionError) Unwrap() error {
	return e.Err
}
