// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package structopt

import (
	"encoding"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the variant of a Type.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindString
	KindScalar
	KindList
	KindLiteral
	KindOneOf
)

// Type is the declared value type of a field. It is a closed variant: the
// Kind decides which of the remaining fields are meaningful.
type Type struct {
	Kind Kind

	// Name is the display name of a KindScalar type.
	Name string
	// Parse constructs a KindScalar value from its string form.
	Parse func(string) (any, error)

	// Elem is the element type of a KindList type.
	Elem *Type

	// Value is the constant of a KindLiteral type: a bool, an int or a string.
	Value any

	// Alts are the ordered alternatives of a KindOneOf type.
	Alts []Type
}

func Bool() Type   { return Type{Kind: KindBool} }
func Int() Type    { return Type{Kind: KindInt} }
func String() Type { return Type{Kind: KindString} }

// Scalar returns a type constructed from a single string by parse.
func Scalar(name string, parse func(string) (any, error)) Type {
	return Type{Kind: KindScalar, Name: name, Parse: parse}
}

// ListOf returns a homogeneous, repeatable list type.
func ListOf(elem Type) Type {
	return Type{Kind: KindList, Elem: &elem}
}

// Literal returns a type that only accepts v. Integer kinds are stored as int.
func Literal(v any) Type {
	return Type{Kind: KindLiteral, Value: normalizeLiteral(v)}
}

// OneOf returns an ordered set of alternatives. The first alternative that
// accepts a value wins.
func OneOf(alts ...Type) Type {
	return Type{Kind: KindOneOf, Alts: alts}
}

// Literals is shorthand for OneOf(Literal(v0), Literal(v1), ...).
func Literals(vs ...any) Type {
	alts := make([]Type, len(vs))
	for i, v := range vs {
		alts[i] = Literal(v)
	}
	return OneOf(alts...)
}

func Float() Type {
	return Scalar("float", func(s string) (any, error) {
		return strconv.ParseFloat(s, 64)
	})
}

func Duration() Type {
	return Scalar("duration", func(s string) (any, error) {
		return time.ParseDuration(s)
	})
}

// Path returns a scalar type holding a cleaned filesystem path.
func Path() Type {
	return Scalar("path", func(s string) (any, error) {
		if s == "" {
			return nil, errors.New("empty path")
		}
		return filepath.Clean(s), nil
	})
}

// TextScalar returns a scalar type for any T whose pointer implements
// encoding.TextUnmarshaler. Values are returned as T.
func TextScalar[T any, PT interface {
	*T
	encoding.TextUnmarshaler
}](name string) Type {
	return Scalar(name, func(s string) (any, error) {
		var v T
		if err := PT(&v).UnmarshalText([]byte(s)); err != nil {
			return nil, err
		}
		return v, nil
	})
}

func (t Type) String() string {
	switch t.Kind {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindScalar:
		if t.Name == "" {
			return "scalar"
		}
		return t.Name
	case KindList:
		if t.Elem == nil {
			return "list[?]"
		}
		return "list[" + t.Elem.String() + "]"
	case KindLiteral:
		if s, ok := t.Value.(string); ok {
			return "literal[" + strconv.Quote(s) + "]"
		}
		return fmt.Sprintf("literal[%v]", t.Value)
	case KindOneOf:
		parts := make([]string, len(t.Alts))
		for i, a := range t.Alts {
			parts[i] = a.String()
		}
		return "oneof[" + strings.Join(parts, ", ") + "]"
	default:
		return "invalid"
	}
}

func (t Type) IsList() bool { return t.Kind == KindList }

// validate reports the first structural problem with t.
func (t Type) validate() error {
	switch t.Kind {
	case KindBool, KindInt, KindString:
		return nil
	case KindScalar:
		if t.Parse == nil {
			return fmt.Errorf("scalar type %s has no parse function", t)
		}
		return nil
	case KindList:
		if t.Elem == nil {
			return errors.New("list type has no element type")
		}
		if t.Elem.Kind == KindList {
			return fmt.Errorf("nested list type %s is not supported", t)
		}
		return t.Elem.validate()
	case KindLiteral:
		switch t.Value.(type) {
		case bool, int, string:
			return nil
		}
		return fmt.Errorf("unsupported literal %v (%T)", t.Value, t.Value)
	case KindOneOf:
		if len(t.Alts) == 0 {
			return errors.New("oneof type has no alternatives")
		}
		for _, a := range t.Alts {
			if a.Kind == KindList {
				return fmt.Errorf("list type %s cannot be an alternative", a)
			}
			if err := a.validate(); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.New("invalid type")
	}
}

func normalizeLiteral(v any) any {
	switch x := v.(type) {
	case int8:
		return int(x)
	case int16:
		return int(x)
	case int32:
		return int(x)
	case int64:
		return int(x)
	case uint:
		return int(x)
	case uint8:
		return int(x)
	case uint16:
		return int(x)
	case uint32:
		return int(x)
	case uint64:
		return int(x)
	}
	return v
}

// NameMode selects how a short, long or positional name is resolved.
type NameMode int

const (
	// NameNone means the field has no such name.
	NameNone NameMode = iota
	// NameAuto derives the name from the field.
	NameAuto
	// NameExplicit uses Name.Value as given.
	NameExplicit
)

// Name is a tri-state name setting: absent, derived, or explicit.
type Name struct {
	Mode  NameMode
	Value string
}

// Auto returns a Name derived from the field.
func Auto() Name { return Name{Mode: NameAuto} }

// Named returns an explicit Name.
func Named(s string) Name { return Name{Mode: NameExplicit, Value: s} }

func (n Name) IsSet() bool { return n.Mode != NameNone }

// FieldDescriptor describes one field of the output record.
type FieldDescriptor struct {
	Name string
	Type Type

	Short      Name
	Long       Name
	Positional Name

	// FromOccurrences makes an int field count the appearances of its flag
	// (-vvv -> 3).
	FromOccurrences bool

	// Default is used when the field is absent from the command line.
	// A nil Default means the field is required, except for lists and
	// occurrence counts which default to empty and zero.
	Default any

	Help string
}

// OptionSpec is the compiled, validated parsing rule for one field.
type OptionSpec struct {
	Name string
	Type Type

	// Short is the one-character short name, or "" if none.
	Short string
	// Long is the long name without the leading "--", or "" if none.
	Long string

	Positional bool
	// Display is the positional display name.
	Display string

	Occurrences bool
	Default     any
	Help        string
}

// ValueRequired reports whether the option consumes a value when given as a
// flag. Booleans and occurrence counts do not.
func (s OptionSpec) ValueRequired() bool {
	if s.Occurrences {
		return false
	}
	return s.Type.Kind != KindBool
}

// IsOption reports whether the spec can be given as a flag.
func (s OptionSpec) IsOption() bool {
	return s.Short != "" || s.Long != ""
}

// Flag returns the preferred external form of the option: "--long" or "-s".
func (s OptionSpec) Flag() string {
	if s.Long != "" {
		return "--" + s.Long
	}
	if s.Short != "" {
		return "-" + s.Short
	}
	return s.Display
}

// Capture maps a field name to the raw tokens collected for it, in
// encounter order. Flags that take no value record one "" per occurrence.
type Capture map[string][]string

// Record maps a field name to its coerced value.
type Record map[string]any

func (r Record) Bool(name string) bool {
	v, _ := r[name].(bool)
	return v
}

func (r Record) Int(name string) int {
	v, _ := r[name].(int)
	return v
}

func (r Record) Str(name string) string {
	v, _ := r[name].(string)
	return v
}

func (r Record) List(name string) []any {
	v, _ := r[name].([]any)
	return v
}
