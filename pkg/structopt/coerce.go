// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package structopt

import (
	"errors"
	"fmt"
	"strconv"
)

// CoerceField converts the raw capture of one field into its value.
//
// An absent field takes its default. Without a default, absent lists become
// empty, absent occurrence counts become zero, and anything else is an
// error.
func CoerceField(spec OptionSpec, raw []string) (any, error) {
	if len(raw) == 0 && spec.Default != nil {
		return spec.Default, nil
	}

	var (
		v   any
		err error
	)
	switch {
	case spec.Occurrences:
		v, err = CountOccurrences(raw)
	case len(raw) == 0 && !spec.Type.IsList():
		err = &CoerceError{Type: spec.Type, Index: -1, Err: fmt.Errorf("required argument %s not provided", spec.Flag())}
	default:
		v, err = Coerce(raw, spec.Type)
	}
	if err != nil {
		var ce *CoerceError
		if errors.As(err, &ce) {
			ce.Field = spec.Name
			return nil, ce
		}
		return nil, &CoerceError{Field: spec.Name, Type: spec.Type, Index: -1, Err: err}
	}
	return v, nil
}

// CountOccurrences returns the number of presence sentinels in raw. Any
// non-empty entry is an error.
func CountOccurrences(raw []string) (int, error) {
	for _, s := range raw {
		if s != "" {
			return 0, &CoerceError{Type: Int(), Value: s, Index: -1, Err: errTakesNoValue}
		}
	}
	return len(raw), nil
}

// Coerce converts raw tokens into a value of type t.
//
// Booleans require exactly one presence sentinel. Lists coerce every entry
// with the element type, preserving order. Every other type requires
// exactly one entry.
func Coerce(raw []string, t Type) (any, error) {
	switch t.Kind {
	case KindBool:
		if len(raw) != 1 {
			return nil, &CoerceError{Type: t, Index: -1, Err: fmt.Errorf("expected exactly one occurrence, got %d", len(raw))}
		}
		if raw[0] != "" {
			return nil, &CoerceError{Type: t, Value: raw[0], Index: -1, Err: errTakesNoValue}
		}
		return true, nil

	case KindList:
		out := make([]any, 0, len(raw))
		for i, s := range raw {
			v, err := fromString(*t.Elem, s)
			if err != nil {
				return nil, &CoerceError{Type: t, Value: s, Index: i, Err: err}
			}
			out = append(out, v)
		}
		return out, nil

	default:
		if len(raw) != 1 {
			return nil, &CoerceError{Type: t, Index: -1, Err: fmt.Errorf("takes exactly one value, got %q", raw)}
		}
		v, err := fromString(t, raw[0])
		if err != nil {
			return nil, &CoerceError{Type: t, Value: raw[0], Index: -1, Err: err}
		}
		return v, nil
	}
}

// fromString converts a single string to a non-list type.
func fromString(t Type, s string) (any, error) {
	switch t.Kind {
	case KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, &conversionError{Type: t, Value: s}
		}
		return b, nil
	case KindInt:
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, &conversionError{Type: t, Value: s, Err: unwrapNumError(err)}
		}
		return n, nil
	case KindString:
		return s, nil
	case KindScalar:
		v, err := t.Parse(s)
		if err != nil {
			return nil, &conversionError{Type: t, Value: s, Err: err}
		}
		return v, nil
	case KindLiteral:
		return matchLiteral(t, s)
	case KindOneOf:
		v, err := firstOf(t.Alts, s)
		if err != nil {
			return nil, &conversionError{Type: t, Value: s, Err: err}
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported type %s", t)
	}
}

// matchLiteral succeeds only if s parses as the literal's primitive type and
// equals the literal.
func matchLiteral(t Type, s string) (any, error) {
	var prim Type
	switch t.Value.(type) {
	case bool:
		prim = Bool()
	case int:
		prim = Int()
	case string:
		prim = String()
	default:
		return nil, fmt.Errorf("unsupported literal %v", t.Value)
	}
	v, err := fromString(prim, s)
	if err != nil {
		return nil, &conversionError{Type: t, Value: s}
	}
	if v != t.Value {
		return nil, &conversionError{Type: t, Value: s}
	}
	return v, nil
}

// firstOf tries each alternative in order and returns the first success.
// Later alternatives are never consulted once one has matched.
func firstOf(alts []Type, s string) (any, error) {
	for _, a := range alts {
		if v, err := fromString(a, s); err == nil {
			return v, nil
		}
	}
	return nil, errNoAlternative
}

func unwrapNumError(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}
