// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package structopt

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Format renders rec as an argv that Parse turns back into rec, given the
// same specs. Options come first in declaration order; positional fields
// follow a "--" terminator.
//
// A false bool and an empty list are omitted, so they only round-trip when
// the field's default is false or empty. A positional-only field declared
// after a list positional can never receive a token, so it is omitted when
// it holds its default and is an error otherwise.
func Format(specs []OptionSpec, rec Record) ([]string, error) {
	var argv, positional []string
	sinkSeen := false
	for _, s := range specs {
		v, ok := rec[s.Name]
		if !ok {
			continue
		}
		// Positionals are assigned in declaration order until a list sink,
		// so only those can be rendered positionally.
		if s.Positional && !sinkSeen {
			vals, err := formatValues(s, v)
			if err != nil {
				return nil, err
			}
			positional = append(positional, vals...)
			sinkSeen = s.Type.IsList()
			continue
		}
		if !s.IsOption() {
			if holdsDefault(s, v) {
				continue
			}
			return nil, fmt.Errorf("field %s: positional after a list positional cannot be rendered", s.Name)
		}

		switch {
		case s.Occurrences:
			n, ok := v.(int)
			if !ok {
				return nil, fmt.Errorf("field %s: occurrence count must be an int, got %T", s.Name, v)
			}
			for range n {
				argv = append(argv, s.Flag())
			}
		case s.Type.Kind == KindBool:
			b, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("field %s: expected a bool, got %T", s.Name, v)
			}
			if b {
				argv = append(argv, s.Flag())
			}
		default:
			vals, err := formatValues(s, v)
			if err != nil {
				return nil, err
			}
			for _, val := range vals {
				if s.Long != "" {
					argv = append(argv, "--"+s.Long+"="+val)
				} else {
					argv = append(argv, "-"+s.Short, val)
				}
			}
		}
	}
	if len(positional) > 0 {
		argv = append(argv, terminator)
		argv = append(argv, positional...)
	}
	return argv, nil
}

// holdsDefault reports whether v is what CoerceField yields for s when the
// field is absent from argv.
func holdsDefault(s OptionSpec, v any) bool {
	if s.Default != nil {
		return reflect.DeepEqual(v, s.Default)
	}
	if s.Type.IsList() {
		items, ok := v.([]any)
		return ok && len(items) == 0
	}
	return false
}

func formatValues(s OptionSpec, v any) ([]string, error) {
	if !s.Type.IsList() {
		str, err := formatValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", s.Name, err)
		}
		return []string{str}, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("field %s: expected a list, got %T", s.Name, v)
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		str, err := formatValue(item)
		if err != nil {
			return nil, fmt.Errorf("field %s: element %d: %w", s.Name, i, err)
		}
		out = append(out, str)
	}
	return out, nil
}

func formatValue(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case encoding.TextMarshaler:
		b, err := x.MarshalText()
		if err != nil {
			return "", err
		}
		return string(b), nil
	case fmt.Stringer:
		return x.String(), nil
	case nil:
		return "", fmt.Errorf("nil value")
	}
	return strings.TrimSpace(fmt.Sprint(v)), nil
}
