// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package structopt

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Compile converts field descriptors into option specs, in the same order.
//
// Each field is checked on its own first; then the whole set is checked for
// short and long name collisions. Compilation is all-or-nothing: on error no
// specs are returned.
func Compile(fields []FieldDescriptor) ([]OptionSpec, error) {
	specs := make([]OptionSpec, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, &CompileError{Msg: "field has no name"}
		}
		if seen[f.Name] {
			return nil, &CompileError{Field: f.Name, Msg: "duplicate field name"}
		}
		seen[f.Name] = true
		spec, err := compileField(f)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	if err := checkCollisions(specs); err != nil {
		return nil, err
	}
	return specs, nil
}

func compileField(f FieldDescriptor) (OptionSpec, error) {
	fail := func(format string, args ...any) (OptionSpec, error) {
		return OptionSpec{}, &CompileError{Field: f.Name, Msg: fmt.Sprintf(format, args...)}
	}

	if err := f.Type.validate(); err != nil {
		return fail("%v", err)
	}
	if !f.Short.IsSet() && !f.Long.IsSet() && !f.Positional.IsSet() {
		return fail("specify either a positional or an optional argument")
	}
	if f.FromOccurrences {
		if f.Positional.IsSet() {
			return fail("cannot count occurrences of a positional argument")
		}
		if f.Type.Kind != KindInt {
			return fail("a field counting occurrences must be an int, got %s", f.Type)
		}
	}

	spec := OptionSpec{
		Name:        f.Name,
		Type:        f.Type,
		Occurrences: f.FromOccurrences,
		Default:     f.Default,
		Help:        f.Help,
	}

	switch f.Long.Mode {
	case NameExplicit:
		if f.Long.Value == "" {
			return fail("empty long name")
		}
		spec.Long = normalizeName(f.Long.Value)
	case NameAuto:
		spec.Long = normalizeName(f.Name)
	}
	if spec.Long != "" {
		if err := checkFlagName(spec.Long); err != nil {
			return fail("long name %q: %v", spec.Long, err)
		}
	}

	switch f.Short.Mode {
	case NameExplicit:
		if utf8.RuneCountInString(f.Short.Value) != 1 {
			return fail("short name %q must be exactly one character", f.Short.Value)
		}
		spec.Short = f.Short.Value
	case NameAuto:
		src := spec.Long
		if src == "" {
			src = f.Name
		}
		r, _ := utf8.DecodeRuneInString(src)
		spec.Short = string(r)
	}
	if spec.Short != "" {
		if err := checkFlagName(spec.Short); err != nil {
			return fail("short name %q: %v", spec.Short, err)
		}
	}

	switch f.Positional.Mode {
	case NameExplicit:
		if f.Positional.Value == "" {
			return fail("empty positional name")
		}
		spec.Positional = true
		spec.Display = f.Positional.Value
	case NameAuto:
		spec.Positional = true
		spec.Display = f.Name
	}
	return spec, nil
}

// normalizeName converts internal word separators to the external one.
func normalizeName(s string) string {
	return strings.ReplaceAll(s, "_", "-")
}

func checkFlagName(s string) error {
	switch {
	case strings.HasPrefix(s, "-"):
		return fmt.Errorf("must not start with %q", "-")
	case strings.ContainsAny(s, "= \t\n"):
		return fmt.Errorf("must not contain %q or whitespace", "=")
	}
	return nil
}

func checkCollisions(specs []OptionSpec) error {
	shorts := make(map[string]string)
	longs := make(map[string]string)
	for _, s := range specs {
		if s.Short != "" {
			if prev, ok := shorts[s.Short]; ok {
				return &CompileError{Field: s.Name, Msg: fmt.Sprintf("duplicated option -%s (also used by %s)", s.Short, prev)}
			}
			shorts[s.Short] = s.Name
		}
		if s.Long != "" {
			if prev, ok := longs[s.Long]; ok {
				return &CompileError{Field: s.Name, Msg: fmt.Sprintf("duplicated option --%s (also used by %s)", s.Long, prev)}
			}
			longs[s.Long] = s.Name
		}
	}
	return nil
}
