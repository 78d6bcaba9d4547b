// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package structopt

import (
	"strings"
	"unicode/utf8"
)

const terminator = "--"

// optionIndex looks up compiled specs by their external names.
type optionIndex struct {
	short map[string]*OptionSpec
	long  map[string]*OptionSpec
}

func newOptionIndex(specs []OptionSpec) optionIndex {
	idx := optionIndex{
		short: make(map[string]*OptionSpec),
		long:  make(map[string]*OptionSpec),
	}
	for i := range specs {
		s := &specs[i]
		if s.Short != "" {
			idx.short[s.Short] = s
		}
		if s.Long != "" {
			idx.long[s.Long] = s
		}
	}
	return idx
}

// Scan walks argv left to right and collects option values per field.
// Tokens that are not options are returned, in order, as leftover
// positionals. Options and positionals may be interleaved.
//
// Supported forms:
//   - Long options: --name, --name=value, --name value
//   - Short clusters: -v, -vvv, -vo value, -vovalue
//   - "--" ends option processing; all later tokens are positional
//   - "-" on its own is positional
//
// A value-requiring option always takes the next token, even if it starts
// with "-". Unknown options are an error, never positionals.
func Scan(argv []string, specs []OptionSpec) (Capture, []string, error) {
	idx := newOptionIndex(specs)
	capture := make(Capture)
	var leftover []string

	for i := 0; i < len(argv); i++ {
		arg := argv[i]

		if arg == terminator {
			leftover = append(leftover, argv[i+1:]...)
			break
		}

		switch {
		case strings.HasPrefix(arg, "--"):
			name, value, hasValue := strings.Cut(arg[2:], "=")
			spec, ok := idx.long[name]
			if !ok {
				return nil, nil, &ScanError{Option: "--" + name, Msg: "unknown option"}
			}
			switch {
			case hasValue:
				// Recorded even for flags that take no value; coercion
				// rejects it with a field-specific error.
				capture[spec.Name] = append(capture[spec.Name], value)
			case !spec.ValueRequired():
				capture[spec.Name] = append(capture[spec.Name], "")
			default:
				if i+1 >= len(argv) {
					return nil, nil, &ScanError{Option: "--" + name, Field: spec.Name, Msg: "missing value for option"}
				}
				i++
				capture[spec.Name] = append(capture[spec.Name], argv[i])
			}

		case len(arg) > 1 && arg[0] == '-':
			consumedNext, err := scanCluster(arg[1:], argv[i+1:], idx, capture)
			if err != nil {
				return nil, nil, err
			}
			if consumedNext {
				i++
			}

		default:
			leftover = append(leftover, arg)
		}
	}
	return capture, leftover, nil
}

// scanCluster processes the characters of a short option cluster (without
// the leading "-"). It reports whether the next argv token was consumed as
// a value.
func scanCluster(cluster string, rest []string, idx optionIndex, capture Capture) (bool, error) {
	for len(cluster) > 0 {
		r, size := utf8.DecodeRuneInString(cluster)
		name := string(r)
		cluster = cluster[size:]

		spec, ok := idx.short[name]
		if !ok {
			return false, &ScanError{Option: "-" + name, Msg: "unknown option"}
		}
		if !spec.ValueRequired() {
			capture[spec.Name] = append(capture[spec.Name], "")
			continue
		}

		// A value-requiring option ends the cluster and takes the rest of
		// it verbatim, so -o=x yields "=x".
		if cluster != "" {
			capture[spec.Name] = append(capture[spec.Name], cluster)
			return false, nil
		}
		if len(rest) == 0 {
			return false, &ScanError{Option: "-" + name, Field: spec.Name, Msg: "missing value for option"}
		}
		capture[spec.Name] = append(capture[spec.Name], rest[0])
		return true, nil
	}
	return false, nil
}
