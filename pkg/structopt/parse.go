// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package structopt

// Parse compiles fields and parses argv against them. argv should not
// include the program name (os.Args[1:]).
//
// Stages run in order and the first error aborts the call: compile, scan,
// positional assignment, then coercion of every field in declaration order.
// The returned record has one entry per field.
func Parse(fields []FieldDescriptor, argv []string) (Record, error) {
	p, err := NewParser(fields)
	if err != nil {
		return nil, err
	}
	return p.Parse(argv)
}

// Parser holds a compiled spec list. It is immutable and safe for
// concurrent use.
type Parser struct {
	specs []OptionSpec
}

// NewParser compiles fields into a Parser.
func NewParser(fields []FieldDescriptor) (*Parser, error) {
	specs, err := Compile(fields)
	if err != nil {
		return nil, err
	}
	return &Parser{specs: specs}, nil
}

// Specs returns a copy of the compiled specs in declaration order.
func (p *Parser) Specs() []OptionSpec {
	return append([]OptionSpec(nil), p.specs...)
}

// Parse parses argv against the compiled specs.
func (p *Parser) Parse(argv []string) (Record, error) {
	capture, leftover, err := Scan(argv, p.specs)
	if err != nil {
		return nil, err
	}
	positional, err := Assign(leftover, p.specs)
	if err != nil {
		return nil, err
	}
	// Option tokens come first; positional tokens are appended after them.
	for name, vals := range positional {
		capture[name] = append(capture[name], vals...)
	}

	rec := make(Record, len(p.specs))
	for _, s := range p.specs {
		v, err := CoerceField(s, capture[s.Name])
		if err != nil {
			return nil, err
		}
		rec[s.Name] = v
	}
	return rec, nil
}
