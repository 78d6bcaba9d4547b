// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package structopt turns a declarative list of field descriptors into a
// command-line parser that yields a fully typed record.
//
// Parsing runs in three stages:
//   - Compile validates the descriptors and resolves short, long and
//     positional names into option specs.
//   - Scan walks argv and collects raw strings per option, leaving the
//     remaining tokens for Assign, which hands them to positional fields in
//     declaration order.
//   - Coerce converts each field's raw strings into its declared type.
//
// # Basic Usage
//
//	fields := []structopt.FieldDescriptor{
//	    {Name: "verbose", Type: structopt.Int(), Short: structopt.Auto(), FromOccurrences: true},
//	    {Name: "output_dir", Type: structopt.Path(), Long: structopt.Auto(), Default: "."},
//	    {Name: "files", Type: structopt.ListOf(structopt.Path()), Positional: structopt.Auto()},
//	}
//
//	rec, err := structopt.Parse(fields, os.Args[1:])
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(rec.Int("verbose"), rec["output_dir"], rec.List("files"))
//
// # Flag Syntax
//
//   - Long options: --output-dir dir, --output-dir=dir
//   - Short options and clusters: -v, -vvv, -vo dir, -vodir
//   - "--" ends option processing; everything after it is positional
//
// Options and positionals may be interleaved. Unknown options are errors.
//
// # Names
//
// Long names replace "_" with "-" (output_dir -> --output-dir). An
// automatic short name is the first character of the long name, or of the
// field name when there is no long name.
//
// # Types
//
// bool, int and string are built in. Scalar wraps any type constructible
// from a string (Float, Duration, Path and TextScalar are provided). ListOf
// makes a field repeatable; a list positional absorbs all remaining
// positional tokens. OneOf and Literal express ordered alternatives: the
// first alternative that accepts the value wins.
//
// # Structs
//
// ParseInto derives descriptors from struct tags and fills the struct:
//
//	type Flags struct {
//	    Verbose int      `short:"v" count:"" help:"Increase verbosity"`
//	    Mode    string   `oneof:"fast,slow" help:"Run mode"`
//	    Files   []string `pos:"FILE"`
//	}
//
//	flags := Flags{Mode: "fast"}
//	if err := structopt.ParseInto(&flags, os.Args[1:]); err != nil {
//	    ...
//	}
package structopt
