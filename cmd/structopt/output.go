// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/yeetrun/structopt/pkg/structopt"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
	outputArgv  = "argv"
)

// outputFormat resolves the -o flag. With no flag, terminals get a table
// and everything else gets JSON.
func outputFormat(flag string, stdout io.Writer) (string, error) {
	switch flag {
	case outputTable, outputJSON, outputYAML, outputArgv:
		return flag, nil
	case "":
		if f, ok := stdout.(*os.File); ok && isTerminalFn(int(f.Fd())) {
			return outputTable, nil
		}
		return outputJSON, nil
	}
	return "", fmt.Errorf("invalid output format %q (want table, json, yaml or argv)", flag)
}

func writeRecord(w io.Writer, format string, specs []structopt.OptionSpec, rec structopt.Record) error {
	switch format {
	case outputTable:
		tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
		fmt.Fprintln(tw, "FIELD\tTYPE\tVALUE")
		for _, s := range specs {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, s.Type, display(rec[s.Name]))
		}
		return tw.Flush()
	case outputArgv:
		return writeArgv(w, specs, rec)
	}
	return encode(w, format, plainRecord(rec))
}

func writeRecords(w io.Writer, format string, specs []structopt.OptionSpec, recs []structopt.Record) error {
	switch format {
	case outputTable:
		tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
		names := make([]string, len(specs))
		for i, s := range specs {
			names[i] = strings.ToUpper(s.Name)
		}
		fmt.Fprintln(tw, strings.Join(names, "\t"))
		for _, rec := range recs {
			vals := make([]string, len(specs))
			for i, s := range specs {
				vals[i] = display(rec[s.Name])
			}
			fmt.Fprintln(tw, strings.Join(vals, "\t"))
		}
		return tw.Flush()
	case outputArgv:
		for _, rec := range recs {
			if err := writeArgv(w, specs, rec); err != nil {
				return err
			}
		}
		return nil
	}
	out := make([]map[string]any, len(recs))
	for i, rec := range recs {
		out[i] = plainRecord(rec)
	}
	return encode(w, format, out)
}

func encode(w io.Writer, format string, v any) error {
	if format == outputYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeArgv prints the canonical argv for rec on one line, quoting tokens
// that would not survive whitespace splitting.
func writeArgv(w io.Writer, specs []structopt.OptionSpec, rec structopt.Record) error {
	argv, err := structopt.Format(specs, rec)
	if err != nil {
		return err
	}
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		if arg == "" || strings.ContainsAny(arg, " \t\n\"'\\") {
			arg = strconv.Quote(arg)
		}
		quoted[i] = arg
	}
	_, err = fmt.Fprintln(w, strings.Join(quoted, " "))
	return err
}

func plainRecord(rec structopt.Record) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		out[k] = plain(v)
	}
	return out
}

// plain converts values with a text form, like durations and addresses,
// into strings so they encode the way they were written.
func plain(v any) any {
	switch v := v.(type) {
	case nil, bool, int, string, float64:
		return v
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = plain(item)
		}
		return out
	case encoding.TextMarshaler:
		b, err := v.MarshalText()
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	case fmt.Stringer:
		return v.String()
	}
	return v
}

func display(v any) string {
	switch v := plain(v).(type) {
	case nil:
		return "-"
	case string:
		return strconv.Quote(v)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = display(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(v)
	}
}
