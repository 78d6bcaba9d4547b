// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package structopt

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Help flag constants
const (
	helpFlagLong  = "--help"
	helpFlagShort = "-h"
)

// HelpRequested reports whether argv contains a help token before any "--"
// terminator. Help tokens are recognized regardless of the declared
// options, so callers check this before parsing.
func HelpRequested(argv []string) bool {
	for _, arg := range argv {
		if arg == terminator {
			return false
		}
		if arg == helpFlagLong || arg == helpFlagShort {
			return true
		}
	}
	return false
}

// WriteUsage writes a usage line and an option table for specs.
func WriteUsage(w io.Writer, prog string, specs []OptionSpec) error {
	var b strings.Builder
	b.WriteString("USAGE:\n    ")
	b.WriteString(prog)
	hasOptions := false
	for _, s := range specs {
		if s.IsOption() {
			hasOptions = true
			break
		}
	}
	if hasOptions {
		b.WriteString(" [OPTIONS]")
	}
	for _, s := range specs {
		if !s.Positional {
			continue
		}
		name := strings.ToUpper(s.Display)
		if s.Type.IsList() {
			fmt.Fprintf(&b, " [%s...]", name)
		} else if s.Default != nil {
			fmt.Fprintf(&b, " [%s]", name)
		} else {
			fmt.Fprintf(&b, " <%s>", name)
		}
	}
	b.WriteString("\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if hasPositional(specs) {
		fmt.Fprint(tw, "\nARGUMENTS:\n")
		for _, s := range specs {
			if s.Positional {
				fmt.Fprintf(tw, "    %s\t%s\t%s\n", strings.ToUpper(s.Display), s.Type, describe(s))
			}
		}
	}
	if hasOptions {
		fmt.Fprint(tw, "\nOPTIONS:\n")
		for _, s := range specs {
			if !s.IsOption() {
				continue
			}
			fmt.Fprintf(tw, "    %s\t%s\t%s\n", optionColumn(s), valueColumn(s), describe(s))
		}
	}
	return tw.Flush()
}

func hasPositional(specs []OptionSpec) bool {
	for _, s := range specs {
		if s.Positional {
			return true
		}
	}
	return false
}

func optionColumn(s OptionSpec) string {
	switch {
	case s.Short != "" && s.Long != "":
		return fmt.Sprintf("-%s, --%s", s.Short, s.Long)
	case s.Short != "":
		return "-" + s.Short
	default:
		return "    --" + s.Long
	}
}

func valueColumn(s OptionSpec) string {
	if !s.ValueRequired() {
		return ""
	}
	v := strings.ToUpper(strings.ReplaceAll(s.Name, "_", "-"))
	if s.Type.IsList() {
		return v + "..."
	}
	return v
}

func describe(s OptionSpec) string {
	desc := s.Help
	if s.Occurrences {
		desc = strings.TrimSpace(desc + " (repeatable)")
	}
	if s.Default != nil {
		desc = strings.TrimSpace(fmt.Sprintf("%s (default: %v)", desc, s.Default))
	}
	return desc
}
