// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command structopt parses an argument vector against a descriptor file and
// prints the resulting record.
//
//	structopt [-f FILE] [-o table|json|yaml|argv] [--batch FILE] [-v] [--] ARGV...
//
// Our own flags must come first. The first token that is not one of them,
// or a "--", starts ARGV.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/shayne/yargs"
	"github.com/yeetrun/structopt/pkg/descfile"
	"github.com/yeetrun/structopt/pkg/structopt"
	"golang.org/x/term"
)

type flagsParsed struct {
	File    string `flag:"file" short:"f" help:"Descriptor file (default: nearest structopt.toml)"`
	Output  string `flag:"output" short:"o" help:"Output format (table|json|yaml|argv)"`
	Batch   string `flag:"batch" help:"Parse one argv per line of FILE (- reads stdin)"`
	Prog    string `flag:"prog" help:"Program name shown in usage"`
	Verbose bool   `flag:"verbose" short:"v" help:"Log diagnostics to stderr"`
}

// driverFlags maps each spelling of our own flags to its long name.
var driverFlags = map[string]string{
	"-f":        "file",
	"--file":    "file",
	"-o":        "output",
	"--output":  "output",
	"--batch":   "batch",
	"--prog":    "prog",
	"-v":        "verbose",
	"--verbose": "verbose",
}

// splitDriverArgs returns the leading run of our own flags in args, each
// rewritten as --name or --name=value, and the argv that follows it. The
// run ends at the first token that is not one of our flags; a "--" ending
// it is dropped. A value flag takes the next token even if it starts with
// "-", as the parsed program's options do.
func splitDriverArgs(args []string) (own, argv []string) {
	i := 0
	for i < len(args) {
		spelling, value, hasValue := strings.Cut(args[i], "=")
		name, ok := driverFlags[spelling]
		if !ok {
			break
		}
		takesValue := name != "verbose"
		if hasValue && !takesValue {
			break
		}
		i++
		switch {
		case hasValue:
			own = append(own, "--"+name+"="+value)
		case takesValue && i < len(args):
			own = append(own, "--"+name+"="+args[i])
			i++
		default:
			own = append(own, "--"+name)
		}
	}
	argv = args[i:]
	if len(argv) > 0 && argv[0] == "--" {
		argv = argv[1:]
	}
	return own, argv
}

// parseFlags splits args into our own flags and the argv to parse. Our
// flags are only recognized at the front of args; the first other token,
// or a "--", starts the argv.
func parseFlags(args []string) (flagsParsed, []string, error) {
	own, argv := splitDriverArgs(args)
	result, err := yargs.ParseKnownFlags[flagsParsed](own, yargs.KnownFlagsOptions{})
	if err != nil {
		return flagsParsed{}, nil, err
	}
	if len(result.RemainingArgs) > 0 {
		return flagsParsed{}, nil, fmt.Errorf("unexpected arguments: %s", strings.Join(result.RemainingArgs, " "))
	}
	return result.Flags, argv, nil
}

var isTerminalFn = term.IsTerminal

type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getwd  func() (string, error)
}

func main() {
	log.SetFlags(0)
	e := env{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr, getwd: os.Getwd}
	os.Exit(run(context.Background(), os.Args[1:], e))
}

func run(ctx context.Context, args []string, e env) int {
	flags, argv, err := parseFlags(args)
	if err != nil {
		printError(e.stderr, err)
		return 1
	}
	log.SetOutput(io.Discard)
	if flags.Verbose {
		log.SetOutput(e.stderr)
	}
	if err := runParse(ctx, flags, argv, e); err != nil {
		printError(e.stderr, err)
		return 1
	}
	return 0
}

func runParse(ctx context.Context, flags flagsParsed, argv []string, e env) error {
	format, err := outputFormat(flags.Output, e.stdout)
	if err != nil {
		return err
	}
	d, err := loadDescriptor(flags.File, e.getwd)
	if err != nil {
		return err
	}
	log.Printf("loaded %d fields from %s", len(d.Fields), d.Path)

	p, err := structopt.NewParser(d.Fields)
	if err != nil {
		return err
	}
	specs := p.Specs()

	if flags.Batch == "" && structopt.HelpRequested(argv) {
		return writeHelp(e.stdout, progName(flags.Prog, d), d.Description, specs)
	}

	if flags.Batch != "" {
		argvs, err := readBatch(flags.Batch, e.stdin)
		if err != nil {
			return err
		}
		if len(argv) > 0 {
			return fmt.Errorf("unexpected arguments with --batch: %s", strings.Join(argv, " "))
		}
		log.Printf("parsing %d argument vectors", len(argvs))
		recs, err := p.ParseAll(ctx, argvs)
		if err != nil {
			return err
		}
		return writeRecords(e.stdout, format, specs, recs)
	}

	log.Printf("parsing %q", argv)
	rec, err := p.Parse(argv)
	if err != nil {
		return err
	}
	return writeRecord(e.stdout, format, specs, rec)
}

func loadDescriptor(file string, getwd func() (string, error)) (*descfile.Descriptor, error) {
	if file == "" {
		cwd, err := getwd()
		if err != nil {
			return nil, err
		}
		file, err = descfile.Find(cwd)
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no %s found in %s or its parents; use -f FILE", descfile.FileName, cwd)
		}
		if err != nil {
			return nil, err
		}
	}
	return descfile.Load(file)
}

func progName(flag string, d *descfile.Descriptor) string {
	if flag != "" {
		return flag
	}
	if d.Program != "" {
		return d.Program
	}
	base := filepath.Base(d.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writeHelp(w io.Writer, prog, description string, specs []structopt.OptionSpec) error {
	if description != "" {
		if _, err := fmt.Fprintf(w, "%s\n\n", description); err != nil {
			return err
		}
	}
	return structopt.WriteUsage(w, prog, specs)
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, color.RedString("error: %v", err))
}
