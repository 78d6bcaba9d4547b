// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const testDescriptor = `
program = "copy"
description = "Copy files somewhere"

[[field]]
name = "verbose"
type = "int"
short = true
long = false
from_occurrences = true

[[field]]
name = "mode"
type = 'literal["fast", "slow"]'
short = true
default = "fast"

[[field]]
name = "timeout"
type = "duration"
default = "5s"

[[field]]
name = "files"
type = "list[path]"
long = false
positional = "FILE"
`

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantFile string
		wantOut  string
		wantVerb bool
		wantArgv []string
	}{
		{
			name:     "own flags then argv",
			args:     []string{"-f", "d.toml", "-o", "json", "a", "b"},
			wantFile: "d.toml",
			wantOut:  "json",
			wantArgv: []string{"a", "b"},
		},
		{
			name:     "double dash protects argv",
			args:     []string{"--file=d.toml", "--", "-o", "x", "--"},
			wantFile: "d.toml",
			wantArgv: []string{"-o", "x", "--"},
		},
		{
			name:     "first other token starts argv",
			args:     []string{"-f", "d.toml", "--name", "-v", "-o", "json"},
			wantFile: "d.toml",
			wantArgv: []string{"--name", "-v", "-o", "json"},
		},
		{
			name:     "unknown flag ends our flags",
			args:     []string{"-vv", "-f", "d.toml"},
			wantArgv: []string{"-vv", "-f", "d.toml"},
		},
		{
			name:     "value may start with a dash",
			args:     []string{"--batch", "-", "-v", "--output", "yaml", "x"},
			wantOut:  "yaml",
			wantVerb: true,
			wantArgv: []string{"x"},
		},
		{
			name:     "bool flag with a value is argv",
			args:     []string{"--verbose=1"},
			wantArgv: []string{"--verbose=1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags, argv, err := parseFlags(tt.args)
			if err != nil {
				t.Fatalf("parseFlags error: %v", err)
			}
			if flags.File != tt.wantFile {
				t.Errorf("File = %q, want %q", flags.File, tt.wantFile)
			}
			if flags.Output != tt.wantOut {
				t.Errorf("Output = %q, want %q", flags.Output, tt.wantOut)
			}
			if flags.Verbose != tt.wantVerb {
				t.Errorf("Verbose = %v, want %v", flags.Verbose, tt.wantVerb)
			}
			if !reflect.DeepEqual(argv, tt.wantArgv) {
				t.Errorf("argv = %#v, want %#v", argv, tt.wantArgv)
			}
		})
	}
}

type result struct {
	code   int
	stdout string
	stderr string
}

func runIn(t *testing.T, dir string, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	e := env{
		stdin:  strings.NewReader(stdin),
		stdout: &stdout,
		stderr: &stderr,
		getwd:  func() (string, error) { return dir, nil },
	}
	code := run(context.Background(), args, e)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func descriptorDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "structopt.toml"), []byte(testDescriptor), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	nested := filepath.Join(dir, "sub")
	if err := os.Mkdir(nested, 0o755); err != nil {
		t.Fatalf("Mkdir error: %v", err)
	}
	return nested
}

func TestRunJSON(t *testing.T) {
	dir := descriptorDir(t)
	res := runIn(t, dir, "", "--", "-vv", "a/./b", "-m", "slow", "c")
	if res.code != 0 {
		t.Fatalf("run() = %d, stderr = %s", res.code, res.stderr)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(res.stdout), &got); err != nil {
		t.Fatalf("json.Unmarshal(%q) error: %v", res.stdout, err)
	}
	want := map[string]any{
		"verbose": float64(2),
		"mode":    "slow",
		"timeout": "5s",
		"files":   []any{"a/b", "c"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("output = %#v, want %#v", got, want)
	}
}

func TestRunArgvKeepsOurFlagNames(t *testing.T) {
	dir := descriptorDir(t)
	res := runIn(t, dir, "", "-o", "json", "x", "-v", "-m", "slow")
	if res.code != 0 {
		t.Fatalf("run() = %d, stderr = %s", res.code, res.stderr)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(res.stdout), &got); err != nil {
		t.Fatalf("json.Unmarshal(%q) error: %v", res.stdout, err)
	}
	if got["verbose"] != float64(1) || got["mode"] != "slow" {
		t.Errorf("output = %#v, want verbose 1 and mode slow", got)
	}
}

func TestRunOutputs(t *testing.T) {
	dir := descriptorDir(t)

	res := runIn(t, dir, "", "-o", "yaml", "--", "x")
	if res.code != 0 {
		t.Fatalf("run(yaml) = %d, stderr = %s", res.code, res.stderr)
	}
	var got map[string]any
	if err := yaml.Unmarshal([]byte(res.stdout), &got); err != nil {
		t.Fatalf("yaml.Unmarshal(%q) error: %v", res.stdout, err)
	}
	if got["mode"] != "fast" || got["verbose"] != 0 {
		t.Errorf("yaml output = %#v", got)
	}

	res = runIn(t, dir, "", "-o", "table", "--", "-v", "x")
	if res.code != 0 {
		t.Fatalf("run(table) = %d, stderr = %s", res.code, res.stderr)
	}
	for _, want := range []string{"FIELD", "verbose", `["x"]`, `"fast"`} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("table output missing %q:\n%s", want, res.stdout)
		}
	}

	res = runIn(t, dir, "", "-o", "argv", "--", "-v", "x", "-m", "slow", "has space")
	if res.code != 0 {
		t.Fatalf("run(argv) = %d, stderr = %s", res.code, res.stderr)
	}
	if want := "-v --mode=slow --timeout=5s -- x \"has space\"\n"; res.stdout != want {
		t.Errorf("argv output = %q, want %q", res.stdout, want)
	}
}

func TestRunBatch(t *testing.T) {
	dir := descriptorDir(t)
	stdin := "# comment\n-v a\n\n-m slow b c\n"
	res := runIn(t, dir, stdin, "--batch=-", "-o", "json")
	if res.code != 0 {
		t.Fatalf("run() = %d, stderr = %s", res.code, res.stderr)
	}
	var got []map[string]any
	if err := json.Unmarshal([]byte(res.stdout), &got); err != nil {
		t.Fatalf("json.Unmarshal(%q) error: %v", res.stdout, err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0]["verbose"] != float64(1) || got[1]["mode"] != "slow" {
		t.Errorf("batch output = %#v", got)
	}
	if !reflect.DeepEqual(got[1]["files"], []any{"b", "c"}) {
		t.Errorf("files = %#v, want [b c]", got[1]["files"])
	}
}

func TestRunHelp(t *testing.T) {
	dir := descriptorDir(t)
	res := runIn(t, dir, "", "--", "--help")
	if res.code != 0 {
		t.Fatalf("run() = %d, stderr = %s", res.code, res.stderr)
	}
	for _, want := range []string{"Copy files somewhere", "USAGE:\n    copy [OPTIONS] [FILE...]", "-m, --mode"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("help output missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestRunErrors(t *testing.T) {
	dir := descriptorDir(t)
	tests := []struct {
		name    string
		dir     string
		args    []string
		stdin   string
		wantMsg string
	}{
		{"unknown option", dir, []string{"--", "--nope"}, "", "unknown option: --nope"},
		{"bad literal", dir, []string{"--", "-m", "medium"}, "", "field mode"},
		{"bad output", dir, []string{"-o", "xml"}, "", "invalid output format"},
		{"no descriptor", t.TempDir(), nil, "", "no structopt.toml found"},
		{"batch line", dir, []string{"--batch=-"}, "a\n-m medium\n", "argv 1"},
		{"batch with argv", dir, []string{"--batch=-", "--", "a"}, "a\n", "unexpected arguments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runIn(t, tt.dir, tt.stdin, tt.args...)
			if res.code != 1 {
				t.Fatalf("run() = %d, want 1 (stdout = %s)", res.code, res.stdout)
			}
			if !strings.Contains(res.stderr, tt.wantMsg) {
				t.Errorf("stderr = %q, want it to contain %q", res.stderr, tt.wantMsg)
			}
		})
	}
}

func TestReadBatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "argvs")
	if err := os.WriteFile(path, []byte("  -v   a \n#x\nb\n"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	got, err := readBatch(path, nil)
	if err != nil {
		t.Fatalf("readBatch error: %v", err)
	}
	want := [][]string{{"-v", "a"}, {"b"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("readBatch = %#v, want %#v", got, want)
	}
}

func TestReadBatchQuoted(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{`-m slow -- x "has space"`, []string{"-m", "slow", "--", "x", "has space"}},
		{`"" "tab\there" a"b`, []string{"", "tab\there", `a"b`}},
	}
	for _, tt := range tests {
		got, err := readBatch("-", strings.NewReader(tt.line+"\n"))
		if err != nil {
			t.Fatalf("readBatch(%q) error: %v", tt.line, err)
		}
		if !reflect.DeepEqual(got, [][]string{tt.want}) {
			t.Errorf("readBatch(%q) = %#v, want %#v", tt.line, got, [][]string{tt.want})
		}
	}

	if _, err := readBatch("-", strings.NewReader("a\n\"open\n")); err == nil || !strings.Contains(err.Error(), "-:2") {
		t.Errorf("readBatch(unterminated) error = %v, want it to name line 2", err)
	}
}

func TestRunArgvFeedsBatch(t *testing.T) {
	dir := descriptorDir(t)
	res := runIn(t, dir, "", "-o", "argv", "--", "-vv", "x", "has space", "-m", "slow")
	if res.code != 0 {
		t.Fatalf("run(argv) = %d, stderr = %s", res.code, res.stderr)
	}
	again := runIn(t, dir, res.stdout, "--batch=-", "-o", "json")
	if again.code != 0 {
		t.Fatalf("run(batch) = %d, stderr = %s", again.code, again.stderr)
	}
	var got []map[string]any
	if err := json.Unmarshal([]byte(again.stdout), &got); err != nil {
		t.Fatalf("json.Unmarshal(%q) error: %v", again.stdout, err)
	}
	want := []map[string]any{{
		"verbose": float64(2),
		"mode":    "slow",
		"timeout": "5s",
		"files":   []any{"x", "has space"},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("batch output = %#v, want %#v", got, want)
	}
}
