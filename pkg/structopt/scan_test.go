// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package structopt

import (
	"errors"
	"reflect"
	"testing"
)

func scanSpecs(t *testing.T) []OptionSpec {
	t.Helper()
	specs, err := Compile([]FieldDescriptor{
		{Name: "verbose", Type: Int(), Short: Auto(), FromOccurrences: true},
		{Name: "file", Type: String(), Short: Auto(), Long: Auto()},
		{Name: "debug", Type: Bool(), Short: Auto(), Long: Auto()},
		{Name: "tags", Type: ListOf(String()), Long: Auto()},
		{Name: "src", Type: String(), Positional: Auto()},
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return specs
}

func TestScan(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		wantCapture  Capture
		wantLeftover []string
	}{
		{
			name:        "occurrence cluster",
			args:        []string{"-vvv"},
			wantCapture: Capture{"verbose": {"", "", ""}},
		},
		{
			name:        "mixed cluster takes next token",
			args:        []string{"-vf", "value"},
			wantCapture: Capture{"verbose": {""}, "file": {"value"}},
		},
		{
			name:        "cluster remainder is the value",
			args:        []string{"-vdfout.txt"},
			wantCapture: Capture{"verbose": {""}, "debug": {""}, "file": {"out.txt"}},
		},
		{
			name:        "short with equals keeps the equals",
			args:        []string{"-f=out.txt"},
			wantCapture: Capture{"file": {"=out.txt"}},
		},
		{
			name:        "short with bare equals",
			args:        []string{"-vf="},
			wantCapture: Capture{"verbose": {""}, "file": {"="}},
		},
		{
			name:        "long with equals and separate value",
			args:        []string{"--file=a", "--file", "b"},
			wantCapture: Capture{"file": {"a", "b"}},
		},
		{
			name:        "value token may start with a dash",
			args:        []string{"--file", "-v"},
			wantCapture: Capture{"file": {"-v"}},
		},
		{
			name:         "bool does not consume next token",
			args:         []string{"--debug", "x"},
			wantCapture:  Capture{"debug": {""}},
			wantLeftover: []string{"x"},
		},
		{
			name:        "bool with attached value is recorded",
			args:        []string{"--debug=yes"},
			wantCapture: Capture{"debug": {"yes"}},
		},
		{
			name:         "interleaved positionals keep order",
			args:         []string{"a", "--tags", "x", "b", "-v", "c"},
			wantCapture:  Capture{"tags": {"x"}, "verbose": {""}},
			wantLeftover: []string{"a", "b", "c"},
		},
		{
			name:         "terminator makes the rest positional",
			args:         []string{"-v", "--", "--debug", "-x"},
			wantCapture:  Capture{"verbose": {""}},
			wantLeftover: []string{"--debug", "-x"},
		},
		{
			name:         "single dash is positional",
			args:         []string{"-"},
			wantCapture:  Capture{},
			wantLeftover: []string{"-"},
		},
		{
			name:        "empty argv",
			args:        nil,
			wantCapture: Capture{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capture, leftover, err := Scan(tt.args, scanSpecs(t))
			if err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			if !reflect.DeepEqual(capture, tt.wantCapture) {
				t.Errorf("capture = %#v, want %#v", capture, tt.wantCapture)
			}
			if !reflect.DeepEqual(leftover, tt.wantLeftover) {
				t.Errorf("leftover = %#v, want %#v", leftover, tt.wantLeftover)
			}
		})
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantOption string
		wantField  string
		wantMsg    string
	}{
		{
			name:       "unknown long option",
			args:       []string{"--nope"},
			wantOption: "--nope",
			wantMsg:    "unknown option",
		},
		{
			name:       "unknown long option with value",
			args:       []string{"--nope=1"},
			wantOption: "--nope",
			wantMsg:    "unknown option",
		},
		{
			name:       "unknown short option in cluster",
			args:       []string{"-vx"},
			wantOption: "-x",
			wantMsg:    "unknown option",
		},
		{
			name:       "negative number is not a positional",
			args:       []string{"-5"},
			wantOption: "-5",
			wantMsg:    "unknown option",
		},
		{
			name:       "missing long value",
			args:       []string{"src", "--file"},
			wantOption: "--file",
			wantField:  "file",
			wantMsg:    "missing value for option",
		},
		{
			name:       "missing short value",
			args:       []string{"-vf"},
			wantOption: "-f",
			wantField:  "file",
			wantMsg:    "missing value for option",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Scan(tt.args, scanSpecs(t))
			var se *ScanError
			if !errors.As(err, &se) {
				t.Fatalf("Scan() error = %v, want *ScanError", err)
			}
			if se.Option != tt.wantOption {
				t.Errorf("Option = %q, want %q", se.Option, tt.wantOption)
			}
			if se.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", se.Field, tt.wantField)
			}
			if se.Msg != tt.wantMsg {
				t.Errorf("Msg = %q, want %q", se.Msg, tt.wantMsg)
			}
		})
	}
}
