// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package descfile loads structopt field descriptors from TOML or YAML
// descriptor files.
//
// A descriptor file looks like:
//
//	program = "copy"
//	description = "Copy files"
//
//	[[field]]
//	name = "verbose"
//	type = "int"
//	short = true
//	long = false
//	from_occurrences = true
//
//	[[field]]
//	name = "files"
//	type = "list[path]"
//	positional = "FILE"
//
// short, long and positional accept true (derive the name), false (no name)
// or an explicit name. A missing long defaults to true.
package descfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/yeetrun/structopt/pkg/structopt"
	"gopkg.in/yaml.v3"
)

// FileName is the descriptor file Find looks for.
const FileName = "structopt.toml"

// Format is a descriptor file encoding.
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown descriptor format for %s (want .toml, .yaml or .yml)", path)
}

// Descriptor is a loaded descriptor file.
type Descriptor struct {
	Path        string
	Program     string
	Description string
	Fields      []structopt.FieldDescriptor
}

type document struct {
	Program     string  `toml:"program" yaml:"program"`
	Description string  `toml:"description" yaml:"description"`
	Fields      []field `toml:"field" yaml:"field"`
}

type field struct {
	Name            string `toml:"name" yaml:"name"`
	Type            string `toml:"type" yaml:"type"`
	Short           any    `toml:"short" yaml:"short"`
	Long            any    `toml:"long" yaml:"long"`
	Positional      any    `toml:"positional" yaml:"positional"`
	FromOccurrences bool   `toml:"from_occurrences" yaml:"from_occurrences"`
	Default         any    `toml:"default" yaml:"default"`
	Help            string `toml:"help" yaml:"help"`
}

// Load reads and decodes the descriptor file at path.
func Load(path string) (*Descriptor, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	d.Path = path
	return d, nil
}

// Decode decodes a descriptor document. The returned fields are not
// compiled; structopt.Compile reports naming problems.
func Decode(data []byte, format Format) (*Descriptor, error) {
	var doc document
	switch format {
	case TOML:
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&doc)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown key %s", undecoded[0])
		}
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown descriptor format %q", format)
	}

	d := &Descriptor{
		Program:     doc.Program,
		Description: doc.Description,
		Fields:      make([]structopt.FieldDescriptor, 0, len(doc.Fields)),
	}
	for i, f := range doc.Fields {
		fd, err := f.descriptor()
		if err != nil {
			if f.Name == "" {
				return nil, fmt.Errorf("field %d: %w", i, err)
			}
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		d.Fields = append(d.Fields, fd)
	}
	return d, nil
}

func (f field) descriptor() (structopt.FieldDescriptor, error) {
	if f.Type == "" {
		return structopt.FieldDescriptor{}, errors.New("missing type")
	}
	t, err := ParseType(f.Type)
	if err != nil {
		return structopt.FieldDescriptor{}, err
	}
	fd := structopt.FieldDescriptor{
		Name:            f.Name,
		Type:            t,
		FromOccurrences: f.FromOccurrences,
		Help:            f.Help,
	}
	if fd.Short, err = nameOf("short", f.Short, structopt.Name{}); err != nil {
		return structopt.FieldDescriptor{}, err
	}
	if fd.Long, err = nameOf("long", f.Long, structopt.Auto()); err != nil {
		return structopt.FieldDescriptor{}, err
	}
	if fd.Positional, err = nameOf("positional", f.Positional, structopt.Name{}); err != nil {
		return structopt.FieldDescriptor{}, err
	}
	if fd.Default, err = convertDefault(f.Default, t); err != nil {
		return structopt.FieldDescriptor{}, fmt.Errorf("default: %w", err)
	}
	return fd, nil
}

// nameOf interprets a short, long or positional key.
func nameOf(key string, v any, missing structopt.Name) (structopt.Name, error) {
	switch v := v.(type) {
	case nil:
		return missing, nil
	case bool:
		if v {
			return structopt.Auto(), nil
		}
		return structopt.Name{}, nil
	case string:
		return structopt.Named(v), nil
	}
	return structopt.Name{}, fmt.Errorf("%s must be true, false or a name, got %T", key, v)
}

// convertDefault converts a decoded default to the value Parse would
// produce for t. Non-bool values go through the same conversion as
// command line strings.
func convertDefault(v any, t structopt.Type) (any, error) {
	if v == nil {
		return nil, nil
	}
	if t.Kind == structopt.KindBool {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("want bool, got %T", v)
		}
		return b, nil
	}
	var raw []string
	if t.IsList() {
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("want a list for %s, got %T", t, v)
		}
		for _, item := range items {
			raw = append(raw, fmt.Sprint(item))
		}
	} else {
		raw = []string{fmt.Sprint(v)}
	}
	return structopt.Coerce(raw, t)
}

// Find looks for FileName in startDir and its parents. It returns an
// error satisfying errors.Is(err, os.ErrNotExist) if there is none.
func Find(startDir string) (string, error) {
	dir := filepath.Clean(startDir)
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}
