// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package structopt

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var (
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	durationType        = reflect.TypeOf(time.Duration(0))
)

// Descriptors derives field descriptors from the exported fields of a
// struct (or pointer to struct). Field names are converted to snake case,
// so OutputDir becomes "output_dir" and its long flag "--output-dir".
//
// Struct tags:
//
//	long:"name"   explicit long name; long:"-" disables it (default: derived)
//	short:"x"     explicit short name; short:"auto" derives it
//	pos:""        positional, display name derived; pos:"NAME" explicit
//	count:""      int field counting flag occurrences (-vvv -> 3)
//	oneof:"a,b"   only accept these literal values
//	required:""   no default; the field must be given
//	help:"..."    help text
//	ignore:""     skip the field
//
// The current field values are used as defaults.
func Descriptors(v any) ([]FieldDescriptor, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, errors.New("structopt: nil pointer")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("structopt: %T is not a struct", v)
	}
	fields, _, err := describeStruct(rv)
	return fields, err
}

// ParseInto parses argv into the struct pointed to by dst. It returns
// ErrHelp, without parsing, if argv contains a help token.
func ParseInto(dst any, argv []string) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("structopt: %T is not a pointer to a struct", dst)
	}
	if HelpRequested(argv) {
		return ErrHelp
	}
	sv := rv.Elem()
	fields, index, err := describeStruct(sv)
	if err != nil {
		return err
	}
	rec, err := Parse(fields, argv)
	if err != nil {
		return err
	}
	for i, f := range fields {
		field := sv.Field(index[i])
		if err := assignValue(field, rec[f.Name]); err != nil {
			return &CoerceError{Field: f.Name, Type: f.Type, Index: -1, Err: err}
		}
	}
	return nil
}

// describeStruct returns the descriptors of sv and, for each, the index of
// the struct field it came from.
func describeStruct(sv reflect.Value) ([]FieldDescriptor, []int, error) {
	st := sv.Type()
	var (
		fields []FieldDescriptor
		index  []int
	)
	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		if !sf.IsExported() {
			continue
		}
		if _, ok := sf.Tag.Lookup("ignore"); ok {
			continue
		}
		fd, err := describeField(sf, sv.Field(i))
		if err != nil {
			return nil, nil, err
		}
		fields = append(fields, fd)
		index = append(index, i)
	}
	return fields, index, nil
}

func describeField(sf reflect.StructField, fv reflect.Value) (FieldDescriptor, error) {
	name := snakeCase(sf.Name)
	fd := FieldDescriptor{
		Name: name,
		Help: sf.Tag.Get("help"),
		Long: Auto(),
	}

	if long, ok := sf.Tag.Lookup("long"); ok {
		switch long {
		case "-":
			fd.Long = Name{}
		case "":
		default:
			fd.Long = Named(long)
		}
	}
	if short, ok := sf.Tag.Lookup("short"); ok {
		if short == "auto" || short == "" {
			fd.Short = Auto()
		} else {
			fd.Short = Named(short)
		}
	}
	if pos, ok := sf.Tag.Lookup("pos"); ok {
		if pos == "" {
			fd.Positional = Auto()
		} else {
			fd.Positional = Named(pos)
		}
	}
	_, fd.FromOccurrences = sf.Tag.Lookup("count")

	t, err := typeOf(sf.Type)
	if err != nil {
		return FieldDescriptor{}, fmt.Errorf("structopt: field %s: %w", sf.Name, err)
	}
	if oneof, ok := sf.Tag.Lookup("oneof"); ok {
		lits, err := literalsFor(sf.Type, oneof)
		if err != nil {
			return FieldDescriptor{}, fmt.Errorf("structopt: field %s: %w", sf.Name, err)
		}
		if t.IsList() {
			t = ListOf(lits)
		} else {
			t = lits
		}
	}
	fd.Type = t

	if _, required := sf.Tag.Lookup("required"); !required {
		fd.Default = defaultOf(fv)
	}
	return fd, nil
}

// typeOf maps a Go type to a declared value type.
func typeOf(t reflect.Type) (Type, error) {
	if t == durationType {
		return Duration(), nil
	}
	if t.Kind() != reflect.Ptr && reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return textScalarOf(t), nil
	}
	switch t.Kind() {
	case reflect.Bool:
		return Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int(), nil
	case reflect.String:
		return String(), nil
	case reflect.Float32, reflect.Float64:
		return Float(), nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Slice {
			return Type{}, fmt.Errorf("unsupported type %s", t)
		}
		elem, err := typeOf(t.Elem())
		if err != nil {
			return Type{}, err
		}
		return ListOf(elem), nil
	}
	return Type{}, fmt.Errorf("unsupported type %s", t)
}

func textScalarOf(t reflect.Type) Type {
	return Scalar(t.String(), func(s string) (any, error) {
		p := reflect.New(t)
		if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return nil, err
		}
		return p.Elem().Interface(), nil
	})
}

// literalsFor parses a comma separated oneof tag against the field's
// (element) kind.
func literalsFor(t reflect.Type, tag string) (Type, error) {
	if t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	var vals []any
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		switch t.Kind() {
		case reflect.String:
			vals = append(vals, part)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			n, err := strconv.Atoi(part)
			if err != nil {
				return Type{}, fmt.Errorf("invalid int in oneof tag %q", part)
			}
			vals = append(vals, n)
		default:
			return Type{}, fmt.Errorf("oneof is not supported for %s", t)
		}
	}
	return Literals(vals...), nil
}

// defaultOf converts a field's current value into the value coercion would
// produce for it.
func defaultOf(fv reflect.Value) any {
	t := fv.Type()
	if t == durationType {
		return time.Duration(fv.Int())
	}
	if t.Kind() != reflect.Ptr && reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return fv.Interface()
	}
	switch fv.Kind() {
	case reflect.Bool:
		return fv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(fv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(fv.Uint())
	case reflect.String:
		return fv.String()
	case reflect.Float32, reflect.Float64:
		return fv.Float()
	case reflect.Slice:
		if fv.Len() == 0 {
			return nil
		}
		out := make([]any, fv.Len())
		for i := range out {
			out[i] = defaultOf(fv.Index(i))
		}
		return out
	}
	return nil
}

// assignValue stores a coerced value into a struct field.
func assignValue(field reflect.Value, v any) error {
	if v == nil {
		return nil
	}
	t := field.Type()
	if rv := reflect.ValueOf(v); rv.Type().AssignableTo(t) {
		field.Set(rv)
		return nil
	}
	switch field.Kind() {
	case reflect.Bool:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("cannot assign %T to %s", v, t)
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := v.(int)
		if !ok {
			return fmt.Errorf("cannot assign %T to %s", v, t)
		}
		if field.OverflowInt(int64(n)) {
			return fmt.Errorf("value %d overflows %s", n, t)
		}
		field.SetInt(int64(n))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := v.(int)
		if !ok {
			return fmt.Errorf("cannot assign %T to %s", v, t)
		}
		if n < 0 || field.OverflowUint(uint64(n)) {
			return fmt.Errorf("value %d overflows %s", n, t)
		}
		field.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		f, ok := v.(float64)
		if !ok {
			return fmt.Errorf("cannot assign %T to %s", v, t)
		}
		if field.OverflowFloat(f) {
			return fmt.Errorf("value %v overflows %s", f, t)
		}
		field.SetFloat(f)
	case reflect.String:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("cannot assign %T to %s", v, t)
		}
		field.SetString(s)
	case reflect.Slice:
		items, ok := v.([]any)
		if !ok {
			return fmt.Errorf("cannot assign %T to %s", v, t)
		}
		slice := reflect.MakeSlice(t, len(items), len(items))
		for i, item := range items {
			if err := assignValue(slice.Index(i), item); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		field.Set(slice)
	default:
		return fmt.Errorf("cannot assign %T to %s", v, t)
	}
	return nil
}

// snakeCase converts a Go identifier to snake case: HTTPPort -> http_port.
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
