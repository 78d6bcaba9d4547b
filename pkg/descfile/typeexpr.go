// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package descfile

import (
	"fmt"
	"net/netip"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/yeetrun/structopt/pkg/structopt"
)

var typeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Int", Pattern: `-?[0-9]+`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Punct", Pattern: `[\[\],]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var typeParser = participle.MustBuild[typeExpr](
	participle.Lexer(typeLexer),
	participle.Unquote("String"),
	participle.Elide("Whitespace"),
)

// typeExpr is NAME or NAME[ARG, ...].
type typeExpr struct {
	Pos  lexer.Position
	Name string     `parser:"@Ident"`
	Args []*typeArg `parser:"( '[' @@ ( ',' @@ )* ']' )?"`
}

type typeArg struct {
	Int  *string   `parser:"  @Int"`
	Str  *string   `parser:"| @String"`
	Expr *typeExpr `parser:"| @@"`
}

// scalars maps the names of argument-less types to their constructors.
var scalars = map[string]func() structopt.Type{
	"bool":     structopt.Bool,
	"int":      structopt.Int,
	"string":   structopt.String,
	"float":    structopt.Float,
	"duration": structopt.Duration,
	"path":     structopt.Path,
	"ip":       func() structopt.Type { return structopt.TextScalar[netip.Addr]("ip") },
}

// ParseType parses a type expression such as "list[int]" or
// `oneof[literal["fast", "slow"], int]`.
//
//	bool | int | string | float | duration | path | ip
//	list[T]
//	literal[v, ...]   v is an integer, a quoted string, true, false or a bare word
//	oneof[T, ...]
//
// literal[a, b] is shorthand for oneof[literal[a], literal[b]].
func ParseType(expr string) (structopt.Type, error) {
	e, err := typeParser.ParseString("", expr)
	if err != nil {
		return structopt.Type{}, fmt.Errorf("invalid type %q: %w", expr, err)
	}
	t, err := e.build()
	if err != nil {
		return structopt.Type{}, fmt.Errorf("invalid type %q: %w", expr, err)
	}
	return t, nil
}

func (e *typeExpr) build() (structopt.Type, error) {
	if ctor, ok := scalars[e.Name]; ok {
		if len(e.Args) > 0 {
			return structopt.Type{}, fmt.Errorf("column %d: %s takes no parameters", e.Pos.Column, e.Name)
		}
		return ctor(), nil
	}
	switch e.Name {
	case "list":
		if len(e.Args) != 1 || e.Args[0].Expr == nil {
			return structopt.Type{}, fmt.Errorf("column %d: list takes exactly one element type", e.Pos.Column)
		}
		elem, err := e.Args[0].Expr.build()
		if err != nil {
			return structopt.Type{}, err
		}
		return structopt.ListOf(elem), nil
	case "oneof":
		if len(e.Args) == 0 {
			return structopt.Type{}, fmt.Errorf("column %d: oneof needs at least one alternative", e.Pos.Column)
		}
		alts := make([]structopt.Type, 0, len(e.Args))
		for _, a := range e.Args {
			if a.Expr == nil {
				return structopt.Type{}, fmt.Errorf("column %d: oneof alternatives must be types", e.Pos.Column)
			}
			t, err := a.Expr.build()
			if err != nil {
				return structopt.Type{}, err
			}
			alts = append(alts, t)
		}
		return structopt.OneOf(alts...), nil
	case "literal":
		if len(e.Args) == 0 {
			return structopt.Type{}, fmt.Errorf("column %d: literal needs at least one value", e.Pos.Column)
		}
		vals := make([]any, 0, len(e.Args))
		for _, a := range e.Args {
			v, err := a.literal()
			if err != nil {
				return structopt.Type{}, fmt.Errorf("column %d: %w", e.Pos.Column, err)
			}
			vals = append(vals, v)
		}
		if len(vals) == 1 {
			return structopt.Literal(vals[0]), nil
		}
		return structopt.Literals(vals...), nil
	}
	return structopt.Type{}, fmt.Errorf("column %d: unknown type %q", e.Pos.Column, e.Name)
}

func (a *typeArg) literal() (any, error) {
	switch {
	case a.Int != nil:
		n, err := strconv.Atoi(*a.Int)
		if err != nil {
			return nil, fmt.Errorf("invalid literal %s", *a.Int)
		}
		return n, nil
	case a.Str != nil:
		return *a.Str, nil
	case len(a.Expr.Args) > 0:
		return nil, fmt.Errorf("literal values cannot be parameterized, got %s[...]", a.Expr.Name)
	}
	switch a.Expr.Name {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return a.Expr.Name, nil
}
