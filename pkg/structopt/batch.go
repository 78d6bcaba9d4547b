// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package structopt

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParseAll compiles fields once and parses every argv concurrently.
// Records are returned in input order. The first failure cancels the
// remaining work and is returned as a *BatchError.
func ParseAll(ctx context.Context, fields []FieldDescriptor, argvs [][]string) ([]Record, error) {
	p, err := NewParser(fields)
	if err != nil {
		return nil, err
	}
	return p.ParseAll(ctx, argvs)
}

// ParseAll parses every argv concurrently against the compiled specs.
func (p *Parser) ParseAll(ctx context.Context, argvs [][]string) ([]Record, error) {
	out := make([]Record, len(argvs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, argv := range argvs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := p.Parse(argv)
			if err != nil {
				return &BatchError{Index: i, Err: err}
			}
			out[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
