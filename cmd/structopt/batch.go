// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// readBatch reads one argument vector per line from path, or from stdin
// when path is "-". Blank lines and lines starting with # are skipped.
// Tokens are split on whitespace; a token starting with a double quote is a
// Go string literal, as printed by -o argv.
func readBatch(path string, stdin io.Reader) ([][]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var argvs [][]string
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		argv, err := splitLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, n, err)
		}
		argvs = append(argvs, argv)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch %s: %w", path, err)
	}
	return argvs, nil
}

func splitLine(line string) ([]string, error) {
	argv := []string{}
	for {
		line = strings.TrimLeftFunc(line, unicode.IsSpace)
		if line == "" {
			return argv, nil
		}
		if line[0] != '"' {
			end := strings.IndexFunc(line, unicode.IsSpace)
			if end < 0 {
				end = len(line)
			}
			argv = append(argv, line[:end])
			line = line[end:]
			continue
		}
		lit, err := strconv.QuotedPrefix(line)
		if err != nil {
			return nil, fmt.Errorf("bad quoted token %s", line)
		}
		tok, err := strconv.Unquote(lit)
		if err != nil {
			return nil, err
		}
		argv = append(argv, tok)
		line = line[len(lit):]
	}
}
