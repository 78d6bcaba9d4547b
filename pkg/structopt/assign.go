// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package structopt

// Assign distributes leftover positional tokens over the positional specs in
// declaration order. Each non-list positional claims one token; a list
// positional claims every remaining token and ends assignment.
func Assign(leftover []string, specs []OptionSpec) (Capture, error) {
	capture := make(Capture)
	last := ""
	for _, s := range specs {
		if !s.Positional {
			continue
		}
		last = s.Name
		if len(leftover) == 0 {
			break
		}
		if s.Type.IsList() {
			capture[s.Name] = append(capture[s.Name], leftover...)
			return capture, nil
		}
		capture[s.Name] = append(capture[s.Name], leftover[0])
		leftover = leftover[1:]
	}
	if len(leftover) > 0 {
		return nil, &AssignError{
			Field:  last,
			Tokens: append([]string(nil), leftover...),
			Msg:    "unexpected extra positional arguments",
		}
	}
	return capture, nil
}
