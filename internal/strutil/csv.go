// SPDX-License-Identifier: MIT

// Package strutil holds small string helpers shared by the CLI.
package strutil

import "strings"

// SplitCSV splits a comma-separated list, trimming blanks and dropping
// empty items.
func SplitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
