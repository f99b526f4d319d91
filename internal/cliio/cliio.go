// SPDX-License-Identifier: MIT

// Package cliio holds small terminal input/output helpers for the CLI.
package cliio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/skaphos/repofleet/internal/tableutil"
)

// PromptYesNo writes prompt and reads a yes/no response from input.
func PromptYesNo(out io.Writer, in io.Reader, prompt string) (bool, error) {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return false, err
	}
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	choice := strings.ToLower(strings.TrimSpace(line))
	return choice == "y" || choice == "yes", nil
}

// WriteTable renders a simple tab-separated table with optional headers.
func WriteTable(out io.Writer, stripEscape bool, noHeaders bool, headers []string, rows [][]string) error {
	w := tableutil.New(out, stripEscape)
	if err := tableutil.PrintHeaders(w, noHeaders, headers...); err != nil {
		return err
	}
	for _, row := range rows {
		if err := tableutil.PrintRow(w, row...); err != nil {
			return err
		}
	}
	return w.Flush()
}

// WriteSection renders a titled block of lines, each indented by two
// spaces. An empty block prints the placeholder instead.
func WriteSection(out io.Writer, title string, lines []string, placeholder string) error {
	if _, err := fmt.Fprintf(out, "==> %s\n", title); err != nil {
		return err
	}
	if len(lines) == 0 && placeholder != "" {
		lines = []string{placeholder}
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(out, "  %s\n", line); err != nil {
			return err
		}
	}
	return nil
}
