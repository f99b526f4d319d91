// SPDX-License-Identifier: MIT
package termstyle

import (
	"github.com/liggitt/tabwriter"

	"github.com/skaphos/repofleet/internal/model"
)

const (
	Reset = "\x1b[0m"
	Green = "\x1b[32m"
	Brown = "\x1b[33m"
	Red   = "\x1b[31m"
	Blue  = "\x1b[34m"

	// Semantic aliases used by table/status output.
	Healthy = Green
	Warn    = Brown
	Error   = Red
	Info    = Blue
)

// Colorize wraps a value in ANSI escapes when color output is enabled.
func Colorize(enabled bool, value, color string) string {
	if !enabled || value == "" || color == "" {
		return value
	}
	// Hide ANSI sequences from tabwriter width calculations so columns align.
	esc := string([]byte{tabwriter.Escape})
	return esc + color + esc + value + esc + Reset + esc
}

// ForOutcome picks the color of an action outcome.
func ForOutcome(kind model.OutcomeKind) string {
	switch kind {
	case model.OutcomeSuccess:
		return Healthy
	case model.OutcomeNothingNew:
		return Info
	case model.OutcomePartialFailure:
		return Warn
	case model.OutcomeFailed:
		return Error
	default:
		return ""
	}
}

// ForStatus picks the color of a branch column.
func ForStatus(st model.Status) string {
	switch {
	case st.Branch == model.UnknownBranch:
		return Error
	case st.Dirty || st.Untracked:
		return Warn
	default:
		return Healthy
	}
}
