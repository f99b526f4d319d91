// SPDX-License-Identifier: MIT

// Package model defines the core data types used throughout RepoFleet.
package model

import (
	"path/filepath"
	"strings"
)

// UnknownBranch is shown when the status command itself failed.
const UnknownBranch = ">UNKNOWN"

// Status is the derived synchronization and dirtiness summary of a working
// tree. A refresh always replaces the whole value, never individual fields.
type Status struct {
	// Branch renders the local branch and its upstream ("origin/main<->main"),
	// or ">main" when no upstream is configured.
	Branch string `json:"branch" yaml:"branch"`
	// BranchInfo is the ahead/behind annotation from the status header, verbatim.
	BranchInfo string `json:"branch_info,omitempty" yaml:"branch_info,omitempty"`
	// Dirty reports uncommitted modifications to tracked paths.
	Dirty bool `json:"dirty" yaml:"dirty"`
	// Untracked reports untracked (not ignored) paths.
	Untracked bool `json:"untracked" yaml:"untracked"`
	// Stash reports at least one stash entry.
	Stash bool `json:"stash" yaml:"stash"`
}

// OutcomeKind enumerates the typed result categories of an action.
type OutcomeKind string

const (
	OutcomeNone           OutcomeKind = ""
	OutcomeSuccess        OutcomeKind = "success"
	OutcomeFailed         OutcomeKind = "failed"
	OutcomeNothingNew     OutcomeKind = "nothing_new"
	OutcomePartialFailure OutcomeKind = "partial_failure"
)

// Outcome records the result of the most recently executed action.
type Outcome struct {
	// Kind is the typed category used for control decisions.
	Kind OutcomeKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	// Verb is the action prefix, for example "Fetch" or "FetchRebase".
	Verb string `json:"verb,omitempty" yaml:"verb,omitempty"`
	// Detail carries fetched branch names or the failing step.
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
	// Message is the display string ("Fetch: Failed").
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	// ErrorClass is a coarse category of the failing command, if any.
	ErrorClass string `json:"error_class,omitempty" yaml:"error_class,omitempty"`
}

// Failed reports whether the outcome represents a full or partial failure.
func (o Outcome) Failed() bool {
	return o.Kind == OutcomeFailed || o.Kind == OutcomePartialFailure
}

// String returns the display message.
func (o Outcome) String() string { return o.Message }

// Repository is the record for one working tree.
type Repository struct {
	// Path is the absolute, cleaned working-tree root. It is the identity key.
	Path string `json:"path" yaml:"path"`
	// Name is the last path segment.
	Name string `json:"name" yaml:"name"`
	// Status is the last refreshed status.
	Status Status `json:"status" yaml:"status"`
	// Action is the outcome of the last executed action. Only the engine sets it.
	Action Outcome `json:"action" yaml:"action"`
	// Logs holds failure transcripts in invocation order. Append-only.
	Logs []string `json:"logs,omitempty" yaml:"logs,omitempty"`
}

// NewRepository builds an unrefreshed record for a working-tree root.
func NewRepository(path string) Repository {
	clean := filepath.Clean(path)
	if abs, err := filepath.Abs(clean); err == nil {
		clean = abs
	}
	return Repository{
		Path: clean,
		Name: filepath.Base(clean),
	}
}

// AppendLog appends lines to the diagnostic log.
func (r *Repository) AppendLog(lines ...string) {
	r.Logs = append(r.Logs, lines...)
}

// ActionInfo returns the display string of the last action.
func (r Repository) ActionInfo() string { return r.Action.Message }

// Clone returns a copy whose log slice does not alias the receiver's.
func (r Repository) Clone() Repository {
	out := r
	if r.Logs != nil {
		out.Logs = append([]string(nil), r.Logs...)
	}
	return out
}

// BranchList is a repository's local branch names.
type BranchList struct {
	Name     string   `json:"name" yaml:"name"`
	Path     string   `json:"path" yaml:"path"`
	Branches []string `json:"branches" yaml:"branches"`
}

// Has reports whether branch is in the list.
func (b BranchList) Has(branch string) bool {
	branch = strings.TrimSpace(branch)
	for _, name := range b.Branches {
		if name == branch {
			return true
		}
	}
	return false
}
