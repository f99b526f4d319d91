// SPDX-License-Identifier: MIT
package engine

import (
	"context"

	"github.com/skaphos/repofleet/internal/gitx"
	"github.com/skaphos/repofleet/internal/model"
)

// View selects what to show when a repository is opened.
type View string

const (
	// ViewStatus shows the full working-tree status.
	ViewStatus View = "status"
	// ViewLog shows the diagnostic transcript log.
	ViewLog View = "log"
)

// DefaultView picks the log after a failed action and the status otherwise.
func DefaultView(repo model.Repository) View {
	if repo.Action.Failed() {
		return ViewLog
	}
	return ViewStatus
}

// StatusView returns the long-form `git status` output of repo.
func StatusView(ctx context.Context, runner gitx.Runner, repo model.Repository) (model.Repository, []string) {
	s := newSession(ctx, runner, repo)
	res := s.git("status")
	if !res.OK() {
		return s.repo, res.Transcript()
	}
	return s.repo, res.Stdout
}

// Open renders the default view of repo as lines.
func Open(ctx context.Context, runner gitx.Runner, repo model.Repository) (model.Repository, []string) {
	if DefaultView(repo) == ViewLog {
		return repo, append([]string(nil), repo.Logs...)
	}
	return StatusView(ctx, runner, repo)
}
