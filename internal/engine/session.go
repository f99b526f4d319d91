// SPDX-License-Identifier: MIT
package engine

import (
	"context"

	"github.com/skaphos/repofleet/internal/gitx"
	"github.com/skaphos/repofleet/internal/model"
)

// session binds one repository record to a runner for the duration of a
// single operation. It owns a private copy of the record.
type session struct {
	ctx    context.Context
	runner gitx.Runner
	repo   model.Repository
}

func newSession(ctx context.Context, runner gitx.Runner, repo model.Repository) *session {
	return &session{ctx: ctx, runner: runner, repo: repo.Clone()}
}

// git runs one command and keeps its transcript when it fails.
func (s *session) git(args ...string) gitx.Result {
	res := s.runner.Run(s.ctx, s.repo.Path, args...)
	if !res.OK() {
		s.repo.AppendLog(res.Transcript()...)
	}
	return res
}

// refresh replaces the whole status group.
func (s *session) refresh() {
	s.repo.Status = model.Status{}
	res := s.git(gitx.StatusArgs...)
	if !res.OK() {
		s.repo.Status.Branch = model.UnknownBranch
		return
	}
	st := gitx.ParseStatus(res.Stdout)
	stash := s.git(gitx.StashListArgs...)
	st.Stash = stash.OK() && len(stash.Stdout) > 0
	s.repo.Status = st
}

// fetch runs the fetch sub-procedure and returns the news items.
func (s *session) fetch() ([]string, gitx.Result) {
	res := s.git(gitx.FetchArgs...)
	if !res.OK() {
		return nil, res
	}
	return gitx.ParseFetchNews(res.Stderr), res
}

func (s *session) finish(outcome model.Outcome) (model.Repository, model.Outcome) {
	s.repo.Action = outcome
	return s.repo, outcome
}

// Refresh re-derives the status fields of repo. It is idempotent.
func Refresh(ctx context.Context, runner gitx.Runner, repo model.Repository) model.Repository {
	s := newSession(ctx, runner, repo)
	s.refresh()
	return s.repo
}
