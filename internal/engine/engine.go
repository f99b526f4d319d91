// SPDX-License-Identifier: MIT

// Package engine orchestrates the core operations: discovery, status
// refresh, and per-repository actions over a batch.
// It coordinates between discovery, gitx, config, and model packages.
package engine

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/skaphos/repofleet/internal/config"
	"github.com/skaphos/repofleet/internal/discovery"
	"github.com/skaphos/repofleet/internal/gitx"
	"github.com/skaphos/repofleet/internal/model"
)

// Action runs one operation against a repository and returns the updated
// record together with its outcome. The input record is never mutated.
type Action func(ctx context.Context, runner gitx.Runner, repo model.Repository) (model.Repository, model.Outcome)

// Engine is the core orchestrator for RepoFleet operations.
type Engine struct {
	cfg    *config.Config
	runner gitx.Runner
	log    logrus.FieldLogger
}

// New creates a new Engine. A nil runner shells out to cfg.GitBin; a nil
// logger discards everything.
func New(cfg *config.Config, runner gitx.Runner, logger logrus.FieldLogger) *Engine {
	if cfg == nil {
		def := config.DefaultConfig()
		cfg = &def
	}
	if logger == nil {
		logger = gitx.DiscardLogger()
	}
	if runner == nil {
		runner = gitx.NewGitRunner(cfg.GitBin, logger)
	}
	return &Engine{cfg: cfg, runner: runner, log: logger}
}

// Config returns the engine configuration reference.
func (e *Engine) Config() *config.Config { return e.cfg }

// Runner returns the command executor used for every invocation.
func (e *Engine) Runner() gitx.Runner { return e.runner }

// ScanOptions configures a discovery scan.
type ScanOptions struct {
	Root         string
	MaxDepth     int
	Exclude      []string
	SkipSymlinks bool
}

// ScanOptions returns scan options for root populated from the config.
func (e *Engine) ScanOptions(root string) ScanOptions {
	return ScanOptions{
		Root:         root,
		MaxDepth:     e.cfg.MaxDepth,
		Exclude:      append([]string(nil), e.cfg.Exclude...),
		SkipSymlinks: e.cfg.SkipSymlinks,
	}
}

// Discover finds working trees and returns unrefreshed records in
// discovery order.
func (e *Engine) Discover(ctx context.Context, opts ScanOptions) ([]model.Repository, error) {
	paths, err := discovery.Find(ctx, discovery.Options{
		Root:         opts.Root,
		MaxDepth:     opts.MaxDepth,
		Exclude:      opts.Exclude,
		SkipSymlinks: opts.SkipSymlinks,
		Logger:       e.log,
	})
	if err != nil {
		return nil, err
	}
	repos := make([]model.Repository, 0, len(paths))
	for _, p := range paths {
		repos = append(repos, model.NewRepository(p))
	}
	e.log.WithFields(logrus.Fields{"root": opts.Root, "found": len(repos)}).Debug("discovery complete")
	return repos, nil
}

// Load discovers working trees under opts.Root and refreshes each of them.
func (e *Engine) Load(ctx context.Context, opts ScanOptions) ([]model.Repository, error) {
	repos, err := e.Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	return e.RefreshAll(ctx, repos), nil
}

// RefreshAll re-derives the status of every repository concurrently.
func (e *Engine) RefreshAll(ctx context.Context, repos []model.Repository) []model.Repository {
	return e.each(ctx, repos, func(ctx context.Context, repo model.Repository) model.Repository {
		return Refresh(ctx, e.runner, repo)
	})
}

// Apply runs action over every repository in the batch. Results keep the
// input order; each record carries its own outcome in Action.
func (e *Engine) Apply(ctx context.Context, repos []model.Repository, action Action) []model.Repository {
	return e.each(ctx, repos, func(ctx context.Context, repo model.Repository) model.Repository {
		out, outcome := action(ctx, e.runner, repo)
		out.Action = outcome
		entry := e.log.WithFields(logrus.Fields{
			"repo":    out.Name,
			"action":  outcome.Verb,
			"outcome": string(outcome.Kind),
		})
		if outcome.ErrorClass != "" {
			entry = entry.WithField("error_class", outcome.ErrorClass)
		}
		entry.Info(outcome.Message)
		return out
	})
}

// BranchLists lists the local branches of every repository concurrently.
func (e *Engine) BranchLists(ctx context.Context, repos []model.Repository) ([]model.Repository, []model.BranchList) {
	lists := make([]model.BranchList, len(repos))
	out := e.eachIndexed(ctx, repos, func(ctx context.Context, i int, repo model.Repository) model.Repository {
		updated, list := Branches(ctx, e.runner, repo)
		lists[i] = list
		return updated
	})
	return out, lists
}

// Workers returns the pool size used for a batch of n repositories.
func (e *Engine) Workers(n int) int {
	workers := e.cfg.Concurrency()
	if n < workers {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

func (e *Engine) each(ctx context.Context, repos []model.Repository, fn func(context.Context, model.Repository) model.Repository) []model.Repository {
	return e.eachIndexed(ctx, repos, func(ctx context.Context, _ int, repo model.Repository) model.Repository {
		return fn(ctx, repo)
	})
}

// eachIndexed fans out over repos with a bounded pool. Each worker owns
// exactly one slot of the result slice, so no locking is needed.
func (e *Engine) eachIndexed(ctx context.Context, repos []model.Repository, fn func(context.Context, int, model.Repository) model.Repository) []model.Repository {
	results := make([]model.Repository, len(repos))
	if len(repos) == 0 {
		return results
	}
	timeout := time.Duration(e.cfg.Defaults.TimeoutSeconds) * time.Second

	var g errgroup.Group
	g.SetLimit(e.Workers(len(repos)))
	for i, repo := range repos {
		repo := repo.Clone()
		g.Go(func() error {
			repoCtx := ctx
			if timeout > 0 {
				var cancel context.CancelFunc
				repoCtx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			results[i] = fn(repoCtx, i, repo)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
