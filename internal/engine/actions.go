// SPDX-License-Identifier: MIT
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/skaphos/repofleet/internal/gitx"
	"github.com/skaphos/repofleet/internal/model"
)

// Action verbs used as outcome prefixes.
const (
	VerbFetch       = "Fetch"
	VerbRebase      = "Rebase"
	VerbPush        = "Push"
	VerbStash       = "Stash"
	VerbStashPop    = "Stash pop"
	VerbCheckout    = "Checkout"
	VerbCheckoutB   = "Checkout -b"
	VerbGit         = "Git"
	VerbFetchRebase = "FetchRebase"
)

// Steps of the compound fetch-rebase sequence, reported in Outcome.Detail
// when the sequence stops early.
const (
	StepFetch    = "fetch"
	StepStash    = "stash"
	StepRebase   = "rebase"
	StepStashPop = "stash pop"
)

// ErrUnknownAction is returned by Lookup for unregistered names.
var ErrUnknownAction = errors.New("unknown action")

var actions = map[string]Action{
	"fetch":        Fetch,
	"rebase":       Rebase,
	"push":         Push,
	"stash":        Stash,
	"stash-pop":    StashPop,
	"fetch-rebase": FetchRebase,
}

// Lookup resolves an argument-free action by its command name.
func Lookup(name string) (Action, error) {
	action, ok := actions[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (expected one of %s)", ErrUnknownAction, name, strings.Join(ActionNames(), ", "))
	}
	return action, nil
}

// ActionNames returns the sorted names accepted by Lookup.
func ActionNames() []string {
	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func success(verb string) model.Outcome {
	return model.Outcome{Kind: model.OutcomeSuccess, Verb: verb, Message: verb + ": Success"}
}

func failure(verb string, res gitx.Result) model.Outcome {
	return model.Outcome{
		Kind:       model.OutcomeFailed,
		Verb:       verb,
		Message:    verb + ": Failed",
		ErrorClass: gitx.ClassifyFailure(res),
	}
}

// single runs one command and refreshes only when it succeeds.
func single(ctx context.Context, runner gitx.Runner, repo model.Repository, verb string, args []string) (model.Repository, model.Outcome) {
	s := newSession(ctx, runner, repo)
	res := s.git(args...)
	if !res.OK() {
		return s.finish(failure(verb, res))
	}
	s.refresh()
	return s.finish(success(verb))
}

// Fetch fetches from the default remote and reports the updated branches.
func Fetch(ctx context.Context, runner gitx.Runner, repo model.Repository) (model.Repository, model.Outcome) {
	s := newSession(ctx, runner, repo)
	news, res := s.fetch()
	if !res.OK() {
		return s.finish(failure(VerbFetch, res))
	}
	s.refresh()
	if len(news) == 0 {
		return s.finish(model.Outcome{
			Kind:    model.OutcomeNothingNew,
			Verb:    VerbFetch,
			Message: VerbFetch + ": Nothing new",
		})
	}
	names := strings.Join(news, ", ")
	return s.finish(model.Outcome{
		Kind:    model.OutcomeSuccess,
		Verb:    VerbFetch,
		Detail:  names,
		Message: VerbFetch + ": " + names,
	})
}

// Rebase rebases the current branch onto its upstream.
func Rebase(ctx context.Context, runner gitx.Runner, repo model.Repository) (model.Repository, model.Outcome) {
	return single(ctx, runner, repo, VerbRebase, gitx.RebaseArgs)
}

// Push pushes the current branch.
func Push(ctx context.Context, runner gitx.Runner, repo model.Repository) (model.Repository, model.Outcome) {
	return single(ctx, runner, repo, VerbPush, gitx.PushArgs)
}

// Stash stashes local modifications.
func Stash(ctx context.Context, runner gitx.Runner, repo model.Repository) (model.Repository, model.Outcome) {
	return single(ctx, runner, repo, VerbStash, gitx.StashArgs)
}

// StashPop restores the most recent stash entry.
func StashPop(ctx context.Context, runner gitx.Runner, repo model.Repository) (model.Repository, model.Outcome) {
	return single(ctx, runner, repo, VerbStashPop, gitx.StashPopArgs)
}

// Checkout returns an action that switches to an existing branch.
func Checkout(branch string) Action {
	args := gitx.CheckoutArgs(branch, false)
	return func(ctx context.Context, runner gitx.Runner, repo model.Repository) (model.Repository, model.Outcome) {
		return single(ctx, runner, repo, VerbCheckout, args)
	}
}

// CheckoutB returns an action that creates branch and switches to it.
func CheckoutB(branch string) Action {
	args := gitx.CheckoutArgs(branch, true)
	return func(ctx context.Context, runner gitx.Runner, repo model.Repository) (model.Repository, model.Outcome) {
		return single(ctx, runner, repo, VerbCheckoutB, args)
	}
}

// SmartCheckout returns an action that switches to branch where it exists
// locally and creates it everywhere else.
func SmartCheckout(branch string) Action {
	branch = strings.TrimSpace(branch)
	return func(ctx context.Context, runner gitx.Runner, repo model.Repository) (model.Repository, model.Outcome) {
		updated, list := Branches(ctx, runner, repo)
		if list.Has(branch) {
			return Checkout(branch)(ctx, runner, updated)
		}
		return CheckoutB(branch)(ctx, runner, updated)
	}
}

// Git returns an action running a free-form argument vector.
func Git(args ...string) Action {
	argv := append([]string(nil), args...)
	cmd := strings.Join(argv, " ")
	return func(ctx context.Context, runner gitx.Runner, repo model.Repository) (model.Repository, model.Outcome) {
		s := newSession(ctx, runner, repo)
		res := s.git(argv...)
		if !res.OK() {
			out := failure(VerbGit, res)
			out.Detail = cmd
			out.Message = VerbGit + ": " + cmd + " Failed"
			return s.finish(out)
		}
		s.refresh()
		return s.finish(model.Outcome{
			Kind:    model.OutcomeSuccess,
			Verb:    VerbGit,
			Detail:  cmd,
			Message: VerbGit + ": " + cmd + " Success",
		})
	}
}

// FetchRebase fetches and, when anything moved, rebases onto the upstream.
// A dirty tree is stashed around the rebase. The stash is left in place
// when the rebase fails so it can be resolved by hand.
func FetchRebase(ctx context.Context, runner gitx.Runner, repo model.Repository) (model.Repository, model.Outcome) {
	s := newSession(ctx, runner, repo)
	prefix := VerbFetchRebase + ":"

	news, res := s.fetch()
	if !res.OK() {
		return s.finish(model.Outcome{
			Kind:       model.OutcomeFailed,
			Verb:       VerbFetchRebase,
			Detail:     StepFetch,
			Message:    prefix + " fetch Failed",
			ErrorClass: gitx.ClassifyFailure(res),
		})
	}
	if len(news) == 0 {
		s.refresh()
		return s.finish(model.Outcome{
			Kind:    model.OutcomeNothingNew,
			Verb:    VerbFetchRebase,
			Message: prefix + " Nothing new",
		})
	}

	msg := prefix
	dirty := s.repo.Status.Dirty
	if dirty {
		stash := s.git(gitx.StashArgs...)
		if !stash.OK() {
			return s.finish(model.Outcome{
				Kind:       model.OutcomePartialFailure,
				Verb:       VerbFetchRebase,
				Detail:     StepStash,
				Message:    prefix + " stash Failed",
				ErrorClass: gitx.ClassifyFailure(stash),
			})
		}
		msg += " stashed;"
	}

	rebase := s.git(gitx.RebaseArgs...)
	if !rebase.OK() {
		s.refresh()
		return s.finish(model.Outcome{
			Kind:       model.OutcomeFailed,
			Verb:       VerbFetchRebase,
			Detail:     StepRebase,
			Message:    msg + " rebase Failed",
			ErrorClass: gitx.ClassifyFailure(rebase),
		})
	}

	if dirty {
		pop := s.git(gitx.StashPopArgs...)
		if !pop.OK() {
			s.refresh()
			return s.finish(model.Outcome{
				Kind:       model.OutcomePartialFailure,
				Verb:       VerbFetchRebase,
				Detail:     StepStashPop,
				Message:    prefix + " rebase Success; stash pop Failed",
				ErrorClass: gitx.ClassifyFailure(pop),
			})
		}
	}

	s.refresh()
	names := strings.Join(news, ", ")
	return s.finish(model.Outcome{
		Kind:    model.OutcomeSuccess,
		Verb:    VerbFetchRebase,
		Detail:  names,
		Message: prefix + " " + names + " Success",
	})
}
