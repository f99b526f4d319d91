// SPDX-License-Identifier: MIT
package engine

import (
	"context"
	"sort"

	"github.com/skaphos/repofleet/internal/gitx"
	"github.com/skaphos/repofleet/internal/model"
)

// Branches lists the local branches of repo. When the listing fails the
// returned list is empty and the transcript lands in the record's logs.
func Branches(ctx context.Context, runner gitx.Runner, repo model.Repository) (model.Repository, model.BranchList) {
	s := newSession(ctx, runner, repo)
	list := model.BranchList{Name: s.repo.Name, Path: s.repo.Path}
	res := s.git(gitx.BranchListArgs...)
	if res.OK() {
		list.Branches = gitx.ParseBranchList(res.Stdout)
	}
	return s.repo, list
}

// Intersect returns the sorted branch names present in every list.
// An empty batch intersects to nothing.
func Intersect(lists []model.BranchList) []string {
	if len(lists) == 0 {
		return nil
	}
	counts := map[string]int{}
	for _, list := range lists {
		for _, name := range dedupe(list.Branches) {
			counts[name]++
		}
	}
	var out []string
	for name, n := range counts {
		if n == len(lists) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Union returns the sorted branch names present in any list.
func Union(lists []model.BranchList) []string {
	var all []string
	for _, list := range lists {
		all = append(all, list.Branches...)
	}
	out := dedupe(all)
	sort.Strings(out)
	return out
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
