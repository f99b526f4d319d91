// SPDX-License-Identifier: MIT

// Package candidates turns refreshed repository records into display rows
// for pickers and listings.
package candidates

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/skaphos/repofleet/internal/model"
	"github.com/skaphos/repofleet/internal/sortutil"
)

// Status markers appended to the branch column.
const (
	MarkDirty     = "±"
	MarkStash     = "+"
	MarkUntracked = "*"
)

// Candidate is one selectable row.
type Candidate struct {
	// Word is the matching key, the repository name.
	Word string `json:"word" yaml:"word"`
	// Abbr is the rendered row.
	Abbr string           `json:"abbr" yaml:"abbr"`
	Repo model.Repository `json:"repo" yaml:"repo"`
}

// Markers renders the dirty, stash, and untracked flags of st.
func Markers(st model.Status) string {
	var b strings.Builder
	if st.Dirty {
		b.WriteString(MarkDirty)
	}
	if st.Stash {
		b.WriteString(MarkStash)
	}
	if st.Untracked {
		b.WriteString(MarkUntracked)
	}
	return b.String()
}

// Abbr renders "<branch><markers>[ <info>]: <name> <action>" without
// trailing blanks.
func Abbr(repo model.Repository) string {
	var b strings.Builder
	b.WriteString(repo.Status.Branch)
	b.WriteString(Markers(repo.Status))
	if repo.Status.BranchInfo != "" {
		b.WriteString(" ")
		b.WriteString(repo.Status.BranchInfo)
	}
	b.WriteString(": ")
	b.WriteString(repo.Name)
	b.WriteString(" ")
	b.WriteString(repo.ActionInfo())
	return strings.TrimRight(b.String(), " ")
}

// Build returns one candidate per repository ordered by name, then path.
func Build(repos []model.Repository) []Candidate {
	sorted := make([]model.Repository, len(repos))
	copy(sorted, repos)
	sortutil.SortRepositories(sorted)

	out := make([]Candidate, 0, len(sorted))
	for _, repo := range sorted {
		out = append(out, Candidate{Word: repo.Name, Abbr: Abbr(repo), Repo: repo})
	}
	return out
}

type source []Candidate

func (s source) String(i int) string { return s[i].Word }
func (s source) Len() int            { return len(s) }

// Filter keeps the candidates whose word fuzzy-matches query, best match
// first. A blank query keeps everything in the original order.
func Filter(cands []Candidate, query string) []Candidate {
	query = strings.TrimSpace(query)
	if query == "" {
		return append([]Candidate(nil), cands...)
	}
	matches := fuzzy.FindFrom(query, source(cands))
	out := make([]Candidate, 0, len(matches))
	for _, m := range matches {
		out = append(out, cands[m.Index])
	}
	return out
}

// Repositories extracts the records behind cands.
func Repositories(cands []Candidate) []model.Repository {
	out := make([]model.Repository, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.Repo)
	}
	return out
}

// Select keeps repositories whose name is in names. No names selects all.
func Select(repos []model.Repository, names []string) []model.Repository {
	if len(names) == 0 {
		return repos
	}
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[strings.TrimSpace(n)] = struct{}{}
	}
	var out []model.Repository
	for _, repo := range repos {
		if _, ok := want[repo.Name]; ok {
			out = append(out, repo)
		}
	}
	return out
}
