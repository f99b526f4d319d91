// SPDX-License-Identifier: MIT
package gitx

import (
	"regexp"
	"strings"

	"github.com/skaphos/repofleet/internal/model"
)

// Command argument vectors used by the engine.
var (
	StatusArgs     = []string{"status", "--porcelain", "--branch"}
	StashListArgs  = []string{"stash", "list"}
	FetchArgs      = []string{"fetch"}
	RebaseArgs     = []string{"rebase"}
	PushArgs       = []string{"push"}
	StashArgs      = []string{"stash"}
	StashPopArgs   = []string{"stash", "pop"}
	BranchListArgs = []string{"branch", "--list", "--no-color"}
)

// CheckoutArgs returns the argv for switching to branch, optionally creating it.
func CheckoutArgs(branch string, create bool) []string {
	if create {
		return []string{"checkout", "-b", branch}
	}
	return []string{"checkout", branch}
}

// ParseStatus parses the output lines of `git status --porcelain --branch`.
//
// The first line is the branch header, "## local...upstream [ahead 1]".
// Every following line describes one path; a leading '?' marks it
// untracked, any other marker marks the tree dirty.
func ParseStatus(lines []string) model.Status {
	var st model.Status
	if len(lines) == 0 {
		return st
	}

	header := ""
	if len(lines[0]) > 3 {
		header = lines[0][3:]
	}
	fields := strings.Fields(header)
	if len(fields) > 0 {
		st.Branch = renderBranch(fields[0])
		st.BranchInfo = strings.Join(fields[1:], " ")
	}

	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		if line[0] == '?' {
			st.Untracked = true
		} else {
			st.Dirty = true
		}
	}
	return st
}

// renderBranch turns "local...upstream" into "upstream<->local" and a bare
// "local" into ">local".
func renderBranch(token string) string {
	parts := strings.Split(token, "...")
	if len(parts) == 1 || parts[1] == "" {
		return ">" + parts[0]
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "<->")
}

var (
	fetchNewsPattern = regexp.MustCompile(`\s([\w\-./]+)\s+->`)
	fetchNewPattern  = regexp.MustCompile(`\[new `)
	branchPattern    = regexp.MustCompile(`\s([\w\-.]+)`)
)

// ParseFetchNews extracts updated branch names from the stderr of `git fetch`.
// Names of newly created refs carry a trailing "*".
func ParseFetchNews(stderr []string) []string {
	var news []string
	for _, line := range stderr {
		m := fetchNewsPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[1]
		if fetchNewPattern.MatchString(line) {
			name += "*"
		}
		news = append(news, name)
	}
	return news
}

// ParseBranchList parses `git branch --list --no-color` output into names.
// The name is the first run of word, '.', or '-' characters after the
// current-branch marker column. Detached HEAD rows are skipped.
//
// '/' is not part of the run, so "feature/x" lists as "feature". Callers
// matching against these names (SmartCheckout) see slashed branches as
// missing. This truncation is the established listing contract; widen the
// pattern only together with every consumer of the names.
func ParseBranchList(lines []string) []string {
	var branches []string
	for _, line := range lines {
		if strings.Contains(line, "(HEAD detached") || strings.Contains(line, "(no branch") {
			continue
		}
		m := branchPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		branches = append(branches, m[1])
	}
	return branches
}
