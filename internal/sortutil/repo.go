// SPDX-License-Identifier: MIT
package sortutil

import (
	"sort"

	"github.com/skaphos/repofleet/internal/model"
)

// LessNamePath provides deterministic ordering by repository name first,
// then by path for same-named checkouts.
func LessNamePath(nameI, pathI, nameJ, pathJ string) bool {
	if nameI == nameJ {
		return pathI < pathJ
	}
	return nameI < nameJ
}

// SortRepositories orders repositories by Name, then Path.
func SortRepositories(repos []model.Repository) {
	sort.SliceStable(repos, func(i, j int) bool {
		return LessNamePath(repos[i].Name, repos[i].Path, repos[j].Name, repos[j].Path)
	})
}

// SortBranchLists orders branch lists by Name, then Path.
func SortBranchLists(lists []model.BranchList) {
	sort.SliceStable(lists, func(i, j int) bool {
		return LessNamePath(lists[i].Name, lists[i].Path, lists[j].Name, lists[j].Path)
	})
}
