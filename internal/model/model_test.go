// SPDX-License-Identifier: MIT
package model_test

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/skaphos/repofleet/internal/model"
)

var _ = Describe("Repository", func() {
	It("derives name and cleans the path", func() {
		root := GinkgoT().TempDir()
		repo := model.NewRepository(filepath.Join(root, "group", "..", "repo1") + string(filepath.Separator))
		Expect(repo.Path).To(Equal(filepath.Join(root, "repo1")))
		Expect(repo.Name).To(Equal("repo1"))
		Expect(repo.Status).To(Equal(model.Status{}))
		Expect(repo.ActionInfo()).To(BeEmpty())
	})

	It("clones without aliasing the log", func() {
		repo := model.Repository{Path: "/repo", Name: "repo", Logs: []string{"a"}}
		clone := repo.Clone()
		clone.AppendLog("b")
		Expect(repo.Logs).To(Equal([]string{"a"}))
		Expect(clone.Logs).To(Equal([]string{"a", "b"}))
	})
})

var _ = Describe("Outcome", func() {
	DescribeTable("reports failure by kind, not by text",
		func(kind model.OutcomeKind, message string, failed bool) {
			o := model.Outcome{Kind: kind, Message: message}
			Expect(o.Failed()).To(Equal(failed))
			Expect(o.String()).To(Equal(message))
		},
		Entry("success", model.OutcomeSuccess, "Push: Success", false),
		Entry("failed", model.OutcomeFailed, "Push: Failed", true),
		Entry("partial", model.OutcomePartialFailure, "FetchRebase: rebase Success; stash pop Failed", true),
		Entry("nothing new", model.OutcomeNothingNew, "Fetch: Nothing new", false),
		Entry("branch named Failed", model.OutcomeSuccess, "Fetch: Failed*", false),
	)
})

var _ = Describe("BranchList", func() {
	It("looks up branches by exact name", func() {
		list := model.BranchList{Branches: []string{"main", "feature"}}
		Expect(list.Has("main")).To(BeTrue())
		Expect(list.Has(" feature ")).To(BeTrue())
		Expect(list.Has("feat")).To(BeFalse())
	})
})
