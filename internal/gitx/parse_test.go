// SPDX-License-Identifier: MIT
package gitx_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/skaphos/repofleet/internal/gitx"
	"github.com/skaphos/repofleet/internal/model"
)

var _ = Describe("ParseStatus", func() {
	It("renders upstream and local with ahead info", func() {
		st := gitx.ParseStatus([]string{
			"## main...origin/main [ahead 2]",
			" M file.go",
			"?? new.txt",
		})
		Expect(st).To(Equal(model.Status{
			Branch:     "origin/main<->main",
			BranchInfo: "[ahead 2]",
			Dirty:      true,
			Untracked:  true,
		}))
	})

	It("renders a branch without upstream", func() {
		st := gitx.ParseStatus([]string{"## main"})
		Expect(st.Branch).To(Equal(">main"))
		Expect(st.BranchInfo).To(BeEmpty())
		Expect(st.Dirty).To(BeFalse())
		Expect(st.Untracked).To(BeFalse())
	})

	It("keeps multi-word annotations verbatim", func() {
		st := gitx.ParseStatus([]string{"## feature...origin/feature [ahead 1, behind 3]"})
		Expect(st.Branch).To(Equal("origin/feature<->feature"))
		Expect(st.BranchInfo).To(Equal("[ahead 1, behind 3]"))
	})

	It("falls back to the simple rendering when the upstream is empty", func() {
		st := gitx.ParseStatus([]string{"## main..."})
		Expect(st.Branch).To(Equal(">main"))
	})

	It("keeps flags set once seen and skips blank lines", func() {
		st := gitx.ParseStatus([]string{"## main", "?? a", "", " M b", "?? c"})
		Expect(st.Dirty).To(BeTrue())
		Expect(st.Untracked).To(BeTrue())
	})

	It("treats staged, renamed and deleted entries as dirty", func() {
		for _, line := range []string{"M  a.go", "R  old.go -> new.go", " D gone.go", "A  added.go", "UU both.go"} {
			st := gitx.ParseStatus([]string{"## main", line})
			Expect(st.Dirty).To(BeTrue(), line)
			Expect(st.Untracked).To(BeFalse(), line)
		}
	})

	It("returns a zero status for empty output", func() {
		Expect(gitx.ParseStatus(nil)).To(Equal(model.Status{}))
		Expect(gitx.ParseStatus([]string{"##"})).To(Equal(model.Status{}))
	})
})

var _ = Describe("ParseFetchNews", func() {
	DescribeTable("extracts updated branch names",
		func(lines []string, expected []string) {
			Expect(gitx.ParseFetchNews(lines)).To(Equal(expected))
		},
		Entry("fast-forward update", []string{"   abc..def  feature -> origin/feature"}, []string{"feature"}),
		Entry("new branch", []string{" * [new branch]      feature    -> origin/feature"}, []string{"feature*"}),
		Entry("new tag", []string{" * [new tag]         v1.2.0     -> v1.2.0"}, []string{"v1.2.0*"}),
		Entry("forced update", []string{" + 1234567...89abcde hotfix -> origin/hotfix  (forced update)"}, []string{"hotfix"}),
		Entry("header only", []string{"From github.com:org/repo"}, nil),
		Entry("mixed", []string{
			"From github.com:org/repo",
			"   abc..def  main       -> origin/main",
			" * [new branch]      fix-1      -> origin/fix-1",
		}, []string{"main", "fix-1*"}),
	)
})

var _ = Describe("ParseBranchList", func() {
	It("extracts names after the marker column", func() {
		Expect(gitx.ParseBranchList([]string{"* main", "  feature-x", "  release.1_0", "+ wt-branch"})).To(
			Equal([]string{"main", "feature-x", "release.1_0", "wt-branch"}))
	})

	It("skips detached heads and blank rows", func() {
		Expect(gitx.ParseBranchList([]string{"* (HEAD detached at 1a2b3c4)", "  main", ""})).To(Equal([]string{"main"}))
	})

	It("stops slashed names at the first slash", func() {
		Expect(gitx.ParseBranchList([]string{"* feature/x", "  team/a/b"})).To(Equal([]string{"feature", "team"}))
	})
})

var _ = Describe("CheckoutArgs", func() {
	It("adds -b when creating", func() {
		Expect(gitx.CheckoutArgs("dev", false)).To(Equal([]string{"checkout", "dev"}))
		Expect(gitx.CheckoutArgs("dev", true)).To(Equal([]string{"checkout", "-b", "dev"}))
	})
})
