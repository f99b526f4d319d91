// SPDX-License-Identifier: MIT
package engine_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/skaphos/repofleet/internal/engine"
	"github.com/skaphos/repofleet/internal/model"
)

func lists(sets ...[]string) []model.BranchList {
	out := make([]model.BranchList, 0, len(sets))
	for _, set := range sets {
		out = append(out, model.BranchList{Branches: set})
	}
	return out
}

var _ = Describe("Branches", func() {
	It("intersects branch sets", func() {
		got := engine.Intersect(lists([]string{"a", "b", "c"}, []string{"b", "c", "d"}, []string{"c", "b"}))
		Expect(got).To(Equal([]string{"b", "c"}))
	})

	It("unions branch sets", func() {
		got := engine.Union(lists([]string{"c", "a"}, []string{"b", "a"}))
		Expect(got).To(Equal([]string{"a", "b", "c"}))
	})

	It("counts duplicates within one list once", func() {
		got := engine.Intersect(lists([]string{"a", "a"}, []string{"b"}))
		Expect(got).To(BeEmpty())
	})

	It("intersects an empty batch to nothing", func() {
		Expect(engine.Intersect(nil)).To(BeEmpty())
		Expect(engine.Union(nil)).To(BeEmpty())
	})

	It("lists local branches", func() {
		runner := newFakeRunner().on(repoDir, ok("  dev", "* main", "  release-1.0"), "branch", "--list", "--no-color")
		out, list := engine.Branches(context.Background(), runner, model.NewRepository(repoDir))
		Expect(list.Name).To(Equal("alpha"))
		Expect(list.Path).To(Equal(repoDir))
		Expect(list.Branches).To(Equal([]string{"dev", "main", "release-1.0"}))
		Expect(out.Logs).To(BeEmpty())
	})

	It("returns an empty list and keeps the transcript when listing fails", func() {
		runner := newFakeRunner().on(repoDir, fail("fatal: broken"), "branch", "--list", "--no-color")
		out, list := engine.Branches(context.Background(), runner, model.NewRepository(repoDir))
		Expect(list.Branches).To(BeEmpty())
		Expect(out.Logs).To(ContainElement("fatal: broken"))
	})

	Describe("SmartCheckout", func() {
		It("switches where the branch exists", func() {
			runner := newFakeRunner().on(repoDir, ok("* main", "  dev"), "branch", "--list", "--no-color")
			_, outcome := engine.SmartCheckout("dev")(context.Background(), runner, model.NewRepository(repoDir))
			Expect(outcome.Message).To(Equal("Checkout: Success"))
			Expect(runner.commands(repoDir)).To(ContainElement("checkout dev"))
		})

		It("creates the branch where it is missing", func() {
			runner := newFakeRunner().on(repoDir, ok("* main"), "branch", "--list", "--no-color")
			_, outcome := engine.SmartCheckout(" dev ")(context.Background(), runner, model.NewRepository(repoDir))
			Expect(outcome.Message).To(Equal("Checkout -b: Success"))
			Expect(runner.commands(repoDir)).To(ContainElement("checkout -b dev"))
		})
	})
})

var _ = Describe("Views", func() {
	It("opens the log after a failure", func() {
		repo := model.NewRepository(repoDir)
		repo.Action = model.Outcome{Kind: model.OutcomeFailed, Message: "Push: Failed"}
		repo.Logs = []string{"----- command: git push"}

		Expect(engine.DefaultView(repo)).To(Equal(engine.ViewLog))
		runner := newFakeRunner()
		_, lines := engine.Open(context.Background(), runner, repo)
		Expect(lines).To(Equal([]string{"----- command: git push"}))
		Expect(runner.commands(repoDir)).To(BeEmpty())
	})

	It("opens the status otherwise", func() {
		repo := model.NewRepository(repoDir)
		repo.Action = model.Outcome{Kind: model.OutcomeNothingNew}
		Expect(engine.DefaultView(repo)).To(Equal(engine.ViewStatus))

		runner := newFakeRunner().on(repoDir, ok("On branch main", "nothing to commit"), "status")
		_, lines := engine.Open(context.Background(), runner, repo)
		Expect(lines).To(Equal([]string{"On branch main", "nothing to commit"}))
	})

	It("shows the transcript when status fails", func() {
		runner := newFakeRunner().on(repoDir, fail("fatal: oops"), "status")
		out, lines := engine.StatusView(context.Background(), runner, model.NewRepository(repoDir))
		Expect(lines).To(ContainElement("fatal: oops"))
		Expect(out.Logs).To(Equal(lines))
	})
})
