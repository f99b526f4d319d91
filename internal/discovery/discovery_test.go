// SPDX-License-Identifier: MIT
package discovery_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/skaphos/repofleet/internal/discovery"
)

func mkdirs(paths ...string) {
	for _, p := range paths {
		Expect(os.MkdirAll(p, 0o755)).To(Succeed())
	}
}

func fakeRepo(path string) string {
	mkdirs(filepath.Join(path, ".git"))
	return path
}

var _ = Describe("Discovery", func() {
	var root string

	BeforeEach(func() {
		root = GinkgoT().TempDir()
	})

	It("matches exclude patterns", func() {
		Expect(discovery.MatchesExclude("C:/code/repo/.git", []string{"**/.git/**"})).To(BeTrue())
		Expect(discovery.MatchesExclude("C:/code/repo", []string{"**/node_modules/**"})).To(BeFalse())
	})

	It("treats a working tree as a leaf", func() {
		repo := fakeRepo(filepath.Join(root, "a", "repo"))
		mkdirs(filepath.Join(repo, "sub", "deeper"))
		fakeRepo(filepath.Join(repo, "vendor", "nested"))

		results, err := discovery.Find(context.Background(), discovery.Options{Root: root, MaxDepth: 5})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(Equal([]string{repo}))
	})

	It("returns only the root when the root is a working tree", func() {
		fakeRepo(root)
		fakeRepo(filepath.Join(root, "child"))

		results, err := discovery.Find(context.Background(), discovery.Options{Root: root, MaxDepth: discovery.Unlimited})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(Equal([]string{root}))
	})

	It("still checks children at the depth limit", func() {
		child := fakeRepo(filepath.Join(root, "child"))
		fakeRepo(filepath.Join(root, "x", "too-deep"))

		results, err := discovery.Find(context.Background(), discovery.Options{Root: root, MaxDepth: 0})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(Equal([]string{child}))
	})

	It("finds working trees at any depth when unlimited", func() {
		deep := fakeRepo(filepath.Join(root, "1", "2", "3", "4", "5", "6", "7", "repo"))

		limited, err := discovery.Find(context.Background(), discovery.Options{Root: root, MaxDepth: 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(limited).To(BeEmpty())

		unlimited, err := discovery.Find(context.Background(), discovery.Options{Root: root, MaxDepth: discovery.Unlimited})
		Expect(err).NotTo(HaveOccurred())
		Expect(unlimited).To(Equal([]string{deep}))
	})

	It("returns repositories in directory order", func() {
		b := fakeRepo(filepath.Join(root, "b"))
		a := fakeRepo(filepath.Join(root, "a"))
		c := fakeRepo(filepath.Join(root, "group", "c"))

		results, err := discovery.Find(context.Background(), discovery.Options{Root: root, MaxDepth: 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(Equal([]string{a, b, c}))
	})

	It("follows symlinked directories by default", func() {
		target := GinkgoT().TempDir()
		fakeRepo(filepath.Join(target, "repo"))
		Expect(os.WriteFile(filepath.Join(root, "file.txt"), []byte("x"), 0o644)).To(Succeed())
		Expect(os.Symlink(filepath.Join(root, "file.txt"), filepath.Join(root, "file-link"))).To(Succeed())
		Expect(os.Symlink(target, filepath.Join(root, "projects"))).To(Succeed())

		results, err := discovery.Find(context.Background(), discovery.Options{Root: root, MaxDepth: 5})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(Equal([]string{filepath.Join(root, "projects", "repo")}))
	})

	It("stops at symlinked directories when told to skip them", func() {
		target := GinkgoT().TempDir()
		fakeRepo(filepath.Join(target, "repo"))
		Expect(os.Symlink(target, filepath.Join(root, "projects"))).To(Succeed())

		results, err := discovery.Find(context.Background(), discovery.Options{Root: root, MaxDepth: 5, SkipSymlinks: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(BeEmpty())
	})

	It("reports a directory reachable through two links once", func() {
		target := GinkgoT().TempDir()
		fakeRepo(filepath.Join(target, "repo"))
		Expect(os.Symlink(target, filepath.Join(root, "a"))).To(Succeed())
		Expect(os.Symlink(target, filepath.Join(root, "b"))).To(Succeed())

		results, err := discovery.Find(context.Background(), discovery.Options{Root: root, MaxDepth: 5})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(Equal([]string{filepath.Join(root, "a", "repo")}))
	})

	It("does not loop on symlink cycles", func() {
		mkdirs(filepath.Join(root, "a"))
		Expect(os.Symlink(root, filepath.Join(root, "a", "loop"))).To(Succeed())

		results, err := discovery.Find(context.Background(), discovery.Options{Root: root, MaxDepth: discovery.Unlimited})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(BeEmpty())
	})

	It("keeps scanning past unreadable directories", func() {
		locked := filepath.Join(root, "locked")
		mkdirs(filepath.Join(locked, "inner"))
		Expect(os.Chmod(locked, 0o000)).To(Succeed())
		DeferCleanup(func() { _ = os.Chmod(locked, 0o755) })
		repo := fakeRepo(filepath.Join(root, "open"))

		results, err := discovery.Find(context.Background(), discovery.Options{Root: root, MaxDepth: 5})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(Equal([]string{repo}))
	})

	It("respects exclude patterns during scan", func() {
		fakeRepo(filepath.Join(root, "vendor", "repo2"))

		results, err := discovery.Find(context.Background(), discovery.Options{
			Root:     root,
			MaxDepth: 5,
			Exclude:  []string{"**/vendor/**"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(BeEmpty())
	})

	It("detects linked .git files", func() {
		repo := filepath.Join(root, "repo3")
		mkdirs(repo, filepath.Join(root, "repo3.gitdir"))
		Expect(os.WriteFile(filepath.Join(repo, ".git"), []byte("gitdir: ../repo3.gitdir"), 0o644)).To(Succeed())

		Expect(discovery.IsWorkingTree(repo)).To(BeTrue())
		results, err := discovery.Find(context.Background(), discovery.Options{Root: root, MaxDepth: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(Equal([]string{repo}))
	})

	It("rejects .git files without a gitdir line", func() {
		repo := filepath.Join(root, "bogus")
		mkdirs(repo)
		Expect(os.WriteFile(filepath.Join(repo, ".git"), []byte("not-gitdir"), 0o644)).To(Succeed())
		Expect(discovery.IsWorkingTree(repo)).To(BeFalse())
	})

	It("scans real git repositories", func() {
		repo := filepath.Join(root, "repo1")
		Expect(exec.Command("git", "init", "-q", repo).Run()).To(Succeed())

		results, err := discovery.Find(context.Background(), discovery.Options{Root: root, MaxDepth: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(Equal([]string{repo}))
	})

	It("stops when the context is cancelled", func() {
		fakeRepo(filepath.Join(root, "a"))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := discovery.Find(ctx, discovery.Options{Root: root, MaxDepth: 1})
		Expect(err).To(MatchError(context.Canceled))
	})
})
