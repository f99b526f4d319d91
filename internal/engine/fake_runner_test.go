// SPDX-License-Identifier: MIT
package engine_test

import (
	"context"
	"strings"
	"sync"

	"github.com/skaphos/repofleet/internal/gitx"
)

// fakeRunner replays scripted results keyed by "dir:args". Queued results
// are consumed in order; the last one repeats. Unscripted commands succeed
// with no output.
type fakeRunner struct {
	mu        sync.Mutex
	responses map[string][]gitx.Result
	calls     map[string][]string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{responses: map[string][]gitx.Result{}, calls: map[string][]string{}}
}

func runKey(dir string, args ...string) string {
	return dir + ":" + strings.Join(args, " ")
}

func (f *fakeRunner) on(dir string, res gitx.Result, args ...string) *fakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := runKey(dir, args...)
	f.responses[k] = append(f.responses[k], res)
	return f
}

func (f *fakeRunner) Run(_ context.Context, dir string, args ...string) gitx.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[dir] = append(f.calls[dir], strings.Join(args, " "))

	var res gitx.Result
	k := runKey(dir, args...)
	if queue := f.responses[k]; len(queue) > 0 {
		res = queue[0]
		if len(queue) > 1 {
			f.responses[k] = queue[1:]
		}
	}
	res.Command = append([]string{"git", "-C", dir}, args...)
	return res
}

// commands returns the argument strings run against dir, in order.
func (f *fakeRunner) commands(dir string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls[dir]...)
}

func ok(stdout ...string) gitx.Result {
	return gitx.Result{Stdout: stdout}
}

func okStderr(stderr ...string) gitx.Result {
	return gitx.Result{Stderr: stderr}
}

func fail(stderr ...string) gitx.Result {
	return gitx.Result{ExitCode: 1, Stderr: stderr}
}
