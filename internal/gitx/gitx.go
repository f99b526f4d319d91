// SPDX-License-Identifier: MIT

// Package gitx provides helpers for executing git commands and parsing
// their output. It shells out to the installed git binary.
package gitx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Result is the captured outcome of one git invocation.
type Result struct {
	// Command is the literal argv that was executed, binary first.
	Command []string
	// ExitCode is 0 on success. -1 means the process could not be started
	// or was killed; the reason is the last stderr line.
	ExitCode int
	// Stdout holds output lines without the trailing empty line.
	Stdout []string
	// Stderr holds error-stream lines without the trailing empty line.
	Stderr []string
}

// OK reports a zero exit code.
func (r Result) OK() bool { return r.ExitCode == 0 }

// CommandLine returns the command as a single space-joined string.
func (r Result) CommandLine() string { return strings.Join(r.Command, " ") }

// Transcript renders the diagnostic block kept for failed invocations.
func (r Result) Transcript() []string {
	lines := []string{"----- command: " + r.CommandLine()}
	if len(r.Stdout) > 0 {
		lines = append(lines, "stdout:")
		lines = append(lines, r.Stdout...)
	}
	if len(r.Stderr) > 0 {
		lines = append(lines, "stderr:")
		lines = append(lines, r.Stderr...)
	}
	return lines
}

// Runner executes git commands against a working tree.
// This interface allows mocking in tests.
type Runner interface {
	// Run executes git with args scoped to dir. A non-zero exit code is
	// reported through the Result, never as a Go error.
	Run(ctx context.Context, dir string, args ...string) Result
}

// GitRunner is the default Runner implementation that shells out to git.
type GitRunner struct {
	// GitBin is the path to the git binary. Defaults to "git".
	GitBin string
	// Logger receives one debug entry per invocation. Optional.
	Logger logrus.FieldLogger
}

// NewGitRunner returns a runner for bin that logs to logger.
func NewGitRunner(bin string, logger logrus.FieldLogger) *GitRunner {
	return &GitRunner{GitBin: bin, Logger: logger}
}

// Run executes a git command with "-C dir" so the caller's working
// directory is never changed.
func (g *GitRunner) Run(ctx context.Context, dir string, args ...string) Result {
	bin := g.GitBin
	if bin == "" {
		bin = "git"
	}
	argv := DirArgs(dir, args)
	res := Result{Command: append([]string{bin}, argv...)}

	cmd := exec.CommandContext(ctx, bin, argv...)
	// Never block on an interactive credential prompt.
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	res.Stdout = SplitLines(stdout.String())
	res.Stderr = SplitLines(stderr.String())
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
			res.Stderr = append(res.Stderr, err.Error())
			if ctxErr := ctx.Err(); ctxErr != nil {
				res.Stderr = append(res.Stderr, ctxErr.Error())
			}
		}
	}

	g.logger().WithFields(logrus.Fields{
		"dir":       dir,
		"args":      strings.Join(args, " "),
		"exit_code": res.ExitCode,
	}).Debug("git")
	return res
}

func (g *GitRunner) logger() logrus.FieldLogger {
	if g.Logger != nil {
		return g.Logger
	}
	return DiscardLogger()
}

// DirArgs prepends "-C dir" to args when dir is non-empty.
func DirArgs(dir string, args []string) []string {
	if strings.TrimSpace(dir) == "" {
		return append([]string(nil), args...)
	}
	return append([]string{"-C", dir}, args...)
}

// SplitLines splits text on newlines and drops the empty element left by a
// trailing newline. Empty input yields no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// DiscardLogger returns a logger that drops every entry.
func DiscardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}
