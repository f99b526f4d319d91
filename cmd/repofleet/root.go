// SPDX-License-Identifier: MIT

// Package repofleet contains the Cobra command tree for the RepoFleet CLI.
package repofleet

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	// Global flags
	flagVerbose     int
	flagQuiet       bool
	flagConfig      string
	flagNoColor     bool
	flagRoot        string
	flagDepth       int
	flagExclude     string
	flagConcurrency int
	flagTimeout     int
	flagFilter      string
	// colorOutputEnabled is set per command execution based on output format and TTY detection.
	colorOutputEnabled bool
	// exitCode tracks the highest severity observed during a command run.
	exitCode int
	// isTerminalFD is overridable in tests.
	isTerminalFD = term.IsTerminal
	// exitFunc is overridable in tests.
	exitFunc = os.Exit
)

var rootCmd = &cobra.Command{
	Use:   "repofleet",
	Short: "Run git actions across a fleet of working trees",
	Long: "RepoFleet discovers git working trees under a root directory, summarizes their branch and " +
		"working-tree state, and runs fetch, rebase, push, stash, checkout, and free-form git commands across them.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// `NO_COLOR` is a standard opt-out and should behave like --no-color.
		if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
			flagNoColor = true
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&flagVerbose, "verbose", "v", "increase output verbosity (repeatable)")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "suppress non-essential output")
	pf.StringVar(&flagConfig, "config", "", "override config file path")
	pf.BoolVar(&flagNoColor, "no-color", false, "disable colored output")
	pf.StringVar(&flagRoot, "root", "", "directory to scan for working trees (default: config root or cwd)")
	pf.IntVar(&flagDepth, "depth", 0, "maximum scan depth below root, -1 for unlimited (default: config max_depth)")
	pf.StringVar(&flagExclude, "exclude", "", "comma-separated glob patterns to skip while scanning")
	pf.IntVar(&flagConcurrency, "concurrency", 0, "maximum repositories processed at once (default: config or CPU count)")
	pf.IntVar(&flagTimeout, "timeout", 0, "per-repository timeout in seconds (default: config, 0 disables)")
	pf.StringVar(&flagFilter, "filter", "", "fuzzy filter applied to repository names")
}

// Execute runs the root command.
func Execute() {
	exitFunc(ExecuteWithExitCode())
}

// ExecuteWithExitCode runs the root command and returns a shell-friendly exit code.
func ExecuteWithExitCode() int {
	exitCode = 0
	colorOutputEnabled = false
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "error:", err)
		return 3
	}
	return exitCode
}

func raiseExitCode(code int) {
	// Keep the highest severity: 0 success, 1 action failure, 3 fatal.
	if code > exitCode {
		exitCode = code
	}
}

func infof(cmd *cobra.Command, format string, args ...any) {
	if flagQuiet {
		return
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

// newLogger builds the per-invocation logger. It writes to the command's
// stderr and follows -v/-q.
func newLogger(cmd *cobra.Command) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    flagNoColor,
	})
	logger.SetLevel(logLevel(flagVerbose, flagQuiet))
	return logger
}

func logLevel(verbose int, quiet bool) logrus.Level {
	switch {
	case quiet:
		return logrus.ErrorLevel
	case verbose >= 2:
		return logrus.DebugLevel
	case verbose == 1:
		return logrus.InfoLevel
	default:
		return logrus.WarnLevel
	}
}

func setColorOutputMode(cmd *cobra.Command, format string) {
	colorOutputEnabled = shouldUseColorOutput(cmd, format)
}

func shouldUseColorOutput(cmd *cobra.Command, format string) bool {
	if flagNoColor || !isTabularFormat(format) {
		return false
	}
	file, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return isTerminalFD(int(file.Fd()))
}

func isTabularFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "table", "wide", "":
		return true
	default:
		return false
	}
}
