// SPDX-License-Identifier: MIT
package repofleet

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/skaphos/repofleet/internal/engine"
)

var gitCmd = &cobra.Command{
	Use:   "git [REPO...] -- ARGS...",
	Short: "Run a free-form git command in every selected repository",
	Long: "Runs git with ARGS in each selected repository. Repository names go before \"--\"; " +
		"without \"--\" every argument is passed to git and all repositories are selected. Git flags always need \"--\".",
	Example: "  repofleet git -- log -1 --oneline\n  repofleet git api web -- remote -v",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, gitArgs := splitAtDash(args, cmd.ArgsLenAtDash())
		if len(gitArgs) == 0 {
			return errors.New("no git arguments given (use: repofleet git [REPO...] -- ARGS...)")
		}
		return runAction(cmd, names, "git", false, engine.Git(gitArgs...))
	},
}

func splitAtDash(args []string, dash int) ([]string, []string) {
	if dash < 0 {
		return nil, args
	}
	return args[:dash], args[dash:]
}

func init() {
	addFormatFlag(gitCmd, formatUsage)
	addNoHeadersFlag(gitCmd)
	addDetailsFlag(gitCmd)

	rootCmd.AddCommand(gitCmd)
}
