// SPDX-License-Identifier: MIT
package repofleet

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skaphos/repofleet/internal/engine"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout BRANCH [REPO...]",
	Short: "Check out a branch in every selected repository",
	Long: "Checks out BRANCH in each selected repository independently. With -b the branch is created. " +
		"With --smart it is checked out where it exists and created everywhere else. " +
		"Shell completion offers the branches common to every repository (all branches with --smart).",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		branch := strings.TrimSpace(args[0])
		if branch == "" {
			return errors.New("branch name must not be empty")
		}
		create, _ := cmd.Flags().GetBool("create")
		smart, _ := cmd.Flags().GetBool("smart")
		if create && smart {
			return errors.New("-b and --smart are mutually exclusive")
		}

		action := engine.Checkout(branch)
		switch {
		case create:
			action = engine.CheckoutB(branch)
		case smart:
			action = engine.SmartCheckout(branch)
		}
		return runAction(cmd, args[1:], "checkout", false, action)
	},
	ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		smart, _ := cmd.Flags().GetBool("smart")
		names, err := branchCandidates(cmd, nil, smart)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	},
}

func init() {
	checkoutCmd.Flags().BoolP("create", "b", false, "create the branch in every repository")
	checkoutCmd.Flags().Bool("smart", false, "check out where the branch exists, create it elsewhere")
	addFormatFlag(checkoutCmd, formatUsage)
	addNoHeadersFlag(checkoutCmd)
	addDetailsFlag(checkoutCmd)

	rootCmd.AddCommand(checkoutCmd)
}
