// SPDX-License-Identifier: MIT
package repofleet

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skaphos/repofleet/internal/engine"
	"github.com/skaphos/repofleet/internal/sortutil"
)

var branchesCmd = &cobra.Command{
	Use:   "branches [REPO...]",
	Short: "Print the local branches shared by every selected repository",
	Long:  "Prints the sorted intersection of the selected repositories' local branches, or their union with --union.",
	RunE: func(cmd *cobra.Command, args []string) error {
		union, _ := cmd.Flags().GetBool("union")
		format, _ := cmd.Flags().GetString("format")
		kind, err := parseOutputKind(format)
		if err != nil {
			return err
		}

		rt, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		repos, err := rt.selectRepositories(cmd, args)
		if err != nil {
			return err
		}
		_, lists := rt.eng.BranchLists(cmd.Context(), repos)
		sortutil.SortBranchLists(lists)

		names := engine.Intersect(lists)
		if union {
			names = engine.Union(lists)
		}

		switch kind {
		case outputKindJSON, outputKindYAML:
			return writeStructured(cmd, kind, map[string]any{
				"branches":     nonNil(names),
				"repositories": lists,
			})
		case outputKindWide:
			for _, list := range lists {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%v\n", list.Name, list.Branches); err != nil {
					logOutputWriteFailure(cmd, "branches", err)
					return nil
				}
			}
		}
		for _, name := range names {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
				logOutputWriteFailure(cmd, "branches", err)
				return nil
			}
		}
		return nil
	},
}

// branchCandidates returns the completion list for a branch argument.
func branchCandidates(cmd *cobra.Command, names []string, union bool) ([]string, error) {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return nil, err
	}
	repos, err := rt.selectRepositories(cmd, names)
	if err != nil {
		return nil, err
	}
	_, lists := rt.eng.BranchLists(cmd.Context(), repos)
	if union {
		return engine.Union(lists), nil
	}
	return engine.Intersect(lists), nil
}

func nonNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}

func init() {
	branchesCmd.Flags().Bool("union", false, "print branches present in any repository")
	addFormatFlag(branchesCmd, formatUsage)

	rootCmd.AddCommand(branchesCmd)
}
