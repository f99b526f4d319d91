// SPDX-License-Identifier: MIT
package repofleet

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skaphos/repofleet/internal/candidates"
)

const pickerFormat = "picker"

var listCmd = &cobra.Command{
	Use:     "list [REPO...]",
	Aliases: []string{"ls"},
	Short:   "Discover working trees and show their branch and working-tree state",
	Long: "Lists every working tree under the scan root with its branch (upstream<->local), ahead/behind " +
		"annotation, and markers: ± dirty, + stash, * untracked. -o picker prints one selectable row per repository.",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		noHeaders, _ := cmd.Flags().GetBool("no-headers")
		picker := strings.EqualFold(strings.TrimSpace(format), pickerFormat)
		var kind outputKind
		if !picker {
			var err error
			if kind, err = parseOutputKind(format); err != nil {
				return err
			}
		}

		rt, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		repos, err := rt.selectRepositories(cmd, args)
		if err != nil {
			return err
		}
		cands := candidates.Build(repos)

		switch {
		case picker:
			for _, c := range cands {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), c.Abbr); err != nil {
					logOutputWriteFailure(cmd, "picker", err)
					return nil
				}
			}
		case kind == outputKindJSON || kind == outputKindYAML:
			return writeStructured(cmd, kind, candidates.Repositories(cands))
		default:
			setColorOutputMode(cmd, format)
			writeRepoTable(cmd, candidates.Repositories(cands), kind == outputKindWide, noHeaders)
		}
		return nil
	},
}

func init() {
	addFormatFlag(listCmd, "output format: table, wide, json, yaml, picker")
	addNoHeadersFlag(listCmd)

	rootCmd.AddCommand(listCmd)
}
