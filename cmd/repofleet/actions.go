// SPDX-License-Identifier: MIT
package repofleet

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skaphos/repofleet/internal/cliio"
	"github.com/skaphos/repofleet/internal/engine"
	"github.com/skaphos/repofleet/internal/model"
)

type actionSpec struct {
	name    string
	short   string
	confirm bool
}

var actionSpecs = []actionSpec{
	{name: "fetch", short: "Fetch every selected repository and report updated branches"},
	{name: "rebase", short: "Rebase the current branch of every selected repository onto its upstream"},
	{name: "push", short: "Push the current branch of every selected repository", confirm: true},
	{name: "stash", short: "Stash local modifications in every selected repository"},
	{name: "stash-pop", short: "Restore the most recent stash in every selected repository"},
	{name: "fetch-rebase", short: "Fetch, then stash, rebase, and unstash where anything moved"},
}

func newActionCommand(spec actionSpec) *cobra.Command {
	cmd := &cobra.Command{
		Use:   spec.name + " [REPO...]",
		Short: spec.short,
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := engine.Lookup(spec.name)
			if err != nil {
				return err
			}
			return runAction(cmd, args, spec.name, spec.confirm, action)
		},
	}
	addFormatFlag(cmd, formatUsage)
	addNoHeadersFlag(cmd)
	addDetailsFlag(cmd)
	if spec.confirm {
		addYesFlag(cmd)
	}
	return cmd
}

// runAction resolves the selection, runs action over it, and reports the
// per-repository outcomes.
func runAction(cmd *cobra.Command, names []string, label string, confirm bool, action engine.Action) error {
	format, _ := cmd.Flags().GetString("format")
	kind, err := parseOutputKind(format)
	if err != nil {
		return err
	}
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	repos, err := rt.selectRepositories(cmd, names)
	if err != nil {
		return err
	}

	if confirm && len(repos) > 1 {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			ok, err := cliio.PromptYesNo(cmd.ErrOrStderr(), cmd.InOrStdin(), fmt.Sprintf("Run %s in %d repositories? [y/N]: ", label, len(repos)))
			if err != nil {
				return err
			}
			if !ok {
				infof(cmd, "%s cancelled", label)
				return nil
			}
		}
	}

	results := rt.eng.Apply(cmd.Context(), repos, action)
	reportResults(cmd, rt, kind, results)
	return nil
}

func reportResults(cmd *cobra.Command, rt *runtimeEnv, kind outputKind, results []model.Repository) {
	for _, repo := range results {
		if repo.Action.Failed() {
			raiseExitCode(1)
		}
	}

	switch kind {
	case outputKindJSON, outputKindYAML:
		logOutputWriteFailure(cmd, "results", writeStructured(cmd, kind, results))
	default:
		noHeaders, _ := cmd.Flags().GetBool("no-headers")
		setColorOutputMode(cmd, string(kind))
		writeResultTable(cmd, results, kind == outputKindWide, noHeaders)
	}

	if details, _ := cmd.Flags().GetBool("details"); details {
		writeDetails(cmd, rt, results)
	}
}

func init() {
	for _, spec := range actionSpecs {
		rootCmd.AddCommand(newActionCommand(spec))
	}
}
