// SPDX-License-Identifier: MIT
package repofleet

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/skaphos/repofleet/internal/candidates"
	"github.com/skaphos/repofleet/internal/cliio"
	"github.com/skaphos/repofleet/internal/engine"
	"github.com/skaphos/repofleet/internal/model"
	"github.com/skaphos/repofleet/internal/termstyle"
)

type outputKind string

const (
	outputKindTable outputKind = "table"
	outputKindWide  outputKind = "wide"
	outputKindJSON  outputKind = "json"
	outputKindYAML  outputKind = "yaml"
)

func parseOutputKind(format string) (outputKind, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", string(outputKindTable):
		return outputKindTable, nil
	case string(outputKindWide):
		return outputKindWide, nil
	case string(outputKindJSON):
		return outputKindJSON, nil
	case string(outputKindYAML), "yml":
		return outputKindYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}
}

// logOutputWriteFailure records non-fatal output write/flush failures.
// CLI consumers frequently pipe to tools that close early (for example `head`),
// so we log and continue instead of treating these as command failures.
func logOutputWriteFailure(cmd *cobra.Command, context string, err error) {
	if err == nil {
		return
	}
	newLogger(cmd).WithError(err).WithField("context", context).Debug("ignored output write failure")
}

func writeStructured(cmd *cobra.Command, kind outputKind, value any) error {
	out := cmd.OutOrStdout()
	switch kind {
	case outputKindJSON:
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case outputKindYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q is not structured", kind)
	}
}

func branchCell(st model.Status) string {
	return termstyle.Colorize(colorOutputEnabled, st.Branch+candidates.Markers(st), termstyle.ForStatus(st))
}

func outcomeCell(o model.Outcome) string {
	return termstyle.Colorize(colorOutputEnabled, o.Message, termstyle.ForOutcome(o.Kind))
}

func writeRepoTable(cmd *cobra.Command, repos []model.Repository, wide, noHeaders bool) {
	headers := []string{"NAME", "BRANCH", "INFO", "ACTION"}
	if wide {
		headers = append(headers, "PATH")
	}
	rows := make([][]string, 0, len(repos))
	for _, repo := range repos {
		row := []string{repo.Name, branchCell(repo.Status), repo.Status.BranchInfo, outcomeCell(repo.Action)}
		if wide {
			row = append(row, repo.Path)
		}
		rows = append(rows, row)
	}
	logOutputWriteFailure(cmd, "repository table", cliio.WriteTable(cmd.OutOrStdout(), colorOutputEnabled, noHeaders, headers, rows))
}

func writeResultTable(cmd *cobra.Command, repos []model.Repository, wide, noHeaders bool) {
	headers := []string{"NAME", "OUTCOME", "BRANCH"}
	if wide {
		headers = append(headers, "ERROR_CLASS", "PATH")
	}
	rows := make([][]string, 0, len(repos))
	for _, repo := range repos {
		row := []string{repo.Name, outcomeCell(repo.Action), branchCell(repo.Status)}
		if wide {
			row = append(row, repo.Action.ErrorClass, repo.Path)
		}
		rows = append(rows, row)
	}
	logOutputWriteFailure(cmd, "result table", cliio.WriteTable(cmd.OutOrStdout(), colorOutputEnabled, noHeaders, headers, rows))
}

// writeDetails prints the default view of each repository.
func writeDetails(cmd *cobra.Command, rt *runtimeEnv, repos []model.Repository) {
	for _, repo := range repos {
		_, lines := engine.Open(cmd.Context(), rt.eng.Runner(), repo)
		title := fmt.Sprintf("%s (%s)", repo.Name, engine.DefaultView(repo))
		logOutputWriteFailure(cmd, "details", cliio.WriteSection(cmd.OutOrStdout(), title, lines, "(empty)"))
	}
}
