// SPDX-License-Identifier: MIT
package repofleet

import "github.com/spf13/cobra"

const (
	formatUsage    = "output format: table, wide, json, yaml"
	noHeadersUsage = "when using table format, do not print headers"
	detailsUsage   = "after the action, print the log of failed repositories and the status of the rest"
)

func addFormatFlag(cmd *cobra.Command, usage string) {
	cmd.Flags().StringP("format", "o", "table", usage)
}

func addNoHeadersFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("no-headers", false, noHeadersUsage)
}

func addDetailsFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("details", false, detailsUsage)
}

func addYesFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("yes", "y", false, "run without asking for confirmation")
}
