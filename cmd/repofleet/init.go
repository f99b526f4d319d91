// SPDX-License-Identifier: MIT
package repofleet

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skaphos/repofleet/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap a RepoFleet configuration",
	Long:  "Creates a RepoFleet config file in the current directory by default.",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		cwd, err := os.Getwd()
		if err != nil {
			return err
		}

		cfgPath, err := config.InitConfigPath(flagConfig, cwd)
		if err != nil {
			return err
		}
		if _, err := os.Stat(cfgPath); err == nil && !force {
			return fmt.Errorf("config already exists at %q (use --force to overwrite)", cfgPath)
		}

		cfg := config.DefaultConfig()
		if err := applyFlagOverrides(cmd, &cfg); err != nil {
			return err
		}
		if flagRoot != "" {
			cfg.Root = flagRoot
		}
		if err := config.Save(&cfg, cfgPath); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote config to %s\n", cfgPath); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite existing config without prompting")

	rootCmd.AddCommand(initCmd)
}
