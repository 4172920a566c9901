// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/opencoq/cogfix/cmd/cogfix/cmd/configs"
	"github.com/opencoq/cogfix/cmd/cogfix/cmd/fix"
	"github.com/opencoq/cogfix/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cogfix",
	Short: "Cogfix - OpenCog Build Auto-Remediation Tool",
	Long: `Cogfix patches common build-configuration defects in the OpenCog
component tree, retries a build command across a bounded number of
remediation attempts, and leaves a machine-readable outcome report
behind for CI.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version.Version, version.Commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Resolve the repository root once so every subcommand sees an
		// absolute path.
		root, err := cmd.Flags().GetString("repo-root")
		if err != nil {
			return err
		}

		if root == "" {
			root, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("error getting current directory: %w", err)
			}
		} else {
			root, err = filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("error resolving repository root: %w", err)
			}
		}

		return cmd.Flags().Set("repo-root", root)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(fix.GetFixCmd())
	rootCmd.AddCommand(configs.GetConfigsCmd())

	rootCmd.PersistentFlags().String("repo-root", "", "repository root directory (default is current directory)")
	rootCmd.PersistentFlags().String("config", "", "config file (default is .cogfix/config.yaml under the repository root)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}
