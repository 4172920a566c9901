// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/opencoq/cogfix/cmd/cogcheck/cmd/genesis"
	"github.com/opencoq/cogfix/cmd/cogcheck/cmd/workflow"
	"github.com/opencoq/cogfix/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cogcheck",
	Short: "Cogcheck - CI Workflow and Planning Document Validator",
	Long: `Cogcheck validates the structure of the dependency-build CI workflow
and the AGENT-ZERO-GENESIS planning document, including the JSON/base64
round trip the issue-generation workflow relies on.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version.Version, version.Commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
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
	rootCmd.AddCommand(workflow.GetWorkflowCmd())
	rootCmd.AddCommand(genesis.GetGenesisCmd())

	rootCmd.PersistentFlags().String("repo-root", "", "repository root directory (default is current directory)")
	rootCmd.PersistentFlags().String("config", "", "config file (default is .cogfix/config.yaml under the repository root)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}
