// SPDX-License-Identifier: Apache-2.0

package workflow

import (
	"fmt"
	"strings"

	wfcheck "github.com/opencoq/cogfix/internal/cogcheck/workflow"
	"github.com/opencoq/cogfix/internal/core/config"
	"github.com/opencoq/cogfix/internal/core/logging"
	"github.com/spf13/cobra"
)

// GetWorkflowCmd creates the 'workflow' command.
func GetWorkflowCmd() *cobra.Command {
	workflowCmd := &cobra.Command{
		Use:   "workflow",
		Short: "Validate the dependency-build workflow structure",
		Long: `Workflow runs three structural checks against the dependency-build CI
definition: YAML syntax, presence of the expected component checkouts,
and the prerequisite edges between build jobs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			workflowFile, _ := cmd.Flags().GetString("workflow-file")
			repoRoot, _ := cmd.Flags().GetString("repo-root")
			configPath, _ := cmd.Flags().GetString("config")
			verbose, _ := cmd.Flags().GetBool("verbose")

			cfg, err := config.Resolve(repoRoot, configPath)
			if err != nil {
				return err
			}
			if workflowFile == "" {
				workflowFile = cfg.WorkflowPath
			}

			logger, err := logging.New(verbose)
			if err != nil {
				return fmt.Errorf("error creating logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			fmt.Println("🔍 Validating OpenCog Dependency Build Matrix...")
			fmt.Println(strings.Repeat("=", 50))

			results := wfcheck.NewChecker(repoRoot, workflowFile, logger).Check()

			passed := 0
			for _, result := range results {
				fmt.Printf("\n📋 %s:\n", result.Name)
				for _, line := range result.Details {
					fmt.Println(line)
				}
				if result.Passed {
					passed++
				}
			}

			fmt.Println("\n" + strings.Repeat("=", 50))
			fmt.Println("📊 Validation Summary:")
			for _, result := range results {
				status := "❌ FAIL"
				if result.Passed {
					status = "✅ PASS"
				}
				fmt.Printf("   %s: %s\n", result.Name, status)
			}

			fmt.Printf("\n🎯 Overall: %d/%d checks passed\n", passed, len(results))

			if passed != len(results) {
				fmt.Println("⚠️  Some validations failed. Please review the issues above.")
				return fmt.Errorf("%d of %d workflow checks failed", len(results)-passed, len(results))
			}

			fmt.Println("🎉 All validations passed! The workflow is ready to use.")
			return nil
		},
	}

	workflowCmd.Flags().String("workflow-file", "", "Workflow definition to check (defaults to the configured workflow path)")

	return workflowCmd
}
