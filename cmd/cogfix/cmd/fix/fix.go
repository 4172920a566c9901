// SPDX-License-Identifier: Apache-2.0

package fix

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/opencoq/cogfix/internal/cogfix/executor"
	"github.com/opencoq/cogfix/internal/cogfix/loop"
	"github.com/opencoq/cogfix/internal/cogfix/remedy"
	"github.com/opencoq/cogfix/internal/cogfix/report"
	"github.com/opencoq/cogfix/internal/cogfix/schedule"
	"github.com/opencoq/cogfix/internal/core/config"
	"github.com/opencoq/cogfix/internal/core/logging"
	"github.com/spf13/cobra"
)

// GetFixCmd creates the 'fix' command.
func GetFixCmd() *cobra.Command {
	fixCmd := &cobra.Command{
		Use:   "fix",
		Short: "Retry a build command with automated remediation between attempts",
		Long: `Fix runs the build command up to the attempt limit, applying the
scheduled remediation actions before each attempt, and writes a
success or escalation report under the artifacts directory.

Exit status is 0 when a build attempt eventually succeeds and 1 when
all attempts are exhausted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			buildCmd, _ := cmd.Flags().GetString("build-cmd")
			maxAttempts, _ := cmd.Flags().GetInt("max-attempts")
			scheduleFile, _ := cmd.Flags().GetString("schedule")
			regenCmd, _ := cmd.Flags().GetString("regen-cmd")
			buildDirFlag, _ := cmd.Flags().GetString("build-dir")
			artifactsFlag, _ := cmd.Flags().GetString("artifacts-dir")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			repoRoot, _ := cmd.Flags().GetString("repo-root")
			configPath, _ := cmd.Flags().GetString("config")
			verbose, _ := cmd.Flags().GetBool("verbose")

			cfg, err := config.Resolve(repoRoot, configPath)
			if err != nil {
				return err
			}
			if buildDirFlag != "" {
				cfg.BuildDir = buildDirFlag
			}
			if artifactsFlag != "" {
				cfg.ArtifactsDir = artifactsFlag
			}

			logger, err := logging.New(verbose)
			if err != nil {
				return fmt.Errorf("error creating logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			sched, err := loadSchedule(scheduleFile)
			if err != nil {
				return err
			}

			runner := executor.NewRunner(logger).
				WithWorkingDir(repoRoot).
				WithTimeout(cfg.BuildTimeout())

			if regenCmd == "" {
				regenCmd = defaultRegenCommand(cfg.CMakeConfigRoot)
			}

			registry := remedy.NewRegistry(remedy.Context{
				RepoRoot:     repoRoot,
				BuildDir:     resolvePath(repoRoot, cfg.BuildDir),
				RegenCommand: regenCmd,
				Runner:       runner,
				Logger:       logger,
			})
			registry.RegisterDefaults()

			fixLoop, err := loop.New(loop.Config{
				BuildCommand: buildCmd,
				MaxAttempts:  maxAttempts,
				Schedule:     sched,
				Registry:     registry,
				Runner:       runner,
				Writer:       report.NewWriter(resolvePath(repoRoot, cfg.ArtifactsDir), logger),
				Logger:       logger,
			})
			if err != nil {
				return err
			}

			if dryRun {
				plan, err := fixLoop.FormatPlan()
				if err != nil {
					return err
				}
				fmt.Print(plan)
				return nil
			}

			_, err = fixLoop.Run(cmd.Context(), loop.Options{})
			return err
		},
	}

	fixCmd.Flags().String("build-cmd", "", "Build command to execute")
	fixCmd.Flags().Int("max-attempts", 3, "Maximum fix attempts")
	fixCmd.Flags().String("schedule", "", "Remediation schedule file (defaults to the built-in schedule)")
	fixCmd.Flags().String("regen-cmd", "", "Command regenerating package configs (defaults to 'cogfix configs generate')")
	fixCmd.Flags().String("build-dir", "", "Build directory reset by the clean fix (defaults to the configured build dir)")
	fixCmd.Flags().String("artifacts-dir", "", "Directory reports are written to (defaults to the configured artifacts dir)")
	fixCmd.Flags().Bool("dry-run", false, "Print the remediation plan without running anything")
	_ = fixCmd.MarkFlagRequired("build-cmd")

	return fixCmd
}

func loadSchedule(path string) (*schedule.Schedule, error) {
	if path == "" {
		return schedule.Default()
	}

	return schedule.Load(path)
}

// resolvePath anchors relative paths at the repository root.
func resolvePath(repoRoot, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(repoRoot, path)
}

// defaultRegenCommand rebuilds the package configs through this same
// binary, so the regeneration fix needs no external script.
func defaultRegenCommand(configRoot string) string {
	exe, err := os.Executable()
	if err != nil {
		exe = "cogfix"
	}

	return fmt.Sprintf("%s configs generate --config-root %s", exe, configRoot)
}
