// SPDX-License-Identifier: Apache-2.0

package configs

import (
	"fmt"

	"github.com/opencoq/cogfix/internal/cogfix/cmakegen"
	"github.com/opencoq/cogfix/internal/core/config"
	"github.com/opencoq/cogfix/internal/core/logging"
	"github.com/spf13/cobra"
)

func getGenerateCmd() *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate CMake config files for the component catalog",
		Long: `Generate writes a <Name>Config.cmake and <Name>ConfigVersion.cmake
pair for every catalog component under the config root, one directory
per component.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configRoot, _ := cmd.Flags().GetString("config-root")
			catalogFile, _ := cmd.Flags().GetString("catalog")
			repoRoot, _ := cmd.Flags().GetString("repo-root")
			configPath, _ := cmd.Flags().GetString("config")
			verbose, _ := cmd.Flags().GetBool("verbose")

			cfg, err := config.Resolve(repoRoot, configPath)
			if err != nil {
				return err
			}
			if configRoot == "" {
				configRoot = cfg.CMakeConfigRoot
			}

			logger, err := logging.New(verbose)
			if err != nil {
				return fmt.Errorf("error creating logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			components, err := loadCatalog(catalogFile)
			if err != nil {
				return err
			}

			return cmakegen.NewGenerator(configRoot, logger).Generate(components)
		},
	}

	generateCmd.Flags().String("config-root", "", "Directory the per-component config directories go under (defaults to the configured CMake config root)")
	generateCmd.Flags().String("catalog", "", "Component catalog file (defaults to the built-in catalog)")

	return generateCmd
}
