// SPDX-License-Identifier: Apache-2.0

package configs

import (
	"github.com/opencoq/cogfix/internal/cogfix/cmakegen"
	"github.com/spf13/cobra"
)

var configsCmd = &cobra.Command{
	Use:   "configs",
	Short: "Manage CMake package config descriptors",
	Long:  `Commands for generating and inspecting the CMake package configuration files downstream components resolve dependencies with.`,
}

func GetConfigsCmd() *cobra.Command {
	return configsCmd
}

func init() {
	configsCmd.AddCommand(getGenerateCmd())
	configsCmd.AddCommand(getListCmd())
}

func loadCatalog(path string) ([]cmakegen.Component, error) {
	if path == "" {
		return cmakegen.DefaultCatalog()
	}

	return cmakegen.LoadCatalog(path)
}
