// SPDX-License-Identifier: Apache-2.0

package configs

import (
	"fmt"
	"strings"

	"github.com/opencoq/cogfix/internal/core/format"
	"github.com/spf13/cobra"
)

func getListCmd() *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the component catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogFile, _ := cmd.Flags().GetString("catalog")
			asJSON, _ := cmd.Flags().GetBool("json")

			components, err := loadCatalog(catalogFile)
			if err != nil {
				return err
			}

			if asJSON {
				output, err := format.FormatData(components, false)
				if err != nil {
					return err
				}
				fmt.Println(output)
				return nil
			}

			fmt.Println("Available components:")
			fmt.Println("---------------------")
			for _, component := range components {
				fmt.Printf("- %s %s\n", component.Name, component.Version)
				fmt.Printf("    libraries: %s\n", strings.Join(component.EffectiveLibraries(), ", "))
				if len(component.Dependencies) > 0 {
					fmt.Printf("    requires: %s\n", strings.Join(component.Dependencies, ", "))
				}
			}

			return nil
		},
	}

	listCmd.Flags().String("catalog", "", "Component catalog file (defaults to the built-in catalog)")
	listCmd.Flags().Bool("json", false, "Output the catalog as JSON")

	return listCmd
}
