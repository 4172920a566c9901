// SPDX-License-Identifier: Apache-2.0

package genesis

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gendoc "github.com/opencoq/cogfix/internal/cogcheck/genesis"
	"github.com/opencoq/cogfix/internal/core/config"
	"github.com/opencoq/cogfix/internal/core/logging"
	"github.com/spf13/cobra"
)

// GetGenesisCmd creates the 'genesis' command.
func GetGenesisCmd() *cobra.Command {
	genesisCmd := &cobra.Command{
		Use:   "genesis",
		Short: "Validate the planning document and its issue round trip",
		Long: `Genesis checks the structure of the planning document, parses its
phases and tasks, and round-trips the issues derived from one phase
through the JSON/base64 transport the issue-generation workflow uses.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			docFile, _ := cmd.Flags().GetString("file")
			phaseNumber, _ := cmd.Flags().GetString("phase")
			exportPath, _ := cmd.Flags().GetString("export")
			repoRoot, _ := cmd.Flags().GetString("repo-root")
			configPath, _ := cmd.Flags().GetString("config")
			verbose, _ := cmd.Flags().GetBool("verbose")

			cfg, err := config.Resolve(repoRoot, configPath)
			if err != nil {
				return err
			}
			if docFile == "" {
				docFile = cfg.GenesisPath
			}
			if !filepath.IsAbs(docFile) {
				docFile = filepath.Join(repoRoot, docFile)
			}

			logger, err := logging.New(verbose)
			if err != nil {
				return fmt.Errorf("error creating logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			validator := gendoc.NewValidator(docFile, logger)

			fmt.Println("🔍 Validating generate-next-steps workflow components...")
			fmt.Println(strings.Repeat("=", 60))

			fmt.Println("1. Validating planning document structure...")
			content, err := validator.LoadDocument()
			if err != nil {
				fmt.Println("❌ File validation failed")
				return err
			}

			structure := gendoc.InspectStructure(content)
			if structure.ControlChars > 0 {
				fmt.Printf("⚠️  Found %d control characters\n", structure.ControlChars)
				for _, offset := range structure.ControlOffsets {
					fmt.Printf("   Offset %d: 0x%02X\n", offset, content[offset])
				}
			} else {
				fmt.Println("✅ No problematic control characters found")
			}
			fmt.Printf("✅ Found %d phase headers\n", structure.PhaseHeaders)
			fmt.Printf("✅ Found %d task lines\n", structure.TaskLines)
			if !structure.Valid() {
				fmt.Println("❌ File validation failed")
				return fmt.Errorf("planning document '%s' has no recognizable phases or tasks", docFile)
			}
			fmt.Println("✅ File validation passed")
			fmt.Println()

			fmt.Println("2. Testing document parsing...")
			doc := validator.Parse(content)
			if len(doc.Phases) == 0 || doc.TotalTasks() == 0 {
				fmt.Println("❌ Document parsing failed")
				return fmt.Errorf("no phases or tasks parsed from '%s'", docFile)
			}
			fmt.Printf("✅ Parsed %d phases with %d total tasks\n", len(doc.Phases), doc.TotalTasks())
			fmt.Println()

			fmt.Println("3. Testing JSON generation and encoding...")
			phase := doc.Phase(phaseNumber)
			if phase == nil {
				fmt.Printf("❌ Phase %s not found\n", phaseNumber)
				return fmt.Errorf("phase %s not found in '%s'", phaseNumber, docFile)
			}

			issues, err := validator.BuildIssues(phase.Tasks)
			if err != nil {
				return err
			}
			fmt.Printf("✅ Generated JSON for %d issues\n", len(issues))

			encoded, err := validator.EncodeIssues(issues)
			if err != nil {
				return err
			}
			fmt.Printf("✅ Base64 encoded (%d chars)\n", len(encoded))

			decoded, err := validator.DecodeIssues(encoded)
			if err != nil {
				return err
			}
			fmt.Printf("✅ Successfully decoded and parsed %d issues\n", len(decoded))

			if len(decoded) != len(issues) {
				return fmt.Errorf("issue count changed in transit: sent %d, got back %d", len(issues), len(decoded))
			}
			fmt.Println("✅ Data integrity verified")

			if exportPath != "" {
				if err := os.WriteFile(exportPath, []byte(encoded), 0644); err != nil {
					return fmt.Errorf("error writing issue payload '%s': %w", exportPath, err)
				}
				fmt.Printf("✅ Issue payload written to %s\n", exportPath)
			}
			fmt.Println()

			fmt.Println("🎉 All validation tests passed!")
			fmt.Println("The generate-next-steps workflow should work correctly.")
			return nil
		},
	}

	genesisCmd.Flags().String("file", "", "Planning document to check (defaults to the configured genesis path)")
	genesisCmd.Flags().String("phase", "1", "Phase whose tasks exercise the round trip")
	genesisCmd.Flags().String("export", "", "Write the base64 issue payload to this file")

	return genesisCmd
}
