// SPDX-License-Identifier: Apache-2.0

package cmakegen

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/opencoq/cogfix/internal/core/template"
	"go.uber.org/zap"
)

//go:embed templates/config.cmake.tmpl
var configTemplateData string

//go:embed templates/version.cmake.tmpl
var versionTemplateData string

// Generator writes the per-component descriptor pair under a config
// root: <root>/<Name>/<Name>Config.cmake plus a version file.
type Generator struct {
	configRoot string
	out        io.Writer
	logger     *zap.Logger
}

// NewGenerator creates a generator writing under configRoot
func NewGenerator(configRoot string, logger *zap.Logger) *Generator {
	return &Generator{
		configRoot: configRoot,
		out:        os.Stdout,
		logger:     logger,
	}
}

// WithOutput redirects the generator's progress lines
func (g *Generator) WithOutput(out io.Writer) *Generator {
	g.out = out
	return g
}

// Generate validates the catalog and writes the descriptor pair for
// every component, in catalog order
func (g *Generator) Generate(components []Component) error {
	if err := ValidateCatalog(components); err != nil {
		return err
	}

	for _, component := range components {
		if err := g.generateComponent(component); err != nil {
			return err
		}
		fmt.Fprintf(g.out, "Created CMake config for %s version %s\n", component.Name, component.Version)
	}

	fmt.Fprintln(g.out, "All CMake configs created successfully")
	return nil
}

func (g *Generator) generateComponent(component Component) error {
	configDir := filepath.Join(g.configRoot, component.Name)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("error creating config directory %s: %w", configDir, err)
	}

	params := templateParams(component)

	config, err := template.ProcessString(configTemplateData, params)
	if err != nil {
		return fmt.Errorf("error rendering config for %s: %w", component.Name, err)
	}
	configPath := filepath.Join(configDir, component.Name+"Config.cmake")
	if err := os.WriteFile(configPath, config, 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", configPath, err)
	}

	version, err := template.ProcessString(versionTemplateData, params)
	if err != nil {
		return fmt.Errorf("error rendering version file for %s: %w", component.Name, err)
	}
	versionPath := filepath.Join(configDir, component.Name+"ConfigVersion.cmake")
	if err := os.WriteFile(versionPath, version, 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", versionPath, err)
	}

	g.logger.Debug("wrote package config descriptors",
		zap.String("component", component.Name),
		zap.String("dir", configDir))
	return nil
}

// LibraryLookup names one find_library directive of a descriptor
type LibraryLookup struct {
	Variable string
	Name     string
}

// templateParams precomputes the substitutions for one component. The
// ${VAR} references are assembled here because the descriptor syntax
// collides with template action delimiters when nested.
func templateParams(component Component) map[string]interface{} {
	upper := strings.ToUpper(component.Name)

	libraries := component.EffectiveLibraries()
	lookups := make([]LibraryLookup, 0, len(libraries))
	refs := make([]string, 0, len(libraries))
	for _, library := range libraries {
		variable := fmt.Sprintf("%s_%s_LIBRARY", upper, strings.ToUpper(library))
		lookups = append(lookups, LibraryLookup{Variable: variable, Name: library})
		refs = append(refs, "${"+variable+"}")
	}

	return map[string]interface{}{
		"Name":         component.Name,
		"Upper":        upper,
		"Version":      component.Version,
		"Lookups":      lookups,
		"LibraryRefs":  strings.Join(refs, " "),
		"LibrariesRef": "${" + upper + "_LIBRARIES}",
		"Dependencies": component.Dependencies,
	}
}
