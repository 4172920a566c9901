// SPDX-License-Identifier: Apache-2.0

// Package cmakegen generates CMake package config descriptors for a
// catalog of installed components, so dependent builds can locate
// their headers, libraries, and transitive dependencies.
package cmakegen

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"github.com/opencoq/cogfix/internal/core/format"
)

//go:embed catalog.yaml
var defaultCatalogData []byte

var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Component describes one catalog entry
type Component struct {
	// Name doubles, case-folded, as the descriptor variable prefix
	Name string `yaml:"name" json:"name"`

	// Version is a three-part semantic version
	Version string `yaml:"version" json:"version"`

	// Libraries the component installs; empty means one library
	// named after the lowercased component
	Libraries []string `yaml:"libraries,omitempty" json:"libraries,omitempty"`

	// Dependencies are other catalog components resolved transitively
	// by consumers
	Dependencies []string `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
}

// EffectiveLibraries returns the declared libraries, defaulting to a
// single entry derived from the lowercased component name
func (c Component) EffectiveLibraries() []string {
	if len(c.Libraries) > 0 {
		return c.Libraries
	}
	return []string{strings.ToLower(c.Name)}
}

// DefaultCatalog returns the built-in component catalog
func DefaultCatalog() ([]Component, error) {
	return ParseCatalog(defaultCatalogData)
}

// ParseCatalog builds a validated catalog from YAML or JSON data
func ParseCatalog(data []byte) ([]Component, error) {
	var components []Component
	if err := format.ParseData(data, &components); err != nil {
		return nil, fmt.Errorf("error parsing catalog: %w", err)
	}
	if err := ValidateCatalog(components); err != nil {
		return nil, err
	}
	return components, nil
}

// LoadCatalog builds a validated catalog from a YAML or JSON file
func LoadCatalog(path string) ([]Component, error) {
	var components []Component
	if err := format.ParseFile(path, &components); err != nil {
		return nil, fmt.Errorf("error loading catalog '%s': %w", path, err)
	}
	if err := ValidateCatalog(components); err != nil {
		return nil, err
	}
	return components, nil
}

// ValidateCatalog checks that the catalog is internally consistent:
// unique names, three-part versions, and dependencies that resolve to
// other catalog entries.
func ValidateCatalog(components []Component) error {
	if len(components) == 0 {
		return fmt.Errorf("catalog has no components")
	}

	names := make(map[string]bool, len(components))
	var problems []string
	for _, component := range components {
		if component.Name == "" {
			problems = append(problems, "component with empty name")
			continue
		}
		if names[component.Name] {
			problems = append(problems, fmt.Sprintf("duplicate component %s", component.Name))
		}
		names[component.Name] = true

		if !versionPattern.MatchString(component.Version) {
			problems = append(problems, fmt.Sprintf("component %s has invalid version %q", component.Name, component.Version))
		}
	}

	for _, component := range components {
		for _, dependency := range component.Dependencies {
			if dependency == component.Name {
				problems = append(problems, fmt.Sprintf("component %s depends on itself", component.Name))
				continue
			}
			if !names[dependency] {
				problems = append(problems, fmt.Sprintf("component %s depends on unknown component %s", component.Name, dependency))
			}
		}
	}

	if len(problems) > 0 {
		errorMsg := "catalog validation failed:"
		for _, problem := range problems {
			errorMsg += fmt.Sprintf("\n- %s", problem)
		}
		return fmt.Errorf("%s", errorMsg)
	}

	return nil
}
