// SPDX-License-Identifier: Apache-2.0

package workflow

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const validWorkflow = `name: OpenCog Dependency Build Matrix

on:
  workflow_dispatch:

jobs:
  foundation:
    runs-on: ubuntu-latest
  core:
    needs: foundation
    runs-on: ubuntu-latest
  logic:
    needs: [foundation, core]
    runs-on: ubuntu-latest
  cognitive:
    needs: [foundation, core, logic]
    runs-on: ubuntu-latest
  advanced:
    needs: [foundation, core, logic, cognitive]
    runs-on: ubuntu-latest
  learning:
    needs: [foundation, core, logic, cognitive]
    runs-on: ubuntu-latest
  language:
    needs: [foundation, core]
    runs-on: ubuntu-latest
  robotics:
    needs: [foundation, core]
    runs-on: ubuntu-latest
  integration:
    needs: [foundation, core, logic, cognitive, advanced, learning]
    runs-on: ubuntu-latest
`

func writeWorkflow(t *testing.T, root, content string) {
	t.Helper()

	dir := filepath.Join(root, ".github", "workflows")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "opencog-dependency-build.yml"), []byte(content), 0644))
}

func newTestChecker(root string) *Checker {
	return NewChecker(root, filepath.Join(".github", "workflows", "opencog-dependency-build.yml"), zap.NewNop())
}

func TestStringListUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		yamlData string
		expected StringList
		wantErr  bool
	}{
		{
			name:     "scalar",
			yamlData: "needs: foundation",
			expected: StringList{"foundation"},
		},
		{
			name:     "flow list",
			yamlData: "needs: [foundation, core]",
			expected: StringList{"foundation", "core"},
		},
		{
			name:     "block list",
			yamlData: "needs:\n  - foundation\n  - core",
			expected: StringList{"foundation", "core"},
		},
		{
			name:     "explicit null",
			yamlData: "needs: null",
			expected: nil,
		},
		{
			name:     "absent",
			yamlData: "runs-on: ubuntu-latest",
			expected: nil,
		},
		{
			name:     "mapping rejected",
			yamlData: "needs: {job: foundation}",
			wantErr:  true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var job Job
			err := yaml.Unmarshal([]byte(test.yamlData), &job)

			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, job.Needs)
		})
	}
}

func TestCheckSyntax(t *testing.T) {
	t.Run("ValidWorkflowPasses", func(t *testing.T) {
		root := t.TempDir()
		writeWorkflow(t, root, validWorkflow)

		result := newTestChecker(root).CheckSyntax()

		assert.True(t, result.Passed)
		assert.Equal(t, []string{"✅ Workflow YAML syntax is valid"}, result.Details)
	})

	t.Run("MissingFileFails", func(t *testing.T) {
		result := newTestChecker(t.TempDir()).CheckSyntax()

		assert.False(t, result.Passed)
		assert.Equal(t, []string{"❌ Workflow file not found"}, result.Details)
	})

	t.Run("MalformedYAMLFails", func(t *testing.T) {
		root := t.TempDir()
		writeWorkflow(t, root, "jobs: [unterminated\n")

		result := newTestChecker(root).CheckSyntax()

		assert.False(t, result.Passed)
		assert.Contains(t, strings.Join(result.Details, "\n"), "YAML syntax error")
	})
}

func TestCheckDirectories(t *testing.T) {
	t.Run("EmptyCheckoutFails", func(t *testing.T) {
		result := newTestChecker(t.TempDir()).CheckDirectories()

		assert.False(t, result.Passed)
		assert.Contains(t, result.Details, "✅ Found 0 existing components")
		assert.Contains(t, result.Details, "   foundation: 0/5 present")
		assert.Contains(t, result.Details, "⚠️  Missing 40 components:")
		assert.Contains(t, result.Details, "   - foundation: cogutil")
		assert.Contains(t, result.Details, "   ... and 30 more")

		listed := 0
		for _, line := range result.Details {
			if strings.HasPrefix(line, "   - ") {
				listed++
			}
		}
		assert.Equal(t, 10, listed)
	})

	t.Run("AnyPresentDirectoryPasses", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(root, "cogutil"), 0755))
		require.NoError(t, os.Mkdir(filepath.Join(root, "atomspace"), 0755))

		result := newTestChecker(root).CheckDirectories()

		assert.True(t, result.Passed)
		assert.Contains(t, result.Details, "✅ Found 2 existing components")
		assert.Contains(t, result.Details, "   foundation: 1/5 present")
		assert.Contains(t, result.Details, "   core: 1/11 present")
		assert.Contains(t, result.Details, "⚠️  Missing 38 components:")
	})

	t.Run("FullCheckoutReportsNothingMissing", func(t *testing.T) {
		root := t.TempDir()
		for _, category := range ExpectedComponents {
			for _, component := range category.Components {
				require.NoError(t, os.MkdirAll(filepath.Join(root, component), 0755))
			}
		}

		result := newTestChecker(root).CheckDirectories()

		assert.True(t, result.Passed)
		assert.Contains(t, result.Details, "✅ Found 40 existing components")
		assert.NotContains(t, strings.Join(result.Details, "\n"), "Missing")
	})
}

func TestCheckDependencies(t *testing.T) {
	t.Run("CorrectGraphPasses", func(t *testing.T) {
		root := t.TempDir()
		writeWorkflow(t, root, validWorkflow)

		result := newTestChecker(root).CheckDependencies()

		assert.True(t, result.Passed)
		assert.Equal(t, []string{"✅ Dependency structure is correct"}, result.Details)
	})

	t.Run("MissingPrerequisitesFail", func(t *testing.T) {
		root := t.TempDir()
		writeWorkflow(t, root, `jobs:
  foundation:
    runs-on: ubuntu-latest
  core:
    runs-on: ubuntu-latest
  integration:
    needs: foundation
    runs-on: ubuntu-latest
`)

		result := newTestChecker(root).CheckDependencies()

		assert.False(t, result.Passed)
		assert.Equal(t, []string{
			"⚠️  Dependency structure issues:",
			"   - core: missing dependencies foundation",
			"   - integration: missing dependencies core, logic, cognitive, advanced, learning",
		}, result.Details)
	})

	t.Run("ExtraPrerequisitesTolerated", func(t *testing.T) {
		root := t.TempDir()
		writeWorkflow(t, root, `jobs:
  foundation:
    runs-on: ubuntu-latest
  core:
    needs: [foundation, logic]
    runs-on: ubuntu-latest
`)

		result := newTestChecker(root).CheckDependencies()

		assert.True(t, result.Passed)
	})

	t.Run("MissingFileFails", func(t *testing.T) {
		result := newTestChecker(t.TempDir()).CheckDependencies()

		assert.False(t, result.Passed)
		assert.Contains(t, strings.Join(result.Details, "\n"), "error reading workflow file")
	})
}

func TestCheckRunsAllChecksInOrder(t *testing.T) {
	root := t.TempDir()
	writeWorkflow(t, root, validWorkflow)
	require.NoError(t, os.Mkdir(filepath.Join(root, "cogutil"), 0755))

	results := newTestChecker(root).Check()

	require.Len(t, results, 3)
	assert.Equal(t, "Workflow YAML syntax", results[0].Name)
	assert.Equal(t, "Component directories", results[1].Name)
	assert.Equal(t, "Dependency structure", results[2].Name)
	for _, result := range results {
		assert.True(t, result.Passed, "check %s should pass", result.Name)
	}
}
