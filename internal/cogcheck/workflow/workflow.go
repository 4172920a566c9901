// SPDX-License-Identifier: Apache-2.0

// Package workflow checks the structure of the dependency-build CI
// workflow: YAML well-formedness, presence of the component checkouts
// the build matrix expects, and the prerequisite edges between jobs.
package workflow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Category groups the component directories one build-matrix job covers.
type Category struct {
	Name       string
	Components []string
}

// ExpectedComponents lists the checkout directories per build job, in
// job-graph order.
var ExpectedComponents = []Category{
	{"foundation", []string{"cogutil", "moses", "blender_api_msgs", "external-tools", "ocpkg"}},
	{"core", []string{"atomspace", "atomspace-rocks", "atomspace-ipfs", "atomspace-websockets",
		"atomspace-restful", "atomspace-bridge", "atomspace-metta", "atomspace-rpc",
		"atomspace-cog", "atomspace-agents", "atomspace-dht"}},
	{"logic", []string{"ure"}}, // unify is external
	{"cognitive", []string{"cogserver", "attention", "spacetime", "pattern-index",
		"dimensional-embedding", "profile"}},
	{"advanced", []string{"pln", "miner", "asmoses", "benchmark"}},
	{"learning", []string{"learn", "generate", "language-learning"}},
	{"language", []string{"lg-atomese", "relex", "link-grammar"}},
	{"robotics", []string{"vision", "perception", "sensory", "ros-behavior-scripting",
		"robots_config", "pau2motors"}},
	{"integration", []string{"opencog"}},
}

// expectedNeeds maps each build job to the jobs it must wait for.
var expectedNeeds = map[string][]string{
	"foundation":  {},
	"core":        {"foundation"},
	"logic":       {"foundation", "core"},
	"cognitive":   {"foundation", "core", "logic"},
	"advanced":    {"foundation", "core", "logic", "cognitive"},
	"learning":    {"foundation", "core", "logic", "cognitive"},
	"language":    {"foundation", "core"},
	"robotics":    {"foundation", "core"},
	"integration": {"foundation", "core", "logic", "cognitive", "advanced", "learning"},
}

// Definition is the subset of a CI workflow the checks care about.
type Definition struct {
	Name string         `yaml:"name"`
	Jobs map[string]Job `yaml:"jobs"`
}

// Job carries the declared prerequisites of one workflow job.
type Job struct {
	Needs StringList `yaml:"needs"`
}

// StringList decodes a YAML value that may be a single scalar or a
// sequence, the two forms CI workflows use for `needs`.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch {
	case value.Tag == "!!null":
		*l = nil
		return nil
	case value.Kind == yaml.ScalarNode:
		var single string
		if err := value.Decode(&single); err != nil {
			return err
		}
		*l = StringList{single}
		return nil
	case value.Kind == yaml.SequenceNode:
		var many []string
		if err := value.Decode(&many); err != nil {
			return err
		}
		*l = StringList(many)
		return nil
	default:
		return errors.New("needs must be a job name or a list of job names")
	}
}

// CheckResult is the outcome of one structural check. Details carry the
// human-readable diagnostic lines in print order.
type CheckResult struct {
	Name    string
	Passed  bool
	Details []string
}

// Checker runs the structural checks against one repository checkout.
type Checker struct {
	repoRoot     string
	workflowPath string
	logger       *zap.Logger
}

// NewChecker creates a Checker. workflowPath is resolved relative to
// repoRoot unless absolute.
func NewChecker(repoRoot, workflowPath string, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Checker{
		repoRoot:     repoRoot,
		workflowPath: workflowPath,
		logger:       logger,
	}
}

// Check runs all structural checks in order.
func (c *Checker) Check() []CheckResult {
	return []CheckResult{
		c.CheckSyntax(),
		c.CheckDirectories(),
		c.CheckDependencies(),
	}
}

// CheckSyntax passes iff the workflow file exists and parses as YAML.
func (c *Checker) CheckSyntax() CheckResult {
	result := CheckResult{Name: "Workflow YAML syntax"}

	if _, err := c.loadDefinition(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			result.Details = append(result.Details, "❌ Workflow file not found")
		} else {
			result.Details = append(result.Details, fmt.Sprintf("❌ YAML syntax error: %v", err))
		}
		return result
	}

	result.Passed = true
	result.Details = append(result.Details, "✅ Workflow YAML syntax is valid")
	return result
}

// CheckDirectories reports which expected component checkouts exist under
// the repository root. It passes as soon as any expected directory is
// present: a liveness check, not a completeness check.
func (c *Checker) CheckDirectories() CheckResult {
	result := CheckResult{Name: "Component directories"}

	var existing, missing []string
	counts := make([]string, 0, len(ExpectedComponents))
	for _, category := range ExpectedComponents {
		present := 0
		for _, component := range category.Components {
			if _, err := os.Stat(filepath.Join(c.repoRoot, component)); err == nil {
				existing = append(existing, category.Name+": "+component)
				present++
			} else {
				missing = append(missing, category.Name+": "+component)
			}
		}
		counts = append(counts, fmt.Sprintf("   %s: %d/%d present", category.Name, present, len(category.Components)))
	}

	c.logger.Debug("scanned component directories",
		zap.Int("existing", len(existing)),
		zap.Int("missing", len(missing)))

	result.Details = append(result.Details, fmt.Sprintf("✅ Found %d existing components", len(existing)))
	result.Details = append(result.Details, counts...)

	if len(missing) > 0 {
		result.Details = append(result.Details, fmt.Sprintf("⚠️  Missing %d components:", len(missing)))
		shown := missing
		if len(shown) > 10 {
			shown = shown[:10]
		}
		for _, entry := range shown {
			result.Details = append(result.Details, "   - "+entry)
		}
		if len(missing) > 10 {
			result.Details = append(result.Details, fmt.Sprintf("   ... and %d more", len(missing)-10))
		}
	}

	result.Passed = len(existing) > 0
	return result
}

// CheckDependencies verifies that every job present in the workflow
// declares at least its expected prerequisites. Extra prerequisites are
// tolerated, and jobs absent from the workflow are skipped.
func (c *Checker) CheckDependencies() CheckResult {
	result := CheckResult{Name: "Dependency structure"}

	definition, err := c.loadDefinition()
	if err != nil {
		result.Details = append(result.Details, "❌ "+err.Error())
		return result
	}

	var issues []string
	for _, category := range ExpectedComponents {
		job, ok := definition.Jobs[category.Name]
		if !ok {
			continue
		}

		declared := make(map[string]bool, len(job.Needs))
		for _, name := range job.Needs {
			declared[name] = true
		}

		var missing []string
		for _, name := range expectedNeeds[category.Name] {
			if !declared[name] {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			issues = append(issues, fmt.Sprintf("%s: missing dependencies %s", category.Name, strings.Join(missing, ", ")))
		}
	}

	if len(issues) > 0 {
		result.Details = append(result.Details, "⚠️  Dependency structure issues:")
		for _, issue := range issues {
			result.Details = append(result.Details, "   - "+issue)
		}
		return result
	}

	result.Passed = true
	result.Details = append(result.Details, "✅ Dependency structure is correct")
	return result
}

func (c *Checker) loadDefinition() (*Definition, error) {
	path := c.workflowPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.repoRoot, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading workflow file '%s': %w", c.workflowPath, err)
	}

	var definition Definition
	if err := yaml.Unmarshal(data, &definition); err != nil {
		return nil, fmt.Errorf("error parsing workflow file '%s': %w", c.workflowPath, err)
	}

	return &definition, nil
}
