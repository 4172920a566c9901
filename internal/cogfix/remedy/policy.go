// SPDX-License-Identifier: Apache-2.0

package remedy

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// PatchState classifies what a content patch did
type PatchState string

const (
	// PatchApplied means the policy block was inserted
	PatchApplied PatchState = "applied"

	// PatchAlreadyPresent means the policy directive already exists
	PatchAlreadyPresent PatchState = "already-present"

	// PatchAnchorMissing means the file needs the fix but has no
	// minimum-version line to anchor the insertion
	PatchAnchorMissing PatchState = "anchor-missing"

	// PatchNotApplicable means the file does not reference Boost
	PatchNotApplicable PatchState = "not-applicable"
)

// CMake directives are case-insensitive, so marker matching is too
const (
	boostLookupMarker  = "find_package(boost"
	policySetMarker    = "cmake_policy(set cmp0167"
	minimumVersionLine = "cmake_minimum_required"
)

var boostPolicyBlock = []string{
	"",
	"# Fix for modern CMake Boost module policy",
	"IF(CMAKE_VERSION VERSION_GREATER_EQUAL 3.30)",
	"    CMAKE_POLICY(SET CMP0167 NEW)",
	"ENDIF()",
	"",
}

// InjectBoostPolicy inserts a version-guarded CMP0167 policy block
// immediately after the minimum-version line of a build file that looks
// up Boost but does not set the policy yet. It returns the new content
// and a state telling the caller what happened; content is returned
// unchanged for every state except PatchApplied.
func InjectBoostPolicy(content string) (string, PatchState) {
	lowered := strings.ToLower(content)
	if !strings.Contains(lowered, boostLookupMarker) {
		return content, PatchNotApplicable
	}
	if strings.Contains(lowered, policySetMarker) {
		return content, PatchAlreadyPresent
	}

	lines := strings.Split(content, "\n")
	insertIndex := -1
	for i, line := range lines {
		if strings.Contains(strings.ToLower(line), minimumVersionLine) {
			insertIndex = i + 1
			break
		}
	}
	if insertIndex < 0 {
		return content, PatchAnchorMissing
	}

	patched := make([]string, 0, len(lines)+len(boostPolicyBlock))
	patched = append(patched, lines[:insertIndex]...)
	patched = append(patched, boostPolicyBlock...)
	patched = append(patched, lines[insertIndex:]...)
	return strings.Join(patched, "\n"), PatchApplied
}

// PolicyInject applies the Boost policy fix to every CMakeLists.txt
// under the repository root.
type PolicyInject struct {
	repoRoot string
	logger   *zap.Logger
}

// NewPolicyInject creates a CMake policy injection action rooted at repoRoot
func NewPolicyInject(repoRoot string, logger *zap.Logger) *PolicyInject {
	return &PolicyInject{
		repoRoot: repoRoot,
		logger:   logger,
	}
}

// Name returns the action's type identifier
func (a *PolicyInject) Name() string {
	return TypeInjectCMakePolicy
}

// Description returns a human-readable description of the action
func (a *PolicyInject) Description() string {
	return "Insert the CMP0167 Boost policy block into build files that need it"
}

// Apply patches every build file that looks up Boost without the policy
func (a *PolicyInject) Apply(_ context.Context) Result {
	patched := 0
	anchorless := 0
	err := filepath.WalkDir(a.repoRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != "CMakeLists.txt" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("error reading %s: %w", path, err)
		}

		fixed, state := InjectBoostPolicy(string(data))
		switch state {
		case PatchApplied:
			if err := os.WriteFile(path, []byte(fixed), 0644); err != nil {
				return fmt.Errorf("error writing %s: %w", path, err)
			}
			a.logger.Info("added Boost policy fix", zap.String("file", path))
			patched++
		case PatchAnchorMissing:
			a.logger.Warn("no minimum-version line to anchor policy fix",
				zap.String("file", path))
			anchorless++
		}
		return nil
	})
	if err != nil {
		return Result{
			Action:  a.Name(),
			Outcome: OutcomeFailed,
			Err:     err,
		}
	}

	switch {
	case patched > 0:
		return Result{
			Action:  a.Name(),
			Outcome: OutcomeApplied,
			Detail:  fmt.Sprintf("patched %d build files", patched),
		}
	case anchorless > 0:
		return Result{
			Action:  a.Name(),
			Outcome: OutcomeFailed,
			Detail:  fmt.Sprintf("%d build files need the fix but have no anchor line", anchorless),
		}
	default:
		return Result{
			Action:  a.Name(),
			Outcome: OutcomeNotApplicable,
			Detail:  "no build files need the policy fix",
		}
	}
}
