// SPDX-License-Identifier: Apache-2.0

package remedy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// CleanRebuild removes and recreates the build output directory so the
// next attempt starts from scratch. This is the destructive last-resort
// fix; a failure here leaves the build tree in an unknown state, so it
// is reported as unsafe.
type CleanRebuild struct {
	repoRoot string
	buildDir string
	logger   *zap.Logger
}

// NewCleanRebuild creates a clean rebuild action for buildDir under repoRoot
func NewCleanRebuild(repoRoot, buildDir string, logger *zap.Logger) *CleanRebuild {
	return &CleanRebuild{
		repoRoot: repoRoot,
		buildDir: buildDir,
		logger:   logger,
	}
}

// Name returns the action's type identifier
func (a *CleanRebuild) Name() string {
	return TypeFullCleanRebuild
}

// Description returns a human-readable description of the action
func (a *CleanRebuild) Description() string {
	return "Remove and recreate the build output directory"
}

// Apply resets the build directory
func (a *CleanRebuild) Apply(_ context.Context) Result {
	buildPath := a.buildDir
	if !filepath.IsAbs(buildPath) {
		buildPath = filepath.Join(a.repoRoot, buildPath)
	}

	// Only a directory strictly inside the repository root may be reset
	rel, err := filepath.Rel(a.repoRoot, buildPath)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return Result{
			Action:  a.Name(),
			Outcome: OutcomeUnsafe,
			Err:     fmt.Errorf("refusing to reset build directory %q", a.buildDir),
		}
	}
	a.logger.Info("performing clean build", zap.String("path", buildPath))

	if err := os.RemoveAll(buildPath); err != nil {
		return Result{
			Action:  a.Name(),
			Outcome: OutcomeUnsafe,
			Err:     fmt.Errorf("error removing %s: %w", buildPath, err),
		}
	}
	if err := os.MkdirAll(buildPath, 0755); err != nil {
		return Result{
			Action:  a.Name(),
			Outcome: OutcomeUnsafe,
			Err:     fmt.Errorf("error recreating %s: %w", buildPath, err),
		}
	}

	return Result{
		Action:  a.Name(),
		Outcome: OutcomeApplied,
		Detail:  "build directory reset",
	}
}
