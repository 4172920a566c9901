// SPDX-License-Identifier: Apache-2.0

package remedy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Library output directories the build expects to exist even when a
// component ships no sources for them
var expectedLibDirs = []string{
	"atomspace/lib",
	"atomspace-rocks/lib",
	"atomspace-restful/lib",
	"ure/lib",
	"moses/lib",
	"cogserver/lib",
}

const placeholderCMakeLists = "# Empty lib directory for build compatibility\n"

// Scaffold creates the expected library directories, each seeded with
// a placeholder build descriptor. Directories that already exist are
// left untouched, so pre-existing descriptors are never overwritten.
type Scaffold struct {
	repoRoot string
	dirs     []string
	logger   *zap.Logger
}

// NewScaffold creates a directory scaffolding action rooted at repoRoot
func NewScaffold(repoRoot string, logger *zap.Logger) *Scaffold {
	return &Scaffold{
		repoRoot: repoRoot,
		dirs:     expectedLibDirs,
		logger:   logger,
	}
}

// Name returns the action's type identifier
func (a *Scaffold) Name() string {
	return TypeScaffoldDirectories
}

// Description returns a human-readable description of the action
func (a *Scaffold) Description() string {
	return "Create missing library directories with placeholder build descriptors"
}

// Apply creates whichever expected directories are missing
func (a *Scaffold) Apply(_ context.Context) Result {
	created := 0
	for _, dir := range a.dirs {
		fullPath := filepath.Join(a.repoRoot, dir)
		if _, err := os.Stat(fullPath); err == nil {
			continue
		}

		if err := os.MkdirAll(fullPath, 0755); err != nil {
			return Result{
				Action:  a.Name(),
				Outcome: OutcomeFailed,
				Err:     fmt.Errorf("error creating directory %s: %w", fullPath, err),
			}
		}

		descriptor := filepath.Join(fullPath, "CMakeLists.txt")
		if err := os.WriteFile(descriptor, []byte(placeholderCMakeLists), 0644); err != nil {
			return Result{
				Action:  a.Name(),
				Outcome: OutcomeFailed,
				Err:     fmt.Errorf("error writing placeholder %s: %w", descriptor, err),
			}
		}

		a.logger.Info("created missing directory", zap.String("path", fullPath))
		created++
	}

	if created == 0 {
		return Result{
			Action:  a.Name(),
			Outcome: OutcomeNotApplicable,
			Detail:  "all expected directories present",
		}
	}

	return Result{
		Action:  a.Name(),
		Outcome: OutcomeApplied,
		Detail:  fmt.Sprintf("created %d of %d expected directories", created, len(a.dirs)),
	}
}
