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

// Cython requires the exception declaration before the nogil keyword
const (
	nogilBeforeExcept = "nogil except +"
	exceptBeforeNogil = "except + nogil"
)

// ReorderNogil rewrites declarations that put the nogil keyword before
// the exception clause. It returns the rewritten content and whether
// anything changed. The rewrite is idempotent: the fixed ordering is
// never matched again.
func ReorderNogil(content string) (string, bool) {
	if !strings.Contains(content, nogilBeforeExcept) {
		return content, false
	}
	return strings.ReplaceAll(content, nogilBeforeExcept, exceptBeforeNogil), true
}

// CythonReorder fixes nogil keyword placement in Cython interface
// definition files under the repository root.
type CythonReorder struct {
	repoRoot string
	logger   *zap.Logger
}

// NewCythonReorder creates a compiler-flag ordering fix rooted at repoRoot
func NewCythonReorder(repoRoot string, logger *zap.Logger) *CythonReorder {
	return &CythonReorder{
		repoRoot: repoRoot,
		logger:   logger,
	}
}

// Name returns the action's type identifier
func (a *CythonReorder) Name() string {
	return TypeFixCompilerFlags
}

// Description returns a human-readable description of the action
func (a *CythonReorder) Description() string {
	return "Reorder nogil and exception declarations in Cython interface files"
}

// Apply rewrites every .pxd file that declares the keywords backwards
func (a *CythonReorder) Apply(_ context.Context) Result {
	rewritten := 0
	err := filepath.WalkDir(a.repoRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".pxd" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("error reading %s: %w", path, err)
		}

		fixed, changed := ReorderNogil(string(data))
		if !changed {
			return nil
		}

		if err := os.WriteFile(path, []byte(fixed), 0644); err != nil {
			return fmt.Errorf("error writing %s: %w", path, err)
		}

		a.logger.Info("fixed nogil keyword placement", zap.String("file", path))
		rewritten++
		return nil
	})
	if err != nil {
		return Result{
			Action:  a.Name(),
			Outcome: OutcomeFailed,
			Err:     err,
		}
	}

	if rewritten == 0 {
		return Result{
			Action:  a.Name(),
			Outcome: OutcomeNotApplicable,
			Detail:  "no interface files needed reordering",
		}
	}

	return Result{
		Action:  a.Name(),
		Outcome: OutcomeApplied,
		Detail:  fmt.Sprintf("rewrote %d interface files", rewritten),
	}
}
