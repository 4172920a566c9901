// SPDX-License-Identifier: Apache-2.0

package remedy

import (
	"context"

	"github.com/opencoq/cogfix/internal/cogfix/executor"
	"go.uber.org/zap"
)

// Action type identifiers, used in schedules and attempt records
const (
	TypeCheckDependencies   = "check_dependencies"
	TypeScaffoldDirectories = "scaffold_missing_directories"
	TypeFixCompilerFlags    = "fix_compiler_flag_ordering"
	TypeInjectCMakePolicy   = "inject_cmake_policy_fix"
	TypeRegenerateConfigs   = "regenerate_package_configs"
	TypeFullCleanRebuild    = "full_clean_rebuild"
)

// Outcome classifies how an action run ended
type Outcome string

const (
	// OutcomeApplied means the action changed something
	OutcomeApplied Outcome = "applied"

	// OutcomeNotApplicable means there was nothing for the action to do
	OutcomeNotApplicable Outcome = "not-applicable"

	// OutcomeFailed means the action failed but the attempt can continue
	OutcomeFailed Outcome = "failed"

	// OutcomeUnsafe means the action failed in a way that makes further
	// fixes pointless; the loop skips the rest of the attempt's actions
	OutcomeUnsafe Outcome = "unsafe"
)

// Result is the tagged outcome of a single action run
type Result struct {
	Action  string
	Outcome Outcome
	Detail  string
	Err     error
}

// Action defines the interface that all fix actions must implement.
// Actions are idempotent: applying one twice leaves the same state as
// applying it once.
type Action interface {
	// Name returns the action's type identifier
	Name() string

	// Description returns a human-readable description of the action
	Description() string

	// Apply runs the fix and reports what happened. Failures are
	// returned in the result, never panicked.
	Apply(ctx context.Context) Result
}

// Context provides contextual information for action creation
type Context struct {
	RepoRoot string

	// BuildDir is absolute or relative to RepoRoot
	BuildDir string

	RegenCommand string
	Runner       *executor.Runner
	Logger       *zap.Logger
}
