// SPDX-License-Identifier: Apache-2.0

package remedy

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// DefaultToolchain is the binary set the dependency check looks for
var DefaultToolchain = []string{"cmake", "make", "gcc", "g++"}

// DepsCheck reports whether the build toolchain binaries are on PATH.
// It is advisory: a missing binary is logged and surfaced in the
// result, but never blocks the build attempt.
type DepsCheck struct {
	commands []string
	logger   *zap.Logger
}

// NewDepsCheck creates a dependency check. With no commands given it
// checks the default toolchain set.
func NewDepsCheck(logger *zap.Logger, commands ...string) *DepsCheck {
	if len(commands) == 0 {
		commands = DefaultToolchain
	}
	return &DepsCheck{
		commands: commands,
		logger:   logger,
	}
}

// Name returns the action's type identifier
func (a *DepsCheck) Name() string {
	return TypeCheckDependencies
}

// Description returns a human-readable description of the action
func (a *DepsCheck) Description() string {
	return "Check that the build toolchain binaries are installed"
}

// Apply looks up each toolchain binary on PATH
func (a *DepsCheck) Apply(_ context.Context) Result {
	a.logger.Info("checking build dependencies", zap.Strings("commands", a.commands))

	var missing []string
	for _, command := range a.commands {
		if _, err := exec.LookPath(command); err != nil {
			missing = append(missing, command)
		}
	}

	if len(missing) > 0 {
		a.logger.Warn("missing build dependencies", zap.Strings("missing", missing))
		return Result{
			Action:  a.Name(),
			Outcome: OutcomeFailed,
			Detail:  fmt.Sprintf("missing: %s", strings.Join(missing, ", ")),
		}
	}

	return Result{
		Action:  a.Name(),
		Outcome: OutcomeApplied,
		Detail:  "all toolchain binaries found",
	}
}
