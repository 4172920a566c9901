// SPDX-License-Identifier: Apache-2.0

package remedy

import (
	"context"
	"fmt"

	"github.com/opencoq/cogfix/internal/cogfix/executor"
	"go.uber.org/zap"
)

// Regen reruns the package-config generation command so consumers see
// fresh descriptors. A failure is reported but never blocks the build
// attempt.
type Regen struct {
	command string
	runner  *executor.Runner
	logger  *zap.Logger
}

// NewRegen creates a config regeneration action around command
func NewRegen(command string, runner *executor.Runner, logger *zap.Logger) *Regen {
	return &Regen{
		command: command,
		runner:  runner,
		logger:  logger,
	}
}

// Name returns the action's type identifier
func (a *Regen) Name() string {
	return TypeRegenerateConfigs
}

// Description returns a human-readable description of the action
func (a *Regen) Description() string {
	return "Regenerate the CMake package config files"
}

// Apply runs the regeneration command with captured output
func (a *Regen) Apply(ctx context.Context) Result {
	if a.command == "" {
		return Result{
			Action:  a.Name(),
			Outcome: OutcomeNotApplicable,
			Detail:  "no regeneration command configured",
		}
	}

	a.logger.Info("regenerating package configs", zap.String("command", a.command))

	result, err := a.runner.Run(ctx, a.command, true)
	if err != nil {
		return Result{
			Action:  a.Name(),
			Outcome: OutcomeFailed,
			Err:     fmt.Errorf("error running regeneration command: %w", err),
		}
	}
	if result.TimedOut {
		return Result{
			Action:  a.Name(),
			Outcome: OutcomeFailed,
			Detail:  "regeneration command timed out",
		}
	}
	if result.ExitStatus != 0 {
		a.logger.Warn("config regeneration failed",
			zap.Int("exit_status", result.ExitStatus),
			zap.String("stderr", result.Stderr))
		return Result{
			Action:  a.Name(),
			Outcome: OutcomeFailed,
			Detail:  fmt.Sprintf("command exited with status %d", result.ExitStatus),
		}
	}

	return Result{
		Action:  a.Name(),
		Outcome: OutcomeApplied,
		Detail:  "package configs regenerated",
	}
}
