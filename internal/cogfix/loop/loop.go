// SPDX-License-Identifier: Apache-2.0

// Package loop drives bounded build fix attempts. Each attempt applies
// the scheduled fix actions, reruns the build command, and classifies
// the result; the terminal outcome is persisted as a report.
package loop

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/opencoq/cogfix/internal/cogfix/executor"
	"github.com/opencoq/cogfix/internal/cogfix/remedy"
	"github.com/opencoq/cogfix/internal/cogfix/report"
	"github.com/opencoq/cogfix/internal/cogfix/schedule"
	"github.com/opencoq/cogfix/internal/core/models"
	"go.uber.org/zap"
)

// ErrExhausted is returned when every attempt failed. The escalation
// report has already been written when this is returned.
var ErrExhausted = errors.New("all build fix attempts failed")

// Config holds the loop's collaborators and settings
type Config struct {
	BuildCommand string
	MaxAttempts  int
	Schedule     *schedule.Schedule
	Registry     *remedy.Registry
	Runner       *executor.Runner
	Writer       *report.Writer
	Logger       *zap.Logger
}

// Options adjusts a single run
type Options struct {
	// OnAttempt, when set, receives each attempt record as it completes
	OnAttempt func(models.RemediationAttempt)
}

// Loop retries a build command across bounded fix attempts
type Loop struct {
	config Config
}

// New validates the configuration and creates a loop
func New(config Config) (*Loop, error) {
	if config.BuildCommand == "" {
		return nil, fmt.Errorf("build command is required")
	}
	if config.MaxAttempts < 1 {
		return nil, fmt.Errorf("max attempts must be at least 1, got %d", config.MaxAttempts)
	}
	if config.Schedule == nil || config.Registry == nil || config.Runner == nil || config.Writer == nil {
		return nil, fmt.Errorf("schedule, registry, runner, and writer are all required")
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	// A schedule naming an unregistered action should fail now, not
	// in the middle of a build attempt
	for _, entry := range config.Schedule.Entries() {
		if _, err := config.Registry.Create(entry.Name); err != nil {
			return nil, fmt.Errorf("invalid schedule entry %q: %w", entry.Name, err)
		}
	}

	return &Loop{config: config}, nil
}

// Run executes up to MaxAttempts fix-then-build cycles. It returns the
// persisted outcome report; after exhausting every attempt the report
// is the escalation report and the error is ErrExhausted.
func (l *Loop) Run(ctx context.Context, opts Options) (*models.Report, error) {
	ran := make(map[string]bool)

	for attempt := 1; attempt <= l.config.MaxAttempts; attempt++ {
		l.config.Logger.Info("build fix attempt",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", l.config.MaxAttempts))

		applied, err := l.applyFixes(ctx, attempt, ran)
		if err != nil {
			return nil, err
		}

		record := models.RemediationAttempt{
			AttemptNumber:  attempt,
			ActionsApplied: applied,
		}

		l.config.Logger.Info("running build command",
			zap.String("command", l.config.BuildCommand))
		buildResult, err := l.config.Runner.Run(ctx, l.config.BuildCommand, false)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("fix loop aborted: %w", err)
			}
			l.config.Logger.Error("error running build command", zap.Error(err))
		} else {
			record.BuildExitStatus = &buildResult.ExitStatus
			record.Succeeded = buildResult.ExitStatus == 0 && !buildResult.TimedOut
			if buildResult.TimedOut {
				l.config.Logger.Warn("build command timed out")
			}
		}

		if opts.OnAttempt != nil {
			opts.OnAttempt(record)
		}

		if record.Succeeded {
			l.config.Logger.Info("build successful", zap.Int("attempts", attempt))
			rep := report.NewSuccess(attempt, l.fixesApplied(ran))
			if _, err := l.config.Writer.Write(rep); err != nil {
				return nil, err
			}
			return rep, nil
		}

		l.config.Logger.Warn("build attempt failed", zap.Int("attempt", attempt))
	}

	l.config.Logger.Error("all build fix attempts failed")
	rep := report.NewEscalation(l.config.MaxAttempts)
	if _, err := l.config.Writer.Write(rep); err != nil {
		return nil, err
	}
	return rep, ErrExhausted
}

// applyFixes runs the actions scheduled for an attempt. Individual
// failures are logged and skipped over; an unsafe failure stops the
// rest of the attempt's actions, but the build still runs.
func (l *Loop) applyFixes(ctx context.Context, attempt int, ran map[string]bool) ([]string, error) {
	entries, err := l.config.Schedule.ActionsFor(attempt)
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, entry := range entries {
		action, err := l.config.Registry.Create(entry.Name)
		if err != nil {
			return nil, err
		}

		result := action.Apply(ctx)
		applied = append(applied, entry.Name)
		ran[entry.Name] = true

		switch result.Outcome {
		case remedy.OutcomeApplied:
			l.config.Logger.Info("fix applied",
				zap.String("action", entry.Name),
				zap.String("detail", result.Detail))
		case remedy.OutcomeNotApplicable:
			l.config.Logger.Info("fix not applicable",
				zap.String("action", entry.Name),
				zap.String("detail", result.Detail))
		case remedy.OutcomeFailed:
			l.config.Logger.Warn("fix failed",
				zap.String("action", entry.Name),
				zap.String("detail", result.Detail),
				zap.Error(result.Err))
		case remedy.OutcomeUnsafe:
			l.config.Logger.Error("fix failed unsafely, skipping remaining fixes this attempt",
				zap.String("action", entry.Name),
				zap.Error(result.Err))
			return applied, nil
		}
	}

	return applied, nil
}

// fixesApplied renders one report slot per schedule entry: the entry's
// label if its action ran on any attempt so far, otherwise null.
func (l *Loop) fixesApplied(ran map[string]bool) []*string {
	entries := l.config.Schedule.Entries()
	fixes := make([]*string, 0, len(entries))
	for _, entry := range entries {
		if ran[entry.Name] {
			label := entry.Label
			fixes = append(fixes, &label)
		} else {
			fixes = append(fixes, nil)
		}
	}
	return fixes
}

// FormatPlan renders the attempt-by-attempt fix plan without running
// anything. Used for dry runs.
func (l *Loop) FormatPlan() (string, error) {
	var b strings.Builder
	for attempt := 1; attempt <= l.config.MaxAttempts; attempt++ {
		entries, err := l.config.Schedule.ActionsFor(attempt)
		if err != nil {
			return "", err
		}

		fmt.Fprintf(&b, "Attempt %d/%d:\n", attempt, l.config.MaxAttempts)
		if len(entries) == 0 {
			b.WriteString("  (no fixes scheduled)\n")
		}
		for _, entry := range entries {
			action, err := l.config.Registry.Create(entry.Name)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "  - %s: %s\n", entry.Name, action.Description())
		}
		fmt.Fprintf(&b, "  then: %s\n", l.config.BuildCommand)
	}
	return b.String(), nil
}
