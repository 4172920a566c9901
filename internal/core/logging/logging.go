// SPDX-License-Identifier: Apache-2.0

// Package logging builds the structured logger shared by the cogfix
// binaries.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production logger at info level, or debug level when
// verbose is set. Callers own the returned logger and should Sync it
// before exit.
func New(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}
