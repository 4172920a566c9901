// SPDX-License-Identifier: Apache-2.0

// Package report builds and persists the fix loop's outcome reports.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/opencoq/cogfix/internal/core/format"
	"github.com/opencoq/cogfix/internal/core/models"
	"github.com/opencoq/cogfix/internal/core/schema"
	"go.uber.org/zap"
)

// File names written under the artifacts directory
const (
	SuccessFileName    = "success_report.json"
	EscalationFileName = "escalation_report.json"
)

// NewSuccess builds a success report for a build that passed after
// attempts tries. fixesApplied holds one slot per schedule entry; a
// nil slot means that entry's action never ran.
func NewSuccess(attempts int, fixesApplied []*string) *models.Report {
	return &models.Report{
		Status:       models.StatusSuccess,
		Attempts:     attempts,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		FixesApplied: fixesApplied,
	}
}

// NewEscalation builds an escalation report after every attempt failed
func NewEscalation(attempts int) *models.Report {
	return &models.Report{
		Status:           models.StatusEscalationRequired,
		Attempts:         attempts,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		Message:          models.EscalationMessage,
		SuggestedActions: models.SuggestedActions,
	}
}

// Writer persists outcome reports under an artifacts directory
type Writer struct {
	artifactsDir string
	logger       *zap.Logger
}

// NewWriter creates a report writer rooted at artifactsDir
func NewWriter(artifactsDir string, logger *zap.Logger) *Writer {
	return &Writer{
		artifactsDir: artifactsDir,
		logger:       logger,
	}
}

// Write validates the report against its schema and persists it,
// returning the path written. The file name depends on the status.
func (w *Writer) Write(r *models.Report) (string, error) {
	schemaName := schema.SuccessReport
	fileName := SuccessFileName
	if r.Status == models.StatusEscalationRequired {
		schemaName = schema.EscalationReport
		fileName = EscalationFileName
	}

	if err := schema.Validate(schemaName, r); err != nil {
		return "", fmt.Errorf("error validating report: %w", err)
	}

	if err := os.MkdirAll(w.artifactsDir, 0755); err != nil {
		return "", fmt.Errorf("error creating artifacts directory: %w", err)
	}

	path := filepath.Join(w.artifactsDir, fileName)
	if err := format.WriteJSON(path, r); err != nil {
		return "", fmt.Errorf("error writing report: %w", err)
	}

	w.logger.Info("report written",
		zap.String("path", path),
		zap.String("status", r.Status))
	return path, nil
}
