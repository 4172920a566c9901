// SPDX-License-Identifier: Apache-2.0

package models

// Report status values.
const (
	StatusSuccess            = "success"
	StatusEscalationRequired = "escalation_required"
)

// EscalationMessage is the operator-facing summary attached to
// escalation reports.
const EscalationMessage = "Auto-fix could not resolve the build issues. Manual intervention required."

// SuggestedActions lists the manual follow-ups recommended when the
// remediation loop gives up.
var SuggestedActions = []string{
	"Review build logs for specific error messages",
	"Check for missing system dependencies",
	"Verify CMake configuration",
	"Examine compiler compatibility",
}

// Report is the outcome document written at the end of a remediation
// run. FixesApplied is present only on success reports and keeps one
// slot per scheduled fix, nil when the fix never ran. Message and
// SuggestedActions are present only on escalation reports.
type Report struct {
	Status           string    `json:"status"`
	Attempts         int       `json:"attempts"`
	Timestamp        string    `json:"timestamp"`
	FixesApplied     []*string `json:"fixes_applied,omitempty"`
	Message          string    `json:"message,omitempty"`
	SuggestedActions []string  `json:"suggested_actions,omitempty"`
}

// RemediationAttempt records one cycle of the loop: the fixes applied
// before the build, the build's exit status, and whether it succeeded.
// BuildExitStatus is nil when the build command could not be started;
// a killed or timed-out run records -1.
type RemediationAttempt struct {
	AttemptNumber   int      `json:"attempt_number"`
	ActionsApplied  []string `json:"actions_applied"`
	BuildExitStatus *int     `json:"build_exit_status,omitempty"`
	Succeeded       bool     `json:"succeeded"`
}
