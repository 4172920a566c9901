// SPDX-License-Identifier: Apache-2.0

// Package genesis parses and validates the AGENT-ZERO-GENESIS planning
// document: phase headers, task checklists, and the JSON/base64 round
// trip the issue-generation workflow depends on.
package genesis

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/opencoq/cogfix/internal/core/format"
	"github.com/opencoq/cogfix/internal/core/schema"
	"github.com/opencoq/cogfix/internal/core/template"
)

// controlCharPattern matches the control characters stripped before
// serialization: everything below 0x20 except tab, newline, and
// carriage return, plus DEL.
var controlCharPattern = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

// Structure-scan patterns run over the raw document; the parser works on
// whitespace-trimmed lines instead, so the two can disagree on indented
// markup.
var (
	phaseHeaderPattern = regexp.MustCompile(`(?m)^### Phase \d+:`)
	taskLinePattern    = regexp.MustCompile(`(?m)^- \[ \] \*\*[A-Z]+-[A-Z]+-\d+\*\*:`)
)

var (
	phaseLinePattern   = regexp.MustCompile(`^### Phase (\d+): (.+)$`)
	taskCapturePattern = regexp.MustCompile(`^- \[ \] \*\*([A-Z]+-[A-Z]+-\d+)\*\*: (.+)$`)
)

// Task is one checklist entry of the planning document.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Number    string `json:"number"`
	Phase     string `json:"phase"`
	PhaseName string `json:"phase_name"`
}

// Phase groups the tasks listed under one phase header.
type Phase struct {
	Number string
	Name   string
	Tasks  []Task
}

// Document is the parsed planning document, phases in numeric order.
type Document struct {
	Phases []Phase
}

// Phase returns the phase with the given number, or nil when absent.
func (d *Document) Phase(number string) *Phase {
	for i := range d.Phases {
		if d.Phases[i].Number == number {
			return &d.Phases[i]
		}
	}

	return nil
}

// TotalTasks counts the tasks across all phases.
func (d *Document) TotalTasks() int {
	total := 0
	for _, phase := range d.Phases {
		total += len(phase.Tasks)
	}

	return total
}

// Issue is the synthetic record derived from a Task to exercise the
// JSON/base64 transport the issue-generation workflow uses.
type Issue struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Labels   []string `json:"labels"`
	Priority string   `json:"priority"`
}

const issueBodyTemplate = `## 🎯 Task Description

{{.Title}}

**Phase**: {{.Phase}} - {{.PhaseName}}
**Category**: {{.Category}}
**Task ID**: ` + "`{{.ID}}`" + `

## Implementation Guidelines

This task requires implementation following OpenCog patterns.

## Acceptance Criteria

- [ ] Implementation completed
- [ ] Tests pass
- [ ] Documentation updated

---

*Auto-generated from AGENT-ZERO-GENESIS.md*
`

// Structure summarizes the shape of a planning document.
type Structure struct {
	PhaseHeaders   int
	TaskLines      int
	ControlChars   int
	ControlOffsets []int
}

// Valid reports whether the document has at least one phase header and
// one task line. Control characters are diagnostic only.
func (s Structure) Valid() bool {
	return s.PhaseHeaders > 0 && s.TaskLines > 0
}

// StripControlChars removes the fixed control-character set from s.
func StripControlChars(s string) string {
	return controlCharPattern.ReplaceAllString(s, "")
}

// InspectStructure counts phase headers, task lines, and stray control
// characters, keeping the first five control-character byte offsets.
func InspectStructure(content string) Structure {
	locations := controlCharPattern.FindAllStringIndex(content, -1)
	offsets := make([]int, 0, 5)
	for _, loc := range locations {
		if len(offsets) == 5 {
			break
		}
		offsets = append(offsets, loc[0])
	}

	return Structure{
		PhaseHeaders:   len(phaseHeaderPattern.FindAllString(content, -1)),
		TaskLines:      len(taskLinePattern.FindAllString(content, -1)),
		ControlChars:   len(locations),
		ControlOffsets: offsets,
	}
}

// Validator parses one planning document and checks the issue transport
// round trip over its tasks.
type Validator struct {
	docPath string
	logger  *zap.Logger
}

// NewValidator creates a Validator for the document at docPath.
func NewValidator(docPath string, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Validator{
		docPath: docPath,
		logger:  logger,
	}
}

// LoadDocument reads the planning document as UTF-8 text.
func (v *Validator) LoadDocument() (string, error) {
	data, err := os.ReadFile(v.docPath)
	if err != nil {
		return "", fmt.Errorf("error reading planning document '%s': %w", v.docPath, err)
	}

	return string(data), nil
}

// Parse extracts Phase and Task records from the document. Task lines
// before the first phase header are ignored; a repeated phase header
// resets that phase. Phases come back in numeric order, tasks in
// document order.
func (v *Validator) Parse(content string) *Document {
	content = StripControlChars(content)

	var phases []Phase
	indexByNumber := make(map[string]int)
	current := -1

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := phaseLinePattern.FindStringSubmatch(line); m != nil {
			number, name := m[1], m[2]
			if i, ok := indexByNumber[number]; ok {
				phases[i] = Phase{Number: number, Name: name}
				current = i
			} else {
				phases = append(phases, Phase{Number: number, Name: name})
				indexByNumber[number] = len(phases) - 1
				current = len(phases) - 1
			}
			continue
		}

		m := taskCapturePattern.FindStringSubmatch(line)
		if m == nil || current < 0 {
			continue
		}

		id, title := m[1], m[2]
		parts := strings.Split(id, "-")
		if len(parts) < 3 {
			v.logger.Warn("skipping malformed task id", zap.String("id", id))
			continue
		}

		phase := &phases[current]
		phase.Tasks = append(phase.Tasks, Task{
			ID:        id,
			Title:     title,
			Category:  parts[1],
			Number:    parts[2],
			Phase:     phase.Number,
			PhaseName: phase.Name,
		})
	}

	sort.SliceStable(phases, func(i, j int) bool {
		a, _ := strconv.Atoi(phases[i].Number)
		b, _ := strconv.Atoi(phases[j].Number)
		return a < b
	})

	return &Document{Phases: phases}
}

// BuildIssues derives one Issue per Task.
func (v *Validator) BuildIssues(tasks []Task) ([]Issue, error) {
	issues := make([]Issue, 0, len(tasks))
	for _, task := range tasks {
		body, err := template.ProcessString(issueBodyTemplate, map[string]interface{}{
			"ID":        task.ID,
			"Title":     task.Title,
			"Category":  task.Category,
			"Phase":     task.Phase,
			"PhaseName": task.PhaseName,
		})
		if err != nil {
			return nil, fmt.Errorf("error rendering issue body for %s: %w", task.ID, err)
		}

		issues = append(issues, Issue{
			Title:    task.ID + ": " + task.Title,
			Body:     string(body),
			Labels:   []string{"enhancement", "phase-" + task.Phase, strings.ToLower(task.Category)},
			Priority: "high",
		})
	}

	return issues, nil
}

// EncodeIssues serializes the issues to indented JSON, strips the
// control-character set, and base64-encodes the result for transport.
func (v *Validator) EncodeIssues(issues []Issue) (string, error) {
	data, err := format.MarshalJSON(issues)
	if err != nil {
		return "", err
	}

	cleaned := StripControlChars(string(data))

	return base64.StdEncoding.EncodeToString([]byte(cleaned)), nil
}

// DecodeIssues reverses EncodeIssues, schema-validating the payload
// before unmarshaling it.
func (v *Validator) DecodeIssues(encoded string) ([]Issue, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("error decoding issue payload: %w", err)
	}

	if err := schema.ValidateBytes(schema.IssueList, data); err != nil {
		return nil, err
	}

	var issues []Issue
	if err := json.Unmarshal(data, &issues); err != nil {
		return nil, fmt.Errorf("error parsing issue payload: %w", err)
	}

	return issues, nil
}

// VerifyRoundTrip encodes the issues, decodes the result, and confirms
// no records were lost in transit.
func (v *Validator) VerifyRoundTrip(issues []Issue) error {
	encoded, err := v.EncodeIssues(issues)
	if err != nil {
		return err
	}

	decoded, err := v.DecodeIssues(encoded)
	if err != nil {
		return err
	}

	if len(decoded) != len(issues) {
		return fmt.Errorf("issue count changed in transit: sent %d, got back %d", len(issues), len(decoded))
	}

	v.logger.Debug("round trip verified", zap.Int("issues", len(issues)))

	return nil
}
