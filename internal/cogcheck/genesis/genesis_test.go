// SPDX-License-Identifier: Apache-2.0

package genesis

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleDocument = `# Agent-Zero Genesis

Some prose describing the roadmap.

### Phase 1: Foundation Layer

- [ ] **AI-CORE-001**: Build kernel
- [ ] **AI-CORE-002**: Implement tensor kernel registry
- [ ] **AI-MEMORY-003**: Design hypergraph store

### Phase 2: Cognitive Layer

- [ ] **AI-REASON-001**: Wire inference engine
`

const expectedIssueBody = `## 🎯 Task Description

Build kernel

**Phase**: 1 - Foundation Layer
**Category**: CORE
**Task ID**: ` + "`AI-CORE-001`" + `

## Implementation Guidelines

This task requires implementation following OpenCog patterns.

## Acceptance Criteria

- [ ] Implementation completed
- [ ] Tests pass
- [ ] Documentation updated

---

*Auto-generated from AGENT-ZERO-GENESIS.md*
`

func newTestValidator() *Validator {
	return NewValidator("AGENT-ZERO-GENESIS.md", zap.NewNop())
}

func TestInspectStructure(t *testing.T) {
	t.Run("CountsHeadersAndTasks", func(t *testing.T) {
		structure := InspectStructure(sampleDocument)

		assert.Equal(t, 2, structure.PhaseHeaders)
		assert.Equal(t, 4, structure.TaskLines)
		assert.Equal(t, 0, structure.ControlChars)
		assert.True(t, structure.Valid())
	})

	t.Run("ReportsControlCharacterOffsets", func(t *testing.T) {
		content := "### Phase 1: Alpha\n\n- [ ] **AI-CORE-001**: Build\x00 kernel\x07\n"
		structure := InspectStructure(content)

		assert.Equal(t, 2, structure.ControlChars)
		assert.Equal(t, []int{
			strings.IndexByte(content, '\x00'),
			strings.IndexByte(content, '\x07'),
		}, structure.ControlOffsets)
		assert.True(t, structure.Valid())
	})

	t.Run("CapsOffsetsAtFive", func(t *testing.T) {
		structure := InspectStructure("\x01\x02\x03\x04\x05\x06")

		assert.Equal(t, 6, structure.ControlChars)
		assert.Len(t, structure.ControlOffsets, 5)
	})

	t.Run("ProseOnlyDocumentIsInvalid", func(t *testing.T) {
		structure := InspectStructure("# Roadmap\n\nJust prose, no checklists.\n")

		assert.Equal(t, 0, structure.PhaseHeaders)
		assert.Equal(t, 0, structure.TaskLines)
		assert.False(t, structure.Valid())
	})

	t.Run("IndentedTaskLinesAreNotCounted", func(t *testing.T) {
		structure := InspectStructure("### Phase 1: A\n  - [ ] **AI-CORE-001**: Indented\n")

		assert.Equal(t, 1, structure.PhaseHeaders)
		assert.Equal(t, 0, structure.TaskLines)
	})
}

func TestStripControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "removes nul and bell", input: "a\x00b\x07c", expected: "abc"},
		{name: "keeps tab newline and cr", input: "a\tb\nc\rd", expected: "a\tb\nc\rd"},
		{name: "removes del", input: "a\x7fb", expected: "ab"},
		{name: "clean text untouched", input: "### Phase 1: Alpha", expected: "### Phase 1: Alpha"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, StripControlChars(test.input))
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("ExtractsPhasesAndTasks", func(t *testing.T) {
		doc := newTestValidator().Parse(sampleDocument)

		require.Len(t, doc.Phases, 2)
		assert.Equal(t, 4, doc.TotalTasks())

		first := doc.Phases[0]
		assert.Equal(t, "1", first.Number)
		assert.Equal(t, "Foundation Layer", first.Name)
		require.Len(t, first.Tasks, 3)
		assert.Equal(t, Task{
			ID:        "AI-CORE-001",
			Title:     "Build kernel",
			Category:  "CORE",
			Number:    "001",
			Phase:     "1",
			PhaseName: "Foundation Layer",
		}, first.Tasks[0])

		second := doc.Phases[1]
		assert.Equal(t, "Cognitive Layer", second.Name)
		require.Len(t, second.Tasks, 1)
		assert.Equal(t, "REASON", second.Tasks[0].Category)
	})

	t.Run("PhaseLookup", func(t *testing.T) {
		doc := newTestValidator().Parse(sampleDocument)

		require.NotNil(t, doc.Phase("2"))
		assert.Equal(t, "Cognitive Layer", doc.Phase("2").Name)
		assert.Nil(t, doc.Phase("3"))
	})

	t.Run("TasksBeforeAnyPhaseAreIgnored", func(t *testing.T) {
		doc := newTestValidator().Parse(
			"- [ ] **AI-CORE-001**: Early\n### Phase 1: A\n- [ ] **AI-CORE-002**: Later\n")

		require.Len(t, doc.Phases, 1)
		require.Len(t, doc.Phases[0].Tasks, 1)
		assert.Equal(t, "AI-CORE-002", doc.Phases[0].Tasks[0].ID)
	})

	t.Run("PhasesSortNumerically", func(t *testing.T) {
		doc := newTestValidator().Parse("### Phase 10: Ten\n### Phase 2: Two\n- [ ] **AI-CORE-001**: x\n")

		require.Len(t, doc.Phases, 2)
		assert.Equal(t, "2", doc.Phases[0].Number)
		assert.Equal(t, "10", doc.Phases[1].Number)
	})

	t.Run("RepeatedPhaseHeaderResetsThePhase", func(t *testing.T) {
		doc := newTestValidator().Parse(
			"### Phase 1: A\n- [ ] **AI-CORE-001**: x\n### Phase 1: B\n- [ ] **AI-CORE-002**: y\n")

		require.Len(t, doc.Phases, 1)
		assert.Equal(t, "B", doc.Phases[0].Name)
		require.Len(t, doc.Phases[0].Tasks, 1)
		assert.Equal(t, "AI-CORE-002", doc.Phases[0].Tasks[0].ID)
	})

	t.Run("ControlCharactersAreStrippedBeforeMatching", func(t *testing.T) {
		doc := newTestValidator().Parse(
			"### Phase 1: Alpha\x00\n- [ ] **AI-CORE-001**: Build \x07kernel\n")

		require.Len(t, doc.Phases, 1)
		require.Len(t, doc.Phases[0].Tasks, 1)
		assert.Equal(t, "Build kernel", doc.Phases[0].Tasks[0].Title)
	})

	t.Run("IndentedTaskLinesParse", func(t *testing.T) {
		doc := newTestValidator().Parse("### Phase 1: A\n  - [ ] **AI-CORE-001**: Indented\n")

		assert.Equal(t, 1, doc.TotalTasks())
	})
}

func TestBuildIssues(t *testing.T) {
	validator := newTestValidator()
	doc := validator.Parse(sampleDocument)

	issues, err := validator.BuildIssues(doc.Phase("1").Tasks)
	require.NoError(t, err)
	require.Len(t, issues, 3)

	first := issues[0]
	assert.Equal(t, "AI-CORE-001: Build kernel", first.Title)
	assert.Equal(t, []string{"enhancement", "phase-1", "core"}, first.Labels)
	assert.Equal(t, "high", first.Priority)
	if diff := cmp.Diff(expectedIssueBody, first.Body); diff != "" {
		t.Errorf("issue body mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeDecodeIssues(t *testing.T) {
	validator := newTestValidator()
	doc := validator.Parse(sampleDocument)
	issues, err := validator.BuildIssues(doc.Phase("1").Tasks)
	require.NoError(t, err)

	t.Run("RoundTripPreservesIssues", func(t *testing.T) {
		encoded, err := validator.EncodeIssues(issues)
		require.NoError(t, err)

		// The payload must be plain base64, safe for env-var transport.
		_, err = base64.StdEncoding.DecodeString(encoded)
		require.NoError(t, err)

		decoded, err := validator.DecodeIssues(encoded)
		require.NoError(t, err)
		assert.Equal(t, issues, decoded)
	})

	t.Run("RejectsInvalidBase64", func(t *testing.T) {
		_, err := validator.DecodeIssues("%%%not-base64%%%")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "error decoding issue payload")
	})

	t.Run("RejectsPayloadFailingSchema", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString([]byte(`[{"title": "x"}]`))

		_, err := validator.DecodeIssues(encoded)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "issue_list validation failed")
	})

	t.Run("RejectsNonJSONPayload", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString([]byte("not json at all"))

		_, err := validator.DecodeIssues(encoded)

		assert.Error(t, err)
	})
}

func TestVerifyRoundTrip(t *testing.T) {
	validator := newTestValidator()

	t.Run("PassesForParsedTasks", func(t *testing.T) {
		doc := validator.Parse(sampleDocument)
		issues, err := validator.BuildIssues(doc.Phase("1").Tasks)
		require.NoError(t, err)

		assert.NoError(t, validator.VerifyRoundTrip(issues))
	})

	t.Run("PassesForZeroTasks", func(t *testing.T) {
		issues, err := validator.BuildIssues(nil)
		require.NoError(t, err)

		assert.NoError(t, validator.VerifyRoundTrip(issues))
	})
}

func TestLoadDocument(t *testing.T) {
	t.Run("ReadsTheDocument", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "AGENT-ZERO-GENESIS.md")
		require.NoError(t, os.WriteFile(path, []byte(sampleDocument), 0644))

		content, err := NewValidator(path, zap.NewNop()).LoadDocument()
		require.NoError(t, err)
		assert.Equal(t, sampleDocument, content)
	})

	t.Run("MissingDocumentFails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "AGENT-ZERO-GENESIS.md")

		_, err := NewValidator(path, zap.NewNop()).LoadDocument()

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "error reading planning document")
	})
}
