// SPDX-License-Identifier: Apache-2.0

// Package schedule decides which fix actions run on which build
// attempt. A schedule is an ordered list of entries, each binding an
// action type to a CEL condition over the attempt number.
package schedule

import (
	_ "embed"
	"fmt"

	"github.com/opencoq/cogfix/internal/core/format"
)

//go:embed schedule.yaml
var defaultScheduleData []byte

// Entry binds one fix action to the attempts it runs on
type Entry struct {
	// Name is the action type identifier
	Name string `yaml:"name" json:"name"`

	// Label is the human-readable line reported for the action
	Label string `yaml:"label" json:"label"`

	// Condition is a CEL expression over the attempt number
	Condition string `yaml:"condition" json:"condition"`
}

// Schedule is an ordered set of fix actions with attempt conditions
type Schedule struct {
	entries   []Entry
	evaluator *ConditionEvaluator
}

// New builds a schedule from entries, validating every entry up front
// so a broken schedule fails at load time rather than mid-loop.
func New(entries []Entry) (*Schedule, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("schedule has no entries")
	}

	evaluator, err := NewConditionEvaluator()
	if err != nil {
		return nil, err
	}

	for i, entry := range entries {
		if entry.Name == "" || entry.Label == "" || entry.Condition == "" {
			return nil, fmt.Errorf("schedule entry %d is missing a name, label, or condition", i+1)
		}
		if _, err := evaluator.EvaluateExpression(entry.Condition, 1); err != nil {
			return nil, fmt.Errorf("invalid condition for action %s: %w", entry.Name, err)
		}
	}

	return &Schedule{
		entries:   entries,
		evaluator: evaluator,
	}, nil
}

// Parse builds a schedule from YAML or JSON data
func Parse(data []byte) (*Schedule, error) {
	var entries []Entry
	if err := format.ParseData(data, &entries); err != nil {
		return nil, fmt.Errorf("error parsing schedule: %w", err)
	}
	return New(entries)
}

// Load builds a schedule from a YAML or JSON file
func Load(path string) (*Schedule, error) {
	var entries []Entry
	if err := format.ParseFile(path, &entries); err != nil {
		return nil, fmt.Errorf("error loading schedule '%s': %w", path, err)
	}
	return New(entries)
}

// Default returns the built-in fix schedule
func Default() (*Schedule, error) {
	return Parse(defaultScheduleData)
}

// ActionsFor returns the entries scheduled for an attempt, in order
func (s *Schedule) ActionsFor(attempt int) ([]Entry, error) {
	var selected []Entry
	for _, entry := range s.entries {
		match, err := s.evaluator.EvaluateExpression(entry.Condition, attempt)
		if err != nil {
			return nil, fmt.Errorf("error evaluating condition for action %s: %w", entry.Name, err)
		}
		if match {
			selected = append(selected, entry)
		}
	}
	return selected, nil
}

// Entries returns every schedule entry in order
func (s *Schedule) Entries() []Entry {
	return s.entries
}

// Labels returns the report label of every entry, in schedule order
func (s *Schedule) Labels() []string {
	labels := make([]string, 0, len(s.entries))
	for _, entry := range s.entries {
		labels = append(labels, entry.Label)
	}
	return labels
}
