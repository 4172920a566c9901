// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"context"

	"github.com/opencoq/cogfix/internal/cogfix/remedy"
	"github.com/stretchr/testify/mock"
)

// MockAction provides a versatile mock implementation of the remedy
// Action interface for loop and registry tests.
type MockAction struct {
	mock.Mock
	ActionName string
}

// Name returns the action's type identifier
func (m *MockAction) Name() string {
	return m.ActionName
}

// Description returns a fixed description
func (m *MockAction) Description() string {
	return "Mock fix action " + m.ActionName
}

// Apply mocks the Apply method
func (m *MockAction) Apply(ctx context.Context) remedy.Result {
	// If expectations are set, use those
	if len(m.Mock.ExpectedCalls) > 0 {
		args := m.Called(ctx)
		return args.Get(0).(remedy.Result)
	}

	// Otherwise, behave like a fix that simply applied
	return remedy.Result{Action: m.ActionName, Outcome: remedy.OutcomeApplied}
}

// NewDefaultMockActions returns one mock per standard action type,
// keyed by type name
func NewDefaultMockActions() map[string]*MockAction {
	names := []string{
		remedy.TypeCheckDependencies,
		remedy.TypeScaffoldDirectories,
		remedy.TypeFixCompilerFlags,
		remedy.TypeInjectCMakePolicy,
		remedy.TypeRegenerateConfigs,
		remedy.TypeFullCleanRebuild,
	}

	actions := make(map[string]*MockAction, len(names))
	for _, name := range names {
		actions[name] = &MockAction{ActionName: name}
	}
	return actions
}

// NewMockRegistry creates a remedy registry resolving each given mock
// under its action type name
func NewMockRegistry(actions map[string]*MockAction) *remedy.Registry {
	registry := remedy.NewRegistry(remedy.Context{})
	for name, action := range actions {
		action := action
		registry.Register(name, func(_ remedy.Context) remedy.Action {
			return action
		})
	}
	return registry
}
