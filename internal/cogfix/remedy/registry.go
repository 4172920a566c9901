// SPDX-License-Identifier: Apache-2.0

package remedy

import (
	"fmt"
)

// Creator is a function that creates a fix action from a context
type Creator func(Context) Action

// Registry creates actions of different types
type Registry struct {
	creators map[string]Creator
	context  Context
}

// NewRegistry creates a new action registry with the given context
func NewRegistry(context Context) *Registry {
	return &Registry{
		creators: make(map[string]Creator),
		context:  context,
	}
}

// Register registers a new action type creator
func (r *Registry) Register(typeName string, creator Creator) {
	r.creators[typeName] = creator
}

// Create creates an action of the specified type
func (r *Registry) Create(typeName string) (Action, error) {
	creator, ok := r.creators[typeName]
	if !ok {
		return nil, fmt.Errorf("unknown action type: %s", typeName)
	}

	return creator(r.context), nil
}

// RegisterDefaults registers all the standard action types
func (r *Registry) RegisterDefaults() {
	r.Register(TypeCheckDependencies, func(context Context) Action {
		return NewDepsCheck(context.Logger)
	})

	r.Register(TypeScaffoldDirectories, func(context Context) Action {
		return NewScaffold(context.RepoRoot, context.Logger)
	})

	r.Register(TypeFixCompilerFlags, func(context Context) Action {
		return NewCythonReorder(context.RepoRoot, context.Logger)
	})

	r.Register(TypeInjectCMakePolicy, func(context Context) Action {
		return NewPolicyInject(context.RepoRoot, context.Logger)
	})

	r.Register(TypeRegenerateConfigs, func(context Context) Action {
		return NewRegen(context.RegenCommand, context.Runner, context.Logger)
	})

	r.Register(TypeFullCleanRebuild, func(context Context) Action {
		return NewCleanRebuild(context.RepoRoot, context.BuildDir, context.Logger)
	})
}
