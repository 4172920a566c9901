// SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
)

// ConditionEvaluator handles evaluation of CEL schedule conditions
type ConditionEvaluator struct {
	env *cel.Env
}

// NewConditionEvaluator creates a new condition evaluator
func NewConditionEvaluator() (*ConditionEvaluator, error) {
	// The only variable a schedule condition sees is the attempt number
	env, err := cel.NewEnv(
		cel.Variable("attempt", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating CEL environment: %w", err)
	}

	return &ConditionEvaluator{env: env}, nil
}

// EvaluateExpression evaluates a CEL expression against an attempt number
func (e *ConditionEvaluator) EvaluateExpression(expression string, attempt int) (bool, error) {
	// Parse the expression
	ast, issues := e.env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("error parsing expression: %w", issues.Err())
	}

	// Type-check the expression
	checked, issues := e.env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("error type-checking expression: %w", issues.Err())
	}

	// Compile the expression
	program, err := e.env.Program(checked)
	if err != nil {
		return false, fmt.Errorf("error compiling expression: %w", err)
	}

	// Evaluate the expression
	result, _, err := program.Eval(map[string]interface{}{
		"attempt": attempt,
	})
	if err != nil {
		return false, fmt.Errorf("error evaluating expression: %w", err)
	}

	// Convert result to boolean
	if result.Type() != types.BoolType {
		return false, fmt.Errorf("expression did not evaluate to a boolean")
	}

	return result.Value().(bool), nil
}
