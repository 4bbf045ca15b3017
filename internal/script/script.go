// Package script evaluates step scripts and conditions against a variable
// context using the expr expression language.
package script

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
)

// Script engine errors.
var (
	ErrInvalidVariableName = errors.New("invalid variable name")
)

// maxVariableNameLength bounds the length of a context variable name.
const maxVariableNameLength = 64

// Context stores the variables available to step scripts. Values are
// restricted to what CheckValue accepts.
type Context map[string]any

// Clone returns a shallow copy of the context. Values are scalars, so a
// shallow copy is a full copy.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// CheckVariableName verifies that name is a usable context variable name:
// it must start with a letter, contain only alphanumerics and underscores,
// and be at most 64 characters long.
func CheckVariableName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name may not be empty", ErrInvalidVariableName)
	}
	if len(name) > maxVariableNameLength {
		return fmt.Errorf("%w: %q is longer than %d characters",
			ErrInvalidVariableName, name, maxVariableNameLength)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c == '_', c >= '0' && c <= '9':
			if i == 0 {
				return fmt.Errorf("%w: %q must start with a letter",
					ErrInvalidVariableName, name)
			}
		default:
			return fmt.Errorf("%w: %q contains invalid character %q",
				ErrInvalidVariableName, name, string(c))
		}
	}
	return nil
}

// CheckValue verifies that v is one of the supported variable value types.
func CheckValue(v any) error {
	switch v.(type) {
	case int64, float64, string, bool:
		return nil
	default:
		return fmt.Errorf("unsupported variable value type %T", v)
	}
}

// NormalizeValue converts v to one of the supported variable value types.
// The expression engine returns untyped integer arithmetic as int, which is
// widened to int64 here.
func NormalizeValue(v any) (any, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case float32:
		return float64(n), nil
	case int64, float64, string, bool:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported variable value type %T", v)
	}
}

// EvaluateBool compiles and runs a condition script, returning its boolean
// result. The empty script evaluates to true.
func EvaluateBool(source string, ctx Context) (bool, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return true, nil
	}

	env := map[string]any(ctx)
	program, err := expr.Compile(source, expr.Env(env), expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return false, fmt.Errorf("error while executing script: compile %q: %w", source, err)
	}

	output, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("error while executing script: eval %q: %w", source, err)
	}

	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("error while executing script: %q did not return bool (got %T)", source, output)
	}
	return result, nil
}

// Evaluate compiles and runs an action script and returns its result. The
// empty script yields nil without error.
func Evaluate(source string, ctx Context) (any, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, nil
	}

	env := map[string]any(ctx)
	program, err := expr.Compile(source, expr.Env(env), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("error while executing script: compile %q: %w", source, err)
	}

	output, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("error while executing script: eval %q: %w", source, err)
	}
	return output, nil
}
