package customchannel

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// policyEnv is the variable environment a compiled policy expression runs
// against.
type policyEnv struct {
	Channel    string
	PluginID   uint64
	PluginName string
}

// Policy gates DispatchToPlugin calls with a compiled boolean expression.
// It is a host-application extension, not a runtime requirement: a nil
// Policy allows everything.
type Policy struct {
	program *vm.Program
}

// CompilePolicy compiles source against policyEnv. Example source:
// `Channel == "game-events" && PluginName != "quarantined"`.
func CompilePolicy(source string) (*Policy, error) {
	program, err := expr.Compile(source, expr.Env(policyEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("customchannel: compile policy: %w", err)
	}
	return &Policy{program: program}, nil
}

// Allow evaluates the policy for one dispatch attempt. A nil Policy (or
// receiver) always allows.
func (p *Policy) Allow(channel string, pluginID uint64, pluginName string) (bool, error) {
	if p == nil {
		return true, nil
	}
	out, err := expr.Run(p.program, policyEnv{Channel: channel, PluginID: pluginID, PluginName: pluginName})
	if err != nil {
		return false, fmt.Errorf("customchannel: evaluate policy: %w", err)
	}
	allowed, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("customchannel: policy expression did not return a bool")
	}
	return allowed, nil
}
