package eval

import (
	"github.com/es3lang/es3/internal/ast"
	"github.com/es3lang/es3/internal/runtime"
	"github.com/es3lang/es3/internal/value"
)

// evalLabeledStatement resolves `label: stmt` by walking any directly
// stacked labels (`a: b: for(...)`) down to the labelled statement
// itself, so every label in the chain shares one claimed target — the
// eval-time counterpart of a parse-time "stable indices into an
// arena" design note (see DESIGN.md for why this port resolves targets
// dynamically instead).
func (e *Evaluator) evalLabeledStatement(n *ast.LabeledStatement, ctx *runtime.ExecutionContext) value.Completion {
	return e.evalLabeledChain([]string{n.Label}, n.Body, ctx)
}

func (e *Evaluator) evalLabeledChain(labels []string, body ast.Statement, ctx *runtime.ExecutionContext) value.Completion {
	if ls, ok := body.(*ast.LabeledStatement); ok {
		return e.evalLabeledChain(append(labels, ls.Label), ls.Body, ctx)
	}
	switch b := body.(type) {
	case *ast.DoWhileStatement:
		target := e.claimLabels(labels)
		defer e.releaseLabels(labels)
		return e.evalDoWhileStatement(b, ctx, target)
	case *ast.WhileStatement:
		target := e.claimLabels(labels)
		defer e.releaseLabels(labels)
		return e.evalWhileStatement(b, ctx, target)
	case *ast.ForStatement:
		target := e.claimLabels(labels)
		defer e.releaseLabels(labels)
		return e.evalForStatement(b, ctx, target)
	case *ast.ForInStatement:
		target := e.claimLabels(labels)
		defer e.releaseLabels(labels)
		return e.evalForInStatement(b, ctx, target)
	case *ast.SwitchStatement:
		target := e.claimLabels(labels)
		defer e.releaseLabels(labels)
		return e.evalSwitchStatement(b, ctx, target)
	default:
		// A label on a non-iteration statement is only a break target
		// (ECMA-262-3 §12.12): there is no loop step/test to continue.
		target := e.claimLabels(labels)
		defer e.releaseLabels(labels)
		comp := e.evalStatement(body, ctx)
		if comp.Kind == value.Break && comp.Target == target {
			return value.NormalCompletion(comp.Value)
		}
		return comp
	}
}

// claimLabels allocates a fresh target id and points every name in
// labels at it, returning the id for the caller to compare completions
// against.
func (e *Evaluator) claimLabels(labels []string) value.Target {
	id := value.Target(e.nextID)
	e.nextID++
	for _, l := range labels {
		e.labelEnv[l] = id
	}
	return id
}

func (e *Evaluator) releaseLabels(labels []string) {
	for _, l := range labels {
		delete(e.labelEnv, l)
	}
}

func (e *Evaluator) evalContinueStatement(n *ast.ContinueStatement) value.Completion {
	if n.Label == "" {
		return value.ContinueCompletion(value.NoTarget)
	}
	return value.ContinueCompletion(e.resolveLabel(n.Label))
}

func (e *Evaluator) evalBreakStatement(n *ast.BreakStatement) value.Completion {
	if n.Label == "" {
		return value.BreakCompletion(value.NoTarget)
	}
	return value.BreakCompletion(e.resolveLabel(n.Label))
}

func (e *Evaluator) resolveLabel(name string) value.Target {
	if t, ok := e.labelEnv[name]; ok {
		return t
	}
	// An undefined label is a parse-time error in a conforming program;
	// the parser this port built doesn't statically verify label targets,
	// so a program that reaches this falls back to no target rather than
	// panicking the host.
	return value.NoTarget
}
