// Package condparse turns textual gate conditions such as
//
//	ended('align') and not paused('track')
//
// into typed condition expressions. The grammar is the boolean subset of the
// expr language: bool literals, and/or/not (or &&/||/!), parentheses, and the
// predicate calls dormant, running, paused, ended and done, each taking one
// quoted node name. Everything else is rejected up front so a condition can
// never smuggle in arithmetic, lookups or arbitrary function calls.
package condparse

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"

	"github.com/motionkit/statechart/internal/statechart"
)

// SyntaxError reports a condition that is not part of the accepted grammar.
type SyntaxError struct {
	Cond   string
	Detail string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid condition %q: %s", e.Cond, e.Detail)
}

var predicates = map[string]statechart.Predicate{
	"dormant": statechart.IsDormant,
	"running": statechart.IsRunning,
	"paused":  statechart.IsPaused,
	"ended":   statechart.IsEnded,
	"done":    statechart.IsDone,
}

// Parse compiles cond into a condition expression. The neutral-element
// collapses happen in the expression constructors, so "true and ended('a')"
// parses to exactly ended('a').
func Parse(cond string) (statechart.Expr, error) {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return nil, &SyntaxError{Cond: cond, Detail: "empty condition"}
	}

	tree, err := parser.Parse(cond)
	if err != nil {
		return nil, &SyntaxError{Cond: cond, Detail: err.Error()}
	}

	return fromAST(tree.Node, cond)
}

func fromAST(node ast.Node, cond string) (statechart.Expr, error) {
	switch n := node.(type) {
	case *ast.BoolNode:
		return statechart.Lit(n.Value), nil

	case *ast.UnaryNode:
		if n.Operator != "not" && n.Operator != "!" {
			return nil, &SyntaxError{Cond: cond, Detail: fmt.Sprintf("unary operator %q is not allowed", n.Operator)}
		}
		inner, err := fromAST(n.Node, cond)
		if err != nil {
			return nil, err
		}
		return statechart.Not(inner), nil

	case *ast.BinaryNode:
		left, err := fromAST(n.Left, cond)
		if err != nil {
			return nil, err
		}
		right, err := fromAST(n.Right, cond)
		if err != nil {
			return nil, err
		}
		switch n.Operator {
		case "and", "&&":
			return statechart.And(left, right), nil
		case "or", "||":
			return statechart.Or(left, right), nil
		default:
			return nil, &SyntaxError{Cond: cond, Detail: fmt.Sprintf("operator %q is not allowed", n.Operator)}
		}

	case *ast.CallNode:
		return refFromCall(n, cond)

	default:
		return nil, &SyntaxError{Cond: cond, Detail: fmt.Sprintf("unsupported syntax %v", node)}
	}
}

func refFromCall(call *ast.CallNode, cond string) (statechart.Expr, error) {
	ident, ok := call.Callee.(*ast.IdentifierNode)
	if !ok {
		return nil, &SyntaxError{Cond: cond, Detail: "only predicate calls are allowed"}
	}
	pred, ok := predicates[ident.Value]
	if !ok {
		return nil, &SyntaxError{Cond: cond, Detail: fmt.Sprintf("unknown predicate %q", ident.Value)}
	}
	if len(call.Arguments) != 1 {
		return nil, &SyntaxError{Cond: cond, Detail: fmt.Sprintf("%s takes exactly one node name", ident.Value)}
	}
	arg, ok := call.Arguments[0].(*ast.StringNode)
	if !ok || arg.Value == "" {
		return nil, &SyntaxError{Cond: cond, Detail: fmt.Sprintf("%s needs a quoted, non-empty node name", ident.Value)}
	}
	return statechart.Ref(arg.Value, pred), nil
}
