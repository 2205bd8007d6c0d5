// Package calc evaluates plain arithmetic: numeric literals, + - * /,
// unary signs and parentheses. Expressions are parsed with the expr-lang
// parser and the resulting tree is walked by hand, so anything beyond
// arithmetic (identifiers, calls, strings, other operators) is rejected by
// name instead of being filtered out character by character.
package calc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

var (
	ErrEmpty          = errors.New("empty expression")
	ErrDivisionByZero = errors.New("division by zero")
)

// UnsupportedError names the construct that made an expression invalid.
type UnsupportedError struct {
	What string
}

func (e *UnsupportedError) Error() string {
	return "unsupported " + e.What
}

// ErrorResult is the result value reported when evaluation fails.
const ErrorResult = "error"

// Result mirrors the arguments of a calculate function call.
type Result struct {
	Expression string `json:"expression"`
	Result     any    `json:"result"`
}

// Calculate evaluates expression. On any failure Result is ErrorResult.
func Calculate(expression string) Result {
	v, err := Evaluate(expression)
	if err != nil {
		return Result{Expression: expression, Result: ErrorResult}
	}
	return Result{Expression: expression, Result: v}
}

// Evaluate parses and evaluates expression.
func Evaluate(expression string) (float64, error) {
	if strings.TrimSpace(expression) == "" {
		return 0, ErrEmpty
	}

	tree, err := parser.Parse(expression)
	if err != nil {
		return 0, fmt.Errorf("failed to parse expression: %w", err)
	}
	return eval(tree.Node)
}

func eval(node ast.Node) (float64, error) {
	switch n := node.(type) {
	case *ast.IntegerNode:
		return float64(n.Value), nil

	case *ast.FloatNode:
		return n.Value, nil

	case *ast.UnaryNode:
		v, err := eval(n.Node)
		if err != nil {
			return 0, err
		}
		switch n.Operator {
		case "-":
			return -v, nil
		case "+":
			return v, nil
		default:
			return 0, &UnsupportedError{What: fmt.Sprintf("operator %q", n.Operator)}
		}

	case *ast.BinaryNode:
		switch n.Operator {
		case "+", "-", "*", "/":
		default:
			return 0, &UnsupportedError{What: fmt.Sprintf("operator %q", n.Operator)}
		}

		left, err := eval(n.Left)
		if err != nil {
			return 0, err
		}
		right, err := eval(n.Right)
		if err != nil {
			return 0, err
		}

		switch n.Operator {
		case "+":
			return left + right, nil
		case "-":
			return left - right, nil
		case "*":
			return left * right, nil
		default:
			if right == 0 {
				return 0, ErrDivisionByZero
			}
			return left / right, nil
		}

	case *ast.IdentifierNode:
		return 0, &UnsupportedError{What: fmt.Sprintf("identifier %q", n.Value)}
	case *ast.CallNode:
		return 0, &UnsupportedError{What: "function call"}
	case *ast.StringNode:
		return 0, &UnsupportedError{What: "string literal"}
	case *ast.BoolNode:
		return 0, &UnsupportedError{What: "boolean literal"}
	case *ast.NilNode:
		return 0, &UnsupportedError{What: "nil"}
	default:
		return 0, &UnsupportedError{What: fmt.Sprintf("%T", node)}
	}
}
