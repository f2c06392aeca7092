// Package calc applies the arithmetic step of a calculation chain.
package calc

import (
	"errors"
	"strings"
)

// Operation is one of the supported arithmetic tags.
type Operation string

const (
	Add      Operation = "add"
	Subtract Operation = "subtract"
	Multiply Operation = "multiply"
	Divide   Operation = "divide"
)

var (
	ErrDivisionByZero       = errors.New("division by zero")
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// Operations lists the supported tags in display order.
var Operations = []Operation{Add, Subtract, Multiply, Divide}

// ParseOperation validates an operation tag.
func ParseOperation(s string) (Operation, error) {
	op := Operation(strings.TrimSpace(s))
	for _, known := range Operations {
		if op == known {
			return op, nil
		}
	}
	return "", ErrUnsupportedOperation
}

// Apply computes left op right with float64 semantics.
func Apply(left, right float64, op Operation) (float64, error) {
	switch op {
	case Add:
		return left + right, nil
	case Subtract:
		return left - right, nil
	case Multiply:
		return left * right, nil
	case Divide:
		if right == 0 {
			return 0, ErrDivisionByZero
		}
		return left / right, nil
	default:
		return 0, ErrUnsupportedOperation
	}
}
