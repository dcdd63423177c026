package arith

import (
	"fmt"

	"github.com/vais-lang/vais/internal/value"
)

// TypeError reports operands an operator is not defined for. Well-typed IR
// never produces one.
type TypeError struct {
	Op          fmt.Stringer
	Left, Right value.Kind
	Unary       bool
}

func (e *TypeError) Error() string {
	if e.Unary {
		return fmt.Sprintf("operator %s not defined on %s", e.Op, e.Left)
	}
	return fmt.Sprintf("operator %s not defined on %s and %s", e.Op, e.Left, e.Right)
}
