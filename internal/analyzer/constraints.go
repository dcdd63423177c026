package analyzer

import (
	"github.com/vais-lang/vais/internal/ast"
	"github.com/vais-lang/vais/internal/typesystem"
)

// Constraint is an equality between the type an expression is expected to
// have and the type it was found to have, recorded at Span.
type Constraint struct {
	Expected typesystem.Type
	Found    typesystem.Type
	Span     ast.Span
}
