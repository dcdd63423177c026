package analyzer

import (
	"fmt"
	"sort"

	"github.com/vais-lang/vais/internal/ast"
	"github.com/vais-lang/vais/internal/typesystem"
)

// ErrorKind classifies a type error.
type ErrorKind int

const (
	TypeMismatch ErrorKind = iota + 1
	OccursCheckFailure
	UnboundIdentifier
	ArityMismatch
	DuplicateDefinition
)

func (k ErrorKind) String() string {
	switch k {
	case TypeMismatch:
		return "type mismatch"
	case OccursCheckFailure:
		return "infinite type"
	case UnboundIdentifier:
		return "unbound identifier"
	case ArityMismatch:
		return "arity mismatch"
	case DuplicateDefinition:
		return "duplicate definition"
	}
	return "type error"
}

// TypeError is a single diagnostic produced by the checker.
//
//	TypeMismatch        Expected, Found
//	OccursCheckFailure  Expected is the variable, Found the type containing it
//	UnboundIdentifier   Name
//	ArityMismatch       Name, ExpectedArity, FoundArity
//	DuplicateDefinition Name
type TypeError struct {
	Kind          ErrorKind
	Span          ast.Span
	Expected      typesystem.Type
	Found         typesystem.Type
	Name          string
	ExpectedArity int
	FoundArity    int
	Message       string
}

func (e *TypeError) Error() string {
	var detail string
	switch e.Kind {
	case TypeMismatch:
		if e.Expected != nil && e.Found != nil {
			detail = fmt.Sprintf("expected %s, found %s", e.Expected, e.Found)
		}
	case OccursCheckFailure:
		detail = fmt.Sprintf("%s occurs in %s", e.Expected, e.Found)
	case UnboundIdentifier:
		detail = e.Name
	case ArityMismatch:
		detail = fmt.Sprintf("%s expects %d arguments, found %d", e.Name, e.ExpectedArity, e.FoundArity)
	case DuplicateDefinition:
		detail = e.Name
	}
	if e.Message != "" {
		if detail != "" {
			detail += ": "
		}
		detail += e.Message
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Span, detail)
}

func sortErrors(errs []*TypeError) {
	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].Span.Before(errs[j].Span)
	})
}
