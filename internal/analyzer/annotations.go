package analyzer

import (
	"github.com/vais-lang/vais/internal/ast"
	"github.com/vais-lang/vais/internal/typesystem"
)

// annotation converts a written type to a Type. Names other than the base
// types are type variables, shared within one declaration through vars.
func (ctx *InferenceContext) annotation(te ast.TypeExpr, vars map[string]typesystem.TVar) typesystem.Type {
	switch t := te.(type) {
	case *ast.TypeName:
		switch t.Name {
		case "Int":
			return typesystem.Int
		case "Float":
			return typesystem.Float
		case "Bool":
			return typesystem.Bool
		case "String", "Str":
			return typesystem.String
		case "Void":
			return typesystem.Void
		}
		if v, ok := vars[t.Name]; ok {
			return v
		}
		v := ctx.FreshVar()
		vars[t.Name] = v
		return v
	case *ast.ArrayType:
		return typesystem.TArray{Elem: ctx.annotation(t.Elem, vars)}
	case *ast.TupleType:
		elems := make([]typesystem.Type, len(t.Elements))
		for i, e := range t.Elements {
			elems[i] = ctx.annotation(e, vars)
		}
		return typesystem.TTuple{Elements: elems}
	}
	return ctx.FreshVar()
}
