package typesystem

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface for all types in our system.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []TVar
}

// TVar represents a type variable (e.g. 'a', 'b', 't1').
type TVar struct {
	Name string
}

func (t TVar) String() string { return t.Name }

func (t TVar) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, nil)
}

func (t TVar) FreeTypeVariables() []TVar { return []TVar{t} }

// ApplyWithCycleCheck applies the substitution, following chains of bound
// variables until a fixed point. A variable already on the current chain is
// left as is.
func ApplyWithCycleCheck(t Type, s Subst, visited map[string]bool) Type {
	if t == nil || len(s) == 0 {
		return t
	}

	switch typ := t.(type) {
	case TVar:
		if visited[typ.Name] {
			return typ
		}
		replacement, ok := s[typ.Name]
		if !ok {
			return typ
		}
		if tv, ok := replacement.(TVar); ok && tv.Name == typ.Name {
			return typ
		}
		next := make(map[string]bool, len(visited)+1)
		for k := range visited {
			next[k] = true
		}
		next[typ.Name] = true
		return ApplyWithCycleCheck(replacement, s, next)

	case TCon:
		return typ

	case TArray:
		return TArray{Elem: ApplyWithCycleCheck(typ.Elem, s, visited)}

	case TTuple:
		elems := make([]Type, len(typ.Elements))
		for i, e := range typ.Elements {
			elems[i] = ApplyWithCycleCheck(e, s, visited)
		}
		return TTuple{Elements: elems}

	case TFunc:
		params := make([]Type, len(typ.Params))
		for i, p := range typ.Params {
			params[i] = ApplyWithCycleCheck(p, s, visited)
		}
		return TFunc{Params: params, ReturnType: ApplyWithCycleCheck(typ.ReturnType, s, visited)}

	case TForall:
		// Bound variables shadow the substitution.
		inner := s
		for _, v := range typ.Vars {
			if _, ok := s[v.Name]; ok {
				inner = s.without(typ.Vars)
				break
			}
		}
		return TForall{Vars: typ.Vars, Type: ApplyWithCycleCheck(typ.Type, inner, visited)}
	}
	return t
}

// TCon is a base type constructor with no arguments.
type TCon struct {
	Name string
}

func (t TCon) String() string            { return t.Name }
func (t TCon) Apply(s Subst) Type        { return t }
func (t TCon) FreeTypeVariables() []TVar { return nil }

var (
	Int    = TCon{Name: "Int"}
	Float  = TCon{Name: "Float"}
	Bool   = TCon{Name: "Bool"}
	String = TCon{Name: "String"}
	Void   = TCon{Name: "Void"}
)

// TArray is a homogeneous array type [Elem].
type TArray struct {
	Elem Type
}

func (t TArray) String() string { return "[" + t.Elem.String() + "]" }

func (t TArray) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, nil)
}

func (t TArray) FreeTypeVariables() []TVar { return t.Elem.FreeTypeVariables() }

// TTuple is a fixed-arity product type.
type TTuple struct {
	Elements []Type
}

func (t TTuple) String() string {
	elems := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.String()
	}
	return "(" + strings.Join(elems, ", ") + ")"
}

func (t TTuple) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, nil)
}

func (t TTuple) FreeTypeVariables() []TVar {
	var vars []TVar
	for _, e := range t.Elements {
		vars = append(vars, e.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TFunc represents a function type (e.g. (Int, Int) -> Bool).
type TFunc struct {
	Params     []Type
	ReturnType Type
}

func (t TFunc) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), t.ReturnType.String())
}

func (t TFunc) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, nil)
}

func (t TFunc) FreeTypeVariables() []TVar {
	var vars []TVar
	for _, p := range t.Params {
		vars = append(vars, p.FreeTypeVariables()...)
	}
	vars = append(vars, t.ReturnType.FreeTypeVariables()...)
	return uniqueTVars(vars)
}

// TForall is a type scheme: forall a b. T
type TForall struct {
	Vars []TVar
	Type Type
}

func (t TForall) String() string {
	if len(t.Vars) == 0 {
		return t.Type.String()
	}
	vars := make([]string, len(t.Vars))
	for i, v := range t.Vars {
		vars[i] = v.String()
	}
	return fmt.Sprintf("forall %s. %s", strings.Join(vars, " "), t.Type.String())
}

func (t TForall) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, nil)
}

func (t TForall) FreeTypeVariables() []TVar {
	bound := make(map[string]bool, len(t.Vars))
	for _, v := range t.Vars {
		bound[v.Name] = true
	}
	var result []TVar
	for _, v := range t.Type.FreeTypeVariables() {
		if !bound[v.Name] {
			result = append(result, v)
		}
	}
	return result
}

// Subst is a mapping from Type Variables to Types.
type Subst map[string]Type

// Compose returns the substitution that applies s1 and then s2.
func (s1 Subst) Compose(s2 Subst) Subst {
	subst := make(Subst, len(s1)+len(s2))
	for k, v := range s2 {
		subst[k] = v
	}
	for k, v := range s1 {
		subst[k] = v.Apply(s2)
	}
	return subst
}

func (s Subst) without(vars []TVar) Subst {
	out := make(Subst, len(s))
	for k, v := range s {
		out[k] = v
	}
	for _, v := range vars {
		delete(out, v.Name)
	}
	return out
}

// Keys returns the bound variable names in sorted order.
func (s Subst) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func uniqueTVars(vars []TVar) []TVar {
	if len(vars) < 2 {
		return vars
	}
	unique := make([]TVar, 0, len(vars))
	seen := map[string]bool{}
	for _, v := range vars {
		if !seen[v.Name] {
			seen[v.Name] = true
			unique = append(unique, v)
		}
	}
	return unique
}
