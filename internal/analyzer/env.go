package analyzer

import "github.com/vais-lang/vais/internal/typesystem"

type bindingKind uint8

const (
	valueBinding bindingKind = iota
	functionBinding
	selfBinding
)

// selfName is the environment key of the enclosing function's placeholder,
// used to type the @ operator.
const selfName = "@"

// TypeEnv is an immutable scope chain. Extend returns a new environment and
// leaves the receiver untouched, so environments are passed explicitly down
// the inference and never shared mutably.
type TypeEnv struct {
	parent *TypeEnv
	name   string
	typ    typesystem.Type
	kind   bindingKind
}

type binding struct {
	typ  typesystem.Type
	kind bindingKind
}

func (e *TypeEnv) Extend(name string, t typesystem.Type, kind bindingKind) *TypeEnv {
	return &TypeEnv{parent: e, name: name, typ: t, kind: kind}
}

// Lookup finds the innermost binding of name.
func (e *TypeEnv) Lookup(name string) (binding, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.name == name {
			return binding{typ: cur.typ, kind: cur.kind}, true
		}
	}
	return binding{}, false
}

// LookupFunction finds the innermost function binding of name, skipping
// values: calls always name a top-level function.
func (e *TypeEnv) LookupFunction(name string) (typesystem.Type, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.name == name && cur.kind == functionBinding {
			return cur.typ, true
		}
	}
	return nil, false
}

// freeVars returns the type variables free in the environment after
// applying subst.
func (e *TypeEnv) freeVars(subst typesystem.Subst) map[string]bool {
	vars := make(map[string]bool)
	for cur := e; cur != nil; cur = cur.parent {
		if cur.typ == nil {
			continue
		}
		for _, v := range cur.typ.Apply(subst).FreeTypeVariables() {
			vars[v.Name] = true
		}
	}
	return vars
}
