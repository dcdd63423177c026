package typesystem

// IsNumeric reports whether t is Int or Float.
func IsNumeric(t Type) bool {
	c, ok := t.(TCon)
	return ok && (c.Name == Int.Name || c.Name == Float.Name)
}

// IsScalar reports whether t is Int, Float or Bool: the types that fit in a
// single machine word without boxing.
func IsScalar(t Type) bool {
	c, ok := t.(TCon)
	return ok && (c.Name == Int.Name || c.Name == Float.Name || c.Name == Bool.Name)
}

// IsVar reports whether t is an unresolved type variable.
func IsVar(t Type) bool {
	_, ok := t.(TVar)
	return ok
}

// Is reports whether t is the base type c.
func Is(t Type, c TCon) bool {
	tc, ok := t.(TCon)
	return ok && tc.Name == c.Name
}

// Resolved reports whether t contains no free type variables.
func Resolved(t Type) bool {
	return len(t.FreeTypeVariables()) == 0
}

// Equal compares two types structurally.
func Equal(a, b Type) bool {
	switch x := a.(type) {
	case TVar:
		y, ok := b.(TVar)
		return ok && x.Name == y.Name
	case TCon:
		y, ok := b.(TCon)
		return ok && x.Name == y.Name
	case TArray:
		y, ok := b.(TArray)
		return ok && Equal(x.Elem, y.Elem)
	case TTuple:
		y, ok := b.(TTuple)
		return ok && equalList(x.Elements, y.Elements)
	case TFunc:
		y, ok := b.(TFunc)
		return ok && equalList(x.Params, y.Params) && Equal(x.ReturnType, y.ReturnType)
	case TForall:
		y, ok := b.(TForall)
		if !ok || len(x.Vars) != len(y.Vars) {
			return false
		}
		for i := range x.Vars {
			if x.Vars[i] != y.Vars[i] {
				return false
			}
		}
		return Equal(x.Type, y.Type)
	}
	return false
}

func equalList(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
