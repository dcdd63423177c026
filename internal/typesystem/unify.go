package typesystem

import "fmt"

// UnifyErrorKind distinguishes a structural mismatch from an infinite type.
type UnifyErrorKind int

const (
	Mismatch UnifyErrorKind = iota
	Occurs
)

// UnifyError is returned by Unify. Expected and Found are the innermost pair
// that failed to unify; Var is set for occurs-check failures.
type UnifyError struct {
	Kind     UnifyErrorKind
	Expected Type
	Found    Type
	Var      TVar
	Detail   string
}

func (e *UnifyError) Error() string {
	if e.Kind == Occurs {
		return fmt.Sprintf("infinite type detected: %s in %s", e.Var, e.Found)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s vs %s", e.Detail, e.Expected, e.Found)
	}
	return fmt.Sprintf("cannot unify %s with %s", e.Expected, e.Found)
}

// Unify attempts to find a substitution that makes t1 and t2 equal.
// t1 is treated as the expected type and t2 as the found type for error
// reporting only; unification itself is symmetric.
func Unify(t1, t2 Type) (Subst, error) {
	switch a := t1.(type) {
	case TVar:
		return Bind(a, t2)
	case TCon:
		switch b := t2.(type) {
		case TVar:
			return Bind(b, a)
		case TCon:
			if a.Name == b.Name {
				return Subst{}, nil
			}
		}
		return nil, errUnify(t1, t2)
	case TArray:
		switch b := t2.(type) {
		case TVar:
			return Bind(b, a)
		case TArray:
			return Unify(a.Elem, b.Elem)
		}
		return nil, errUnify(t1, t2)
	case TTuple:
		switch b := t2.(type) {
		case TVar:
			return Bind(b, a)
		case TTuple:
			if len(a.Elements) != len(b.Elements) {
				return nil, errUnifyMsg(t1, t2, "tuple length mismatch")
			}
			return unifyLists(a.Elements, b.Elements, Subst{})
		}
		return nil, errUnify(t1, t2)
	case TFunc:
		switch b := t2.(type) {
		case TVar:
			return Bind(b, a)
		case TFunc:
			if len(a.Params) != len(b.Params) {
				return nil, errUnifyMsg(t1, t2, "function arity mismatch")
			}
			s1, err := unifyLists(a.Params, b.Params, Subst{})
			if err != nil {
				return nil, err
			}
			s2, err := Unify(a.ReturnType.Apply(s1), b.ReturnType.Apply(s1))
			if err != nil {
				return nil, err
			}
			return s1.Compose(s2), nil
		}
		return nil, errUnify(t1, t2)
	case TForall:
		if b, ok := t2.(TVar); ok {
			return Bind(b, a)
		}
		return nil, errUnifyMsg(t1, t2, "cannot unify polytype")
	}
	return nil, &UnifyError{Kind: Mismatch, Expected: t1, Found: t2, Detail: fmt.Sprintf("unknown type kind %T", t1)}
}

// unifyLists unifies pairwise, threading the substitution through.
func unifyLists(as, bs []Type, s Subst) (Subst, error) {
	for i := range as {
		s2, err := Unify(as[i].Apply(s), bs[i].Apply(s))
		if err != nil {
			return nil, err
		}
		s = s.Compose(s2)
	}
	return s, nil
}

// Bind binds a type variable to a type, performing the occurs check.
func Bind(tv TVar, t Type) (Subst, error) {
	if tVal, ok := t.(TVar); ok && tVal.Name == tv.Name {
		return Subst{}, nil
	}
	if OccursCheck(tv, t) {
		return nil, &UnifyError{Kind: Occurs, Var: tv, Expected: tv, Found: t}
	}
	return Subst{tv.Name: t}, nil
}

// OccursCheck returns true if tv appears free in t.
func OccursCheck(tv TVar, t Type) bool {
	for _, v := range t.FreeTypeVariables() {
		if v.Name == tv.Name {
			return true
		}
	}
	return false
}

func errUnify(t1, t2 Type) error {
	return &UnifyError{Kind: Mismatch, Expected: t1, Found: t2}
}

func errUnifyMsg(t1, t2 Type, msg string) error {
	return &UnifyError{Kind: Mismatch, Expected: t1, Found: t2, Detail: msg}
}
