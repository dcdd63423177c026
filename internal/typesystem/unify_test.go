package typesystem

import (
	"errors"
	"testing"
)

func TestUnifyBaseTypes(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Type
		wantErr bool
	}{
		{"same con", Int, Int, false},
		{"different con", Int, String, true},
		{"int vs float", Int, Float, true},
		{"array elem", TArray{Elem: TVar{Name: "a"}}, TArray{Elem: Bool}, false},
		{"array vs con", TArray{Elem: Int}, Int, true},
		{"tuple length", TTuple{Elements: []Type{Int}}, TTuple{Elements: []Type{Int, Int}}, true},
		{"func arity", TFunc{Params: []Type{Int}, ReturnType: Int}, TFunc{ReturnType: Int}, true},
		{
			"func params and result",
			TFunc{Params: []Type{TVar{Name: "a"}}, ReturnType: TVar{Name: "a"}},
			TFunc{Params: []Type{Int}, ReturnType: TVar{Name: "b"}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Unify(tt.a, tt.b)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error unifying %s with %s", tt.a, tt.b)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got, want := tt.a.Apply(s), tt.b.Apply(s); !Equal(got, want) {
				t.Errorf("unifier does not equate: %s vs %s", got, want)
			}
		})
	}
}

func TestUnifyOccursCheck(t *testing.T) {
	a := TVar{Name: "a"}
	_, err := Unify(a, TFunc{Params: []Type{Int}, ReturnType: a})
	if err == nil {
		t.Fatal("expected occurs check failure")
	}
	var ue *UnifyError
	if !errors.As(err, &ue) || ue.Kind != Occurs {
		t.Fatalf("expected Occurs error, got %v", err)
	}
	if ue.Var != a {
		t.Errorf("expected var a, got %s", ue.Var)
	}
}

func TestUnifyNestedMismatchReportsInnerPair(t *testing.T) {
	_, err := Unify(TArray{Elem: Int}, TArray{Elem: String})
	var ue *UnifyError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnifyError, got %v", err)
	}
	if !Equal(ue.Expected, Int) || !Equal(ue.Found, String) {
		t.Errorf("got %s vs %s", ue.Expected, ue.Found)
	}
}

func TestSubstIdempotent(t *testing.T) {
	// a -> b, b -> [c], c -> Int: chains resolve fully in one application.
	s := Subst{
		"a": TVar{Name: "b"},
		"b": TArray{Elem: TVar{Name: "c"}},
		"c": Int,
	}
	ty := TFunc{Params: []Type{TVar{Name: "a"}}, ReturnType: TVar{Name: "c"}}
	once := ty.Apply(s)
	twice := once.Apply(s)
	if !Equal(once, twice) {
		t.Fatalf("not idempotent: %s then %s", once, twice)
	}
	if once.String() != "([Int]) -> Int" {
		t.Errorf("got %s", once)
	}
}

func TestSubstComposeAssociative(t *testing.T) {
	s1 := Subst{"a": TVar{Name: "b"}}
	s2 := Subst{"b": TArray{Elem: TVar{Name: "c"}}}
	s3 := Subst{"c": Float, "d": TVar{Name: "a"}}

	left := s1.Compose(s2).Compose(s3)
	right := s1.Compose(s2.Compose(s3))

	probe := TTuple{Elements: []Type{TVar{Name: "a"}, TVar{Name: "b"}, TVar{Name: "c"}, TVar{Name: "d"}}}
	if l, r := probe.Apply(left), probe.Apply(right); !Equal(l, r) {
		t.Fatalf("compose not associative: %s vs %s", l, r)
	}
}

func TestForallApplyRespectsBinders(t *testing.T) {
	scheme := TForall{Vars: []TVar{{Name: "a"}}, Type: TFunc{Params: []Type{TVar{Name: "a"}}, ReturnType: TVar{Name: "b"}}}
	got := scheme.Apply(Subst{"a": Int, "b": Bool})
	if got.String() != "forall a. (a) -> Bool" {
		t.Errorf("got %s", got)
	}
	free := scheme.FreeTypeVariables()
	if len(free) != 1 || free[0].Name != "b" {
		t.Errorf("free vars: %v", free)
	}
}
