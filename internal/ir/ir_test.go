package ir

import (
	"errors"
	"strings"
	"testing"

	"github.com/vais-lang/vais/internal/typesystem"
	"github.com/vais-lang/vais/internal/value"
)

func push(n int64) Instruction {
	return Instruction{Op: OP_PUSH_CONST, Const: value.IntVal(n), Type: typesystem.Int}
}

func TestVerifyComputesMaxStack(t *testing.T) {
	fn := &Function{Name: "f", Code: []Instruction{
		push(1), push(2), push(3),
		{Op: OP_BINARY, Bin: Mul},
		{Op: OP_BINARY, Bin: Add},
		{Op: OP_RETURN},
	}}
	if err := Verify(fn, nil); err != nil {
		t.Fatal(err)
	}
	if fn.MaxStack != 3 {
		t.Errorf("MaxStack = %d, want 3", fn.MaxStack)
	}
}

func TestVerifyRejects(t *testing.T) {
	tests := []struct {
		name string
		fn   *Function
		msg  string
	}{
		{"empty", &Function{Name: "f"}, "empty"},
		{"underflow", &Function{Name: "f", Code: []Instruction{{Op: OP_BINARY}, {Op: OP_RETURN}}}, "pops"},
		{"extra values at return", &Function{Name: "f", Code: []Instruction{push(1), push(2), {Op: OP_RETURN}}}, "extra"},
		{"runs off the end", &Function{Name: "f", Code: []Instruction{push(1)}}, "leaves the function"},
		{"join mismatch", &Function{Name: "f", Code: []Instruction{
			{Op: OP_PUSH_CONST, Const: value.BoolVal(true)},
			{Op: OP_BRANCH_IF_FALSE, Arg: 4},
			push(1),
			push(2),
			{Op: OP_RETURN},
		}}, "mismatch"},
		{"bad slot", &Function{Name: "f", Code: []Instruction{{Op: OP_LOAD_LOCAL, Arg: 0}, {Op: OP_RETURN}}}, "slot"},
		{"self call arity", &Function{Name: "f", Arity: 1, NumLocals: 1, Code: []Instruction{
			{Op: OP_SELF_CALL, Arg: 0}, {Op: OP_RETURN},
		}}, "self call"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(tt.fn, nil)
			var ve *VerifyError
			if !errors.As(err, &ve) {
				t.Fatalf("expected VerifyError, got %v", err)
			}
			if !strings.Contains(ve.Msg, tt.msg) {
				t.Errorf("message %q does not mention %q", ve.Msg, tt.msg)
			}
		})
	}
}

func TestNewModuleLinksCalls(t *testing.T) {
	id := &Function{Name: "id", Arity: 1, NumLocals: 1, Code: []Instruction{{Op: OP_LOAD_LOCAL}, {Op: OP_RETURN}}}
	main := &Function{Name: MainFunction, Code: []Instruction{
		push(7),
		{Op: OP_CALL, Name: "id", Arg: 1},
		{Op: OP_RETURN},
	}}
	m, err := NewModule([]*Function{main, id})
	if err != nil {
		t.Fatal(err)
	}
	if main.Code[1].Func != 1 {
		t.Errorf("call linked to %d, want 1", main.Code[1].Func)
	}
	if m.IndexOf("missing") != -1 {
		t.Error("IndexOf should return -1 for unknown names")
	}

	if _, err := NewModule([]*Function{main, id, id}); err == nil {
		t.Error("duplicate function names should be rejected")
	}
	bad := &Function{Name: "bad", Code: []Instruction{push(1), {Op: OP_CALL, Name: "nope", Arg: 1}, {Op: OP_RETURN}}}
	if _, err := NewModule([]*Function{bad}); err == nil {
		t.Error("unknown call target should be rejected")
	}
}

func TestDisassembleMarksTailCalls(t *testing.T) {
	fn := &Function{Name: "loop", Arity: 1, NumLocals: 1, Code: []Instruction{
		{Op: OP_LOAD_LOCAL},
		{Op: OP_SELF_CALL, Arg: 1},
		{Op: OP_RETURN},
	}}
	if err := Verify(fn, nil); err != nil {
		t.Fatal(err)
	}
	out := Disassemble(fn)
	if !strings.HasPrefix(out, "== loop/1 ==\n") {
		t.Errorf("missing header:\n%s", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if !strings.HasSuffix(lines[2], "; tail") {
		t.Errorf("self call not marked as tail:\n%s", out)
	}
	if strings.Contains(lines[1], "; tail") {
		t.Errorf("load marked as tail:\n%s", out)
	}
}

func TestBinaryOpFromSymbol(t *testing.T) {
	op, ok := BinaryOpFromSymbol("<=")
	if !ok || op != Le || op.IsArithmetic() {
		t.Errorf("<= parsed as %v %v", op, ok)
	}
	if _, ok := BinaryOpFromSymbol("&&"); ok {
		t.Error("&& is not a binary IR operator")
	}
}

func TestPrepareArgs(t *testing.T) {
	fn := &Function{
		Name:       "f",
		Arity:      3,
		ParamTypes: []typesystem.Type{typesystem.Float, typesystem.TVar{Name: "a"}, typesystem.TArray{Elem: typesystem.Int}},
	}
	args := []value.Value{value.IntVal(2), value.StringVal("any"), value.ArrayVal(nil)}

	got, err := fn.PrepareArgs(args)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Kind != value.KindFloat || got[0].AsFloat() != 2 {
		t.Errorf("Int argument not converted: %s", got[0])
	}
	if args[0].Kind != value.KindInt {
		t.Error("caller's arguments were modified")
	}

	_, err = fn.PrepareArgs([]value.Value{value.FloatVal(1), value.IntVal(1), value.IntVal(1)})
	var argErr *ArgumentError
	if !errors.As(err, &argErr) || argErr.Index != 2 || argErr.Got != value.KindInt {
		t.Errorf("expected argument 2 to be rejected, got %v", err)
	}

	_, err = fn.PrepareArgs(args[:1])
	var arityErr *ArityError
	if !errors.As(err, &arityErr) || arityErr.Got != 1 {
		t.Errorf("expected arity error, got %v", err)
	}
}

func TestFoldFromName(t *testing.T) {
	for _, name := range []string{"+", "*", "min", "max", "and", "or"} {
		f, ok := FoldFromName(name)
		if !ok || f.String() != name {
			t.Errorf("%s parsed as %v %v", name, f, ok)
		}
	}
	if _, ok := FoldFromName("avg"); ok {
		t.Error("avg is not a fold")
	}
	in := Instruction{Op: OP_FOLD_ARRAY, Arg: int(FoldMin)}
	if got := FormatInstruction(in); !strings.Contains(got, "FOLD_ARRAY") || !strings.Contains(got, "min") {
		t.Errorf("FormatInstruction = %q", got)
	}
}
