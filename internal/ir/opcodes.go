// Package ir defines the flat, stack-based intermediate representation
// executed by the virtual machine and compiled by the JIT.
package ir

// Opcode represents a single IR instruction
type Opcode byte

const (
	// Stack manipulation
	OP_PUSH_CONST Opcode = iota // Push Const
	OP_POP                      // Discard top of stack

	// Locals
	OP_LOAD_LOCAL  // Push local slot Arg
	OP_STORE_LOCAL // Pop into local slot Arg

	// Operators
	OP_BINARY // Pop b, pop a, push a <Bin> b
	OP_UNARY  // Pop a, push <Un> a

	// Calls
	OP_CALL         // Call function Name with Arg arguments
	OP_CALL_BUILTIN // Call builtin Name with Arg arguments
	OP_SELF_CALL    // Call the current function with Arg arguments

	// Control flow
	OP_BRANCH          // Jump to Arg
	OP_BRANCH_IF_FALSE // Pop condition, jump to Arg if false
	OP_RETURN          // Pop result and return it

	// Arrays
	OP_MAKE_ARRAY   // Pop Arg values, push array of them
	OP_INDEX        // Pop index, pop array, push element
	OP_FIELD_ACCESS // Pop tuple, push element Arg
	OP_MAP_ARRAY    // Pop Captures values and an array, push array of Name(captures..., x)
	OP_FILTER_ARRAY // Pop Captures values and an array, push elements where Name(captures..., x)
	OP_REDUCE_ARRAY // Pop Captures values, init and array, push left fold of Name(captures..., acc, x)
	OP_FOLD_ARRAY   // Pop array, push its fold by the Fold Arg
	OP_RANGE        // Pop end, pop start, push [start, start+1, ..., end-1]
	OP_CONTAINS     // Pop container, pop element, push whether the container holds it
)

// OpcodeNames maps opcodes to their string names (for debugging)
var OpcodeNames = map[Opcode]string{
	OP_PUSH_CONST:      "PUSH_CONST",
	OP_POP:             "POP",
	OP_LOAD_LOCAL:      "LOAD_LOCAL",
	OP_STORE_LOCAL:     "STORE_LOCAL",
	OP_BINARY:          "BINARY",
	OP_UNARY:           "UNARY",
	OP_CALL:            "CALL",
	OP_CALL_BUILTIN:    "CALL_BUILTIN",
	OP_SELF_CALL:       "SELF_CALL",
	OP_BRANCH:          "BRANCH",
	OP_BRANCH_IF_FALSE: "BRANCH_IF_FALSE",
	OP_RETURN:          "RETURN",
	OP_MAKE_ARRAY:      "MAKE_ARRAY",
	OP_INDEX:           "INDEX",
	OP_FIELD_ACCESS:    "FIELD_ACCESS",
	OP_MAP_ARRAY:       "MAP_ARRAY",
	OP_FILTER_ARRAY:    "FILTER_ARRAY",
	OP_REDUCE_ARRAY:    "REDUCE_ARRAY",
	OP_FOLD_ARRAY:      "FOLD_ARRAY",
	OP_RANGE:           "RANGE",
	OP_CONTAINS:        "CONTAINS",
}

func (op Opcode) String() string {
	if name, ok := OpcodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}

// BinaryOp is the operator of an OP_BINARY instruction.
type BinaryOp uint8

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
)

var binarySymbols = [...]string{"+", "-", "*", "/", "%", "==", "!=", "<", "<=", ">", ">="}

func (op BinaryOp) String() string {
	if int(op) < len(binarySymbols) {
		return binarySymbols[op]
	}
	return "?"
}

// IsArithmetic reports whether op produces a number rather than a Bool.
func (op BinaryOp) IsArithmetic() bool { return op <= Mod }

// BinaryOpFromSymbol maps a source operator to its BinaryOp.
func BinaryOpFromSymbol(sym string) (BinaryOp, bool) {
	for i, s := range binarySymbols {
		if s == sym {
			return BinaryOp(i), true
		}
	}
	return 0, false
}

// UnaryOp is the operator of an OP_UNARY instruction.
type UnaryOp uint8

const (
	Neg UnaryOp = iota
	Not
)

func (op UnaryOp) String() string {
	if op == Neg {
		return "-"
	}
	return "!"
}

// Fold is a built-in reduction of an OP_FOLD_ARRAY instruction.
type Fold uint8

const (
	FoldSum Fold = iota
	FoldProduct
	FoldMin
	FoldMax
	FoldAll
	FoldAny
)

var foldNames = [...]string{"+", "*", "min", "max", "and", "or"}

// String returns the fold as written after ./ in source.
func (f Fold) String() string {
	if int(f) < len(foldNames) {
		return foldNames[f]
	}
	return "?"
}

// FoldFromName maps the source spelling of a fold to its Fold.
func FoldFromName(name string) (Fold, bool) {
	for i, s := range foldNames {
		if s == name {
			return Fold(i), true
		}
	}
	return 0, false
}
