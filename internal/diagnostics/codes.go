package diagnostics

// ErrorCode is the stable identifier of a class of error.
type ErrorCode string

const (
	// Type checking
	ErrT001 ErrorCode = "T001" // type mismatch
	ErrT002 ErrorCode = "T002" // infinite type
	ErrT003 ErrorCode = "T003" // unbound identifier
	ErrT004 ErrorCode = "T004" // arity mismatch
	ErrT005 ErrorCode = "T005" // duplicate definition

	// Internal compiler errors
	ErrL001 ErrorCode = "L001" // lowering
	ErrJ001 ErrorCode = "J001" // jit

	// Runtime faults
	ErrR001 ErrorCode = "R001" // stack overflow
	ErrR002 ErrorCode = "R002" // division by zero
	ErrR003 ErrorCode = "R003" // index out of bounds
	ErrR004 ErrorCode = "R004" // array capacity exceeded
	ErrR005 ErrorCode = "R005" // entry arguments do not fit the function

	ErrE000 ErrorCode = "E000" // anything else
)

// Phase names the stage an error code belongs to.
func (c ErrorCode) Phase() string {
	if c == "" {
		return "unknown"
	}
	switch c[0] {
	case 'T':
		return "type"
	case 'L', 'J':
		return "internal"
	case 'R':
		return "runtime"
	}
	return "unknown"
}
