package config

import "github.com/vais-lang/vais/internal/faults"

// ConfigFileNames are the file names FindConfig looks for, in order.
var ConfigFileNames = []string{"vais.yaml", "vais.yml"}

// Execution modes
const (
	ModeInterpret = "interpret"
	ModeJit       = "jit"
)

// Defaults
const (
	DefaultMode         = ModeInterpret
	DefaultMaxCallDepth = faults.DefaultMaxCallDepth
	DefaultMaxArrayLen  = 1 << 20
	DefaultLogLevel     = "warn"
)

// Environment overrides
const (
	EnvMode         = "VAIS_MODE"
	EnvMaxCallDepth = "VAIS_MAX_CALL_DEPTH"
	EnvMaxArrayLen  = "VAIS_MAX_ARRAY_LEN"
	EnvLogLevel     = "VAIS_LOG_LEVEL"
	EnvJIT          = "VAIS_JIT"
)

// Built-in function names
const (
	LenFuncName    = "len"
	PushFuncName   = "push"
	ConcatFuncName = "concat"
	RangeFuncName  = "range"
	StrFuncName    = "str"
	StrlenFuncName = "strlen"
	FloatFuncName  = "float"
	IntFuncName    = "int"
	SqrtFuncName   = "sqrt"
)
