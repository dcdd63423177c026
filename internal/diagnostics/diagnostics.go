// Package diagnostics gives every error the toolchain can return a stable
// code and renders them for people.
package diagnostics

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/vais-lang/vais/internal/analyzer"
	"github.com/vais-lang/vais/internal/ast"
	"github.com/vais-lang/vais/internal/faults"
	"github.com/vais-lang/vais/internal/ir"
	"github.com/vais-lang/vais/internal/jit"
	"github.com/vais-lang/vais/internal/lower"
)

// DiagnosticError is an error with its code and, where known, the source
// position or function it was raised in.
type DiagnosticError struct {
	Code     ErrorCode
	Span     ast.Span
	Function string
	Err      error
}

func (e *DiagnosticError) Error() string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(string(e.Code))
	sb.WriteString("] ")
	if e.Span.Line > 0 {
		fmt.Fprintf(&sb, "%s: ", e.Span)
	}
	sb.WriteString(e.Err.Error())
	return sb.String()
}

func (e *DiagnosticError) Unwrap() error { return e.Err }

// NewError classifies err. It returns nil for a nil error.
func NewError(err error) *DiagnosticError {
	if err == nil {
		return nil
	}
	var de *DiagnosticError
	if errors.As(err, &de) {
		return de
	}

	var te *analyzer.TypeError
	var lice *lower.ICE
	var jice *jit.ICE
	var fault *faults.Fault
	var argErr *ir.ArgumentError
	var arityErr *ir.ArityError
	switch {
	case errors.As(err, &te):
		return &DiagnosticError{Code: typeCode(te.Kind), Span: te.Span, Err: err}
	case errors.As(err, &lice):
		return &DiagnosticError{Code: ErrL001, Function: lice.Function, Err: err}
	case errors.As(err, &jice):
		return &DiagnosticError{Code: ErrJ001, Function: jice.Function, Err: err}
	case errors.As(err, &fault):
		return &DiagnosticError{Code: faultCode(fault.Kind), Function: fault.Function, Err: err}
	case errors.As(err, &argErr):
		return &DiagnosticError{Code: ErrR005, Function: argErr.Function, Err: err}
	case errors.As(err, &arityErr):
		return &DiagnosticError{Code: ErrR005, Function: arityErr.Function, Err: err}
	}
	return &DiagnosticError{Code: ErrE000, Err: err}
}

// Code returns the code err would be reported with.
func Code(err error) ErrorCode {
	if de := NewError(err); de != nil {
		return de.Code
	}
	return ""
}

func typeCode(k analyzer.ErrorKind) ErrorCode {
	switch k {
	case analyzer.TypeMismatch:
		return ErrT001
	case analyzer.OccursCheckFailure:
		return ErrT002
	case analyzer.UnboundIdentifier:
		return ErrT003
	case analyzer.ArityMismatch:
		return ErrT004
	case analyzer.DuplicateDefinition:
		return ErrT005
	}
	return ErrE000
}

func faultCode(k faults.Kind) ErrorCode {
	switch k {
	case faults.StackOverflow:
		return ErrR001
	case faults.DivisionByZero:
		return ErrR002
	case faults.IndexOutOfBounds:
		return ErrR003
	case faults.ArrayCapacityExceeded:
		return ErrR004
	}
	return ErrE000
}

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiBold  = "\x1b[1m"
	ansiDim   = "\x1b[2m"
)

// Format renders err on one line, optionally with ANSI colour.
func Format(err error, color bool) string {
	de := NewError(err)
	if de == nil {
		return ""
	}
	label := de.Code.Phase() + " error"
	if !color {
		return label + " " + de.Error()
	}
	var sb strings.Builder
	sb.WriteString(ansiBold + ansiRed + label + ansiReset + " ")
	sb.WriteString(ansiBold + "[" + string(de.Code) + "]" + ansiReset + " ")
	if de.Span.Line > 0 {
		sb.WriteString(ansiDim + de.Span.String() + ":" + ansiReset + " ")
	}
	sb.WriteString(de.Err.Error())
	return sb.String()
}

// FormatAll writes one line per error to w, in colour when w is a terminal
// and NO_COLOR is unset.
func FormatAll(w io.Writer, errs []error) error {
	color := UseColor(w)
	for _, err := range errs {
		if _, werr := fmt.Fprintln(w, Format(err, color)); werr != nil {
			return werr
		}
	}
	return nil
}

// UseColor reports whether w should receive ANSI colour.
func UseColor(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
