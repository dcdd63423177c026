package lower

import (
	"fmt"

	"github.com/pkg/errors"
)

// ICE is an internal compiler error: the lowering met input that a
// successful type check should have ruled out. It is always fatal.
type ICE struct {
	Function string
	Msg      string
}

func (e *ICE) Error() string {
	return fmt.Sprintf("internal compiler error in %s: %s", e.Function, e.Msg)
}

// iceErrorf returns an ICE carrying the stack where it was raised.
func iceErrorf(fn, format string, args ...any) error {
	return errors.WithStack(&ICE{Function: fn, Msg: fmt.Sprintf(format, args...)})
}
