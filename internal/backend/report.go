package backend

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/vais-lang/vais/internal/jit"
	"github.com/vais-lang/vais/internal/vm"
)

// Report describes one execution.
type Report struct {
	Backend  string
	VM       vm.Stats
	JIT      jit.Stats
	Coverage []jit.Coverage // nil for the interpreter
}

// Compiled lists the functions that ran natively.
func (r *Report) Compiled() []string {
	var names []string
	for _, c := range r.Coverage {
		if c.Compiled {
			names = append(names, c.Function)
		}
	}
	return names
}

func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s instructions, %s calls (%s tail), peak depth %d",
		r.Backend,
		humanize.Comma(int64(r.VM.Instructions)),
		humanize.Comma(int64(r.VM.Calls)),
		humanize.Comma(int64(r.VM.TailCalls)),
		r.VM.PeakDepth)
	if r.Coverage != nil {
		fmt.Fprintf(&sb, "; native %d of %d functions, %s native calls (%s tail), %s fallback calls",
			len(r.Compiled()), len(r.Coverage),
			humanize.Comma(int64(r.JIT.NativeCalls)),
			humanize.Comma(int64(r.JIT.TailCalls)),
			humanize.Comma(int64(r.JIT.FallbackCalls)))
	}
	return sb.String()
}
