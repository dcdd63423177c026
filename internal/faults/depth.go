package faults

// DefaultMaxCallDepth is the sandboxed call-depth limit.
const DefaultMaxCallDepth = 500

// Depth counts active non-tail calls of one execution. The interpreter and
// the JIT share a single Depth so mixed-mode execution is bounded by one limit.
type Depth struct {
	Max     int
	Current int
	Peak    int
}

func NewDepth(max int) *Depth {
	return &Depth{Max: max}
}

// Enter records a call of fn, failing with StackOverflow when the limit is reached.
func (d *Depth) Enter(fn string) error {
	if d.Current >= d.Max {
		return &Fault{Kind: StackOverflow, Function: fn, Detail: "maximum call depth exceeded"}
	}
	d.Current++
	if d.Current > d.Peak {
		d.Peak = d.Current
	}
	return nil
}

func (d *Depth) Leave() {
	d.Current--
}

// Limits are the sandbox bounds of one execution.
type Limits struct {
	MaxCallDepth int
	MaxArrayLen  int
}
