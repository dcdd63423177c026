package ir

import (
	"fmt"

	"github.com/google/uuid"
)

// Module is a set of IR functions produced from one program.
type Module struct {
	ID        uuid.UUID
	Functions []*Function
	index     map[string]int
}

// NewModule links call targets to function indices and verifies every
// function. The functions must not be modified afterwards.
func NewModule(funcs []*Function) (*Module, error) {
	m := &Module{
		ID:        uuid.New(),
		Functions: funcs,
		index:     make(map[string]int, len(funcs)),
	}
	for i, fn := range funcs {
		if _, dup := m.index[fn.Name]; dup {
			return nil, fmt.Errorf("duplicate function %q", fn.Name)
		}
		m.index[fn.Name] = i
	}
	for _, fn := range funcs {
		if err := m.link(fn); err != nil {
			return nil, err
		}
		if err := Verify(fn, m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Module) link(fn *Function) error {
	for pc := range fn.Code {
		in := &fn.Code[pc]
		switch in.Op {
		case OP_CALL, OP_MAP_ARRAY, OP_FILTER_ARRAY, OP_REDUCE_ARRAY:
			idx, ok := m.index[in.Name]
			if !ok {
				return &VerifyError{Function: fn.Name, PC: pc, Msg: fmt.Sprintf("unknown function %q", in.Name)}
			}
			in.Func = idx
		}
	}
	return nil
}

// Lookup returns the function with the given name.
func (m *Module) Lookup(name string) (*Function, bool) {
	idx, ok := m.index[name]
	if !ok {
		return nil, false
	}
	return m.Functions[idx], true
}

// IndexOf returns the index of the named function, or -1.
func (m *Module) IndexOf(name string) int {
	if idx, ok := m.index[name]; ok {
		return idx
	}
	return -1
}
