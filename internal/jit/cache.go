package jit

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/vais-lang/vais/internal/ir"
)

// Cache holds compiled programs by module ID for the life of the process.
// Concurrent requests for the same module share one compilation.
type Cache struct {
	group singleflight.Group

	mu       sync.RWMutex
	programs map[uuid.UUID]*Program
	compiles int
}

func NewCache() *Cache {
	return &Cache{programs: make(map[uuid.UUID]*Program)}
}

// Get returns the compiled program for m, compiling it on first use.
// Compilation errors are not cached.
func (c *Cache) Get(m *ir.Module) (*Program, error) {
	c.mu.RLock()
	p, ok := c.programs[m.ID]
	c.mu.RUnlock()
	if ok {
		return p, nil
	}

	v, err, _ := c.group.Do(m.ID.String(), func() (any, error) {
		c.mu.RLock()
		p, ok := c.programs[m.ID]
		c.mu.RUnlock()
		if ok {
			return p, nil
		}
		p, err := Compile(m)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.programs[m.ID] = p
		c.compiles++
		c.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Program), nil
}

// Compiles returns how many modules the cache has compiled.
func (c *Cache) Compiles() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.compiles
}

// Forget drops the program of module id.
func (c *Cache) Forget(id uuid.UUID) {
	c.mu.Lock()
	delete(c.programs, id)
	c.mu.Unlock()
}
