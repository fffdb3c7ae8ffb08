package primitives

import (
	"maps"
	"slices"
	"sync"
)

// Context holds the variables of a running machine. Actions write them on
// the tick goroutine, expression guards read them there, and sensor readers
// or HTTP handlers may write them from anywhere.
type Context struct {
	mu   sync.RWMutex
	vars map[string]any
}

func NewContext() *Context {
	return &Context{vars: make(map[string]any)}
}

// Get returns the value stored under key.
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.vars[key]
	return v, ok
}

func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vars[key] = val
}

func (c *Context) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.vars, key)
}

// Update replaces the value under key with fn(old, ok) as one step, so
// concurrent writers cannot interleave between the read and the write.
func (c *Context) Update(key string, fn func(old any, ok bool) any) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	old, ok := c.vars[key]
	v := fn(old, ok)
	c.vars[key] = v
	return v
}

// Keys lists the variable names in sorted order.
func (c *Context) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.vars))
}

// Snapshot copies the variables, e.g. for the /state endpoint.
func (c *Context) Snapshot() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.vars)
}
