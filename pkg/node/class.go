package node

import (
	"sync"

	"github.com/go-drift/chart/pkg/attr"
)

// Factory declares a child constructor exposed by a class. Calling
// Node.Append with the factory name creates a node of Class with type tag
// Type and appends it to the receiver.
//
// A Container factory additionally turns the receiving tree root into a
// virtual root, so the new child becomes the rendered identity of the tree
// while the root keeps the canvas-level layout attributes.
type Factory struct {
	Name      string
	Type      string
	Class     *Class
	Container bool
}

// Class is a node class: a name, the attribute table shared by all its
// instances, and the child factories it provides.
//
// Classes are meant to be defined once at package initialization. Define and
// Provide are safe to call concurrently with accessor use, but changing a
// class after nodes were built changes what those nodes accept.
type Class struct {
	name  string
	table *attr.Table

	mu        sync.RWMutex
	factories map[string]Factory
	order     []string
}

// NewClass returns a class named name with sets registered.
func NewClass(name string, sets ...attr.Set) *Class {
	return &Class{
		name:      name,
		table:     attr.NewTable(sets...),
		factories: make(map[string]Factory),
	}
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Table returns the class's accessor table.
func (c *Class) Table() *attr.Table { return c.table }

// Define registers additional descriptor sets; see attr.Table.Register.
func (c *Class) Define(sets ...attr.Set) *Class {
	c.table.Register(sets...)
	return c
}

// Provide registers child factories. A factory whose name is already
// registered replaces the earlier one.
func (c *Class) Provide(fs ...Factory) *Class {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range fs {
		if _, ok := c.factories[f.Name]; !ok {
			c.order = append(c.order, f.Name)
		}
		c.factories[f.Name] = f
	}
	return c
}

// Factory returns the factory registered under name.
func (c *Class) Factory(name string) (Factory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.factories[name]
	return f, ok
}

// Factories returns the registered factories in registration order.
func (c *Class) Factories() []Factory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Factory, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.factories[name])
	}
	return out
}
