package chart

import (
	"slices"
	"sync"

	"github.com/go-drift/chart/pkg/surface"
)

// Box is a container's client box: the full inner size and the padding
// inside it.
type Box struct {
	ClientWidth   float64
	ClientHeight  float64
	PaddingLeft   float64
	PaddingTop    float64
	PaddingRight  float64
	PaddingBottom float64
}

// Container is the host element a chart draws into.
type Container interface {
	// Box reports the current client box.
	Box() Box
	// Attach adds s to the container's content.
	Attach(s surface.Surface) error
	// Detach removes s if attached.
	Detach(s surface.Surface)
	// Attached reports whether s is part of the container's content.
	Attached(s surface.Surface) bool
	// Remove detaches the container from its own parent.
	Remove()
}

// Document resolves containers by ID and creates new ones.
type Document interface {
	ElementByID(id string) (Container, bool)
	CreateElement() Container
}

// ContainerSize returns the drawable size of c: the client box minus
// padding, never negative.
func ContainerSize(c Container) (width, height float64) {
	b := c.Box()
	width = max(b.ClientWidth-b.PaddingLeft-b.PaddingRight, 0)
	height = max(b.ClientHeight-b.PaddingTop-b.PaddingBottom, 0)
	return width, height
}

// fitSize returns the measured container size when autoFit is set, falling
// back to the configured size for any dimension that measures as zero.
func fitSize(c Container, autoFit bool, width, height float64) (float64, float64) {
	if !autoFit || c == nil {
		return width, height
	}
	w, h := ContainerSize(c)
	if w == 0 {
		w = width
	}
	if h == 0 {
		h = height
	}
	return w, h
}

// MemoryContainer is an in-memory Container for headless hosts and tests.
// Safe for concurrent use.
type MemoryContainer struct {
	mu       sync.Mutex
	id       string
	box      Box
	parent   *MemoryContainer
	children []*MemoryContainer
	content  []surface.Surface
}

// NewMemoryContainer returns a detached container with the given client
// size.
func NewMemoryContainer(id string, width, height float64) *MemoryContainer {
	return &MemoryContainer{id: id, box: Box{ClientWidth: width, ClientHeight: height}}
}

// ID returns the container's ID.
func (m *MemoryContainer) ID() string { return m.id }

// Box returns the current client box.
func (m *MemoryContainer) Box() Box {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.box
}

// SetBox replaces the client box, as a host would after a layout change.
func (m *MemoryContainer) SetBox(b Box) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.box = b
}

// Attach adds s to the container's content. Attaching twice is a no-op.
func (m *MemoryContainer) Attach(s surface.Surface) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.Contains(m.content, s) {
		m.content = append(m.content, s)
	}
	return nil
}

// Detach removes s from the container's content.
func (m *MemoryContainer) Detach(s surface.Surface) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := slices.Index(m.content, s); i >= 0 {
		m.content = slices.Delete(m.content, i, i+1)
	}
}

// Attached reports whether s is attached.
func (m *MemoryContainer) Attached(s surface.Surface) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Contains(m.content, s)
}

// Content returns the attached surfaces in attach order.
func (m *MemoryContainer) Content() []surface.Surface {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.content)
}

// AppendChild makes child a child of m, detaching it from any previous
// parent.
func (m *MemoryContainer) AppendChild(child *MemoryContainer) {
	child.Remove()
	m.mu.Lock()
	m.children = append(m.children, child)
	m.mu.Unlock()
	child.mu.Lock()
	child.parent = m
	child.mu.Unlock()
}

// Parent returns the parent container, or nil.
func (m *MemoryContainer) Parent() *MemoryContainer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.parent
}

// Children returns the child containers in order.
func (m *MemoryContainer) Children() []*MemoryContainer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.children)
}

// Remove detaches m from its parent container.
func (m *MemoryContainer) Remove() {
	m.mu.Lock()
	parent := m.parent
	m.parent = nil
	m.mu.Unlock()
	if parent == nil {
		return
	}
	parent.mu.Lock()
	defer parent.mu.Unlock()
	if i := slices.Index(parent.children, m); i >= 0 {
		parent.children = slices.Delete(parent.children, i, i+1)
	}
}

// MemoryDocument is an in-memory Document. Containers registered with Add
// are children of Body.
type MemoryDocument struct {
	Body *MemoryContainer

	mu  sync.RWMutex
	ids map[string]*MemoryContainer
}

// NewMemoryDocument returns an empty document.
func NewMemoryDocument() *MemoryDocument {
	return &MemoryDocument{
		Body: NewMemoryContainer("body", 0, 0),
		ids:  make(map[string]*MemoryContainer),
	}
}

// Add registers c under its ID and appends it to Body.
func (d *MemoryDocument) Add(c *MemoryContainer) *MemoryContainer {
	d.mu.Lock()
	d.ids[c.ID()] = c
	d.mu.Unlock()
	d.Body.AppendChild(c)
	return c
}

// ElementByID returns the container registered under id.
func (d *MemoryDocument) ElementByID(id string) (Container, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.ids[id]
	if !ok {
		return nil, false
	}
	return c, true
}

// CreateElement returns a new detached, unsized container.
func (d *MemoryDocument) CreateElement() Container {
	return NewMemoryContainer("", 0, 0)
}
