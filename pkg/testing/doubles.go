package testing

import (
	"sync"

	"github.com/go-drift/chart/pkg/spec"
	"github.com/go-drift/chart/pkg/surface"
)

// RecordingRuntime records every spec it is asked to render. Set Err or
// Panic to simulate a failing runtime.
type RecordingRuntime struct {
	mu    sync.Mutex
	specs []spec.Spec
	sizes [][2]float64

	Err   error
	Panic any
}

// Render records s and the surface size.
func (r *RecordingRuntime) Render(s spec.Spec, surf surface.Surface) error {
	r.mu.Lock()
	r.specs = append(r.specs, s.Clone())
	var size [2]float64
	if surf != nil {
		size[0], size[1] = surf.Size()
	}
	r.sizes = append(r.sizes, size)
	err, p := r.Err, r.Panic
	r.mu.Unlock()

	if p != nil {
		panic(p)
	}
	return err
}

// Calls returns how many times Render ran.
func (r *RecordingRuntime) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.specs)
}

// Last returns the most recently rendered spec, or nil.
func (r *RecordingRuntime) Last() spec.Spec {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.specs) == 0 {
		return nil
	}
	return r.specs[len(r.specs)-1]
}

// LastSize returns the surface size seen by the most recent Render.
func (r *RecordingRuntime) LastSize() (float64, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sizes) == 0 {
		return 0, 0
	}
	s := r.sizes[len(r.sizes)-1]
	return s[0], s[1]
}

// FakeSurface is an in-memory surface that counts resizes.
type FakeSurface struct {
	mu        sync.Mutex
	width     float64
	height    float64
	resizes   int
	destroyed bool
	plugins   []string
	resizeErr error
}

// FailNextResize makes the next Resize return err without changing the
// size.
func (s *FakeSurface) FailNextResize(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resizeErr = err
}

// Size returns the current size.
func (s *FakeSurface) Size() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Resize records the new size.
func (s *FakeSurface) Resize(width, height float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return surface.ErrSurfaceDestroyed
	}
	if err := s.resizeErr; err != nil {
		s.resizeErr = nil
		return err
	}
	s.width, s.height = width, height
	s.resizes++
	return nil
}

// Destroy marks the surface destroyed.
func (s *FakeSurface) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed = true
	return nil
}

// Resizes returns how many times Resize succeeded.
func (s *FakeSurface) Resizes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resizes
}

// Destroyed reports whether Destroy was called.
func (s *FakeSurface) Destroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}

// Plugins returns the names of the plugins applied at creation.
func (s *FakeSurface) Plugins() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.plugins...)
}

// FakeSurfaceFactory creates FakeSurfaces and remembers them.
type FakeSurfaceFactory struct {
	mu       sync.Mutex
	surfaces []*FakeSurface
}

// NewSurface returns a new FakeSurface. Plugins are recorded by name, not
// applied.
func (f *FakeSurfaceFactory) NewSurface(width, height float64, plugins []surface.Plugin) (surface.Surface, error) {
	s := &FakeSurface{width: width, height: height}
	for _, p := range plugins {
		s.plugins = append(s.plugins, p.Name())
	}
	f.mu.Lock()
	f.surfaces = append(f.surfaces, s)
	f.mu.Unlock()
	return s, nil
}

// Created returns how many surfaces were created.
func (f *FakeSurfaceFactory) Created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.surfaces)
}

// Last returns the most recently created surface, or nil.
func (f *FakeSurfaceFactory) Last() *FakeSurface {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.surfaces) == 0 {
		return nil
	}
	return f.surfaces[len(f.surfaces)-1]
}
