// Package surface defines the drawing surface a chart renders onto and a
// raster implementation backed by an in-memory RGBA image.
package surface

import (
	"errors"
	"fmt"
	"math"
)

// ErrSurfaceDestroyed is returned by operations on a destroyed surface.
var ErrSurfaceDestroyed = errors.New("surface: destroyed")

// Surface is a sized drawing target.
type Surface interface {
	Size() (width, height float64)
	Resize(width, height float64) error
	Destroy() error
}

// Plugin customizes a surface after creation.
type Plugin interface {
	Name() string
	Apply(s Surface) error
}

// Factory creates surfaces.
type Factory interface {
	NewSurface(width, height float64, plugins []Plugin) (Surface, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(width, height float64, plugins []Plugin) (Surface, error)

// NewSurface calls f.
func (f FactoryFunc) NewSurface(width, height float64, plugins []Plugin) (Surface, error) {
	return f(width, height, plugins)
}

// ApplyPlugins runs each plugin against s in order and stops at the first
// failure.
func ApplyPlugins(s Surface, plugins []Plugin) error {
	for _, p := range plugins {
		if p == nil {
			continue
		}
		if err := p.Apply(s); err != nil {
			return fmt.Errorf("surface plugin %s: %w", p.Name(), err)
		}
	}
	return nil
}

// MaxDimension is the largest width or height, in pixels, a surface
// accepts.
const MaxDimension = 16384

func checkSize(width, height float64) error {
	for _, v := range [2]float64{width, height} {
		if v < 0 || v > MaxDimension || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("surface: invalid size %vx%v (each side must be within 0..%d)", width, height, MaxDimension)
		}
	}
	return nil
}
