// Package chart provides the top-level chart object: the root of a builder
// tree that also owns a drawing surface, a host container, and the
// render/resize/teardown lifecycle.
//
// A Chart embeds its root node, so the fluent attribute API and child
// factories are available directly:
//
//	c, err := chart.New(chart.Options{Width: 800, Height: 400, Runtime: rt})
//	c.Append("interval").Set("data", rows).SetKey("encode", "x", "genre")
//	err = c.Render()
//
// A Chart and its node tree belong to the goroutine that drives them; the
// tree is not synchronized. Auto-fit never calls into the tree from a timer
// goroutine. With the default LoopScheduler a debounced resize waits until
// the host calls RunPending, typically when Ready fires:
//
//	for {
//	    select {
//	    case <-c.Ready():
//	        c.RunPending()
//	    case ev := <-hostEvents:
//	        handle(c, ev)
//	    }
//	}
//
// Chart methods may be called from lifecycle handlers.
package chart

import (
	stderrors "errors"
	"log/slog"
	"sync"
	"time"

	"github.com/go-drift/chart/pkg/attr"
	"github.com/go-drift/chart/pkg/composition"
	"github.com/go-drift/chart/pkg/errors"
	"github.com/go-drift/chart/pkg/mark"
	"github.com/go-drift/chart/pkg/node"
	"github.com/go-drift/chart/pkg/spec"
	"github.com/go-drift/chart/pkg/surface"
)

const (
	// DefaultWidth is the canvas width used when none is configured.
	DefaultWidth = 640
	// DefaultHeight is the canvas height used when none is configured.
	DefaultHeight = 480
)

// Props is the chart's own attribute set. theme appears twice; the later
// declaration wins, which is harmless because both are objects.
var Props = attr.NewSet("chart",
	attr.Value("data"),
	attr.Array("coordinate"),
	attr.Array("interaction"),
	attr.Object("theme"),
	attr.Object("title"),
	attr.Value("key"),
	attr.Array("transform"),
	attr.Object("theme"),
	attr.Value("autoFit"),
)

// Class is the node class of chart roots. Marks append as children;
// compositions appended to a root take it over as container factories.
var Class = node.NewClass("chart", mark.Layout, composition.Props, Props)

func init() {
	Class.Provide(mark.Factories()...)
	Class.Provide(composition.Factories()...)
}

// NewRoot returns a detached chart root node without a controller, for
// building and flattening trees that are never rendered.
func NewRoot() *node.Node {
	return node.New(Class, "view")
}

// Runtime draws a flattened spec onto a surface.
type Runtime interface {
	Render(s spec.Spec, surf surface.Surface) error
}

// RuntimeFunc adapts a function to Runtime.
type RuntimeFunc func(s spec.Spec, surf surface.Surface) error

// Render calls f.
func (f RuntimeFunc) Render(s spec.Spec, surf surface.Surface) error { return f(s, surf) }

// Options configures a Chart.
type Options struct {
	// Container is the host element. Takes precedence over ContainerID.
	Container Container
	// ContainerID is resolved against Document.
	ContainerID string
	// Document resolves ContainerID and creates a container when neither
	// Container nor ContainerID is set.
	Document Document

	// AutoFit sizes the surface from the container and re-measures on
	// every ResizeSource notification.
	AutoFit bool
	// Width and Height default to DefaultWidth and DefaultHeight.
	Width  float64
	Height float64

	// Renderer creates the surface. Defaults to surface.RasterFactory.
	Renderer surface.Factory
	// Plugins are applied to the surface on creation, in order.
	Plugins []surface.Plugin
	// Runtime draws each rendered spec. When nil, Render only manages the
	// surface.
	Runtime Runtime

	// ResizeSource feeds auto-fit. Ignored unless AutoFit is set.
	ResizeSource ResizeSource
	// Scheduler drives the auto-fit debounce. Defaults to a LoopScheduler,
	// drained by Chart.RunPending.
	Scheduler Scheduler
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Renderer == nil {
		o.Renderer = surface.RasterFactory{}
	}
	if o.Scheduler == nil {
		o.Scheduler = NewLoopScheduler()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Chart is a root node with a rendering lifecycle.
type Chart struct {
	*node.Node

	opts      Options
	logger    *slog.Logger
	container Container
	events    emitter
	fit       *debouncer

	mu          sync.Mutex
	surface     surface.Surface
	destroyed   bool
	unsubscribe func()
}

// New creates a chart. The root's width and height attributes are seeded
// from opts, and autoFit when enabled.
func New(opts Options) (*Chart, error) {
	opts = opts.withDefaults()
	container, err := resolveContainer(opts)
	if err != nil {
		return nil, &errors.ChartError{
			Op:        "chart.New",
			Kind:      errors.KindContainer,
			Err:       err,
			Timestamp: time.Now(),
		}
	}

	root := NewRoot().Set("width", opts.Width).Set("height", opts.Height)
	if opts.AutoFit {
		root.Set("autoFit", true)
	}

	c := &Chart{
		Node:      root,
		opts:      opts,
		logger:    opts.Logger.With("component", "chart"),
		container: container,
	}
	c.fit = newDebouncer(opts.Scheduler, AutoFitDelay, c.onResize)
	c.bindAutoFit()
	return c, nil
}

func resolveContainer(opts Options) (Container, error) {
	switch {
	case opts.Container != nil:
		return opts.Container, nil
	case opts.ContainerID != "":
		if opts.Document == nil {
			return nil, &errors.ContainerNotFoundError{ID: opts.ContainerID}
		}
		c, ok := opts.Document.ElementByID(opts.ContainerID)
		if !ok || c == nil {
			return nil, &errors.ContainerNotFoundError{ID: opts.ContainerID}
		}
		return c, nil
	case opts.Document != nil:
		return opts.Document.CreateElement(), nil
	default:
		return NewMemoryContainer("", 0, 0), nil
	}
}

func (c *Chart) bindAutoFit() {
	if !c.autoFit() || c.opts.ResizeSource == nil {
		return
	}
	c.unsubscribe = c.opts.ResizeSource.Subscribe(c.fit.trigger)
}

func (c *Chart) autoFit() bool {
	v, _ := c.Node.Attr("autoFit").(bool)
	return v
}

func (c *Chart) onResize() {
	err := c.ForceFit()
	if err == nil {
		return
	}
	var destroyed *errors.DestroyedControllerError
	if stderrors.As(err, &destroyed) {
		return
	}
	var ce *errors.ChartError
	if !stderrors.As(err, &ce) {
		ce = &errors.ChartError{Op: "chart.autoFit", Kind: errors.KindRender, Err: err}
	}
	errors.Report(ce)
}

// Ready receives a value when auto-fit work is due. It returns nil, which
// blocks forever in a select, when the scheduler is not a Loop.
func (c *Chart) Ready() <-chan struct{} {
	if l, ok := c.opts.Scheduler.(Loop); ok {
		return l.Ready()
	}
	return nil
}

// RunPending runs due auto-fit work on the calling goroutine and returns
// how many callbacks ran. It is a no-op when the scheduler is not a Loop.
func (c *Chart) RunPending() int {
	if l, ok := c.opts.Scheduler.(Loop); ok {
		return l.RunPending()
	}
	return 0
}

// On registers fn for ev and returns a function that removes it.
func (c *Chart) On(ev Event, fn Handler) (off func()) {
	return c.events.on(ev, fn)
}

func (c *Chart) emit(ev Event) {
	c.events.emit(ev)
}

func (c *Chart) checkAlive(op string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return &errors.ChartError{
			Op:        op,
			Kind:      errors.KindLifecycle,
			Err:       &errors.DestroyedControllerError{Op: op},
			Timestamp: time.Now(),
		}
	}
	return nil
}

// Root returns the chart's root node.
func (c *Chart) Root() *node.Node { return c.Node }

// Container returns the resolved host container.
func (c *Chart) Container() Container { return c.container }

// Surface returns the current surface, or nil before the first render and
// after Clear or Destroy.
func (c *Chart) Surface() surface.Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surface
}

// Destroyed reports whether Destroy has been called.
func (c *Chart) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

// Options returns the chart's current flattened spec.
func (c *Chart) Options() (spec.Spec, error) {
	return spec.Flatten(c.Node)
}

// size returns the configured canvas size recorded in s.
func (c *Chart) size(s spec.Spec) (float64, float64) {
	w, ok := s.Number("width")
	if !ok {
		w = c.opts.Width
	}
	h, ok := s.Number("height")
	if !ok {
		h = c.opts.Height
	}
	return w, h
}

// Render flattens the tree, creates the surface on first use, hands both to
// the runtime and attaches the surface to the container.
func (c *Chart) Render() error {
	const op = "chart.Render"
	if err := c.checkAlive(op); err != nil {
		return err
	}

	c.emit(EventBeforeRender)
	s, err := spec.Flatten(c.Node)
	if err != nil {
		return errors.Wrap(op, errors.KindRoot, err)
	}
	surf, err := c.ensureSurface(op, s)
	if err != nil {
		return err
	}

	c.emit(EventBeforePaint)
	if err := c.paint(op, s, surf); err != nil {
		return err
	}
	c.emit(EventAfterPaint)

	if !c.container.Attached(surf) {
		if err := c.container.Attach(surf); err != nil {
			return errors.Wrap(op, errors.KindContainer, err)
		}
	}
	c.emit(EventAfterRender)
	return nil
}

func (c *Chart) ensureSurface(op string, s spec.Spec) (surface.Surface, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return nil, &errors.ChartError{
			Op:   op,
			Kind: errors.KindLifecycle,
			Err:  &errors.DestroyedControllerError{Op: op},
		}
	}
	if c.surface != nil {
		return c.surface, nil
	}

	autoFit, _ := s["autoFit"].(bool)
	cw, ch := c.size(s)
	w, h := fitSize(c.container, autoFit, cw, ch)
	surf, err := c.opts.Renderer.NewSurface(w, h, c.opts.Plugins)
	if err != nil {
		return nil, errors.Wrap(op, errors.KindRender, err)
	}
	c.surface = surf
	c.logger.Debug("surface created", "width", w, "height", h, "autoFit", autoFit)
	return surf, nil
}

func (c *Chart) paint(op string, s spec.Spec, surf surface.Surface) (err error) {
	if c.opts.Runtime == nil {
		return nil
	}
	defer errors.RecoverInto(op, &err)
	if rerr := c.opts.Runtime.Render(s, surf); rerr != nil {
		return errors.Wrap(op, errors.KindRender, rerr)
	}
	c.logger.Debug("spec painted", "type", s.Type(), "children", len(s.Children()))
	return nil
}

// ChangeSize resizes the surface, records the new canvas size and
// re-renders. It does nothing when width and height already match the
// configured size. On failure the configured size and the surface keep
// their previous values.
func (c *Chart) ChangeSize(width, height float64) error {
	const op = "chart.ChangeSize"
	if err := c.checkAlive(op); err != nil {
		return err
	}
	s, err := c.Options()
	if err != nil {
		return errors.Wrap(op, errors.KindRoot, err)
	}
	if w, h := c.size(s); w == width && h == height {
		return nil
	}

	c.emit(EventBeforeChangeSize)
	prevW, prevH := c.Node.Attr("width"), c.Node.Attr("height")
	oldW, oldH := c.size(s)
	surf := c.Surface()
	if surf != nil {
		if err := surf.Resize(width, height); err != nil {
			return errors.Wrap(op, errors.KindRender, err)
		}
	}
	c.Node.Set("width", width).Set("height", height)
	if err := c.Render(); err != nil {
		c.Node.SetAttr("width", prevW).SetAttr("height", prevH)
		if cur := c.Surface(); cur != nil {
			cur.Resize(oldW, oldH)
		}
		return err
	}
	c.emit(EventAfterChangeSize)
	return nil
}

// ChangeData replaces the root's data and re-renders.
func (c *Chart) ChangeData(data any) error {
	const op = "chart.ChangeData"
	if err := c.checkAlive(op); err != nil {
		return err
	}
	c.emit(EventBeforeChangeData)
	c.Node.Set("data", data)
	if err := c.Render(); err != nil {
		return err
	}
	c.emit(EventAfterChangeData)
	return nil
}

// ForceFit measures the container and resizes the chart to it. Dimensions
// that measure as zero keep their configured value.
func (c *Chart) ForceFit() error {
	const op = "chart.ForceFit"
	if err := c.checkAlive(op); err != nil {
		return err
	}
	s, err := c.Options()
	if err != nil {
		return errors.Wrap(op, errors.KindRoot, err)
	}
	cw, ch := c.size(s)
	w, h := fitSize(c.container, true, cw, ch)
	return c.ChangeSize(w, h)
}

// Clear destroys the surface. The next Render creates a new one.
func (c *Chart) Clear() error {
	const op = "chart.Clear"
	if err := c.checkAlive(op); err != nil {
		return err
	}
	c.emit(EventBeforeClear)
	c.mu.Lock()
	surf := c.surface
	c.surface = nil
	c.mu.Unlock()

	if surf != nil {
		c.container.Detach(surf)
		if err := surf.Destroy(); err != nil {
			return errors.Wrap(op, errors.KindRender, err)
		}
	}
	c.emit(EventAfterClear)
	return nil
}

// Destroy releases the surface, stops auto-fit and removes the container
// from its parent. Calling it again does nothing. Every other lifecycle
// method fails with DestroyedControllerError afterwards.
func (c *Chart) Destroy() error {
	const op = "chart.Destroy"
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return nil
	}
	c.destroyed = true
	surf := c.surface
	c.surface = nil
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	c.emit(EventBeforeDestroy)
	c.fit.cancel()
	if unsubscribe != nil {
		unsubscribe()
	}

	var err error
	if surf != nil {
		c.container.Detach(surf)
		err = errors.Wrap(op, errors.KindRender, surf.Destroy())
	}
	c.container.Remove()
	c.logger.Debug("chart destroyed")
	c.emit(EventAfterDestroy)
	return err
}
