package chart

import (
	"sync"

	"github.com/go-drift/chart/pkg/errors"
)

// Event names a lifecycle notification. Every event comes as a before/after
// pair around the operation it describes.
type Event string

// Lifecycle events.
const (
	// EventBeforeRender fires when Render starts, before flattening.
	EventBeforeRender Event = "beforerender"
	// EventAfterRender fires once the surface is painted and attached.
	EventAfterRender Event = "afterrender"
	// EventBeforePaint fires before the runtime draws the spec.
	EventBeforePaint Event = "beforepaint"
	// EventAfterPaint fires after the runtime drew the spec.
	EventAfterPaint Event = "afterpaint"
	// EventBeforeChangeData fires before ChangeData replaces the data.
	EventBeforeChangeData Event = "beforechangedata"
	// EventAfterChangeData fires after ChangeData re-rendered.
	EventAfterChangeData Event = "afterchangedata"
	// EventBeforeClear fires before Clear releases the surface.
	EventBeforeClear Event = "beforeclear"
	// EventAfterClear fires after Clear released the surface.
	EventAfterClear Event = "afterclear"
	// EventBeforeDestroy fires when Destroy starts.
	EventBeforeDestroy Event = "beforedestroy"
	// EventAfterDestroy fires when Destroy finished.
	EventAfterDestroy Event = "afterdestroy"
	// EventBeforeChangeSize fires before ChangeSize resizes anything.
	EventBeforeChangeSize Event = "beforechangesize"
	// EventAfterChangeSize fires after ChangeSize re-rendered.
	EventAfterChangeSize Event = "afterchangesize"
)

// Events lists every lifecycle event in before/after pairs.
var Events = []Event{
	EventBeforeRender, EventAfterRender,
	EventBeforePaint, EventAfterPaint,
	EventBeforeChangeData, EventAfterChangeData,
	EventBeforeClear, EventAfterClear,
	EventBeforeDestroy, EventAfterDestroy,
	EventBeforeChangeSize, EventAfterChangeSize,
}

// Handler is called when a lifecycle event fires.
type Handler func(Event)

type registration struct {
	id int
	fn Handler
}

// emitter dispatches lifecycle events. Handlers run without the lock held
// so they may call back into the chart.
type emitter struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[Event][]registration
}

func (e *emitter) on(ev Event, fn Handler) func() {
	e.mu.Lock()
	if e.handlers == nil {
		e.handlers = make(map[Event][]registration)
	}
	e.nextID++
	id := e.nextID
	e.handlers[ev] = append(e.handlers[ev], registration{id: id, fn: fn})
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		regs := e.handlers[ev]
		for i, r := range regs {
			if r.id == id {
				e.handlers[ev] = append(regs[:i:i], regs[i+1:]...)
				return
			}
		}
	}
}

func (e *emitter) emit(ev Event) {
	e.mu.RLock()
	regs := make([]registration, len(e.handlers[ev]))
	copy(regs, e.handlers[ev])
	e.mu.RUnlock()

	for _, r := range regs {
		call(ev, r.fn)
	}
}

func call(ev Event, fn Handler) {
	defer errors.Recover("chart.emit:" + string(ev))
	fn(ev)
}
