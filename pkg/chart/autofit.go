package chart

import (
	"sync"
	"time"
)

// AutoFitDelay is how long resize notifications must stay quiet before the
// chart re-measures its container.
const AutoFitDelay = 300 * time.Millisecond

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	// AfterFunc runs f after d. The returned function cancels the call and
	// reports whether it was still pending.
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

// Loop is implemented by schedulers whose callbacks the host runs itself.
type Loop interface {
	// Ready receives a value whenever callbacks become due.
	Ready() <-chan struct{}
	// RunPending runs every due callback on the calling goroutine and
	// returns how many ran.
	RunPending() int
}

// LoopScheduler is the default Scheduler. Its timers never call back into
// the chart: a due callback is queued until the host calls RunPending from
// the goroutine that owns the chart.
type LoopScheduler struct {
	mu    sync.Mutex
	ready []*loopTask
	wake  chan struct{}
}

type loopTask struct {
	f         func()
	queued    bool
	cancelled bool
	ran       bool
}

// NewLoopScheduler returns an empty LoopScheduler.
func NewLoopScheduler() *LoopScheduler {
	return &LoopScheduler{wake: make(chan struct{}, 1)}
}

// AfterFunc queues f for RunPending once d has elapsed.
func (l *LoopScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	task := &loopTask{f: f}
	timer := time.AfterFunc(d, func() {
		l.mu.Lock()
		if task.cancelled {
			l.mu.Unlock()
			return
		}
		task.queued = true
		l.ready = append(l.ready, task)
		l.mu.Unlock()

		select {
		case l.wake <- struct{}{}:
		default:
		}
	})
	return func() bool {
		timer.Stop()
		l.mu.Lock()
		defer l.mu.Unlock()
		if task.cancelled || task.ran {
			return false
		}
		task.cancelled = true
		return true
	}
}

// Ready receives a value whenever callbacks become due. Several due
// callbacks may share one wake-up.
func (l *LoopScheduler) Ready() <-chan struct{} { return l.wake }

// RunPending runs the due callbacks in the order they became due.
// Callbacks cancelled after becoming due are skipped.
func (l *LoopScheduler) RunPending() int {
	l.mu.Lock()
	tasks := l.ready
	l.ready = nil
	l.mu.Unlock()

	n := 0
	for _, task := range tasks {
		l.mu.Lock()
		skip := task.cancelled
		task.ran = true
		l.mu.Unlock()
		if skip {
			continue
		}
		task.f()
		n++
	}
	return n
}

// Pending returns the number of due callbacks waiting for RunPending.
func (l *LoopScheduler) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, task := range l.ready {
		if !task.cancelled {
			n++
		}
	}
	return n
}

// ResizeSource delivers container resize notifications.
type ResizeSource interface {
	// Subscribe registers fn and returns a function that removes it.
	Subscribe(fn func()) (unsubscribe func())
}

// ResizeNotifier is a ResizeSource fed by the host calling Notify.
type ResizeNotifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func()
}

// Subscribe registers fn to be called by Notify and returns a function
// that removes it.
func (r *ResizeNotifier) Subscribe(fn func()) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.subs == nil {
		r.subs = make(map[int]func())
	}
	r.nextID++
	id := r.nextID
	r.subs[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
	}
}

// Notify calls every subscriber on the calling goroutine.
func (r *ResizeNotifier) Notify() {
	r.mu.Lock()
	fns := make([]func(), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Subscribers returns the number of active subscriptions.
func (r *ResizeNotifier) Subscribers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// debouncer runs fn once after calls to trigger stop arriving for delay.
// Each trigger restarts the wait; cancel stops it for good.
type debouncer struct {
	sched Scheduler
	delay time.Duration
	fn    func()

	mu     sync.Mutex
	gen    int
	stop   func() bool
	closed bool
}

func newDebouncer(sched Scheduler, delay time.Duration, fn func()) *debouncer {
	return &debouncer{sched: sched, delay: delay, fn: fn}
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.stop != nil {
		d.stop()
	}
	d.gen++
	gen := d.gen
	d.stop = d.sched.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *debouncer) fire(gen int) {
	d.mu.Lock()
	if d.closed || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.stop = nil
	d.mu.Unlock()
	d.fn()
}

func (d *debouncer) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	if d.stop != nil {
		d.stop()
		d.stop = nil
	}
}
