// Package loop runs the single event loop every scene mutation goes
// through: posted callbacks, frame ticks and interval timers all execute on
// one goroutine, serialized, never concurrently. The simulation advances via
// the frame tick, not via threads of its own.
package loop

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"
)

// DefaultFrameInterval approximates a 60fps frame cadence.
const DefaultFrameInterval = 16 * time.Millisecond

// ErrorHandler receives recovered panics from loop callbacks.
type ErrorHandler func(err error)

// debugLog is set by embedding code that wants loop tracing.
var debugLog func(args ...interface{})

// SetDebugLog sets the debug logging function.
func SetDebugLog(fn func(args ...interface{})) {
	debugLog = fn
}

// Loop is a cooperative, single-goroutine event loop.
type Loop struct {
	ops     chan func()
	quit    chan struct{}
	running atomic.Bool

	frameInterval time.Duration
	onFrame       func()

	onError ErrorHandler
}

// New returns a loop ticking frames at the given interval. A non-positive
// interval falls back to the default cadence.
func New(frameInterval time.Duration) *Loop {
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}
	return &Loop{
		ops:           make(chan func(), 1024),
		quit:          make(chan struct{}),
		frameInterval: frameInterval,
	}
}

// OnFrame sets the per-frame callback. Set it before Start.
func (l *Loop) OnFrame(fn func()) { l.onFrame = fn }

// SetErrorHandler sets the panic handler for callbacks. Without one,
// recovered panics are swallowed after optional debug logging.
func (l *Loop) SetErrorHandler(h ErrorHandler) { l.onError = h }

// Start spins up the loop goroutine. Starting twice is a no-op.
func (l *Loop) Start() {
	if !l.running.CompareAndSwap(false, true) {
		return
	}
	go l.run()
}

// Stop terminates the loop. Pending posted callbacks are dropped.
func (l *Loop) Stop() {
	if l.running.CompareAndSwap(true, false) {
		close(l.quit)
	}
}

// Running reports whether the loop goroutine is alive.
func (l *Loop) Running() bool { return l.running.Load() }

// Post queues fn for execution on the loop goroutine.
func (l *Loop) Post(fn func()) {
	select {
	case l.ops <- fn:
	case <-l.quit:
	}
}

// Invoke runs fn on the loop when it is running, and inline otherwise.
// Inline execution keeps the same serialization guarantee for callers that
// drive the engine synchronously (exports, tests).
func (l *Loop) Invoke(fn func()) {
	if l.running.Load() {
		l.Post(fn)
		return
	}
	l.safely(fn)
}

// Ticker fires a callback on the loop at a fixed interval until stopped.
type Ticker struct {
	stop chan struct{}
	done atomic.Bool
}

// Stop cancels the ticker. Safe to call more than once.
func (t *Ticker) Stop() {
	if t.done.CompareAndSwap(false, true) {
		close(t.stop)
	}
}

// Every schedules fn on the loop at the given interval and returns the
// ticker controlling it. The callback itself always runs on the loop
// goroutine.
func (l *Loop) Every(interval time.Duration, fn func()) *Ticker {
	t := &Ticker{stop: make(chan struct{})}
	go func() {
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			select {
			case <-tick.C:
				l.Post(fn)
			case <-t.stop:
				return
			case <-l.quit:
				return
			}
		}
	}()
	return t
}

func (l *Loop) run() {
	if debugLog != nil {
		debugLog("[loop] started, frame interval", l.frameInterval)
	}
	frames := time.NewTicker(l.frameInterval)
	defer frames.Stop()

	for {
		select {
		case fn := <-l.ops:
			l.safely(fn)
		case <-frames.C:
			if l.onFrame != nil {
				l.safely(l.onFrame)
			}
		case <-l.quit:
			if debugLog != nil {
				debugLog("[loop] stopped")
			}
			return
		}
	}
}

func (l *Loop) safely(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("loop callback panic: %v\n%s", r, debug.Stack())
			if l.onError != nil {
				l.onError(err)
			} else if debugLog != nil {
				debugLog("[loop]", err)
			}
		}
	}()
	fn()
}
