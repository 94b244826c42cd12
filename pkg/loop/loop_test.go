package loop

import (
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoop_PostRunsOnLoop(t *testing.T) {
	l := New(time.Hour) // keep frames out of the way
	l.Start()
	defer l.Stop()

	done := make(chan struct{})
	l.Post(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("posted callback never ran")
	}
}

func TestLoop_SerializesCallbacks(t *testing.T) {
	l := New(time.Hour)
	l.Start()
	defer l.Stop()

	var counter int64
	var overlap atomic.Bool
	var inFlight atomic.Bool

	done := make(chan struct{})
	const n = 200
	for i := 0; i < n; i++ {
		last := i == n-1
		l.Post(func() {
			if !inFlight.CompareAndSwap(false, true) {
				overlap.Store(true)
			}
			counter++
			inFlight.Store(false)
			if last {
				close(done)
			}
		})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("callbacks did not drain")
	}
	if overlap.Load() {
		t.Error("callbacks overlapped")
	}
	if counter != n {
		t.Errorf("ran %d callbacks, want %d", counter, n)
	}
}

func TestLoop_InvokeInlineWhenStopped(t *testing.T) {
	l := New(time.Hour)
	ran := false
	l.Invoke(func() { ran = true })
	if !ran {
		t.Error("Invoke on a stopped loop must run inline")
	}
}

func TestLoop_FrameCallback(t *testing.T) {
	l := New(time.Millisecond)
	var frames atomic.Int64
	l.OnFrame(func() { frames.Add(1) })
	l.Start()
	defer l.Stop()

	deadline := time.After(time.Second)
	for frames.Load() < 3 {
		select {
		case <-deadline:
			t.Fatal("frame ticker never fired")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestLoop_EveryAndTickerStop(t *testing.T) {
	l := New(time.Hour)
	l.Start()
	defer l.Stop()

	var hits atomic.Int64
	tk := l.Every(time.Millisecond, func() { hits.Add(1) })

	deadline := time.After(time.Second)
	for hits.Load() < 3 {
		select {
		case <-deadline:
			t.Fatal("interval callback never fired")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	tk.Stop()
	tk.Stop() // idempotent
	settled := hits.Load()
	time.Sleep(20 * time.Millisecond)
	// A late in-flight post may land, but the ticker must be dead.
	if hits.Load() > settled+1 {
		t.Errorf("ticker kept firing after Stop: %d -> %d", settled, hits.Load())
	}
}

func TestLoop_PanicRecovery(t *testing.T) {
	l := New(time.Hour)
	l.Start()
	defer l.Stop()

	errs := make(chan error, 1)
	l.SetErrorHandler(func(err error) { errs <- err })

	l.Post(func() { panic("boom") })
	alive := make(chan struct{})
	l.Post(func() { close(alive) })

	select {
	case err := <-errs:
		if !strings.Contains(err.Error(), "boom") {
			t.Errorf("recovered error %v does not mention the panic", err)
		}
	case <-time.After(time.Second):
		t.Fatal("error handler never saw the panic")
	}
	select {
	case <-alive:
	case <-time.After(time.Second):
		t.Fatal("loop died after a recovered panic")
	}
}

func TestLoop_StartTwiceAndStop(t *testing.T) {
	l := New(time.Hour)
	l.Start()
	l.Start() // no-op
	if !l.Running() {
		t.Fatal("loop not running after Start")
	}
	l.Stop()
	if l.Running() {
		t.Error("loop still reports running after Stop")
	}
	// Post after Stop must not block.
	done := make(chan struct{})
	go func() {
		l.Post(func() {})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Post blocked on a stopped loop")
	}
}
