package fence

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestFence_SignalClampsToRequested(t *testing.T) {
	f := New()
	f.Signal(5)
	if got := f.Completed(); got != 0 {
		t.Errorf("Completed() = %d after signal with nothing requested, want 0", got)
	}
	f.Request()
	f.Request()
	f.Signal(10)
	if got := f.Completed(); got != 2 {
		t.Errorf("Completed() = %d, want 2", got)
	}
	f.Signal(1)
	if got := f.Completed(); got != 2 {
		t.Errorf("Completed() = %d after stale signal, want 2", got)
	}
}

func TestFence_WaitReturnsAfterSignal(t *testing.T) {
	f := New()
	gen := f.Request()

	done := make(chan error, 1)
	go func() { done <- f.Wait(gen) }()

	select {
	case <-done:
		t.Fatal("Wait returned before Signal")
	case <-time.After(20 * time.Millisecond):
	}

	f.Signal(gen)
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Wait() = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Signal")
	}
}

func TestFence_WaitCompletedReturnsImmediately(t *testing.T) {
	f := New()
	gen := f.Request()
	f.Signal(gen)
	f.Abort(errors.New("late"))
	if err := f.Wait(gen); err != nil {
		t.Errorf("Wait(completed) after Abort = %v, want nil", err)
	}
}

func TestFence_Abort(t *testing.T) {
	f := New()
	gen := f.Request()
	boom := errors.New("consumer failed")

	done := make(chan error, 1)
	go func() { done <- f.Wait(gen) }()
	f.Abort(boom)

	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Errorf("Wait() = %v, want %v", err, boom)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Abort")
	}

	f.Abort(nil)
	if err := f.Wait(f.Request()); !errors.Is(err, boom) {
		t.Errorf("Wait after second Abort = %v, want first error", err)
	}
}

func TestFence_AbortNil(t *testing.T) {
	f := New()
	f.Abort(nil)
	if err := f.Wait(f.Request()); !errors.Is(err, ErrAborted) {
		t.Errorf("Wait() = %v, want ErrAborted", err)
	}
}

func TestFence_Monotonic(t *testing.T) {
	f := New()
	const frames = 200

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := uint64(1); i <= frames; i++ {
			for f.Requested() < i {
				time.Sleep(time.Microsecond)
			}
			f.Signal(i)
		}
	}()

	var last uint64
	for i := 0; i < frames; i++ {
		gen := f.Request()
		if err := f.Wait(gen); err != nil {
			t.Fatalf("Wait(%d) = %v", gen, err)
		}
		c := f.Completed()
		if c < last {
			t.Fatalf("Completed() went from %d to %d", last, c)
		}
		if c > f.Requested() {
			t.Fatalf("Completed() = %d exceeds Requested() = %d", c, f.Requested())
		}
		last = c
	}
	wg.Wait()
}

func TestExitCounter(t *testing.T) {
	c := NewExitCounter(2)

	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()

	c.Done()
	select {
	case <-done:
		t.Fatal("Wait returned with one role still running")
	case <-time.After(20 * time.Millisecond):
	}
	if got := c.Remaining(); got != 1 {
		t.Errorf("Remaining() = %d, want 1", got)
	}

	c.Done()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after both roles exited")
	}

	c.Done()
	if got := c.Remaining(); got != 0 {
		t.Errorf("Remaining() = %d after extra Done, want 0", got)
	}
}
