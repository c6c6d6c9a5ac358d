// Package fence synchronizes the producer with frame completion on the
// consumer, and counts role exits at shutdown.
package fence

import (
	"errors"
	"sync"
)

var ErrAborted = errors.New("fence: aborted")

// Fence tracks frame generations. The producer requests a generation per
// frame; the consumer signals completion in order. completed never exceeds
// requested and neither counter ever decreases.
type Fence struct {
	mu        sync.Mutex
	cond      *sync.Cond
	requested uint64
	completed uint64
	err       error
}

func New() *Fence {
	f := &Fence{}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Request allocates the next generation.
func (f *Fence) Request() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested++
	return f.requested
}

// Signal marks every generation up to gen as complete. gen is clamped to
// requested; a stale gen is ignored.
func (f *Fence) Signal(gen uint64) {
	f.mu.Lock()
	if gen > f.requested {
		gen = f.requested
	}
	if gen > f.completed {
		f.completed = gen
	}
	f.mu.Unlock()
	f.cond.Broadcast()
}

// Wait blocks until gen has completed. After Abort, waiters whose
// generation was not reached return the abort error.
func (f *Fence) Wait(gen uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for f.completed < gen {
		if f.err != nil {
			return f.err
		}
		f.cond.Wait()
	}
	return nil
}

// Abort fails every current and future Wait on an unreached generation.
// The first non-nil error wins; a nil err becomes ErrAborted.
func (f *Fence) Abort(err error) {
	if err == nil {
		err = ErrAborted
	}
	f.mu.Lock()
	if f.err == nil {
		f.err = err
	}
	f.mu.Unlock()
	f.cond.Broadcast()
}

func (f *Fence) Requested() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requested
}

func (f *Fence) Completed() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completed
}
