// Package unit holds the lifecycle state shared by the producer and consumer
// roles.
package unit

import (
	"fmt"
	"sync/atomic"
)

type State int32

const (
	Uninitialized State = iota
	Running
	Exiting
	Stopped
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Exiting:
		return "exiting"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Status is a role's current State, readable from any goroutine.
type Status struct {
	v atomic.Int32
}

func (s *Status) Load() State {
	return State(s.v.Load())
}

func (s *Status) Store(st State) {
	s.v.Store(int32(st))
}

// Transition moves from one state to another and reports whether the role
// was in from.
func (s *Status) Transition(from, to State) bool {
	return s.v.CompareAndSwap(int32(from), int32(to))
}
