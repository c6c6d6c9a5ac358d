// Package bus is the FIFO queue of render commands between the producer and
// the consumer.
package bus

import (
	"sync"

	"softgpu/internal/command"
)

// Bus is safe for concurrent use by any number of producers and consumers,
// though the device wires exactly one of each.
type Bus struct {
	mu    sync.Mutex
	queue []command.Command
	head  int

	ready chan struct{}
}

func New() *Bus {
	return &Bus{ready: make(chan struct{}, 1)}
}

// Push appends cmd to the tail and wakes a waiting consumer.
func (b *Bus) Push(cmd command.Command) {
	b.mu.Lock()
	b.queue = append(b.queue, cmd)
	b.mu.Unlock()

	select {
	case b.ready <- struct{}{}:
	default:
	}
}

// TryPop removes and returns the head command, or false when the bus is
// empty.
func (b *Bus) TryPop() (command.Command, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.head == len(b.queue) {
		return nil, false
	}
	cmd := b.queue[b.head]
	b.queue[b.head] = nil
	b.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if b.head == len(b.queue) {
		b.queue = b.queue[:0]
		b.head = 0
	} else if b.head > 64 && b.head*2 > len(b.queue) {
		n := copy(b.queue, b.queue[b.head:])
		clear(b.queue[n:])
		b.queue = b.queue[:n]
		b.head = 0
	}
	return cmd, true
}

// Len is a snapshot; it may be stale by the time the caller acts on it.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue) - b.head
}

func (b *Bus) Empty() bool {
	return b.Len() == 0
}

// Ready is signaled after a push. A receive does not guarantee a command is
// still queued, so the consumer re-polls with TryPop.
func (b *Bus) Ready() <-chan struct{} {
	return b.ready
}
