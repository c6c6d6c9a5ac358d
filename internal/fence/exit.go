package fence

import "sync"

// ExitCounter counts roles that have not yet stopped.
type ExitCounter struct {
	mu        sync.Mutex
	cond      *sync.Cond
	remaining int
}

// NewExitCounter returns a counter armed for n roles.
func NewExitCounter(n int) *ExitCounter {
	c := &ExitCounter{remaining: n}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Done records one role exit. Each role calls it exactly once; the counter
// does not go below zero.
func (c *ExitCounter) Done() {
	c.mu.Lock()
	if c.remaining > 0 {
		c.remaining--
	}
	c.mu.Unlock()
	c.cond.Broadcast()
}

// Wait blocks until every role has called Done.
func (c *ExitCounter) Wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.remaining > 0 {
		c.cond.Wait()
	}
}

func (c *ExitCounter) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}
