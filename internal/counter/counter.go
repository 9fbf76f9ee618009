package counter

import "sync"

// Counter is a named running total that is safe for concurrent use.
type Counter struct {
	name  string
	mu    sync.Mutex
	total int
}

func NewCounter(name string) *Counter {
	return &Counter{name: name}
}

func (c *Counter) Name() string {
	return c.name
}

// Add adds a value to the counter
func (c *Counter) Add(value int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total += value
}

func (c *Counter) Inc() {
	c.Add(1)
}

func (c *Counter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}
