package nodeid

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// DefaultPrefix is the node id prefix used by the counter sequence.
const DefaultPrefix = "dndnode_"

// Sequence mints identifiers that are unique within one editor session.
type Sequence interface {
	Next() string
}

// Counter is a monotonically increasing Sequence: prefix0, prefix1, ...
type Counter struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewCounter creates a counter sequence starting at zero.
func NewCounter(prefix string) *Counter {
	return &Counter{prefix: prefix}
}

// Next returns the next id and advances the counter.
func (c *Counter) Next() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := fmt.Sprintf("%s%d", c.prefix, c.next)
	c.next++
	return id
}

// Reset rewinds the counter to zero. Only meant for a fresh session.
func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next = 0
}

// UUID is a Sequence backed by random v4 UUIDs.
type UUID struct {
	prefix string
}

// NewUUID creates a UUID sequence with an optional prefix.
func NewUUID(prefix string) *UUID {
	return &UUID{prefix: prefix}
}

// Next returns a new random identifier.
func (u *UUID) Next() string {
	return u.prefix + uuid.NewString()
}
