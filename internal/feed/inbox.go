// Package feed delivers progress messages to the frame thread. Producers
// (WebSocket connections, the local wheel) post raw message bytes to an
// Inbox; the frame loop drains it once per frame in arrival order.
package feed

import "sync"

// Inbox is an unbounded FIFO of raw messages, safe for concurrent use.
type Inbox struct {
	mu   sync.Mutex
	msgs [][]byte
}

// NewInbox creates an empty inbox.
func NewInbox() *Inbox {
	return &Inbox{}
}

// Post appends a copy of msg.
func (b *Inbox) Post(msg []byte) {
	c := make([]byte, len(msg))
	copy(c, msg)
	b.mu.Lock()
	b.msgs = append(b.msgs, c)
	b.mu.Unlock()
}

// Drain removes every queued message and appends them to dst in the
// order they were posted.
func (b *Inbox) Drain(dst [][]byte) [][]byte {
	b.mu.Lock()
	dst = append(dst, b.msgs...)
	clear(b.msgs)
	b.msgs = b.msgs[:0]
	b.mu.Unlock()
	return dst
}

// Len returns the number of queued messages.
func (b *Inbox) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.msgs)
}
