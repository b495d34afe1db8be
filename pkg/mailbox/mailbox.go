package mailbox

import (
	"sync"
	"time"
)

// Message is one undelivered note waiting for its recipient to show up.
// The sender label is rendered at creation time so later directory
// changes don't alter historical attribution.
type Message struct {
	CreatedAt   time.Time
	FromDisplay string
	Text        string
}

// Mailbox holds pending messages per destination key with lazy TTL
// eviction: every operation purges expired messages first, and a key
// whose last message expired disappears entirely. Delivery order is
// insertion order.
//
// All operations are serialized behind one mutex; purge+mutate is not
// atomic otherwise and concurrent pops on the same key must never
// double-deliver.
type Mailbox struct {
	ttl       time.Duration
	perKeyCap int

	mu    sync.Mutex
	store map[string][]Message
	now   func() time.Time
}

// New creates a mailbox. perKeyCap bounds pending messages per
// destination (oldest evicted first); 0 means unlimited.
func New(ttl time.Duration, perKeyCap int) *Mailbox {
	return &Mailbox{
		ttl:       ttl,
		perKeyCap: perKeyCap,
		store:     make(map[string][]Message),
		now:       time.Now,
	}
}

// purge drops expired messages under every key. Caller holds mu.
func (m *Mailbox) purge() {
	cutoff := m.now().Add(-m.ttl)
	for key, msgs := range m.store {
		kept := msgs[:0]
		for _, msg := range msgs {
			if msg.CreatedAt.After(cutoff) {
				kept = append(kept, msg)
			}
		}
		if len(kept) == 0 {
			delete(m.store, key)
		} else {
			m.store[key] = kept
		}
	}
}

// Add appends a message for destKey, evicting oldest-first when the
// per-key cap is exceeded.
func (m *Mailbox) Add(destKey string, msg Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purge()

	queue := append(m.store[destKey], msg)
	if m.perKeyCap > 0 && len(queue) > m.perKeyCap {
		queue = queue[len(queue)-m.perKeyCap:]
	}
	m.store[destKey] = queue
}

// GetFor returns a snapshot of pending messages for destKey without
// removing them.
func (m *Mailbox) GetFor(destKey string) []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purge()

	msgs := m.store[destKey]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// PopFor removes and returns all pending messages for destKey. A second
// pop returns nothing.
func (m *Mailbox) PopFor(destKey string) []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purge()

	msgs := m.store[destKey]
	delete(m.store, destKey)
	return msgs
}

// Pending reports the total number of undelivered messages.
func (m *Mailbox) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purge()

	total := 0
	for _, msgs := range m.store {
		total += len(msgs)
	}
	return total
}
