package state

import (
	"sync"
	"time"
)

// Counter names shared between the gateway and command handlers.
const (
	CounterMessagesSeen     = "messages_seen"
	CounterCommandsExecuted = "commands_executed"
)

// Store is process-lifetime session state: last-seen timestamps per
// node key and named counters. Nothing here survives a restart.
type Store struct {
	mu       sync.RWMutex
	seen     map[string]time.Time
	counters map[string]int64
	started  time.Time
}

func NewStore() *Store {
	return &Store{
		seen:     make(map[string]time.Time),
		counters: make(map[string]int64),
		started:  time.Now(),
	}
}

// MarkSeen records activity from a node. Keys are canonical node keys,
// never display names.
func (s *Store) MarkSeen(key string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[key] = at
}

func (s *Store) Seen(key string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, ok := s.seen[key]
	return at, ok
}

// SeenCount reports how many distinct nodes were active this session.
func (s *Store) SeenCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}

func (s *Store) Inc(counter string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[counter]++
}

func (s *Store) Counter(name string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters[name]
}

func (s *Store) StartedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

func (s *Store) Uptime(now time.Time) time.Duration {
	return now.Sub(s.StartedAt())
}
