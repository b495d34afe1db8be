package state

import (
	"testing"
	"time"
)

func TestSeen(t *testing.T) {
	s := NewStore()

	if _, ok := s.Seen("!11223344"); ok {
		t.Error("Seen before MarkSeen should not be ok")
	}

	first := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s.MarkSeen("!11223344", first)

	at, ok := s.Seen("!11223344")
	if !ok || !at.Equal(first) {
		t.Errorf("Seen = (%v, %v)", at, ok)
	}

	// Later activity overwrites.
	second := first.Add(time.Minute)
	s.MarkSeen("!11223344", second)
	if at, _ := s.Seen("!11223344"); !at.Equal(second) {
		t.Errorf("Seen = %v, want %v", at, second)
	}

	s.MarkSeen("!aabbccdd", second)
	if s.SeenCount() != 2 {
		t.Errorf("SeenCount = %d, want 2", s.SeenCount())
	}
}

func TestCounters(t *testing.T) {
	s := NewStore()

	if s.Counter(CounterMessagesSeen) != 0 {
		t.Error("fresh counter should be zero")
	}

	s.Inc(CounterMessagesSeen)
	s.Inc(CounterMessagesSeen)
	s.Inc(CounterCommandsExecuted)

	if got := s.Counter(CounterMessagesSeen); got != 2 {
		t.Errorf("messages_seen = %d, want 2", got)
	}
	if got := s.Counter(CounterCommandsExecuted); got != 1 {
		t.Errorf("commands_executed = %d, want 1", got)
	}
}

func TestUptime(t *testing.T) {
	s := NewStore()
	now := s.StartedAt().Add(90 * time.Second)
	if got := s.Uptime(now); got != 90*time.Second {
		t.Errorf("Uptime = %v, want 90s", got)
	}
}
