package mailbox

import (
	"fmt"
	"testing"
	"time"
)

// withClock pins the mailbox clock so TTL behavior is deterministic.
func withClock(m *Mailbox) *time.Time {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	current := &now
	m.now = func() time.Time { return *current }
	return current
}

func TestPopExactlyOnce(t *testing.T) {
	m := New(time.Hour, 0)
	clock := withClock(m)

	m.Add("!11223344", Message{CreatedAt: *clock, FromDisplay: "alfa", Text: "first"})
	m.Add("!11223344", Message{CreatedAt: *clock, FromDisplay: "alfa", Text: "second"})

	got := m.PopFor("!11223344")
	if len(got) != 2 {
		t.Fatalf("PopFor returned %d messages, want 2", len(got))
	}
	// Insertion order is delivery order.
	if got[0].Text != "first" || got[1].Text != "second" {
		t.Errorf("order = %q, %q", got[0].Text, got[1].Text)
	}

	if again := m.PopFor("!11223344"); len(again) != 0 {
		t.Errorf("second pop returned %d messages, want 0", len(again))
	}
}

func TestTTLExpiry(t *testing.T) {
	m := New(time.Hour, 0)
	clock := withClock(m)

	m.Add("!11223344", Message{CreatedAt: *clock, FromDisplay: "alfa", Text: "old"})

	*clock = clock.Add(30 * time.Minute)
	m.Add("!11223344", Message{CreatedAt: *clock, FromDisplay: "alfa", Text: "fresh"})

	// 61 minutes after the first add: only the second survives.
	*clock = clock.Add(31 * time.Minute)
	got := m.GetFor("!11223344")
	if len(got) != 1 || got[0].Text != "fresh" {
		t.Fatalf("GetFor = %v, want only the fresh message", got)
	}

	// Once the last message expires the key vanishes entirely.
	*clock = clock.Add(time.Hour)
	if got := m.GetFor("!11223344"); len(got) != 0 {
		t.Errorf("GetFor after full expiry = %v, want empty", got)
	}
	if m.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", m.Pending())
	}
}

func TestExpiryPurgesOtherKeys(t *testing.T) {
	m := New(time.Hour, 0)
	clock := withClock(m)

	m.Add("!0000000a", Message{CreatedAt: *clock, Text: "a"})
	m.Add("!0000000b", Message{CreatedAt: *clock, Text: "b"})

	*clock = clock.Add(2 * time.Hour)

	// Touching one key purges all keys; no empty entries leak.
	m.GetFor("!0000000a")
	if m.Pending() != 0 {
		t.Errorf("Pending = %d, want 0 after purge", m.Pending())
	}
}

func TestGetForIsNonDestructive(t *testing.T) {
	m := New(time.Hour, 0)
	clock := withClock(m)

	m.Add("!11223344", Message{CreatedAt: *clock, Text: "keep me"})

	first := m.GetFor("!11223344")
	second := m.GetFor("!11223344")
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("GetFor destructive: %d then %d", len(first), len(second))
	}

	// Mutating the snapshot must not touch the store.
	first[0].Text = "mutated"
	if got := m.GetFor("!11223344"); got[0].Text != "keep me" {
		t.Error("snapshot aliases internal storage")
	}
}

func TestPerKeyCapEvictsOldestFirst(t *testing.T) {
	m := New(time.Hour, 3)
	clock := withClock(m)

	for i := 0; i < 5; i++ {
		m.Add("!11223344", Message{CreatedAt: *clock, Text: fmt.Sprintf("msg-%d", i)})
	}

	got := m.GetFor("!11223344")
	if len(got) != 3 {
		t.Fatalf("len = %d, want cap 3", len(got))
	}
	for i, want := range []string{"msg-2", "msg-3", "msg-4"} {
		if got[i].Text != want {
			t.Errorf("got[%d] = %q, want %q", i, got[i].Text, want)
		}
	}
}

func TestKeysAreIndependent(t *testing.T) {
	m := New(time.Hour, 0)
	clock := withClock(m)

	m.Add("!0000000a", Message{CreatedAt: *clock, Text: "for a"})
	m.Add("!0000000b", Message{CreatedAt: *clock, Text: "for b"})

	if got := m.PopFor("!0000000a"); len(got) != 1 {
		t.Fatalf("PopFor(a) = %d messages", len(got))
	}
	if got := m.GetFor("!0000000b"); len(got) != 1 {
		t.Errorf("popping a drained b")
	}
}
