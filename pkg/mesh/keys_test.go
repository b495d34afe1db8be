package mesh

import (
	"testing"
	"unicode/utf8"

	"github.com/hpavl/meshbot/pkg/bus"
)

func TestCanonicalKey(t *testing.T) {
	if got := CanonicalKey(0x11223344); got != "!11223344" {
		t.Errorf("CanonicalKey = %q, want !11223344", got)
	}
	if got := CanonicalKey(0xAB); got != "!000000ab" {
		t.Errorf("CanonicalKey = %q, want !000000ab", got)
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		token string
		want  string
		ok    bool
	}{
		{"!a1b2c3d4", "!a1b2c3d4", true},
		{"!A1B2C3D4", "!a1b2c3d4", true},
		{" !a1b2c3d4 ", "!a1b2c3d4", true},
		{"a1b2c3d4", "", false},
		{"!a1b2c3", "", false},
		{"!a1b2c3d4e5", "", false},
		{"!g1b2c3d4", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeKey(tt.token)
		if got != tt.want || ok != tt.ok {
			t.Errorf("NormalizeKey(%q) = (%q, %v), want (%q, %v)", tt.token, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSenderKeyFormsAgree(t *testing.T) {
	// Integer node numbers and pre-formatted hex ids must normalize to
	// the same canonical key.
	byNum := SenderKey(bus.PacketEvent{From: 0x11223344})
	byID := SenderKey(bus.PacketEvent{FromID: "!11223344"})
	byUpperID := SenderKey(bus.PacketEvent{FromID: "!11223344", From: 0})
	if byNum != byID || byID != byUpperID {
		t.Errorf("sender keys disagree: %q %q %q", byNum, byID, byUpperID)
	}
	if byNum != "!11223344" {
		t.Errorf("SenderKey = %q, want !11223344", byNum)
	}

	if got := SenderKey(bus.PacketEvent{}); got != "unknown" {
		t.Errorf("SenderKey on empty event = %q, want unknown", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short enough", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"truncated", "hello world", 6, "hello…"},
		{"unicode", "čtyřikrát", 5, "čtyř…"},
		{"zero", "hi", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.in, tt.n)
			if got != tt.want {
				t.Errorf("Clamp(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}

func TestClampMarkerIsFinalRune(t *testing.T) {
	got := Clamp("a very long reply that will not fit in the budget", 12)
	if utf8.RuneCountInString(got) != 12 {
		t.Errorf("clamped length = %d runes, want 12", utf8.RuneCountInString(got))
	}
	runes := []rune(got)
	if runes[len(runes)-1] != '…' {
		t.Errorf("final rune = %q, want ellipsis", runes[len(runes)-1])
	}
}
