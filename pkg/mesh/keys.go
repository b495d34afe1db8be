package mesh

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hpavl/meshbot/pkg/bus"
)

// Canonical node keys are "!" followed by eight lowercase hex digits.
// Display names are never used as storage keys, only keys are.
var hexKeyPattern = regexp.MustCompile(`^![0-9a-fA-F]{8}$`)

// CanonicalKey renders a raw node number as a canonical key.
func CanonicalKey(num uint32) string {
	return fmt.Sprintf("!%08x", num)
}

// NormalizeKey lowercases a user-supplied hex id if it has the canonical
// shape. Directory membership is not checked here.
func NormalizeKey(token string) (string, bool) {
	token = strings.TrimSpace(token)
	if !hexKeyPattern.MatchString(token) {
		return "", false
	}
	return strings.ToLower(token), true
}

// SenderKey derives the canonical key for the originator of a packet.
// The bridge may report the sender as a pre-formatted hex id, a raw node
// number, or both; all forms collapse to the same key.
func SenderKey(ev bus.PacketEvent) string {
	if key, ok := NormalizeKey(ev.FromID); ok {
		return key
	}
	if ev.From != 0 {
		return CanonicalKey(ev.From)
	}
	return "unknown"
}

// Clamp truncates s to at most n runes, replacing the truncated tail
// with a single ellipsis rune so the marker is the final character.
func Clamp(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	if n < 1 {
		return ""
	}
	return string(runes[:n-1]) + "…"
}
