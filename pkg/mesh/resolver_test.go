package mesh

import "testing"

func testTable() *Table {
	t := NewTable()
	t.Upsert(NodeInfo{Key: "!0000000a", ShortName: "ALFA", LongName: "Alfa Base"})
	t.Upsert(NodeInfo{Key: "!0000000b", LongName: "Bravo Repeater"})
	t.Upsert(NodeInfo{Key: "!0000000c", ShortName: "dup", LongName: "First Dup"})
	t.Upsert(NodeInfo{Key: "!0000000d", ShortName: "dup", LongName: "Second Dup"})
	return t
}

func TestResolveHexIDIdempotent(t *testing.T) {
	r := NewResolver(NewTable())

	// A canonical hex id resolves even with an empty directory.
	key, _, ok := r.Resolve("!A1B2C3D4")
	if !ok {
		t.Fatal("Resolve(!A1B2C3D4) not ok")
	}
	if key != "!a1b2c3d4" {
		t.Errorf("key = %q, want !a1b2c3d4", key)
	}

	again, _, _ := r.Resolve(key)
	if again != key {
		t.Errorf("resolving a resolved key changed it: %q -> %q", key, again)
	}
}

func TestResolveByName(t *testing.T) {
	r := NewResolver(testTable())

	tests := []struct {
		token       string
		wantKey     string
		wantDisplay string
		wantOK      bool
	}{
		{"ALFA", "!0000000a", "ALFA", true},
		{"alfa", "!0000000a", "ALFA", true},
		{"Alfa Base", "!0000000a", "ALFA", true},
		{"bravo repeater", "!0000000b", "Bravo Repeater", true},
		{"nobody", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		key, display, ok := r.Resolve(tt.token)
		if key != tt.wantKey || display != tt.wantDisplay || ok != tt.wantOK {
			t.Errorf("Resolve(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.token, key, display, ok, tt.wantKey, tt.wantDisplay, tt.wantOK)
		}
	}
}

func TestResolveAmbiguousNameFirstWins(t *testing.T) {
	r := NewResolver(testTable())

	// Two nodes share the short name "dup"; directory order (sorted by
	// key) makes !0000000c the first match, deterministically.
	key, _, ok := r.Resolve("dup")
	if !ok {
		t.Fatal("Resolve(dup) not ok")
	}
	if key != "!0000000c" {
		t.Errorf("key = %q, want first match !0000000c", key)
	}
}

func TestDisplayName(t *testing.T) {
	r := NewResolver(testTable())

	if name, ok := r.DisplayName("!0000000a"); !ok || name != "ALFA" {
		t.Errorf("DisplayName = (%q, %v), want (ALFA, true)", name, ok)
	}
	// Short name missing falls back to long name.
	if name, ok := r.DisplayName("!0000000b"); !ok || name != "Bravo Repeater" {
		t.Errorf("DisplayName = (%q, %v), want (Bravo Repeater, true)", name, ok)
	}
	if _, ok := r.DisplayName("!deadbeef"); ok {
		t.Error("DisplayName for unknown key should not be ok")
	}
}
