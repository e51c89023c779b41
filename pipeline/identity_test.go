package pipeline

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func baseRecord() *Record {
	return &Record{
		Brand:       "M1",
		DisplayID:   "dep-1",
		Actor:       "john",
		Amount:      1200.50,
		PostedAtISO: strPtr("2023-11-14 22:13:20+00:00"),
		UpdatedAt:   time.Now(),
	}
}

// TestResolveIdentityDeterminism tests that identical tuples always resolve
// to the identical key
func TestResolveIdentityDeterminism(t *testing.T) {
	a := baseRecord()
	b := baseRecord()

	k1 := ResolveIdentity(a)
	k2 := ResolveIdentity(a)
	k3 := ResolveIdentity(b)

	if k1 != k2 {
		t.Errorf("repeated resolution differs: %s vs %s", k1, k2)
	}
	if k1 != k3 {
		t.Errorf("equal tuples resolve differently: %s vs %s", k1, k3)
	}
}

// TestResolveIdentityIgnoresDisplayID tests that the user-entered display
// identifier never influences identity
func TestResolveIdentityIgnoresDisplayID(t *testing.T) {
	a := baseRecord()
	b := baseRecord()
	b.DisplayID = "completely different"

	if ResolveIdentity(a) != ResolveIdentity(b) {
		t.Error("records differing only in display_id resolved to different keys")
	}
}

// TestResolveIdentitySensitivity tests that changing any tuple field changes
// the key
func TestResolveIdentitySensitivity(t *testing.T) {
	base := ResolveIdentity(baseRecord())

	tests := []struct {
		name   string
		mutate func(*Record)
	}{
		{"brand", func(r *Record) { r.Brand = "M2" }},
		{"actor", func(r *Record) { r.Actor = "jane" }},
		{"amount", func(r *Record) { r.Amount = 1200.51 }},
		{"posted_at_iso", func(r *Record) { r.PostedAtISO = strPtr("2023-11-14 22:13:21+00:00") }},
		{"posted_at_iso to null", func(r *Record) { r.PostedAtISO = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := baseRecord()
			tt.mutate(r)
			if ResolveIdentity(r) == base {
				t.Errorf("changing %s did not change the key", tt.name)
			}
		})
	}
}

// TestResolveIdentityDelimiterBoundary tests that a delimiter character
// inside a field cannot shift tuple boundaries
func TestResolveIdentityDelimiterBoundary(t *testing.T) {
	a := &Record{Brand: "M1", Actor: "a|b", Amount: 1}
	b := &Record{Brand: "M1|a", Actor: "b", Amount: 1}

	if ResolveIdentity(a) == ResolveIdentity(b) {
		t.Error("delimiter inside a field collided across the boundary")
	}

	// The delimiter-bearing actor must still resolve deterministically.
	if ResolveIdentity(a) != ResolveIdentity(&Record{Brand: "M1", Actor: "a|b", Amount: 1}) {
		t.Error("delimiter-bearing tuple is not deterministic")
	}
}

// TestResolveIdentityUUIDShape tests that keys are well-formed UUID strings
func TestResolveIdentityUUIDShape(t *testing.T) {
	key := ResolveIdentity(baseRecord())
	if len(key) != 36 {
		t.Errorf("key %q is not a canonical UUID string", key)
	}
}
