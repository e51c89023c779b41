package pipeline

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// identityNamespace seeds the deterministic UUID derivation. Changing it
// re-keys every stored record; it must never change.
var identityNamespace = uuid.MustParse("9f2c4e61-7b3a-4d8f-a1c5-0e6d8b24f973")

// ResolveIdentity computes the identity key for a normalized record: a
// namespace UUID over the tuple (brand, actor, amount, posted_at_iso).
// The user-entered display ID is excluded — it is cosmetic and unstable,
// and must never influence identity. Two records resolve to the same key
// iff the tuple matches exactly after normalization.
func ResolveIdentity(r *Record) string {
	iso := ""
	if r.PostedAtISO != nil {
		iso = *r.PostedAtISO
	}
	parts := []string{
		r.Brand,
		r.Actor,
		strconv.FormatFloat(r.Amount, 'f', -1, 64),
		iso,
	}
	// Each field is quoted before joining so a delimiter inside a field
	// cannot shift tuple boundaries.
	for i, p := range parts {
		parts[i] = strconv.Quote(p)
	}
	return uuid.NewSHA1(identityNamespace, []byte(strings.Join(parts, "|"))).String()
}
