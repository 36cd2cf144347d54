package topology

import (
	"strings"

	"golang.org/x/text/cases"
)

// Resolver maps a free-text LLDP peer hint to a canonical device name.
// Implementations must be deterministic for a given hint and candidate set.
type Resolver interface {
	// Resolve returns the canonical name the hint refers to and true, or
	// ("", false) when no candidate matches.
	Resolve(hint string, canonical []string) (string, bool)
}

// PrefixResolver matches hints against canonical names by case-insensitive
// prefix comparison in either direction, so both a truncated hint ("leaf0")
// and a fully-qualified one ("leaf01.dc1.example.net") resolve to "leaf01".
//
// An exact case-insensitive match always wins. Among prefix candidates the
// longest canonical name wins, ties broken lexicographically, which keeps
// resolution stable regardless of candidate order.
type PrefixResolver struct{}

// Resolve implements Resolver.
func (PrefixResolver) Resolve(hint string, canonical []string) (string, bool) {
	if hint == "" {
		return "", false
	}
	fold := cases.Fold()
	foldedHint := fold.String(hint)

	var best string
	var found bool
	for _, name := range canonical {
		foldedName := fold.String(name)
		if foldedName == foldedHint {
			return name, true
		}
		if !strings.HasPrefix(foldedHint, foldedName) && !strings.HasPrefix(foldedName, foldedHint) {
			continue
		}
		if !found || len(name) > len(best) || (len(name) == len(best) && name < best) {
			best = name
			found = true
		}
	}
	return best, found
}
