// Package reconcile drives the per-package update state machine.
package reconcile

import "unicode"

// VersionComparer decides whether an upstream version token is usable
// and whether it warrants an update. It is a pluggable strategy so a
// stricter comparison can be substituted without touching the loop.
type VersionComparer interface {
	// Valid reports whether the upstream token looks like a real
	// release identifier rather than a placeholder
	Valid(upstream string) bool
	// Newer reports whether the upstream token should replace the
	// locally recorded one
	Newer(upstream, local string) bool
}

// TokenComparer is the documented heuristic over opaque version
// tokens: a token starting with a letter is treated as an untrusted
// placeholder, and any lexically distinct token counts as newer. The
// index's ordering is trusted; no semantic version comparison happens
// here.
type TokenComparer struct{}

// Valid rejects tokens whose first rune is alphabetic
func (TokenComparer) Valid(upstream string) bool {
	if upstream == "" {
		return false
	}
	for _, r := range upstream {
		return !unicode.IsLetter(r)
	}
	return false
}

// Newer treats simple string inequality as an update trigger
func (TokenComparer) Newer(upstream, local string) bool {
	return upstream != local
}
