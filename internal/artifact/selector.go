// Package artifact selects and fingerprints upstream source artifacts.
package artifact

import "strings"

// Artifact is one downloadable file of an upstream release
type Artifact struct {
	// URL is the download location
	URL string
	// MD5 is the digest declared by the index; empty when the index
	// did not supply one and it must be computed from the stream
	MD5 string
}

// Select picks the canonical source artifact for a release:
// the first URL containing a /source/ path segment, else the first
// that is not a prebuilt egg bundle, else the first candidate.
// Returns false for an empty list.
func Select(candidates []Artifact) (Artifact, bool) {
	if len(candidates) == 0 {
		return Artifact{}, false
	}

	for _, a := range candidates {
		if strings.Contains(a.URL, "/source/") {
			return a, true
		}
	}

	for _, a := range candidates {
		if !strings.Contains(a.URL, ".egg") {
			return a, true
		}
	}

	return candidates[0], true
}
