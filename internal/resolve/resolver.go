// Package resolve maps local AUR package names to their PyPI identities.
package resolve

import "strings"

// packagingPrefixes are stripped from the local name to obtain the
// canonical upstream base name
var packagingPrefixes = []string{"python-", "python2-"}

// vcsSuffixes mark rolling packages that track a live branch instead
// of versioned releases
var vcsSuffixes = []string{"-git", "-hg"}

// Resolution describes how a local package name maps upstream
type Resolution struct {
	// Upstream is the exact-cased PyPI lookup name; empty for rolling packages
	Upstream string
	// Rolling is true for VCS packages, which are never reconciled
	Rolling bool
	// Skip is true when the maintainer opted the package out via overrides
	Skip bool
}

// Resolver derives upstream lookup names from local package names
type Resolver struct {
	// casing maps lowercase canonical name to the exact-cased upstream name
	casing map[string]string
	// packages holds per-package maintainer overrides keyed by local name
	packages map[string]PackageOverride
}

// NewResolver builds a resolver from the configured exact-cased names
// and the optional per-package overrides
func NewResolver(lowercase []string, packages map[string]PackageOverride) *Resolver {
	casing := make(map[string]string, len(lowercase))
	for _, name := range lowercase {
		casing[strings.ToLower(name)] = name
	}
	if packages == nil {
		packages = map[string]PackageOverride{}
	}
	return &Resolver{casing: casing, packages: packages}
}

// Resolve classifies a local package name and derives the upstream
// lookup name. It is a pure string transform and never fails.
func (r *Resolver) Resolve(raw string) Resolution {
	for _, suffix := range vcsSuffixes {
		if strings.HasSuffix(raw, suffix) {
			return Resolution{Rolling: true}
		}
	}

	if o, ok := r.packages[raw]; ok && o.Skip {
		return Resolution{Skip: true}
	}

	base := raw
	for _, prefix := range packagingPrefixes {
		if strings.HasPrefix(base, prefix) {
			base = strings.TrimPrefix(base, prefix)
			break
		}
	}

	if o, ok := r.packages[raw]; ok && o.Upstream != "" {
		return Resolution{Upstream: o.Upstream}
	}

	if exact, ok := r.casing[strings.ToLower(base)]; ok {
		base = exact
	}

	return Resolution{Upstream: base}
}
