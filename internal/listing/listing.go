// Package listing discovers the packages a maintainer owns on the AUR.
package listing

import "context"

// Package is one entry of the maintainer's package listing
type Package struct {
	// Name is the raw local package name as listed, e.g. python2-foo-git
	Name string
	// Version is the recorded local version, without the release counter
	Version string
}

// Source yields the maintainer's packages in listing order.
// The reconciliation core depends only on this interface, never on the
// markup of any particular listing page.
type Source interface {
	List(ctx context.Context) ([]Package, error)
}
