// Package recipe reads and rewrites PKGBUILD files.
//
// A PKGBUILD is treated as an opaque ordered sequence of text lines.
// Exactly three markers are meaningful: the pkgver, pkgrel and md5sums
// assignments. Everything else is preserved byte for byte.
package recipe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the build recipe file inside a package checkout
const FileName = "PKGBUILD"

var (
	// ErrRecipeNotFound is returned when a checkout has no PKGBUILD
	ErrRecipeNotFound = errors.New("no PKGBUILD found in package directory")
)

// Field markers recognized in a recipe. A marker matches only at the
// start of a line.
const (
	versionMarker  = "pkgver="
	releaseMarker  = "pkgrel="
	checksumMarker = "md5sums="
)

// Recipe holds one package's build recipe
type Recipe struct {
	path  string
	lines []string
}

// Load reads the PKGBUILD from a package checkout directory
func Load(dir string) (*Recipe, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRecipeNotFound, dir)
		}
		return nil, err
	}

	return &Recipe{path: path, lines: strings.Split(string(data), "\n")}, nil
}

// Lines returns the current recipe lines
func (r *Recipe) Lines() []string {
	return r.lines
}

// Mentions reports whether the recipe text contains the given token,
// used to check ecosystem membership before reconciling
func (r *Recipe) Mentions(token string) bool {
	for _, line := range r.lines {
		if strings.Contains(line, token) {
			return true
		}
	}
	return false
}

// SetUpstream rewrites the mutable fields for a new upstream release:
// pkgver gets the new version, pkgrel resets to 1, md5sums becomes a
// single-entry list with the new checksum. The first occurrence of
// each marker is rewritten; absent markers are left alone.
func (r *Recipe) SetUpstream(version, checksum string) {
	r.lines = Rewrite(r.lines, version, checksum)
}

// Save writes the recipe back in place
func (r *Recipe) Save() error {
	return os.WriteFile(r.path, []byte(strings.Join(r.lines, "\n")), 0644)
}

// Rewrite returns a new line sequence with the three mutable fields
// replaced. All other lines pass through unchanged, in original order,
// and each marker is rewritten at most once.
func Rewrite(lines []string, version, checksum string) []string {
	out := make([]string, len(lines))
	var doneVersion, doneRelease, doneChecksum bool

	for i, line := range lines {
		switch {
		case !doneVersion && strings.HasPrefix(line, versionMarker):
			out[i] = versionMarker + version
			doneVersion = true
		case !doneRelease && strings.HasPrefix(line, releaseMarker):
			out[i] = releaseMarker + "1"
			doneRelease = true
		case !doneChecksum && strings.HasPrefix(line, checksumMarker):
			out[i] = checksumMarker + "('" + checksum + "')"
			doneChecksum = true
		default:
			out[i] = line
		}
	}

	return out
}
