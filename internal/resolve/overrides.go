package resolve

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// PackageOverride is a single package's maintainer override.
// It is keyed by the local AUR name in packages.toml:
//
//	[python-widget]
//	upstream = "Widget"
//
//	[python-abandoned]
//	skip = true
type PackageOverride struct {
	// Upstream replaces the derived PyPI lookup name entirely
	Upstream string `toml:"upstream,omitempty"`
	// Skip excludes the package from reconciliation
	Skip bool `toml:"skip,omitempty"`
}

// LoadOverrides reads the per-package overrides file.
// A missing file is not an error; overrides are optional.
func LoadOverrides(path string) (map[string]PackageOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]PackageOverride{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var overrides map[string]PackageOverride
	if err := toml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if overrides == nil {
		overrides = map[string]PackageOverride{}
	}

	return overrides, nil
}
