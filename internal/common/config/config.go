package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	ErrTemplateCreated = errors.New("template configuration created, edit it before running again")
	ErrMissingUser     = errors.New("no AUR user configured: set the 'user' field in the configuration file")
	ErrMalformed       = errors.New("configuration file is not valid YAML")
)

// Config represents the application configuration.
// User is the AUR account whose package listing is reconciled.
// Lowercase holds exact-cased PyPI names for packages whose upstream
// name is not all lowercase (PyPI lookups are case-sensitive).
type Config struct {
	User      string   `yaml:"user"`
	Lowercase []string `yaml:"lowercase"`
	Workdir   string   `yaml:"workdir,omitempty"`
}

// template is written on first run so the user has something to edit
const template = `# pypup configuration
#
# user: your AUR account name. The package listing of this account is
# reconciled against PyPI.
user: ""

# lowercase: exact-cased PyPI names for packages whose canonical name
# is not all lowercase, e.g.
#   - MarkupSafe
#   - Pygments
lowercase: []
`

// DefaultPath returns the default config file path (XDG standard)
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	return filepath.Join(xdgConfig, "pypup", "config.yaml"), nil
}

// Load reads configuration from path.
// A missing file causes a template to be written there and
// ErrTemplateCreated to be returned; the caller is expected to exit and
// ask the user to fill it in. A file that does not parse as YAML
// returns ErrMalformed, and a parsed file without a user returns
// ErrMissingUser.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if writeErr := writeTemplate(path); writeErr != nil {
				return nil, writeErr
			}
			return nil, fmt.Errorf("%w: %s", ErrTemplateCreated, path)
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if cfg.User == "" {
		return nil, ErrMissingUser
	}

	return &cfg, nil
}

// writeTemplate creates the config directory and writes the template file
func writeTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(template), 0644); err != nil {
		return fmt.Errorf("failed to write config template: %w", err)
	}
	return nil
}

// OverridesPath returns the per-package overrides file expected next to
// the configuration file
func OverridesPath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "packages.toml")
}

// DefaultWorkdir returns the checkout cache directory (XDG cache)
func DefaultWorkdir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	xdgCache := os.Getenv("XDG_CACHE_HOME")
	if xdgCache == "" {
		xdgCache = filepath.Join(home, ".cache")
	}

	return filepath.Join(xdgCache, "pypup", "pkgs"), nil
}
