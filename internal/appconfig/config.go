// Package appconfig loads luther's optional sidecar configuration file,
// grounded on aretext/app/config.go's ConfigPath/LoadOrCreateConfig shape:
// an XDG-located YAML file that is created with sane defaults on first
// run and validated on every subsequent load.
package appconfig

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds luther's ambient CLI defaults. None of these affect the
// core tokenizer's semantics (spec.md's invariants are independent of
// configuration); they only change how cmd/luther resolves paths and how
// verbosely it logs.
type Config struct {
	// DefaultBatchRoot is the directory manifest-relative paths in a
	// -batch run are resolved against. Empty means paths are used as
	// written, relative to the working directory.
	DefaultBatchRoot string `yaml:"defaultBatchRoot"`

	// HexCaseInsensitive records the hex-case policy for alphabet lines;
	// cmd/luther logs it when set. Hex escapes are parsed
	// case-insensitively whether or not it is set.
	HexCaseInsensitive bool `yaml:"hexCaseInsensitive"`

	// LogVerbose enables file logging even without the -log flag.
	LogVerbose bool `yaml:"logVerbose"`
}

// DefaultConfigYaml is written to disk the first time luther runs and no
// config file exists yet.
var DefaultConfigYaml = []byte(`# luther configuration
defaultBatchRoot: ""
hexCaseInsensitive: true
logVerbose: false
`)

// Default returns the configuration luther uses when no sidecar file is
// present and default creation is skipped.
func Default() Config {
	return Config{HexCaseInsensitive: true}
}

// ConfigPath returns the path to luther's configuration file.
func ConfigPath() (string, error) {
	path := filepath.Join("luther", "config.yaml")
	return xdg.ConfigFile(path)
}

// DefaultLogPath returns the path cmd/luther logs to when cfg.LogVerbose is
// set but the -log flag was not given.
func DefaultLogPath() (string, error) {
	path := filepath.Join("luther", "luther.log")
	return xdg.StateFile(path)
}

// LoadOrCreate loads the config file if it exists and creates a default
// one otherwise. If forceDefault is true, the on-disk file is ignored
// entirely (used by -noconfig style flags).
func LoadOrCreate(forceDefault bool) (Config, error) {
	if forceDefault {
		log.Printf("Using default luther config\n")
		return unmarshal(DefaultConfigYaml)
	}

	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}

	log.Printf("Loading luther config from %q\n", path)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Printf("Writing default luther config to %q\n", path)
		if err := saveDefault(path); err != nil {
			return Config{}, errors.Wrapf(err, "writing default config to %q", path)
		}
		return unmarshal(DefaultConfigYaml)
	} else if err != nil {
		return Config{}, errors.Wrapf(err, "loading config from %q", path)
	}

	cfg, err := unmarshal(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "malformed configuration at %q (try editing it by hand)", path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "invalid configuration at %q (try editing it by hand)", path)
	}

	return cfg, nil
}

// Validate reports whether cfg is well-formed enough to use.
func (cfg Config) Validate() error {
	if cfg.DefaultBatchRoot != "" {
		if info, err := os.Stat(cfg.DefaultBatchRoot); err != nil || !info.IsDir() {
			return fmt.Errorf("defaultBatchRoot %q is not a directory", cfg.DefaultBatchRoot)
		}
	}
	return nil
}

func unmarshal(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "yaml.Unmarshal")
	}
	return cfg, nil
}

func saveDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "os.MkdirAll")
	}
	if err := os.WriteFile(path, DefaultConfigYaml, 0644); err != nil {
		return errors.Wrap(err, "os.WriteFile")
	}
	return nil
}
