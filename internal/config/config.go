// Package config loads and validates the restique configuration file.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// DefaultExecutable is the engine binary used when the config does not name
// one.
const DefaultExecutable = "restic"

var nameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Config is the full configuration for one run. It is loaded once and
// read-only afterwards.
type Config struct {
	Executable  string               `yaml:"executable,omitempty"`
	Environment Environment          `yaml:"environment,omitempty"`
	Options     Options              `yaml:"options,omitempty"`
	Repos       map[string]*Repo     `yaml:"repos"`
	Locations   map[string]*Location `yaml:"locations"`
}

// Environment is a set of variables sourced from env files and inline
// definitions. Inline vars override file-derived ones of the same name.
type Environment struct {
	EnvFiles []string          `yaml:"env-files,omitempty"`
	Vars     map[string]string `yaml:"vars,omitempty"`
}

// Options carries the per-operation option records. A nil record means "use
// the enclosing scope's record" (location falls back to global).
type Options struct {
	Backup *BackupOptions `yaml:"backup,omitempty"`
	Forget *ForgetOptions `yaml:"forget,omitempty"`
}

// Repo is a named backup destination.
type Repo struct {
	Path            string      `yaml:"path"`
	Password        string      `yaml:"password,omitempty"`
	PasswordFile    string      `yaml:"password-file,omitempty"`
	PasswordCommand string      `yaml:"password-command,omitempty"`
	RetryLock       string      `yaml:"retry-lock,omitempty"`
	Options         []string    `yaml:"options,omitempty"`
	Environment     Environment `yaml:"environment,omitempty"`
}

// Location is a named group of paths backed up together to one or more
// repositories.
type Location struct {
	Paths   []string `yaml:"paths"`
	Repos   []string `yaml:"repos,omitempty"`
	Options Options  `yaml:"options,omitempty"`
}

// UnmarshalYAML accepts both the canonical keys (paths/repos) and their
// aliases (from/to).
func (l *Location) UnmarshalYAML(value *yaml.Node) error {
	var aux struct {
		Paths   []string `yaml:"paths"`
		From    []string `yaml:"from"`
		Repos   []string `yaml:"repos"`
		To      []string `yaml:"to"`
		Options Options  `yaml:"options"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}

	l.Paths = aux.Paths
	if len(l.Paths) == 0 {
		l.Paths = aux.From
	}
	l.Repos = aux.Repos
	if len(l.Repos) == 0 {
		l.Repos = aux.To
	}
	l.Options = aux.Options
	return nil
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if cfg.Executable == "" {
		cfg.Executable = DefaultExecutable
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	for name := range c.Repos {
		if err := ValidateName(name); err != nil {
			return fmt.Errorf("repository %q: %w", name, err)
		}
	}
	for name, location := range c.Locations {
		if err := ValidateName(name); err != nil {
			return fmt.Errorf("location %q: %w", name, err)
		}
		if location == nil || len(location.Paths) == 0 {
			return fmt.Errorf("location %q: at least one path is required", name)
		}
		for _, repoName := range location.Repos {
			// References to undeclared repos are warned about at use time;
			// malformed names are configuration errors.
			if err := ValidateName(repoName); err != nil {
				return fmt.Errorf("location %q repository reference %q: %w", name, repoName, err)
			}
		}
	}
	return nil
}

// ValidateName checks a repository or location identifier.
func ValidateName(name string) error {
	if !nameRe.MatchString(name) {
		return fmt.Errorf("invalid name (only [A-Za-z0-9_-] are allowed)")
	}
	return nil
}

// BackupOptionsFor resolves the backup options for a location: the
// location's own record wins over the global one; absent both, zero-value
// options apply.
func (c *Config) BackupOptionsFor(location string) BackupOptions {
	if l, ok := c.Locations[location]; ok && l.Options.Backup != nil {
		return *l.Options.Backup
	}
	if c.Options.Backup != nil {
		return *c.Options.Backup
	}
	return BackupOptions{}
}

// ForgetOptionsFor resolves the forget options for a location, analogous to
// BackupOptionsFor.
func (c *Config) ForgetOptionsFor(location string) ForgetOptions {
	if l, ok := c.Locations[location]; ok && l.Options.Forget != nil {
		return *l.Options.Forget
	}
	if c.Options.Forget != nil {
		return *c.Options.Forget
	}
	return ForgetOptions{}
}
