// Package config loads the optional `.doclinks.yaml` file.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
	"git.home.luguber.info/inful/doclinks/internal/hosting"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = ".doclinks.yaml"

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

const (
	defaultThreshold   = 0.7
	defaultConcurrency = 8
)

// Config is the file configuration. CLI flags override it.
type Config struct {
	Repository  RepositorySetting `yaml:"repository,omitempty"`
	Root        string            `yaml:"root,omitempty"`
	URLConfig   *URLConfig        `yaml:"url_config,omitempty"`
	Ignore      []string          `yaml:"ignore,omitempty"`
	Threshold   float64           `yaml:"threshold,omitempty"`
	Concurrency int               `yaml:"concurrency,omitempty"`
	Single      bool              `yaml:"single,omitempty"`
	Output      OutputConfig      `yaml:"output"`
}

// URLConfig describes a repository web view explicitly, bypassing detection.
type URLConfig struct {
	Hostname      string `yaml:"hostname"`
	Prefix        string `yaml:"prefix"`
	HeadingPrefix string `yaml:"heading_prefix,omitempty"`
	Lines         bool   `yaml:"lines,omitempty"`
	TopAnchor     string `yaml:"top_anchor,omitempty"`
}

// HostConfig converts the override into a normalized hosting configuration.
func (u *URLConfig) HostConfig() *hosting.Config {
	return hosting.Config{
		Hostname:      u.Hostname,
		Prefix:        u.Prefix,
		HeadingPrefix: u.HeadingPrefix,
		Lines:         u.Lines,
		TopAnchor:     u.TopAnchor,
	}.Normalized()
}

// OutputConfig controls reporting.
type OutputConfig struct {
	Format      string `yaml:"format,omitempty"`
	MetricsFile string `yaml:"metrics_file,omitempty"`
}

// Default returns a configuration with defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the configuration at path. A missing file yields defaults
// unless required is set.
func Load(path string, required bool) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) && !required {
			return Default(), nil
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", path).
			Build()
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").
			WithContext("path", path).
			Build()
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadEnvFiles loads .env and .env.local when present. Variables already in
// the environment are not overwritten.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		_ = godotenv.Load(name)
	}
}

func (c *Config) applyDefaults() {
	if c.Threshold == 0 {
		c.Threshold = defaultThreshold
	}
	if c.Concurrency == 0 {
		c.Concurrency = defaultConcurrency
	}
	if c.Output.Format == "" {
		c.Output.Format = FormatText
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Threshold <= 0 || c.Threshold > 1 {
		return errors.ValidationError(fmt.Sprintf("threshold must be in (0, 1], got %v", c.Threshold)).
			WithContext("field", "threshold").
			Build()
	}
	if c.Concurrency < 0 {
		return errors.ValidationError(fmt.Sprintf("concurrency must not be negative, got %d", c.Concurrency)).
			WithContext("field", "concurrency").
			Build()
	}
	switch c.Output.Format {
	case FormatText, FormatJSON:
	default:
		return errors.ValidationError(fmt.Sprintf("unknown output format %q", c.Output.Format)).
			WithContext("field", "output.format").
			Build()
	}
	if u := c.URLConfig; u != nil && (u.Hostname == "" || u.Prefix == "") {
		return errors.ValidationError("url_config requires hostname and prefix").
			WithContext("field", "url_config").
			Build()
	}
	return nil
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).Build()
	}

	example := Config{
		Repository: RepositorySetting{Value: "github:owner/project"},
		Ignore:     []string{"node_modules/", "CHANGELOG.md"},
		Threshold:  defaultThreshold,
		Output:     OutputConfig{Format: FormatText},
	}
	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal config").Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").Build()
	}
	return nil
}
