// Package config holds the scanmap configuration: scan behavior, target
// resolution defaults, and logging. Configuration is loaded from a YAML
// file layered over defaults, then validated.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arnvid/scanmap/internal/errors"
)

// Config is the complete scanmap configuration.
type Config struct {
	// Scanning configuration
	Scanning ScanningConfig `yaml:"scanning" json:"scanning"`

	// Target resolution configuration
	Resolve ResolveConfig `yaml:"resolve" json:"resolve"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ScanningConfig holds probe execution settings.
type ScanningConfig struct {
	// Maximum timeout per probe run
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// Timing template (aggressive, normal, polite)
	Timing string `yaml:"timing" json:"timing"`

	// Maximum number of probe retries
	MaxRetries int `yaml:"max_retries" json:"max_retries"`

	// Minimum number of parallel probes; zero lets nmap decide
	Parallelism int `yaml:"parallelism" json:"parallelism"`

	// Default ports when no port spec is given
	DefaultPorts string `yaml:"default_ports" json:"default_ports"`

	// Default port scan method
	DefaultScanMethod string `yaml:"default_scan_method" json:"default_scan_method"`

	// Default host discovery method
	DefaultDiscoveryMethod string `yaml:"default_discovery_method" json:"default_discovery_method"`

	// Zombie host for idle scans, host[:port]
	IdleZombie string `yaml:"idle_zombie" json:"idle_zombie"`

	// Maximum OS guesses reported per host
	OSGuessLimit int `yaml:"os_guess_limit" json:"os_guess_limit"`
}

// ResolveConfig holds target resolution settings.
type ResolveConfig struct {
	// Prefer IPv6 records when a domain resolves to both families
	IPv6First bool `yaml:"ipv6_first" json:"ipv6_first"`

	// resolv.conf path handed to the DNS client
	ResolvConf string `yaml:"resolv_conf" json:"resolv_conf"`

	// Per-query DNS timeout
	DNSTimeout time.Duration `yaml:"dns_timeout" json:"dns_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level" json:"level"`

	// Log format (text, json)
	Format string `yaml:"format" json:"format"`

	// Log output (stdout, stderr, file path)
	Output string `yaml:"output" json:"output"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Scanning: ScanningConfig{
			Timeout:                5 * time.Minute,
			Timing:                 "normal",
			MaxRetries:             2,
			DefaultPorts:           "22,80,443,8080,8443",
			DefaultScanMethod:      "connect",
			DefaultDiscoveryMethod: "icmp",
			OSGuessLimit:           3,
		},
		Resolve: ResolveConfig{
			IPv6First:  false,
			ResolvConf: "/etc/resolv.conf",
			DNSTimeout: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads configuration from a YAML file layered over defaults. A
// missing file is not an error: defaults apply.
func Load(path string) (*Config, error) {
	config := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(errors.CodeConfiguration,
			fmt.Sprintf("failed to read config file %s: %v", path, err))
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.NewConfigError(errors.CodeConfiguration,
			fmt.Sprintf("failed to parse config file %s: %v", path, err))
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save writes the configuration to a YAML file, creating the directory
// if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewConfigError(errors.CodeConfiguration,
			fmt.Sprintf("failed to create config directory: %v", err))
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.NewConfigError(errors.CodeConfiguration,
			fmt.Sprintf("failed to marshal config: %v", err))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewConfigError(errors.CodeConfiguration,
			fmt.Sprintf("failed to write config file %s: %v", path, err))
	}
	return nil
}

// Validate checks the configuration for values that would fail later at
// probe time.
func (c *Config) Validate() error {
	if c.Scanning.Timeout < 0 {
		return errors.NewConfigFieldError(errors.CodeValidation,
			"timeout must not be negative", "scanning.timeout")
	}
	if c.Scanning.MaxRetries < 0 {
		return errors.NewConfigFieldError(errors.CodeValidation,
			"max_retries must not be negative", "scanning.max_retries")
	}
	if c.Scanning.Parallelism < 0 {
		return errors.NewConfigFieldError(errors.CodeValidation,
			"parallelism must not be negative", "scanning.parallelism")
	}

	switch c.Scanning.Timing {
	case "", "aggressive", "normal", "polite":
	default:
		return errors.NewConfigFieldError(errors.CodeValidation,
			fmt.Sprintf("unknown timing template %q", c.Scanning.Timing),
			"scanning.timing")
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.NewConfigFieldError(errors.CodeValidation,
			fmt.Sprintf("unknown log level %q", c.Logging.Level),
			"logging.level")
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return errors.NewConfigFieldError(errors.CodeValidation,
			fmt.Sprintf("unknown log format %q", c.Logging.Format),
			"logging.format")
	}

	if c.Resolve.DNSTimeout < 0 {
		return errors.NewConfigFieldError(errors.CodeValidation,
			"dns_timeout must not be negative", "resolve.dns_timeout")
	}
	return nil
}
