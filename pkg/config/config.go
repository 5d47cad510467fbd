package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Mode selects the probe transport for a run.
type Mode string

const (
	// ModeUDP probes resolvers with plain DNS over UDP port 53.
	ModeUDP Mode = "udp"

	// ModeDoH probes resolvers with DNS-over-HTTPS POST requests.
	ModeDoH Mode = "doh"
)

// Resolver is one DNS server under test: a display name unique within a
// run, and either an IP address (UDP mode) or an HTTPS URL (DoH mode).
// The list is read-only to the measurement core for the whole run.
type Resolver struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
}

// Config holds the application configuration
type Config struct {
	// Probe transport
	Mode Mode `yaml:"mode"`

	// Resolvers under test; empty selects the builtin table for the mode
	Resolvers []Resolver `yaml:"resolvers"`

	// Ordered test domains; the first queries entries are sampled
	Domains []string `yaml:"domains"`

	// Probes per resolver
	Queries int `yaml:"queries"`

	// Resolver samplings running concurrently
	Workers int `yaml:"workers"`

	// Per-probe timeout in seconds; fractional values are allowed
	TimeoutSeconds float64 `yaml:"timeout_seconds"`

	// Ranked table length
	TopN int `yaml:"top"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Telemetry (OTEL)
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level     string `yaml:"level"`      // debug, info, warn, error
	Format    string `yaml:"format"`     // json, text
	Output    string `yaml:"output"`     // stdout, stderr, file
	FilePath  string `yaml:"file_path"`  // if output=file
	AddSource bool   `yaml:"add_source"` // include source file/line
}

// TelemetryConfig holds OpenTelemetry settings
type TelemetryConfig struct {
	Enabled           bool   `yaml:"enabled"`
	ServiceName       string `yaml:"service_name"`
	ServiceVersion    string `yaml:"service_version"`
	PrometheusEnabled bool   `yaml:"prometheus_enabled"`
	PrometheusPort    int    `yaml:"prometheus_port"`
}

// Load loads the configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Timeout returns the per-probe timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

// LoadWithDefaults creates a configuration with sensible defaults for
// the given mode.
func LoadWithDefaults(mode Mode) *Config {
	cfg := &Config{Mode: mode}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults sets default values for unset configuration fields. The
// resolver table, domain list, batch size and timeout all depend on the
// mode, so the mode default is resolved first.
func (c *Config) ApplyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeUDP
	}

	switch c.Mode {
	case ModeDoH:
		if len(c.Resolvers) == 0 {
			c.Resolvers = DefaultDoHResolvers()
		}
		if len(c.Domains) == 0 {
			c.Domains = DefaultDoHDomains()
		}
		if c.Queries == 0 {
			c.Queries = 20
		}
		if c.Workers == 0 {
			c.Workers = 10
		}
		if c.TimeoutSeconds == 0 {
			c.TimeoutSeconds = 3
		}
	default:
		if len(c.Resolvers) == 0 {
			c.Resolvers = DefaultUDPResolvers()
		}
		if len(c.Domains) == 0 {
			c.Domains = DefaultUDPDomains()
		}
		if c.Queries == 0 {
			c.Queries = 5
		}
		if c.Workers == 0 {
			c.Workers = 20
		}
		if c.TimeoutSeconds == 0 {
			c.TimeoutSeconds = 2
		}
	}

	if c.TopN == 0 {
		c.TopN = 10
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}

	// Telemetry defaults
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "dns-speedtest"
	}
	if c.Telemetry.ServiceVersion == "" {
		c.Telemetry.ServiceVersion = "dev"
	}
	if c.Telemetry.PrometheusPort == 0 {
		c.Telemetry.PrometheusPort = 9090
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeUDP && c.Mode != ModeDoH {
		return fmt.Errorf("invalid mode: %s (must be udp or doh)", c.Mode)
	}

	if len(c.Resolvers) == 0 {
		return fmt.Errorf("at least one resolver must be configured")
	}
	seen := make(map[string]bool, len(c.Resolvers))
	for _, r := range c.Resolvers {
		if r.Name == "" {
			return fmt.Errorf("resolver with address %s has no name", r.Address)
		}
		if seen[r.Name] {
			return fmt.Errorf("duplicate resolver name: %s", r.Name)
		}
		seen[r.Name] = true
		if err := validateAddress(c.Mode, r.Address); err != nil {
			return fmt.Errorf("resolver %s: %w", r.Name, err)
		}
	}

	if len(c.Domains) == 0 {
		return fmt.Errorf("at least one test domain must be configured")
	}
	if c.Queries <= 0 {
		return fmt.Errorf("queries must be positive, got %d", c.Queries)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %g", c.TimeoutSeconds)
	}
	if c.TopN < 0 {
		return fmt.Errorf("top must not be negative, got %d", c.TopN)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	// Validate logging format
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid logging format: %s (must be json or text)", c.Logging.Format)
	}

	// Validate logging output
	validOutputs := map[string]bool{
		"stdout": true,
		"stderr": true,
		"file":   true,
	}
	if !validOutputs[c.Logging.Output] {
		return fmt.Errorf("invalid logging output: %s (must be stdout, stderr, or file)", c.Logging.Output)
	}
	if c.Logging.Output == "file" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging.file_path must be set when output is 'file'")
	}

	return nil
}

// validateAddress checks a resolver address against the probe transport:
// an IP literal (optionally host:port) for UDP, an HTTPS URL for DoH.
func validateAddress(mode Mode, addr string) error {
	if addr == "" {
		return fmt.Errorf("empty address")
	}

	switch mode {
	case ModeDoH:
		u, err := url.Parse(addr)
		if err != nil {
			return fmt.Errorf("invalid DoH URL %q: %w", addr, err)
		}
		if u.Scheme != "https" {
			return fmt.Errorf("DoH URL %q must use https", addr)
		}
		if u.Host == "" {
			return fmt.Errorf("DoH URL %q has no host", addr)
		}
	default:
		host := addr
		if h, _, err := net.SplitHostPort(addr); err == nil {
			host = h
		}
		if net.ParseIP(host) == nil {
			return fmt.Errorf("invalid resolver IP %q", addr)
		}
	}
	return nil
}
