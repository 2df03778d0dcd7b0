package hunkstage

import (
	"strings"
	"time"
)

// DefaultApplyTimeout bounds a single git apply. A stale index.lock makes
// git wait rather than fail, so every apply needs a deadline.
const DefaultApplyTimeout = 10 * time.Second

// Config holds runtime settings shared by the CLI and the git client.
type Config struct {
	GitBin       string        `yaml:"git"`
	Dir          string        `yaml:"dir"`
	ApplyTimeout time.Duration `yaml:"apply_timeout"`
	ContextLines int           `yaml:"context_lines"`
	Parallelism  int           `yaml:"parallelism"`
	LogLevel     string        `yaml:"log_level"`
}

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() Config {
	var c Config
	c.SetDefaults()
	return c
}

// SetDefaults fills zero-valued fields.
func (c *Config) SetDefaults() {
	if strings.TrimSpace(c.GitBin) == "" {
		c.GitBin = "git"
	}
	if c.ApplyTimeout <= 0 {
		c.ApplyTimeout = DefaultApplyTimeout
	}
	if c.ContextLines <= 0 {
		c.ContextLines = 3
	}
	if c.Parallelism <= 0 {
		c.Parallelism = 4
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return Errorf(EINVALID, "unknown log level %q", c.LogLevel)
	}
	if c.ContextLines > 1000 {
		return Errorf(EINVALID, "context lines must be at most 1000, got %d", c.ContextLines)
	}
	if c.ApplyTimeout < 0 {
		return Errorf(EINVALID, "apply timeout must be positive, got %s", c.ApplyTimeout)
	}
	return nil
}
