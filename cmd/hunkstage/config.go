package main

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/hunkstage"
	hfs "github.com/fwojciec/hunkstage/fs"
	"github.com/fwojciec/hunkstage/yaml"
)

// Environment variables read on top of the config file.
const (
	envGit          = "HUNKSTAGE_GIT"
	envApplyTimeout = "HUNKSTAGE_APPLY_TIMEOUT"
	envLogLevel     = "HUNKSTAGE_LOG_LEVEL"
)

// LoadConfig resolves settings from the config file at path, falling back to
// the default location when path is empty, then from getenv. A missing
// default file is not an error; a missing explicit file is.
func LoadConfig(path string, getenv func(string) string) (hunkstage.Config, error) {
	explicit := path != ""
	if !explicit {
		path = hfs.DefaultConfigPath()
	}

	cfg, err := yaml.LoadConfig(path)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
		cfg = hunkstage.DefaultConfig()
	default:
		return hunkstage.Config{}, err
	}

	if v := strings.TrimSpace(getenv(envGit)); v != "" {
		cfg.GitBin = v
	}
	if v := strings.TrimSpace(getenv(envApplyTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return hunkstage.Config{}, hunkstage.Errorf(hunkstage.EINVALID, "%s: %v", envApplyTimeout, err)
		}
		cfg.ApplyTimeout = d
	}
	if v := strings.TrimSpace(getenv(envLogLevel)); v != "" {
		cfg.LogLevel = v
	}
	return cfg, cfg.Validate()
}

// NewLogger returns a text logger writing records at or above cfg.LogLevel.
func NewLogger(cfg hunkstage.Config, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
