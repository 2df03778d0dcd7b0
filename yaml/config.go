// Package yaml loads hunkstage configuration files.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/hunkstage"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads the YAML file at path on top of the defaults and
// validates the result. Unknown keys are rejected. A missing file is
// reported with an error satisfying errors.Is(err, fs.ErrNotExist).
func LoadConfig(path string) (hunkstage.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return hunkstage.Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML config data.
func ParseConfig(data []byte) (hunkstage.Config, error) {
	var cfg hunkstage.Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return hunkstage.Config{}, &hunkstage.Error{Code: hunkstage.EINVALID, Op: "parse config", Err: err}
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return hunkstage.Config{}, err
	}
	return cfg, nil
}
