package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse reads a single configuration layer without applying defaults or
// validating it. An empty file is an empty layer.
func Parse(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadLayered parses and merges every layer Discover finds, lowest
// precedence first, then fills defaults and validates the result. A missing
// layer is skipped unless it is required. The returned layers record what was
// loaded.
func LoadLayered(opts DiscoverOptions) (*Config, []Layer, error) {
	layers := Discover(opts)

	var configs []*Config
	for i := range layers {
		layer := &layers[i]
		cfg, err := Parse(layer.Path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) && !layer.Required {
				continue
			}
			layer.Err = err
			return nil, layers, fmt.Errorf("%s config: %w", layer.Level, err)
		}
		layer.Loaded = true
		configs = append(configs, cfg)
	}
	if len(configs) == 0 {
		return Default(), layers, nil
	}

	merged, err := MergeAll(configs)
	if err != nil {
		return nil, layers, err
	}
	merged.ApplyDefaults()
	if errs := Validate(merged); len(errs) > 0 {
		return nil, layers, &ValidationError{Errors: errs}
	}
	return merged, layers, nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config with defaults applied for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.Version != DefaultVersion {
		errs = append(errs, fmt.Sprintf("unsupported version %d: only version %d is supported", cfg.Version, DefaultVersion))
	}

	errs = append(errs, validateName("trans_dir", cfg.TransDir)...)
	errs = append(errs, validateName("records_file", cfg.RecordsFile)...)

	if strings.HasPrefix(cfg.DefaultTag, "-") {
		errs = append(errs, fmt.Sprintf("default_tag: '%s' must not start with '-'", cfg.DefaultTag))
	}
	if strings.ContainsAny(cfg.DefaultLang, " \t\n") {
		errs = append(errs, fmt.Sprintf("default_lang: '%s' must not contain whitespace", cfg.DefaultLang))
	}
	if cfg.LogLimit < 0 {
		errs = append(errs, fmt.Sprintf("log_limit: must not be negative, got %d", cfg.LogLimit))
	}

	for i, g := range cfg.Cover.Exclude {
		if g == "" {
			errs = append(errs, fmt.Sprintf("cover.exclude[%d]: empty pattern", i))
			continue
		}
		if _, err := path.Match(g, ""); err != nil {
			errs = append(errs, fmt.Sprintf("cover.exclude[%d]: invalid pattern '%s': %v", i, g, err))
		}
	}

	return errs
}

// validateName checks that v is a single relative path segment.
func validateName(field, v string) []string {
	switch {
	case v == "":
		return []string{fmt.Sprintf("%s: must not be empty", field)}
	case v == "." || v == "..":
		return []string{fmt.Sprintf("%s: '%s' is not a usable name", field, v)}
	case strings.ContainsAny(v, `/\`):
		return []string{fmt.Sprintf("%s: '%s' must be a single name without separators", field, v)}
	}
	return nil
}
