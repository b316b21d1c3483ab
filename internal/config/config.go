package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config is the file-level configuration for the analyzer. Every field has
// a working default; a missing file is not an error.
type Config struct {
	// Window bounds the block segmenter's context around creditor anchors.
	Window struct {
		Before int `yaml:"before"`
		After  int `yaml:"after"`
	} `yaml:"window"`

	// MaskSuffix is how many trailing account-number digits stay visible.
	MaskSuffix int `yaml:"mask_suffix"`

	// LateDeletionThreshold is the late-entry count at or above which a
	// late-only account becomes deletion-worthy.
	LateDeletionThreshold int `yaml:"late_deletion_threshold"`

	// CreditorAliases extends the built-in bureau-spelling table:
	// spelling → canonical display name.
	CreditorAliases map[string]string `yaml:"creditor_aliases"`

	// AnchorPatterns are extra creditor anchor regexes for layouts the
	// structural matcher misses.
	AnchorPatterns []string `yaml:"anchor_patterns"`

	// DBPath is where the server stores analysis history. Empty disables
	// persistence.
	DBPath string `yaml:"db_path"`
}

// Default returns the built-in configuration.
func Default() Config {
	var c Config
	c.Window.Before = 2
	c.Window.After = 10
	c.MaskSuffix = 4
	c.LateDeletionThreshold = 3
	return c
}

// Load reads a YAML config file, layering it over the defaults. A missing
// file returns the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}

	if file.Window.Before > 0 {
		cfg.Window.Before = file.Window.Before
	}
	if file.Window.After > 0 {
		cfg.Window.After = file.Window.After
	}
	if file.MaskSuffix > 0 {
		cfg.MaskSuffix = file.MaskSuffix
	}
	if file.LateDeletionThreshold > 0 {
		cfg.LateDeletionThreshold = file.LateDeletionThreshold
	}
	cfg.CreditorAliases = file.CreditorAliases
	cfg.AnchorPatterns = file.AnchorPatterns
	cfg.DBPath = file.DBPath

	return cfg, nil
}

// CompileAnchorPatterns compiles the configured extra anchor regexes,
// skipping any that fail to compile so one bad pattern cannot take down
// the whole analyzer. Returns the compiled patterns and the errors for
// logging.
func (c Config) CompileAnchorPatterns() ([]*regexp.Regexp, []error) {
	var out []*regexp.Regexp
	var errs []error
	for _, p := range c.AnchorPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("anchor pattern %q: %w", p, err))
			continue
		}
		out = append(out, re)
	}
	return out, errs
}
