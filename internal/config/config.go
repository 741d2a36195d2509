// Package config resolves ade's runtime configuration. Precedence is
// flags over config file over built-in defaults; the file format is HCL.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/efestolab/ade/internal/mountpoint"
)

// DefaultTemplate is the bundled default template name.
const DefaultTemplate = "@+show+@"

// Regex overrides the capture pattern for one variable in parse mode.
type Regex struct {
	Variable string `hcl:"variable,label"`
	Pattern  string `hcl:"pattern"`
}

// Config is the decoded ade.hcl file, zero-valued fields falling back
// to defaults.
type Config struct {
	TemplateSearchPath string  `hcl:"template_search_path,optional"`
	MountPoint         string  `hcl:"mount_point,optional"`
	DefaultTemplate    string  `hcl:"default_template,optional"`
	JournalPath        string  `hcl:"journal_path,optional"`
	Verbosity          string  `hcl:"verbosity,optional"`
	Regexes            []Regex `hcl:"regex,block"`
}

// Default returns the built-in configuration.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		TemplateSearchPath: filepath.Join(home, ".ade", "templates"),
		MountPoint:         mountpoint.DefaultMount,
		DefaultTemplate:    DefaultTemplate,
		JournalPath:        filepath.Join(home, ".ade", "journal.db"),
		Verbosity:          "info",
	}
}

// Locate returns the config file path to load: $ADE_CONFIG if set,
// otherwise ~/.ade/ade.hcl if it exists, otherwise "".
func Locate() string {
	if p := os.Getenv("ADE_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(home, ".ade", "ade.hcl")
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

// Load decodes the HCL file at path and merges it over the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	var file Config
	if err := hclsimple.DecodeFile(path, nil, &file); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}

	if file.TemplateSearchPath != "" {
		cfg.TemplateSearchPath = file.TemplateSearchPath
	}
	if file.MountPoint != "" {
		cfg.MountPoint = file.MountPoint
	}
	if file.DefaultTemplate != "" {
		cfg.DefaultTemplate = file.DefaultTemplate
	}
	if file.JournalPath != "" {
		cfg.JournalPath = file.JournalPath
	}
	if file.Verbosity != "" {
		cfg.Verbosity = file.Verbosity
	}
	cfg.Regexes = file.Regexes
	return cfg, nil
}

// Validate checks field values that have a closed domain.
func (c Config) Validate() error {
	switch c.Verbosity {
	case "debug", "info", "warning", "error":
	default:
		return fmt.Errorf("invalid verbosity %q: want one of debug, info, warning, error", c.Verbosity)
	}
	for _, r := range c.Regexes {
		if r.Variable == "" || r.Pattern == "" {
			return fmt.Errorf("regex block needs both a variable label and a pattern")
		}
	}
	return nil
}

// Patterns returns the regex blocks as a variable→pattern map for the
// parser.
func (c Config) Patterns() map[string]string {
	if len(c.Regexes) == 0 {
		return nil
	}
	out := make(map[string]string, len(c.Regexes))
	for _, r := range c.Regexes {
		out[r.Variable] = r.Pattern
	}
	return out
}
