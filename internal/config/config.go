// Package config loads initializr configuration from ~/.initializr/settings.yaml.
//
// Values are layered: built-in defaults, then the YAML file (optional), then
// INITIALIZR_* environment variables. The result is validated before use.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"initializr/internal/metadata"
)

// Last-used scopes.
const (
	ScopeGlobal      = "global"
	ScopeBootVersion = "bootVersion"
)

// Config holds initializr configuration.
type Config struct {
	// ServiceURL lists the Initializr services to offer. A single entry is
	// used without asking.
	ServiceURL ServiceURLs `yaml:"serviceUrl"`
	Defaults   Defaults    `yaml:"defaults"`
	LastUsed   LastUsed    `yaml:"lastUsed"`
	Editor     Editor      `yaml:"editor"`
	LogLevel   string      `yaml:"logLevel"`
}

// Defaults pre-resolve wizard steps. An empty value means "ask".
type Defaults struct {
	Language     string   `yaml:"language"`
	JavaVersion  string   `yaml:"javaVersion"`
	GroupID      string   `yaml:"groupId"`
	ArtifactID   string   `yaml:"artifactId"`
	Packaging    string   `yaml:"packaging"`
	BootVersion  string   `yaml:"bootVersion"`
	Dependencies []string `yaml:"dependencies"`
}

// LastUsed selects how remembered dependency sets are keyed.
type LastUsed struct {
	Scope string `yaml:"scope"`
}

// Editor describes how injected build descriptor entries are indented.
type Editor struct {
	InsertSpaces bool `yaml:"insertSpaces"`
	TabSize      int  `yaml:"tabSize"`
}

// ServiceURLs accepts either a single URL or a list of URLs.
type ServiceURLs []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *ServiceURLs) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var one string
		if err := value.Decode(&one); err != nil {
			return err
		}
		*s = ServiceURLs{one}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := value.Decode(&many); err != nil {
			return err
		}
		*s = many
		return nil
	}
	return fmt.Errorf("serviceUrl: expected a string or a list, got %s", value.Tag)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ServiceURL: ServiceURLs{metadata.DefaultServiceURL},
		LastUsed:   LastUsed{Scope: ScopeGlobal},
		Editor:     Editor{InsertSpaces: false, TabSize: 4},
		LogLevel:   "warn",
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}
	if len(cfg.ServiceURL) == 0 {
		cfg.ServiceURL = ServiceURLs{metadata.DefaultServiceURL}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation: %w", err)
	}
	return cfg, nil
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	var errs []string

	for _, u := range c.ServiceURL {
		parsed, err := url.Parse(u)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			errs = append(errs, fmt.Sprintf("serviceUrl %q must be an absolute http(s) URL", u))
		}
	}
	if c.LastUsed.Scope != ScopeGlobal && c.LastUsed.Scope != ScopeBootVersion {
		errs = append(errs, fmt.Sprintf("lastUsed.scope must be %q or %q", ScopeGlobal, ScopeBootVersion))
	}
	if c.Editor.TabSize < 0 {
		errs = append(errs, "editor.tabSize must not be negative")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("logLevel %q is not a log level", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("INITIALIZR_SERVICE_URL"); v != "" {
		var urls ServiceURLs
		for _, u := range strings.Split(v, ",") {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
		if len(urls) > 0 {
			cfg.ServiceURL = urls
		}
	}
	if v := os.Getenv("INITIALIZR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("INITIALIZR_LAST_USED_SCOPE"); v != "" {
		cfg.LastUsed.Scope = v
	}
	if v := os.Getenv("INITIALIZR_DEFAULT_LANGUAGE"); v != "" {
		cfg.Defaults.Language = v
	}
	if v := os.Getenv("INITIALIZR_DEFAULT_JAVA_VERSION"); v != "" {
		cfg.Defaults.JavaVersion = v
	}
	if v := os.Getenv("INITIALIZR_DEFAULT_GROUP_ID"); v != "" {
		cfg.Defaults.GroupID = v
	}
	if v := os.Getenv("INITIALIZR_DEFAULT_PACKAGING"); v != "" {
		cfg.Defaults.Packaging = v
	}
	if v := os.Getenv("INITIALIZR_EDITOR_TAB_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Editor.TabSize = n
			cfg.Editor.InsertSpaces = true
		}
	}
}
