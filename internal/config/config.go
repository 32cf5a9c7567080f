package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/gerunddev/hybridnote/format"
	"github.com/gerunddev/hybridnote/parser"
)

// Config represents the hybridnote configuration
type Config struct {
	LogFile         string   `json:"log_file"`
	StateFile       string   `json:"state_file"`
	LogLevel        string   `json:"log_level"`
	StrictDetection bool     `json:"strict_detection"`
	CodeFence       string   `json:"code_fence"`
	MathDelimiter   string   `json:"math_delimiter"`
	OrgBlockBegin   string   `json:"org_block_begin"`
	OrgBlockEnd     string   `json:"org_block_end"`
	TodoKeywords    []string `json:"todo_keywords,omitempty"`
	DefaultFormat   string   `json:"default_format"`
	WrapWidth       int      `json:"wrap_width"`
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	markers := parser.DefaultDetectionConfig()
	return &Config{
		LogFile:       LogFilePath(),
		StateFile:     StateFilePath(),
		LogLevel:      "info",
		CodeFence:     markers.CodeFence,
		MathDelimiter: markers.MathDelimiter,
		OrgBlockBegin: markers.OrgBlockBegin,
		OrgBlockEnd:   markers.OrgBlockEnd,
		TodoKeywords:  []string{"TODO", "DONE"},
		DefaultFormat: "markdown",
		WrapWidth:     80,
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to XDG if home dir unavailable
		return filepath.Join(xdg.ConfigHome, "hybridnote", "config.json")
	}
	return filepath.Join(home, ".config", "hybridnote", "config.json")
}

// LogFilePath returns the default log file location in the XDG state directory
// Can be overridden for testing
var LogFilePath = func() string {
	return filepath.Join(xdg.StateHome, "hybridnote", "hybridnote.log")
}

// StateFilePath returns the default sync state location in the XDG state directory
// Can be overridden for testing
var StateFilePath = func() string {
	return filepath.Join(xdg.StateHome, "hybridnote", "state.json")
}

// Load reads configuration from the config directory. Fields missing from
// the file keep their defaults.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		// Return default config if file doesn't exist
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the config directory
func (c *Config) Save() error {
	configPath := ConfigPath()
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.LogFile == "" {
		return fmt.Errorf("log_file cannot be empty")
	}
	if c.StateFile == "" {
		return fmt.Errorf("state_file cannot be empty")
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level '%s': must be one of: debug, info, warn, error", c.LogLevel)
	}

	markers := map[string]string{
		"code_fence":      c.CodeFence,
		"math_delimiter":  c.MathDelimiter,
		"org_block_begin": c.OrgBlockBegin,
		"org_block_end":   c.OrgBlockEnd,
	}
	for name, marker := range markers {
		if strings.TrimSpace(marker) == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
	}

	for _, kw := range c.TodoKeywords {
		if kw == "" || strings.ContainsAny(kw, " \t") {
			return fmt.Errorf("invalid todo keyword '%s': must be a single word", kw)
		}
	}

	if _, err := format.ByName(c.DefaultFormat); err != nil {
		return fmt.Errorf("invalid default_format '%s': must be one of: markdown, org", c.DefaultFormat)
	}
	if c.WrapWidth < 0 {
		return fmt.Errorf("wrap_width cannot be negative")
	}

	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	c.StateFile, err = expandPath(c.StateFile)
	if err != nil {
		return fmt.Errorf("failed to expand state_file: %w", err)
	}

	return nil
}

// Detection returns the detector markers this configuration selects
func (c *Config) Detection() parser.DetectionConfig {
	return parser.DetectionConfig{
		CodeFence:     c.CodeFence,
		OrgBlockBegin: c.OrgBlockBegin,
		OrgBlockEnd:   c.OrgBlockEnd,
		MathDelimiter: c.MathDelimiter,
		Strict:        c.StrictDetection,
	}
}

// Registry returns the parser set matching the configured fence and TODO keywords
func (c *Config) Registry() *parser.Registry {
	r := parser.DefaultRegistry()
	r.Register(parser.NewOrgParser(c.TodoKeywords))
	r.Register(parser.NewCodeParserWithFence(c.CodeFence))
	return r
}

// NewManager returns a block manager wired with this configuration
func (c *Config) NewManager() *parser.Manager {
	return parser.NewManager(c.Registry(), parser.NewDetector(c.Detection()))
}

// Format returns the default note format
func (c *Config) Format() (format.Format, error) {
	return c.withKeywords(format.ByName(c.DefaultFormat))
}

// FormatFor picks the note format for path by extension, falling back to
// the default format for unknown extensions.
func (c *Config) FormatFor(path string) (format.Format, error) {
	f, err := format.ForPath(path)
	if errors.Is(err, format.ErrUnknownFormat) {
		return c.Format()
	}
	return c.withKeywords(f, err)
}

func (c *Config) withKeywords(f format.Format, err error) (format.Format, error) {
	if err != nil {
		return nil, err
	}
	if _, ok := f.(*format.Org); ok {
		return format.NewOrg(c.TodoKeywords), nil
	}
	return f, nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	// Convert to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
