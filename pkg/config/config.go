// Package config loads and validates wayfinder configuration with
// proper precedence: defaults, then user config, then project config,
// then environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default configuration values exported for documentation and validation
const (
	// DefaultSelector matches regions that opt into focus handling.
	// The selector string is opaque to the engine; the host interprets it.
	DefaultSelector = `focusable, [tabindex="0"]`

	DefaultParentSide = SideLeft

	// DefaultEdgeTolerance is the slack, in layout units, allowed when
	// matching a child's edge against its group head's edge.
	DefaultEdgeTolerance = 5.0

	DefaultDecorationMarker = "focused"
	DefaultParentKeyTag     = "group"
	DefaultMemberTag        = "member-of"
)

// Side names which edge of a group head its children attach to.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideRight {
		return SideLeft
	}
	return SideRight
}

// Config represents the complete wayfinder configuration
type Config struct {
	// Selector is passed verbatim to the host's region query.
	Selector string `yaml:"selector"`
	// ParentSide fixes the drill-in and escape directions for grouped
	// regions. Children of a left-side head sit to its right.
	ParentSide Side `yaml:"parent_side"`
	// AutoRun starts the engine as soon as the host reports ready.
	AutoRun bool `yaml:"auto_run"`
	// DecorationMarker is the marker the host applies to the focused region.
	DecorationMarker string `yaml:"decoration_marker"`
	// ParentKeyTag and MemberTag name the host attributes that declare
	// group heads and group members.
	ParentKeyTag string `yaml:"parent_key_tag"`
	MemberTag    string `yaml:"member_tag"`
	// EdgeTolerance is the slack allowed in the head/child edge checks.
	EdgeTolerance float64 `yaml:"edge_tolerance"`

	Scoring ScoringConfig `yaml:"scoring"`
	Logging LoggingConfig `yaml:"logging"`
}

// ScoringConfig exposes the spatial search weights. Zero values mean
// "use the built-in default" so a partial scoring block is fine.
type ScoringConfig struct {
	CrossAxisWeight   float64 `yaml:"cross_axis_weight"`
	AlignBonus        float64 `yaml:"align_bonus"`
	AlignFraction     float64 `yaml:"align_fraction"`
	ProjectionPenalty float64 `yaml:"projection_penalty"`
}

// LoggingConfig controls the engine's structured event log
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Path  string `yaml:"path"`  // empty leaves file logging off
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Selector:         DefaultSelector,
		ParentSide:       DefaultParentSide,
		AutoRun:          true,
		DecorationMarker: DefaultDecorationMarker,
		ParentKeyTag:     DefaultParentKeyTag,
		MemberTag:        DefaultMemberTag,
		EdgeTolerance:    DefaultEdgeTolerance,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from default locations with proper precedence
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Load user config (~/.wayfinder/config.yaml)
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	if home != "" {
		userConfigPath := filepath.Join(home, ".wayfinder", "config.yaml")
		if err := loadAndMerge(cfg, userConfigPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading user config: %w", err)
		}
	}

	// Load project config (./.wayfinder/config.yaml)
	projectConfigPath := filepath.Join(".", ".wayfinder", "config.yaml")
	if err := loadAndMerge(cfg, projectConfigPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := loadAndMerge(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadAndMerge reads a YAML file and unmarshals it over cfg. Keys
// absent from the file keep their current values.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WAYFINDER_SELECTOR"); v != "" {
		cfg.Selector = v
	}
	if v := os.Getenv("WAYFINDER_PARENT_SIDE"); v != "" {
		cfg.ParentSide = Side(strings.ToLower(v))
	}
	if v := os.Getenv("WAYFINDER_EDGE_TOLERANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.EdgeTolerance = f
		}
	}
	if v := os.Getenv("WAYFINDER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if val, ok := envBool("WAYFINDER_AUTO_RUN"); ok {
		cfg.AutoRun = val
	}
}

func envBool(name string) (bool, bool) {
	v := os.Getenv(name)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Selector) == "" {
		return fmt.Errorf("selector must not be empty")
	}

	validSides := map[Side]bool{
		SideLeft:  true,
		SideRight: true,
	}
	if !validSides[c.ParentSide] {
		return fmt.Errorf("invalid parent side: %s (must be left or right)", c.ParentSide)
	}

	if c.EdgeTolerance < 0 {
		return fmt.Errorf("edge_tolerance must be >= 0")
	}

	if c.Scoring.CrossAxisWeight < 0 {
		return fmt.Errorf("scoring.cross_axis_weight must be >= 0")
	}
	if c.Scoring.AlignBonus < 0 || c.Scoring.AlignBonus > 1 {
		return fmt.Errorf("scoring.align_bonus must be in [0, 1]")
	}
	if c.Scoring.AlignFraction < 0 || c.Scoring.AlignFraction > 1 {
		return fmt.Errorf("scoring.align_fraction must be in [0, 1]")
	}
	if c.Scoring.ProjectionPenalty != 0 && c.Scoring.ProjectionPenalty < 1 {
		return fmt.Errorf("scoring.projection_penalty must be >= 1")
	}

	validLevels := map[string]bool{
		"": true, "debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}

	return nil
}
