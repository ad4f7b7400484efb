// Package config provides configuration file support for council.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/council-agents/council/internal/engine"
	"github.com/council-agents/council/internal/fixer"
	"github.com/council-agents/council/internal/source"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = ".council.yaml"

// Duration is a custom type that handles YAML duration parsing.
// Supports both Go duration format ("2s", "500ms") and numeric seconds.
type Duration time.Duration

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case int:
		*d = Duration(time.Duration(v) * time.Second)
	case float64:
		*d = Duration(time.Duration(v) * time.Second)
	default:
		return fmt.Errorf("invalid duration type: %T", v)
	}
	return nil
}

// AsDuration returns the underlying time.Duration.
func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}

// Config represents the council configuration file.
type Config struct {
	Engine        *string      `yaml:"engine"`
	MaxIterations *int         `yaml:"max_iterations"`
	Delay         *Duration    `yaml:"delay"`
	Marker        *string      `yaml:"marker"`
	Report        *string      `yaml:"report"`
	Extensions    []string     `yaml:"extensions"`
	Filters       FilterConfig `yaml:"filters"`
}

// FilterConfig holds filter-related configuration.
type FilterConfig struct {
	ExcludePatterns []string `yaml:"exclude_patterns"`
}

// LoadResult contains the loaded config and any warnings encountered.
type LoadResult struct {
	Config   *Config
	Warnings []string
}

// LoadFromDirWithWarnings reads .council.yaml from the specified directory
// and returns warnings. Returns an empty config (not error) if the file
// doesn't exist.
func LoadFromDirWithWarnings(dir string) (*LoadResult, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFromPathWithWarnings(configPath)
}

// LoadFromPathWithWarnings reads a config file and returns warnings for
// unknown keys. Returns an empty config (not error) if the file doesn't
// exist. Returns an error if the file exists but is invalid YAML, contains
// invalid regex patterns, or fails validation.
func LoadFromPathWithWarnings(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &LoadResult{Config: &Config{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	warnings := checkUnknownKeys(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFileName, err)
	}

	if err := cfg.validatePatterns(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigFileName, err)
	}

	return &LoadResult{Config: &cfg, Warnings: warnings}, nil
}

// validatePatterns checks that all exclude patterns are valid regex.
func (c *Config) validatePatterns() error {
	for _, pattern := range c.Filters.ExcludePatterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("invalid regex pattern %q in %s: %w", pattern, ConfigFileName, err)
		}
	}
	return nil
}

// knownTopLevelKeys are the valid top-level keys in the config file.
var knownTopLevelKeys = []string{"engine", "max_iterations", "delay", "marker", "report", "extensions", "filters"}

// knownFilterKeys are the valid keys under the "filters" section.
var knownFilterKeys = []string{"exclude_patterns"}

// checkUnknownKeys checks for unknown keys in the YAML data and returns warnings.
func checkUnknownKeys(data []byte) []string {
	var warnings []string

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		// If we can't parse, let the main parser handle the error
		return nil
	}

	for key := range raw {
		if !slices.Contains(knownTopLevelKeys, key) {
			warning := fmt.Sprintf("unknown key %q in %s", key, ConfigFileName)
			if suggestion := findSimilar(key, knownTopLevelKeys); suggestion != "" {
				warning += fmt.Sprintf(" (did you mean %q?)", suggestion)
			}
			warnings = append(warnings, warning)
		}
	}

	if filters, ok := raw["filters"].(map[string]any); ok {
		for key := range filters {
			if !slices.Contains(knownFilterKeys, key) {
				warning := fmt.Sprintf("unknown key %q in filters section of %s", key, ConfigFileName)
				if suggestion := findSimilar(key, knownFilterKeys); suggestion != "" {
					warning += fmt.Sprintf(" (did you mean %q?)", suggestion)
				}
				warnings = append(warnings, warning)
			}
		}
	}

	return warnings
}

// findSimilar finds the most similar string from candidates using Levenshtein
// distance. Returns empty string if no candidate is similar enough
// (threshold: 3 edits).
func findSimilar(input string, candidates []string) string {
	const maxDistance = 3
	bestMatch := ""
	bestDistance := maxDistance + 1

	for _, candidate := range candidates {
		dist := levenshtein(input, candidate)
		if dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

// levenshtein calculates the Levenshtein distance between two strings.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	matrix := make([][]int, len(ra)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(rb)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(ra)][len(rb)]
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	if c.Engine != nil && !slices.Contains(engine.Supported, *c.Engine) {
		return fmt.Errorf("engine must be one of %v, got %q", engine.Supported, *c.Engine)
	}
	if c.MaxIterations != nil && *c.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be >= 1, got %d", *c.MaxIterations)
	}
	if c.Delay != nil && *c.Delay < 0 {
		return fmt.Errorf("delay must be >= 0, got %s", time.Duration(*c.Delay))
	}
	if c.Marker != nil && *c.Marker == "" {
		return fmt.Errorf("marker must not be empty")
	}
	return nil
}

// Defaults holds the built-in default values.
var Defaults = ResolvedConfig{
	Engine:        engine.DefaultEngine,
	MaxIterations: fixer.DefaultMaxIterations,
	Delay:         fixer.DefaultDelay,
	Marker:        fixer.DefaultMarker,
	Report:        "", // means "COUNCIL_REPORT.md inside the target dir"
	Extensions:    source.DefaultExtensions,
}

// ResolvedConfig holds the final resolved configuration values.
type ResolvedConfig struct {
	Engine          string
	MaxIterations   int
	Delay           time.Duration
	Marker          string
	Report          string
	Extensions      []string
	ExcludePatterns []string
}

// FlagState tracks whether a flag was explicitly set.
type FlagState struct {
	EngineSet        bool
	MaxIterationsSet bool
	DelaySet         bool
	MarkerSet        bool
	ReportSet        bool
	ExtensionsSet    bool
}

// EnvState captures env var values and whether they were set.
type EnvState struct {
	Engine           string
	EngineSet        bool
	MaxIterations    int
	MaxIterationsSet bool
	Delay            time.Duration
	DelaySet         bool
	Marker           string
	MarkerSet        bool
	Report           string
	ReportSet        bool
}

// LoadEnvState reads environment variables and returns their state.
func LoadEnvState() EnvState {
	var state EnvState

	if v := os.Getenv("COUNCIL_ENGINE"); v != "" {
		state.Engine = v
		state.EngineSet = true
	}
	if v := os.Getenv("COUNCIL_MAX_ITERATIONS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			state.MaxIterations = i
			state.MaxIterationsSet = true
		}
	}
	if v := os.Getenv("COUNCIL_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			state.Delay = d
			state.DelaySet = true
		} else if secs, err := strconv.Atoi(v); err == nil {
			state.Delay = time.Duration(secs) * time.Second
			state.DelaySet = true
		}
	}
	if v := os.Getenv("COUNCIL_MARKER"); v != "" {
		state.Marker = v
		state.MarkerSet = true
	}
	if v := os.Getenv("COUNCIL_REPORT"); v != "" {
		state.Report = v
		state.ReportSet = true
	}

	return state
}

// Resolve merges config file values with env vars and flags.
// Precedence: flags > env vars > config file > defaults
func Resolve(cfg *Config, envState EnvState, flagState FlagState, flagValues ResolvedConfig) ResolvedConfig {
	result := Defaults

	if cfg != nil {
		if cfg.Engine != nil {
			result.Engine = *cfg.Engine
		}
		if cfg.MaxIterations != nil {
			result.MaxIterations = *cfg.MaxIterations
		}
		if cfg.Delay != nil {
			result.Delay = cfg.Delay.AsDuration()
		}
		if cfg.Marker != nil {
			result.Marker = *cfg.Marker
		}
		if cfg.Report != nil {
			result.Report = *cfg.Report
		}
		if len(cfg.Extensions) > 0 {
			result.Extensions = cfg.Extensions
		}
		result.ExcludePatterns = cfg.Filters.ExcludePatterns
	}

	if envState.EngineSet {
		result.Engine = envState.Engine
	}
	if envState.MaxIterationsSet {
		result.MaxIterations = envState.MaxIterations
	}
	if envState.DelaySet {
		result.Delay = envState.Delay
	}
	if envState.MarkerSet {
		result.Marker = envState.Marker
	}
	if envState.ReportSet {
		result.Report = envState.Report
	}

	if flagState.EngineSet {
		result.Engine = flagValues.Engine
	}
	if flagState.MaxIterationsSet {
		result.MaxIterations = flagValues.MaxIterations
	}
	if flagState.DelaySet {
		result.Delay = flagValues.Delay
	}
	if flagState.MarkerSet {
		result.Marker = flagValues.Marker
	}
	if flagState.ReportSet {
		result.Report = flagValues.Report
	}
	if flagState.ExtensionsSet {
		result.Extensions = flagValues.Extensions
	}

	// CLI exclude patterns stack on top of the config file's.
	result.ExcludePatterns = append(result.ExcludePatterns, flagValues.ExcludePatterns...)

	return result
}
