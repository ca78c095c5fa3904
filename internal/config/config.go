// Package config provides configuration management for ws.
// Configuration is loaded from (highest to lowest priority):
// 1. Command-line flags
// 2. Environment variables (WORKSTREAMS_*)
// 3. Project config (.workstreams/config.yaml in cwd, or $WORKSTREAMS_CONFIG)
// 4. Home config (~/.workstreams/config.yaml)
// 5. Defaults
//
// The GitHub and synthesis settings consumed by collaborators live in JSON
// files inside the work directory; see github.go and synthesis.go.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/boshu2/workstreams/cli/internal/workstream"
)

// Config holds the tool configuration.
type Config struct {
	// Output controls the default output format (table, json, yaml, toml).
	Output string `yaml:"output" json:"output"`

	// WorkDir is the directory holding index.json and workstream folders.
	WorkDir string `yaml:"work_dir" json:"work_dir"`

	// Verbose enables verbose output.
	Verbose bool `yaml:"verbose" json:"verbose"`

	// Color is auto, always or never.
	Color string `yaml:"color" json:"color"`

	// DefaultEstimate is used by create when --estimate is omitted.
	DefaultEstimate string `yaml:"default_estimate" json:"default_estimate"`

	// LockTimeout is how long mutating commands wait for the work directory
	// lock, as a Go duration ("5s").
	LockTimeout string `yaml:"lock_timeout" json:"lock_timeout"`
}

// Default config values (used in resolution and validation).
const (
	defaultOutput      = "table"
	defaultWorkDir     = "work"
	defaultColor       = "auto"
	defaultEstimate    = string(workstream.EstimateMedium)
	defaultLockTimeout = "5s"
)

// ValidOutputs lists the accepted --output values.
var ValidOutputs = []string{"table", "json", "yaml", "toml"}

// ValidColors lists the accepted color modes.
var ValidColors = []string{"auto", "always", "never"}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Output:          defaultOutput,
		WorkDir:         defaultWorkDir,
		Verbose:         false,
		Color:           defaultColor,
		DefaultEstimate: defaultEstimate,
		LockTimeout:     defaultLockTimeout,
	}
}

// Load loads configuration with proper precedence.
// Priority: flags > env > project > home > defaults
func Load(flagOverrides *Config) (*Config, error) {
	cfg := Default()

	homeConfig, err := loadFromPath(homeConfigPath())
	if err != nil {
		return nil, err
	}
	if homeConfig != nil {
		cfg = merge(cfg, homeConfig)
	}

	projectConfig, err := loadFromPath(projectConfigPath())
	if err != nil {
		return nil, err
	}
	if projectConfig != nil {
		cfg = merge(cfg, projectConfig)
	}

	cfg = applyEnv(cfg)

	if flagOverrides != nil {
		cfg = merge(cfg, flagOverrides)
	}

	return cfg, cfg.Validate()
}

// Validate checks enumerated and parsed fields.
func (c *Config) Validate() error {
	if !contains(ValidOutputs, c.Output) {
		return fmt.Errorf("invalid output %q (want one of %s)", c.Output, strings.Join(ValidOutputs, ", "))
	}
	if !contains(ValidColors, c.Color) {
		return fmt.Errorf("invalid color %q (want one of %s)", c.Color, strings.Join(ValidColors, ", "))
	}
	if _, err := workstream.ParseEstimate(c.DefaultEstimate); err != nil {
		return fmt.Errorf("default_estimate: %w", err)
	}
	if _, err := time.ParseDuration(c.LockTimeout); err != nil {
		return fmt.Errorf("lock_timeout: %w", err)
	}
	return nil
}

// LockTimeoutDuration returns LockTimeout parsed, falling back to the default.
func (c *Config) LockTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.LockTimeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(defaultLockTimeout)
	}
	return d
}

// homeConfigPath returns the home config path.
func homeConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".workstreams", "config.yaml")
}

// projectConfigPath returns the project config path.
func projectConfigPath() string {
	if override := strings.TrimSpace(os.Getenv("WORKSTREAMS_CONFIG")); override != "" {
		return override
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".workstreams", "config.yaml")
}

// loadFromPath loads config from a YAML file. A missing file is not an error.
func loadFromPath(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &cfg, nil
}

// applyEnv applies environment variable overrides.
func applyEnv(cfg *Config) *Config {
	if v, ok := getEnvString("WORKSTREAMS_OUTPUT"); ok {
		cfg.Output = v
	}
	if v, ok := getEnvString("WORKSTREAMS_WORK_DIR"); ok {
		cfg.WorkDir = v
	}
	if v, _ := getEnvBool("WORKSTREAMS_VERBOSE"); v {
		cfg.Verbose = true
	}
	if v, ok := getEnvString("WORKSTREAMS_COLOR"); ok {
		cfg.Color = v
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.Color = "never"
	}
	if v, ok := getEnvString("WORKSTREAMS_DEFAULT_ESTIMATE"); ok {
		cfg.DefaultEstimate = v
	}
	if v, ok := getEnvString("WORKSTREAMS_LOCK_TIMEOUT"); ok {
		cfg.LockTimeout = v
	}
	return cfg
}

// mergeStr overwrites dst with src when src is non-empty.
func mergeStr(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// merge merges src into dst, with src values taking precedence.
// Verbose can only be switched on by a later layer.
func merge(dst, src *Config) *Config {
	mergeStr(&dst.Output, src.Output)
	mergeStr(&dst.WorkDir, src.WorkDir)
	if src.Verbose {
		dst.Verbose = true
	}
	mergeStr(&dst.Color, src.Color)
	mergeStr(&dst.DefaultEstimate, src.DefaultEstimate)
	mergeStr(&dst.LockTimeout, src.LockTimeout)
	return dst
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Source represents where a config value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceHome    Source = "~/.workstreams/config.yaml"
	SourceProject Source = ".workstreams/config.yaml"
	SourceEnv     Source = "environment"
	SourceFlag    Source = "flag"
)

// getEnvString returns the value and whether the env var was set.
func getEnvString(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

// getEnvBool returns the boolean value and whether it was truthy.
func getEnvBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "true" || v == "1" {
		return true, true
	}
	return false, false
}

// projectSource names the project layer: the default location, or the file
// $WORKSTREAMS_CONFIG points at.
func projectSource() Source {
	if override := strings.TrimSpace(os.Getenv("WORKSTREAMS_CONFIG")); override != "" {
		return Source(override)
	}
	return SourceProject
}

// resolveStringField resolves a string through the precedence chain.
func resolveStringField(home, project, env, flag, def string) resolved {
	result := resolved{Value: def, Source: SourceDefault}
	if home != "" {
		result = resolved{Value: home, Source: SourceHome}
	}
	if project != "" {
		result = resolved{Value: project, Source: SourceProject}
	}
	if env != "" {
		result = resolved{Value: env, Source: SourceEnv}
	}
	if flag != "" {
		result = resolved{Value: flag, Source: SourceFlag}
	}
	return result
}

// ResolvedConfig shows config values with their sources.
type ResolvedConfig struct {
	Output          resolved `json:"output" yaml:"output"`
	WorkDir         resolved `json:"work_dir" yaml:"work_dir"`
	Verbose         resolved `json:"verbose" yaml:"verbose"`
	Color           resolved `json:"color" yaml:"color"`
	DefaultEstimate resolved `json:"default_estimate" yaml:"default_estimate"`
	LockTimeout     resolved `json:"lock_timeout" yaml:"lock_timeout"`
}

type resolved struct {
	Value  any    `json:"value" yaml:"value"`
	Source Source `json:"source" yaml:"source"`
}

// Resolve returns configuration with source tracking.
// Uses precedence chain: flags > env > project > home > defaults.
// Unreadable config files are treated as absent.
func Resolve(flags Config) *ResolvedConfig {
	home, _ := loadFromPath(homeConfigPath())
	if home == nil {
		home = &Config{}
	}
	project, _ := loadFromPath(projectConfigPath())
	if project == nil {
		project = &Config{}
	}

	envOutput, _ := getEnvString("WORKSTREAMS_OUTPUT")
	envWorkDir, _ := getEnvString("WORKSTREAMS_WORK_DIR")
	envVerbose, _ := getEnvBool("WORKSTREAMS_VERBOSE")
	envColor, _ := getEnvString("WORKSTREAMS_COLOR")
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		envColor = "never"
	}
	envEstimate, _ := getEnvString("WORKSTREAMS_DEFAULT_ESTIMATE")
	envLockTimeout, _ := getEnvString("WORKSTREAMS_LOCK_TIMEOUT")

	rc := &ResolvedConfig{
		Output:          resolveStringField(home.Output, project.Output, envOutput, flags.Output, defaultOutput),
		WorkDir:         resolveStringField(home.WorkDir, project.WorkDir, envWorkDir, flags.WorkDir, defaultWorkDir),
		Verbose:         resolved{Value: false, Source: SourceDefault},
		Color:           resolveStringField(home.Color, project.Color, envColor, flags.Color, defaultColor),
		DefaultEstimate: resolveStringField(home.DefaultEstimate, project.DefaultEstimate, envEstimate, flags.DefaultEstimate, defaultEstimate),
		LockTimeout:     resolveStringField(home.LockTimeout, project.LockTimeout, envLockTimeout, flags.LockTimeout, defaultLockTimeout),
	}

	// Verbose has OR semantics through the chain.
	if home.Verbose {
		rc.Verbose = resolved{Value: true, Source: SourceHome}
	}
	if project.Verbose {
		rc.Verbose = resolved{Value: true, Source: SourceProject}
	}
	if envVerbose {
		rc.Verbose = resolved{Value: true, Source: SourceEnv}
	}
	if flags.Verbose {
		rc.Verbose = resolved{Value: true, Source: SourceFlag}
	}

	if src := projectSource(); src != SourceProject {
		for _, r := range []*resolved{&rc.Output, &rc.WorkDir, &rc.Verbose, &rc.Color, &rc.DefaultEstimate, &rc.LockTimeout} {
			if r.Source == SourceProject {
				r.Source = src
			}
		}
	}
	return rc
}
