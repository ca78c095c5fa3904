package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// GitHubConfigFile is the GitHub sync settings file inside the work directory.
const GitHubConfigFile = "github.json"

// LabelStyle is the prefix and hex color of one label family.
type LabelStyle struct {
	Prefix string `json:"prefix" yaml:"prefix"`
	Color  string `json:"color" yaml:"color"`
}

// LabelConfig holds the label family for each hierarchy level.
type LabelConfig struct {
	Workstream LabelStyle `json:"workstream" yaml:"workstream"`
	Stage      LabelStyle `json:"stage" yaml:"stage"`
	Batch      LabelStyle `json:"batch" yaml:"batch"`
	Thread     LabelStyle `json:"thread" yaml:"thread"`
}

// GitHubConfig configures issue sync. It is consumed by collaborators; ws
// itself only writes and displays it.
type GitHubConfig struct {
	Enabled     bool        `json:"enabled" yaml:"enabled"`
	Owner       string      `json:"owner,omitempty" yaml:"owner,omitempty"`
	Repo        string      `json:"repo,omitempty" yaml:"repo,omitempty"`
	LabelConfig LabelConfig `json:"label_config" yaml:"label_config"`
}

// DefaultGitHubConfig returns the disabled default with the standard labels.
func DefaultGitHubConfig() GitHubConfig {
	return GitHubConfig{
		Enabled: false,
		LabelConfig: LabelConfig{
			Workstream: LabelStyle{Prefix: "workstream:", Color: "7057ff"},
			Stage:      LabelStyle{Prefix: "stage:", Color: "0e8a16"},
			Batch:      LabelStyle{Prefix: "batch:", Color: "fbca04"},
			Thread:     LabelStyle{Prefix: "thread:", Color: "1d76db"},
		},
	}
}

// Labels returns the label families in hierarchy order.
func (c GitHubConfig) Labels() []NamedLabel {
	return []NamedLabel{
		{Level: "workstream", LabelStyle: c.LabelConfig.Workstream},
		{Level: "stage", LabelStyle: c.LabelConfig.Stage},
		{Level: "batch", LabelStyle: c.LabelConfig.Batch},
		{Level: "thread", LabelStyle: c.LabelConfig.Thread},
	}
}

// NamedLabel pairs a label family with its hierarchy level.
type NamedLabel struct {
	Level      string `json:"level" yaml:"level"`
	LabelStyle `yaml:",inline"`
}

// githubFile mirrors GitHubConfig with pointer fields so that a partial file
// can be told apart from explicit zero values.
type githubFile struct {
	Enabled     *bool  `json:"enabled"`
	Owner       string `json:"owner"`
	Repo        string `json:"repo"`
	LabelConfig struct {
		Workstream *LabelStyle `json:"workstream"`
		Stage      *LabelStyle `json:"stage"`
		Batch      *LabelStyle `json:"batch"`
		Thread     *LabelStyle `json:"thread"`
	} `json:"label_config"`
}

// mergeGitHubConfig lays the fields present in src over the defaults.
func mergeGitHubConfig(dst GitHubConfig, src githubFile) GitHubConfig {
	if src.Enabled != nil {
		dst.Enabled = *src.Enabled
	}
	mergeStr(&dst.Owner, src.Owner)
	mergeStr(&dst.Repo, src.Repo)
	mergeLabel(&dst.LabelConfig.Workstream, src.LabelConfig.Workstream)
	mergeLabel(&dst.LabelConfig.Stage, src.LabelConfig.Stage)
	mergeLabel(&dst.LabelConfig.Batch, src.LabelConfig.Batch)
	mergeLabel(&dst.LabelConfig.Thread, src.LabelConfig.Thread)
	return dst
}

func mergeLabel(dst *LabelStyle, src *LabelStyle) {
	if src == nil {
		return
	}
	mergeStr(&dst.Prefix, src.Prefix)
	mergeStr(&dst.Color, src.Color)
}

// LoadGitHubConfig reads github.json from workDir. A missing file yields the
// defaults; a malformed file is logged as a warning and also yields the
// defaults.
func LoadGitHubConfig(workDir string, logger *slog.Logger) GitHubConfig {
	cfg := DefaultGitHubConfig()
	path := filepath.Join(workDir, GitHubConfigFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			warn(logger, "could not read github config, using defaults", path, err)
		}
		return cfg
	}

	var f githubFile
	if err := json.Unmarshal(data, &f); err != nil {
		warn(logger, "could not parse github config, using defaults", path, err)
		return cfg
	}
	return mergeGitHubConfig(cfg, f)
}

// SaveGitHubConfig writes github.json into workDir.
func SaveGitHubConfig(workDir string, cfg GitHubConfig) error {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", workDir, err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal github config: %w", err)
	}
	path := filepath.Join(workDir, GitHubConfigFile)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func warn(logger *slog.Logger, msg, path string, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn(msg, "path", path, "error", err)
}
