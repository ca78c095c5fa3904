package config

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
)

// SynthesisConfigFile is the synthesis settings file inside the work directory.
const SynthesisConfigFile = "synthesis.json"

// SynthesisOutput controls where synthesized summaries go.
type SynthesisOutput struct {
	StoreInThreads bool `json:"store_in_threads" yaml:"store_in_threads"`
}

// SynthesisConfig configures the optional session synthesis collaborator.
type SynthesisConfig struct {
	Enabled bool             `json:"enabled" yaml:"enabled"`
	Agent   string           `json:"agent,omitempty" yaml:"agent,omitempty"`
	Output  *SynthesisOutput `json:"output,omitempty" yaml:"output,omitempty"`
}

// DefaultSynthesisConfig is disabled with no agent.
func DefaultSynthesisConfig() SynthesisConfig {
	return SynthesisConfig{Enabled: false}
}

type synthesisFile struct {
	Enabled *bool            `json:"enabled"`
	Agent   string           `json:"agent"`
	Output  *SynthesisOutput `json:"output"`
}

func mergeSynthesisConfig(dst SynthesisConfig, src synthesisFile) SynthesisConfig {
	if src.Enabled != nil {
		dst.Enabled = *src.Enabled
	}
	mergeStr(&dst.Agent, src.Agent)
	if src.Output != nil {
		out := *src.Output
		dst.Output = &out
	}
	return dst
}

// LoadSynthesisConfig reads synthesis.json from workDir. Missing or
// malformed files yield the disabled default; parse failures are logged.
func LoadSynthesisConfig(workDir string, logger *slog.Logger) SynthesisConfig {
	cfg := DefaultSynthesisConfig()
	path := filepath.Join(workDir, SynthesisConfigFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			warn(logger, "could not read synthesis config, using defaults", path, err)
		}
		return cfg
	}

	var f synthesisFile
	if err := json.Unmarshal(data, &f); err != nil {
		warn(logger, "could not parse synthesis config, using defaults", path, err)
		return cfg
	}
	return mergeSynthesisConfig(cfg, f)
}
