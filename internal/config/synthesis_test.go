package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadSynthesisConfig(t *testing.T) {
	tests := []struct {
		name        string
		content     string // empty means no file
		wantEnabled bool
		wantAgent   string
		wantStore   *bool
		wantWarn    bool
	}{
		{name: "missing file", wantEnabled: false},
		{name: "malformed", content: "enabled: yes", wantEnabled: false, wantWarn: true},
		{name: "enabled only", content: `{"enabled": true}`, wantEnabled: true},
		{
			name:        "full",
			content:     `{"enabled": true, "agent": "summarizer", "output": {"store_in_threads": true}}`,
			wantEnabled: true,
			wantAgent:   "summarizer",
			wantStore:   boolPtr(true),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.content != "" {
				writeFile(t, filepath.Join(dir, SynthesisConfigFile), tt.content)
			}
			logger, buf := captureLogger()

			cfg := LoadSynthesisConfig(dir, logger)

			if cfg.Enabled != tt.wantEnabled {
				t.Errorf("Enabled = %v, want %v", cfg.Enabled, tt.wantEnabled)
			}
			if cfg.Agent != tt.wantAgent {
				t.Errorf("Agent = %q, want %q", cfg.Agent, tt.wantAgent)
			}
			switch {
			case tt.wantStore == nil && cfg.Output != nil:
				t.Errorf("Output = %+v, want nil", cfg.Output)
			case tt.wantStore != nil && (cfg.Output == nil || cfg.Output.StoreInThreads != *tt.wantStore):
				t.Errorf("Output = %+v, want store_in_threads=%v", cfg.Output, *tt.wantStore)
			}
			if gotWarn := strings.Contains(buf.String(), "level=WARN"); gotWarn != tt.wantWarn {
				t.Errorf("warning logged = %v, want %v (%s)", gotWarn, tt.wantWarn, buf.String())
			}
		})
	}
}

func boolPtr(b bool) *bool { return &b }
