package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/boshu2/workstreams/cli/internal/config"
	"github.com/boshu2/workstreams/cli/internal/formatter"
)

var (
	configShow bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long: `View ws configuration.

Configuration priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (WORKSTREAMS_*)
  3. Project config (.workstreams/config.yaml)
  4. Home config (~/.workstreams/config.yaml)
  5. Defaults

Environment variables:
  WORKSTREAMS_CONFIG            - Explicit project config path
  WORKSTREAMS_OUTPUT            - Default output format (table, json, yaml, toml)
  WORKSTREAMS_WORK_DIR          - Work directory
  WORKSTREAMS_VERBOSE           - Enable verbose output (true/1)
  WORKSTREAMS_COLOR             - auto, always or never
  WORKSTREAMS_DEFAULT_ESTIMATE  - Estimate used by create
  WORKSTREAMS_LOCK_TIMEOUT      - How long to wait for the work directory lock
  NO_COLOR                      - Same as WORKSTREAMS_COLOR=never

The GitHub and synthesis settings live in github.json and synthesis.json in
the work directory and are shown alongside.

Examples:
  ws config --show
  ws config --show -o json`,
	RunE: runConfig,
}

func init() {
	configCmd.GroupID = "manage"
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVar(&configShow, "show", false, "Show resolved configuration with sources")
}

type configOutput struct {
	Tool      *config.ResolvedConfig `json:"tool" yaml:"tool"`
	GitHub    config.GitHubConfig    `json:"github" yaml:"github"`
	Synthesis config.SynthesisConfig `json:"synthesis" yaml:"synthesis"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	if !configShow {
		return cmd.Help()
	}

	flags := config.Config{Output: output, WorkDir: workDir, Verbose: verbose}
	if noColor {
		flags.Color = "never"
	}
	dir := projectWorkDir()
	out := configOutput{
		Tool:      config.Resolve(flags),
		GitHub:    config.LoadGitHubConfig(dir, logger),
		Synthesis: config.LoadSynthesisConfig(dir, logger),
	}

	w := cmd.OutOrStdout()
	if formatter.IsStructured(GetOutput()) {
		return formatter.Encode(w, GetOutput(), "config", out)
	}

	fmt.Fprintln(w, "ws Configuration")
	fmt.Fprintln(w, "================")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config files:")
	home, _ := os.UserHomeDir()
	printConfigFile(w, "Home:   ", filepath.Join(home, ".workstreams", "config.yaml"))
	project := os.Getenv("WORKSTREAMS_CONFIG")
	if project == "" {
		project = filepath.Join(".workstreams", "config.yaml")
	}
	printConfigFile(w, "Project:", project)

	rc := out.Tool
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Resolved values:")
	fmt.Fprintf(w, "  output:           %v  (from %s)\n", rc.Output.Value, rc.Output.Source)
	fmt.Fprintf(w, "  work_dir:         %v  (from %s)\n", rc.WorkDir.Value, rc.WorkDir.Source)
	fmt.Fprintf(w, "  verbose:          %v  (from %s)\n", rc.Verbose.Value, rc.Verbose.Source)
	fmt.Fprintf(w, "  color:            %v  (from %s)\n", rc.Color.Value, rc.Color.Source)
	fmt.Fprintf(w, "  default_estimate: %v  (from %s)\n", rc.DefaultEstimate.Value, rc.DefaultEstimate.Source)
	fmt.Fprintf(w, "  lock_timeout:     %v  (from %s)\n", rc.LockTimeout.Value, rc.LockTimeout.Source)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "GitHub (%s):\n", filepath.Join(dir, config.GitHubConfigFile))
	fmt.Fprintf(w, "  enabled: %v\n", out.GitHub.Enabled)
	if out.GitHub.Owner != "" || out.GitHub.Repo != "" {
		fmt.Fprintf(w, "  repo:    %s/%s\n", out.GitHub.Owner, out.GitHub.Repo)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Synthesis (%s):\n", filepath.Join(dir, config.SynthesisConfigFile))
	fmt.Fprintf(w, "  enabled: %v\n", out.Synthesis.Enabled)
	if out.Synthesis.Agent != "" {
		fmt.Fprintf(w, "  agent:   %s\n", out.Synthesis.Agent)
	}
	if out.Synthesis.Output != nil {
		fmt.Fprintf(w, "  store_in_threads: %v\n", out.Synthesis.Output.StoreInThreads)
	}
	return nil
}

func printConfigFile(w io.Writer, label, path string) {
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(w, "  ✓ %s %s\n", label, path)
	} else {
		fmt.Fprintf(w, "  ✗ %s %s (not found)\n", label, path)
	}
}
