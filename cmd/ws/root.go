package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/user"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boshu2/workstreams/cli/internal/config"
	"github.com/boshu2/workstreams/cli/internal/store"
	"github.com/boshu2/workstreams/cli/internal/style"
)

var (
	// Global flags
	dryRun     bool
	verbose    bool
	output     string
	cfgFile    string
	workDir    string
	noColor    bool
	targetFlag string
)

// Resolved per invocation in PersistentPreRunE.
var (
	cfg    *config.Config
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ws",
	Short: "Workstream planning CLI",
	Long: `ws manages workstreams: planning documents made of stages, batches,
threads and tasks, stored as markdown under work/ in your repository.

Get Started:
  create       Start a new workstream from a size estimate
  status       Show the current workstream tree and progress
  update       Change a task's status

Every mutating command takes an exclusive lock on the work directory,
so concurrent invocations wait for each other instead of losing writes.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "core", Title: "Core Commands:"},
		&cobra.Group{ID: "edit", Title: "Editing:"},
		&cobra.Group{ID: "manage", Title: "Management:"},
	)

	// Global flags available to all commands
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Show what would happen without writing")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output format (table, json, yaml, toml)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: .workstreams/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&workDir, "work-dir", "", "Work directory (default: work)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVarP(&targetFlag, "workstream", "w", "", "Workstream to act on (default: current)")
}

// setup loads config and builds the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	syncConfigFlagToEnv()

	overrides := &config.Config{
		Output:  output,
		WorkDir: workDir,
		Verbose: verbose,
	}
	if noColor {
		overrides.Color = "never"
	}

	loaded, err := config.Load(overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = loaded

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// GetDryRun returns the dry-run flag value for use by subcommands.
func GetDryRun() bool {
	return dryRun
}

// GetOutput returns the resolved output format.
func GetOutput() string {
	if cfg == nil {
		return "table"
	}
	return cfg.Output
}

// VerbosePrintf prints only when verbose mode is enabled.
func VerbosePrintf(w io.Writer, format string, args ...any) {
	if cfg != nil && cfg.Verbose {
		fmt.Fprintf(w, format, args...)
	}
}

func syncConfigFlagToEnv() {
	path := strings.TrimSpace(cfgFile)
	if path == "" {
		return
	}
	_ = os.Setenv("WORKSTREAMS_CONFIG", path)
}

// GetCurrentUser returns the current system username.
func GetCurrentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "unknown"
}

// projectWorkDir resolves the configured work directory. A relative work
// dir is searched for in parent directories first.
func projectWorkDir() string {
	return store.FindWorkDir("", cfg.WorkDir)
}

// openStore returns the store for the project's work directory.
func openStore() *store.Store {
	return store.New(projectWorkDir(),
		store.WithLockTimeout(cfg.LockTimeoutDuration()),
		store.WithLogger(logger),
	)
}

// stylesFor returns styles bound to the command's output stream.
func stylesFor(cmd *cobra.Command) *style.Styles {
	out := cmd.OutOrStdout()
	return style.New(out, style.Enabled(cfg.Color, out))
}

// target picks the workstream query: a positional argument wins over
// --workstream, and an empty query means the current workstream.
func target(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return targetFlag
}
