package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/boshu2/workstreams/cli/internal/config"
	"github.com/boshu2/workstreams/cli/internal/formatter"
)

var (
	githubOwner   string
	githubRepo    string
	githubEnable  bool
	githubDisable bool
)

var githubCmd = &cobra.Command{
	Use:   "github",
	Short: "Manage GitHub sync settings",
	Long: `Manage github.json in the work directory. The file configures issue
sync for tools that mirror workstreams to GitHub: the target repository and
the label prefix and color used for each level of the hierarchy.`,
}

var githubInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write github.json",
	Long: `Write github.json, keeping any existing values that are not overridden
by flags.

Examples:
  ws github init --owner acme --repo payments --enable`,
	Args: cobra.NoArgs,
	RunE: runGitHubInit,
}

var githubLabelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "Show the configured labels",
	Args:  cobra.NoArgs,
	RunE:  runGitHubLabels,
}

func init() {
	githubCmd.GroupID = "manage"
	githubCmd.AddCommand(githubInitCmd, githubLabelsCmd)
	rootCmd.AddCommand(githubCmd)

	githubInitCmd.Flags().StringVar(&githubOwner, "owner", "", "Repository owner")
	githubInitCmd.Flags().StringVar(&githubRepo, "repo", "", "Repository name")
	githubInitCmd.Flags().BoolVar(&githubEnable, "enable", false, "Enable sync")
	githubInitCmd.Flags().BoolVar(&githubDisable, "disable", false, "Disable sync")
	githubInitCmd.MarkFlagsMutuallyExclusive("enable", "disable")
}

func runGitHubInit(cmd *cobra.Command, args []string) error {
	dir := projectWorkDir()
	gh := config.LoadGitHubConfig(dir, logger)
	if githubOwner != "" {
		gh.Owner = githubOwner
	}
	if githubRepo != "" {
		gh.Repo = githubRepo
	}
	switch {
	case githubEnable:
		gh.Enabled = true
	case githubDisable:
		gh.Enabled = false
	}
	if gh.Enabled && (gh.Owner == "" || gh.Repo == "") {
		return fmt.Errorf("enabling sync needs --owner and --repo")
	}

	w := cmd.OutOrStdout()
	path := filepath.Join(dir, config.GitHubConfigFile)
	if GetDryRun() {
		data, err := json.MarshalIndent(gh, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "[dry-run] would write %s:\n%s\n", path, data)
		return nil
	}
	if err := config.SaveGitHubConfig(dir, gh); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}

func runGitHubLabels(cmd *cobra.Command, args []string) error {
	gh := config.LoadGitHubConfig(projectWorkDir(), logger)
	labels := gh.Labels()

	w := cmd.OutOrStdout()
	if formatter.IsStructured(GetOutput()) {
		return formatter.Encode(w, GetOutput(), "labels", labels)
	}

	st := stylesFor(cmd)
	tbl := formatter.NewTable(w, "LEVEL", "PREFIX", "COLOR", "")
	for _, l := range labels {
		tbl.AddRow(l.Level, l.Prefix, "#"+l.Color, st.Swatch(l.Color))
	}
	return tbl.Render()
}
