package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/boshu2/workstreams/cli/internal/style"
)

var showRaw bool

var showCmd = &cobra.Command{
	Use:   "show [workstream]",
	Short: "Render a workstream's PLAN.md",
	Long: `Print the planning document of a workstream, rendered for the terminal.

Use --raw to print the markdown source unchanged.

Examples:
  ws show
  ws show payments --raw`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.GroupID = "core"
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the markdown source")
}

func runShow(cmd *cobra.Command, args []string) error {
	s := openStore()
	entry, err := s.Resolve(target(args))
	if err != nil {
		return err
	}

	data, err := os.ReadFile(s.PlanPath(entry.ID))
	if err != nil {
		return fmt.Errorf("read plan: %w", err)
	}

	w := cmd.OutOrStdout()
	if showRaw {
		_, err := w.Write(data)
		return err
	}

	glamourStyle := "notty"
	if style.Enabled(cfg.Color, w) {
		glamourStyle = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(glamourStyle),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	rendered, err := r.Render(string(data))
	if err != nil {
		return fmt.Errorf("render plan: %w", err)
	}
	_, err = fmt.Fprint(w, rendered)
	return err
}
