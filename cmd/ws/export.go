package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/boshu2/workstreams/cli/internal/document"
	"github.com/boshu2/workstreams/cli/internal/formatter"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export [workstream]",
	Short: "Serialise a workstream",
	Long: `Write the full workstream model, including derived statuses and the
approval record, as json, yaml, toml or markdown.

Examples:
  ws export --format yaml
  ws export payments --format json --out payments.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.GroupID = "manage"
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format (json, yaml, toml, markdown)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Write to a file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) (err error) {
	if exportFormat != "markdown" && !formatter.IsStructured(exportFormat) {
		return fmt.Errorf("unsupported format %q (want json, yaml, toml or markdown)", exportFormat)
	}

	ws, _, err := loadTarget(openStore(), target(args))
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOut != "" {
		if GetDryRun() {
			fmt.Fprintf(w, "[dry-run] would write %s export of %s to %s\n", exportFormat, ws.ID, exportOut)
			return nil
		}
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}

	if exportFormat == "markdown" {
		return document.Render(w, ws)
	}
	return formatter.Encode(w, exportFormat, "workstream", ws)
}
