package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/boshu2/workstreams/cli/internal/formatter"
)

var filesAbs bool

var filesCmd = &cobra.Command{
	Use:   "files [workstream]",
	Short: "List the files stored with a workstream",
	Long: `List every file under the workstream's directory in lexical order:
the plan, its history and anything collaborators have written there.

Examples:
  ws files
  ws files payments --abs`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFiles,
}

func init() {
	filesCmd.GroupID = "manage"
	rootCmd.AddCommand(filesCmd)
	filesCmd.Flags().BoolVar(&filesAbs, "abs", false, "Print paths including the workstream directory")
}

func runFiles(cmd *cobra.Command, args []string) error {
	s := openStore()
	entry, err := s.Resolve(target(args))
	if err != nil {
		return err
	}
	files, err := s.Files(entry.ID)
	if err != nil {
		return err
	}
	if filesAbs {
		for i, f := range files {
			files[i] = filepath.Join(s.WorkstreamDir(entry.ID), f)
		}
	}

	w := cmd.OutOrStdout()
	if formatter.IsStructured(GetOutput()) {
		return formatter.Encode(w, GetOutput(), "files", files)
	}
	for _, f := range files {
		fmt.Fprintln(w, f)
	}
	return nil
}
