package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/boshu2/workstreams/cli/internal/store"
	"github.com/boshu2/workstreams/cli/internal/workstream"
)

var revokeReason string

var approveCmd = &cobra.Command{
	Use:   "approve [workstream]",
	Short: "Approve a plan",
	Long: `Record approval of the plan as it stands. The approval stores a checksum
of the plan's structure and wording; task progress does not affect it, but
any later edit to titles or tasks marks the approval as stale in ws status.

Plans with validation errors cannot be approved.

Examples:
  ws approve
  ws approve payments`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApprove,
}

var revokeCmd = &cobra.Command{
	Use:   "revoke [workstream]",
	Short: "Revoke a plan's approval",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRevoke,
}

func init() {
	approveCmd.GroupID = "manage"
	revokeCmd.GroupID = "manage"
	rootCmd.AddCommand(approveCmd, revokeCmd)
	revokeCmd.Flags().StringVar(&revokeReason, "reason", "", "Why the approval is withdrawn")
}

func runApprove(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	by := GetCurrentUser()

	var checksum string
	ws, err := mutate(cmd, target(args), func(ws *workstream.Workstream) (store.Event, error) {
		if diags := workstream.Validate(ws); diags.HasErrors() {
			fmt.Fprintf(w, "%s: INVALID\n", ws.ID)
			printDiagnostics(cmd, w, diags.Filter(workstream.SeverityError))
			return store.Event{}, fmt.Errorf("%w: fix the errors above before approving", errValidationFailed)
		}
		checksum = store.PlanChecksum(ws)
		ws.Approval.Approve(by, checksum, time.Now().UTC())
		return store.Event{Action: store.ActionApprove, Actor: by, Detail: "checksum " + checksum}, nil
	})
	if err != nil {
		return err
	}
	if !GetDryRun() {
		fmt.Fprintf(w, "Approved %s (checksum %s)\n", ws.ID, checksum)
	}
	return nil
}

func runRevoke(cmd *cobra.Command, args []string) error {
	by := GetCurrentUser()
	ws, err := mutate(cmd, target(args), func(ws *workstream.Workstream) (store.Event, error) {
		if ws.Approval.Status != workstream.ApprovalApproved {
			return store.Event{}, fmt.Errorf("%s is not approved (%s)", ws.ID, workstream.FormatApprovalIcon(string(ws.Approval.Status)))
		}
		ws.Approval.Revoke(by, time.Now().UTC())
		return store.Event{Action: store.ActionRevoke, Actor: by, Detail: revokeReason}, nil
	})
	if err != nil {
		return err
	}
	if !GetDryRun() {
		fmt.Fprintf(cmd.OutOrStdout(), "Revoked approval of %s\n", ws.ID)
	}
	return nil
}
