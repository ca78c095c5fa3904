package workstream

import (
	"testing"
	"time"
)

func TestFormatApprovalIcon(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"approved", "APPROVED"},
		{"revoked", "REVOKED"},
		{"pending", "PENDING"},
		{"unknown", "PENDING"},
		{"", "PENDING"},
		{"APPROVED", "PENDING"},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := FormatApprovalIcon(tt.status); got != tt.want {
				t.Errorf("FormatApprovalIcon(%q) = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestApproval_Lifecycle(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var a Approval

	a.Approve("alice", "abc123", now)
	if a.Status != ApprovalApproved || a.By != "alice" || a.Checksum != "abc123" {
		t.Fatalf("after Approve: %+v", a)
	}
	if a.At == nil || !a.At.Equal(now) {
		t.Errorf("At = %v, want %v", a.At, now)
	}
	if a.IsStale("abc123") {
		t.Error("approval should not be stale for the same checksum")
	}
	if !a.IsStale("def456") {
		t.Error("approval should be stale once the plan checksum changes")
	}

	a.Revoke("bob", now.Add(time.Hour))
	if a.Status != ApprovalRevoked || a.By != "bob" || a.Checksum != "" {
		t.Errorf("after Revoke: %+v", a)
	}
	if a.IsStale("anything") {
		t.Error("a revoked approval is never stale")
	}
}
