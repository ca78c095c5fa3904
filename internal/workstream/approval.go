package workstream

import "time"

// ApprovalStatus is the review state of a plan.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRevoked  ApprovalStatus = "revoked"
)

// Approval records who approved or revoked a plan, and the plan checksum at
// that moment so later edits can be detected.
type Approval struct {
	Status   ApprovalStatus `json:"status" yaml:"status" toml:"status"`
	At       *time.Time     `json:"at,omitempty" yaml:"at,omitempty" toml:"at,omitempty"`
	By       string         `json:"by,omitempty" yaml:"by,omitempty" toml:"by,omitempty"`
	Checksum string         `json:"checksum,omitempty" yaml:"checksum,omitempty" toml:"checksum,omitempty"`
}

// FormatApprovalIcon maps an approval status to its display label.
// Anything other than approved or revoked reads as PENDING.
func FormatApprovalIcon(status string) string {
	switch ApprovalStatus(status) {
	case ApprovalApproved:
		return "APPROVED"
	case ApprovalRevoked:
		return "REVOKED"
	default:
		return "PENDING"
	}
}

// Approve marks the plan approved at the given checksum.
func (a *Approval) Approve(by, checksum string, at time.Time) {
	a.Status = ApprovalApproved
	a.By = by
	a.Checksum = checksum
	a.At = &at
}

// Revoke withdraws a previous approval.
func (a *Approval) Revoke(by string, at time.Time) {
	a.Status = ApprovalRevoked
	a.By = by
	a.Checksum = ""
	a.At = &at
}

// IsStale reports whether an approved plan has changed since approval.
func (a Approval) IsStale(checksum string) bool {
	return a.Status == ApprovalApproved && a.Checksum != "" && a.Checksum != checksum
}
