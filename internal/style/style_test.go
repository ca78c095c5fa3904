package style

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/boshu2/workstreams/cli/internal/workstream"
)

func TestEnabled(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	tests := []struct {
		mode string
		out  io.Writer
		want bool
	}{
		{"always", &bytes.Buffer{}, true},
		{"never", os.Stdout, false},
		{"auto", &bytes.Buffer{}, false},
		{"auto", f, false},
	}
	for _, tt := range tests {
		if got := Enabled(tt.mode, tt.out); got != tt.want {
			t.Errorf("Enabled(%q, %T) = %v, want %v", tt.mode, tt.out, got, tt.want)
		}
	}
}

func TestPlainHasNoEscapes(t *testing.T) {
	s := Plain()
	outputs := []string{
		s.Status(workstream.StatusComplete),
		s.Approval(workstream.ApprovalRevoked),
		s.Severity(workstream.SeverityError),
		s.Swatch("7057ff"),
		s.Progress(40, 10),
	}
	for _, out := range outputs {
		if strings.Contains(out, "\x1b[") {
			t.Errorf("plain output contains escape codes: %q", out)
		}
	}
}

func TestLabels(t *testing.T) {
	s := Plain()
	if got := s.Approval(workstream.ApprovalApproved); got != "APPROVED" {
		t.Errorf("Approval(approved) = %q", got)
	}
	if got := s.Approval(""); got != "PENDING" {
		t.Errorf("Approval(\"\") = %q", got)
	}
	if got := s.Severity(workstream.SeverityWarning); got != "WARN:" {
		t.Errorf("Severity(warning) = %q", got)
	}
	if got := s.Status(workstream.StatusInProgress); got != "in_progress" {
		t.Errorf("Status(in_progress) = %q", got)
	}
}

func TestProgress(t *testing.T) {
	s := Plain()
	tests := []struct {
		pct  int
		want string
	}{
		{0, "[----------] 0%"},
		{40, "[####------] 40%"},
		{100, "[##########] 100%"},
		{150, "[##########] 100%"},
	}
	for _, tt := range tests {
		if got := s.Progress(tt.pct, 10); got != tt.want {
			t.Errorf("Progress(%d) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestForcedColorEmitsEscapes(t *testing.T) {
	s := New(&bytes.Buffer{}, true)
	if out := s.Status(workstream.StatusComplete); !strings.Contains(out, "\x1b[") {
		t.Errorf("forced color should style output, got %q", out)
	}
}
