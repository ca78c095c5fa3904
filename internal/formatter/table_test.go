package formatter

import (
	"bytes"
	"strings"
	"testing"
)

func renderLines(t *testing.T, tbl *Table, buf *bytes.Buffer) []string {
	t.Helper()
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func TestTable_WorkstreamListing(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "ID", "STATUS", "PROGRESS")
	tbl.AddRow("001-payments-rewrite", "in_progress", "3/12")
	tbl.AddRow("002-search", "not_started", "0/6")
	lines := renderLines(t, tbl, &buf)

	want := []string{
		"ID                    STATUS       PROGRESS",
		"--                    ------       --------",
		"001-payments-rewrite  in_progress  3/12",
		"002-search            not_started  0/6",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestTable_NoRowsWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "TIME", "ACTION")
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("empty history table wrote:\n%s", buf.String())
	}
}

func TestTable_ShortRowIsPadded(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "TIME", "ACTION", "ACTOR", "DETAIL")
	tbl.AddRow("2026-05-01 09:00", "create")
	tbl.AddRow("2026-05-01 09:05", "update", "dana", "01.01.01.01 -> complete")
	lines := renderLines(t, tbl, &buf)

	if lines[2] != "2026-05-01 09:00  create" {
		t.Errorf("short row = %q", lines[2])
	}
	if !strings.HasSuffix(lines[3], "dana   01.01.01.01 -> complete") {
		t.Errorf("full row = %q", lines[3])
	}
}

func TestTable_Truncation(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		cell  string
		want  string
	}{
		{"long title", 12, "Migrate ledger to event sourcing", "Migrate l..."},
		{"exactly at limit", 5, "Alpha", "Alpha"},
		{"tiny limit has no ellipsis", 2, "Alpha", "Al"},
		{"multibyte", 6, "Café über search", "Caf..."},
		{"accented", 6, "crème brûlée", "crè..."},
		{"unlimited", 0, "Migrate ledger", "Migrate ledger"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tbl := NewTable(&buf, "TITLE")
			tbl.SetMaxWidth(0, tt.limit)
			tbl.AddRow(tt.cell)
			lines := renderLines(t, tbl, &buf)
			if lines[2] != tt.want {
				t.Errorf("cell = %q, want %q", lines[2], tt.want)
			}
		})
	}
}

func TestTable_SeparatorFollowsHeaders(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "LEVEL", "PREFIX")
	tbl.AddRow("workstream", "workstream:")
	lines := renderLines(t, tbl, &buf)

	sep := strings.Fields(lines[1])
	if len(sep) != 2 || sep[0] != "-----" || sep[1] != "------" {
		t.Errorf("separator = %q", lines[1])
	}
}

func TestTable_StyledCellsAlign(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "STATUS", "ID")
	tbl.SetStyle(0, func(s string) string { return "\x1b[32m" + s + "\x1b[0m" })
	tbl.AddRow("complete", "001-a")
	tbl.AddRow("wip", "002-b")
	lines := renderLines(t, tbl, &buf)

	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	plain := func(s string) string {
		s = strings.ReplaceAll(s, "\x1b[32m", "")
		return strings.ReplaceAll(s, "\x1b[0m", "")
	}
	if strings.Index(plain(lines[2]), "001-a") != strings.Index(plain(lines[3]), "002-b") {
		t.Errorf("columns misaligned:\n%s\n%s", plain(lines[2]), plain(lines[3]))
	}
}

func BenchmarkTableRender(b *testing.B) {
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		tbl := NewTable(&buf, "ID", "TITLE", "STATUS")
		tbl.SetMaxWidth(1, 20)
		for j := 0; j < 10; j++ {
			tbl.AddRow("001-payments-rewrite", "Payments rewrite onto the new ledger", "in_progress")
		}
		_ = tbl.Render()
	}
}
