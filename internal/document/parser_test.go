package document

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/boshu2/workstreams/cli/internal/workstream"
)

const samplePlan = `# Workstream: Payments Rewrite

Move billing onto the new ledger.

## Stage 01: Foundations

### Batch 01: Schema

#### Thread 01: Ledger tables

Create the core tables.

- [x] 01.01.01.01 Write migration
- [~] 01.01.01.02 Backfill history

#### Thread 02: API

- [ ] 01.01.02.01 Define endpoints

## Stage 02: Cutover

### Batch 01: Rollout

#### Thread 01: Flags

- [X] 02.01.01.01 Add feature flag
`

func TestParse_Sample(t *testing.T) {
	ws, diags, err := Parse(strings.NewReader(samplePlan))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}

	if ws.Title != "Payments Rewrite" {
		t.Errorf("Title = %q", ws.Title)
	}
	if ws.Summary != "Move billing onto the new ledger." {
		t.Errorf("Summary = %q", ws.Summary)
	}
	if len(ws.Stages) != 2 {
		t.Fatalf("len(Stages) = %d, want 2", len(ws.Stages))
	}

	s1 := ws.Stages[0]
	if s1.Index != 1 || s1.Title != "Foundations" || s1.Line != 5 {
		t.Errorf("stage 1 = %+v", s1)
	}
	threads := s1.Batches[0].Threads
	if len(threads) != 2 {
		t.Fatalf("len(threads) = %d, want 2", len(threads))
	}
	if threads[0].Summary != "Create the core tables." {
		t.Errorf("thread summary = %q", threads[0].Summary)
	}

	tasks := threads[0].Tasks
	if len(tasks) != 2 {
		t.Fatalf("len(tasks) = %d, want 2", len(tasks))
	}
	if tasks[0].ID != "01.01.01.01" || tasks[0].Description != "Write migration" {
		t.Errorf("task 0 = %+v", tasks[0])
	}
	if !tasks[0].Checked || tasks[0].Status != workstream.StatusComplete {
		t.Errorf("task 0 status = %q checked=%v", tasks[0].Status, tasks[0].Checked)
	}
	if tasks[1].Status != workstream.StatusInProgress || tasks[1].Checked {
		t.Errorf("task 1 status = %q checked=%v", tasks[1].Status, tasks[1].Checked)
	}
	if tasks[1].Line != 14 {
		t.Errorf("task 1 line = %d, want 14", tasks[1].Line)
	}

	if threads[0].Status != workstream.StatusInProgress {
		t.Errorf("thread 1 status = %q, want in_progress", threads[0].Status)
	}
	if threads[1].Status != workstream.StatusNotStarted {
		t.Errorf("thread 2 status = %q, want not_started", threads[1].Status)
	}
	if ws.Stages[1].Status != workstream.StatusComplete {
		t.Errorf("stage 2 status = %q, want complete (uppercase X)", ws.Stages[1].Status)
	}
	if ws.Status != workstream.StatusInProgress {
		t.Errorf("workstream status = %q, want in_progress", ws.Status)
	}
}

func TestParse_MalformedNesting(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "batch before stage",
			input:    "# Workstream: X\n### Batch 01: Early\n",
			wantLine: 2,
			wantMsg:  "before any stage",
		},
		{
			name:     "thread outside batch",
			input:    "# Workstream: X\n## Stage 01: S\n#### Thread 01: T\n",
			wantLine: 3,
			wantMsg:  "outside a batch",
		},
		{
			name:     "task outside thread",
			input:    "# Workstream: X\n## Stage 01: S\n### Batch 01: B\n- [ ] 01.01.01.01 loose\n",
			wantLine: 4,
			wantMsg:  "outside a thread",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags, err := Parse(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			got := diags.ByCode(workstream.CodeMalformedNesting)
			if len(got) != 1 {
				t.Fatalf("got %d malformed-nesting diagnostics, want 1: %v", len(got), diags)
			}
			if got[0].Severity != workstream.SeverityError {
				t.Errorf("Severity = %q, want error", got[0].Severity)
			}
			if line := got[0].Locations[0].Line; line != tt.wantLine {
				t.Errorf("Line = %d, want %d", line, tt.wantLine)
			}
			if !strings.Contains(got[0].Message, tt.wantMsg) {
				t.Errorf("Message = %q, want it to contain %q", got[0].Message, tt.wantMsg)
			}
		})
	}
}

func TestParse_TasksUnderMisplacedThreadAreDropped(t *testing.T) {
	input := "# Workstream: X\n## Stage 01: S\n#### Thread 01: T\n- [ ] 01.01.01.01 lost\n"
	ws, diags, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if n := len(ws.Tasks()); n != 0 {
		t.Errorf("len(Tasks()) = %d, want 0", n)
	}
	if len(diags) != 1 {
		t.Errorf("want only the nesting diagnostic, got %v", diags)
	}
}

func TestParse_UnknownHeadingSkipsSection(t *testing.T) {
	input := `# Workstream: X
## Stage 01: S
### Batch 01: B
#### Thread 01: T
- [ ] 01.01.01.01 kept
## Notes
- [ ] not a task
## Stage 02: Next
`
	ws, diags, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	unknown := diags.ByCode(workstream.CodeUnknownHeading)
	if len(unknown) != 1 || unknown[0].Locations[0].Line != 6 {
		t.Fatalf("unknown-heading diagnostics = %v", unknown)
	}
	if unknown[0].Severity != workstream.SeverityWarning {
		t.Errorf("Severity = %q, want warning", unknown[0].Severity)
	}
	if n := len(ws.Tasks()); n != 1 {
		t.Errorf("len(Tasks()) = %d, want 1", n)
	}
	if len(ws.Stages) != 2 {
		t.Errorf("len(Stages) = %d, want 2 (parsing resumes after unknown section)", len(ws.Stages))
	}
}

func TestParse_NestedTaskIsFlattened(t *testing.T) {
	input := "# Workstream: X\n## Stage 01: S\n### Batch 01: B\n#### Thread 01: T\n- [ ] 01.01.01.01 parent\n  - [ ] 01.01.01.02 child\n"
	ws, diags, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if n := len(ws.Tasks()); n != 2 {
		t.Errorf("len(Tasks()) = %d, want 2", n)
	}
	got := diags.ByCode(workstream.CodeMalformedTask)
	if len(got) != 1 || got[0].Locations[0].Line != 6 {
		t.Errorf("malformed-task diagnostics = %v", got)
	}
}

func TestParse_TaskWithoutID(t *testing.T) {
	input := "# Workstream: X\n## Stage 01: S\n### Batch 01: B\n#### Thread 01: T\n- [ ] just words\n"
	ws, _, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	task := ws.Stages[0].Batches[0].Threads[0].Tasks[0]
	if task.ID != "" || task.Description != "just words" {
		t.Errorf("task = %+v", task)
	}
}

func TestParse_StrayText(t *testing.T) {
	input := "# Workstream: X\n## Stage 01: S\nloose words\n"
	_, diags, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	got := diags.ByCode(workstream.CodeStrayText)
	if len(got) != 1 || got[0].Severity != workstream.SeverityInfo {
		t.Errorf("stray-text diagnostics = %v", got)
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	ws, diags, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 0 || len(ws.Stages) != 0 {
		t.Errorf("empty document: stages=%d diags=%v", len(ws.Stages), diags)
	}
	if ws.Status != workstream.StatusNotStarted {
		t.Errorf("Status = %q, want not_started", ws.Status)
	}
}

func TestParse_SectionWithoutTitle(t *testing.T) {
	ws, _, err := Parse(strings.NewReader("# Workstream: X\n## Stage 3\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(ws.Stages) != 1 || ws.Stages[0].Index != 3 || ws.Stages[0].Title != "" {
		t.Errorf("stages = %+v", ws.Stages)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("é", 30)
	got := truncate(long, 20)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 20 {
		t.Errorf("truncate length = %d runes, want 20", n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncate(%q) = %q", long, got)
	}
	if got := truncate("short", 20); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
}

func TestParse_EscapedSummaryLines(t *testing.T) {
	input := "# Workstream: X\n## Stage 01: S\n### Batch 01: B\n#### Thread 01: T\n\\- [ ] not a task\n\\## Stage 02: not a stage\n- [ ] 01.01.01.01 real\n"
	ws, diags, err := Parse(strings.NewReader(input))
	if err != nil || len(diags) != 0 {
		t.Fatalf("Parse() err=%v diags=%v", err, diags)
	}
	th := ws.Stages[0].Batches[0].Threads[0]
	if th.Summary != "- [ ] not a task\n## Stage 02: not a stage" {
		t.Errorf("Summary = %q", th.Summary)
	}
	if len(ws.Stages) != 1 || len(th.Tasks) != 1 {
		t.Errorf("stages=%d tasks=%d", len(ws.Stages), len(th.Tasks))
	}
}
