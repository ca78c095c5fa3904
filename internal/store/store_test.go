package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/boshu2/workstreams/cli/internal/workstream"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	fixed := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	return New(filepath.Join(t.TempDir(), DefaultDir),
		WithClock(func() time.Time { return fixed }),
		WithLockTimeout(200*time.Millisecond))
}

func createSample(t *testing.T, s *Store, title string) *workstream.Workstream {
	t.Helper()
	ws := workstream.NewFromStructure("", title, workstream.EstimateShort,
		workstream.DefaultStructure[workstream.EstimateShort])
	ws.CreatedBy = "tester"
	if err := s.Create(ws); err != nil {
		t.Fatalf("Create(%q) error = %v", title, err)
	}
	return ws
}

func TestStore_ReadIndexNotInitialized(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.ReadIndex(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ReadIndex() error = %v, want ErrNotInitialized", err)
	}
}

func TestStore_CreateAllocatesIDs(t *testing.T) {
	s := newTestStore(t)
	a := createSample(t, s, "Payments Rewrite")
	b := createSample(t, s, "Café Über Search")

	if a.ID != "001-payments-rewrite" {
		t.Errorf("first ID = %q", a.ID)
	}
	if b.ID != "002-cafe-uber-search" {
		t.Errorf("second ID = %q", b.ID)
	}

	idx, err := s.ReadIndex()
	if err != nil {
		t.Fatal(err)
	}
	if idx.Current != b.ID {
		t.Errorf("Current = %q, want %q", idx.Current, b.ID)
	}
	if len(idx.Workstreams) != 2 {
		t.Errorf("len(Workstreams) = %d, want 2", len(idx.Workstreams))
	}
	if _, err := os.Stat(s.PlanPath(a.ID)); err != nil {
		t.Errorf("PLAN.md not written: %v", err)
	}
}

func TestStore_CreateDuplicate(t *testing.T) {
	s := newTestStore(t)
	ws := createSample(t, s, "Dup")
	again := workstream.New(ws.ID, "Dup", workstream.EstimateShort)
	if err := s.Create(again); !errors.Is(err, ErrExists) {
		t.Errorf("Create() error = %v, want ErrExists", err)
	}
}

func TestStore_LoadSaveRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ws := createSample(t, s, "Round Trip")

	loaded, diags, err := s.Load(ws.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diags.HasErrors() {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if loaded.ID != ws.ID || loaded.Title != "Round Trip" || loaded.Estimate != workstream.EstimateShort {
		t.Errorf("loaded metadata = %q %q %q", loaded.ID, loaded.Title, loaded.Estimate)
	}
	if loaded.CreatedBy != "tester" {
		t.Errorf("CreatedBy = %q", loaded.CreatedBy)
	}
	if len(loaded.Tasks()) != len(ws.Tasks()) {
		t.Fatalf("task count = %d, want %d", len(loaded.Tasks()), len(ws.Tasks()))
	}

	for _, ref := range loaded.Tasks() {
		ref.Task.SetStatus(workstream.StatusComplete)
	}
	if err := s.Save(loaded); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded, _, err := s.Load(ws.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Status != workstream.StatusComplete {
		t.Errorf("Status = %q, want complete", reloaded.Status)
	}
	entries, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].CompletedAt == nil {
		t.Error("CompletedAt should be set once every task is complete")
	}
}

func TestStore_LoadUnknown(t *testing.T) {
	s := newTestStore(t)
	createSample(t, s, "Known")

	_, _, err := s.Load("999-nope")
	var nf *workstream.NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "workstream" {
		t.Errorf("Load() error = %v, want workstream NotFoundError", err)
	}
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)
	a := createSample(t, s, "Alpha")
	b := createSample(t, s, "Beta")

	if err := s.Delete(b.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(s.WorkstreamDir(b.ID)); !os.IsNotExist(err) {
		t.Errorf("directory still present: %v", err)
	}
	if _, err := s.Current(); !errors.Is(err, ErrNoCurrent) {
		t.Errorf("Current() after deleting current = %v, want ErrNoCurrent", err)
	}
	entries, _ := s.List()
	if len(entries) != 1 || entries[0].ID != a.ID {
		t.Errorf("entries = %+v", entries)
	}

	var nf *workstream.NotFoundError
	if err := s.Delete(b.ID); !errors.As(err, &nf) {
		t.Errorf("second Delete() error = %v, want NotFoundError", err)
	}
}

func TestStore_Resolve(t *testing.T) {
	s := newTestStore(t)
	createSample(t, s, "Payments Rewrite")
	createSample(t, s, "Search Index")

	tests := []struct {
		query string
		want  string
	}{
		{"", "002-search-index"},
		{"001-payments-rewrite", "001-payments-rewrite"},
		{"1", "001-payments-rewrite"},
		{"002", "002-search-index"},
		{"payments-rewrite", "001-payments-rewrite"},
		{"pay", "001-payments-rewrite"},
		{"srch", "002-search-index"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := s.Resolve(tt.query)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.query, err)
			}
			if got.ID != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.query, got.ID, tt.want)
			}
		})
	}

	var nf *workstream.NotFoundError
	if _, err := s.Resolve("zzzz"); !errors.As(err, &nf) {
		t.Errorf("Resolve(zzzz) error = %v, want NotFoundError", err)
	}
}

func TestStore_ResolveNumbersNeverFuzzy(t *testing.T) {
	s := newTestStore(t)
	createSample(t, s, "Alpha")
	createSample(t, s, "Release 3 Prep")

	var nf *workstream.NotFoundError
	if got, err := s.Resolve("3"); !errors.As(err, &nf) {
		t.Errorf("Resolve(3) = %q, %v, want NotFoundError", got.ID, err)
	}
	if got, err := s.Resolve("2"); err != nil || got.ID != "002-release-3-prep" {
		t.Errorf("Resolve(2) = %q, %v", got.ID, err)
	}
}

func TestStore_ResolveExact(t *testing.T) {
	s := newTestStore(t)
	createSample(t, s, "Alpha")
	createSample(t, s, "Release 3 Prep")

	for _, q := range []string{"002-release-3-prep", "2", "002", "release-3-prep", ""} {
		got, err := s.ResolveExact(q)
		if err != nil || got.ID != "002-release-3-prep" {
			t.Errorf("ResolveExact(%q) = %q, %v", q, got.ID, err)
		}
	}

	var nf *workstream.NotFoundError
	for _, q := range []string{"3", "alph", "release"} {
		if got, err := s.ResolveExact(q); !errors.As(err, &nf) {
			t.Errorf("ResolveExact(%q) = %q, %v, want NotFoundError", q, got.ID, err)
		}
	}
}

func TestStore_SetCurrent(t *testing.T) {
	s := newTestStore(t)
	a := createSample(t, s, "Alpha")
	createSample(t, s, "Beta")

	if err := s.SetCurrent(a.ID); err != nil {
		t.Fatal(err)
	}
	cur, err := s.Current()
	if err != nil || cur.ID != a.ID {
		t.Errorf("Current() = %q, %v", cur.ID, err)
	}
	if err := s.SetCurrent("nope"); err == nil {
		t.Error("SetCurrent(unknown) should fail")
	}
}

func TestStore_LockExclusive(t *testing.T) {
	s := newTestStore(t)
	unlock, err := s.Lock(context.Background())
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}

	other := New(s.Dir, WithLockTimeout(100*time.Millisecond))
	if _, err := other.Lock(context.Background()); !errors.Is(err, ErrLocked) {
		t.Errorf("second Lock() error = %v, want ErrLocked", err)
	}

	unlock()
	unlock2, err := other.Lock(context.Background())
	if err != nil {
		t.Fatalf("Lock() after release error = %v", err)
	}
	unlock2()
}

func TestStore_HistoryAndFiles(t *testing.T) {
	s := newTestStore(t)
	ws := createSample(t, s, "History")

	if err := s.Record(ws.ID, Event{Action: ActionUpdate, Actor: "bob", Detail: "01.01.01.01 -> complete"}); err != nil {
		t.Fatal(err)
	}
	events, err := s.History(ws.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].Action != ActionCreate || events[1].Actor != "bob" {
		t.Errorf("events = %+v", events)
	}
	if events[0].ID == "" || events[0].ID == events[1].ID {
		t.Errorf("event IDs should be unique and non-empty: %q %q", events[0].ID, events[1].ID)
	}

	files, err := s.Files(ws.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(files, []string{PlanFile, HistoryFile}) {
		t.Errorf("Files() = %v", files)
	}
}

func TestPlanChecksum(t *testing.T) {
	ws := workstream.NewFromStructure("001-x", "X", workstream.EstimateShort,
		workstream.DefaultStructure[workstream.EstimateShort])
	before := PlanChecksum(ws)
	if len(before) != 16 {
		t.Errorf("checksum %q should be 16 hex chars", before)
	}

	if _, err := ws.ApplyUpdate("01.01.01.01", workstream.StatusComplete); err != nil {
		t.Fatal(err)
	}
	if got := PlanChecksum(ws); got != before {
		t.Error("status changes should not alter the checksum")
	}

	if _, err := ws.AddTask(1, 1, 1, "new work"); err != nil {
		t.Fatal(err)
	}
	if got := PlanChecksum(ws); got == before {
		t.Error("adding a task should alter the checksum")
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Payments Rewrite", "payments-rewrite"},
		{"  Crème brûlée -- v2!  ", "creme-brulee-v2"},
		{"???", "workstream"},
		{strings.Repeat("word ", 20), "word-word-word-word-word-word-word-word"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSeqOf(t *testing.T) {
	if SeqOf("012-x") != 12 || SeqOf("abc") != 0 || SeqOf("7") != 7 {
		t.Error("SeqOf parse mismatch")
	}
}

func TestValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"001-payments-rewrite", true},
		{"1234-x", true},
		{"01-short", false},
		{"001-", false},
		{"001-Upper", false},
		{"../001-x", false},
		{"001-x/../..", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidID(tt.id); got != tt.want {
			t.Errorf("ValidID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestStore_RejectsInvalidIDs(t *testing.T) {
	s := newTestStore(t)
	createSample(t, s, "Payments")

	ws := workstream.NewFromStructure("../escape", "Escape", workstream.EstimateShort,
		workstream.DefaultStructure[workstream.EstimateShort])
	if err := s.Create(ws); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Create(../escape) error = %v, want ErrInvalidID", err)
	}

	idx, err := s.ReadIndex()
	if err != nil {
		t.Fatal(err)
	}
	idx.Workstreams = append(idx.Workstreams, Entry{ID: "../../outside", Title: "Hand edited"})
	if err := s.WriteIndex(idx); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Load("../../outside"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Load() error = %v, want ErrInvalidID", err)
	}
	if err := s.Delete("../../outside"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Delete() error = %v, want ErrInvalidID", err)
	}
}
