// Package store persists workstreams in a work directory:
//
//	work/
//	  index.json          registry and current selection
//	  .lock               advisory lock held by mutating commands
//	  <id>/PLAN.md        the planning document
//	  <id>/history.jsonl  append-only event log
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/sahilm/fuzzy"

	"github.com/boshu2/workstreams/cli/internal/document"
	"github.com/boshu2/workstreams/cli/internal/walk"
	"github.com/boshu2/workstreams/cli/internal/workstream"
)

const (
	// DefaultDir is the default work directory, relative to the project root.
	DefaultDir = "work"

	IndexFile   = "index.json"
	PlanFile    = "PLAN.md"
	HistoryFile = "history.jsonl"
	LockFile    = ".lock"

	// DefaultLockTimeout bounds how long Lock waits for another process.
	DefaultLockTimeout = 5 * time.Second

	lockRetryDelay = 50 * time.Millisecond
)

// Store reads and writes workstreams under Dir.
type Store struct {
	Dir         string
	LockTimeout time.Duration

	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLockTimeout sets how long Lock waits.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.LockTimeout = d
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New returns a store rooted at dir.
func New(dir string, opts ...Option) *Store {
	s := &Store{
		Dir:         dir,
		LockTimeout: DefaultLockTimeout,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WorkstreamDir returns the directory holding a workstream's files.
func (s *Store) WorkstreamDir(id string) string {
	return filepath.Join(s.Dir, id)
}

// PlanPath returns the path of a workstream's PLAN.md.
func (s *Store) PlanPath(id string) string {
	return filepath.Join(s.Dir, id, PlanFile)
}

// HistoryPath returns the path of a workstream's event log.
func (s *Store) HistoryPath(id string) string {
	return filepath.Join(s.Dir, id, HistoryFile)
}

func (s *Store) indexPath() string {
	return filepath.Join(s.Dir, IndexFile)
}

// Lock takes the work directory's exclusive file lock. It waits up to
// LockTimeout and fails with ErrLocked. The returned func releases the lock.
func (s *Store) Lock(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create work directory: %w", err)
	}

	fl := flock.New(filepath.Join(s.Dir, LockFile))
	ctx, cancel := context.WithTimeout(ctx, s.LockTimeout)
	defer cancel()

	ok, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("lock work directory: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	s.logger.Debug("acquired lock", "path", fl.Path())

	return func() {
		if err := fl.Unlock(); err != nil {
			s.logger.Warn("release lock", "error", err)
		}
	}, nil
}

// Init creates the work directory and an empty index if none exists.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create work directory: %w", err)
	}
	if _, err := os.Stat(s.indexPath()); err == nil {
		return nil
	}
	return s.WriteIndex(&Index{Version: IndexVersion, Workstreams: []Entry{}})
}

// ReadIndex loads index.json.
func (s *Store) ReadIndex() (*Index, error) {
	data, err := os.ReadFile(s.indexPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotInitialized
	}
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.indexPath(), err)
	}
	if idx.Workstreams == nil {
		idx.Workstreams = []Entry{}
	}
	return &idx, nil
}

// WriteIndex replaces index.json atomically.
func (s *Store) WriteIndex(idx *Index) error {
	if idx.Version == 0 {
		idx.Version = IndexVersion
	}
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	return atomicWrite(s.indexPath(), func(w io.Writer) error {
		_, err := w.Write(append(data, '\n'))
		return err
	})
}

// List returns every registered workstream in creation order.
func (s *Store) List() ([]Entry, error) {
	idx, err := s.ReadIndex()
	if err != nil {
		return nil, err
	}
	return idx.Workstreams, nil
}

// Create registers a new workstream, writes its PLAN.md and selects it as
// current. An empty ws.ID is allocated from the title.
func (s *Store) Create(ws *workstream.Workstream) error {
	if err := s.Init(); err != nil {
		return err
	}
	idx, err := s.ReadIndex()
	if err != nil {
		return err
	}

	if ws.ID == "" {
		ws.ID = FormatID(idx.nextSeq(), Slug(ws.Title))
	}
	if err := checkID(ws.ID); err != nil {
		return err
	}
	if _, _, ok := idx.Find(ws.ID); ok {
		return fmt.Errorf("%w: %s", ErrExists, ws.ID)
	}
	if _, err := os.Stat(s.WorkstreamDir(ws.ID)); err == nil {
		return fmt.Errorf("%w: directory %s", ErrExists, s.WorkstreamDir(ws.ID))
	}

	if err := s.writePlan(ws); err != nil {
		return err
	}
	idx.Workstreams = append(idx.Workstreams, entryFor(ws))
	idx.Current = ws.ID
	if err := s.WriteIndex(idx); err != nil {
		return err
	}

	s.logger.Debug("created workstream", "id", ws.ID, "estimate", ws.Estimate)
	return s.Record(ws.ID, Event{Action: ActionCreate, Actor: ws.CreatedBy, Detail: ws.Title})
}

// Load reads a workstream's PLAN.md and merges its index metadata. Parse
// diagnostics are returned alongside the workstream.
func (s *Store) Load(id string) (*workstream.Workstream, workstream.Diagnostics, error) {
	idx, err := s.ReadIndex()
	if err != nil {
		return nil, nil, err
	}
	entry, _, ok := idx.Find(id)
	if !ok {
		return nil, nil, &workstream.NotFoundError{Kind: "workstream", ID: id}
	}
	if err := checkID(entry.ID); err != nil {
		return nil, nil, err
	}

	f, err := os.Open(s.PlanPath(id))
	if err != nil {
		return nil, nil, fmt.Errorf("open plan: %w", err)
	}
	defer func() {
		_ = f.Close() //nolint:errcheck // read-only
	}()

	ws, diags, err := document.Parse(f)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", s.PlanPath(id), err)
	}
	entry.applyTo(ws)
	return ws, diags, nil
}

// Save writes a workstream's PLAN.md and refreshes its index entry.
func (s *Store) Save(ws *workstream.Workstream) error {
	idx, err := s.ReadIndex()
	if err != nil {
		return err
	}
	entry, i, ok := idx.Find(ws.ID)
	if !ok {
		return &workstream.NotFoundError{Kind: "workstream", ID: ws.ID}
	}

	ws.Derive()
	if err := s.writePlan(ws); err != nil {
		return err
	}

	entry.Title = ws.Title
	entry.Approval = ws.Approval
	switch {
	case ws.Status == workstream.StatusComplete && entry.CompletedAt == nil:
		at := s.now().UTC()
		entry.CompletedAt = &at
	case ws.Status != workstream.StatusComplete:
		entry.CompletedAt = nil
	}
	idx.Workstreams[i] = entry

	s.logger.Debug("saved workstream", "id", ws.ID, "status", ws.Status)
	return s.WriteIndex(idx)
}

// Delete removes a workstream's directory and index entry.
func (s *Store) Delete(id string) error {
	idx, err := s.ReadIndex()
	if err != nil {
		return err
	}
	if err := checkID(id); err != nil {
		return err
	}
	if !idx.remove(id) {
		return &workstream.NotFoundError{Kind: "workstream", ID: id}
	}
	if err := os.RemoveAll(s.WorkstreamDir(id)); err != nil {
		return fmt.Errorf("remove %s: %w", s.WorkstreamDir(id), err)
	}
	s.logger.Debug("deleted workstream", "id", id)
	return s.WriteIndex(idx)
}

// SetCurrent selects the workstream commands act on by default.
func (s *Store) SetCurrent(id string) error {
	idx, err := s.ReadIndex()
	if err != nil {
		return err
	}
	if _, _, ok := idx.Find(id); !ok {
		return &workstream.NotFoundError{Kind: "workstream", ID: id}
	}
	idx.Current = id
	return s.WriteIndex(idx)
}

// Current returns the selected workstream.
func (s *Store) Current() (Entry, error) {
	return s.Resolve("")
}

// Resolve finds a workstream by query. An empty query means the current
// workstream. Otherwise it tries ResolveExact, then a fuzzy match over IDs
// and titles. All-digit queries are sequence numbers and never fuzzy match.
func (s *Store) Resolve(query string) (Entry, error) {
	idx, err := s.ReadIndex()
	if err != nil {
		return Entry{}, err
	}
	query = strings.TrimSpace(query)
	if e, err := resolveExact(idx, query); err == nil || query == "" || isDigits(query) || !isNotFound(err) {
		return e, err
	}

	candidates := make([]string, len(idx.Workstreams))
	for i, e := range idx.Workstreams {
		candidates[i] = e.ID + " " + e.Title
	}
	matches := fuzzy.Find(query, candidates)
	if len(matches) == 0 {
		return Entry{}, &workstream.NotFoundError{Kind: "workstream", ID: query}
	}
	if len(matches) > 1 && matches[0].Score == matches[1].Score {
		return Entry{}, fmt.Errorf("%w: %q could be %s or %s", ErrAmbiguous, query,
			idx.Workstreams[matches[0].Index].ID, idx.Workstreams[matches[1].Index].ID)
	}
	return idx.Workstreams[matches[0].Index], nil
}

// ResolveExact is Resolve without the fuzzy step: the query must be the
// current selection (empty), an ID, a sequence number ("3" or "003") or a
// slug. Destructive commands use it.
func (s *Store) ResolveExact(query string) (Entry, error) {
	idx, err := s.ReadIndex()
	if err != nil {
		return Entry{}, err
	}
	return resolveExact(idx, strings.TrimSpace(query))
}

func resolveExact(idx *Index, query string) (Entry, error) {
	if query == "" {
		if idx.Current == "" {
			return Entry{}, ErrNoCurrent
		}
		e, _, ok := idx.Find(idx.Current)
		if !ok {
			return Entry{}, &workstream.NotFoundError{Kind: "workstream", ID: idx.Current}
		}
		return e, nil
	}

	if e, _, ok := idx.Find(query); ok {
		return e, nil
	}
	if isDigits(query) {
		n, err := strconv.Atoi(query)
		if err == nil {
			for _, e := range idx.Workstreams {
				if SeqOf(e.ID) == n {
					return e, nil
				}
			}
		}
	}
	for _, e := range idx.Workstreams {
		if _, slug, ok := strings.Cut(e.ID, "-"); ok && slug == query {
			return e, nil
		}
	}
	return Entry{}, &workstream.NotFoundError{Kind: "workstream", ID: query}
}

func isNotFound(err error) bool {
	var nf *workstream.NotFoundError
	return errors.As(err, &nf)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Files lists the files stored for a workstream, relative to its directory.
func (s *Store) Files(id string) ([]string, error) {
	return walk.Files(s.WorkstreamDir(id))
}

// PlanChecksum fingerprints the structure and wording of a plan. Task
// statuses are excluded so progress does not invalidate an approval.
func PlanChecksum(ws *workstream.Workstream) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\n", ws.Title)
	for _, st := range ws.Stages {
		fmt.Fprintf(h, "S%d %s\n", st.Index, st.Title)
		for _, b := range st.Batches {
			fmt.Fprintf(h, "B%d %s\n", b.Index, b.Title)
			for _, th := range b.Threads {
				fmt.Fprintf(h, "T%d %s\n%s\n", th.Index, th.Title, th.Summary)
				for _, t := range th.Tasks {
					fmt.Fprintf(h, "- %s %s\n", t.ID, t.Description)
				}
			}
		}
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:8])
}

func (s *Store) writePlan(ws *workstream.Workstream) error {
	return atomicWrite(s.PlanPath(ws.ID), func(w io.Writer) error {
		return document.Render(w, ws)
	})
}

// atomicWrite writes to a temp file and renames it over path.
func atomicWrite(path string, writeFunc func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath) //nolint:errcheck // cleanup in error path
		}
	}()

	if err := writeFunc(tmpFile); err != nil {
		_ = tmpFile.Close() //nolint:errcheck // cleanup in error path
		return fmt.Errorf("write content: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close() //nolint:errcheck // cleanup in error path
		return fmt.Errorf("sync file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename to final: %w", err)
	}

	success = true
	return nil
}
