package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// History actions.
const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionAdd     = "add"
	ActionApprove = "approve"
	ActionRevoke  = "revoke"
)

// Event is one line of a workstream's history.jsonl.
type Event struct {
	ID     string    `json:"id"`
	Time   time.Time `json:"time"`
	Actor  string    `json:"actor,omitempty"`
	Action string    `json:"action"`
	Detail string    `json:"detail,omitempty"`
}

// Record appends an event to a workstream's history. ID and Time are filled
// when empty.
func (s *Store) Record(id string, ev Event) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Time.IsZero() {
		ev.Time = s.now().UTC()
	}
	return appendJSONL(s.HistoryPath(id), ev)
}

// History reads a workstream's events, oldest first. Malformed lines are
// skipped. A workstream with no history returns an empty slice.
func (s *Store) History(id string) (events []Event, err error) {
	f, err := os.Open(s.HistoryPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			s.logger.Debug("skip malformed history line", "id", id, "error", err)
			continue
		}
		events = append(events, ev)
	}
	return events, scanner.Err()
}

// appendJSONL appends one JSON line to path and syncs it.
func appendJSONL(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer func() {
		_ = f.Close() //nolint:errcheck // sync already called, close best-effort
	}()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	return f.Sync()
}
