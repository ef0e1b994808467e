// Package state persists the last-known status per component between runs.
//
// The backing file is a plain JSON object keyed by component id. A missing
// or corrupt file degrades to an empty state (logged, never fatal); saves
// overwrite the file wholesale via a tmp+rename so a crash mid-write cannot
// leave a truncated file behind. No locking: single writer per run.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	logx "statuswatch/pkg/logx"
)

// Record is the persisted view of one component.
//
// IssueStart is present iff the component has been continuously
// non-operational since that time.
type Record struct {
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	LastUpdated time.Time  `json:"last_updated"`
	IssueStart  *time.Time `json:"issue_start,omitempty"`
}

// State maps component id to its last-known record.
type State map[string]Record

// Clone returns a deep copy. Record values are copied; IssueStart
// pointers are re-allocated so mutations cannot alias.
func (s State) Clone() State {
	out := make(State, len(s))
	for id, r := range s {
		if r.IssueStart != nil {
			t := *r.IssueStart
			r.IssueStart = &t
		}
		out[id] = r
	}
	return out
}

type Store struct {
	path string
	log  logx.Logger
}

func NewStore(path string, log logx.Logger) *Store {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Store{path: path, log: log}
}

// Load reads the state file. Missing or unreadable files are treated as
// "no prior state".
func (s *Store) Load() State {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Info("no previous state found", logx.String("path", s.path))
		} else {
			s.log.Warn("state file unreadable; starting from empty state", logx.String("path", s.path), logx.Err(err))
		}
		return State{}
	}

	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		s.log.Warn("state file corrupt; starting from empty state", logx.String("path", s.path), logx.Err(err))
		return State{}
	}
	if st == nil {
		st = State{}
	}
	return st
}

// Save replaces the state file with st.
func (s *Store) Save(st State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
