// Package ledger persists the cross-run record of theme words that have
// already been offered, whether accepted or rejected for low similarity.
//
// The backing file is the sole source of truth across process runs. Every
// mutation synchronously rewrites the full file before returning, so a crash
// immediately after MarkUsed cannot lose the record just written. The ledger
// assumes a single writer process; concurrent processes sharing one file can
// lose updates (last writer wins).
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Entry records one theme-word decision. Entries are append-only: a second
// mark for the same case-insensitive word never overwrites the first.
type Entry struct {
	Word                 string    `json:"word"`
	FirstUsedAt          time.Time `json:"firstUsedAt"`
	Rejected             bool      `json:"rejected"`
	SimilarityAtDecision *float64  `json:"similarityAtDecision,omitempty"`
	PuzzleID             string    `json:"puzzleId,omitempty"`
	SessionID            string    `json:"sessionId,omitempty"`
}

// Ledger is the file-backed used-theme set.
type Ledger struct {
	mu      sync.Mutex
	path    string
	entries map[string]Entry // keyed by lowercase word
	now     func() time.Time
}

// Open loads the ledger at path. A missing file is an empty ledger, not an
// error; the file is created on first mutation.
func Open(path string) (*Ledger, error) {
	l := &Ledger{
		path:    path,
		entries: make(map[string]Entry),
		now:     time.Now,
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: open %q: %w", path, err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("ledger: parse %q: %w", path, err)
	}
	for _, e := range entries {
		key := strings.ToLower(e.Word)
		if _, dup := l.entries[key]; !dup {
			l.entries[key] = e
		}
	}
	return l, nil
}

// IsUsed reports whether the word has been recorded (case-insensitive).
func (l *Ledger) IsUsed(word string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.entries[strings.ToLower(word)]
	return ok
}

// MarkOption attaches optional metadata to a mark.
type MarkOption func(*Entry)

// WithSimilarity records the similarity observed at decision time.
func WithSimilarity(similarity float64) MarkOption {
	return func(e *Entry) {
		e.SimilarityAtDecision = &similarity
	}
}

// WithPuzzleID records the puzzle the decision belonged to.
func WithPuzzleID(id string) MarkOption {
	return func(e *Entry) {
		e.PuzzleID = id
	}
}

// WithSessionID records the generation session.
func WithSessionID(id string) MarkOption {
	return func(e *Entry) {
		e.SessionID = id
	}
}

// MarkUsed records a decision for a theme word and persists the full entry
// set before returning. Marking an already-recorded word is a no-op; the
// first decision always wins.
func (l *Ledger) MarkUsed(word string, rejected bool, opts ...MarkOption) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := strings.ToLower(word)
	if _, ok := l.entries[key]; ok {
		return nil
	}

	e := Entry{
		Word:        word,
		FirstUsedAt: l.now().UTC(),
		Rejected:    rejected,
	}
	for _, opt := range opts {
		opt(&e)
	}
	l.entries[key] = e

	if err := l.persistLocked(); err != nil {
		delete(l.entries, key)
		return err
	}
	return nil
}

// Entries returns all recorded entries ordered by first use, then word.
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].FirstUsedAt.Equal(out[j].FirstUsedAt) {
			return out[i].FirstUsedAt.Before(out[j].FirstUsedAt)
		}
		return strings.ToLower(out[i].Word) < strings.ToLower(out[j].Word)
	})
	return out
}

// Stats summarizes the ledger.
type Stats struct {
	Total    int
	Accepted int
	Rejected int
}

// Stats returns counts of recorded decisions.
func (l *Ledger) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Stats{Total: len(l.entries)}
	for _, e := range l.entries {
		if e.Rejected {
			s.Rejected++
		} else {
			s.Accepted++
		}
	}
	return s
}

// Len returns the number of recorded entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Clear removes every entry and persists the empty set.
func (l *Ledger) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	old := l.entries
	l.entries = make(map[string]Entry)
	if err := l.persistLocked(); err != nil {
		l.entries = old
		return err
	}
	return nil
}

// persistLocked rewrites the whole backing file. Callers hold l.mu.
func (l *Ledger) persistLocked() error {
	entries := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].FirstUsedAt.Equal(entries[j].FirstUsedAt) {
			return entries[i].FirstUsedAt.Before(entries[j].FirstUsedAt)
		}
		return strings.ToLower(entries[i].Word) < strings.ToLower(entries[j].Word)
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("ledger: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".ledger-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), l.path)
}
