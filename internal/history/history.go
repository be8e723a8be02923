package history

import (
	"sync"
	"time"

	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/geometry"
)

// Entry records one successful generation. Entries are immutable once
// pushed; undo and redo only move the pointer.
type Entry struct {
	Prompt    string         `json:"prompt"`
	Material  string         `json:"material"`
	Shape     geometry.Shape `json:"shape"`
	Timestamp time.Time      `json:"timestamp"`
}

const DefaultLimit = 10

// Store is a bounded linear undo/redo stack, one per UI session. Session
// memory only; nothing here is persisted.
type Store struct {
	mu      sync.Mutex
	entries []Entry
	index   int
	limit   int
}

func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{index: -1, limit: limit}
}

// Push appends an entry at the current position. Any redo state beyond the
// pointer is discarded first, then the stack is capped to the most recent
// limit entries. Eviction at the bound is silent, never an error.
func (s *Store) Push(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries[:s.index+1], e)
	if len(s.entries) > s.limit {
		s.entries = s.entries[len(s.entries)-s.limit:]
	}
	s.index = len(s.entries) - 1
}

// Undo steps the pointer back and returns the entry it now rests on.
func (s *Store) Undo() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index <= 0 {
		return Entry{}, false
	}
	s.index--
	return s.entries[s.index], true
}

// Redo steps the pointer forward again.
func (s *Store) Redo() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index >= len(s.entries)-1 {
		return Entry{}, false
	}
	s.index++
	return s.entries[s.index], true
}

func (s *Store) Current() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index < 0 {
		return Entry{}, false
	}
	return s.entries[s.index], true
}

// Entries returns a copy of the stack, oldest first.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
