package history

import (
	"fmt"
	"testing"
	"time"
)

func entry(n int) Entry {
	return Entry{
		Prompt:    fmt.Sprintf("prompt %d", n),
		Material:  "steel",
		Shape:     "box",
		Timestamp: time.Now(),
	}
}

func TestPushCapsAtLimit(t *testing.T) {
	s := NewStore(10)
	for i := 0; i < 15; i++ {
		s.Push(entry(i))
	}

	got := s.Entries()
	if len(got) != 10 {
		t.Fatalf("expected 10 entries after 15 pushes, got %d", len(got))
	}
	// Oldest five were evicted, survivors keep their order.
	for i, e := range got {
		want := fmt.Sprintf("prompt %d", i+5)
		if e.Prompt != want {
			t.Errorf("entry %d: got %q, want %q", i, e.Prompt, want)
		}
	}
	if s.Index() != 9 {
		t.Errorf("pointer should sit on the newest entry, got index %d", s.Index())
	}
}

func TestUndoRedo(t *testing.T) {
	s := NewStore(10)
	for i := 0; i < 3; i++ {
		s.Push(entry(i))
	}

	e, ok := s.Undo()
	if !ok || e.Prompt != "prompt 1" {
		t.Fatalf("first undo: got %q ok=%v", e.Prompt, ok)
	}
	e, ok = s.Undo()
	if !ok || e.Prompt != "prompt 0" {
		t.Fatalf("second undo: got %q ok=%v", e.Prompt, ok)
	}
	if _, ok := s.Undo(); ok {
		t.Error("undo past the oldest entry should fail")
	}

	e, ok = s.Redo()
	if !ok || e.Prompt != "prompt 1" {
		t.Fatalf("redo: got %q ok=%v", e.Prompt, ok)
	}
}

func TestPushDiscardsRedoBranch(t *testing.T) {
	s := NewStore(10)
	for i := 0; i < 5; i++ {
		s.Push(entry(i))
	}
	s.Undo()
	s.Undo()
	s.Push(Entry{Prompt: "branch", Shape: "box"})

	if _, ok := s.Redo(); ok {
		t.Error("redo should be unavailable after a push")
	}
	got := s.Entries()
	want := []string{"prompt 0", "prompt 1", "prompt 2", "branch"}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Prompt != w {
			t.Errorf("entry %d: got %q, want %q", i, got[i].Prompt, w)
		}
	}
}

func TestEmptyStore(t *testing.T) {
	s := NewStore(0)
	if _, ok := s.Current(); ok {
		t.Error("empty store should have no current entry")
	}
	if _, ok := s.Undo(); ok {
		t.Error("undo on empty store should fail")
	}
	if _, ok := s.Redo(); ok {
		t.Error("redo on empty store should fail")
	}
}
