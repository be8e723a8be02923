package version

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
)

type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func stateJSON(n int) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"shape":"box","rev":%d}`, n))
}

func TestSaveCapsAtLimit(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemKV(), 50)

	for i := 0; i < 60; i++ {
		if _, err := s.Save(ctx, "model-1", fmt.Sprintf("rev %d", i), stateJSON(i)); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	versions, err := s.List(ctx, "model-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(versions) != 50 {
		t.Fatalf("expected 50 versions after 60 saves, got %d", len(versions))
	}
	if versions[0].Description != "rev 59" {
		t.Errorf("newest version should be first, got %q", versions[0].Description)
	}
	if versions[49].Description != "rev 10" {
		t.Errorf("oldest surviving version should be rev 10, got %q", versions[49].Description)
	}
}

func TestParentChain(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemKV(), 50)

	v1, err := s.Save(ctx, "m", "first", stateJSON(1))
	if err != nil {
		t.Fatal(err)
	}
	if v1.ParentID != "" {
		t.Errorf("first version should have no parent, got %q", v1.ParentID)
	}

	v2, err := s.Save(ctx, "m", "second", stateJSON(2))
	if err != nil {
		t.Fatal(err)
	}
	if v2.ParentID != v1.ID {
		t.Errorf("second version's parent is %q, want %q", v2.ParentID, v1.ID)
	}
}

func TestRestoreReturnsIsolatedState(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemKV(), 50)

	v, err := s.Save(ctx, "m", "snapshot", stateJSON(7))
	if err != nil {
		t.Fatal(err)
	}

	restored, err := s.Restore(ctx, "m", v.ID)
	if err != nil {
		t.Fatal(err)
	}
	// Mutating the returned bytes must not touch the stored snapshot.
	restored[0] = 'X'

	again, err := s.Restore(ctx, "m", v.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again[0] != '{' {
		t.Error("stored state was mutated through a restored copy")
	}
}

func TestRestoreUnknownVersion(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemKV(), 50)

	if _, err := s.Restore(ctx, "m", "nope"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemKV(), 50)

	v1, _ := s.Save(ctx, "m", "first", stateJSON(1))
	v2, _ := s.Save(ctx, "m", "second", stateJSON(2))

	if err := s.Delete(ctx, "m", v1.ID); err != nil {
		t.Fatal(err)
	}
	versions, _ := s.List(ctx, "m")
	if len(versions) != 1 || versions[0].ID != v2.ID {
		t.Fatalf("expected only %s to remain, got %d versions", v2.ID, len(versions))
	}
	// The survivor keeps its parent pointer even though the parent is gone.
	if versions[0].ParentID != v1.ID {
		t.Errorf("parent pointer should survive deletion, got %q", versions[0].ParentID)
	}

	if err := s.Delete(ctx, "m", "nope"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}
