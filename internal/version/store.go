package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("version not found")

const DefaultLimit = 50

// Version is a named snapshot of a model's state. State is stored as the
// serialized geometry so a restore never aliases live pipeline data.
type Version struct {
	ID          string          `json:"id"`
	ModelID     string          `json:"modelId"`
	Timestamp   time.Time       `json:"timestamp"`
	Description string          `json:"description"`
	State       json.RawMessage `json:"state"`
	ParentID    string          `json:"parentId,omitempty"`
}

// KV is the persistence hook the store runs on. The sqlite layer implements
// it for production; tests use an in-memory map.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store keeps per-model version lists, newest first, capped at limit.
type Store struct {
	mu    sync.Mutex
	kv    KV
	limit int
}

func NewStore(kv KV, limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{kv: kv, limit: limit}
}

func modelKey(modelID string) string {
	return "versions:" + modelID
}

func (s *Store) load(ctx context.Context, modelID string) ([]Version, error) {
	raw, ok, err := s.kv.Get(ctx, modelKey(modelID))
	if err != nil {
		return nil, fmt.Errorf("failed to load versions for %s: %w", modelID, err)
	}
	if !ok {
		return nil, nil
	}
	var versions []Version
	if err := json.Unmarshal(raw, &versions); err != nil {
		return nil, fmt.Errorf("failed to decode versions for %s: %w", modelID, err)
	}
	return versions, nil
}

func (s *Store) persist(ctx context.Context, modelID string, versions []Version) error {
	raw, err := json.Marshal(versions)
	if err != nil {
		return fmt.Errorf("failed to encode versions for %s: %w", modelID, err)
	}
	if err := s.kv.Set(ctx, modelKey(modelID), raw); err != nil {
		return fmt.Errorf("failed to store versions for %s: %w", modelID, err)
	}
	return nil
}

// Save snapshots state under a new version id. The previous head becomes the
// new version's parent, and the oldest versions fall off past the cap.
func (s *Store) Save(ctx context.Context, modelID, description string, state json.RawMessage) (*Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	versions, err := s.load(ctx, modelID)
	if err != nil {
		return nil, err
	}

	v := Version{
		ID:          uuid.New().String(),
		ModelID:     modelID,
		Timestamp:   time.Now().UTC(),
		Description: description,
		State:       cloneState(state),
	}
	if len(versions) > 0 {
		v.ParentID = versions[0].ID
	}

	versions = append([]Version{v}, versions...)
	if len(versions) > s.limit {
		versions = versions[:s.limit]
	}
	if err := s.persist(ctx, modelID, versions); err != nil {
		return nil, err
	}

	out := v
	out.State = cloneState(v.State)
	return &out, nil
}

// List returns the model's versions, newest first.
func (s *Store) List(ctx context.Context, modelID string) ([]Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	versions, err := s.load(ctx, modelID)
	if err != nil {
		return nil, err
	}
	out := make([]Version, len(versions))
	for i, v := range versions {
		out[i] = v
		out[i].State = cloneState(v.State)
	}
	return out, nil
}

// Restore returns a copy of the named version's state. The stored version
// is untouched; later edits to the restored model never mutate it.
func (s *Store) Restore(ctx context.Context, modelID, versionID string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	versions, err := s.load(ctx, modelID)
	if err != nil {
		return nil, err
	}
	for _, v := range versions {
		if v.ID == versionID {
			return cloneState(v.State), nil
		}
	}
	return nil, ErrNotFound
}

// Delete removes a single version. Children keep their parentId even when
// the parent goes away; the chain is informational, not referential.
func (s *Store) Delete(ctx context.Context, modelID, versionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	versions, err := s.load(ctx, modelID)
	if err != nil {
		return err
	}
	for i, v := range versions {
		if v.ID == versionID {
			versions = append(versions[:i], versions[i+1:]...)
			return s.persist(ctx, modelID, versions)
		}
	}
	return ErrNotFound
}

func cloneState(state json.RawMessage) json.RawMessage {
	if state == nil {
		return nil
	}
	out := make(json.RawMessage, len(state))
	copy(out, state)
	return out
}
