package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// HubState contains the persisted settings of an emulated hub.
type HubState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// Profile is the name of the profile the state belongs to. State
	// saved for another profile is ignored on load.
	Profile string `json:"profile"`

	// Name is the advertising name set by a host.
	Name string `json:"name,omitempty"`

	// NetworkID is the last H/W network id.
	NetworkID uint8 `json:"network_id"`

	// NetworkFamily is the H/W network family.
	NetworkFamily uint8 `json:"network_family"`
}

// HubStateStore manages persistence of hub state to a JSON file.
type HubStateStore struct {
	mu   sync.Mutex
	path string
}

// NewHubStateStore creates a new hub state store.
func NewHubStateStore(path string) *HubStateStore {
	return &HubStateStore{path: path}
}

// Path returns the state file path.
func (s *HubStateStore) Path() string { return s.path }

// Save persists the hub state to disk.
func (s *HubStateStore) Save(state *HubState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	state.Version = StateVersion
	state.SavedAt = time.Now()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load reads the hub state from disk.
// Returns nil, nil if the file doesn't exist (empty state).
func (s *HubStateStore) Load() (*HubState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &HubState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}

	return state, nil
}

// Clear removes the state file.
func (s *HubStateStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
