package state

import (
	"sync"

	"github.com/traytidy/traytidy/internal/strip"
)

// SettingsStore holds the live section settings. Unlike the item stores
// it is mutex guarded: the rehide monitor reads it from its own
// goroutine.
type SettingsStore struct {
	mu       sync.RWMutex
	settings strip.Settings
}

func NewSettingsStore(initial strip.Settings) *SettingsStore {
	return &SettingsStore{settings: initial}
}

func (s *SettingsStore) Get() strip.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *SettingsStore) Set(settings strip.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

// Update applies a mutation under the lock.
func (s *SettingsStore) Update(fn func(*strip.Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.settings)
}
