package state

import "github.com/traytidy/traytidy/internal/menu"

// ItemStore holds the entries assigned to one section. Stores are read
// and written from the UI update loop only.
type ItemStore interface {
	Entries() []menu.ItemEntry
	SetEntries([]menu.ItemEntry)
	Len() int
}

type itemStore struct {
	entries []menu.ItemEntry
}

func NewItemStore() ItemStore {
	return &itemStore{}
}

func (s *itemStore) Entries() []menu.ItemEntry {
	return cloneItemEntries(s.entries)
}

func (s *itemStore) SetEntries(entries []menu.ItemEntry) {
	s.entries = cloneItemEntries(entries)
}

func (s *itemStore) Len() int {
	return len(s.entries)
}

func cloneItemEntries(entries []menu.ItemEntry) []menu.ItemEntry {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]menu.ItemEntry, len(entries))
	copy(dup, entries)
	return dup
}
