package state

import "github.com/traytidy/traytidy/internal/menu"

// Selections are keyed on the full item list, so a filtered-out item keeps
// its mark until the item itself disappears.

func (l *Level) selectionSet() map[string]struct{} {
	if l.Selected == nil {
		l.Selected = make(map[string]struct{})
	}
	return l.Selected
}

// CleanupSelections drops marks whose items left the full list.
func (l *Level) CleanupSelections() {
	if len(l.Selected) == 0 {
		return
	}
	keep := make(map[string]struct{}, len(l.Full))
	for _, item := range l.Full {
		keep[item.ID] = struct{}{}
	}
	for id := range l.Selected {
		if _, ok := keep[id]; !ok {
			delete(l.Selected, id)
		}
	}
}

// IsSelected reports whether the id carries a mark.
func (l *Level) IsSelected(id string) bool {
	_, ok := l.Selected[id]
	return ok
}

// ToggleSelection flips the mark for one id.
func (l *Level) ToggleSelection(id string) {
	set := l.selectionSet()
	if _, ok := set[id]; ok {
		delete(set, id)
		return
	}
	set[id] = struct{}{}
}

// ToggleCurrentSelection flips the mark under the cursor on multi-select
// levels.
func (l *Level) ToggleCurrentSelection() {
	if !l.MultiSelect || l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return
	}
	l.ToggleSelection(l.Items[l.Cursor].ID)
}

// ClearSelection removes every mark.
func (l *Level) ClearSelection() {
	for id := range l.Selected {
		delete(l.Selected, id)
	}
}

// SelectedItems returns the marked items in display order.
func (l *Level) SelectedItems() []menu.Item {
	if len(l.Selected) == 0 {
		return nil
	}
	out := make([]menu.Item, 0, len(l.Selected))
	for _, item := range l.Items {
		if l.IsSelected(item.ID) {
			out = append(out, item)
		}
	}
	return out
}
