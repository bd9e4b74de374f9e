package menu

import "strings"

// splitSelection unpacks a possibly newline-joined multi-selection ID.
func splitSelection(id string) []string {
	parts := strings.Split(id, "\n")
	out := parts[:0]
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// EntriesToItems converts store entries into plain menu items.
func EntriesToItems(entries []ItemEntry) []Item {
	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, Item{ID: entry.ID, Label: entry.Label})
	}
	return items
}
