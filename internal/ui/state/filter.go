package state

import (
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/traytidy/traytidy/internal/menu"
)

// SetFilter replaces the query. Entering a filter remembers the cursor so
// clearing it can put the cursor back; while a query is live the cursor
// follows the best match.
func (l *Level) SetFilter(query string, cursor int) {
	hadQuery := strings.TrimSpace(l.Filter) != ""
	trimmed := strings.TrimSpace(query)
	l.Filter = query
	l.FilterCursor = clamp(cursor, 0, len([]rune(query)))

	if trimmed != "" {
		if !hadQuery {
			l.LastCursor = l.Cursor
		}
		l.Cursor = 0
	}
	l.applyFilter()
	switch {
	case trimmed != "" && len(l.Items) > 0:
		if idx := BestMatchIndex(l.Items, trimmed); idx >= 0 {
			l.Cursor = idx
		}
	case trimmed == "" && hadQuery:
		if l.LastCursor >= 0 && l.LastCursor < len(l.Items) {
			l.Cursor = l.LastCursor
		} else if len(l.Items) > 0 {
			l.Cursor = len(l.Items) - 1
		}
		l.LastCursor = -1
	}
}

func (l *Level) applyFilter() {
	l.Items = FilterItems(l.Full, l.Filter)
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	if l.Cursor < 0 || l.Cursor >= n {
		l.Cursor = n - 1
	}
	if l.ViewportOffset >= n {
		l.ViewportOffset = 0
	}
}

func (l *Level) filterRunes() ([]rune, int) {
	runes := []rune(l.Filter)
	return runes, clamp(l.FilterCursor, 0, len(runes))
}

// FilterCursorPos returns the rune offset of the filter cursor.
func (l *Level) FilterCursorPos() int {
	_, pos := l.filterRunes()
	return pos
}

// InsertFilterText inserts text at the filter cursor.
func (l *Level) InsertFilterText(text string) bool {
	insert := []rune(text)
	if len(insert) == 0 {
		return false
	}
	runes, pos := l.filterRunes()
	next := make([]rune, 0, len(runes)+len(insert))
	next = append(next, runes[:pos]...)
	next = append(next, insert...)
	next = append(next, runes[pos:]...)
	l.SetFilter(string(next), pos+len(insert))
	return true
}

// DeleteFilterRuneBackward removes the rune before the cursor.
func (l *Level) DeleteFilterRuneBackward() bool {
	runes, pos := l.filterRunes()
	if pos == 0 {
		return false
	}
	l.SetFilter(string(append(runes[:pos-1], runes[pos:]...)), pos-1)
	return true
}

// DeleteFilterWordBackward removes the word before the cursor.
func (l *Level) DeleteFilterWordBackward() bool {
	runes, pos := l.filterRunes()
	if pos == 0 {
		return false
	}
	cut := prevWordBoundary(runes, pos)
	l.SetFilter(string(append(runes[:cut], runes[pos:]...)), cut)
	return true
}

func prevWordBoundary(runes []rune, pos int) int {
	for pos > 0 && unicode.IsSpace(runes[pos-1]) {
		pos--
	}
	for pos > 0 && !unicode.IsSpace(runes[pos-1]) {
		pos--
	}
	return pos
}

func nextWordBoundary(runes []rune, pos int) int {
	for pos < len(runes) && !unicode.IsSpace(runes[pos]) {
		pos++
	}
	for pos < len(runes) && unicode.IsSpace(runes[pos]) {
		pos++
	}
	return pos
}

// MoveFilterCursorStart moves the filter cursor to the start.
func (l *Level) MoveFilterCursorStart() bool { return l.moveFilterCursorTo(0) }

// MoveFilterCursorEnd moves the filter cursor past the last rune.
func (l *Level) MoveFilterCursorEnd() bool {
	runes, _ := l.filterRunes()
	return l.moveFilterCursorTo(len(runes))
}

// MoveFilterCursorWordBackward moves one word back.
func (l *Level) MoveFilterCursorWordBackward() bool {
	runes, pos := l.filterRunes()
	return l.moveFilterCursorTo(prevWordBoundary(runes, pos))
}

// MoveFilterCursorWordForward moves one word forward.
func (l *Level) MoveFilterCursorWordForward() bool {
	runes, pos := l.filterRunes()
	return l.moveFilterCursorTo(nextWordBoundary(runes, pos))
}

// MoveFilterCursorRuneBackward moves one rune back.
func (l *Level) MoveFilterCursorRuneBackward() bool {
	_, pos := l.filterRunes()
	return l.moveFilterCursorTo(pos - 1)
}

// MoveFilterCursorRuneForward moves one rune forward.
func (l *Level) MoveFilterCursorRuneForward() bool {
	_, pos := l.filterRunes()
	return l.moveFilterCursorTo(pos + 1)
}

func (l *Level) moveFilterCursorTo(target int) bool {
	runes, pos := l.filterRunes()
	target = clamp(target, 0, len(runes))
	if target == pos {
		return false
	}
	l.FilterCursor = target
	return true
}

// FilterItems narrows items to those matching the query. Label matches are
// chosen fuzzily; when no label matches, a substring scan over labels and
// IDs catches namespace fragments like "com.example".
func FilterItems(items []menu.Item, query string) []menu.Item {
	q := strings.TrimSpace(query)
	if q == "" {
		return CloneItems(items)
	}
	if kept := fuzzyLabelMatches(items, q); len(kept) > 0 {
		return kept
	}
	return substringMatches(items, q)
}

func fuzzyLabelMatches(items []menu.Item, q string) []menu.Item {
	keep := make([]menu.Item, 0, len(items))
	for _, item := range items {
		if fuzzy.MatchNormalizedFold(q, item.Label) {
			keep = append(keep, item)
		}
	}
	return keep
}

func substringMatches(items []menu.Item, q string) []menu.Item {
	needle := strings.ToLower(q)
	keep := make([]menu.Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Label), needle) ||
			strings.Contains(strings.ToLower(item.ID), needle) {
			keep = append(keep, item)
		}
	}
	return keep
}

// BestMatchIndex picks the item the cursor should land on: exact label or
// ID first, then label prefix, ID prefix, ID fragment, label fragment, and
// finally the closest fuzzy label match.
func BestMatchIndex(items []menu.Item, query string) int {
	if len(items) == 0 {
		return -1
	}
	q := strings.TrimSpace(query)
	if q == "" {
		return 0
	}
	needle := strings.ToLower(q)
	best, bestScore := 0, scoreMiss
	for i, item := range items {
		if s := matchScore(item, q, needle); s < bestScore {
			best, bestScore = i, s
		}
	}
	if bestScore < scoreMiss {
		return best
	}
	return closestFuzzyLabel(items, q)
}

const scoreMiss = 5

func matchScore(item menu.Item, q, needle string) int {
	label := strings.ToLower(item.Label)
	id := strings.ToLower(item.ID)
	switch {
	case strings.EqualFold(item.Label, q) || strings.EqualFold(item.ID, q):
		return 0
	case strings.HasPrefix(label, needle):
		return 1
	case strings.HasPrefix(id, needle):
		return 2
	case strings.Contains(id, needle):
		return 3
	case strings.Contains(label, needle):
		return 4
	}
	return scoreMiss
}

func closestFuzzyLabel(items []menu.Item, q string) int {
	best, bestDist := -1, 0
	for i, item := range items {
		d := fuzzy.RankMatchNormalizedFold(q, item.Label)
		if d < 0 {
			continue
		}
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return 0
	}
	return best
}
