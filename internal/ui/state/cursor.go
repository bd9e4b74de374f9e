package state

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// placeCursor clamps the target into the item range and reports whether the
// cursor actually moved.
func (l *Level) placeCursor(target int) bool {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		return false
	}
	next := clamp(target, 0, n-1)
	if next == l.Cursor {
		return false
	}
	l.Cursor = next
	return true
}

// MoveCursorHome jumps to the first item.
func (l *Level) MoveCursorHome() bool { return l.placeCursor(0) }

// MoveCursorEnd jumps to the last item.
func (l *Level) MoveCursorEnd() bool { return l.placeCursor(len(l.Items) - 1) }

// MoveCursorPageUp moves up by one page of maxVisible rows.
func (l *Level) MoveCursorPageUp(maxVisible int) bool {
	return l.placeCursor(clamp(l.Cursor, 0, len(l.Items)) - l.pageSpan(maxVisible))
}

// MoveCursorPageDown moves down by one page of maxVisible rows.
func (l *Level) MoveCursorPageDown(maxVisible int) bool {
	return l.placeCursor(clamp(l.Cursor, 0, len(l.Items)) + l.pageSpan(maxVisible))
}

func (l *Level) pageSpan(maxVisible int) int {
	n := len(l.Items)
	if n == 0 {
		return 0
	}
	if maxVisible < 1 || maxVisible > n {
		return n
	}
	return maxVisible
}

// EnsureCursorVisible scrolls the viewport window so the cursor row stays on
// screen for a window of maxVisible rows.
func (l *Level) EnsureCursorVisible(maxVisible int) {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	l.Cursor = clamp(l.Cursor, 0, n-1)
	if maxVisible <= 0 {
		l.ViewportOffset = 0
		return
	}
	maxTop := n - maxVisible
	if maxTop < 0 {
		maxTop = 0
	}
	top := clamp(l.ViewportOffset, 0, maxTop)
	if l.Cursor < top {
		top = l.Cursor
	} else if l.Cursor >= top+maxVisible {
		top = l.Cursor - maxVisible + 1
	}
	l.ViewportOffset = clamp(top, 0, maxTop)
}
