package strip

// Snapshot captures the scattered state the hidden computation depends on:
// the section's own control state, the overlay-mode toggle, and the overlay's
// current target. Hidden state is always derived from a Snapshot rather than
// stored, so it cannot drift.
type Snapshot struct {
	State      ControlState
	UseOverlay bool
	Target     Name
	HasTarget  bool
}

// HiddenIn reports whether a section with this name is hidden under the
// given snapshot.
//
// With the overlay enabled, a ShowItems control always means visible; a
// HideItems control means hidden unless the overlay currently presents this
// section's group (the Hidden group stands in for both Visible and Hidden).
// With the overlay disabled, an overlay still targeting the section's group
// is a transition edge treated as visible; otherwise the control state
// decides.
func (n Name) HiddenIn(s Snapshot) bool {
	group := Hidden
	if n == AlwaysHidden {
		group = AlwaysHidden
	}
	targeted := s.HasTarget && s.Target == group
	if s.UseOverlay {
		if s.State == ShowItems {
			return false
		}
		return !targeted
	}
	if targeted {
		return false
	}
	return s.State == HideItems
}
