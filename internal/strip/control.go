package strip

// ControlID identifies the proxy control item anchoring a section in the
// strip.
type ControlID int

const (
	ControlPrimary ControlID = iota
	ControlHidden
	ControlAlwaysHidden
)

func (c ControlID) String() string {
	switch c {
	case ControlPrimary:
		return "primary"
	case ControlHidden:
		return "hidden"
	case ControlAlwaysHidden:
		return "always-hidden"
	default:
		return "unknown"
	}
}

// ControlState is the binary visibility a control asserts for its section's
// items.
type ControlState int

const (
	ShowItems ControlState = iota
	HideItems
)

func (s ControlState) String() string {
	if s == ShowItems {
		return "show-items"
	}
	return "hide-items"
}

// Control is the proxy item representing one section's presence in the
// strip. One instance exists per section, owned exclusively by that section;
// State is the only field that changes after startup.
type Control struct {
	ID      ControlID
	State   ControlState
	InStrip bool
}
