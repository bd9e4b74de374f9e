package identity

// Well-known system status items. These anchor membership tests for items
// the strip must never move or hide.
var (
	Clock            = Identity{Namespace: "com.apple.controlcenter", Title: "Clock"}
	Siri             = Identity{Namespace: "com.apple.Siri", Title: "Item-0"}
	ControlCenter    = Identity{Namespace: "com.apple.controlcenter", Title: "BentoBox"}
	AudioVideoModule = Identity{Namespace: "com.apple.controlcenter", Title: "AudioVideoModule"}
	FaceTime         = Identity{Namespace: "com.apple.controlcenter", Title: "FaceTime"}
	MusicRecognition = Identity{Namespace: "com.apple.controlcenter", Title: "MusicRecognition"}
)

// immovable items keep their position in the strip regardless of section
// assignment.
var immovable = map[Identity]struct{}{
	Clock:         {},
	Siri:          {},
	ControlCenter: {},
}

// nonHideable items stay visible even when their section hides. The media
// modules only appear during an active call or recognition session, so
// hiding them would suppress exactly the state the user needs to see.
var nonHideable = map[Identity]struct{}{
	Clock:            {},
	Siri:             {},
	ControlCenter:    {},
	AudioVideoModule: {},
	FaceTime:         {},
	MusicRecognition: {},
}

// CanMove reports whether the item may be moved between sections.
func (i Identity) CanMove() bool {
	_, fixed := immovable[i]
	return !fixed
}

// CanHide reports whether the item may be hidden with its section.
func (i Identity) CanHide() bool {
	_, fixed := nonHideable[i]
	return !fixed
}
