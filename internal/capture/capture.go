// Package capture maintains the bitmap cache of menu-bar item appearances,
// refreshed through a two-phase composite/fallback capture of live window
// surfaces.
package capture

import (
	"context"
	"image"

	"github.com/traytidy/traytidy/internal/identity"
	"github.com/traytidy/traytidy/internal/screen"
	"github.com/traytidy/traytidy/internal/strip"
)

// Window is an opaque handle to an externally owned window surface.
type Window uint64

// Item is one live menu-bar item as reported by discovery: a stable
// identity, the window backing its icon, and a way to resolve its current
// bounds on demand. Bounds may be nil or report false when the window is
// gone.
type Item struct {
	Identity identity.Identity
	Window   Window
	Bounds   func() (screen.Rect, bool)
}

// Capturer produces bitmaps from live windows. CaptureComposite renders all
// given windows into a single image restricted to actual window bounds at
// best resolution; CaptureWindow captures one window with the same options.
type Capturer interface {
	CaptureComposite(ctx context.Context, windows []Window, bounds screen.Rect, on screen.Display) (*image.RGBA, error)
	CaptureWindow(ctx context.Context, window Window, on screen.Display) (*image.RGBA, error)
}

// Permission is the cached, side-effect-free screen-capture permission
// oracle.
type Permission interface {
	ScreenCaptureAllowed() bool
}

// Presentation reports which of the app's surfaces are currently on screen.
type Presentation interface {
	OverlayTarget() (strip.Name, bool)
	SearchPresented() bool
	SettingsPresented() bool
	SettingsPage() string
	Frontmost() bool
}

// ItemSource supplies the ordered live items per section and the
// recently-moved debounce signal owned by discovery.
type ItemSource interface {
	Items(section strip.Name) []Item
	RecentlyMoved() bool
}

// SettingsPageLayout is the settings page whose visibility justifies
// recapturing while the settings surface is frontmost.
const SettingsPageLayout = "menu-bar-layout"
