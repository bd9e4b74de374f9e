package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/traytidy/traytidy/internal/identity"
	"github.com/traytidy/traytidy/internal/screen"
	"github.com/traytidy/traytidy/internal/strip"
)

type fakeCapturer struct {
	composite    *image.RGBA
	compositeErr error
	windows      map[Window]*image.RGBA
	windowErr    error

	compositeCalls int
	windowCalls    []Window
}

func (f *fakeCapturer) CaptureComposite(_ context.Context, _ []Window, _ screen.Rect, _ screen.Display) (*image.RGBA, error) {
	f.compositeCalls++
	return f.composite, f.compositeErr
}

func (f *fakeCapturer) CaptureWindow(_ context.Context, w Window, _ screen.Display) (*image.RGBA, error) {
	f.windowCalls = append(f.windowCalls, w)
	if f.windowErr != nil {
		return nil, f.windowErr
	}
	return f.windows[w], nil
}

type fakePermission struct{ allowed bool }

func (f fakePermission) ScreenCaptureAllowed() bool { return f.allowed }

type fakePresentation struct {
	overlayTarget    strip.Name
	overlayPresented bool
	search           bool
	settings         bool
	page             string
	frontmost        bool
}

func (f fakePresentation) OverlayTarget() (strip.Name, bool) {
	return f.overlayTarget, f.overlayPresented
}

func (f fakePresentation) SearchPresented() bool   { return f.search }
func (f fakePresentation) SettingsPresented() bool { return f.settings }
func (f fakePresentation) SettingsPage() string    { return f.page }
func (f fakePresentation) Frontmost() bool         { return f.frontmost }

type fakeSource struct {
	items map[strip.Name][]Item
	moved bool
}

func (f *fakeSource) Items(section strip.Name) []Item { return f.items[section] }
func (f *fakeSource) RecentlyMoved() bool             { return f.moved }

type fakeScreens struct{ displays []screen.Display }

func (f *fakeScreens) Displays() []screen.Display { return f.displays }
func (f *fakeScreens) Main() (screen.Display, bool) {
	if len(f.displays) == 0 {
		return screen.Display{}, false
	}
	return f.displays[0], true
}
func (f *fakeScreens) PointerPosition() (screen.Point, bool) { return screen.Point{}, false }
func (f *fakeScreens) ActiveSpaceFullScreen() bool           { return false }

var testDisplay = screen.Display{
	ID:          "main",
	Bounds:      screen.Rect{Width: 1440, Height: 900},
	Scale:       2,
	StripHeight: 24,
}

func opaqueImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0x40
		img.Pix[i+3] = 0xff
	}
	return img
}

func boundsAt(x, w float64) func() (screen.Rect, bool) {
	return func() (screen.Rect, bool) {
		return screen.Rect{X: x, Y: 0, Width: w, Height: 24}, true
	}
}

func itemAt(ns string, window Window, x, w float64) Item {
	return Item{
		Identity: identity.New(ns, "Item-0"),
		Window:   window,
		Bounds:   boundsAt(x, w),
	}
}

func TestCreateImagesCompositeHappyPath(t *testing.T) {
	// Two 30pt items side by side: union 60pt wide, 120px at 2x.
	items := []Item{
		itemAt("com.example.one", 1, 100, 30),
		itemAt("com.example.two", 2, 130, 30),
	}
	cap := &fakeCapturer{composite: opaqueImage(120, 48)}
	c := New(Config{Capturer: cap})

	out := c.CreateImages(context.Background(), items, testDisplay)
	if len(out) != 2 {
		t.Fatalf("expected 2 images, got %d", len(out))
	}
	if len(cap.windowCalls) != 0 {
		t.Fatalf("no fallback expected, got captures for %v", cap.windowCalls)
	}
	img := out[items[0].Identity]
	if img.Bounds().Dx() != 60 || img.Bounds().Dy() != 48 {
		t.Fatalf("unexpected crop size %v", img.Bounds())
	}
}

func TestCreateImagesInvalidWidthRoutesAllToFallback(t *testing.T) {
	items := []Item{
		itemAt("com.example.one", 1, 100, 30),
		itemAt("com.example.two", 2, 130, 30),
	}
	cap := &fakeCapturer{
		// Width 100 != 120 expected for a 60pt union at 2x.
		composite: opaqueImage(100, 48),
		windows: map[Window]*image.RGBA{
			1: opaqueImage(60, 48),
			2: opaqueImage(60, 48),
		},
	}
	c := New(Config{Capturer: cap})

	out := c.CreateImages(context.Background(), items, testDisplay)
	if len(cap.windowCalls) != 2 {
		t.Fatalf("expected both items to fall back, got %v", cap.windowCalls)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 fallback images, got %d", len(out))
	}
}

func TestCreateImagesTransparentCompositeRejected(t *testing.T) {
	items := []Item{itemAt("com.example.one", 1, 100, 30)}
	cap := &fakeCapturer{
		composite: image.NewRGBA(image.Rect(0, 0, 60, 48)),
		windows:   map[Window]*image.RGBA{1: opaqueImage(60, 48)},
	}
	c := New(Config{Capturer: cap})

	out := c.CreateImages(context.Background(), items, testDisplay)
	if len(cap.windowCalls) != 1 {
		t.Fatalf("transparent composite must fall back, got %v", cap.windowCalls)
	}
	if len(out) != 1 {
		t.Fatalf("expected fallback image, got %d", len(out))
	}
}

func TestCreateImagesUnresolvedBoundsFallBack(t *testing.T) {
	orphan := Item{Identity: identity.New("com.example.orphan", ""), Window: 9}
	items := []Item{itemAt("com.example.one", 1, 100, 30), orphan}
	cap := &fakeCapturer{
		composite: opaqueImage(60, 48),
		windows:   map[Window]*image.RGBA{9: opaqueImage(20, 48)},
	}
	c := New(Config{Capturer: cap})

	out := c.CreateImages(context.Background(), items, testDisplay)
	if len(out) != 2 {
		t.Fatalf("expected composite crop plus fallback, got %d", len(out))
	}
	if len(cap.windowCalls) != 1 || cap.windowCalls[0] != 9 {
		t.Fatalf("only the orphan should fall back, got %v", cap.windowCalls)
	}
}

func TestCreateImagesDropsItemsFailingBothPhases(t *testing.T) {
	items := []Item{itemAt("com.example.gone", 1, 100, 30)}
	cap := &fakeCapturer{
		compositeErr: errors.New("composite failed"),
		windowErr:    errors.New("window gone"),
	}
	c := New(Config{Capturer: cap})

	out := c.CreateImages(context.Background(), items, testDisplay)
	if len(out) != 0 {
		t.Fatalf("expected empty result, got %d entries", len(out))
	}
}

func TestFallbackScalesToExpectedPixelSize(t *testing.T) {
	items := []Item{itemAt("com.example.one", 1, 100, 30)}
	cap := &fakeCapturer{
		compositeErr: errors.New("composite failed"),
		// 1x-sized capture for a 2x display.
		windows: map[Window]*image.RGBA{1: opaqueImage(30, 24)},
	}
	c := New(Config{Capturer: cap})

	out := c.CreateImages(context.Background(), items, testDisplay)
	img, ok := out[items[0].Identity]
	if !ok {
		t.Fatalf("expected fallback image")
	}
	if img.Bounds().Dx() != 60 || img.Bounds().Dy() != 48 {
		t.Fatalf("expected 60x48 after scaling, got %v", img.Bounds())
	}
}

func TestFullyTransparent(t *testing.T) {
	if !fullyTransparent(image.NewRGBA(image.Rect(0, 0, 4, 4))) {
		t.Fatalf("zeroed image must be fully transparent")
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(2, 1, color.RGBA{A: 1})
	if fullyTransparent(img) {
		t.Fatalf("image with any alpha must not be fully transparent")
	}
}
