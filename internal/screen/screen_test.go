package screen

import "testing"

type fakeSource struct {
	displays   []Display
	main       int
	pointer    Point
	hasPointer bool
	fullScreen bool
}

func (f *fakeSource) Displays() []Display { return f.displays }

func (f *fakeSource) Main() (Display, bool) {
	if f.main < 0 || f.main >= len(f.displays) {
		return Display{}, false
	}
	return f.displays[f.main], true
}

func (f *fakeSource) PointerPosition() (Point, bool) { return f.pointer, f.hasPointer }

func (f *fakeSource) ActiveSpaceFullScreen() bool { return f.fullScreen }

func TestUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 5}
	b := Rect{X: 20, Y: 1, Width: 10, Height: 5}
	u := a.Union(b)
	if u.X != 0 || u.Y != 0 || u.Width != 30 || u.Height != 6 {
		t.Fatalf("unexpected union %+v", u)
	}
	if got := (Rect{}).Union(b); got != b {
		t.Fatalf("empty rect must be the union identity, got %+v", got)
	}
}

func TestPixelWidthRounds(t *testing.T) {
	if got := PixelWidth(100, 2); got != 200 {
		t.Fatalf("expected 200, got %d", got)
	}
	if got := PixelWidth(33.4, 1.5); got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
}

func TestBestDisplayPrefersPointerWhenFullScreen(t *testing.T) {
	src := &fakeSource{
		displays: []Display{
			{ID: "main", Bounds: Rect{Width: 1440, Height: 900}},
			{ID: "side", Bounds: Rect{X: 1440, Width: 1920, Height: 1080}},
		},
		main:       0,
		pointer:    Point{X: 2000, Y: 100},
		hasPointer: true,
		fullScreen: true,
	}
	d, ok := BestDisplay(src)
	if !ok || d.ID != "side" {
		t.Fatalf("expected pointer display, got %+v (%v)", d, ok)
	}
}

func TestBestDisplayFallsBackToMain(t *testing.T) {
	src := &fakeSource{
		displays:   []Display{{ID: "main"}, {ID: "side"}},
		main:       0,
		fullScreen: true,
	}
	d, ok := BestDisplay(src)
	if !ok || d.ID != "main" {
		t.Fatalf("expected main display, got %+v (%v)", d, ok)
	}
}

func TestBestDisplayFallsBackToFirst(t *testing.T) {
	src := &fakeSource{displays: []Display{{ID: "only"}}, main: -1}
	d, ok := BestDisplay(src)
	if !ok || d.ID != "only" {
		t.Fatalf("expected first display, got %+v (%v)", d, ok)
	}
	if _, ok := BestDisplay(&fakeSource{main: -1}); ok {
		t.Fatalf("no displays must report absent")
	}
}

func TestStripFrame(t *testing.T) {
	d := Display{Bounds: Rect{X: 0, Y: 0, Width: 1440, Height: 900}, StripHeight: 24}
	f := d.StripFrame()
	if f.Height != 24 || f.Width != 1440 || f.Y != 0 {
		t.Fatalf("unexpected strip frame %+v", f)
	}
	if !f.Contains(Point{X: 700, Y: 10}) {
		t.Fatalf("point in strip should be contained")
	}
	if f.Contains(Point{X: 700, Y: 30}) {
		t.Fatalf("point below strip should not be contained")
	}
}
