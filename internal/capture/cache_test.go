package capture

import (
	"context"
	"testing"

	"github.com/traytidy/traytidy/internal/identity"
	"github.com/traytidy/traytidy/internal/screen"
	"github.com/traytidy/traytidy/internal/strip"
)

func testCacheConfig(src *fakeSource, cap Capturer, pres Presentation, perm Permission) Config {
	return Config{
		Source:       src,
		Capturer:     cap,
		Permission:   perm,
		Presentation: pres,
		Screens:      &fakeScreens{displays: []screen.Display{testDisplay}},
	}
}

func TestFailedWithoutPermission(t *testing.T) {
	src := &fakeSource{items: map[strip.Name][]Item{}}
	c := New(testCacheConfig(src, &fakeCapturer{}, fakePresentation{}, fakePermission{allowed: false}))
	if !c.Failed(strip.Hidden) {
		t.Fatalf("missing permission must fail regardless of item list")
	}
}

func TestFailedEmptySectionIsNotFailure(t *testing.T) {
	src := &fakeSource{items: map[strip.Name][]Item{}}
	c := New(testCacheConfig(src, &fakeCapturer{}, fakePresentation{}, fakePermission{allowed: true}))
	if c.Failed(strip.Hidden) {
		t.Fatalf("empty section with permission granted is not a failure")
	}
}

func TestFailedWhenNoItemHasImage(t *testing.T) {
	it := itemAt("com.example.one", 1, 100, 30)
	src := &fakeSource{items: map[strip.Name][]Item{strip.Hidden: {it}}}
	c := New(testCacheConfig(src, &fakeCapturer{}, fakePresentation{}, fakePermission{allowed: true}))
	if !c.Failed(strip.Hidden) {
		t.Fatalf("non-empty section with no cached image must fail")
	}
	c.mu.Lock()
	c.images[it.Identity] = opaqueImage(4, 4)
	c.mu.Unlock()
	if c.Failed(strip.Hidden) {
		t.Fatalf("any cached image clears the failure")
	}
}

func TestUpdateSectionsSkipsWhenNothingPresented(t *testing.T) {
	it := itemAt("com.example.one", 1, 100, 30)
	src := &fakeSource{items: map[strip.Name][]Item{strip.Hidden: {it}}}
	cap := &fakeCapturer{composite: opaqueImage(60, 48)}
	c := New(testCacheConfig(src, cap, fakePresentation{}, fakePermission{allowed: true}))

	c.UpdateSections(context.Background(), []strip.Name{strip.Hidden})
	if cap.compositeCalls != 0 {
		t.Fatalf("no surface presented: capture must be skipped")
	}
	if len(c.Images()) != 0 {
		t.Fatalf("cache must stay empty after skip")
	}
}

func TestUpdateSectionsSkipsAfterRecentMove(t *testing.T) {
	it := itemAt("com.example.one", 1, 100, 30)
	src := &fakeSource{items: map[strip.Name][]Item{strip.Hidden: {it}}, moved: true}
	cap := &fakeCapturer{composite: opaqueImage(60, 48)}
	pres := fakePresentation{overlayPresented: true, overlayTarget: strip.Hidden}
	c := New(testCacheConfig(src, cap, pres, fakePermission{allowed: true}))

	c.UpdateSections(context.Background(), []strip.Name{strip.Hidden})
	if cap.compositeCalls != 0 {
		t.Fatalf("recent move must skip capture")
	}
}

func TestUpdateSectionsSettingsLayoutPage(t *testing.T) {
	it := itemAt("com.example.one", 1, 100, 30)
	src := &fakeSource{items: map[strip.Name][]Item{strip.Hidden: {it}}}
	cap := &fakeCapturer{composite: opaqueImage(60, 48)}
	pres := fakePresentation{settings: true, page: SettingsPageLayout, frontmost: true}
	c := New(testCacheConfig(src, cap, pres, fakePermission{allowed: true}))

	c.UpdateSections(context.Background(), []strip.Name{strip.Hidden})
	if cap.compositeCalls != 1 {
		t.Fatalf("settings layout page frontmost must capture")
	}
	if _, ok := c.Image(it.Identity); !ok {
		t.Fatalf("captured image must be merged into the cache")
	}

	// Same page but app not frontmost: skip.
	cap2 := &fakeCapturer{composite: opaqueImage(60, 48)}
	pres2 := fakePresentation{settings: true, page: SettingsPageLayout}
	c2 := New(testCacheConfig(src, cap2, pres2, fakePermission{allowed: true}))
	c2.UpdateSections(context.Background(), []strip.Name{strip.Hidden})
	if cap2.compositeCalls != 0 {
		t.Fatalf("settings page without frontmost must skip")
	}
}

func TestUpdateRecordsDisplayEvenWithoutImages(t *testing.T) {
	src := &fakeSource{items: map[strip.Name][]Item{}}
	c := New(testCacheConfig(src, &fakeCapturer{}, fakePresentation{}, fakePermission{allowed: true}))

	c.UpdateSectionsWithoutChecks(context.Background(), strip.Names)
	display, height := c.Display()
	if display.ID != "main" || height != 24 {
		t.Fatalf("display bookkeeping must refresh unconditionally, got %q/%v", display.ID, height)
	}
}

func TestMergeIsIdempotentAndRetainsUntouchedKeys(t *testing.T) {
	kept := identity.New("com.example.kept", "")
	it := itemAt("com.example.one", 1, 100, 30)
	src := &fakeSource{items: map[strip.Name][]Item{strip.Hidden: {it}}}
	cap := &fakeCapturer{composite: opaqueImage(60, 48)}
	pres := fakePresentation{overlayPresented: true, overlayTarget: strip.Hidden}
	c := New(testCacheConfig(src, cap, pres, fakePermission{allowed: true}))

	keptImg := opaqueImage(2, 2)
	c.mu.Lock()
	c.images[kept] = keptImg
	c.mu.Unlock()

	c.UpdateSectionsWithoutChecks(context.Background(), []strip.Name{strip.Hidden})
	first := c.Images()
	c.UpdateSectionsWithoutChecks(context.Background(), []strip.Name{strip.Hidden})
	second := c.Images()

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected kept plus captured entries, got %d then %d", len(first), len(second))
	}
	if second[kept] != keptImg {
		t.Fatalf("untouched keys must be retained as-is")
	}
	for k := range first {
		if _, ok := second[k]; !ok {
			t.Fatalf("key %v lost on idempotent merge", k)
		}
	}
}

func TestMergeSignalsStripColorChange(t *testing.T) {
	it := itemAt("com.example.one", 1, 100, 30)
	src := &fakeSource{items: map[strip.Name][]Item{strip.Hidden: {it}}}
	cap := &fakeCapturer{composite: opaqueImage(60, 48)}
	c := New(testCacheConfig(src, cap, fakePresentation{}, fakePermission{allowed: true}))

	c.UpdateSectionsWithoutChecks(context.Background(), []strip.Name{strip.Hidden})
	select {
	case <-c.ColorChanges():
	default:
		t.Fatalf("first merge must signal a strip color")
	}
	if _, ok := c.StripColor(); !ok {
		t.Fatalf("strip color must be recorded after a merge")
	}

	// Same composite again: no movement, no signal.
	c.UpdateSectionsWithoutChecks(context.Background(), []strip.Name{strip.Hidden})
	select {
	case <-c.ColorChanges():
		t.Fatalf("unchanged color must not signal")
	default:
	}

	bright := opaqueImage(60, 48)
	for i := 0; i < len(bright.Pix); i += 4 {
		bright.Pix[i] = 0xc0
	}
	cap.composite = bright
	c.UpdateSectionsWithoutChecks(context.Background(), []strip.Name{strip.Hidden})
	select {
	case <-c.ColorChanges():
	default:
		t.Fatalf("moved color must signal")
	}
}

func TestUpdateAutoSelectsSections(t *testing.T) {
	one := itemAt("com.example.one", 1, 100, 30)
	two := itemAt("com.example.two", 2, 130, 30)
	newSource := func() *fakeSource {
		return &fakeSource{items: map[strip.Name][]Item{
			strip.Hidden:       {one},
			strip.AlwaysHidden: {two},
		}}
	}

	// Overlay presented: only its target section is captured.
	cap := &fakeCapturer{composite: opaqueImage(60, 48)}
	pres := fakePresentation{overlayPresented: true, overlayTarget: strip.Hidden}
	c := New(testCacheConfig(newSource(), cap, pres, fakePermission{allowed: true}))
	c.Update(context.Background())
	if _, ok := c.Image(one.Identity); !ok {
		t.Fatalf("overlay target section must be captured")
	}
	if _, ok := c.Image(two.Identity); ok {
		t.Fatalf("non-target section must not be captured")
	}

	// Nothing presented: nothing captured.
	cap2 := &fakeCapturer{composite: opaqueImage(60, 48)}
	c2 := New(testCacheConfig(newSource(), cap2, fakePresentation{}, fakePermission{allowed: true}))
	c2.Update(context.Background())
	if cap2.compositeCalls != 0 {
		t.Fatalf("no presented surface: auto update must do nothing")
	}

	// Search presented: every section is captured.
	cap3 := &fakeCapturer{composite: opaqueImage(60, 48)}
	c3 := New(testCacheConfig(newSource(), cap3, fakePresentation{search: true}, fakePermission{allowed: true}))
	c3.Update(context.Background())
	if _, ok := c3.Image(one.Identity); !ok {
		t.Fatalf("search surface must capture hidden section")
	}
	if _, ok := c3.Image(two.Identity); !ok {
		t.Fatalf("search surface must capture always-hidden section")
	}
}
