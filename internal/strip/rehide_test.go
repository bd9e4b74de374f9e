package strip

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/traytidy/traytidy/internal/screen"
)

type fakePointer struct {
	mu     sync.Mutex
	moves  chan screen.Point
	pos    screen.Point
	hasPos bool
	cancel int
}

func newFakePointer() *fakePointer {
	return &fakePointer{moves: make(chan screen.Point, 8)}
}

func (f *fakePointer) Subscribe() (<-chan screen.Point, func()) {
	return f.moves, func() {
		f.mu.Lock()
		f.cancel++
		f.mu.Unlock()
	}
}

func (f *fakePointer) Position() (screen.Point, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pos, f.hasPos
}

func (f *fakePointer) setPosition(p screen.Point) {
	f.mu.Lock()
	f.pos = p
	f.hasPos = true
	f.mu.Unlock()
}

func (f *fakePointer) cancels() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancel
}

func rehideSettings(interval time.Duration) Settings {
	return Settings{
		AutoRehide:     true,
		RehideStrategy: RehideTimed,
		RehideInterval: interval,
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func TestRehideHidesWhenPointerStaysAboveStrip(t *testing.T) {
	pointer := newFakePointer()
	settings := rehideSettings(20 * time.Millisecond)
	r := NewRegistry(RegistryConfig{
		Overlay:  &fakeOverlay{},
		Screens:  testScreens(),
		Pointer:  pointer,
		Settings: func() Settings { return settings },
	})
	ctx := context.Background()

	s := r.Section(Hidden)
	s.Show(ctx)
	if s.Hidden() {
		t.Fatalf("section should be shown")
	}

	inStrip := screen.Point{X: 500, Y: 10}
	pointer.setPosition(inStrip)
	pointer.moves <- inStrip

	// The monitor cancels its subscription after hiding; the counter is the
	// synchronization point for reading section state.
	waitFor(t, time.Second, func() bool { return pointer.cancels() == 1 })
	if !s.Hidden() {
		t.Fatalf("section should have been rehidden")
	}
}

func TestRehideCancelsWhenPointerDropsBelowStrip(t *testing.T) {
	pointer := newFakePointer()
	settings := rehideSettings(30 * time.Millisecond)
	r := NewRegistry(RegistryConfig{
		Overlay:  &fakeOverlay{},
		Screens:  testScreens(),
		Pointer:  pointer,
		Settings: func() Settings { return settings },
	})
	ctx := context.Background()

	s := r.Section(Hidden)
	s.Show(ctx)

	pointer.setPosition(screen.Point{X: 500, Y: 400})
	pointer.moves <- screen.Point{X: 500, Y: 10}
	pointer.moves <- screen.Point{X: 500, Y: 400}

	time.Sleep(80 * time.Millisecond)
	if s.Hidden() {
		t.Fatalf("section must stay shown after the pending timer was cancelled")
	}
	s.stopRehide()
}

func TestRehideNotStartedWithoutTimedStrategy(t *testing.T) {
	pointer := newFakePointer()
	r := NewRegistry(RegistryConfig{
		Overlay:  &fakeOverlay{},
		Screens:  testScreens(),
		Pointer:  pointer,
		Settings: func() Settings { return Settings{AutoRehide: true, RehideStrategy: RehideOff} },
	})
	s := r.Section(Hidden)
	s.Show(context.Background())
	s.rehideMu.Lock()
	active := s.rehide != nil
	s.rehideMu.Unlock()
	if active {
		t.Fatalf("monitor must not start without the timed strategy")
	}
}

// The monitor hides from its own goroutine while the UI keeps driving
// transitions; the registry must serialize the control-state writes.
func TestRehideFireConcurrentWithManualTransitions(t *testing.T) {
	pointer := newFakePointer()
	settings := rehideSettings(time.Millisecond)
	r := NewRegistry(RegistryConfig{
		Overlay:  &fakeOverlay{},
		Screens:  testScreens(),
		Pointer:  pointer,
		Settings: func() Settings { return settings },
	})
	ctx := context.Background()
	s := r.Section(Hidden)

	inStrip := screen.Point{X: 500, Y: 10}
	pointer.setPosition(inStrip)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			s.Show(ctx)
			select {
			case pointer.moves <- inStrip:
			default:
			}
			time.Sleep(time.Millisecond)
			r.Section(AlwaysHidden).Toggle(ctx)
			s.Hide(ctx)
		}
	}()
	<-done

	r.Section(AlwaysHidden).Hide(ctx)
	s.stopRehide()
	s.Hide(ctx)
	if !s.Hidden() {
		t.Fatalf("section must end hidden after the final hide")
	}
}

func TestStopRehideIsIdempotent(t *testing.T) {
	pointer := newFakePointer()
	settings := rehideSettings(time.Minute)
	r := NewRegistry(RegistryConfig{
		Overlay:  &fakeOverlay{},
		Screens:  testScreens(),
		Pointer:  pointer,
		Settings: func() Settings { return settings },
	})
	s := r.Section(Hidden)
	s.Show(context.Background())
	s.stopRehide()
	s.stopRehide()
	waitFor(t, time.Second, func() bool { return pointer.cancels() == 1 })
}

func TestStartRehideTearsDownPriorMonitor(t *testing.T) {
	pointer := newFakePointer()
	settings := rehideSettings(time.Minute)
	r := NewRegistry(RegistryConfig{
		Overlay:  &fakeOverlay{},
		Screens:  testScreens(),
		Pointer:  pointer,
		Settings: func() Settings { return settings },
	})
	s := r.Section(Hidden)
	s.startRehide(settings)
	s.startRehide(settings)
	waitFor(t, time.Second, func() bool { return pointer.cancels() == 1 })
	s.stopRehide()
	waitFor(t, time.Second, func() bool { return pointer.cancels() == 2 })
}
