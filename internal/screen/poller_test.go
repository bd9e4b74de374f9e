package screen

import (
	"sync"
	"testing"
	"time"
)

type scriptedPointer struct {
	mu  sync.Mutex
	pos Point
	ok  bool
}

func (s *scriptedPointer) Displays() []Display          { return nil }
func (s *scriptedPointer) Main() (Display, bool)        { return Display{}, false }
func (s *scriptedPointer) ActiveSpaceFullScreen() bool  { return false }
func (s *scriptedPointer) PointerPosition() (Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos, s.ok
}

func (s *scriptedPointer) set(p Point) {
	s.mu.Lock()
	s.pos = p
	s.ok = true
	s.mu.Unlock()
}

func TestPointerPollerPublishesMoves(t *testing.T) {
	src := &scriptedPointer{}
	p := NewPointerPoller(src, time.Millisecond)
	defer p.Stop()

	moves, cancel := p.Subscribe()
	defer cancel()

	src.set(Point{X: 10, Y: 5})
	select {
	case got := <-moves:
		if got.X != 10 || got.Y != 5 {
			t.Fatalf("unexpected move %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("no move published")
	}
}

func TestPointerPollerSkipsUnchangedPositions(t *testing.T) {
	src := &scriptedPointer{}
	src.set(Point{X: 1, Y: 1})
	p := NewPointerPoller(src, time.Millisecond)
	defer p.Stop()

	moves, cancel := p.Subscribe()
	defer cancel()

	select {
	case <-moves:
	case <-time.After(time.Second):
		t.Fatalf("initial position not published")
	}

	// Position never changes again. The feed must stay quiet.
	select {
	case got := <-moves:
		t.Fatalf("unexpected extra move %+v", got)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestPointerPollerStopClosesSubscriptions(t *testing.T) {
	p := NewPointerPoller(&scriptedPointer{}, time.Millisecond)
	moves, cancel := p.Subscribe()
	defer cancel()

	p.Stop()
	select {
	case _, ok := <-moves:
		if ok {
			t.Fatalf("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatalf("subscription not closed on stop")
	}
}

func TestPointerPollerCancelIsIdempotent(t *testing.T) {
	p := NewPointerPoller(&scriptedPointer{}, time.Millisecond)
	defer p.Stop()

	_, cancel := p.Subscribe()
	cancel()
	cancel()
}
