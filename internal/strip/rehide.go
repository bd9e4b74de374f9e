package strip

import (
	"context"
	"time"

	"github.com/traytidy/traytidy/internal/logging/events"
	"github.com/traytidy/traytidy/internal/screen"
)

// rehideMonitor tracks one active rehide subscription. The stop channel is
// closed at most once; closing it tears down both the pointer subscription
// and any pending timer.
type rehideMonitor struct {
	stop chan struct{}
}

// startRehide begins rehide monitoring when the timed strategy is active.
// Always tears down any previous monitor first, so repeated starts are safe.
func (s *Section) startRehide(st Settings) {
	s.stopRehide()
	if !st.AutoRehide || st.RehideStrategy != RehideTimed {
		return
	}
	r := s.owner
	if r == nil || r.cfg.Pointer == nil {
		return
	}
	interval := st.RehideInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	m := &rehideMonitor{stop: make(chan struct{})}
	s.rehideMu.Lock()
	s.rehide = m
	s.rehideMu.Unlock()
	go s.runRehide(m, interval)
}

// stopRehide cancels the timer and pointer subscription and clears the
// monitor reference. Idempotent; safe to call from the monitor goroutine.
func (s *Section) stopRehide() {
	s.rehideMu.Lock()
	m := s.rehide
	s.rehide = nil
	s.rehideMu.Unlock()
	if m == nil {
		return
	}
	select {
	case <-m.stop:
	default:
		close(m.stop)
	}
	events.Section.RehideStop(s.name.String())
}

func (s *Section) runRehide(m *rehideMonitor, interval time.Duration) {
	pointer := s.owner.cfg.Pointer
	moves, cancel := pointer.Subscribe()
	defer cancel()

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	var pending <-chan time.Time

	disarm := func() {
		if pending == nil {
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		pending = nil
		events.Section.RehideCancel(s.name.String())
	}

	for {
		select {
		case <-m.stop:
			return
		case p, ok := <-moves:
			if !ok {
				return
			}
			if s.pointerAboveStrip(p) {
				if pending == nil {
					timer.Reset(interval)
					pending = timer.C
					events.Section.RehideArm(s.name.String(), interval.String())
				}
			} else {
				disarm()
			}
		case <-pending:
			pending = nil
			p, ok := pointer.Position()
			above := ok && s.pointerAboveStrip(p)
			events.Section.RehideFire(s.name.String(), above)
			if above {
				s.Hide(context.Background())
				return
			}
			// Pointer moved below the strip between arming and firing;
			// keep monitoring.
		}
	}
}

// pointerAboveStrip reports whether the pointer sits above the bottom edge
// of the strip's visible frame on the display under it.
func (s *Section) pointerAboveStrip(p screen.Point) bool {
	r := s.owner
	if r == nil || r.cfg.Screens == nil {
		return false
	}
	var display screen.Display
	found := false
	for _, d := range r.cfg.Screens.Displays() {
		if d.Bounds.Contains(p) {
			display = d
			found = true
			break
		}
	}
	if !found {
		if d, ok := r.cfg.Screens.Main(); ok {
			display = d
		} else {
			return false
		}
	}
	return p.Y < display.StripFrame().MaxY()
}
