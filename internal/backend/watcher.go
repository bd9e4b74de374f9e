package backend

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/traytidy/traytidy/internal/capture"
	"github.com/traytidy/traytidy/internal/logging/events"
)

// Reason identifies the trigger that requested a refresh.
type Reason int

const (
	ReasonTick Reason = iota
	ReasonDisplay
	ReasonStripColor
	ReasonItems
)

func (r Reason) String() string {
	switch r {
	case ReasonTick:
		return "tick"
	case ReasonDisplay:
		return "display"
	case ReasonStripColor:
		return "strip-color"
	case ReasonItems:
		return "items"
	}
	return "unknown"
}

// Event asks the consumer to refresh cached captures.
type Event struct {
	Reason Reason
}

const (
	// MaxTick caps the periodic refresh interval: the cache never goes
	// longer than this without a refresh.
	MaxTick = 3 * time.Second

	// DefaultDebounce is the trailing settle window for burst triggers.
	DefaultDebounce = 500 * time.Millisecond
)

// Config wires the refresh sources into a Watcher.
type Config struct {
	Tick     time.Duration
	Debounce time.Duration

	Permission capture.Permission

	Displays   <-chan struct{}
	StripColor <-chan struct{}
	Items      <-chan struct{}
}

// Watcher merges the periodic tick with change triggers and publishes
// refresh events. Bursts of triggers collapse into a single event on the
// trailing edge of the debounce window.
type Watcher struct {
	cfg Config

	ctx    context.Context
	cancel context.CancelFunc

	limiter *rate.Limiter

	// triggers carries every source signal in arrival order, so the
	// debounce window can keep only the latest reason.
	triggers chan Reason

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher starts a watcher over the configured sources.
func NewWatcher(cfg Config) *Watcher {
	if cfg.Tick <= 0 || cfg.Tick > MaxTick {
		cfg.Tick = MaxTick
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		cfg:      cfg,
		ctx:      ctx,
		cancel:   cancel,
		limiter:  rate.NewLimiter(rate.Every(cfg.Debounce), 1),
		triggers: make(chan Reason, 16),
		events:   make(chan Event, 16),
	}

	w.forward(cfg.Displays, ReasonDisplay)
	w.forward(cfg.StripColor, ReasonStripColor)
	w.forward(cfg.Items, ReasonItems)

	w.wg.Add(1)
	go w.run()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// forward funnels one source into the shared trigger channel.
func (w *Watcher) forward(src <-chan struct{}, reason Reason) {
	if src == nil {
		return
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-w.ctx.Done():
				return
			case _, ok := <-src:
				if !ok {
					return
				}
				select {
				case <-w.ctx.Done():
					return
				case w.triggers <- reason:
				}
			}
		}
	}()
}

// Events returns a channel of refresh events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. The run loop exits after its current select
// completes; use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the run loop has exited and the events channel is
// closed. Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.cfg.Tick)
	defer ticker.Stop()

	// The settle timer is armed lazily on the first trigger and reset on
	// every further one, so a burst emits once on its trailing edge.
	var settle *time.Timer
	var settleC <-chan time.Time
	pending := ReasonTick

	trigger := func(reason Reason) {
		events.Watcher.Trigger(reason.String())
		pending = reason
		if settle == nil {
			settle = time.NewTimer(w.cfg.Debounce)
			settleC = settle.C
			return
		}
		if !settle.Stop() {
			select {
			case <-settle.C:
			default:
			}
		}
		settle.Reset(w.cfg.Debounce)
	}

	for {
		select {
		case <-w.ctx.Done():
			if settle != nil {
				settle.Stop()
			}
			return
		case <-ticker.C:
			w.emit(ReasonTick)
		case <-settleC:
			settle = nil
			settleC = nil
			w.emit(pending)
		case reason := <-w.triggers:
			trigger(reason)
		}
	}
}

func (w *Watcher) emit(reason Reason) {
	if w.cfg.Permission != nil && !w.cfg.Permission.ScreenCaptureAllowed() {
		events.Watcher.Gate("permission")
		return
	}
	if !w.limiter.Allow() {
		events.Watcher.Gate("rate")
		return
	}
	events.Watcher.Refresh(reason.String())
	select {
	case <-w.ctx.Done():
	case w.events <- Event{Reason: reason}:
	}
}
