package screen

import (
	"sync"
	"time"
)

// DefaultPollInterval is how often the pointer poller samples the source.
const DefaultPollInterval = 250 * time.Millisecond

// PointerPoller adapts a Source's on-demand pointer reads into a move-event
// subscription by sampling at a fixed interval and publishing position
// changes. Sources that cannot report the pointer produce a silent feed.
type PointerPoller struct {
	src      Source
	interval time.Duration

	mu   sync.Mutex
	subs map[chan Point]struct{}
	stop chan struct{}
	once sync.Once
}

// NewPointerPoller creates a poller over the given source. A non-positive
// interval uses DefaultPollInterval.
func NewPointerPoller(src Source, interval time.Duration) *PointerPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	p := &PointerPoller{
		src:      src,
		interval: interval,
		subs:     make(map[chan Point]struct{}),
		stop:     make(chan struct{}),
	}
	go p.run()
	return p
}

// Subscribe returns a channel of pointer moves and a cancel function. The
// channel is closed on cancel or poller shutdown.
func (p *PointerPoller) Subscribe() (<-chan Point, func()) {
	ch := make(chan Point, 8)
	p.mu.Lock()
	p.subs[ch] = struct{}{}
	p.mu.Unlock()
	cancel := func() {
		p.mu.Lock()
		if _, ok := p.subs[ch]; ok {
			delete(p.subs, ch)
			close(ch)
		}
		p.mu.Unlock()
	}
	return ch, cancel
}

// Position reads the pointer position from the underlying source.
func (p *PointerPoller) Position() (Point, bool) {
	if p.src == nil {
		return Point{}, false
	}
	return p.src.PointerPosition()
}

// Stop shuts the poller down and closes all subscriptions.
func (p *PointerPoller) Stop() {
	p.once.Do(func() { close(p.stop) })
}

func (p *PointerPoller) run() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var last Point
	var seen bool
	for {
		select {
		case <-p.stop:
			p.mu.Lock()
			for ch := range p.subs {
				delete(p.subs, ch)
				close(ch)
			}
			p.mu.Unlock()
			return
		case <-ticker.C:
			pos, ok := p.Position()
			if !ok {
				continue
			}
			if seen && pos == last {
				continue
			}
			last = pos
			seen = true
			p.publish(pos)
		}
	}
}

func (p *PointerPoller) publish(pos Point) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for ch := range p.subs {
		select {
		case ch <- pos:
		default:
		}
	}
}
