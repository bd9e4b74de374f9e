package events

import "github.com/traytidy/traytidy/internal/logging"

type WatcherTracer struct{}

var Watcher = WatcherTracer{}

func (WatcherTracer) Trigger(reason string) {
	logging.Trace("watcher.trigger", map[string]interface{}{"reason": reason})
}

func (WatcherTracer) Refresh(reason string) {
	logging.Trace("watcher.refresh", map[string]interface{}{"reason": reason})
}

func (WatcherTracer) Gate(reason string) {
	logging.Trace("watcher.gate", map[string]interface{}{"reason": reason})
}
