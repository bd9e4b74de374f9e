package events

import "github.com/traytidy/traytidy/internal/logging"

type CaptureTracer struct{}

type captureSkipReason string

const (
	CaptureSkipPermission   captureSkipReason = "permission"
	CaptureSkipNotPresented captureSkipReason = "not-presented"
	CaptureSkipRecentMove   captureSkipReason = "recent-move"
)

var Capture = CaptureTracer{}

func (CaptureTracer) Begin(sections []string) {
	logging.Trace("capture.begin", map[string]interface{}{"sections": sections})
}

func (CaptureTracer) Skip(reason captureSkipReason) {
	logging.Trace("capture.skip", map[string]interface{}{"reason": string(reason)})
}

func (CaptureTracer) CompositeInvalid(want, got int) {
	logging.Trace("capture.composite.invalid", map[string]interface{}{"wantWidth": want, "gotWidth": got})
}

func (CaptureTracer) Fallback(item string) {
	logging.Trace("capture.fallback", map[string]interface{}{"item": item})
}

func (CaptureTracer) Drop(item string) {
	logging.Trace("capture.drop", map[string]interface{}{"item": item})
}

func (CaptureTracer) Merge(count int) {
	logging.Trace("capture.merge", map[string]interface{}{"count": count})
}
