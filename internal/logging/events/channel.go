package events

import "github.com/traytidy/traytidy/internal/logging"

type ChannelTracer struct{}

var Channel = ChannelTracer{}

func (ChannelTracer) Connect(destination string) {
	logging.Trace("channel.connect", map[string]interface{}{"destination": destination})
}

func (ChannelTracer) Send(kind string) {
	logging.Trace("channel.send", map[string]interface{}{"kind": kind})
}

func (ChannelTracer) Mismatch(sent, received string) {
	logging.Trace("channel.mismatch", map[string]interface{}{"sent": sent, "received": received})
}

func (ChannelTracer) Invalidate() {
	logging.Trace("channel.invalidate", nil)
}
