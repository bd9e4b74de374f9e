package app

import (
	"sync"

	"github.com/traytidy/traytidy/internal/bus"
	"github.com/traytidy/traytidy/internal/logging"
)

const helperBusName = "org.traytidy.CaptureHelper"

// helperPermission reports whether capture is possible by probing for the
// privileged helper on the bus. The probe runs once; the helper either ships
// with the install or it doesn't.
type helperPermission struct {
	address string

	once    sync.Once
	allowed bool
}

func newHelperPermission(address string) *helperPermission {
	return &helperPermission{address: address}
}

func (p *helperPermission) ScreenCaptureAllowed() bool {
	p.once.Do(p.probe)
	return p.allowed
}

func (p *helperPermission) probe() {
	conn, err := bus.Connect(p.address)
	if err != nil {
		logging.Errorf("capture permission probe: %v", err)
		return
	}
	defer conn.Close()

	var owned bool
	err = conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, helperBusName).Store(&owned)
	if err != nil {
		logging.Errorf("capture permission probe: %v", err)
		return
	}
	p.allowed = owned
}
