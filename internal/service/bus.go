package service

import (
	"context"
	"fmt"
	"os"

	"github.com/godbus/dbus/v5"

	"github.com/traytidy/traytidy/internal/bus"
	"github.com/traytidy/traytidy/internal/logging/events"
)

const (
	helperName      = "org.traytidy.CaptureHelper"
	helperPath      = dbus.ObjectPath("/org/traytidy/CaptureHelper")
	helperInterface = "org.traytidy.CaptureHelper1"

	requestMethod = helperInterface + ".Request"
)

// busSession is the production session: a private session-bus connection to
// the helper with a peer-identity requirement restricting it to services
// running as the same user.
type busSession struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// dialBus connects to the session bus, verifies the helper's identity, and
// returns a live session.
func dialBus() (session, error) {
	return dialBusAt("")
}

func dialBusAt(address string) (session, error) {
	conn, err := bus.Connect(address)
	if err != nil {
		return nil, err
	}
	if err := verifyPeer(conn); err != nil {
		conn.Close()
		return nil, err
	}
	events.Channel.Connect(helperName)
	return &busSession{conn: conn, obj: conn.Object(helperName, helperPath)}, nil
}

// verifyPeer ensures the helper service runs under our own uid before any
// request is sent.
func verifyPeer(conn *dbus.Conn) error {
	var uid uint32
	err := conn.BusObject().Call("org.freedesktop.DBus.GetConnectionUnixUser", 0, helperName).Store(&uid)
	if err != nil {
		return fmt.Errorf("resolve helper owner: %w", err)
	}
	if int(uid) != os.Getuid() {
		return fmt.Errorf("helper owned by uid %d, want %d", uid, os.Getuid())
	}
	return nil
}

func (s *busSession) call(ctx context.Context, kind Kind, window uint64) (Kind, int64, error) {
	var respKind string
	var value int64
	call := s.obj.CallWithContext(ctx, requestMethod, 0, string(kind), window)
	if call.Err != nil {
		return "", 0, call.Err
	}
	if err := call.Store(&respKind, &value); err != nil {
		return "", 0, fmt.Errorf("decode response: %w", err)
	}
	return Kind(respKind), value, nil
}

func (s *busSession) close() {
	if s.conn != nil {
		s.conn.Close()
	}
}
