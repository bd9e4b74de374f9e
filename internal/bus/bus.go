// Package bus centralizes session-bus connection setup so the address
// override applies uniformly to every bus-backed collaborator.
package bus

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Connect opens a session-bus connection. An empty address uses the
// environment's session bus; otherwise the address is dialed directly.
func Connect(address string) (*dbus.Conn, error) {
	if address == "" {
		conn, err := dbus.ConnectSessionBus()
		if err != nil {
			return nil, fmt.Errorf("session bus: %w", err)
		}
		return conn, nil
	}
	conn, err := dbus.Connect(address)
	if err != nil {
		return nil, fmt.Errorf("bus %s: %w", address, err)
	}
	return conn, nil
}
