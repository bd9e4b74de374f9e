package discovery

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/traytidy/traytidy/internal/bus"
)

const (
	watcherName      = "org.kde.StatusNotifierWatcher"
	watcherPath      = dbus.ObjectPath("/StatusNotifierWatcher")
	watcherItemsProp = "org.kde.StatusNotifierWatcher.RegisteredStatusNotifierItems"

	itemPath      = dbus.ObjectPath("/StatusNotifierItem")
	itemInterface = "org.kde.StatusNotifierItem"
	getProperty   = "org.freedesktop.DBus.Properties.Get"
)

// BusLister enumerates StatusNotifier items registered on the session bus.
type BusLister struct {
	conn *dbus.Conn
}

// NewBusLister connects to the session bus, or to the given address when one
// is supplied.
func NewBusLister(address string) (*BusLister, error) {
	conn, err := bus.Connect(address)
	if err != nil {
		return nil, err
	}
	return &BusLister{conn: conn}, nil
}

// Close releases the bus connection.
func (l *BusLister) Close() error {
	return l.conn.Close()
}

// ListItems queries the watcher's registered items and resolves each item's
// title and window id. Items whose properties cannot be read are returned
// with zero values rather than dropped; identity still anchors on the
// service name.
func (l *BusLister) ListItems(ctx context.Context) ([]RemoteItem, error) {
	var registered []string
	err := l.conn.Object(watcherName, watcherPath).
		CallWithContext(ctx, getProperty, 0, watcherName, "RegisteredStatusNotifierItems").
		Store(&registered)
	if err != nil {
		// Older watchers expose the property under its canonical name only.
		err = l.conn.Object(watcherName, watcherPath).
			CallWithContext(ctx, getProperty, 0, watcherItemsProp, "").
			Store(&registered)
		if err != nil {
			return nil, fmt.Errorf("registered items: %w", err)
		}
	}

	out := make([]RemoteItem, 0, len(registered))
	for _, service := range registered {
		item := RemoteItem{Service: service}
		obj := l.conn.Object(service, itemPath)
		var title dbus.Variant
		if err := obj.CallWithContext(ctx, getProperty, 0, itemInterface, "Title").Store(&title); err == nil {
			if s, ok := title.Value().(string); ok {
				item.Title = s
			}
		}
		var window dbus.Variant
		if err := obj.CallWithContext(ctx, getProperty, 0, itemInterface, "WindowId").Store(&window); err == nil {
			switch v := window.Value().(type) {
			case int32:
				item.Window = uint64(v)
			case uint32:
				item.Window = uint64(v)
			}
		}
		out = append(out, item)
	}
	return out, nil
}
