// Package portal implements the capture backend over the desktop portal's
// screenshot service: one full-screen grab per request, cropped to the
// bounds of interest at the display's backing scale.
package portal

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"math/rand"
	"net/url"
	"os"
	"strings"

	"github.com/godbus/dbus/v5"
	xdraw "golang.org/x/image/draw"

	"github.com/traytidy/traytidy/internal/bus"
	"github.com/traytidy/traytidy/internal/capture"
	"github.com/traytidy/traytidy/internal/screen"
)

const (
	portalName      = "org.freedesktop.portal.Desktop"
	portalPath      = dbus.ObjectPath("/org/freedesktop/portal/desktop")
	screenshotCall  = "org.freedesktop.portal.Screenshot.Screenshot"
	requestIface    = "org.freedesktop.portal.Request"
	responseSignal  = requestIface + ".Response"
	responseSuccess = uint32(0)
)

// BoundsFunc resolves a window's current strip bounds in points. Absent when
// the window is gone.
type BoundsFunc func(ctx context.Context, window capture.Window) (screen.Rect, bool)

// Capturer implements capture.Capturer over the portal screenshot service.
type Capturer struct {
	conn   *dbus.Conn
	bounds BoundsFunc
}

// New connects to the session bus. The bounds resolver backs CaptureWindow,
// which has no caller-supplied geometry.
func New(address string, bounds BoundsFunc) (*Capturer, error) {
	conn, err := bus.Connect(address)
	if err != nil {
		return nil, err
	}
	return &Capturer{conn: conn, bounds: bounds}, nil
}

// Close releases the bus connection.
func (c *Capturer) Close() error {
	return c.conn.Close()
}

// CaptureComposite grabs the screen once and crops it to the union bounds at
// the display's backing scale.
func (c *Capturer) CaptureComposite(ctx context.Context, windows []capture.Window, bounds screen.Rect, on screen.Display) (*image.RGBA, error) {
	if bounds.IsEmpty() {
		return nil, fmt.Errorf("composite capture: empty bounds")
	}
	full, err := c.screenshot(ctx)
	if err != nil {
		return nil, err
	}
	return cropToDisplay(full, bounds, on)
}

// CaptureWindow resolves the window's bounds through the helper and crops a
// fresh grab to them.
func (c *Capturer) CaptureWindow(ctx context.Context, window capture.Window, on screen.Display) (*image.RGBA, error) {
	if c.bounds == nil {
		return nil, fmt.Errorf("window capture: no bounds resolver")
	}
	rect, ok := c.bounds(ctx, window)
	if !ok {
		return nil, fmt.Errorf("window capture: bounds for window %d unavailable", window)
	}
	if rect.IsEmpty() {
		return nil, fmt.Errorf("window capture: window %d has empty bounds", window)
	}
	full, err := c.screenshot(ctx)
	if err != nil {
		return nil, err
	}
	return cropToDisplay(full, rect, on)
}

// screenshot performs one non-interactive portal screenshot round trip and
// decodes the resulting file. The file is removed after decoding.
func (c *Capturer) screenshot(ctx context.Context) (*image.RGBA, error) {
	token := fmt.Sprintf("traytidy%d", rand.Int63())
	opts := map[string]dbus.Variant{
		"handle_token": dbus.MakeVariant(token),
		"interactive":  dbus.MakeVariant(false),
	}

	signals := make(chan *dbus.Signal, 8)
	c.conn.Signal(signals)
	defer c.conn.RemoveSignal(signals)

	requestPath := expectedRequestPath(c.conn.Names()[0], token)
	if err := c.conn.AddMatchSignal(
		dbus.WithMatchInterface(requestIface),
		dbus.WithMatchObjectPath(requestPath),
	); err != nil {
		return nil, fmt.Errorf("screenshot: match response: %w", err)
	}
	defer c.conn.RemoveMatchSignal(
		dbus.WithMatchInterface(requestIface),
		dbus.WithMatchObjectPath(requestPath),
	)

	var handle dbus.ObjectPath
	err := c.conn.Object(portalName, portalPath).
		CallWithContext(ctx, screenshotCall, 0, "", opts).
		Store(&handle)
	if err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case sig, ok := <-signals:
			if !ok {
				return nil, fmt.Errorf("screenshot: signal stream closed")
			}
			if sig.Name != responseSignal || (sig.Path != handle && sig.Path != requestPath) {
				continue
			}
			return decodeResponse(sig)
		}
	}
}

// expectedRequestPath predicts the request object path the portal will use,
// so the signal match can be registered before the call races the response.
func expectedRequestPath(sender, token string) dbus.ObjectPath {
	trimmed := strings.ReplaceAll(strings.TrimPrefix(sender, ":"), ".", "_")
	return dbus.ObjectPath("/org/freedesktop/portal/desktop/request/" + trimmed + "/" + token)
}

func decodeResponse(sig *dbus.Signal) (*image.RGBA, error) {
	if len(sig.Body) < 2 {
		return nil, fmt.Errorf("screenshot: malformed response")
	}
	code, _ := sig.Body[0].(uint32)
	if code != responseSuccess {
		return nil, fmt.Errorf("screenshot: portal refused (code %d)", code)
	}
	results, _ := sig.Body[1].(map[string]dbus.Variant)
	uriVar, ok := results["uri"]
	if !ok {
		return nil, fmt.Errorf("screenshot: response carries no uri")
	}
	uri, _ := uriVar.Value().(string)
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme != "file" {
		return nil, fmt.Errorf("screenshot: unusable uri %q", uri)
	}

	f, err := os.Open(parsed.Path)
	if err != nil {
		return nil, fmt.Errorf("screenshot: open %s: %w", parsed.Path, err)
	}
	defer f.Close()
	defer os.Remove(parsed.Path)

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("screenshot: decode: %w", err)
	}
	return toRGBA(img), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(img.Bounds())
	xdraw.Copy(out, img.Bounds().Min, img, img.Bounds(), xdraw.Src, nil)
	return out
}

// cropToDisplay cuts the region described by rect (in display points) out of
// a full-screen grab, producing a pixel-resolution image at the display's
// backing scale.
func cropToDisplay(full *image.RGBA, rect screen.Rect, on screen.Display) (*image.RGBA, error) {
	scale := on.Scale
	if scale <= 0 {
		scale = 1
	}
	px := image.Rect(
		screen.PixelWidth(rect.X-on.Bounds.X, scale),
		screen.PixelWidth(rect.Y-on.Bounds.Y, scale),
		screen.PixelWidth(rect.MaxX()-on.Bounds.X, scale),
		screen.PixelWidth(rect.MaxY()-on.Bounds.Y, scale),
	)
	px = px.Intersect(full.Bounds())
	if px.Empty() {
		return nil, fmt.Errorf("crop: bounds %+v outside grab %v", rect, full.Bounds())
	}
	out := image.NewRGBA(image.Rect(0, 0, px.Dx(), px.Dy()))
	xdraw.Copy(out, image.Point{}, full, px, xdraw.Src, nil)
	return out, nil
}
