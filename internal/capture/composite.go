package capture

import (
	"context"
	"image"

	"golang.org/x/image/draw"

	"github.com/traytidy/traytidy/internal/identity"
	"github.com/traytidy/traytidy/internal/logging"
	"github.com/traytidy/traytidy/internal/logging/events"
	"github.com/traytidy/traytidy/internal/screen"
)

// CreateImages captures bitmaps for the given items on the given display.
//
// Compositing every window into one capture is cheaper and visually more
// consistent than capturing each individually, but it is fragile: occlusion
// or a failed composite can silently yield a truncated or fully transparent
// image. So the composite result is validated against the union width, and
// items it cannot serve fall back to individual captures. Items failing both
// phases are absent from the result.
func (c *Cache) CreateImages(ctx context.Context, items []Item, on screen.Display) map[identity.Identity]*image.RGBA {
	out := make(map[identity.Identity]*image.RGBA, len(items))

	type placed struct {
		item   Item
		bounds screen.Rect
	}
	included := make([]placed, 0, len(items))
	excluded := make([]Item, 0)
	for _, it := range items {
		if it.Bounds == nil {
			excluded = append(excluded, it)
			continue
		}
		b, ok := it.Bounds()
		if !ok || b.IsEmpty() {
			excluded = append(excluded, it)
			continue
		}
		included = append(included, placed{item: it, bounds: b})
	}

	if len(included) > 0 {
		var union screen.Rect
		windows := make([]Window, 0, len(included))
		for _, pl := range included {
			union = union.Union(pl.bounds)
			windows = append(windows, pl.item.Window)
		}

		composite, err := c.cfg.Capturer.CaptureComposite(ctx, windows, union, on)
		if !validComposite(composite, err, union, on.Scale) {
			got := 0
			if composite != nil {
				got = composite.Bounds().Dx()
			}
			events.Capture.CompositeInvalid(screen.PixelWidth(union.Width, on.Scale), got)
			for _, pl := range included {
				excluded = append(excluded, pl.item)
			}
		} else {
			for _, pl := range included {
				crop := pixelRect(pl.bounds, union, on.Scale)
				img := cropRGBA(composite, crop)
				if img == nil {
					excluded = append(excluded, pl.item)
					continue
				}
				out[pl.item.Identity] = img
			}
		}
	}

	for _, it := range excluded {
		events.Capture.Fallback(it.Identity.String())
		img, err := c.cfg.Capturer.CaptureWindow(ctx, it.Window, on)
		if err != nil || img == nil || fullyTransparent(img) {
			events.Capture.Drop(it.Identity.String())
			if err != nil {
				logging.Errorf("capture %s: %v", it.Identity, err)
			}
			continue
		}
		if it.Bounds != nil {
			if b, ok := it.Bounds(); ok && !b.IsEmpty() {
				img = scaleTo(img, screen.PixelWidth(b.Width, on.Scale), screen.PixelWidth(b.Height, on.Scale))
			}
		}
		out[it.Identity] = img
	}

	return out
}

// validComposite checks the composite against the two known failure modes:
// a pixel width that does not match the union rectangle at the display's
// backing scale, and a fully transparent result.
func validComposite(img *image.RGBA, err error, union screen.Rect, scale float64) bool {
	if err != nil || img == nil {
		return false
	}
	if img.Bounds().Dx() != screen.PixelWidth(union.Width, scale) {
		return false
	}
	return !fullyTransparent(img)
}

// pixelRect maps an item's bounds to pixel coordinates inside the composite,
// offset from the union origin and scaled by the backing factor.
func pixelRect(bounds, union screen.Rect, scale float64) image.Rectangle {
	x0 := screen.PixelWidth(bounds.X-union.X, scale)
	y0 := screen.PixelWidth(bounds.Y-union.Y, scale)
	return image.Rect(x0, y0, x0+screen.PixelWidth(bounds.Width, scale), y0+screen.PixelWidth(bounds.Height, scale))
}

// cropRGBA copies the given region out of src, or nil when the region does
// not lie fully inside the source.
func cropRGBA(src *image.RGBA, r image.Rectangle) *image.RGBA {
	if src == nil || r.Empty() || !r.In(src.Bounds()) {
		return nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Copy(dst, image.Point{}, src, r, draw.Src, nil)
	return dst
}

// scaleTo resamples img to the given pixel size when it differs.
func scaleTo(img *image.RGBA, w, h int) *image.RGBA {
	if w <= 0 || h <= 0 {
		return img
	}
	if img.Bounds().Dx() == w && img.Bounds().Dy() == h {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// fullyTransparent reports whether every pixel has zero alpha.
func fullyTransparent(img *image.RGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		start := img.PixOffset(b.Min.X, y)
		row := img.Pix[start : start+b.Dx()*4]
		for i := 3; i < len(row); i += 4 {
			if row[i] != 0 {
				return false
			}
		}
	}
	return true
}
