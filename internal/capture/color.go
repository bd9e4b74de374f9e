package capture

import "image"

// AverageColor returns the mean color of the bitmap's opaque pixels.
func AverageColor(img *image.RGBA) (uint8, uint8, uint8) {
	b := img.Bounds()
	if b.Empty() {
		return 0, 0, 0
	}
	var rSum, gSum, bSum, n uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i+3 < len(row); i += 4 {
			if row[i+3] == 0 {
				continue
			}
			rSum += uint64(row[i])
			gSum += uint64(row[i+1])
			bSum += uint64(row[i+2])
			n++
		}
	}
	if n == 0 {
		return 0, 0, 0
	}
	return uint8(rSum / n), uint8(gSum / n), uint8(bSum / n)
}
