package images

import (
	"bytes"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// EncodePNG encodes an image to PNG bytes. Errors are ignored and may return an empty slice.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	_ = enc.Encode(&buf, img)
	return buf.Bytes()
}

// FitRatio returns the factor that scales a w x h image to fit inside
// maxW x maxH while preserving aspect ratio. It never enlarges: images that
// already fit get 1.
func FitRatio(w, h, maxW, maxH int) float64 {
	if w <= 0 || h <= 0 {
		return 1
	}
	if maxW < 1 {
		maxW = 1
	}
	if maxH < 1 {
		maxH = 1
	}
	if w <= maxW && h <= maxH {
		return 1
	}
	ratio := float64(maxW) / float64(w)
	if r := float64(maxH) / float64(h); r < ratio {
		ratio = r
	}
	return ratio
}

// ScaleToFit scales src to fit within maxW x maxH preserving aspect ratio and
// reports the ratio used. If the source already fits, the original is returned.
func ScaleToFit(src image.Image, maxW, maxH int) (image.Image, float64) {
	if src == nil {
		return nil, 1
	}
	b := src.Bounds()
	ratio := FitRatio(b.Dx(), b.Dy(), maxW, maxH)
	if ratio == 1 {
		return src, 1
	}
	newW := max(int(float64(b.Dx())*ratio+0.5), 1)
	newH := max(int(float64(b.Dy())*ratio+0.5), 1)
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst, ratio
}
