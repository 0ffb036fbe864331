package qa

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ssim computes the mean structural similarity between two byte-encoded
// images. The rendered image is resized (nearest neighbor) to the original's
// dimensions when shapes differ; comparison runs on grayscale planes with
// the standard 8x8 window and K1=0.01, K2=0.03 constants.
func ssim(original, rendered []byte) (float64, error) {
	a, err := decodeGray(original)
	if err != nil {
		return 0, fmt.Errorf("qa: decode original: %w", err)
	}
	b, err := decodeGray(rendered)
	if err != nil {
		return 0, fmt.Errorf("qa: decode rendered: %w", err)
	}
	if b.w != a.w || b.h != a.h {
		b = b.resize(a.w, a.h)
	}
	return meanSSIM(a, b), nil
}

type grayPlane struct {
	pix  []float64
	w, h int
}

func decodeGray(data []byte) (grayPlane, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return grayPlane{}, err
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return grayPlane{}, fmt.Errorf("empty image")
	}
	p := grayPlane{pix: make([]float64, w*h), w: w, h: h}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// 16-bit channels scaled to 0-255.
			p.pix[y*w+x] = (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 257.0
		}
	}
	return p, nil
}

func (p grayPlane) resize(w, h int) grayPlane {
	out := grayPlane{pix: make([]float64, w*h), w: w, h: h}
	for y := 0; y < h; y++ {
		sy := y * p.h / h
		for x := 0; x < w; x++ {
			sx := x * p.w / w
			out.pix[y*w+x] = p.pix[sy*p.w+sx]
		}
	}
	return out
}

const (
	ssimWindow = 8
	ssimC1     = (0.01 * 255) * (0.01 * 255)
	ssimC2     = (0.03 * 255) * (0.03 * 255)
)

func meanSSIM(a, b grayPlane) float64 {
	var sum float64
	var n int
	for y := 0; y+ssimWindow <= a.h; y += ssimWindow {
		for x := 0; x+ssimWindow <= a.w; x += ssimWindow {
			sum += windowSSIM(a, b, x, y)
			n++
		}
	}
	if n == 0 {
		// Image smaller than one window: single global comparison.
		return globalSSIM(a, b)
	}
	return sum / float64(n)
}

func windowSSIM(a, b grayPlane, ox, oy int) float64 {
	var muA, muB float64
	const np = ssimWindow * ssimWindow
	for y := 0; y < ssimWindow; y++ {
		for x := 0; x < ssimWindow; x++ {
			muA += a.pix[(oy+y)*a.w+ox+x]
			muB += b.pix[(oy+y)*b.w+ox+x]
		}
	}
	muA /= np
	muB /= np

	var varA, varB, cov float64
	for y := 0; y < ssimWindow; y++ {
		for x := 0; x < ssimWindow; x++ {
			da := a.pix[(oy+y)*a.w+ox+x] - muA
			db := b.pix[(oy+y)*b.w+ox+x] - muB
			varA += da * da
			varB += db * db
			cov += da * db
		}
	}
	varA /= np - 1
	varB /= np - 1
	cov /= np - 1

	return ((2*muA*muB + ssimC1) * (2*cov + ssimC2)) /
		((muA*muA + muB*muB + ssimC1) * (varA + varB + ssimC2))
}

func globalSSIM(a, b grayPlane) float64 {
	n := float64(len(a.pix))
	var muA, muB float64
	for i := range a.pix {
		muA += a.pix[i]
		muB += b.pix[i]
	}
	muA /= n
	muB /= n
	var varA, varB, cov float64
	for i := range a.pix {
		da := a.pix[i] - muA
		db := b.pix[i] - muB
		varA += da * da
		varB += db * db
		cov += da * db
	}
	if n > 1 {
		varA /= n - 1
		varB /= n - 1
		cov /= n - 1
	}
	return ((2*muA*muB + ssimC1) * (2*cov + ssimC2)) /
		((muA*muA + muB*muB + ssimC1) * (varA + varB + ssimC2))
}
