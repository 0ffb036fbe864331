package qa

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"screenforge/internal/schema"
	"screenforge/internal/tester"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// checker alternates two colors per pixel so windows carry real variance.
func checker(w, h int, a, b color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, a)
			} else {
				img.Set(x, y, b)
			}
		}
	}
	return img
}

func TestSSIMIdenticalImages(t *testing.T) {
	data := encodePNG(t, checker(64, 64, color.White, color.Gray{Y: 40}))
	score, err := ssim(data, data)
	tester.NoErr(t, err)
	tester.True(t, score > 0.999, "self-comparison must score 1.0")
}

func TestSSIMDissimilarImages(t *testing.T) {
	a := encodePNG(t, checker(64, 64, color.White, color.Gray{Y: 200}))
	b := encodePNG(t, checker(64, 64, color.Black, color.Gray{Y: 55}))
	score, err := ssim(a, b)
	tester.NoErr(t, err)
	tester.True(t, score < 0.85, "opposite images must score low")
}

func TestSSIMResizesRendered(t *testing.T) {
	a := encodePNG(t, solid(64, 64, color.White))
	b := encodePNG(t, solid(32, 48, color.White))
	score, err := ssim(a, b)
	tester.NoErr(t, err)
	tester.True(t, score > 0.99)
}

func TestSSIMTinyImageUsesGlobalWindow(t *testing.T) {
	a := encodePNG(t, solid(4, 4, color.White))
	score, err := ssim(a, a)
	tester.NoErr(t, err)
	tester.True(t, score > 0.999)
}

func TestSSIMDecodeError(t *testing.T) {
	_, err := ssim([]byte("not an image"), []byte("also not"))
	tester.Err(t, err)
}

func TestQuickVerifyVerdicts(t *testing.T) {
	light := encodePNG(t, checker(64, 64, color.White, color.Gray{Y: 220}))
	dark := encodePNG(t, checker(64, 64, color.Black, color.Gray{Y: 30}))

	same, err := New(nil).QuickVerify(light, light)
	tester.NoErr(t, err)
	tester.Eq(t, same.Verdict, schema.VerdictPass)
	tester.True(t, same.Issues != nil, "issues slice must be non-nil for JSON stability")

	diff, err := New(nil).QuickVerify(light, dark)
	tester.NoErr(t, err)
	tester.Eq(t, diff.Verdict, schema.VerdictMajorIssues)
}
