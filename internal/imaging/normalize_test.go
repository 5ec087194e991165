package imaging

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

func whitePage(w, h int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = 255
	}
	return g
}

func TestNormalizeBlankPage(t *testing.T) {
	src := whitePage(40, 40)
	out := Normalize(src)

	// No ink region: the crop is skipped and the full frame survives.
	if out.Bounds().Dx() != 40 || out.Bounds().Dy() != 40 {
		t.Fatalf("blank page must keep its full frame, got %v", out.Bounds())
	}
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if out.GrayAt(x, y).Y != 255 {
				t.Fatalf("blank page should normalize to pure white, pixel (%d,%d)=%d", x, y, out.GrayAt(x, y).Y)
			}
		}
	}
}

func TestNormalizeCropsToLargestInkRegion(t *testing.T) {
	src := whitePage(100, 100)
	// one small speck and one larger block of ink
	src.SetGray(5, 5, color.Gray{Y: 0})
	for y := 40; y < 60; y++ {
		for x := 30; x < 70; x++ {
			src.SetGray(x, y, color.Gray{Y: 50})
		}
	}

	out := Normalize(src)
	if out.Bounds().Dx() != 40 || out.Bounds().Dy() != 20 {
		t.Fatalf("expected crop to the 40x20 block, got %v", out.Bounds())
	}
}

func TestNormalizeBinaryOutput(t *testing.T) {
	src := whitePage(60, 60)
	for y := 10; y < 50; y++ {
		for x := 10; x < 50; x += 3 {
			src.SetGray(x, y, color.Gray{Y: 30})
		}
	}

	out := Normalize(src)
	for y := out.Bounds().Min.Y; y < out.Bounds().Max.Y; y++ {
		for x := out.Bounds().Min.X; x < out.Bounds().Max.X; x++ {
			v := out.GrayAt(x, y).Y
			if v != 0 && v != 255 {
				t.Fatalf("output must be binary, pixel (%d,%d)=%d", x, y, v)
			}
		}
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	src := whitePage(50, 50)
	for y := 15; y < 35; y++ {
		src.SetGray(25, y, color.Gray{Y: 0})
	}

	a := Normalize(src)
	b := Normalize(src)
	if a.Bounds() != b.Bounds() {
		t.Fatalf("bounds differ: %v vs %v", a.Bounds(), b.Bounds())
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("pixel %d differs between runs", i)
		}
	}
}

func TestEncodePNGDataURL(t *testing.T) {
	url, err := EncodePNGDataURL(whitePage(4, 4))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Fatalf("unexpected data URL prefix: %q", url)
	}
}
