package strip

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"
)

func makePhoto(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func testComposer(t *testing.T) *Composer {
	t.Helper()
	// Nonexistent font path exercises the silent basicfont fallback
	return NewComposer(50, 20, 40, "no/such/font.ttf")
}

func TestAddFrame_Dimensions(t *testing.T) {
	img := makePhoto(100, 80, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	framed := AddFrame(img, 50)

	if framed.Bounds().Dx() != 200 {
		t.Errorf("expected width 200, got %d", framed.Bounds().Dx())
	}
	if framed.Bounds().Dy() != 180 {
		t.Errorf("expected height 180, got %d", framed.Bounds().Dy())
	}
}

func TestAddFrame_BorderIsWhiteAndContentPreserved(t *testing.T) {
	inner := color.NRGBA{R: 10, G: 20, B: 30, A: 255}
	img := makePhoto(10, 10, inner)

	framed := AddFrame(img, 5)

	if got := framed.NRGBAAt(0, 0); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("expected white border, got %v", got)
	}
	if got := framed.NRGBAAt(7, 7); got != inner {
		t.Errorf("expected inner pixel preserved, got %v", got)
	}
}

func TestCompose_EmptyReturnsError(t *testing.T) {
	c := testComposer(t)

	out, err := c.Compose(nil, time.Now())
	if !errors.Is(err, ErrNoPhotos) {
		t.Fatalf("expected ErrNoPhotos, got %v", err)
	}
	if out != nil {
		t.Error("expected nil strip for empty input")
	}
}

func TestCompose_SinglePhotoHeight(t *testing.T) {
	c := testComposer(t)
	photo := makePhoto(100, 100, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	out, err := c.Compose([]image.Image{photo}, time.Now())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if out.Bounds().Dx() != 100 {
		t.Errorf("expected width 100, got %d", out.Bounds().Dx())
	}
	// One photo: height + caption band, no padding
	if out.Bounds().Dy() != 140 {
		t.Errorf("expected height 140, got %d", out.Bounds().Dy())
	}
}

func TestCompose_ThreePhotosGeometry(t *testing.T) {
	c := testComposer(t)
	photos := []image.Image{
		makePhoto(100, 100, color.NRGBA{R: 200, G: 0, B: 0, A: 255}),
		makePhoto(100, 100, color.NRGBA{R: 0, G: 200, B: 0, A: 255}),
		makePhoto(100, 100, color.NRGBA{R: 0, G: 0, B: 200, A: 255}),
	}

	out, err := c.Compose(photos, time.Now())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	// 3*100 + 2*20 padding + 40 caption = 380
	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 380 {
		t.Fatalf("expected 100x380, got %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
	}

	// Photos land at y = i*(h+padding)
	if got := out.NRGBAAt(50, 0); got.R != 200 {
		t.Errorf("expected first photo at y=0, got %v", got)
	}
	if got := out.NRGBAAt(50, 120); got.G != 200 {
		t.Errorf("expected second photo at y=120, got %v", got)
	}
	if got := out.NRGBAAt(50, 240); got.B != 200 {
		t.Errorf("expected third photo at y=240, got %v", got)
	}

	// Padding rows stay white
	if got := out.NRGBAAt(50, 110); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("expected white padding at y=110, got %v", got)
	}
}

func TestCompose_DimensionMismatch(t *testing.T) {
	c := testComposer(t)
	photos := []image.Image{
		makePhoto(100, 100, color.NRGBA{A: 255}),
		makePhoto(50, 50, color.NRGBA{A: 255}),
	}

	_, err := c.Compose(photos, time.Now())
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestCompose_CaptionRendered(t *testing.T) {
	c := testComposer(t)
	photo := makePhoto(200, 100, color.NRGBA{R: 50, G: 50, B: 50, A: 255})

	out, err := c.Compose([]image.Image{photo}, time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	// At least one caption-band pixel takes the caption color
	found := false
	for y := 100; y < 140 && !found; y++ {
		for x := 0; x < 200; x++ {
			if out.NRGBAAt(x, y) == captionColor {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("expected caption text pixels in the caption band")
	}
}
