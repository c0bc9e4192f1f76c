package strip

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"os"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	// ErrNoPhotos is returned when a strip is requested for an empty shoot.
	ErrNoPhotos = errors.New("no photos to compose")
	// ErrDimensionMismatch is returned when the photos of a shoot do not
	// share identical width and height.
	ErrDimensionMismatch = errors.New("photos have mismatched dimensions")
)

var captionColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}

const captionFontSize = 20

// Composer frames photos and lays them out into a photo strip.
type Composer struct {
	FrameWidth    int
	Padding       int
	CaptionHeight int
	face          font.Face
}

// NewComposer loads the caption typeface from fontPath. A missing or
// unparseable font silently falls back to the built-in face.
func NewComposer(frameWidth, padding, captionHeight int, fontPath string) *Composer {
	return &Composer{
		FrameWidth:    frameWidth,
		Padding:       padding,
		CaptionHeight: captionHeight,
		face:          loadFace(fontPath),
	}
}

func loadFace(path string) font.Face {
	data, err := os.ReadFile(path)
	if err != nil {
		return basicfont.Face7x13
	}
	ft, err := opentype.Parse(data)
	if err != nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    captionFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

// AddFrame pads img on all four sides with a white border of the given
// pixel width. The result is exactly (w+2*width) x (h+2*width).
func AddFrame(img image.Image, width int) *image.NRGBA {
	b := img.Bounds()
	framed := image.NewNRGBA(image.Rect(0, 0, b.Dx()+2*width, b.Dy()+2*width))
	draw.Draw(framed, framed.Bounds(), image.White, image.Point{}, draw.Src)
	inner := image.Rect(width, width, width+b.Dx(), width+b.Dy())
	draw.Draw(framed, inner, img, b.Min, draw.Src)
	return framed
}

// Compose stacks the photos vertically in input order with Padding pixels
// between consecutive photos and renders the date centered in a caption
// band at the bottom. All photos must share identical dimensions.
func (c *Composer) Compose(photos []image.Image, takenAt time.Time) (*image.NRGBA, error) {
	if len(photos) == 0 {
		return nil, ErrNoPhotos
	}

	w := photos[0].Bounds().Dx()
	h := photos[0].Bounds().Dy()
	for _, p := range photos[1:] {
		if p.Bounds().Dx() != w || p.Bounds().Dy() != h {
			return nil, ErrDimensionMismatch
		}
	}

	stripHeight := h*len(photos) + c.Padding*(len(photos)-1) + c.CaptionHeight
	canvas := image.NewNRGBA(image.Rect(0, 0, w, stripHeight))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	for i, p := range photos {
		yStart := i * (h + c.Padding)
		dst := image.Rect(0, yStart, w, yStart+h)
		draw.Draw(canvas, dst, p, p.Bounds().Min, draw.Src)
	}

	c.drawCaption(canvas, takenAt.Format("January 02, 2006"), w, stripHeight)
	return canvas, nil
}

// drawCaption centers the date text in the caption band.
func (c *Composer) drawCaption(canvas *image.NRGBA, text string, width, stripHeight int) {
	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(captionColor),
		Face: c.face,
	}

	textWidth := d.MeasureString(text).Round()
	x := (width - textWidth) / 2
	if x < 0 {
		x = 0
	}
	// Baseline sits below the 10px inset from the band top
	y := stripHeight - c.CaptionHeight + 10 + c.face.Metrics().Ascent.Round()

	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}
