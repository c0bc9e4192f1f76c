package filters

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Name identifies one of the built-in photo filters.
type Name string

const (
	Original Name = "Original"
	Sepia    Name = "Sepia"
	Vintage  Name = "Vintage"
	Cool     Name = "Cool"
	Summer   Name = "Summer"
	Dramatic Name = "Dramatic"
)

// Names returns the selectable filters in UI order.
func Names() []Name {
	return []Name{Original, Sepia, Vintage, Cool, Summer, Dramatic}
}

// Apply runs the named filter over img and returns a new image of the same
// dimensions. Grayscale input is promoted to color by the NRGBA conversion.
// Unknown names behave like Original.
func Apply(img image.Image, name Name) *image.NRGBA {
	switch name {
	case Sepia:
		return sepia(img)
	case Vintage:
		return colormap(img, boneRamp)
	case Cool:
		return colormap(img, coolRamp)
	case Summer:
		// Mild gamma darken, then a sigmoid contrast push
		out := imaging.AdjustGamma(img, 1/1.2)
		return imaging.AdjustSigmoid(out, 0.5, 10.0)
	case Dramatic:
		// Strong gamma darken with unsharp-style sharpening on top
		out := imaging.AdjustGamma(img, 0.5)
		return imaging.Sharpen(out, 2.0)
	default:
		return imaging.Clone(img)
	}
}

// Grayscale converts img to black and white, keeping three channels.
func Grayscale(img image.Image) *image.NRGBA {
	return imaging.Grayscale(img)
}

// sepia multiplies each pixel's RGB vector by the classic sepia mixing
// matrix and clamps the result to [0,255].
func sepia(img image.Image) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		r := float64(c.R)
		g := float64(c.G)
		b := float64(c.B)
		return color.NRGBA{
			R: clamp(0.393*r + 0.769*g + 0.189*b),
			G: clamp(0.349*r + 0.686*g + 0.168*b),
			B: clamp(0.272*r + 0.534*g + 0.131*b),
			A: c.A,
		}
	})
}

// colormap replaces each pixel by ramp(t) where t is the pixel luminance.
func colormap(img image.Image, ramp func(t float64) color.NRGBA) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		t := (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255.0
		out := ramp(t)
		out.A = c.A
		return out
	})
}

// boneRamp is a grayscale ramp with a cold blue-grey cast, the "vintage" look.
func boneRamp(t float64) color.NRGBA {
	var r, g, b float64
	switch {
	case t < 0.375:
		r = 0.8594 * t
		g = 0.8594 * t
		b = 1.1406 * t
	case t < 0.75:
		r = 0.8594 * t
		g = 1.1406*t - 0.1055
		b = 0.8594*t + 0.1055
	default:
		r = 1.5625*t - 0.5273
		g = 0.8594*t + 0.1055
		b = 0.8594*t + 0.1055
	}
	return color.NRGBA{R: clamp(r * 255), G: clamp(g * 255), B: clamp(b * 255), A: 255}
}

// coolRamp maps luminance t to (t, 1-t, 1): cyan shadows into magenta highlights.
func coolRamp(t float64) color.NRGBA {
	return color.NRGBA{R: clamp(t * 255), G: clamp((1 - t) * 255), B: 255, A: 255}
}

func clamp(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
