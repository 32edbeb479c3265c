package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// labelLineHeight is the pixel height of a label drawn at scale 1.0.
const labelLineHeight = 22.0

// Canvas is a drawing surface over a private copy of an image.
//
// The base image passed to NewCanvas is never modified; all drawing happens
// on the copy returned by Image.
type Canvas struct {
	img *image.NRGBA
}

// NewCanvas copies base onto a new canvas.
func NewCanvas(base image.Image) *Canvas {
	return &Canvas{img: imaging.Clone(base)}
}

// Image returns the canvas pixels.
func (c *Canvas) Image() *image.NRGBA {
	return c.img
}

// Circle draws a circle outline centred on center.
//
// The stroke is thickness pixels wide and straddles the nominal radius, so a
// pixel at distance d from the center is painted when |d - radius| <= thickness/2.
// Thickness below 1 is drawn as 1. Pixels outside the canvas are clipped.
func (c *Canvas) Circle(center image.Point, radius, thickness int, col color.Color) {
	if radius <= 0 {
		return
	}
	if thickness < 1 {
		thickness = 1
	}
	fill := color.NRGBAModel.Convert(col).(color.NRGBA)
	half := float64(thickness) / 2
	reach := radius + thickness/2 + 1

	area := image.Rect(center.X-reach, center.Y-reach, center.X+reach+1, center.Y+reach+1).
		Intersect(c.img.Bounds())

	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			dx := float64(x - center.X)
			dy := float64(y - center.Y)
			if math.Abs(math.Hypot(dx, dy)-float64(radius)) <= half {
				c.img.SetNRGBA(x, y, fill)
			}
		}
	}
}

// Text draws a single line of text with its baseline starting at origin.
//
// Glyphs come from the 7x13 bitmap face and are scaled so that a scale of 1.0
// yields a line roughly labelLineHeight pixels tall. Thickness is the stroke
// weight in output pixels; it is emulated by overprinting the glyphs with
// small offsets before scaling.
func (c *Canvas) Text(origin image.Point, text string, col color.Color, scale float64, thickness int) {
	if text == "" || scale <= 0 {
		return
	}

	face := basicfont.Face7x13
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	height := metrics.Height.Ceil()
	factor := scale * labelLineHeight / float64(height)

	bold := int(math.Round(float64(thickness) / factor))
	if bold < 1 {
		bold = 1
	}

	d := &font.Drawer{Face: face, Src: image.NewUniform(col)}
	width := d.MeasureString(text).Ceil()

	glyphs := image.NewNRGBA(image.Rect(0, 0, width+bold-1, height+bold-1))
	d.Dst = glyphs
	for oy := 0; oy < bold; oy++ {
		for ox := 0; ox < bold; ox++ {
			d.Dot = fixed.P(ox, ascent+oy)
			d.DrawString(text)
		}
	}

	w := int(math.Round(float64(glyphs.Bounds().Dx()) * factor))
	h := int(math.Round(float64(glyphs.Bounds().Dy()) * factor))
	if w < 1 || h < 1 {
		return
	}
	scaled := imaging.Resize(glyphs, w, h, imaging.NearestNeighbor)

	pos := image.Pt(origin.X, origin.Y-int(math.Round(float64(ascent)*factor)))
	c.img = imaging.Overlay(c.img, scaled, pos, 1.0)
}
