package detection

import (
	"image"
	"math"
)

// Circle is a detected circle in pixel coordinates.
type Circle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// Center returns the center rounded to the nearest pixel.
func (c Circle) Center() image.Point {
	return image.Pt(int(math.Round(c.X)), int(math.Round(c.Y)))
}

// PixelRadius returns the radius rounded to the nearest pixel.
func (c Circle) PixelRadius() int {
	return int(math.Round(c.Radius))
}
