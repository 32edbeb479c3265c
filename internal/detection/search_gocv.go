//go:build gocv

package detection

import (
	"image"

	"gocv.io/x/gocv"
)

// Backend names the circle search compiled into this binary.
const Backend = "opencv"

// findCircles runs OpenCV's HoughCircles on the denoised image.
// Conversion failures yield no circles rather than an error.
func findCircles(gray *image.Gray, p Params) []Circle {
	src, err := gocv.ImageGrayToMatGray(gray)
	if err != nil {
		return []Circle{}
	}
	defer src.Close()

	found := gocv.NewMat()
	defer found.Close()

	gocv.HoughCirclesWithParams(src, &found, gocv.HoughGradient,
		p.DP, p.MinDist,
		p.CannyHigh, float64(p.AccThreshold),
		p.MinRadius, p.MaxRadius)

	if found.Empty() || found.Cols() == 0 {
		return []Circle{}
	}

	circles := make([]Circle, found.Cols())
	for i := 0; i < found.Cols(); i++ {
		circles[i] = Circle{
			X:      float64(found.GetFloatAt(0, i*3)),
			Y:      float64(found.GetFloatAt(0, i*3+1)),
			Radius: float64(found.GetFloatAt(0, i*3+2)),
		}
	}
	return circles
}
