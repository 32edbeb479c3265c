//go:build !gocv

package detection

import "image"

// Backend names the circle search compiled into this binary.
const Backend = "hough-gradient"

func findCircles(gray *image.Gray, p Params) []Circle {
	return houghCircles(gray, p)
}
