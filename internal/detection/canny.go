package detection

import (
	"image"
	"math"
)

// Non-maximum suppression states.
const (
	edgeNone uint8 = iota
	edgeWeak
	edgeStrong
)

// edgeMap holds thinned edge pixels together with the Sobel gradients that
// produced them. All slices are row-major with stride width.
type edgeMap struct {
	width  int
	height int
	edges  []bool
	gradX  []int16
	gradY  []int16
}

// at reports whether (x, y) is an edge pixel.
func (m *edgeMap) at(x, y int) bool {
	return m.edges[y*m.width+x]
}

// gradient returns the Sobel response at (x, y).
func (m *edgeMap) gradient(x, y int) (gx, gy int16) {
	i := y*m.width + x
	return m.gradX[i], m.gradY[i]
}

// cannyEdges runs Canny edge detection on a grayscale image.
//
// # Algorithm
//
//  1. Gradient computation: 3x3 Sobel operators on 0-255 intensities,
//     magnitude = |Gx| + |Gy|
//
//  2. Non-maximum suppression: keep a pixel only when its magnitude is a
//     local maximum across the gradient direction. Plateaus are broken by
//     requiring a strict maximum on one side, so a step edge stays one pixel
//     wide.
//
//  3. Hysteresis thresholding:
//     - Pixels at or above high are strong edges (always kept)
//     - Pixels between low and high are kept when 8-connected to a strong
//     edge, directly or through other kept pixels
//     - Pixels below low are discarded
//
// The image is not blurred here; callers denoise beforehand.
// Border pixels are never edges.
//
// # Memory
//
// Gradients are kept as int16 (Sobel on 8-bit input stays within ±1020) and
// the magnitude plane is released once suppression has run, so peak usage is
// about 8 bytes per pixel.
func cannyEdges(gray *image.Gray, low, high float64) *edgeMap {
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	n := width * height

	at := func(x, y int) int32 {
		x = clamp(x, 0, width-1)
		y = clamp(y, 0, height-1)
		return int32(gray.Pix[gray.PixOffset(x+bounds.Min.X, y+bounds.Min.Y)])
	}

	gradX := make([]int16, n)
	gradY := make([]int16, n)
	magnitude := make([]uint16, n)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			tl, t, tr := at(x-1, y-1), at(x, y-1), at(x+1, y-1)
			l, r := at(x-1, y), at(x+1, y)
			bl, b, br := at(x-1, y+1), at(x, y+1), at(x+1, y+1)

			gx := (tr + 2*r + br) - (tl + 2*l + bl)
			gy := (bl + 2*b + br) - (tl + 2*t + tr)

			i := y*width + x
			gradX[i] = int16(gx)
			gradY[i] = int16(gy)
			magnitude[i] = uint16(abs32(gx) + abs32(gy))
		}
	}

	// Non-maximum suppression
	state := make([]uint8, n)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			mag := magnitude[i]
			if float64(mag) < low {
				continue
			}
			angle := math.Atan2(float64(gradY[i]), float64(gradX[i]))

			// n1 is the neighbour "behind" the pixel, n2 the one "ahead"
			var n1, n2 uint16
			if (angle >= -math.Pi/8 && angle < math.Pi/8) || (angle >= 7*math.Pi/8 || angle < -7*math.Pi/8) {
				n1 = magnitude[i-1]
				n2 = magnitude[i+1]
			} else if (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8) {
				n1 = magnitude[i-width-1]
				n2 = magnitude[i+width+1]
			} else if (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8) {
				n1 = magnitude[i-width]
				n2 = magnitude[i+width]
			} else {
				n1 = magnitude[i-width+1]
				n2 = magnitude[i+width-1]
			}

			if mag > n1 && mag >= n2 {
				if float64(mag) >= high {
					state[i] = edgeStrong
				} else {
					state[i] = edgeWeak
				}
			}
		}
	}
	magnitude = nil

	// Hysteresis: grow strong edges through connected weak ones
	edges := make([]bool, n)
	stack := make([]int, 0, 64)
	for i, s := range state {
		if s != edgeStrong || edges[i] {
			continue
		}
		edges[i] = true
		stack = append(stack[:0], i)

		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			px, py := p%width, p/width

			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := px+dx, py+dy
					if nx < 0 || nx >= width || ny < 0 || ny >= height {
						continue
					}
					j := ny*width + nx
					if edges[j] || state[j] == edgeNone {
						continue
					}
					edges[j] = true
					stack = append(stack, j)
				}
			}
		}
	}

	return &edgeMap{
		width:  width,
		height: height,
		edges:  edges,
		gradX:  gradX,
		gradY:  gradY,
	}
}

// clamp replicates border pixels for the Sobel window.
func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
