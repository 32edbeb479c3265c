package detection

import (
	"image"
	"image/color"
)

var (
	background = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
	coinColor  = color.NRGBA{R: 200, G: 180, B: 90, A: 255}
)

type disk struct {
	cx, cy, r float64
}

// createDiskImage paints filled disks on a dark background.
func createDiskImage(width, height int, disks ...disk) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, background)
			for _, d := range disks {
				dx := float64(x) + 0.5 - d.cx
				dy := float64(y) + 0.5 - d.cy
				if dx*dx+dy*dy <= d.r*d.r {
					img.SetNRGBA(x, y, coinColor)
					break
				}
			}
		}
	}
	return img
}

// createGrayDiskImage paints white disks on black.
func createGrayDiskImage(width, height int, disks ...disk) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			for _, d := range disks {
				dx := float64(x) + 0.5 - d.cx
				dy := float64(y) + 0.5 - d.cy
				if dx*dx+dy*dy <= d.r*d.r {
					img.SetGray(x, y, color.Gray{Y: 255})
					break
				}
			}
		}
	}
	return img
}

// nearest returns the circle whose center is closest to (x, y).
func nearest(circles []Circle, x, y float64) (Circle, float64) {
	var best Circle
	bestDist := -1.0
	for _, c := range circles {
		dx, dy := c.X-x, c.Y-y
		d := dx*dx + dy*dy
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}
