package detection

import (
	"image"
	"math"
	"sort"
)

// houghCircles finds circles with the Hough gradient method.
//
// # Algorithm
//
//  1. Edge Detection: cannyEdges with thresholds CannyHigh/2 and CannyHigh
//  2. Accumulator Voting: each edge pixel walks its gradient line in both
//     directions, one pixel per step from MinRadius to MaxRadius, adding a
//     vote to the accumulator cell under each step. Cells are DP pixels wide.
//  3. Center Support: a cell's support is the sum of the votes in its 3x3
//     neighbourhood. Sobel directions on a pixel grid are off by a few
//     degrees, so the lines of one rim cross a small patch of cells rather
//     than a single cell.
//  4. Center Candidates: cells with support strictly above AccThreshold that
//     are local maxima among their 4 neighbours, sorted by support (highest
//     first). The center is the vote-weighted centroid of the 3x3 patch.
//  5. Center Filtering: candidates closer than MinDist to an accepted circle
//     are skipped
//  6. Radius Estimation: distances from the candidate to every edge pixel in
//     the radius range are sorted and split into runs no wider than DP. The
//     run with the highest count per unit radius gives the radius (its median
//     distance); the circle is accepted when that count exceeds AccThreshold.
//
// # Performance
//
// Voting is O(edges × (MaxRadius - MinRadius)); radius estimation is
// O(candidates × edges × log edges). Coin photos produce few candidates, so
// voting dominates.
func houghCircles(gray *image.Gray, p Params) []Circle {
	em := cannyEdges(gray, p.CannyHigh/2, p.CannyHigh)

	idp := 1 / p.DP
	accWidth := int(math.Ceil(float64(em.width)*idp)) + 2
	accHeight := int(math.Ceil(float64(em.height)*idp)) + 2
	accumulator := make([]int32, accWidth*accHeight)

	points := make([]image.Point, 0)

	for i, edge := range em.edges {
		if !edge {
			continue
		}
		vx, vy := float64(em.gradX[i]), float64(em.gradY[i])
		mag := math.Hypot(vx, vy)
		if mag == 0 {
			continue
		}
		x, y := i%em.width, i/em.width
		points = append(points, image.Pt(x, y))

		sx := vx / mag * idp
		sy := vy / mag * idp
		x0 := (float64(x) + 0.5) * idp
		y0 := (float64(y) + 0.5) * idp

		for _, dir := range [2]float64{1, -1} {
			for r := p.MinRadius; r <= p.MaxRadius; r++ {
				cx := int(math.Floor(x0 + dir*sx*float64(r)))
				cy := int(math.Floor(y0 + dir*sy*float64(r)))
				if cx < 0 || cx >= accWidth-2 || cy < 0 || cy >= accHeight-2 {
					break
				}
				accumulator[(cy+1)*accWidth+cx+1]++
			}
		}
	}

	if len(points) == 0 {
		return []Circle{}
	}

	// Only interior cells receive votes, so the 3x3 sums never leave the grid
	support := make([]int32, len(accumulator))
	for y := 1; y < accHeight-1; y++ {
		for x := 1; x < accWidth-1; x++ {
			base := y*accWidth + x
			var sum int32
			for row := base - accWidth; row <= base+accWidth; row += accWidth {
				sum += accumulator[row-1] + accumulator[row] + accumulator[row+1]
			}
			support[base] = sum
		}
	}

	type peak struct {
		base  int
		x, y  int
		votes int32
	}
	peaks := make([]peak, 0)
	threshold := int32(p.AccThreshold)

	for y := 1; y < accHeight-1; y++ {
		for x := 1; x < accWidth-1; x++ {
			base := y*accWidth + x
			v := support[base]
			if v > threshold &&
				v > support[base-1] && v >= support[base+1] &&
				v > support[base-accWidth] && v >= support[base+accWidth] {
				peaks = append(peaks, peak{base: base, x: x - 1, y: y - 1, votes: v})
			}
		}
	}

	// Stable sort keeps raster order among equal support
	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].votes > peaks[j].votes
	})

	minDist2 := p.MinDist * p.MinDist
	minR := float64(p.MinRadius)
	maxR := float64(p.MaxRadius)
	minR2 := minR * minR
	maxR2 := maxR * maxR

	circles := make([]Circle, 0)
	dist := make([]float64, 0, len(points))

	for _, pk := range peaks {
		ox, oy := centroid(accumulator, accWidth, pk.base, pk.votes)
		cx := (float64(pk.x) + 0.5 + ox) * p.DP
		cy := (float64(pk.y) + 0.5 + oy) * p.DP

		tooClose := false
		for _, c := range circles {
			dx, dy := c.X-cx, c.Y-cy
			if dx*dx+dy*dy < minDist2 {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}

		dist = dist[:0]
		for _, pt := range points {
			dx := float64(pt.X) + 0.5 - cx
			if dx > maxR || dx < -maxR {
				continue
			}
			dy := float64(pt.Y) + 0.5 - cy
			if dy > maxR || dy < -maxR {
				continue
			}
			d2 := dx*dx + dy*dy
			if d2 >= minR2 && d2 <= maxR2 {
				dist = append(dist, math.Sqrt(d2))
			}
		}
		if len(dist) == 0 {
			continue
		}
		sort.Float64s(dist)

		radius, count := bestRadius(dist, p.DP)
		if count > p.AccThreshold {
			circles = append(circles, Circle{X: cx, Y: cy, Radius: radius})
		}
	}

	return circles
}

// centroid returns the vote-weighted offset, in cells, of the 3x3 patch
// around base. total is the patch's vote sum and must be positive.
func centroid(accumulator []int32, stride, base int, total int32) (float64, float64) {
	var sx, sy float64
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			w := float64(accumulator[base+dy*stride+dx])
			sx += w * float64(dx)
			sy += w * float64(dy)
		}
	}
	return sx / float64(total), sy / float64(total)
}

// bestRadius splits sorted distances into runs no wider than binWidth and
// returns the median of the run with the most members per unit radius,
// together with that run's size.
func bestRadius(sorted []float64, binWidth float64) (float64, int) {
	var best float64
	bestCount := 0

	consider := func(start, end int) {
		count := end - start
		if count == 0 {
			return
		}
		r := sorted[(start+end)/2]
		if best == 0 {
			if count >= bestCount {
				best, bestCount = r, count
			}
			return
		}
		if float64(count)*best >= float64(bestCount)*r {
			best, bestCount = r, count
		}
	}

	start := 0
	for j := 1; j < len(sorted); j++ {
		if sorted[j]-sorted[start] > binWidth {
			consider(start, j)
			start = j
		}
	}
	consider(start, len(sorted))

	return best, bestCount
}
