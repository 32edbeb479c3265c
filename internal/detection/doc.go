// Package detection locates circular coin silhouettes in photographs.
//
// The Detector turns a colour image into a list of (center, radius)
// candidates and a clean copy of the image for later annotation.
//
// # Pipeline
//
//  1. Grayscale: luminance conversion of the colour image
//  2. Denoise: median filter (kernel 7 by default) to flatten the relief
//     and texture on coin faces while keeping the rim edge sharp
//  3. Edges: Canny edge detection on the denoised image (Sobel gradients,
//     non-maximum suppression, hysteresis)
//  4. Voting: every edge pixel votes along its gradient line, in both
//     directions, for centers between MinRadius and MaxRadius away
//  5. Centers: local maxima of the 3x3 vote sums above AccThreshold, placed
//     at the vote centroid and visited from most to fewest votes, skipping
//     any closer than MinDist to a circle already accepted
//  6. Radius: distances from the center to all edge pixels are sorted and
//     grouped; the group with the best support per unit radius wins and is
//     accepted when its support exceeds AccThreshold
//
// Building with the gocv tag replaces steps 3 to 6 with OpenCV's
// HoughCircles using the same parameters.
//
// # Coordinate System
//
// Circle coordinates are float64 pixels relative to the top-left of the
// image. Radii are in pixels.
//
// # Output Order
//
// Circles come back in the order the search accepts them (most accumulator
// votes first). Callers must not rely on any spatial or size ordering.
//
// # Failure Modes
//
// Nil or empty images are rejected with *imaging.ImageLoadError. Finding no
// circles is a normal outcome. The default accumulator threshold is strict to
// keep background texture from producing phantom coins, at the cost of
// missing faint or low-contrast coins.
package detection
