package detection

import "fmt"

// Params tunes the circle search.
type Params struct {
	// DP is the inverse accumulator resolution. 2.0 gives an accumulator
	// half the size of the image in each dimension.
	DP float64

	// MinDist is the minimum distance between accepted circle centers.
	MinDist float64

	// CannyHigh is the upper hysteresis threshold of the edge detector.
	// The lower threshold is half of it.
	CannyHigh float64

	// AccThreshold is the number of votes a center needs, and the number of
	// supporting edge pixels its radius needs.
	AccThreshold int

	// MinRadius and MaxRadius bound the radii searched, in pixels.
	MinRadius int
	MaxRadius int

	// MedianKernel is the side of the median filter window. Must be odd;
	// 1 disables denoising.
	MedianKernel int
}

// DefaultParams returns parameters tuned for coins photographed from about
// 30 cm on a plain background with a medium-resolution camera.
func DefaultParams() Params {
	return Params{
		DP:           2.0,
		MinDist:      80,
		CannyHigh:    100,
		AccThreshold: 100,
		MinRadius:    50,
		MaxRadius:    300,
		MedianKernel: 7,
	}
}

// Validate reports parameters the search cannot run with.
func (p Params) Validate() error {
	switch {
	case p.DP < 1:
		return fmt.Errorf("dp must be >= 1, got %v", p.DP)
	case p.MinDist <= 0:
		return fmt.Errorf("min_dist must be positive, got %v", p.MinDist)
	case p.CannyHigh <= 0:
		return fmt.Errorf("canny_high must be positive, got %v", p.CannyHigh)
	case p.AccThreshold <= 0:
		return fmt.Errorf("acc_threshold must be positive, got %d", p.AccThreshold)
	case p.MinRadius <= 0 || p.MaxRadius < p.MinRadius:
		return fmt.Errorf("invalid radius range [%d, %d]", p.MinRadius, p.MaxRadius)
	case p.MedianKernel < 1 || p.MedianKernel%2 == 0:
		return fmt.Errorf("median_kernel must be a positive odd number, got %d", p.MedianKernel)
	}
	return nil
}
