package detection

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/coin-value/internal/imaging"
)

// Result is the output of Detect.
type Result struct {
	// Circles are the detected candidates in search order.
	Circles []Circle

	// Base is an unmodified copy of the input, rebased to (0,0).
	Base *image.NRGBA
}

// Detector finds coin-sized circles in colour images.
//
// A Detector holds only configuration and may be reused across images.
type Detector struct {
	params    Params
	style     imaging.Style
	debugPath string
	logger    *slog.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithDebugPath makes Detect write a diagnostic image to path showing every
// detected circle and its raw radius.
func WithDebugPath(path string) Option {
	return func(d *Detector) {
		d.debugPath = path
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) {
		d.logger = logger
	}
}

// New creates a Detector. The style's debug colours and font settings are
// used for the diagnostic image.
func New(params Params, style imaging.Style, opts ...Option) *Detector {
	d := &Detector{
		params: params,
		style:  style,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Params returns the search parameters.
func (d *Detector) Params() Params { return d.params }

// DetectFile loads the image at path and runs Detect on it.
func (d *Detector) DetectFile(path string) (*Result, error) {
	img, err := imaging.Load(path)
	if err != nil {
		return nil, err
	}
	return d.Detect(img)
}

// Detect finds circles in img.
//
// The input image is never modified. Zero circles is a valid result.
//
// # Errors
//
//   - *imaging.ImageLoadError if img is nil or has no pixels
//   - *imaging.PersistenceError if the diagnostic image cannot be written
func (d *Detector) Detect(img image.Image) (*Result, error) {
	if err := imaging.Validate(img); err != nil {
		return nil, err
	}

	base := imaging.Clone(img)
	gray := d.preprocess(base)
	circles := findCircles(gray, d.params)

	d.logger.Debug("circle search complete",
		"backend", Backend,
		"width", base.Bounds().Dx(),
		"height", base.Bounds().Dy(),
		"circles", len(circles))

	if d.debugPath != "" {
		if err := d.writeDebug(base, circles); err != nil {
			return nil, err
		}
	}

	return &Result{Circles: circles, Base: base}, nil
}

// preprocess converts img to grayscale and applies the median filter.
func (d *Detector) preprocess(img image.Image) *image.Gray {
	gray := toGray(effect.Grayscale(img))
	if d.params.MedianKernel <= 1 {
		return gray
	}
	return toGray(effect.Median(gray, float64(d.params.MedianKernel/2)))
}

// writeDebug saves a copy of base with every circle outlined and labelled
// with its radius.
func (d *Detector) writeDebug(base image.Image, circles []Circle) error {
	canvas := imaging.NewCanvas(base)
	for _, c := range circles {
		center := c.Center()
		canvas.Circle(center, c.PixelRadius(), d.style.CircleThickness, d.style.Debug)
		canvas.Text(center, fmt.Sprintf("%f px", c.Radius),
			d.style.DebugLabel, d.style.DebugFontScale, d.style.DebugFontThickness)
	}

	if err := imaging.Save(canvas.Image(), d.debugPath); err != nil {
		return err
	}
	d.logger.Debug("wrote detection image", "path", d.debugPath)
	return nil
}

// toGray returns img as an *image.Gray rebased to (0,0), converting when needed.
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}

	bounds := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	// bild filters return *image.RGBA; read its bytes directly using the
	// same luma weights as color.GrayModel
	if src, ok := img.(*image.RGBA); ok {
		for y := 0; y < bounds.Dy(); y++ {
			row := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			for x := 0; x < bounds.Dx(); x++ {
				r := uint32(row[4*x]) * 0x101
				g := uint32(row[4*x+1]) * 0x101
				b := uint32(row[4*x+2]) * 0x101
				out.Pix[y*out.Stride+x] = uint8((19595*r + 38470*g + 7471*b + 1<<15) >> 24)
			}
		}
		return out
	}

	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			out.SetGray(x, y, color.GrayModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.Gray))
		}
	}
	return out
}
