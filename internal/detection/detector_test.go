package detection

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/coin-value/internal/imaging"
)

func TestDetect_FindsCoin(t *testing.T) {
	img := createDiskImage(400, 400, disk{cx: 200, cy: 200, r: 90})
	d := New(DefaultParams(), imaging.DefaultStyle())

	result, err := d.Detect(img)
	require.NoError(t, err)

	require.Len(t, result.Circles, 1)
	c := result.Circles[0]
	assert.InDelta(t, 200, c.X, 4)
	assert.InDelta(t, 200, c.Y, 4)
	assert.InDelta(t, 90, c.Radius, 4)
}

func TestDetect_BaseIsUnmodifiedCopy(t *testing.T) {
	img := createDiskImage(300, 300, disk{cx: 150, cy: 150, r: 70})
	original := append([]uint8(nil), img.Pix...)
	d := New(DefaultParams(), imaging.DefaultStyle(), WithDebugPath(filepath.Join(t.TempDir(), "debug.png")))

	result, err := d.Detect(img)
	require.NoError(t, err)

	assert.Equal(t, original, img.Pix, "input must not be mutated")
	assert.Equal(t, img.Pix, result.Base.Pix)

	result.Base.Pix[0] = 0
	assert.Equal(t, original[0], img.Pix[0], "base must not alias the input")
}

func TestDetect_NoCircles(t *testing.T) {
	img := createDiskImage(200, 200)
	d := New(DefaultParams(), imaging.DefaultStyle())

	result, err := d.Detect(img)
	require.NoError(t, err)
	assert.Empty(t, result.Circles)
	assert.NotNil(t, result.Base)
}

func TestDetect_RejectsEmptyImages(t *testing.T) {
	d := New(DefaultParams(), imaging.DefaultStyle())

	_, err := d.Detect(nil)
	assert.ErrorIs(t, err, imaging.ErrImageLoad)

	_, err = d.Detect(image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	assert.ErrorIs(t, err, imaging.ErrImageLoad)
}

func TestDetect_WritesDebugImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "coins_detected.png")
	img := createDiskImage(400, 400, disk{cx: 200, cy: 200, r: 90})
	d := New(DefaultParams(), imaging.DefaultStyle(), WithDebugPath(path))

	result, err := d.Detect(img)
	require.NoError(t, err)
	require.Len(t, result.Circles, 1)

	debug, err := imaging.Load(path)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), debug.Bounds())

	// The ring is drawn in the debug colour on the detected radius,
	// above the radius label
	c := result.Circles[0]
	ring := image.Pt(c.Center().X, c.Center().Y-c.PixelRadius())
	r, g, b, _ := debug.At(ring.X, ring.Y).RGBA()
	assert.Equal(t, [3]uint32{0, 0xffff, 0}, [3]uint32{r, g, b})
}

func TestDetect_DebugWriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	d := New(DefaultParams(), imaging.DefaultStyle(), WithDebugPath(filepath.Join(blocker, "debug.png")))

	_, err := d.Detect(createDiskImage(100, 100))
	require.Error(t, err)
	assert.True(t, errors.Is(err, imaging.ErrPersistence))
}

func TestDetectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coins.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, createDiskImage(400, 400, disk{cx: 200, cy: 200, r: 90})))
	require.NoError(t, f.Close())

	result, err := New(DefaultParams(), imaging.DefaultStyle()).DetectFile(path)
	require.NoError(t, err)
	assert.Len(t, result.Circles, 1)
}

func TestDetectFile_Missing(t *testing.T) {
	_, err := New(DefaultParams(), imaging.DefaultStyle()).DetectFile(filepath.Join(t.TempDir(), "nope.jpg"))
	assert.ErrorIs(t, err, imaging.ErrImageLoad)
}

func TestPreprocess_MedianRemovesSpeckle(t *testing.T) {
	img := createDiskImage(40, 40)
	img.SetNRGBA(20, 20, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	d := New(DefaultParams(), imaging.DefaultStyle())
	gray := d.preprocess(img)

	assert.Less(t, gray.GrayAt(20, 20).Y, uint8(60))
}

func TestPreprocess_KernelOneSkipsBlur(t *testing.T) {
	img := createDiskImage(40, 40)
	img.SetNRGBA(20, 20, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	params := DefaultParams()
	params.MedianKernel = 1
	gray := New(params, imaging.DefaultStyle()).preprocess(img)

	assert.Greater(t, gray.GrayAt(20, 20).Y, uint8(200))
}

func TestToGray_RebasesSubImage(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 20, 20))
	src.SetGray(12, 12, color.Gray{Y: 99})

	out := toGray(src.SubImage(image.Rect(10, 10, 20, 20)))

	assert.Equal(t, image.Rect(0, 0, 10, 10), out.Bounds())
	assert.Equal(t, uint8(99), out.GrayAt(2, 2).Y)
}

func TestToGray_RGBAMatchesGrayModel(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 12, 9))
	for y := 5; y < 9; y++ {
		for x := 5; x < 12; x++ {
			src.SetRGBA(x, y, color.RGBA{R: uint8(x * 20), G: uint8(y * 25), B: uint8(x * y), A: 255})
		}
	}

	out := toGray(src)

	require.Equal(t, image.Rect(0, 0, 7, 4), out.Bounds())
	for y := 0; y < 4; y++ {
		for x := 0; x < 7; x++ {
			want := color.GrayModel.Convert(src.At(x+5, y+5)).(color.Gray)
			assert.Equal(t, want, out.GrayAt(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestParams_Validate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())

	mutations := map[string]func(*Params){
		"dp":        func(p *Params) { p.DP = 0.5 },
		"min dist":  func(p *Params) { p.MinDist = 0 },
		"canny":     func(p *Params) { p.CannyHigh = -1 },
		"threshold": func(p *Params) { p.AccThreshold = 0 },
		"radius":    func(p *Params) { p.MinRadius, p.MaxRadius = 100, 50 },
		"kernel":    func(p *Params) { p.MedianKernel = 4 },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			p := DefaultParams()
			mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestCircle_Rounding(t *testing.T) {
	c := Circle{X: 10.4, Y: 10.6, Radius: 79.5}

	assert.Equal(t, image.Pt(10, 11), c.Center())
	assert.Equal(t, 80, c.PixelRadius())
}

func BenchmarkDetect(b *testing.B) {
	img := createDiskImage(2000, 1500,
		disk{cx: 500, cy: 750, r: 250},
		disk{cx: 1300, cy: 750, r: 280},
	)
	d := New(DefaultParams(), imaging.DefaultStyle())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := d.Detect(img); err != nil {
			b.Fatal(err)
		}
	}
}
