package coin

import (
	"image"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/coin-value/internal/detection"
	"github.com/ironsheep/coin-value/internal/imaging"
)

func createTestImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 200, 200, 200, 255
	}
	return img
}

func newTestClassifier(table Table) *Classifier {
	return NewClassifier(table, DefaultTolerance, imaging.DefaultStyle())
}

func TestClassify_Scenario1_ClosestGeneration(t *testing.T) {
	c := newTestClassifier(singleTable())

	result := c.Classify([]detection.Circle{{X: 150, Y: 150, Radius: 80}}, createTestImage(300, 300))

	assert.Equal(t, []int{1}, result.Counts)
	assert.Equal(t, 100.0, result.Total)
	require.Len(t, result.Coins, 1)
	require.True(t, result.Coins[0].Matched())
	assert.Equal(t, New, result.Coins[0].Match.Generation)
}

func TestClassify_Scenario2_Unclassified(t *testing.T) {
	c := newTestClassifier(singleTable())

	result := c.Classify([]detection.Circle{{X: 250, Y: 250, Radius: 200}}, createTestImage(500, 500))

	assert.Equal(t, []int{0}, result.Counts)
	assert.Equal(t, 0.0, result.Total)
	assert.Equal(t, 1, result.Unmatched())
	assert.False(t, result.Coins[0].Matched())
	assert.Empty(t, result.Tally())
}

func TestClassify_Scenario3_NoCircles(t *testing.T) {
	base := createTestImage(120, 80)
	c := newTestClassifier(DefaultTable())

	result := c.Classify(nil, base)

	assert.Equal(t, 0.0, result.Total)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, result.Counts)
	assert.Empty(t, result.Coins)
	assert.Equal(t, base.Pix, result.Image.Pix)

	result.Image.Pix[0] = 0
	assert.Equal(t, uint8(200), base.Pix[0], "result image must be a copy")
}

func TestClassify_Scenario4_TwoOfTheSame(t *testing.T) {
	table := Table{
		{Name: "50 COP", Value: 50, RadiusOld: 82.6, RadiusNew: 64.4},
		{Name: "1000 COP", Value: 1000, RadiusOld: 100.8, RadiusNew: 100.8},
	}
	c := newTestClassifier(table)

	result := c.Classify([]detection.Circle{
		{X: 100, Y: 100, Radius: 64},
		{X: 300, Y: 100, Radius: 83},
	}, createTestImage(400, 200))

	assert.Equal(t, []int{2, 0}, result.Counts)
	assert.Equal(t, 100.0, result.Total)
	assert.Equal(t, []TallyEntry{{Denomination: table[0], Count: 2}}, result.Tally())
}

func TestClassify_Conservation(t *testing.T) {
	circles := []detection.Circle{
		{X: 100, Y: 100, Radius: 64},
		{X: 300, Y: 100, Radius: 75},
		{X: 500, Y: 100, Radius: 88},
		{X: 100, Y: 300, Radius: 100.8},
		{X: 300, Y: 300, Radius: 150},
		{X: 500, Y: 300, Radius: 40},
		{X: 700, Y: 300, Radius: 91.6},
	}
	c := newTestClassifier(DefaultTable())

	result := c.Classify(circles, createTestImage(800, 420))

	var sum float64
	for i, d := range result.Table {
		sum += float64(result.Counts[i]) * d.Value
	}
	assert.Equal(t, sum, result.Total)
	assert.Equal(t, len(circles), result.Matched()+result.Unmatched())
	assert.Equal(t, 2, result.Unmatched())
	assert.Len(t, result.Coins, len(circles))
	for i, o := range result.Coins {
		assert.Equal(t, circles[i], o.Circle, "outcomes keep input order")
	}
}

func TestClassify_Idempotent(t *testing.T) {
	circles := []detection.Circle{
		{X: 100, Y: 100, Radius: 64},
		{X: 300, Y: 100, Radius: 88},
		{X: 500, Y: 100, Radius: 150},
	}
	base := createTestImage(650, 250)
	c := newTestClassifier(DefaultTable())

	first := c.Classify(circles, base)
	second := c.Classify(circles, base)

	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, first.Counts, second.Counts)
	assert.Equal(t, first.Coins, second.Coins)
	assert.Equal(t, first.Image.Pix, second.Image.Pix)
}

func TestClassify_DoesNotMutateInputs(t *testing.T) {
	base := createTestImage(300, 300)
	pristine := append([]uint8(nil), base.Pix...)
	table := DefaultTable()
	c := newTestClassifier(table)

	result := c.Classify([]detection.Circle{{X: 150, Y: 150, Radius: 88}}, base)

	assert.Equal(t, pristine, base.Pix)
	assert.Equal(t, DefaultTable(), table)

	result.Table[0].Name = "changed"
	assert.Equal(t, "50 COP", c.Table()[0].Name)
}

func TestClassify_AnnotationColors(t *testing.T) {
	style := imaging.DefaultStyle()
	c := newTestClassifier(singleTable())

	result := c.Classify([]detection.Circle{
		{X: 100, Y: 150, Radius: 80},  // matched
		{X: 400, Y: 150, Radius: 120}, // unknown
	}, createTestImage(600, 300))

	// Top of each ring, well clear of the label at the center
	assert.Equal(t, style.Matched, result.Image.NRGBAAt(100, 70))
	assert.Equal(t, style.Unknown, result.Image.NRGBAAt(400, 30))

	labelPixels, unknownLabelPixels := 0, 0
	for y := 120; y < 160; y++ {
		for x := 100; x < 220; x++ {
			if result.Image.NRGBAAt(x, y) == style.Label {
				labelPixels++
			}
		}
		for x := 400; x < 440; x++ {
			if result.Image.NRGBAAt(x, y) == style.Unknown {
				unknownLabelPixels++
			}
		}
	}
	assert.Greater(t, labelPixels, 0, "denomination name drawn in label colour")
	assert.Greater(t, unknownLabelPixels, 0, "? drawn in unknown colour")
}

func TestClassify_ConcurrentUse(t *testing.T) {
	c := newTestClassifier(DefaultTable())
	base := createTestImage(300, 300)
	circles := []detection.Circle{{X: 150, Y: 150, Radius: 100.8}}

	var wg sync.WaitGroup
	results := make([]*Result, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Classify(circles, base)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, []int{0, 0, 0, 0, 1}, r.Counts)
		assert.Equal(t, 1000.0, r.Total)
	}
}

func TestResult_TallyOrder(t *testing.T) {
	r := &Result{
		Table:  DefaultTable(),
		Counts: []int{0, 2, 0, 1, 3},
	}

	tally := r.Tally()

	require.Len(t, tally, 3)
	assert.Equal(t, "100 COP", tally[0].Name)
	assert.Equal(t, "500 COP", tally[1].Name)
	assert.Equal(t, "1000 COP", tally[2].Name)
	assert.Equal(t, 3, tally[2].Count)
}
