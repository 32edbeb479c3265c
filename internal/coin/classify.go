package coin

import (
	"image"

	"github.com/ironsheep/coin-value/internal/detection"
	"github.com/ironsheep/coin-value/internal/imaging"
)

// unknownLabel marks circles that matched no denomination.
const unknownLabel = "?"

// Outcome is the classification of a single detected circle.
type Outcome struct {
	Circle detection.Circle `json:"circle"`

	// Match is nil when no candidate was within tolerance.
	Match *Match `json:"match,omitempty"`
}

// Matched reports whether the circle was identified.
func (o Outcome) Matched() bool { return o.Match != nil }

// Result is the output of one classification pass.
type Result struct {
	// Image is the annotated copy of the base image.
	Image *image.NRGBA `json:"-"`

	// Total is the summed value of every matched coin.
	Total float64 `json:"total"`

	// Table is the reference table used for this pass.
	Table Table `json:"table"`

	// Counts holds the number of coins matched per denomination, indexed like Table.
	Counts []int `json:"counts"`

	// Coins lists one outcome per input circle, in input order.
	Coins []Outcome `json:"coins"`
}

// TallyEntry is a denomination with its count for one pass.
type TallyEntry struct {
	Denomination
	Count int `json:"count"`
}

// Tally returns the denominations with a non-zero count, in table order.
func (r *Result) Tally() []TallyEntry {
	out := make([]TallyEntry, 0, len(r.Table))
	for i, d := range r.Table {
		if r.Counts[i] > 0 {
			out = append(out, TallyEntry{Denomination: d, Count: r.Counts[i]})
		}
	}
	return out
}

// Matched returns the number of identified coins.
func (r *Result) Matched() int {
	n := 0
	for _, c := range r.Counts {
		n += c
	}
	return n
}

// Unmatched returns the number of circles that matched no denomination.
func (r *Result) Unmatched() int {
	return len(r.Coins) - r.Matched()
}

// Classifier matches detected circles against a denomination table.
//
// A Classifier holds no per-run state and may be shared between goroutines.
type Classifier struct {
	table      Table
	candidates []Candidate
	tolerance  float64
	style      imaging.Style
}

// NewClassifier builds a classifier over a private copy of table.
// The table is expected to have passed Validate.
func NewClassifier(table Table, tolerance float64, style imaging.Style) *Classifier {
	t := table.Clone()
	return &Classifier{
		table:      t,
		candidates: t.Candidates(),
		tolerance:  tolerance,
		style:      style,
	}
}

// Table returns a copy of the reference table.
func (c *Classifier) Table() Table { return c.table.Clone() }

// Tolerance returns the relative match tolerance.
func (c *Classifier) Tolerance() float64 { return c.tolerance }

// Classify identifies each circle and annotates a copy of base.
//
// Matched circles are outlined in the matched colour with the denomination
// name written at the center; unmatched circles get the unknown colour and a
// "?" label. The total is accumulated in circle order.
func (c *Classifier) Classify(circles []detection.Circle, base image.Image) *Result {
	canvas := imaging.NewCanvas(base)
	result := &Result{
		Table:  c.table.Clone(),
		Counts: make([]int, len(c.table)),
		Coins:  make([]Outcome, 0, len(circles)),
	}

	for _, circle := range circles {
		center := circle.Center()
		radius := circle.PixelRadius()

		match, ok := FindMatch(circle.Radius, c.candidates, c.tolerance)
		if !ok {
			canvas.Circle(center, radius, c.style.CircleThickness, c.style.Unknown)
			canvas.Text(center, unknownLabel, c.style.Unknown, c.style.FontScale, c.style.FontThickness)
			result.Coins = append(result.Coins, Outcome{Circle: circle})
			continue
		}

		d := c.table[match.Index]
		canvas.Circle(center, radius, c.style.CircleThickness, c.style.Matched)
		canvas.Text(center, d.Name, c.style.Label, c.style.FontScale, c.style.FontThickness)

		result.Counts[match.Index]++
		result.Total += d.Value
		m := match
		result.Coins = append(result.Coins, Outcome{Circle: circle, Match: &m})
	}

	result.Image = canvas.Image()
	return result
}
