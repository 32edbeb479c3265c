package coin

import (
	"errors"
	"fmt"
)

// ErrInvalidTable is returned by Table.Validate.
var ErrInvalidTable = errors.New("invalid denomination table")

// Denomination is one coin value with its reference radii in pixels.
type Denomination struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	RadiusOld float64 `json:"radius_old"`
	RadiusNew float64 `json:"radius_new"`
}

// Table is an ordered list of denominations. The slice index is the
// denomination id used by Candidate.Index and Result.Counts.
type Table []Denomination

// DefaultTable returns Colombian peso coins photographed at the reference
// distance. Radii average the sizes measured on sample photos.
func DefaultTable() Table {
	return Table{
		{Name: "50 COP", Value: 50, RadiusOld: 82.6, RadiusNew: 64.4},
		{Name: "100 COP", Value: 100, RadiusOld: 86.2, RadiusNew: 75.2},
		{Name: "200 COP", Value: 200, RadiusOld: 91.6, RadiusNew: 85.0},
		{Name: "500 COP", Value: 500, RadiusOld: 89.0, RadiusNew: 87.4},
		{Name: "1000 COP", Value: 1000, RadiusOld: 100.8, RadiusNew: 100.8},
	}
}

// Validate checks that every denomination has a name and positive value and radii.
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no denominations", ErrInvalidTable)
	}
	for i, d := range t {
		switch {
		case d.Name == "":
			return fmt.Errorf("%w: denomination %d has no name", ErrInvalidTable, i)
		case d.Value <= 0:
			return fmt.Errorf("%w: %s: value must be positive, got %v", ErrInvalidTable, d.Name, d.Value)
		case d.RadiusOld <= 0 || d.RadiusNew <= 0:
			return fmt.Errorf("%w: %s: radii must be positive, got %v/%v", ErrInvalidTable, d.Name, d.RadiusOld, d.RadiusNew)
		}
	}
	return nil
}

// Generation identifies which minting of a denomination a radius belongs to.
type Generation int

const (
	Old Generation = iota
	New
)

func (g Generation) String() string {
	switch g {
	case Old:
		return "old"
	case New:
		return "new"
	default:
		return fmt.Sprintf("Generation(%d)", int(g))
	}
}

// Candidate is one reference radius to test a detection against.
type Candidate struct {
	Index      int        `json:"index"`
	Generation Generation `json:"generation"`
	Radius     float64    `json:"radius"`
}

// Candidates flattens the table into evaluation order: denomination order,
// old radius before new radius. Both radii are listed even when equal.
func (t Table) Candidates() []Candidate {
	out := make([]Candidate, 0, 2*len(t))
	for i, d := range t {
		out = append(out,
			Candidate{Index: i, Generation: Old, Radius: d.RadiusOld},
			Candidate{Index: i, Generation: New, Radius: d.RadiusNew},
		)
	}
	return out
}

// Clone returns a copy of the table that shares no memory with t.
func (t Table) Clone() Table {
	return append(Table(nil), t...)
}
