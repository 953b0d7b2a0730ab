package stats

import "fmt"

// Interval is a two-sided confidence bound on a mean
// INVARIANTS:
// - Lower <= Upper
// - a zero-width interval (Lower == Upper) is valid and arises from constant samples
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// NewInterval builds an interval, swapping the bounds if they arrive reversed
func NewInterval(lower, upper float64) Interval {
	if lower > upper {
		lower, upper = upper, lower
	}
	return Interval{Lower: lower, Upper: upper}
}

// Width returns Upper - Lower
func (i Interval) Width() float64 {
	return i.Upper - i.Lower
}

// Contains reports whether x lies inside the closed interval
func (i Interval) Contains(x float64) bool {
	return x >= i.Lower && x <= i.Upper
}

// Overlaps reports whether i and other share interior points.
// Both comparisons are strict: intervals that only touch at an endpoint
// do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Upper > other.Lower && i.Lower < other.Upper
}

func (i Interval) String() string {
	return fmt.Sprintf("(%g, %g)", i.Lower, i.Upper)
}
