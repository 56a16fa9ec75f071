package hst

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

//Bound is the observed (Low, High) range of one feature dimension.
type Bound struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

//Bounds is the per-dimension envelope of the feature space. Every tree of a
//forest partitions the same envelope; it is fixed for the forest's lifetime.
type Bounds []Bound

//Validate checks that the envelope has at least one dimension and that every
//range is strictly ordered. A degenerate range cannot host a split threshold.
func (b Bounds) Validate() error {
	if len(b) == 0 {
		return &ConfigError{Reason: "empty bounds"}
	}
	for ind, bound := range b {
		if bound.Low >= bound.High {
			return &ConfigError{Reason: fmt.Sprintf("dimension %d has low %g >= high %g", ind, bound.Low, bound.High)}
		}
	}
	return nil
}

//checkVector verifies that x carries one value per bounded dimension.
func (b Bounds) checkVector(x []float64) error {
	if len(x) != len(b) {
		return &DimensionError{Want: len(b), Got: len(x)}
	}
	return nil
}

//BoundsFromMatrix computes the per-column (min, max) envelope of a matrix of
//observations, one row per observation. A column holding a single repeated
//value yields a degenerate range and fails validation; widen such columns
//before fitting.
func BoundsFromMatrix(m *mat.Dense) (Bounds, error) {
	h, w := m.Dims()
	if h == 0 || w == 0 {
		return nil, &ConfigError{Reason: "empty observation matrix"}
	}

	envelope := make(Bounds, w)
	for q := 0; q < w; q++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		for p := 0; p < h; p++ {
			v := m.At(p, q)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		envelope[q] = Bound{Low: lo, High: hi}
	}

	if err := envelope.Validate(); err != nil {
		return nil, err
	}
	return envelope, nil
}
