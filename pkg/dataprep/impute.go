package dataprep

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"tabprep/pkg/stats"
)

var (
	// ErrNotFitted is returned by Transform before a successful Fit.
	ErrNotFitted = errors.New("dataprep: transformer not fitted")
	// ErrDimension is returned when a matrix does not have the fitted width.
	ErrDimension = errors.New("dataprep: dimension mismatch")
	// ErrNoObserved is returned when a column has no value to learn from.
	ErrNoObserved = errors.New("dataprep: column has no observed value")
)

// MeanImputer replaces missing (NaN) cells with the mean of the observed
// values of their column, learned at Fit time.
type MeanImputer struct {
	Means []float64
}

func NewMeanImputer() *MeanImputer { return &MeanImputer{} }

// Fit learns one mean per column. Every column needs at least one observed
// value.
func (m *MeanImputer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return fmt.Errorf("impute: %w", ErrDimension)
	}
	means := make([]float64, c)
	col := make([]float64, r)
	for j := range c {
		mat.Col(col, j, X)
		means[j] = stats.Mean(col)
		if math.IsNaN(means[j]) {
			return fmt.Errorf("impute: column %d: %w", j, ErrNoObserved)
		}
	}
	m.Means = means
	return nil
}

// Transform returns a copy of X where every NaN is replaced by its column mean.
func (m *MeanImputer) Transform(X mat.Matrix) (*mat.Dense, error) {
	if m.Means == nil {
		return nil, ErrNotFitted
	}
	r, c := X.Dims()
	if c != len(m.Means) {
		return nil, fmt.Errorf("impute: %w: got %d columns, fitted on %d", ErrDimension, c, len(m.Means))
	}
	out := mat.DenseCopyOf(X)
	for i := range r {
		for j := range c {
			if math.IsNaN(out.At(i, j)) {
				out.Set(i, j, m.Means[j])
			}
		}
	}
	return out, nil
}
