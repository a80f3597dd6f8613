package dataprep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"tabprep/pkg/stats"
)

// StandardScaler rescales each column to zero mean and unit variance, using
// the population standard deviation learned at Fit time. Constant columns get
// a scale of 1.
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

// Fit learns the per-column mean and standard deviation. X must not contain
// missing values.
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return fmt.Errorf("scale: %w", ErrDimension)
	}
	means := make([]float64, c)
	stds := make([]float64, c)
	col := make([]float64, r)
	for j := range c {
		mat.Col(col, j, X)
		mean, std, n := stats.MeanStd(col)
		if n != r {
			return fmt.Errorf("scale: column %d has %d missing values", j, r-n)
		}
		if std == 0 {
			std = 1
		}
		means[j], stds[j] = mean, std
	}
	s.Mean, s.Std = means, stds
	return nil
}

// Transform returns (X - mean) / std, column-wise.
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if s.Mean == nil {
		return nil, ErrNotFitted
	}
	r, c := X.Dims()
	if c != len(s.Mean) {
		return nil, fmt.Errorf("scale: %w: got %d columns, fitted on %d", ErrDimension, c, len(s.Mean))
	}
	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Std[j]
	}, X)
	return out, nil
}
