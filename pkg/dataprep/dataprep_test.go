package dataprep

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestMeanImputer(t *testing.T) {
	nan := math.NaN()
	train := mat.NewDense(4, 2, []float64{
		1, 10,
		nan, 20,
		3, nan,
		nan, 30,
	})
	imp := NewMeanImputer()

	_, err := imp.Transform(train)
	assert.ErrorIs(t, err, ErrNotFitted)

	require.NoError(t, imp.Fit(train))
	assert.Equal(t, []float64{2, 20}, imp.Means)

	out, err := imp.Transform(train)
	require.NoError(t, err)
	assert.Equal(t, 2.0, out.At(1, 0))
	assert.Equal(t, 20.0, out.At(2, 1))
	assert.True(t, math.IsNaN(train.At(1, 0)), "input must not be modified")

	test := mat.NewDense(1, 2, []float64{nan, 5})
	out, err = imp.Transform(test)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 5}, out.RawRowView(0))

	_, err = imp.Transform(mat.NewDense(1, 3, nil))
	assert.ErrorIs(t, err, ErrDimension)

	err = NewMeanImputer().Fit(mat.NewDense(2, 1, []float64{nan, nan}))
	assert.ErrorIs(t, err, ErrNoObserved)
}

func TestStandardScaler(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 5,
		2, 5,
		3, 5,
		4, 5,
	})
	s := NewStandardScaler()
	require.NoError(t, s.Fit(X))
	assert.Equal(t, []float64{2.5, 5}, s.Mean)
	assert.InDelta(t, math.Sqrt(1.25), s.Std[0], 1e-12)
	assert.Equal(t, 1.0, s.Std[1], "constant column scale")

	out, err := s.Transform(X)
	require.NoError(t, err)
	var sum, sumSq float64
	for i := range 4 {
		v := out.At(i, 0)
		sum += v
		sumSq += v * v
		assert.Equal(t, 0.0, out.At(i, 1))
	}
	assert.InDelta(t, 0, sum/4, 1e-12)
	assert.InDelta(t, 1, sumSq/4, 1e-12)

	err = NewStandardScaler().Fit(mat.NewDense(2, 1, []float64{1, math.NaN()}))
	assert.Error(t, err)
	_, err = NewStandardScaler().Transform(X)
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestLabelEncoder(t *testing.T) {
	t.Run("Categorical", func(t *testing.T) {
		e := NewLabelEncoder()
		codes := e.FitTransform([]string{"virginica", "setosa", "versicolor", "setosa"}, false)
		assert.Equal(t, []string{"setosa", "versicolor", "virginica"}, e.Classes)
		assert.Equal(t, []int{2, 0, 1, 0}, codes)
		assert.Equal(t, 3, e.Len())

		labels, err := e.Inverse(codes)
		require.NoError(t, err)
		assert.Equal(t, []string{"virginica", "setosa", "versicolor", "setosa"}, labels)

		_, err = e.Transform([]string{"unknown"})
		assert.ErrorIs(t, err, ErrUnknownLabel)
		_, err = e.Inverse([]int{3})
		assert.ErrorIs(t, err, ErrUnknownLabel)
	})

	t.Run("Numeric", func(t *testing.T) {
		e := NewLabelEncoder()
		codes := e.FitTransform([]string{"10", "9", "100"}, true)
		assert.Equal(t, []string{"9", "10", "100"}, e.Classes)
		assert.Equal(t, []int{1, 0, 2}, codes)
	})

	t.Run("Restore", func(t *testing.T) {
		e := NewLabelEncoder()
		require.NoError(t, e.SetClasses([]string{"no", "yes"}))
		codes, err := e.Transform([]string{"yes", "no"})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 0}, codes)
		assert.Error(t, e.SetClasses([]string{"a", "a"}))

		_, err = NewLabelEncoder().Transform([]string{"a"})
		assert.ErrorIs(t, err, ErrNotFitted)
	})
}
