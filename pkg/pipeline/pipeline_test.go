package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"tabprep/pkg/data"
	"tabprep/pkg/dataprep"
)

func TestPipelineChainsSteps(t *testing.T) {
	nan := math.NaN()
	X := mat.NewDense(3, 1, []float64{1, nan, 3})
	imp := dataprep.NewMeanImputer()
	sc := dataprep.NewStandardScaler()
	p := NewPipeline(imp, sc)

	out, err := p.FitTransform(X)
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, imp.Means)
	// The scaler is fitted on imputed data: 1, 2, 3.
	assert.Equal(t, []float64{2}, sc.Mean)
	assert.InDelta(t, 0, out.At(1, 0), 1e-12)
	assert.InDelta(t, -out.At(0, 0), out.At(2, 0), 1e-12)
}

func fixture(t *testing.T) *data.Table {
	t.Helper()
	tbl, err := data.FromRecords([][]string{
		{"a", "b", "empty", "city", "y"},
		{"1", "10", "", "paris", "no"},
		{"2", "", "", "lyon", "yes"},
		{"3", "30", "", "paris", "no"},
		{"", "40", "", "nice", "yes"},
	}, data.Schema{"empty": data.Numeric})
	require.NoError(t, err)
	return tbl
}

func TestColumnTransform(t *testing.T) {
	tbl := fixture(t)
	ct := NewColumnTransform(tbl.NumericColumns("y"))
	assert.False(t, ct.IsFitted())
	_, err := ct.Transform(tbl)
	assert.ErrorIs(t, err, ErrNotFitted)

	X, dropped, err := ct.FitTransform(tbl)
	require.NoError(t, err)
	assert.Equal(t, []string{"empty"}, dropped)
	assert.Equal(t, []string{"a", "b"}, ct.Features)
	assert.Equal(t, []float64{2, 80.0 / 3}, ct.Imputer.Means)

	r, c := X.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 2, c)
	for j := range c {
		col := mat.Col(nil, j, X)
		var sum, sumSq float64
		for _, v := range col {
			sum += v
			sumSq += v * v
		}
		assert.InDelta(t, 0, sum/float64(r), 1e-9)
		assert.InDelta(t, 1, sumSq/float64(r), 1e-9)
	}
}

func TestColumnTransformErrors(t *testing.T) {
	tbl := fixture(t)

	_, err := NewColumnTransform([]string{"empty"}).Fit(tbl)
	assert.ErrorIs(t, err, ErrNoFeatures)

	_, err = NewColumnTransform([]string{"zz"}).Fit(tbl)
	assert.ErrorIs(t, err, ErrMissingFeature)

	ct := NewColumnTransform([]string{"a", "b"})
	_, err = ct.Fit(tbl)
	require.NoError(t, err)
	other, err := data.FromRecords([][]string{{"a"}, {"1"}}, nil)
	require.NoError(t, err)
	_, err = ct.Transform(other)
	assert.ErrorIs(t, err, ErrMissingFeature)
}

func TestColumnTransformBinaryRoundTrip(t *testing.T) {
	tbl := fixture(t)
	ct := NewColumnTransform([]string{"a", "b"})
	want, _, err := ct.FitTransform(tbl)
	require.NoError(t, err)

	b, err := ct.MarshalBinary()
	require.NoError(t, err)

	restored := &ColumnTransform{}
	require.NoError(t, restored.UnmarshalBinary(b))
	assert.Equal(t, ct.Features, restored.Features)
	assert.Equal(t, ct.Imputer.Means, restored.Imputer.Means)
	assert.Equal(t, ct.Scaler.Std, restored.Scaler.Std)

	got, err := restored.Transform(tbl)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))

	_, err = NewColumnTransform([]string{"a"}).MarshalBinary()
	assert.ErrorIs(t, err, ErrNotFitted)
	assert.Error(t, restored.UnmarshalBinary([]byte("not cbor")))
}
