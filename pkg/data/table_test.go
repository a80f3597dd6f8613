package data

import (
	"math"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const irisLike = `sepal,petal,colour,species
5.1,1.4,red,setosa
4.9,,blue,setosa
6.3,4.9,red,virginica
5.8,5.1,NA,virginica
`

func TestReadCSVInfersKinds(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(irisLike), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"sepal", "petal", "colour", "species"}, tbl.Names())
	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, []string{"sepal", "petal"}, tbl.NumericColumns("species"))

	k, err := tbl.Kind("colour")
	require.NoError(t, err)
	assert.Equal(t, Categorical, k)

	petal, err := tbl.Floats("petal")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(petal[1]))
	assert.Equal(t, 4.9, petal[2])

	_, missing, err := tbl.Values("colour")
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false, true}, missing)
}

func TestReadCSVWithSchema(t *testing.T) {
	in := "zip,score,label\n75001,1.5,a\n69002,2.5,b\n"

	inferred, err := ReadCSV(strings.NewReader(in), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"zip", "score"}, inferred.NumericColumns("label"))

	tbl, err := ReadCSV(strings.NewReader(in), Schema{"zip": Categorical})
	require.NoError(t, err)
	assert.Equal(t, []string{"score"}, tbl.NumericColumns("label"))

	_, err = ReadCSV(strings.NewReader(in), Schema{"nope": Numeric})
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestTableSelections(t *testing.T) {
	tbl, err := FromRecords([][]string{
		{"a", "b", "y"},
		{"1", "10", "x"},
		{"2", "20", "y"},
		{"3", "", "x"},
	}, nil)
	require.NoError(t, err)

	m, err := tbl.Matrix([]string{"b", "a"})
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 20.0, m.At(1, 0))
	assert.Equal(t, 2.0, m.At(1, 1))
	assert.True(t, math.IsNaN(m.At(2, 0)))

	_, err = tbl.Matrix([]string{"zz"})
	assert.ErrorIs(t, err, ErrColumnNotFound)
	_, err = tbl.Matrix(nil)
	assert.ErrorIs(t, err, ErrEmptySelection)

	sub, err := tbl.Rows([]int{2, 0})
	require.NoError(t, err)
	a, err := sub.Floats("a")
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1}, a)

	x, err := tbl.Drop("y")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, x.Names())
	_, err = tbl.Drop("zz")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestFloatValuesKeepPrecision(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"CloseValues", []string{"0.1234567", "0.1234568"}, []string{"0.1234567", "0.1234568"}},
		{"Short", []string{"0.5", "1.25", "-3.75"}, []string{"0.5", "1.25", "-3.75"}},
		{"Missing", []string{"2.5", "", "1e-09"}, []string{"2.5", "NaN", "1e-09"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := [][]string{{"v"}}
			for _, s := range tt.in {
				records = append(records, []string{s})
			}
			tbl, err := FromRecords(records, Schema{"v": Numeric})
			require.NoError(t, err)

			got, missing, err := tbl.Values("v")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			for i, s := range tt.in {
				assert.Equal(t, s == "", missing[i])
			}
		})
	}
}

func TestLoadCSV(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in/data.csv", []byte(irisLike), 0o644))

	tbl, err := LoadCSV(fs, "/in/data.csv", nil)
	require.NoError(t, err)
	assert.Equal(t, 4, tbl.Len())

	_, err = LoadCSV(fs, "/in/missing.csv", nil)
	assert.Error(t, err)
}

func TestParseSchema(t *testing.T) {
	s, err := ParseSchema(map[string]string{"age": "Numeric", "city": "category"})
	require.NoError(t, err)
	assert.Equal(t, Schema{"age": Numeric, "city": Categorical}, s)

	s, err = ParseSchema(nil)
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = ParseSchema(map[string]string{"age": "complex"})
	assert.Error(t, err)
	assert.Equal(t, "numeric", Numeric.String())
}
