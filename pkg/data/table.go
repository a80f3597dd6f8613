package data

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrColumnNotFound is returned when a named column is not in the table.
	ErrColumnNotFound = errors.New("column not found")
	// ErrEmptySelection is returned when a matrix would have no rows or columns.
	ErrEmptySelection = errors.New("empty selection")
)

// Table is an ordered collection of named, typed columns sharing the same
// row count.
type Table struct {
	df dataframe.DataFrame
}

// FromDataFrame wraps an already loaded gota DataFrame.
func FromDataFrame(df dataframe.DataFrame) (*Table, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	return &Table{df: df}, nil
}

// Names returns the column names in their original order.
func (t *Table) Names() []string { return t.df.Names() }

// Len returns the number of rows.
func (t *Table) Len() int { return t.df.Nrow() }

// Has reports whether the table has a column called name.
func (t *Table) Has(name string) bool {
	for _, n := range t.df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Kind returns the kind of the named column.
func (t *Table) Kind(name string) (Kind, error) {
	if !t.Has(name) {
		return Categorical, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return kindOf(t.df.Col(name).Type()), nil
}

// NumericColumns returns, in table order, the numeric columns not listed in
// exclude.
func (t *Table) NumericColumns(exclude ...string) []string {
	skip := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		skip[e] = struct{}{}
	}
	names := t.df.Names()
	types := t.df.Types()
	var out []string
	for i, name := range names {
		if _, ok := skip[name]; ok {
			continue
		}
		if kindOf(types[i]) == Numeric {
			out = append(out, name)
		}
	}
	return out
}

// Values returns the textual values of the named column along with a mask of
// the missing cells. Float cells use the shortest text that parses back to
// the same value.
func (t *Table) Values(name string) ([]string, []bool, error) {
	if !t.Has(name) {
		return nil, nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	col := t.df.Col(name)
	if col.Type() != series.Float {
		return col.Records(), col.IsNaN(), nil
	}
	floats := col.Float()
	missing := make([]bool, len(floats))
	records := make([]string, len(floats))
	for i, v := range floats {
		if math.IsNaN(v) {
			missing[i] = true
			records[i] = "NaN"
			continue
		}
		records[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return records, missing, nil
}

// Floats returns the named column as floats. Missing cells are NaN.
func (t *Table) Floats(name string) ([]float64, error) {
	if !t.Has(name) {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return t.df.Col(name).Float(), nil
}

// Matrix copies the named columns into a dense rows x len(names) matrix.
// Missing cells are NaN.
func (t *Table) Matrix(names []string) (*mat.Dense, error) {
	r, c := t.Len(), len(names)
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("%w: %d rows, %d columns", ErrEmptySelection, r, c)
	}
	m := mat.NewDense(r, c, nil)
	for j, name := range names {
		col, err := t.Floats(name)
		if err != nil {
			return nil, err
		}
		m.SetCol(j, col)
	}
	return m, nil
}

// Rows returns a new table holding the given rows, in the given order.
func (t *Table) Rows(indexes []int) (*Table, error) {
	return FromDataFrame(t.df.Subset(indexes))
}

// Drop returns a new table without the named column.
func (t *Table) Drop(name string) (*Table, error) {
	if !t.Has(name) {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return FromDataFrame(t.df.Drop(name))
}
