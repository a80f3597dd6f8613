package data

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

// MissingMarkers are the cell values read as missing.
var MissingMarkers = []string{"", "NA", "NaN", "nan", "null", "NULL"}

func loadOptions(schema Schema) []dataframe.LoadOption {
	opts := []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(MissingMarkers),
	}
	if len(schema) > 0 {
		opts = append(opts, dataframe.WithTypes(schema.seriesTypes()))
	}
	return opts
}

// ReadCSV reads a whole comma separated table with a header row. Columns named
// in schema get that kind, the others are inferred from their values.
func ReadCSV(r io.Reader, schema Schema) (*Table, error) {
	t, err := FromDataFrame(dataframe.ReadCSV(r, loadOptions(schema)...))
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if err := t.checkSchema(schema); err != nil {
		return nil, err
	}
	return t, nil
}

// FromRecords builds a table from in-memory records; the first record is the
// header.
func FromRecords(records [][]string, schema Schema) (*Table, error) {
	t, err := FromDataFrame(dataframe.LoadRecords(records, loadOptions(schema)...))
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	if err := t.checkSchema(schema); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadCSV opens path on fs and reads it with ReadCSV.
func LoadCSV(fs afero.Fs, path string, schema Schema) (*Table, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, schema)
}

func (t *Table) checkSchema(schema Schema) error {
	var errm error
	for name := range schema {
		if !t.Has(name) {
			errm = multierror.Append(errm, fmt.Errorf("schema: %w: %q", ErrColumnNotFound, name))
		}
	}
	return errm
}
