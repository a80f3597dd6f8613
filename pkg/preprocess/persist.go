package preprocess

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot/vg"

	"tabprep/pkg/dataprep"
	"tabprep/pkg/pipeline"
	"tabprep/pkg/report"
)

// create truncates path and hands it to write. Close errors are reported.
func (p *Preprocessor) create(path string, write func(w io.Writer) error) (err error) {
	f, err := p.fs.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = multierror.Append(err, cerr).ErrorOrNil()
		}
		if err == nil {
			p.logWritten(path)
		}
	}()
	return write(f)
}

func (p *Preprocessor) createCSV(path string, write func(w *csv.Writer) error) error {
	return p.create(path, func(out io.Writer) error {
		w := csv.NewWriter(out)
		if err := write(w); err != nil {
			return err
		}
		w.Flush()
		return w.Error()
	})
}

func (p *Preprocessor) logWritten(path string) {
	size := "unknown size"
	if fi, err := p.fs.Stat(path); err == nil {
		size = humanize.Bytes(uint64(fi.Size()))
	}
	p.log.WithField("path", path).Infof("wrote %s", size)
}

func (p *Preprocessor) writeHeader(path string, header []string) error {
	return p.createCSV(path, func(w *csv.Writer) error {
		return w.Write(header)
	})
}

func positionalHeader(n int) []string {
	h := make([]string, n)
	for i := range n {
		h[i] = strconv.Itoa(i)
	}
	return h
}

// writeMatrix writes m with a positional header and one row per example.
// Values keep full float64 precision.
func (p *Preprocessor) writeMatrix(path string, m mat.Matrix) error {
	return p.createCSV(path, func(w *csv.Writer) error {
		return WriteMatrix(w, m)
	})
}

// WriteMatrix writes m as CSV with a positional header ("0", "1", ...).
func WriteMatrix(w *csv.Writer, m mat.Matrix) error {
	r, c := m.Dims()
	if err := w.Write(positionalHeader(c)); err != nil {
		return err
	}
	row := make([]string, c)
	for i := range r {
		for j := range c {
			row[j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (p *Preprocessor) writeCodes(path string, codes []int) error {
	return p.createCSV(path, func(w *csv.Writer) error {
		if err := w.Write(positionalHeader(1)); err != nil {
			return err
		}
		for _, c := range codes {
			if err := w.Write([]string{strconv.Itoa(c)}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *Preprocessor) writeLabelClasses(path string, enc *dataprep.LabelEncoder) error {
	return p.createCSV(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"code", "label"}); err != nil {
			return err
		}
		for code, label := range enc.Classes {
			if err := w.Write([]string{strconv.Itoa(code), label}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *Preprocessor) writePlot(path string, X mat.Matrix, names []string) error {
	plt, err := report.FeatureBoxPlot(X, names, "standardized training features")
	if err != nil {
		return err
	}
	return p.create(path, func(w io.Writer) error {
		return report.WritePNG(w, plt, 8*vg.Inch, 4*vg.Inch)
	})
}

// SaveTransform serializes ct to path, overwriting it.
func (p *Preprocessor) SaveTransform(path string, ct *pipeline.ColumnTransform) error {
	b, err := ct.MarshalBinary()
	if err != nil {
		return err
	}
	return p.create(path, func(w io.Writer) error {
		_, err := w.Write(b)
		return err
	})
}

// LoadTransform reads a transform written by SaveTransform.
func LoadTransform(fs afero.Fs, path string) (*pipeline.ColumnTransform, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	ct := &pipeline.ColumnTransform{}
	if err := ct.UnmarshalBinary(b); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ct, nil
}

// LoadLabelEncoder restores the label encoder from a label classes file.
func LoadLabelEncoder(fs afero.Fs, path string) (*dataprep.LabelEncoder, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header", path)
	}
	classes := make([]string, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != 2 {
			return nil, fmt.Errorf("%s: line %d: expected 2 fields", path, i+2)
		}
		code, err := strconv.Atoi(rec[0])
		if err != nil || code != i {
			return nil, fmt.Errorf("%s: line %d: code %q out of order", path, i+2, rec[0])
		}
		classes = append(classes, rec[1])
	}
	enc := dataprep.NewLabelEncoder()
	if err := enc.SetClasses(classes); err != nil {
		return nil, err
	}
	return enc, nil
}
