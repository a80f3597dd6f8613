// Package preprocess turns a raw table into standardized train/test matrices
// and encoded labels, and persists everything needed to reproduce the
// transformation on unseen data.
package preprocess

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"gonum.org/v1/gonum/mat"

	"tabprep/pkg/data"
	"tabprep/pkg/dataprep"
	"tabprep/pkg/loader"
	"tabprep/pkg/logger"
	"tabprep/pkg/pipeline"
	"tabprep/pkg/stats"
)

var (
	// ErrTargetNotFound is returned when the target is not a column of the table.
	ErrTargetNotFound = errors.New("preprocess: target column not found")
	// ErrEmptyTable is returned for a table without rows.
	ErrEmptyTable = errors.New("preprocess: empty table")
	// ErrNoNumericFeatures is returned when no numeric feature can be transformed.
	ErrNoNumericFeatures = errors.New("preprocess: no numeric feature column")
	// ErrMissingTarget is returned when a row has no target value.
	ErrMissingTarget = errors.New("preprocess: missing target value")
)

// Names of the files written into Options.OutputDir.
const (
	XTrainFile       = "X_train.csv"
	XTestFile        = "X_test.csv"
	YTrainFile       = "y_train.csv"
	YTestFile        = "y_test.csv"
	LabelClassesFile = "label_classes.csv"
	PlotFile         = "features.png"
)

// Defaults of Options.
const (
	DefaultTestRatio = 0.3
	DefaultSeed      = 42
)

// Options describes one preprocessing run.
type Options struct {
	// Target is the categorical column to predict.
	Target string
	// TransformPath receives the fitted ColumnTransform. Its parent must exist.
	TransformPath string
	// HeaderPath receives the names of every non-target column, numeric or
	// not. Its parent must exist.
	HeaderPath string
	// OutputDir receives the four data files; it is created if needed.
	OutputDir string
	// LabelsPath receives the label classes, one per code. Empty means
	// OutputDir/label_classes.csv.
	LabelsPath string
	// TestRatio is the share of rows in the test partition. Zero means 0.3.
	TestRatio float64
	// Seed drives the row permutation. Nil means 42.
	Seed *int64
	// Plot also writes a box plot of the standardized training features.
	Plot bool
}

func (o Options) withDefaults() Options {
	if o.TestRatio == 0 {
		o.TestRatio = DefaultTestRatio
	}
	if o.Seed == nil {
		seed := int64(DefaultSeed)
		o.Seed = &seed
	}
	if o.LabelsPath == "" {
		o.LabelsPath = filepath.Join(o.OutputDir, LabelClassesFile)
	}
	return o
}

// Result holds the in-memory outputs of a run.
type Result struct {
	XTrain, XTest *mat.Dense
	YTrain, YTest []int
	// TrainIndex and TestIndex are the input row numbers of each partition.
	TrainIndex, TestIndex []int
	Transform             *pipeline.ColumnTransform
	// Encoder decodes YTrain/YTest back to the original categories. It is
	// fitted on every row, before the split.
	Encoder *dataprep.LabelEncoder
	// Header is the content of the header file.
	Header []string
}

// Preprocessor runs preprocessing against a filesystem.
type Preprocessor struct {
	fs  afero.Fs
	log logger.Logger
}

// Option functional config for Preprocessor.
type Option func(*Preprocessor)

// WithLogger replaces the default "preprocess" namespace logger.
func WithLogger(l logger.Logger) Option { return func(p *Preprocessor) { p.log = l } }

// New returns a Preprocessor writing to fs, or to the OS filesystem when fs
// is nil.
func New(fs afero.Fs, opts ...Option) *Preprocessor {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	p := &Preprocessor{fs: fs, log: logger.WithNamespace("preprocess")}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Preprocess runs the default pipeline on the OS filesystem.
func Preprocess(t *data.Table, target, transformPath, headerPath, outputDir string) (*Result, error) {
	return New(nil).Run(t, Options{
		Target:        target,
		TransformPath: transformPath,
		HeaderPath:    headerPath,
		OutputDir:     outputDir,
	})
}

// Run splits t into standardized train/test features and encoded labels.
// The column transform only sees the training rows. Every output file is
// overwritten.
func (p *Preprocessor) Run(t *data.Table, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if !t.Has(opts.Target) {
		return nil, fmt.Errorf("%w: %q", ErrTargetNotFound, opts.Target)
	}
	if t.Len() == 0 {
		return nil, ErrEmptyTable
	}
	features := t.NumericColumns(opts.Target)
	if len(features) == 0 {
		return nil, ErrNoNumericFeatures
	}

	X, err := t.Drop(opts.Target)
	if err != nil {
		return nil, err
	}
	y, err := p.encodeTarget(t, opts.Target)
	if err != nil {
		return nil, err
	}

	split, err := loader.TrainTestSplit(t.Len(), opts.TestRatio, *opts.Seed)
	if err != nil {
		return nil, err
	}
	p.log.WithFields(logger.Fields{"train": len(split.Train), "test": len(split.Test)}).
		Debugf("split %d rows with seed %d", t.Len(), *opts.Seed)

	header := make([]string, 0, len(t.Names())-1)
	for _, name := range t.Names() {
		if name != opts.Target {
			header = append(header, name)
		}
	}
	if err := p.writeHeader(opts.HeaderPath, header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	trainTbl, err := X.Rows(split.Train)
	if err != nil {
		return nil, err
	}
	testTbl, err := X.Rows(split.Test)
	if err != nil {
		return nil, err
	}

	for _, name := range features {
		col, err := trainTbl.Floats(name)
		if err != nil {
			return nil, err
		}
		if n := stats.CountMissing(col); n > 0 {
			p.log.WithFields(logger.Fields{"column": name, "missing": n}).
				Debugf("imputing missing training values with the column mean")
		}
	}

	ct := pipeline.NewColumnTransform(features)
	XTrain, dropped, err := ct.FitTransform(trainTbl)
	if errors.Is(err, pipeline.ErrNoFeatures) {
		return nil, fmt.Errorf("%w: every numeric feature is empty in the training rows", ErrNoNumericFeatures)
	}
	if err != nil {
		return nil, fmt.Errorf("fit transform: %w", err)
	}
	for _, name := range dropped {
		p.log.WithField("column", name).Warnf("dropping feature without any observed training value")
	}
	XTest, err := ct.Transform(testTbl)
	if err != nil {
		return nil, fmt.Errorf("apply transform: %w", err)
	}

	if err := p.SaveTransform(opts.TransformPath, ct); err != nil {
		return nil, fmt.Errorf("save transform: %w", err)
	}

	res := &Result{
		XTrain:     XTrain,
		XTest:      XTest,
		YTrain:     pick(y.codes, split.Train),
		YTest:      pick(y.codes, split.Test),
		TrainIndex: split.Train,
		TestIndex:  split.Test,
		Transform:  ct,
		Encoder:    y.encoder,
		Header:     header,
	}
	if err := p.writeOutputs(res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

type encodedTarget struct {
	codes   []int
	encoder *dataprep.LabelEncoder
}

func (p *Preprocessor) encodeTarget(t *data.Table, target string) (encodedTarget, error) {
	labels, missing, err := t.Values(target)
	if err != nil {
		return encodedTarget{}, err
	}
	for i, m := range missing {
		if m {
			return encodedTarget{}, fmt.Errorf("%w: row %d", ErrMissingTarget, i)
		}
	}
	kind, err := t.Kind(target)
	if err != nil {
		return encodedTarget{}, err
	}
	enc := dataprep.NewLabelEncoder()
	codes := enc.FitTransform(labels, kind == data.Numeric)
	p.log.WithField("classes", enc.Len()).Debugf("encoded target %q", target)
	return encodedTarget{codes: codes, encoder: enc}, nil
}

func (p *Preprocessor) writeOutputs(res *Result, opts Options) error {
	if err := p.fs.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	matrices := []struct {
		name string
		m    *mat.Dense
	}{
		{XTrainFile, res.XTrain},
		{XTestFile, res.XTest},
	}
	for _, f := range matrices {
		path := filepath.Join(opts.OutputDir, f.name)
		if err := p.writeMatrix(path, f.m); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	labels := []struct {
		name  string
		codes []int
	}{
		{YTrainFile, res.YTrain},
		{YTestFile, res.YTest},
	}
	for _, f := range labels {
		path := filepath.Join(opts.OutputDir, f.name)
		if err := p.writeCodes(path, f.codes); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	if err := p.writeLabelClasses(opts.LabelsPath, res.Encoder); err != nil {
		return fmt.Errorf("write label classes: %w", err)
	}
	if opts.Plot {
		path := filepath.Join(opts.OutputDir, PlotFile)
		if err := p.writePlot(path, res.XTrain, res.Transform.Features); err != nil {
			return fmt.Errorf("write plot: %w", err)
		}
	}
	return nil
}

func pick(codes []int, indexes []int) []int {
	out := make([]int, len(indexes))
	for i, idx := range indexes {
		out[i] = codes[idx]
	}
	return out
}
