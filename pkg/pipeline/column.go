package pipeline

import (
	"errors"
	"fmt"

	"github.com/ugorji/go/codec"
	"gonum.org/v1/gonum/mat"

	"tabprep/pkg/data"
	"tabprep/pkg/dataprep"
	"tabprep/pkg/stats"
)

// encodingVersion is bumped whenever the serialized layout changes.
const encodingVersion = 1

var (
	// ErrNoFeatures is returned when no numeric feature is left to fit on.
	ErrNoFeatures = errors.New("pipeline: no numeric feature column")
	// ErrMissingFeature is returned when a table lacks a fitted feature column.
	ErrMissingFeature = errors.New("pipeline: missing feature column")
	// ErrNotFitted is returned when transforming with an unfitted transform.
	ErrNotFitted = errors.New("pipeline: transform not fitted")
)

// ColumnTransform applies mean imputation then standardization to a fixed,
// ordered set of numeric columns of a table. Other columns are ignored.
type ColumnTransform struct {
	Features []string
	Imputer  *dataprep.MeanImputer
	Scaler   *dataprep.StandardScaler
}

func NewColumnTransform(features []string) *ColumnTransform {
	return &ColumnTransform{
		Features: append([]string(nil), features...),
		Imputer:  dataprep.NewMeanImputer(),
		Scaler:   dataprep.NewStandardScaler(),
	}
}

func (ct *ColumnTransform) pipeline() *Pipeline {
	return NewPipeline(ct.Imputer, ct.Scaler)
}

// Fit learns the imputation and scaling statistics from t. Features without
// any observed value in t cannot be imputed; they are removed from Features
// and returned.
func (ct *ColumnTransform) Fit(t *data.Table) (dropped []string, err error) {
	var kept []string
	for _, name := range ct.Features {
		col, err := t.Floats(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMissingFeature, err)
		}
		if len(stats.Observed(col)) == 0 {
			dropped = append(dropped, name)
			continue
		}
		kept = append(kept, name)
	}
	if len(kept) == 0 {
		return dropped, ErrNoFeatures
	}
	X, err := t.Matrix(kept)
	if err != nil {
		return dropped, err
	}
	if err := ct.pipeline().Fit(X); err != nil {
		return dropped, err
	}
	ct.Features = kept
	return dropped, nil
}

// Transform applies the fitted statistics to the feature columns of t.
func (ct *ColumnTransform) Transform(t *data.Table) (*mat.Dense, error) {
	if !ct.IsFitted() {
		return nil, ErrNotFitted
	}
	for _, name := range ct.Features {
		if !t.Has(name) {
			return nil, fmt.Errorf("%w: %q", ErrMissingFeature, name)
		}
	}
	X, err := t.Matrix(ct.Features)
	if err != nil {
		return nil, err
	}
	return ct.pipeline().Transform(X)
}

// FitTransform fits on t and transforms it.
func (ct *ColumnTransform) FitTransform(t *data.Table) (*mat.Dense, []string, error) {
	dropped, err := ct.Fit(t)
	if err != nil {
		return nil, dropped, err
	}
	X, err := ct.Transform(t)
	return X, dropped, err
}

// IsFitted reports whether the statistics have been learned.
func (ct *ColumnTransform) IsFitted() bool {
	return ct.Imputer != nil && ct.Scaler != nil &&
		len(ct.Features) > 0 &&
		len(ct.Imputer.Means) == len(ct.Features) &&
		len(ct.Scaler.Mean) == len(ct.Features) &&
		len(ct.Scaler.Std) == len(ct.Features)
}

type wireTransform struct {
	Version     int       `codec:"version"`
	Features    []string  `codec:"features"`
	ImputeMeans []float64 `codec:"impute_means"`
	ScaleMeans  []float64 `codec:"scale_means"`
	ScaleStds   []float64 `codec:"scale_stds"`
}

// MarshalBinary implements encoding.BinaryMarshaler using CBOR.
func (ct *ColumnTransform) MarshalBinary() ([]byte, error) {
	if !ct.IsFitted() {
		return nil, ErrNotFitted
	}
	w := wireTransform{
		Version:     encodingVersion,
		Features:    ct.Features,
		ImputeMeans: ct.Imputer.Means,
		ScaleMeans:  ct.Scaler.Mean,
		ScaleStds:   ct.Scaler.Std,
	}
	var buf []byte
	var h codec.CborHandle
	if err := codec.NewEncoderBytes(&buf, &h).Encode(&w); err != nil {
		return nil, fmt.Errorf("encode transform: %w", err)
	}
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler using CBOR.
func (ct *ColumnTransform) UnmarshalBinary(b []byte) error {
	var w wireTransform
	var h codec.CborHandle
	if err := codec.NewDecoderBytes(b, &h).Decode(&w); err != nil {
		return fmt.Errorf("decode transform: %w", err)
	}
	if w.Version != encodingVersion {
		return fmt.Errorf("decode transform: unsupported version %d", w.Version)
	}
	ct.Features = w.Features
	ct.Imputer = &dataprep.MeanImputer{Means: w.ImputeMeans}
	ct.Scaler = &dataprep.StandardScaler{Mean: w.ScaleMeans, Std: w.ScaleStds}
	if !ct.IsFitted() {
		return fmt.Errorf("decode transform: inconsistent lengths")
	}
	return nil
}
