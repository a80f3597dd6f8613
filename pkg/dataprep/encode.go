package dataprep

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrUnknownLabel is returned when encoding a label unseen at Fit time, or
// decoding a code outside [0, k).
var ErrUnknownLabel = errors.New("dataprep: unknown label")

// LabelEncoder maps each distinct category to an integer in [0, k). Classes
// are kept sorted, so the mapping only depends on the set of categories.
type LabelEncoder struct {
	Classes []string
	index   map[string]int
}

func NewLabelEncoder() *LabelEncoder { return &LabelEncoder{} }

// Fit learns the classes of data. When numeric is true and every value parses
// as a float, classes are ordered by value instead of lexicographically.
func (e *LabelEncoder) Fit(data []string, numeric bool) {
	seen := map[string]struct{}{}
	var classes []string
	for _, v := range data {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			classes = append(classes, v)
		}
	}
	if vals, ok := parseFloats(classes); numeric && ok {
		sort.Slice(classes, func(i, j int) bool { return vals[classes[i]] < vals[classes[j]] })
	} else {
		sort.Strings(classes)
	}
	e.setClasses(classes)
}

// SetClasses restores a previously fitted encoder from its class list.
func (e *LabelEncoder) SetClasses(classes []string) error {
	seen := map[string]struct{}{}
	for _, c := range classes {
		if _, ok := seen[c]; ok {
			return fmt.Errorf("label encoder: duplicate class %q", c)
		}
		seen[c] = struct{}{}
	}
	e.setClasses(append([]string(nil), classes...))
	return nil
}

func (e *LabelEncoder) setClasses(classes []string) {
	e.Classes = classes
	e.index = make(map[string]int, len(classes))
	for i, c := range classes {
		e.index[c] = i
	}
}

// Transform encodes data into class indexes.
func (e *LabelEncoder) Transform(data []string) ([]int, error) {
	if e.index == nil {
		return nil, ErrNotFitted
	}
	out := make([]int, len(data))
	for i, v := range data {
		code, ok := e.index[v]
		if !ok {
			return nil, fmt.Errorf("%w: %q at row %d", ErrUnknownLabel, v, i)
		}
		out[i] = code
	}
	return out, nil
}

// FitTransform fits the encoder on data and encodes it.
func (e *LabelEncoder) FitTransform(data []string, numeric bool) []int {
	e.Fit(data, numeric)
	out, _ := e.Transform(data)
	return out
}

// Inverse decodes class indexes back to their categories.
func (e *LabelEncoder) Inverse(codes []int) ([]string, error) {
	out := make([]string, len(codes))
	for i, c := range codes {
		if c < 0 || c >= len(e.Classes) {
			return nil, fmt.Errorf("%w: code %d at row %d", ErrUnknownLabel, c, i)
		}
		out[i] = e.Classes[c]
	}
	return out, nil
}

// Len returns the number of classes k.
func (e *LabelEncoder) Len() int { return len(e.Classes) }

func parseFloats(values []string) (map[string]float64, bool) {
	out := make(map[string]float64, len(values))
	for _, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, false
		}
		out[v] = f
	}
	return out, true
}
