package data

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gota/gota/series"
)

// Kind is the statistical kind of a column.
type Kind int

const (
	// Categorical columns hold labels; they are never standardized.
	Categorical Kind = iota
	// Numeric columns hold integers or floats.
	Numeric
)

func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "categorical"
}

// ParseKind accepts the kind names used in configuration files.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "numeric", "number", "float", "int", "integer":
		return Numeric, nil
	case "categorical", "category", "string", "text", "bool":
		return Categorical, nil
	}
	return Categorical, fmt.Errorf("unknown column kind %q", s)
}

// Schema describes the kind of each named column. Columns absent from the
// schema have their kind inferred from their values.
type Schema map[string]Kind

// ParseSchema builds a Schema from a name -> kind name map.
func ParseSchema(m map[string]string) (Schema, error) {
	if len(m) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	s := make(Schema, len(m))
	for _, name := range names {
		k, err := ParseKind(m[name])
		if err != nil {
			return nil, fmt.Errorf("schema column %q: %w", name, err)
		}
		s[name] = k
	}
	return s, nil
}

func (s Schema) seriesTypes() map[string]series.Type {
	types := make(map[string]series.Type, len(s))
	for name, k := range s {
		if k == Numeric {
			types[name] = series.Float
		} else {
			types[name] = series.String
		}
	}
	return types
}

func kindOf(t series.Type) Kind {
	if t == series.Int || t == series.Float {
		return Numeric
	}
	return Categorical
}
