package loader

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrSplit is returned when a ratio or a row count cannot give two non-empty
// partitions.
var ErrSplit = errors.New("loader: invalid train/test split")

// Split holds the disjoint row indexes of the two partitions, in shuffled
// order.
type Split struct {
	Train []int
	Test  []int
}

// TestSize returns ceil(n * testRatio), the number of test rows.
func TestSize(n int, testRatio float64) int {
	// The epsilon keeps 100*0.3 at 30 despite float rounding.
	return int(math.Ceil(float64(n)*testRatio - 1e-9))
}

// TrainTestSplit permutes [0, n) with a source seeded by seed and assigns the
// first TestSize rows to the test partition. The same (n, testRatio, seed)
// always yields the same split.
func TrainTestSplit(n int, testRatio float64, seed int64) (Split, error) {
	if testRatio <= 0 || testRatio >= 1 {
		return Split{}, fmt.Errorf("%w: test ratio %v not in (0, 1)", ErrSplit, testRatio)
	}
	nTest := TestSize(n, testRatio)
	if nTest == 0 || nTest >= n {
		return Split{}, fmt.Errorf("%w: %d rows with test ratio %v", ErrSplit, n, testRatio)
	}
	rnd := rand.New(rand.NewSource(seed))
	indices := rnd.Perm(n)
	return Split{Test: indices[:nTest], Train: indices[nTest:]}, nil
}
