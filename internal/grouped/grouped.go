// Package grouped reduces a value sequence partitioned by a parallel sequence
// of bin identifiers. Output rows are ordered by ascending bin identifier, so
// the result does not depend on input order.
package grouped

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/plpstats/plpstats/internal/validation"
)

var (
	// ErrShapeMismatch is returned when values and bins differ in length.
	ErrShapeMismatch = validation.ErrShapeMismatch

	// ErrInvalidBin is returned for a negative bin identifier.
	ErrInvalidBin = errors.New("invalid bin")
)

// Column names used in Table.Column.
const (
	ColumnSum = "sum"
	ColumnMax = "max"
)

// Row is one bin and its aggregate.
type Row struct {
	Bin   int     `json:"bin" yaml:"bin"`
	Value float64 `json:"value" yaml:"value"`
}

// Table holds one row per bin that had at least one value.
type Table struct {
	Column string `json:"column" yaml:"column"`
	Rows   []Row  `json:"rows" yaml:"rows"`
}

// Lookup returns the aggregate for bin and whether the bin is present.
func (t Table) Lookup(bin int) (float64, bool) {
	i := sort.Search(len(t.Rows), func(i int) bool { return t.Rows[i].Bin >= bin })
	if i < len(t.Rows) && t.Rows[i].Bin == bin {
		return t.Rows[i].Value, true
	}
	return 0, false
}

// Sum returns the per-bin sum of values. NaN in a bin makes its sum NaN.
func Sum(values []float64, bins []int) (Table, error) {
	return reduce(values, bins, ColumnSum, addValue)
}

// Max returns the per-bin maximum of values. NaN is ignored unless every
// value in the bin is NaN, in which case the bin's maximum is NaN.
func Max(values []float64, bins []int) (Table, error) {
	return reduce(values, bins, ColumnMax, maxValue)
}

// SumChunks is Sum over values and bins split into parallel chunks. Chunks
// are concatenated in order before reducing.
func SumChunks(values [][]float64, bins [][]int) (Table, error) {
	v, b, err := flatten(values, bins)
	if err != nil {
		return Table{}, err
	}
	return Sum(v, b)
}

// MaxChunks is Max over values and bins split into parallel chunks.
func MaxChunks(values [][]float64, bins [][]int) (Table, error) {
	v, b, err := flatten(values, bins)
	if err != nil {
		return Table{}, err
	}
	return Max(v, b)
}

func addValue(acc, v float64) float64 {
	return acc + v
}

func maxValue(acc, v float64) float64 {
	switch {
	case math.IsNaN(v):
		return acc
	case math.IsNaN(acc):
		return v
	default:
		return math.Max(acc, v)
	}
}

func reduce(values []float64, bins []int, column string, combine func(acc, v float64) float64) (Table, error) {
	if err := validation.SameLength("values", len(values), "bins", len(bins)); err != nil {
		return Table{}, err
	}

	acc := make(map[int]float64)
	for i, bin := range bins {
		if bin < 0 {
			return Table{}, fmt.Errorf("bin %d at index %d: %w", bin, i, ErrInvalidBin)
		}
		if cur, ok := acc[bin]; ok {
			acc[bin] = combine(cur, values[i])
		} else {
			acc[bin] = values[i]
		}
	}

	rows := make([]Row, 0, len(acc))
	for bin, v := range acc {
		rows = append(rows, Row{Bin: bin, Value: v})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Bin < rows[j].Bin })

	return Table{Column: column, Rows: rows}, nil
}

func flatten(values [][]float64, bins [][]int) ([]float64, []int, error) {
	if len(values) != len(bins) {
		return nil, nil, fmt.Errorf("%d value chunks, %d bin chunks: %w", len(values), len(bins), ErrShapeMismatch)
	}

	var n int
	for i := range values {
		if len(values[i]) != len(bins[i]) {
			return nil, nil, fmt.Errorf("chunk %d has %d values, %d bins: %w",
				i, len(values[i]), len(bins[i]), ErrShapeMismatch)
		}
		n += len(values[i])
	}

	flatValues := make([]float64, 0, n)
	flatBins := make([]int, 0, n)
	for i := range values {
		flatValues = append(flatValues, values[i]...)
		flatBins = append(flatBins, bins[i]...)
	}
	return flatValues, flatBins, nil
}
