package search

import (
	"math"
	"sort"
)

// SparseVector holds the non-zero entries of a vector over the vocabulary.
// Indices are strictly ascending.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// newSparseVector builds a vector from an index->weight map.
func newSparseVector(weights map[int]float64) SparseVector {
	indices := make([]int, 0, len(weights))
	for idx, w := range weights {
		if w != 0 {
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for i, idx := range indices {
		values[i] = weights[idx]
	}
	return SparseVector{Indices: indices, Values: values}
}

// IsZero reports whether every entry is zero.
func (v SparseVector) IsZero() bool {
	return len(v.Indices) == 0
}

// Norm returns the L2 norm.
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Normalize returns a unit-length copy of v. A zero vector normalizes to a
// zero vector.
func (v SparseVector) Normalize() SparseVector {
	norm := v.Norm()
	if norm == 0 {
		return SparseVector{}
	}
	out := SparseVector{
		Indices: append([]int(nil), v.Indices...),
		Values:  make([]float64, len(v.Values)),
	}
	for i, x := range v.Values {
		out.Values[i] = x / norm
	}
	return out
}

// Dot returns the dot product of two sparse vectors.
func Dot(a, b SparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			sum += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}
