// Package connectivity builds the index relations between presynaptic,
// postsynaptic, and synapse index spaces.
//
// A [Pattern] produces the raw adjacency; [Build] turns it into the
// immutable lookup tables vector-mode synapse code iterates over, and
// [BuildMatrix] into the dense form used in matrix mode.
package connectivity

import (
	"fmt"

	"github.com/san-kum/neurodyn/internal/neuro"
)

// Descriptor is the raw adjacency: synapse i connects Pre[i] -> Post[i].
type Descriptor struct {
	Pre  []int
	Post []int
}

// Pattern is a pure connection-rule generator.
type Pattern func(nPre, nPost int) (Descriptor, error)

// Map holds the precomputed index relations for vector mode. All slices are
// built once and never mutated afterwards.
type Map struct {
	NPre  int
	NPost int
	NSyn  int

	// SynPre[s] and SynPost[s] are the endpoints of synapse s.
	SynPre  []int
	SynPost []int

	Pre2Syn  [][]int
	Post2Syn [][]int
	Pre2Post [][]int
	Post2Pre [][]int
}

// Build runs the pattern and assembles the lookup tables, validating that
// every referenced index is in range.
func Build(pattern Pattern, nPre, nPost int) (*Map, error) {
	if nPre <= 0 || nPost <= 0 {
		return nil, fmt.Errorf("%w: group sizes must be positive, got %dx%d", neuro.ErrInvalidConnectivity, nPre, nPost)
	}

	desc, err := pattern(nPre, nPost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", neuro.ErrInvalidConnectivity, err)
	}
	if len(desc.Pre) != len(desc.Post) {
		return nil, fmt.Errorf("%w: pre/post lists differ in length (%d vs %d)", neuro.ErrInvalidConnectivity, len(desc.Pre), len(desc.Post))
	}

	m := &Map{
		NPre:     nPre,
		NPost:    nPost,
		NSyn:     len(desc.Pre),
		SynPre:   make([]int, len(desc.Pre)),
		SynPost:  make([]int, len(desc.Post)),
		Pre2Syn:  make([][]int, nPre),
		Post2Syn: make([][]int, nPost),
		Pre2Post: make([][]int, nPre),
		Post2Pre: make([][]int, nPost),
	}

	for s := range desc.Pre {
		i, j := desc.Pre[s], desc.Post[s]
		if i < 0 || i >= nPre {
			return nil, fmt.Errorf("%w: presynaptic index %d out of range [0,%d)", neuro.ErrInvalidConnectivity, i, nPre)
		}
		if j < 0 || j >= nPost {
			return nil, fmt.Errorf("%w: postsynaptic index %d out of range [0,%d)", neuro.ErrInvalidConnectivity, j, nPost)
		}
		m.SynPre[s] = i
		m.SynPost[s] = j
		m.Pre2Syn[i] = append(m.Pre2Syn[i], s)
		m.Post2Syn[j] = append(m.Post2Syn[j], s)
		m.Pre2Post[i] = append(m.Pre2Post[i], j)
		m.Post2Pre[j] = append(m.Post2Pre[j], i)
	}

	return m, nil
}

// Validate checks the bucket invariant: every synapse index appears in
// exactly one Pre2Syn bucket and exactly one Post2Syn bucket.
func (m *Map) Validate() error {
	if len(m.Pre2Syn) != m.NPre || len(m.Post2Syn) != m.NPost {
		return fmt.Errorf("%w: bucket counts do not match group sizes", neuro.ErrInvalidConnectivity)
	}

	seen := make([]int, m.NSyn)
	for _, bucket := range m.Pre2Syn {
		for _, s := range bucket {
			if s < 0 || s >= m.NSyn {
				return fmt.Errorf("%w: synapse index %d out of range", neuro.ErrInvalidConnectivity, s)
			}
			seen[s]++
		}
	}
	for s, n := range seen {
		if n != 1 {
			return fmt.Errorf("%w: synapse %d appears in %d pre2syn buckets", neuro.ErrInvalidConnectivity, s, n)
		}
		seen[s] = 0
	}

	for _, bucket := range m.Post2Syn {
		for _, s := range bucket {
			seen[s]++
		}
	}
	for s, n := range seen {
		if n != 1 {
			return fmt.Errorf("%w: synapse %d appears in %d post2syn buckets", neuro.ErrInvalidConnectivity, s, n)
		}
	}

	return nil
}

// Matrix is the dense pairwise form used in matrix mode.
type Matrix struct {
	NPre  int
	NPost int
	W     neuro.Vector // row-major, NPre x NPost
}

// BuildMatrix runs the pattern and fills a dense weight matrix, assigning
// weight to every connected pair.
func BuildMatrix(pattern Pattern, nPre, nPost int, weight float64) (*Matrix, error) {
	m, err := Build(pattern, nPre, nPost)
	if err != nil {
		return nil, err
	}

	w := make(neuro.Vector, nPre*nPost)
	for s := 0; s < m.NSyn; s++ {
		w[m.SynPre[s]*nPost+m.SynPost[s]] = weight
	}

	return &Matrix{NPre: nPre, NPost: nPost, W: w}, nil
}

func (m *Matrix) At(i, j int) float64 {
	return m.W[i*m.NPost+j]
}
