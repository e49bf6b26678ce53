package connectivity

import (
	"fmt"
	"math/rand"
)

// AllToAll connects every presynaptic neuron to every postsynaptic one.
// include_self controls self-connections when the two groups are the same
// population.
func AllToAll(includeSelf bool) Pattern {
	return func(nPre, nPost int) (Descriptor, error) {
		d := Descriptor{}
		for i := 0; i < nPre; i++ {
			for j := 0; j < nPost; j++ {
				if !includeSelf && i == j {
					continue
				}
				d.Pre = append(d.Pre, i)
				d.Post = append(d.Post, j)
			}
		}
		return d, nil
	}
}

// OneToOne connects index i to index i; the groups must be the same size.
func OneToOne() Pattern {
	return func(nPre, nPost int) (Descriptor, error) {
		if nPre != nPost {
			return Descriptor{}, fmt.Errorf("one-to-one needs equal group sizes, got %d and %d", nPre, nPost)
		}
		d := Descriptor{
			Pre:  make([]int, nPre),
			Post: make([]int, nPre),
		}
		for i := 0; i < nPre; i++ {
			d.Pre[i] = i
			d.Post[i] = i
		}
		return d, nil
	}
}

// FixedProb connects each pair independently with probability p, using a
// seeded generator so runs are reproducible.
func FixedProb(p float64, includeSelf bool, seed int64) Pattern {
	return func(nPre, nPost int) (Descriptor, error) {
		if p < 0 || p > 1 {
			return Descriptor{}, fmt.Errorf("connection probability %g outside [0,1]", p)
		}
		rng := rand.New(rand.NewSource(seed))
		d := Descriptor{}
		for i := 0; i < nPre; i++ {
			for j := 0; j < nPost; j++ {
				if !includeSelf && i == j {
					continue
				}
				if rng.Float64() < p {
					d.Pre = append(d.Pre, i)
					d.Post = append(d.Post, j)
				}
			}
		}
		return d, nil
	}
}
