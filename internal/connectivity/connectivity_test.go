package connectivity

import (
	"errors"
	"testing"

	"github.com/san-kum/neurodyn/internal/neuro"
)

func TestAllToAll(t *testing.T) {
	m, err := Build(AllToAll(false), 4, 4)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if m.NSyn != 12 {
		t.Errorf("4x4 without self should have 12 synapses, got %d", m.NSyn)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("validate failed: %v", err)
	}

	for i, bucket := range m.Pre2Syn {
		if len(bucket) != 3 {
			t.Errorf("pre %d should drive 3 synapses, got %d", i, len(bucket))
		}
	}

	withSelf, _ := Build(AllToAll(true), 4, 4)
	if withSelf.NSyn != 16 {
		t.Errorf("4x4 with self should have 16 synapses, got %d", withSelf.NSyn)
	}
}

func TestOneToOne(t *testing.T) {
	m, err := Build(OneToOne(), 5, 5)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if m.NSyn != 5 {
		t.Errorf("expected 5 synapses, got %d", m.NSyn)
	}
	for s := 0; s < m.NSyn; s++ {
		if m.SynPre[s] != m.SynPost[s] {
			t.Errorf("synapse %d connects %d->%d, want identity", s, m.SynPre[s], m.SynPost[s])
		}
	}

	if _, err := Build(OneToOne(), 5, 6); !errors.Is(err, neuro.ErrInvalidConnectivity) {
		t.Errorf("size mismatch should fail with ErrInvalidConnectivity, got %v", err)
	}
}

func TestFixedProbReproducible(t *testing.T) {
	a, err := Build(FixedProb(0.3, false, 42), 20, 20)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	b, _ := Build(FixedProb(0.3, false, 42), 20, 20)

	if a.NSyn != b.NSyn {
		t.Fatalf("same seed should give same synapse count: %d vs %d", a.NSyn, b.NSyn)
	}
	for s := 0; s < a.NSyn; s++ {
		if a.SynPre[s] != b.SynPre[s] || a.SynPost[s] != b.SynPost[s] {
			t.Fatalf("same seed should give identical wiring at synapse %d", s)
		}
	}

	if err := a.Validate(); err != nil {
		t.Errorf("validate failed: %v", err)
	}
}

func TestBucketInvariant(t *testing.T) {
	m, _ := Build(FixedProb(0.5, true, 7), 13, 9)

	if len(m.Pre2Syn) != 13 || len(m.Post2Syn) != 9 {
		t.Fatalf("bucket counts should equal group sizes: %d, %d", len(m.Pre2Syn), len(m.Post2Syn))
	}

	// Every synapse index in exactly one bucket on each side.
	if err := m.Validate(); err != nil {
		t.Errorf("validate failed: %v", err)
	}
}

func TestZeroSizedGroups(t *testing.T) {
	if _, err := Build(AllToAll(true), 0, 5); !errors.Is(err, neuro.ErrInvalidConnectivity) {
		t.Errorf("zero pre group should fail, got %v", err)
	}
	if _, err := Build(AllToAll(true), 5, 0); !errors.Is(err, neuro.ErrInvalidConnectivity) {
		t.Errorf("zero post group should fail, got %v", err)
	}
}

func TestOutOfRangeIndex(t *testing.T) {
	bad := func(nPre, nPost int) (Descriptor, error) {
		return Descriptor{Pre: []int{0, nPre}, Post: []int{0, 0}}, nil
	}
	if _, err := Build(bad, 3, 3); !errors.Is(err, neuro.ErrInvalidConnectivity) {
		t.Errorf("out-of-range index should fail, got %v", err)
	}
}

func TestBuildMatrix(t *testing.T) {
	m, err := BuildMatrix(AllToAll(false), 3, 3, 0.5)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.5
			if i == j {
				want = 0
			}
			if m.At(i, j) != want {
				t.Errorf("W[%d][%d] = %g, want %g", i, j, m.At(i, j), want)
			}
		}
	}
}
