package delay

import (
	"errors"
	"testing"

	"github.com/san-kum/neurodyn/internal/neuro"
)

func TestRoundTrip(t *testing.T) {
	// delay=1.5, dt=0.1 -> 15 steps.
	b, err := New(1.5, 0.1, 1, 0)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if b.Steps() != 15 {
		t.Fatalf("expected 15 delay steps, got %d", b.Steps())
	}

	pushed := map[int]float64{}
	for step := 0; step < 40; step++ {
		val := float64(step + 1)
		if err := b.Push(neuro.Vector{val}); err != nil {
			t.Fatalf("push at step %d: %v", step, err)
		}
		pushed[step] = val

		got, err := b.Read(nil)
		if err != nil {
			t.Fatalf("read at step %d: %v", step, err)
		}

		if step < 15 {
			if got[0] != 0 {
				t.Errorf("step %d inside cold-start window: got %g, want fill 0", step, got[0])
			}
		} else {
			want := pushed[step-15]
			if got[0] != want {
				t.Errorf("step %d: got %g, want value pushed at step %d (%g)", step, got[0], step-15, want)
			}
		}

		b.Advance()
	}
}

func TestColdStartUsesFillValue(t *testing.T) {
	b, _ := New(0.5, 0.1, 3, -65.0)

	got, _ := b.Read(nil)
	for i, v := range got {
		if v != -65.0 {
			t.Errorf("cold read[%d] = %g, want declared fill -65", i, v)
		}
	}
}

func TestZeroDelayReadsSameStepPush(t *testing.T) {
	b, _ := New(0, 0.1, 1, 0)
	if b.Steps() != 0 {
		t.Fatalf("zero delay should give 0 steps, got %d", b.Steps())
	}

	b.Push(neuro.Vector{7})
	got, _ := b.Read(nil)
	if got[0] != 7 {
		t.Errorf("zero-delay read should see current push, got %g", got[0])
	}
}

func TestStaleAfterDtChange(t *testing.T) {
	b, _ := New(1.0, 0.1, 1, 0)

	if err := b.CheckDt(0.1); err != nil {
		t.Fatalf("matching dt should pass: %v", err)
	}

	if err := b.CheckDt(0.05); !errors.Is(err, neuro.ErrStaleBuffer) {
		t.Fatalf("dt change should invalidate, got %v", err)
	}

	// Once stale, every operation fails, even with the original dt.
	if err := b.Push(neuro.Vector{1}); !errors.Is(err, neuro.ErrStaleBuffer) {
		t.Errorf("push on stale buffer should fail, got %v", err)
	}
	if _, err := b.Read(nil); !errors.Is(err, neuro.ErrStaleBuffer) {
		t.Errorf("read on stale buffer should fail, got %v", err)
	}
	if err := b.CheckDt(0.1); !errors.Is(err, neuro.ErrStaleBuffer) {
		t.Errorf("stale buffer should stay stale, got %v", err)
	}
}

func TestPushWidthMismatch(t *testing.T) {
	b, _ := New(1.0, 0.1, 4, 0)
	if err := b.Push(neuro.Vector{1, 2}); !errors.Is(err, neuro.ErrShape) {
		t.Errorf("width mismatch should fail with ErrShape, got %v", err)
	}
}

func TestCapacityRounding(t *testing.T) {
	cases := []struct {
		delay, dt float64
		steps     int
	}{
		{1.5, 0.1, 15},
		{1.55, 0.1, 16},
		{1.0, 0.1, 10},
		{0.05, 0.1, 1},
	}
	for _, c := range cases {
		b, err := New(c.delay, c.dt, 1, 0)
		if err != nil {
			t.Fatalf("new(%g, %g): %v", c.delay, c.dt, err)
		}
		if b.Steps() != c.steps {
			t.Errorf("delay=%g dt=%g: got %d steps, want %d", c.delay, c.dt, b.Steps(), c.steps)
		}
	}
}
