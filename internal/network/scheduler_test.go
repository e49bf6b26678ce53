package network_test

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/neurodyn/internal/component"
	"github.com/san-kum/neurodyn/internal/monitor"
	"github.com/san-kum/neurodyn/internal/network"
	"github.com/san-kum/neurodyn/internal/neuro"
)

// counterType records the order in which its phases run.
func counterType(log *[]string, tag string) *component.NeuType {
	record := func(phase string) component.NeuPhase {
		return component.NeuPhase{
			Name: phase,
			Run: func(g *component.NeuronGroup, t, dt float64) error {
				*log = append(*log, tag+":"+phase)
				return nil
			},
		}
	}
	return &component.NeuType{
		Name:   "counter",
		Fields: []neuro.Field{{Name: "V"}},
		Mode:   neuro.ModeVector,
		Phases: []component.NeuPhase{
			record(component.PhaseInput),
			record(component.PhaseUpdate),
			record(component.PhaseOutput),
		},
	}
}

func failingType(failAtStep int) *component.NeuType {
	step := 0
	return &component.NeuType{
		Name:   "flaky",
		Fields: []neuro.Field{{Name: "V"}},
		Mode:   neuro.ModeVector,
		Phases: []component.NeuPhase{
			{
				Name: component.PhaseUpdate,
				Run: func(g *component.NeuronGroup, t, dt float64) error {
					if step == failAtStep {
						return fmt.Errorf("gate variable diverged")
					}
					step++
					return nil
				},
			},
		},
	}
}

var _ = Describe("Network", func() {
	It("rejects non-positive run parameters", func() {
		net := network.New()

		_, err := net.Run(context.Background(), 0, 0.1, nil)
		Expect(err).To(MatchError(neuro.ErrInvalidDuration))

		_, err = net.Run(context.Background(), 10, -0.1, nil)
		Expect(err).To(MatchError(neuro.ErrInvalidDuration))

		Expect(net.Status()).To(Equal(network.StatusIdle))
	})

	It("completes cleanly back to idle", func() {
		var log []string
		g, err := component.NewGroup("a", counterType(&log, "a"), 1)
		Expect(err).NotTo(HaveOccurred())

		net := network.New(g)
		result, err := net.Run(context.Background(), 1.0, 0.1, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(result.StepsCompleted).To(Equal(10))
		Expect(result.FinalTime).To(BeNumerically("~", 1.0, 1e-12))
		Expect(result.Status).To(Equal(network.StatusIdle))
		Expect(net.Status()).To(Equal(network.StatusIdle))
	})

	It("executes phases in lockstep across components", func() {
		var log []string
		a, _ := component.NewGroup("a", counterType(&log, "a"), 1)
		b, _ := component.NewGroup("b", counterType(&log, "b"), 1)

		net := network.New(a, b)
		_, err := net.Run(context.Background(), 0.1, 0.1, nil)
		Expect(err).NotTo(HaveOccurred())

		// All input phases before any update phase.
		Expect(log).To(Equal([]string{
			"a:input", "b:input",
			"a:update", "b:update",
			"a:output", "b:output",
		}))
	})

	It("executes full pipelines per component when configured", func() {
		var log []string
		a, _ := component.NewGroup("a", counterType(&log, "a"), 1)
		b, _ := component.NewGroup("b", counterType(&log, "b"), 1)

		net := network.New(a, b)
		net.SetPipeline(true)
		_, err := net.Run(context.Background(), 0.1, 0.1, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(log).To(Equal([]string{
			"a:input", "a:update", "a:output",
			"b:input", "b:update", "b:output",
		}))
	})

	It("halts on a phase error and surfaces step and component identity", func() {
		g, _ := component.NewGroup("flaky", failingType(3), 1)

		mon := monitor.New()
		Expect(mon.Attach(g, "V", 1)).To(Succeed())

		net := network.New(g)
		net.AddMonitor(mon)

		result, err := net.Run(context.Background(), 1.0, 0.1, nil)
		Expect(err).To(HaveOccurred())

		var stepErr *neuro.StepError
		Expect(errors.As(err, &stepErr)).To(BeTrue())
		Expect(stepErr.Step).To(Equal(3))
		Expect(stepErr.Component).To(Equal("flaky"))

		Expect(result.Status).To(Equal(network.StatusFailed))
		Expect(net.Status()).To(Equal(network.StatusFailed))

		// Partial history up to the failing step is preserved.
		hist, ok := mon.History("flaky", "V")
		Expect(ok).To(BeTrue())
		Expect(hist).To(HaveLen(3))
	})

	It("stops between steps on context cancellation", func() {
		var log []string
		g, _ := component.NewGroup("a", counterType(&log, "a"), 1)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		net := network.New(g)
		result, err := net.Run(ctx, 1.0, 0.1, nil)
		Expect(err).To(MatchError(context.Canceled))
		Expect(result.StepsCompleted).To(Equal(0))
		Expect(log).To(BeEmpty())
	})

	It("rejects external inputs on undeclared fields before stepping", func() {
		var log []string
		g, _ := component.NewGroup("a", counterType(&log, "a"), 1)

		net := network.New(g)
		_, err := net.Run(context.Background(), 1.0, 0.1, []network.ExternalInput{
			{Group: g, Field: "missing", Value: 1.0},
		})
		Expect(err).To(MatchError(neuro.ErrUnknownField))
		Expect(log).To(BeEmpty())
	})

	It("produces identical results with parallel phase execution", func() {
		build := func() (*network.Network, *component.NeuronGroup) {
			typ := &component.NeuType{
				Name:   "accum",
				Fields: []neuro.Field{{Name: "V"}, {Name: "inp"}},
				Mode:   neuro.ModeVector,
				Phases: []component.NeuPhase{
					{
						Name: component.PhaseUpdate,
						Run: func(g *component.NeuronGroup, t, dt float64) error {
							v, _ := g.ST().Get("V")
							inp, _ := g.ST().Get("inp")
							for i := range v {
								v[i] += dt * (inp[i] - 0.1*v[i])
							}
							return nil
						},
					},
				},
			}
			g, _ := component.NewGroup("accum", typ, 50)
			return network.New(g), g
		}

		serialNet, serialG := build()
		parallelNet, parallelG := build()
		parallelNet.SetParallel(true)

		in := func(g *component.NeuronGroup) []network.ExternalInput {
			return []network.ExternalInput{{Group: g, Field: "inp", Value: 2.0}}
		}

		_, err := serialNet.Run(context.Background(), 5.0, 0.1, in(serialG))
		Expect(err).NotTo(HaveOccurred())
		_, err = parallelNet.Run(context.Background(), 5.0, 0.1, in(parallelG))
		Expect(err).NotTo(HaveOccurred())

		vs, _ := serialG.ST().Get("V")
		vp, _ := parallelG.ST().Get("V")
		Expect(vp).To(Equal(vs))
	})
})
