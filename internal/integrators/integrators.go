// Package integrators provides fixed-step numerical integration rules.
//
// Each rule implements [neuro.Stepper]. The rule for a state field is chosen
// at type-declaration time through [Compile]; picking the exponential rule
// for stiff linear-decay gating variables is the caller's policy decision,
// not something the runtime hardcodes.
package integrators

import (
	"fmt"

	"github.com/san-kum/neurodyn/internal/neuro"
)

const (
	KindEuler       = "euler"
	KindHeun        = "heun"
	KindRK4         = "rk4"
	KindExponential = "exponential"
)

// Compile binds an integration spec to a concrete stepper once per field.
// tau is required (positive) for the exponential rule and ignored otherwise.
func Compile(kind string, tau float64) (neuro.Stepper, error) {
	switch kind {
	case KindEuler, "":
		return NewEuler(), nil
	case KindHeun:
		return NewHeun(), nil
	case KindRK4:
		return NewRK4(), nil
	case KindExponential:
		if tau <= 0 {
			return nil, fmt.Errorf("exponential integrator needs tau > 0, got %g", tau)
		}
		return NewExpEuler(tau), nil
	default:
		return nil, fmt.Errorf("unknown integrator kind: %s", kind)
	}
}
