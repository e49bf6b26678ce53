// Package neuro provides the core vocabulary for neurodynamics simulation.
//
// The package defines the fundamental types shared by every layer of the
// runtime:
//
//   - [Vector]: flat float64 buffer holding one state field
//   - [Mode]: execution shape discipline (scalar, vector, matrix)
//   - [RHS]: normalized right-hand side of a differential equation
//   - [Stepper]: fixed-step numerical integration rule
//   - [StepError]: error context carrying step index and component identity
//
// # Example
//
//	stp, _ := integrators.Compile("exponential", tau)
//	y = stp.Step(rhs, y, t, dt, drive)
//
// # Thread Safety
//
// Vectors and containers built on them are NOT thread-safe. The network
// scheduler guarantees disjoint write sets when it fans a phase out across
// components.
package neuro
