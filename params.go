//
// Copyright (c) 2022 Markku Rossi
//
// All rights reserved.
//

package scheme

import "fmt"

// Params configures a VM instance. It is the module's entire
// configuration surface: there is no file-based config format,
// because the VM has no deployment-time settings beyond these.
type Params struct {
	// Verbose enables compile/load tracing via verbosef.
	Verbose bool
	// Quiet suppresses the normal result-printing the CLI does after
	// a run.
	Quiet bool
	// MaxSteps bounds the number of dispatch-loop ticks a single
	// evaluate() call may take before failing with
	// StepBudgetExceeded. Zero means unbounded. This is a host-level
	// sandboxing knob (§5), not part of the language semantics.
	MaxSteps int
	// MaxFrameDepth bounds the outer-frame chain depth evaluate() may
	// reach before failing. Zero means unbounded. The tests use it to
	// show that non-tail recursion grows the frame chain; the tail-call
	// boundedness test (§8.1) samples Frame.Depth() instead.
	MaxFrameDepth int
}

// verbosef prints a trace line if Params.Verbose is set, matching the
// teacher's verbose-gated fmt.Printf idiom.
func (vm *VM) verbosef(format string, a ...interface{}) {
	if vm.Params.Verbose {
		fmt.Printf(format, a...)
	}
}
