//
// Copyright (c) 2022 Markku Rossi
//
// All rights reserved.
//

package scheme

import "github.com/google/uuid"

// newContinuation captures frame as a first-class Continuation. The
// id is a display-only label (used by the debugger and the watch
// TUI); it carries no language semantics and is never compared by =.
func newContinuation(frame *Frame) *Continuation {
	return &Continuation{
		Frame: frame.clone(),
		id:    uuid.NewString()[:8],
	}
}

// invoke implements applying a continuation to a single argument:
// replace the current frame with a restart of the captured one and
// push the argument. Cloning the captured frame here (rather than
// handing out the stored one directly) is what makes continuations
// multi-shot — invoking the same Continuation twice produces two
// independent restarts that do not share operand-stack mutations.
func (c *Continuation) invoke(arg Value) *Frame {
	restart := c.Frame.clone()
	restart.Push(arg)
	return restart
}

// callCC is the native implementation of
// call-with-current-continuation. It captures the calling frame —
// already advanced past the invoke that entered call/cc, per the
// standard native call protocol — and enters the receiver lambda in a
// new frame whose outer frame is the calling frame, with the
// continuation as its sole argument.
func callCC(vm *VM, frame *Frame, env *Env) (*Frame, error) {
	argSym := vm.intern("arg0")
	arg := env.Lookup(argSym)

	lambda, ok := arg.(*Lambda)
	if !ok {
		return nil, errType(frame.PC, "call/cc argument must be a lambda, got %s", arg.Type())
	}
	if len(lambda.Params) != 1 {
		return nil, errType(frame.PC, "call/cc argument must take exactly 1 argument, got %d", len(lambda.Params))
	}

	cont := newContinuation(frame)

	innerEnv := NewEnv(lambda.Env)
	innerEnv.Define(lambda.Params[0], cont)

	return NewFrame(lambda.Body, innerEnv, frame), nil
}
