//
// Copyright (c) 2022 Markku Rossi
//
// All rights reserved.
//

package scheme

import "fmt"

// VM is a Scheme virtual machine: a symbol table and a global
// environment, plus the single-frame dispatch loop that drives
// execution to completion. The VM is single-threaded and synchronous
// (see SPEC_FULL.md §5): there is always exactly one current frame,
// and natives never yield mid-call except by returning a new frame.
type VM struct {
	symbols   map[string]*Symbol
	globalEnv *Env
	Params    Params

	steps int
}

// NewVM creates a virtual machine with the standard primitives
// (§6.3) and the call/cc alias already defined in its global
// environment.
func NewVM(params Params) *VM {
	vm := &VM{
		symbols:   make(map[string]*Symbol),
		globalEnv: NewEnv(nil),
		Params:    params,
	}
	vm.defineBuiltins()
	return vm
}

// intern returns the canonical *Symbol for name, creating it on
// first use. Symbols with equal names are identical, so identity
// comparison suffices for symbol equality.
func (vm *VM) intern(name string) *Symbol {
	if s, ok := vm.symbols[name]; ok {
		return s
	}
	s := &Symbol{Name: name}
	vm.symbols[name] = s
	return s
}

// Intern is the exported form of intern, used by callers assembling
// ASTs outside the package (cmd/tailscheme, tests, internal/wire).
func (vm *VM) Intern(name string) *Symbol {
	return vm.intern(name)
}

// GlobalDefine seeds the global environment. Used to install
// additional primitives or constants before running a program.
func (vm *VM) GlobalDefine(sym *Symbol, val Value) {
	vm.globalEnv.Define(sym, val)
}

// GlobalEnv returns the VM's global environment.
func (vm *VM) GlobalEnv() *Env {
	return vm.globalEnv
}

// Run compiles and executes prog's AST and returns the final value on
// the top-level frame's stack when halt executes.
func (vm *VM) Run(prog AST) (Value, error) {
	vm.verbosef("compile:\n")
	code, err := Compile(prog)
	if err != nil {
		return nil, err
	}
	vm.verbosef("%6d : instructions\n", len(code))
	return vm.Execute(code)
}

// Execute drives the dispatch loop over a freshly created top-level
// frame until halt, returning the value left on its stack.
func (vm *VM) Execute(code Code) (Value, error) {
	vm.verbosef("execute: %d instructions\n", len(code))
	frame := NewFrame(code, NewEnv(vm.globalEnv), nil)
	return vm.evaluate(frame)
}

// Import creates an initial frame in a fresh child of the global
// environment, evaluates code there, then promotes every binding the
// evaluation created into the global environment (§6.2).
func (vm *VM) Import(code Code) error {
	env := NewEnv(vm.globalEnv)
	frame := NewFrame(code, env, nil)
	if _, err := vm.evaluate(frame); err != nil {
		return err
	}
	for _, name := range env.Names() {
		vm.globalEnv.Define(name, env.Lookup(name))
	}
	return nil
}

// evaluate is the dispatch loop: it mutates the current frame opcode
// by opcode until halt executes, following frame swaps for invoke,
// invoketail, return, and continuation application.
func (vm *VM) evaluate(frame *Frame) (Value, error) {
	vm.steps = 0
	for {
		next, result, halted, err := vm.Step(frame)
		if err != nil {
			return nil, err
		}
		if halted {
			return result, nil
		}
		frame = next
	}
}

// Step executes exactly one instruction of frame and reports whether
// the program halted. It is the dispatch loop's single iteration,
// exported so cmd/tailscheme's watch TUI can single-step a program and
// observe PC, stack, and frame depth between instructions instead of
// running it to completion via evaluate.
func (vm *VM) Step(frame *Frame) (next *Frame, result Value, halted bool, err error) {
	if vm.Params.MaxSteps > 0 {
		vm.steps++
		if vm.steps > vm.Params.MaxSteps {
			return nil, nil, false, newError(StepBudgetExceeded, frame.PC, "exceeded %d steps", vm.Params.MaxSteps)
		}
	}
	if vm.Params.MaxFrameDepth > 0 && frame.Depth() > vm.Params.MaxFrameDepth {
		return nil, nil, false, newError(MalformedBytecode, frame.PC, "frame depth exceeded %d", vm.Params.MaxFrameDepth)
	}

	if frame.PC < 0 || frame.PC >= len(frame.Bytecode) {
		return nil, nil, false, errMalformed(frame.PC, "program counter out of range")
	}
	instr := frame.Bytecode[frame.PC]
	vm.verbosef("%6d : %v\n", frame.PC, instr)

	switch instr.Op {
	case OpLiteral:
		frame.PC++
		frame.Push(instr.V)
		next = frame

	case OpLoad:
		frame.PC++
		frame.Push(frame.Env.Lookup(instr.Sym))
		next = frame

	case OpDefine:
		frame.PC++
		val := frame.Pop()
		frame.Env.Define(instr.Sym, val)
		frame.Push(Nil)
		next = frame

	case OpSet:
		frame.PC++
		val := frame.Pop()
		if err := frame.Env.Set(instr.Sym, val); err != nil {
			return nil, nil, false, withPC(err, frame.PC-1)
		}
		frame.Push(Nil)
		next = frame

	case OpPop:
		frame.PC++
		frame.Pop()
		next = frame

	case OpJump:
		frame.PC += instr.Offset
		next = frame

	case OpJumpIfFalse:
		val := frame.Pop()
		if !IsTruthy(val) {
			frame.PC += instr.Offset
		} else {
			frame.PC++
		}
		next = frame

	case OpLambda:
		frame.PC++
		frame.Push(&Lambda{
			Params: instr.Params,
			Body:   instr.Body,
			Env:    frame.Env,
		})
		next = frame

	case OpInvoke:
		frame.PC++
		n, callErr := vm.call(frame, instr.N, frame)
		if callErr != nil {
			return nil, nil, false, callErr
		}
		next = n

	case OpInvokeTail:
		frame.PC++
		// The top-level frame has no outer frame to hand on, so a tail
		// call from it returns into it and its halt still runs.
		returnTo := frame.Outer
		if returnTo == nil {
			returnTo = frame
		}
		n, callErr := vm.call(frame, instr.N, returnTo)
		if callErr != nil {
			return nil, nil, false, callErr
		}
		next = n

	case OpReturn:
		val := frame.Pop()
		if frame.Outer == nil {
			return nil, nil, false, errMalformed(frame.PC, "return with no outer frame")
		}
		frame.Outer.Push(val)
		next = frame.Outer

	case OpHalt:
		if len(frame.Stack) != 1 {
			return nil, nil, false, errMalformed(frame.PC, "halt with %d values on stack, want 1", len(frame.Stack))
		}
		return nil, frame.Stack[0], true, nil

	default:
		return nil, nil, false, errMalformed(frame.PC, "unknown opcode %v", instr.Op)
	}

	return next, nil, false, nil
}

// call implements the call protocol shared by invoke and invoketail
// (§4.4). returnTo is the frame a Lambda callee's new frame resumes
// into on return: the calling frame itself for invoke (non-tail), or
// the calling frame's outer for invoketail (tail call — this is what
// keeps the outer-frame chain from growing; from the top-level frame,
// which has no outer, invoketail passes that frame itself).
func (vm *VM) call(frame *Frame, n int, returnTo *Frame) (*Frame, error) {
	if n < 1 {
		return nil, errMalformed(frame.PC, "invoke with N=%d, want >= 1", n)
	}
	args := make([]Value, n-1)
	for i := len(args) - 1; i >= 0; i-- {
		args[i] = frame.Pop()
	}
	callee := frame.Pop()

	switch fn := callee.(type) {
	case *Lambda:
		if len(args) != len(fn.Params) {
			return nil, errArity(frame.PC, "lambda wants %d arguments, got %d", len(fn.Params), len(args))
		}
		env := NewEnv(fn.Env)
		for i, p := range fn.Params {
			env.Define(p, args[i])
		}
		return NewFrame(fn.Body, env, returnTo), nil

	case *NativeFunction:
		if len(args) != len(fn.Params) {
			return nil, errArity(frame.PC, "native %s wants %d arguments, got %d", fn.Name, len(fn.Params), len(args))
		}
		env := NewEnv(vm.globalEnv)
		for i, p := range fn.Params {
			env.Define(p, args[i])
		}
		next, err := fn.Fn(vm, frame, env)
		if err != nil {
			return nil, withPC(err, frame.PC)
		}
		return next, nil

	case *Continuation:
		if len(args) != 1 {
			return nil, errArity(frame.PC, "continuation takes exactly 1 argument, got %d", len(args))
		}
		return fn.invoke(args[0]), nil

	default:
		return nil, errType(frame.PC, "cannot invoke %s", fmt.Sprintf("%T", callee))
	}
}
