//
// Copyright (c) 2022 Markku Rossi
//
// All rights reserved.
//

package scheme

import (
	"fmt"
	"math"
)

// defineBuiltins installs the minimum primitive set (§6.3) plus a
// short call/cc alias for call-with-current-continuation, grounded on
// original_source/poc/runtime/runtime.py's define_natives.
func (vm *VM) defineBuiltins() {
	arg0 := vm.intern("arg0")
	arg1 := vm.intern("arg1")

	vm.defineNative("=", []*Symbol{arg0, arg1}, func(vm *VM, frame *Frame, env *Env) (*Frame, error) {
		a := env.Lookup(arg0)
		b := env.Lookup(arg1)
		frame.Push(Bool{Value: ValuesEqual(a, b)})
		return frame, nil
	})

	vm.defineBinaryArith("+", func(a, b Int) (Value, error) {
		if (b > 0 && a > Int(math.MaxInt64)-b) || (b < 0 && a < Int(math.MinInt64)-b) {
			return nil, fmt.Errorf("integer overflow")
		}
		return a + b, nil
	})
	vm.defineBinaryArith("-", func(a, b Int) (Value, error) {
		if (b < 0 && a > Int(math.MaxInt64)+b) || (b > 0 && a < Int(math.MinInt64)+b) {
			return nil, fmt.Errorf("integer overflow")
		}
		return a - b, nil
	})
	vm.defineBinaryArith("*", func(a, b Int) (Value, error) {
		if a == 0 || b == 0 {
			return Int(0), nil
		}
		result := a * b
		if result/a != b || (a == -1 && b == Int(math.MinInt64)) || (b == -1 && a == Int(math.MinInt64)) {
			return nil, fmt.Errorf("integer overflow")
		}
		return result, nil
	})
	vm.defineBinaryArith("/", func(a, b Int) (Value, error) {
		if b == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		if a == Int(math.MinInt64) && b == -1 {
			return nil, fmt.Errorf("integer overflow")
		}
		return a / b, nil
	})

	vm.defineNative("not", []*Symbol{arg0}, func(vm *VM, frame *Frame, env *Env) (*Frame, error) {
		frame.Push(Bool{Value: !IsTruthy(env.Lookup(arg0))})
		return frame, nil
	})

	vm.defineNative("display", []*Symbol{arg0}, func(vm *VM, frame *Frame, env *Env) (*Frame, error) {
		v := env.Lookup(arg0)
		if s, ok := v.(*String); ok {
			fmt.Print(s.Data)
		} else {
			fmt.Print(v.Scheme())
		}
		frame.Push(Nil)
		return frame, nil
	})

	vm.defineNative("newline", nil, func(vm *VM, frame *Frame, env *Env) (*Frame, error) {
		fmt.Println()
		frame.Push(Nil)
		return frame, nil
	})

	vm.defineNative("call-with-current-continuation", []*Symbol{arg0}, callCC)

	// Short alias of call-with-current-continuation. The bundled
	// examples (cmd/tailscheme) and the tests use the long name.
	vm.defineNative("call/cc", []*Symbol{arg0}, callCC)
}

func (vm *VM) defineNative(name string, params []*Symbol, fn Native) {
	vm.globalEnv.Define(vm.intern(name), &NativeFunction{
		Name:   name,
		Params: params,
		Fn:     fn,
	})
}

// defineBinaryArith wires a binary Int-to-Int (or Int-to-error)
// primitive, sharing the arg0/arg1 parameter convention
// original_source/runtime.py's define_binary_numeric uses.
func (vm *VM) defineBinaryArith(name string, fn func(a, b Int) (Value, error)) {
	arg0 := vm.intern("arg0")
	arg1 := vm.intern("arg1")
	vm.defineNative(name, []*Symbol{arg0, arg1}, func(vm *VM, frame *Frame, env *Env) (*Frame, error) {
		a, ok := env.Lookup(arg0).(Int)
		if !ok {
			return nil, errType(frame.PC, "%s: arg0 must be an integer", name)
		}
		b, ok := env.Lookup(arg1).(Int)
		if !ok {
			return nil, errType(frame.PC, "%s: arg1 must be an integer", name)
		}
		result, err := fn(a, b)
		if err != nil {
			return nil, errType(frame.PC, "%s: %s", name, err)
		}
		frame.Push(result)
		return frame, nil
	})
}
