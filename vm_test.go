//
// Copyright (c) 2023 Markku Rossi
//
// All rights reserved.
//

package scheme

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArithmetic(t *testing.T) {
	vm := NewVM(Params{})
	result, err := vm.Run(&Program{Expr: &Invoke{
		Callee: &SymbolRef{Sym: vm.intern("+")},
		Args:   []AST{&Literal{Value: Int(2)}, &Literal{Value: Int(3)}},
	}})
	require.NoError(t, err)
	require.Equal(t, Int(5), result)
}

func TestDivisionByZeroIsTypeError(t *testing.T) {
	vm := NewVM(Params{})
	_, err := vm.Run(&Program{Expr: &Invoke{
		Callee: &SymbolRef{Sym: vm.intern("/")},
		Args:   []AST{&Literal{Value: Int(1)}, &Literal{Value: Int(0)}},
	}})
	require.Error(t, err)
	serr, ok := err.(*SchemeError)
	require.True(t, ok)
	require.Equal(t, TypeError, serr.Kind)
}

func TestConditional(t *testing.T) {
	vm := NewVM(Params{})
	result, err := vm.Run(&Program{Expr: &If{
		Test: &Invoke{
			Callee: &SymbolRef{Sym: vm.intern("=")},
			Args:   []AST{&Literal{Value: Int(1)}, &Literal{Value: Int(1)}},
		},
		Then: &Literal{Value: Int(10)},
		Else: &Literal{Value: Int(20)},
	}})
	require.NoError(t, err)
	require.Equal(t, Int(10), result)
}

// buildFactorial returns (define (factorial n) (if (= n 0) 1 (* n
// (factorial (- n 1))))) followed by (factorial n), a non-tail
// recursive program whose frame depth grows with n.
func buildFactorial(vm *VM, n int64) AST {
	factorial := vm.intern("factorial")
	nSym := vm.intern("n")
	return &Program{Expr: Begin(
		&Define{
			Sym: factorial,
			Expr: &LambdaExpr{
				Name:   "factorial",
				Params: []*Symbol{nSym},
				Body: &If{
					Test: &Invoke{
						Callee: &SymbolRef{Sym: vm.intern("=")},
						Args:   []AST{&SymbolRef{Sym: nSym}, &Literal{Value: Int(0)}},
					},
					Then: &Literal{Value: Int(1)},
					Else: &Invoke{
						Callee: &SymbolRef{Sym: vm.intern("*")},
						Args: []AST{
							&SymbolRef{Sym: nSym},
							&Invoke{
								Callee: &SymbolRef{Sym: factorial},
								Args: []AST{
									&Invoke{
										Callee: &SymbolRef{Sym: vm.intern("-")},
										Args:   []AST{&SymbolRef{Sym: nSym}, &Literal{Value: Int(1)}},
									},
								},
							},
						},
					},
				},
			},
		},
		&Invoke{
			Callee: &SymbolRef{Sym: factorial},
			Args:   []AST{&Literal{Value: Int(n)}},
		},
	)}
}

func TestFactorialNonTailRecursion(t *testing.T) {
	vm := NewVM(Params{})
	result, err := vm.Run(buildFactorial(vm, 5))
	require.NoError(t, err)
	require.Equal(t, Int(120), result)
}

// buildTailLoop returns (define (loop n) (if (= n 0) 'done (loop (- n
// 1)))) followed by (loop n), a tail-recursive program.
func buildTailLoop(vm *VM, n int64) AST {
	loop := vm.intern("loop")
	nSym := vm.intern("n")
	return &Program{Expr: Begin(
		&Define{
			Sym: loop,
			Expr: &LambdaExpr{
				Name:   "loop",
				Params: []*Symbol{nSym},
				Body: &If{
					Test: &Invoke{
						Callee: &SymbolRef{Sym: vm.intern("=")},
						Args:   []AST{&SymbolRef{Sym: nSym}, &Literal{Value: Int(0)}},
					},
					Then: &Literal{Value: vm.intern("done")},
					Else: &Invoke{
						Callee: &SymbolRef{Sym: loop},
						Args: []AST{
							&Invoke{
								Callee: &SymbolRef{Sym: vm.intern("-")},
								Args:   []AST{&SymbolRef{Sym: nSym}, &Literal{Value: Int(1)}},
							},
						},
					},
				},
			},
		},
		&Invoke{
			Callee: &SymbolRef{Sym: loop},
			Args:   []AST{&Literal{Value: Int(n)}},
		},
	)}
}

func TestTailLoopTerminates(t *testing.T) {
	vm := NewVM(Params{})
	result, err := vm.Run(buildTailLoop(vm, 100000))
	require.NoError(t, err)
	sym, ok := result.(*Symbol)
	require.True(t, ok)
	require.Equal(t, "done", sym.Name)
}

// TestTailLoopFrameDepthIsBounded drives the dispatch loop one
// instruction at a time and asserts that invoketail never grows the
// frame chain, regardless of how many iterations the loop runs —
// the defining property of proper tail calls (§8.1).
func TestTailLoopFrameDepthIsBounded(t *testing.T) {
	vm := NewVM(Params{})
	code, err := Compile(buildTailLoop(vm, 1000))
	require.NoError(t, err)

	frame := NewFrame(code, NewEnv(vm.globalEnv), nil)
	maxDepth := 0
	for {
		next, _, halted, err := vm.Step(frame)
		require.NoError(t, err)
		if halted {
			break
		}
		if d := next.Depth(); d > maxDepth {
			maxDepth = d
		}
		frame = next
	}
	require.LessOrEqual(t, maxDepth, 3, "invoketail must not grow the frame chain across iterations")
}

// TestNonTailRecursionGrowsFrameDepth is the contrasting case: plain
// invoke (factorial's multiplication is not in tail position) does
// grow the frame chain with n, so MaxFrameDepth can bound it.
func TestNonTailRecursionGrowsFrameDepth(t *testing.T) {
	vm := NewVM(Params{MaxFrameDepth: 3})
	_, err := vm.Run(buildFactorial(vm, 10))
	require.Error(t, err)
	serr, ok := err.(*SchemeError)
	require.True(t, ok)
	require.Equal(t, MalformedBytecode, serr.Kind)
}

func TestClosureCapturesDefiningEnvironment(t *testing.T) {
	vm := NewVM(Params{})
	makeAdder := vm.intern("make-adder")
	n := vm.intern("n")
	x := vm.intern("x")

	prog := &Program{Expr: Begin(
		&Define{
			Sym: makeAdder,
			Expr: &LambdaExpr{
				Params: []*Symbol{n},
				Body: &LambdaExpr{
					Params: []*Symbol{x},
					Body: &Invoke{
						Callee: &SymbolRef{Sym: vm.intern("+")},
						Args:   []AST{&SymbolRef{Sym: x}, &SymbolRef{Sym: n}},
					},
				},
			},
		},
		&Invoke{
			Callee: &Invoke{
				Callee: &SymbolRef{Sym: makeAdder},
				Args:   []AST{&Literal{Value: Int(10)}},
			},
			Args: []AST{&Literal{Value: Int(5)}},
		},
	)}
	result, err := vm.Run(prog)
	require.NoError(t, err)
	require.Equal(t, Int(15), result)
}

func TestLambdaArityMismatch(t *testing.T) {
	vm := NewVM(Params{})
	x := vm.intern("x")
	prog := &Program{Expr: &Invoke{
		Callee: &LambdaExpr{Params: []*Symbol{x}, Body: &SymbolRef{Sym: x}},
		Args:   nil,
	}}
	_, err := vm.Run(prog)
	require.Error(t, err)
	serr, ok := err.(*SchemeError)
	require.True(t, ok)
	require.Equal(t, ArityMismatch, serr.Kind)
}

func TestStepBudgetExceeded(t *testing.T) {
	vm := NewVM(Params{MaxSteps: 5})
	_, err := vm.Run(buildTailLoop(vm, 100000))
	require.Error(t, err)
	serr, ok := err.(*SchemeError)
	require.True(t, ok)
	require.Equal(t, StepBudgetExceeded, serr.Kind)
}

func TestHaltRequiresExactlyOneStackValue(t *testing.T) {
	vm := NewVM(Params{})
	code := Code{
		&Instr{Op: OpLiteral, V: Int(1)},
		&Instr{Op: OpLiteral, V: Int(2)},
		&Instr{Op: OpHalt},
	}
	_, err := vm.Execute(code)
	require.Error(t, err)
	serr, ok := err.(*SchemeError)
	require.True(t, ok)
	require.Equal(t, MalformedBytecode, serr.Kind)
}
