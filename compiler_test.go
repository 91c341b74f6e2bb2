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

func TestCompileLiteralProgram(t *testing.T) {
	code, err := Compile(&Program{Expr: &Literal{Value: Int(5)}})
	require.NoError(t, err)
	require.Len(t, code, 2)
	require.Equal(t, OpLiteral, code[0].Op)
	require.Equal(t, Int(5), code[0].V)
	require.Equal(t, OpHalt, code[1].Op)
}

// TestCompileIfJumpLayout pins down the exact instruction layout
// compile.py's If rule produces:
// <test> jumpiffalse(len(then)+1) <then> jump(len(else)+1) <else>
func TestCompileIfJumpLayout(t *testing.T) {
	code, err := Compile(&Program{Expr: &If{
		Test: &Literal{Value: True},
		Then: &Literal{Value: Int(10)},
		Else: &Literal{Value: Int(20)},
	}})
	require.NoError(t, err)
	require.Len(t, code, 6)

	require.Equal(t, OpLiteral, code[0].Op)
	require.Equal(t, True, code[0].V)

	require.Equal(t, OpJumpIfFalse, code[1].Op)
	require.Equal(t, 3, code[1].Offset)

	require.Equal(t, OpLiteral, code[2].Op)
	require.Equal(t, Int(10), code[2].V)

	require.Equal(t, OpJump, code[3].Op)
	require.Equal(t, 2, code[3].Offset)

	require.Equal(t, OpLiteral, code[4].Op)
	require.Equal(t, Int(20), code[4].V)

	require.Equal(t, OpHalt, code[5].Op)
}

// TestCompileSequencePopsAllButLast checks that every item but the
// last in a Sequence is followed by a pop, and only the last one
// carries the sequence's own tail-position flag through to invoke.
func TestCompileSequencePopsAllButLast(t *testing.T) {
	sym := &Symbol{Name: "f"}
	code, err := Compile(&Program{Expr: Begin(
		&Literal{Value: Int(1)},
		&Literal{Value: Int(2)},
		&Invoke{Callee: &SymbolRef{Sym: sym}, Args: nil},
	)})
	require.NoError(t, err)

	require.Equal(t, OpLiteral, code[0].Op)
	require.Equal(t, OpPop, code[1].Op)
	require.Equal(t, OpLiteral, code[2].Op)
	require.Equal(t, OpPop, code[3].Op)
	require.Equal(t, OpLoad, code[4].Op)
	// last expression of the Program's top-level Sequence is itself in
	// tail position, so its Invoke compiles to invoketail.
	require.Equal(t, OpInvokeTail, code[5].Op)
	require.Equal(t, OpHalt, code[6].Op)
}

// TestCompileInvokeNonTailUsesInvoke checks that an Invoke that is not
// in tail position (e.g. an operand of another Invoke) compiles to
// plain invoke, not invoketail.
func TestCompileInvokeNonTailUsesInvoke(t *testing.T) {
	f := &Symbol{Name: "f"}
	g := &Symbol{Name: "g"}
	code, err := Compile(&Program{Expr: &Invoke{
		Callee: &SymbolRef{Sym: f},
		Args: []AST{
			&Invoke{Callee: &SymbolRef{Sym: g}, Args: nil},
		},
	}})
	require.NoError(t, err)

	var ops []Operand
	for _, instr := range code {
		ops = append(ops, instr.Op)
	}
	// load f, load g, invoke g (non-tail), invoketail f (tail position
	// of the whole program), halt.
	require.Equal(t, []Operand{OpLoad, OpLoad, OpInvoke, OpInvokeTail, OpHalt}, ops)
}

// TestCompileLambdaBodyAlwaysTailReturn checks that a lambda body is
// always compiled with tail=true and terminated with return,
// regardless of the position the lambda expression itself occupies.
func TestCompileLambdaBodyAlwaysTailReturn(t *testing.T) {
	x := &Symbol{Name: "x"}
	code, err := Compile(&Program{Expr: &LambdaExpr{
		Params: []*Symbol{x},
		Body:   &SymbolRef{Sym: x},
	}})
	require.NoError(t, err)
	require.Len(t, code, 2)
	require.Equal(t, OpLambda, code[0].Op)
	require.Equal(t, OpHalt, code[1].Op)

	body := code[0].Body
	require.Len(t, body, 2)
	require.Equal(t, OpLoad, body[0].Op)
	require.Equal(t, OpReturn, body[1].Op)
}

func TestAndShortCircuitsWithoutDoubleEvaluation(t *testing.T) {
	vm := NewVM(Params{})
	calls := 0
	probe := vm.intern("probe")
	vm.GlobalDefine(probe, &NativeFunction{
		Name:   "probe",
		Params: nil,
		Fn: func(vm *VM, frame *Frame, env *Env) (*Frame, error) {
			calls++
			frame.Push(False)
			return frame, nil
		},
	})

	prog := &Program{Expr: And(
		&Invoke{Callee: &SymbolRef{Sym: probe}},
		&Literal{Value: Int(1)},
	)}
	result, err := vm.Run(prog)
	require.NoError(t, err)
	require.Equal(t, False, result)
	require.Equal(t, 1, calls, "first And operand must be evaluated exactly once")
}

// TestOrReturnsFirstTruthyValue exercises Or against this language's
// narrow truthiness (only Bool{true} is truthy, §4.2): a non-boolean
// operand like an Int is never truthy, so every operand here is a
// Bool literal.
func TestOrReturnsFirstTruthyValue(t *testing.T) {
	vm := NewVM(Params{})
	result, err := vm.Run(&Program{Expr: Or(
		&Literal{Value: False},
		&Literal{Value: True},
		&Literal{Value: False},
	)})
	require.NoError(t, err)
	require.Equal(t, True, result)
}

func TestLetBindsAndEvaluatesBody(t *testing.T) {
	vm := NewVM(Params{})
	x := vm.intern("x")
	result, err := vm.Run(&Program{Expr: Let(
		[]LetBinding{{Sym: x, Init: &Literal{Value: Int(7)}}},
		&Invoke{
			Callee: &SymbolRef{Sym: vm.intern("+")},
			Args:   []AST{&SymbolRef{Sym: x}, &Literal{Value: Int(1)}},
		},
	)})
	require.NoError(t, err)
	require.Equal(t, Int(8), result)
}
