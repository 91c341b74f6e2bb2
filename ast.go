//
// Copyright (c) 2023 Markku Rossi
//
// All rights reserved.
//

package scheme

import "fmt"

// AST is an abstract syntax tree node. The compiler exposes one
// operation per node: Bytecode emits the node's instructions into c,
// given the tail-position flag c carries for this call.
type AST interface {
	Bytecode(c *Compiler) error
}

var (
	_ AST = &Program{}
	_ AST = &Sequence{}
	_ AST = &Literal{}
	_ AST = &SymbolRef{}
	_ AST = &Define{}
	_ AST = &Set{}
	_ AST = &If{}
	_ AST = &LambdaExpr{}
	_ AST = &Invoke{}
)

// Program is the root of a compiled unit: its expression is compiled
// in tail position, then a halt instruction is appended (§4.1).
type Program struct {
	Expr AST
}

// Bytecode implements AST.
func (ast *Program) Bytecode(c *Compiler) error {
	if err := c.compile(ast.Expr, true); err != nil {
		return err
	}
	c.emit(&Instr{Op: OpHalt})
	return nil
}

// Sequence is a (begin e1 e2 ... en) form. All but the last
// expression are compiled out of tail position and popped; the last
// inherits the sequence's own tail-position flag (§4.1).
type Sequence struct {
	Items []AST
}

// Bytecode implements AST.
func (ast *Sequence) Bytecode(c *Compiler) error {
	return c.compileSequence(ast.Items)
}

// Begin is a named alias of Sequence, matching the classical Scheme
// name for this form (SPEC_FULL.md §4.1.1).
func Begin(items ...AST) *Sequence {
	return &Sequence{Items: items}
}

// Literal is a constant value. Tail position is ignored.
type Literal struct {
	Value Value
}

// Bytecode implements AST.
func (ast *Literal) Bytecode(c *Compiler) error {
	c.emit(&Instr{Op: OpLiteral, V: ast.Value})
	return nil
}

// SymbolRef is a variable reference. Tail position is ignored; lookup
// never fails (§4.3).
type SymbolRef struct {
	Sym *Symbol
}

// Bytecode implements AST.
func (ast *SymbolRef) Bytecode(c *Compiler) error {
	c.emit(&Instr{Op: OpLoad, Sym: ast.Sym})
	return nil
}

// Define binds Sym, in the current environment, to the value of Expr.
// Expr is never in tail position.
type Define struct {
	Sym  *Symbol
	Expr AST
}

// Bytecode implements AST.
func (ast *Define) Bytecode(c *Compiler) error {
	if err := c.compile(ast.Expr, false); err != nil {
		return err
	}
	c.emit(&Instr{Op: OpDefine, Sym: ast.Sym})
	return nil
}

// Set rebinds Sym in the nearest enclosing scope that already holds
// it. Expr is never in tail position.
type Set struct {
	Sym  *Symbol
	Expr AST
}

// Bytecode implements AST.
func (ast *Set) Bytecode(c *Compiler) error {
	if err := c.compile(ast.Expr, false); err != nil {
		return err
	}
	c.emit(&Instr{Op: OpSet, Sym: ast.Sym})
	return nil
}

// If is a conditional. Test is never in tail position; Then and Else
// inherit the If's own tail-position flag. The emitted layout is
// exactly <test> jumpiffalse(len(then)+1) <then> jump(len(else)+1)
// <else> (§4.1).
type If struct {
	Test AST
	Then AST
	Else AST
}

// Bytecode implements AST.
func (ast *If) Bytecode(c *Compiler) error {
	return c.compileIf(ast.Test, ast.Then, ast.Else)
}

// LambdaExpr is a lambda expression. Its body is always compiled in
// tail position and terminated with return (§4.1).
type LambdaExpr struct {
	Params []*Symbol
	Body   AST
	Name   string
}

// Bytecode implements AST.
func (ast *LambdaExpr) Bytecode(c *Compiler) error {
	body, err := c.compileLambdaBody(ast.Body)
	if err != nil {
		return err
	}
	c.emit(&Instr{Op: OpLambda, Params: ast.Params, Body: body})
	return nil
}

// Invoke is a procedure application: Callee applied to Args. Callee
// and each argument are compiled out of tail position; the call
// itself emits invoketail iff Invoke is in tail position, else invoke
// (§4.1).
type Invoke struct {
	Callee AST
	Args   []AST
}

// Bytecode implements AST.
func (ast *Invoke) Bytecode(c *Compiler) error {
	return c.compileInvoke(ast.Callee, ast.Args)
}

// --- Supplemental surface syntax (SPEC_FULL.md §4.1.1) ---
//
// These are desugaring constructors, not new AST node kinds or
// opcodes: each returns a tree built entirely out of the nine forms
// above, so tail-position analysis applies to the expansion exactly
// as it would to hand-written Program/Sequence/If/Lambda/Invoke.

var gensymCounter int

// gensym returns a fresh, never-reused symbol for desugaring
// constructors that need a temporary binding (And/Or below), so the
// expression they bind is evaluated exactly once.
func gensym(prefix string) *Symbol {
	gensymCounter++
	return &Symbol{Name: fmt.Sprintf("%s%d", prefix, gensymCounter)}
}

// And desugars to nested Ifs that short-circuit on the first falsy
// value, returning it; an empty And is the literal #t. exprs[0] is
// bound once to a fresh temporary so it is not evaluated twice.
func And(exprs ...AST) AST {
	if len(exprs) == 0 {
		return &Literal{Value: True}
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	tmp := gensym("and")
	return Let([]LetBinding{{Sym: tmp, Init: exprs[0]}},
		&If{
			Test: &SymbolRef{Sym: tmp},
			Then: And(exprs[1:]...),
			Else: &SymbolRef{Sym: tmp},
		})
}

// Or desugars to nested Ifs that short-circuit on the first truthy
// value, returning it; an empty Or is the literal #f. exprs[0] is
// bound once to a fresh temporary so it is not evaluated twice.
func Or(exprs ...AST) AST {
	if len(exprs) == 0 {
		return &Literal{Value: False}
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	tmp := gensym("or")
	return Let([]LetBinding{{Sym: tmp, Init: exprs[0]}},
		&If{
			Test: &SymbolRef{Sym: tmp},
			Then: &SymbolRef{Sym: tmp},
			Else: Or(exprs[1:]...),
		})
}

// LetBinding is one (name init) pair of a Let form.
type LetBinding struct {
	Sym  *Symbol
	Init AST
}

// Let desugars to an immediately-applied lambda: (let ((x v)) body) =>
// ((lambda (x) body) v). The application takes whatever tail
// position the Let itself occupies, and the body, like every lambda
// body, is compiled in tail position, through the ordinary
// Lambda/Invoke propagation rules.
func Let(bindings []LetBinding, body ...AST) AST {
	params := make([]*Symbol, len(bindings))
	args := make([]AST, len(bindings))
	for i, b := range bindings {
		params[i] = b.Sym
		args[i] = b.Init
	}
	return &Invoke{
		Callee: &LambdaExpr{Params: params, Body: Begin(body...)},
		Args:   args,
	}
}
