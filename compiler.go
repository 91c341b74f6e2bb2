//
// Copyright (c) 2023 Markku Rossi
//
// All rights reserved.
//

package scheme

// Compiler lowers an AST to bytecode, tracking tail position as it
// descends. Grounded on original_source/bootstrap/compile.py, whose
// compile(in_tail_pos) methods this type's helpers mirror one for
// one; the struct-accumulator shape (append to c.code as we go,
// rather than returning and concatenating slices) follows the
// teacher's ast.go Bytecode(c *Compiler) error convention instead of
// the Python's return-a-list style.
type Compiler struct {
	code Code
	tail bool
}

// Compile lowers prog to a flat instruction sequence ready for
// VM.Execute.
func Compile(prog AST) (Code, error) {
	c := &Compiler{}
	if err := prog.Bytecode(c); err != nil {
		return nil, err
	}
	return c.code, nil
}

func (c *Compiler) emit(instr *Instr) {
	c.code = append(c.code, instr)
}

// compile lowers ast with the given tail-position flag, by asking the
// node itself to emit its bytecode. Most nodes ignore inTail when
// they don't need it (Literal, SymbolRef); this is the single
// dispatch point every caller in this file goes through, so future
// node kinds need only implement AST.Bytecode.
func (c *Compiler) compile(ast AST, inTail bool) error {
	sub := &Compiler{}
	if err := ast.Bytecode(withTail(sub, inTail)); err != nil {
		return err
	}
	c.code = append(c.code, sub.code...)
	return nil
}

// withTail threads the in-tail flag through a single Bytecode call
// without changing the AST interface's signature: it sets c.tail
// immediately before the node's own Bytecode runs, and each node type
// that cares about tail position reads it back from c.tail.
//
// withTail exists so nodes can be plain AST values (no
// tail flag baked into the tree itself, matching compile.py's
// functional compile(in_tail_pos) signature) while Compiler stays the
// single mutable accumulator the teacher's Bytecode(c *Compiler)
// convention expects.
func withTail(c *Compiler, inTail bool) *Compiler {
	c.tail = inTail
	return c
}

func (c *Compiler) compileSequence(items []AST) error {
	for i, item := range items {
		last := i == len(items)-1
		if last {
			if err := c.compile(item, c.tail); err != nil {
				return err
			}
		} else {
			if err := c.compile(item, false); err != nil {
				return err
			}
			c.emit(&Instr{Op: OpPop})
		}
	}
	return nil
}

func (c *Compiler) compileIf(test, then, els AST) error {
	testC := &Compiler{}
	if err := test.Bytecode(withTail(testC, false)); err != nil {
		return err
	}

	thenC := &Compiler{}
	if err := then.Bytecode(withTail(thenC, c.tail)); err != nil {
		return err
	}

	elseC := &Compiler{}
	if err := els.Bytecode(withTail(elseC, c.tail)); err != nil {
		return err
	}

	thenC.code = append(thenC.code, &Instr{Op: OpJump, Offset: len(elseC.code) + 1})
	testC.code = append(testC.code, &Instr{Op: OpJumpIfFalse, Offset: len(thenC.code) + 1})

	c.code = append(c.code, testC.code...)
	c.code = append(c.code, thenC.code...)
	c.code = append(c.code, elseC.code...)
	return nil
}

func (c *Compiler) compileLambdaBody(body AST) (Code, error) {
	bodyC := &Compiler{}
	if err := body.Bytecode(withTail(bodyC, true)); err != nil {
		return nil, err
	}
	bodyC.emit(&Instr{Op: OpReturn})
	return bodyC.code, nil
}

func (c *Compiler) compileInvoke(callee AST, args []AST) error {
	var exprs []AST
	exprs = append(exprs, callee)
	exprs = append(exprs, args...)

	for _, e := range exprs {
		if err := c.compile(e, false); err != nil {
			return err
		}
	}
	if c.tail {
		c.emit(&Instr{Op: OpInvokeTail, N: len(exprs)})
	} else {
		c.emit(&Instr{Op: OpInvoke, N: len(exprs)})
	}
	return nil
}
