//
// Copyright (c) 2022 Markku Rossi
//
// All rights reserved.
//

package scheme

import "fmt"

// Operand identifies a bytecode instruction. The opcode set is
// closed: literal, load, define, set, pop, jump, jumpiffalse,
// lambda, invoke, invoketail, return, halt.
type Operand int

// Bytecode instructions.
const (
	OpLiteral Operand = iota
	OpLoad
	OpDefine
	OpSet
	OpPop
	OpJump
	OpJumpIfFalse
	OpLambda
	OpInvoke
	OpInvokeTail
	OpReturn
	OpHalt
)

var operands = map[Operand]string{
	OpLiteral:     "literal",
	OpLoad:        "load",
	OpDefine:      "define",
	OpSet:         "set",
	OpPop:         "pop",
	OpJump:        "jump",
	OpJumpIfFalse: "jumpiffalse",
	OpLambda:      "lambda",
	OpInvoke:      "invoke",
	OpInvokeTail:  "invoketail",
	OpReturn:      "return",
	OpHalt:        "halt",
}

func (op Operand) String() string {
	if n, ok := operands[op]; ok {
		return n
	}
	return fmt.Sprintf("{op %d}", op)
}

// Instr is one bytecode instruction. Only the fields relevant to Op
// are meaningful; see §3.2 of the design for the operand shape each
// opcode expects.
type Instr struct {
	Op Operand

	// V is the literal operand of OpLiteral.
	V Value
	// Sym is the symbol operand of OpLoad, OpDefine, OpSet.
	Sym *Symbol
	// Offset is the relative jump operand of OpJump, OpJumpIfFalse.
	Offset int
	// N is the argument count (including callee) of OpInvoke,
	// OpInvokeTail.
	N int
	// Params and Body are the operand of OpLambda.
	Params []*Symbol
	Body   Code
}

func (i *Instr) String() string {
	switch i.Op {
	case OpLiteral:
		if i.V == nil {
			return fmt.Sprintf("\t%s\tnil", i.Op)
		}
		return fmt.Sprintf("\t%s\t%s", i.Op, i.V.Scheme())

	case OpLoad, OpDefine, OpSet:
		return fmt.Sprintf("\t%s\t%s", i.Op, i.Sym.Name)

	case OpJump, OpJumpIfFalse:
		return fmt.Sprintf("\t%s\t+%d", i.Op, i.Offset)

	case OpLambda:
		return fmt.Sprintf("\t%s\t(%s)\t{%d instrs}", i.Op,
			paramsString(i.Params), len(i.Body))

	case OpInvoke, OpInvokeTail:
		return fmt.Sprintf("\t%s\t%d", i.Op, i.N)

	default:
		return fmt.Sprintf("\t%s", i.Op)
	}
}

func paramsString(params []*Symbol) string {
	s := ""
	for idx, p := range params {
		if idx > 0 {
			s += " "
		}
		s += p.Name
	}
	return s
}

// Code is a sequence of instructions: a lambda body or a whole
// program.
type Code []*Instr
