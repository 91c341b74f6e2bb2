//
// Copyright (c) 2023 Markku Rossi
//
// All rights reserved.
//

// Package wire is the bytecode export/import collaborator named
// "transpiler" in spec.md §6.4 and expanded in SPEC_FULL.md §11. It
// turns a compiled scheme.Code into a reloadable YAML document and
// back, preserving opcode identity, literal value variant and
// payload, lambda parameter lists, and nested lambda bodies.
//
// Grounded on original_source/poc/transpiler.py, which walks a
// compiled program and emits a small Python module that reconstructs
// it at load time; this package does the equivalent job with a
// textual, declarative encoding instead of generated source code,
// using gopkg.in/yaml.v3 for the on-disk format.
package wire

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/tailscheme/tailscheme"
)

// instr is the wire shape of one scheme.Instr.
type instr struct {
	Op      string  `yaml:"op"`
	Literal *lit    `yaml:"literal,omitempty"`
	Sym     string  `yaml:"sym,omitempty"`
	Offset  int     `yaml:"offset,omitempty"`
	N       int     `yaml:"n,omitempty"`
	Params  []string `yaml:"params,omitempty"`
	Body    []instr `yaml:"body,omitempty"`
}

// lit is the wire shape of a literal value: a type tag plus its
// payload, so Decode can reconstruct the right scheme.Value variant.
type lit struct {
	Type string `yaml:"type"`
	Bool bool   `yaml:"bool,omitempty"`
	Int  int64  `yaml:"int,omitempty"`
	Str  string `yaml:"str,omitempty"`
	Sym  string `yaml:"sym,omitempty"`
}

// Encode serializes code to a YAML document conformant with
// spec.md §6.4: opcode identity, literal variant+payload, lambda
// parameter lists, and nested lambda bodies all round-trip.
func Encode(code scheme.Code) ([]byte, error) {
	wired, err := toWire(code)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(wired)
}

// Decode parses a YAML document produced by Encode back into
// scheme.Code. Symbols are interned through vm, so a decoded program
// shares symbol identity with programs built in the same process.
func Decode(data []byte, vm *scheme.VM) (scheme.Code, error) {
	var wired []instr
	if err := yaml.Unmarshal(data, &wired); err != nil {
		return nil, err
	}
	return fromWire(wired, vm)
}

func toWire(code scheme.Code) ([]instr, error) {
	out := make([]instr, 0, len(code))
	for _, in := range code {
		w := instr{Op: in.Op.String()}
		switch in.Op {
		case scheme.OpLiteral:
			l, err := toWireLit(in.V)
			if err != nil {
				return nil, err
			}
			w.Literal = l
		case scheme.OpLoad, scheme.OpDefine, scheme.OpSet:
			w.Sym = in.Sym.Name
		case scheme.OpJump, scheme.OpJumpIfFalse:
			w.Offset = in.Offset
		case scheme.OpInvoke, scheme.OpInvokeTail:
			w.N = in.N
		case scheme.OpLambda:
			for _, p := range in.Params {
				w.Params = append(w.Params, p.Name)
			}
			body, err := toWire(in.Body)
			if err != nil {
				return nil, err
			}
			w.Body = body
		}
		out = append(out, w)
	}
	return out, nil
}

func toWireLit(v scheme.Value) (*lit, error) {
	switch val := v.(type) {
	case scheme.NilValue:
		return &lit{Type: "nil"}, nil
	case scheme.Bool:
		return &lit{Type: "bool", Bool: val.Value}, nil
	case scheme.Int:
		return &lit{Type: "int", Int: int64(val)}, nil
	case *scheme.Symbol:
		return &lit{Type: "symbol", Sym: val.Name}, nil
	case *scheme.String:
		return &lit{Type: "string", Str: val.Data}, nil
	default:
		return nil, fmt.Errorf("wire: literal of type %v is not encodable", v.Type())
	}
}

func fromWire(wired []instr, vm *scheme.VM) (scheme.Code, error) {
	code := make(scheme.Code, 0, len(wired))
	for _, w := range wired {
		op, ok := opFromName(w.Op)
		if !ok {
			return nil, fmt.Errorf("wire: unknown opcode %q", w.Op)
		}
		in := &scheme.Instr{Op: op}
		switch op {
		case scheme.OpLiteral:
			v, err := fromWireLit(w.Literal, vm)
			if err != nil {
				return nil, err
			}
			in.V = v
		case scheme.OpLoad, scheme.OpDefine, scheme.OpSet:
			in.Sym = vm.Intern(w.Sym)
		case scheme.OpJump, scheme.OpJumpIfFalse:
			in.Offset = w.Offset
		case scheme.OpInvoke, scheme.OpInvokeTail:
			in.N = w.N
		case scheme.OpLambda:
			for _, name := range w.Params {
				in.Params = append(in.Params, vm.Intern(name))
			}
			body, err := fromWire(w.Body, vm)
			if err != nil {
				return nil, err
			}
			in.Body = body
		}
		code = append(code, in)
	}
	return code, nil
}

func fromWireLit(l *lit, vm *scheme.VM) (scheme.Value, error) {
	if l == nil {
		return nil, fmt.Errorf("wire: literal instruction missing its literal payload")
	}
	switch l.Type {
	case "nil":
		return scheme.Nil, nil
	case "bool":
		return scheme.Bool{Value: l.Bool}, nil
	case "int":
		return scheme.Int(l.Int), nil
	case "symbol":
		return vm.Intern(l.Sym), nil
	case "string":
		return scheme.NewString(l.Str), nil
	default:
		return nil, fmt.Errorf("wire: unknown literal type %q", l.Type)
	}
}

var opNames = map[string]scheme.Operand{
	"literal":     scheme.OpLiteral,
	"load":        scheme.OpLoad,
	"define":      scheme.OpDefine,
	"set":         scheme.OpSet,
	"pop":         scheme.OpPop,
	"jump":        scheme.OpJump,
	"jumpiffalse": scheme.OpJumpIfFalse,
	"lambda":      scheme.OpLambda,
	"invoke":      scheme.OpInvoke,
	"invoketail":  scheme.OpInvokeTail,
	"return":      scheme.OpReturn,
	"halt":        scheme.OpHalt,
}

func opFromName(name string) (scheme.Operand, bool) {
	op, ok := opNames[name]
	return op, ok
}
