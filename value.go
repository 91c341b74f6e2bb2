//
// Copyright (c) 2022 Markku Rossi
//
// All rights reserved.
//

package scheme

import (
	"fmt"
	"strings"
)

var (
	_ Value = NilValue{}
	_ Value = Bool{}
	_ Value = Int(0)
	_ Value = &Symbol{}
	_ Value = &Pair{}
	_ Value = &Vector{}
	_ Value = &Lambda{}
	_ Value = &NativeFunction{}
	_ Value = &Continuation{}
)

// ValueType specifies the closed set of value variants.
type ValueType int

// Value types.
const (
	VNil ValueType = iota
	VBool
	VInt
	VSymbol
	VPair
	VVector
	VLambda
	VNativeFunction
	VContinuation
	VString
)

var valueTypeNames = map[ValueType]string{
	VNil:            "nil",
	VBool:           "bool",
	VInt:            "int",
	VSymbol:         "symbol",
	VPair:           "pair",
	VVector:         "vector",
	VLambda:         "lambda",
	VNativeFunction: "native",
	VContinuation:   "continuation",
	VString:         "string",
}

func (t ValueType) String() string {
	if n, ok := valueTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("{ValueType %d}", t)
}

// Value is a VM value. The variant set is closed: Nil, Bool, Int,
// Symbol, Pair, Vector, Lambda, NativeFunction, Continuation, plus the
// supplemental String (string.go).
type Value interface {
	Type() ValueType
	Scheme() string
}

// NilValue is the singleton nil value.
type NilValue struct{}

// Nil is the one and only Nil value.
var Nil = NilValue{}

// Type returns VNil.
func (NilValue) Type() ValueType { return VNil }

// Scheme renders nil.
func (NilValue) Scheme() string { return "nil" }

// Bool is a boolean value. Only Bool{true} is truthy; everything
// else, including Bool{false}, is not (see IsTruthy).
type Bool struct {
	Value bool
}

// True is the truthy boolean constant.
var True = Bool{Value: true}

// False is the non-truthy boolean constant.
var False = Bool{Value: false}

// Type returns VBool.
func (b Bool) Type() ValueType { return VBool }

// Scheme renders #t or #f.
func (b Bool) Scheme() string {
	if b.Value {
		return "#t"
	}
	return "#f"
}

// Int is a signed integer value.
type Int int64

// Type returns VInt.
func (Int) Type() ValueType { return VInt }

// Scheme renders the integer in decimal.
func (i Int) Scheme() string { return fmt.Sprintf("%d", int64(i)) }

// Symbol is an interned identifier. Symbols with the same name are
// the same *Symbol pointer, so identity comparison is name equality.
type Symbol struct {
	Name string
}

// Type returns VSymbol.
func (*Symbol) Type() ValueType { return VSymbol }

// Scheme renders the symbol name.
func (s *Symbol) Scheme() string { return s.Name }

func (s *Symbol) String() string { return s.Name }

// Pair is a mutable cons cell.
type Pair struct {
	First  Value
	Second Value
}

// Type returns VPair.
func (*Pair) Type() ValueType { return VPair }

// Scheme renders the pair as a list, using dotted notation only for
// a tail that is neither a Pair nor Nil.
func (p *Pair) Scheme() string { return p.String() }

func (p *Pair) String() string {
	var str strings.Builder
	str.WriteRune('(')

	cur := p
	first := true
loop:
	for {
		if first {
			first = false
		} else {
			str.WriteRune(' ')
		}
		if cur.First == nil {
			str.WriteString("nil")
		} else {
			str.WriteString(cur.First.Scheme())
		}
		switch second := cur.Second.(type) {
		case *Pair:
			cur = second
		case NilValue, nil:
			break loop
		default:
			str.WriteString(" . ")
			str.WriteString(cur.Second.Scheme())
			break loop
		}
	}
	str.WriteRune(')')
	return str.String()
}

// Vector is a fixed-length indexed sequence of values, Nil-initialized.
type Vector struct {
	Elements []Value
}

// NewVector allocates a vector of the given length, all slots Nil.
func NewVector(length int) *Vector {
	els := make([]Value, length)
	for i := range els {
		els[i] = Nil
	}
	return &Vector{Elements: els}
}

// Type returns VVector.
func (*Vector) Type() ValueType { return VVector }

// Scheme renders the vector.
func (v *Vector) Scheme() string { return v.String() }

func (v *Vector) String() string {
	var str strings.Builder
	str.WriteString("#(")
	for idx, el := range v.Elements {
		if idx > 0 {
			str.WriteRune(' ')
		}
		str.WriteString(el.Scheme())
	}
	str.WriteRune(')')
	return str.String()
}

// Lambda is a closure: a parameter list, a compiled body, and the
// environment captured when the lambda expression was evaluated.
// Immutable after construction.
type Lambda struct {
	Params []*Symbol
	Body   Code
	Env    *Env
	Name   string
}

// Type returns VLambda.
func (*Lambda) Type() ValueType { return VLambda }

// Scheme renders a lambda as an opaque procedure value.
func (l *Lambda) Scheme() string { return l.String() }

func (l *Lambda) String() string {
	if l.Name != "" {
		return fmt.Sprintf("#<lambda %s>", l.Name)
	}
	return "#<lambda>"
}

// Native is the host callable backing a NativeFunction. It receives
// the current frame and an environment with the call's arguments
// already bound, and must return the frame that becomes current —
// ordinarily the same frame, with exactly one value pushed, but
// call/cc returns a different frame (see continuation.go).
type Native func(vm *VM, frame *Frame, env *Env) (*Frame, error)

// NativeFunction is a built-in primitive.
type NativeFunction struct {
	Name   string
	Params []*Symbol
	Fn     Native
}

// Type returns VNativeFunction.
func (*NativeFunction) Type() ValueType { return VNativeFunction }

// Scheme renders a native function as an opaque procedure value.
func (n *NativeFunction) Scheme() string { return n.String() }

func (n *NativeFunction) String() string {
	return fmt.Sprintf("#<native %s>", n.Name)
}

// Continuation is a captured frame, reified as a first-class value.
// Invoking it with exactly one argument replaces the current frame
// with (a fresh restart of) the captured one. See continuation.go
// for the multi-shot cloning this requires.
type Continuation struct {
	Frame *Frame
	id    string
}

// Type returns VContinuation.
func (*Continuation) Type() ValueType { return VContinuation }

// Scheme renders a continuation as an opaque value.
func (c *Continuation) Scheme() string { return c.String() }

func (c *Continuation) String() string {
	if c.id != "" {
		return fmt.Sprintf("#<continuation %s>", c.id)
	}
	return "#<continuation>"
}

// IsTruthy implements the spec's narrow truthiness: only Bool{true}
// is truthy. Nil, Bool{false}, 0, and everything else are not.
func IsTruthy(v Value) bool {
	b, ok := v.(Bool)
	return ok && b.Value
}

// ValuesEqual implements = semantics: same variant, equal payload, no
// numeric coercion.
func ValuesEqual(a, b Value) bool {
	if a.Type() != b.Type() {
		return false
	}
	switch av := a.(type) {
	case NilValue:
		return true
	case Bool:
		return av.Value == b.(Bool).Value
	case Int:
		return av == b.(Int)
	case *Symbol:
		return av == b.(*Symbol)
	case *Pair:
		return av == b.(*Pair)
	case *Vector:
		return av == b.(*Vector)
	case *Lambda:
		return av == b.(*Lambda)
	case *NativeFunction:
		return av == b.(*NativeFunction)
	case *Continuation:
		return av == b.(*Continuation)
	case *String:
		return av.Data == b.(*String).Data
	default:
		return false
	}
}
