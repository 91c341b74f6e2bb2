//
// Copyright (c) 2023 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"github.com/tailscheme/tailscheme"
)

// example is one bundled program: a name, a short description, and a
// builder that assembles its AST against a VM's symbol table. Since
// spec.md excludes a textual parser/reader (§1), these Go-built ASTs
// are the only "source" this host can run — mirroring the §8.2
// concrete scenarios directly.
type example struct {
	Name        string
	Description string
	Build       func(vm *scheme.VM) scheme.AST
}

var examples = []example{
	{
		Name:        "arithmetic",
		Description: "(+ 2 3) => 5",
		Build: func(vm *scheme.VM) scheme.AST {
			return &scheme.Program{Expr: &scheme.Invoke{
				Callee: &scheme.SymbolRef{Sym: vm.Intern("+")},
				Args: []scheme.AST{
					&scheme.Literal{Value: scheme.Int(2)},
					&scheme.Literal{Value: scheme.Int(3)},
				},
			}}
		},
	},
	{
		Name:        "conditional",
		Description: "(if (= 1 1) 10 20) => 10",
		Build: func(vm *scheme.VM) scheme.AST {
			return &scheme.Program{Expr: &scheme.If{
				Test: &scheme.Invoke{
					Callee: &scheme.SymbolRef{Sym: vm.Intern("=")},
					Args: []scheme.AST{
						&scheme.Literal{Value: scheme.Int(1)},
						&scheme.Literal{Value: scheme.Int(1)},
					},
				},
				Then: &scheme.Literal{Value: scheme.Int(10)},
				Else: &scheme.Literal{Value: scheme.Int(20)},
			}}
		},
	},
	{
		Name:        "factorial",
		Description: "non-tail recursive factorial(5) => 120",
		Build: func(vm *scheme.VM) scheme.AST {
			factorial := vm.Intern("factorial")
			n := vm.Intern("n")
			return &scheme.Program{Expr: &scheme.Sequence{Items: []scheme.AST{
				&scheme.Define{
					Sym: factorial,
					Expr: &scheme.LambdaExpr{
						Name:   "factorial",
						Params: []*scheme.Symbol{n},
						Body: &scheme.If{
							Test: &scheme.Invoke{
								Callee: &scheme.SymbolRef{Sym: vm.Intern("=")},
								Args: []scheme.AST{
									&scheme.SymbolRef{Sym: n},
									&scheme.Literal{Value: scheme.Int(0)},
								},
							},
							Then: &scheme.Literal{Value: scheme.Int(1)},
							Else: &scheme.Invoke{
								Callee: &scheme.SymbolRef{Sym: vm.Intern("*")},
								Args: []scheme.AST{
									&scheme.SymbolRef{Sym: n},
									&scheme.Invoke{
										Callee: &scheme.SymbolRef{Sym: factorial},
										Args: []scheme.AST{
											&scheme.Invoke{
												Callee: &scheme.SymbolRef{Sym: vm.Intern("-")},
												Args: []scheme.AST{
													&scheme.SymbolRef{Sym: n},
													&scheme.Literal{Value: scheme.Int(1)},
												},
											},
										},
									},
								},
							},
						},
					},
				},
				&scheme.Invoke{
					Callee: &scheme.SymbolRef{Sym: factorial},
					Args:   []scheme.AST{&scheme.Literal{Value: scheme.Int(5)}},
				},
			}}}
		},
	},
	{
		Name:        "tailloop",
		Description: "tail-recursive loop(100000) => done, bounded frame depth",
		Build: func(vm *scheme.VM) scheme.AST {
			loop := vm.Intern("loop")
			n := vm.Intern("n")
			return &scheme.Program{Expr: &scheme.Sequence{Items: []scheme.AST{
				&scheme.Define{
					Sym: loop,
					Expr: &scheme.LambdaExpr{
						Name:   "loop",
						Params: []*scheme.Symbol{n},
						Body: &scheme.If{
							Test: &scheme.Invoke{
								Callee: &scheme.SymbolRef{Sym: vm.Intern("=")},
								Args: []scheme.AST{
									&scheme.SymbolRef{Sym: n},
									&scheme.Literal{Value: scheme.Int(0)},
								},
							},
							Then: &scheme.Literal{Value: vm.Intern("done")},
							Else: &scheme.Invoke{
								Callee: &scheme.SymbolRef{Sym: loop},
								Args: []scheme.AST{
									&scheme.Invoke{
										Callee: &scheme.SymbolRef{Sym: vm.Intern("-")},
										Args: []scheme.AST{
											&scheme.SymbolRef{Sym: n},
											&scheme.Literal{Value: scheme.Int(1)},
										},
									},
								},
							},
						},
					},
				},
				&scheme.Invoke{
					Callee: &scheme.SymbolRef{Sym: loop},
					Args:   []scheme.AST{&scheme.Literal{Value: scheme.Int(100000)}},
				},
			}}}
		},
	},
	{
		Name:        "firstclass",
		Description: "((lambda (f x) (f (f x))) (lambda (y) (+ y 1)) 10) => 12",
		Build: func(vm *scheme.VM) scheme.AST {
			f := vm.Intern("f")
			x := vm.Intern("x")
			y := vm.Intern("y")
			return &scheme.Program{Expr: &scheme.Invoke{
				Callee: &scheme.LambdaExpr{
					Params: []*scheme.Symbol{f, x},
					Body: &scheme.Invoke{
						Callee: &scheme.SymbolRef{Sym: f},
						Args: []scheme.AST{
							&scheme.Invoke{
								Callee: &scheme.SymbolRef{Sym: f},
								Args:   []scheme.AST{&scheme.SymbolRef{Sym: x}},
							},
						},
					},
				},
				Args: []scheme.AST{
					&scheme.LambdaExpr{
						Params: []*scheme.Symbol{y},
						Body: &scheme.Invoke{
							Callee: &scheme.SymbolRef{Sym: vm.Intern("+")},
							Args: []scheme.AST{
								&scheme.SymbolRef{Sym: y},
								&scheme.Literal{Value: scheme.Int(1)},
							},
						},
					},
					&scheme.Literal{Value: scheme.Int(10)},
				},
			}}
		},
	},
	{
		Name:        "callcc",
		Description: "(+ 1 (call/cc (lambda (k) (+ 10 (k 2))))) => 3",
		Build: func(vm *scheme.VM) scheme.AST {
			k := vm.Intern("k")
			return &scheme.Program{Expr: &scheme.Invoke{
				Callee: &scheme.SymbolRef{Sym: vm.Intern("+")},
				Args: []scheme.AST{
					&scheme.Literal{Value: scheme.Int(1)},
					&scheme.Invoke{
						Callee: &scheme.SymbolRef{Sym: vm.Intern("call-with-current-continuation")},
						Args: []scheme.AST{
							&scheme.LambdaExpr{
								Params: []*scheme.Symbol{k},
								Body: &scheme.Invoke{
									Callee: &scheme.SymbolRef{Sym: vm.Intern("+")},
									Args: []scheme.AST{
										&scheme.Literal{Value: scheme.Int(10)},
										&scheme.Invoke{
											Callee: &scheme.SymbolRef{Sym: k},
											Args:   []scheme.AST{&scheme.Literal{Value: scheme.Int(2)}},
										},
									},
								},
							},
						},
					},
				},
			}}
		},
	},
}

func findExample(name string) *example {
	for i := range examples {
		if examples[i].Name == name {
			return &examples[i]
		}
	}
	return nil
}
