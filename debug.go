//
// Copyright (c) 2022-2023 Markku Rossi
//
// All rights reserved.
//

package scheme

import (
	"fmt"
	"sort"
)

// Disassemble renders code one instruction per line: its index, then
// the opcode and operand separated by tabs (SPEC_FULL.md §9 "opcodes
// as data vs. code"), recursing into lambda bodies with indentation.
func Disassemble(code Code) string {
	var out string
	disassemble(code, 0, &out)
	return out
}

func disassemble(code Code, depth int, out *string) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	for pc, instr := range code {
		*out += fmt.Sprintf("%s%4d%s\n", indent, pc, instr.String())
		if instr.Op == OpLambda {
			disassemble(instr.Body, depth+1, out)
		}
	}
}

// PrintEnv renders the names and values bound directly in env, sorted
// by name. Mirrors the teacher's print-env debug builtin, adapted
// from a global-symbol-table dump to an arbitrary Env snapshot since
// this implementation's Env is a plain lookup table, not symbols
// carrying a Global field.
func PrintEnv(env *Env) string {
	names := env.Names()
	sort.Slice(names, func(i, j int) bool { return names[i].Name < names[j].Name })

	max := 0
	for _, n := range names {
		if len(n.Name) > max {
			max = len(n.Name)
		}
	}

	out := "Environment:\n"
	for _, n := range names {
		for i := 0; i+len(n.Name) < max; i++ {
			out += " "
		}
		out += fmt.Sprintf("%s : %s\n", n.Name, env.Lookup(n).Scheme())
	}
	out += fmt.Sprintf("%d symbols\n", len(names))
	return out
}
