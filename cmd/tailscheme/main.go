//
// Copyright (c) 2023 Markku Rossi
//
// All rights reserved.
//

// Command tailscheme is the host for the bundled example programs
// (SPEC_FULL.md §12): it runs, disassembles, exports, imports, and
// interactively steps compiled bytecode. There is no textual
// reader (spec.md §1 Non-goals), so "source" here means one of the
// Go-built ASTs in examples.go or a previously exported wire file.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tailscheme/tailscheme"
	"github.com/tailscheme/tailscheme/internal/wire"
)

func main() {
	app := &cli.App{
		Name:  "tailscheme",
		Usage: "compile and run the tail-call/call-cc bytecode VM's bundled examples",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "trace compilation and execution"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "suppress the run subcommand's result line"},
			&cli.IntFlag{Name: "max-steps", Usage: "abort after this many dispatch steps (0 = unbounded)"},
			&cli.IntFlag{Name: "max-frame-depth", Usage: "abort if the frame chain exceeds this depth (0 = unbounded)"},
		},
		Commands: []*cli.Command{
			listCommand,
			runCommand,
			disasmCommand,
			exportCommand,
			importCommand,
			watchCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "tailscheme:", err)
		os.Exit(1)
	}
}

func paramsFromContext(c *cli.Context) scheme.Params {
	return scheme.Params{
		Verbose:       c.Bool("verbose"),
		Quiet:         c.Bool("quiet"),
		MaxSteps:      c.Int("max-steps"),
		MaxFrameDepth: c.Int("max-frame-depth"),
	}
}

func requireExample(c *cli.Context) (*example, error) {
	name := c.Args().First()
	if name == "" {
		return nil, fmt.Errorf("expected an example name, see `tailscheme list`")
	}
	ex := findExample(name)
	if ex == nil {
		return nil, fmt.Errorf("no such example %q, see `tailscheme list`", name)
	}
	return ex, nil
}

var listCommand = &cli.Command{
	Name:  "list",
	Usage: "list the bundled example programs",
	Action: func(c *cli.Context) error {
		for _, ex := range examples {
			fmt.Printf("%-12s %s\n", ex.Name, ex.Description)
		}
		return nil
	},
}

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "compile and run an example to completion",
	ArgsUsage: "<example>",
	Action: func(c *cli.Context) error {
		ex, err := requireExample(c)
		if err != nil {
			return err
		}
		vm := scheme.NewVM(paramsFromContext(c))
		result, err := vm.Run(ex.Build(vm))
		if err != nil {
			return err
		}
		if !vm.Params.Quiet {
			fmt.Println(result.Scheme())
		}
		return nil
	},
}

var disasmCommand = &cli.Command{
	Name:      "disasm",
	Usage:     "compile an example and print its bytecode",
	ArgsUsage: "<example>",
	Action: func(c *cli.Context) error {
		ex, err := requireExample(c)
		if err != nil {
			return err
		}
		vm := scheme.NewVM(paramsFromContext(c))
		code, err := scheme.Compile(ex.Build(vm))
		if err != nil {
			return err
		}
		fmt.Print(scheme.Disassemble(code))
		return nil
	},
}

var exportCommand = &cli.Command{
	Name:      "export",
	Usage:     "compile an example and write its bytecode as YAML",
	ArgsUsage: "<example> <file>",
	Action: func(c *cli.Context) error {
		ex, err := requireExample(c)
		if err != nil {
			return err
		}
		path := c.Args().Get(1)
		if path == "" {
			return fmt.Errorf("expected an output file path")
		}
		vm := scheme.NewVM(paramsFromContext(c))
		code, err := scheme.Compile(ex.Build(vm))
		if err != nil {
			return err
		}
		data, err := wire.Encode(code)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0644)
	},
}

var importCommand = &cli.Command{
	Name:      "import",
	Usage:     "load a previously exported YAML bytecode file and run it",
	ArgsUsage: "<file>",
	Action: func(c *cli.Context) error {
		path := c.Args().First()
		if path == "" {
			return fmt.Errorf("expected an input file path")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		vm := scheme.NewVM(paramsFromContext(c))
		code, err := wire.Decode(data, vm)
		if err != nil {
			return err
		}
		result, err := vm.Execute(code)
		if err != nil {
			return err
		}
		fmt.Println(result.Scheme())
		return nil
	},
}
