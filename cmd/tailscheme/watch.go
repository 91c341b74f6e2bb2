//
// Copyright (c) 2023 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"

	"github.com/tailscheme/tailscheme"
)

type watchKeyMap struct {
	Step key.Binding
	Quit key.Binding
}

func (k watchKeyMap) ShortHelp() []key.Binding { return []key.Binding{k.Step, k.Quit} }

func (k watchKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{{k.Step, k.Quit}} }

var watchKeys = watchKeyMap{
	Step: key.NewBinding(key.WithKeys(" ", "n", "enter"), key.WithHelp("space/n", "step")),
	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var watchCommand = &cli.Command{
	Name:      "watch",
	Usage:     "interactively single-step an example, watching frame depth and the operand stack",
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
		m := newWatchModel(vm, ex.Name, code)
		p := tea.NewProgram(m)
		_, err = p.Run()
		return err
	},
}

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	stylePC     = lipgloss.NewStyle().Foreground(lipgloss.Color("84")).Bold(true)
	styleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleResult = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true)
)

// watchModel is a bubbletea model stepping one VM through its
// bytecode one instruction at a time, so a reader can watch frame
// depth stay bounded across a tail call and grow across an ordinary
// one. Grounded in the bubbletea Update/View convention the dr8co-kong
// example uses for its own interactive surfaces.
type watchModel struct {
	vm      *scheme.VM
	name    string
	frame   *scheme.Frame
	history []string
	halted  bool
	result  scheme.Value
	err     error
	help    help.Model
}

func newWatchModel(vm *scheme.VM, name string, code scheme.Code) watchModel {
	frame := scheme.NewFrame(code, scheme.NewEnv(vm.GlobalEnv()), nil)
	return watchModel{vm: vm, name: name, frame: frame, help: help.New()}
}

func (m watchModel) Init() tea.Cmd { return nil }

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, watchKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, watchKeys.Step):
			if m.halted || m.err != nil {
				return m, nil
			}
			next, result, halted, err := m.vm.Step(m.frame)
			if err != nil {
				m.err = err
				return m, nil
			}
			m.history = append(m.history, m.frame.Bytecode[m.frame.PC].String())
			if halted {
				m.halted = true
				m.result = result
				return m, nil
			}
			m.frame = next
		}
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", styleTitle.Render("tailscheme watch: "+m.name))
	fmt.Fprintf(&b, "%s\n\n", m.help.ShortHelpView(watchKeys.ShortHelp()))

	if m.frame != nil && !m.halted {
		fmt.Fprintf(&b, "pc=%s  depth=%d  stack=%s\n",
			stylePC.Render(fmt.Sprintf("%d", m.frame.PC)),
			m.frame.Depth(),
			renderStack(m.frame.Stack))
	}

	const historyLines = 10
	start := 0
	if len(m.history) > historyLines {
		start = len(m.history) - historyLines
	}
	for _, line := range m.history[start:] {
		fmt.Fprintf(&b, "%s\n", styleDim.Render(strings.TrimSpace(line)))
	}

	if m.err != nil {
		fmt.Fprintf(&b, "\n%s\n", styleError.Render(m.err.Error()))
	} else if m.halted {
		fmt.Fprintf(&b, "\n%s %s\n", styleDim.Render("halted:"), styleResult.Render(m.result.Scheme()))
	}
	return b.String()
}

func renderStack(stack []scheme.Value) string {
	if len(stack) == 0 {
		return "()"
	}
	parts := make([]string, len(stack))
	for i, v := range stack {
		parts[i] = v.Scheme()
	}
	return "(" + strings.Join(parts, " ") + ")"
}
