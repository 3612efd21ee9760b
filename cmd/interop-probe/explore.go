package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/coerce"
	"github.com/wippyai/interop/shape"
	"github.com/wippyai/interop/trait"
)

func newExploreCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "explore FILE",
		Short: "Browse members interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("explore needs a terminal; use probe instead")
			}
			ctx := context.Background()
			t, err := openTarget(ctx, a.log, args[0])
			if err != nil {
				return err
			}
			defer t.close()

			rows, err := a.rows(t)
			if err != nil {
				return err
			}
			p := tea.NewProgram(newExploreModel(args[0], t, rows, a.engine), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

type modelState int

const (
	stateSelect modelState = iota
	stateInputArgs
	stateShowResult
)

type exploreModel struct {
	err      error
	target   *target
	engine   *coerce.Engine
	filename string
	result   string
	rows     []memberRow
	input    textinput.Model
	selected int
	state    modelState
}

type callResultMsg struct {
	err    error
	result string
}

func newExploreModel(filename string, t *target, rows []memberRow, e *coerce.Engine) *exploreModel {
	ti := textinput.New()
	ti.Placeholder = "1, two, [3]"
	ti.Prompt = "args: "
	ti.Width = 40
	return &exploreModel{
		filename: filename,
		target:   t,
		engine:   e,
		rows:     rows,
		input:    ti,
		state:    stateSelect,
	}
}

func (m *exploreModel) Init() tea.Cmd {
	return nil
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputArgs {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelect && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelect && m.selected < len(m.rows)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelect:
				if len(m.rows) == 0 {
					return m, nil
				}
				if m.rows[m.selected].traits.Has(trait.Executable) {
					m.state = stateInputArgs
					m.input.SetValue("")
					return m, m.input.Focus()
				}
				return m, m.project
			case stateInputArgs:
				m.input.Blur()
				return m, m.call
			case stateShowResult:
				m.reset()
			}
			return m, nil

		case "esc":
			if m.state != stateSelect {
				m.input.Blur()
				m.reset()
			}
			return m, nil
		}

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
		return m, nil
	}

	if m.state == stateInputArgs {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *exploreModel) reset() {
	m.state = stateSelect
	m.result = ""
	m.err = nil
}

func (m *exploreModel) selectedValue() (interop.Value, error) {
	return m.target.member(m.rows[m.selected].name)
}

// project shows the default host mapping of the selected member.
func (m *exploreModel) project() tea.Msg {
	v, err := m.selectedValue()
	if err != nil {
		return callResultMsg{err: err}
	}
	res, err := m.engine.Project(v, shape.Object)
	if err != nil {
		return callResultMsg{err: err}
	}
	return callResultMsg{result: fmt.Sprintf("%T\n%s", res, render(m.engine, res))}
}

func (m *exploreModel) call() tea.Msg {
	v, err := m.selectedValue()
	if err != nil {
		return callResultMsg{err: err}
	}
	args, err := parseArgList(m.input.Value())
	if err != nil {
		return callResultMsg{err: err}
	}
	res, err := v.Execute(args...)
	if err != nil {
		return callResultMsg{err: err}
	}
	return callResultMsg{result: m.engine.Format(res)}
}

func (m *exploreModel) View() string {
	var b strings.Builder

	b.WriteString(bannerStyle.Render("interop-probe · " + m.filename))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelect:
		if len(m.rows) == 0 {
			b.WriteString("No members.\n")
		}
		for i, r := range m.rows {
			cursor := "  "
			if i == m.selected {
				cursor = cursorStyle.Render("▸ ")
			}
			b.WriteString(cursor + memberLabel(r.name, r.traits))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("↑/↓ select • enter project or call • q quit"))

	case stateInputArgs:
		r := m.rows[m.selected]
		b.WriteString("Calling " + memberLabel(r.name, r.traits) + "\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(hintStyle.Render("enter call • esc back"))

	case stateShowResult:
		r := m.rows[m.selected]
		b.WriteString(memberLabel(r.name, r.traits) + "\n\n")
		if m.err != nil {
			b.WriteString(failBoxStyle.Render(m.err.Error()))
		} else {
			b.WriteString(valueBoxStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(hintStyle.Render("enter continue • q quit"))
	}

	return b.String()
}
