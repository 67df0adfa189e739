package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-toolcheck/stub"
	"github.com/wippyai/wasm-toolcheck/verify"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Call  key.Binding
	Next  key.Binding
	Back  key.Binding
	Quit  key.Binding
	Abort key.Binding
}

var keys = keyMap{
	Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Call:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "call")),
	Next:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	Back:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:  key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	Abort: key.NewBinding(key.WithKeys("ctrl+c")),
}

type modelState int

const (
	stateSelectFunc modelState = iota
	stateInputArgs
	stateShowResult
)

// interactiveModel lets the user call the stub exports of one library
// artifact by hand.
type interactiveModel struct {
	err      error
	cfg      *verify.Config
	verifier *verify.Verifier
	session  *verify.Session
	help     help.Model
	wasm     []byte
	result   string
	funcs    []verify.ExpectedExport
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
}

func newInteractiveModel(cfg *verify.Config, wasm []byte) *interactiveModel {
	return &interactiveModel{
		cfg:  cfg,
		wasm: wasm,
		help: help.New(),
	}
}

type loadedMsg struct {
	err      error
	verifier *verify.Verifier
	session  *verify.Session
	funcs    []verify.ExpectedExport
}

type callResultMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadModule
}

// loadModule opens the artifact and keeps the exports whose signature matches.
func (m *interactiveModel) loadModule() tea.Msg {
	ctx := context.Background()

	v, err := verify.New(ctx, m.cfg)
	if err != nil {
		return loadedMsg{err: err}
	}
	sess, err := v.Open(ctx, m.wasm)
	if err != nil {
		v.Close(ctx)
		return loadedMsg{err: err}
	}

	var funcs []verify.ExpectedExport
	for _, exp := range verify.Expected {
		if sess.CheckSignature(exp.Name) == nil {
			funcs = append(funcs, exp)
		}
	}
	if len(funcs) == 0 {
		sess.Close(ctx)
		v.Close(ctx)
		return loadedMsg{err: fmt.Errorf("module exports neither %s nor %s with the expected signature",
			stub.ExportAdd, stub.ExportHelloWorld)}
	}
	return loadedMsg{verifier: v, session: sess, funcs: funcs}
}

func (m *interactiveModel) close() {
	ctx := context.Background()
	if m.session != nil {
		m.session.Close(ctx)
		m.session = nil
	}
	if m.verifier != nil {
		m.verifier.Close(ctx)
		m.verifier = nil
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.err = msg.err
		m.funcs = msg.funcs
		m.verifier = msg.verifier
		m.session = msg.session
		return m, nil

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Abort) {
			m.close()
			return m, tea.Quit
		}
		switch m.state {
		case stateSelectFunc:
			return m.updateSelect(msg)
		case stateInputArgs:
			return m.updateInput(msg)
		case stateShowResult:
			return m.updateResult(msg)
		}
	}
	return m, nil
}

func (m *interactiveModel) updateSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.close()
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		m.selected = max(m.selected-1, 0)
	case key.Matches(msg, keys.Down):
		m.selected = min(m.selected+1, max(len(m.funcs)-1, 0))
	case key.Matches(msg, keys.Call):
		if len(m.funcs) == 0 {
			return m, nil
		}
		m.prepareInputs()
		if len(m.inputs) == 0 {
			return m, m.callFunction
		}
		m.state = stateInputArgs
	}
	return m, nil
}

func (m *interactiveModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Call):
		return m, m.callFunction
	case key.Matches(msg, keys.Back):
		m.state = stateSelectFunc
		m.inputs = nil
		return m, nil
	case key.Matches(msg, keys.Next):
		m.inputs[m.focusIdx].Blur()
		m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
		return m, m.inputs[m.focusIdx].Focus()
	}

	var cmd tea.Cmd
	m.inputs[m.focusIdx], cmd = m.inputs[m.focusIdx].Update(msg)
	return m, cmd
}

func (m *interactiveModel) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.close()
		return m, tea.Quit
	case key.Matches(msg, keys.Call), key.Matches(msg, keys.Back):
		m.state = stateSelectFunc
		m.result = ""
		m.err = nil
	}
	return m, nil
}

func (m *interactiveModel) prepareInputs() {
	params := m.funcs[m.selected].Signature.Params
	m.inputs = make([]textinput.Model, len(params))
	for i, p := range params {
		ti := textinput.New()
		ti.Prompt = p.Name + ": "
		ti.Placeholder = verify.TypeName(p.Type)
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) callFunction() tea.Msg {
	if m.session == nil {
		return callResultMsg{err: fmt.Errorf("module not loaded")}
	}
	values := make([]string, len(m.inputs))
	for i, input := range m.inputs {
		values[i] = input.Value()
	}
	result, err := invoke(context.Background(), m.session, m.funcs[m.selected], values)
	return callResultMsg{result: result, err: err}
}

// invoke calls f with string arguments parsed per its WIT parameter types.
func invoke(ctx context.Context, sess *verify.Session, f verify.ExpectedExport, values []string) (string, error) {
	switch f.Name {
	case stub.ExportAdd:
		if len(values) != 2 {
			return "", fmt.Errorf("add takes 2 arguments, got %d", len(values))
		}
		args := make([]int32, 2)
		for i, p := range f.Signature.Params {
			v, err := convertArg(values[i], p.Type)
			if err != nil {
				return "", fmt.Errorf("%s: %w", p.Name, err)
			}
			args[i] = v
		}
		sum, err := sess.Add(ctx, args[0], args[1])
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(int64(sum), 10), nil

	case stub.ExportHelloWorld:
		out, err := sess.HelloWorld(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("stdout: %q", out), nil
	}
	return "", fmt.Errorf("unsupported export %s", f.Name)
}

func convertArg(value string, t wit.Type) (int32, error) {
	if _, ok := t.(wit.S32); !ok {
		return 0, fmt.Errorf("unsupported parameter type %s", verify.TypeName(t))
	}
	value = strings.TrimSpace(value)
	v, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse %q as s32: %w", value, err)
	}
	return int32(v), nil
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress ctrl+c to quit.", m.err))
	}
	if len(m.funcs) == 0 {
		return "Loading module..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("toolcheck") + " interactive\n\n")

	var bindings []key.Binding
	switch m.state {
	case stateSelectFunc:
		b.WriteString("Select a function to call:\n\n")
		for i, f := range m.funcs {
			line := "  " + formatFunc(f)
			if i == m.selected {
				line = selectedStyle.Render("> " + formatFunc(f))
			}
			b.WriteString(line + "\n")
		}
		bindings = []key.Binding{keys.Up, keys.Down, keys.Call, keys.Quit}

	case stateInputArgs:
		f := m.funcs[m.selected]
		fmt.Fprintf(&b, "Calling %s\n\n", funcStyle.Render(f.Name))
		for i, input := range m.inputs {
			b.WriteString(input.View() + " " + typeStyle.Render(verify.TypeName(f.Signature.Params[i].Type)) + "\n")
		}
		bindings = []key.Binding{keys.Next, keys.Call, keys.Back}

	case stateShowResult:
		fmt.Fprintf(&b, "Result of %s:\n\n", funcStyle.Render(m.funcs[m.selected].Name))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n")
		bindings = []key.Binding{keys.Back, keys.Quit}
	}

	b.WriteString("\n" + m.help.ShortHelpView(bindings))
	return b.String()
}

func formatFunc(f verify.ExpectedExport) string {
	return funcStyle.Render(f.Name) + " " + typeStyle.Render(f.Signature.String())
}

func runInteractive(cfg *verify.Config, wasm []byte) error {
	m := newInteractiveModel(cfg, wasm)
	defer m.close()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
