// Package tui provides a Bubble Tea terminal UI for the game.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"

	"github.com/nathoo/dungeoncore/cli"
	"github.com/nathoo/dungeoncore/engine"
	"github.com/nathoo/dungeoncore/engine/save"
	"github.com/nathoo/dungeoncore/engine/state"
	"github.com/nathoo/dungeoncore/types"
)

const historySize = 100

// rawLine stores an unstyled output line with its classification, so it
// can be re-wrapped and re-styled when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool
	isSystem bool
}

// Model is the Bubble Tea model for the game.
type Model struct {
	ctx    context.Context
	engine *engine.Engine
	defs   *state.Defs
	store  *save.Store

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	lastCmd  string
}

// gameOutputMsg carries output into the Update loop.
type gameOutputMsg struct {
	input    string // echoed player input, empty for the intro
	lines    []string
	isSystem bool
}

// New creates a TUI model. store may be nil, which disables saving.
func New(ctx context.Context, eng *engine.Engine, defs *state.Defs, store *save.Store) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		ctx:     ctx,
		engine:  eng,
		defs:    defs,
		store:   store,
		input:   ti,
		history: NewHistory(historySize),
	}
}

// Run starts the Bubble Tea program and blocks until the player quits or
// ctx is cancelled. trace starts with trace output enabled.
func Run(ctx context.Context, eng *engine.Engine, defs *state.Defs, store *save.Store, trace bool) error {
	m := New(ctx, eng, defs, store)
	m.trace = trace
	p := tea.NewProgram(m,
		tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init produces the title, intro and first room description.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		title := m.defs.Game.Title
		if m.defs.Game.Version != "" {
			title += " v" + m.defs.Game.Version
		}
		if m.defs.Game.Author != "" {
			title += " by " + m.defs.Game.Author
		}
		lines := []string{title, ""}
		if m.defs.Game.Intro != "" {
			lines = append(lines, m.defs.Game.Intro, "")
		}
		lines = append(lines, m.engine.Look()...)
		return gameOutputMsg{lines: lines}
	}
}

// Update handles key presses, window resizes and game output.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := max(m.height-2, 1) // status bar + input line
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			return m.handleEnter()
		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil
		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
			}
			return m, nil
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if input == "" {
		return m, nil
	}

	m.history.Push(input)

	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			return m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			}), nil
		}
		input = m.lastCmd
	} else if !strings.HasPrefix(input, "/") {
		m.lastCmd = input
	}

	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	result := m.engine.Step(m.ctx, input)
	output := result.Output
	if m.trace {
		output = append(output, formatTrace(result)...)
	}
	return m.appendOutput(gameOutputMsg{input: input, lines: output}), nil
}

// appendOutput adds lines to the narrative, followed by a blank separator.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, isInput: true})
	}
	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}
	m.rawLines = append(m.rawLines, rawLine{})
	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles every line at the current width.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	width := max(m.width, 10)

	styled := make([]string, 0, len(m.rawLines))
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}
		wrapped := wordWrap(rl.text, width)
		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}
	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text at word boundaries. Lines that already contain
// breaks (such as column-broken numbers) are wrapped line by line.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}
	if strings.Contains(text, "\n") {
		parts := strings.Split(text, "\n")
		for i, p := range parts {
			parts[i] = wordWrap(p, width)
		}
		return strings.Join(parts, "\n")
	}

	var b strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(text) {
		switch {
		case i == 0:
			lineLen = len(word)
		case lineLen+1+len(word) > width:
			b.WriteString("\n")
			lineLen = len(word)
		default:
			b.WriteString(" ")
			lineLen += 1 + len(word)
		}
		b.WriteString(word)
	}
	return b.String()
}

// View renders the viewport, status bar and input line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true
	case "/save":
		return m.cmdSave(arg), false
	case "/load":
		return m.cmdLoad(arg), false
	case "/saves":
		return m.cmdSaves(), false
	case "/help":
		return append(append([]string{}, cli.HelpLines...), "",
			"Navigation: PgUp/PgDn to scroll, Up/Down for command history"), false
	case "/state":
		return strings.Split(strings.TrimRight(spew.Sdump(m.engine.State), "\n"), "\n"), false
	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false
	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdSave(slot string) []string {
	if m.store == nil {
		return []string{"Saving is not available."}
	}
	if slot == "" {
		slot = "quicksave"
	}
	data, err := save.Save(m.engine.State, m.defs)
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	if _, err := m.store.Put(m.ctx, slot, data); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	return []string{fmt.Sprintf("Game saved to %s.", slot)}
}

func (m *Model) cmdLoad(slot string) []string {
	if m.store == nil {
		return []string{"Loading is not available."}
	}
	if slot == "" {
		slot = "quicksave"
	}
	sd, err := cli.LoadSlot(m.ctx, m.store, m.defs, slot)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	save.ApplySave(m.engine.State, sd)
	output := []string{fmt.Sprintf("Game loaded from %s (turn %d).", slot, sd.Turn)}
	return append(output, m.engine.Look()...)
}

func (m *Model) cmdSaves() []string {
	if m.store == nil {
		return []string{"Saving is not available."}
	}
	slots, err := m.store.List(m.ctx)
	if err != nil {
		return []string{fmt.Sprintf("Listing saves failed: %v", err)}
	}
	if len(slots) == 0 {
		return []string{"No saved games."}
	}
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, fmt.Sprintf("%s: turn %d, %s", s.Name, s.Turn, s.SavedAt.Local().Format("2006-01-02 15:04")))
	}
	return out
}

func formatTrace(result types.Result) []string {
	var lines []string
	if len(result.Effects) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Effects: %d", len(result.Effects)))
		for _, e := range result.Effects {
			lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Params))
		}
	}
	if len(result.Events) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			lines = append(lines, fmt.Sprintf("[trace]   %s", e.Type))
		}
	}
	return lines
}

// viewportKeyMap disables Up/Down on the viewport; they drive history.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
