package tui

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nathoo/wayfarer/engine"
	"github.com/nathoo/wayfarer/engine/save"
	"github.com/nathoo/wayfarer/engine/state"
	"github.com/nathoo/wayfarer/types"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the Wayfarer TUI.
type Model struct {
	engine *engine.Engine
	defs   *state.Defs
	log    *zap.Logger

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)

	width       int
	height      int
	ready       bool
	trace       bool
	quitting    bool
	confirmQuit bool // waiting for the answer to "Save before quitting?"
	lastCmd     string
	saveDir     string
	savedTurn   int
}

// gameOutputMsg carries output from the engine into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed player input (empty for intro)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs, saveDir string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	log := eng.Log
	if log == nil {
		log = zap.NewNop()
	}
	return Model{
		engine:    eng,
		defs:      defs,
		log:       log,
		input:     ti,
		history:   NewHistory(100),
		saveDir:   saveDir,
		savedTurn: eng.State.TurnCount,
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, defs *state.Defs, saveDir string) error {
	m := New(eng, defs, saveDir)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial command that produces intro text and first look.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		var lines []string

		title := m.defs.Game.Title
		if m.defs.Game.Version != "" {
			title += " v" + m.defs.Game.Version
		}
		if m.defs.Game.Author != "" {
			title += " by " + m.defs.Game.Author
		}
		lines = append(lines, title, "")

		if m.defs.Game.Intro != "" {
			lines = append(lines, m.defs.Game.Intro, "")
		}

		result := m.engine.Step("look")
		lines = append(lines, result.Output...)

		return gameOutputMsg{lines: lines}
	}
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

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
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if m.confirmQuit {
		return m.answerQuit(input)
	}

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else if !isMeta(input) {
		m.lastCmd = input
	}

	if isMeta(input) {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	// Game command.
	result := m.engine.Step(input)
	output := result.Output
	if m.trace {
		output = append(output, m.formatTrace(result)...)
	}
	m = m.appendOutput(gameOutputMsg{input: input, lines: output})
	return m, nil
}

// answerQuit completes a pending quit. "y" saves first; anything else
// quits without saving.
func (m Model) answerQuit(answer string) (tea.Model, tea.Cmd) {
	m.confirmQuit = false
	lines := []string{}
	if a := strings.ToLower(answer); a == "y" || a == "yes" {
		lines = append(lines, m.cmdSave("")...)
	}
	lines = append(lines, "Goodbye.")
	m = m.appendOutput(gameOutputMsg{input: answer, lines: lines, isSystem: true})
	m.quitting = true
	return m, tea.Quit
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, styledPlayerInput(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindHeading:
		return styleHeading.Render(line)
	case kindExits:
		return styleExits.Render(line)
	case kindCombat:
		return styleCombat.Render(line)
	case kindReward:
		return styleReward.Render(line)
	case kindMenu:
		return styleMenu.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: viewport, status bar, input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// metaCommands may be typed with or without a leading '/'. "exit" leaves
// a shop, so only "/exit" quits.
var metaCommands = map[string]bool{
	"save": true, "load": true, "quit": true,
	"help": true, "state": true, "trace": true,
}

func isMeta(input string) bool {
	if strings.HasPrefix(input, "/") {
		return true
	}
	fields := strings.Fields(input)
	return len(fields) > 0 && metaCommands[strings.ToLower(fields[0])]
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "quit", "exit":
		if m.engine.State.TurnCount != m.savedTurn {
			m.confirmQuit = true
			return []string{"Save before quitting? (y/n)"}, false
		}
		return []string{"Goodbye."}, true

	case "save":
		return m.cmdSave(arg), false

	case "load":
		return m.cmdLoad(arg), false

	case "help":
		return m.cmdHelp(), false

	case "state":
		return m.cmdState(), false

	case "trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: /%s. Type help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdSave(name string) []string {
	path, err := save.WriteFile(m.saveDir, name, m.engine.State, m.defs)
	if errors.Is(err, save.ErrInCombat) {
		return []string{"You can't save in the middle of a fight."}
	}
	if err != nil {
		m.log.Error("save failed", zap.String("name", name), zap.Error(err))
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	m.savedTurn = m.engine.State.TurnCount
	m.log.Info("game saved", zap.String("path", path), zap.Int("turn", m.savedTurn))
	return []string{fmt.Sprintf("Game saved to %s.", path)}
}

func (m *Model) cmdLoad(name string) []string {
	sd, err := save.ReadFile(m.saveDir, name, m.defs)
	switch {
	case errors.Is(err, save.ErrNotFound):
		return []string{fmt.Sprintf("No save found at %s.", save.Path(m.saveDir, name))}
	case err != nil:
		m.log.Warn("load failed", zap.String("name", name), zap.Error(err))
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	m.engine.Restore(sd)
	m.savedTurn = m.engine.State.TurnCount

	output := []string{fmt.Sprintf("Game loaded (turn %d).", sd.Turn)}
	result := m.engine.Step("look")
	output = append(output, result.Output...)
	return output
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System (with or without a leading /):",
		"  save [name]   Save game (default: quicksave)",
		"  load [name]   Load game (default: quicksave)",
		"  quit          Exit game (offers to save)",
		"  help          Show this help",
		"  state         Debug: dump current state",
		"  trace         Toggle debug trace output",
		"",
		"Exploring:",
		"  look (l)              Describe your surroundings",
		"  go <dir>              Move (or just type n/s/e/w/d, or up)",
		"  attack (a)            Pick a fight with whatever lives here",
		"  use <item> (u)        Drink a potion or equip a weapon or armor",
		"  inventory (i)         Check what you're carrying",
		"  stats                 Show your character",
		"  quests (q)            Show quest progress",
		"  shop                  Browse the shop, if there is one",
		"  again (g)             Repeat your last command",
		"",
		"In a fight: attack (a), use <item> (u), run (r)",
		"In a shop: buy <n> (b), sell <n> (s), leave (l)",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	}
}

func (m *Model) cmdState() []string {
	s := m.engine.State
	p := s.Player
	names := make([]string, 0, len(p.Inventory))
	for _, it := range p.Inventory {
		names = append(names, it.ID)
	}
	output := []string{
		fmt.Sprintf("Turn: %d  Mode: %s", s.TurnCount, s.Mode),
		fmt.Sprintf("Location: %s", p.Location),
		fmt.Sprintf("Level %d  XP %d/%d  HP %d/%d  Gold %d", p.Level, p.Experience, p.NextLevel, p.Health, p.MaxHealth, p.Gold),
		fmt.Sprintf("Inventory: %v", names),
	}
	ids := make([]string, 0, len(p.Quests))
	for id := range p.Quests {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		output = append(output, fmt.Sprintf("Quest %s: %+v", id, p.Quests[id]))
	}
	if s.Combat != nil {
		output = append(output, fmt.Sprintf("Combat: %s round %d", s.Combat.Enemy.TemplateID, s.Combat.Round))
	}
	output = append(output, fmt.Sprintf("RNG: seed %d position %d", s.RNGSeed, s.RNGPosition))
	return output
}

func (m *Model) formatTrace(result types.Result) []string {
	if len(result.Events) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("[trace] Events: %d", len(result.Events))}
	for _, e := range result.Events {
		lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
	}
	return lines
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
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
