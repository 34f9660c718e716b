package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	rustanalyzer "github.com/nitsky/rust-analyzer"
	"github.com/nitsky/rust-analyzer/analysis"
	"github.com/nitsky/rust-analyzer/completion"
)

var ErrNoTTY = errors.New("playground needs a terminal (use the complete command instead)")

const maxVisibleItems = 12

func playgroundCommand() *cli.Command {
	return &cli.Command{
		Name:      "playground",
		Usage:     "Interactive completion playground",
		ArgsUsage: "[FILE]",
		Action:    runPlayground,
	}
}

func runPlayground(_ context.Context, cmd *cli.Command) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return ErrNoTTY
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	cfg, err := rustanalyzer.LoadConfigOrDefault(cwd)
	if err != nil {
		cfg = rustanalyzer.DefaultConfig()
	}

	initial := ""

	if args := cmd.Args().Slice(); len(args) > 0 {
		data, err := os.ReadFile(args[0]) //nolint:gosec // G304: file path from user input is expected
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		initial = string(data)
	}

	model := newPlaygroundModel(cfg.Completion, initial)

	p := tea.NewProgram(model, tea.WithAltScreen())

	_, err = p.Run()

	return err
}

// playgroundModel is the bubbletea model: an editor pane on the left,
// the live candidate list on the right.
type playgroundModel struct {
	editor   textarea.Model
	config   completion.Config
	styles   *playgroundStyles
	items    []completion.Item
	selected int
	scroll   int
	width    int
	height   int
	errMsg   string
}

func newPlaygroundModel(cfg completion.Config, initial string) *playgroundModel {
	editor := textarea.New()
	editor.Placeholder = "fn main() {"
	editor.CharLimit = 0
	editor.SetValue(initial)
	editor.Focus()

	return &playgroundModel{
		editor: editor,
		config: cfg,
		styles: defaultPlaygroundStyles(),
	}
}

func (m *playgroundModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m *playgroundModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.SetWidth(m.editorWidth())
		m.editor.SetHeight(max(4, m.height-4))

		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+n":
			m.moveSelection(1)

			return m, nil
		case "ctrl+p":
			m.moveSelection(-1)

			return m, nil
		case "tab":
			m.acceptSelected()
			m.refresh()

			return m, nil
		}
	}

	var cmd tea.Cmd

	m.editor, cmd = m.editor.Update(msg)
	m.refresh()

	return m, cmd
}

// refresh recomputes the candidate list at the cursor.
func (m *playgroundModel) refresh() {
	source := m.editor.Value()
	offset := m.cursorOffset()

	snap := analysis.NewSnapshot(nil)
	snap.SetFile("playground.rs", []byte(source))

	engine := completion.NewEngine(snap, m.config, zap.NewNop())

	items, err := engine.Complete("playground.rs", offset)
	if err != nil {
		m.items = nil
		m.errMsg = err.Error()

		return
	}

	m.items = items
	m.errMsg = ""

	if m.selected >= len(items) {
		m.selected = 0
		m.scroll = 0
	}
}

// cursorOffset converts the textarea cursor to a byte offset.
func (m *playgroundModel) cursorOffset() int {
	source := m.editor.Value()
	line := m.editor.Line()
	col := m.editor.LineInfo().ColumnOffset

	offset := 0

	for line > 0 {
		next := strings.IndexByte(source[offset:], '\n')
		if next < 0 {
			return len(source)
		}

		offset += next + 1
		line--
	}

	offset += col
	if offset > len(source) {
		offset = len(source)
	}

	return offset
}

func (m *playgroundModel) moveSelection(delta int) {
	if len(m.items) == 0 {
		return
	}

	m.selected += delta
	if m.selected < 0 {
		m.selected = len(m.items) - 1
	} else if m.selected >= len(m.items) {
		m.selected = 0
	}

	if m.selected < m.scroll {
		m.scroll = m.selected
	} else if m.selected >= m.scroll+maxVisibleItems {
		m.scroll = m.selected - maxVisibleItems + 1
	}
}

// acceptSelected inserts the selected candidate, completing the word
// being typed rather than duplicating it.
func (m *playgroundModel) acceptSelected() {
	if m.selected >= len(m.items) {
		return
	}

	label := m.items[m.selected].Label
	prefix := m.wordBeforeCursor()

	if prefix != "" && strings.HasPrefix(label, prefix) {
		label = label[len(prefix):]
	}

	m.editor.InsertString(label)
}

func (m *playgroundModel) wordBeforeCursor() string {
	source := m.editor.Value()
	offset := m.cursorOffset()

	start := offset
	for start > 0 && isWordByte(source[start-1]) {
		start--
	}

	return source[start:offset]
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func (m *playgroundModel) editorWidth() int {
	return max(20, m.width-panelWidth-6)
}

const panelWidth = 44

func (m *playgroundModel) View() string {
	editor := m.styles.EditorPane.Width(m.editorWidth() + 2).Render(m.editor.View())
	panel := m.styles.ListPane.Width(panelWidth).Render(m.renderItems())

	body := lipgloss.JoinHorizontal(lipgloss.Top, editor, panel)
	help := m.styles.Help.Render("ctrl+n/ctrl+p select  tab accept  esc quit")

	return lipgloss.JoinVertical(lipgloss.Left, body, help)
}

func (m *playgroundModel) renderItems() string {
	if m.errMsg != "" {
		return m.styles.Error.Render(m.errMsg)
	}

	if len(m.items) == 0 {
		return m.styles.Dim.Render("no completions")
	}

	var b strings.Builder

	end := min(len(m.items), m.scroll+maxVisibleItems)

	for i := m.scroll; i < end; i++ {
		item := m.items[i]

		pointer := "  "
		if i == m.selected {
			pointer = m.styles.Pointer.Render("❯ ")
		}

		line := fmt.Sprintf("%s%s %s",
			pointer,
			m.styles.Kind.Render(fmt.Sprintf("%-9s", item.Kind)),
			item.Label)

		if item.Detail != "" {
			line += " " + m.styles.Dim.Render(item.Detail)
		}

		b.WriteString(line)
		b.WriteByte('\n')
	}

	if end < len(m.items) {
		b.WriteString(m.styles.Dim.Render(fmt.Sprintf("… %d more", len(m.items)-end)))
	}

	return strings.TrimRight(b.String(), "\n")
}

// playgroundStyles holds the lipgloss styles for the playground.
type playgroundStyles struct {
	EditorPane lipgloss.Style
	ListPane   lipgloss.Style
	Pointer    lipgloss.Style
	Kind       lipgloss.Style
	Dim        lipgloss.Style
	Error      lipgloss.Style
	Help       lipgloss.Style
}

var (
	colorAccent = lipgloss.Color("#3b82f6") // blue-500
	colorDim    = lipgloss.Color("#6b7280") // gray-500
	colorBorder = lipgloss.Color("#374151") // gray-700
	colorFail   = lipgloss.Color("#ef4444") // red-500
	colorKind   = lipgloss.Color("#10b981") // green-500
)

func defaultPlaygroundStyles() *playgroundStyles {
	return &playgroundStyles{
		EditorPane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),
		ListPane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),
		Pointer: lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		Kind:    lipgloss.NewStyle().Foreground(colorKind),
		Dim:     lipgloss.NewStyle().Foreground(colorDim),
		Error:   lipgloss.NewStyle().Foreground(colorFail),
		Help:    lipgloss.NewStyle().Foreground(colorDim).MarginTop(1),
	}
}
