// Package tui is the interactive terminal front end of an editing session.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/examples"
	"github.com/aretw0/cartograph/pkg/locale"
	"github.com/aretw0/cartograph/pkg/ports"
	"github.com/aretw0/cartograph/pkg/view"
)

// Panes lists the views the tab key cycles through.
var Panes = []string{domain.ViewGraphical, domain.ViewCode, domain.ViewPreview}

type snapshotMsg struct {
	snap *domain.Snapshot
}

type loadedMsg struct {
	kind domain.LoadKind
	err  error
}

// Model is the bubbletea model of the editor shell.
type Model struct {
	ctx    context.Context
	editor ports.Editor
	snaps  <-chan *domain.Snapshot

	snap   *domain.Snapshot
	active int
	body   string
	bar    string

	catalog []examples.Example
	cursor  int

	// loading is the kind whose path prompt is open, or empty.
	loading domain.LoadKind
	prompt  textinput.Model

	status string
	failed bool
	width  int
	height int
}

// New creates the model. Snapshots are followed until ctx ends.
func New(ctx context.Context, editor ports.Editor) *Model {
	prompt := textinput.New()
	prompt.Placeholder = "path or URL"
	prompt.CharLimit = 1024
	m := &Model{
		ctx:    ctx,
		editor: editor,
		snaps:  editor.Watch(ctx),
		prompt: prompt,
	}
	m.setSnapshot(editor.Snapshot())
	return m
}

// Init starts listening for snapshots.
func (m *Model) Init() tea.Cmd {
	return m.waitForSnapshot()
}

func (m *Model) waitForSnapshot() tea.Cmd {
	ch := m.snaps
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg{snap: snap}
	}
}

// Update handles keys, resizes and snapshot notifications.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.setSnapshot(msg.snap)
		return m, m.waitForSnapshot()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.refresh()

	case loadedMsg:
		m.report(msg.err)
		m.setSnapshot(m.editor.Snapshot())

	case tea.KeyMsg:
		return m, m.handleKeyPress(msg)
	}
	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	if m.loading != "" {
		return m.handlePromptKeys(msg)
	}
	if m.editor.ExamplesState().Open {
		m.handleDialogKeys(msg)
		return nil
	}

	switch msg.String() {
	case "q":
		return tea.Quit
	case "l":
		m.editor.SetLanguage(nextLanguage(m.snap.Language()))
	case "c":
		m.editor.SetCompactMode(!m.snap.Preferences.Compact)
	case "r":
		m.editor.SetRendererKind(nextRenderer(m.snap.Preferences.Renderer))
	case "e":
		m.openExamples()
	case "s":
		return m.openPrompt(domain.LoadStyle)
	case "d":
		return m.openPrompt(domain.LoadData)
	case "tab":
		m.active = (m.active + 1) % len(Panes)
		m.refresh()
	case "shift+tab":
		m.active = (m.active + len(Panes) - 1) % len(Panes)
		m.refresh()
	}
	// Editor calls are synchronous; render now rather than waiting for the watch.
	m.setSnapshot(m.editor.Snapshot())
	return nil
}

func (m *Model) handleDialogKeys(msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.catalog)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.catalog) == 0 {
			return
		}
		m.report(m.editor.SelectExample(m.ctx, m.catalog[m.cursor].ID))
	case "esc", "q":
		m.report(m.editor.SelectExample(m.ctx, ""))
	}
	m.setSnapshot(m.editor.Snapshot())
}

func (m *Model) openPrompt(kind domain.LoadKind) tea.Cmd {
	m.loading = kind
	m.prompt.Reset()
	return m.prompt.Focus()
}

func (m *Model) closePrompt() {
	m.loading = ""
	m.prompt.Blur()
	m.prompt.Reset()
}

func (m *Model) handlePromptKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return nil
	case tea.KeyEnter:
		kind, arg := m.loading, strings.TrimSpace(m.prompt.Value())
		m.closePrompt()
		if arg == "" {
			return nil
		}
		return m.load(kind, arg)
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return cmd
}

// load reads arg off the UI goroutine and reports the outcome as a loadedMsg.
func (m *Model) load(kind domain.LoadKind, arg string) tea.Cmd {
	ctx, editor := m.ctx, m.editor
	return func() tea.Msg {
		in, err := InputFor(kind, arg)
		if err != nil {
			return loadedMsg{kind: kind, err: err}
		}
		if kind == domain.LoadStyle {
			err = editor.LoadStyle(ctx, in)
		} else {
			err = editor.LoadData(ctx, in)
		}
		return loadedMsg{kind: kind, err: err}
	}
}

// InputFor turns a path typed by the user into a loader input. Data
// arguments starting with http:// or https:// are fetched as URLs.
func InputFor(kind domain.LoadKind, arg string) (ports.Input, error) {
	if kind == domain.LoadData && (strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://")) {
		return ports.Input{URL: arg}, nil
	}
	return ports.FileInput(arg)
}

func (m *Model) openExamples() {
	list, err := m.editor.Examples(m.ctx)
	if err != nil {
		m.report(err)
		return
	}
	m.catalog = list
	m.cursor = 0
	m.editor.OpenExamples()
}

func (m *Model) report(err error) {
	if err != nil {
		m.status = err.Error()
		m.failed = true
		return
	}
	m.status = ""
	m.failed = false
}

// Active returns the name of the visible pane.
func (m *Model) Active() string {
	return Panes[m.active]
}

func (m *Model) setSnapshot(snap *domain.Snapshot) {
	if snap == nil {
		return
	}
	m.snap = snap
	m.refresh()
}

func (m *Model) refresh() {
	bar, err := m.editor.Render(m.ctx, domain.ViewSettings)
	if err != nil {
		m.report(err)
	}
	m.bar = bar

	body, err := m.editor.Render(m.ctx, m.Active())
	if err != nil {
		body = errorStyle.Render(err.Error())
	}
	m.body = body
}

// View draws tabs, settings bar, the active pane and either the examples
// dialog or the key help.
func (m *Model) View() string {
	p := view.PropsFrom(m.snap)

	tabs := make([]string, len(Panes))
	for i, name := range Panes {
		style := tabStyle
		if i == m.active {
			style = activeTabStyle
		}
		tabs[i] = style.Render(view.Title(p, name))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Cartograph"))
	b.WriteString("  ")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")
	b.WriteString(m.bar)
	b.WriteString("\n")

	pane := paneStyle
	if m.width > 2 {
		pane = pane.Width(m.width - 2)
	}
	b.WriteString(pane.Render(strings.TrimRight(m.body, "\n")))
	b.WriteString("\n")

	if m.editor.ExamplesState().Open {
		b.WriteString(m.renderDialog(p))
		b.WriteString("\n")
	}
	if m.loading != "" {
		label := p.Locale.Editor.LoadStyle
		if m.loading == domain.LoadData {
			label = p.Locale.Editor.LoadData
		}
		b.WriteString(titleStyle.Render(label))
		b.WriteString(" ")
		b.WriteString(m.prompt.View())
		b.WriteString("\n")
	}
	if m.status != "" {
		style := helpStyle
		if m.failed {
			style = errorStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help(p)))
	return b.String()
}

func (m *Model) renderDialog(p view.Props) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Locale.Editor.ExamplesTitle))
	b.WriteString("\n")
	for i, ex := range m.catalog {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%s\n", marker, ex.Title)
	}
	fmt.Fprintf(&b, "\n[enter] %s  [esc] %s", p.Locale.Editor.Ok, p.Locale.Editor.Cancel)
	return dialogStyle.Render(b.String())
}

func (m *Model) help(p view.Props) string {
	if m.loading != "" {
		return "enter load • esc cancel"
	}
	if m.editor.ExamplesState().Open {
		return "↑/↓ move • enter select • esc cancel"
	}
	return fmt.Sprintf("l %s • c %s • r %s • e %s • s %s • d %s • tab view • q quit",
		p.Locale.App.Language, p.Locale.App.Compact, p.Locale.App.SymbolizerRenderer, p.Locale.App.Examples,
		p.Locale.Editor.LoadStyle, p.Locale.Editor.LoadData)
}

func nextLanguage(current string) string {
	tags := locale.Tags()
	for i, tag := range tags {
		if tag == current {
			return tags[(i+1)%len(tags)]
		}
	}
	return tags[0]
}

func nextRenderer(current domain.RendererKind) domain.RendererKind {
	kinds := domain.RendererKinds()
	for i, k := range kinds {
		if k == current {
			return kinds[(i+1)%len(kinds)]
		}
	}
	return kinds[0]
}

// Run starts the full-screen program and blocks until the user quits.
func Run(ctx context.Context, editor ports.Editor, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, editor), opts...).Run()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
