package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sentrahq/sentra"
	"github.com/sentrahq/sentra/markdown"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the stream inspector.
type Model struct {
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model

	det    *sentra.Detector
	theme  sentra.Theme
	styles Styles
	spin   spinner.Model

	detection sentra.Detection
	terminal  bool
	done      bool
	err       error
	ready     bool

	// stop tells the chunk pump to stop reading once detection is
	// terminal. Closed at most once, guarded by terminal.
	stop chan struct{}
}

// New creates an inspector Model around det.
func New(det *sentra.Detector, theme sentra.Theme) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		det:       det,
		theme:     theme,
		styles:    NewStyles(theme),
		spin:      sp,
		detection: sentra.Pending{},
		stop:      make(chan struct{}),
	}
}

// Detection returns the latest detection state.
func (m Model) Detection() sentra.Detection { return m.detection }

// Done reports whether the stream has ended.
func (m Model) Done() bool { return m.done }

// Err returns the stream error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.Viewport, cmd = m.Viewport.Update(msg)
		return m, cmd

	case ChunkMsg:
		if m.terminal {
			return m, nil
		}
		m.detection = m.det.Feed(msg.Text)
		switch m.detection.(type) {
		case sentra.Complete, sentra.Disallowed:
			m.terminal = true
			close(m.stop)
		}
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		return m, nil

	case StreamDoneMsg:
		m.done = true
		m.err = msg.Err
		m.Viewport.SetContent(m.renderContent())
		return m, nil

	case spinner.TickMsg:
		if m.terminal || m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.Viewport.View() + "\n" + m.statusLine()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	vpHeight := msg.Height - 2 // status line plus separator
	if vpHeight < 1 {
		vpHeight = 1
	}
	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.Viewport.SetContent(m.renderContent())
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
		m.Viewport.SetContent(m.renderContent())
	}
	return m
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render(fmt.Sprintf("Stream error: %v", m.err))
	}
	switch m.detection.(type) {
	case sentra.Complete:
		return m.styles.Success.Render("Block complete") + m.styles.Muted.Render("  q to quit")
	case sentra.Disallowed:
		return m.styles.Error.Render("Disallowed block") + m.styles.Muted.Render("  q to quit")
	}
	if m.done {
		return m.styles.Muted.Render("Stream ended without a block  q to quit")
	}
	return m.spin.View() + m.styles.Muted.Render(" waiting for block...")
}

// renderContent renders the prose received so far plus the parsed form
// of the terminal block, if any.
func (m Model) renderContent() string {
	buffer := m.det.Buffer()
	width := m.Viewport.Width
	if width <= 0 {
		width = 80
	}

	switch d := m.detection.(type) {
	case sentra.Complete:
		prose := buffer
		if i := strings.Index(buffer, d.Block); i >= 0 {
			prose = buffer[:i]
		}
		out := markdown.Render(strings.TrimSpace(prose), width, m.theme)
		block := m.renderBlock(d.Tag, d.Block)
		if out != "" {
			return out + "\n\n" + block
		}
		return block

	case sentra.Disallowed:
		out := m.styles.Error.Render(d.Reason)
		if d.Partial != "" {
			out += "\n" + m.styles.Muted.Render(d.Partial)
		}
		return out

	default:
		return markdown.Render(buffer, width, m.theme)
	}
}

// renderBlock renders the parsed form of a completed block.
func (m Model) renderBlock(tag, block string) string {
	switch tag {
	case sentra.TagTools:
		return m.renderToolCalls(block)
	case sentra.TagResult:
		return m.renderResult(block)
	case sentra.TagUserQuestion:
		return m.renderQuestion(block)
	default:
		return m.styles.Muted.Render(block)
	}
}

func (m Model) renderToolCalls(block string) string {
	calls := sentra.ParseToolCalls(block)
	if len(calls) == 0 {
		return m.styles.Error.Render("malformed tool call block") + "\n" + m.styles.Muted.Render(block)
	}
	var b strings.Builder
	for i, call := range calls {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.styles.ToolCall.Render("→ " + call.Name))
		for _, member := range call.Arguments {
			b.WriteString("\n")
			b.WriteString(m.styles.Accent.Render("  " + member.Key + ": "))
			b.WriteString(m.styles.Muted.Render(sentra.EncodeValue(member.Value)))
		}
	}
	return b.String()
}

func (m Model) renderResult(block string) string {
	result, ok := sentra.ParseResult(block)
	if !ok {
		return m.styles.Error.Render("malformed result block") + "\n" + m.styles.Muted.Render(block)
	}
	var b strings.Builder
	b.WriteString(m.styles.Result.Render("← " + result.Tool))
	if result.Success {
		b.WriteString(" " + m.styles.Success.Render("ok"))
	} else {
		b.WriteString(" " + m.styles.Error.Render("failed"))
	}
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  step %d (%s)", result.StepIndex, result.StepID)))
	if result.Reason != "" {
		b.WriteString("\n" + m.styles.Muted.Render(result.Reason))
	}
	if result.Data != nil {
		b.WriteString("\n" + m.styles.Muted.Render(sentra.EncodeValue(result.Data)))
	}
	return b.String()
}

func (m Model) renderQuestion(block string) string {
	question, ok := sentra.ParseUserQuestion(block)
	if !ok {
		return m.styles.Error.Render("malformed question block") + "\n" + m.styles.Muted.Render(block)
	}
	return m.styles.Question.Render("? ") + markdown.Render(question, m.Viewport.Width-2, m.theme)
}
