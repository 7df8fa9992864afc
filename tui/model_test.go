package tui_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/sentrahq/sentra"
	"github.com/sentrahq/sentra/mock"
	"github.com/sentrahq/sentra/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const toolBlock = "<sentra-tools>\n<invoke name=\"search\">\n<parameter name=\"query\">weather</parameter>\n</invoke>\n</sentra-tools>"

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, allowed ...string) tui.Model {
	t.Helper()
	m := tui.New(sentra.NewDetector(allowed...), sentra.DefaultTheme())
	return updateModel(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m tui.Model, msg tea.Msg) tui.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(tui.Model)
	require.True(t, ok)
	return model
}

func feed(t *testing.T, m tui.Model, chunks ...string) tui.Model {
	t.Helper()
	for _, c := range chunks {
		m = updateModel(t, m, tui.ChunkMsg{Text: c})
	}
	return m
}

func TestModel_UninitializedView(t *testing.T) {
	t.Parallel()

	m := tui.New(sentra.NewDetector(sentra.TagTools), sentra.DefaultTheme())
	assert.Contains(t, m.View(), "Initializing")
}

func TestModel_PendingWhileStreaming(t *testing.T) {
	t.Parallel()

	m := initModel(t, sentra.TagTools)
	m = feed(t, m, "Let me look that up.\n<sentra-to")

	assert.IsType(t, sentra.Pending{}, m.Detection())
	assert.Contains(t, m.View(), "waiting for block")
}

func TestModel_CompleteToolCallBlock(t *testing.T) {
	t.Parallel()

	m := initModel(t, sentra.TagTools)
	for _, c := range mock.ChunkedString("Checking.\n"+toolBlock, 9).Items {
		m = updateModel(t, m, tui.ChunkMsg{Text: c})
	}

	complete, ok := m.Detection().(sentra.Complete)
	require.True(t, ok)
	assert.Equal(t, sentra.TagTools, complete.Tag)

	view := m.View()
	assert.Contains(t, view, "search")
	assert.Contains(t, view, "query")
	assert.Contains(t, view, "Block complete")
}

func TestModel_IgnoresChunksAfterTerminal(t *testing.T) {
	t.Parallel()

	m := initModel(t, sentra.TagTools)
	m = feed(t, m, toolBlock)
	require.IsType(t, sentra.Complete{}, m.Detection())

	m = feed(t, m, "<sentra-result>ignored")
	assert.IsType(t, sentra.Complete{}, m.Detection())
}

func TestModel_DisallowedBlock(t *testing.T) {
	t.Parallel()

	m := initModel(t, sentra.TagResult)
	m = feed(t, m, toolBlock)

	d, ok := m.Detection().(sentra.Disallowed)
	require.True(t, ok)
	assert.Contains(t, m.View(), "Disallowed block")
	assert.NotEmpty(t, d.Reason)
}

func TestModel_StreamEndsWithoutBlock(t *testing.T) {
	t.Parallel()

	m := initModel(t, sentra.TagTools)
	m = feed(t, m, "just prose")
	m = updateModel(t, m, tui.StreamDoneMsg{})

	assert.True(t, m.Done())
	assert.Contains(t, m.View(), "Stream ended without a block")
}

func TestModel_StreamError(t *testing.T) {
	t.Parallel()

	m := initModel(t, sentra.TagTools)
	m = updateModel(t, m, tui.StreamDoneMsg{Err: errors.New("connection lost")})

	require.Error(t, m.Err())
	assert.Contains(t, m.View(), "connection lost")
}

func TestModel_QuitKeys(t *testing.T) {
	t.Parallel()

	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
	} {
		m := initModel(t, sentra.TagTools)
		_, cmd := m.Update(key)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestModel_RendersResultBlock(t *testing.T) {
	t.Parallel()

	block := "<sentra-result step_id=\"step_3\" tool=\"search\" success=\"true\">\n" +
		"<reason>found it</reason>\n<data><string>sunny</string></data>\n</sentra-result>"

	m := initModel(t, sentra.TagResult)
	m = feed(t, m, block)

	require.IsType(t, sentra.Complete{}, m.Detection())
	view := m.View()
	assert.Contains(t, view, "search")
	assert.Contains(t, view, "found it")
	assert.Contains(t, view, "step 3")
}

func TestRun_SmokeTest(t *testing.T) {
	m := tui.New(sentra.NewDetector(sentra.TagTools), sentra.DefaultTheme())
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

	tm.Send(tui.ChunkMsg{Text: "Thinking...\n"})
	tm.Send(tui.ChunkMsg{Text: toolBlock})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return strings.Contains(string(bts), "Block complete")
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}
