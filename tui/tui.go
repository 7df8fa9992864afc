// Package tui provides a Bubble Tea inspector for protocol streams. It
// shows model prose as it arrives, a spinner while block detection is
// pending, and the parsed form of the first terminal block.
package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sentrahq/sentra"
)

// ChunkMsg delivers one stream chunk to the model.
type ChunkMsg struct {
	Text string
}

// StreamDoneMsg signals that the stream has ended.
type StreamDoneMsg struct {
	Err error
}

// Run pumps stream through a model built around det and blocks until the
// program exits. Reading stops at the first terminal detection; the
// remainder of the stream is not consumed.
func Run(ctx context.Context, stream sentra.ChunkStream, det *sentra.Detector, theme sentra.Theme) error {
	m := New(det, theme)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	go pumpChunks(ctx, p, stream, m.stop)
	_, err := p.Run()
	return err
}

// pumpChunks forwards chunks to the program until the stream ends, the
// model reaches a terminal detection, or the context is cancelled.
func pumpChunks(ctx context.Context, p *tea.Program, stream sentra.ChunkStream, stop <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			p.Send(StreamDoneMsg{Err: ctx.Err()})
			return
		case <-stop:
			return
		default:
		}
		chunk, err := stream.Next()
		if err == io.EOF {
			p.Send(StreamDoneMsg{})
			return
		}
		if err != nil {
			p.Send(StreamDoneMsg{Err: err})
			return
		}
		p.Send(ChunkMsg{Text: chunk})
	}
}
