// Package trace captures and replays model turns as ordered chunk
// sequences. A saved trace of a real streaming session can be replayed
// through a [sentra.Detector] for regression testing without contacting
// a provider.
package trace

import (
	"encoding/json"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sentrahq/sentra"
)

// Version is the current trace envelope version.
const Version = 1

// Trace is a recorded model turn: the chunks in arrival order plus
// capture metadata.
type Trace struct {
	Version   int       `json:"version"`
	ID        string    `json:"id"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Chunks    []string  `json:"chunks"`
}

// Marshal serializes a trace to the versioned JSON envelope.
func Marshal(t Trace) ([]byte, error) {
	t.Version = Version
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal trace: %w", err)
	}
	return data, nil
}

// Unmarshal deserializes a trace from the versioned JSON envelope.
func Unmarshal(data []byte) (Trace, error) {
	var t Trace
	if err := json.Unmarshal(data, &t); err != nil {
		return Trace{}, fmt.Errorf("unmarshal trace: %w", err)
	}
	if t.Version != Version {
		return Trace{}, fmt.Errorf("unsupported trace version: %d", t.Version)
	}
	return t, nil
}

// Save writes a trace to a JSON file, creating parent directories as
// needed. The write is atomic: a temp file is renamed into place.
func Save(path string, t Trace) error {
	data, err := Marshal(t)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a trace from a JSON file.
func Load(path string) (Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Trace{}, fmt.Errorf("read file: %w", err)
	}
	return Unmarshal(data)
}

// Glob returns the paths under fsys matching pattern, which supports
// ** for recursive matching. Directories are excluded.
func Glob(fsys iofs.FS, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
	}
	var matches []string
	err := doublestar.GlobWalk(fsys, pattern, func(path string, d iofs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		matches = append(matches, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	return matches, nil
}

// Interface compliance checks.
var (
	_ sentra.ChunkStream = (*replayStream)(nil)
	_ sentra.ChunkStream = (*Recorder)(nil)
)

// Replay returns a ChunkStream that replays the trace's chunks in order.
func Replay(t Trace) sentra.ChunkStream {
	return &replayStream{chunks: t.Chunks}
}

type replayStream struct {
	chunks []string
	pos    int
	closed bool
}

func (s *replayStream) Next() (string, error) {
	if s.closed {
		return "", sentra.ErrStreamClosed
	}
	if s.pos >= len(s.chunks) {
		return "", io.EOF
	}
	chunk := s.chunks[s.pos]
	s.pos++
	return chunk, nil
}

func (s *replayStream) Close() error {
	s.closed = true
	return nil
}

// Recorder is ChunkStream middleware that tees every chunk it passes
// through into a trace for later Save.
type Recorder struct {
	inner sentra.ChunkStream
	trace Trace
}

// NewRecorder wraps stream, recording under the given id and model.
func NewRecorder(stream sentra.ChunkStream, id, model string) *Recorder {
	return &Recorder{
		inner: stream,
		trace: Trace{
			Version:   Version,
			ID:        id,
			Model:     model,
			CreatedAt: time.Now().UTC(),
		},
	}
}

// Next pulls from the wrapped stream and records the chunk.
func (r *Recorder) Next() (string, error) {
	chunk, err := r.inner.Next()
	if err != nil {
		return "", err
	}
	r.trace.Chunks = append(r.trace.Chunks, chunk)
	return chunk, nil
}

// Close closes the wrapped stream.
func (r *Recorder) Close() error {
	return r.inner.Close()
}

// Trace returns the chunks recorded so far.
func (r *Recorder) Trace() Trace {
	return r.trace
}
