// Package mock provides test doubles for sentra interfaces using
// function fields.
package mock

import (
	"io"

	"github.com/sentrahq/sentra"
)

// Interface compliance checks.
var (
	_ sentra.ChunkStream = (*ChunkStream)(nil)
	_ sentra.ChunkStream = (*Chunks)(nil)
)

// ChunkStream is a test double for sentra.ChunkStream.
// Set NextFn before calling Next. CloseFn is nil-safe (no-op) because
// test code commonly calls defer stream.Close().
type ChunkStream struct {
	NextFn  func() (string, error)
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *ChunkStream) Next() (string, error) {
	return s.NextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *ChunkStream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Chunks is a canned ChunkStream that yields its elements in order and
// then io.EOF. Closed reports whether Close was called, so tests can
// assert early termination released the stream.
type Chunks struct {
	Items  []string
	Closed bool

	pos int
}

// Next returns the next canned chunk or io.EOF.
func (c *Chunks) Next() (string, error) {
	if c.Closed {
		return "", sentra.ErrStreamClosed
	}
	if c.pos >= len(c.Items) {
		return "", io.EOF
	}
	chunk := c.Items[c.pos]
	c.pos++
	return chunk, nil
}

// Close marks the stream closed.
func (c *Chunks) Close() error {
	c.Closed = true
	return nil
}

// Remaining returns how many canned chunks were never consumed.
func (c *Chunks) Remaining() int {
	return len(c.Items) - c.pos
}

// ChunkedString splits text into fixed-size chunks, simulating a
// transport that fragments a model turn arbitrarily.
func ChunkedString(text string, size int) *Chunks {
	if size <= 0 {
		size = 1
	}
	var items []string
	for len(text) > 0 {
		n := size
		if n > len(text) {
			n = len(text)
		}
		items = append(items, text[:n])
		text = text[n:]
	}
	return &Chunks{Items: items}
}
