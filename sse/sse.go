// Package sse adapts a text/event-stream response body into a
// [sentra.ChunkStream]. Each SSE event's data payload becomes one chunk;
// a "[DONE]" payload or the end of the body terminates the stream.
package sse

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/sentrahq/sentra"
)

// doneSentinel is the conventional end-of-stream data payload.
const doneSentinel = "[DONE]"

// Interface compliance check.
var _ sentra.ChunkStream = (*Stream)(nil)

// Stream reads SSE events from a response body and yields their data
// payloads as chunks.
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	done    bool
	closed  bool
}

// New wraps an SSE response body. The caller must Close the stream to
// release the body.
func New(body io.ReadCloser) *Stream {
	return &Stream{
		body:    body,
		scanner: bufio.NewScanner(body),
	}
}

// Next returns the data payload of the next SSE event. It returns io.EOF
// after the "[DONE]" sentinel or when the body is exhausted.
func (s *Stream) Next() (string, error) {
	if s.closed {
		return "", sentra.ErrStreamClosed
	}
	if s.done {
		return "", io.EOF
	}

	data, err := s.readEvent()
	if err != nil {
		s.done = true
		return "", err
	}
	if data == doneSentinel {
		s.done = true
		return "", io.EOF
	}
	return data, nil
}

// Close closes the underlying body. Subsequent Next calls fail with
// [sentra.ErrStreamClosed].
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}

// readEvent reads lines until a complete SSE event is assembled and
// returns its data payload. An empty line terminates an event; events
// with no data field, comment lines and unknown fields are skipped.
func (s *Stream) readEvent() (string, error) {
	var dataBuf strings.Builder
	haveData := false

	for s.scanner.Scan() {
		line := s.scanner.Text()

		if line == "" {
			if haveData {
				return dataBuf.String(), nil
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		if strings.HasPrefix(line, "data:") {
			if haveData {
				dataBuf.WriteByte('\n')
			}
			dataBuf.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
			haveData = true
		}
		// "event:" and other fields carry no chunk content.
	}

	if err := s.scanner.Err(); err != nil {
		return "", fmt.Errorf("sse: %w", err)
	}

	// Scanner exhausted without error: flush a trailing unterminated event.
	if haveData {
		return dataBuf.String(), nil
	}
	return "", io.EOF
}
