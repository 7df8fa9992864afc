// Package gemini adapts the Google Gemini API into a [sentra.ChunkStream].
//
// It wraps the google.golang.org/genai SDK. Streaming uses the SDK's
// iter.Seq2 iterator, wrapped into the pull-based ChunkStream interface;
// each candidate text part of a response becomes one chunk.
package gemini

import (
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/sentrahq/sentra"
	"google.golang.org/genai"
)

const defaultModel = "gemini-3.1-pro-preview"

// Client issues streaming generation requests against the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is gemini-3.1-pro-preview.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c := &Client{
		client: gc,
		model:  defaultModel,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Stream sends prompt to the model and returns a ChunkStream over the
// generated text. systemPrompt may be empty.
func (c *Client) Stream(ctx context.Context, systemPrompt, prompt string) (sentra.ChunkStream, error) {
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}

	config := &genai.GenerateContentConfig{}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	it := c.client.Models.GenerateContentStream(ctx, c.model, contents, config)
	return newStream(it), nil
}

// Interface compliance check.
var _ sentra.ChunkStream = (*stream)(nil)

// stream wraps the genai streaming iterator. Responses can carry several
// text parts, so parts are queued and handed out one per Next call.
type stream struct {
	pull    func() (*genai.GenerateContentResponse, error, bool)
	stop    func()
	pending []string
	closed  bool
}

func newStream(iterFn iter.Seq2[*genai.GenerateContentResponse, error]) *stream {
	next, stop := iter.Pull2(iterFn)
	return &stream{pull: next, stop: stop}
}

// Next returns the next text chunk from the model. Thought parts are
// skipped. Returns io.EOF when generation completes.
func (s *stream) Next() (string, error) {
	if s.closed {
		return "", sentra.ErrStreamClosed
	}
	for len(s.pending) == 0 {
		resp, err, ok := s.pull()
		if !ok {
			return "", io.EOF
		}
		if err != nil {
			return "", fmt.Errorf("gemini: %w", err)
		}
		s.pending = append(s.pending, textParts(resp)...)
	}
	chunk := s.pending[0]
	s.pending = s.pending[1:]
	return chunk, nil
}

// Close stops the underlying iterator. Subsequent Next calls fail with
// [sentra.ErrStreamClosed].
func (s *stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.stop()
	return nil
}

// textParts collects the non-thought text parts of the first candidate.
func textParts(resp *genai.GenerateContentResponse) []string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	var out []string
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought || p.Text == "" {
			continue
		}
		out = append(out, p.Text)
	}
	return out
}
