package gemini

import (
	"iter"

	"github.com/sentrahq/sentra"
	"google.golang.org/genai"
)

// NewStreamForTest exposes the iterator wrapper for testing.
func NewStreamForTest(iterFn iter.Seq2[*genai.GenerateContentResponse, error]) sentra.ChunkStream {
	return newStream(iterFn)
}
