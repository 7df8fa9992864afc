package sentra

import (
	"context"
	"io"
)

// ChunkStream supplies raw text chunks from a model transport using a
// pull-based iterator pattern. Next returns io.EOF when the stream ends
// normally. Close releases the underlying transport; it is safe to call
// after any terminal condition.
type ChunkStream interface {
	Next() (string, error)
	Close() error
}

// ReadTurn drains a ChunkStream through a Detector and stops consuming
// the moment a terminal Detection appears, before the model finishes
// generating. The caller owns cancellation of the transport: close the
// stream (or cancel ctx) after a Disallowed result.
//
// The returned Detection is Pending when the stream ended without a
// complete block. The accumulated text is available from det.Buffer().
func ReadTurn(ctx context.Context, stream ChunkStream, det *Detector) (Detection, error) {
	var last Detection = Pending{}
	for {
		if err := ctx.Err(); err != nil {
			return last, err
		}
		chunk, err := stream.Next()
		if err == io.EOF {
			return last, nil
		}
		if err != nil {
			return last, err
		}
		last = det.Feed(chunk)
		switch last.(type) {
		case Complete, Disallowed:
			return last, nil
		}
	}
}
