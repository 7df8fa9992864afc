package sentra

import "errors"

// Parse functions in this package never return errors for malformed model
// output; they skip it. The sentinels below cover programmer and
// transport faults only.
var (
	// ErrStreamClosed indicates an operation on a closed chunk stream.
	ErrStreamClosed = errors.New("stream closed")
)

// Internal JSON token-stream faults; never surface to callers.
var (
	errUnexpectedDelim = errors.New("unexpected delimiter")
	errUnexpectedToken = errors.New("unexpected token")
)
