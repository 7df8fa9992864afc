package sentra

import (
	"fmt"
	"strings"

	"github.com/sentrahq/sentra/log"
	"github.com/sentrahq/sentra/markup"
)

// Detection is a sealed interface reporting detector progress. The
// unexported marker method prevents external implementations.
type Detection interface {
	detection()
}

// Pending means no complete, well-formed block has appeared yet; feed
// more chunks.
type Pending struct{}

func (Pending) detection() {}

// Complete means an allowed block is fully formed. Block is the exact
// substring of the buffer spanning the block.
type Complete struct {
	Tag   string
	Block string
}

func (Complete) detection() {}

// Disallowed means a recognized protocol block of the wrong type is
// fully formed before any allowed block. Cancellation of the underlying
// transport is the caller's responsibility.
type Disallowed struct {
	Reason  string
	Partial string
}

func (Disallowed) detection() {}

// Interface compliance checks.
var (
	_ Detection = Pending{}
	_ Detection = Complete{}
	_ Detection = Disallowed{}
)

// knownTags are the protocol tags the detector recognizes even when they
// are not allowed, so a wrong-type block terminates the turn as soon as
// it is unambiguous.
var knownTags = []string{TagTools, TagResult, TagUserQuestion, TagResponse}

type watchedTag struct {
	pattern *tagPattern
	allowed bool
}

// Detector accumulates streamed text for one model turn and reports when
// a complete, well-formed, correctly-typed block has appeared.
//
// A Detector is single-writer: it holds one mutable buffer and must not
// be fed concurrently. Create one per turn and discard it after a
// terminal Detection.
type Detector struct {
	watched  []watchedTag
	buf      strings.Builder
	cursor   int
	terminal Detection
}

// NewDetector creates a detector that completes on the given tags and
// terminates on any other recognized protocol tag.
func NewDetector(allowed ...string) *Detector {
	d := &Detector{}
	seen := make(map[string]bool)
	for _, tag := range allowed {
		name := strings.ToLower(tag)
		if seen[name] {
			continue
		}
		seen[name] = true
		d.watched = append(d.watched, watchedTag{pattern: newTagPattern(name), allowed: true})
	}
	for _, tag := range knownTags {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		d.watched = append(d.watched, watchedTag{pattern: newTagPattern(tag), allowed: false})
	}
	return d
}

// Buffer returns all text fed so far.
func (d *Detector) Buffer() string {
	return d.buf.String()
}

// Feed appends a chunk and rescans the buffer. Once a terminal Detection
// (Complete or Disallowed) is returned, subsequent calls return the same
// value without scanning.
func (d *Detector) Feed(chunk string) Detection {
	if d.terminal != nil {
		return d.terminal
	}
	d.buf.WriteString(chunk)
	return d.scan()
}

func (d *Detector) scan() Detection {
	s := d.buf.String()
	for {
		w, start := d.earliestOpen(s)
		if w == nil {
			return Pending{}
		}
		span, ok := w.pattern.findBlock(s, start)
		if !ok {
			// Opening marker present but the block is not closed yet.
			// Keep the cursor: the next chunk may complete this block.
			return Pending{}
		}
		if _, err := markup.Parse(w.pattern.canonical(s, span), markup.WithStopTags(stopTags...)); err != nil {
			// Coincidental tag-like text; skip past the opening index
			// and keep scanning. Never an error for the caller.
			log.Debugf("sentra: skipping malformed <%s> candidate: %v", w.pattern.name, err)
			d.cursor = span.start + 1
			continue
		}
		if w.allowed {
			d.terminal = Complete{Tag: w.pattern.name, Block: s[span.start:span.end]}
		} else {
			d.terminal = Disallowed{
				Reason:  fmt.Sprintf("complete <%s> block is not allowed in this turn", w.pattern.name),
				Partial: s,
			}
		}
		return d.terminal
	}
}

// earliestOpen finds the watched tag whose opening marker appears first
// at or after the cursor.
func (d *Detector) earliestOpen(s string) (*watchedTag, int) {
	var best *watchedTag
	bestIdx := -1
	for i := range d.watched {
		idx := d.watched[i].pattern.findOpen(s, d.cursor)
		if idx < 0 {
			continue
		}
		if bestIdx < 0 || idx < bestIdx {
			best = &d.watched[i]
			bestIdx = idx
		}
	}
	return best, bestIdx
}
