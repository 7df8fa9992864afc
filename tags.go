package sentra

import (
	"regexp"
	"strings"
)

// Canonical protocol tag names. On the wire the model may separate the
// name tokens with '-', '_' or whitespace in any case; parsing tolerates
// all of them.
const (
	TagTools        = "sentra-tools"
	TagResult       = "sentra-result"
	TagUserQuestion = "sentra-user-question"
	TagResponse     = "sentra-response"
)

// tagPattern holds the compiled lenient opening and closing markers for
// one canonical tag name.
type tagPattern struct {
	name    string
	open    *regexp.Regexp // group 1 captures the attribute text
	closing *regexp.Regexp
}

// newTagPattern compiles markers for a canonical tag name. Each '-' in
// the name matches a run of '-', '_' or whitespace on the wire.
func newTagPattern(name string) *tagPattern {
	parts := strings.Split(strings.ToLower(name), "-")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	body := strings.Join(parts, `[-_\s]+`)
	return &tagPattern{
		name:    strings.ToLower(name),
		open:    regexp.MustCompile(`(?is)<` + body + `\b([^>]*)>`),
		closing: regexp.MustCompile(`(?is)</` + body + `\s*>`),
	}
}

// Compiled once per process and reused across calls.
var (
	toolsPattern    = newTagPattern(TagTools)
	resultPattern   = newTagPattern(TagResult)
	questionPattern = newTagPattern(TagUserQuestion)
)

// blockSpan locates one complete block inside a larger text.
type blockSpan struct {
	start    int    // index of '<' of the opening tag
	openEnd  int    // index just past the opening tag's '>'
	innerEnd int    // index of '<' of the closing tag
	end      int    // index just past the closing tag's '>'
	attrs    string // raw attribute text from the opening tag
}

// findBlock locates the first complete block for the pattern at or after
// from. ok is false when no opening marker remains or the block is not
// yet closed.
func (tp *tagPattern) findBlock(text string, from int) (blockSpan, bool) {
	if from >= len(text) {
		return blockSpan{}, false
	}
	loc := tp.open.FindStringSubmatchIndex(text[from:])
	if loc == nil {
		return blockSpan{}, false
	}
	span := blockSpan{
		start:   from + loc[0],
		openEnd: from + loc[1],
		attrs:   text[from+loc[2] : from+loc[3]],
	}
	closeLoc := tp.closing.FindStringIndex(text[span.openEnd:])
	if closeLoc == nil {
		return blockSpan{}, false
	}
	span.innerEnd = span.openEnd + closeLoc[0]
	span.end = span.openEnd + closeLoc[1]
	return span, true
}

// findOpen returns the index of the next opening marker at or after from,
// or -1 when none remains.
func (tp *tagPattern) findOpen(text string, from int) int {
	if from >= len(text) {
		return -1
	}
	loc := tp.open.FindStringIndex(text[from:])
	if loc == nil {
		return -1
	}
	return from + loc[0]
}

// canonical rewrites a located block with canonical opening and closing
// tags so the markup scanner sees a single well-known element name.
func (tp *tagPattern) canonical(text string, span blockSpan) string {
	inner := text[span.openEnd:span.innerEnd]
	return "<" + tp.name + span.attrs + ">" + inner + "</" + tp.name + ">"
}
