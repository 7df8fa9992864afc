// Package markup is a permissive XML-like scanner for the Sentra Tools
// Protocol dialect. It is deliberately not an XML parser: unescaped
// ampersands, unknown entities, bare attributes and arbitrary junk between
// attributes are all tolerated, because the input is generated by a
// language model. Structural problems (unclosed or mismatched elements)
// do produce errors; callers use that to reject malformed blocks.
//
// Elements named in WithStopTags are stop nodes: their inner markup is
// captured verbatim as raw text instead of being parsed into a tree.
package markup

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for structural failures.
var (
	// ErrNoElement indicates the input contains no element at all.
	ErrNoElement = errors.New("no element found")

	// ErrUnclosed indicates an element with no matching closing tag.
	ErrUnclosed = errors.New("unclosed element")

	// ErrMismatched indicates a closing tag that does not match the
	// innermost open element.
	ErrMismatched = errors.New("mismatched closing tag")
)

// Attr is a single element attribute. Value is kept entity-escaped;
// unescaping is the caller's concern.
type Attr struct {
	Name  string
	Value string
}

// segment is one unit of mixed element content: either text or a child.
type segment struct {
	text  string
	child *Node
}

// Node is an element in the parsed tree. Names are lower-cased.
type Node struct {
	Name     string
	Attrs    []Attr
	stop     bool
	raw      string
	kids     []*Node
	segments []segment
}

// Attr returns the value of the named attribute (case-insensitive) and
// whether it is present. The first occurrence wins.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if strings.EqualFold(a.Name, name) {
			return a.Value, true
		}
	}
	return "", false
}

// Children returns the direct element children with the given name
// (case-insensitive), in document order.
func (n *Node) Children(name string) []*Node {
	var out []*Node
	for _, k := range n.kids {
		if strings.EqualFold(k.Name, name) {
			out = append(out, k)
		}
	}
	return out
}

// Nodes returns all direct element children in document order.
func (n *Node) Nodes() []*Node {
	return n.kids
}

// Raw returns the verbatim inner markup of a stop node. It returns the
// empty string for ordinary nodes.
func (n *Node) Raw() string {
	return n.raw
}

// IsStop reports whether the node was parsed as a stop node.
func (n *Node) IsStop() bool {
	return n.stop
}

// Text returns the flattened text content of the subtree in document
// order. For a stop node this is its raw inner markup.
func (n *Node) Text() string {
	if n.stop {
		return n.raw
	}
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	if n.stop {
		b.WriteString(n.raw)
		return
	}
	for _, s := range n.segments {
		if s.child != nil {
			s.child.writeText(b)
		} else {
			b.WriteString(s.text)
		}
	}
}

// Option configures Parse.
type Option func(*parser)

// WithStopTags marks element names (case-insensitive) whose inner markup
// is captured verbatim instead of parsed.
func WithStopTags(names ...string) Option {
	return func(p *parser) {
		for _, name := range names {
			p.stop[strings.ToLower(name)] = true
		}
	}
}

// Parse scans text and returns the first top-level element. Text before
// the first element is skipped; text after it is ignored.
func Parse(text string, opts ...Option) (*Node, error) {
	p := &parser{src: text, stop: make(map[string]bool)}
	for _, opt := range opts {
		opt(p)
	}
	if !p.seekElement() {
		return nil, ErrNoElement
	}
	return p.parseElement()
}

type parser struct {
	src  string
	pos  int
	stop map[string]bool
}

// seekElement advances to the next position that starts an element.
func (p *parser) seekElement() bool {
	for p.pos < len(p.src) {
		i := strings.IndexByte(p.src[p.pos:], '<')
		if i < 0 {
			return false
		}
		p.pos += i
		if p.pos+1 < len(p.src) && isNameStart(p.src[p.pos+1]) {
			return true
		}
		p.pos++
	}
	return false
}

func isNameStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c >= '0' && c <= '9' || c == '-' || c == '.' || c == ':'
}

// parseElement parses one element starting at p.pos, which must point at
// '<' followed by a name character.
func (p *parser) parseElement() (*Node, error) {
	p.pos++ // consume '<'
	name := strings.ToLower(p.readName())
	n := &Node{Name: name}

	selfClosed, err := p.parseAttrs(n)
	if err != nil {
		return nil, err
	}
	if selfClosed {
		return n, nil
	}

	if p.stop[name] {
		raw, err := p.scanRaw(name)
		if err != nil {
			return nil, err
		}
		n.stop = true
		n.raw = raw
		return n, nil
	}

	if err := p.parseContent(n); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *parser) readName() string {
	start := p.pos
	for p.pos < len(p.src) && isNameChar(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

// parseAttrs consumes everything up to and including the closing '>' of
// an opening tag. Unrecognized bytes between attributes are skipped.
func (p *parser) parseAttrs(n *Node) (selfClosed bool, err error) {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '>':
			p.pos++
			return false, nil
		case c == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '>':
			p.pos += 2
			return true, nil
		case isNameStart(c):
			name := p.readName()
			value := p.readAttrValue()
			n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
		default:
			p.pos++ // whitespace or junk
		}
	}
	return false, fmt.Errorf("%w: <%s>", ErrUnclosed, n.Name)
}

// readAttrValue reads an optional ="value" following an attribute name.
// Bare attributes yield an empty value.
func (p *parser) readAttrValue() string {
	i := p.pos
	for i < len(p.src) && (p.src[i] == ' ' || p.src[i] == '\t' || p.src[i] == '\n' || p.src[i] == '\r') {
		i++
	}
	if i >= len(p.src) || p.src[i] != '=' {
		return ""
	}
	i++
	for i < len(p.src) && (p.src[i] == ' ' || p.src[i] == '\t' || p.src[i] == '\n' || p.src[i] == '\r') {
		i++
	}
	if i >= len(p.src) {
		p.pos = i
		return ""
	}
	if q := p.src[i]; q == '"' || q == '\'' {
		end := strings.IndexByte(p.src[i+1:], q)
		if end < 0 {
			p.pos = len(p.src)
			return p.src[i+1:]
		}
		p.pos = i + 1 + end + 1
		return p.src[i+1 : i+1+end]
	}
	// Unquoted value: read until whitespace or tag end.
	start := i
	for i < len(p.src) && p.src[i] != ' ' && p.src[i] != '\t' && p.src[i] != '\n' && p.src[i] != '\r' && p.src[i] != '>' && p.src[i] != '/' {
		i++
	}
	p.pos = i
	return p.src[start:i]
}

// parseContent parses mixed text and child elements until the matching
// closing tag for n.
func (p *parser) parseContent(n *Node) error {
	for {
		if p.pos >= len(p.src) {
			return fmt.Errorf("%w: <%s>", ErrUnclosed, n.Name)
		}
		i := strings.IndexByte(p.src[p.pos:], '<')
		if i < 0 {
			return fmt.Errorf("%w: <%s>", ErrUnclosed, n.Name)
		}
		if i > 0 {
			n.segments = append(n.segments, segment{text: p.src[p.pos : p.pos+i]})
			p.pos += i
		}
		// p.pos is at '<'.
		switch {
		case p.pos+1 < len(p.src) && p.src[p.pos+1] == '/':
			return p.parseClose(n)
		case p.pos+1 < len(p.src) && isNameStart(p.src[p.pos+1]):
			child, err := p.parseElement()
			if err != nil {
				return err
			}
			n.kids = append(n.kids, child)
			n.segments = append(n.segments, segment{child: child})
		case p.pos+1 < len(p.src) && (p.src[p.pos+1] == '!' || p.src[p.pos+1] == '?'):
			p.skipDirective()
		default:
			// A lone '<' that starts nothing: literal text.
			n.segments = append(n.segments, segment{text: "<"})
			p.pos++
		}
	}
}

// parseClose consumes a closing tag, which must match the open element.
func (p *parser) parseClose(n *Node) error {
	p.pos += 2 // consume '</'
	name := strings.ToLower(p.readName())
	if name != n.Name {
		return fmt.Errorf("%w: <%s> closed by </%s>", ErrMismatched, n.Name, name)
	}
	end := strings.IndexByte(p.src[p.pos:], '>')
	if end < 0 {
		return fmt.Errorf("%w: <%s>", ErrUnclosed, n.Name)
	}
	p.pos += end + 1
	return nil
}

// skipDirective skips comments, doctype declarations and processing
// instructions. Content is discarded.
func (p *parser) skipDirective() {
	if strings.HasPrefix(p.src[p.pos:], "<!--") {
		end := strings.Index(p.src[p.pos+4:], "-->")
		if end < 0 {
			p.pos = len(p.src)
			return
		}
		p.pos += 4 + end + 3
		return
	}
	end := strings.IndexByte(p.src[p.pos:], '>')
	if end < 0 {
		p.pos = len(p.src)
		return
	}
	p.pos += end + 1
}

// scanRaw captures the inner markup of a stop node verbatim, up to the
// matching closing tag. Same-named nested openings are tracked so a stop
// node may legally contain copies of itself.
func (p *parser) scanRaw(name string) (string, error) {
	lower := strings.ToLower(p.src)
	openTok := "<" + name
	closeTok := "</" + name
	depth := 1
	start := p.pos
	i := p.pos
	for i < len(p.src) {
		j := strings.IndexByte(lower[i:], '<')
		if j < 0 {
			break
		}
		i += j
		switch {
		case strings.HasPrefix(lower[i:], closeTok) && isTagBoundary(lower, i+len(closeTok)):
			depth--
			if depth == 0 {
				raw := p.src[start:i]
				end := strings.IndexByte(p.src[i:], '>')
				if end < 0 {
					return "", fmt.Errorf("%w: <%s>", ErrUnclosed, name)
				}
				p.pos = i + end + 1
				return raw, nil
			}
			i += len(closeTok)
		case strings.HasPrefix(lower[i:], openTok) && isTagBoundary(lower, i+len(openTok)):
			depth++
			i += len(openTok)
		default:
			i++
		}
	}
	return "", fmt.Errorf("%w: <%s>", ErrUnclosed, name)
}

// isTagBoundary reports whether the byte at i terminates a tag name.
func isTagBoundary(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	c := s[i]
	return c == '>' || c == '/' || c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
