package sentra

import (
	"strings"

	"github.com/sentrahq/sentra/log"
	"github.com/sentrahq/sentra/markup"
)

// ToolCall is one decoded tool invocation. Arguments is never empty: a
// block whose parameters all fail to decode contributes no call at all.
type ToolCall struct {
	Name      string
	Arguments Object
}

// ParseToolCalls extracts every tool invocation from text. Blocks are
// processed independently in order of appearance; a malformed block is
// skipped and scanning continues after it. The function never fails:
// text without valid blocks yields an empty slice.
func ParseToolCalls(text string) []ToolCall {
	var calls []ToolCall
	pos := 0
	for {
		span, ok := toolsPattern.findBlock(text, pos)
		if !ok {
			return calls
		}
		if call, ok := parseToolBlock(toolsPattern.canonical(text, span)); ok {
			calls = append(calls, call)
		}
		pos = span.end
	}
}

// parseToolBlock decodes a single canonicalized <sentra-tools> block.
// Only the first <invoke> child is considered: the protocol carries one
// call per block, and multiple calls require multiple sibling blocks.
func parseToolBlock(block string) (ToolCall, bool) {
	root, err := markup.Parse(block)
	if err != nil {
		log.Debugf("sentra: skipping malformed tool block: %v", err)
		return ToolCall{}, false
	}
	invokes := root.Children("invoke")
	if len(invokes) == 0 {
		return ToolCall{}, false
	}
	invoke := invokes[0]
	name, _ := invoke.Attr("name")
	name = strings.TrimSpace(Unescape(name))
	if name == "" {
		return ToolCall{}, false
	}
	args := Object{}
	for _, param := range invoke.Children("parameter") {
		key, ok := param.Attr("name")
		if !ok {
			continue
		}
		key = Unescape(key)
		if key == "" {
			continue
		}
		args.Set(key, decodeParameter(param))
	}
	if len(args) == 0 {
		return ToolCall{}, false
	}
	return ToolCall{Name: name, Arguments: args}, true
}

// decodeParameter resolves one parameter value. A body that looks like a
// JSON object or array literal is decoded as JSON after entity
// unescaping, letting the model emit one raw JSON blob instead of fully
// typed nested tags. Anything else takes the typed-node path.
func decodeParameter(param *markup.Node) Value {
	text := param.Text()
	if looksLikeJSON(text) {
		if v, ok := parseJSONValue(Unescape(strings.TrimSpace(text))); ok {
			return v
		}
	}
	return decodeValue(param)
}
