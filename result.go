package sentra

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sentrahq/sentra/log"
	"github.com/sentrahq/sentra/markup"
)

// ToolResult is one decoded <sentra-result> block.
type ToolResult struct {
	StepID    string
	StepIndex int
	Tool      string
	Success   bool
	Reason    string
	Args      Value // empty Object when absent or undecodable
	Data      Value // raw text preserved when undecodable; nil when absent
}

// stopTags are element names whose content legitimately holds literal
// angle brackets or JSON rather than protocol markup.
var stopTags = []string{"args", "arguments", "data"}

// ParseResult extracts the single result block from text. The primary
// path parses the block as a lenient tree; if that fails or yields no
// tool name, a regex fallback extracts the same fields directly from the
// raw text. ok is false when no usable result is present.
func ParseResult(text string) (ToolResult, bool) {
	if fields, ok := parseResultTree(text); ok {
		if res, ok := fields.resolve(); ok {
			return res, true
		}
	}
	fields, ok := parseResultRegex(text)
	if !ok {
		return ToolResult{}, false
	}
	return fields.resolve()
}

// resultFields carries the raw, still-escaped field text from either
// extraction path, with presence flags where absence changes meaning.
type resultFields struct {
	step       string
	stepID     string
	tool       string
	success    string
	hasSuccess bool
	reason     string
	args       string
	hasArgs    bool
	data       string
	hasData    bool
}

func parseResultTree(text string) (resultFields, bool) {
	span, ok := resultPattern.findBlock(text, 0)
	if !ok {
		return resultFields{}, false
	}
	root, err := markup.Parse(resultPattern.canonical(text, span), markup.WithStopTags(stopTags...))
	if err != nil {
		log.Debugf("sentra: result tree parse failed, trying regex fallback: %v", err)
		return resultFields{}, false
	}

	var f resultFields
	f.step, _ = root.Attr("step")
	f.stepID, _ = root.Attr("step_id")
	f.tool, _ = root.Attr("tool")
	f.success, f.hasSuccess = root.Attr("success")
	if kids := root.Children("reason"); len(kids) > 0 {
		f.reason = kids[0].Text()
	}
	for _, tag := range []string{"args", "arguments"} {
		if kids := root.Children(tag); len(kids) > 0 {
			f.args = kids[0].Raw()
			f.hasArgs = true
			break
		}
	}
	if kids := root.Children("data"); len(kids) > 0 {
		f.data = kids[0].Raw()
		f.hasData = true
	}
	return f, true
}

// Fallback extraction, tolerant of attribute order and whitespace.
var (
	stepAttrRE    = regexp.MustCompile(`(?i)\bstep\s*=\s*["']([^"']*)["']`)
	stepIDAttrRE  = regexp.MustCompile(`(?i)\bstep_id\s*=\s*["']([^"']*)["']`)
	toolAttrRE    = regexp.MustCompile(`(?i)\btool\s*=\s*["']([^"']*)["']`)
	successAttrRE = regexp.MustCompile(`(?i)\bsuccess\s*=\s*["']([^"']*)["']`)

	reasonBlockRE = regexp.MustCompile(`(?is)<reason\b[^>]*>(.*?)</reason\s*>`)
	argsBlockRE   = regexp.MustCompile(`(?is)<args\b[^>]*>(.*?)</args\s*>`)
	argsLegacyRE  = regexp.MustCompile(`(?is)<arguments\b[^>]*>(.*?)</arguments\s*>`)
	dataBlockRE   = regexp.MustCompile(`(?is)<data\b[^>]*>(.*?)</data\s*>`)

	trailingDigitsRE = regexp.MustCompile(`(\d+)\s*$`)
)

func parseResultRegex(text string) (resultFields, bool) {
	var f resultFields
	found := false
	if m := toolAttrRE.FindStringSubmatch(text); m != nil {
		f.tool = m[1]
		found = true
	}
	if m := stepAttrRE.FindStringSubmatch(text); m != nil {
		f.step = m[1]
	}
	if m := stepIDAttrRE.FindStringSubmatch(text); m != nil {
		f.stepID = m[1]
	}
	if m := successAttrRE.FindStringSubmatch(text); m != nil {
		f.success = m[1]
		f.hasSuccess = true
	}
	if m := reasonBlockRE.FindStringSubmatch(text); m != nil {
		f.reason = m[1]
	}
	if m := argsBlockRE.FindStringSubmatch(text); m != nil {
		f.args = m[1]
		f.hasArgs = true
	} else if m := argsLegacyRE.FindStringSubmatch(text); m != nil {
		f.args = m[1]
		f.hasArgs = true
	}
	if m := dataBlockRE.FindStringSubmatch(text); m != nil {
		f.data = m[1]
		f.hasData = true
	}
	return f, found
}

// resolve applies the field-resolution rules shared by both paths.
func (f resultFields) resolve() (ToolResult, bool) {
	tool := strings.TrimSpace(Unescape(f.tool))
	if tool == "" {
		return ToolResult{}, false
	}

	res := ToolResult{
		Tool:   tool,
		StepID: Unescape(f.stepID),
		Reason: Unescape(f.reason),
	}

	res.StepIndex = resolveStepIndex(f.step, res.StepID)

	// A missing success attribute means success.
	success := f.success
	if !f.hasSuccess {
		success = "true"
	}
	res.Success = strings.ToLower(strings.TrimSpace(success)) == "true"

	// Args never surfaces raw unparsed text: the fallback is an empty
	// object. Data is never silently dropped: the fallback is the raw
	// unescaped text verbatim.
	res.Args = Object{}
	if f.hasArgs {
		if v, ok := parseJSONValue(Unescape(f.args)); ok {
			res.Args = v
		} else if v, ok := decodeTypedContent(f.args); ok {
			res.Args = v
		}
	}
	if f.hasData {
		if v, ok := parseJSONValue(Unescape(f.data)); ok {
			res.Data = v
		} else if v, ok := decodeTypedContent(f.data); ok {
			res.Data = v
		} else {
			res.Data = String(Unescape(f.data))
		}
	}
	return res, true
}

func resolveStepIndex(step, stepID string) int {
	if s := strings.TrimSpace(step); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			return n
		}
	}
	if m := trailingDigitsRE.FindStringSubmatch(stepID); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return 0
}
