package sentra

import (
	"strconv"
	"strings"
)

// FormatToolCall renders one tool invocation block. The inverse of
// ParseToolCalls for a single call.
func FormatToolCall(name string, args Object) string {
	var b strings.Builder
	b.WriteString("<" + TagTools + ">\n")
	b.WriteString(`<invoke name="` + Escape(name) + "\">\n")
	for _, m := range args {
		b.WriteString(`<parameter name="` + Escape(m.Key) + `">`)
		b.WriteString(EncodeValue(m.Value))
		b.WriteString("</parameter>\n")
	}
	b.WriteString("</invoke>\n")
	b.WriteString("</" + TagTools + ">")
	return b.String()
}

// ResultInput is the caller-supplied material for FormatResult.
type ResultInput struct {
	StepIndex int
	StepID    string // empty derives "step_{StepIndex}"
	Tool      string
	Reason    []string // joined with "; "
	Args      Object
	Result    Value
}

// FormatResult renders one result block.
//
// Success defaults to true and flips to false only when Result is an
// object whose "success" member is explicitly false. The <data> content
// is Result's "data" member when one exists, otherwise the whole Result
// value; callers constructing results to serialize must account for this
// one-level unwrap.
func FormatResult(in ResultInput) string {
	stepID := in.StepID
	if stepID == "" {
		stepID = "step_" + strconv.Itoa(in.StepIndex)
	}

	success := true
	data := in.Result
	if obj, ok := in.Result.(Object); ok {
		if v, present := obj.Get("success"); present {
			if flag, isBool := v.(Bool); isBool && !bool(flag) {
				success = false
			}
		}
		if d, present := obj.Get("data"); present {
			data = d
		}
	}
	if data == nil {
		data = Null{}
	}

	var b strings.Builder
	b.WriteString("<" + TagResult)
	b.WriteString(` step_id="` + Escape(stepID) + `"`)
	b.WriteString(` tool="` + Escape(in.Tool) + `"`)
	b.WriteString(` success="` + strconv.FormatBool(success) + `">`)
	b.WriteString("\n<reason>" + Escape(strings.Join(in.Reason, "; ")) + "</reason>")
	b.WriteString("\n<args>" + EncodeValue(in.Args) + "</args>")
	b.WriteString("\n<data>" + EncodeValue(data) + "</data>")
	b.WriteString("\n</" + TagResult + ">")
	return b.String()
}

// FormatUserQuestion wraps a question for the user in its marker block.
func FormatUserQuestion(text string) string {
	return "<" + TagUserQuestion + ">" + Escape(text) + "</" + TagUserQuestion + ">"
}

// ParseUserQuestion extracts the text of the first user-question block.
// ok is false when no complete block is present.
func ParseUserQuestion(text string) (string, bool) {
	span, ok := questionPattern.findBlock(text, 0)
	if !ok {
		return "", false
	}
	return Unescape(text[span.openEnd:span.innerEnd]), true
}
