package sentra

import (
	"math"
	"strconv"
	"strings"

	"github.com/sentrahq/sentra/markup"
)

// typedTags lists the typed-node element names in decode priority order.
var typedTags = []string{"string", "number", "boolean", "null", "array", "object"}

// EncodeValue renders a Value as typed dialect markup.
func EncodeValue(v Value) string {
	var b strings.Builder
	encodeValue(&b, v)
	return b.String()
}

func encodeValue(b *strings.Builder, v Value) {
	switch x := v.(type) {
	case nil:
		b.WriteString("<null></null>")
	case Null:
		b.WriteString("<null></null>")
	case String:
		b.WriteString("<string>")
		b.WriteString(Escape(string(x)))
		b.WriteString("</string>")
	case Number:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			// Non-finite numbers have no numeric wire form.
			b.WriteString("<string>")
			b.WriteString(Escape(formatNumber(f)))
			b.WriteString("</string>")
			return
		}
		b.WriteString("<number>")
		b.WriteString(formatNumber(f))
		b.WriteString("</number>")
	case Bool:
		if x {
			b.WriteString("<boolean>true</boolean>")
		} else {
			b.WriteString("<boolean>false</boolean>")
		}
	case Array:
		b.WriteString("<array>")
		for _, item := range x {
			encodeValue(b, item)
		}
		b.WriteString("</array>")
	case Object:
		b.WriteString("<object>")
		for _, m := range x {
			b.WriteString(`<parameter name="`)
			b.WriteString(Escape(m.Key))
			b.WriteString(`">`)
			encodeValue(b, m.Value)
			b.WriteString("</parameter>")
		}
		b.WriteString("</object>")
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// decodeValue converts a parsed node into a Value. The node may itself be
// a typed node, carry a typed child, or hold bare text subject to scalar
// inference.
func decodeValue(n *markup.Node) Value {
	switch n.Name {
	case "string":
		return String(Unescape(n.Text()))
	case "number":
		return decodeNumber(n.Text())
	case "boolean":
		return Bool(strings.TrimSpace(n.Text()) == "true")
	case "null":
		return Null{}
	case "array":
		return decodeArray(n)
	case "object":
		return decodeObject(n)
	}
	// Fixed priority: the first typed child present determines the type.
	for _, tag := range typedTags {
		if kids := n.Children(tag); len(kids) > 0 {
			return decodeValue(kids[0])
		}
	}
	return inferScalar(n.Text())
}

func decodeNumber(text string) Value {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		// Not a number after all; keep the text rather than dropping it.
		return String(Unescape(text))
	}
	return Number(f)
}

// decodeArray decodes items in document order. The reference encoder
// grouped siblings by type, which reorders mixed-type arrays relative to
// the source text; document order is used here instead.
func decodeArray(n *markup.Node) Value {
	arr := Array{}
	for _, kid := range n.Nodes() {
		arr = append(arr, decodeValue(kid))
	}
	return arr
}

// decodeObject reads parameter children (or legacy property children)
// keyed by their name attribute. The first occurrence of a key wins.
func decodeObject(n *markup.Node) Value {
	obj := Object{}
	for _, kid := range n.Nodes() {
		if kid.Name != "parameter" && kid.Name != "property" {
			continue
		}
		name, ok := kid.Attr("name")
		if !ok || name == "" {
			continue
		}
		obj.Set(Unescape(name), decodeValue(kid))
	}
	return obj
}

// inferScalar types a bare text body: all-digits becomes a number,
// true/false a boolean, null the null value, anything else a string with
// its original whitespace. An empty body is an empty string, never null.
func inferScalar(text string) Value {
	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "true":
		return Bool(true)
	case trimmed == "false":
		return Bool(false)
	case trimmed == "null":
		return Null{}
	case isDigits(trimmed):
		f, err := strconv.ParseFloat(trimmed, 64)
		if err == nil {
			return Number(f)
		}
	}
	return String(Unescape(text))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// DecodeTyped parses markup text containing one typed node and decodes
// it. It is the inverse of EncodeValue. ok is false when the text holds
// no parseable element.
func DecodeTyped(text string) (Value, bool) {
	node, err := markup.Parse(text)
	if err != nil {
		return nil, false
	}
	return decodeValue(node), true
}

// decodeTypedContent decodes raw field content expected to hold one
// typed node. ok is false when none is present, so the caller can apply
// its own per-field fallback.
func decodeTypedContent(raw string) (Value, bool) {
	root, err := markup.Parse("<content>" + raw + "</content>")
	if err != nil {
		return nil, false
	}
	for _, tag := range typedTags {
		if kids := root.Children(tag); len(kids) > 0 {
			return decodeValue(kids[0]), true
		}
	}
	return nil, false
}
