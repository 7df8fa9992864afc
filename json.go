package sentra

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/jsonc"
)

// looksLikeJSON reports whether trimmed text is plausibly a JSON object
// or array literal. Scalars stay on the typed/inference path.
func looksLikeJSON(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return false
	}
	return s[0] == '{' && s[len(s)-1] == '}' || s[0] == '[' && s[len(s)-1] == ']'
}

// parseJSONValue decodes a JSON-like literal into a Value, preserving
// object key order. Comments and trailing commas are tolerated: models
// emit both. Input must already be entity-unescaped.
func parseJSONValue(text string) (Value, bool) {
	if !looksLikeJSON(text) {
		return nil, false
	}
	clean := jsonc.ToJSON([]byte(strings.TrimSpace(text)))
	dec := json.NewDecoder(strings.NewReader(string(clean)))
	dec.UseNumber()
	v, err := jsonValue(dec)
	if err != nil {
		return nil, false
	}
	// Anything after the literal means it wasn't a single literal.
	if dec.More() {
		return nil, false
	}
	return v, true
}

// jsonValue builds a Value from the decoder's token stream. Using the
// token API rather than Unmarshal keeps object keys in document order.
func jsonValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return jsonValueFromToken(dec, tok)
}

func jsonValueFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := Object{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, _ := keyTok.(string)
				val, err := jsonValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return obj, nil
		case '[':
			arr := Array{}
			for dec.More() {
				val, err := jsonValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return arr, nil
		}
		return nil, errUnexpectedDelim
	case string:
		return String(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return String(t.String()), nil
		}
		return Number(f), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	}
	return nil, errUnexpectedToken
}
