package sentra

// ParseJSONValueForTest exposes the JSON fast path for external tests.
func ParseJSONValueForTest(text string) (Value, bool) {
	return parseJSONValue(text)
}

// DecodeTypedContentForTest exposes raw field content decoding for
// external tests.
func DecodeTypedContentForTest(raw string) (Value, bool) {
	return decodeTypedContent(raw)
}
