package sentra_test

import (
	"math"
	"testing"

	"github.com/sentrahq/sentra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   sentra.Value
		want string
	}{
		{"null", sentra.Null{}, "<null></null>"},
		{"string", sentra.String("hi"), "<string>hi</string>"},
		{"string escaped", sentra.String(`a<b & "c"`), "<string>a&lt;b &amp; &quot;c&quot;</string>"},
		{"integer number", sentra.Number(42), "<number>42</number>"},
		{"float number", sentra.Number(0.5), "<number>0.5</number>"},
		{"negative number", sentra.Number(-3.25), "<number>-3.25</number>"},
		{"bool true", sentra.Bool(true), "<boolean>true</boolean>"},
		{"bool false", sentra.Bool(false), "<boolean>false</boolean>"},
		{"empty array", sentra.Array{}, "<array></array>"},
		{
			"array",
			sentra.Array{sentra.String("a"), sentra.Number(1)},
			"<array><string>a</string><number>1</number></array>",
		},
		{"empty object", sentra.Object{}, "<object></object>"},
		{
			"object",
			sentra.Object{{Key: "k", Value: sentra.Bool(true)}},
			`<object><parameter name="k"><boolean>true</boolean></parameter></object>`,
		},
		{
			"object key escaped",
			sentra.Object{{Key: `a"b`, Value: sentra.Null{}}},
			`<object><parameter name="a&quot;b"><null></null></parameter></object>`,
		},
		{"nan becomes string", sentra.Number(math.NaN()), "<string>NaN</string>"},
		{"infinity becomes string", sentra.Number(math.Inf(1)), "<string>+Inf</string>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sentra.EncodeValue(tt.in))
		})
	}
}

func TestDecodeTyped_RoundTrip(t *testing.T) {
	t.Parallel()

	values := []sentra.Value{
		sentra.Null{},
		sentra.String(""),
		sentra.String("hello world"),
		sentra.String(`entities: & < > " '`),
		sentra.Number(0),
		sentra.Number(42),
		sentra.Number(-1.5),
		sentra.Number(1e21),
		sentra.Bool(true),
		sentra.Bool(false),
		sentra.Array{},
		sentra.Array{sentra.Number(1), sentra.Number(2), sentra.Number(3)},
		sentra.Array{sentra.String("mixed"), sentra.Number(7), sentra.Bool(false), sentra.Null{}},
		sentra.Object{},
		sentra.Object{
			{Key: "name", Value: sentra.String("weather")},
			{Key: "cities", Value: sentra.Array{sentra.String("Beijing"), sentra.String("Shanghai")}},
			{Key: "nested", Value: sentra.Object{{Key: "deep", Value: sentra.Number(1)}}},
		},
	}
	for _, v := range values {
		got, ok := sentra.DecodeTyped(sentra.EncodeValue(v))
		require.True(t, ok, "value %#v", v)
		assert.Equal(t, v, got, "value %#v", v)
	}
}

func TestDecodeTyped_MixedArrayDocumentOrder(t *testing.T) {
	t.Parallel()
	// Mixed-type siblings decode in document order, not grouped by type.
	in := "<array><string>a</string><number>1</number><string>b</string></array>"
	got, ok := sentra.DecodeTyped(in)
	require.True(t, ok)
	assert.Equal(t, sentra.Array{sentra.String("a"), sentra.Number(1), sentra.String("b")}, got)
}

func TestDecodeTyped_ObjectRules(t *testing.T) {
	t.Parallel()

	t.Run("duplicate keys keep first", func(t *testing.T) {
		t.Parallel()
		in := `<object><parameter name="k"><number>1</number></parameter><parameter name="k"><number>2</number></parameter></object>`
		got, ok := sentra.DecodeTyped(in)
		require.True(t, ok)
		assert.Equal(t, sentra.Object{{Key: "k", Value: sentra.Number(1)}}, got)
	})

	t.Run("legacy property children accepted", func(t *testing.T) {
		t.Parallel()
		in := `<object><property name="old"><string>style</string></property></object>`
		got, ok := sentra.DecodeTyped(in)
		require.True(t, ok)
		assert.Equal(t, sentra.Object{{Key: "old", Value: sentra.String("style")}}, got)
	})

	t.Run("nameless children skipped", func(t *testing.T) {
		t.Parallel()
		in := `<object><parameter><string>lost</string></parameter><parameter name="kept"><null></null></parameter></object>`
		got, ok := sentra.DecodeTyped(in)
		require.True(t, ok)
		assert.Equal(t, sentra.Object{{Key: "kept", Value: sentra.Null{}}}, got)
	})
}

func TestDecodeTyped_ScalarInference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want sentra.Value
	}{
		{"digits become number", "<v>42</v>", sentra.Number(42)},
		{"digits with suffix stay string", "<v>42abc</v>", sentra.String("42abc")},
		{"true becomes bool", "<v>true</v>", sentra.Bool(true)},
		{"false becomes bool", "<v>false</v>", sentra.Bool(false)},
		{"null becomes null", "<v>null</v>", sentra.Null{}},
		{"empty body is empty string, never null", "<v></v>", sentra.String("")},
		{"whitespace preserved for strings", "<v> padded </v>", sentra.String(" padded ")},
		{"negative digits stay string", "<v>-42</v>", sentra.String("-42")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := sentra.DecodeTyped(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeTyped_TypedChildPriority(t *testing.T) {
	t.Parallel()
	// A wrapper node with a typed child decodes the child.
	got, ok := sentra.DecodeTyped(`<parameter name="x"><string>wrapped</string></parameter>`)
	require.True(t, ok)
	assert.Equal(t, sentra.String("wrapped"), got)
}

func TestDecodeTypedContent(t *testing.T) {
	t.Parallel()

	t.Run("typed node decodes", func(t *testing.T) {
		t.Parallel()
		got, ok := sentra.DecodeTypedContentForTest("<object><parameter name=\"x\"><number>1</number></parameter></object>")
		assert.True(t, ok)
		assert.Equal(t, sentra.Object{{Key: "x", Value: sentra.Number(1)}}, got)
	})

	t.Run("bare text does not", func(t *testing.T) {
		t.Parallel()
		_, ok := sentra.DecodeTypedContentForTest("just words, no markup")
		assert.False(t, ok)
	})
}
