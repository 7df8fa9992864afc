package sentra_test

import (
	"testing"

	"github.com/sentrahq/sentra"
	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "hello", "hello"},
		{"all metacharacters", `& < > " '`, "&amp; &lt; &gt; &quot; &apos;"},
		{"ampersand first, never re-escaped", "&lt;", "&amp;lt;"},
		{"mixed", `a<b & c="d"`, "a&lt;b &amp; c=&quot;d&quot;"},
		{"unicode untouched", "héllo 世界", "héllo 世界"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sentra.Escape(tt.in))
		})
	}
}

func TestUnescape(t *testing.T) {
	t.Parallel()

	t.Run("amp last avoids double unescape", func(t *testing.T) {
		t.Parallel()
		// "&amp;lt;" must become "&lt;", not "<".
		assert.Equal(t, "&lt;", sentra.Unescape("&amp;lt;"))
	})

	t.Run("all entities", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, `& < > " '`, sentra.Unescape("&amp; &lt; &gt; &quot; &apos;"))
	})
}

func TestEscapeRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"plain text",
		`& < > " '`,
		"&amp;",
		"&amp;amp;lt;",
		`{"json": "<with & entities>"}`,
		"multi\nline\ttext",
		"héllo 世界 🙂",
	}
	for _, in := range inputs {
		assert.Equal(t, in, sentra.Unescape(sentra.Escape(in)), "input %q", in)
	}
}
