package markup_test

import (
	"testing"

	"github.com/sentrahq/sentra/markup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Basic(t *testing.T) {
	t.Parallel()

	root, err := markup.Parse(`<a x="1" y='2'><b>text</b></a>`)
	require.NoError(t, err)

	assert.Equal(t, "a", root.Name)
	x, ok := root.Attr("x")
	assert.True(t, ok)
	assert.Equal(t, "1", x)
	y, ok := root.Attr("Y")
	assert.True(t, ok, "attribute lookup is case-insensitive")
	assert.Equal(t, "2", y)

	kids := root.Children("b")
	require.Len(t, kids, 1)
	assert.Equal(t, "text", kids[0].Text())
}

func TestParse_SkipsLeadingProse(t *testing.T) {
	t.Parallel()

	root, err := markup.Parse("some prose first, 1 < 2 maybe\n<root>inner</root> trailing")
	require.NoError(t, err)
	assert.Equal(t, "root", root.Name)
	assert.Equal(t, "inner", root.Text())
}

func TestParse_NoElement(t *testing.T) {
	t.Parallel()

	_, err := markup.Parse("no tags at all")
	assert.ErrorIs(t, err, markup.ErrNoElement)
}

func TestParse_StructuralErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		wantErr error
	}{
		{"unclosed element", "<a><b>text</b>", markup.ErrUnclosed},
		{"unclosed opening tag", "<a foo=", markup.ErrUnclosed},
		{"mismatched close", "<a>text</b>", markup.ErrMismatched},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := markup.Parse(tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_Leniency(t *testing.T) {
	t.Parallel()

	t.Run("bare attributes and junk", func(t *testing.T) {
		t.Parallel()
		root, err := markup.Parse(`<a disabled !! name="v">x</a>`)
		require.NoError(t, err)
		_, ok := root.Attr("disabled")
		assert.True(t, ok)
		name, _ := root.Attr("name")
		assert.Equal(t, "v", name)
	})

	t.Run("unescaped ampersand in text", func(t *testing.T) {
		t.Parallel()
		root, err := markup.Parse("<a>this & that &unknown; fine</a>")
		require.NoError(t, err)
		assert.Equal(t, "this & that &unknown; fine", root.Text())
	})

	t.Run("lone angle bracket in text", func(t *testing.T) {
		t.Parallel()
		root, err := markup.Parse("<a>1 < 2</a>")
		require.NoError(t, err)
		assert.Equal(t, "1 < 2", root.Text())
	})

	t.Run("comments skipped", func(t *testing.T) {
		t.Parallel()
		root, err := markup.Parse("<a>be<!-- hidden -->fore</a>")
		require.NoError(t, err)
		assert.Equal(t, "before", root.Text())
	})

	t.Run("self-closing child", func(t *testing.T) {
		t.Parallel()
		root, err := markup.Parse("<a><br/>text</a>")
		require.NoError(t, err)
		assert.Len(t, root.Children("br"), 1)
		assert.Equal(t, "text", root.Text())
	})

	t.Run("whitespace in closing tag", func(t *testing.T) {
		t.Parallel()
		root, err := markup.Parse("<a>x</a  >")
		require.NoError(t, err)
		assert.Equal(t, "x", root.Text())
	})
}

func TestParse_StopTags(t *testing.T) {
	t.Parallel()

	t.Run("inner markup kept raw", func(t *testing.T) {
		t.Parallel()
		root, err := markup.Parse(
			`<result><data>{"a": [1, 2]} & <not-a-tag</data></result>`,
			markup.WithStopTags("data"),
		)
		require.NoError(t, err)
		kids := root.Children("data")
		require.Len(t, kids, 1)
		assert.True(t, kids[0].IsStop())
		assert.Equal(t, `{"a": [1, 2]} & <not-a-tag`, kids[0].Raw())
	})

	t.Run("nested same-named stop nodes", func(t *testing.T) {
		t.Parallel()
		root, err := markup.Parse(
			"<r><data>outer <data>inner</data> tail</data></r>",
			markup.WithStopTags("data"),
		)
		require.NoError(t, err)
		kids := root.Children("data")
		require.Len(t, kids, 1)
		assert.Equal(t, "outer <data>inner</data> tail", kids[0].Raw())
	})

	t.Run("unclosed stop node fails", func(t *testing.T) {
		t.Parallel()
		_, err := markup.Parse("<r><data>never ends</r>", markup.WithStopTags("data"))
		assert.ErrorIs(t, err, markup.ErrUnclosed)
	})
}

func TestNode_DocumentOrder(t *testing.T) {
	t.Parallel()

	root, err := markup.Parse("<a><x>1</x><y>2</y><x>3</x></a>")
	require.NoError(t, err)

	var names []string
	for _, n := range root.Nodes() {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"x", "y", "x"}, names)
	assert.Len(t, root.Children("x"), 2)
}

func TestNode_FlattenedText(t *testing.T) {
	t.Parallel()

	root, err := markup.Parse("<a>alpha <b>beta</b> gamma</a>")
	require.NoError(t, err)
	assert.Equal(t, "alpha beta gamma", root.Text())
}

func TestParse_DuplicateAttributes(t *testing.T) {
	t.Parallel()

	root, err := markup.Parse(`<a k="first" k="second"></a>`)
	require.NoError(t, err)
	v, ok := root.Attr("k")
	assert.True(t, ok)
	assert.Equal(t, "first", v, "first occurrence wins")
}
