package sentra_test

import (
	"testing"

	"github.com/sentrahq/sentra"
	"github.com/stretchr/testify/assert"
)

func TestObject_Set(t *testing.T) {
	t.Parallel()

	t.Run("preserves insertion order", func(t *testing.T) {
		t.Parallel()
		obj := sentra.Object{}
		obj.Set("b", sentra.Number(1))
		obj.Set("a", sentra.Number(2))
		obj.Set("c", sentra.Number(3))
		assert.Equal(t, []string{"b", "a", "c"}, obj.Keys())
	})

	t.Run("first occurrence wins", func(t *testing.T) {
		t.Parallel()
		obj := sentra.Object{}
		obj.Set("key", sentra.String("first"))
		obj.Set("key", sentra.String("second"))
		v, ok := obj.Get("key")
		assert.True(t, ok)
		assert.Equal(t, sentra.String("first"), v)
		assert.Len(t, obj, 1)
	})
}

func TestObject_Get(t *testing.T) {
	t.Parallel()
	obj := sentra.Object{{Key: "x", Value: sentra.Bool(true)}}

	v, ok := obj.Get("x")
	assert.True(t, ok)
	assert.Equal(t, sentra.Bool(true), v)

	_, ok = obj.Get("missing")
	assert.False(t, ok)
}

func TestValueTypeSwitch_Exhaustive(t *testing.T) {
	t.Parallel()
	values := []sentra.Value{
		sentra.String("s"),
		sentra.Number(1),
		sentra.Bool(true),
		sentra.Null{},
		sentra.Array{sentra.Number(1)},
		sentra.Object{{Key: "k", Value: sentra.Null{}}},
	}
	assert.Len(t, values, 6, "update slice and switch when adding new Value variants")
	for _, v := range values {
		switch v.(type) {
		case sentra.String:
		case sentra.Number:
		case sentra.Bool:
		case sentra.Null:
		case sentra.Array:
		case sentra.Object:
		default:
			t.Fatalf("unhandled Value variant %T", v)
		}
	}
}
