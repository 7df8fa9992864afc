// Package sentra implements the Sentra Tools Protocol: a constrained,
// machine-parseable text dialect that lets a language model request tool
// invocations and report results inside otherwise free-form generated text.
//
// All parsing in this package is fail-soft. The input originates from a
// model and may be truncated, malformed, or adversarial; parse functions
// skip what they cannot understand and never panic or return errors for
// bad input.
package sentra

// Value is a sealed interface representing a decoded protocol value.
// The unexported marker method prevents external implementations; the
// six variants below are closed and stable.
type Value interface {
	value()
}

// String contains text content.
type String string

func (String) value() {}

// Number contains a numeric value. The dialect does not distinguish
// integers from floats.
type Number float64

func (Number) value() {}

// Bool contains a boolean value.
type Bool bool

func (Bool) value() {}

// Null is the explicit null value.
type Null struct{}

func (Null) value() {}

// Array is an ordered list of values.
type Array []Value

func (Array) value() {}

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is an ordered list of key/value pairs with unique keys.
// Insertion order is preserved; duplicate keys keep the first occurrence.
type Object []Member

func (Object) value() {}

// Get returns the value for key and whether the key is present.
func (o Object) Get(key string) (Value, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Set appends the pair when key is absent. A later duplicate is ignored:
// the first occurrence wins.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.Get(key); ok {
		return
	}
	*o = append(*o, Member{Key: key, Value: v})
}

// Keys returns the object's keys in insertion order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// Interface compliance checks.
var (
	_ Value = String("")
	_ Value = Number(0)
	_ Value = Bool(false)
	_ Value = Null{}
	_ Value = Array(nil)
	_ Value = Object(nil)
)
