package mapq

import (
	"fmt"

	"github.com/samber/mo"
	"github.com/tidwall/gjson"
)

// Params is an insertion-ordered mapping from field name to a loosely-typed
// value (string, number, bool, coordinate shape, coordinate sequence, bounds,
// time.Time or plain map). Field order is semantically significant only on
// the wire: once serialized, fields appear in the order they were set.
//
// The zero value is not usable; construct with NewParams.
type Params struct {
	keys   []string
	values map[string]any
}

// NewParams returns an empty parameter mapping.
func NewParams() *Params {
	return &Params{values: map[string]any{}}
}

// Set stores a value under name, appending the field on first use and
// overwriting in place afterwards. It returns the receiver for chaining.
func (p *Params) Set(name string, value any) *Params {
	if _, ok := p.values[name]; !ok {
		p.keys = append(p.keys, name)
	}
	p.values[name] = value
	return p
}

// Get returns the value stored under name, or None if the field is absent.
func (p *Params) Get(name string) mo.Option[any] {
	v, ok := p.values[name]
	if !ok {
		return mo.None[any]()
	}
	return mo.Some(v)
}

// Delete removes the field entirely, including its position in the order.
func (p *Params) Delete(name string) {
	if _, ok := p.values[name]; !ok {
		return
	}
	delete(p.values, name)
	for i, k := range p.keys {
		if k == name {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the field names in insertion order. The slice is a copy.
func (p *Params) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Len returns the number of fields.
func (p *Params) Len() int {
	return len(p.keys)
}

// Clone makes the shallow defensive copy every destructive edit in this
// package starts from; the caller's Params is never mutated.
func (p *Params) Clone() *Params {
	out := &Params{
		keys:   make([]string, len(p.keys)),
		values: make(map[string]any, len(p.values)),
	}
	copy(out.keys, p.keys)
	for k, v := range p.values {
		out.values[k] = v
	}
	return out
}

// ParamsFromJSON parses a JSON object into a Params whose field order is the
// object's key order. Nested objects become map[string]any and arrays become
// []any, which is exactly the loose typing the serializers accept.
func ParamsFromJSON(json string) mo.Result[*Params] {
	if !gjson.Valid(json) {
		return mo.Err[*Params](fmt.Errorf("invalid json"))
	}
	root := gjson.Parse(json)
	if !root.IsObject() {
		return mo.Err[*Params](fmt.Errorf("expected a json object, got %s", root.Type))
	}
	p := NewParams()
	root.ForEach(func(key, value gjson.Result) bool {
		p.Set(key.String(), value.Value())
		return true
	})
	return mo.Ok(p)
}
