package attr

import (
	"maps"
	"reflect"

	"github.com/go-drift/chart/pkg/errors"
)

// Store is the backing map of a node's attributes.
//
// Collections held in a Store are never mutated in place: every write to an
// Array or Object attribute installs a fresh slice or map. Values handed out
// by getters or copied into flattened specs therefore stay stable.
type Store map[string]any

// Accessor reads and writes one attribute of a Store according to its kind.
type Accessor interface {
	// Descriptor returns the descriptor the accessor was generated from.
	Descriptor() Descriptor
	// Get returns the stored value, or nil if absent.
	Get(s Store) any
	// GetKey returns one entry of an Object attribute.
	GetKey(s Store, key string) (any, error)
	// Set writes v following the kind's semantics. A nil v clears the attribute.
	Set(s Store, v any) error
	// SetKey upserts one entry of an Object attribute.
	SetKey(s Store, key string, v any) error
}

// NewAccessor generates the accessor for d.
func NewAccessor(d Descriptor) Accessor {
	switch d.Kind {
	case KindArray:
		return arrayAccessor{d}
	case KindObject:
		return objectAccessor{d}
	default:
		return valueAccessor{d}
	}
}

type valueAccessor struct{ d Descriptor }

func (a valueAccessor) Descriptor() Descriptor { return a.d }

func (a valueAccessor) Get(s Store) any { return s[a.d.Name] }

func (a valueAccessor) GetKey(s Store, key string) (any, error) {
	return nil, &errors.AttributeValueError{Name: a.d.Name, Kind: a.d.Kind.String(), Got: key}
}

func (a valueAccessor) Set(s Store, v any) error {
	if v == nil {
		delete(s, a.d.Name)
		return nil
	}
	s[a.d.Name] = v
	return nil
}

func (a valueAccessor) SetKey(s Store, key string, v any) error {
	return &errors.AttributeValueError{Name: a.d.Name, Kind: a.d.Kind.String(), Got: key}
}

type arrayAccessor struct{ d Descriptor }

func (a arrayAccessor) Descriptor() Descriptor { return a.d }

func (a arrayAccessor) Get(s Store) any {
	cur, ok := s[a.d.Name].([]any)
	if !ok {
		return nil
	}
	return append([]any(nil), cur...)
}

func (a arrayAccessor) GetKey(s Store, key string) (any, error) {
	return nil, &errors.AttributeValueError{Name: a.d.Name, Kind: a.d.Kind.String(), Got: key}
}

func (a arrayAccessor) Set(s Store, v any) error {
	if v == nil {
		delete(s, a.d.Name)
		return nil
	}
	if seq, ok := toSlice(v); ok {
		s[a.d.Name] = seq
		return nil
	}
	cur, _ := s[a.d.Name].([]any)
	next := make([]any, len(cur), len(cur)+1)
	copy(next, cur)
	s[a.d.Name] = append(next, v)
	return nil
}

func (a arrayAccessor) SetKey(s Store, key string, v any) error {
	return &errors.AttributeValueError{Name: a.d.Name, Kind: a.d.Kind.String(), Got: key}
}

type objectAccessor struct{ d Descriptor }

func (a objectAccessor) Descriptor() Descriptor { return a.d }

func (a objectAccessor) Get(s Store) any {
	cur, ok := s[a.d.Name].(map[string]any)
	if !ok {
		return nil
	}
	return maps.Clone(cur)
}

func (a objectAccessor) GetKey(s Store, key string) (any, error) {
	cur, _ := s[a.d.Name].(map[string]any)
	return cur[key], nil
}

func (a objectAccessor) Set(s Store, v any) error {
	if v == nil {
		delete(s, a.d.Name)
		return nil
	}
	m, ok := toMap(v)
	if !ok {
		return &errors.AttributeValueError{Name: a.d.Name, Kind: a.d.Kind.String(), Got: v}
	}
	s[a.d.Name] = m
	return nil
}

func (a objectAccessor) SetKey(s Store, key string, v any) error {
	cur, _ := s[a.d.Name].(map[string]any)
	next := make(map[string]any, len(cur)+1)
	maps.Copy(next, cur)
	next[key] = v
	s[a.d.Name] = next
	return nil
}

// toSlice reports whether v is a full replacement collection and, if so,
// copies it into a fresh []any.
func toSlice(v any) ([]any, bool) {
	if seq, ok := v.([]any); ok {
		return append(make([]any, 0, len(seq)), seq...), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// toMap copies a string-keyed map of any value type into a fresh map.
func toMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		out := make(map[string]any, len(m))
		maps.Copy(out, m)
		return out, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}
