// Package attr declares node attributes and the accessors generated for them.
//
// A Descriptor names an attribute and fixes its access shape (Kind). Named
// descriptor lists (Set) are the unit of reuse: a node class registers any
// number of sets into its Table, which merges them with last-registered-wins
// semantics and generates one Accessor per attribute name.
//
// Three shapes exist:
//
//	Value   a single value; setting replaces it
//	Array   an ordered sequence; setting a slice replaces it, setting
//	        anything else appends one element
//	Object  a keyed map; SetKey upserts one entry, setting a map replaces
//	        the whole map
package attr

// Kind is the access shape of an attribute.
type Kind int

const (
	// KindValue stores a single value.
	KindValue Kind = iota
	// KindArray stores an ordered sequence of values.
	KindArray
	// KindObject stores a keyed map of values.
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Descriptor declares one attribute.
type Descriptor struct {
	Name string
	Kind Kind
}

// Value returns a descriptor for a single-value attribute.
func Value(name string) Descriptor { return Descriptor{Name: name, Kind: KindValue} }

// Array returns a descriptor for an ordered-sequence attribute.
func Array(name string) Descriptor { return Descriptor{Name: name, Kind: KindArray} }

// Object returns a descriptor for a keyed-map attribute.
func Object(name string) Descriptor { return Descriptor{Name: name, Kind: KindObject} }

// Set is a named, reusable list of descriptors. Capability mixins such as
// marks and compositions each contribute one.
type Set struct {
	Name        string
	Descriptors []Descriptor
}

// NewSet returns a Set holding ds in declaration order.
func NewSet(name string, ds ...Descriptor) Set {
	return Set{Name: name, Descriptors: append([]Descriptor(nil), ds...)}
}

// With returns a copy of s with ds appended. Later entries win over earlier
// ones with the same name once registered.
func (s Set) With(ds ...Descriptor) Set {
	out := make([]Descriptor, 0, len(s.Descriptors)+len(ds))
	out = append(out, s.Descriptors...)
	out = append(out, ds...)
	return Set{Name: s.Name, Descriptors: out}
}

// Merge flattens sets into one descriptor list. Names keep the position of
// their first occurrence; the kind is taken from the last occurrence.
func Merge(sets ...Set) []Descriptor {
	index := make(map[string]int)
	var out []Descriptor
	for _, s := range sets {
		for _, d := range s.Descriptors {
			if i, ok := index[d.Name]; ok {
				out[i] = d
				continue
			}
			index[d.Name] = len(out)
			out = append(out, d)
		}
	}
	return out
}
