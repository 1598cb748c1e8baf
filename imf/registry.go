package imf

import (
	"errors"
	"fmt"
	"strings"
)

// Registry errors
var (
	// ErrInvalidName is returned when an attribute name is empty or
	// contains an embedded NUL byte. Names are stored NUL-terminated
	// on disk, so such names cannot be represented.
	ErrInvalidName = errors.New("imf: invalid attribute name")

	// ErrTypeMismatch is returned when an attribute already exists
	// under a different declared type.
	ErrTypeMismatch = errors.New("imf: attribute type mismatch")
)

// AttributeRegistry is an ordered mapping from attribute name to a
// typed attribute. Iteration order is first-insertion order, which
// writers rely on for deterministic on-disk attribute ordering.
//
// A registry is a plain in-memory value: safe for concurrent reads,
// external exclusion required for mutation.
type AttributeRegistry struct {
	entries []*Attribute
	index   map[string]int
}

// NewAttributeRegistry creates an empty registry.
func NewAttributeRegistry() *AttributeRegistry {
	return &AttributeRegistry{
		index: make(map[string]int),
	}
}

// Insert adds or overwrites an attribute.
//
// If an attribute with the same name already exists, its declared
// type must match; on match the value is overwritten in place,
// keeping the first-insertion position. On mismatch the registry is
// left unchanged and ErrTypeMismatch is returned. Empty names and
// names with embedded NUL bytes are rejected with ErrInvalidName.
func (reg *AttributeRegistry) Insert(attr *Attribute) error {
	if attr.Name == "" || strings.ContainsRune(attr.Name, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidName, attr.Name)
	}
	if i, ok := reg.index[attr.Name]; ok {
		if reg.entries[i].Type != attr.Type {
			return fmt.Errorf("%w: %q is %s, not %s",
				ErrTypeMismatch, attr.Name, reg.entries[i].Type, attr.Type)
		}
		reg.entries[i] = attr
		return nil
	}
	reg.index[attr.Name] = len(reg.entries)
	reg.entries = append(reg.entries, attr)
	return nil
}

// Erase removes the attribute with the given name. Erasing an absent
// name is a no-op, not an error.
func (reg *AttributeRegistry) Erase(name string) {
	i, ok := reg.index[name]
	if !ok {
		return
	}
	reg.entries = append(reg.entries[:i], reg.entries[i+1:]...)
	delete(reg.index, name)
	for j := i; j < len(reg.entries); j++ {
		reg.index[reg.entries[j].Name] = j
	}
}

// Get returns the attribute with the given name, or nil if absent.
func (reg *AttributeRegistry) Get(name string) *Attribute {
	if i, ok := reg.index[name]; ok {
		return reg.entries[i]
	}
	return nil
}

// Has returns true if an attribute with the given name exists.
func (reg *AttributeRegistry) Has(name string) bool {
	_, ok := reg.index[name]
	return ok
}

// Len returns the number of attributes.
func (reg *AttributeRegistry) Len() int {
	return len(reg.entries)
}

// At returns the attribute at position i in insertion order.
func (reg *AttributeRegistry) At(i int) *Attribute {
	return reg.entries[i]
}

// Names returns the attribute names in insertion order.
func (reg *AttributeRegistry) Names() []string {
	names := make([]string, len(reg.entries))
	for i, attr := range reg.entries {
		names[i] = attr.Name
	}
	return names
}

// Attributes returns the attributes in insertion order. The slice is
// a copy; the attributes it points at are shared.
func (reg *AttributeRegistry) Attributes() []*Attribute {
	result := make([]*Attribute, len(reg.entries))
	copy(result, reg.entries)
	return result
}

// Find returns the value of the named attribute if it exists and its
// payload has concrete type T. An absent name and a present name of a
// different type both report false; a typed lookup never panics on
// mismatch.
func Find[T any](reg *AttributeRegistry, name string) (T, bool) {
	var zero T
	attr := reg.Get(name)
	if attr == nil {
		return zero, false
	}
	v, ok := attr.Value.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// Mutate applies fn to the named attribute's value in place. No
// re-validation happens; the change is visible to later reads
// immediately. Returns false, without calling fn, if the attribute is
// absent or holds a different concrete type.
func Mutate[T any](reg *AttributeRegistry, name string, fn func(*T)) bool {
	attr := reg.Get(name)
	if attr == nil {
		return false
	}
	v, ok := attr.Value.(T)
	if !ok {
		return false
	}
	fn(&v)
	attr.Value = v
	return true
}
