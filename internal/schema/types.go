package schema

import (
	"fmt"
	"maps"
)

// Tag is the semantic value type of a field. The column projector maps
// tags to remote column kinds.
type Tag string

const (
	TagString   Tag = "string"
	TagNote     Tag = "note"
	TagInt      Tag = "int"
	TagFloat    Tag = "float"
	TagBool     Tag = "bool"
	TagDateTime Tag = "datetime"
	TagDate     Tag = "date"
	TagEnum     Tag = "enum"
	TagURL      Tag = "url"
	TagCurrency Tag = "currency"
	TagGUID     Tag = "guid"
	TagUser     Tag = "user"
	TagBytes    Tag = "bytes"
	TagMap      Tag = "map"
	TagAny      Tag = "any"
	TagRecord   Tag = "record"
)

var scalarTags = map[Tag]bool{
	TagString: true, TagNote: true, TagInt: true, TagFloat: true, TagBool: true,
	TagDateTime: true, TagDate: true, TagEnum: true, TagURL: true, TagCurrency: true,
	TagGUID: true, TagUser: true, TagBytes: true, TagMap: true, TagAny: true,
}

// Type is anything the walker can list fields of.
type Type interface {
	// Name identifies the type. Record types must have distinct names
	// within one schema; cycle detection compares names.
	Name() string
	// Tag is TagRecord for record types.
	Tag() Tag
	// Fields lists the declared fields in declaration order.
	// Scalar types return nil.
	Fields() ([]Field, error)
}

// Enumerated is implemented by types with a closed set of values.
type Enumerated interface {
	Values() []string
}

// Field is one declared field of a record type.
type Field struct {
	Name        string
	Type        Type
	IsArray     bool
	Required    bool
	Description string
	Default     string
	Overrides   Overrides
}

// Overrides is author-supplied metadata attached to a field declaration.
// The "field" key selects a descriptor variant; everything else is passed
// to that variant as an argument.
type Overrides map[string]any

// OverrideVariant is the override key that selects a descriptor variant.
const OverrideVariant = "field"

// Clone returns a shallow copy. A nil receiver yields an empty map.
func (o Overrides) Clone() Overrides {
	out := make(Overrides, len(o))
	maps.Copy(out, o)
	return out
}

// Pop removes key and returns its value.
func (o Overrides) Pop(key string) (any, bool) {
	v, ok := o[key]
	if ok {
		delete(o, key)
	}
	return v, ok
}

// =============================================================================
// SCALARS
// =============================================================================

type scalar struct {
	tag    Tag
	values []string
}

func (s scalar) Name() string             { return string(s.tag) }
func (s scalar) Tag() Tag                 { return s.tag }
func (s scalar) Fields() ([]Field, error) { return nil, nil }
func (s scalar) Values() []string         { return s.values }

// Scalar returns the leaf type for tag.
func Scalar(tag Tag) Type {
	return scalar{tag: tag}
}

// EnumOf returns an enum leaf type with the given values.
func EnumOf(values ...string) Type {
	return scalar{tag: TagEnum, values: values}
}

// ParseTag validates a scalar tag name.
func ParseTag(s string) (Tag, error) {
	tag := Tag(s)
	if !scalarTags[tag] {
		return "", fmt.Errorf("unknown scalar type %q", s)
	}
	return tag, nil
}
