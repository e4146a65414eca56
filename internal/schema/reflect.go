package schema

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TagKey is the struct tag read for column metadata.
//
//	type County struct {
//	    Name  string `json:"name" sp:"description=County name"`
//	    Color Color  `json:"color" sp:"field=choice;choices=Blue|Red"`
//	}
//
// Entries are separated by ";" and written key=value. The keys name,
// description, default, required and type describe the field itself; every
// other key is an override. A bare key means key=true and a lone "-" skips
// the field.
const TagKey = "sp"

// Enum is implemented by Go types that should map to choice columns.
type Enum interface {
	EnumValues() []string
}

var (
	timeType  = reflect.TypeFor[time.Time]()
	urlType   = reflect.TypeFor[url.URL]()
	enumType  = reflect.TypeFor[Enum]()
	bytesType = reflect.TypeFor[[]byte]()
	uuidType  = reflect.TypeFor[uuid.UUID]()
)

type reflectType struct {
	t reflect.Type
}

// TypeOf describes the Go type of v. v may be a value, a pointer, or a
// reflect.Type.
func TypeOf(v any) Type {
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}
	return reflectType{t: deref(t)}
}

// TypeFor describes T.
func TypeFor[T any]() Type {
	return TypeOf(reflect.TypeFor[T]())
}

func (r reflectType) Name() string {
	if r.t == nil {
		return "<nil>"
	}
	if r.t.Name() != "" && r.t.PkgPath() != "" {
		return r.t.PkgPath() + "." + r.t.Name()
	}
	return r.t.String()
}

func (r reflectType) Tag() Tag {
	t := r.t
	switch {
	case t == nil:
		return TagAny
	case t.Implements(enumType) || reflect.PointerTo(t).Implements(enumType):
		return TagEnum
	case t == timeType:
		return TagDateTime
	case t == urlType:
		return TagURL
	case t == uuidType:
		return TagGUID
	case t == bytesType || isByteSequence(t):
		return TagBytes
	}

	switch t.Kind() {
	case reflect.Struct:
		return TagRecord
	case reflect.String:
		return TagString
	case reflect.Bool:
		return TagBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TagInt
	case reflect.Float32, reflect.Float64:
		return TagFloat
	case reflect.Map:
		return TagMap
	default:
		return TagAny
	}
}

// Values lists the members of an Enum type using its zero value. A field
// declared as the Enum interface itself has no members.
func (r reflectType) Values() []string {
	if r.t == nil || r.t.Kind() == reflect.Interface {
		return nil
	}
	if r.t.Implements(enumType) {
		return reflect.Zero(r.t).Interface().(Enum).EnumValues()
	}
	if reflect.PointerTo(r.t).Implements(enumType) {
		return reflect.New(r.t).Interface().(Enum).EnumValues()
	}
	return nil
}

func (r reflectType) Fields() ([]Field, error) {
	if r.Tag() != TagRecord {
		return nil, nil
	}
	return structFields(r.t, map[reflect.Type]bool{})
}

// =============================================================================
// STRUCT FIELDS
// =============================================================================

// structFields lists the fields of t with embedded structs promoted.
// embedding tracks the embedded types being expanded.
func structFields(t reflect.Type, embedding map[reflect.Type]bool) ([]Field, error) {
	if embedding[t] {
		return nil, &SchemaError{Type: t.String(), Reason: "struct embeds itself"}
	}
	embedding[t] = true
	defer delete(embedding, t)

	var out []Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		raw, hasTag := sf.Tag.Lookup(TagKey)
		if raw == "-" {
			continue
		}

		if sf.Anonymous && !hasTag && jsonName(sf) == "" {
			inner := deref(sf.Type)
			if inner.Kind() == reflect.Struct && inner != timeType && inner != urlType {
				promoted, err := structFields(inner, embedding)
				if err != nil {
					return nil, err
				}
				out = append(out, promoted...)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		if sf.Tag.Get("json") == "-" {
			continue
		}

		field, err := reflectField(sf, raw)
		if err != nil {
			return nil, &SchemaError{Path: sf.Name, Type: t.String(), Reason: err.Error()}
		}
		out = append(out, field)
	}
	return out, nil
}

func reflectField(sf reflect.StructField, raw string) (Field, error) {
	ft := sf.Type
	optional := false
	if ft.Kind() == reflect.Pointer {
		optional = true
		ft = deref(ft)
	}

	isArray := false
	for (ft.Kind() == reflect.Slice || ft.Kind() == reflect.Array) && ft.Elem().Kind() != reflect.Uint8 {
		isArray = true
		ft = deref(ft.Elem())
	}

	field := Field{
		Name:     sf.Name,
		Type:     reflectType{t: ft},
		IsArray:  isArray,
		Required: !optional && !hasOmitEmpty(sf),
	}
	if name := jsonName(sf); name != "" {
		field.Name = name
	}

	entries, err := parseTag(raw)
	if err != nil {
		return Field{}, err
	}
	if err := applyEntries(&field, entries); err != nil {
		return Field{}, err
	}
	return field, nil
}

type tagEntry struct {
	key   string
	value string
}

func parseTag(raw string) ([]tagEntry, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var entries []tagEntry
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, found := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("malformed %s tag entry %q", TagKey, part)
		}
		if !found {
			value = "true"
		}
		entries = append(entries, tagEntry{key: key, value: strings.TrimSpace(value)})
	}
	return entries, nil
}

// applyEntries splits tag or catalog entries into declared metadata and
// overrides.
func applyEntries(field *Field, entries []tagEntry) error {
	for _, e := range entries {
		switch e.key {
		case "name":
			field.Name = e.value
		case "description":
			field.Description = e.value
		case "default":
			field.Default = e.value
		case "required":
			switch e.value {
			case "true":
				field.Required = true
			case "false":
				field.Required = false
			default:
				return fmt.Errorf("required must be true or false, got %q", e.value)
			}
		case "optional":
			field.Required = false
		case "type":
			if field.Type != nil && field.Type.Tag() == TagRecord {
				return fmt.Errorf("type cannot be set on record field %s", field.Name)
			}
			tag, err := ParseTag(e.value)
			if err != nil {
				return err
			}
			field.Type = Scalar(tag)
		default:
			if field.Overrides == nil {
				field.Overrides = Overrides{}
			}
			field.Overrides[e.key] = e.value
		}
	}
	return nil
}

func jsonName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

func hasOmitEmpty(sf reflect.StructField) bool {
	_, opts, _ := strings.Cut(sf.Tag.Get("json"), ",")
	for _, opt := range strings.Split(opts, ",") {
		if opt == "omitempty" || opt == "omitzero" {
			return true
		}
	}
	return false
}

func isByteSequence(t reflect.Type) bool {
	return (t.Kind() == reflect.Slice || t.Kind() == reflect.Array) && t.Elem().Kind() == reflect.Uint8
}

func deref(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
