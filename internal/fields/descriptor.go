package fields

import (
	"github.com/nucleus/ucl-sharepoint/internal/escape"
)

// Remote entity types named in the __metadata envelope of a payload.
const (
	TypeField                    = "SP.Field"
	TypeFieldCreationInformation = "SP.FieldCreationInformation"
	TypeFieldCalculated          = "SP.FieldCalculated"
)

// Descriptor is the declarative shape of one remote column.
type Descriptor interface {
	// Column returns the attributes every variant shares.
	Column() Plain
	// Payload renders the column-creation body.
	Payload() map[string]any
	// CreationInformation reports whether the payload is an
	// SP.FieldCreationInformation, which the remote side only accepts
	// wrapped in "parameters" on the addfield endpoint.
	CreationInformation() bool
}

// =============================================================================
// PLAIN
// =============================================================================

// Plain is a column fully described by its kind.
type Plain struct {
	Title        string
	Kind         Kind
	Required     bool
	Type         string
	Description  string
	DefaultValue string
}

// NewPlain returns a required SP.Field of the given kind.
func NewPlain(title string, kind Kind) Plain {
	return Plain{Title: title, Kind: kind, Required: true, Type: TypeField}
}

func (p Plain) Column() Plain { return p }

func (p Plain) CreationInformation() bool {
	return p.Type == TypeFieldCreationInformation
}

func (p Plain) Payload() map[string]any {
	return render(p.Type, p.attributes())
}

func (p Plain) attributes() []attribute {
	return []attribute{
		{"title", p.Title},
		{"field_type_kind", int(p.Kind)},
		{"required", p.Required},
		{"description", p.Description},
		{"default_value", p.DefaultValue},
	}
}

// withDefaults fills the kind and entity type a variant implies when the
// caller left them unset.
func (p Plain) withDefaults(kind Kind, typ string) Plain {
	if !p.Kind.Valid() {
		p.Kind = kind
	}
	if p.Type == "" || p.Type == TypeField {
		p.Type = typ
	}
	return p
}

// =============================================================================
// VARIANTS
// =============================================================================

// ChoiceList is a column restricted to a fixed set of values.
type ChoiceList struct {
	Plain
	Choices []string
}

// NewChoiceList defaults to KindChoice; KindMultiChoice and KindGridChoice
// set on base are kept.
func NewChoiceList(base Plain, choices []string) ChoiceList {
	return ChoiceList{
		Plain:   base.withDefaults(KindChoice, TypeFieldCreationInformation),
		Choices: append([]string(nil), choices...),
	}
}

func (c ChoiceList) Payload() map[string]any {
	attrs := append(c.Plain.attributes(), attribute{"choices", map[string]any{"results": c.Choices}})
	return render(c.Type, attrs)
}

// Lookup is a column whose values reference items of another list.
type Lookup struct {
	Plain
	LookupListID    string
	LookupFieldName string
}

func NewLookup(base Plain, listID, fieldName string) Lookup {
	return Lookup{
		Plain:           base.withDefaults(KindLookup, TypeFieldCreationInformation),
		LookupListID:    listID,
		LookupFieldName: fieldName,
	}
}

func (l Lookup) Payload() map[string]any {
	attrs := append(l.Plain.attributes(),
		attribute{"lookup_list_id", l.LookupListID},
		attribute{"lookup_field_name", l.LookupFieldName},
	)
	return render(l.Type, attrs)
}

// Calculated is a read-only column computed from a formula.
type Calculated struct {
	Plain
	Formula string
}

func NewCalculated(base Plain, formula string) Calculated {
	return Calculated{
		Plain:   base.withDefaults(KindCalculated, TypeFieldCalculated),
		Formula: formula,
	}
}

func (c Calculated) Payload() map[string]any {
	return render(c.Type, append(c.Plain.attributes(), attribute{"formula", c.Formula}))
}

// =============================================================================
// RENDERING
// =============================================================================

type attribute struct {
	name  string
	value any
}

// render casts attribute names to the remote casing, drops empty strings,
// escapes the keys and adds the __metadata envelope.
func render(metadataType string, attrs []attribute) map[string]any {
	data := make(map[string]any, len(attrs))
	for _, a := range attrs {
		if s, ok := a.value.(string); ok && s == "" {
			continue
		}
		if a.value == nil {
			continue
		}
		data[escape.ToCamel(a.name)] = a.value
	}
	data = escape.EncodeKeys(data)
	data["__metadata"] = map[string]any{"type": metadataType}
	return data
}
