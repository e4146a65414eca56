// Package columns projects the leaves of a record schema onto SharePoint
// column descriptors.
package columns

import (
	"fmt"
	"maps"
	"strings"

	"github.com/nucleus/ucl-sharepoint/internal/escape"
	"github.com/nucleus/ucl-sharepoint/internal/fields"
	"github.com/nucleus/ucl-sharepoint/internal/schema"
)

// KindTable maps semantic field tags to remote column kinds.
type KindTable map[schema.Tag]fields.Kind

var defaultKinds = KindTable{
	schema.TagString:   fields.KindText,
	schema.TagNote:     fields.KindNote,
	schema.TagInt:      fields.KindNumber,
	schema.TagFloat:    fields.KindNumber,
	schema.TagBool:     fields.KindBoolean,
	schema.TagDateTime: fields.KindDateTime,
	schema.TagDate:     fields.KindDateTime,
	schema.TagEnum:     fields.KindChoice,
	schema.TagURL:      fields.KindURL,
	schema.TagCurrency: fields.KindCurrency,
	schema.TagGUID:     fields.KindGUID,
	schema.TagUser:     fields.KindUser,
}

// DefaultKinds returns a copy of the built-in table. bytes, map and any
// have no entry.
func DefaultKinds() KindTable {
	return maps.Clone(defaultKinds)
}

// Projector turns schema leaves into descriptors.
type Projector struct {
	kinds    KindTable
	variants *fields.Registry
}

// NewProjector uses kinds for type inference. A nil table means DefaultKinds.
func NewProjector(kinds KindTable) *Projector {
	if kinds == nil {
		kinds = DefaultKinds()
	}
	return &Projector{kinds: kinds, variants: fields.DefaultRegistry()}
}

// WithVariants returns a copy of p that builds overrides from r.
func (p *Projector) WithVariants(r *fields.Registry) *Projector {
	clone := *p
	clone.variants = r
	return &clone
}

// Title is the dotted path of a leaf, root excluded.
func Title(node *schema.Node) string {
	return strings.Join(node.Names(), ".")
}

// Project builds the descriptor for one leaf. An override naming a variant
// wins over the kind inferred from the leaf's type.
func (p *Projector) Project(node *schema.Node) (fields.Descriptor, error) {
	title := Title(node)
	base := fields.Plain{Title: title, Required: true, Type: fields.TypeField}
	if node.Field != nil {
		base.Required = node.Field.Required
		base.Description = node.Field.Description
		base.DefaultValue = node.Field.Default
	}

	overrides := node.Overrides.Clone()
	if raw, ok := overrides.Pop(schema.OverrideVariant); ok {
		variant, ok := raw.(string)
		if !ok {
			return nil, &fields.ArgumentError{Variant: fmt.Sprint(raw), Reason: "variant name must be a string"}
		}
		if variant == fields.VariantChoice && !hasChoices(overrides) {
			if enum, ok := node.Type.(schema.Enumerated); ok && len(enum.Values()) > 0 {
				overrides["choices"] = enum.Values()
			}
		}
		d, err := p.variants.Build(variant, base, overrides)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", title, err)
		}
		return d, nil
	}

	if !hasKindOverride(overrides) {
		kind, ok := p.kinds[node.Type.Tag()]
		if !ok {
			return nil, &UnmappedTypeError{Path: title, Tag: node.Type.Tag(), Type: node.Type.Name()}
		}
		base.Kind = kind
	}
	variant := fields.VariantPlain
	if base.Kind == fields.KindChoice && !hasChoices(overrides) {
		if enum, ok := node.Type.(schema.Enumerated); ok && len(enum.Values()) > 0 {
			variant = fields.VariantChoice
			overrides["choices"] = enum.Values()
		}
	}
	d, err := p.variants.Build(variant, base, overrides)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", title, err)
	}
	return d, nil
}

// Columns traverses root and projects every leaf, in traversal order.
// Any failure discards the whole result.
func (p *Projector) Columns(root schema.Type) ([]fields.Descriptor, error) {
	leaves, err := schema.Traverse(root)
	if err != nil {
		return nil, err
	}

	out := make([]fields.Descriptor, 0, len(leaves))
	seen := make(map[string]bool, len(leaves))
	for _, leaf := range leaves {
		d, err := p.Project(leaf)
		if err != nil {
			return nil, err
		}
		title := d.Column().Title
		if seen[title] {
			return nil, &schema.SchemaError{Path: title, Reason: "duplicate column title"}
		}
		seen[title] = true
		out = append(out, d)
	}
	return out, nil
}

// SchemaToColumns projects root with the default kind table.
func SchemaToColumns(root schema.Type) ([]fields.Descriptor, error) {
	return NewProjector(nil).Columns(root)
}

func hasKindOverride(o schema.Overrides) bool {
	for key := range o {
		switch escape.ToSnake(key) {
		case "kind", "field_type_kind":
			return true
		}
	}
	return false
}

func hasChoices(o schema.Overrides) bool {
	_, ok := o["choices"]
	return ok
}

// UnmappedTypeError reports a leaf whose type has no column kind and no
// override to supply one.
type UnmappedTypeError struct {
	Path string
	Tag  schema.Tag
	Type string
}

func (e *UnmappedTypeError) Error() string {
	return fmt.Sprintf("column %s: no column kind for type %s (%s)", e.Path, e.Type, e.Tag)
}
