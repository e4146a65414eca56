package schema

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog is a set of record and enum types read from YAML:
//
//	types:
//	  Color:
//	    enum: [Blue, Red]
//	  County:
//	    fields:
//	      - name: name
//	      - name: population
//	        type: int
//	      - name: color
//	        type: Color
//	        overrides: {field: choice, choices: [Blue, Red]}
//	  State:
//	    fields:
//	      - {name: state, description: Testing}
//	      - {name: counties, type: "[]County"}
//
// A field type is a scalar tag (string when omitted), the name of another
// catalog type, or either of those prefixed with "[]".
type Catalog struct {
	defs map[string]*typeDef
}

type typeDef struct {
	Fields []fieldDef `yaml:"fields"`
	Enum   []string   `yaml:"enum"`
}

type fieldDef struct {
	Name        string         `yaml:"name"`
	Type        string         `yaml:"type"`
	Array       bool           `yaml:"array"`
	Required    *bool          `yaml:"required"`
	Description string         `yaml:"description"`
	Default     string         `yaml:"default"`
	Overrides   map[string]any `yaml:"overrides"`
}

type catalogFile struct {
	Types map[string]*typeDef `yaml:"types"`
}

// LoadCatalog decodes and validates a YAML catalog.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode schema catalog: %w", err)
	}

	c := &Catalog{defs: file.Types}
	if c.defs == nil {
		c.defs = map[string]*typeDef{}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadCatalogFile reads a catalog from path.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCatalog(f)
}

// Names returns the declared type names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.defs))
	for name := range c.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Type returns the named catalog type.
func (c *Catalog) Type(name string) (Type, error) {
	def, ok := c.defs[name]
	if !ok {
		return nil, &SchemaError{Type: name, Reason: "not declared in catalog"}
	}
	return catalogType{catalog: c, name: name, def: def}, nil
}

func (c *Catalog) validate() error {
	for _, name := range c.Names() {
		def := c.defs[name]
		if def == nil {
			return &SchemaError{Type: name, Reason: "empty type definition"}
		}
		if len(def.Fields) > 0 && len(def.Enum) > 0 {
			return &SchemaError{Type: name, Reason: "a type has either fields or enum values"}
		}
		seen := make(map[string]bool, len(def.Fields))
		for _, fd := range def.Fields {
			if fd.Name == "" {
				return &SchemaError{Type: name, Reason: "field without a name"}
			}
			if seen[fd.Name] {
				return &SchemaError{Path: fd.Name, Type: name, Reason: "duplicate field"}
			}
			seen[fd.Name] = true
			if _, _, err := c.resolve(fd.Type); err != nil {
				return &SchemaError{Path: fd.Name, Type: name, Reason: err.Error()}
			}
		}
	}
	return nil
}

// resolve turns a field type reference into a Type.
func (c *Catalog) resolve(ref string) (Type, bool, error) {
	ref = strings.TrimSpace(ref)
	isArray := strings.HasPrefix(ref, "[]")
	ref = strings.TrimPrefix(ref, "[]")
	if ref == "" {
		return Scalar(TagString), isArray, nil
	}
	if def, ok := c.defs[ref]; ok {
		return catalogType{catalog: c, name: ref, def: def}, isArray, nil
	}
	tag, err := ParseTag(ref)
	if err != nil {
		return nil, false, fmt.Errorf("unknown type %q", ref)
	}
	return Scalar(tag), isArray, nil
}

// =============================================================================
// CATALOG TYPES
// =============================================================================

type catalogType struct {
	catalog *Catalog
	name    string
	def     *typeDef
}

func (t catalogType) Name() string { return t.name }

func (t catalogType) Tag() Tag {
	if len(t.def.Enum) > 0 {
		return TagEnum
	}
	return TagRecord
}

func (t catalogType) Values() []string {
	return t.def.Enum
}

func (t catalogType) Fields() ([]Field, error) {
	if t.Tag() != TagRecord {
		return nil, nil
	}
	out := make([]Field, 0, len(t.def.Fields))
	for _, fd := range t.def.Fields {
		ft, isArray, err := t.catalog.resolve(fd.Type)
		if err != nil {
			return nil, &SchemaError{Path: fd.Name, Type: t.name, Reason: err.Error()}
		}
		field := Field{
			Name:        fd.Name,
			Type:        ft,
			IsArray:     isArray || fd.Array,
			Required:    fd.Required == nil || *fd.Required,
			Description: fd.Description,
			Default:     fd.Default,
		}
		if len(fd.Overrides) > 0 {
			field.Overrides = Overrides(fd.Overrides).Clone()
		}
		out = append(out, field)
	}
	return out, nil
}
