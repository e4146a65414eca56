package fields

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Variant names accepted by Build.
const (
	VariantPlain      = "plain"
	VariantChoice     = "choice"
	VariantLookup     = "lookup"
	VariantCalculated = "calculated"
)

// Constructor builds a variant from the shared attributes and the
// variant-specific arguments. It must consume every key it understands
// with Args.Take; keys left behind are reported as unknown.
type Constructor func(base Plain, args Args) (Descriptor, error)

// Registry holds variant constructors indexed by name.
type Registry struct {
	constructors map[string]Constructor
	mu           sync.RWMutex
}

// NewRegistry creates an empty variant registry.
func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[string]Constructor),
	}
}

// Register adds a constructor for the given variant name.
// Panics if the name is already registered.
func (r *Registry) Register(name string, c Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.ToLower(name)
	if _, exists := r.constructors[name]; exists {
		panic(fmt.Sprintf("field variant already registered: %s", name))
	}
	r.constructors[name] = c
}

// Get returns the constructor for the given variant name.
func (r *Registry) Get(name string) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.constructors[strings.ToLower(name)]
	return c, ok
}

// List returns all registered variant names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs the named variant. Shared keys (kind, required,
// description, default) in args override base before the constructor runs.
func (r *Registry) Build(variant string, base Plain, args map[string]any) (Descriptor, error) {
	c, ok := r.Get(variant)
	if !ok {
		return nil, &ArgumentError{Variant: variant, Reason: "unknown field variant"}
	}

	a := NewArgs(args)
	a.variant = variant
	base, err := a.applyShared(base)
	if err != nil {
		return nil, err
	}

	d, err := c(base, a)
	if err != nil {
		return nil, err
	}
	if rest := a.Remaining(); len(rest) > 0 {
		return nil, &ArgumentError{Variant: variant, Key: strings.Join(rest, ","), Reason: "unknown argument"}
	}
	return d, nil
}

// --- Default Global Registry ---

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry holding the built-in variants.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds a constructor to the default registry.
func Register(name string, c Constructor) {
	defaultRegistry.Register(name, c)
}

// Build constructs a variant from the default registry.
func Build(variant string, base Plain, args map[string]any) (Descriptor, error) {
	return defaultRegistry.Build(variant, base, args)
}

func init() {
	Register(VariantPlain, func(base Plain, _ Args) (Descriptor, error) {
		if !base.Kind.Valid() {
			return nil, &ArgumentError{Variant: VariantPlain, Key: "kind", Reason: "required"}
		}
		return base, nil
	})

	Register(VariantChoice, func(base Plain, args Args) (Descriptor, error) {
		choices, err := args.Strings("choices")
		if err != nil {
			return nil, err
		}
		if len(choices) == 0 {
			return nil, &ArgumentError{Variant: VariantChoice, Key: "choices", Reason: "required"}
		}
		return NewChoiceList(base, choices), nil
	})

	Register(VariantLookup, func(base Plain, args Args) (Descriptor, error) {
		listID, err := args.RequiredString("lookup_list_id")
		if err != nil {
			return nil, err
		}
		fieldName, err := args.String("lookup_field_name")
		if err != nil {
			return nil, err
		}
		if fieldName == "" {
			fieldName = "Title"
		}
		return NewLookup(base, listID, fieldName), nil
	})

	Register(VariantCalculated, func(base Plain, args Args) (Descriptor, error) {
		formula, err := args.RequiredString("formula")
		if err != nil {
			return nil, err
		}
		return NewCalculated(base, formula), nil
	})
}
