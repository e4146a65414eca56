package schema

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_LoadStateFile(t *testing.T) {
	catalog, err := LoadCatalogFile("testdata/state.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"Color", "County", "Info", "State"}, catalog.Names())

	root, err := catalog.Type("State")
	require.NoError(t, err)

	leaves, err := Traverse(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"state", "shortname",
		"info.governor", "info.age",
		"counties.name", "counties.population", "counties.color",
	}, dottedPaths(leaves))

	color := leaves[6]
	assert.False(t, color.IsArray)
	assert.True(t, color.Path[1].IsArray, "counties")
	assert.Equal(t, TagEnum, color.Type.Tag())
	assert.Equal(t, []string{"Blue", "Red"}, color.Type.(Enumerated).Values())
	assert.Equal(t, "choice", color.Overrides["field"])
	assert.Equal(t, []any{"Blue", "Red"}, color.Overrides["choices"])
}

func TestCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown reference", "types:\n  A:\n    fields:\n      - {name: x, type: Missing}\n"},
		{"duplicate field", "types:\n  A:\n    fields:\n      - {name: x}\n      - {name: x}\n"},
		{"unnamed field", "types:\n  A:\n    fields:\n      - {type: int}\n"},
		{"fields and enum", "types:\n  A:\n    enum: [a]\n    fields:\n      - {name: x}\n"},
		{"null definition", "types:\n  A:\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog(strings.NewReader(tt.yaml))
			var schemaErr *SchemaError
			assert.True(t, errors.As(err, &schemaErr), "got %v", err)
		})
	}
}

func TestCatalog_UnknownKeyRejected(t *testing.T) {
	_, err := LoadCatalog(strings.NewReader("types:\n  A:\n    colums: []\n"))
	assert.Error(t, err)
}

func TestCatalog_CyclesFailAtTraversal(t *testing.T) {
	catalog, err := LoadCatalog(strings.NewReader(`
types:
  Node:
    fields:
      - name: value
        type: float
      - name: next
        type: Node
`))
	require.NoError(t, err)

	root, err := catalog.Type("Node")
	require.NoError(t, err)

	_, err = Traverse(root)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "next", schemaErr.Path)
}

func TestCatalog_OptionalAndArrayFlag(t *testing.T) {
	catalog, err := LoadCatalog(strings.NewReader(`
types:
  A:
    fields:
      - {name: tags, array: true, required: false}
`))
	require.NoError(t, err)

	root, _ := catalog.Type("A")
	fields, err := root.Fields()
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.True(t, fields[0].IsArray)
	assert.False(t, fields[0].Required)
	assert.Equal(t, TagString, fields[0].Type.Tag())

	_, err = catalog.Type("B")
	assert.Error(t, err)
}
