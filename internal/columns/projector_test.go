package columns

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nucleus/ucl-sharepoint/internal/fields"
	"github.com/nucleus/ucl-sharepoint/internal/schema"
)

type Color string

func (Color) EnumValues() []string { return []string{"Blue", "Red"} }

type County struct {
	Name       string `json:"name"`
	Population int    `json:"population"`
	Color      Color  `json:"color" sp:"field=choice;choices=Blue|Red"`
}

type Info struct {
	Governor string `json:"governor"`
	Age      int    `json:"age"`
}

type State struct {
	State     string   `json:"state" sp:"description=Testing"`
	Shortname string   `json:"shortname"`
	Info      Info     `json:"info"`
	Counties  []County `json:"counties"`
}

func titles(ds []fields.Descriptor) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Column().Title
	}
	return out
}

// =============================================================================
// SCHEMA TO COLUMNS
// =============================================================================

func TestSchemaToColumns_StateExample(t *testing.T) {
	cols, err := SchemaToColumns(schema.TypeFor[State]())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"state", "shortname", "info.governor", "info.age",
		"counties.name", "counties.population", "counties.color",
	}, titles(cols))

	state, ok := cols[0].(fields.Plain)
	require.True(t, ok)
	assert.Equal(t, fields.KindText, state.Kind)
	assert.Equal(t, "Testing", state.Description)

	age := cols[3].(fields.Plain)
	assert.Equal(t, fields.KindNumber, age.Kind)

	color, ok := cols[6].(fields.ChoiceList)
	require.True(t, ok, "expected ChoiceList, got %T", cols[6])
	assert.Equal(t, []string{"Blue", "Red"}, color.Choices)
	assert.Equal(t, fields.KindChoice, color.Kind)
}

func TestSchemaToColumns_FlatTitlesHaveNoDots(t *testing.T) {
	type flat struct {
		A string  `json:"a"`
		B float64 `json:"b"`
		C bool    `json:"c"`
	}

	cols, err := SchemaToColumns(schema.TypeFor[flat]())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, titles(cols))
}

func TestSchemaToColumns_EmptyRecord(t *testing.T) {
	type empty struct{}

	cols, err := SchemaToColumns(schema.TypeFor[empty]())
	require.NoError(t, err)
	assert.Empty(t, cols)
}

func TestSchemaToColumns_UnmappedTypeAbortsEverything(t *testing.T) {
	type withBlob struct {
		Name string `json:"name"`
		Blob []byte `json:"blob"`
	}

	cols, err := SchemaToColumns(schema.TypeFor[withBlob]())
	assert.Nil(t, cols)

	var unmapped *UnmappedTypeError
	require.True(t, errors.As(err, &unmapped), "got %v", err)
	assert.Equal(t, "blob", unmapped.Path)
	assert.Equal(t, schema.TagBytes, unmapped.Tag)
}

func TestSchemaToColumns_CycleIsSchemaError(t *testing.T) {
	type node struct {
		Next *node `json:"next"`
	}

	_, err := SchemaToColumns(schema.TypeFor[node]())
	var schemaErr *schema.SchemaError
	assert.True(t, errors.As(err, &schemaErr))
}

func TestSchemaToColumns_DuplicateTitles(t *testing.T) {
	type dup struct {
		A string `json:"x"`
		B string `sp:"name=x"`
	}

	_, err := SchemaToColumns(schema.TypeFor[dup]())
	var schemaErr *schema.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "x", schemaErr.Path)
}

func TestSchemaToColumns_CatalogMatchesStruct(t *testing.T) {
	catalog, err := schema.LoadCatalogFile("../schema/testdata/state.yaml")
	require.NoError(t, err)
	root, err := catalog.Type("State")
	require.NoError(t, err)

	fromYAML, err := SchemaToColumns(root)
	require.NoError(t, err)
	fromStruct, err := SchemaToColumns(schema.TypeFor[State]())
	require.NoError(t, err)

	require.Len(t, fromYAML, len(fromStruct))
	for i := range fromStruct {
		assert.Equal(t, fromStruct[i].Payload(), fromYAML[i].Payload(), fromStruct[i].Column().Title)
	}
}

// =============================================================================
// OVERRIDES
// =============================================================================

func TestProject_OverrideBeatsInferredKind(t *testing.T) {
	type rated struct {
		Score int `json:"score" sp:"field=choice;choices=1|2|3"`
	}

	cols, err := SchemaToColumns(schema.TypeFor[rated]())
	require.NoError(t, err)
	require.Len(t, cols, 1)

	_, isPlain := cols[0].(fields.Plain)
	assert.False(t, isPlain)
	choice, ok := cols[0].(fields.ChoiceList)
	require.True(t, ok)
	assert.Equal(t, []string{"1", "2", "3"}, choice.Choices)
}

func TestProject_KindOverrideWithoutVariant(t *testing.T) {
	type doc struct {
		Body  string `json:"body" sp:"kind=note"`
		Owner string `json:"owner" sp:"kind=user;required=false"`
	}

	cols, err := SchemaToColumns(schema.TypeFor[doc]())
	require.NoError(t, err)
	assert.Equal(t, fields.KindNote, cols[0].Column().Kind)
	assert.Equal(t, fields.KindUser, cols[1].Column().Kind)
	assert.False(t, cols[1].Column().Required)
}

func TestProject_KindOverrideRescuesUnmappedType(t *testing.T) {
	type attachment struct {
		Data []byte `json:"data" sp:"kind=file"`
	}

	cols, err := SchemaToColumns(schema.TypeFor[attachment]())
	require.NoError(t, err)
	assert.Equal(t, fields.KindFile, cols[0].Column().Kind)
}

func TestProject_ChoiceFromEnumValues(t *testing.T) {
	type paint struct {
		Color Color `json:"color" sp:"field=choice"`
	}

	cols, err := SchemaToColumns(schema.TypeFor[paint]())
	require.NoError(t, err)
	assert.Equal(t, []string{"Blue", "Red"}, cols[0].(fields.ChoiceList).Choices)
}

func TestProject_EnumWithoutOverrideIsChoiceList(t *testing.T) {
	type paint struct {
		Color Color `json:"color"`
	}

	cols, err := SchemaToColumns(schema.TypeFor[paint]())
	require.NoError(t, err)
	choice, ok := cols[0].(fields.ChoiceList)
	require.True(t, ok, "expected ChoiceList, got %T", cols[0])
	assert.Equal(t, []string{"Blue", "Red"}, choice.Choices)
	assert.Equal(t, fields.KindChoice, choice.Kind)
}

func TestProject_EnumInterfaceField(t *testing.T) {
	type loose struct {
		E schema.Enum `sp:"field=choice"`
		F schema.Enum
	}

	leaves, err := schema.Traverse(schema.TypeFor[loose]())
	require.NoError(t, err)
	require.Len(t, leaves, 2)
	assert.Empty(t, leaves[0].Type.(schema.Enumerated).Values())

	_, err = NewProjector(nil).Project(leaves[0])
	var argErr *fields.ArgumentError
	require.True(t, errors.As(err, &argErr))
	assert.Equal(t, "choices", argErr.Key)

	col, err := NewProjector(nil).Project(leaves[1])
	require.NoError(t, err)
	assert.IsType(t, fields.Plain{}, col)
	assert.Equal(t, fields.KindChoice, col.Column().Kind)
}

func TestProject_LookupAndCalculated(t *testing.T) {
	type order struct {
		Customer string  `json:"customer" sp:"field=lookup;lookupListId=0b1c;lookupFieldName=Name"`
		Total    float64 `json:"total" sp:"field=calculated;formula=[qty]*[price]"`
	}

	cols, err := SchemaToColumns(schema.TypeFor[order]())
	require.NoError(t, err)

	lookup := cols[0].(fields.Lookup)
	assert.Equal(t, "0b1c", lookup.LookupListID)
	assert.Equal(t, "Name", lookup.LookupFieldName)

	calc := cols[1].(fields.Calculated)
	assert.Equal(t, "[qty]*[price]", calc.Formula)
	assert.Equal(t, fields.KindCalculated, calc.Kind)
}

func TestProject_BadOverrideAbortsSchema(t *testing.T) {
	type bad struct {
		A string `json:"a" sp:"field=lookup"`
	}

	_, err := SchemaToColumns(schema.TypeFor[bad]())
	var argErr *fields.ArgumentError
	require.True(t, errors.As(err, &argErr))
	assert.Contains(t, err.Error(), "column a")
}

func TestProject_DoesNotMutateNodeOverrides(t *testing.T) {
	leaves, err := schema.Traverse(schema.TypeFor[County]())
	require.NoError(t, err)

	p := NewProjector(nil)
	_, err = p.Project(leaves[2])
	require.NoError(t, err)
	assert.Equal(t, "choice", leaves[2].Overrides["field"])
}

func TestNewProjector_InjectedTable(t *testing.T) {
	type blob struct {
		Data []byte `json:"data"`
	}

	kinds := DefaultKinds()
	kinds[schema.TagBytes] = fields.KindFile

	cols, err := NewProjector(kinds).Columns(schema.TypeFor[blob]())
	require.NoError(t, err)
	assert.Equal(t, fields.KindFile, cols[0].Column().Kind)

	_, mapped := DefaultKinds()[schema.TagBytes]
	assert.False(t, mapped, "DefaultKinds returns a copy")
}

func TestProjector_CustomVariantRegistry(t *testing.T) {
	registry := fields.NewRegistry()
	registry.Register(fields.VariantPlain, func(base fields.Plain, _ fields.Args) (fields.Descriptor, error) {
		base.Description = "custom"
		return base, nil
	})

	type one struct {
		A string `json:"a"`
	}
	cols, err := NewProjector(nil).WithVariants(registry).Columns(schema.TypeFor[one]())
	require.NoError(t, err)
	assert.Equal(t, "custom", cols[0].Column().Description)
}
