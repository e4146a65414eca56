package fields

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// KIND
// =============================================================================

func TestKind_NamesAndCodes(t *testing.T) {
	assert.Equal(t, 2, int(KindText))
	assert.Equal(t, 9, int(KindNumber))
	assert.Equal(t, 17, int(KindCalculated))
	assert.Equal(t, 31, int(KindMaxItems))
	assert.Equal(t, "multichoice", KindMultiChoice.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"text", KindText, false},
		{" MultiChoice ", KindMultiChoice, false},
		{"15", KindMultiChoice, false},
		{"0", KindInvalid, true},
		{"15abc", KindInvalid, true},
		{"blob", KindInvalid, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// =============================================================================
// PAYLOADS
// =============================================================================

func TestPlain_Payload(t *testing.T) {
	p := NewPlain("state", KindText)
	p.Description = "Testing"

	assert.Equal(t, map[string]any{
		"Title":         "state",
		"FieldTypeKind": 2,
		"Required":      true,
		"Description":   "Testing",
		"__metadata":    map[string]any{"type": "SP.Field"},
	}, p.Payload())
	assert.False(t, p.CreationInformation())
}

func TestPlain_PayloadKeepsFalseRequired(t *testing.T) {
	p := NewPlain("info.age", KindNumber)
	p.Required = false

	payload := p.Payload()
	assert.Equal(t, false, payload["Required"])
	assert.Equal(t, "info.age", payload["Title"])
	assert.NotContains(t, payload, "DefaultValue")
}

func TestChoiceList_Payload(t *testing.T) {
	c := NewChoiceList(NewPlain("counties.color", KindInvalid), []string{"Blue", "Red"})

	assert.Equal(t, KindChoice, c.Kind)
	assert.True(t, c.CreationInformation())
	assert.Equal(t, map[string]any{
		"Title":         "counties.color",
		"FieldTypeKind": 6,
		"Required":      true,
		"Choices":       map[string]any{"results": []string{"Blue", "Red"}},
		"__metadata":    map[string]any{"type": "SP.FieldCreationInformation"},
	}, c.Payload())
}

func TestChoiceList_KeepsMultiChoiceKind(t *testing.T) {
	c := NewChoiceList(NewPlain("tags", KindMultiChoice), []string{"a"})
	assert.Equal(t, KindMultiChoice, c.Kind)
}

func TestLookup_Payload(t *testing.T) {
	l := NewLookup(NewPlain("owner", KindInvalid), "list-guid", "Title")

	payload := l.Payload()
	assert.Equal(t, 7, payload["FieldTypeKind"])
	assert.Equal(t, "list-guid", payload["LookupListId"])
	assert.Equal(t, "Title", payload["LookupFieldName"])
	assert.True(t, l.CreationInformation())
}

func TestCalculated_Payload(t *testing.T) {
	c := NewCalculated(NewPlain("total", KindInvalid), "=[a]+[b]")

	payload := c.Payload()
	assert.Equal(t, 17, payload["FieldTypeKind"])
	assert.Equal(t, "=[a]+[b]", payload["Formula"])
	assert.Equal(t, map[string]any{"type": "SP.FieldCalculated"}, payload["__metadata"])
	assert.False(t, c.CreationInformation())
}

// =============================================================================
// REGISTRY
// =============================================================================

func TestRegistry_BuiltinsRegistered(t *testing.T) {
	assert.Equal(t, []string{"calculated", "choice", "lookup", "plain"}, DefaultRegistry().List())
}

func TestRegistry_RegisterTwicePanics(t *testing.T) {
	r := NewRegistry()
	r.Register("x", func(base Plain, _ Args) (Descriptor, error) { return base, nil })
	assert.Panics(t, func() {
		r.Register("X", func(base Plain, _ Args) (Descriptor, error) { return base, nil })
	})
}

func TestBuild_Choice(t *testing.T) {
	base := NewPlain("color", KindNumber)
	d, err := Build("choice", base, map[string]any{
		"choices":     []any{"Blue", "Red"},
		"description": "paint",
		"kind":        "choice",
	})
	require.NoError(t, err)

	c, ok := d.(ChoiceList)
	require.True(t, ok, "expected ChoiceList, got %T", d)
	assert.Equal(t, []string{"Blue", "Red"}, c.Choices)
	assert.Equal(t, "paint", c.Description)
	assert.Equal(t, KindChoice, c.Kind)
}

func TestBuild_LookupAcceptsCamelCaseKeys(t *testing.T) {
	d, err := Build("lookup", NewPlain("owner", KindInvalid), map[string]any{
		"lookupListId":    "guid",
		"lookupFieldName": "Name",
		"required":        "false",
	})
	require.NoError(t, err)

	l := d.(Lookup)
	assert.Equal(t, "guid", l.LookupListID)
	assert.Equal(t, "Name", l.LookupFieldName)
	assert.False(t, l.Required)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		variant string
		args    map[string]any
	}{
		{"unknown variant", "hyperlink", nil},
		{"choice without choices", "choice", nil},
		{"lookup without list", "lookup", map[string]any{"lookup_field_name": "Title"}},
		{"calculated without formula", "calculated", nil},
		{"unknown argument", "calculated", map[string]any{"formula": "=1", "colour": "red"}},
		{"bad kind", "plain", map[string]any{"kind": "blob"}},
		{"bad required", "plain", map[string]any{"required": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.variant, NewPlain("x", KindText), tt.args)
			require.Error(t, err)
			var argErr *ArgumentError
			assert.True(t, errors.As(err, &argErr), "got %T", err)
		})
	}
}
