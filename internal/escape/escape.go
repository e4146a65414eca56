// Package escape converts identifiers to and from the SharePoint internal
// naming scheme, where reserved characters are spelled as _xHHHH_ tokens.
package escape

import (
	"fmt"
	"strings"
	"unicode"
)

// Reserved lists every rune that SharePoint escapes in internal column names.
const Reserved = " ~!@#$%^&*()+–={}:\"|;'\\<>?,./`"

// Token returns the escape token for r, e.g. "_x002e_" for '.'.
func Token(r rune) string {
	return fmt.Sprintf("_x%04x_", r)
}

var (
	encoder = newReplacer(false)
	decoder = newReplacer(true)
)

func newReplacer(reverse bool) *strings.Replacer {
	pairs := make([]string, 0, 2*len(Reserved))
	for _, r := range Reserved {
		if reverse {
			pairs = append(pairs, Token(r), string(r))
		} else {
			pairs = append(pairs, string(r), Token(r))
		}
	}
	return strings.NewReplacer(pairs...)
}

// Encode replaces each reserved rune in s with its escape token.
// Tokens contain no reserved runes, so encoding twice is the same as once.
func Encode(s string) string {
	return encoder.Replace(s)
}

// Decode is the inverse of Encode.
func Decode(s string) string {
	return decoder.Replace(s)
}

// String applies Encode, or Decode when reverse is set.
func String(s string, reverse bool) string {
	if reverse {
		return Decode(s)
	}
	return Encode(s)
}

// Keys returns a copy of m with the codec applied to every key.
// Values are shared with m.
func Keys[V any](m map[string]V, reverse bool) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[String(k, reverse)] = v
	}
	return out
}

// EncodeKeys is Keys(m, false).
func EncodeKeys[V any](m map[string]V) map[string]V {
	return Keys(m, false)
}

// DecodeKeys is Keys(m, true).
func DecodeKeys[V any](m map[string]V) map[string]V {
	return Keys(m, true)
}

// EncodeField escapes only the dots of a column name. OData $select and
// $filter expressions reference flattened columns this way.
func EncodeField(name string) string {
	return strings.ReplaceAll(name, ".", Token('.'))
}

// ToCamel renders a snake_case attribute name in the remote casing,
// e.g. "field_type_kind" -> "FieldTypeKind".
func ToCamel(s string) string {
	var b strings.Builder
	for _, word := range strings.Split(s, "_") {
		if word == "" {
			continue
		}
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// ToSnake is the loose inverse of ToCamel: "LookupListId" -> "lookup_list_id".
// Acronym runs stay together, so "HTMLFileType" -> "html_file_type".
func ToSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
