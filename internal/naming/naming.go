package naming

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// CamelToSnake converts a CamelCase string to snake_case.
// Consecutive uppercase letters (acronyms) are kept together:
// "ID" → "id", "UserID" → "user_id", "CreatedAt" → "created_at".
func CamelToSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				next := rune(0)
				if i+1 < len(runes) {
					next = runes[i+1]
				}
				if unicode.IsLower(prev) || (unicode.IsUpper(prev) && unicode.IsLower(next)) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SnakeToCamel converts a snake_case string to CamelCase.
// The segment "id" becomes "ID": "user_id" → "UserID", "line_items" → "LineItems".
func SnakeToCamel(s string) string {
	var b strings.Builder
	for _, part := range strings.Split(s, "_") {
		if part == "" {
			continue
		}
		if part == "id" {
			b.WriteString("ID")
			continue
		}
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// Inflector pluralizes, singularizes and classifies table names using
// github.com/jinzhu/inflection. The zero value is ready to use.
type Inflector struct{}

// Plural returns the plural form of a snake_case name. Only the last
// segment is inflected: "line_item" → "line_items". Names that are
// already plural come back unchanged: "people" stays "people".
func (Inflector) Plural(s string) string {
	if singular := inflection.Singular(s); singular != s && inflection.Plural(singular) == s {
		return s
	}
	return inflection.Plural(s)
}

// Singular returns the singular form of a snake_case name.
func (Inflector) Singular(s string) string { return inflection.Singular(s) }

// Classify returns the class name for a table name:
// "line_items" → "LineItem", "people" → "Person".
func (Inflector) Classify(s string) string {
	return SnakeToCamel(inflection.Singular(s))
}
