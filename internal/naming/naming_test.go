package naming_test

import (
	"testing"

	"github.com/mickamy/ormassoc/internal/naming"
)

func TestCamelToSnake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"ID", "id"},
		{"Name", "name"},
		{"CreatedAt", "created_at"},
		{"UserID", "user_id"},
		{"HTTPServer", "http_server"},
		{"userProfile", "user_profile"},
		{"A", "a"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := naming.CamelToSnake(tt.input)
			if got != tt.want {
				t.Errorf("CamelToSnake(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSnakeToCamel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"id", "ID"},
		{"user_id", "UserID"},
		{"line_items", "LineItems"},
		{"post", "Post"},
		{"_leading", "Leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := naming.SnakeToCamel(tt.input)
			if got != tt.want {
				t.Errorf("SnakeToCamel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestInflector(t *testing.T) {
	t.Parallel()

	var inf naming.Inflector

	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"Plural", inf.Plural, "comment", "comments"},
		{"Plural/compound", inf.Plural, "line_item", "line_items"},
		{"Plural/already plural", inf.Plural, "comments", "comments"},
		{"Plural/irregular", inf.Plural, "person", "people"},
		{"Plural/irregular plural", inf.Plural, "people", "people"},
		{"Plural/children", inf.Plural, "children", "children"},
		{"Plural/men", inf.Plural, "men", "men"},
		{"Plural/compound irregular plural", inf.Plural, "groups_people", "groups_people"},
		{"Singular", inf.Singular, "addresses", "address"},
		{"Singular/irregular", inf.Singular, "people", "person"},
		{"Classify", inf.Classify, "line_items", "LineItem"},
		{"Classify/singular", inf.Classify, "post", "Post"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
			}
		})
	}
}
