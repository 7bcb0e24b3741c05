package assoc_test

import (
	"testing"

	"github.com/mickamy/ormassoc/assoc"
)

func TestPolicyAdmit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		policy assoc.Policy
		kind   assoc.Kind
		assoc  string
		want   bool
	}{
		{"empty admits all", assoc.Policy{}, assoc.HasMany, "comments", true},
		{"only includes", assoc.Policy{Only: []string{"comments"}}, assoc.HasMany, "comments", true},
		{"only excludes", assoc.Policy{Only: []string{"comments"}}, assoc.HasMany, "tags", false},
		{"except excludes", assoc.Policy{Except: []string{"tags"}}, assoc.ManyToMany, "tags", false},
		{"except includes", assoc.Policy{Except: []string{"tags"}}, assoc.HasMany, "comments", true},
		{"only kinds", assoc.Policy{OnlyKinds: []assoc.Kind{assoc.BelongsTo}}, assoc.HasMany, "comments", false},
		{"except kinds", assoc.Policy{ExceptKinds: []assoc.Kind{assoc.BelongsTo}}, assoc.HasMany, "comments", true},
		{
			"only wins over except",
			assoc.Policy{Only: []string{"tags"}, Except: []string{"tags"}},
			assoc.ManyToMany, "tags", true,
		},
		{
			"except wins over kinds",
			assoc.Policy{Except: []string{"tags"}, OnlyKinds: []assoc.Kind{assoc.BelongsTo}},
			assoc.HasMany, "comments", true,
		},
		{
			"only kinds wins over except kinds",
			assoc.Policy{OnlyKinds: []assoc.Kind{assoc.HasMany}, ExceptKinds: []assoc.Kind{assoc.HasMany}},
			assoc.HasMany, "comments", true,
		},
		{"empty slices are unset", assoc.Policy{Only: []string{}}, assoc.HasOne, "profile", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.policy.Admit(tt.kind, tt.assoc); got != tt.want {
				t.Errorf("Admit(%v, %q) = %v, want %v", tt.kind, tt.assoc, got, tt.want)
			}
		})
	}
}
