package assoc_test

import (
	"testing"

	"github.com/mickamy/ormassoc/assoc"
)

func c(verbose, concise string) assoc.Candidate {
	return assoc.Candidate{Verbose: verbose, Concise: concise}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		referencing string
		referenced  string
		column      string
		want        assoc.Names
	}{
		{
			name:        "direct",
			referencing: "comments", referenced: "posts", column: "post_id",
			want: assoc.Names{
				BelongsTo: c("post", "post"),
				HasOne:    c("comment", "comment"),
				HasMany:   c("comments", "comments"),
			},
		},
		{
			name:        "parent",
			referencing: "categories", referenced: "categories", column: "parent_id",
			want: assoc.Names{
				BelongsTo: c("parent", "parent"),
				HasOne:    c("child", "child"),
				HasMany:   c("children", "children"),
			},
		},
		{
			name:        "self reference falls back",
			referencing: "employees", referenced: "employees", column: "manager_id",
			want: assoc.Names{
				BelongsTo: c("manager", "manager"),
				HasOne:    c("employee_as_manager", "employee_as_manager"),
				HasMany:   c("employees_as_manager", "employees_as_manager"),
			},
		},
		{
			name:        "suffixed label",
			referencing: "line_items", referenced: "addresses", column: "billing_address_id",
			want: assoc.Names{
				BelongsTo: c("billing_address", "billing_address"),
				HasOne:    c("line_item_as_billing", "line_item_as_billing"),
				HasMany:   c("line_items_as_billing", "line_items_as_billing"),
			},
		},
		{
			name:        "prefixed label",
			referencing: "comments", referenced: "posts", column: "post_parent_id",
			want: assoc.Names{
				BelongsTo: c("post_parent", "post_parent"),
				HasOne:    c("comment_as_parent", "comment_as_parent"),
				HasMany:   c("comments_as_parent", "comments_as_parent"),
			},
		},
		{
			name:        "direct with shared leader",
			referencing: "blog_comments", referenced: "blog_posts", column: "blog_post_id",
			want: assoc.Names{
				BelongsTo: c("blog_post", "post"),
				HasOne:    c("blog_comment", "comment"),
				HasMany:   c("blog_comments", "comments"),
			},
		},
		{
			name:        "suffixed label on concise name",
			referencing: "blog_comments", referenced: "blog_posts", column: "author_post_id",
			want: assoc.Names{
				BelongsTo: c("author_blog_post", "author_post"),
				HasOne:    c("blog_comment_as_author", "comment_as_author"),
				HasMany:   c("blog_comments_as_author", "comments_as_author"),
			},
		},
		{
			name:        "prefixed label on concise name",
			referencing: "blog_comments", referenced: "blog_posts", column: "post_reply_id",
			want: assoc.Names{
				BelongsTo: c("blog_post_reply", "post_reply"),
				HasOne:    c("blog_comment_as_reply", "comment_as_reply"),
				HasMany:   c("blog_comments_as_reply", "comments_as_reply"),
			},
		},
		{
			name:        "empty label does not match",
			referencing: "comments", referenced: "posts", column: "_post_id",
			want: assoc.Names{
				BelongsTo: c("_post", "_post"),
				HasOne:    c("comment_as__post", "comment_as__post"),
				HasMany:   c("comments_as__post", "comments_as__post"),
			},
		},
		{
			name:        "column without id suffix",
			referencing: "comments", referenced: "users", column: "author",
			want: assoc.Names{
				BelongsTo: c("author", "author"),
				HasOne:    c("comment_as_author", "comment_as_author"),
				HasMany:   c("comments_as_author", "comments_as_author"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := resolver.Resolve(tt.referencing, tt.referenced, tt.column)
			if got != tt.want {
				t.Errorf("Resolve(%q, %q, %q)\n got = %+v\nwant = %+v",
					tt.referencing, tt.referenced, tt.column, got, tt.want)
			}
		})
	}
}

func TestResolveDefaultInflector(t *testing.T) {
	t.Parallel()

	got := assoc.Resolver{}.Resolve("people", "companies", "company_id")
	want := assoc.Names{
		BelongsTo: c("company", "company"),
		HasOne:    c("person", "person"),
		HasMany:   c("people", "people"),
	}
	if got != want {
		t.Errorf("Resolve = %+v, want %+v", got, want)
	}
}

func TestConcise(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		other string
		want  string
	}{
		{"line_item", "line", "item"},
		{"blog_post", "post", "blog"},
		{"blog_post", "blog_comment", "post"},
		{"order_line", "order_line_item", "line"},
		{"a_b_c", "a_b", "c"},
		// nothing shared
		{"post", "comment", "post"},
		{"post", "post", "post"},
		{"user", "user_profile", "user"},
		{"postal_code", "post", "postal_code"},
		{"xa_b", "a", "xa_b"},
		// stripping would leave nothing
		{"post_", "post", "post_"},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.other, func(t *testing.T) {
			t.Parallel()

			if got := assoc.Concise(tt.name, tt.other); got != tt.want {
				t.Errorf("Concise(%q, %q) = %q, want %q", tt.name, tt.other, got, tt.want)
			}
		})
	}
}

func TestConciseIsNotSymmetric(t *testing.T) {
	t.Parallel()

	if got := assoc.Concise("line_item", "line"); got != "item" {
		t.Errorf("Concise(line_item, line) = %q", got)
	}
	if got := assoc.Concise("line", "line_item"); got != "line" {
		t.Errorf("Concise(line, line_item) = %q", got)
	}
}

func TestCandidatePick(t *testing.T) {
	t.Parallel()

	cand := c("blog_comments", "comments")
	if got := cand.Pick(false); got != "blog_comments" {
		t.Errorf("Pick(false) = %q", got)
	}
	if got := cand.Pick(true); got != "comments" {
		t.Errorf("Pick(true) = %q", got)
	}
}
