package orm_test

import (
	"slices"
	"testing"

	"github.com/mickamy/ormassoc/orm"
)

func TestQueryJoinPairsSQL(t *testing.T) {
	t.Parallel()

	a, err := newRegistry().Model("posts").Association("tags")
	if err != nil {
		t.Fatalf("Association: %v", err)
	}

	tq := orm.NewTestQuerier(orm.PostgreSQL)
	_, _ = orm.QueryJoinPairs[int, int](t.Context(), tq, a, []int{1, 2})

	got := tq.LastQuery()
	want := `SELECT "post_id", "tag_id" FROM "posts_tags" WHERE "post_id" IN ($1, $2)`
	if got.SQL != want {
		t.Errorf("SQL = %q, want %q", got.SQL, want)
	}
	if len(got.Args) != 2 {
		t.Errorf("Args = %v", got.Args)
	}
}

func TestQueryJoinPairsEmpty(t *testing.T) {
	t.Parallel()

	a, _ := newRegistry().Model("posts").Association("tags")
	tq := orm.NewTestQuerier(orm.MySQL)

	pairs, err := orm.QueryJoinPairs[int, int](t.Context(), tq, a, nil)
	if err != nil || pairs != nil {
		t.Errorf("QueryJoinPairs = %v, %v, want nil, nil", pairs, err)
	}
	if len(tq.Queries) != 0 {
		t.Errorf("executed %d queries, want 0", len(tq.Queries))
	}
}

func TestQueryJoinPairsRequiresManyToMany(t *testing.T) {
	t.Parallel()

	a, _ := newRegistry().Model("posts").Association("comments")
	tq := orm.NewTestQuerier(orm.MySQL)

	if _, err := orm.QueryJoinPairs[int, int](t.Context(), tq, a, []int{1}); err == nil {
		t.Error("QueryJoinPairs on has_many: err = nil")
	}
}

func TestJoinPairHelpers(t *testing.T) {
	t.Parallel()

	pairs := []orm.JoinPair[int, string]{
		{Source: 1, Target: "go"},
		{Source: 1, Target: "sql"},
		{Source: 2, Target: "go"},
	}

	if got := orm.UniqueTargets(pairs); !slices.Equal(got, []string{"go", "sql"}) {
		t.Errorf("UniqueTargets = %v", got)
	}
	grouped := orm.GroupBySource(pairs)
	if !slices.Equal(grouped[1], []string{"go", "sql"}) || !slices.Equal(grouped[2], []string{"go"}) {
		t.Errorf("GroupBySource = %v", grouped)
	}
}
