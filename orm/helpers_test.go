package orm_test

import (
	"database/sql"

	"github.com/mickamy/ormassoc/assoc"
	"github.com/mickamy/ormassoc/orm"
	"github.com/mickamy/ormassoc/schema"
)

func blogSchema() *schema.Snapshot {
	fk := func(column, referenced string) schema.ForeignKey {
		return schema.ForeignKey{Columns: []string{column}, ReferencedTable: referenced}
	}
	cols := func(names ...string) []schema.Column {
		out := make([]schema.Column, len(names))
		for i, n := range names {
			out[i] = schema.Column{Name: n}
		}
		return out
	}
	return schema.NewSnapshot(
		schema.Table{Name: "users", Columns: cols("id", "name")},
		schema.Table{
			Name:        "posts",
			Columns:     cols("id", "user_id", "title"),
			ForeignKeys: []schema.ForeignKey{fk("user_id", "users")},
		},
		schema.Table{
			Name:        "comments",
			Columns:     cols("id", "post_id", "body", "position"),
			ForeignKeys: []schema.ForeignKey{fk("post_id", "posts")},
		},
		schema.Table{Name: "tags", Columns: cols("id", "name")},
		schema.Table{
			Name:        "posts_tags",
			Columns:     cols("post_id", "tag_id"),
			ForeignKeys: []schema.ForeignKey{fk("post_id", "posts"), fk("tag_id", "tags")},
		},
		schema.Table{
			Name:        "categories",
			Columns:     cols("id", "parent_id"),
			ForeignKeys: []schema.ForeignKey{fk("parent_id", "categories")},
		},
		schema.Table{
			Name:        "things",
			Columns:     cols("id", "type_id"),
			ForeignKeys: []schema.ForeignKey{fk("type_id", "types")},
		},
	)
}

func newRegistry(opts ...orm.RegistryOption) *orm.Registry {
	s := blogSchema()
	return orm.NewRegistry(s, assoc.NewDiscoverer(s, assoc.DefaultOptions()), opts...)
}

type testRow struct {
	ID int
}

func scanTestRow(_ *sql.Rows) (testRow, error) {
	return testRow{}, nil
}

var columnsOf = map[string][]string{
	"users":      {"id", "name"},
	"posts":      {"id", "user_id", "title"},
	"comments":   {"id", "post_id", "body", "position"},
	"tags":       {"id", "name"},
	"categories": {"id", "parent_id"},
}

func newTestQuery(tq *orm.TestQuerier, r *orm.Registry, table string) *orm.Query[testRow] {
	return orm.NewQuery[testRow](tq, r.Model(table), columnsOf[table], scanTestRow)
}
