package schema_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickamy/ormassoc/schema"
)

func blogSnapshot() *schema.Snapshot {
	return schema.NewSnapshot(
		schema.Table{
			Name:    "posts",
			Columns: []schema.Column{{Name: "id"}, {Name: "title"}},
		},
		schema.Table{
			Name:    "comments",
			Columns: []schema.Column{{Name: "id"}, {Name: "post_id"}, {Name: "position"}},
			ForeignKeys: []schema.ForeignKey{
				{Name: "fk_comments_post", Columns: []string{"post_id"}, ReferencedTable: "posts"},
			},
			Indexes: []schema.Index{
				{Name: "comments_pkey", Columns: []string{"id"}, Unique: true},
				{Name: "idx_comments_post", Columns: []string{"post_id"}},
			},
		},
		schema.Table{
			Name: "tags",
			ForeignKeys: []schema.ForeignKey{
				{Columns: []string{"post_id", "owner_id"}, ReferencedTable: "posts"},
			},
		},
	)
}

func TestSnapshotFillsOwningTable(t *testing.T) {
	t.Parallel()

	s := blogSnapshot()

	fks := s.ForeignKeys("comments")
	require.Len(t, fks, 1)
	assert.Equal(t, "comments", fks[0].Table)
	assert.Equal(t, "comments", s.Columns("comments")[1].Table)
	assert.Equal(t, "comments", s.Indexes("comments")[0].Table)
}

func TestSnapshotReverseForeignKeys(t *testing.T) {
	t.Parallel()

	s := blogSnapshot()

	rev := s.ReverseForeignKeys("posts")
	require.Len(t, rev, 2)
	assert.Equal(t, "comments", rev[0].Table)
	assert.Equal(t, "tags", rev[1].Table)

	assert.Empty(t, s.ReverseForeignKeys("comments"))
	assert.Empty(t, s.ForeignKeys("missing"))
}

func TestForeignKeyColumn(t *testing.T) {
	t.Parallel()

	col, ok := schema.ForeignKey{Columns: []string{"post_id"}}.Column()
	assert.True(t, ok)
	assert.Equal(t, "post_id", col)

	_, ok = schema.ForeignKey{Columns: []string{"post_id", "owner_id"}}.Column()
	assert.False(t, ok)

	_, ok = schema.ForeignKey{}.Column()
	assert.False(t, ok)
}

func TestShapeHelpers(t *testing.T) {
	t.Parallel()

	s := blogSnapshot()

	assert.True(t, schema.HasColumn(s, "comments", "position"))
	assert.False(t, schema.HasColumn(s, "posts", "position"))

	assert.True(t, schema.HasUniqueIndexOn(s, "comments", "id"))
	assert.False(t, schema.HasUniqueIndexOn(s, "comments", "post_id"))
}

func TestSnapshotYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, blogSnapshot().Save(&buf))
	assert.Contains(t, buf.String(), "referenced_table: posts")
	assert.NotContains(t, buf.String(), "table: comments")

	loaded, err := schema.Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"posts", "comments", "tags"}, loaded.TableNames())
	rev := loaded.ReverseForeignKeys("posts")
	require.Len(t, rev, 2)
	assert.Equal(t, "comments", rev[0].Table)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := schema.Load(strings.NewReader("tables:\n  - name: posts\n    colums: []\n"))
	require.Error(t, err)
}

func TestLoadEmpty(t *testing.T) {
	t.Parallel()

	s, err := schema.Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, s.TableNames())
}

func TestSaveFileLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, blogSnapshot().SaveFile(path))

	s, err := schema.LoadFile(path)
	require.NoError(t, err)
	tbl, ok := s.Table("comments")
	require.True(t, ok)
	assert.Equal(t, []string{"post_id"}, tbl.ForeignKeys[0].Columns)

	_, err = schema.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
