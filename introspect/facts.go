package introspect

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/mickamy/ormassoc/schema"
)

// catalog holds the four queries a driver answers. Each query returns one
// row per fact, with the columns documented on the row types below.
type catalog struct {
	tables      string // name
	columns     string // table, name, data_type, ordinal
	foreignKeys string // table, constraint, column, referenced_table, ordinal
	indexes     string // table, index, unique, column (NULL for expressions), ordinal
}

type columnRow struct {
	table, name, dataType string
	ordinal               int
}

type foreignKeyRow struct {
	table, name, column, referenced string
	ordinal                         int
}

type indexRow struct {
	table, name string
	unique      bool
	column      sql.NullString
	ordinal     int
}

type facts struct {
	tables      []string
	columns     []columnRow
	foreignKeys []foreignKeyRow
	indexes     []indexRow
}

// scanner is the part of *sql.Rows and pgx.Rows the collector needs.
type scanner interface {
	Scan(dest ...any) error
}

type querier interface {
	query(ctx context.Context, query string, each func(scanner) error) error
}

// sqlQuerier runs catalog queries over database/sql with fixed arguments.
type sqlQuerier struct {
	db   *sql.DB
	args []any
}

func (q sqlQuerier) query(ctx context.Context, query string, each func(scanner) error) error {
	rows, err := q.db.QueryContext(ctx, query, q.args...)
	if err != nil {
		return err //nolint:wrapcheck // wrapped by collect
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		if err := each(rows); err != nil {
			return err
		}
	}
	return rows.Err() //nolint:wrapcheck // wrapped by collect
}

func collect(ctx context.Context, q querier, c catalog) (facts, error) {
	var f facts

	err := q.query(ctx, c.tables, func(s scanner) error {
		var name string
		if err := s.Scan(&name); err != nil {
			return err //nolint:wrapcheck // wrapped below
		}
		f.tables = append(f.tables, name)
		return nil
	})
	if err != nil {
		return facts{}, fmt.Errorf("query tables: %w", err)
	}

	err = q.query(ctx, c.columns, func(s scanner) error {
		var r columnRow
		if err := s.Scan(&r.table, &r.name, &r.dataType, &r.ordinal); err != nil {
			return err //nolint:wrapcheck // wrapped below
		}
		f.columns = append(f.columns, r)
		return nil
	})
	if err != nil {
		return facts{}, fmt.Errorf("query columns: %w", err)
	}

	err = q.query(ctx, c.foreignKeys, func(s scanner) error {
		var r foreignKeyRow
		if err := s.Scan(&r.table, &r.name, &r.column, &r.referenced, &r.ordinal); err != nil {
			return err //nolint:wrapcheck // wrapped below
		}
		f.foreignKeys = append(f.foreignKeys, r)
		return nil
	})
	if err != nil {
		return facts{}, fmt.Errorf("query foreign keys: %w", err)
	}

	err = q.query(ctx, c.indexes, func(s scanner) error {
		var r indexRow
		if err := s.Scan(&r.table, &r.name, &r.unique, &r.column, &r.ordinal); err != nil {
			return err //nolint:wrapcheck // wrapped below
		}
		f.indexes = append(f.indexes, r)
		return nil
	})
	if err != nil {
		return facts{}, fmt.Errorf("query indexes: %w", err)
	}

	return f, nil
}

// snapshot assembles the rows into a Snapshot. Tables are sorted by name,
// columns by ordinal, and keys and indexes by name then ordinal. Rows of
// tables missing from the table list are dropped, as are indexes with an
// expression column.
func (f facts) snapshot() *schema.Snapshot {
	names := slices.Clone(f.tables)
	slices.Sort(names)
	names = slices.Compact(names)

	tables := make([]schema.Table, len(names))
	byName := make(map[string]*schema.Table, len(names))
	for i, n := range names {
		tables[i].Name = n
		byName[n] = &tables[i]
	}

	columns := slices.Clone(f.columns)
	slices.SortStableFunc(columns, func(a, b columnRow) int {
		return cmp.Or(cmp.Compare(a.table, b.table), cmp.Compare(a.ordinal, b.ordinal))
	})
	for _, c := range columns {
		if t, ok := byName[c.table]; ok {
			t.Columns = append(t.Columns, schema.Column{Name: c.name, DataType: c.dataType})
		}
	}

	fks := slices.Clone(f.foreignKeys)
	slices.SortStableFunc(fks, func(a, b foreignKeyRow) int {
		return cmp.Or(cmp.Compare(a.table, b.table), cmp.Compare(a.name, b.name), cmp.Compare(a.ordinal, b.ordinal))
	})
	for i, r := range fks {
		t, ok := byName[r.table]
		if !ok {
			continue
		}
		if i > 0 && fks[i-1].table == r.table && fks[i-1].name == r.name {
			last := &t.ForeignKeys[len(t.ForeignKeys)-1]
			last.Columns = append(last.Columns, r.column)
			continue
		}
		t.ForeignKeys = append(t.ForeignKeys, schema.ForeignKey{
			Name: r.name, Columns: []string{r.column}, ReferencedTable: r.referenced,
		})
	}

	idx := slices.Clone(f.indexes)
	slices.SortStableFunc(idx, func(a, b indexRow) int {
		return cmp.Or(cmp.Compare(a.table, b.table), cmp.Compare(a.name, b.name), cmp.Compare(a.ordinal, b.ordinal))
	})
	type indexKey struct{ table, name string }
	expression := make(map[indexKey]bool)
	for _, r := range idx {
		if !r.column.Valid {
			expression[indexKey{r.table, r.name}] = true
		}
	}
	for i, r := range idx {
		t, ok := byName[r.table]
		if !ok || expression[indexKey{r.table, r.name}] {
			continue
		}
		if i > 0 && idx[i-1].table == r.table && idx[i-1].name == r.name {
			last := &t.Indexes[len(t.Indexes)-1]
			last.Columns = append(last.Columns, r.column.String)
			continue
		}
		t.Indexes = append(t.Indexes, schema.Index{
			Name: r.name, Columns: []string{r.column.String}, Unique: r.unique,
		})
	}

	return schema.NewSnapshot(tables...)
}
