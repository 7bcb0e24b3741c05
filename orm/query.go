package orm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mickamy/ormassoc/assoc"
	"github.com/mickamy/ormassoc/scope"
)

// ScanFunc scans a single row into T.
type ScanFunc[T any] func(rows *sql.Rows) (T, error)

// PreloaderFunc executes a preload query and assigns results to the parent slice.
type PreloaderFunc[T any] func(ctx context.Context, db Querier, results []T) error

// Query represents a pending query against a model's table.
// All builder methods return a new Query; the receiver is never modified.
type Query[T any] struct {
	db      Querier
	model   *Model
	columns []string
	scan    ScanFunc[T]

	wheres   []whereClause
	orderBys []string
	joins    []string
	selects  *string
	limit    *int
	offset   *int
	err      error

	preloaders map[string]PreloaderFunc[T]
	preloads   []string
}

type whereClause struct {
	clause string
	args   []any
}

// NewQuery is called by model factory functions.
func NewQuery[T any](db Querier, model *Model, columns []string, scan ScanFunc[T]) *Query[T] {
	return &Query[T]{
		db:      db,
		model:   model,
		columns: columns,
		scan:    scan,
	}
}

// RegisterPreloader registers a named preloader for use with Preload.
func (q *Query[T]) RegisterPreloader(name string, fn PreloaderFunc[T]) {
	if q.preloaders == nil {
		q.preloaders = make(map[string]PreloaderFunc[T])
	}
	q.preloaders[name] = fn
}

// clone returns a shallow copy with slices copied to avoid aliasing.
func (q *Query[T]) clone() *Query[T] {
	q2 := *q
	q2.wheres = append([]whereClause(nil), q.wheres...)
	q2.orderBys = append([]string(nil), q.orderBys...)
	q2.joins = append([]string(nil), q.joins...)
	q2.preloads = append([]string(nil), q.preloads...)
	return &q2
}

// Err returns the first error recorded by a builder method.
func (q *Query[T]) Err() error { return q.err }

// --- Builder methods ---

func (q *Query[T]) Where(clause string, args ...any) *Query[T] {
	q2 := q.clone()
	q2.wheres = append(q2.wheres, whereClause{clause, args})
	return q2
}

func (q *Query[T]) OrderBy(clause string) *Query[T] {
	q2 := q.clone()
	q2.orderBys = append(q2.orderBys, clause)
	return q2
}

func (q *Query[T]) Limit(n int) *Query[T] {
	q2 := q.clone()
	q2.limit = &n
	return q2
}

func (q *Query[T]) Offset(n int) *Query[T] {
	q2 := q.clone()
	q2.offset = &n
	return q2
}

func (q *Query[T]) Select(columns string) *Query[T] {
	q2 := q.clone()
	q2.selects = &columns
	return q2
}

// Join adds INNER JOINs along the named association of the model.
// An unknown association is reported by the terminal method.
func (q *Query[T]) Join(name string) *Query[T] {
	q2 := q.clone()
	q2.ApplyJoin(name, false)
	return q2
}

// LeftJoin adds LEFT JOINs along the named association of the model.
func (q *Query[T]) LeftJoin(name string) *Query[T] {
	q2 := q.clone()
	q2.ApplyJoin(name, true)
	return q2
}

// Through restricts the query to the rows reachable through the association
// name of owner from the owner rows with the given primary keys. has_many
// associations also apply their ordering.
func (q *Query[T]) Through(owner *Model, name string, keys ...any) *Query[T] {
	q2 := q.clone()
	a, err := owner.Association(name)
	if err != nil {
		q2.fail(err)
		return q2
	}
	if a.Table != q.model.Table() {
		q2.fail(fmt.Errorf("%w: %s.%s leads to %s, not %s",
			ErrAssociationTarget, owner.Table(), name, a.Table, q.model.Table()))
		return q2
	}

	qi := q.qi
	target := qi(q.model.Table())
	in := inList(len(keys))
	switch a.Kind {
	case assoc.BelongsTo:
		q2.wheres = append(q2.wheres, whereClause{
			fmt.Sprintf("%s.%s IN (SELECT %s FROM %s WHERE %s IN (%s))",
				target, qi(a.TargetKey()), qi(a.ForeignKey), qi(owner.Table()), qi(owner.PrimaryKey()), in),
			keys,
		})
	case assoc.ManyToMany:
		q2.wheres = append(q2.wheres, whereClause{
			fmt.Sprintf("%s.%s IN (SELECT %s FROM %s WHERE %s IN (%s))",
				target, qi(a.TargetKey()), qi(a.AssociationForeignKey), qi(a.JoinTable), qi(a.ForeignKey), in),
			keys,
		})
	default:
		q2.wheres = append(q2.wheres, whereClause{
			fmt.Sprintf("%s.%s IN (%s)", target, qi(a.ForeignKey), in),
			keys,
		})
		if a.OrderBy != "" {
			q2.orderBys = append(q2.orderBys, target+"."+qi(a.OrderBy))
		}
	}
	return q2
}

// Preload registers a relation to be eagerly loaded after the main query.
func (q *Query[T]) Preload(name string) *Query[T] {
	q2 := q.clone()
	q2.preloads = append(q2.preloads, name)
	return q2
}

// Scopes applies the given scope.Scope values to the query.
func (q *Query[T]) Scopes(scopes ...scope.Scope) *Query[T] {
	q2 := q.clone()
	for _, s := range scopes {
		s.Apply(q2)
	}
	return q2
}

func (q *Query[T]) fail(err error) {
	if q.err == nil {
		q.err = err
	}
}

// --- scope.Applier implementation ---

func (q *Query[T]) ApplyWhere(clause string, args []any) {
	q.wheres = append(q.wheres, whereClause{clause, args})
}

func (q *Query[T]) ApplyOrderBy(clause string) {
	q.orderBys = append(q.orderBys, clause)
}

func (q *Query[T]) ApplyLimit(n int)  { q.limit = &n }
func (q *Query[T]) ApplyOffset(n int) { q.offset = &n }

func (q *Query[T]) ApplySelect(columns string) {
	q.selects = &columns
}

func (q *Query[T]) ApplyJoin(name string, left bool) {
	a, err := q.model.Association(name)
	if err != nil {
		q.fail(err)
		return
	}
	joinType := "INNER JOIN"
	if left {
		joinType = "LEFT JOIN"
	}
	for _, cfg := range a.Joins() {
		q.joins = append(q.joins, q.joinClause(joinType, cfg))
	}
}

var _ scope.Applier = (*Query[any])(nil)

// --- Terminal methods ---

// All executes a SELECT and returns all matching rows.
func (q *Query[T]) All(ctx context.Context) ([]T, error) {
	query, args, err := q.SQL()
	if err != nil {
		return nil, err
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}
	defer func() { _ = rows.Close() }()

	var result []T
	for rows.Next() {
		item, err := q.scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}

	for _, name := range q.preloads {
		fn, ok := q.preloaders[name]
		if !ok {
			return nil, fmt.Errorf("orm: unknown preload %q", name)
		}
		if err := fn(ctx, q.db, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// First executes a SELECT with LIMIT 1 and returns the first row.
// Returns ErrNotFound if no rows match.
func (q *Query[T]) First(ctx context.Context) (T, error) {
	items, err := q.Limit(1).All(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if len(items) == 0 {
		var zero T
		return zero, ErrNotFound
	}
	return items[0], nil
}

// Count returns the number of rows matching the current query conditions.
func (q *Query[T]) Count(ctx context.Context) (int64, error) {
	if q.err != nil {
		return 0, q.err
	}
	query, args := q.buildCount()
	query = rewritePlaceholders(q.db.dialect(), query)

	var count int64
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, err //nolint:wrapcheck // pass through
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return 0, errors.New("orm: COUNT returned no rows")
	}
	if err := rows.Scan(&count); err != nil {
		return 0, err //nolint:wrapcheck // pass through
	}
	return count, rows.Err() //nolint:wrapcheck // pass through
}

// Exists returns true if at least one row matches the current query conditions.
func (q *Query[T]) Exists(ctx context.Context) (bool, error) {
	count, err := q.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SQL returns the SELECT statement and its arguments with dialect
// placeholders, or the first builder error.
func (q *Query[T]) SQL() (string, []any, error) {
	if q.err != nil {
		return "", nil, q.err
	}
	query, args := q.buildSelect()
	return rewritePlaceholders(q.db.dialect(), query), args, nil
}

// --- SQL building ---

// qi quotes an identifier (table/column name) using the dialect.
func (q *Query[T]) qi(name string) string {
	return q.db.dialect().QuoteIdent(name)
}

// quoteColumns joins column names with dialect-aware quoting.
func (q *Query[T]) quoteColumns(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = q.qi(q.model.Table()) + "." + q.qi(c)
	}
	return strings.Join(quoted, ", ")
}

func (q *Query[T]) joinClause(joinType string, cfg JoinConfig) string {
	target := q.qi(cfg.TargetTable)
	ref := target
	if cfg.Alias != "" {
		ref = q.qi(cfg.Alias)
		target += " AS " + ref
	}
	return fmt.Sprintf(
		"%s %s ON %s.%s = %s.%s",
		joinType, target,
		ref, q.qi(cfg.TargetColumn),
		q.qi(cfg.SourceTable), q.qi(cfg.SourceColumn),
	)
}

func (q *Query[T]) buildSelect() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")

	if q.selects != nil {
		b.WriteString(*q.selects)
	} else {
		b.WriteString(q.quoteColumns(q.columns))
	}

	b.WriteString(" FROM ")
	b.WriteString(q.qi(q.model.Table()))

	for _, j := range q.joins {
		b.WriteByte(' ')
		b.WriteString(j)
	}

	args := q.appendWhere(&b)

	if len(q.orderBys) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(q.orderBys, ", "))
	}

	b.WriteString(q.db.dialect().Paginate(q.limit, q.offset, len(q.orderBys) > 0))

	return b.String(), args
}

func (q *Query[T]) buildCount() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT COUNT(*) FROM ")
	b.WriteString(q.qi(q.model.Table()))

	for _, j := range q.joins {
		b.WriteByte(' ')
		b.WriteString(j)
	}

	args := q.appendWhere(&b)
	return b.String(), args
}

func (q *Query[T]) appendWhere(b *strings.Builder) []any {
	if len(q.wheres) == 0 {
		return nil
	}

	var args []any
	b.WriteString(" WHERE ")
	for i, w := range q.wheres {
		if i > 0 {
			b.WriteString(" AND ")
		}
		b.WriteString(w.clause)
		args = append(args, w.args...)
	}
	return args
}

// inList renders n placeholders for an IN list. An empty list matches
// nothing.
func inList(n int) string {
	if n == 0 {
		return "NULL"
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
