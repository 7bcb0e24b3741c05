package assoc_test

import (
	"strings"
	"sync"

	"github.com/mickamy/ormassoc/assoc"
	"github.com/mickamy/ormassoc/internal/naming"
	"github.com/mickamy/ormassoc/schema"
)

// stubInflector is a deterministic English-ish inflector for tests.
type stubInflector struct{}

var irregular = map[string]string{
	"address": "addresses",
	"child":   "children",
	"person":  "people",
}

func (stubInflector) Plural(s string) string {
	head, last := splitLast(s)
	for one, many := range irregular {
		if last == one || last == many {
			return head + many
		}
	}
	switch {
	case strings.HasSuffix(last, "s"):
		return s
	case strings.HasSuffix(last, "y"):
		return head + strings.TrimSuffix(last, "y") + "ies"
	default:
		return s + "s"
	}
}

func (stubInflector) Singular(s string) string {
	head, last := splitLast(s)
	for one, many := range irregular {
		if last == one || last == many {
			return head + one
		}
	}
	switch {
	case strings.HasSuffix(last, "ies"):
		return head + strings.TrimSuffix(last, "ies") + "y"
	case strings.HasSuffix(last, "s"):
		return head + strings.TrimSuffix(last, "s")
	default:
		return s
	}
}

func (i stubInflector) Classify(s string) string {
	return naming.SnakeToCamel(i.Singular(s))
}

func splitLast(s string) (head, last string) {
	i := strings.LastIndex(s, "_")
	return s[:i+1], s[i+1:]
}

var resolver = assoc.Resolver{Inflector: stubInflector{}}

// entity is a minimal host entity recording registrations.
type entity struct {
	table      string
	state      assoc.State
	defined    map[string]bool // name → inherited
	mu         sync.Mutex
	specs      []assoc.Spec
	onRegister func(assoc.Spec) error
}

func newEntity(table string) *entity {
	return &entity{table: table, defined: make(map[string]bool)}
}

func (e *entity) Table() string                { return e.table }
func (e *entity) DiscoveryState() *assoc.State { return &e.state }

func (e *entity) Accessor(name string) (bool, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	inherited, ok := e.defined[name]
	return ok, ok && inherited
}

func (e *entity) Register(spec assoc.Spec) error {
	if e.onRegister != nil {
		if err := e.onRegister(spec); err != nil {
			return err
		}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.specs = append(e.specs, spec)
	e.defined[spec.Name] = false
	return nil
}

func (e *entity) names() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, len(e.specs))
	for i, s := range e.specs {
		names[i] = s.Name
	}
	return names
}

// countingSource counts every fact lookup.
type countingSource struct {
	schema.Source
	mu    sync.Mutex
	calls int
}

func (c *countingSource) count() {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}

func (c *countingSource) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *countingSource) ForeignKeys(table string) []schema.ForeignKey {
	c.count()
	return c.Source.ForeignKeys(table)
}

func (c *countingSource) ReverseForeignKeys(table string) []schema.ForeignKey {
	c.count()
	return c.Source.ReverseForeignKeys(table)
}

func (c *countingSource) Columns(table string) []schema.Column {
	c.count()
	return c.Source.Columns(table)
}

func (c *countingSource) Indexes(table string) []schema.Index {
	c.count()
	return c.Source.Indexes(table)
}

func columns(names ...string) []schema.Column {
	cols := make([]schema.Column, len(names))
	for i, n := range names {
		cols[i] = schema.Column{Name: n}
	}
	return cols
}

func fk(column, referenced string) schema.ForeignKey {
	return schema.ForeignKey{Columns: []string{column}, ReferencedTable: referenced}
}

func uniqueIndex(column string) schema.Index {
	return schema.Index{Name: "uq_" + column, Columns: []string{column}, Unique: true}
}
