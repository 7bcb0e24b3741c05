package gen

import (
	"fmt"

	"github.com/mickamy/ormassoc/assoc"
)

// Table is one table's associations, in registration order.
type Table struct {
	Name  string
	Specs []assoc.Spec
}

// model is an assoc.Entity backed by parsed source: it answers accessor
// questions from the model struct and records registrations.
type model struct {
	table     string
	state     assoc.State
	accessors map[string]bool // name → inherited
	specs     []assoc.Spec
}

func newModel(table string, own, universal []string) *model {
	m := &model{table: table, accessors: make(map[string]bool, len(own)+len(universal))}
	for _, name := range universal {
		m.accessors[name] = true
	}
	for _, name := range own {
		m.accessors[name] = false
	}
	return m
}

func (m *model) Table() string                { return m.table }
func (m *model) DiscoveryState() *assoc.State { return &m.state }

func (m *model) Accessor(name string) (defined, inherited bool) {
	inherited, defined = m.accessors[name]
	return defined, inherited
}

func (m *model) Register(spec assoc.Spec) error {
	if _, ok := m.accessors[spec.Name]; ok && !m.accessors[spec.Name] {
		return fmt.Errorf("%s.%s already defined", m.table, spec.Name)
	}
	m.accessors[spec.Name] = false
	m.specs = append(m.specs, spec)
	return nil
}

// Collect discovers the associations of every table. Accessors of the
// parsed model mapped to a table, and the universal accessors every model
// shares, take part in collision checks. Tables without associations are
// omitted.
func Collect(d *assoc.Discoverer, tables []string, models []*ModelInfo, universal []string) ([]Table, error) {
	own := make(map[string][]string, len(models))
	for _, info := range models {
		own[info.Table] = append(own[info.Table], info.Accessors...)
	}

	var out []Table
	for _, table := range tables {
		m := newModel(table, own[table], universal)
		if err := d.Discover(m); err != nil {
			return nil, fmt.Errorf("discover %s: %w", table, err)
		}
		if len(m.specs) > 0 {
			out = append(out, Table{Name: table, Specs: m.specs})
		}
	}
	return out, nil
}
