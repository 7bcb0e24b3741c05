package orm

import (
	"fmt"
	"sync"

	"github.com/mickamy/ormassoc/assoc"
	"github.com/mickamy/ormassoc/schema"
)

// DefaultPrimaryKey is the primary key column assumed for tables without
// WithPrimaryKey.
const DefaultPrimaryKey = "id"

// Registry hands out one Model per table and runs association discovery on
// them through a shared Discoverer.
type Registry struct {
	source      schema.Source
	discoverer  *assoc.Discoverer
	primaryKeys map[string]string
	universal   map[string]struct{}

	mu     sync.Mutex
	models map[string]*Model
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithPrimaryKey overrides the primary key column of table.
func WithPrimaryKey(table, column string) RegistryOption {
	return func(r *Registry) { r.primaryKeys[table] = column }
}

// WithUniversalAccessors replaces the accessor names every model inherits.
// The default is "type".
func WithUniversalAccessors(names ...string) RegistryOption {
	return func(r *Registry) {
		r.universal = make(map[string]struct{}, len(names))
		for _, n := range names {
			r.universal[n] = struct{}{}
		}
	}
}

// NewRegistry returns a Registry whose models discover associations with d.
func NewRegistry(source schema.Source, d *assoc.Discoverer, opts ...RegistryOption) *Registry {
	r := &Registry{
		source:      source,
		discoverer:  d,
		primaryKeys: make(map[string]string),
		universal:   map[string]struct{}{"type": {}},
		models:      make(map[string]*Model),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Model returns the model of table, creating it on first use.
func (r *Registry) Model(table string) *Model {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.models[table]; ok {
		return m
	}
	m := &Model{
		registry:     r,
		table:        table,
		declared:     make(map[string]struct{}),
		associations: make(map[string]*Association),
	}
	r.models[table] = m
	return m
}

// ModelOf returns the model of T's table. T may implement TableNamer;
// otherwise fallback is used.
func ModelOf[T any](r *Registry, fallback string) *Model {
	return r.Model(ResolveTableName[T](fallback))
}

// Source returns the schema facts the registry was built with.
func (r *Registry) Source() schema.Source { return r.source }

func (r *Registry) primaryKey(table string) string {
	if pk, ok := r.primaryKeys[table]; ok {
		return pk
	}
	return DefaultPrimaryKey
}

// Model is a table-backed entity. Its associations are discovered on the
// first call to Association or Associations.
type Model struct {
	registry *Registry
	table    string
	state    assoc.State

	discoverMu  sync.Mutex
	discoverErr error

	mu           sync.RWMutex
	declared     map[string]struct{}
	associations map[string]*Association
	order        []string
}

// entity is the assoc.Entity view of a Model. Model does not implement
// the interface itself, so discovery only runs through Model.discover,
// under discoverMu.
type entity struct{ *Model }

var _ assoc.Entity = entity{}

func (e entity) DiscoveryState() *assoc.State { return &e.state }

// Table returns the model's table name.
func (m *Model) Table() string { return m.table }

// PrimaryKey returns the model's primary key column.
func (m *Model) PrimaryKey() string { return m.registry.primaryKey(m.table) }

// Discovered reports whether association discovery has completed.
func (m *Model) Discovered() bool {
	m.discoverMu.Lock()
	defer m.discoverMu.Unlock()
	return m.state.Done()
}

// Declare records accessor names the model defines itself, so discovery
// never replaces them. Call it before the first association lookup.
func (m *Model) Declare(names ...string) *Model {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range names {
		m.declared[n] = struct{}{}
	}
	return m
}

// Accessor reports whether name is defined on the model, and whether only
// as a universal accessor.
func (m *Model) Accessor(name string) (defined, inherited bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.declared[name]; ok {
		return true, false
	}
	if _, ok := m.associations[name]; ok {
		return true, false
	}
	if _, ok := m.registry.universal[name]; ok {
		return true, true
	}
	return false, false
}

// Register adds an association to the model. Discovery calls it for
// every admitted association; generated or hand-written code may call it
// before the first lookup.
func (m *Model) Register(spec assoc.Spec) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.associations[spec.Name]; ok {
		return fmt.Errorf("%w: %s.%s", ErrDuplicateAssociation, m.table, spec.Name)
	}
	m.associations[spec.Name] = &Association{Spec: spec, Owner: m.table, registry: m.registry}
	m.order = append(m.order, spec.Name)
	return nil
}

// Association returns the association called name.
func (m *Model) Association(name string) (*Association, error) {
	if err := m.discover(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.associations[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownAssociation, m.table, name)
	}
	return a, nil
}

// Associations returns every association of the model in registration
// order.
func (m *Model) Associations() ([]*Association, error) {
	if err := m.discover(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Association, len(m.order))
	for i, name := range m.order {
		out[i] = m.associations[name]
	}
	return out, nil
}

// discover runs discovery once. Concurrent first callers wait for it to
// finish so nobody observes a partial association set.
func (m *Model) discover() error {
	m.discoverMu.Lock()
	defer m.discoverMu.Unlock()
	if m.state.Done() {
		return m.discoverErr
	}
	if m.registry.discoverer == nil {
		m.state.Begin()
		return nil
	}
	m.discoverErr = m.registry.discoverer.Discover(entity{m})
	return m.discoverErr
}
