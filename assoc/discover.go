package assoc

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/mickamy/ormassoc/schema"
)

// State records whether discovery has run for an entity. The zero value
// means "not yet".
type State struct {
	done atomic.Bool
}

// Begin marks discovery as started. It returns true for exactly one caller.
func (s *State) Begin() bool { return s.done.CompareAndSwap(false, true) }

// Done reports whether discovery has started.
func (s *State) Done() bool { return s.done.Load() }

// Entity is the host-side view of a model whose associations are discovered.
type Entity interface {
	// Table is the entity's table name.
	Table() string
	// DiscoveryState is the entity's discovery flag.
	DiscoveryState() *State
	// Accessor reports whether name is already defined on the entity, and
	// whether that definition only comes from the base every entity shares.
	Accessor(name string) (defined, inherited bool)
	// Register makes the association available on the entity.
	Register(spec Spec) error
}

// Options configures a Discoverer.
type Options struct {
	// AutoCreate enables discovery. When false, Discover only marks the
	// entity as discovered.
	AutoCreate bool
	// ConciseNames selects concise name candidates.
	ConciseNames bool
	Policy       Policy
	// Overridable lists inherited accessor names an association may replace.
	Overridable []string
	// Inflector defaults to the jinzhu/inflection backed inflector.
	Inflector Inflector
	Logger    *zap.Logger
}

// DefaultOptions enables discovery with verbose names, and lets
// associations replace the inherited "type" accessor.
func DefaultOptions() Options {
	return Options{
		AutoCreate:  true,
		Overridable: []string{"type"},
	}
}

// Discoverer runs association discovery over a schema Source.
type Discoverer struct {
	source      schema.Source
	classifier  Classifier
	opts        Options
	overridable map[string]struct{}
	logger      *zap.Logger
}

// NewDiscoverer returns a Discoverer reading facts from source.
func NewDiscoverer(source schema.Source, opts Options) *Discoverer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	overridable := make(map[string]struct{}, len(opts.Overridable))
	for _, name := range opts.Overridable {
		overridable[name] = struct{}{}
	}
	return &Discoverer{
		source: source,
		classifier: Classifier{
			Source:   source,
			Resolver: Resolver{Inflector: opts.Inflector},
			Concise:  opts.ConciseNames,
		},
		opts:        opts,
		overridable: overridable,
		logger:      logger,
	}
}

// Discover registers the associations of e. It runs at most once per
// entity: the discovery flag is set before anything is registered, so
// calls made while registering, and every later call, return immediately.
// Names that fail the policy or are already defined on e are skipped. An
// error from e.Register stops the pass and is returned as is.
func (d *Discoverer) Discover(e Entity) error {
	if !e.DiscoveryState().Begin() {
		return nil
	}
	if !d.opts.AutoCreate {
		return nil
	}

	table := e.Table()
	for _, spec := range d.candidates(table) {
		log := d.logger.With(
			zap.String("table", table),
			zap.Stringer("kind", spec.Kind),
			zap.String("name", spec.Name),
		)
		if !d.opts.Policy.Admit(spec.Kind, spec.Name) {
			log.Debug("association filtered")
			continue
		}
		if d.collides(e, spec.Name) {
			log.Debug("association name already defined")
			continue
		}
		log.Info("defining association",
			zap.String("class_name", spec.ClassName),
			zap.String("foreign_key", spec.ForeignKey),
			zap.String("join_table", spec.JoinTable),
			zap.String("order_by", spec.OrderBy),
		)
		if err := e.Register(spec); err != nil {
			return err
		}
	}
	return nil
}

// Plan returns the associations Discover would register for an entity of
// table that defines no accessors, in registration order.
func (d *Discoverer) Plan(table string) []Spec {
	if !d.opts.AutoCreate {
		return nil
	}
	var specs []Spec
	for _, spec := range d.candidates(table) {
		if d.opts.Policy.Admit(spec.Kind, spec.Name) {
			specs = append(specs, spec)
		}
	}
	return specs
}

// candidates classifies every single-column foreign key touching table:
// incoming keys first, then outgoing ones.
func (d *Discoverer) candidates(table string) []Spec {
	var specs []Spec
	for _, fk := range d.source.ReverseForeignKeys(table) {
		if spec, ok := d.classifier.Incoming(table, fk); ok {
			specs = append(specs, spec)
		}
	}
	for _, fk := range d.source.ForeignKeys(table) {
		if spec, ok := d.classifier.Outgoing(fk); ok {
			specs = append(specs, spec)
		}
	}
	return specs
}

func (d *Discoverer) collides(e Entity, name string) bool {
	defined, inherited := e.Accessor(name)
	if !defined {
		return false
	}
	if _, ok := d.overridable[name]; ok && inherited {
		return false
	}
	return true
}
