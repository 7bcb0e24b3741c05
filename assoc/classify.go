package assoc

import (
	"strings"

	"github.com/mickamy/ormassoc/schema"
)

// PositionColumn orders has_many associations when the associated table has it.
const PositionColumn = "position"

// Classifier decides which kind of association a foreign key yields and
// builds its Spec.
type Classifier struct {
	Source   schema.Source
	Resolver Resolver
	// Concise selects the concise name candidates.
	Concise bool
}

// Outgoing classifies a foreign key declared on the entity's own table. The
// result is always BelongsTo. ok is false for composite keys.
func (c Classifier) Outgoing(fk schema.ForeignKey) (Spec, bool) {
	column, ok := fk.Column()
	if !ok {
		return Spec{}, false
	}
	names := c.Resolver.Resolve(fk.Table, fk.ReferencedTable, column)
	return Spec{
		Kind:       BelongsTo,
		Name:       names.BelongsTo.Pick(c.Concise),
		ClassName:  c.Resolver.inflector().Classify(fk.ReferencedTable),
		Table:      fk.ReferencedTable,
		ForeignKey: column,
	}, true
}

// Incoming classifies a foreign key of another table that references table.
// ok is false for composite keys.
func (c Classifier) Incoming(table string, fk schema.ForeignKey) (Spec, bool) {
	column, ok := fk.Column()
	if !ok {
		return Spec{}, false
	}
	inf := c.Resolver.inflector()

	if other, ok := c.JoinTableOf(table, fk); ok {
		names := c.Resolver.Resolve(other, fk.ReferencedTable, column)
		return Spec{
			Kind:                  ManyToMany,
			Name:                  names.HasMany.Pick(c.Concise),
			ClassName:             inf.Classify(other),
			Table:                 other,
			ForeignKey:            column,
			JoinTable:             fk.Table,
			AssociationForeignKey: inf.Singular(other) + "_id",
		}, true
	}

	names := c.Resolver.Resolve(fk.Table, fk.ReferencedTable, column)
	spec := Spec{
		ClassName:  inf.Classify(fk.Table),
		Table:      fk.Table,
		ForeignKey: column,
	}
	if schema.HasUniqueIndexOn(c.Source, fk.Table, column) {
		spec.Kind = HasOne
		spec.Name = names.HasOne.Pick(c.Concise)
		return spec, true
	}
	spec.Kind = HasMany
	spec.Name = names.HasMany.Pick(c.Concise)
	if schema.HasColumn(c.Source, fk.Table, PositionColumn) {
		spec.OrderBy = PositionColumn
	}
	return spec, true
}

// JoinTableOf reports whether the table holding fk joins table to another
// table, and returns that other table. The holder must be named
// "<table>_<other>" or "<other>_<table>" with other already plural, and must
// carry a "<singular other>_id" column. Only the first matching name
// pattern is considered.
func (c Classifier) JoinTableOf(table string, fk schema.ForeignKey) (string, bool) {
	other, ok := strings.CutPrefix(fk.Table, table+"_")
	if !ok {
		other, ok = strings.CutSuffix(fk.Table, "_"+table)
	}
	if !ok || other == "" {
		return "", false
	}
	inf := c.Resolver.inflector()
	if inf.Plural(other) != other {
		return "", false
	}
	if !schema.HasColumn(c.Source, fk.Table, inf.Singular(other)+"_id") {
		return "", false
	}
	return other, true
}
