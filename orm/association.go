package orm

import (
	"github.com/mickamy/ormassoc/assoc"
)

// JoinConfig holds the metadata needed to build a JOIN clause at runtime.
type JoinConfig struct {
	TargetTable  string
	TargetColumn string
	SourceTable  string
	SourceColumn string
	// Alias names the joined table when it is also the source table.
	Alias string
}

// Association is a Spec attached to the model that owns it.
type Association struct {
	assoc.Spec
	// Owner is the owning model's table.
	Owner string

	registry *Registry
}

// TargetKey returns the primary key of the associated table.
func (a *Association) TargetKey() string { return a.registry.primaryKey(a.Table) }

// Joins returns the JOIN chain from the owner table to the associated
// table: one join, or two through the join table for many_to_many.
func (a *Association) Joins() []JoinConfig {
	ownerPK := a.registry.primaryKey(a.Owner)
	switch a.Kind {
	case assoc.BelongsTo:
		return []JoinConfig{a.aliased(JoinConfig{
			TargetTable:  a.Table,
			TargetColumn: a.TargetKey(),
			SourceTable:  a.Owner,
			SourceColumn: a.ForeignKey,
		})}
	case assoc.ManyToMany:
		return []JoinConfig{
			{
				TargetTable:  a.JoinTable,
				TargetColumn: a.ForeignKey,
				SourceTable:  a.Owner,
				SourceColumn: ownerPK,
			},
			{
				TargetTable:  a.Table,
				TargetColumn: a.TargetKey(),
				SourceTable:  a.JoinTable,
				SourceColumn: a.AssociationForeignKey,
			},
		}
	default:
		return []JoinConfig{a.aliased(JoinConfig{
			TargetTable:  a.Table,
			TargetColumn: a.ForeignKey,
			SourceTable:  a.Owner,
			SourceColumn: ownerPK,
		})}
	}
}

// aliased names a self-referencing join after the association.
func (a *Association) aliased(cfg JoinConfig) JoinConfig {
	if cfg.TargetTable == cfg.SourceTable {
		cfg.Alias = a.Name
	}
	return cfg
}
