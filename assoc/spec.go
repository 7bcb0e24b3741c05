package assoc

import "fmt"

// Spec describes one association to register on an entity.
type Spec struct {
	Kind Kind `yaml:"kind"`
	// Name is the accessor name.
	Name string `yaml:"name"`
	// ClassName is the class of the associated rows, e.g. "Comment".
	ClassName string `yaml:"class_name"`
	// Table holds the associated rows.
	Table string `yaml:"table"`
	// ForeignKey is the key column: on the entity's table for BelongsTo, on
	// Table for HasOne / HasMany, on JoinTable for ManyToMany.
	ForeignKey string `yaml:"foreign_key"`
	// JoinTable links the entity to Table (ManyToMany only).
	JoinTable string `yaml:"join_table,omitempty"`
	// AssociationForeignKey is the JoinTable column pointing at Table
	// (ManyToMany only).
	AssociationForeignKey string `yaml:"association_foreign_key,omitempty"`
	// OrderBy orders the associated rows ascending (HasMany only).
	OrderBy string `yaml:"order_by,omitempty"`
}

func (s Spec) String() string {
	out := fmt.Sprintf("%s %s, class_name: %s, foreign_key: %s", s.Kind, s.Name, s.ClassName, s.ForeignKey)
	if s.JoinTable != "" {
		out += ", join_table: " + s.JoinTable
	}
	if s.OrderBy != "" {
		out += ", order: " + s.OrderBy
	}
	return out
}
