// Package schema holds the per-table metadata that association discovery
// works from: outgoing and incoming foreign keys, columns and indexes.
package schema

import (
	"slices"
	"sync"
)

// Source supplies schema facts keyed by table name. Results must be stable
// for the duration of one discovery pass.
type Source interface {
	// ForeignKeys returns the foreign keys declared on table.
	ForeignKeys(table string) []ForeignKey
	// ReverseForeignKeys returns the foreign keys of other tables (or of
	// table itself) that reference table.
	ReverseForeignKeys(table string) []ForeignKey
	Columns(table string) []Column
	Indexes(table string) []Index
}

// ForeignKey is one physical foreign-key constraint.
type ForeignKey struct {
	Name            string   `yaml:"name,omitempty"`
	Table           string   `yaml:"-"` // referencing table
	Columns         []string `yaml:"columns"`
	ReferencedTable string   `yaml:"referenced_table"`
}

// Column returns the key column when the foreign key has exactly one.
func (fk ForeignKey) Column() (string, bool) {
	if len(fk.Columns) != 1 {
		return "", false
	}
	return fk.Columns[0], true
}

// Index is a table index. Columns are in key order.
type Index struct {
	Name    string   `yaml:"name,omitempty"`
	Table   string   `yaml:"-"`
	Columns []string `yaml:"columns"`
	Unique  bool     `yaml:"unique,omitempty"`
}

// Column is a table column.
type Column struct {
	Table    string `yaml:"-"`
	Name     string `yaml:"name"`
	DataType string `yaml:"data_type,omitempty"`
}

// Table groups the facts of a single table.
type Table struct {
	Name        string       `yaml:"name"`
	Columns     []Column     `yaml:"columns,omitempty"`
	ForeignKeys []ForeignKey `yaml:"foreign_keys,omitempty"`
	Indexes     []Index      `yaml:"indexes,omitempty"`
}

// Snapshot is a fully materialized set of schema facts. It implements
// Source and is safe for concurrent readers once built.
type Snapshot struct {
	Tables []Table `yaml:"tables"`

	once    sync.Once
	byName  map[string]int
	reverse map[string][]ForeignKey
}

var _ Source = (*Snapshot)(nil)

// NewSnapshot builds a Snapshot from tables, filling the owning table name
// into every nested fact.
func NewSnapshot(tables ...Table) *Snapshot {
	s := &Snapshot{Tables: tables}
	s.normalize()
	return s
}

func (s *Snapshot) normalize() {
	for i := range s.Tables {
		t := &s.Tables[i]
		for j := range t.Columns {
			t.Columns[j].Table = t.Name
		}
		for j := range t.ForeignKeys {
			t.ForeignKeys[j].Table = t.Name
		}
		for j := range t.Indexes {
			t.Indexes[j].Table = t.Name
		}
	}
}

func (s *Snapshot) build() {
	s.once.Do(func() {
		s.byName = make(map[string]int, len(s.Tables))
		s.reverse = make(map[string][]ForeignKey)
		for i, t := range s.Tables {
			s.byName[t.Name] = i
			for _, fk := range t.ForeignKeys {
				s.reverse[fk.ReferencedTable] = append(s.reverse[fk.ReferencedTable], fk)
			}
		}
	})
}

// Table returns the facts of the named table.
func (s *Snapshot) Table(name string) (*Table, bool) {
	s.build()
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return &s.Tables[i], true
}

// TableNames returns the table names in snapshot order.
func (s *Snapshot) TableNames() []string {
	names := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		names[i] = t.Name
	}
	return names
}

func (s *Snapshot) ForeignKeys(table string) []ForeignKey {
	if t, ok := s.Table(table); ok {
		return t.ForeignKeys
	}
	return nil
}

func (s *Snapshot) ReverseForeignKeys(table string) []ForeignKey {
	s.build()
	return s.reverse[table]
}

func (s *Snapshot) Columns(table string) []Column {
	if t, ok := s.Table(table); ok {
		return t.Columns
	}
	return nil
}

func (s *Snapshot) Indexes(table string) []Index {
	if t, ok := s.Table(table); ok {
		return t.Indexes
	}
	return nil
}

// HasColumn reports whether table has a column named column.
func HasColumn(src Source, table, column string) bool {
	return slices.ContainsFunc(src.Columns(table), func(c Column) bool { return c.Name == column })
}

// HasUniqueIndexOn reports whether table has a unique index whose column
// set is exactly {column}.
func HasUniqueIndexOn(src Source, table, column string) bool {
	return slices.ContainsFunc(src.Indexes(table), func(idx Index) bool {
		return idx.Unique && len(idx.Columns) == 1 && idx.Columns[0] == column
	})
}
