// Package assoc infers associations between tables from schema facts and
// naming conventions, and drives their registration on a host entity.
package assoc

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when a kind name cannot be parsed.
var ErrUnknownKind = errors.New("assoc: unknown association kind")

// Kind is the relationship kind of an association.
type Kind int

const (
	// BelongsTo: the entity's table holds the foreign key.
	BelongsTo Kind = iota + 1
	// HasOne: another table holds a uniquely indexed foreign key to the entity.
	HasOne
	// HasMany: another table holds a foreign key to the entity.
	HasMany
	// ManyToMany: a join table links the entity to another table.
	ManyToMany
)

// String returns the string form used in config, logs and YAML.
func (k Kind) String() string {
	switch k {
	case BelongsTo:
		return "belongs_to"
	case HasOne:
		return "has_one"
	case HasMany:
		return "has_many"
	case ManyToMany:
		return "many_to_many"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Ident returns the Go identifier of the kind, e.g. "HasMany".
func (k Kind) Ident() string {
	switch k {
	case BelongsTo:
		return "BelongsTo"
	case HasOne:
		return "HasOne"
	case HasMany:
		return "HasMany"
	case ManyToMany:
		return "ManyToMany"
	default:
		return ""
	}
}

// ParseKind parses the string form of a kind. "has_and_belongs_to_many" is
// accepted as an alias of "many_to_many".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "belongs_to":
		return BelongsTo, nil
	case "has_one":
		return HasOne, nil
	case "has_many":
		return HasMany, nil
	case "many_to_many", "has_and_belongs_to_many":
		return ManyToMany, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// ParseKinds parses every element of ss.
func ParseKinds(ss []string) ([]Kind, error) {
	if len(ss) == 0 {
		return nil, nil
	}
	kinds := make([]Kind, 0, len(ss))
	for _, s := range ss {
		k, err := ParseKind(s)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// MarshalText encodes the kind as its string form, e.g. "has_many".
func (k Kind) MarshalText() ([]byte, error) {
	if k.Ident() == "" {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind with ParseKind.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
