package orm

import "errors"

// ErrNotFound is returned when a query expects exactly one row but finds none.
var ErrNotFound = errors.New("orm: not found")

// ErrUnknownAssociation is returned when a model has no association with the
// requested name, after discovery.
var ErrUnknownAssociation = errors.New("orm: unknown association")

// ErrDuplicateAssociation is returned when an association name is registered
// twice on the same model.
var ErrDuplicateAssociation = errors.New("orm: duplicate association")

// ErrAssociationTarget is returned by Through when the association does not
// lead to the queried model's table.
var ErrAssociationTarget = errors.New("orm: association targets another table")
