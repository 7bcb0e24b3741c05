package assoc

import "slices"

// Policy selects which associations are registered. The first non-empty
// tier decides, in field order; an empty Policy admits everything.
type Policy struct {
	Only        []string
	Except      []string
	OnlyKinds   []Kind
	ExceptKinds []Kind
}

// Admit reports whether an association of kind named name passes the policy.
func (p Policy) Admit(kind Kind, name string) bool {
	switch {
	case len(p.Only) > 0:
		return slices.Contains(p.Only, name)
	case len(p.Except) > 0:
		return !slices.Contains(p.Except, name)
	case len(p.OnlyKinds) > 0:
		return slices.Contains(p.OnlyKinds, kind)
	case len(p.ExceptKinds) > 0:
		return !slices.Contains(p.ExceptKinds, kind)
	default:
		return true
	}
}
