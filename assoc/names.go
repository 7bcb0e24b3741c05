package assoc

import (
	"strings"

	"github.com/mickamy/ormassoc/internal/naming"
)

// Inflector supplies the linguistic transforms naming relies on.
type Inflector interface {
	Plural(s string) string
	Singular(s string) string
	Classify(s string) string
}

// Candidate is a proposed accessor name in its verbose and concise forms.
type Candidate struct {
	Verbose string
	Concise string
}

// Pick returns the concise form when concise is set, the verbose form otherwise.
func (c Candidate) Pick(concise bool) string {
	if concise {
		return c.Concise
	}
	return c.Verbose
}

func same(name string) Candidate { return Candidate{Verbose: name, Concise: name} }

// Names holds the candidates for both directions of one foreign key: the
// belongs_to name on the referencing side, and the has_one / has_many names
// on the referenced side.
type Names struct {
	BelongsTo Candidate
	HasOne    Candidate
	HasMany   Candidate
}

// Resolver derives association names from table and column names.
type Resolver struct {
	Inflector Inflector
}

func (r Resolver) inflector() Inflector {
	if r.Inflector == nil {
		return naming.Inflector{}
	}
	return r.Inflector
}

// nameInput is the normalized form every naming rule matches against.
type nameInput struct {
	label              string // foreign key column without "_id"
	references         string // singular referenced table
	referencesConcise  string
	referencing        string // singular referencing table
	referencingConcise string
	plural             func(string) string
}

// as builds the reverse-side names "<referencing>_as_<label>".
func (in nameInput) as(label string) (one, many Candidate) {
	one = Candidate{
		Verbose: in.referencing + "_as_" + label,
		Concise: in.referencingConcise + "_as_" + label,
	}
	many = Candidate{
		Verbose: in.plural(in.referencing) + "_as_" + label,
		Concise: in.plural(in.referencingConcise) + "_as_" + label,
	}
	return one, many
}

type namingRule func(in nameInput) (Names, bool)

// namingRules are tried in order; the first match wins and fallbackNames
// applies when none does.
var namingRules = []namingRule{
	parentNames,
	directNames,
	suffixLabelNames,
	prefixLabelNames,
}

// Resolve returns the names for the foreign key column on referencingTable
// that points at referencedTable.
func (r Resolver) Resolve(referencingTable, referencedTable, column string) Names {
	inf := r.inflector()
	in := nameInput{
		label:       strings.TrimSuffix(column, "_id"),
		references:  inf.Singular(referencedTable),
		referencing: inf.Singular(referencingTable),
		plural:      inf.Plural,
	}
	in.referencesConcise = Concise(in.references, in.referencing)
	in.referencingConcise = Concise(in.referencing, in.references)

	for _, rule := range namingRules {
		if names, ok := rule(in); ok {
			return names
		}
	}
	return fallbackNames(in)
}

// parentNames: "parent_id" is a tree.
func parentNames(in nameInput) (Names, bool) {
	if in.label != "parent" {
		return Names{}, false
	}
	return Names{
		BelongsTo: same("parent"),
		HasOne:    same("child"),
		HasMany:   same("children"),
	}, true
}

// directNames: "post_id" on comments referencing posts.
func directNames(in nameInput) (Names, bool) {
	if in.label != in.references {
		return Names{}, false
	}
	return Names{
		BelongsTo: Candidate{Verbose: in.references, Concise: in.referencesConcise},
		HasOne:    Candidate{Verbose: in.referencing, Concise: in.referencingConcise},
		HasMany: Candidate{
			Verbose: in.plural(in.referencing),
			Concise: in.plural(in.referencingConcise),
		},
	}, true
}

// suffixLabelNames: "billing_address_id" referencing addresses.
func suffixLabelNames(in nameInput) (Names, bool) {
	label, ok := labelBefore(in.label, in.references, in.referencesConcise)
	if !ok {
		return Names{}, false
	}
	one, many := in.as(label)
	return Names{
		BelongsTo: Candidate{
			Verbose: label + "_" + in.references,
			Concise: label + "_" + in.referencesConcise,
		},
		HasOne:  one,
		HasMany: many,
	}, true
}

// prefixLabelNames: "address_billing_id" referencing addresses.
func prefixLabelNames(in nameInput) (Names, bool) {
	label, ok := labelAfter(in.label, in.references, in.referencesConcise)
	if !ok {
		return Names{}, false
	}
	one, many := in.as(label)
	return Names{
		BelongsTo: Candidate{
			Verbose: in.references + "_" + label,
			Concise: in.referencesConcise + "_" + label,
		},
		HasOne:  one,
		HasMany: many,
	}, true
}

func fallbackNames(in nameInput) Names {
	one, many := in.as(in.label)
	return Names{
		BelongsTo: same(in.label),
		HasOne:    one,
		HasMany:   many,
	}
}

// labelBefore extracts <label> from "<label>_<name>" for the first name
// that leaves a non-empty label.
func labelBefore(s string, names ...string) (string, bool) {
	for _, name := range names {
		if label, ok := strings.CutSuffix(s, "_"+name); ok && label != "" {
			return label, true
		}
	}
	return "", false
}

// labelAfter extracts <label> from "<name>_<label>".
func labelAfter(s string, names ...string) (string, bool) {
	for _, name := range names {
		if label, ok := strings.CutPrefix(s, name+"_"); ok && label != "" {
			return label, true
		}
	}
	return "", false
}

// Concise strips the part of name it shares with other: a leading
// "<other>_", a trailing "_<other>", or the longest run of other's leading
// "_"-separated segments. name is returned unchanged when nothing is shared
// or stripping would leave nothing.
//
//	Concise("line_item", "line")        == "item"
//	Concise("blog_post", "post")        == "blog"
//	Concise("blog_post", "blog_comment") == "post"
func Concise(name, other string) string {
	if rest, ok := strings.CutPrefix(name, other+"_"); ok && rest != "" {
		return rest
	}
	if rest, ok := strings.CutSuffix(name, "_"+other); ok && rest != "" {
		return rest
	}
	if lead := commonLeader(name, other); lead != "" && lead != name {
		return name[len(lead):]
	}
	return name
}

// commonLeader returns the longest "a_b_" prefix of name built from whole
// leading segments of other.
func commonLeader(name, other string) string {
	var lead string
	for _, part := range strings.Split(other, "_") {
		next := lead + part + "_"
		if !strings.HasPrefix(name, next) {
			break
		}
		lead = next
	}
	return lead
}
