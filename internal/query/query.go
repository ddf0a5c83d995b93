// Path: internal/query/query.go

// Package query holds the one definition of gene search semantics.
// Filters are turned into a predicate set here; the in-memory dataset
// evaluates that set directly and the database adapters translate it.
package query

import (
	"fmt"
	"math"
	"strings"

	"gene-catalog/internal/domain"
)

// Field names a column of the gene table.
type Field string

const (
	FieldID           Field = "id"
	FieldName         Field = "name"
	FieldOrganism     Field = "organism"
	FieldEnzymeType   Field = "enzyme_type"
	FieldFunction     Field = "function"
	FieldSequence     Field = "sequence"
	FieldLength       Field = "length"
	FieldDomain       Field = "domain"
	FieldAccession    Field = "accession"
	FieldCompleteness Field = "completeness"
	FieldProteinNames Field = "protein_names"
	FieldECNumber     Field = "ec_number"
)

// Op is a comparison operator.
type Op string

const (
	OpEq    Op = "eq"    // exact match
	OpILike Op = "ilike" // case-insensitive substring
	OpGte   Op = "gte"
	OpLte   Op = "lte"
)

// Predicate compares one field with a value. Value is a string for text
// fields and an int for FieldLength.
type Predicate struct {
	Field Field
	Op    Op
	Value any
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s.%s.%v", p.Field, p.Op, p.Value)
}

// Clause is satisfied when any of its predicates is.
type Clause struct {
	AnyOf []Predicate
}

// Where is a conjunction of clauses.
type Where []Clause

// And appends a single-predicate clause.
func (w Where) And(p Predicate) Where {
	return append(w, Clause{AnyOf: []Predicate{p}})
}

// Or appends a clause satisfied by any of ps.
func (w Where) Or(ps ...Predicate) Where {
	if len(ps) == 0 {
		return w
	}
	return append(w, Clause{AnyOf: ps})
}

// Order sorts by one field.
type Order struct {
	Field Field
	Desc  bool
}

// DefaultOrder is the ordering every backend applies to searches: by name,
// ties broken by id so pages never overlap.
var DefaultOrder = []Order{{Field: FieldName}, {Field: FieldID}}

// Range selects a window of the ordered result. Limit 0 means no limit.
type Range struct {
	Offset int
	Limit  int
}

// Query is a structured request against the gene table.
type Query struct {
	Where  Where
	Order  []Order
	Range  Range
	Fields []Field // projection; nil selects every field
}

// textFields are the fields matched by the free-text query.
var textFields = []Field{FieldName, FieldFunction, FieldDomain, FieldAccession}

// FromSearch translates a free-text query and filter set into predicates.
func FromSearch(text string, f domain.SearchFilters) Where {
	var w Where

	if q := strings.TrimSpace(text); q != "" {
		ps := make([]Predicate, 0, len(textFields))
		for _, field := range textFields {
			ps = append(ps, Predicate{Field: field, Op: OpILike, Value: q})
		}
		w = w.Or(ps...)
	}

	if f.EnzymeType != "" {
		w = w.And(Predicate{Field: FieldEnzymeType, Op: OpEq, Value: f.EnzymeType})
	}
	if f.Organism != "" {
		w = w.And(Predicate{Field: FieldOrganism, Op: OpEq, Value: f.Organism})
	}
	if f.Function != "" {
		w = w.And(Predicate{Field: FieldFunction, Op: OpILike, Value: f.Function})
	}
	if f.Domain != "" {
		w = w.And(Predicate{Field: FieldDomain, Op: OpILike, Value: f.Domain})
	}
	if f.Completeness != "" {
		w = w.And(Predicate{Field: FieldCompleteness, Op: OpEq, Value: string(f.Completeness)})
	}
	if f.SequenceLength != "" {
		lo, hi := LengthBucket(f.SequenceLength)
		if lo != nil {
			w = w.And(Predicate{Field: FieldLength, Op: OpGte, Value: *lo})
		}
		if hi != nil {
			w = w.And(Predicate{Field: FieldLength, Op: OpLte, Value: *hi})
		}
	}
	return w
}

// LengthBucket maps a sequence-length bucket label to an inclusive range.
// A nil bound is open; an unknown label yields no bounds at all.
func LengthBucket(label string) (lo, hi *int) {
	switch normalizeBucket(label) {
	case "<500 bp":
		return nil, intPtr(499)
	case "500-1000 bp":
		return intPtr(500), intPtr(1000)
	case "1000-1500 bp":
		return intPtr(1000), intPtr(1500)
	case ">1500 bp":
		return intPtr(1501), nil
	default:
		return nil, nil
	}
}

// normalizeBucket folds the search page's "< 500 bp" spelling into "<500 bp".
func normalizeBucket(label string) string {
	s := strings.TrimSpace(label)
	if strings.HasPrefix(s, "<") || strings.HasPrefix(s, ">") {
		s = s[:1] + strings.TrimLeft(s[1:], " ")
	}
	return s
}

func intPtr(v int) *int { return &v }

// PageRange converts a 1-based page into a Range. An offset that does not
// fit in an int saturates at math.MaxInt, which selects nothing.
func PageRange(page, pageSize int) Range {
	if page < 1 || pageSize < 1 {
		return Range{Limit: pageSize}
	}
	if page-1 > math.MaxInt/pageSize {
		return Range{Offset: math.MaxInt, Limit: pageSize}
	}
	return Range{Offset: (page - 1) * pageSize, Limit: pageSize}
}
