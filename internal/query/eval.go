// Path: internal/query/eval.go
package query

import (
	"sort"
	"strings"

	"gene-catalog/internal/domain"
)

// textValue returns the string value of a text field.
func textValue(g domain.GeneRecord, f Field) (string, bool) {
	switch f {
	case FieldID:
		return g.ID, true
	case FieldName:
		return g.Name, true
	case FieldOrganism:
		return g.Organism, true
	case FieldEnzymeType:
		return g.EnzymeType, true
	case FieldFunction:
		return g.Function, true
	case FieldSequence:
		return g.Sequence, true
	case FieldDomain:
		return g.Domain, true
	case FieldAccession:
		return g.Accession, true
	case FieldCompleteness:
		return string(g.Completeness), true
	case FieldProteinNames:
		return g.ProteinNames, true
	case FieldECNumber:
		return g.ECNumber, true
	}
	return "", false
}

// Match evaluates the predicate against a record.
func (p Predicate) Match(g domain.GeneRecord) bool {
	if p.Field == FieldLength {
		want, ok := p.Value.(int)
		if !ok {
			return false
		}
		switch p.Op {
		case OpEq:
			return g.Length == want
		case OpGte:
			return g.Length >= want
		case OpLte:
			return g.Length <= want
		}
		return false
	}

	have, ok := textValue(g, p.Field)
	if !ok {
		return false
	}
	want, ok := p.Value.(string)
	if !ok {
		return false
	}
	switch p.Op {
	case OpEq:
		return have == want
	case OpILike:
		return strings.Contains(strings.ToLower(have), strings.ToLower(want))
	case OpGte:
		return have >= want
	case OpLte:
		return have <= want
	}
	return false
}

// Match reports whether the record satisfies every clause.
func (w Where) Match(g domain.GeneRecord) bool {
	for _, c := range w {
		matched := false
		for _, p := range c.AnyOf {
			if p.Match(g) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// Filter returns the records satisfying w, in their original order.
func Filter(records []domain.GeneRecord, w Where) []domain.GeneRecord {
	out := make([]domain.GeneRecord, 0, len(records))
	for _, g := range records {
		if w.Match(g) {
			out = append(out, g)
		}
	}
	return out
}

// Sort orders records in place. Strings compare byte-wise, the same as
// the "C" collation the Postgres adapter requests.
func Sort(records []domain.GeneRecord, order []Order) {
	sort.SliceStable(records, func(i, j int) bool {
		for _, o := range order {
			c := compare(records[i], records[j], o.Field)
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compare(a, b domain.GeneRecord, f Field) int {
	if f == FieldLength {
		switch {
		case a.Length < b.Length:
			return -1
		case a.Length > b.Length:
			return 1
		}
		return 0
	}
	av, _ := textValue(a, f)
	bv, _ := textValue(b, f)
	return strings.Compare(av, bv)
}

// Slice applies a Range to an already ordered slice.
func Slice(records []domain.GeneRecord, r Range) []domain.GeneRecord {
	start := r.Offset
	if start < 0 {
		start = 0
	}
	if start >= len(records) {
		return []domain.GeneRecord{}
	}
	end := len(records)
	if r.Limit > 0 && start+r.Limit < end {
		end = start + r.Limit
	}
	return records[start:end]
}
