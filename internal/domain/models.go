// Path: internal/domain/models.go
package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// --- Enum for the "completeness" field ---

// Completeness tells whether a record carries the full coding sequence.
type Completeness string

const (
	CompletenessComplete Completeness = "complete"
	CompletenessPartial  Completeness = "partial"
)

// Labels used by the search page; accepted on input so forms can post them back.
const (
	completeLabel = "完整序列"
	partialLabel  = "部分序列"
)

// Valid reports whether c is one of the two known values.
func (c Completeness) Valid() bool {
	return c == CompletenessComplete || c == CompletenessPartial
}

// ParseCompleteness maps a raw value or display label to a Completeness.
// The empty string parses to the empty Completeness (no filter).
func ParseCompleteness(s string) (Completeness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case string(CompletenessComplete), completeLabel:
		return CompletenessComplete, nil
	case string(CompletenessPartial), partialLabel:
		return CompletenessPartial, nil
	default:
		return "", fmt.Errorf("%w: unknown completeness %q", ErrInvalidGene, s)
	}
}

// UnmarshalJSON implements the json.Unmarshaler interface for Completeness.
func (c *Completeness) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("completeness is not a string: %w", err)
	}
	parsed, err := ParseCompleteness(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// GeneRecord is one catalog entry describing an enzyme-coding sequence.
// Struct tags cover JSON, BSON for MongoDB and column names for Postgres.
type GeneRecord struct {
	ID           string       `json:"id" bson:"_id" db:"id"`
	Name         string       `json:"name" bson:"name" db:"name"`
	Organism     string       `json:"organism" bson:"organism" db:"organism"`
	EnzymeType   string       `json:"enzyme_type" bson:"enzyme_type" db:"enzyme_type"`
	Function     string       `json:"function" bson:"function" db:"function"`
	Sequence     string       `json:"sequence" bson:"sequence" db:"sequence"`
	Length       int          `json:"length" bson:"length" db:"length"`
	Domain       string       `json:"domain" bson:"domain" db:"domain"`
	Accession    string       `json:"accession" bson:"accession" db:"accession"`
	Completeness Completeness `json:"completeness" bson:"completeness" db:"completeness"`
	ProteinNames string       `json:"protein_names,omitempty" bson:"protein_names,omitempty" db:"protein_names"`
	ECNumber     string       `json:"ec_number,omitempty" bson:"ec_number,omitempty" db:"ec_number"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" bson:"updated_at" db:"updated_at"`
}

// Validate checks the record invariants.
func (g GeneRecord) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidGene)
	}
	if g.Length < 0 {
		return fmt.Errorf("%w: length must be non-negative, got %d", ErrInvalidGene, g.Length)
	}
	if !g.Completeness.Valid() {
		return fmt.Errorf("%w: completeness must be %q or %q", ErrInvalidGene, CompletenessComplete, CompletenessPartial)
	}
	return nil
}

// GeneUpdate is a partial update. Nil fields are left untouched.
type GeneUpdate struct {
	Name         *string       `json:"name,omitempty"`
	Organism     *string       `json:"organism,omitempty"`
	EnzymeType   *string       `json:"enzyme_type,omitempty"`
	Function     *string       `json:"function,omitempty"`
	Sequence     *string       `json:"sequence,omitempty"`
	Length       *int          `json:"length,omitempty"`
	Domain       *string       `json:"domain,omitempty"`
	Accession    *string       `json:"accession,omitempty"`
	Completeness *Completeness `json:"completeness,omitempty"`
	ProteinNames *string       `json:"protein_names,omitempty"`
	ECNumber     *string       `json:"ec_number,omitempty"`
}

// Apply copies every set field onto g.
func (u GeneUpdate) Apply(g *GeneRecord) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&g.Name, u.Name)
	setString(&g.Organism, u.Organism)
	setString(&g.EnzymeType, u.EnzymeType)
	setString(&g.Function, u.Function)
	setString(&g.Sequence, u.Sequence)
	setString(&g.Domain, u.Domain)
	setString(&g.Accession, u.Accession)
	setString(&g.ProteinNames, u.ProteinNames)
	setString(&g.ECNumber, u.ECNumber)
	if u.Length != nil {
		g.Length = *u.Length
	}
	if u.Completeness != nil {
		g.Completeness = *u.Completeness
	}
}

// SearchFilters narrows a search. Empty fields do not filter.
type SearchFilters struct {
	EnzymeType     string       `json:"enzymeType,omitempty"`
	Organism       string       `json:"organism,omitempty"`
	Function       string       `json:"function,omitempty"`
	SequenceLength string       `json:"sequenceLength,omitempty"` // bucket label, e.g. "500-1000 bp"
	Domain         string       `json:"domain,omitempty"`
	Completeness   Completeness `json:"completeness,omitempty"`
}

// SearchResult is one page of a filtered search.
// Total counts the whole filtered set, not just the page.
type SearchResult struct {
	Genes    []GeneRecord `json:"genes"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"pageSize"`
}

// EnzymeStat is the number of records per enzyme family.
type EnzymeStat struct {
	EnzymeType string `json:"enzyme_type"`
	Count      int    `json:"count"`
}

// DomainStat is the number of records per protein domain.
type DomainStat struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}
