// Path: internal/uniprot/entry.go
package uniprot

import (
	"strings"
	"time"

	"gene-catalog/internal/domain"
)

// Entry is the subset of a UniProtKB JSON entry the catalog keeps.
type Entry struct {
	PrimaryAccession   string             `json:"primaryAccession"`
	UniProtKBID        string             `json:"uniProtkbId"`
	EntryType          string             `json:"entryType"`
	Organism           Organism           `json:"organism"`
	ProteinDescription ProteinDescription `json:"proteinDescription"`
	Genes              []Gene             `json:"genes"`
	Comments           []Comment          `json:"comments"`
	Features           []Feature          `json:"features"`
	Sequence           Sequence           `json:"sequence"`
	EntryAudit         EntryAudit         `json:"entryAudit"`
}

// Value wraps the {"value": ...} objects UniProt uses for plain strings.
type Value struct {
	Value string `json:"value"`
}

// Organism names the source species.
type Organism struct {
	ScientificName string `json:"scientificName"`
	CommonName     string `json:"commonName"`
}

// ProteinName is one recommended, alternative or submitted name with its EC numbers.
type ProteinName struct {
	FullName  Value   `json:"fullName"`
	ECNumbers []Value `json:"ecNumbers"`
}

// ProteinDescription groups the names of an entry. Flag marks fragments.
type ProteinDescription struct {
	RecommendedName  *ProteinName  `json:"recommendedName"`
	AlternativeNames []ProteinName `json:"alternativeNames"`
	SubmissionNames  []ProteinName `json:"submissionNames"`
	Flag             string        `json:"flag"`
}

// Gene holds the primary gene name.
type Gene struct {
	GeneName *Value `json:"geneName"`
}

// Comment is a typed annotation such as FUNCTION or CATALYTIC ACTIVITY.
type Comment struct {
	CommentType string    `json:"commentType"`
	Texts       []Value   `json:"texts"`
	Reaction    *Reaction `json:"reaction"`
}

// Reaction is the catalysed reaction of a CATALYTIC ACTIVITY comment.
type Reaction struct {
	Name string `json:"name"`
}

// Feature is a sequence annotation; Domain features become catalog domains.
type Feature struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Sequence is the amino-acid sequence and its length.
type Sequence struct {
	Value  string `json:"value"`
	Length int    `json:"length"`
}

// EntryAudit carries the publication and last-annotation dates.
type EntryAudit struct {
	FirstPublicDate          string `json:"firstPublicDate"`
	LastAnnotationUpdateDate string `json:"lastAnnotationUpdateDate"`
}

// names returns every protein name in declaration order.
func (e Entry) names() []ProteinName {
	var out []ProteinName
	if rn := e.ProteinDescription.RecommendedName; rn != nil {
		out = append(out, *rn)
	}
	out = append(out, e.ProteinDescription.AlternativeNames...)
	return append(out, e.ProteinDescription.SubmissionNames...)
}

// ToGeneRecord maps the entry to a catalog record.
func (e Entry) ToGeneRecord() domain.GeneRecord {
	var fullNames, ecNumbers []string
	for _, n := range e.names() {
		if n.FullName.Value != "" {
			fullNames = append(fullNames, n.FullName.Value)
		}
		for _, ec := range n.ECNumbers {
			ecNumbers = append(ecNumbers, ec.Value)
		}
	}

	name := e.UniProtKBID
	if len(fullNames) > 0 {
		name = fullNames[0]
	}
	proteinNames := strings.Join(fullNames, "; ")

	completeness := domain.CompletenessComplete
	if strings.Contains(e.ProteinDescription.Flag, "Fragment") {
		completeness = domain.CompletenessPartial
	}

	length := e.Sequence.Length
	if length == 0 {
		length = len(e.Sequence.Value)
	}

	return domain.GeneRecord{
		ID:           e.PrimaryAccession,
		Name:         name,
		Organism:     e.Organism.ScientificName,
		EnzymeType:   domain.ClassifyEnzyme(proteinNames),
		Function:     e.function(),
		Sequence:     e.Sequence.Value,
		Length:       length,
		Domain:       e.domain(),
		Accession:    e.PrimaryAccession,
		Completeness: completeness,
		ProteinNames: proteinNames,
		ECNumber:     strings.Join(ecNumbers, "; "),
		CreatedAt:    parseDate(e.EntryAudit.FirstPublicDate),
		UpdatedAt:    parseDate(e.EntryAudit.LastAnnotationUpdateDate),
	}
}

// function prefers the curated FUNCTION comment, then the first catalysed reaction.
func (e Entry) function() string {
	for _, c := range e.Comments {
		if c.CommentType == "FUNCTION" && len(c.Texts) > 0 {
			return c.Texts[0].Value
		}
	}
	for _, c := range e.Comments {
		if c.CommentType == "CATALYTIC ACTIVITY" && c.Reaction != nil {
			return c.Reaction.Name
		}
	}
	return ""
}

func (e Entry) domain() string {
	for _, f := range e.Features {
		if f.Type == "Domain" && f.Description != "" {
			return f.Description
		}
	}
	return ""
}

func parseDate(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
