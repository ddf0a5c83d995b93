// Path: internal/fallback/dataset.go

// Package fallback holds the records served while the remote store is
// unconfigured or unreachable.
package fallback

import (
	"time"

	"gene-catalog/internal/domain"
)

var seededAt = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

const placeholderSequence = "ATGGCTAGCAAGATCGACCTG..."

var records = []domain.GeneRecord{
	{
		ID:           "TLE001",
		Name:         "果胶甲酯酶",
		Organism:     "烟草",
		EnzymeType:   "果胶酶",
		Function:     "果胶甲酯水解",
		Sequence:     placeholderSequence,
		Length:       1515,
		Domain:       "果胶裂解酶结构域",
		Accession:    "TLE001",
		Completeness: domain.CompletenessComplete,
		CreatedAt:    seededAt,
		UpdatedAt:    seededAt,
	},
	{
		ID:           "TLE002",
		Name:         "丝氨酸蛋白酶",
		Organism:     "烟草",
		EnzymeType:   "蛋白酶",
		Function:     "蛋白质水解",
		Sequence:     placeholderSequence,
		Length:       1023,
		Domain:       "丝氨酸蛋白酶催化域",
		Accession:    "TLE002",
		Completeness: domain.CompletenessComplete,
		CreatedAt:    seededAt,
		UpdatedAt:    seededAt,
	},
	{
		ID:           "TLE003",
		Name:         "脂肪酶α/β",
		Organism:     "烟草",
		EnzymeType:   "脂肪酶",
		Function:     "脂质水解",
		Sequence:     placeholderSequence,
		Length:       756,
		Domain:       "脂肪酶α/β水解酶折叠",
		Accession:    "TLE003",
		Completeness: domain.CompletenessPartial,
		CreatedAt:    seededAt,
		UpdatedAt:    seededAt,
	},
	{
		ID:           "TLE004",
		Name:         "α-淀粉酶",
		Organism:     "烟草",
		EnzymeType:   "淀粉酶",
		Function:     "淀粉水解",
		Sequence:     placeholderSequence,
		Length:       1234,
		Domain:       "糖苷水解酶家族",
		Accession:    "TLE004",
		Completeness: domain.CompletenessComplete,
		CreatedAt:    seededAt,
		UpdatedAt:    seededAt,
	},
	{
		ID:           "TLE005",
		Name:         "纤维素酶",
		Organism:     "烟草",
		EnzymeType:   "纤维素酶",
		Function:     "纤维素降解",
		Sequence:     placeholderSequence,
		Length:       987,
		Domain:       "糖苷水解酶家族",
		Accession:    "TLE005",
		Completeness: domain.CompletenessComplete,
		CreatedAt:    seededAt,
		UpdatedAt:    seededAt,
	},
}

// Records returns a copy of the fallback dataset.
func Records() []domain.GeneRecord {
	out := make([]domain.GeneRecord, len(records))
	copy(out, records)
	return out
}
