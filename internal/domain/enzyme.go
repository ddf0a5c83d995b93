// Path: internal/domain/enzyme.go
package domain

import "strings"

// EnzymeTypeOther is the category for names that match no rule.
const EnzymeTypeOther = "other"

// enzymeRule maps any of its keywords to one enzyme family.
type enzymeRule struct {
	category string
	keywords []string
}

// enzymeRules are evaluated top to bottom; the first match wins.
var enzymeRules = []enzymeRule{
	{category: "果胶酶", keywords: []string{"果胶", "pectin", "pectate"}},
	{category: "蛋白酶", keywords: []string{"蛋白酶", "protease", "peptidase", "proteinase"}},
	{category: "脂肪酶", keywords: []string{"脂肪酶", "lipase"}},
	{category: "淀粉酶", keywords: []string{"淀粉酶", "amylase"}},
	{category: "纤维素酶", keywords: []string{"纤维素", "cellulase", "glucanase"}},
	{category: "木质素酶", keywords: []string{"木质素", "laccase", "lignin", "peroxidase"}},
}

// ClassifyEnzyme derives an enzyme family from free-text protein names.
func ClassifyEnzyme(proteinNames string) string {
	lowered := strings.ToLower(proteinNames)
	for _, rule := range enzymeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.category
			}
		}
	}
	return EnzymeTypeOther
}

// EnzymeCategory returns the record's enzyme family, falling back to the
// classifier when the canonical field is empty.
func (g GeneRecord) EnzymeCategory() string {
	if t := strings.TrimSpace(g.EnzymeType); t != "" {
		return t
	}
	if g.ProteinNames != "" {
		return ClassifyEnzyme(g.ProteinNames)
	}
	return ClassifyEnzyme(g.Name)
}
