// Package engine implements the life-cycle impact aggregation and allocation
// engine: material accumulation, facility allocation, barrel maturation,
// data quality scoring, and the orchestrator that merges them into one
// AggregatedImpactResult.
package engine

import "strings"

// MaterialClass is the coarse ingredient/packaging split used for the
// category and lifecycle-stage breakdowns.
type MaterialClass string

const (
	ClassIngredient MaterialClass = "ingredient"
	ClassPackaging  MaterialClass = "packaging"
)

// Classifier decides whether a material is an ingredient or a packaging
// component. Implementations must be safe for concurrent use.
type Classifier interface {
	Classify(name, categoryTag string) MaterialClass
}

// defaultPackagingTerms are name tokens that indicate a packaging component.
var defaultPackagingTerms = []string{
	"bottle", "cap", "closure", "cork", "label", "carton", "box", "case",
	"capsule", "foil", "sleeve", "wrap", "crate", "pallet", "shrink",
	"tin", "can", "pouch", "seal", "glass",
}

// TermClassifier matches material names token-wise against a vocabulary of
// packaging-indicative terms. An explicit "packaging" category tag always
// wins; unmatched names default to ingredient.
type TermClassifier struct {
	terms map[string]bool
}

// NewTermClassifier builds a classifier from the given terms, falling back
// to the default vocabulary when none are supplied.
func NewTermClassifier(terms ...string) *TermClassifier {
	if len(terms) == 0 {
		terms = defaultPackagingTerms
	}
	set := make(map[string]bool, len(terms))
	for _, t := range terms {
		set[strings.ToLower(t)] = true
	}
	return &TermClassifier{terms: set}
}

// Classify implements Classifier.
func (c *TermClassifier) Classify(name, categoryTag string) MaterialClass {
	switch strings.ToLower(strings.TrimSpace(categoryTag)) {
	case string(ClassPackaging):
		return ClassPackaging
	case string(ClassIngredient):
		return ClassIngredient
	}

	for _, token := range tokenize(name) {
		if c.terms[token] {
			return ClassPackaging
		}
	}
	return ClassIngredient
}

// tokenize lowercases a name and splits it on non-letter runes, so "can"
// matches "Aluminium Can" but not "cane sugar".
func tokenize(name string) []string {
	return strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	})
}
