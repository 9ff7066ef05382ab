// Package termstats computes inverse document frequencies over an arbitrary
// collection of tokenized units. The same computation serves whole documents
// and single sentences.
package termstats

import (
	"math"

	"questions/internal/apperrors"
	"questions/internal/domain"
)

// ComputeIDF returns ln(N/df) for every term that occurs in at least one of
// the N units, where df counts the units containing the term at least once.
// Units may have empty token sequences but the collection may not be empty.
func ComputeIDF(units domain.Units) (domain.IDFTable, error) {
	if len(units) == 0 {
		return nil, apperrors.New(apperrors.ErrEmptyCollection, "", "cannot compute IDF over zero units")
	}
	df := DocumentFrequencies(units)
	n := float64(len(units))
	idfs := make(domain.IDFTable, len(df))
	for term, count := range df {
		idfs[term] = math.Log(n / float64(count))
	}
	return idfs, nil
}

// DocumentFrequencies counts, in one pass over all tokens, how many units
// contain each term.
func DocumentFrequencies(units domain.Units) map[string]int {
	df := make(map[string]int)
	for _, tokens := range units {
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	return df
}
