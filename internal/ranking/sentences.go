package ranking

import (
	"questions/internal/apperrors"
	"questions/internal/domain"
)

// TopSentences ranks sentences by the summed IDF of the query terms they
// contain, then by the share of their tokens that are query terms, then by
// sentence identifier. Sentences without tokens must be filtered out before
// calling.
func TopSentences(query domain.Query, sentences domain.Units, idfs domain.IDFTable, n int) ([]domain.ScoredSentence, error) {
	if n <= 0 {
		return nil, apperrors.Newf(apperrors.ErrInvalidArgument, "", "sentence match count must be positive, got %d", n)
	}
	if len(sentences) == 0 {
		return nil, apperrors.New(apperrors.ErrEmptyCollection, "", "no sentences to rank")
	}
	terms := query.Terms()
	scored := make([]domain.ScoredSentence, 0, len(sentences))
	for id, tokens := range sentences {
		if len(tokens) == 0 {
			return nil, apperrors.Newf(apperrors.ErrInvalidArgument, "", "sentence %q has no tokens", id)
		}
		scored = append(scored, domain.ScoredSentence{
			ID:      id,
			Measure: matchingWordMeasure(terms, tokens, idfs),
			Density: Density(query, tokens),
		})
	}
	return selectTop(scored, n, sentenceBefore), nil
}

func matchingWordMeasure(terms []string, tokens domain.TokenSequence, idfs domain.IDFTable) float64 {
	present := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		present[tok] = struct{}{}
	}
	measure := 0.0
	for _, t := range terms {
		if _, ok := present[t]; !ok {
			continue
		}
		if idf, ok := idfs.Lookup(t); ok {
			measure += idf
		}
	}
	return measure
}

// Density is the fraction of tokens that are query terms, counting repeats.
func Density(query domain.Query, tokens domain.TokenSequence) float64 {
	if len(tokens) == 0 {
		return 0
	}
	hits := 0
	for _, tok := range tokens {
		if query.Contains(tok) {
			hits++
		}
	}
	return float64(hits) / float64(len(tokens))
}

func sentenceBefore(a, b domain.ScoredSentence) bool {
	if a.Measure != b.Measure {
		return a.Measure > b.Measure
	}
	if a.Density != b.Density {
		return a.Density > b.Density
	}
	return a.ID < b.ID
}

// SentenceIDs strips scores from a ranking.
func SentenceIDs(ranked []domain.ScoredSentence) []string {
	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ID
	}
	return ids
}
