// Package ranking orders documents by TF-IDF and sentences by IDF mass with
// query-term density as tie-break. Query terms missing from an IDF table
// contribute nothing to a score; that is policy, not an error.
package ranking

import (
	"questions/internal/apperrors"
	"questions/internal/domain"
)

// TopFiles scores every file as the sum, over query terms it contains, of
// term count times IDF and returns the best min(n, len(files)). Equal scores
// are ordered by file identifier.
func TopFiles(query domain.Query, files domain.Units, idfs domain.IDFTable, n int) ([]domain.ScoredDocument, error) {
	if n <= 0 {
		return nil, apperrors.Newf(apperrors.ErrInvalidArgument, "", "file match count must be positive, got %d", n)
	}
	if len(files) == 0 {
		return nil, apperrors.New(apperrors.ErrEmptyCollection, "", "no files to rank")
	}
	terms := query.Terms()
	scored := make([]domain.ScoredDocument, 0, len(files))
	for id, tokens := range files {
		scored = append(scored, domain.ScoredDocument{ID: id, Score: tfidf(terms, tokens, idfs)})
	}
	return selectTop(scored, n, documentBefore), nil
}

func tfidf(terms []string, tokens domain.TokenSequence, idfs domain.IDFTable) float64 {
	if len(terms) == 0 {
		return 0
	}
	tf := make(map[string]int, len(terms))
	for _, t := range terms {
		tf[t] = 0
	}
	for _, tok := range tokens {
		if _, ok := tf[tok]; ok {
			tf[tok]++
		}
	}
	score := 0.0
	for _, t := range terms {
		if tf[t] == 0 {
			continue
		}
		idf, ok := idfs.Lookup(t)
		if !ok {
			continue
		}
		score += float64(tf[t]) * idf
	}
	return score
}

func documentBefore(a, b domain.ScoredDocument) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.ID < b.ID
}

// FileIDs strips scores from a ranking.
func FileIDs(ranked []domain.ScoredDocument) []string {
	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ID
	}
	return ids
}
