package domain

import (
	"context"
	"sort"
)

// Corpus maps a document identifier (the file name) to its raw text.
type Corpus map[string]string

// IDs returns the document identifiers in ascending order.
func (c Corpus) IDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TokenSequence is the ordered list of normalized terms of one unit of text.
type TokenSequence []string

// Count returns how many times term occurs in the sequence.
func (s TokenSequence) Count(term string) int {
	n := 0
	for _, t := range s {
		if t == term {
			n++
		}
	}
	return n
}

// Units maps a unit identifier (document or sentence) to its tokens.
type Units map[string]TokenSequence

// IDFTable maps a term to its inverse document frequency over one collection.
type IDFTable map[string]float64

// Lookup returns the IDF of term and whether the collection contains it.
func (t IDFTable) Lookup(term string) (float64, bool) {
	v, ok := t[term]
	return v, ok
}

// Query is a set of normalized query terms.
type Query map[string]struct{}

// NewQuery collapses tokens into a set.
func NewQuery(tokens TokenSequence) Query {
	q := make(Query, len(tokens))
	for _, t := range tokens {
		q[t] = struct{}{}
	}
	return q
}

// Contains reports whether term is part of the query.
func (q Query) Contains(term string) bool {
	_, ok := q[term]
	return ok
}

// Terms returns the query terms sorted, so score sums are accumulated in a
// fixed order.
func (q Query) Terms() []string {
	terms := make([]string, 0, len(q))
	for t := range q {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// ScoredDocument pairs a document identifier with its TF-IDF score.
type ScoredDocument struct {
	ID    string
	Score float64
}

// ScoredSentence pairs a sentence with its matching-word measure and
// query-term density.
type ScoredSentence struct {
	ID      string
	Measure float64
	Density float64
}

// Tokenizer converts raw text into normalized terms.
type Tokenizer interface {
	Name() string
	Tokenize(text string) TokenSequence
}

// Segmenter splits a passage of text into sentences.
type Segmenter interface {
	Segment(text string) []string
}

// CorpusLoader realizes a corpus from a named location.
type CorpusLoader interface {
	Load(ctx context.Context, location string) (Corpus, error)
}
