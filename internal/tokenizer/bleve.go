// Package tokenizer turns raw text into lowercase terms with punctuation and
// English stop-words removed.
package tokenizer

import (
	"fmt"

	"github.com/blevesearch/bleve/analysis"
	"github.com/blevesearch/bleve/analysis/lang/en"
	"github.com/blevesearch/bleve/analysis/token/lowercase"
	"github.com/blevesearch/bleve/analysis/token/stop"
	"github.com/blevesearch/bleve/analysis/tokenizer/unicode"

	"questions/internal/domain"
)

// Bleve runs text through bleve's unicode word segmenter followed by a
// lowercase filter and the English stop-word filter.
type Bleve struct {
	tokenizer analysis.Tokenizer
	filters   []analysis.TokenFilter
	minLength int
}

// NewBleve builds the analysis chain. Terms shorter than minLength runes are
// dropped; minLength <= 1 keeps everything.
func NewBleve(minLength int) (*Bleve, error) {
	stopWords, err := englishStopWords()
	if err != nil {
		return nil, err
	}
	return &Bleve{
		tokenizer: unicode.NewUnicodeTokenizer(),
		filters: []analysis.TokenFilter{
			lowercase.NewLowerCaseFilter(),
			stop.NewStopTokensFilter(stopWords),
		},
		minLength: minLength,
	}, nil
}

// Name returns the identifier of this tokenizer implementation.
func (b *Bleve) Name() string { return "bleve" }

// Tokenize returns the terms of text in order.
func (b *Bleve) Tokenize(text string) domain.TokenSequence {
	stream := b.tokenizer.Tokenize([]byte(text))
	for _, f := range b.filters {
		stream = f.Filter(stream)
	}
	out := make(domain.TokenSequence, 0, len(stream))
	for _, tok := range stream {
		term := string(tok.Term)
		if !keep(term, b.minLength) {
			continue
		}
		out = append(out, term)
	}
	return out
}

// englishStopWords loads bleve's English stop-word list.
func englishStopWords() (analysis.TokenMap, error) {
	words := analysis.NewTokenMap()
	if err := words.LoadBytes(en.EnglishStopWords); err != nil {
		return nil, fmt.Errorf("load english stop words: %w", err)
	}
	return words, nil
}
