package tokenizer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/blevesearch/bleve/analysis"

	"questions/internal/domain"
)

// Regexp extracts runs of letters and digits with a regular expression and
// drops the same English stop words as Bleve. It skips bleve's tokenizer and
// filter chain.
type Regexp struct {
	tokenPattern *regexp.Regexp
	stopwords    analysis.TokenMap
	minLength    int
}

// NewRegexp creates a regexp tokenizer.
func NewRegexp(minLength int) (*Regexp, error) {
	stopWords, err := englishStopWords()
	if err != nil {
		return nil, err
	}
	return &Regexp{
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}\p{N}]+)*`),
		stopwords:    stopWords,
		minLength:    minLength,
	}, nil
}

// Name returns the identifier of this tokenizer implementation.
func (r *Regexp) Name() string { return "regexp" }

// Tokenize returns the terms of text in order.
func (r *Regexp) Tokenize(text string) domain.TokenSequence {
	raw := r.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := make(domain.TokenSequence, 0, len(raw))
	for _, t := range raw {
		if r.stopwords[t] {
			continue
		}
		if !keep(t, r.minLength) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// New returns the tokenizer registered under name.
func New(name string, minLength int) (domain.Tokenizer, error) {
	switch name {
	case "bleve", "":
		return NewBleve(minLength)
	case "regexp":
		return NewRegexp(minLength)
	default:
		return nil, fmt.Errorf("unknown tokenizer: %s", name)
	}
}

func keep(term string, minLength int) bool {
	return term != "" && utf8.RuneCountInString(term) >= minLength
}
