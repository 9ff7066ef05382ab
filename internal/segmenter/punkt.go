package segmenter

import (
	"fmt"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Punkt finds sentence boundaries with the Punkt algorithm trained on
// English text, so abbreviations ("Dr.", "e.g.") and decimals ("3.9") do
// not end a sentence.
type Punkt struct {
	splitPassages bool
	tokenizer     *sentences.DefaultSentenceTokenizer
}

func NewPunkt(splitPassages bool) (*Punkt, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load punkt training data: %w", err)
	}
	return &Punkt{splitPassages: splitPassages, tokenizer: tok}, nil
}

// Segment returns the trimmed, non-empty sentences of text in order.
func (p *Punkt) Segment(text string) []string {
	var out []string
	for _, passage := range passages(text, p.splitPassages) {
		for _, s := range p.tokenizer.Tokenize(passage) {
			if sent := normalizeSpace(s.Text); sent != "" {
				out = append(out, sent)
			}
		}
	}
	return out
}
