package segmenter

import (
	"regexp"
)

// Regexp splits each passage into sentences ending in '.', '!' or '?'.
// Every period is a boundary. Trailing text without a terminator is kept
// as a final sentence.
type Regexp struct {
	splitPassages bool
	splitter      *regexp.Regexp
}

func NewRegexp(splitPassages bool) *Regexp {
	return &Regexp{
		splitPassages: splitPassages,
		splitter:      regexp.MustCompile(`[^.!?]+[.!?]+["'”’)\]]*`),
	}
}

// Segment returns the trimmed, non-empty sentences of text in order.
func (r *Regexp) Segment(text string) []string {
	var sentences []string
	for _, p := range passages(text, r.splitPassages) {
		sentences = append(sentences, r.segmentPassage(p)...)
	}
	return sentences
}

func (r *Regexp) segmentPassage(passage string) []string {
	var out []string
	end := 0
	for _, loc := range r.splitter.FindAllStringIndex(passage, -1) {
		if sent := normalizeSpace(passage[loc[0]:loc[1]]); sent != "" {
			out = append(out, sent)
		}
		end = loc[1]
	}
	if rest := normalizeSpace(passage[end:]); rest != "" {
		out = append(out, rest)
	}
	return out
}
