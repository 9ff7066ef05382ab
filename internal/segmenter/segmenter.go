// Package segmenter splits documents into sentences.
package segmenter

import (
	"fmt"
	"strings"

	"questions/internal/domain"
)

// New returns the segmenter registered under name. The default is the
// Punkt segmenter with English training data.
func New(name string, splitPassages bool) (domain.Segmenter, error) {
	switch name {
	case "punkt", "":
		return NewPunkt(splitPassages)
	case "regexp":
		return NewRegexp(splitPassages), nil
	default:
		return nil, fmt.Errorf("unknown segmenter: %s", name)
	}
}

// passages splits text on newlines when split is set.
func passages(text string, split bool) []string {
	if !split {
		return []string{text}
	}
	return strings.Split(text, "\n")
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
