// Package corpus reads a directory of text files into a domain.Corpus.
package corpus

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/sync/errgroup"

	"questions/internal/apperrors"
	"questions/internal/domain"
	"questions/internal/logger"
)

const stageLoad = "loading"

// Loader reads the regular, non-hidden files directly inside a directory,
// optionally limited to a set of extensions. HTML files are reduced to their
// readable text.
type Loader struct {
	extensions map[string]struct{}
	workers    int
	logger     *slog.Logger
}

// NewLoader creates a loader accepting the given extensions, or every file
// when none are given, and reading up to workers files at once.
func NewLoader(extensions []string, workers int) *Loader {
	if workers <= 0 {
		workers = 1
	}
	var ext map[string]struct{}
	if len(extensions) > 0 {
		ext = make(map[string]struct{}, len(extensions))
	}
	for _, e := range extensions {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		ext[e] = struct{}{}
	}
	return &Loader{extensions: ext, workers: workers, logger: logger.WithComponent("corpus")}
}

// Load returns the corpus found in dir, keyed by file name. Any unreadable
// entry fails the whole load.
func (l *Loader) Load(ctx context.Context, dir string) (domain.Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCorpusRead, stageLoad, err, dir)
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || !e.Type().IsRegular() {
			continue
		}
		if !l.accepts(name) {
			l.logger.Debug("skipping file", "name", name)
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, apperrors.Newf(apperrors.ErrEmptyCollection, stageLoad, "no documents in %s", dir)
	}

	texts := make([]string, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, err := readDocument(filepath.Join(dir, name))
			if err != nil {
				return apperrors.Wrap(apperrors.ErrCorpusRead, stageLoad, err, name)
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	corpus := make(domain.Corpus, len(names))
	for i, name := range names {
		corpus[name] = texts[i]
	}
	l.logger.Debug("corpus loaded", "dir", dir, "documents", len(corpus))
	return corpus, nil
}

func (l *Loader) accepts(name string) bool {
	if l.extensions == nil {
		return true
	}
	_, ok := l.extensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return extractHTML(path, data)
	default:
		return string(data), nil
	}
}

func extractHTML(path string, data []byte) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	pageURL := &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err != nil {
		return "", fmt.Errorf("extract readable text: %w", err)
	}
	text := strings.TrimSpace(article.TextContent)
	if article.Title != "" && !strings.HasPrefix(text, article.Title) {
		text = article.Title + "\n" + text
	}
	return text, nil
}
