package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"questions/internal/apperrors"
	"questions/internal/domain"
	"questions/internal/logger"
	"questions/internal/ranking"
	"questions/internal/termstats"
)

// Recorder receives pipeline measurements.
type Recorder interface {
	ObserveStage(stage string, d time.Duration)
	ObserveQuery(outcome string)
	SetCorpus(documents, terms int)
	ObserveSentencePool(size int)
}

// Options are the per-query result counts.
type Options struct {
	FileMatches     int
	SentenceMatches int
}

// DefaultOptions returns one file and one sentence.
func DefaultOptions() Options {
	return Options{FileMatches: 1, SentenceMatches: 1}
}

// Answer is the outcome of one query session.
type Answer struct {
	SessionID string
	Terms     []string
	Files     []domain.ScoredDocument
	Sentences []domain.ScoredSentence
	// Unmatched lists query terms that occur in no document.
	Unmatched []string
}

// Matches returns the ranked sentence texts.
func (a *Answer) Matches() []string {
	return ranking.SentenceIDs(a.Sentences)
}

// index is the per-corpus state shared by all queries. It is never mutated
// after Ingest publishes it.
type index struct {
	corpus domain.Corpus
	files  domain.Units
	idfs   domain.IDFTable
}

type QAService struct {
	tokenizer domain.Tokenizer
	segmenter domain.Segmenter
	recorder  Recorder
	workers   int
	logger    *slog.Logger

	mu    sync.RWMutex
	index *index
}

func NewQAService(tokenizer domain.Tokenizer, segmenter domain.Segmenter, recorder Recorder, workers int) *QAService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if workers <= 0 {
		workers = 1
	}
	return &QAService{
		tokenizer: tokenizer,
		segmenter: segmenter,
		recorder:  recorder,
		workers:   workers,
		logger:    logger.WithComponent("service"),
	}
}

// Ingest tokenizes every document and computes the corpus-wide IDF table.
// Later queries all run against this corpus.
func (s *QAService) Ingest(ctx context.Context, corpus domain.Corpus) error {
	if len(corpus) == 0 {
		return apperrors.New(apperrors.ErrEmptyCollection, StageLoaded.String(), "corpus has no documents")
	}
	start := time.Now()
	ids := corpus.IDs()
	tokens := make([]domain.TokenSequence, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tokens[i] = s.tokenizer.Tokenize(corpus[id])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	files := make(domain.Units, len(ids))
	for i, id := range ids {
		files[id] = tokens[i]
	}
	s.recorder.ObserveStage(StageTokenized.String(), time.Since(start))

	idfs, err := termstats.ComputeIDF(files)
	if err != nil {
		return apperrors.WithStage(err, StageTokenized.String())
	}

	s.mu.Lock()
	s.index = &index{corpus: corpus, files: files, idfs: idfs}
	s.mu.Unlock()

	s.recorder.SetCorpus(len(files), len(idfs))
	s.logger.Debug("corpus ingested",
		"documents", len(files),
		"terms", len(idfs),
		"tokenizer", s.tokenizer.Name(),
		"elapsed", time.Since(start),
	)
	return nil
}

// Stats reports the size of the ingested corpus.
func (s *QAService) Stats() (documents, terms int) {
	idx := s.current()
	if idx == nil {
		return 0, 0
	}
	return len(idx.files), len(idx.idfs)
}

// Ask answers query against the ingested corpus. Each call is its own
// session with a fresh sentence-level IDF table and may run concurrently
// with other calls.
func (s *QAService) Ask(ctx context.Context, query string, opts Options) (*Answer, error) {
	sessionID := uuid.NewString()
	ctx = logger.WithSession(ctx, sessionID)
	log := logger.FromContext(ctx).With("component", "service")

	ans, err := s.ask(ctx, log, query, opts)
	if err != nil {
		s.recorder.ObserveQuery("failed")
		log.Debug("query failed", "stage", apperrors.StageOf(err), "error", err)
		return nil, err
	}
	ans.SessionID = sessionID
	s.recorder.ObserveQuery("answered")
	return ans, nil
}

func (s *QAService) ask(ctx context.Context, log *slog.Logger, query string, opts Options) (*Answer, error) {
	idx := s.current()
	if idx == nil {
		return nil, apperrors.New(apperrors.ErrEmptyCollection, StageLoaded.String(), "no corpus ingested")
	}
	if opts.FileMatches <= 0 || opts.SentenceMatches <= 0 {
		return nil, apperrors.Newf(apperrors.ErrInvalidArgument, StageLoaded.String(),
			"match counts must be positive, got files=%d sentences=%d", opts.FileMatches, opts.SentenceMatches)
	}

	start := time.Now()
	q := domain.NewQuery(s.tokenizer.Tokenize(query))
	terms := q.Terms()
	if len(terms) == 0 {
		log.Warn("query has no terms after normalization", "query", query)
	}
	unmatched := unmatchedTerms(terms, idx.idfs)
	if len(unmatched) > 0 {
		log.Warn("query terms not found in corpus", "terms", unmatched)
	}

	files, err := ranking.TopFiles(q, idx.files, idx.idfs, opts.FileMatches)
	if err != nil {
		return nil, apperrors.WithStage(err, StageDocumentsRanked.String())
	}
	s.recorder.ObserveStage(StageDocumentsRanked.String(), time.Since(start))
	log.Debug("documents ranked", "files", ranking.FileIDs(files))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stageStart := time.Now()
	sentences := s.sentencePool(idx.corpus, files)
	if len(sentences) == 0 {
		return nil, apperrors.New(apperrors.ErrEmptyCollection, StageSentencePoolBuilt.String(), "selected documents contain no sentences")
	}
	s.recorder.ObserveSentencePool(len(sentences))
	s.recorder.ObserveStage(StageSentencePoolBuilt.String(), time.Since(stageStart))
	log.Debug("sentence pool built", "sentences", len(sentences))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stageStart = time.Now()
	idfs, err := termstats.ComputeIDF(sentences)
	if err != nil {
		return nil, apperrors.WithStage(err, StageSentencesRanked.String())
	}
	ranked, err := ranking.TopSentences(q, sentences, idfs, opts.SentenceMatches)
	if err != nil {
		return nil, apperrors.WithStage(err, StageSentencesRanked.String())
	}
	s.recorder.ObserveStage(StageSentencesRanked.String(), time.Since(stageStart))
	s.recorder.ObserveStage(StageDone.String(), time.Since(start))
	log.Debug("query answered", "sentences", len(ranked), "elapsed", time.Since(start))

	return &Answer{
		Terms:     terms,
		Files:     files,
		Sentences: ranked,
		Unmatched: unmatched,
	}, nil
}

// sentencePool segments the selected documents and keeps every sentence
// that has at least one token. A sentence seen twice is kept once.
func (s *QAService) sentencePool(corpus domain.Corpus, files []domain.ScoredDocument) domain.Units {
	sentences := make(domain.Units)
	for _, f := range files {
		for _, sent := range s.segmenter.Segment(corpus[f.ID]) {
			if _, ok := sentences[sent]; ok {
				continue
			}
			tokens := s.tokenizer.Tokenize(sent)
			if len(tokens) == 0 {
				continue
			}
			sentences[sent] = tokens
		}
	}
	return sentences
}

func (s *QAService) current() *index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

func unmatchedTerms(terms []string, idfs domain.IDFTable) []string {
	var out []string
	for _, t := range terms {
		if _, ok := idfs.Lookup(t); !ok {
			out = append(out, t)
		}
	}
	return out
}

type nopRecorder struct{}

func (nopRecorder) ObserveStage(string, time.Duration) {}
func (nopRecorder) ObserveQuery(string)                {}
func (nopRecorder) SetCorpus(int, int)                 {}
func (nopRecorder) ObserveSentencePool(int)            {}
