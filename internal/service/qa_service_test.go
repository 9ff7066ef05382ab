package service

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"questions/internal/apperrors"
	"questions/internal/domain"
	"questions/internal/segmenter"
	"questions/internal/tokenizer"
)

type recordingRecorder struct {
	mu       sync.Mutex
	stages   []string
	outcomes []string
	docs     int
	terms    int
	pools    []int
}

func (r *recordingRecorder) ObserveStage(stage string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages = append(r.stages, stage)
}

func (r *recordingRecorder) ObserveQuery(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recordingRecorder) SetCorpus(documents, terms int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs, r.terms = documents, terms
}

func (r *recordingRecorder) ObserveSentencePool(size int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pools = append(r.pools, size)
}

func newTestService(t *testing.T, rec Recorder) *QAService {
	t.Helper()
	tok, err := tokenizer.NewBleve(1)
	require.NoError(t, err)
	seg, err := segmenter.NewPunkt(true)
	require.NoError(t, err)
	return NewQAService(tok, seg, rec, 2)
}

func languagesCorpus() domain.Corpus {
	return domain.Corpus{
		"python.txt": "Python is a programming language. Guido van Rossum created Python in 1991.\nPython emphasizes readability.",
		"go.txt":     "Go is a programming language designed at Google. Go has goroutines and channels.",
		"coffee.txt": "Coffee is a brewed drink.",
	}
}

// TestQAService_Ask tests the full pipeline on a small corpus
func TestQAService_Ask(t *testing.T) {
	rec := &recordingRecorder{}
	svc := newTestService(t, rec)
	require.NoError(t, svc.Ingest(context.Background(), languagesCorpus()))

	ans, err := svc.Ask(context.Background(), "Who created Python?", DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"created", "python"}, ans.Terms)
	require.Len(t, ans.Files, 1)
	assert.Equal(t, "python.txt", ans.Files[0].ID)
	assert.InDelta(t, 4*math.Log(3), ans.Files[0].Score, 1e-9)
	assert.Equal(t, []string{"Guido van Rossum created Python in 1991."}, ans.Matches())
	assert.Empty(t, ans.Unmatched)
	assert.NotEmpty(t, ans.SessionID)

	assert.Equal(t, 3, rec.docs)
	assert.Equal(t, []string{"answered"}, rec.outcomes)
	assert.Equal(t, []int{3}, rec.pools)
	assert.Equal(t, []string{
		"tokenized", "documents_ranked", "sentence_pool_built", "sentences_ranked", "done",
	}, rec.stages)
}

// TestQAService_ExampleCorpus tests the cat corpus with two files and sentences
func TestQAService_ExampleCorpus(t *testing.T) {
	svc := newTestService(t, nil)
	require.NoError(t, svc.Ingest(context.Background(), domain.Corpus{
		"A": "the cat sat",
		"B": "the cat ran fast",
		"C": "a dog barked",
	}))

	ans, err := svc.Ask(context.Background(), "cat", Options{FileMatches: 2, SentenceMatches: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, []string{ans.Files[0].ID, ans.Files[1].ID})
	assert.InDelta(t, math.Log(1.5), ans.Files[0].Score, 1e-9)
	// both sentences have cat (idf 0 over two sentences); density decides
	assert.Equal(t, []string{"the cat sat", "the cat ran fast"}, ans.Matches())
}

// TestQAService_Unmatched tests reporting of query terms absent from the corpus
func TestQAService_Unmatched(t *testing.T) {
	svc := newTestService(t, nil)
	require.NoError(t, svc.Ingest(context.Background(), languagesCorpus()))

	ans, err := svc.Ask(context.Background(), "goroutines zebra", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"zebra"}, ans.Unmatched)
	assert.Equal(t, "go.txt", ans.Files[0].ID)
	assert.Equal(t, []string{"Go has goroutines and channels."}, ans.Matches())
}

// TestQAService_StopWordQuery tests that a query with no terms still answers deterministically
func TestQAService_StopWordQuery(t *testing.T) {
	svc := newTestService(t, nil)
	require.NoError(t, svc.Ingest(context.Background(), languagesCorpus()))

	ans, err := svc.Ask(context.Background(), "what is the", DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, ans.Terms)
	assert.Equal(t, "coffee.txt", ans.Files[0].ID)
	assert.Equal(t, []string{"Coffee is a brewed drink."}, ans.Matches())
}

// TestQAService_DuplicateSentences tests that repeated sentences form one unit
func TestQAService_DuplicateSentences(t *testing.T) {
	svc := newTestService(t, nil)
	require.NoError(t, svc.Ingest(context.Background(), domain.Corpus{
		"pets.txt": "Cats purr. Cats purr. Dogs bark.",
		"misc.txt": "Nothing here.",
	}))

	ans, err := svc.Ask(context.Background(), "cats", Options{FileMatches: 1, SentenceMatches: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cats purr.", "Dogs bark."}, ans.Matches())
}

// TestQAService_NoSentences tests a selected document without usable sentences
func TestQAService_NoSentences(t *testing.T) {
	rec := &recordingRecorder{}
	svc := newTestService(t, rec)
	require.NoError(t, svc.Ingest(context.Background(), domain.Corpus{"a.txt": "The the. Of and!"}))

	_, err := svc.Ask(context.Background(), "anything", DefaultOptions())
	assert.ErrorIs(t, err, apperrors.ErrEmptyCollection)
	assert.Equal(t, "sentence_pool_built", apperrors.StageOf(err))
	assert.Equal(t, []string{"failed"}, rec.outcomes)
}

// TestQAService_SkipsEmptySentences tests that stop-word-only sentences stay out of the pool
func TestQAService_SkipsEmptySentences(t *testing.T) {
	rec := &recordingRecorder{}
	svc := newTestService(t, rec)
	require.NoError(t, svc.Ingest(context.Background(), domain.Corpus{"a.txt": "The the. Cats purr."}))

	ans, err := svc.Ask(context.Background(), "cats", Options{FileMatches: 1, SentenceMatches: 5})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, rec.pools)
	assert.Equal(t, []string{"Cats purr."}, ans.Matches())
}

// TestQAService_AbbreviationsAndDecimals tests that answers are whole sentences
func TestQAService_AbbreviationsAndDecimals(t *testing.T) {
	svc := newTestService(t, nil)
	require.NoError(t, svc.Ingest(context.Background(), domain.Corpus{
		"py.txt":  "Python 3.9 was released by Dr. Smith in October. It added dictionary merge operators.",
		"cat.txt": "Cats sleep.",
	}))

	ans, err := svc.Ask(context.Background(), "When was Python 3.9 released?", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Python 3.9 was released by Dr. Smith in October."}, ans.Matches())
}

// TestQAService_Errors tests failures before any ranking happens
func TestQAService_Errors(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Ask(context.Background(), "python", DefaultOptions())
	assert.ErrorIs(t, err, apperrors.ErrEmptyCollection)

	err = svc.Ingest(context.Background(), domain.Corpus{})
	assert.ErrorIs(t, err, apperrors.ErrEmptyCollection)

	require.NoError(t, svc.Ingest(context.Background(), languagesCorpus()))
	_, err = svc.Ask(context.Background(), "python", Options{FileMatches: 1, SentenceMatches: 0})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Ask(ctx, "python", DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

// TestQAService_Stats tests corpus statistics after ingest
func TestQAService_Stats(t *testing.T) {
	svc := newTestService(t, nil)
	docs, terms := svc.Stats()
	assert.Zero(t, docs)
	assert.Zero(t, terms)

	require.NoError(t, svc.Ingest(context.Background(), languagesCorpus()))
	docs, terms = svc.Stats()
	assert.Equal(t, 3, docs)
	assert.Greater(t, terms, 10)
}

// TestQAService_ConcurrentAsk tests that parallel queries share the corpus safely
func TestQAService_ConcurrentAsk(t *testing.T) {
	svc := newTestService(t, &recordingRecorder{})
	require.NoError(t, svc.Ingest(context.Background(), languagesCorpus()))

	queries := []string{"Who created Python?", "goroutines", "brewed drink"}
	want := []string{
		"Guido van Rossum created Python in 1991.",
		"Go has goroutines and channels.",
		"Coffee is a brewed drink.",
	}
	var g errgroup.Group
	for i := 0; i < 30; i++ {
		i := i
		g.Go(func() error {
			ans, err := svc.Ask(context.Background(), queries[i%3], DefaultOptions())
			if err != nil {
				return err
			}
			assert.Equal(t, []string{want[i%3]}, ans.Matches())
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "loaded", StageLoaded.String())
	assert.Equal(t, "done", StageDone.String())
	assert.Equal(t, "unknown", Stage(42).String())
}
