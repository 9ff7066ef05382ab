package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"questions/internal/apperrors"
	"questions/internal/config"
	"questions/internal/corpus"
	"questions/internal/logger"
	"questions/internal/metrics"
	"questions/internal/segmenter"
	"questions/internal/service"
	"questions/internal/tokenizer"
	"questions/internal/tui"
)

type options struct {
	cfgPath   string
	files     int
	sentences int
	query     string
	useTUI    bool
	verbose   bool
}

func main() {
	_ = godotenv.Load()

	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(apperrors.ExitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "questions corpus",
		Short: "Answer questions from a directory of text documents",
		Long: `Ranks the documents of a corpus directory against a question by TF-IDF,
then ranks the sentences of the best documents by IDF and query-term density
and prints the best sentences, one per line.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return apperrors.New(apperrors.ErrConfiguration, "", "Usage: questions corpus")
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.cfgPath, "config", "", "path to YAML config file (default ./questions.yaml or ~/.config/questions/config.yaml)")
	cmd.Flags().IntVarP(&opts.files, "files", "f", 0, "number of top documents to draw sentences from")
	cmd.Flags().IntVarP(&opts.sentences, "sentences", "n", 0, "number of sentences to print")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "answer this query instead of prompting")
	cmd.Flags().BoolVar(&opts.useTUI, "tui", false, "open the interactive terminal UI")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func run(cmd *cobra.Command, dir string, opts *options) error {
	var cfg *config.AppConfig
	var err error
	if opts.cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(opts.cfgPath)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.files > 0 {
		cfg.Ranking.FileMatches = opts.files
	}
	if opts.sentences > 0 {
		cfg.Ranking.SentenceMatches = opts.sentences
	}
	if opts.verbose {
		cfg.Logging.Level = "debug"
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.WithComponent("cli")
	log.Debug("configuration loaded", "config", cfg.String())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var recorder service.Recorder
	if cfg.Metrics.Enabled {
		m := metrics.New()
		shutdown := metrics.StartServer(cfg.Metrics.Addr, m)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(sctx)
		}()
		recorder = m
	}

	// Assemble components
	tok, err := tokenizer.New(cfg.Tokenizer.Type, cfg.Tokenizer.MinLength)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrConfiguration, "", err, "tokenizer")
	}
	seg, err := segmenter.New(cfg.Segmenter.Type, cfg.Segmenter.SplitPassages)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrConfiguration, "", err, "segmenter")
	}
	loader := corpus.NewLoader(cfg.Corpus.Extensions, cfg.Corpus.Workers)

	docs, err := loader.Load(ctx, dir)
	if err != nil {
		return err
	}
	svc := service.NewQAService(tok, seg, recorder, cfg.Corpus.Workers)
	if err := svc.Ingest(ctx, docs); err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	qopts := service.Options{
		FileMatches:     cfg.Ranking.FileMatches,
		SentenceMatches: cfg.Ranking.SentenceMatches,
	}

	if opts.useTUI {
		n, terms := svc.Stats()
		summary := fmt.Sprintf("%d documents, %d distinct terms in %s", n, terms, dir)
		_, err := tea.NewProgram(tui.New(ctx, svc, qopts, summary), tea.WithContext(ctx)).Run()
		return err
	}

	query := opts.query
	if query == "" {
		query, err = prompt(cmd)
		if err != nil {
			return err
		}
	}
	ans, err := svc.Ask(ctx, query, qopts)
	if err != nil {
		return err
	}
	for _, match := range ans.Matches() {
		fmt.Fprintln(cmd.OutOrStdout(), match)
	}
	return nil
}
