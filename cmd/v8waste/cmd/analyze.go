package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/v8waste/internal/formatter"
	"github.com/v8waste/internal/repository"
	"github.com/v8waste/internal/storage"
	"github.com/v8waste/internal/v8heap"
	"github.com/v8waste/pkg/compression"
	"github.com/v8waste/pkg/config"
	apperrors "github.com/v8waste/pkg/errors"
)

var cliTracer = otel.Tracer("v8waste-cli")

const (
	exitOK             = 0
	exitParseFatal     = 1
	exitIOError        = 2
	exitInternalError  = 3
)

var (
	analyzeInput                = ""
	analyzeOutput                = ""
	analyzeFormat                = "text"
	analyzeTopK                  int
	analyzeIncludeHiddenClasses  bool
	analyzeMaxRefinementRounds   int
	analyzeMaxRetentionPaths     int
	analyzeArchiveKey            string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a V8 heap snapshot for duplicate-object and hidden-class waste",
	RunE:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeInput, "input", "i", "", "Input V8 heap snapshot file (required)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Output file for the report (defaults to stdout)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "text", "Report format: text or structured")
	analyzeCmd.Flags().IntVar(&analyzeTopK, "top-k", 0, "Number of top duplicate/hidden-class groups to report (0 = use config default)")
	analyzeCmd.Flags().BoolVar(&analyzeIncludeHiddenClasses, "include-hidden-classes", false, "Include hidden and object-shape kind nodes in the duplicate-group report")
	analyzeCmd.Flags().IntVar(&analyzeMaxRefinementRounds, "max-refinement-rounds", 0, "Bound on color-refinement rounds (0 = use config default)")
	analyzeCmd.Flags().IntVar(&analyzeMaxRetentionPaths, "max-retention-paths", 0, "Max retention paths per duplicate-group representative (0 = use config default)")
	analyzeCmd.Flags().StringVar(&analyzeArchiveKey, "archive", "", "If set, also upload the rendered report to the configured storage backend under this key")

	analyzeCmd.MarkFlagRequired("input")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	c := GetConfig()
	ctx := cmd.Context()

	opts := c.Analysis.ToAnalysisOptions()
	if analyzeTopK > 0 {
		opts.TopK = analyzeTopK
	}
	if analyzeIncludeHiddenClasses {
		opts.IncludeHiddenClasses = true
	}
	if analyzeMaxRefinementRounds > 0 {
		opts.MaxRefinementRounds = analyzeMaxRefinementRounds
	}
	if analyzeMaxRetentionPaths > 0 {
		opts.MaxRetentionPaths = analyzeMaxRetentionPaths
	}

	raw, err := os.ReadFile(analyzeInput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read input: %v\n", err)
		os.Exit(exitIOError)
	}

	var runRepo repository.AnalysisRunRepository
	var runID int64
	if repos, err := openRepositories(c); err == nil && repos != nil {
		defer repos.Close()
		runRepo = repos.Runs
		run, err := runRepo.CreateRunning(ctx, analyzeInput, int64(len(raw)))
		if err != nil {
			log.Warn("failed to record run start: %v", err)
		} else {
			runID = run.ID
		}
	}

	snapshot := raw
	if !looksLikeJSON(raw) {
		decompressed, derr := compression.AutoDecompress(raw)
		if derr != nil {
			recordFailure(ctx, runRepo, runID, derr.Error())
			fmt.Fprintf(os.Stderr, "failed to decompress input: %v\n", derr)
			os.Exit(exitIOError)
		}
		snapshot = decompressed
	}

	log.Info("parsing snapshot (%d bytes)...", len(snapshot))
	start := time.Now()

	_, parseSpan := cliTracer.Start(ctx, "parse")
	g, err := v8heap.Parse(bytes.NewReader(snapshot), v8heap.ParserOptions{}, log)
	parseSpan.End()
	if err != nil {
		recordFailure(ctx, runRepo, runID, err.Error())
		return exitForError(err)
	}
	log.Info("parsed %d nodes, %d edges in %s", g.NodeCount(), g.EdgeCount(), time.Since(start))

	rep, err := v8heap.Analyze(ctx, g, opts, log)
	if err != nil {
		recordFailure(ctx, runRepo, runID, err.Error())
		return exitForError(err)
	}

	if runRepo != nil && runID != 0 {
		if err := runRepo.CompleteSuccess(ctx, runID, rep, int64(g.NodeCount()), int64(g.EdgeCount())); err != nil {
			log.Warn("failed to record run completion: %v", err)
		}
	}

	rendered, err := formatter.ByName(analyzeFormat).Format(rep)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to render report: %v\n", err)
		os.Exit(exitInternalError)
	}

	if analyzeOutput == "" {
		fmt.Println(rendered)
	} else {
		if err := os.WriteFile(analyzeOutput, []byte(rendered), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write output: %v\n", err)
			os.Exit(exitIOError)
		}
	}

	if analyzeArchiveKey != "" {
		if err := archiveReport(ctx, c, analyzeArchiveKey, rendered); err != nil {
			log.Warn("failed to archive report: %v", err)
		}
	}

	return nil
}

func looksLikeJSON(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func openRepositories(c *config.Config) (*repository.Repositories, error) {
	if c.Database.Type == "" {
		return nil, nil
	}

	db, err := repository.NewGormDB(&repository.DBConfig{
		Type:     c.Database.Type,
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		Database: c.Database.Database,
		User:     c.Database.User,
		Password: c.Database.Password,
		MaxConns: c.Database.MaxConns,
	})
	if err != nil {
		return nil, err
	}

	return repository.NewRepositories(db), nil
}

func recordFailure(ctx context.Context, repo repository.AnalysisRunRepository, runID int64, msg string) {
	if repo == nil || runID == 0 {
		return
	}
	_ = repo.CompleteFailure(ctx, runID, msg)
}

func archiveReport(ctx context.Context, c *config.Config, key, rendered string) error {
	store, err := storage.NewStorage(&c.Storage)
	if err != nil {
		return err
	}
	return store.Upload(ctx, key, bytes.NewReader([]byte(rendered)))
}

// exitForError maps a core error to the CLI's exit-code contract (spec.md
// §8: 0 success, 1 parse-fatal, 2 I/O error, 3 internal invariant
// violation) before returning a plain error for cobra to print.
func exitForError(err error) error {
	code := apperrors.GetErrorCode(err)
	switch code {
	case v8heap.CodeInputMalformed, v8heap.CodeSchemaMismatch, v8heap.CodeDanglingEdge:
		fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
		os.Exit(exitParseFatal)
	case v8heap.CodeIoFailure:
		fmt.Fprintf(os.Stderr, "I/O error: %v\n", err)
		os.Exit(exitIOError)
	default:
		fmt.Fprintf(os.Stderr, "internal error: %v\n", err)
		os.Exit(exitInternalError)
	}
	return nil
}
