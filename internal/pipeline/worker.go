package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/juridica/jurigest/internal/analysis"
	"github.com/juridica/jurigest/internal/parser"
	"github.com/juridica/jurigest/internal/segmenter"
)

// Analyzer produces a structured analysis from a prompt. Satisfied by
// analysis.ClaudeClient.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (analysis.Analysis, error)
}

// Worker processes a single judgment job.
type Worker struct {
	analyzer      Analyzer
	stats         *analysis.Stats
	log           *slog.Logger
	seg           *segmenter.Segmenter
	summaryBudget int
}

func NewWorker(analyzer Analyzer, stats *analysis.Stats, log *slog.Logger, segCfg segmenter.Config, summaryBudget int) *Worker {
	return &Worker{
		analyzer:      analyzer,
		stats:         stats,
		log:           log,
		seg:           segmenter.New(segCfg),
		summaryBudget: summaryBudget,
	}
}

// Process runs the full judgment pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "docket_id", job.DocketID)

	// Phase 1: Extract text from the raw document.
	job.SetStatus(StatusExtracting, "extracting")
	text, err := parser.ExtractText(job.FileData(), job.Filename)
	if err != nil {
		var extErr *parser.ExtractionError
		if errors.As(err, &extErr) {
			log.Error("extraction failed", "kind", extErr.Kind, "error", err)
		} else {
			log.Error("extraction failed", "error", err)
		}
		job.AddError(fmt.Sprintf("extract: %s", err))
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	job.ContentHash = ContentHashHex([]byte(text))

	// Phase 2: Segment into introduction/considerations/resolution.
	// Segmentation always yields a structure; incompleteness only
	// surfaces as warnings.
	job.SetStatus(StatusSegmenting, "segmenting")
	st, meta := w.seg.Segment(text)
	job.setStructure(st, meta)
	for _, warn := range meta.Warnings {
		log.Warn("segmentation warning", "warning", warn)
	}
	log.Info("segmented judgment",
		"complete", meta.Complete,
		"introduction_len", len(st.Introduction),
		"considerations_len", len(st.Considerations),
		"resolution_len", len(st.Resolution),
		"other_sections", len(st.Other))

	digest := segmenter.BuildSummary(st, w.summaryBudget)
	job.setSummary(digest)

	// Phase 3: AI analysis over the budgeted digest.
	job.SetStatus(StatusAnalyzing, "analyzing")
	prompt := analysis.BuildPrompt(job.DocketID, job.Filename, digest)

	var result analysis.Analysis
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		start := time.Now()
		result, lastErr = w.analyzer.Analyze(ctx, prompt)
		w.stats.Record(time.Since(start), lastErr != nil)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		log.Warn("retryable analysis error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			lastErr = ctx.Err()
		}
		if ctx.Err() != nil {
			break
		}
	}

	if lastErr != nil {
		log.Error("analysis failed", "error", lastErr)
		job.AddError(fmt.Sprintf("analyze: %s", lastErr))
		job.SetStatus(StatusPartial, "analyzing")
		return
	}
	if !analysis.ValidateAnalysis(&result) {
		log.Error("analysis rejected by validation")
		job.AddError("analyze: response failed validation")
		job.SetStatus(StatusPartial, "analyzing")
		return
	}
	job.setResult(result)

	// Phase 4: Render the article HTML.
	job.SetStatus(StatusRendering, "rendering")
	article, err := RenderArticle(job.DocketID, result)
	if err != nil {
		log.Error("render failed", "error", err)
		job.AddError(fmt.Sprintf("render: %s", err))
		job.SetStatus(StatusPartial, "rendering")
		return
	}
	job.setArticle(article)

	if !meta.Complete {
		job.SetStatus(StatusPartial, "done")
		return
	}
	job.SetStatus(StatusCompleted, "done")
}
