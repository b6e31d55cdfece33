package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/juridica/jurigest/internal/analysis"
	"github.com/juridica/jurigest/internal/segmenter"
)

// stubAnalyzer returns a canned result or error without network access.
type stubAnalyzer struct {
	result analysis.Analysis
	err    error
	calls  int
}

func (s *stubAnalyzer) Analyze(ctx context.Context, prompt string) (analysis.Analysis, error) {
	s.calls++
	return s.result, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validResult() analysis.Analysis {
	return analysis.Analysis{
		Magistrate:   "Juan Pérez",
		Chamber:      "Sala Novena de Revisión",
		SentenceType: "T",
		Theme:        "Derecho fundamental a la salud",
		Summary: "La Corte Constitucional concedió el amparo solicitado tras concluir que " +
			"la negativa de la entidad accionada vulneró el derecho fundamental a la salud del accionante.",
		Decision: "Concede la tutela y ordena autorizar el procedimiento.",
	}
}

// buildJudgmentText assembles a sentencia long enough to pass the
// structural completeness thresholds.
func buildJudgmentText() string {
	pad := strings.Repeat("El expediente fue repartido conforme al reglamento interno de la corporación. ", 4)
	header := "REPÚBLICA DE COLOMBIA\nLA CORTE CONSTITUCIONAL\nSala Novena de Revisión\n" +
		"Magistrado Ponente: Juan Pérez\nExpediente T-1234567. " + pad
	consideraciones := "II. CONSIDERACIONES DE LA CORTE\n" +
		strings.Repeat("La jurisprudencia constitucional ha sostenido de manera reiterada que el derecho "+
			"a la salud es fundamental y autónomo, y que su garantía no puede supeditarse a trámites "+
			"administrativos que pongan en riesgo la vida del paciente. ", 3)
	fallo := "En mérito de lo expuesto, la Sala Novena de Revisión de la Corte Constitucional, " +
		"administrando justicia en nombre del pueblo y por mandato de la Constitución,\n" +
		"RESUELVE:\nPRIMERO.- Conceder la tutela del derecho fundamental a la salud.\n" +
		"SEGUNDO.- Ordenar a la entidad accionada autorizar el procedimiento.\n" +
		"TERCERO.- Notificar esta decisión por conducto de la Secretaría General."
	return header + "\n\n" + consideraciones + "\n\n" + fallo
}

func newTestJob(data []byte, filename string) *Job {
	return &Job{
		ID:        NewJobID(),
		DocketID:  "T-1234567",
		Status:    StatusQueued,
		Filename:  filename,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		fileData:  data,
	}
}

func TestWorker_ProcessCompleted(t *testing.T) {
	stub := &stubAnalyzer{result: validResult()}
	w := NewWorker(stub, analysis.NewStats(time.Hour), testLogger(), segmenter.DefaultConfig(), segmenter.DefaultSummaryBudget)

	job := newTestJob([]byte(buildJudgmentText()), "t-1234567.txt")
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected status %q, got %q (errors: %v, warnings: %v)",
			StatusCompleted, snap.Status, snap.Errors, snap.Warnings)
	}
	if !snap.StructureComplete {
		t.Error("expected complete structure")
	}
	if snap.Analysis == nil || snap.Analysis.Magistrate != "Juan Pérez" {
		t.Errorf("expected analysis in snapshot, got %+v", snap.Analysis)
	}
	if !strings.Contains(snap.ArticleHTML, "<article") {
		t.Errorf("expected rendered article, got %q", snap.ArticleHTML)
	}
	if job.Summary() == "" {
		t.Error("expected non-empty digest")
	}
	if stub.calls != 1 {
		t.Errorf("expected one analysis call, got %d", stub.calls)
	}

	st, _ := job.Structure()
	if !strings.Contains(st.Resolution, "PRIMERO.- Conceder la tutela") {
		t.Errorf("resolution missing first order: %q", st.Resolution)
	}
}

func TestWorker_ProcessExtractionTooShort(t *testing.T) {
	stub := &stubAnalyzer{result: validResult()}
	w := NewWorker(stub, analysis.NewStats(time.Hour), testLogger(), segmenter.DefaultConfig(), segmenter.DefaultSummaryBudget)

	job := newTestJob([]byte("muy corto"), "t-1.txt")
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("expected status %q, got %q", StatusFailed, snap.Status)
	}
	if len(snap.Errors) == 0 || !strings.Contains(snap.Errors[0], "extract") {
		t.Errorf("expected extraction error, got %v", snap.Errors)
	}
	if stub.calls != 0 {
		t.Errorf("expected no analysis calls after failed extraction, got %d", stub.calls)
	}
}

func TestWorker_ProcessAnalysisFailurePartial(t *testing.T) {
	stub := &stubAnalyzer{err: errors.New("model refused")}
	w := NewWorker(stub, analysis.NewStats(time.Hour), testLogger(), segmenter.DefaultConfig(), segmenter.DefaultSummaryBudget)

	job := newTestJob([]byte(buildJudgmentText()), "t-1234567.txt")
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusPartial {
		t.Fatalf("expected status %q, got %q", StatusPartial, snap.Status)
	}
	// The structure survives even when analysis fails.
	st, meta := job.Structure()
	if !meta.Complete {
		t.Error("expected complete structure despite analysis failure")
	}
	if st.Resolution == "" {
		t.Error("expected resolution section despite analysis failure")
	}
	// Non-retryable errors must not be retried.
	if stub.calls != 1 {
		t.Errorf("expected one analysis call, got %d", stub.calls)
	}
}

func TestWorker_ProcessInvalidAnalysisPartial(t *testing.T) {
	bad := validResult()
	bad.Summary = "demasiado corto"
	stub := &stubAnalyzer{result: bad}
	w := NewWorker(stub, analysis.NewStats(time.Hour), testLogger(), segmenter.DefaultConfig(), segmenter.DefaultSummaryBudget)

	job := newTestJob([]byte(buildJudgmentText()), "t-1234567.txt")
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusPartial {
		t.Fatalf("expected status %q, got %q", StatusPartial, snap.Status)
	}
}

func TestRenderArticle_EscapesMetadata(t *testing.T) {
	a := validResult()
	a.Theme = `Derechos <script>alert("x")</script>`
	html, err := RenderArticle("T-1", a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("metadata not escaped: %q", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("expected escaped script tag in %q", html)
	}
}

func TestRenderArticle_MarkdownSummary(t *testing.T) {
	a := validResult()
	a.Summary = "La Corte **concedió** el amparo solicitado por el accionante en sede de revisión."
	html, err := RenderArticle("T-1", a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "<strong>concedió</strong>") {
		t.Errorf("expected markdown rendering of resumen, got %q", html)
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(errors.New("plain")) {
		t.Error("plain error should not be retryable")
	}
	wrapped := &analysis.RetryableError{StatusCode: 429, Message: "rate limited"}
	if !IsRetryable(wrapped) {
		t.Error("RetryableError should be retryable")
	}
}

func TestBackoff_CapsAndGrows(t *testing.T) {
	for attempt := 0; attempt < 10; attempt++ {
		d := Backoff(attempt)
		if d < time.Second {
			t.Errorf("attempt %d: backoff %v below base", attempt, d)
		}
		if d > 45*time.Second {
			t.Errorf("attempt %d: backoff %v exceeds cap plus jitter", attempt, d)
		}
	}
}
