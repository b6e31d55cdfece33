package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/juridica/jurigest/internal/analysis"
	"github.com/juridica/jurigest/internal/config"
	"github.com/juridica/jurigest/internal/pipeline"
)

type noopAnalyzer struct{}

func (noopAnalyzer) Analyze(ctx context.Context, prompt string) (analysis.Analysis, error) {
	return analysis.Analysis{}, nil
}

func newTestServer() *Server {
	cfg := config.Config{
		Port:                "0",
		APIKey:              "test-key",
		WorkerCount:         1,
		MaxQueueSize:        4,
		MaxUploadBytes:      1 << 20,
		IntroductionLimit:   2000,
		ConsiderationsLimit: 4000,
		SummaryBudget:       10000,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := pipeline.NewOrchestrator(cfg, noopAnalyzer{}, log)
	return NewServer(orch, nil, log, cfg)
}

func authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer test-key")
	return req
}

func TestHealth(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuth_MissingToken(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/segment", strings.NewReader(`{"text":"x"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_WrongToken(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/segment", strings.NewReader(`{"text":"x"}`))
	req.Header.Set("Authorization", "Bearer wrong")
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSegmentEndpoint(t *testing.T) {
	s := newTestServer()

	text := "LA CORTE CONSTITUCIONAL\nSala Plena\nExpediente T-100. " +
		strings.Repeat("El proceso fue repartido en debida forma. ", 5) +
		"\n\nI. ANTECEDENTES\n" +
		strings.Repeat("El accionante alegó la vulneración de sus derechos fundamentales. ", 9) +
		"\n\nEn mérito de lo expuesto, la Corte Constitucional,\nRESUELVE:\n" +
		"PRIMERO.- Conceder la tutela solicitada.\nSEGUNDO.- Notificar a las partes por Secretaría."

	body, _ := json.Marshal(map[string]string{"text": text})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPost, "/api/segment", bytes.NewReader(body))))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp segmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if !strings.Contains(resp.Structure.Resolution, "PRIMERO.- Conceder la tutela solicitada.") {
		t.Errorf("resolution missing order: %q", resp.Structure.Resolution)
	}
}

func TestSegmentEndpoint_EmptyText(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPost, "/api/segment", strings.NewReader(`{"text":"  "}`))))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSummaryEndpoint_DefaultBudget(t *testing.T) {
	s := newTestServer()
	body, _ := json.Marshal(map[string]any{"text": "Un texto breve de prueba para el generador de resumen presupuestado."})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPost, "/api/summary", bytes.NewReader(body))))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp summaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if resp.Budget != 10000 {
		t.Errorf("expected default budget 10000, got %d", resp.Budget)
	}
}

func TestStatusEndpoint_NotFound(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/judgments/nope/status", nil)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpload_UnsupportedType(t *testing.T) {
	s := newTestServer()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "sentencia.xlsx")
	fw.Write([]byte("not a judgment"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/judgments", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authed(req))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUpload_QueuesJob(t *testing.T) {
	s := newTestServer()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "t-100-26.txt")
	fw.Write([]byte(strings.Repeat("Texto de la sentencia de prueba. ", 10)))
	mw.WriteField("docket_id", "T-100/26")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/judgments", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authed(req))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	jobID, _ := resp["job_id"].(string)
	if jobID == "" {
		t.Fatal("expected job_id in response")
	}
	if resp["docket_id"] != "T-100/26" {
		t.Errorf("expected docket_id echo, got %v", resp["docket_id"])
	}

	// Workers were never started, so the job stays queued and is visible.
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/judgments/"+jobID+"/status", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"../../etc/passwd", "passwd"},
		{"sentencia.rtf", "sentencia.rtf"},
		{"", "unnamed"},
		{"a/b\\c.txt", "b_c.txt"},
	}
	for _, tc := range cases {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
