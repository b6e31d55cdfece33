package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/juridica/jurigest/internal/parser"
	"github.com/juridica/jurigest/internal/pipeline"
	"github.com/juridica/jurigest/internal/relatoria"
)

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	docketID := r.FormValue("docket_id")
	if docketID == "" {
		docketID = strings.TrimSuffix(filename, filepath.Ext(filename))
	}

	s.submitJob(w, docketID, filename, data)
}

type remoteRequest struct {
	SentenceID string `json:"sentence_id"`
	Year       int    `json:"year"`
}

func (s *Server) handleRemote(w http.ResponseWriter, r *http.Request) {
	var req remoteRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	req.SentenceID = strings.TrimSpace(req.SentenceID)
	if req.SentenceID == "" {
		jsonError(w, "sentence_id is required", http.StatusBadRequest)
		return
	}
	if req.Year < 1992 || req.Year > time.Now().Year()+1 {
		jsonError(w, "year out of range", http.StatusBadRequest)
		return
	}

	url := s.relatoria.DocumentURL(req.SentenceID, req.Year)
	if !s.relatoria.Verify(r.Context(), url) {
		jsonError(w, fmt.Sprintf("document not available: %s", url), http.StatusBadGateway)
		return
	}
	data, err := s.relatoria.Fetch(r.Context(), url)
	if err != nil {
		jsonError(w, "fetch failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	filename := relatoria.NormalizeFilename(req.SentenceID) + ".rtf"
	s.submitJob(w, req.SentenceID, filename, data)
}

// submitJob queues a pipeline job and writes the accepted response.
func (s *Server) submitJob(w http.ResponseWriter, docketID, filename string, data []byte) {
	now := time.Now()
	job := &pipeline.Job{
		ID:        pipeline.NewJobID(),
		DocketID:  docketID,
		Status:    pipeline.StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.SetFileData(data)

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":    job.ID,
		"docket_id": job.DocketID,
		"status":    job.Status,
		"poll_url":  fmt.Sprintf("/api/judgments/%s/status", job.ID),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
