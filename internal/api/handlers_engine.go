package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/juridica/jurigest/internal/segmenter"
)

// maxEngineInput bounds the synchronous endpoints; larger documents
// should go through the async upload flow.
const maxEngineInput = 10 << 20

type segmentRequest struct {
	Text string `json:"text"`
}

type segmentResponse struct {
	Structure segmenter.DocumentStructure `json:"structure"`
	Metadata  segmenter.Metadata          `json:"metadata"`
}

// handleSegment runs the segmentation engine synchronously for callers
// that already hold plain text.
func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	var req segmentRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxEngineInput)).Decode(&req); err != nil {
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}

	seg := segmenter.New(s.orchestrator.SegmenterConfig())
	st, meta := seg.Segment(req.Text)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(segmentResponse{Structure: st, Metadata: meta})
}

type summaryRequest struct {
	Text   string `json:"text"`
	Budget int    `json:"budget"`
}

type summaryResponse struct {
	Summary  string             `json:"summary"`
	Budget   int                `json:"budget"`
	Metadata segmenter.Metadata `json:"metadata"`
}

// handleSummary segments the text and returns the budgeted digest.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxEngineInput)).Decode(&req); err != nil {
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}
	budget := req.Budget
	if budget <= 0 {
		budget = s.cfg.SummaryBudget
	}

	seg := segmenter.New(s.orchestrator.SegmenterConfig())
	st, meta := seg.Segment(req.Text)
	digest := segmenter.BuildSummary(st, budget)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaryResponse{Summary: digest, Budget: budget, Metadata: meta})
}
