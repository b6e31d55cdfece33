package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/juridica/jurigest/internal/analysis"
	"github.com/juridica/jurigest/internal/segmenter"
)

// JobStatus represents the state of a judgment processing job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusExtracting JobStatus = "extracting"
	StatusSegmenting JobStatus = "segmenting"
	StatusAnalyzing  JobStatus = "analyzing"
	StatusRendering  JobStatus = "rendering"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
)

// Job tracks the state of a single judgment through the pipeline.
type Job struct {
	mu sync.Mutex

	ID       string `json:"job_id"`
	DocketID string `json:"docket_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData  []byte
	structure segmenter.DocumentStructure
	meta      segmenter.Metadata
	summary   string
	result    analysis.Analysis
	article   string
	errors    []string
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw document bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw document bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

func (j *Job) setStructure(st segmenter.DocumentStructure, meta segmenter.Metadata) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.structure = st
	j.meta = meta
	j.UpdatedAt = time.Now()
}

func (j *Job) setSummary(s string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.summary = s
	j.UpdatedAt = time.Now()
}

func (j *Job) setResult(a analysis.Analysis) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = a
	j.UpdatedAt = time.Now()
}

func (j *Job) setArticle(html string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.article = html
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	DocketID string    `json:"docket_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	StructureComplete bool     `json:"structure_complete"`
	Warnings          []string `json:"warnings"`
	Errors            []string `json:"errors"`

	Analysis    *analysis.Analysis `json:"analysis,omitempty"`
	ArticleHTML string             `json:"article_html,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	warnings := j.meta.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	errs := j.errors
	if errs == nil {
		errs = []string{}
	}

	snap := JobSnapshot{
		ID:                j.ID,
		DocketID:          j.DocketID,
		Status:            j.Status,
		Phase:             j.Phase,
		Filename:          j.Filename,
		StructureComplete: j.meta.Complete,
		Warnings:          warnings,
		Errors:            errs,
	}
	if j.Status == StatusCompleted || j.Status == StatusPartial {
		a := j.result
		snap.Analysis = &a
		snap.ArticleHTML = j.article
	}
	return snap
}

// Structure returns the segmented judgment sections.
func (j *Job) Structure() (segmenter.DocumentStructure, segmenter.Metadata) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.structure, j.meta
}

// Summary returns the budgeted digest built from the structure.
func (j *Job) Summary() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.summary
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
