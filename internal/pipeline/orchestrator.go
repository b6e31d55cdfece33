package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/juridica/jurigest/internal/analysis"
	"github.com/juridica/jurigest/internal/config"
	"github.com/juridica/jurigest/internal/segmenter"
)

// Orchestrator manages the judgment processing pipeline.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	analyzer Analyzer
	stats    *analysis.Stats
	log      *slog.Logger
	cfg      config.Config
	segCfg   segmenter.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, analyzer Analyzer, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:     NewJobStore(cfg.JobTTL),
		queue:    make(chan *Job, cfg.MaxQueueSize),
		analyzer: analyzer,
		stats:    analysis.NewStats(1 * time.Hour),
		log:      log,
		cfg:      cfg,
		segCfg: segmenter.Config{
			IntroductionLimit:   cfg.IntroductionLimit,
			ConsiderationsLimit: cfg.ConsiderationsLimit,
		},
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.analyzer, o.stats, o.log, o.segCfg, o.cfg.SummaryBudget)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns analysis latency statistics for the stats endpoint.
func (o *Orchestrator) Stats() *analysis.Stats {
	return o.stats
}

// SegmenterConfig returns the section limits workers run with.
func (o *Orchestrator) SegmenterConfig() segmenter.Config {
	return o.segCfg
}
