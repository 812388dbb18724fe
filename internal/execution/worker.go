package execution

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"shoptest/internal/config"
	"shoptest/internal/domain"
	"shoptest/internal/parser"
	"shoptest/internal/ui"
)

var _ Executor = (*WorkerPool)(nil)

// WorkerPool manages a pool of workers for parallel job execution
type WorkerPool struct {
	config   *config.Config
	runner   *Runner
	progress *ui.ProgressBar
	parser   parser.Parser
	log      *zap.Logger
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(cfg *config.Config, runner *Runner, p parser.Parser, log *zap.Logger) *WorkerPool {
	return &WorkerPool{
		config: cfg,
		runner: runner,
		parser: p,
		log:    log,
	}
}

// SetProgress sets the progress bar for the worker pool
func (wp *WorkerPool) SetProgress(progress *ui.ProgressBar) {
	wp.progress = progress
}

// Execute runs all jobs in parallel (no fail-fast).
func (wp *WorkerPool) Execute(ctx context.Context, jobs []domain.Job) ([]domain.WorkerResult, time.Duration, error) {
	return wp.ExecuteWithOptions(ctx, jobs, false)
}

// ExecuteWithOptions runs jobs with optional fail-fast: after the first
// failed job, queued jobs are dropped and running ones are killed.
func (wp *WorkerPool) ExecuteWithOptions(ctx context.Context, jobs []domain.Job, failFast bool) ([]domain.WorkerResult, time.Duration, error) {
	if len(jobs) == 0 {
		return nil, 0, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobQueue := make(chan domain.Job)
	results := make(chan domain.WorkerResult, len(jobs))

	go func() {
		defer close(jobQueue)
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				return
			case jobQueue <- job:
			}
		}
	}()

	var mu sync.Mutex
	var completedJobs int
	var passedCases, failedCases int
	var seenFailure bool
	startTime := time.Now()
	workerCount := wp.config.Processors
	if workerCount <= 0 {
		workerCount = 1
	}
	if workerCount > len(jobs) {
		workerCount = len(jobs)
	}

	var wg sync.WaitGroup
	for i := 1; i <= workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobQueue {
				result := wp.runner.Run(ctx, job)
				result.Passed, result.Failed = wp.parser.ParseTestCounts(result)

				mu.Lock()
				if failFast && seenFailure {
					// killed by cancel, not a result of its own
					mu.Unlock()
					continue
				}
				completedJobs++
				passedCases += result.Passed
				failedCases += result.Failed
				if wp.progress != nil {
					wp.progress.Update(completedJobs, passedCases, failedCases)
				}
				if failFast && !result.Success {
					seenFailure = true
					cancel()
				}
				mu.Unlock()

				wp.log.Debug("job finished",
					zap.Int("worker", workerID),
					zap.String("job", result.Job),
					zap.Bool("success", result.Success),
					zap.Int("passed", result.Passed),
					zap.Int("failed", result.Failed),
					zap.Duration("duration", result.Duration),
				)
				results <- result
			}
		}(i)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var allResults []domain.WorkerResult
	for result := range results {
		allResults = append(allResults, result)
	}
	if wp.progress != nil {
		wp.progress.Finish()
	}
	return allResults, time.Since(startTime), nil
}
