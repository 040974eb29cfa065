package stitch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"spread-stitcher/internal/config"
)

// JobError records one failed job without interrupting its siblings.
type JobError struct {
	Job Job
	Err error
}

func (e JobError) Error() string {
	return fmt.Sprintf("job %s: %v", e.Job.Name, e.Err)
}

// BatchSummary reports the outcome of a batch run.
type BatchSummary struct {
	Total     int
	Succeeded int
	Failures  []JobError
}

// RunBatch processes the jobs on a worker pool. Spreads share no mutable
// state, so jobs run fully independently: a failed job is logged and
// recorded, never allowed to block or corrupt the rest of the queue.
// Cancelling the context stops dequeuing; in-flight jobs finish.
func RunBatch(ctx context.Context, jobs []Job, cfg config.Config) (BatchSummary, error) {
	pipeline, err := NewPipeline(cfg)
	if err != nil {
		return BatchSummary{}, err
	}
	defer pipeline.Close()

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	queue := make(chan Job)
	var mu sync.Mutex
	summary := BatchSummary{Total: len(jobs)}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				start := time.Now()
				result, err := pipeline.Process(job)
				elapsed := time.Since(start)
				mu.Lock()
				if err != nil {
					summary.Failures = append(summary.Failures, JobError{Job: job, Err: err})
					mu.Unlock()
					slog.Error("spread failed", "job", job.Name, "error", err)
					continue
				}
				summary.Succeeded++
				mu.Unlock()
				slog.Info("spread written",
					"job", job.Name,
					"output", result.Job.OutputPath,
					"right_angle", result.RightAngle,
					"left_angle", result.LeftAngle,
					"elapsed", elapsed)
			}
		}()
	}

enqueue:
	for _, job := range jobs {
		select {
		case <-ctx.Done():
			break enqueue
		case queue <- job:
		}
	}
	close(queue)
	wg.Wait()

	return summary, ctx.Err()
}

// PairsFromRange expands an inclusive page-number range into (right, left)
// pairs following the books' right-to-left convention: the odd-numbered
// scan is the right page, the following even number the left.
func PairsFromRange(first, last int) [][2]int {
	if first%2 == 0 {
		first++
	}
	var pairs [][2]int
	for p := first; p+1 <= last; p += 2 {
		pairs = append(pairs, [2]int{p, p + 1})
	}
	return pairs
}

// PairJobs maps page-number pairs onto files. pattern is a Sprintf pattern
// with one %d for the page number, e.g. "page%d.png".
func PairJobs(inputDir, pattern string, pairs [][2]int, outputDir string) []Job {
	jobs := make([]Job, 0, len(pairs))
	for _, pair := range pairs {
		right, left := pair[0], pair[1]
		jobs = append(jobs, Job{
			Name:       fmt.Sprintf("spread_%d_%d", right, left),
			RightPath:  filepath.Join(inputDir, fmt.Sprintf(pattern, right)),
			LeftPath:   filepath.Join(inputDir, fmt.Sprintf(pattern, left)),
			OutputPath: filepath.Join(outputDir, fmt.Sprintf("spread_%d_%d.png", right, left)),
		})
	}
	return jobs
}
