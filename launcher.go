package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type RunFunc func(ctx context.Context, job Job) error

type JobResult struct {
	Job Job
	Err error
}

// Launcher runs every job on its own goroutine and waits for all of them.
// A failing job never stops the others.
type Launcher struct {
	run RunFunc
	log *zap.Logger
}

func NewLauncher(run RunFunc, log *zap.Logger) *Launcher {
	return &Launcher{run: run, log: log}
}

// Run blocks until every job has returned, however long that takes. Results
// are in job order.
func (l *Launcher) Run(ctx context.Context, jobs []Job) []JobResult {
	results := make([]JobResult, len(jobs))

	var g errgroup.Group
	for i, job := range jobs {
		g.Go(func() error {
			results[i] = JobResult{Job: job, Err: l.runOne(ctx, job)}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (l *Launcher) runOne(ctx context.Context, job Job) (err error) {
	log := jobLogger(l.log, job)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker panicked: %v", r)
		}
		if err != nil {
			log.Error("job failed", zap.Error(err))
			return
		}
		log.Info("job finished")
	}()

	log.Info("job started")
	return l.run(ctx, job)
}

func failedResults(results []JobResult) []JobResult {
	var failed []JobResult
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
