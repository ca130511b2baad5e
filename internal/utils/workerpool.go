// Package utils holds small concurrency primitives used by the ingestion
// transport — adapted from the teacher's orphaned internal/worker.go
// (package server, imported by internal/net/server.go as
// "fenrir/internal/utils", a path nothing in that tree actually
// provided; moved here so the import resolves, see DESIGN.md).
package utils

import (
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const taskChanSize = 100

// WorkerFunction does one unit of work for a task pulled off the pool.
type WorkerFunction = func(t *tomb.Tomb, task any) error

// WorkerPool is a fixed-size pool of goroutines draining a shared task
// channel, supervised by a tomb.Tomb so the whole pool tears down
// cleanly when the tomb starts dying.
type WorkerPool struct {
	n     int
	tasks chan any
}

// NewWorkerPool returns a pool sized for n concurrent workers.
func NewWorkerPool(n int) WorkerPool {
	return WorkerPool{
		tasks: make(chan any, taskChanSize),
		n:     n,
	}
}

// AddTask enqueues task for the next free worker.
func (pool *WorkerPool) AddTask(task any) {
	pool.tasks <- task
}

// Setup starts n workers against t. A worker that returns an error is
// not restarted; every worker exits once t starts dying.
func (pool *WorkerPool) Setup(t *tomb.Tomb, work WorkerFunction) {
	log.Info().Int("workers", pool.n).Msg("starting worker pool")
	for i := 0; i < pool.n; i++ {
		t.Go(func() error {
			return pool.worker(t, work)
		})
	}
}

// worker waits on tasks until t dies, actioning each with work.
func (pool *WorkerPool) worker(t *tomb.Tomb, work WorkerFunction) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case task := <-pool.tasks:
			if err := work(t, task); err != nil {
				log.Error().Err(err).Msg("worker exiting")
				return err
			}
		}
	}
}
