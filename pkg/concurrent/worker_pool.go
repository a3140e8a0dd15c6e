package concurrent

import (
	"sort"
	"sync"

	"github.com/lintang-b-s/dronedelivery/pkg/util"
)

type Job[T any] struct {
	ID      int
	Payload T
}

type Result[G any] struct {
	ID    int
	Value G
	Err   error
}

type JobFunc[T any, G any] func(job T) (G, error)

type WorkerPool[T any, G any] struct {
	numWorkers int
	jobQueue   chan Job[T]
	results    chan Result[G]
	wg         sync.WaitGroup
}

func NewWorkerPool[T any, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan Job[T], jobQueueSize),
		results:    make(chan Result[G], jobQueueSize),
	}
}

func (wp *WorkerPool[T, G]) worker(jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		val, err := jobFunc(job.Payload)
		wp.results <- Result[G]{ID: job.ID, Value: val, Err: err}
	}
}

func (wp *WorkerPool[T, G]) Start(jobFunc JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(jobFunc)
	}
}

func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) AddJob(id int, payload T) {
	wp.jobQueue <- Job[T]{ID: id, Payload: payload}
}

func (wp *WorkerPool[T, G]) CollectResults() chan Result[G] {
	return wp.results
}

func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}

// RunAll runs jobFunc over payloads on numWorkers goroutines and returns the results in payload order.
func RunAll[T any, G any](numWorkers int, payloads []T, jobFunc JobFunc[T, G]) []Result[G] {
	wp := NewWorkerPool[T, G](util.MinInt(numWorkers, len(payloads)), len(payloads))
	wp.Start(jobFunc)
	for i, p := range payloads {
		wp.AddJob(i, p)
	}
	wp.Close()
	wp.Wait()

	results := make([]Result[G], 0, len(payloads))
	for res := range wp.CollectResults() {
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})
	return results
}
