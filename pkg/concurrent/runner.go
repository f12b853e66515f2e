// Package concurrent provides a bounded worker pool that fans independent
// items out to goroutines and gathers their results in input order.
package concurrent

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gofiber/fiber/v2/log"
)

// WorkerFunc processes one item. It may send progress messages; it returns
// the item's result or an error. index is the item's position in the input.
type WorkerFunc[T any, R any] func(ctx context.Context, index int, item T, messages chan<- string) (R, error)

// RunnerConfig configures the concurrent runner
type RunnerConfig struct {
	MaxConcurrency int    // 0 means unlimited concurrency
	LogPrefix      string // Prefix for log messages
}

// Runner encapsulates concurrent processing with channels and wait groups
type Runner[T any, R any] struct {
	config RunnerConfig
}

// NewRunner creates a new concurrent runner with the given configuration
func NewRunner[T any, R any](config RunnerConfig) *Runner[T, R] {
	if config.LogPrefix == "" {
		config.LogPrefix = "Runner"
	}
	return &Runner[T, R]{
		config: config,
	}
}

// ItemError is the failure of one item
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index+1, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// Indexed pairs a result with the position of its item
type Indexed[R any] struct {
	Index int
	Value R
}

// RunResult contains the results of a concurrent run, both ordered by item
// index
type RunResult[R any] struct {
	Results []Indexed[R]
	Errors  []*ItemError
}

// Run executes the worker function for each item concurrently. Items not yet
// started when ctx is cancelled fail with the context's error.
func (r *Runner[T, R]) Run(ctx context.Context, items []T, worker WorkerFunc[T, R]) RunResult[R] {
	var result RunResult[R]
	r.RunWithCallbacks(ctx, items, worker, nil,
		func(i int, v R) { result.Results = append(result.Results, Indexed[R]{Index: i, Value: v}) },
		func(err *ItemError) { result.Errors = append(result.Errors, err) },
	)

	sort.Slice(result.Results, func(i, j int) bool { return result.Results[i].Index < result.Results[j].Index })
	sort.Slice(result.Errors, func(i, j int) bool { return result.Errors[i].Index < result.Errors[j].Index })
	if result.Results == nil {
		result.Results = []Indexed[R]{}
	}
	if result.Errors == nil {
		result.Errors = []*ItemError{}
	}
	return result
}

// RunWithCallbacks is similar to Run but hands results to callbacks as they
// arrive. Callbacks are invoked from a single goroutine per kind and never
// concurrently with themselves.
func (r *Runner[T, R]) RunWithCallbacks(
	ctx context.Context,
	items []T,
	worker WorkerFunc[T, R],
	onMessage func(string),
	onResult func(int, R),
	onError func(*ItemError),
) {
	if len(items) == 0 {
		return
	}

	var messagesWG sync.WaitGroup

	// Messages channel for logging
	messages := make(chan string)
	messagesWG.Add(1)
	go func() {
		defer messagesWG.Done()
		for message := range messages {
			if onMessage != nil {
				onMessage(message)
			}
			r.logInfo(message)
		}
	}()

	// Results channel for successful completions
	results := make(chan Indexed[R])
	messagesWG.Add(1)
	go func() {
		defer messagesWG.Done()
		for result := range results {
			if onResult != nil {
				onResult(result.Index, result.Value)
			}
		}
	}()

	// Errors channel for failures
	errors := make(chan *ItemError)
	messagesWG.Add(1)
	go func() {
		defer messagesWG.Done()
		for err := range errors {
			if onError != nil {
				onError(err)
			}
		}
	}()

	// Worker wait group
	var workersWg sync.WaitGroup

	// Throttle channel for limiting concurrency (if configured)
	var throttle chan int
	if r.config.MaxConcurrency > 0 {
		throttle = make(chan int, r.config.MaxConcurrency)
	}

	// Process each item
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			workersWg.Add(1)
			go func(i int) {
				defer workersWg.Done()
				errors <- &ItemError{Index: i, Err: err}
			}(i)
			continue
		}

		workersWg.Add(1)

		// Acquire throttle slot if configured
		if throttle != nil {
			throttle <- 1
		}

		go func(i int, item T) {
			defer workersWg.Done()

			// Release throttle slot if configured
			if throttle != nil {
				defer func() { <-throttle }()
			}

			// Execute worker function
			v, err := worker(ctx, i, item, messages)
			if err != nil {
				errors <- &ItemError{Index: i, Err: err}
				return
			}
			results <- Indexed[R]{Index: i, Value: v}
		}(i, item)
	}

	// Wait for all workers to complete
	workersWg.Wait()

	// Close channels
	close(messages)
	close(results)
	close(errors)

	// Wait for all message handlers to complete
	messagesWG.Wait()
}

func (r *Runner[T, R]) logInfo(message string) {
	log.Debug(fmt.Sprintf("%s: %s", r.config.LogPrefix, message))
}
