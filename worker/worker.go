package worker

import (
	"fmt"
	"runtime"

	"github.com/getsentry/sentry-go"
)

var workerQueue = make(chan func(), runtime.NumCPU()*4)

func init() {
	for i := 0; i < runtime.NumCPU(); i++ {
		go worker()
	}
}

func worker() {
	for {
		f, ok := <-workerQueue
		if !ok {
			return
		}
		run(f)
	}
}

func run(f func()) {
	hub := sentry.CurrentHub().Clone()
	defer func() {
		if v := recover(); v != nil {
			hub.Recover(fmt.Errorf("worker: %v", v))
		}
	}()
	f()
}

// Submit runs f on the worker pool. It never blocks: if every worker is busy and the queue is
// full, f runs on its own goroutine.
func Submit(f func()) {
	select {
	case workerQueue <- f:
	default:
		go run(f)
	}
}

// Result is the outcome of a job submitted with Go.
type Result[T any] struct {
	Value T
	Err   error
}

// Go runs f on the worker pool and delivers its outcome on the returned channel. The channel is
// buffered so the job never waits for the caller to poll it. A panic in f is reported to sentry
// and delivered as an error.
func Go[T any](f func() (T, error)) <-chan Result[T] {
	out := make(chan Result[T], 1)
	Submit(func() {
		delivered := false
		defer func() {
			if !delivered {
				out <- Result[T]{Err: fmt.Errorf("worker: job panicked")}
			}
		}()
		v, err := f()
		delivered = true
		out <- Result[T]{Value: v, Err: err}
	})
	return out
}
