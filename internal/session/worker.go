package session

import (
	"errors"
	"sync"

	"github.com/phravins/notepane/internal/debug"
)

// ErrWorkerClosed is delivered for operations submitted after Close.
var ErrWorkerClosed = errors.New("session worker closed")

// Op is one unit of work applied to the session.
type Op func(s *Session) error

// Result is what a submitted Op produced.
type Result struct {
	Snapshot Snapshot
	Err      error
}

type job struct {
	op     Op
	result chan Result
}

// Worker applies operations to a session one at a time, in the order they
// were submitted. A read never starts before the preceding flush finished,
// and a running operation is never interrupted by the next one.
type Worker struct {
	session *Session
	jobs    chan job
	done    chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewWorker starts the worker goroutine. queue bounds the number of pending
// operations; Submit blocks once it is full.
func NewWorker(s *Session, queue int) *Worker {
	if queue <= 0 {
		queue = 64
	}
	w := &Worker{
		session: s,
		jobs:    make(chan job, queue),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *Worker) run() {
	defer close(w.done)
	for j := range w.jobs {
		err := j.op(w.session)
		j.result <- Result{Snapshot: w.session.Snapshot(), Err: err}
	}
}

// Submit queues op and returns a channel that receives its result.
func (w *Worker) Submit(op Op) <-chan Result {
	result := make(chan Result, 1)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		result <- Result{Snapshot: w.session.Snapshot(), Err: ErrWorkerClosed}
		return result
	}
	w.jobs <- job{op: op, result: result}
	return result
}

// Do submits op and waits for it.
func (w *Worker) Do(op Op) Result {
	return <-w.Submit(op)
}

// Close stops accepting work, waits for pending operations and flushes the
// session one last time.
func (w *Worker) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.jobs)
	w.mu.Unlock()

	<-w.done
	w.session.Close()
	debug.Log(debug.SESSION, "worker closed")
}
