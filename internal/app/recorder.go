package app

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"

	"github.com/ayusman/leapmedia/internal/store"
)

// errRecorderFull is returned when a history write is dropped.
var errRecorderFull = errors.New("history queue full")

type recordOp func(*store.EventRepository) error

// recorder applies history writes on one goroutine so the frame pipeline
// never waits on the database. Writes are applied in submission order.
type recorder struct {
	repo *store.EventRepository
	ops  chan recordOp
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool

	dropped atomic.Int64
}

func newRecorder(repo *store.EventRepository, size int) *recorder {
	r := &recorder{repo: repo, ops: make(chan recordOp, size)}
	r.wg.Add(1)
	go r.loop()
	return r
}

func (r *recorder) loop() {
	defer r.wg.Done()
	for op := range r.ops {
		if err := op(r.repo); err != nil {
			log.Printf("Failed to record event: %v", err)
		}
	}
}

// submit queues op without blocking.
func (r *recorder) submit(op recordOp) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errRecorderFull
	}
	select {
	case r.ops <- op:
		return nil
	default:
		r.dropped.Add(1)
		return errRecorderFull
	}
}

// create queues an insert of e.
func (r *recorder) create(e *store.Event) error {
	return r.submit(func(repo *store.EventRepository) error {
		return repo.Create(e)
	})
}

// setResult queues an update of the outcome of event id.
func (r *recorder) setResult(id string, success bool, errMsg string) error {
	return r.submit(func(repo *store.EventRepository) error {
		return repo.SetResult(id, success, errMsg)
	})
}

// close flushes pending writes and stops the goroutine.
func (r *recorder) close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.ops)
	r.mu.Unlock()

	r.wg.Wait()
}
