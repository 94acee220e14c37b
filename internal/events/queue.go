package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Handler consumes a TransitionEvent. Handler failures never propagate to the
// transition caller; the handler owns its own logging.
type Handler func(context.Context, TransitionEvent)

// DispatchQueue serializes event delivery per complaint while letting
// unrelated complaints dispatch concurrently. Per-complaint queues are
// created lazily on first enqueue and dropped again once drained.
type DispatchQueue struct {
	mu      sync.Mutex
	queues  map[string]*complaintQueue
	handler Handler
	logger  *zap.Logger
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	closed  bool
}

// A complaintQueue is either draining (a goroutine owns it) or about to be
// removed from the map; there is no idle-but-present state.
type complaintQueue struct {
	pending []TransitionEvent
}

// NewDispatchQueue constructs the process-wide queue set.
func NewDispatchQueue(handler Handler, logger *zap.Logger) *DispatchQueue {
	ctx, cancel := context.WithCancel(context.Background())
	return &DispatchQueue{
		queues:  make(map[string]*complaintQueue),
		handler: handler,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Enqueue appends the event to its complaint's FIFO queue and starts a drain
// goroutine if none is running for that complaint. It never blocks on the
// handler.
func (q *DispatchQueue) Enqueue(event TransitionEvent) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.logger.Warn("dispatch queue closed, dropping event",
			zap.String("complaint_id", event.ComplaintID),
			zap.String("event", string(event.Type)))
		return
	}
	cq, ok := q.queues[event.ComplaintID]
	if !ok {
		cq = &complaintQueue{}
		q.queues[event.ComplaintID] = cq
	}
	cq.pending = append(cq.pending, event)
	if !ok {
		q.wg.Add(1)
		go q.drain(event.ComplaintID)
	}
	q.mu.Unlock()
}

// drain processes the complaint's queue FIFO until empty, then removes it.
func (q *DispatchQueue) drain(complaintID string) {
	defer q.wg.Done()
	for {
		q.mu.Lock()
		cq := q.queues[complaintID]
		if len(cq.pending) == 0 {
			delete(q.queues, complaintID)
			q.mu.Unlock()
			return
		}
		event := cq.pending[0]
		cq.pending = cq.pending[1:]
		q.mu.Unlock()

		q.handler(q.ctx, event)
	}
}

// Pending reports the number of complaints with undrained events.
func (q *DispatchQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queues)
}

// Close stops accepting events and waits for running drains to finish.
// Committed events already enqueued are still delivered; channel retries past
// the shutdown deadline are abandoned via the queue context.
func (q *DispatchQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	q.wg.Wait()
	q.cancel()
}
