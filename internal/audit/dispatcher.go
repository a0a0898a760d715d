package audit

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Store persists audit events.
type Store interface {
	Log(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	store  Store
	logger *zap.Logger
	queue  chan Event
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(store Store, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		store:  store,
		logger: logger,
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.store.Log(context.Background(), ev); err != nil {
			d.logger.Warn("audit write failed", zap.String("action", ev.Action), zap.Error(err))
		}
	}
}

// Dispatch queues ev without blocking; events are dropped when the queue is
// full. A nil Dispatcher ignores events.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.logger.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done
}
