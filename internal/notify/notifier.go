// Package notify sends transactional e-mails off the request path.
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher queues messages for a single worker, like the audit
// dispatcher. A full queue drops the message.
type Dispatcher struct {
	mailer  Mailer
	logger  *zap.Logger
	timeout time.Duration
	queue   chan Message
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(mailer Mailer, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		mailer:  mailer,
		logger:  logger,
		timeout: 15 * time.Second,
		queue:   make(chan Message, 100),
		done:    make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.mailer.Send(ctx, msg); err != nil {
			d.logger.Warn("notification failed", zap.String("to", msg.To), zap.String("subject", msg.Subject), zap.Error(err))
		}
		cancel()
	}
}

func (d *Dispatcher) Notify(msgs ...Message) {
	if d == nil {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}
	for _, msg := range msgs {
		if msg.To == "" {
			continue
		}
		select {
		case d.queue <- msg:
		default:
			d.logger.Warn("notification queue full, dropping message", zap.String("subject", msg.Subject))
		}
	}
}

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

// LogMailer only logs messages. It is used when no SMTP server is set up.
type LogMailer struct {
	Logger *zap.Logger
}

func (m LogMailer) Send(_ context.Context, msg Message) error {
	m.Logger.Info("email (not sent, smtp disabled)", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}
