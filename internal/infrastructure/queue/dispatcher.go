// Package queue provides the asynchronous mail dispatcher. Account flows
// enqueue mails fire-and-forget; delivery happens on background workers and
// failures are logged and counted, never surfaced to the request path.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/basisdhar/mrmanager/internal/api/metrics"
	"github.com/basisdhar/mrmanager/internal/infrastructure/mail"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// MailSender delivers a single rendered message (SMTP in production).
type MailSender interface {
	Send(msg mail.Message) error
}

// Dispatcher routes mails to a fixed set of workers using consistent hashing
// on the recipient address, keeping per-recipient send order stable.
type Dispatcher struct {
	workers []chan mail.Message
	sender  MailSender
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender MailSender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan mail.Message, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan mail.Message, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// EnqueueVerification implements ports.MailQueue.
func (d *Dispatcher) EnqueueVerification(email, username, link string) {
	d.enqueue(mail.VerificationMessage(email, username, link))
}

// EnqueuePasswordReset implements ports.MailQueue.
func (d *Dispatcher) EnqueuePasswordReset(email, username, link string) {
	d.enqueue(mail.PasswordResetMessage(email, username, link))
}

// enqueue is non-blocking: when the responsible worker's buffer is full the
// mail is dropped with a log line rather than stalling a request.
func (d *Dispatcher) enqueue(msg mail.Message) {
	idx := d.shardIndex(msg.To)
	select {
	case d.workers[idx] <- msg:
		metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().Str("to", msg.To).Str("kind", msg.Kind).Msg("mail queue full, dropping mail")
		metrics.MailsSentTotal.WithLabelValues(msg.Kind, "error").Inc()
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan mail.Message) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			metrics.MailQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
			if err := d.sender.Send(msg); err != nil {
				d.log.Error().Err(err).
					Str("to", msg.To).
					Str("kind", msg.Kind).
					Int("worker_id", id).
					Msg("mail delivery failed")
				metrics.MailsSentTotal.WithLabelValues(msg.Kind, "error").Inc()
				continue
			}
			metrics.MailsSentTotal.WithLabelValues(msg.Kind, "ok").Inc()
			d.log.Info().Str("to", msg.To).Str("kind", msg.Kind).Msg("mail sent")
		}
	}
}
