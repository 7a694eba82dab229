package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/payflow/payment-gateway/internal/core/domain"
	"github.com/payflow/payment-gateway/internal/core/ports"
	"github.com/payflow/payment-gateway/internal/pkg/metrics"
)

const (
	defaultWorkers        = 4
	defaultChannelBuffer  = 256
	defaultPublishTimeout = 5 * time.Second
)

// Options sizes the dispatcher. Zero values fall back to the defaults.
type Options struct {
	Workers        int
	Buffer         int
	PublishTimeout time.Duration
}

// AlertDispatcher hands alerts to a fixed set of workers using consistent
// hashing on the recipient email, so one recipient's alerts are sent in
// order. Publish never blocks the caller.
type AlertDispatcher struct {
	workers []chan domain.AlertMessage
	sink    ports.AlertSink
	timeout time.Duration
	log     zerolog.Logger

	mu      sync.RWMutex
	started bool
	closed  bool
	wg      sync.WaitGroup
}

// NewAlertDispatcher creates a dispatcher that delivers through sink.
func NewAlertDispatcher(sink ports.AlertSink, opts Options, log zerolog.Logger) *AlertDispatcher {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Buffer <= 0 {
		opts.Buffer = defaultChannelBuffer
	}
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = defaultPublishTimeout
	}
	d := &AlertDispatcher{
		workers: make([]chan domain.AlertMessage, opts.Workers),
		sink:    sink,
		timeout: opts.PublishTimeout,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AlertMessage, opts.Buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers exit when ctx is cancelled
// or after Stop has drained their channels.
func (d *AlertDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Publish enqueues msg for its recipient's worker. It fails with
// domain.ErrAlertQueueFull when that worker is saturated or the dispatcher
// has been stopped. The caller's context is not used for delivery.
func (d *AlertDispatcher) Publish(_ context.Context, msg domain.AlertMessage) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.AlertsDroppedTotal.Inc()
		return domain.ErrAlertQueueFull
	}

	idx := d.shardIndex(msg.Email)
	select {
	case d.workers[idx] <- msg:
		metrics.AlertsEnqueuedTotal.Inc()
		metrics.AlertQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	default:
		metrics.AlertsDroppedTotal.Inc()
		return domain.ErrAlertQueueFull
	}
}

// Stop refuses new alerts, lets workers flush what is queued and waits for
// them, or gives up when ctx expires.
func (d *AlertDispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *AlertDispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AlertDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AlertMessage) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			metrics.AlertQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.deliver(ctx, id, msg)
		}
	}
}

func (d *AlertDispatcher) deliver(ctx context.Context, workerID int, msg domain.AlertMessage) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	if err := d.sink.Send(sendCtx, msg); err != nil {
		metrics.AlertsPublishedTotal.WithLabelValues("error").Inc()
		d.log.Error().Err(err).
			Str("event_id", msg.EventID).
			Str("operation", string(msg.Operation)).
			Int("worker_id", workerID).
			Msg("alert delivery failed")
		return
	}

	metrics.AlertsPublishedTotal.WithLabelValues("ok").Inc()
	d.log.Debug().
		Str("event_id", msg.EventID).
		Int("worker_id", workerID).
		Msg("alert delivered")
}
