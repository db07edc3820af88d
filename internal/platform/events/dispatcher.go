// Package events runs an in-process, bounded publish/subscribe dispatcher.
//
// Publish never blocks: when the buffer is full the notification is dropped
// and logged. Every accepted notification is handed to each subscriber
// registered for its name exactly once, on a worker goroutine, with a context
// that keeps the publisher's values but not its cancellation.
package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/Apurer/go-gin-bookstore/internal/platform/events"

const (
	DefaultWorkers    = 4
	DefaultBufferSize = 256
)

// ErrClosed is returned by Shutdown when called twice.
var ErrClosed = errors.New("dispatcher already shut down")

// Event is a domain notification.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// Subscriber reacts to events. Returned errors are logged and never reach the publisher.
type Subscriber interface {
	Handle(ctx context.Context, event Event) error
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc func(ctx context.Context, event Event) error

func (f SubscriberFunc) Handle(ctx context.Context, event Event) error { return f(ctx, event) }

// Stats is a snapshot of the dispatcher counters.
type Stats struct {
	Published uint64 `json:"published"`
	Delivered uint64 `json:"delivered"`
	Dropped   uint64 `json:"dropped"`
	Failed    uint64 `json:"failed"`
	Pending   int    `json:"pending"`
}

type subscription struct {
	name       string
	subscriber Subscriber
}

type envelope struct {
	ctx   context.Context
	event Event
}

// Dispatcher fans events out to subscribers on a fixed worker pool.
type Dispatcher struct {
	workers int
	queue   chan envelope

	mu          sync.RWMutex
	subscribers map[string][]subscription
	closed      bool
	started     bool

	wg      sync.WaitGroup
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics dispatcherMetrics

	published atomic.Uint64
	delivered atomic.Uint64
	dropped   atomic.Uint64
	failed    atomic.Uint64
}

type Option func(*Dispatcher)

func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

func WithBufferSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queue = make(chan envelope, n)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(d *Dispatcher) { d.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(d *Dispatcher) { d.metrics = newDispatcherMetrics(m) }
}

// NewDispatcher builds an idle dispatcher. Call Start before publishing.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		workers:     DefaultWorkers,
		queue:       make(chan envelope, DefaultBufferSize),
		subscribers: map[string][]subscription{},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:      nooptrace.NewTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.tracer == nil {
		d.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return d
}

// Subscribe registers a named subscriber for eventName.
func (d *Dispatcher) Subscribe(eventName, name string, subscriber Subscriber) {
	if subscriber == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers[eventName] = append(d.subscribers[eventName], subscription{name: name, subscriber: subscriber})
}

// Start launches the workers. Workers stop when ctx is done or after Shutdown drains the queue.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.work(ctx)
	}
}

// Publish enqueues event without blocking and reports whether it was accepted.
func (d *Dispatcher) Publish(ctx context.Context, event Event) bool {
	if event == nil {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(ctx, event, "dispatcher closed")
		return false
	}
	select {
	case d.queue <- envelope{ctx: context.WithoutCancel(ctx), event: event}:
		d.published.Add(1)
		d.metrics.add(ctx, d.metrics.published, event.EventName())
		return true
	default:
		d.drop(ctx, event, "buffer full")
		return false
	}
}

// Shutdown closes intake and waits for queued notifications to be delivered.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.closed = true
	close(d.queue)
	started := d.started
	d.mu.Unlock()
	if !started {
		return nil
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("dispatcher drain interrupted with %d pending: %w", len(d.queue), ctx.Err())
	}
}

// Stats returns the current counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Published: d.published.Load(),
		Delivered: d.delivered.Load(),
		Dropped:   d.dropped.Load(),
		Failed:    d.failed.Load(),
		Pending:   len(d.queue),
	}
}

func (d *Dispatcher) work(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-d.queue:
			if !ok {
				return
			}
			d.dispatch(env)
		}
	}
}

func (d *Dispatcher) dispatch(env envelope) {
	name := env.event.EventName()
	d.mu.RLock()
	subs := append([]subscription(nil), d.subscribers[name]...)
	d.mu.RUnlock()
	if len(subs) == 0 {
		d.logger.LogAttrs(env.ctx, slog.LevelDebug, "event has no subscribers", slog.String("event", name))
		return
	}
	for _, sub := range subs {
		d.deliver(env, sub)
	}
}

func (d *Dispatcher) deliver(env envelope, sub subscription) {
	name := env.event.EventName()
	ctx, span := d.tracer.Start(env.ctx, "Dispatcher.Deliver", trace.WithAttributes(
		attribute.String("event.name", name),
		attribute.String("subscriber", sub.name),
	))
	defer span.End()

	err := d.invoke(ctx, sub.subscriber, env.event)
	if err != nil {
		d.failed.Add(1)
		d.metrics.add(ctx, d.metrics.failed, name)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.logger.LogAttrs(ctx, slog.LevelError, "subscriber failed",
			slog.String("event", name),
			slog.String("subscriber", sub.name),
			slog.String("error", err.Error()),
		)
		return
	}
	d.delivered.Add(1)
	d.metrics.add(ctx, d.metrics.delivered, name)
}

func (d *Dispatcher) invoke(ctx context.Context, subscriber Subscriber, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber panic: %v\n%s", r, debug.Stack())
		}
	}()
	return subscriber.Handle(ctx, event)
}

func (d *Dispatcher) drop(ctx context.Context, event Event, reason string) {
	d.dropped.Add(1)
	d.metrics.add(ctx, d.metrics.dropped, event.EventName())
	d.logger.LogAttrs(ctx, slog.LevelWarn, "event dropped",
		slog.String("event", event.EventName()),
		slog.String("reason", reason),
	)
}

type dispatcherMetrics struct {
	published metric.Int64Counter
	delivered metric.Int64Counter
	dropped   metric.Int64Counter
	failed    metric.Int64Counter
}

func newDispatcherMetrics(m metric.Meter) dispatcherMetrics {
	if m == nil {
		return dispatcherMetrics{}
	}
	published, _ := m.Int64Counter("events.dispatcher.published", metric.WithDescription("Events accepted for delivery"))
	delivered, _ := m.Int64Counter("events.dispatcher.delivered", metric.WithDescription("Successful subscriber deliveries"))
	dropped, _ := m.Int64Counter("events.dispatcher.dropped", metric.WithDescription("Events dropped before delivery"))
	failed, _ := m.Int64Counter("events.dispatcher.failed", metric.WithDescription("Subscriber deliveries that failed"))
	return dispatcherMetrics{published: published, delivered: delivered, dropped: dropped, failed: failed}
}

func (dispatcherMetrics) add(ctx context.Context, counter metric.Int64Counter, event string) {
	if counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(attribute.String("event.name", event)))
	}
}
