package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/pubfit/membership-api/internal/core/domain"
	"github.com/pubfit/membership-api/internal/core/ports"
)

const (
	defaultBuffer  = 256
	publishTimeout = 5 * time.Second
	drainTimeout   = 5 * time.Second
)

var (
	// ErrQueueFull is returned when the dispatcher cannot accept another decision.
	ErrQueueFull = errors.New("decision queue full")
	// ErrDispatcherClosed is returned for decisions enqueued after shutdown began.
	ErrDispatcherClosed = errors.New("decision dispatcher closed")
)

// Publisher is the subset of *amqp.Channel used for publishing.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Dispatcher hands registration decisions to a single background worker that
// publishes them to RabbitMQ in submission order.
type Dispatcher struct {
	events chan domain.RegistrationDecision
	pub    Publisher
	now    func() time.Time
	log    zerolog.Logger
	done   chan struct{}

	// mu guards closed. Senders hold the read lock.
	mu        sync.RWMutex
	closed    bool
	quit      chan struct{}
	closeOnce sync.Once
}

// NewDispatcher creates a Dispatcher. If buffer <= 0, defaultBuffer is used.
func NewDispatcher(pub Publisher, buffer int, log zerolog.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Dispatcher{
		events: make(chan domain.RegistrationDecision, buffer),
		pub:    pub,
		now:    time.Now,
		log:    log,
		done:   make(chan struct{}),
		quit:   make(chan struct{}),
	}
}

// Start launches the worker. The worker stops on Close or when ctx is
// cancelled; either way it refuses new decisions, publishes what is already
// queued and then closes Done.
func (d *Dispatcher) Start(ctx context.Context) {
	go d.run(ctx)
}

// Close stops intake and lets the worker flush the queue. Call it after the
// HTTP server has finished in-flight requests, then wait on Done.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() { close(d.quit) })
}

// Done is closed once the worker has stopped.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

// PublishDecision enqueues d without blocking.
func (d *Dispatcher) PublishDecision(_ context.Context, dec domain.RegistrationDecision) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}
	select {
	case d.events <- dec:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			d.stopIntake()
			d.drain()
			return
		case <-d.quit:
			d.stopIntake()
			d.drain()
			return
		case dec := <-d.events:
			d.deliver(ctx, dec)
		}
	}
}

func (d *Dispatcher) stopIntake() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

func (d *Dispatcher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case dec := <-d.events:
			d.deliver(ctx, dec)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, dec domain.RegistrationDecision) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := d.publish(ctx, dec); err != nil {
		d.log.Error().Err(err).
			Str("registration_id", dec.RegistrationID).
			Str("status", string(dec.Status)).
			Msg("decision publish failed")
	}
}

func (d *Dispatcher) publish(ctx context.Context, dec domain.RegistrationDecision) error {
	body, err := json.Marshal(dec)
	if err != nil {
		return fmt.Errorf("marshal decision: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    dec.RegistrationID,
		Type:         DecisionQueue,
		Timestamp:    d.now().UTC(),
		Body:         body,
	}
	if err := d.pub.PublishWithContext(ctx, "", DecisionQueue, false, false, msg); err != nil {
		return fmt.Errorf("publish decision: %w", err)
	}
	return nil
}

var (
	_ ports.DecisionNotifier = (*Dispatcher)(nil)
	_ ports.DecisionNotifier = NoopNotifier{}
)
